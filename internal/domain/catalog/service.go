package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type ServiceInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	DurationMin int
}

func (s *Service) CreateService(ctx context.Context, in ServiceInput) (ServiceOffering, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ServiceOffering{}, ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return ServiceOffering{}, ErrInvalidInput
	}
	if in.DurationMin < 0 {
		return ServiceOffering{}, ErrInvalidInput
	}

	now := s.now()
	so := ServiceOffering{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		DurationMin: in.DurationMin,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateService(ctx, so); err != nil {
		return ServiceOffering{}, err
	}
	return so, nil
}

func (s *Service) UpdateService(ctx context.Context, id string, in ServiceInput) (ServiceOffering, error) {
	so, err := s.GetService(ctx, id)
	if err != nil {
		return ServiceOffering{}, err
	}
	if strings.TrimSpace(in.Name) == "" || in.Price.IsNegative() || in.DurationMin < 0 {
		return ServiceOffering{}, ErrInvalidInput
	}

	so.Name = strings.TrimSpace(in.Name)
	so.Description = strings.TrimSpace(in.Description)
	so.Price = in.Price
	so.DurationMin = in.DurationMin
	so.UpdatedAt = s.now()

	if err := s.repo.UpdateService(ctx, so); err != nil {
		return ServiceOffering{}, err
	}
	return so, nil
}

func (s *Service) GetService(ctx context.Context, id string) (ServiceOffering, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ServiceOffering{}, ErrInvalidInput
	}
	return s.repo.GetService(ctx, id)
}

func (s *Service) ListServices(ctx context.Context, f ListFilter) ([]ServiceOffering, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.ListServices(ctx, f)
}

// DeleteService es hard delete (entidad de catálogo, sin protección de cascada).
func (s *Service) DeleteService(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteService(ctx, id)
}

type RoomTypeInput struct {
	Name        string
	Description string
	DailyRate   decimal.Decimal
}

func (s *Service) CreateRoomType(ctx context.Context, in RoomTypeInput) (RoomType, error) {
	if strings.TrimSpace(in.Name) == "" || in.DailyRate.IsNegative() {
		return RoomType{}, ErrInvalidInput
	}

	now := s.now()
	rt := RoomType{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		DailyRate:   in.DailyRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateRoomType(ctx, rt); err != nil {
		return RoomType{}, err
	}
	return rt, nil
}

func (s *Service) UpdateRoomType(ctx context.Context, id string, in RoomTypeInput) (RoomType, error) {
	rt, err := s.GetRoomType(ctx, id)
	if err != nil {
		return RoomType{}, err
	}
	if strings.TrimSpace(in.Name) == "" || in.DailyRate.IsNegative() {
		return RoomType{}, ErrInvalidInput
	}

	rt.Name = strings.TrimSpace(in.Name)
	rt.Description = strings.TrimSpace(in.Description)
	rt.DailyRate = in.DailyRate
	rt.UpdatedAt = s.now()

	if err := s.repo.UpdateRoomType(ctx, rt); err != nil {
		return RoomType{}, err
	}
	return rt, nil
}

func (s *Service) GetRoomType(ctx context.Context, id string) (RoomType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RoomType{}, ErrInvalidInput
	}
	return s.repo.GetRoomType(ctx, id)
}

func (s *Service) ListRoomTypes(ctx context.Context) ([]RoomType, error) {
	return s.repo.ListRoomTypes(ctx)
}

func (s *Service) DeleteRoomType(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteRoomType(ctx, id)
}

type RoomInput struct {
	RoomTypeID string
	Number     string
	Status     RoomStatus
}

func (s *Service) CreateRoom(ctx context.Context, in RoomInput) (Room, error) {
	if strings.TrimSpace(in.RoomTypeID) == "" || strings.TrimSpace(in.Number) == "" {
		return Room{}, ErrInvalidInput
	}
	// El room type debe existir (sin FK en memoria).
	if _, err := s.repo.GetRoomType(ctx, strings.TrimSpace(in.RoomTypeID)); err != nil {
		return Room{}, ErrNotFound
	}

	status := in.Status
	if status == "" {
		status = RoomAvailable
	}
	if status != RoomAvailable && status != RoomOccupied && status != RoomMaintenance {
		return Room{}, ErrInvalidInput
	}

	now := s.now()
	room := Room{
		ID:         uuid.NewString(),
		RoomTypeID: strings.TrimSpace(in.RoomTypeID),
		Number:     strings.TrimSpace(in.Number),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return Room{}, err
	}
	return room, nil
}

func (s *Service) UpdateRoomStatus(ctx context.Context, id string, status RoomStatus) (Room, error) {
	if status != RoomAvailable && status != RoomOccupied && status != RoomMaintenance {
		return Room{}, ErrInvalidInput
	}
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return Room{}, err
	}
	room.Status = status
	room.UpdatedAt = s.now()
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return Room{}, err
	}
	return room, nil
}

func (s *Service) GetRoom(ctx context.Context, id string) (Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Room{}, ErrInvalidInput
	}
	return s.repo.GetRoom(ctx, id)
}

func (s *Service) ListRooms(ctx context.Context) ([]Room, error) {
	return s.repo.ListRooms(ctx)
}

func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteRoom(ctx, id)
}
