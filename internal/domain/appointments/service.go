package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotPending   = errors.New("appointment is not pending")
	ErrBadState     = errors.New("invalid state transition")
	ErrPastDate     = errors.New("scheduled date must be in the future")
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

type CreateInput struct {
	CustomerID string
	PetID      string
	ServiceID  string
	RoomID     string

	CustomerName string
	PetName      string
	ServiceName  string

	ScheduledAt time.Time
	Notes       string
}

// Create inicializa la reserva en pending.
// Ownership del pet y existencia de service/room los valida el handler
// (cross-módulo); acá solo reglas propias: campos y fecha futura estricta.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(in.CustomerID) == "" || strings.TrimSpace(in.PetID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.ScheduledAt.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if !in.ScheduledAt.After(s.now()) {
		return Appointment{}, ErrPastDate
	}

	now := s.now()
	a := Appointment{
		ID:           uuid.NewString(),
		CustomerID:   strings.TrimSpace(in.CustomerID),
		PetID:        strings.TrimSpace(in.PetID),
		ServiceID:    strings.TrimSpace(in.ServiceID),
		RoomID:       strings.TrimSpace(in.RoomID),
		CustomerName: strings.TrimSpace(in.CustomerName),
		PetName:      strings.TrimSpace(in.PetName),
		ServiceName:  strings.TrimSpace(in.ServiceName),
		ScheduledAt:  in.ScheduledAt,
		Notes:        strings.TrimSpace(in.Notes),
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Appointment, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.List(ctx, f)
}

// Accept: solo desde pending. receiverUserID queda como staff asignado.
func (s *Service) Accept(ctx context.Context, id, receiverUserID string) (Appointment, error) {
	return s.resolvePending(ctx, id, receiverUserID, StatusAccepted)
}

// Reject: solo desde pending.
func (s *Service) Reject(ctx context.Context, id, receiverUserID string) (Appointment, error) {
	return s.resolvePending(ctx, id, receiverUserID, StatusRejected)
}

func (s *Service) resolvePending(ctx context.Context, id, receiverUserID string, to Status) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if a.Status != StatusPending {
		return Appointment{}, ErrNotPending
	}

	a.Status = to
	a.ReceiverUserID = strings.TrimSpace(receiverUserID)
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Cancel: válido desde cualquier estado no terminal.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if !CanTransition(a.Status, StatusCancelled) {
		return Appointment{}, ErrBadState
	}

	a.Status = StatusCancelled
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// CheckIn estampa la llegada; solo desde accepted.
func (s *Service) CheckIn(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if !CanTransition(a.Status, StatusCheckedIn) {
		return Appointment{}, ErrBadState
	}

	now := s.now()
	a.Status = StatusCheckedIn
	a.CheckInAt = &now
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// CheckOut estampa la salida; solo desde checked_in.
func (s *Service) CheckOut(ctx context.Context, id string) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if !CanTransition(a.Status, StatusCheckedOut) {
		return Appointment{}, ErrBadState
	}

	now := s.now()
	a.Status = StatusCheckedOut
	a.CheckOutAt = &now
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}
