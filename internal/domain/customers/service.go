package customers

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

type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, ErrInvalidInput
	}

	now := s.now()
	c := Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Customer{}, ErrInvalidInput
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, f ListFilter) ([]Customer, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.ListCustomers(ctx, f)
}

type CreatePetInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Microchip string
	Notes     string
}

func (s *Service) CreatePet(ctx context.Context, ownerCustomerID string, in CreatePetInput) (Pet, error) {
	if strings.TrimSpace(ownerCustomerID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:              uuid.NewString(),
		OwnerCustomerID: strings.TrimSpace(ownerCustomerID),
		Name:            strings.TrimSpace(in.Name),
		Species:         Species(strings.TrimSpace(in.Species)),
		Breed:           strings.TrimSpace(in.Breed),
		Sex:             Sex(strings.TrimSpace(in.Sex)),
		BirthDate:       in.BirthDate,
		Microchip:       strings.TrimSpace(in.Microchip),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreatePet(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetPet(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetPet(ctx, id)
}

func (s *Service) ListPetsByOwner(ctx context.Context, ownerCustomerID string) ([]Pet, error) {
	return s.repo.ListPetsByOwner(ctx, ownerCustomerID)
}

// UpdatePetInput: punteros para PATCH real, nil = no tocar.
type UpdatePetInput struct {
	Name      *string
	Breed     *string
	Sex       *string
	BirthDate *time.Time
	Microchip *string
	Notes     *string
}

func (s *Service) UpdatePet(ctx context.Context, petID string, in UpdatePetInput) (Pet, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetPet(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		p.Sex = Sex(strings.TrimSpace(*in.Sex))
	}
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	if in.Microchip != nil {
		p.Microchip = strings.TrimSpace(*in.Microchip)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.UpdatePet(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// OwnerOf expone el ownerCustomerID de una mascota.
// Se usa para chequeos de ownership desde otros módulos sin ciclos de imports.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetPet(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerCustomerID, nil
}
