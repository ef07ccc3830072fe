package medicalrecords

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-hotel-api/internal/domain/inventory"

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

// PrescriptionInput llega ya resuelta: el handler valida el producto
// y congela su nombre.
type PrescriptionInput struct {
	ProductID    string
	ProductName  string
	Quantity     int
	Dosage       string
	Instructions string
}

type CreateInput struct {
	PetID           string
	PetName         string
	AppointmentID   string
	ExaminationDate time.Time
	Symptoms        string
	Diagnosis       string
	Treatment       string
	Notes           string
	WeightKg        *float64
	TemperatureC    *float64
	Prescriptions   []PrescriptionInput
}

// Create registra la entrada clínica. Cada receta descuenta stock con
// una transacción prescription referenciando la entrada; si algún
// producto no alcanza, no se persiste nada.
func (s *Service) Create(ctx context.Context, vetUserID string, in CreateInput) (MedicalRecord, []Prescription, error) {
	if strings.TrimSpace(in.PetID) == "" {
		return MedicalRecord{}, nil, ErrInvalidInput
	}
	// Una entrada sin hallazgos no dice nada: síntomas o diagnóstico,
	// al menos uno.
	if strings.TrimSpace(in.Symptoms) == "" && strings.TrimSpace(in.Diagnosis) == "" {
		return MedicalRecord{}, nil, ErrInvalidInput
	}

	now := s.now()
	examDate := in.ExaminationDate
	if examDate.IsZero() {
		examDate = now
	}
	recordID := uuid.NewString()

	prescriptions := make([]Prescription, 0, len(in.Prescriptions))
	movs := make([]inventory.Transaction, 0, len(in.Prescriptions))
	for _, p := range in.Prescriptions {
		if strings.TrimSpace(p.ProductID) == "" || p.Quantity <= 0 {
			return MedicalRecord{}, nil, ErrInvalidInput
		}

		prescriptions = append(prescriptions, Prescription{
			ID:           uuid.NewString(),
			RecordID:     recordID,
			ProductID:    strings.TrimSpace(p.ProductID),
			ProductName:  strings.TrimSpace(p.ProductName),
			Quantity:     p.Quantity,
			Dosage:       strings.TrimSpace(p.Dosage),
			Instructions: strings.TrimSpace(p.Instructions),
		})
		movs = append(movs, inventory.Transaction{
			ID:            uuid.NewString(),
			ProductID:     strings.TrimSpace(p.ProductID),
			Change:        -p.Quantity,
			Type:          inventory.TxPrescription,
			ReferenceType: "medical_record",
			ReferenceID:   recordID,
			PerformedBy:   strings.TrimSpace(vetUserID),
			CreatedAt:     now,
		})
	}

	rec := MedicalRecord{
		ID:              recordID,
		PetID:           strings.TrimSpace(in.PetID),
		PetName:         strings.TrimSpace(in.PetName),
		VetUserID:       strings.TrimSpace(vetUserID),
		AppointmentID:   strings.TrimSpace(in.AppointmentID),
		ExaminationDate: examDate,
		Symptoms:        strings.TrimSpace(in.Symptoms),
		Diagnosis:       strings.TrimSpace(in.Diagnosis),
		Treatment:       strings.TrimSpace(in.Treatment),
		Notes:           strings.TrimSpace(in.Notes),
		WeightKg:        in.WeightKg,
		TemperatureC:    in.TemperatureC,
		CreatedAt:       now,
	}

	if err := s.repo.Create(ctx, rec, prescriptions, movs); err != nil {
		return MedicalRecord{}, nil, err
	}
	return rec, prescriptions, nil
}

func (s *Service) Get(ctx context.Context, id string) (MedicalRecord, []Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MedicalRecord{}, nil, ErrInvalidInput
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return MedicalRecord{}, nil, err
	}
	prescriptions, err := s.repo.GetPrescriptions(ctx, id)
	if err != nil {
		return MedicalRecord{}, nil, err
	}
	return rec, prescriptions, nil
}

func (s *Service) ListByPet(ctx context.Context, f ListFilter) ([]MedicalRecord, int, error) {
	if strings.TrimSpace(f.PetID) == "" {
		return nil, 0, ErrInvalidInput
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.ListByPet(ctx, f)
}
