package medicalrecords

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-hotel-api/internal/domain/inventory"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID          map[string]MedicalRecord
	prescriptions map[string][]Prescription
	stock         map[string]int
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:          map[string]MedicalRecord{},
		prescriptions: map[string][]Prescription{},
		stock:         map[string]int{},
	}
}

func (r *testRepo) Create(ctx context.Context, rec MedicalRecord, prescriptions []Prescription, movs []inventory.Transaction) error {
	deltas := map[string]int{}
	for _, m := range movs {
		if _, ok := r.stock[m.ProductID]; !ok {
			return errors.New("repo: product not found")
		}
		if r.stock[m.ProductID]+deltas[m.ProductID]+m.Change < 0 {
			return &inventory.InsufficientStockError{
				ProductID: m.ProductID,
				Requested: -m.Change,
				Available: r.stock[m.ProductID] + deltas[m.ProductID],
			}
		}
		deltas[m.ProductID] += m.Change
	}
	for id, d := range deltas {
		r.stock[id] += d
	}
	r.byID[rec.ID] = rec
	r.prescriptions[rec.ID] = prescriptions
	return nil
}

func (r *testRepo) Get(ctx context.Context, id string) (MedicalRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return MedicalRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *testRepo) GetPrescriptions(ctx context.Context, recordID string) ([]Prescription, error) {
	return r.prescriptions[recordID], nil
}

func (r *testRepo) ListByPet(ctx context.Context, f ListFilter) ([]MedicalRecord, int, error) {
	out := make([]MedicalRecord, 0)
	for _, rec := range r.byID {
		if rec.PetID == f.PetID {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_RequiresClinicalFindings(t *testing.T) {
	svc := NewService(newTestRepo())

	// ni síntomas ni diagnóstico
	_, _, err := svc.Create(context.Background(), "vet-1", CreateInput{
		PetID: "pet-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without findings, got %v", err)
	}

	_, _, err = svc.Create(context.Background(), "vet-1", CreateInput{
		Diagnosis: "otitis",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without pet, got %v", err)
	}

	// solo síntomas alcanza: el diagnóstico puede venir después
	rec, _, err := svc.Create(context.Background(), "vet-1", CreateInput{
		PetID:    "pet-1",
		Symptoms: "rasca la oreja",
	})
	if err != nil {
		t.Fatalf("Create with symptoms only returned error: %v", err)
	}
	if rec.Symptoms != "rasca la oreja" || rec.Diagnosis != "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestService_Create_ExaminationDate(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// sin fecha explícita: la consulta fue ahora
	rec, _, err := svc.Create(context.Background(), "vet-1", CreateInput{
		PetID:     "pet-1",
		Diagnosis: "otitis",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !rec.ExaminationDate.Equal(now) {
		t.Fatalf("expected examination date defaulted to now, got %v", rec.ExaminationDate)
	}

	// entrada cargada con demora: la fecha de consulta se respeta
	examined := now.AddDate(0, 0, -3)
	rec, _, err = svc.Create(context.Background(), "vet-1", CreateInput{
		PetID:           "pet-1",
		Symptoms:        "letargo",
		ExaminationDate: examined,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !rec.ExaminationDate.Equal(examined) {
		t.Fatalf("expected back-dated examination %v, got %v", examined, rec.ExaminationDate)
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at stamped now, got %v", rec.CreatedAt)
	}
}

func TestService_Create_PrescriptionsDiscountStock(t *testing.T) {
	repo := newTestRepo()
	repo.stock["med-1"] = 10
	svc := NewService(repo)

	rec, prescriptions, err := svc.Create(context.Background(), "vet-1", CreateInput{
		PetID:     "pet-1",
		PetName:   "Milo",
		Diagnosis: "otitis",
		Treatment: "gotas 2x día",
		Prescriptions: []PrescriptionInput{
			{ProductID: "med-1", ProductName: "Gotas", Quantity: 2, Dosage: "2ml"},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if rec.VetUserID != "vet-1" {
		t.Fatalf("expected vet stamped, got %q", rec.VetUserID)
	}
	if len(prescriptions) != 1 || prescriptions[0].RecordID != rec.ID {
		t.Fatalf("expected prescription linked to record, got %#v", prescriptions)
	}
	if repo.stock["med-1"] != 8 {
		t.Fatalf("expected stock 8 after prescription, got %d", repo.stock["med-1"])
	}
}

func TestService_Create_InsufficientStock_PersistsNothing(t *testing.T) {
	repo := newTestRepo()
	repo.stock["med-1"] = 1
	svc := NewService(repo)

	_, _, err := svc.Create(context.Background(), "vet-1", CreateInput{
		PetID:     "pet-1",
		Diagnosis: "otitis",
		Prescriptions: []PrescriptionInput{
			{ProductID: "med-1", Quantity: 5},
		},
	})

	var insufficient *inventory.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no record persisted")
	}
	if repo.stock["med-1"] != 1 {
		t.Fatalf("expected stock untouched at 1, got %d", repo.stock["med-1"])
	}
}

func TestService_Create_RejectsInvalidPrescription(t *testing.T) {
	repo := newTestRepo()
	repo.stock["med-1"] = 10
	svc := NewService(repo)

	_, _, err := svc.Create(context.Background(), "vet-1", CreateInput{
		PetID:     "pet-1",
		Diagnosis: "otitis",
		Prescriptions: []PrescriptionInput{
			{ProductID: "med-1", Quantity: 0},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for qty 0, got %v", err)
	}
}
