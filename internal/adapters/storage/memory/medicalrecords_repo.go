package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/domain/medicalrecords"
)

type MedicalRecordsRepo struct {
	mu            sync.RWMutex
	byID          map[string]medicalrecords.MedicalRecord
	prescriptions map[string][]medicalrecords.Prescription
	inventory     *InventoryRepo
}

// NewMedicalRecordsRepo comparte el repo de inventario para aplicar los
// descuentos de stock junto con la entrada clínica.
func NewMedicalRecordsRepo(inv *InventoryRepo) *MedicalRecordsRepo {
	return &MedicalRecordsRepo{
		byID:          make(map[string]medicalrecords.MedicalRecord),
		prescriptions: make(map[string][]medicalrecords.Prescription),
		inventory:     inv,
	}
}

func (r *MedicalRecordsRepo) Create(ctx context.Context, rec medicalrecords.MedicalRecord, prescriptions []medicalrecords.Prescription, movs []inventory.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}

	// el stock primero: si no alcanza, la entrada no se registra
	r.inventory.mu.Lock()
	err := r.inventory.applyMovementsLocked(movs)
	r.inventory.mu.Unlock()
	if err != nil {
		return err
	}

	r.byID[rec.ID] = rec
	r.prescriptions[rec.ID] = append([]medicalrecords.Prescription(nil), prescriptions...)
	return nil
}

func (r *MedicalRecordsRepo) Get(ctx context.Context, id string) (medicalrecords.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return medicalrecords.MedicalRecord{}, medicalrecords.ErrNotFound
	}
	return rec, nil
}

func (r *MedicalRecordsRepo) GetPrescriptions(ctx context.Context, recordID string) ([]medicalrecords.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]medicalrecords.Prescription(nil), r.prescriptions[recordID]...), nil
}

func (r *MedicalRecordsRepo) ListByPet(ctx context.Context, f medicalrecords.ListFilter) ([]medicalrecords.MedicalRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]medicalrecords.MedicalRecord, 0)
	for _, rec := range r.byID {
		if rec.PetID != f.PetID {
			continue
		}
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, f.Page, f.PageSize), len(all), nil
}
