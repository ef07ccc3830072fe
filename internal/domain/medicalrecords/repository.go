package medicalrecords

import (
	"context"

	"pet-hotel-api/internal/domain/inventory"
)

type ListFilter struct {
	PetID    string
	Page     int
	PageSize int
}

type Repository interface {
	// Create persiste la entrada, sus recetas y los descuentos de stock
	// como unidad atómica. Si algún producto no alcanza, retorna
	// *inventory.InsufficientStockError y no persiste nada.
	Create(ctx context.Context, rec MedicalRecord, prescriptions []Prescription, movs []inventory.Transaction) error

	Get(ctx context.Context, id string) (MedicalRecord, error)
	GetPrescriptions(ctx context.Context, recordID string) ([]Prescription, error)

	// ListByPet ordena por created_at DESC.
	ListByPet(ctx context.Context, f ListFilter) ([]MedicalRecord, int, error)
}
