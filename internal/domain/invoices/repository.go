package invoices

import (
	"context"

	"pet-hotel-api/internal/domain/inventory"
)

type ListFilter struct {
	CustomerID string
	Status     Status
	Page       int
	PageSize   int
}

type Repository interface {
	// Create persiste la factura, sus detalles y los movimientos de stock
	// (ventas de producto) como unidad atómica. Si algún decremento no
	// alcanza, retorna *inventory.InsufficientStockError y no persiste nada.
	Create(ctx context.Context, inv Invoice, details []Detail, movs []inventory.Transaction) error

	Get(ctx context.Context, id string) (Invoice, error)
	GetDetails(ctx context.Context, invoiceID string) ([]Detail, error)

	// List ordena por created_at DESC.
	List(ctx context.Context, f ListFilter) ([]Invoice, int, error)

	// SetStatus actualiza el estado y aplica los movimientos de reposición
	// (cancelación) en la misma transacción. movs puede ser nil.
	SetStatus(ctx context.Context, inv Invoice, movs []inventory.Transaction) error
}
