package appointments

import "context"

// ListFilter: búsqueda libre sobre nombres denormalizados, filtro exacto por
// status, ownership opcional por customer y paginación 1-indexed.
type ListFilter struct {
	Search     string
	Status     Status
	CustomerID string
	Page       int
	PageSize   int
}

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	// List ordena por scheduled_at DESC; retorna además el total sin paginar.
	List(ctx context.Context, f ListFilter) ([]Appointment, int, error)
}
