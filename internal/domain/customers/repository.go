package customers

import "context"

// ListFilter aplica a ListCustomers (búsqueda + paginación 1-indexed).
type ListFilter struct {
	Search   string
	Page     int
	PageSize int
}

type Repository interface {
	CreateCustomer(ctx context.Context, c Customer) error
	GetCustomer(ctx context.Context, id string) (Customer, error)
	ListCustomers(ctx context.Context, f ListFilter) ([]Customer, int, error)

	CreatePet(ctx context.Context, p Pet) error
	UpdatePet(ctx context.Context, p Pet) error
	GetPet(ctx context.Context, id string) (Pet, error)
	ListPetsByOwner(ctx context.Context, ownerCustomerID string) ([]Pet, error)
}
