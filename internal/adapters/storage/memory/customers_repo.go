package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-hotel-api/internal/domain/customers"
)

type CustomersRepo struct {
	mu        sync.RWMutex
	customers map[string]customers.Customer
	pets      map[string]customers.Pet
}

func NewCustomersRepo() *CustomersRepo {
	return &CustomersRepo{
		customers: make(map[string]customers.Customer),
		pets:      make(map[string]customers.Pet),
	}
}

func (r *CustomersRepo) CreateCustomer(ctx context.Context, c customers.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("customer id required")
	}
	if _, exists := r.customers[c.ID]; exists {
		return errors.New("customer already exists")
	}
	r.customers[c.ID] = c
	return nil
}

func (r *CustomersRepo) GetCustomer(ctx context.Context, id string) (customers.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return customers.Customer{}, customers.ErrNotFound
	}
	return c, nil
}

func (r *CustomersRepo) ListCustomers(ctx context.Context, f customers.ListFilter) ([]customers.Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	all := make([]customers.Customer, 0)
	for _, c := range r.customers {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r *CustomersRepo) CreatePet(ctx context.Context, p customers.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.pets[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.pets[p.ID] = p
	return nil
}

func (r *CustomersRepo) UpdatePet(ctx context.Context, p customers.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pets[p.ID]; !exists {
		return customers.ErrNotFound
	}
	r.pets[p.ID] = p
	return nil
}

func (r *CustomersRepo) GetPet(ctx context.Context, id string) (customers.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pets[id]
	if !ok {
		return customers.Pet{}, customers.ErrNotFound
	}
	return p, nil
}

func (r *CustomersRepo) ListPetsByOwner(ctx context.Context, ownerCustomerID string) ([]customers.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]customers.Pet, 0)
	for _, p := range r.pets {
		if p.OwnerCustomerID == ownerCustomerID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// paginate corta la página pedida (1-indexed) de un slice ya ordenado.
func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
