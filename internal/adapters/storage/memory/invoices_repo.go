package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/domain/invoices"
)

type InvoicesRepo struct {
	mu        sync.RWMutex
	byID      map[string]invoices.Invoice
	details   map[string][]invoices.Detail
	inventory *InventoryRepo
}

// NewInvoicesRepo comparte el repo de inventario para aplicar los
// movimientos de stock junto con la factura.
func NewInvoicesRepo(inv *InventoryRepo) *InvoicesRepo {
	return &InvoicesRepo{
		byID:      make(map[string]invoices.Invoice),
		details:   make(map[string][]invoices.Detail),
		inventory: inv,
	}
}

func (r *InvoicesRepo) Create(ctx context.Context, inv invoices.Invoice, details []invoices.Detail, movs []inventory.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(inv.ID) == "" {
		return errors.New("invoice id required")
	}
	if _, exists := r.byID[inv.ID]; exists {
		return errors.New("invoice already exists")
	}

	// el stock primero: si no alcanza, la factura no entra
	r.inventory.mu.Lock()
	err := r.inventory.applyMovementsLocked(movs)
	r.inventory.mu.Unlock()
	if err != nil {
		return err
	}

	r.byID[inv.ID] = inv
	r.details[inv.ID] = append([]invoices.Detail(nil), details...)
	return nil
}

func (r *InvoicesRepo) Get(ctx context.Context, id string) (invoices.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return invoices.Invoice{}, invoices.ErrNotFound
	}
	return inv, nil
}

func (r *InvoicesRepo) GetDetails(ctx context.Context, invoiceID string) ([]invoices.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]invoices.Detail(nil), r.details[invoiceID]...), nil
}

func (r *InvoicesRepo) List(ctx context.Context, f invoices.ListFilter) ([]invoices.Invoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]invoices.Invoice, 0)
	for _, inv := range r.byID {
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		all = append(all, inv)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r *InvoicesRepo) SetStatus(ctx context.Context, inv invoices.Invoice, movs []inventory.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[inv.ID]; !exists {
		return invoices.ErrNotFound
	}

	if len(movs) > 0 {
		r.inventory.mu.Lock()
		err := r.inventory.applyMovementsLocked(movs)
		r.inventory.mu.Unlock()
		if err != nil {
			return err
		}
	}

	r.byID[inv.ID] = inv
	return nil
}
