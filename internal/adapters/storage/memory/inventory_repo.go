package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-hotel-api/internal/domain/inventory"
)

type InventoryRepo struct {
	mu       sync.RWMutex
	products map[string]inventory.Product
	ledger   []inventory.Transaction
}

func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{
		products: make(map[string]inventory.Product),
		ledger:   make([]inventory.Transaction, 0),
	}
}

func (r *InventoryRepo) CreateProduct(ctx context.Context, p inventory.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id required")
	}
	if _, exists := r.products[p.ID]; exists {
		return errors.New("product already exists")
	}
	r.products[p.ID] = p
	return nil
}

func (r *InventoryRepo) UpdateProduct(ctx context.Context, p inventory.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.products[p.ID]
	if !exists {
		return inventory.ErrNotFound
	}
	// el balance cacheado no se toca acá: solo lo mueve el ledger
	p.StockQuantity = prev.StockQuantity
	r.products[p.ID] = p
	return nil
}

func (r *InventoryRepo) GetProduct(ctx context.Context, id string) (inventory.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return inventory.Product{}, inventory.ErrNotFound
	}
	return p, nil
}

func (r *InventoryRepo) ListProducts(ctx context.Context, f inventory.ListFilter) ([]inventory.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	all := make([]inventory.Product, 0)
	for _, p := range r.products {
		if !f.IncludeInactive && !p.Active {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r *InventoryRepo) AllProducts(ctx context.Context, includeInactive bool) ([]inventory.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Product, 0, len(r.products))
	for _, p := range r.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *InventoryRepo) SoftDeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.products[id]
	if !exists {
		return inventory.ErrNotFound
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

// ApplyMovements valida el lote completo bajo el lock antes de mutar nada:
// o entra todo o nada, igual que la versión transaccional en Postgres.
func (r *InventoryRepo) ApplyMovements(ctx context.Context, movs []inventory.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.applyMovementsLocked(movs)
}

// applyMovementsLocked asume el lock tomado; lo comparten los repos de
// facturas e historia clínica para sus escrituras compuestas.
func (r *InventoryRepo) applyMovementsLocked(movs []inventory.Transaction) error {
	// primera pasada: validar sin mutar (los lotes pueden tocar el mismo
	// producto más de una vez)
	deltas := make(map[string]int)
	for _, m := range movs {
		p, ok := r.products[m.ProductID]
		if !ok {
			return inventory.ErrNotFound
		}
		next := p.StockQuantity + deltas[m.ProductID] + m.Change
		if next < 0 {
			return &inventory.InsufficientStockError{
				ProductID:   m.ProductID,
				ProductName: p.Name,
				Requested:   -m.Change,
				Available:   p.StockQuantity + deltas[m.ProductID],
			}
		}
		deltas[m.ProductID] += m.Change
	}

	// segunda pasada: aplicar
	for id, delta := range deltas {
		p := r.products[id]
		p.StockQuantity += delta
		p.UpdatedAt = time.Now()
		r.products[id] = p
	}
	r.ledger = append(r.ledger, movs...)
	return nil
}

func (r *InventoryRepo) ListTransactions(ctx context.Context, f inventory.TxFilter) ([]inventory.Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]inventory.Transaction, 0)
	for _, m := range r.ledger {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, f.Page, f.PageSize), len(all), nil
}

func (r *InventoryRepo) SumChanges(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int)
	for _, m := range r.ledger {
		out[m.ProductID] += m.Change
	}
	return out, nil
}
