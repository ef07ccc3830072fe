package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	products map[string]Product
	ledger   []Transaction
}

func newTestRepo() *testRepo {
	return &testRepo{products: map[string]Product{}}
}

func (r *testRepo) CreateProduct(ctx context.Context, p Product) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.products[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.products[p.ID] = p
	return nil
}

func (r *testRepo) UpdateProduct(ctx context.Context, p Product) error {
	prev, ok := r.products[p.ID]
	if !ok {
		return errRepoNotFound
	}
	p.StockQuantity = prev.StockQuantity
	r.products[p.ID] = p
	return nil
}

func (r *testRepo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListProducts(ctx context.Context, f ListFilter) ([]Product, int, error) {
	out := make([]Product, 0)
	for _, p := range r.products {
		if !f.IncludeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *testRepo) AllProducts(ctx context.Context, includeInactive bool) ([]Product, error) {
	out := make([]Product, 0)
	for _, p := range r.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) SoftDeleteProduct(ctx context.Context, id string) error {
	p, ok := r.products[id]
	if !ok {
		return errRepoNotFound
	}
	p.Active = false
	r.products[id] = p
	return nil
}

func (r *testRepo) ApplyMovements(ctx context.Context, movs []Transaction) error {
	// validar primero, igual que las implementaciones reales: todo o nada
	deltas := map[string]int{}
	for _, m := range movs {
		p, ok := r.products[m.ProductID]
		if !ok {
			return errRepoNotFound
		}
		if p.StockQuantity+deltas[m.ProductID]+m.Change < 0 {
			return &InsufficientStockError{
				ProductID:   m.ProductID,
				ProductName: p.Name,
				Requested:   -m.Change,
				Available:   p.StockQuantity + deltas[m.ProductID],
			}
		}
		deltas[m.ProductID] += m.Change
	}
	for id, d := range deltas {
		p := r.products[id]
		p.StockQuantity += d
		r.products[id] = p
	}
	r.ledger = append(r.ledger, movs...)
	return nil
}

func (r *testRepo) ListTransactions(ctx context.Context, f TxFilter) ([]Transaction, int, error) {
	out := make([]Transaction, 0)
	for _, m := range r.ledger {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		out = append(out, m)
	}
	return out, len(out), nil
}

func (r *testRepo) SumChanges(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, m := range r.ledger {
		out[m.ProductID] += m.Change
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func seedProduct(t *testing.T, svc *Service, name string, minStock, reorder int) Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:         name,
		UnitPrice:    decimal.NewFromInt(100),
		Unit:         "unit",
		MinimumStock: minStock,
		ReorderLevel: reorder,
	})
	if err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}
	return p
}

func TestService_CreateProduct_StartsAtZeroStock(t *testing.T) {
	svc := NewService(newTestRepo())

	p := seedProduct(t, svc, "Shampoo", 2, 5)
	if p.StockQuantity != 0 {
		t.Fatalf("expected stock 0 on create, got %d", p.StockQuantity)
	}
	if !p.Active {
		t.Fatalf("expected product active on create")
	}
}

func TestService_ReceiveStock_AddsAndLogs(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p := seedProduct(t, svc, "Shampoo", 2, 5)

	movs, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{
		Supplier: "ACME",
		Lines:    []ReceiveLine{{ProductID: p.ID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("ReceiveStock error: %v", err)
	}
	if len(movs) != 1 || movs[0].Type != TxReceipt || movs[0].Change != 5 {
		t.Fatalf("expected one receipt of +5, got %#v", movs)
	}

	got, err := svc.GetProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProduct error: %v", err)
	}
	if got.StockQuantity != 5 {
		t.Fatalf("expected stock 5 after receive, got %d", got.StockQuantity)
	}
}

func TestService_ReceiveStock_RejectsInvalidLines(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedProduct(t, svc, "Shampoo", 2, 5)

	if _, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty lines, got %v", err)
	}
	if _, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{
		Lines: []ReceiveLine{{ProductID: p.ID, Quantity: 0}},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for qty 0, got %v", err)
	}
	if _, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{
		Lines: []ReceiveLine{{ProductID: "nope", Quantity: 1}},
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown product, got %v", err)
	}
}

func TestService_AdjustStock_NeverGoesNegative(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedProduct(t, svc, "Shampoo", 2, 5)

	if _, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{
		Lines: []ReceiveLine{{ProductID: p.ID, Quantity: 3}},
	}); err != nil {
		t.Fatalf("receive: %v", err)
	}

	// -5 sobre 3 disponibles debe fallar con InsufficientStockError
	_, err := svc.AdjustStock(context.Background(), "staff-1", p.ID, -5, "conteo")
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 3 || insufficient.Requested != 5 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}

	// el stock quedó intacto
	got, _ := svc.GetProduct(context.Background(), p.ID)
	if got.StockQuantity != 3 {
		t.Fatalf("expected stock untouched at 3, got %d", got.StockQuantity)
	}

	// delta cero es inválido
	if _, err := svc.AdjustStock(context.Background(), "staff-1", p.ID, 0, "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for delta 0, got %v", err)
	}
}

func TestClassify_SeverityBoundaries(t *testing.T) {
	base := Product{MinimumStock: 3, ReorderLevel: 6}

	cases := []struct {
		stock int
		want  Severity
	}{
		{0, SeverityOutOfStock},
		{-1, SeverityOutOfStock},
		{1, SeverityCritical},
		{2, SeverityCritical},
		{3, SeverityWarning}, // == minimum ya no es critical
		{5, SeverityWarning},
		{6, SeverityOK}, // == reorder ya no es warning
		{10, SeverityOK},
	}
	for _, c := range cases {
		p := base
		p.StockQuantity = c.stock
		if got := Classify(p); got != c.want {
			t.Errorf("Classify(stock=%d) = %s, want %s", c.stock, got, c.want)
		}
	}
}

func TestService_LowStockAlerts_FiltersOK(t *testing.T) {
	svc := NewService(newTestRepo())

	healthy := seedProduct(t, svc, "Healthy", 2, 5)
	low := seedProduct(t, svc, "Low", 2, 5)

	if _, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{
		Lines: []ReceiveLine{
			{ProductID: healthy.ID, Quantity: 10},
			{ProductID: low.ID, Quantity: 1},
		},
	}); err != nil {
		t.Fatalf("receive: %v", err)
	}

	alerts, err := svc.LowStockAlerts(context.Background())
	if err != nil {
		t.Fatalf("LowStockAlerts error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Product.ID != low.ID || alerts[0].Severity != SeverityCritical {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
}

func TestService_StockReport_CoversWholeCatalog(t *testing.T) {
	svc := NewService(newTestRepo())

	// bastante más que una página de listado
	for i := 0; i < 25; i++ {
		seedProduct(t, svc, fmt.Sprintf("Producto %02d", i), 2, 5)
	}

	report, err := svc.StockReport(context.Background())
	if err != nil {
		t.Fatalf("StockReport error: %v", err)
	}
	if len(report) != 25 {
		t.Fatalf("expected 25 items in report, got %d", len(report))
	}
}

func TestService_Reconcile_DetectsDrift(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p := seedProduct(t, svc, "Shampoo", 2, 5)
	if _, err := svc.ReceiveStock(context.Background(), "staff-1", ReceiveInput{
		Lines: []ReceiveLine{{ProductID: p.ID, Quantity: 5}},
	}); err != nil {
		t.Fatalf("receive: %v", err)
	}

	// sin drift: ledger y balance coinciden
	drifts, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("expected no drift, got %+v", drifts)
	}

	// corromper el balance cacheado por fuera del ledger
	broken := repo.products[p.ID]
	broken.StockQuantity = 99
	repo.products[p.ID] = broken

	drifts, err = svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("expected 1 drift, got %d", len(drifts))
	}
	if drifts[0].Cached != 99 || drifts[0].LedgerSum != 5 {
		t.Fatalf("unexpected drift detail: %+v", drifts[0])
	}
}
