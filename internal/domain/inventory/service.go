package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type ProductInput struct {
	Name         string
	UnitPrice    decimal.Decimal
	Unit         string
	MinimumStock int
	ReorderLevel int
	Category     string
}

// CreateProduct registra el producto con stock 0; el stock entra
// exclusivamente por el ledger (receive/adjust).
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, ErrInvalidInput
	}
	if in.UnitPrice.IsNegative() || in.MinimumStock < 0 || in.ReorderLevel < 0 {
		return Product{}, ErrInvalidInput
	}

	now := s.now()
	p := Product{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		UnitPrice:     in.UnitPrice,
		StockQuantity: 0,
		Unit:          strings.TrimSpace(in.Unit),
		MinimumStock:  in.MinimumStock,
		ReorderLevel:  in.ReorderLevel,
		Category:      strings.TrimSpace(in.Category),
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if strings.TrimSpace(in.Name) == "" || in.UnitPrice.IsNegative() ||
		in.MinimumStock < 0 || in.ReorderLevel < 0 {
		return Product{}, ErrInvalidInput
	}

	p.Name = strings.TrimSpace(in.Name)
	p.UnitPrice = in.UnitPrice
	p.Unit = strings.TrimSpace(in.Unit)
	p.MinimumStock = in.MinimumStock
	p.ReorderLevel = in.ReorderLevel
	p.Category = strings.TrimSpace(in.Category)
	p.UpdatedAt = s.now()

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, ErrInvalidInput
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f ListFilter) ([]Product, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.ListProducts(ctx, f)
}

func (s *Service) SoftDeleteProduct(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.SoftDeleteProduct(ctx, id)
}

type ReceiveLine struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
	Notes     string
}

type ReceiveInput struct {
	Supplier string
	Lines    []ReceiveLine
}

// ReceiveStock: entrada de mercadería. Cada línea suma stock y agrega una
// transacción receipt. Cualquier línea inválida aborta el lote completo.
func (s *Service) ReceiveStock(ctx context.Context, actorUserID string, in ReceiveInput) ([]Transaction, error) {
	if len(in.Lines) == 0 {
		return nil, ErrInvalidInput
	}

	now := s.now()
	movs := make([]Transaction, 0, len(in.Lines))
	for _, line := range in.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, ErrInvalidInput
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		// El producto debe existir antes de tocar nada.
		if _, err := s.repo.GetProduct(ctx, strings.TrimSpace(line.ProductID)); err != nil {
			return nil, ErrNotFound
		}

		movs = append(movs, Transaction{
			ID:          uuid.NewString(),
			ProductID:   strings.TrimSpace(line.ProductID),
			Change:      line.Quantity,
			Type:        TxReceipt,
			UnitPrice:   line.UnitPrice,
			Supplier:    strings.TrimSpace(in.Supplier),
			Notes:       strings.TrimSpace(line.Notes),
			PerformedBy: strings.TrimSpace(actorUserID),
			CreatedAt:   now,
		})
	}

	if err := s.repo.ApplyMovements(ctx, movs); err != nil {
		return nil, err
	}
	return movs, nil
}

// AdjustStock: ajuste manual firmado (merma, conteo físico, corrección).
// Nunca puede dejar el stock negativo.
func (s *Service) AdjustStock(ctx context.Context, actorUserID, productID string, delta int, reason string) (Transaction, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || delta == 0 {
		return Transaction{}, ErrInvalidInput
	}
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return Transaction{}, ErrNotFound
	}

	mov := Transaction{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Change:      delta,
		Type:        TxAdjustment,
		Notes:       strings.TrimSpace(reason),
		PerformedBy: strings.TrimSpace(actorUserID),
		CreatedAt:   s.now(),
	}
	if err := s.repo.ApplyMovements(ctx, []Transaction{mov}); err != nil {
		return Transaction{}, err
	}
	return mov, nil
}

// StockItem es una fila del reporte de stock.
type StockItem struct {
	Product  Product
	Severity Severity
}

// StockReport: proyección de niveles actuales + severidad, sin mutación.
func (s *Service) StockReport(ctx context.Context) ([]StockItem, error) {
	products, err := s.repo.AllProducts(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]StockItem, 0, len(products))
	for _, p := range products {
		out = append(out, StockItem{Product: p, Severity: Classify(p)})
	}
	return out, nil
}

// LowStockAlerts filtra el reporte a severidades != ok.
func (s *Service) LowStockAlerts(ctx context.Context) ([]StockItem, error) {
	report, err := s.StockReport(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StockItem, 0)
	for _, item := range report {
		if item.Severity != SeverityOK {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Service) ListTransactions(ctx context.Context, f TxFilter) ([]Transaction, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.ListTransactions(ctx, f)
}

// Drift es una discrepancia entre el balance cacheado y el ledger.
type Drift struct {
	ProductID   string
	ProductName string
	Cached      int
	LedgerSum   int
}

// Reconcile compara el balance cacheado de cada producto contra la suma del
// ledger. No corrige nada: solo reporta (decisión operativa).
func (s *Service) Reconcile(ctx context.Context) ([]Drift, error) {
	sums, err := s.repo.SumChanges(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.AllProducts(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make([]Drift, 0)
	for _, p := range products {
		if sum := sums[p.ID]; sum != p.StockQuantity {
			out = append(out, Drift{
				ProductID:   p.ID,
				ProductName: p.Name,
				Cached:      p.StockQuantity,
				LedgerSum:   sum,
			})
		}
	}
	return out, nil
}
