package invoices

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-hotel-api/internal/domain/inventory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotUnpaid    = errors.New("invoice is not unpaid")
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

// LineInput llega ya resuelta: el handler valida que el servicio o
// producto exista y congela descripción y precio unitario.
type LineInput struct {
	ServiceID   string
	ProductID   string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type CreateInput struct {
	CustomerID   string
	CustomerName string
	Notes        string
	Lines        []LineInput
}

// Create emite la factura en estado unpaid. Cada línea de producto
// descuenta stock vía una transacción sale referenciando la factura;
// si algún producto no alcanza, no se persiste nada.
func (s *Service) Create(ctx context.Context, actorUserID string, in CreateInput) (Invoice, []Detail, error) {
	if strings.TrimSpace(in.CustomerID) == "" || len(in.Lines) == 0 {
		return Invoice{}, nil, ErrInvalidInput
	}

	now := s.now()
	invoiceID := uuid.NewString()

	total := decimal.Zero
	details := make([]Detail, 0, len(in.Lines))
	movs := make([]inventory.Transaction, 0)

	for _, line := range in.Lines {
		hasService := strings.TrimSpace(line.ServiceID) != ""
		hasProduct := strings.TrimSpace(line.ProductID) != ""
		// Exactamente uno de los dos.
		if hasService == hasProduct {
			return Invoice{}, nil, ErrInvalidInput
		}
		if line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return Invoice{}, nil, ErrInvalidInput
		}

		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)

		details = append(details, Detail{
			ID:          uuid.NewString(),
			InvoiceID:   invoiceID,
			ServiceID:   strings.TrimSpace(line.ServiceID),
			ProductID:   strings.TrimSpace(line.ProductID),
			Description: strings.TrimSpace(line.Description),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    subtotal,
		})

		if hasProduct {
			price := line.UnitPrice
			movs = append(movs, inventory.Transaction{
				ID:            uuid.NewString(),
				ProductID:     strings.TrimSpace(line.ProductID),
				Change:        -line.Quantity,
				Type:          inventory.TxSale,
				ReferenceType: "invoice",
				ReferenceID:   invoiceID,
				UnitPrice:     &price,
				PerformedBy:   strings.TrimSpace(actorUserID),
				CreatedAt:     now,
			})
		}
	}

	inv := Invoice{
		ID:           invoiceID,
		CustomerID:   strings.TrimSpace(in.CustomerID),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Status:       StatusUnpaid,
		Total:        total,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedBy:    strings.TrimSpace(actorUserID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, inv, details, movs); err != nil {
		return Invoice{}, nil, err
	}
	return inv, details, nil
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, []Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invoice{}, nil, ErrInvalidInput
	}
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return Invoice{}, nil, err
	}
	details, err := s.repo.GetDetails(ctx, id)
	if err != nil {
		return Invoice{}, nil, err
	}
	return inv, details, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Invoice, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return s.repo.List(ctx, f)
}

// MarkPaid: unpaid -> paid. Cualquier otro estado es conflicto.
func (s *Service) MarkPaid(ctx context.Context, id string) (Invoice, error) {
	inv, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Invoice{}, err
	}
	if inv.Status != StatusUnpaid {
		return Invoice{}, ErrNotUnpaid
	}

	inv.Status = StatusPaid
	inv.UpdatedAt = s.now()
	if err := s.repo.SetStatus(ctx, inv, nil); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// Cancel: unpaid -> cancelled. Repone el stock de cada línea de producto
// con transacciones adjustment que referencian la factura, en la misma
// transacción que el cambio de estado.
func (s *Service) Cancel(ctx context.Context, actorUserID, id string) (Invoice, error) {
	inv, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Invoice{}, err
	}
	if inv.Status != StatusUnpaid {
		return Invoice{}, ErrNotUnpaid
	}
	details, err := s.repo.GetDetails(ctx, inv.ID)
	if err != nil {
		return Invoice{}, err
	}

	now := s.now()
	movs := make([]inventory.Transaction, 0)
	for _, d := range details {
		if d.ProductID == "" {
			continue
		}
		movs = append(movs, inventory.Transaction{
			ID:            uuid.NewString(),
			ProductID:     d.ProductID,
			Change:        d.Quantity,
			Type:          inventory.TxAdjustment,
			ReferenceType: "invoice",
			ReferenceID:   inv.ID,
			Notes:         "invoice cancelled",
			PerformedBy:   strings.TrimSpace(actorUserID),
			CreatedAt:     now,
		})
	}

	inv.Status = StatusCancelled
	inv.UpdatedAt = now
	if err := s.repo.SetStatus(ctx, inv, movs); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}
