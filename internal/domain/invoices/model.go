package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status define el ciclo de vida de una factura.
// @Enum unpaid, paid, cancelled
type Status string

const (
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Invoice agrega las líneas de venta de un cliente. Total es siempre
// la suma de los subtotales de sus detalles.
type Invoice struct {
	ID         string
	CustomerID string

	// CustomerName se denormaliza al crear para listar sin joins.
	CustomerName string

	Status Status
	Total  decimal.Decimal
	Notes  string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail es una línea de factura: exactamente uno de ServiceID o
// ProductID está seteado. El precio unitario queda congelado al
// momento de la venta.
type Detail struct {
	ID        string
	InvoiceID string

	ServiceID string
	ProductID string

	Description string
	Quantity    int
	UnitPrice   decimal.Decimal

	// Subtotal = Quantity * UnitPrice.
	Subtotal decimal.Decimal
}
