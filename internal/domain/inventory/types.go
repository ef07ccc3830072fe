package inventory

import "fmt"

// TxType clasifica los movimientos del ledger.
// @Enum receipt, sale, prescription, issue, adjustment
type TxType string

const (
	TxReceipt      TxType = "receipt"
	TxSale         TxType = "sale"
	TxPrescription TxType = "prescription"
	TxIssue        TxType = "issue"
	TxAdjustment   TxType = "adjustment"
)

// Severity clasifica el stock actual contra los umbrales del producto.
// @Enum ok, warning, critical, out_of_stock
type Severity string

const (
	SeverityOK         Severity = "ok"
	SeverityWarning    Severity = "warning"
	SeverityCritical   Severity = "critical"
	SeverityOutOfStock Severity = "out_of_stock"
)

// Classify: out_of_stock si stock <= 0; critical si stock < minimum_stock;
// warning si stock < reorder_level.
func Classify(p Product) Severity {
	switch {
	case p.StockQuantity <= 0:
		return SeverityOutOfStock
	case p.StockQuantity < p.MinimumStock:
		return SeverityCritical
	case p.StockQuantity < p.ReorderLevel:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// InsufficientStockError nombra el producto y lo disponible.
// Se mapea uniformemente a 409 en todos los flujos (venta, receta, ajuste).
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
