package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product mantiene el balance cacheado de stock. La historia autoritativa
// es el log de transacciones; el balance se reconcilia periódicamente.
type Product struct {
	ID   string
	Name string

	UnitPrice     decimal.Decimal
	StockQuantity int
	Unit          string

	MinimumStock int
	ReorderLevel int

	Category string
	Active   bool // soft delete

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction es una entrada inmutable del ledger: un cambio firmado
// sobre el stock de un producto, con link opcional al evento de origen
// (invoice, medical record).
type Transaction struct {
	ID        string
	ProductID string

	// Change es la cantidad firmada: positiva = entrada, negativa = salida.
	Change int
	Type   TxType

	ReferenceType string // "invoice" | "medical_record" | ""
	ReferenceID   string

	UnitPrice *decimal.Decimal
	Supplier  string
	Notes     string

	// PerformedBy es el user que originó el movimiento (claims), si se conoce.
	PerformedBy string

	CreatedAt time.Time
}
