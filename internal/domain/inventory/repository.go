package inventory

import "context"

type ListFilter struct {
	Search          string
	Category        string
	IncludeInactive bool
	Page            int
	PageSize        int
}

type TxFilter struct {
	ProductID string
	Page      int
	PageSize  int
}

type Repository interface {
	CreateProduct(ctx context.Context, p Product) error
	UpdateProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, f ListFilter) ([]Product, int, error)

	// AllProducts devuelve el catálogo completo sin paginar, para las
	// proyecciones que recorren todo (reporte de stock, reconciliación).
	AllProducts(ctx context.Context, includeInactive bool) ([]Product, error)

	SoftDeleteProduct(ctx context.Context, id string) error

	// ApplyMovements aplica el lote completo (update de stock + insert en el
	// ledger por cada movimiento) como unidad atómica: o entra todo o nada.
	// Los decrementos son condicionales (stock_quantity >= n); si alguno no
	// alcanza, retorna *InsufficientStockError y no persiste ningún movimiento.
	ApplyMovements(ctx context.Context, movs []Transaction) error

	// ListTransactions ordena por created_at DESC.
	ListTransactions(ctx context.Context, f TxFilter) ([]Transaction, int, error)

	// SumChanges suma los cambios firmados del ledger por producto
	// (reconciliación del balance cacheado).
	SumChanges(ctx context.Context) (map[string]int, error)
}
