package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-hotel-api/internal/domain/inventory"

	"github.com/shopspring/decimal"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) CreateProduct(ctx context.Context, p inventory.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, unit_price, stock_quantity, unit,
			minimum_stock, reorder_level, category, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.Name,
		p.UnitPrice,
		p.StockQuantity,
		p.Unit,
		p.MinimumStock,
		p.ReorderLevel,
		p.Category,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *InventoryRepo) UpdateProduct(ctx context.Context, p inventory.Product) error {
	// el balance cacheado no se toca acá: solo lo mueve el ledger
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET
			name = $2,
			unit_price = $3,
			unit = $4,
			minimum_stock = $5,
			reorder_level = $6,
			category = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.UnitPrice,
		p.Unit,
		p.MinimumStock,
		p.ReorderLevel,
		p.Category,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) GetProduct(ctx context.Context, id string) (inventory.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, unit_price, stock_quantity, unit,
			minimum_stock, reorder_level, category, active,
			created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)

	p, err := scanProduct(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return inventory.Product{}, inventory.ErrNotFound
		}
		return inventory.Product{}, err
	}
	return p, nil
}

func (r *InventoryRepo) ListProducts(ctx context.Context, f inventory.ListFilter) ([]inventory.Product, int, error) {
	search := "%" + strings.TrimSpace(f.Search) + "%"
	where := `
		WHERE name ILIKE $1
		  AND ($2 = '' OR category = $2)
		  AND ($3 OR active)
	`
	args := []any{search, f.Category, f.IncludeInactive}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, unit_price, stock_quantity, unit,
			minimum_stock, reorder_level, category, active,
			created_at, updated_at
		FROM products
		`+where+`
		ORDER BY name ASC
		LIMIT $4 OFFSET $5
	`, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]inventory.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *InventoryRepo) AllProducts(ctx context.Context, includeInactive bool) ([]inventory.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, unit_price, stock_quantity, unit,
			minimum_stock, reorder_level, category, active,
			created_at, updated_at
		FROM products
		WHERE ($1 OR active)
		ORDER BY name ASC
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) SoftDeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET active = FALSE, updated_at = $2 WHERE id = $1
	`, id, time.Now())
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) ApplyMovements(ctx context.Context, movs []inventory.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := applyMovementsTx(ctx, tx, movs); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *InventoryRepo) ListTransactions(ctx context.Context, f inventory.TxFilter) ([]inventory.Transaction, int, error) {
	where := `WHERE ($1 = '' OR product_id = $1)`
	args := []any{f.ProductID}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_transactions `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, product_id, change, type,
			reference_type, reference_id,
			unit_price, supplier, notes, performed_by,
			created_at
		FROM inventory_transactions
		`+where+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]inventory.Transaction, 0)
	for rows.Next() {
		var m inventory.Transaction
		var refType, refID sql.NullString
		var unitPrice decimal.NullDecimal
		if err := rows.Scan(
			&m.ID,
			&m.ProductID,
			&m.Change,
			&m.Type,
			&refType,
			&refID,
			&unitPrice,
			&m.Supplier,
			&m.Notes,
			&m.PerformedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		m.ReferenceType = refType.String
		m.ReferenceID = refID.String
		if unitPrice.Valid {
			p := unitPrice.Decimal
			m.UnitPrice = &p
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *InventoryRepo) SumChanges(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, COALESCE(SUM(change), 0)
		FROM inventory_transactions
		GROUP BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var productID string
		var sum int
		if err := rows.Scan(&productID, &sum); err != nil {
			return nil, err
		}
		out[productID] = sum
	}
	return out, rows.Err()
}

func scanProduct(scan func(dest ...any) error) (inventory.Product, error) {
	var p inventory.Product
	if err := scan(
		&p.ID,
		&p.Name,
		&p.UnitPrice,
		&p.StockQuantity,
		&p.Unit,
		&p.MinimumStock,
		&p.ReorderLevel,
		&p.Category,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return inventory.Product{}, err
	}
	return p, nil
}
