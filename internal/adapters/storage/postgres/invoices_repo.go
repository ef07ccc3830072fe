package postgres

import (
	"context"
	"database/sql"

	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/domain/invoices"
)

type InvoicesRepo struct {
	db *sql.DB
}

func NewInvoicesRepo(db *sql.DB) *InvoicesRepo {
	return &InvoicesRepo{db: db}
}

// Create persiste factura + detalles + movimientos de stock en una sola
// transacción: si un decremento no alcanza, rollback completo.
func (r *InvoicesRepo) Create(ctx context.Context, inv invoices.Invoice, details []invoices.Detail, movs []inventory.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO invoices (
			id, customer_id, customer_name, status, total, notes,
			created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		inv.ID,
		inv.CustomerID,
		inv.CustomerName,
		inv.Status,
		inv.Total,
		inv.Notes,
		inv.CreatedBy,
		inv.CreatedAt,
		inv.UpdatedAt,
	); err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, d := range details {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_details (
				id, invoice_id, service_id, product_id,
				description, quantity, unit_price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			d.ID,
			d.InvoiceID,
			nullStr(d.ServiceID),
			nullStr(d.ProductID),
			d.Description,
			d.Quantity,
			d.UnitPrice,
			d.Subtotal,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := applyMovementsTx(ctx, tx, movs); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *InvoicesRepo) Get(ctx context.Context, id string) (invoices.Invoice, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, customer_name, status, total, notes,
			created_by, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`, id)

	var inv invoices.Invoice
	if err := row.Scan(
		&inv.ID,
		&inv.CustomerID,
		&inv.CustomerName,
		&inv.Status,
		&inv.Total,
		&inv.Notes,
		&inv.CreatedBy,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return invoices.Invoice{}, invoices.ErrNotFound
		}
		return invoices.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoicesRepo) GetDetails(ctx context.Context, invoiceID string) ([]invoices.Detail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_id, service_id, product_id,
			description, quantity, unit_price, subtotal
		FROM invoice_details
		WHERE invoice_id = $1
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]invoices.Detail, 0)
	for rows.Next() {
		var d invoices.Detail
		var serviceID, productID sql.NullString
		if err := rows.Scan(
			&d.ID,
			&d.InvoiceID,
			&serviceID,
			&productID,
			&d.Description,
			&d.Quantity,
			&d.UnitPrice,
			&d.Subtotal,
		); err != nil {
			return nil, err
		}
		d.ServiceID = serviceID.String
		d.ProductID = productID.String
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *InvoicesRepo) List(ctx context.Context, f invoices.ListFilter) ([]invoices.Invoice, int, error) {
	where := `
		WHERE ($1 = '' OR customer_id = $1)
		  AND ($2 = '' OR status = $2)
	`
	args := []any{f.CustomerID, string(f.Status)}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.PageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, customer_name, status, total, notes,
			created_by, created_at, updated_at
		FROM invoices
		`+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]invoices.Invoice, 0)
	for rows.Next() {
		var inv invoices.Invoice
		if err := rows.Scan(
			&inv.ID,
			&inv.CustomerID,
			&inv.CustomerName,
			&inv.Status,
			&inv.Total,
			&inv.Notes,
			&inv.CreatedBy,
			&inv.CreatedAt,
			&inv.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

// SetStatus actualiza el estado y aplica reposiciones (si las hay) en la
// misma transacción.
func (r *InvoicesRepo) SetStatus(ctx context.Context, inv invoices.Invoice, movs []inventory.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, inv.ID, inv.Status, inv.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		_ = tx.Rollback()
		return invoices.ErrNotFound
	}

	if err := applyMovementsTx(ctx, tx, movs); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
