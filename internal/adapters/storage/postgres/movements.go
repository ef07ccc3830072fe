package postgres

import (
	"context"
	"database/sql"

	"pet-hotel-api/internal/domain/inventory"
)

// applyMovementsTx aplica un lote de movimientos dentro de una transacción
// abierta: actualiza el balance cacheado y agrega la fila del ledger por
// cada movimiento. Los decrementos son condicionales (stock_quantity >= n);
// si alguno no alcanza retorna *inventory.InsufficientStockError y el caller
// debe hacer rollback.
func applyMovementsTx(ctx context.Context, tx *sql.Tx, movs []inventory.Transaction) error {
	for _, m := range movs {
		if m.Change < 0 {
			need := -m.Change
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity + $2, updated_at = $3
				WHERE id = $1 AND stock_quantity >= $4
			`, m.ProductID, m.Change, m.CreatedAt, need)
			if err != nil {
				return err
			}
			n, _ := res.RowsAffected()
			if n == 0 {
				// stock insuficiente o producto inexistente: se distingue
				// releyendo la fila dentro de la misma transacción
				var name string
				var available int
				err := tx.QueryRowContext(ctx, `
					SELECT name, stock_quantity FROM products WHERE id = $1
				`, m.ProductID).Scan(&name, &available)
				if err == sql.ErrNoRows {
					return inventory.ErrNotFound
				}
				if err != nil {
					return err
				}
				return &inventory.InsufficientStockError{
					ProductID:   m.ProductID,
					ProductName: name,
					Requested:   need,
					Available:   available,
				}
			}
		} else {
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity + $2, updated_at = $3
				WHERE id = $1
			`, m.ProductID, m.Change, m.CreatedAt)
			if err != nil {
				return err
			}
			n, _ := res.RowsAffected()
			if n == 0 {
				return inventory.ErrNotFound
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_transactions (
				id, product_id, change, type,
				reference_type, reference_id,
				unit_price, supplier, notes, performed_by,
				created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			m.ID,
			m.ProductID,
			m.Change,
			m.Type,
			nullStr(m.ReferenceType),
			nullStr(m.ReferenceID),
			m.UnitPrice,
			m.Supplier,
			m.Notes,
			m.PerformedBy,
			m.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}
