package warehouse

import (
	"database/sql"

	"github.com/yassirmk/cleanshop-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByProduct(productID int) ([]Stock, error) {
	rows, err := r.db.Query(
		`SELECT id, warehouse, product_id, quantity, reserved, updated_at
		 FROM warehouse_stocks WHERE product_id = $1 ORDER BY warehouse`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Stock, 0)
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.Warehouse, &s.ProductID, &s.Quantity, &s.Reserved, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Reserve(productID int, qty int) error {
	return r.mutate(productID, func(tx *sql.Tx, stocks []Stock) error {
		available := 0
		for _, s := range stocks {
			available += s.Available()
		}
		if available < qty {
			return product.ErrInsufficientStock
		}

		remaining := qty
		for _, s := range stocks {
			if remaining == 0 {
				break
			}
			take := s.Available()
			if take > remaining {
				take = remaining
			}
			if take == 0 {
				continue
			}
			if _, err := tx.Exec(
				`UPDATE warehouse_stocks SET reserved = reserved + $1, updated_at = now() WHERE id = $2`,
				take, s.ID); err != nil {
				return err
			}
			remaining -= take
		}
		return nil
	})
}

func (r *PostgresRepository) Release(productID int, qty int) error {
	return r.drawDown(productID, qty, false)
}

func (r *PostgresRepository) Confirm(productID int, qty int) error {
	return r.drawDown(productID, qty, true)
}

// drawDown removes qty from the product's reservations; when decrement
// is set the quantity goes with it.
func (r *PostgresRepository) drawDown(productID int, qty int, decrement bool) error {
	return r.mutate(productID, func(tx *sql.Tx, stocks []Stock) error {
		reserved := 0
		for _, s := range stocks {
			reserved += s.Reserved
		}
		if reserved < qty {
			return ErrReservationTooLarge
		}

		remaining := qty
		for _, s := range stocks {
			if remaining == 0 {
				break
			}
			take := s.Reserved
			if take > remaining {
				take = remaining
			}
			if take == 0 {
				continue
			}
			query := `UPDATE warehouse_stocks SET reserved = reserved - $1, updated_at = now() WHERE id = $2`
			if decrement {
				query = `UPDATE warehouse_stocks SET reserved = reserved - $1, quantity = quantity - $1, updated_at = now() WHERE id = $2`
			}
			if _, err := tx.Exec(query, take, s.ID); err != nil {
				return err
			}
			remaining -= take
		}
		return nil
	})
}

// mutate runs fn against the product's warehouse rows, locked for the
// duration, and resyncs the product's aggregate stock before commit.
func (r *PostgresRepository) mutate(productID int, fn func(tx *sql.Tx, stocks []Stock) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT id, warehouse, product_id, quantity, reserved, updated_at
		 FROM warehouse_stocks WHERE product_id = $1
		 ORDER BY quantity - reserved DESC, id FOR UPDATE`, productID)
	if err != nil {
		return err
	}
	stocks := make([]Stock, 0)
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.Warehouse, &s.ProductID, &s.Quantity, &s.Reserved, &s.UpdatedAt); err != nil {
			rows.Close()
			return err
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if err := fn(tx, stocks); err != nil {
		return err
	}

	// keep the catalog's aggregate in step with the warehouse rows
	if _, err := tx.Exec(
		`UPDATE products SET stock = COALESCE(
		   (SELECT SUM(quantity) FROM warehouse_stocks WHERE product_id = $1), 0
		 ), updated_at = now() WHERE id = $1`, productID); err != nil {
		return err
	}

	return tx.Commit()
}
