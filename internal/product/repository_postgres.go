package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `id, sku, name_fr, name_ar, name_en, description_fr, description_ar, description_en, brand, image, price, stock, is_active, category_id, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(activeOnly bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) ListByCategory(categoryID int) ([]Product, error) {
	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products WHERE is_active AND category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

// DecreaseStock is a single conditional update so that the stock check
// and the subtraction happen atomically. Zero rows affected means the
// remaining stock was insufficient.
func (r *PostgresRepository) DecreaseStock(id int, qty int) (bool, error) {
	res, err := r.db.Exec(`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2 AND stock >= $1`, qty, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepository) IncreaseStock(id int, qty int) error {
	res, err := r.db.Exec(`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2`, qty, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.NameFR, &p.NameAR, &p.NameEN,
		&p.DescriptionFR, &p.DescriptionAR, &p.DescriptionEN,
		&p.Brand, &p.Image, &p.Price, &p.Stock, &p.Active, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
