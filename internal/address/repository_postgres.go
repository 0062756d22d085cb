package address

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const addressColumns = `id, user_id, label, recipient, line, city, postal_code, country, phone, created_at, updated_at`

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(id int, userID int) (Address, error) {
	row := r.db.QueryRow(
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	a, err := scan(row)
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	err := r.db.QueryRow(
		`INSERT INTO addresses (user_id, label, recipient, line, city, postal_code, country, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING id, created_at, updated_at`,
		a.UserID, a.Label, a.Recipient, a.Line, a.City, a.PostalCode, a.Country, a.Phone,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PostgresRepository) Update(a Address) (Address, error) {
	err := r.db.QueryRow(
		`UPDATE addresses
		 SET label = $1, recipient = $2, line = $3, city = $4, postal_code = $5, country = $6, phone = $7, updated_at = now()
		 WHERE id = $8 AND user_id = $9
		 RETURNING updated_at`,
		a.Label, a.Recipient, a.Line, a.City, a.PostalCode, a.Country, a.Phone, a.ID, a.UserID,
	).Scan(&a.UpdatedAt)
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Delete(id int, userID int) error {
	res, err := r.db.Exec(`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scan(row rowScanner) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Recipient, &a.Line, &a.City,
		&a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
