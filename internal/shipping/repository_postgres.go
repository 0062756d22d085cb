package shipping

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Zone, error) {
	rows, err := r.db.Query(`SELECT id, name, cities, shipping_cost FROM delivery_zones ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Zone, 0)
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Name, pq.Array(&z.Cities), &z.ShippingCost); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
