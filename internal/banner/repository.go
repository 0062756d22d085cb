package banner

import (
	"database/sql"
)

type Repository interface {
	List(limit int) ([]Banner, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns active banners in display order. A missing or empty
// table yields an empty slice so the home page can fall back.
func (r *PostgresRepository) List(limit int) ([]Banner, error) {
	rows, err := r.db.Query(
		`SELECT id, image, link, alt_fr, alt_ar, alt_en, sort_order, active
		 FROM banners WHERE active ORDER BY sort_order, id LIMIT $1`, limit)
	if err != nil {
		return []Banner{}, nil
	}
	defer rows.Close()

	out := make([]Banner, 0)
	for rows.Next() {
		var b Banner
		if err := rows.Scan(&b.ID, &b.Image, &b.Link, &b.AltFR, &b.AltAR, &b.AltEN, &b.SortOrder, &b.Active); err != nil {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
