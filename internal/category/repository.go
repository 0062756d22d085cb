package category

import (
	"database/sql"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("category not found")

type Repository interface {
	List() ([]Category, error)
	GetBySlug(slug string) (Category, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const categoryColumns = `id, slug, name_fr, name_ar, name_en, image, sort_order`

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Slug, &cat.NameFR, &cat.NameAR, &cat.NameEN, &cat.Image, &cat.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetBySlug(slug string) (Category, error) {
	var cat Category
	err := r.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug).
		Scan(&cat.ID, &cat.Slug, &cat.NameFR, &cat.NameAR, &cat.NameEN, &cat.Image, &cat.SortOrder)
	if err == sql.ErrNoRows {
		return Category{}, ErrNotFound
	}
	return cat, err
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	categories []Category
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	return &InMemoryRepository{categories: seed}
}

func (r *InMemoryRepository) List() ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) GetBySlug(slug string) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cat := range r.categories {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return Category{}, ErrNotFound
}
