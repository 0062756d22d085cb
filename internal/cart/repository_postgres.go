package cart

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const lineColumns = `id, user_id, session_id, product_id, quantity, created_at, updated_at`

// ownerClause builds the WHERE fragment for an owner. $n is the
// placeholder index the caller reserved for the owner argument.
func ownerClause(owner Owner, n string) (string, any) {
	if owner.UserID > 0 {
		return `user_id = $` + n, owner.UserID
	}
	return `session_id = $` + n, owner.SessionID
}

func (r *PostgresRepository) LinesByOwner(owner Owner) ([]Line, error) {
	clause, arg := ownerClause(owner, "1")
	rows, err := r.db.Query(`SELECT `+lineColumns+` FROM cart_items WHERE `+clause+` ORDER BY id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.UserID, &l.SessionID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetLine(owner Owner, lineID int) (Line, error) {
	clause, arg := ownerClause(owner, "2")
	var l Line
	err := r.db.QueryRow(`SELECT `+lineColumns+` FROM cart_items WHERE id = $1 AND `+clause, lineID, arg).
		Scan(&l.ID, &l.UserID, &l.SessionID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return Line{}, ErrLineNotFound
	}
	return l, err
}

func (r *PostgresRepository) SetQuantity(owner Owner, productID int, qty int) (Line, error) {
	clause, arg := ownerClause(owner, "3")
	var l Line
	err := r.db.QueryRow(`UPDATE cart_items SET quantity = $1, updated_at = now()
		WHERE product_id = $2 AND `+clause+`
		RETURNING `+lineColumns, qty, productID, arg).
		Scan(&l.ID, &l.UserID, &l.SessionID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if err == nil {
		return l, nil
	}
	if err != sql.ErrNoRows {
		return Line{}, err
	}

	var userID *int
	var sessionID *string
	if owner.UserID > 0 {
		userID = &owner.UserID
	} else {
		sessionID = &owner.SessionID
	}
	err = r.db.QueryRow(`INSERT INTO cart_items (user_id, session_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING `+lineColumns, userID, sessionID, productID, qty).
		Scan(&l.ID, &l.UserID, &l.SessionID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *PostgresRepository) DeleteLine(owner Owner, lineID int) error {
	clause, arg := ownerClause(owner, "2")
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id = $1 AND `+clause, lineID, arg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) MergeLine(from Owner, lineID int, to Owner, qty int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fromClause, fromArg := ownerClause(from, "2")
	var productID int
	err = tx.QueryRow(`SELECT product_id FROM cart_items WHERE id = $1 AND `+fromClause+` FOR UPDATE`, lineID, fromArg).
		Scan(&productID)
	if err == sql.ErrNoRows {
		return ErrLineNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE id = $1`, lineID); err != nil {
		return err
	}

	toClause, toArg := ownerClause(to, "3")
	res, err := tx.Exec(`UPDATE cart_items SET quantity = $1, updated_at = now()
		WHERE product_id = $2 AND `+toClause, qty, productID, toArg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var userID *int
		var sessionID *string
		if to.UserID > 0 {
			userID = &to.UserID
		} else {
			sessionID = &to.SessionID
		}
		if _, err := tx.Exec(`INSERT INTO cart_items (user_id, session_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`, userID, sessionID, productID, qty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) Clear(owner Owner) error {
	clause, arg := ownerClause(owner, "1")
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE `+clause, arg)
	return err
}
