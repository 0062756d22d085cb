package payment

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const paymentColumns = `id, order_id, method, status, amount, currency, transaction_id, gateway_response, refund_amount, processed_at, failed_at, cancelled_at, refunded_at, created_at, updated_at`

func (r *PostgresRepository) GetByID(id int) (Payment, error) {
	return r.scanOne(r.db.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

func (r *PostgresRepository) GetByOrderID(orderID int) (Payment, error) {
	return r.scanOne(r.db.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY id DESC LIMIT 1`, orderID))
}

func (r *PostgresRepository) Save(p Payment) error {
	res, err := r.db.Exec(`UPDATE payments SET
			status = $1, transaction_id = $2, gateway_response = $3, refund_amount = $4,
			processed_at = $5, failed_at = $6, cancelled_at = $7, refunded_at = $8,
			updated_at = now()
		WHERE id = $9`,
		p.Status, p.TransactionID, []byte(p.GatewayResponse), p.RefundAmount,
		p.ProcessedAt, p.FailedAt, p.CancelledAt, p.RefundedAt, p.ID)
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

func (r *PostgresRepository) scanOne(row *sql.Row) (Payment, error) {
	var p Payment
	var gateway []byte
	err := row.Scan(&p.ID, &p.OrderID, &p.Method, &p.Status, &p.Amount, &p.Currency,
		&p.TransactionID, &gateway, &p.RefundAmount,
		&p.ProcessedAt, &p.FailedAt, &p.CancelledAt, &p.RefundedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Payment{}, ErrNotFound
	}
	p.GatewayResponse = gateway
	return p, err
}
