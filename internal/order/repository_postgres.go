package order

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/yassirmk/cleanshop-backend/internal/cart"
	"github.com/yassirmk/cleanshop-backend/internal/payment"
	"github.com/yassirmk/cleanshop-backend/internal/pricing"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

type PostgresRepository struct {
	db   *sql.DB
	calc pricing.Calculator
}

func NewPostgresRepository(db *sql.DB, calc pricing.Calculator) *PostgresRepository {
	return &PostgresRepository{db: db, calc: calc}
}

const orderColumns = `id, user_id, customer_email, order_number, status, payment_status, payment_method, currency, subtotal, tax, shipping, discount, total, shipping_address, billing_address, notes, shipped_at, delivered_at, cancelled_at, created_at, updated_at`

// PlaceOrder converts the owner's cart into an order, order lines and a
// pending payment, decrementing stock along the way, all in one
// transaction. Stock is re-checked at the decrement itself with a
// conditional update, so two concurrent checkouts cannot oversell even
// though both passed the pre-check.
func (r *PostgresRepository) PlaceOrder(in PlaceInput) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	clause, arg := cartOwnerClause(in.Owner, "1")
	rows, err := tx.Query(`SELECT id, product_id, quantity FROM cart_items WHERE `+clause+` ORDER BY id`, arg)
	if err != nil {
		return Order{}, err
	}
	type cartLine struct {
		id, productID, quantity int
	}
	cartLines := make([]cartLine, 0)
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.id, &l.productID, &l.quantity); err != nil {
			rows.Close()
			return Order{}, err
		}
		cartLines = append(cartLines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}
	if len(cartLines) == 0 {
		return Order{}, ErrEmptyCart
	}

	shippingJSON, err := json.Marshal(in.ShippingAddress)
	if err != nil {
		return Order{}, err
	}
	var billingJSON []byte
	if in.BillingAddress != nil {
		if billingJSON, err = json.Marshal(in.BillingAddress); err != nil {
			return Order{}, err
		}
	}

	var userID *int
	if in.Owner.UserID > 0 {
		userID = &in.Owner.UserID
	}

	ord := Order{
		UserID:          userID,
		CustomerEmail:   in.CustomerEmail,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		Currency:        in.Currency,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
	}
	err = tx.QueryRow(`INSERT INTO orders (user_id, customer_email, order_number, status, payment_status, payment_method, currency, shipping_address, billing_address, notes)
		VALUES ($1, $2, '', $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		userID, in.CustomerEmail, ord.Status, ord.PaymentStatus, ord.PaymentMethod, ord.Currency,
		shippingJSON, billingJSON, in.Notes).
		Scan(&ord.ID, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	// the number depends on the row id, so it can only be derived after
	// the insert
	ord.OrderNumber = Number(ord.CreatedAt, ord.ID)
	if _, err := tx.Exec(`UPDATE orders SET order_number = $1 WHERE id = $2`, ord.OrderNumber, ord.ID); err != nil {
		return Order{}, err
	}

	priceLines := make([]pricing.Line, 0, len(cartLines))
	for _, cl := range cartLines {
		var p product.Product
		err := tx.QueryRow(`SELECT id, sku, name_fr, name_ar, name_en, brand, image, price, stock, is_active FROM products WHERE id = $1`, cl.productID).
			Scan(&p.ID, &p.SKU, &p.NameFR, &p.NameAR, &p.NameEN, &p.Brand, &p.Image, &p.Price, &p.Stock, &p.Active)
		if err == sql.ErrNoRows {
			return Order{}, fmt.Errorf("%w: product %d", product.ErrUnavailable, cl.productID)
		}
		if err != nil {
			return Order{}, err
		}
		if !p.Active {
			return Order{}, fmt.Errorf("%w: %s", product.ErrUnavailable, p.Name(""))
		}
		if p.Stock < cl.quantity {
			return Order{}, fmt.Errorf("%w: %s", product.ErrInsufficientStock, p.Name(""))
		}

		line := Line{
			OrderID:   ord.ID,
			ProductID: &cl.productID,
			Quantity:  cl.quantity,
			UnitPrice: p.Price,
			Snapshot: Snapshot{
				SKU:    p.SKU,
				NameFR: p.NameFR,
				NameAR: p.NameAR,
				NameEN: p.NameEN,
				Image:  p.Image,
				Brand:  p.Brand,
			},
		}
		snapshotJSON, err := json.Marshal(line.Snapshot)
		if err != nil {
			return Order{}, err
		}
		err = tx.QueryRow(`INSERT INTO order_items (order_id, product_id, quantity, unit_price, product_snapshot)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			ord.ID, cl.productID, cl.quantity, p.Price, snapshotJSON).Scan(&line.ID)
		if err != nil {
			return Order{}, err
		}

		// conditional decrement closes the race between the pre-check
		// above and this write
		res, err := tx.Exec(`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2 AND stock >= $1`, cl.quantity, cl.productID)
		if err != nil {
			return Order{}, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Order{}, err
		}
		if n == 0 {
			return Order{}, fmt.Errorf("%w: %s", product.ErrInsufficientStock, p.Name(""))
		}

		ord.Lines = append(ord.Lines, line)
		priceLines = append(priceLines, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}

	// totals come from the persisted lines, not the caller's cart view
	totals := r.calc.TotalsWithShipping(priceLines, in.ShippingFee)
	ord.Subtotal, ord.Tax, ord.Shipping, ord.Discount, ord.Total =
		totals.Subtotal, totals.Tax, totals.Shipping, totals.Discount, totals.Total
	if _, err := tx.Exec(`UPDATE orders SET subtotal = $1, tax = $2, shipping = $3, discount = $4, total = $5, updated_at = now() WHERE id = $6`,
		ord.Subtotal, ord.Tax, ord.Shipping, ord.Discount, ord.Total, ord.ID); err != nil {
		return Order{}, err
	}

	pay := payment.Payment{
		OrderID:  ord.ID,
		Method:   in.PaymentMethod,
		Status:   payment.StatusPending,
		Amount:   ord.Total,
		Currency: in.Currency,
	}
	err = tx.QueryRow(`INSERT INTO payments (order_id, method, status, amount, currency, refund_amount)
		VALUES ($1, $2, $3, $4, $5, 0) RETURNING id, refund_amount, created_at, updated_at`,
		pay.OrderID, pay.Method, pay.Status, pay.Amount, pay.Currency).
		Scan(&pay.ID, &pay.RefundAmount, &pay.CreatedAt, &pay.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.Payment = &pay

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE `+clause, arg); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := r.scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return Order{}, err
	}
	return r.attach(ord)
}

func (r *PostgresRepository) GetByNumber(number string) (Order, error) {
	ord, err := r.scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number))
	if err != nil {
		return Order{}, err
	}
	return r.attach(ord)
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		ord, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i], err = r.attach(out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Cancel restores stock for every line and marks the order cancelled,
// atomically. A non-cancellable order returns (order, false, nil).
func (r *PostgresRepository) Cancel(orderID int, userID int, reason string) (Order, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, false, err
	}
	defer tx.Rollback()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	args := []any{orderID}
	if userID > 0 {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}
	ord, err := r.scanOrder(tx.QueryRow(query+` FOR UPDATE`, args...))
	if err != nil {
		return Order{}, false, err
	}
	if !ord.Status.CanBeCancelled() {
		return ord, false, nil
	}

	rows, err := tx.Query(`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return Order{}, false, err
	}
	type restock struct {
		productID *int
		quantity  int
	}
	restocks := make([]restock, 0)
	for rows.Next() {
		var rs restock
		if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
			rows.Close()
			return Order{}, false, err
		}
		restocks = append(restocks, rs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}

	for _, rs := range restocks {
		if rs.productID == nil {
			// product deleted since purchase; nothing to restock
			continue
		}
		if _, err := tx.Exec(`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2`, rs.quantity, *rs.productID); err != nil {
			return Order{}, false, err
		}
	}

	notes := "cancelled: " + reason
	if ord.Notes != nil && *ord.Notes != "" {
		notes = *ord.Notes + "\n" + notes
	}
	err = tx.QueryRow(`UPDATE orders SET status = $1, cancelled_at = now(), notes = $2, updated_at = now() WHERE id = $3
		RETURNING status, cancelled_at, notes, updated_at`,
		StatusCancelled, notes, orderID).
		Scan(&ord.Status, &ord.CancelledAt, &ord.Notes, &ord.UpdatedAt)
	if err != nil {
		return Order{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, false, err
	}
	ord, err = r.attach(ord)
	return ord, true, err
}

func (r *PostgresRepository) SetPaymentStatus(orderID int, status PaymentStatus) error {
	res, err := r.db.Exec(`UPDATE orders SET payment_status = $1, updated_at = now() WHERE id = $2`, status, orderID)
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

func (r *PostgresRepository) scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var shippingJSON []byte
	var billingJSON []byte
	err := row.Scan(&ord.ID, &ord.UserID, &ord.CustomerEmail, &ord.OrderNumber,
		&ord.Status, &ord.PaymentStatus, &ord.PaymentMethod, &ord.Currency,
		&ord.Subtotal, &ord.Tax, &ord.Shipping, &ord.Discount, &ord.Total,
		&shippingJSON, &billingJSON, &ord.Notes,
		&ord.ShippedAt, &ord.DeliveredAt, &ord.CancelledAt,
		&ord.CreatedAt, &ord.UpdatedAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(shippingJSON, &ord.ShippingAddress); err != nil {
		return Order{}, err
	}
	if len(billingJSON) > 0 {
		ord.BillingAddress = new(Address)
		if err := json.Unmarshal(billingJSON, ord.BillingAddress); err != nil {
			return Order{}, err
		}
	}
	return ord, nil
}

// attach loads the order's lines and latest payment.
func (r *PostgresRepository) attach(ord Order) (Order, error) {
	rows, err := r.db.Query(`SELECT id, order_id, product_id, quantity, unit_price, product_snapshot FROM order_items WHERE order_id = $1 ORDER BY id`, ord.ID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	ord.Lines = make([]Line, 0)
	for rows.Next() {
		var l Line
		var snapshotJSON []byte
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &snapshotJSON); err != nil {
			return Order{}, err
		}
		if err := json.Unmarshal(snapshotJSON, &l.Snapshot); err != nil {
			return Order{}, err
		}
		ord.Lines = append(ord.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return Order{}, err
	}

	var pay payment.Payment
	var gateway []byte
	err = r.db.QueryRow(`SELECT id, order_id, method, status, amount, currency, transaction_id, gateway_response, refund_amount, processed_at, failed_at, cancelled_at, refunded_at, created_at, updated_at
		FROM payments WHERE order_id = $1 ORDER BY id DESC LIMIT 1`, ord.ID).
		Scan(&pay.ID, &pay.OrderID, &pay.Method, &pay.Status, &pay.Amount, &pay.Currency,
			&pay.TransactionID, &gateway, &pay.RefundAmount,
			&pay.ProcessedAt, &pay.FailedAt, &pay.CancelledAt, &pay.RefundedAt,
			&pay.CreatedAt, &pay.UpdatedAt)
	if err == nil {
		pay.GatewayResponse = gateway
		ord.Payment = &pay
	} else if err != sql.ErrNoRows {
		return Order{}, err
	}
	return ord, nil
}

// cartOwnerClause mirrors the cart repository's owner predicate for use
// inside the checkout transaction.
func cartOwnerClause(owner cart.Owner, n string) (string, any) {
	if owner.UserID > 0 {
		return `user_id = $` + n, owner.UserID
	}
	return `session_id = $` + n, owner.SessionID
}
