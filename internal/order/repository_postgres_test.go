package order

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/yassirmk/cleanshop-backend/internal/cart"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewPostgresRepository(db, testCalc()), mock, func() { db.Close() }
}

func productRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sku", "name_fr", "name_ar", "name_en", "brand", "image", "price", "stock", "is_active"}).
		AddRow(7, "PLM-001", "Nettoyant sols", "منظف الأرضيات", "Floor cleaner", nil, nil, "25.50", 5, true)
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	createdAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, product_id, quantity FROM cart_items`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity"}).AddRow(1, 7, 2))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, createdAt, createdAt))
	mock.ExpectExec(`UPDATE orders SET order_number`).
		WithArgs("ORD-20250314-000010", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, sku, name_fr`).
		WithArgs(7).
		WillReturnRows(productRow())
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(2, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET subtotal`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "refund_amount", "created_at", "updated_at"}).AddRow(5, "0", createdAt, createdAt))
	mock.ExpectExec(`DELETE FROM cart_items`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ord, err := repo.PlaceOrder(PlaceInput{
		Owner:           cart.ForUser(42),
		ShippingAddress: Address{FirstName: "Amina", City: "Rabat", Country: "MA", Phone: "0600000000"},
		PaymentMethod:   "card",
		Currency:        "MAD",
		ShippingFee:     decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if ord.OrderNumber != "ORD-20250314-000010" {
		t.Errorf("order number = %q", ord.OrderNumber)
	}
	if !ord.Subtotal.Equal(decimal.RequireFromString("51")) {
		t.Errorf("subtotal = %s, want 51", ord.Subtotal)
	}
	if !ord.Tax.Equal(decimal.RequireFromString("10.2")) {
		t.Errorf("tax = %s, want 10.2", ord.Tax)
	}
	if !ord.Total.Equal(decimal.RequireFromString("91.2")) {
		t.Errorf("total = %s, want 91.2", ord.Total)
	}
	if len(ord.Lines) != 1 || ord.Lines[0].Snapshot.SKU != "PLM-001" {
		t.Errorf("lines = %+v, want one snapshotted line", ord.Lines)
	}
	if ord.Payment == nil || ord.Payment.Status != "pending" {
		t.Errorf("payment = %+v, want pending companion", ord.Payment)
	}
	if !ord.Payment.Amount.Equal(ord.Total) {
		t.Errorf("payment amount %s != order total %s", ord.Payment.Amount, ord.Total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, product_id, quantity FROM cart_items`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity"}))
	mock.ExpectRollback()

	_, err := repo.PlaceOrder(PlaceInput{Owner: cart.ForSession("sess-1"), ShippingFee: decimal.NewFromInt(30)})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_StockRaceRollsBack(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	createdAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, product_id, quantity FROM cart_items`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity"}).AddRow(1, 7, 2))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, createdAt, createdAt))
	mock.ExpectExec(`UPDATE orders SET order_number`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, sku, name_fr`).
		WithArgs(7).
		WillReturnRows(productRow())
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	// a concurrent checkout drained the stock between the pre-check and
	// the decrement: zero rows affected, the whole transaction unwinds
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(2, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.PlaceOrder(PlaceInput{
		Owner:           cart.ForUser(42),
		ShippingAddress: Address{City: "Rabat"},
		PaymentMethod:   "card",
		Currency:        "MAD",
		ShippingFee:     decimal.NewFromInt(30),
	})
	if !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_PaymentFailureRollsBack(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	createdAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, product_id, quantity FROM cart_items`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity"}).AddRow(1, 7, 2))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, createdAt, createdAt))
	mock.ExpectExec(`UPDATE orders SET order_number`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, sku, name_fr`).
		WithArgs(7).
		WillReturnRows(productRow())
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET subtotal`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnError(errors.New("payments table unavailable"))
	mock.ExpectRollback()

	_, err := repo.PlaceOrder(PlaceInput{
		Owner:           cart.ForUser(42),
		ShippingAddress: Address{City: "Rabat"},
		PaymentMethod:   "card",
		Currency:        "MAD",
		ShippingFee:     decimal.NewFromInt(30),
	})
	if err == nil {
		t.Fatalf("expected error from payment insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func orderRows(status Status) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "customer_email", "order_number", "status", "payment_status",
		"payment_method", "currency", "subtotal", "tax", "shipping", "discount", "total",
		"shipping_address", "billing_address", "notes",
		"shipped_at", "delivered_at", "cancelled_at", "created_at", "updated_at",
	}).AddRow(
		10, 42, nil, "ORD-20250314-000010", string(status), "pending",
		"card", "MAD", "51", "10.2", "30", "0", "91.2",
		[]byte(`{"first_name":"Amina","last_name":"B","address_line_1":"12 rue","city":"Rabat","country":"MA","phone":"0600000000"}`),
		nil, nil,
		nil, nil, nil, now, now,
	)
}

func TestCancel_RestocksEveryLine(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = `).
		WithArgs(10, 42).
		WillReturnRows(orderRows(StatusPending))
	mock.ExpectQuery(`SELECT product_id, quantity FROM order_items`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow(7, 3).AddRow(8, 1))
	mock.ExpectExec(`UPDATE products SET stock = stock \+`).
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE products SET stock = stock \+`).
		WithArgs(1, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE orders SET status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "cancelled_at", "notes", "updated_at"}).
			AddRow("cancelled", now, "cancelled: changed my mind", now))
	mock.ExpectCommit()
	// reload of lines and payment after commit
	mock.ExpectQuery(`SELECT id, order_id, product_id, quantity, unit_price, product_snapshot FROM order_items`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "product_snapshot"}).
			AddRow(100, 10, 7, 3, "25.50", []byte(`{"sku":"PLM-001","name_fr":"Nettoyant sols","name_ar":"","name_en":""}`)))
	mock.ExpectQuery(`SELECT (.+) FROM payments WHERE order_id`).
		WithArgs(10).
		WillReturnError(sql.ErrNoRows)

	ord, ok, err := repo.Cancel(10, 42, "changed my mind")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !ok {
		t.Fatalf("expected cancellation to succeed")
	}
	if ord.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", ord.Status)
	}
	if ord.CancelledAt == nil {
		t.Errorf("cancelled_at not stamped")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancel_RefusedForShippedOrder(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = `).
		WithArgs(10, 42).
		WillReturnRows(orderRows(StatusShipped))
	mock.ExpectRollback()

	ord, ok, err := repo.Cancel(10, 42, "too late")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ok {
		t.Fatalf("shipped order must not be cancellable")
	}
	if ord.Status != StatusShipped {
		t.Errorf("status = %s, want shipped untouched", ord.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
