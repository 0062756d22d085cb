package warehouse

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/yassirmk/cleanshop-backend/internal/product"
)

func seed() []Stock {
	return []Stock{
		{ID: 1, Warehouse: "casablanca", ProductID: 7, Quantity: 10, Reserved: 0},
		{ID: 2, Warehouse: "tangier", ProductID: 7, Quantity: 4, Reserved: 0},
	}
}

func TestReserve_SpreadsAcrossWarehouses(t *testing.T) {
	repo := NewInMemoryRepository(seed())

	if err := repo.Reserve(7, 12); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	stocks, _ := repo.ListByProduct(7)
	totalReserved := 0
	for _, s := range stocks {
		totalReserved += s.Reserved
		if s.Reserved > s.Quantity {
			t.Errorf("warehouse %s reserved %d of %d", s.Warehouse, s.Reserved, s.Quantity)
		}
	}
	if totalReserved != 12 {
		t.Errorf("reserved = %d, want 12", totalReserved)
	}
	// reservation does not touch quantities, the aggregate stays put
	if got := repo.ProductStock(7); got != 14 {
		t.Errorf("aggregate stock = %d, want 14", got)
	}
}

func TestReserve_InsufficientAcrossAllWarehouses(t *testing.T) {
	repo := NewInMemoryRepository(seed())
	if err := repo.Reserve(7, 15); !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
	stocks, _ := repo.ListByProduct(7)
	for _, s := range stocks {
		if s.Reserved != 0 {
			t.Errorf("failed reserve must leave nothing held, warehouse %s has %d", s.Warehouse, s.Reserved)
		}
	}
}

func TestConfirm_DecrementsAndResyncs(t *testing.T) {
	repo := NewInMemoryRepository(seed())
	if err := repo.Reserve(7, 6); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := repo.Confirm(7, 6); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := repo.ProductStock(7); got != 8 {
		t.Errorf("aggregate stock = %d, want 8", got)
	}
	stocks, _ := repo.ListByProduct(7)
	for _, s := range stocks {
		if s.Reserved != 0 {
			t.Errorf("warehouse %s still holds %d reserved", s.Warehouse, s.Reserved)
		}
	}
}

func TestRelease_BoundedByReservation(t *testing.T) {
	repo := NewInMemoryRepository(seed())
	if err := repo.Reserve(7, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := repo.Release(7, 5); !errors.Is(err, ErrReservationTooLarge) {
		t.Fatalf("got %v, want ErrReservationTooLarge", err)
	}
	if err := repo.Release(7, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestPostgresReserve_ResyncsAggregateInSameTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, warehouse, product_id, quantity, reserved, updated_at`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "warehouse", "product_id", "quantity", "reserved", "updated_at"}).
			AddRow(1, "casablanca", 7, 10, 2, time.Now()).
			AddRow(2, "tangier", 7, 4, 0, time.Now()))
	mock.ExpectExec(`UPDATE warehouse_stocks SET reserved = reserved \+`).
		WithArgs(8, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE warehouse_stocks SET reserved = reserved \+`).
		WithArgs(2, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE products SET stock = COALESCE`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Reserve(7, 10); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresReserve_InsufficientRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, warehouse, product_id, quantity, reserved, updated_at`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "warehouse", "product_id", "quantity", "reserved", "updated_at"}).
			AddRow(1, "casablanca", 7, 3, 1, time.Now()))
	mock.ExpectRollback()

	if err := repo.Reserve(7, 5); !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
