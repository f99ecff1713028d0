package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/mk2304/postmart/internal/core/domain"
)

const testLocation = "loc-test"

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/postmart?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func seedStock(t *testing.T, db *sql.DB, productID string, quantity int) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO product_inventory (product_id, location_id, quantity, updated_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), updated_at = NOW()`,
		productID, testLocation, quantity,
	)
	if err != nil {
		t.Fatalf("seed stock failed: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(),
			`DELETE FROM product_inventory WHERE product_id = ?`, productID)
	})
}

func TestReserve_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	seedStock(t, db, productID, 10)

	if err := ledger.Reserve(ctx, productID, testLocation, 3); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	qty, err := ledger.GetAvailable(ctx, productID, testLocation)
	if err != nil {
		t.Fatalf("GetAvailable failed: %v", err)
	}
	if qty != 7 {
		t.Errorf("expected quantity 7, got %d", qty)
	}
}

func TestReserve_InsufficientStock(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	seedStock(t, db, productID, 5)

	err := ledger.Reserve(ctx, productID, testLocation, 10)

	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if stockErr.ProductID != productID {
		t.Errorf("expected failing product %s, got %s", productID, stockErr.ProductID)
	}

	// Verify no mutation happened
	qty, _ := ledger.GetAvailable(ctx, productID, testLocation)
	if qty != 5 {
		t.Errorf("expected quantity unchanged at 5, got %d", qty)
	}
}

func TestReserve_NeverStocked(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ledger := NewMySQLInventory(db)

	// No inventory record at all reads as zero stock.
	err := ledger.Reserve(context.Background(), "prod-"+uuid.NewString(), testLocation, 1)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock for unstocked product, got: %v", err)
	}
}

func TestReserve_Concurrent(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	initialStock := 20
	totalRequests := 50

	seedStock(t, db, productID, initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.Reserve(ctx, productID, testLocation, 1)
			if err == nil {
				successCount.Add(1)
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}

	qty, _ := ledger.GetAvailable(ctx, productID, testLocation)
	if qty != 0 {
		t.Errorf("expected final quantity 0, got %d", qty)
	}
}

func TestRelease(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	seedStock(t, db, productID, 5)

	if err := ledger.Reserve(ctx, productID, testLocation, 2); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := ledger.Release(ctx, productID, testLocation, 2); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	qty, _ := ledger.GetAvailable(ctx, productID, testLocation)
	if qty != 5 {
		t.Errorf("expected quantity back at 5, got %d", qty)
	}
}

func TestRelease_NoRecord(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ledger := NewMySQLInventory(db)

	err := ledger.Release(context.Background(), "prod-"+uuid.NewString(), testLocation, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGetAvailable_NeverStocked(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ledger := NewMySQLInventory(db)

	qty, err := ledger.GetAvailable(context.Background(), "prod-"+uuid.NewString(), testLocation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qty != 0 {
		t.Errorf("expected 0 for unstocked product, got %d", qty)
	}
}

func TestAdjust_UpAndDown(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	seedStock(t, db, productID, 10)

	qty, err := ledger.Adjust(ctx, productID, testLocation, 5)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if qty != 15 {
		t.Errorf("expected quantity 15, got %d", qty)
	}

	qty, err = ledger.Adjust(ctx, productID, testLocation, -6)
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if qty != 9 {
		t.Errorf("expected quantity 9, got %d", qty)
	}
}

func TestAdjust_WouldGoNegative(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	seedStock(t, db, productID, 3)

	_, err := ledger.Adjust(ctx, productID, testLocation, -5)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	qty, _ := ledger.GetAvailable(ctx, productID, testLocation)
	if qty != 3 {
		t.Errorf("expected quantity unchanged at 3, got %d", qty)
	}
}

func TestStockIn_CreatesRecordOnFirstUse(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLInventory(db)
	productID := "prod-" + uuid.NewString()

	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM product_inventory WHERE product_id = ?`, productID)
	})

	if err := ledger.StockIn(ctx, productID, testLocation, 7); err != nil {
		t.Fatalf("StockIn failed: %v", err)
	}
	if err := ledger.StockIn(ctx, productID, testLocation, 3); err != nil {
		t.Fatalf("StockIn failed: %v", err)
	}

	qty, _ := ledger.GetAvailable(ctx, productID, testLocation)
	if qty != 10 {
		t.Errorf("expected quantity 10, got %d", qty)
	}
}
