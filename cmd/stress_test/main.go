package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mk2304/postmart/internal/adapter/storage"
	"github.com/mk2304/postmart/internal/config"
	"github.com/mk2304/postmart/internal/core/domain"
	"github.com/mk2304/postmart/internal/core/service"
)

// Oversell probe: hammers one (product, location) pair with concurrent
// checkouts and verifies that exactly initialStock of them commit and
// the final quantity is zero.
const (
	locationID    = "stress-location"
	initialStock  = 20
	totalRequests = 50
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	productID := "stress-product-" + uuid.NewString()

	// Seed inventory for this run
	inventoryStore := storage.NewMySQLInventory(db)
	if err := inventoryStore.StockIn(ctx, productID, locationID, initialStock); err != nil {
		log.Fatalf("failed to seed stock: %v", err)
	}

	checkout := service.NewCheckoutService(storage.NewMySQLOrders(db), storage.NewRedisAdapter(rdb))

	var successCount atomic.Int32
	var stockOutCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()

			principal := domain.Principal{CustomerID: fmt.Sprintf("customer-%d", userID)}
			cart := []domain.CartLine{{ProductID: productID, Quantity: 1, UnitPrice: 9.99}}

			_, err := checkout.PlaceOrder(ctx, uuid.NewString(), principal, locationID, cart)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockOutCount.Add(1)
			default:
				failCount.Add(1)
				log.Printf("checkout error: %v", err)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	remaining, err := inventoryStore.GetAvailable(ctx, productID, locationID)
	if err != nil {
		log.Fatalf("failed to read stock: %v", err)
	}

	log.Printf("requests=%d success=%d stock_out=%d failed=%d elapsed=%s",
		totalRequests, successCount.Load(), stockOutCount.Load(), failCount.Load(), elapsed)
	log.Printf("remaining stock: %d", remaining)

	if successCount.Load() != initialStock || remaining != 0 {
		log.Fatalf("OVERSELL CHECK FAILED: expected %d successes and 0 remaining", initialStock)
	}
	log.Println("oversell check passed")

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM order_items WHERE product_id = ?`, productID)
	db.ExecContext(ctx, `DELETE FROM orders WHERE location_id = ?`, locationID)
	db.ExecContext(ctx, `DELETE FROM product_inventory WHERE product_id = ?`, productID)
}
