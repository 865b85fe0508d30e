package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
	"go-warehouse-api/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a private in-memory sqlite database and migrates the
// full schema. Each test gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Privilege{},
		&model.Role{},
		&model.Product{},
		&model.StockMovement{},
		&model.Order{},
		&model.OrderItem{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.WithdrawalOrder{},
		&model.WithdrawalItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

type testEnv struct {
	db          *gorm.DB
	ledger      LedgerService
	orders      OrderService
	procurement ProcurementService
	movements   repository.MovementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	purchaseRepo := repository.NewPurchaseOrderRepo(db)
	withdrawalRepo := repository.NewWithdrawalOrderRepo(db)

	ledger := NewLedgerService(productRepo, movementRepo, db, nil)
	return &testEnv{
		db:          db,
		ledger:      ledger,
		orders:      NewOrderService(orderRepo, productRepo, ledger, db, nil),
		procurement: NewProcurementService(purchaseRepo, withdrawalRepo, productRepo, ledger, db, nil),
		movements:   movementRepo,
	}
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, stock int, price float64) *model.Product {
	t.Helper()

	p := &model.Product{
		SKU:      sku,
		Name:     "Product " + sku,
		Category: "test",
		Price:    price,
		Stock:    stock,
		MinStock: 1,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", sku, err)
	}
	return p
}

func currentStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var p model.Product
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload product %s: %v", id, err)
	}
	return p.Stock
}

func wantKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error of kind %q, got nil", want)
	}
	if got := apperr.KindOf(err); got != want {
		t.Fatalf("expected error kind %q, got %q (%v)", want, got, err)
	}
}
