package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopcraft/storefront/internal/alert/domain"
	"github.com/shopcraft/storefront/internal/alert/repository"
	catalogdomain "github.com/shopcraft/storefront/internal/catalog/domain"
	"github.com/shopcraft/storefront/internal/clock"
	"github.com/shopcraft/storefront/internal/migration"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestEnsureLowStockCreatesNotification(t *testing.T) {
	svc, db, node := setupAlertService(t)

	productID := seedProduct(t, db, node, "Widget", 3)

	if err := svc.EnsureLowStock(context.Background(), productID, 3); err != nil {
		t.Fatalf("ensure low stock: %v", err)
	}

	unread, err := svc.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread notification, got %d", len(unread))
	}
	want := "Low stock alert: Widget has only 3 items remaining"
	if unread[0].Message != want {
		t.Fatalf("expected message %q, got %q", want, unread[0].Message)
	}
	if unread[0].ProductName != "Widget" {
		t.Fatalf("expected product name Widget, got %q", unread[0].ProductName)
	}
	if unread[0].ProductStock != 3 {
		t.Fatalf("expected product stock 3, got %d", unread[0].ProductStock)
	}
}

func TestEnsureLowStockThresholdBoundary(t *testing.T) {
	svc, db, node := setupAlertService(t)

	atThreshold := seedProduct(t, db, node, "At Threshold", 5)
	justBelow := seedProduct(t, db, node, "Just Below", 4)

	if err := svc.EnsureLowStock(context.Background(), atThreshold, 5); err != nil {
		t.Fatalf("ensure at threshold: %v", err)
	}
	if count := countNotifications(t, db); count != 0 {
		t.Fatalf("expected no notification at threshold, got %d", count)
	}

	if err := svc.EnsureLowStock(context.Background(), justBelow, 4); err != nil {
		t.Fatalf("ensure just below: %v", err)
	}
	if count := countNotifications(t, db); count != 1 {
		t.Fatalf("expected 1 notification just below threshold, got %d", count)
	}
}

func TestEnsureLowStockSuppressesDuplicate(t *testing.T) {
	svc, db, node := setupAlertService(t)

	productID := seedProduct(t, db, node, "Gadget", 3)

	for i := 0; i < 3; i++ {
		if err := svc.EnsureLowStock(context.Background(), productID, 3); err != nil {
			t.Fatalf("ensure round %d: %v", i, err)
		}
	}
	if count := countNotifications(t, db); count != 1 {
		t.Fatalf("expected 1 notification after repeats, got %d", count)
	}

	// A further stock drop stays suppressed; the stored message keeps the
	// count observed at creation time.
	setStock(t, db, productID, 2)
	if err := svc.EnsureLowStock(context.Background(), productID, 2); err != nil {
		t.Fatalf("ensure after drop: %v", err)
	}
	unread, err := svc.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread notification after drop, got %d", len(unread))
	}
	if !strings.Contains(unread[0].Message, "only 3 items") {
		t.Fatalf("expected original message preserved, got %q", unread[0].Message)
	}
}

func TestEnsureLowStockConcurrent(t *testing.T) {
	svc, db, node := setupAlertService(t)

	productID := seedProduct(t, db, node, "Contended", 1)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.EnsureLowStock(context.Background(), productID, 1)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent ensure: %v", err)
		}
	}
	if count := countNotifications(t, db); count != 1 {
		t.Fatalf("expected 1 notification after concurrent calls, got %d", count)
	}
}

func TestEnsureLowStockMissingProduct(t *testing.T) {
	svc, db, node := setupAlertService(t)

	if err := svc.EnsureLowStock(context.Background(), node.Generate().Int64(), 2); err != nil {
		t.Fatalf("ensure missing product: %v", err)
	}
	if count := countNotifications(t, db); count != 0 {
		t.Fatalf("expected no notification for missing product, got %d", count)
	}
}

func TestSweepAllEvaluatesEveryLowProduct(t *testing.T) {
	svc, db, node := setupAlertService(t)

	seedProduct(t, db, node, "Low A", 1)
	seedProduct(t, db, node, "Low B", 4)
	seedProduct(t, db, node, "Healthy", 10)

	if err := svc.SweepAll(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if count := countNotifications(t, db); count != 2 {
		t.Fatalf("expected 2 notifications after sweep, got %d", count)
	}

	// A second sweep is a no-op while the alerts stay unread.
	if err := svc.SweepAll(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if count := countNotifications(t, db); count != 2 {
		t.Fatalf("expected 2 notifications after second sweep, got %d", count)
	}
}

func TestMarkReadLifecycle(t *testing.T) {
	svc, db, node := setupAlertService(t)

	productID := seedProduct(t, db, node, "Reader", 2)
	if err := svc.EnsureLowStock(context.Background(), productID, 2); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	unread, err := svc.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread, got %d", len(unread))
	}

	notification, err := svc.MarkRead(context.Background(), unread[0].ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !notification.Read {
		t.Fatalf("expected notification marked read")
	}

	unread, err = svc.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list unread after mark: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread after mark, got %d", len(unread))
	}

	// A read alert no longer suppresses; the next evaluation raises a new one.
	if err := svc.EnsureLowStock(context.Background(), productID, 2); err != nil {
		t.Fatalf("ensure after read: %v", err)
	}
	if count := countNotifications(t, db); count != 2 {
		t.Fatalf("expected a fresh notification after read, got %d", count)
	}
}

func TestMarkReadErrors(t *testing.T) {
	svc, _, node := setupAlertService(t)

	if _, err := svc.MarkRead(context.Background(), "not-a-number"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.MarkRead(context.Background(), node.Generate().String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func setupAlertService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	if err := migration.Bootstrap(db); err != nil {
		t.Fatalf("bootstrap schema: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewSystem(),
		Repo:  repository.Provide(),
	})

	return svc, db, node
}

func seedProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, name string, stock int) int64 {
	t.Helper()

	userID := node.Generate().Int64()
	now := time.Now().UTC()
	if err := db.Create(&catalogdomain.User{
		ID:    userID,
		Name:  "seller",
		Email: fmt.Sprintf("seller-%d@example.com", userID),
	}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	productID := node.Generate().Int64()
	if err := db.Create(&catalogdomain.Product{
		ID:        productID,
		Name:      name,
		Price:     10,
		Stock:     stock,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return productID
}

func setStock(t *testing.T, db *gorm.DB, productID int64, stock int) {
	t.Helper()
	if err := db.Exec("UPDATE products SET stock = ? WHERE id = ?", stock, productID).Error; err != nil {
		t.Fatalf("set stock: %v", err)
	}
}

func countNotifications(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var count int
	if err := db.Raw("SELECT COUNT(*) FROM notifications").Scan(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return count
}
