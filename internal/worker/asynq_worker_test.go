package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/provider"
	"github.com/shoppingmall/internal/queue"
	"github.com/shoppingmall/internal/repository"
	"github.com/shoppingmall/internal/service"
	"github.com/shoppingmall/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestHandleStorageCleanup(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new local storage failed: %v", err)
	}
	url, err := store.Save(context.Background(), "posts/2026/10/a.png", strings.NewReader("png"), 3, "image/png")
	if err != nil {
		t.Fatalf("save file failed: %v", err)
	}
	fullPath := filepath.Join(store.Dir(), "posts/2026/10/a.png")
	if _, err := os.Stat(fullPath); err != nil {
		t.Fatalf("saved file should exist: %v", err)
	}

	consumer := NewConsumer(&provider.Container{FileCleaner: service.NewFileCleaner(store, nil)})
	body, _ := json.Marshal(queue.StorageCleanupPayload{URLs: []string{url}, Reason: "post_deleted"})
	if err := consumer.handleStorageCleanup(context.Background(), asynq.NewTask(queue.TaskStorageCleanup, body)); err != nil {
		t.Fatalf("cleanup task failed: %v", err)
	}
	if _, err := os.Stat(fullPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file should be removed, stat err=%v", err)
	}

	if err := consumer.handleStorageCleanup(context.Background(), asynq.NewTask(queue.TaskStorageCleanup, []byte("{"))); err == nil {
		t.Fatalf("malformed payload should return error")
	}
}

func TestHandleOrderAutoReceive(t *testing.T) {
	db := setupWorkerTestDB(t)
	orderService := service.NewOrderService(service.OrderServiceOptions{
		OrderRepo: repository.NewOrderRepository(db),
	})
	consumer := NewConsumer(&provider.Container{OrderService: orderService})

	shippedAt := time.Now().Add(-time.Hour)
	shipped := &models.Order{UserID: 1, AddressID: 1, VariantID: 1, Quantity: 1, Status: constants.OrderStatusShipped, PaymentTime: time.Now(), ShippedAt: &shippedAt}
	if err := db.Create(shipped).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	run := func(orderID uint) error {
		body, _ := json.Marshal(queue.OrderAutoReceivePayload{OrderID: orderID})
		return consumer.handleOrderAutoReceive(context.Background(), asynq.NewTask(queue.TaskOrderAutoReceive, body))
	}

	if err := run(0); err != nil {
		t.Fatalf("empty order id should be skipped, got %v", err)
	}
	if err := run(shipped.ID); err != nil {
		t.Fatalf("auto receive failed: %v", err)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, shipped.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusReceived {
		t.Fatalf("status want %s got %s", constants.OrderStatusReceived, reloaded.Status)
	}

	// 重复投递与不存在的订单都应静默跳过
	if err := run(shipped.ID); err != nil {
		t.Fatalf("repeated task should be skipped, got %v", err)
	}
	if err := run(99999); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}
