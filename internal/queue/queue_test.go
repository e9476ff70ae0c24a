package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shoppingmall/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderAutoReceive(OrderAutoReceivePayload{OrderID: 1}, time.Hour); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.EnqueueStorageCleanup(StorageCleanupPayload{URLs: []string{"/uploads/a.png"}}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestNewOrderAutoReceiveTask(t *testing.T) {
	if _, err := NewOrderAutoReceiveTask(OrderAutoReceivePayload{}); err == nil {
		t.Fatalf("zero order id should be rejected")
	}
	task, err := NewOrderAutoReceiveTask(OrderAutoReceivePayload{OrderID: 9})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderAutoReceive {
		t.Fatalf("task type want %s got %s", TaskOrderAutoReceive, task.Type())
	}
	var payload OrderAutoReceivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.OrderID != 9 {
		t.Fatalf("order id want 9 got %d", payload.OrderID)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 4, Queues: map[string]int{"critical": 6, "default": 3}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("concurrency want 4 got %d", cfg.Concurrency)
	}
	if cfg.Queues["critical"] != 6 {
		t.Fatalf("critical weight want 6 got %d", cfg.Queues["critical"])
	}

	_, fallback := BuildServerConfig(nil)
	if fallback.Concurrency != 10 || fallback.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected fallback config: %+v", fallback)
	}
}
