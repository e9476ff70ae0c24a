package worker

import (
	"context"
	"encoding/json"

	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/provider"
	"github.com/shoppingmall/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderAutoReceive, c.handleOrderAutoReceive)
	mux.HandleFunc(queue.TaskStorageCleanup, c.handleStorageCleanup)
}

func (c *Consumer) handleOrderAutoReceive(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_auto_receive_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderAutoReceivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_auto_receive_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_auto_receive_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_auto_receive_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	received, err := c.OrderService.AutoReceive(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_auto_receive_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if !received {
		logger.Debugw("worker_order_auto_receive_skip_status_changed", "order_id", payload.OrderID)
		return nil
	}
	logger.Infow("worker_order_auto_received", "order_id", payload.OrderID)
	return nil
}

func (c *Consumer) handleStorageCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_storage_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StorageCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_storage_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.URLs) == 0 {
		return nil
	}
	if c.FileCleaner == nil {
		logger.Warnw("worker_storage_cleanup_skip_cleaner_nil", "count", len(payload.URLs))
		return nil
	}
	if err := c.FileCleaner.Delete(ctx, payload.URLs); err != nil {
		logger.Warnw("worker_storage_cleanup_failed", "reason", payload.Reason, "count", len(payload.URLs), "error", err)
		return err
	}
	logger.Debugw("worker_storage_cleanup_done", "reason", payload.Reason, "count", len(payload.URLs))
	return nil
}
