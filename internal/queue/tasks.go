package queue

import (
	"encoding/json"
	"fmt"

	"github.com/shoppingmall/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderAutoReceive 发货后自动确认收货任务
	TaskOrderAutoReceive = constants.TaskOrderAutoReceive
	// TaskStorageCleanup 存储文件清理任务
	TaskStorageCleanup = constants.TaskStorageCleanup
)

// OrderAutoReceivePayload 自动确认收货任务载荷
type OrderAutoReceivePayload struct {
	OrderID uint `json:"order_id"`
}

// StorageCleanupPayload 存储文件清理任务载荷
type StorageCleanupPayload struct {
	URLs   []string `json:"urls"`
	Reason string   `json:"reason"`
}

// NewOrderAutoReceiveTask 创建自动确认收货任务
func NewOrderAutoReceiveTask(payload OrderAutoReceivePayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, fmt.Errorf("order id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderAutoReceive, body), nil
}

// NewStorageCleanupTask 创建存储清理任务
func NewStorageCleanupTask(payload StorageCleanupPayload) (*asynq.Task, error) {
	if len(payload.URLs) > constants.StorageCleanupMaxFiles {
		return nil, fmt.Errorf("too many files in one cleanup task: %d", len(payload.URLs))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStorageCleanup, body), nil
}
