package service

import (
	"context"

	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/queue"
	"github.com/shoppingmall/internal/storage"
)

// FileCleaner 删除失去引用的存储对象，队列可用时异步执行
type FileCleaner struct {
	store       storage.Storage
	queueClient *queue.Client
}

// NewFileCleaner 创建文件清理器
func NewFileCleaner(store storage.Storage, queueClient *queue.Client) *FileCleaner {
	return &FileCleaner{store: store, queueClient: queueClient}
}

// Cleanup 清理对象，失败只记录日志
func (c *FileCleaner) Cleanup(ctx context.Context, urls []string, reason string) {
	if c == nil || len(urls) == 0 {
		return
	}
	if c.queueClient != nil && c.queueClient.Enabled() {
		err := c.queueClient.EnqueueStorageCleanup(queue.StorageCleanupPayload{URLs: urls, Reason: reason})
		if err == nil {
			return
		}
		logger.Warnw("storage_cleanup_enqueue_failed", "reason", reason, "count", len(urls), "error", err)
	}
	if err := c.Delete(ctx, urls); err != nil {
		logger.Warnw("storage_cleanup_inline_failed", "reason", reason, "count", len(urls), "error", err)
	}
}

// Delete 同步删除对象，供队列任务调用
func (c *FileCleaner) Delete(ctx context.Context, urls []string) error {
	if c == nil || c.store == nil {
		return nil
	}
	return storage.DeleteAll(ctx, c.store, urls)
}
