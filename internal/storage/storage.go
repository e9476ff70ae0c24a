package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/constants"

	"github.com/google/uuid"
)

// Storage 文件存储接口
type Storage interface {
	// Save 写入对象并返回可访问 URL
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete 按 URL 删除对象，对象不存在时视为成功
	Delete(ctx context.Context, url string) error
	// SignedURL 返回带有效期的访问地址
	SignedURL(ctx context.Context, url string, expires time.Duration) (string, error)
	// Owns 判断 URL 是否由当前存储生成
	Owns(url string) bool
}

// New 根据配置创建存储实现
func New(cfg *config.StorageConfig) (Storage, error) {
	if cfg == nil {
		return NewLocalStorage("", "")
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", constants.StorageProviderLocal:
		return NewLocalStorage(cfg.LocalDir, cfg.LocalURLPrefix)
	case constants.StorageProviderS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// BuildObjectKey 生成对象路径：scene/yyyy/mm/uuid.ext
func BuildObjectKey(scene, ext string, now time.Time) string {
	scene = strings.ToLower(strings.TrimSpace(scene))
	if scene == "" {
		scene = "common"
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(scene, now.Format("2006"), now.Format("01"), uuid.New().String()+ext)
}

// DeleteAll 批量删除，返回首个错误并继续处理其余对象
func DeleteAll(ctx context.Context, s Storage, urls []string) error {
	if s == nil {
		return nil
	}
	var firstErr error
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" || !s.Owns(url) {
			continue
		}
		if err := s.Delete(ctx, url); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", url, err)
		}
	}
	return firstErr
}
