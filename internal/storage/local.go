package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultLocalDir       = "./uploads"
	defaultLocalURLPrefix = "/uploads"
)

// LocalStorage 本地磁盘存储，通过静态路由对外提供访问
type LocalStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(dir, urlPrefix string) (*LocalStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultLocalDir
	}
	urlPrefix = strings.TrimRight(strings.TrimSpace(urlPrefix), "/")
	if urlPrefix == "" {
		urlPrefix = defaultLocalURLPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	return &LocalStorage{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir 返回本地根目录
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save 写入本地文件
func (s *LocalStorage) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	cleanKey, fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, body); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}
	return s.urlPrefix + "/" + cleanKey, nil
}

// Delete 删除本地文件
func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return fmt.Errorf("url not managed by local storage: %s", url)
	}
	_, fullPath, err := s.resolve(strings.TrimPrefix(url, s.urlPrefix+"/"))
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SignedURL 本地存储无需签名
func (s *LocalStorage) SignedURL(ctx context.Context, url string, expires time.Duration) (string, error) {
	return url, nil
}

// Owns 判断 URL 是否位于本地前缀下
func (s *LocalStorage) Owns(url string) bool {
	return strings.HasPrefix(strings.TrimSpace(url), s.urlPrefix+"/")
}

// resolve 规范化对象 key，保证最终路径位于根目录内
func (s *LocalStorage) resolve(key string) (string, string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if cleaned == "" {
		return "", "", fmt.Errorf("empty object key")
	}
	return cleaned, filepath.Join(s.dir, filepath.FromSlash(cleaned)), nil
}
