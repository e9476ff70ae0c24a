package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shoppingmall/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "post/2026/01/a.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	require.Equal(t, "/uploads/post/2026/01/a.png", url)
	require.True(t, store.Owns(url))

	content, err := os.ReadFile(filepath.Join(dir, "post", "2026", "01", "a.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(content))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "post", "2026", "01", "a.png"))
	require.True(t, os.IsNotExist(err))

	// 重复删除视为成功
	require.NoError(t, store.Delete(context.Background(), url))
}

func TestLocalStorageRejectsEscapingKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "../../etc/x.txt", strings.NewReader("x"), 1, "")
	require.NoError(t, err)
	require.Equal(t, "/uploads/etc/x.txt", url)
	_, err = os.Stat(filepath.Join(dir, "etc", "x.txt"))
	require.NoError(t, err)
}

func TestDeleteAllSkipsForeignURLs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "icon/a.png", strings.NewReader("x"), 1, "")
	require.NoError(t, err)
	require.NoError(t, DeleteAll(context.Background(), store, []string{"", "https://example.com/x.png", url}))
	_, err = os.Stat(filepath.Join(dir, "icon", "a.png"))
	require.True(t, os.IsNotExist(err))
}

func TestBuildObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	key := BuildObjectKey("Post", "PNG", now)
	require.True(t, strings.HasPrefix(key, "post/2026/03/"), key)
	require.True(t, strings.HasSuffix(key, ".png"), key)

	require.True(t, strings.HasPrefix(BuildObjectKey("", ".jpg", now), "common/"))
}

func TestS3StorageURLMapping(t *testing.T) {
	store, err := NewS3Storage(&config.StorageConfig{
		Provider:  "s3",
		Bucket:    "mall",
		Region:    "us-east-1",
		AccessKey: "ak",
		SecretKey: "sk",
		BasePath:  "/assets/",
	})
	require.NoError(t, err)
	require.Equal(t, "assets/post/a.png", store.objectKey("post/a.png"))

	url := store.publicURL(store.objectKey("post/a.png"))
	require.Equal(t, "https://mall.s3.us-east-1.amazonaws.com/assets/post/a.png", url)
	require.Equal(t, "assets/post/a.png", store.extractKey(url))
	require.False(t, store.Owns("/uploads/post/a.png"))

	pathStyle, err := NewS3Storage(&config.StorageConfig{
		Bucket:       "mall",
		Region:       "auto",
		AccessKey:    "ak",
		SecretKey:    "sk",
		Endpoint:     "http://minio:9000/",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.Equal(t, "http://minio:9000/mall/a.png", pathStyle.publicURL("a.png"))

	cdn, err := NewS3Storage(&config.StorageConfig{Bucket: "mall", Region: "us-east-1", AccessKey: "ak", SecretKey: "sk", CDNDomain: "cdn.example.com"})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/a.png", cdn.publicURL("a.png"))
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(&config.StorageConfig{Provider: "ftp"})
	require.Error(t, err)

	store, err := New(&config.StorageConfig{Provider: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	_, ok := store.(*LocalStorage)
	require.True(t, ok)
}
