package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"github.com/shoppingmall/internal/constants"
)

func textFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	_, _ = part.Write([]byte(content))
	_ = writer.Close()
	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestSaveImageRejectsInvalidUploads(t *testing.T) {
	uploads, _ := newTestUploads(t)
	ctx := context.Background()

	if _, err := uploads.SaveImage(ctx, nil, constants.UploadScenePost); !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("nil file want ErrEmptyUpload got %v", err)
	}

	_, err := uploads.SaveImage(ctx, textFileHeader(t, "notes.txt", "hello"), constants.UploadScenePost)
	var keyed interface{ Key() string }
	if !errors.Is(err, ErrUploadInvalid) || !errors.As(err, &keyed) || keyed.Key() != "error.upload_extension_invalid" {
		t.Fatalf("txt extension want error.upload_extension_invalid got %v", err)
	}

	_, err = uploads.SaveImage(ctx, textFileHeader(t, "fake.png", "plain text pretending"), constants.UploadScenePost)
	if !errors.As(err, &keyed) || keyed.Key() != "error.upload_type_invalid" {
		t.Fatalf("fake png want error.upload_type_invalid got %v", err)
	}
}

func TestSaveImagesStoresUnderScene(t *testing.T) {
	uploads, store := newTestUploads(t)

	urls, err := uploads.SaveImages(context.Background(), pngFileHeaders(t, 2), constants.UploadSceneProduct)
	if err != nil {
		t.Fatalf("save images failed: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("urls want 2 got %d", len(urls))
	}
	for _, url := range urls {
		if !strings.HasPrefix(url, "/uploads/product/") {
			t.Fatalf("url should live under scene dir, got %s", url)
		}
		if _, err := os.Stat(storedPath(store, url)); err != nil {
			t.Fatalf("stored file missing: %v", err)
		}
	}

	uploads.Discard(context.Background(), urls)
	for _, url := range urls {
		if _, err := os.Stat(storedPath(store, url)); !os.IsNotExist(err) {
			t.Fatalf("discarded file should be removed, stat err=%v", err)
		}
	}
}
