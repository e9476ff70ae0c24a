package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/storage"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var allowedUploadScenes = map[string]struct{}{
	constants.UploadScenePost:    {},
	constants.UploadSceneProduct: {},
	constants.UploadSceneAd:      {},
	constants.UploadSceneIcon:    {},
}

// UploadService 图片上传服务，校验后写入存储
type UploadService struct {
	cfg   config.UploadConfig
	store storage.Storage
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig, store storage.Storage) *UploadService {
	return &UploadService{cfg: cfg, store: store}
}

// SaveImage 校验并保存单张图片，返回访问地址
func (s *UploadService) SaveImage(ctx context.Context, file *multipart.FileHeader, scene string) (string, error) {
	if file == nil || file.Size <= 0 {
		return "", ErrEmptyUpload
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", uploadError{key: "error.upload_too_large", args: []interface{}{s.cfg.MaxSize / 1024 / 1024}}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return "", uploadError{key: "error.upload_extension_invalid", args: []interface{}{ext}}
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType, err := s.inspect(src)
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key := storage.BuildObjectKey(normalizeUploadScene(scene), ext, time.Now())
	return s.store.Save(ctx, key, src, file.Size, contentType)
}

// SaveImages 按顺序保存多张图片，任一失败时回收已写入的对象
func (s *UploadService) SaveImages(ctx context.Context, files []*multipart.FileHeader, scene string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.SaveImage(ctx, file, scene)
		if err != nil {
			s.Discard(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Discard 删除已写入但未落库的对象
func (s *UploadService) Discard(ctx context.Context, urls []string) {
	_ = storage.DeleteAll(ctx, s.store, urls)
}

// inspect 识别 MIME 类型并校验图片尺寸
func (s *UploadService) inspect(src multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyUpload
	}
	contentType := http.DetectContentType(buffer[:n])
	if len(s.cfg.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", uploadError{key: "error.upload_type_invalid", args: []interface{}{contentType}}
		}
	}

	if !strings.HasPrefix(contentType, "image/") {
		return contentType, nil
	}
	width, height, err := decodeImageDimensions(src, contentType)
	if err != nil {
		return "", uploadError{key: "error.upload_image_invalid"}
	}
	if s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth {
		return "", uploadError{key: "error.upload_width_exceeded", args: []interface{}{s.cfg.MaxWidth}}
	}
	if s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight {
		return "", uploadError{key: "error.upload_height_exceeded", args: []interface{}{s.cfg.MaxHeight}}
	}
	return contentType, nil
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return "common"
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("无法解析 WebP 图片: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析图片: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("无效的 WebP 文件头")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		if chunkSize < 0 {
			return 0, 0, fmt.Errorf("无效的 WebP chunk")
		}

		data := make([]byte, chunkSize)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		if chunkType == "VP8X" {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8X chunk 长度不足")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		}
		if chunkType == "VP8 " {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8 chunk 长度不足")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		}
		if chunkType == "VP8L" {
			if len(data) < 5 {
				return 0, 0, fmt.Errorf("VP8L chunk 长度不足")
			}
			if data[0] != 0x2f {
				return 0, 0, fmt.Errorf("VP8L 签名无效")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			width := int(bits&0x3FFF) + 1
			height := int((bits>>14)&0x3FFF) + 1
			return width, height, nil
		}

		if chunkSize%2 == 1 {
			if _, err := src.Seek(1, io.SeekCurrent); err != nil {
				return 0, 0, err
			}
		}
	}
}
