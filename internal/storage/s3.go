package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shoppingmall/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage S3 兼容对象存储
type S3Storage struct {
	client       *s3.Client
	bucket       string
	region       string
	endpoint     string
	cdnDomain    string
	basePath     string
	usePathStyle bool
}

// NewS3Storage 创建 S3 存储
func NewS3Storage(cfg *config.StorageConfig) (*S3Storage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Storage{
		client:       client,
		bucket:       cfg.Bucket,
		region:       cfg.Region,
		endpoint:     endpoint,
		cdnDomain:    strings.TrimRight(strings.TrimSpace(cfg.CDNDomain), "/"),
		basePath:     strings.Trim(strings.TrimSpace(cfg.BasePath), "/"),
		usePathStyle: cfg.UsePathStyle,
	}, nil
}

// Save 上传对象
func (s *S3Storage) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	objectKey := s.objectKey(key)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object failed: %w", err)
	}
	return s.publicURL(objectKey), nil
}

// Delete 删除对象
func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key := s.extractKey(url)
	if key == "" {
		return fmt.Errorf("url not managed by s3 storage: %s", url)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// SignedURL 生成预签名下载地址
func (s *S3Storage) SignedURL(ctx context.Context, url string, expires time.Duration) (string, error) {
	key := s.extractKey(url)
	if key == "" {
		return "", fmt.Errorf("url not managed by s3 storage: %s", url)
	}
	presigned, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

// Owns 判断 URL 是否属于当前桶
func (s *S3Storage) Owns(url string) bool {
	return s.extractKey(url) != ""
}

func (s *S3Storage) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.basePath == "" {
		return key
	}
	return s.basePath + "/" + key
}

func (s *S3Storage) urlBase() string {
	switch {
	case s.cdnDomain != "":
		if strings.HasPrefix(s.cdnDomain, "http://") || strings.HasPrefix(s.cdnDomain, "https://") {
			return s.cdnDomain
		}
		return "https://" + s.cdnDomain
	case s.endpoint != "" && s.usePathStyle:
		return s.endpoint + "/" + s.bucket
	case s.endpoint != "":
		scheme, host, ok := strings.Cut(s.endpoint, "://")
		if !ok {
			return "https://" + s.bucket + "." + s.endpoint
		}
		return scheme + "://" + s.bucket + "." + host
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucket, s.region)
	}
}

func (s *S3Storage) publicURL(key string) string {
	return s.urlBase() + "/" + key
}

func (s *S3Storage) extractKey(url string) string {
	prefix := s.urlBase() + "/"
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
