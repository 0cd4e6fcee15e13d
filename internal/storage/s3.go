package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"medsched/config"
)

const photoPrefix = "physicians/"

var (
	ErrEmptyFile    = errors.New("empty file data")
	ErrNotAnImage   = errors.New("file is not an image")
	ErrForeignURL   = errors.New("file URL does not belong to this bucket")
	ErrEmptyFileURL = errors.New("empty file URL")
)

type S3Storage struct {
	client  *minio.Client
	cfg     config.S3Config
	baseURL string
	logger  *zap.Logger
}

func NewS3Storage(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created S3 bucket", zap.String("bucket", cfg.Bucket))
	}

	return &S3Storage{
		client:  client,
		cfg:     cfg,
		baseURL: BaseURL(cfg),
		logger:  logger,
	}, nil
}

// BaseURL is the prefix of every object URL handed out for the bucket.
func BaseURL(cfg config.S3Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/") + "/"
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", scheme, cfg.Endpoint, cfg.Bucket)
}

// ObjectName extracts the object key from a URL produced under baseURL.
func ObjectName(baseURL, fileURL string) (string, error) {
	if fileURL == "" {
		return "", ErrEmptyFileURL
	}

	name, ok := strings.CutPrefix(fileURL, baseURL)
	if !ok || name == "" {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, fileURL)
	}
	return name, nil
}

func photoExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}

	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func (s *S3Storage) UploadFile(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	objectName := photoPrefix + uuid.New().String() + photoExtension(filename, contentType)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return s.baseURL + objectName, nil
}

func (s *S3Storage) DeleteFile(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	objectName, err := ObjectName(s.baseURL, fileURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}
