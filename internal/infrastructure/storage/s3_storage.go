// Package storage provides S3-compatible storage for exported documents.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	infraconfig "github.com/generatordok/backend/internal/infrastructure/config"
	"github.com/generatordok/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

var _ printing.PDFStorage = (*S3ExportStorage)(nil)

// S3ExportStorage keeps exported files in an S3 bucket.
// It works with any S3-compatible backend (AWS S3, MinIO, RustFS).
//
// Object keys mirror the file system layout: {year}/{month}/{export_id}/{file_name}.
type S3ExportStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	baseURL           string
	presignExpiration time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// S3ExportStorageOption is a functional option for configuring S3ExportStorage
type S3ExportStorageOption func(*S3ExportStorage)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ExportStorageOption {
	return func(s *S3ExportStorage) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for key prefixes and cleanup
func WithClock(now func() time.Time) S3ExportStorageOption {
	return func(s *S3ExportStorage) {
		s.now = now
	}
}

// NewS3ExportStorage creates a new S3ExportStorage from configuration.
func NewS3ExportStorage(cfg *infraconfig.StorageConfig, opts ...S3ExportStorageOption) (*S3ExportStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "/api/v1/exports"
	}

	storage := &S3ExportStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		baseURL:           strings.TrimRight(baseURL, "/"),
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.presignExpiration == 0 {
		storage.presignExpiration = 15 * time.Minute
	}

	return storage, nil
}

// Ping checks that the bucket is reachable
func (s *S3ExportStorage) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %s unreachable: %w", s.bucket, err)
	}
	return nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3ExportStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating export bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// lost a race with another instance
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads an exported file
func (s *S3ExportStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	key := path.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		req.ExportID.String(),
		req.FileName,
	)

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(req.Data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", req.FileName)),
	})
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload export", err)
	}

	s.logger.Info("export uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.Data)))

	return &printing.StoreResult{
		Path: key,
		URL:  s.GetURL(key),
		Size: int64(len(req.Data)),
	}, nil
}

// Get downloads an exported file by key
func (s *S3ExportStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, printing.NewRenderError(printing.ErrCodeFileNotFound, "file not found", err)
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to download export", err)
	}
	return out.Body, nil
}

// Delete removes an exported file
func (s *S3ExportStorage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete export", err)
	}

	s.logger.Info("export deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan removes objects last modified before now-age
func (s *S3ExportStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to list exports", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				s.logger.Warn("failed to delete old export",
					zap.String("key", aws.ToString(obj.Key)),
					zap.Error(err))
				continue
			}
			deleted++
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// GetURL returns the API download URL for a key.
// Downloads are streamed through Get so the bucket can stay private.
func (s *S3ExportStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, strings.TrimLeft(path.Clean("/"+key), "/"))
}

// PresignDownloadURL returns a time-limited direct link to the object
func (s *S3ExportStorage) PresignDownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", time.Time{}, err
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, s.now().Add(s.presignExpiration), nil
}

// GetBucket returns the bucket name
func (s *S3ExportStorage) GetBucket() string {
	return s.bucket
}

func validateRequest(req *printing.StoreRequest) error {
	if req == nil {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.ExportID == uuid.Nil {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "export ID is required", nil)
	}
	if req.FileName == "" || strings.ContainsAny(req.FileName, `/\`) || req.FileName == ".." {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "invalid file name", nil)
	}
	if len(req.Data) == 0 {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "file data is empty", nil)
	}
	return nil
}

func cleanKey(key string) (string, error) {
	if key == "" {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", printing.NewRenderError(printing.ErrCodeInvalidPath, "invalid path", nil)
		}
	}
	return strings.TrimLeft(key, "/"), nil
}
