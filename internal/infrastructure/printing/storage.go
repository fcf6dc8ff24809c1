package printing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFStorage stores exported files and serves them back
type PDFStorage interface {
	// Store saves a file and returns its path and URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a file by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a file
	Delete(ctx context.Context, path string) error
	// CleanupOlderThan removes files older than the specified duration
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns the accessible URL for a stored file
	GetURL(path string) string
}

// StoreRequest contains the parameters for storing an exported file
type StoreRequest struct {
	// ExportID groups the file under a unique directory
	ExportID uuid.UUID
	// FileName is the user-facing name, e.g. "kwitansi-KW-001.pdf"
	FileName string
	// ContentType of the data, e.g. "application/pdf"
	ContentType string
	// Data is the raw file content
	Data []byte
}

// StoreResult contains the result of storing a file
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// URL is the accessible URL for the file
	URL string
	// Size is the file size in bytes
	Size int64
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for exports
	// Default: ./data/exports
	BasePath string
	// BaseURL is the URL prefix for downloads
	// Default: /api/v1/exports
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores exports on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewFileSystemStorage creates a new file system based storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}

	if config.BasePath == "" {
		config.BasePath = "./data/exports"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/exports"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Ping checks that the base directory still exists and is a directory
func (s *FileSystemStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.config.BasePath)
	if err != nil {
		return NewRenderError(ErrCodeStorageFailed, "storage directory unavailable", err)
	}
	if !info.IsDir() {
		return NewRenderError(ErrCodeStorageFailed, s.config.BasePath+" is not a directory", nil)
	}
	return nil
}

// Store saves a file to the file system
// Path structure: {base}/{year}/{month}/{export_id}/{file_name}
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if err := validateStoreRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	relativePath := filepath.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		req.ExportID.String(),
		req.FileName,
	)
	filePath := filepath.Join(s.config.BasePath, relativePath)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(filePath, req.Data, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write file", err)
	}

	url := s.GetURL(relativePath)

	s.logger.Info("export stored",
		zap.String("path", filePath),
		zap.Int("size", len(req.Data)),
		zap.String("url", url))

	return &StoreResult{
		Path: filepath.ToSlash(relativePath),
		URL:  url,
		Size: int64(len(req.Data)),
	}, nil
}

// Get retrieves a file by its relative path
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewRenderError(ErrCodeFileNotFound, "file not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open file", err)
	}
	return file, nil
}

// Delete removes a file
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted, not an error
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete file", err)
	}

	s.logger.Info("export deleted", zap.String("path", path))
	return nil
}

// CleanupOlderThan removes files older than the specified duration
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	deletedCount := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deletedCount++
				s.logger.Debug("deleted old export", zap.String("path", path))
			}
		}
		return nil
	})

	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return deletedCount, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))

	return deletedCount, nil
}

// GetURL returns the accessible URL for a stored file
func (s *FileSystemStorage) GetURL(path string) string {
	cleanPath := filepath.ToSlash(filepath.Clean(path))
	return fmt.Sprintf("%s/%s", s.config.BaseURL, cleanPath)
}

// resolve maps a relative path under BasePath and blocks traversal
func (s *FileSystemStorage) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) || containsDotDot(path) {
		s.logger.Warn("blocked potentially malicious path",
			zap.String("path", path),
			zap.String("cleanPath", cleanPath))
		return "", NewRenderError(ErrCodeInvalidPath, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("absPath", absPath),
			zap.String("absBase", absBase))
		return "", NewRenderError(ErrCodeInvalidPath, "invalid path", nil)
	}
	return fullPath, nil
}

func validateStoreRequest(req *StoreRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.ExportID == uuid.Nil {
		return NewRenderError(ErrCodeStorageFailed, "export ID is required", nil)
	}
	if req.FileName == "" || strings.ContainsAny(req.FileName, `/\`) || containsDotDot(req.FileName) {
		return NewRenderError(ErrCodeStorageFailed, "invalid file name", nil)
	}
	if len(req.Data) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "file data is empty", nil)
	}
	return nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

var _ PDFStorage = (*FileSystemStorage)(nil)
