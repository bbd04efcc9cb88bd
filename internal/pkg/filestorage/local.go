package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
)

// LocalStorage stores files on the local filesystem and serves them through
// the static /uploads route.
type LocalStorage struct {
	basePath string // root directory for stored files
	baseURL  string // URL prefix returned to callers
}

// NewLocalStorage creates a LocalStorage rooted at basePath. Returned file
// URLs are prefixed with baseURL.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath stores the upload under subPath with a UUID-based name so
// concurrent uploads never collide.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	return ls.SaveFileAs(fileHeader, subPath, uuid.New().String()+ext)
}

// SaveFileAs stores the upload at subPath/filename, replacing any previous
// file at that path.
func (ls *LocalStorage) SaveFileAs(fileHeader *multipart.FileHeader, subPath, filename string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dirPath := ls.basePath
	if subPath != "" {
		dirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", dirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	dstPath := filepath.Join(dirPath, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	fileURL := ls.baseURL + "/" + path.Join(subPath, filename)
	logger.Info().Str("filename", fileHeader.Filename).Str("url", fileURL).Msg("File saved")
	return fileURL, nil
}

// SignedURL returns the public URL unchanged: local files are served
// statically without signing.
func (ls *LocalStorage) SignedURL(_ context.Context, fileURL string, _ time.Duration) (string, error) {
	return fileURL, nil
}

// DeleteFile removes the file a stored URL points at. Absent files are
// treated as already deleted.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	rel := fileURL
	if ls.baseURL != "" && strings.HasPrefix(fileURL, ls.baseURL) {
		rel = strings.TrimPrefix(fileURL, ls.baseURL)
	}
	rel = strings.TrimLeft(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
