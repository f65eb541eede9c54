package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

const urlPrefix = "uploads"

// LocalStorage keeps uploaded attachments on the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage instance.
// When baseURL is set it prefixes returned paths instead of "uploads/".
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	subPath = cleanSubPath(subPath)

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, name)

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

	rel := path.Join(subPath, name)
	accessible := path.Join(urlPrefix, rel)
	if ls.baseURL != "" {
		accessible = ls.baseURL + "/" + rel
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("accessible_path", accessible).Msg("File saved successfully")
	return accessible, nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	full := ls.GetFullPath(filePath)
	if full == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", full).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", full).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", full).Msg("File deleted successfully")
	return nil
}

// GetFullPath maps "uploads/a/b.pdf" or "<baseURL>/a/b.pdf" back to basePath/a/b.pdf.
// It returns "" for paths that would escape basePath.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := fileURL
	switch {
	case ls.baseURL != "" && strings.HasPrefix(fileURL, ls.baseURL+"/"):
		rel = strings.TrimPrefix(fileURL, ls.baseURL+"/")
	case strings.HasPrefix(fileURL, urlPrefix+"/"):
		rel = strings.TrimPrefix(fileURL, urlPrefix+"/")
	default:
		if i := strings.Index(fileURL, "/"+urlPrefix+"/"); i >= 0 {
			rel = fileURL[i+len(urlPrefix)+2:]
		}
	}

	rel = cleanSubPath(rel)
	if rel == "" {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}

// cleanSubPath normalizes a slash path and drops any attempt to climb out of the root.
func cleanSubPath(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}
