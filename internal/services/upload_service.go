package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stylesnap/backend/internal/apperrors"
	"go.uber.org/zap"
)

var uploadKinds = []string{"posts", "avatars", "cloths"}

// UploadService stores image uploads on local disk under per-kind
// subdirectories.
type UploadService struct {
	basePath     string
	maxBytes     int64
	allowedTypes map[string]string // content type to extension
	log          *zap.Logger
}

// NewUploadService creates an UploadService rooted at basePath.
func NewUploadService(basePath string, maxBytes int64, allowedTypes []string, log *zap.Logger) *UploadService {
	extensions := map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}
	allowed := make(map[string]string, len(allowedTypes))
	for _, t := range allowedTypes {
		if ext, ok := extensions[t]; ok {
			allowed[t] = ext
		}
	}
	return &UploadService{
		basePath:     basePath,
		maxBytes:     maxBytes,
		allowedTypes: allowed,
		log:          log,
	}
}

// Save validates and persists an uploaded image, returning its public
// relative path. kind selects the subdirectory (posts, avatars, cloths).
func (s *UploadService) Save(file *multipart.FileHeader, kind string, userID uint) (string, error) {
	if !validKind(kind) {
		return "", apperrors.Invalid("unknown upload kind")
	}
	if file.Size > s.maxBytes {
		return "", apperrors.Invalid(fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := s.allowedTypes[contentType]
	if !ok {
		return "", apperrors.Invalid("unsupported image type")
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.Internal("failed to open upload", err)
	}
	defer src.Close()

	dir := filepath.Join(s.basePath, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Internal("failed to create upload directory", err)
	}

	name := fmt.Sprintf("%d_%d%s", userID, time.Now().UnixNano(), ext)
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperrors.Internal("failed to create upload file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes)); err != nil {
		os.Remove(path)
		return "", apperrors.Internal("failed to write upload", err)
	}

	return "/" + filepath.ToSlash(filepath.Join("uploads", kind, name)), nil
}

// Delete removes a previously uploaded file by name, searching every
// kind subdirectory.
func (s *UploadService) Delete(filename string) error {
	// Reject traversal attempts.
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return apperrors.Invalid("invalid file name")
	}

	for _, kind := range uploadKinds {
		path := filepath.Join(s.basePath, kind, filename)
		err := os.Remove(path)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return apperrors.Internal("failed to delete upload", err)
		}
	}
	return apperrors.NotFound("file not found")
}

func validKind(kind string) bool {
	for _, k := range uploadKinds {
		if k == kind {
			return true
		}
	}
	return false
}
