package helper

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStore is what the document workflow needs from object storage.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader, contentType string) (key string, err error)
	PublicURL(key string) string
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

var _ BlobStore = (*OSSService)(nil)

// --------------------------------------------------
// Multipart helpers
// --------------------------------------------------

func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// GetFormFile returns the first file found under fieldNames ("file" by default).
func GetFormFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if !IsMultipart(c) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "use multipart/form-data")
	}
	if len(fieldNames) == 0 {
		fieldNames = []string{"file", "documento", "contrato"}
	}
	for _, fn := range fieldNames {
		if fh, err := c.FormFile(fn); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
}

// --------------------------------------------------
// Mock for unit tests
// --------------------------------------------------

type MockBlobStore struct {
	UploadFn       func(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	SignedURLFn    func(ctx context.Context, name string, ttl time.Duration) (string, error)
	DeleteObjectFn func(ctx context.Context, key string) error
	Base           string

	Uploads int
	Deletes int
}

func (m *MockBlobStore) Upload(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	m.Uploads++
	if m.UploadFn == nil {
		_, _ = io.Copy(io.Discard, r)
		return name, nil
	}
	return m.UploadFn(ctx, name, r, contentType)
}

func (m *MockBlobStore) PublicURL(key string) string {
	base := m.Base
	if base == "" {
		base = "https://blob.test/" + DefaultContractsBucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}

func (m *MockBlobStore) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if m.SignedURLFn == nil {
		return m.PublicURL(name) + "?signed=1", nil
	}
	return m.SignedURLFn(ctx, name, ttl)
}

func (m *MockBlobStore) DeleteObject(ctx context.Context, key string) error {
	m.Deletes++
	if m.DeleteObjectFn == nil {
		return nil
	}
	return m.DeleteObjectFn(ctx, key)
}
