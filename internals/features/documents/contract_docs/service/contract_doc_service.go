package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	helper "admon_backend/internals/helpers/oss"
)

var (
	ErrUnsupportedTable = errors.New("table does not hold contract documents")
	ErrRecordNotFound   = errors.New("record not found")
	ErrAlreadyAttached  = errors.New("record already has a contract document")
	ErrNoDocument       = errors.New("record has no contract document")
	ErrNotPDF           = errors.New("only PDF files are accepted")
	ErrTooLarge         = errors.New("file exceeds 10 MiB")
	ErrBlobStore        = errors.New("blob store request failed")
)

// SignedURLTTL is how long a view link stays valid.
const SignedURLTTL = time.Hour

type record struct {
	ID        uuid.UUID `gorm:"column:id"`
	ClientID  uuid.UUID `gorm:"column:cliente"`
	ProjectID uuid.UUID `gorm:"column:proyecto"`
	URL       *string   `gorm:"column:contrato_url"`
}

type Attachment struct {
	Table       string
	RecordID    uuid.UUID
	ClientID    *uuid.UUID // defaults to the record's
	ProjectID   *uuid.UUID // defaults to the record's
	Body        io.Reader
	ContentType string
}

type StepResult struct {
	Table   string `json:"tabla"`
	Updated int64  `json:"actualizados"`
	Error   string `json:"error,omitempty"`
}

type Result struct {
	URL    string       `json:"contrato_url"`
	Object string       `json:"objeto"`
	Fanout []StepResult `json:"fanout"`
}

type Service struct {
	DB   *gorm.DB
	Blob helper.BlobStore
	Now  func() time.Time
}

func NewService(db *gorm.DB, blob helper.BlobStore) *Service {
	return &Service{DB: db, Blob: blob, Now: time.Now}
}

func (s *Service) load(ctx context.Context, table string, id uuid.UUID) (*record, error) {
	if !constants.IsDocumentTable(table) {
		return nil, ErrUnsupportedTable
	}
	var rec record
	err := s.DB.WithContext(ctx).Table(table).
		Select("id, cliente, proyecto, contrato_url").
		Where("id = ?", id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return &rec, nil
}

// readPDF enforces type and size before anything leaves the process.
func readPDF(body io.Reader, contentType string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, constants.MaxContractSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > constants.MaxContractSize {
		return nil, ErrTooLarge
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if len(data) == 0 || !constants.IsPDF(contentType, head) {
		return nil, ErrNotPDF
	}
	return data, nil
}

// Attach uploads the document once, stores its URL on the record, then
// copies the URL to every sale-shaped row of the same client and project
// that has none. Fan-out steps run in order and a failed step does not
// undo the earlier ones.
func (s *Service) Attach(ctx context.Context, in Attachment) (*Result, error) {
	if !constants.IsDocumentTable(in.Table) {
		return nil, ErrUnsupportedTable
	}
	data, err := readPDF(in.Body, in.ContentType)
	if err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, in.Table, in.RecordID)
	if err != nil {
		return nil, err
	}
	if rec.URL != nil && *rec.URL != "" {
		return nil, ErrAlreadyAttached
	}
	clientID, projectID := rec.ClientID, rec.ProjectID
	if in.ClientID != nil {
		clientID = *in.ClientID
	}
	if in.ProjectID != nil {
		projectID = *in.ProjectID
	}

	name := fmt.Sprintf("%s-%d.pdf", rec.ID, s.Now().UnixMilli())
	key, err := s.Blob.Upload(ctx, name, bytes.NewReader(data), constants.MimePDF)
	if err != nil {
		log.Printf("[DOCS] upload %s: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrBlobStore, err)
	}
	url := s.Blob.PublicURL(key)

	res := s.DB.WithContext(ctx).Table(in.Table).
		Where("id = ? AND (contrato_url IS NULL OR contrato_url = '')", rec.ID).
		Update("contrato_url", url)
	if res.Error != nil || res.RowsAffected == 0 {
		if derr := s.Blob.DeleteObject(ctx, key); derr != nil {
			log.Printf("[DOCS] compensate delete %s: %v", key, derr)
		}
		if res.Error != nil {
			return nil, fmt.Errorf("save url on %s: %w", in.Table, res.Error)
		}
		return nil, ErrAlreadyAttached
	}

	out := &Result{URL: url, Object: name, Fanout: make([]StepResult, 0, len(constants.DocumentTable))}
	for _, table := range constants.DocumentTable {
		step := StepResult{Table: table}
		res := s.DB.WithContext(ctx).Table(table).
			Where("cliente = ? AND proyecto = ? AND contrato_url IS NULL", clientID, projectID).
			Update("contrato_url", url)
		if res.Error != nil {
			step.Error = res.Error.Error()
			log.Printf("[DOCS] ❌ fan-out %s (%s/%s): %v", table, clientID, projectID, res.Error)
		} else {
			step.Updated = res.RowsAffected
			log.Printf("[DOCS] ✅ fan-out %s (%s/%s): %d rows", table, clientID, projectID, res.RowsAffected)
		}
		out.Fanout = append(out.Fanout, step)
	}
	return out, nil
}

// SignedURL issues a fresh time-limited link for the record's document.
func (s *Service) SignedURL(ctx context.Context, table string, id uuid.UUID) (string, error) {
	rec, err := s.load(ctx, table, id)
	if err != nil {
		return "", err
	}
	if rec.URL == nil {
		return "", ErrNoDocument
	}
	name := helper.LastPathSegment(*rec.URL)
	if name == "" {
		return "", ErrNoDocument
	}
	u, err := s.Blob.SignedURL(ctx, name, SignedURLTTL)
	if errors.Is(err, helper.ErrObjectNotFound) {
		return "", ErrNoDocument
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBlobStore, err)
	}
	return u, nil
}
