package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tlemarchand/locadoc/internal/core/domain"
	"github.com/tlemarchand/locadoc/internal/core/ports"
)

type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the file, computes its content checksum while streaming,
// persists the metadata row and publishes the processing event.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	meta domain.UploadMeta,
	body io.Reader,
) (*domain.Document, error) {
	if strings.TrimSpace(meta.OrgID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", fmt.Errorf("org id is required"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(meta.Filename))
	now := time.Now().UTC()

	hasher := sha256.New()
	counter := &countingReader{r: io.TeeReader(body, hasher)}
	if err := uc.storage.Save(ctx, storageKey, counter); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	docType := meta.DocType
	if docType == "" {
		docType = domain.DefaultDocType
	}

	doc := &domain.Document{
		ID:          id,
		OrgID:       meta.OrgID,
		Filename:    meta.Filename,
		MimeType:    meta.MimeType,
		StoragePath: storageKey,
		SizeBytes:   counter.n,
		Pages:       meta.Pages,
		DocType:     docType,
		Period:      meta.Period,
		Context:     meta.Context,
		Checksum:    "sha256:" + hex.EncodeToString(hasher.Sum(nil)),
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
