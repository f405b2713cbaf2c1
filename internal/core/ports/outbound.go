package ports

import (
	"context"
	"io"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, ext domain.Extraction) error
	SaveAnalysis(ctx context.Context, id string, res domain.AnalysisResult) error
	// ListCandidates returns the organization's most recent non-deleted,
	// non-draft documents, excluding excludeID, newest first.
	ListCandidates(ctx context.Context, orgID, excludeID string, limit int) ([]domain.CandidateDocument, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text and an OCR-quality estimate from a
// stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (domain.Extraction, error)
}
