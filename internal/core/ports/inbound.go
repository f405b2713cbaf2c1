package ports

import (
	"context"
	"io"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, meta domain.UploadMeta, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous post-upload
// processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DuplicateAnalyzer runs duplicate analysis for stored documents and for
// caller-supplied pools.
type DuplicateAnalyzer interface {
	AnalyzeStored(ctx context.Context, documentID string) (domain.AnalysisResult, error)
	Check(ctx context.Context, file domain.UploadFile, pool []domain.CandidateDocument) domain.AnalysisResult
}
