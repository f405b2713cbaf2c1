package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tlemarchand/locadoc/internal/core/dedup"
	"github.com/tlemarchand/locadoc/internal/core/domain"
	"github.com/tlemarchand/locadoc/internal/core/ports"
)

type AnalyzeDocumentUseCase struct {
	repo           ports.DocumentRepository
	engine         *dedup.Engine
	candidateLimit int
	logger         *slog.Logger
}

func NewAnalyzeDocumentUseCase(
	repo ports.DocumentRepository,
	engine *dedup.Engine,
	candidateLimit int,
	logger *slog.Logger,
) *AnalyzeDocumentUseCase {
	if candidateLimit <= 0 {
		candidateLimit = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeDocumentUseCase{
		repo:           repo,
		engine:         engine,
		candidateLimit: candidateLimit,
		logger:         logger,
	}
}

// AnalyzeStored runs duplicate analysis for a persisted document against its
// organization's candidate pool and saves the outcome.
func (uc *AnalyzeDocumentUseCase) AnalyzeStored(ctx context.Context, documentID string) (domain.AnalysisResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	pool, err := uc.repo.ListCandidates(ctx, doc.OrgID, doc.ID, uc.candidateLimit)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("list candidate documents: %w", err)
	}

	file := descriptorFromDocument(doc)
	result := uc.analyze(file, pool)

	if err := uc.repo.SaveAnalysis(ctx, doc.ID, result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("save analysis: %w", err)
	}
	return result, nil
}

// Check runs the engine on a caller-supplied pool without touching storage.
func (uc *AnalyzeDocumentUseCase) Check(_ context.Context, file domain.UploadFile, pool []domain.CandidateDocument) domain.AnalysisResult {
	return uc.analyze(file, pool)
}

func (uc *AnalyzeDocumentUseCase) analyze(file domain.UploadFile, pool []domain.CandidateDocument) domain.AnalysisResult {
	uc.warnChecksumDrift(file, pool)
	return uc.engine.Analyze(file, pool)
}

// warnChecksumDrift flags candidate checksums that differ from the upload's
// only by the "sha256:" prefix. The engine compares literally; these pairs
// silently miss the checksum rule, so surface them for operators.
func (uc *AnalyzeDocumentUseCase) warnChecksumDrift(file domain.UploadFile, pool []domain.CandidateDocument) {
	if file.Checksum == "" {
		return
	}
	for i := range pool {
		cand := &pool[i]
		if cand.Checksum == "" || cand.Checksum == file.Checksum {
			continue
		}
		if stripChecksumPrefix(cand.Checksum) == stripChecksumPrefix(file.Checksum) {
			uc.logger.Warn("checksum_format_drift",
				"upload_id", file.ID,
				"candidate_id", cand.ID,
				"upload_checksum", file.Checksum,
				"candidate_checksum", cand.Checksum,
			)
		}
	}
}

func stripChecksumPrefix(checksum string) string {
	return strings.TrimPrefix(checksum, "sha256:")
}

func descriptorFromDocument(doc *domain.Document) domain.UploadFile {
	return domain.UploadFile{
		ID:         doc.ID,
		Filename:   doc.Filename,
		SizeBytes:  doc.SizeBytes,
		Pages:      doc.Pages,
		Text:       doc.Text,
		OCRQuality: doc.OCRQuality,
		DocType:    doc.DocType,
		Period:     doc.Period,
		Context:    doc.Context,
		Checksum:   doc.Checksum,
	}
}
