package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, org_id, filename").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisPersistsOutcome(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "exact_duplicate", "cancel", "doc-old", 0.999, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnalysis(context.Background(), "doc-1", domain.AnalysisResult{
		DuplicateType:   domain.DuplicateExact,
		SuggestedAction: domain.ActionCancel,
		MatchedDocument: &domain.MatchedDocument{ID: "doc-old"},
		Signals:         domain.ComparisonSignals{Similarity: 0.999},
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisWithoutMatchStoresEmptyID(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "none", "proceed", "", 0.4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnalysis(context.Background(), "doc-1", domain.AnalysisResult{
		DuplicateType:   domain.DuplicateNone,
		SuggestedAction: domain.ActionProceed,
		Signals:         domain.ComparisonSignals{Similarity: 0.4},
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListCandidatesFiltersAndScans(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	uploadedAt := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "filename", "created_at", "size_bytes", "pages", "extracted_text", "ocr_quality",
		"doc_type", "period", "property_id", "lease_id", "tenant_id", "checksum",
	}).AddRow(
		"doc-old", "quittance.pdf", uploadedAt, int64(1200), 1, "loyer janvier", 0.9,
		"Quittance", "2025-01", "prop-1", "lease-1", "tenant-1", "sha256:abc",
	)

	mock.ExpectQuery("SELECT id, filename, created_at").
		WithArgs("org-1", "doc-new", 50).
		WillReturnRows(rows)

	out, err := repo.ListCandidates(context.Background(), "org-1", "doc-new", 50)
	if err != nil {
		t.Fatalf("ListCandidates() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	cand := out[0]
	if cand.ID != "doc-old" || cand.Period != "2025-01" || cand.Context.LeaseID != "lease-1" {
		t.Fatalf("unexpected candidate %+v", cand)
	}
	if !cand.UploadedAt.Equal(uploadedAt) {
		t.Fatalf("unexpected uploaded at %v", cand.UploadedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
