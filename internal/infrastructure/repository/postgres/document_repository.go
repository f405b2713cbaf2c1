package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	org_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	pages INTEGER NOT NULL DEFAULT 0,
	extracted_text TEXT NOT NULL DEFAULT '',
	ocr_quality DOUBLE PRECISION NOT NULL DEFAULT 0,
	doc_type TEXT NOT NULL DEFAULT '',
	period TEXT NOT NULL DEFAULT '',
	property_id TEXT NOT NULL DEFAULT '',
	lease_id TEXT NOT NULL DEFAULT '',
	tenant_id TEXT NOT NULL DEFAULT '',
	checksum TEXT NOT NULL DEFAULT '',
	draft BOOLEAN NOT NULL DEFAULT FALSE,
	deleted BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	duplicate_type TEXT NOT NULL DEFAULT '',
	suggested_action TEXT NOT NULL DEFAULT '',
	matched_document_id TEXT NOT NULL DEFAULT '',
	similarity DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_org_created ON documents(org_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_checksum ON documents(checksum);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, org_id, filename, mime_type, storage_path, size_bytes, pages, extracted_text, ocr_quality,
	doc_type, period, property_id, lease_id, tenant_id, checksum, draft, deleted,
	status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
`,
		doc.ID, doc.OrgID, doc.Filename, doc.MimeType, doc.StoragePath, doc.SizeBytes, doc.Pages,
		doc.Text, doc.OCRQuality, doc.DocType, doc.Period,
		doc.Context.PropertyID, doc.Context.LeaseID, doc.Context.TenantID,
		doc.Checksum, doc.Draft, doc.Deleted, string(doc.Status), doc.Error,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, org_id, filename, mime_type, storage_path, size_bytes, pages, extracted_text, ocr_quality,
	doc_type, period, property_id, lease_id, tenant_id, checksum, draft, deleted,
	status, error_message, duplicate_type, suggested_action, matched_document_id, similarity,
	created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var status, dupType, action string

	err := row.Scan(
		&doc.ID, &doc.OrgID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &doc.SizeBytes, &doc.Pages,
		&doc.Text, &doc.OCRQuality, &doc.DocType, &doc.Period,
		&doc.Context.PropertyID, &doc.Context.LeaseID, &doc.Context.TenantID,
		&doc.Checksum, &doc.Draft, &doc.Deleted, &status, &doc.Error,
		&dupType, &action, &doc.MatchedDocumentID, &doc.Similarity,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	doc.DuplicateType = domain.DuplicateType(dupType)
	doc.SuggestedAction = domain.SuggestedAction(action)
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRowAffected(res, "update document status", id)
}

func (r *DocumentRepository) SaveExtraction(ctx context.Context, id string, ext domain.Extraction) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET extracted_text = $2, ocr_quality = $3,
	pages = CASE WHEN $4 > 0 THEN $4 ELSE pages END,
	updated_at = $5
WHERE id = $1
`, id, ext.Text, ext.Quality, ext.Pages, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}
	return requireRowAffected(res, "save extraction", id)
}

func (r *DocumentRepository) SaveAnalysis(ctx context.Context, id string, analysis domain.AnalysisResult) error {
	matchedID := ""
	if analysis.MatchedDocument != nil {
		matchedID = analysis.MatchedDocument.ID
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET duplicate_type = $2, suggested_action = $3, matched_document_id = $4, similarity = $5, updated_at = $6
WHERE id = $1
`, id, string(analysis.DuplicateType), string(analysis.SuggestedAction), matchedID,
		analysis.Signals.Similarity, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return requireRowAffected(res, "save analysis", id)
}

func (r *DocumentRepository) ListCandidates(ctx context.Context, orgID, excludeID string, limit int) ([]domain.CandidateDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, created_at, size_bytes, pages, extracted_text, ocr_quality,
	doc_type, period, property_id, lease_id, tenant_id, checksum
FROM documents
WHERE org_id = $1 AND id <> $2 AND NOT deleted AND NOT draft
ORDER BY created_at DESC
LIMIT $3
`, orgID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CandidateDocument, 0, limit)
	for rows.Next() {
		var cand domain.CandidateDocument
		err := rows.Scan(
			&cand.ID, &cand.Filename, &cand.UploadedAt, &cand.SizeBytes, &cand.Pages,
			&cand.Text, &cand.OCRQuality, &cand.DocType, &cand.Period,
			&cand.Context.PropertyID, &cand.Context.LeaseID, &cand.Context.TenantID,
			&cand.Checksum,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

func requireRowAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
