package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tlemarchand/locadoc/internal/config"
	"github.com/tlemarchand/locadoc/internal/core/domain"
)

type ingestSuccessFake struct {
	lastMeta domain.UploadMeta
}

func (f *ingestSuccessFake) Upload(_ context.Context, meta domain.UploadMeta, body io.Reader) (*domain.Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}
	f.lastMeta = meta

	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		OrgID:       meta.OrgID,
		Filename:    meta.Filename,
		MimeType:    meta.MimeType,
		StoragePath: "doc-1_file.pdf",
		DocType:     meta.DocType,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func newTestHandler(cfg config.Config) (http.Handler, *ingestSuccessFake) {
	ingestor := &ingestSuccessFake{}
	router := NewRouter(cfg, ingestor, readerFake{}, analyzerFake{})
	return router.Handler(), ingestor
}

func multipartUpload(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "quittance_janvier.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake body")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField(%s) error = %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestHealthzEndpoint(t *testing.T) {
	handler, _ := newTestHandler(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadDocumentSuccess(t *testing.T) {
	handler, ingestor := newTestHandler(config.Config{})

	body, contentType := multipartUpload(t, map[string]string{
		"org_id":      "org-1",
		"doc_type":    "Quittance de loyer",
		"period":      "2026-01",
		"property_id": "prop-7",
		"pages":       "1",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}

	var docResp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&docResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if docResp["id"] != "doc-1" {
		t.Fatalf("unexpected response: %+v", docResp)
	}

	meta := ingestor.lastMeta
	if meta.OrgID != "org-1" || meta.DocType != "Quittance de loyer" || meta.Period != "2026-01" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Context.PropertyID != "prop-7" || meta.Pages != 1 {
		t.Fatalf("unexpected meta context: %+v", meta)
	}
	if meta.Filename != "quittance_janvier.pdf" {
		t.Fatalf("unexpected filename: %q", meta.Filename)
	}
}

func TestUploadDocumentMissingMultipartField(t *testing.T) {
	handler, _ := newTestHandler(config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUploadDocumentMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	handler, _ := newTestHandler(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header on response")
	}
}

func TestRequestIDHeaderIsPropagated(t *testing.T) {
	handler, _ := newTestHandler(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}
