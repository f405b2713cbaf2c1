package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tlemarchand/locadoc/internal/config"
	"github.com/tlemarchand/locadoc/internal/core/domain"
	"github.com/tlemarchand/locadoc/internal/core/ports"
	"github.com/tlemarchand/locadoc/internal/observability/metrics"
)

const maxUploadMemoryBytes = 32 << 20

type Router struct {
	cfg      config.Config
	ingestor ports.DocumentIngestor
	reader   ports.DocumentReader
	analyzer ports.DuplicateAnalyzer
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	analyzer ports.DuplicateAnalyzer,
) *Router {
	return &Router{
		cfg:      cfg,
		ingestor: ingestor,
		reader:   reader,
		analyzer: analyzer,
		metrics:  metrics.NewHTTPServerMetrics("api"),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentSubroutes)
	mux.HandleFunc("/v1/duplicates/check", rt.checkDuplicates)
	mux.Handle("/metrics", rt.metrics.Handler())

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, rt.cfg.BackpressureWait())
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = metricsMiddleware(handler, rt.metrics)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemoryBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	meta := uploadMetaFromForm(r, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))

	doc, err := rt.ingestor.Upload(r.Context(), meta, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func uploadMetaFromForm(r *http.Request, filename, mimeType string) domain.UploadMeta {
	pages, _ := strconv.Atoi(r.FormValue("pages"))
	return domain.UploadMeta{
		OrgID:    strings.TrimSpace(r.FormValue("org_id")),
		Filename: filename,
		MimeType: mimeType,
		Pages:    pages,
		DocType:  strings.TrimSpace(r.FormValue("doc_type")),
		Period:   strings.TrimSpace(r.FormValue("period")),
		Context: domain.DocumentContext{
			PropertyID: strings.TrimSpace(r.FormValue("property_id")),
			LeaseID:    strings.TrimSpace(r.FormValue("lease_id")),
			TenantID:   strings.TrimSpace(r.FormValue("tenant_id")),
		},
	}
}

// documentSubroutes dispatches /v1/documents/{id} and
// /v1/documents/{id}/analysis.
func (rt *Router) documentSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")

	if id, ok := strings.CutSuffix(rest, "/analysis"); ok {
		rt.analyzeDocument(w, r, id)
		return
	}
	rt.getDocumentByID(w, r, rest)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	start := time.Now()
	result, err := rt.analyzer.AnalyzeStored(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.observeAnalysis(result, start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) checkDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		File domain.UploadFile          `json:"file"`
		Pool []domain.CandidateDocument `json:"pool"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadMemoryBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.File.Filename) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file.filename is required"})
		return
	}

	start := time.Now()
	result := rt.analyzer.Check(r.Context(), req.File, req.Pool)
	rt.observeAnalysis(result, start)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) observeAnalysis(result domain.AnalysisResult, start time.Time) {
	rt.metrics.ObserveAnalysis(
		"api",
		string(result.DuplicateType),
		string(result.SuggestedAction),
		time.Since(start),
	)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
