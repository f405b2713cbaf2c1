package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// DefaultDocType is used when no document type was detected for an upload.
const DefaultDocType = "Type inconnu"

// DocumentContext links a document to the property, lease and tenant it
// belongs to. All fields are optional.
type DocumentContext struct {
	PropertyID string `json:"property_id,omitempty"`
	LeaseID    string `json:"lease_id,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
}

type Document struct {
	ID          string          `json:"id"`
	OrgID       string          `json:"org_id"`
	Filename    string          `json:"filename"`
	MimeType    string          `json:"mime_type"`
	StoragePath string          `json:"storage_path"`
	SizeBytes   int64           `json:"size_bytes"`
	Pages       int             `json:"pages"`
	Text        string          `json:"-"`
	OCRQuality  float64         `json:"ocr_quality"`
	DocType     string          `json:"doc_type"`
	Period      string          `json:"period,omitempty"`
	Context     DocumentContext `json:"context"`
	Checksum    string          `json:"checksum,omitempty"`
	Draft       bool            `json:"draft"`
	Deleted     bool            `json:"deleted"`
	Status      DocumentStatus  `json:"status"`
	Error       string          `json:"error,omitempty"`

	DuplicateType     DuplicateType   `json:"duplicate_type,omitempty"`
	SuggestedAction   SuggestedAction `json:"suggested_action,omitempty"`
	MatchedDocumentID string          `json:"matched_document_id,omitempty"`
	Similarity        float64         `json:"similarity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadMeta carries the caller-declared metadata of a new upload.
type UploadMeta struct {
	OrgID    string
	Filename string
	MimeType string
	Pages    int
	DocType  string
	Period   string
	Context  DocumentContext
}

// Extraction is the output of the text-extraction step.
type Extraction struct {
	Text    string
	Quality float64
	Pages   int
}
