package domain

import "time"

type DuplicateType string

const (
	DuplicateExact     DuplicateType = "exact_duplicate"
	DuplicateNear      DuplicateType = "near_duplicate"
	DuplicatePotential DuplicateType = "potential_duplicate"
	DuplicateNone      DuplicateType = "none"
)

type SuggestedAction string

const (
	ActionCancel   SuggestedAction = "cancel"
	ActionReplace  SuggestedAction = "replace"
	ActionKeepBoth SuggestedAction = "keep_both"
	ActionAskUser  SuggestedAction = "ask_user"
	ActionProceed  SuggestedAction = "proceed"
)

// UploadFile describes a freshly uploaded file for duplicate analysis. It is
// built per request and never persisted.
type UploadFile struct {
	ID         string          `json:"id"`
	Filename   string          `json:"filename"`
	SizeBytes  int64           `json:"size_bytes"`
	Pages      int             `json:"pages"`
	Text       string          `json:"text"`
	OCRQuality float64         `json:"ocr_quality"`
	DocType    string          `json:"doc_type"`
	Period     string          `json:"period,omitempty"`
	Context    DocumentContext `json:"context"`
	Checksum   string          `json:"checksum,omitempty"`
}

// CandidateDocument is the read projection of a stored document used as a
// comparison-pool entry.
type CandidateDocument struct {
	ID         string          `json:"id"`
	Filename   string          `json:"filename"`
	UploadedAt time.Time       `json:"uploaded_at"`
	SizeBytes  int64           `json:"size_bytes"`
	Pages      int             `json:"pages"`
	Text       string          `json:"text"`
	OCRQuality float64         `json:"ocr_quality"`
	DocType    string          `json:"doc_type"`
	Period     string          `json:"period,omitempty"`
	Context    DocumentContext `json:"context"`
	Checksum   string          `json:"checksum,omitempty"`
}

// ComparisonSignals is the signal set computed for one (upload, candidate)
// pair.
type ComparisonSignals struct {
	ChecksumMatch     bool    `json:"checksum_match"`
	Similarity        float64 `json:"similarity"`
	NewPages          int     `json:"new_pages"`
	ExistingPages     int     `json:"existing_pages"`
	NewSizeBytes      int64   `json:"new_size_bytes"`
	ExistingSizeBytes int64   `json:"existing_size_bytes"`
	NewQuality        float64 `json:"new_quality"`
	ExistingQuality   float64 `json:"existing_quality"`
	PeriodMatch       bool    `json:"period_match"`
	ContextMatch      bool    `json:"context_match"`
	FilenameMatch     bool    `json:"filename_match"`
	SinglePageType    bool    `json:"single_page_type"`
}

type MatchedDocument struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Presentation is the user-facing rendering of an analysis result.
type Presentation struct {
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	Badges         []string `json:"badges"`
	Recommendation string   `json:"recommendation"`
}

// AnalysisResult is the sole output of the duplicate engine.
// MatchedDocument is non-nil exactly when DuplicateType is not none.
type AnalysisResult struct {
	DuplicateType   DuplicateType     `json:"duplicate_type"`
	SuggestedAction SuggestedAction   `json:"suggested_action"`
	MatchedDocument *MatchedDocument  `json:"matched_document"`
	Signals         ComparisonSignals `json:"signals"`
	Presentation    Presentation      `json:"presentation"`
}
