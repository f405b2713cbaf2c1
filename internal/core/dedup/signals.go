package dedup

import (
	"strings"
	"time"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

// singlePageTypes are document-type substrings that normally come as a
// single page.
var singlePageTypes = []string{"quittance", "facture", "avis", "reçu", "recu"}

var periodLayouts = []string{"2006-01", "2006-01-02"}

func computeSignals(file domain.UploadFile, cand domain.CandidateDocument, similarity float64) domain.ComparisonSignals {
	return domain.ComparisonSignals{
		ChecksumMatch:     checksumsEqual(file.Checksum, cand.Checksum),
		Similarity:        similarity,
		NewPages:          file.Pages,
		ExistingPages:     cand.Pages,
		NewSizeBytes:      file.SizeBytes,
		ExistingSizeBytes: cand.SizeBytes,
		NewQuality:        file.OCRQuality,
		ExistingQuality:   cand.OCRQuality,
		PeriodMatch:       periodsMatch(file.Period, cand.Period),
		ContextMatch:      contextsMatch(file.Context, cand.Context),
		FilenameMatch:     filenamesMatch(file.Filename, cand.Filename),
		SinglePageType:    IsSinglePageType(file.DocType),
	}
}

// checksumsEqual compares checksum strings literally. A "sha256:" prefix on
// one side only makes the comparison fail; callers surface that drift
// instead of normalizing here.
func checksumsEqual(a, b string) bool {
	return a != "" && b != "" && a == b
}

// periodsMatch requires both periods to parse and share calendar year and
// month. Absent or unparseable periods never match.
func periodsMatch(a, b string) bool {
	ta, okA := parsePeriod(a)
	tb, okB := parsePeriod(b)
	if !okA || !okB {
		return false
	}
	return ta.Year() == tb.Year() && ta.Month() == tb.Month()
}

func parsePeriod(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// contextsMatch is an OR over property, tenant and lease: any field present
// and equal on both sides counts.
func contextsMatch(a, b domain.DocumentContext) bool {
	return bothEqual(a.PropertyID, b.PropertyID) ||
		bothEqual(a.TenantID, b.TenantID) ||
		bothEqual(a.LeaseID, b.LeaseID)
}

func bothEqual(a, b string) bool {
	return a != "" && a == b
}

var copyMarkers = []string{"(copie)", "(copy)", "_copy"}

func filenamesMatch(a, b string) bool {
	na := normalizeFilename(a)
	nb := normalizeFilename(b)
	return na != "" && na == nb
}

func normalizeFilename(name string) string {
	name = strings.ToLower(name)
	for _, marker := range copyMarkers {
		name = strings.ReplaceAll(name, marker, "")
	}
	return strings.Join(strings.Fields(name), "")
}

// IsSinglePageType reports whether the detected document type usually spans
// a single page. It only drives a presentation hint: the recommended action
// for potential duplicates stays ask_user either way.
func IsSinglePageType(docType string) bool {
	docType = strings.ToLower(docType)
	for _, t := range singlePageTypes {
		if strings.Contains(docType, t) {
			return true
		}
	}
	return false
}
