package dedup

import (
	"math"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

const (
	// qualityDeltaThreshold: OCR quality differences above this decide the
	// replace/cancel tie-break outright.
	qualityDeltaThreshold = 0.03

	// sizeDeltaRatio: size differences under this fraction of the larger
	// file are treated as equivalent content; the smaller file wins.
	sizeDeltaRatio = 0.05
)

func recommend(dupType domain.DuplicateType, s domain.ComparisonSignals) domain.SuggestedAction {
	switch dupType {
	case domain.DuplicateExact:
		return domain.ActionCancel
	case domain.DuplicateNear:
		if newFileIsBetter(s) {
			return domain.ActionReplace
		}
		return domain.ActionCancel
	case domain.DuplicatePotential:
		return domain.ActionAskUser
	default:
		return domain.ActionProceed
	}
}

// newFileIsBetter decides the near-duplicate tie-break. The existing file
// wins by default.
func newFileIsBetter(s domain.ComparisonSignals) bool {
	if diff := s.NewQuality - s.ExistingQuality; math.Abs(diff) > qualityDeltaThreshold {
		return diff > 0
	}

	larger := s.NewSizeBytes
	if s.ExistingSizeBytes > larger {
		larger = s.ExistingSizeBytes
	}
	if larger > 0 {
		delta := s.NewSizeBytes - s.ExistingSizeBytes
		if delta < 0 {
			delta = -delta
		}
		if float64(delta) < sizeDeltaRatio*float64(larger) {
			return s.NewSizeBytes < s.ExistingSizeBytes
		}
	}
	return false
}
