package dedup

import "github.com/tlemarchand/locadoc/internal/core/domain"

// Threshold constants. The pre-filter gate and the classifier thresholds
// overlap numerically but are maintained independently: a candidate can pass
// the 0.95 gate and still classify to none because rule 3 requires 0.99.
const (
	// preFilterMinSimilarity gates candidates before classification; below
	// it the engine short-circuits to none unless a checksum hit exists.
	preFilterMinSimilarity = 0.95

	// checksumOverrideMaxSimilarity: below this, checksum evidence replaces
	// the best textual match.
	checksumOverrideMaxSimilarity = 0.75

	exactSimilarityMin     = 0.995
	nearSimilarityMin      = 0.98
	potentialSimilarityMin = 0.99

	// potentialQualityDrop flags re-uploads of a worse scan of a document
	// already known for the same period and context.
	potentialQualityDrop = 0.1
)

// classify applies the ordered decision list; the first matching rule wins.
func classify(s domain.ComparisonSignals) domain.DuplicateType {
	switch {
	case s.ChecksumMatch || (s.NewPages == s.ExistingPages && s.Similarity >= exactSimilarityMin):
		return domain.DuplicateExact
	case s.Similarity >= nearSimilarityMin:
		return domain.DuplicateNear
	case s.Similarity >= potentialSimilarityMin ||
		(s.PeriodMatch && s.ContextMatch && s.ExistingQuality-s.NewQuality > potentialQualityDrop):
		return domain.DuplicatePotential
	default:
		return domain.DuplicateNone
	}
}
