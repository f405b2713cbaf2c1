// Package dedup scores a freshly uploaded file against an organization's
// existing documents and classifies the relationship as an exact, near or
// potential duplicate, with a recommended remediation action.
//
// The engine is pure and stateless: the caller supplies the full candidate
// pool (already filtered to the right organization, excluding drafts and
// deleted documents) and gets back a single structured result. It is safe
// for concurrent use.
package dedup

import "github.com/tlemarchand/locadoc/internal/core/domain"

type Engine struct {
	normalizer *Normalizer
}

// NewEngine builds an engine with the given stopword list; nil or empty
// selects the built-in list.
func NewEngine(stopwords []string) *Engine {
	return &Engine{normalizer: NewNormalizer(stopwords)}
}

// Analyze compares the upload against every candidate, keeps the best
// textual match, folds in checksum evidence and returns the classification.
// A missing document type falls back to DefaultDocType; missing text scores
// a similarity of 0 rather than failing.
func (e *Engine) Analyze(file domain.UploadFile, pool []domain.CandidateDocument) domain.AnalysisResult {
	if file.DocType == "" {
		file.DocType = domain.DefaultDocType
	}
	if len(pool) == 0 {
		return noneResult(domain.ComparisonSignals{})
	}

	normalized := e.normalizer.Normalize(file.Text)

	var best *domain.CandidateDocument
	var checksumHit *domain.CandidateDocument
	bestSim := -1.0
	for i := range pool {
		cand := &pool[i]
		sim := CosineSimilarity(normalized, e.normalizer.Normalize(cand.Text))
		if sim > bestSim {
			best = cand
			bestSim = sim
		}
		if checksumHit == nil && checksumsEqual(file.Checksum, cand.Checksum) {
			checksumHit = cand
		}
	}

	// Checksum evidence overrides a weak textual best.
	if checksumHit != nil && best != checksumHit && bestSim < checksumOverrideMaxSimilarity {
		best = checksumHit
		bestSim = CosineSimilarity(normalized, e.normalizer.Normalize(checksumHit.Text))
	}

	signals := computeSignals(file, *best, bestSim)

	// Pre-filter gate: without a checksum hit, weak textual matches skip
	// classification entirely.
	if bestSim < preFilterMinSimilarity && checksumHit == nil {
		return noneResult(signals)
	}

	dupType := classify(signals)

	// Re-evaluate against the checksum candidate when the textual best
	// classified weaker than exact; checksum equality always at least flags
	// a duplicate.
	if checksumHit != nil && best != checksumHit && dupType != domain.DuplicateExact {
		best = checksumHit
		sim := CosineSimilarity(normalized, e.normalizer.Normalize(checksumHit.Text))
		signals = computeSignals(file, *checksumHit, sim)
		dupType = classify(signals)
	}

	if dupType == domain.DuplicateNone {
		return noneResult(signals)
	}

	matched := &domain.MatchedDocument{
		ID:         best.ID,
		Filename:   best.Filename,
		UploadedAt: best.UploadedAt,
	}
	action := recommend(dupType, signals)

	return domain.AnalysisResult{
		DuplicateType:   dupType,
		SuggestedAction: action,
		MatchedDocument: matched,
		Signals:         signals,
		Presentation:    buildPresentation(dupType, action, signals, matched),
	}
}

func noneResult(signals domain.ComparisonSignals) domain.AnalysisResult {
	return domain.AnalysisResult{
		DuplicateType:   domain.DuplicateNone,
		SuggestedAction: domain.ActionProceed,
		MatchedDocument: nil,
		Signals:         signals,
		Presentation:    neutralPresentation(),
	}
}
