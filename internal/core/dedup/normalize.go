package dedup

import (
	"strings"
	"unicode"
)

// defaultStopwords are domain filler words stripped before similarity
// scoring. "loyer" is deliberately absent: it discriminates rent receipts
// from other document types.
var defaultStopwords = []string{
	"quittance",
	"facture",
	"avis",
	"taxe",
	"fonciere",
	"foncière",
	"habitation",
	"echeance",
	"échéance",
	"de",
}

type Normalizer struct {
	stopwords map[string]struct{}
}

// NewNormalizer builds a normalizer with the given stoplist. An empty slice
// selects the built-in list.
func NewNormalizer(stopwords []string) *Normalizer {
	if len(stopwords) == 0 {
		stopwords = defaultStopwords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Normalizer{stopwords: set}
}

// Normalize lowercases the text, collapses whitespace runs, strips
// punctuation and removes stopwords. Empty input yields an empty string.
func (n *Normalizer) Normalize(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// punctuation and symbols are dropped outright
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if _, stop := n.stopwords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
