package dedup

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Tokens shorter than this are treated as noise and dropped before scoring.
const minTokenRunes = 3

// CosineSimilarity scores two normalized texts in [0,1] using a bag-of-words
// cosine over raw term frequencies. Repeated tokens count; this is neither
// Jaccard nor TF-IDF. A side with no usable tokens scores exactly 0.
func CosineSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	freqA := termFreq(tokensA)
	freqB := termFreq(tokensB)

	var dot, normA, normB float64
	for term, fa := range freqA {
		normA += fa * fa
		if fb, ok := freqB[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range freqB {
		normB += fb * fb
	}

	magA := math.Sqrt(normA)
	magB := math.Sqrt(normB)
	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (magA * magB)
	if sim > 1 {
		sim = 1
	}
	return sim
}

func tokenize(s string) []string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenRunes {
			continue
		}
		out = append(out, f)
	}
	return out
}

func termFreq(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}
