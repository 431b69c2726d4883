package engine

import "github.com/hbollon/go-edlib"

// dedupeFilter suppresses sentences whose text is a near-duplicate of one
// already selected, using Jaro-Winkler similarity. It is consulted by
// selectSentences only when grader.dedupe is enabled (DOMAIN STACK); the
// default path never calls Similarity and is therefore unaffected.
//
// Adapted from the teacher's semantic.FuzzyMatcher (which backed
// identifier/term matching over a translation dictionary): trimmed to the
// single algorithm this grader needs and retargeted at sentence text
// instead of symbol names.
type dedupeFilter struct {
	threshold float64
	selected  []string
}

func newDedupeFilter(threshold float64) *dedupeFilter {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.92
	}
	return &dedupeFilter{threshold: threshold}
}

// Allow reports whether text may be selected: true if it is not a
// near-duplicate of any already-accepted sentence, in which case text is
// recorded for future comparisons.
func (d *dedupeFilter) Allow(text string) bool {
	for _, prior := range d.selected {
		if similarity(text, prior) >= d.threshold {
			return false
		}
	}
	d.selected = append(d.selected, text)
	return true
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
