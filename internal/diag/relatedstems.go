// Package diag provides secondary, non-scoring diagnostics surfaced through
// the related_stems MCP tool (nothing in the daemon calls it): it clusters an
// article's words by a general-purpose Porter2 stem, distinct from the
// language document's core/stem reduction that actually drives grading
// (§4.3-§4.4). It never influences sentence selection.
//
// Grounded on internal/semantic/stemmer.go (teacher), trimmed of its
// TranslationDictionary config coupling and StemmerChain/statistics
// scaffolding that had no SPEC_FULL.md consumer.
package diag

import (
	"sort"

	"github.com/surgebase/porter2"
)

// RelatedStems clusters words sharing a Porter2 stem. It is a read-only
// lookup built once per diagnostic request; it does not mutate its input.
type RelatedStems struct {
	minLength int
	groups    map[string][]string
}

// BuildRelatedStems groups words by their Porter2 stem. Words shorter than
// minLength are left in their own singleton group, since aggressive
// stemming of short words produces noisy, unhelpful clusters.
func BuildRelatedStems(words []string, minLength int) *RelatedStems {
	if minLength <= 0 {
		minLength = 3
	}
	groups := make(map[string][]string)
	for _, w := range words {
		key := w
		if len(w) >= minLength {
			key = porter2.Stem(w)
		}
		groups[key] = append(groups[key], w)
	}
	return &RelatedStems{minLength: minLength, groups: groups}
}

// Variations returns every word sharing a stem with word, including word
// itself, sorted for deterministic output.
func (r *RelatedStems) Variations(word string) []string {
	key := word
	if len(word) >= r.minLength {
		key = porter2.Stem(word)
	}
	out := append([]string(nil), r.groups[key]...)
	sort.Strings(out)
	return out
}

// Clusters returns every stem cluster containing more than one word,
// the set the related_stems MCP tool reports.
func (r *RelatedStems) Clusters() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for stem, words := range r.groups {
		if len(words) > 1 {
			sorted := append([]string(nil), words...)
			sort.Strings(sorted)
			out[stem] = sorted
		}
	}
	return out
}
