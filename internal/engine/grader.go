package engine

import (
	"fmt"

	"github.com/standardbeagle/summarizerd/internal/container"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
)

// bucketWeights are the per-rank weights applied to the top-4 occurrence
// buckets, with index 4 meaning "not among the top 4 distinct counts".
var bucketWeights = [5]int{3, 2, 2, 2, 1}

// paragraphBoost is the paragraph-begin score multiplier (§4.4 step 3).
const paragraphBoost = 1.6

// Options controls grading behavior beyond the spec-mandated algorithm.
// The zero value reproduces the plain algorithm exactly.
type Options struct {
	Dedupe          bool    // suppress near-duplicate sentences (DOMAIN STACK)
	DedupeThreshold float64 // Jaro-Winkler threshold above which sentences are considered duplicates
}

// Grade scores every sentence in a, selects sentences greedily by
// descending score until the ratio-derived word budget is met, and marks
// Article.Sentences[i].IsSelected accordingly. ratio is a fraction in
// [0, 1]; the wire layer is responsible for converting the percentage
// carried in the request header. A ratio of 0 is valid and degrades
// gracefully to an empty selection (a zero-length REP_SUMMARY), matching
// the original's permissive bound check; callers that require a nonzero
// ratio (the batch CLI's -r flag) enforce that themselves.
func Grade(a *Article, lang *langdoc.Language, ratio float64, opts Options) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("grade: ratio must be in [0, 1], got %f", ratio)
	}

	top := topOccurrences(a.Words())

	for i := range a.Sentences {
		a.Sentences[i].Score = scoreSentence(a, lang, a.Sentences[i], top)
	}
	for i := range a.Sentences {
		if a.Sentences[i].IsParaBegin {
			a.Sentences[i].Score = int(float64(a.Sentences[i].Score) * paragraphBoost)
		} else if i == 0 {
			a.Sentences[i].Score *= 2
		}
	}

	selectSentences(a, ratio, opts)
	return nil
}

// topOccurrences returns the up-to-4 distinct highest occurrence counts
// found across the article's word table, descending, zero-padded.
func topOccurrences(words []Word) [4]int {
	var top [4]int
	for _, w := range words {
		count := w.NumOcc
		already := false
		for _, t := range top {
			if t == count {
				already = true
				break
			}
		}
		if already {
			continue
		}
		for i := 0; i < 4; i++ {
			if count > top[i] {
				copy(top[i+1:], top[i:3])
				top[i] = count
				break
			}
		}
	}
	return top
}

// bucketFor returns the top-occurrence bucket index for count: the
// position in top matching count, or 4 ("none") if it isn't among the
// top 4 distinct counts.
func bucketFor(top [4]int, count int) int {
	for i, t := range top {
		if t == count {
			return i
		}
	}
	return 4
}

// scoreSentence recomputes each word's stem across the sentence's byte
// range (mirroring the original parse, per §4.4 step 2) and accumulates
// weighted occurrence scores.
func scoreSentence(a *Article, lang *langdoc.Language, s Sentence, top [4]int) int {
	src := a.src
	pos, end := s.Begin, s.End
	score := 0

	for pos < end {
		for pos < end && isSpace(src[pos]) {
			pos++
		}
		if pos >= end {
			break
		}
		begin := pos
		for pos < end && !isSpace(src[pos]) {
			pos++
		}
		raw := string(src[begin:pos])
		if raw == "" {
			continue
		}

		_, stem, excluded := lang.Reduce(raw)
		if excluded {
			continue
		}

		idx, found := container.BinarySearchBy(a.Words(), func(w Word) int {
			if stem < w.Stem {
				return -1
			}
			if stem > w.Stem {
				return 1
			}
			return 0
		})
		if !found {
			continue
		}
		w := a.Words()[idx]
		score += w.NumOcc * bucketWeights[bucketFor(top, w.NumOcc)]
	}

	return score
}

// selectSentences sorts sentence indices by descending score (ties:
// later document-order sentences placed before earlier ones, per §9's
// "equal goes before existing" rule) and greedily marks sentences
// selected until the ratio-derived word budget is exhausted.
func selectSentences(a *Article, ratio float64, opts Options) {
	order := container.NewBuffer[int](len(a.Sentences))
	cmp := func(x, y int) int { return a.Sentences[y].Score - a.Sentences[x].Score }
	for i := range a.Sentences {
		order.SortedInsert(i, cmp, true)
	}

	var dedupe *dedupeFilter
	if opts.Dedupe {
		dedupe = newDedupeFilter(opts.DedupeThreshold)
	}

	// Truncates toward zero like the original's size_t assignment
	// (lib.c's `max_words = article->num_words * ratio`), not rounds up.
	budget := int(float64(a.NumWords) * ratio)
	for _, idx := range order.Items() {
		if budget <= 0 {
			break
		}
		s := a.Sentences[idx]
		if dedupe != nil && !dedupe.Allow(a.Text(s.Begin, s.End)) {
			continue
		}
		a.Sentences[idx].IsSelected = true
		budget -= s.NumWords
	}
}
