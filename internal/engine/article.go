// Package engine implements the article parser, grader, and summary
// emitter: the core text-processing pipeline described in spec §4.3-4.5.
// Grounded on lib.c's article_parse/get_word_core/get_word_stem/
// grade_article/print_summary and header.h's sentence_s/word_s/article_s.
package engine

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/summarizerd/internal/container"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
)

// Word is a distinct stem observed in the article, with its occurrence
// count and its first-seen byte span (into the article's source bytes).
type Word struct {
	Stem       string
	NumOcc     int
	FirstBegin int
	FirstEnd   int
}

// Sentence is a document-order span of the article with a computed score.
type Sentence struct {
	Begin       int // first non-space byte of the sentence
	End         int // one past the terminating word
	NumWords    int
	Score       int
	IsParaBegin bool
	IsSelected  bool
}

// Article owns the parsed sentence and word-stem tables for one document.
type Article struct {
	src       []byte
	Sentences []Sentence
	words     *container.Buffer[Word]
	seen      *container.HashIndex
	NumWords  int
}

func wordCompare(a, b Word) int { return strings.Compare(a.Stem, b.Stem) }

// ParseArticle tokenizes src using lang's rule lists and returns the
// resulting Article: sentence spans in document order and a stem table
// sorted by stem.
func ParseArticle(src []byte, lang *langdoc.Language) (*Article, error) {
	a := &Article{src: src, words: container.NewBuffer[Word](64), seen: container.NewHashIndex(64)}

	var cur *Sentence
	pendingParaBegin := false
	atSentenceStart := true

	pos, n := 0, len(src)

	for pos < n {
		paragraph := false
		for pos < n && isSpace(src[pos]) {
			if src[pos] == '\n' || src[pos] == '\r' {
				paragraph = true
			}
			pos++
		}
		if paragraph {
			pendingParaBegin = true
		}
		if pos >= n {
			break
		}

		if atSentenceStart {
			cur = &Sentence{Begin: pos, IsParaBegin: pendingParaBegin}
			pendingParaBegin = false
			atSentenceStart = false
		}

		begin := pos
		for pos < n && !isSpace(src[pos]) {
			pos++
		}
		raw := string(src[begin:pos])
		if raw == "" {
			continue
		}

		cur.NumWords++

		if _, stem, excluded := lang.Reduce(raw); !excluded {
			a.recordWord(stem, begin, pos)
		}

		if lang.EndsSentence(raw) {
			cur.End = pos
			a.NumWords += cur.NumWords
			a.Sentences = append(a.Sentences, *cur)
			atSentenceStart = true
		}
	}

	// An article not ending in a recognized line-break still closes its
	// final sentence at the document's end.
	if !atSentenceStart && cur != nil {
		cur.End = pos
		a.NumWords += cur.NumWords
		a.Sentences = append(a.Sentences, *cur)
	}

	return a, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// recordWord increments stem's occurrence count, inserting a fresh entry if
// this is the first occurrence. The hash index is consulted first as a
// cache for the common case of a repeated word; a candidate is only
// trusted once its stem is confirmed to match (insertions shift later
// buffer indices, so a stale candidate is simply ignored in favor of the
// binary search, which remains authoritative, per SPEC_FULL.md's
// container hash-index note).
func (a *Article) recordWord(stem string, begin, end int) {
	for _, idx := range a.seen.Candidates(stem) {
		if idx < a.words.Len() && a.words.At(idx).Stem == stem {
			w := a.words.At(idx)
			w.NumOcc++
			a.words.Set(idx, w)
			return
		}
	}

	idx, found := a.words.Search(func(i int) int { return strings.Compare(stem, a.words.At(i).Stem) })
	if found {
		w := a.words.At(idx)
		w.NumOcc++
		a.words.Set(idx, w)
		a.seen.Record(stem, idx)
		return
	}

	idx = a.words.SortedInsert(Word{Stem: stem, NumOcc: 1, FirstBegin: begin, FirstEnd: end}, wordCompare, false)
	a.seen.Record(stem, idx)
}

// Words returns the stem table, sorted by stem.
func (a *Article) Words() []Word { return a.words.Items() }

// Source returns the article's underlying document bytes.
func (a *Article) Source() []byte { return a.src }

// Text returns the raw text of a word span.
func (a *Article) Text(begin, end int) string { return string(a.src[begin:end]) }

func (a *Article) String() string {
	return fmt.Sprintf("Article{sentences=%d words=%d numWords=%d}", len(a.Sentences), a.words.Len(), a.NumWords)
}
