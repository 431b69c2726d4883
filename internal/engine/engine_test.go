package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseDictionary = `<dictionary>
  <parser>
    <linebreak><rule>.|</rule></linebreak>
  </parser>
</dictionary>`

func mustLoadLang(t *testing.T, doc string) *langdoc.Language {
	t.Helper()
	lang, err := langdoc.Load(strings.NewReader(doc))
	require.NoError(t, err)
	return lang
}

func summarize(t *testing.T, text string, lang *langdoc.Language, ratio float64) string {
	t.Helper()
	article, err := ParseArticle([]byte(text), lang)
	require.NoError(t, err)
	require.NoError(t, Grade(article, lang, ratio, Options{}))
	return Summary(article)
}

func TestExclusionBypassDoesNotAffectSelection(t *testing.T) {
	lang := mustLoadLang(t, `<dictionary>
  <parser><linebreak><rule>.|</rule></linebreak></parser>
  <exclude><word>the</word></exclude>
</dictionary>`)

	got := summarize(t, "The cat. The dog.", lang, 1.0)
	assert.Equal(t, "The cat. The dog. ", got)
}

func TestProperNounPreservation(t *testing.T) {
	// The post1 rule strips the sentence-ending period from the word core,
	// as a real language document does; without it "sparkles." keeps it.
	lang := mustLoadLang(t, `<dictionary>
  <stemmer><post1><rule>.|</rule></post1></stemmer>
  <parser><linebreak><rule>.|</rule></linebreak></parser>
</dictionary>`)

	article, err := ParseArticle([]byte("Paris sparkles. Paris shines."), lang)
	require.NoError(t, err)

	words := article.Words()
	stems := make(map[string]int, len(words))
	for _, w := range words {
		stems[w.Stem] = w.NumOcc
	}
	assert.Equal(t, map[string]int{"Paris": 2, "sparkles": 1, "shines": 1}, stems)
}

func TestRatioBudgetOvershootByOneSentence(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		for w := 0; w < 10; w++ {
			sb.WriteString("word ")
		}
		sb.WriteString(". ")
	}

	article, err := ParseArticle([]byte(sb.String()), lang)
	require.NoError(t, err)
	require.NoError(t, Grade(article, lang, 0.3, Options{}))

	total := 0
	for _, s := range article.Sentences {
		if s.IsSelected {
			total += s.NumWords
		}
	}
	assert.GreaterOrEqual(t, total, 30)
	assert.Less(t, total-lastSelectedWords(article), 30)
}

func lastSelectedWords(a *Article) int {
	for i := len(a.Sentences) - 1; i >= 0; i-- {
		if a.Sentences[i].IsSelected {
			return a.Sentences[i].NumWords
		}
	}
	return 0
}

func TestDeterministicRoundTrip(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)
	text := "The quick fox jumps. The lazy dog sleeps. The fox runs away."

	a := summarize(t, text, lang, 0.5)
	b := summarize(t, text, lang, 0.5)
	assert.Equal(t, a, b)
}

func TestWordsSortedByStem(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)
	article, err := ParseArticle([]byte("zebra apple mango apple."), lang)
	require.NoError(t, err)

	words := article.Words()
	for i := 1; i < len(words); i++ {
		assert.LessOrEqual(t, words[i-1].Stem, words[i].Stem)
	}
	for _, w := range words {
		assert.GreaterOrEqual(t, w.NumOcc, 1)
	}
}

func TestGradeRejectsOutOfRangeRatio(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)
	article, err := ParseArticle([]byte("One sentence."), lang)
	require.NoError(t, err)

	assert.Error(t, Grade(article, lang, -0.1, Options{}))
	assert.Error(t, Grade(article, lang, 1.5, Options{}))
}

func TestGradeZeroRatioSelectsNothing(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)
	article, err := ParseArticle([]byte("The cat runs. The dog sleeps."), lang)
	require.NoError(t, err)

	require.NoError(t, Grade(article, lang, 0, Options{}))
	assert.Equal(t, "", Summary(article))
}

func TestDedupeSuppressesNearDuplicateSentences(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)
	text := "The quick brown fox jumps high. The quick brown fox jumps high. A totally different sentence appears here now."

	article, err := ParseArticle([]byte(text), lang)
	require.NoError(t, err)
	require.NoError(t, Grade(article, lang, 1.0, Options{Dedupe: true, DedupeThreshold: 0.9}))

	selected := 0
	for _, s := range article.Sentences {
		if s.IsSelected {
			selected++
		}
	}
	assert.Less(t, selected, len(article.Sentences))
}

func TestSummarizeProfiledMatchesUnprofiledOutput(t *testing.T) {
	lang := mustLoadLang(t, baseDictionary)
	text := "The cat runs fast. The dog sleeps well."

	want := summarize(t, text, lang, 1.0)
	got, profile, err := SummarizeProfiled([]byte(text), lang, 1.0, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, profile.Parse, time.Duration(0))
	assert.GreaterOrEqual(t, profile.Grade, time.Duration(0))
	assert.GreaterOrEqual(t, profile.Emit, time.Duration(0))
}
