package langdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDictionary = `<dictionary>
  <stemmer>
    <pre1><rule>re|</rule></pre1>
    <post1><rule>ing|</rule></post1>
    <manual><rule>went|go</rule></manual>
    <pre><rule>un|</rule></pre>
    <post><rule>ed|</rule></post>
    <synonyms><rule>huge|big</rule></synonyms>
  </stemmer>
  <parser>
    <linebreak><rule>.|</rule><rule>!|</rule></linebreak>
    <linedontbreak><rule>Mr.|</rule></linedontbreak>
  </parser>
  <exclude>
    <word>the</word>
    <word>a</word>
  </exclude>
</dictionary>`

func TestLoadParsesAllSections(t *testing.T) {
	lang, err := Load(strings.NewReader(sampleDictionary))
	require.NoError(t, err)

	require.Len(t, lang.Pre1, 1)
	require.Len(t, lang.Post1, 1)
	require.Len(t, lang.Manual, 1)
	require.Len(t, lang.Pre, 1)
	require.Len(t, lang.Post, 1)
	require.Len(t, lang.Synonyms, 1)
	require.Len(t, lang.LineBreak, 2)
	require.Len(t, lang.LineDontBreak, 1)
	assert.ElementsMatch(t, []string{"the", "a"}, lang.Exclude)
}

func TestLoadRejectsUnknownTag(t *testing.T) {
	_, err := Load(strings.NewReader(`<dictionary><bogus/></dictionary>`))
	require.Error(t, err)
	var invalid *ErrInvalid
	require.ErrorAs(t, err, &invalid)
}

func TestLoadRejectsBadRule(t *testing.T) {
	_, err := Load(strings.NewReader(`<dictionary><stemmer><pre1><rule>ab|abcdef</rule></pre1></stemmer></dictionary>`))
	require.Error(t, err)
}

func TestReduceProperNounBypasses(t *testing.T) {
	lang := &Language{}
	core, stem, excluded := lang.Reduce("Paris")
	assert.False(t, excluded)
	assert.Equal(t, "Paris", core)
	assert.Equal(t, "Paris", stem)
}

func TestReduceAppliesStemmerRules(t *testing.T) {
	lang, err := Load(strings.NewReader(sampleDictionary))
	require.NoError(t, err)

	core, stem, excluded := lang.Reduce("running")
	require.False(t, excluded)
	assert.Equal(t, "runn", core)
	assert.Equal(t, "runn", stem)
}

func TestReduceExcludedWord(t *testing.T) {
	lang, err := Load(strings.NewReader(sampleDictionary))
	require.NoError(t, err)

	_, _, excluded := lang.Reduce("the")
	assert.True(t, excluded)
}

func TestReduceQualityFloorReverts(t *testing.T) {
	lang, err := Load(strings.NewReader(`<dictionary><stemmer><post><rule>ly|</rule></post></stemmer></dictionary>`))
	require.NoError(t, err)

	// "ply" minus "ly" leaves "p", below the length-3 floor; stem reverts to core.
	_, stem, excluded := lang.Reduce("ply")
	require.False(t, excluded)
	assert.Equal(t, "ply", stem)
}

func TestEndsSentenceHonorsVetoList(t *testing.T) {
	lang, err := Load(strings.NewReader(sampleDictionary))
	require.NoError(t, err)

	assert.True(t, lang.EndsSentence("dog."))
	assert.False(t, lang.EndsSentence("Mr."))
}
