package langdoc

import "strings"

// IsProperNoun reports whether word begins uppercase and has length > 1,
// the proper-noun bypass condition shared by core and stem reduction.
func IsProperNoun(word string) bool {
	if len(word) <= 1 {
		return false
	}
	c := word[0]
	return c >= 'A' && c <= 'Z'
}

// Reduce computes a word's core and stem per §4.3. excluded reports
// whether core is present in the exclude list, in which case stem is
// empty and the caller should not record the word. Proper nouns bypass
// both reductions (core and stem are the word as-is) but are still looked
// up in the exclude list, case-insensitively, like any other core.
func (l *Language) Reduce(word string) (core, stem string, excluded bool) {
	properNoun := IsProperNoun(word)

	if properNoun {
		core = word
	} else {
		core = strings.ToLower(word)
		core = firstPrefixMatch(l.Pre1, core)
		core = firstSuffixMatch(l.Post1, core)
	}

	if l.IsExcluded(core) {
		return core, "", true
	}

	if properNoun {
		return core, core, false
	}

	stem = core
	if replacement, ok := lookupManual(l.Manual, stem); ok {
		stem = replacement
	}
	stem = firstPrefixMatch(l.Pre, stem)
	stem = firstSuffixMatch(l.Post, stem)
	if replacement, ok := lookupManual(l.Synonyms, stem); ok {
		stem = replacement
	}

	if len(stem) < 3 {
		stem = core
	}

	return core, stem, false
}
