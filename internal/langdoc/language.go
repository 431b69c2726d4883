// Package langdoc loads the dictionary document into the rule lists the
// article parser and grader consult: pre1, post1, manual, synonyms, pre,
// post (stemmer), line_break, line_dont_break (parser), and exclude.
// Grounded on lib.c's lang_parse_lang_xml/parse_stemmer_xml/
// parse_parser_xml/parse_exclude_xml and header.h's lang_s.
package langdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Language owns the nine rule lists parsed from one dictionary document.
type Language struct {
	Pre1     []Rule // stemmer/pre1: first-match prefix rules for the word core
	Post1    []Rule // stemmer/post1: first-match suffix rules for the word core
	Manual   []Rule // stemmer/manual: exact whole-word replacement, sorted
	Pre      []Rule // stemmer/pre: first-match prefix rules for the stem
	Post     []Rule // stemmer/post: first-match suffix rules for the stem
	Synonyms []Rule // stemmer/synonyms: exact whole-word replacement, sorted

	LineBreak     []Rule // parser/linebreak: sentence-ending suffix rules
	LineDontBreak []Rule // parser/linedontbreak: veto suffix rules over LineBreak

	Exclude []string // exclude/word: words skipped by the grader, sorted
}

var allowedDictionaryChildren = map[string]bool{"stemmer": true, "parser": true, "exclude": true}
var allowedStemmerChildren = map[string]bool{"pre1": true, "post1": true, "manual": true, "pre": true, "post": true, "synonyms": true}
var allowedParserChildren = map[string]bool{"linebreak": true, "linedontbreak": true}

// Load parses a dictionary document from r. It rejects any unexpected
// child of dictionary, stemmer, or parser with *ErrInvalid, and rejects
// any rule whose LHS is not strictly longer than its RHS.
func Load(r io.Reader) (*Language, error) {
	dec := xml.NewDecoder(r)
	lang := &Language{}

	var sawDictionary bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse dictionary: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "dictionary":
			sawDictionary = true
			if err := parseDictionaryBody(dec, lang); err != nil {
				return nil, err
			}
		default:
			if !sawDictionary {
				continue
			}
		}
	}

	if !sawDictionary {
		return nil, &ErrInvalid{Reason: "missing root <dictionary> element"}
	}

	if err := lang.finalize(); err != nil {
		return nil, err
	}
	return lang, nil
}

func parseDictionaryBody(dec *xml.Decoder, lang *Language) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse dictionary: %w", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "dictionary" {
				return nil
			}
		case xml.StartElement:
			name := t.Name.Local
			if !allowedDictionaryChildren[name] {
				return &ErrInvalid{Reason: fmt.Sprintf("unexpected child <%s> of <dictionary>", name)}
			}
			var parseErr error
			switch name {
			case "stemmer":
				parseErr = parseStemmer(dec, lang)
			case "parser":
				parseErr = parseParser(dec, lang)
			case "exclude":
				parseErr = parseExclude(dec, lang)
			}
			if parseErr != nil {
				return parseErr
			}
		}
	}
}

func parseStemmer(dec *xml.Decoder, lang *Language) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse stemmer: %w", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "stemmer" {
				return nil
			}
		case xml.StartElement:
			name := t.Name.Local
			if !allowedStemmerChildren[name] {
				return &ErrInvalid{Reason: fmt.Sprintf("unexpected child <%s> of <stemmer>", name)}
			}
			rules, err := parseRuleList(dec, name)
			if err != nil {
				return err
			}
			switch name {
			case "pre1":
				lang.Pre1 = rules
			case "post1":
				lang.Post1 = rules
			case "manual":
				lang.Manual = rules
			case "pre":
				lang.Pre = rules
			case "post":
				lang.Post = rules
			case "synonyms":
				lang.Synonyms = rules
			}
		}
	}
}

func parseParser(dec *xml.Decoder, lang *Language) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse parser: %w", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "parser" {
				return nil
			}
		case xml.StartElement:
			name := t.Name.Local
			if !allowedParserChildren[name] {
				return &ErrInvalid{Reason: fmt.Sprintf("unexpected child <%s> of <parser>", name)}
			}
			rules, err := parseRuleList(dec, name)
			if err != nil {
				return err
			}
			switch name {
			case "linebreak":
				lang.LineBreak = rules
			case "linedontbreak":
				lang.LineDontBreak = rules
			}
		}
	}
}

// parseRuleList consumes <rule>LHS|RHS</rule> leaves until the enclosing
// tag named by parent closes.
func parseRuleList(dec *xml.Decoder, parent string) ([]Rule, error) {
	var rules []Rule
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse <%s>: %w", parent, err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == parent {
				return rules, nil
			}
		case xml.StartElement:
			if t.Name.Local != "rule" {
				return nil, &ErrInvalid{Reason: fmt.Sprintf("unexpected child <%s> of <%s>", t.Name.Local, parent)}
			}
			text, err := readCharData(dec, "rule")
			if err != nil {
				return nil, err
			}
			rule, err := ParseRule(strings.TrimSpace(text))
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}
}

func parseExclude(dec *xml.Decoder, lang *Language) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse exclude: %w", err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "exclude" {
				return nil
			}
		case xml.StartElement:
			if t.Name.Local != "word" {
				return &ErrInvalid{Reason: fmt.Sprintf("unexpected child <%s> of <exclude>", t.Name.Local)}
			}
			text, err := readCharData(dec, "word")
			if err != nil {
				return err
			}
			lang.Exclude = append(lang.Exclude, strings.TrimSpace(text))
		}
	}
}

// readCharData reads the text content of a leaf element through to its
// matching end tag, named by want.
func readCharData(dec *xml.Decoder, want string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("parse <%s>: %w", want, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == want {
				return sb.String(), nil
			}
		}
	}
}

// finalize sorts the manual/synonyms/exclude lists for binary-search
// lookup, matching §4.2's "must be sorted at load time (stable by their
// comparators)" requirement. pre1/post1/pre/post/line_break/
// line_dont_break remain in insertion order: they are matched by
// first-match scan, not binary search.
func (l *Language) finalize() error {
	sort.SliceStable(l.Manual, func(i, j int) bool {
		return strings.ToLower(l.Manual[i].LHS) < strings.ToLower(l.Manual[j].LHS)
	})
	sort.SliceStable(l.Synonyms, func(i, j int) bool {
		return strings.ToLower(l.Synonyms[i].LHS) < strings.ToLower(l.Synonyms[j].LHS)
	})
	sort.SliceStable(l.Exclude, func(i, j int) bool {
		return strings.ToLower(l.Exclude[i]) < strings.ToLower(l.Exclude[j])
	})
	return nil
}

// lookupManual returns the manual-rule replacement for word (case
// insensitive whole-word match), if any.
func lookupManual(rules []Rule, word string) (string, bool) {
	lower := strings.ToLower(word)
	i := sort.Search(len(rules), func(i int) bool { return strings.ToLower(rules[i].LHS) >= lower })
	if i < len(rules) && strings.ToLower(rules[i].LHS) == lower {
		return rules[i].RHS, true
	}
	return "", false
}

// IsExcluded reports whether word (a core, compared case-insensitively) is
// present in the exclude list.
func (l *Language) IsExcluded(word string) bool {
	lower := strings.ToLower(word)
	i := sort.Search(len(l.Exclude), func(i int) bool { return strings.ToLower(l.Exclude[i]) >= lower })
	return i < len(l.Exclude) && strings.ToLower(l.Exclude[i]) == lower
}

// EndsSentence reports whether word ends a sentence: its suffix matches a
// line_break rule and no line_dont_break rule (§4.3).
func (l *Language) EndsSentence(word string) bool {
	lower := strings.ToLower(word)
	return anySuffixMatch(l.LineBreak, lower) && !anySuffixMatch(l.LineDontBreak, lower)
}
