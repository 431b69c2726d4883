package engine

import "strings"

// Summary walks a's sentences in document order and emits every selected
// sentence's words separated by a single space, with a leading newline
// before any sentence that starts a paragraph (§4.5).
func Summary(a *Article) string {
	var sb strings.Builder

	for _, s := range a.Sentences {
		if !s.IsSelected {
			continue
		}
		if s.IsParaBegin {
			sb.WriteByte('\n')
		}

		pos, end := s.Begin, s.End
		for pos < end {
			for pos < end && isSpace(a.src[pos]) {
				pos++
			}
			if pos >= end {
				break
			}
			begin := pos
			for pos < end && !isSpace(a.src[pos]) {
				pos++
			}
			sb.Write(a.src[begin:pos])
			sb.WriteByte(' ')
		}
	}

	return sb.String()
}
