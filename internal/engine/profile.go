package engine

import (
	"time"

	"github.com/standardbeagle/summarizerd/internal/langdoc"
)

// Profile records per-stage durations across one summarization pass:
// parsing, grading, and emission. It is the Go-native form of the
// original's PROF_START/PROF_END macros around the same three stages,
// surfaced at -v 7 debug verbosity rather than compiled in/out.
type Profile struct {
	Parse time.Duration
	Grade time.Duration
	Emit  time.Duration
}

// SummarizeProfiled runs the parse/grade/emit pipeline once, recording
// stage durations into a Profile. ParseArticle/Grade/Summary remain the
// primary, unprofiled API; this wraps them for callers that want timings
// (the daemon's request path, which logs them at -v 7).
func SummarizeProfiled(src []byte, lang *langdoc.Language, ratio float64, opts Options) (string, Profile, error) {
	var p Profile

	start := time.Now()
	article, err := ParseArticle(src, lang)
	p.Parse = time.Since(start)
	if err != nil {
		return "", p, err
	}

	start = time.Now()
	err = Grade(article, lang, ratio, opts)
	p.Grade = time.Since(start)
	if err != nil {
		return "", p, err
	}

	start = time.Now()
	summary := Summary(article)
	p.Emit = time.Since(start)

	return summary, p, nil
}
