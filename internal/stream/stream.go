// Package stream implements the byte-stream reader through which article
// files are mapped before parsing (the language-rule loader reads its
// document through an io.Reader instead): a read/write memory-mapped view of a
// file with a cursor, whitespace-aware word tokenization, and in-place
// nul-insertion at token boundaries. Grounded on lib.c's stream_create,
// stream_find, stream_get_word and the STREAM_* macros in header.h.
//
// The stdlib syscall package is used directly for the mmap/munmap calls:
// none of the retrieved example repos import a higher-level mmap library,
// and memory-mapping is an OS primitive with no meaningful abstraction to
// borrow from the ecosystem here.
package stream

import (
	"fmt"
	"os"
	"syscall"
)

// Whitespace is the separator set the original implementation calls SPACE:
// space, tab, newline, carriage return, vertical tab, form feed.
const Whitespace = " \t\n\r\v\f"

// Stream is a memory-mapped byte region with a cursor. Tokenization may
// overwrite whitespace bytes with nul in place.
type Stream struct {
	data []byte // mmap'd region, at least one page longer than size
	size int    // logical length of the file's content
	pos  int    // cursor

	f *os.File
}

// Open memory-maps path read-private/read-write so tokenization can mutate
// it, with at least one trailing zero-filled page beyond the file's
// content standing in for the original's explicit trailing nul.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := int(info.Size())

	pageSize := os.Getpagesize()
	mapLen := ((size / pageSize) + 1) * pageSize
	if mapLen == 0 {
		mapLen = pageSize
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, mapLen, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &Stream{data: data, size: size, f: f}, nil
}

// Close unmaps the region and closes the underlying file.
func (s *Stream) Close() error {
	var err error
	if s.data != nil {
		err = syscall.Munmap(s.data)
		s.data = nil
	}
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Len returns the logical (pre-mmap-padding) size of the mapped file.
func (s *Stream) Len() int { return s.size }

// Pos returns the current cursor offset.
func (s *Stream) Pos() int { return s.pos }

// Seek repositions the cursor.
func (s *Stream) Seek(pos int) { s.pos = pos }

// End reports whether the cursor has reached the logical end of stream.
func (s *Stream) End() bool { return s.pos >= s.size }

// At returns the byte at offset i (including the zero-filled padding
// region past the file's logical size).
func (s *Stream) At(i int) byte { return s.data[i] }

// Slice returns the current backing array's view over [begin, end). The
// stream never grows, so this slice remains valid for the Stream's
// lifetime.
func (s *Stream) Slice(begin, end int) []byte { return s.data[begin:end] }

func isWhitespace(b byte) bool {
	for i := 0; i < len(Whitespace); i++ {
		if Whitespace[i] == b {
			return true
		}
	}
	return false
}

// SkipWhitespace advances the cursor past any run of whitespace.
func (s *Stream) SkipWhitespace() {
	for !s.End() && isWhitespace(s.data[s.pos]) {
		s.pos++
	}
}

// FindChar returns the offset of the next occurrence of c at or after the
// cursor, or -1 if none remains before the logical end.
func (s *Stream) FindChar(c byte) int {
	for i := s.pos; i < s.size; i++ {
		if s.data[i] == c {
			return i
		}
	}
	return -1
}

// NextWord reads the next whitespace-delimited word: it skips leading
// whitespace, then advances through non-whitespace bytes, nul-terminates
// the word in place by overwriting the first trailing whitespace byte,
// and continues scanning the rest of that whitespace run (without
// consuming any following word) to detect a paragraph marker (\n or \r
// among the skipped separators). It reports the word's [begin, end) span
// (end exclusive of the nul), whether a paragraph marker was seen in the
// trailing whitespace, and whether a word was found at all.
func (s *Stream) NextWord() (begin, end int, paragraph bool, ok bool) {
	s.SkipWhitespace()
	if s.End() {
		return 0, 0, false, false
	}

	begin = s.pos
	for !s.End() && !isWhitespace(s.data[s.pos]) {
		s.pos++
	}
	end = s.pos

	if s.pos < len(s.data) {
		sep := s.data[s.pos]
		if isWhitespace(sep) {
			s.data[s.pos] = 0
			if sep == '\n' || sep == '\r' {
				paragraph = true
			}
			s.pos++
		}
	}

	for !s.End() && isWhitespace(s.data[s.pos]) {
		if s.data[s.pos] == '\n' || s.data[s.pos] == '\r' {
			paragraph = true
		}
		s.pos++
	}

	return begin, end, paragraph, true
}
