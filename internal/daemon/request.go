package daemon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/logging"
	"github.com/standardbeagle/summarizerd/internal/stream"
	"github.com/standardbeagle/summarizerd/internal/wire"
)

// idleReadDeadline bounds how long a connection may sit with no request in
// flight before it is reclaimed. It is generous: waiting for the next
// request on a kept-alive connection is normal, not an error.
const idleReadDeadline = 5 * time.Minute

// Sentinel protocol outcomes, corresponding to PROTO_PEER_LOST and
// PROTO_INVALID (§7), plus an expired read deadline, on which the worker
// closes the connection.
var (
	errPeerLost = errors.New("daemon: peer lost")
	errInvalid  = errors.New("daemon: invalid request")
	errTimeout  = errors.New("daemon: read timeout")
)

// requestArena is per-connection scratch reused across requests on the
// same connection, avoiding a fresh allocation for every summarized
// article the way the original reset its article arena between requests
// (§4.7).
type requestArena struct {
	headerBuf [wire.RequestHeaderSize]byte
}

func newRequestArena() *requestArena { return &requestArena{} }

// request is a fully decoded, validated summarization request.
type request struct {
	ratioPercent float32
	filename     string
}

// readRequest reads one request header and filename from conn. It waits up
// to idleReadDeadline for a new request to start (idle connection reuse,
// §6), then bounds the filename read by the shorter readWriteDeadline so a
// client that starts a request and vanishes doesn't pin the goroutine
// for long.
func readRequest(conn net.Conn, arena *requestArena) (*request, error) {
	conn.SetReadDeadline(time.Now().Add(idleReadDeadline))
	if _, err := io.ReadFull(conn, arena.headerBuf[:]); err != nil {
		return nil, classifyReadErr(err)
	}

	hdr, err := wire.DecodeRequestHeader(arena.headerBuf[:])
	if err != nil {
		return nil, errInvalid
	}
	if err := hdr.Validate(); err != nil {
		return nil, errInvalid
	}

	conn.SetReadDeadline(time.Now().Add(readWriteDeadline))
	nameBuf := make([]byte, hdr.FilenameLen)
	if _, err := io.ReadFull(conn, nameBuf); err != nil {
		return nil, classifyReadErr(err)
	}

	filename := string(bytes.TrimRight(nameBuf, "\x00"))
	return &request{ratioPercent: hdr.Ratio, filename: filename}, nil
}

func classifyReadErr(err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return errTimeout
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errPeerLost
	}
	return errPeerLost
}

// summarize loads req's referenced document, parses and grades it, and
// returns the emitted summary text. Stage durations are logged at debug
// verbosity (-v 7), the Go-native form of the original's PROF_START/
// PROF_END instrumentation around the same three stages. maxInputSize
// bounds the document's byte length; 0 means unbounded, used by tests that
// construct a request without a configured daemon.
func summarize(lang *langdoc.Language, opts engine.Options, req *request, logger *logging.Logger, maxInputSize int64) (string, error) {
	s, err := stream.Open(req.filename)
	if err != nil {
		return "", err
	}
	defer s.Close()

	if maxInputSize > 0 && int64(s.Len()) > maxInputSize {
		return "", fmt.Errorf("summarize: %s is %d bytes, exceeds max_input_size %d", req.filename, s.Len(), maxInputSize)
	}

	src := s.Slice(0, s.Len())
	ratio := float64(req.ratioPercent) / 100.0

	summary, profile, err := engine.SummarizeProfiled(src, lang, ratio, opts)
	if err != nil {
		return "", err
	}
	logger.Debugf("summarize %s: parse=%v grade=%v emit=%v", req.filename, profile.Parse, profile.Grade, profile.Emit)
	return summary, nil
}
