package daemon

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/logging"
	"github.com/standardbeagle/summarizerd/internal/wire"
)

func TestDispatcherAcceptsWithTwoWorkersAndShutsDown(t *testing.T) {
	lang, err := langdoc.Load(bytes.NewBufferString(testDictionary))
	require.NoError(t, err)

	workers := []*Worker{
		NewWorker(0, lang, engine.Options{}, logging.Discard(), 0),
		NewWorker(1, lang, engine.Options{}, logging.Discard(), 0),
	}

	d, err := NewDispatcher("127.0.0.1:0", workers, 8, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	for i := 0; i < 2; i++ {
		conn, err := net.DialTimeout("tcp", d.Addr().String(), time.Second)
		require.NoError(t, err)
		conn.Close()
	}
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.NoError(t, d.Shutdown())
	<-done
}

func TestDispatcherEndToEndSummary(t *testing.T) {
	lang, err := langdoc.Load(bytes.NewBufferString(testDictionary))
	require.NoError(t, err)
	path := writeArticle(t, "Cats nap. Dogs bark.")

	workers := []*Worker{NewWorker(0, lang, engine.Options{}, logging.Discard(), 0)}
	d, err := NewDispatcher("127.0.0.1:0", workers, 4, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	defer func() {
		cancel()
		d.Shutdown()
		<-done
	}()

	conn, err := net.DialTimeout("tcp", d.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	header := wire.EncodeRequestHeader(wire.RequestHeader{
		Proto: wire.Proto, Ver: wire.Version, Ratio: 100, FilenameLen: uint32(len(path) + 1),
	})
	_, err = conn.Write(header)
	require.NoError(t, err)
	_, err = conn.Write(append([]byte(path), 0))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	respHeader := make([]byte, wire.SummaryHeaderSize)
	_, err = readFull(conn, respHeader)
	require.NoError(t, err)

	hdr, err := wire.DecodeSummaryHeader(respHeader)
	require.NoError(t, err)
	require.Equal(t, wire.StatusSummary, hdr.Status)
}
