package daemon

import (
	"bytes"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/logging"
	"github.com/standardbeagle/summarizerd/internal/wire"
)

const testDictionary = `<dictionary>
  <stemmer></stemmer>
  <parser>
    <linebreak><rule>.|</rule></linebreak>
    <linedontbreak></linedontbreak>
  </parser>
</dictionary>`

func mustLoadTestLang(t *testing.T) *langdoc.Language {
	t.Helper()
	lang, err := langdoc.Load(bytes.NewBufferString(testDictionary))
	require.NoError(t, err)
	return lang
}

func writeArticle(t *testing.T, text string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "article-*.txt")
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestWorkerServeReturnsSummary(t *testing.T) {
	lang := mustLoadTestLang(t)
	path := writeArticle(t, "The cat runs. The dog sleeps.")

	w := NewWorker(0, lang, engine.Options{}, logging.Discard(), 0)
	client, server := net.Pipe()
	w.Assign(server)

	reqHeader := wire.EncodeRequestHeader(wire.RequestHeader{
		Proto: wire.Proto, Ver: wire.Version, Ratio: 100, FilenameLen: uint32(len(path) + 1),
	})
	go func() {
		client.Write(reqHeader)
		client.Write(append([]byte(path), 0))
	}()

	respHeader := make([]byte, wire.SummaryHeaderSize)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := readFull(client, respHeader)
	require.NoError(t, err)

	hdr, err := wire.DecodeSummaryHeader(respHeader)
	require.NoError(t, err)
	assert.Equal(t, wire.StatusSummary, hdr.Status)

	body := make([]byte, hdr.SummaryLen)
	_, err = readFull(client, body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cat")

	client.Close()
	w.Drain()
}

func TestWorkerServeRejectsOversizedInput(t *testing.T) {
	lang := mustLoadTestLang(t)
	path := writeArticle(t, "The cat runs. The dog sleeps.")

	w := NewWorker(0, lang, engine.Options{}, logging.Discard(), 4)
	client, server := net.Pipe()
	w.Assign(server)

	reqHeader := wire.EncodeRequestHeader(wire.RequestHeader{
		Proto: wire.Proto, Ver: wire.Version, Ratio: 100, FilenameLen: uint32(len(path) + 1),
	})
	go func() {
		client.Write(reqHeader)
		client.Write(append([]byte(path), 0))
	}()

	resp := make([]byte, wire.ErrorResponseSize)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := readFull(client, resp)
	require.NoError(t, err)

	_, _, status, err := wire.DecodeErrorResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.StatusInternalError, status)

	client.Close()
	w.Drain()
}

func TestWorkerServeRejectsBadProto(t *testing.T) {
	lang := mustLoadTestLang(t)
	w := NewWorker(0, lang, engine.Options{}, logging.Discard(), 0)
	client, server := net.Pipe()
	w.Assign(server)

	bad := wire.EncodeRequestHeader(wire.RequestHeader{Proto: 0xDEAD, Ver: wire.Version, Ratio: 50, FilenameLen: 5})
	go client.Write(bad)

	resp := make([]byte, wire.ErrorResponseSize)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := readFull(client, resp)
	require.NoError(t, err)

	_, _, status, err := wire.DecodeErrorResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, wire.StatusInvalidReq, status)

	client.Close()
	w.Drain()
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
