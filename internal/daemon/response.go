package daemon

import (
	"errors"
	"net"
	"time"

	"github.com/standardbeagle/summarizerd/internal/logging"
	"github.com/standardbeagle/summarizerd/internal/wire"
)

// writeSummaryResponse writes a success response. It reports false if the
// write failed (peer lost mid-write, §8 scenario 6), in which case the
// caller should drop the connection without further error propagation.
func writeSummaryResponse(conn net.Conn, summary string, logger *logging.Logger) bool {
	conn.SetWriteDeadline(time.Now().Add(readWriteDeadline))

	header := wire.EncodeSummaryHeader(wire.NewSummaryHeader(len(summary)))
	if _, err := conn.Write(header); err != nil {
		logPeerLoss(logger, err)
		return false
	}
	if _, err := conn.Write([]byte(summary)); err != nil {
		logPeerLoss(logger, err)
		return false
	}
	return true
}

// writeErrorResponse writes the 8-byte error frame for status.
func writeErrorResponse(conn net.Conn, status uint32, logger *logging.Logger) bool {
	conn.SetWriteDeadline(time.Now().Add(readWriteDeadline))
	if _, err := conn.Write(wire.EncodeErrorResponse(status)); err != nil {
		logPeerLoss(logger, err)
		return false
	}
	return true
}

func logPeerLoss(logger *logging.Logger, err error) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		logger.Warnf("write timed out: %v", err)
		return
	}
	logger.Infof("peer lost mid-write: %v", err)
}
