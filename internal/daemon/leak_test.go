//go:build leaktests

package daemon

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/logging"
)

// TestDispatcherShutdownLeavesNoGoroutines verifies the accept loop and
// every per-connection goroutine it spawned have actually exited by the
// time Shutdown returns (§5's "every worker exits" invariant).
func TestDispatcherShutdownLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	lang, err := langdoc.Load(bytes.NewBufferString(testDictionary))
	require.NoError(t, err)

	workers := []*Worker{NewWorker(0, lang, engine.Options{}, logging.Discard(), 0)}
	d, err := NewDispatcher("127.0.0.1:0", workers, 4, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	require.NoError(t, d.Shutdown())
	<-done
}
