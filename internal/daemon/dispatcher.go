package daemon

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/summarizerd/internal/logging"
)

// Dispatcher owns the listener and the worker pool, and implements the
// round-robin accept loop from §4.8: each accepted connection is handed to
// the next worker in sequence, wrapping back to worker 0. Admission control
// (max_clients) is enforced with a weighted semaphore rather than the
// original's fixed sock_contexts array bound, since Go connections aren't
// preallocated slots.
type Dispatcher struct {
	listener net.Listener
	workers  []*Worker
	next     int

	admission *semaphore.Weighted
	logger    *logging.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewDispatcher binds addr and prepares the worker pool. Workers must
// already be constructed by the caller (one per -w, §6).
func NewDispatcher(addr string, workers []*Worker, maxClients int, logger *logging.Logger) (*Dispatcher, error) {
	if len(workers) == 0 {
		return nil, fmt.Errorf("daemon: no workers configured")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("daemon: listen %s: %w", addr, err)
	}
	return &Dispatcher{
		listener:  ln,
		workers:   workers,
		admission: semaphore.NewWeighted(int64(maxClients)),
		logger:    logger,
	}, nil
}

// Addr returns the bound listener address, useful when addr was ":0".
func (d *Dispatcher) Addr() net.Addr {
	return d.listener.Addr()
}

// Run accepts connections until ctx is cancelled or the listener is closed.
// Each connection is dispatched round-robin (§4.8) and released back to the
// admission semaphore when its worker finishes serving it.
func (d *Dispatcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	d.group = group

	group.Go(func() error {
		<-gctx.Done()
		return d.listener.Close()
	})

	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-gctx.Done():
				return nil
			default:
				return fmt.Errorf("daemon: accept: %w", err)
			}
		}

		if err := d.admission.Acquire(gctx, 1); err != nil {
			conn.Close()
			continue
		}

		w := d.nextWorker()
		d.logger.Debugf("dispatcher: assigning connection from %s to worker %d", conn.RemoteAddr(), w.ID)
		w.AssignTracked(conn, d.admission)
	}
}

// nextWorker returns the worker to receive the next connection, advancing
// the round-robin cursor (§4.8's dispatcher loop over worker_contexts).
func (d *Dispatcher) nextWorker() *Worker {
	w := d.workers[d.next]
	d.next = (d.next + 1) % len(d.workers)
	return w
}

// Shutdown stops accepting new connections and waits for every worker to
// drain its in-flight connections (§5's graceful shutdown).
func (d *Dispatcher) Shutdown() error {
	if d.cancel != nil {
		d.cancel()
	}
	var err error
	if d.group != nil {
		err = d.group.Wait()
	}
	for _, w := range d.workers {
		w.Drain()
	}
	return err
}
