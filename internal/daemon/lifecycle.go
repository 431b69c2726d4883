package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/standardbeagle/summarizerd/internal/logging"
)

// PidFile manages the exclusive pid-file lock described in §4.10: a
// running daemon holds the file open and populated with its pid; a second
// instance's attempt to acquire the same path fails.
type PidFile struct {
	path string
	f    *os.File
}

// AcquirePidFile creates (or takes over) the pid file at path, refusing to
// start if another live process already holds it.
func AcquirePidFile(path string) (*PidFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("daemon: open pid file %s: %w", path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("daemon: another instance is already running (%s): %w", path, err)
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		f.Close()
		return nil, err
	}
	return &PidFile{path: path, f: f}, nil
}

// Release truncates and removes the pid file, releasing the lock.
func (p *PidFile) Release() error {
	p.f.Truncate(0)
	err := p.f.Close()
	if rmErr := os.Remove(p.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

// ShutdownReason distinguishes a clean request to stop from a crash signal,
// matching §4.10's asymmetric respawn policy: the watchdog only restarts
// the daemon after a crash, never after a deliberate shutdown.
type ShutdownReason int

const (
	ShutdownNone ShutdownReason = iota
	ShutdownRequested
	ShutdownCrash
)

// Process exit codes, §6: 0 normal, 1 argument/open error, -1 graceful
// shutdown, -2 unrecoverable error, -3 crash. The watchdog's respawn
// policy (§4.10) is keyed off these codes: only ExitCrash triggers a
// respawn, matching "if the child exited cleanly or with
// EXIT_CANT_RECOVER, mark watchdog to exit".
const (
	ExitArgError    = 1
	ExitGraceful    = -1
	ExitCantRecover = -2
	ExitCrash       = -3
)

// ExitCode maps a ShutdownReason to the exit code the foreground service
// process returns.
func (r ShutdownReason) ExitCode() int {
	switch r {
	case ShutdownCrash:
		return ExitCrash
	case ShutdownRequested:
		return ExitGraceful
	default:
		return ExitCantRecover
	}
}

// WaitForShutdown blocks until a termination or crash signal arrives.
// SIGTERM/SIGINT are graceful requests; SIGSEGV/SIGQUIT/SIGABRT/SIGILL/
// SIGBUS/SIGFPE are treated as crash signals the watchdog should respawn
// after (§4.10); SIGHUP reloads the dictionary out-of-band via reload and
// SIGPIPE is ignored outright (write failures are already handled as
// ordinary I/O errors in the response path, §8 scenario 6).
func WaitForShutdown(reload func(), logger *logging.Logger) ShutdownReason {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGTERM, syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGSEGV, syscall.SIGQUIT, syscall.SIGABRT,
		syscall.SIGILL, syscall.SIGBUS, syscall.SIGFPE,
		syscall.SIGPIPE,
	)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGPIPE:
			continue
		case syscall.SIGHUP:
			logger.Noticef("received SIGHUP, reloading dictionary")
			if reload != nil {
				reload()
			}
			continue
		case syscall.SIGTERM, syscall.SIGINT:
			logger.Noticef("received %v, shutting down", sig)
			return ShutdownRequested
		default:
			logger.Critf("received crash signal %v", sig)
			return ShutdownCrash
		}
	}
	return ShutdownNone
}
