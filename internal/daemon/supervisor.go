package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/logging"
)

// watchdogEnvKey marks a re-exec'd process as the watchdog rather than the
// foreground service. It plays the role the teacher's first forked child
// plays: the process the launcher detaches and leaves running, which in
// turn supervises the actual service.
const watchdogEnvKey = "SUMMARIZERD_WATCHDOG"

// Daemonize starts a detached watchdog process and returns immediately, the
// Go-native substitution for the original's double-fork (§4.10):
// os.Executable + exec.Command with Setsid stands in for fork/setsid/fork.
// Unlike a plain re-exec, the watchdog process is not the service itself —
// RunWatchdog is what actually runs the service and supervises it, so the
// launcher returning here corresponds to the original parent exiting after
// the first fork, not to the watchdog/service relationship being dropped.
// Grounded on cmd/lci/main_server.go's ensureServerRunning (teacher).
func Daemonize(args []string) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("daemon: resolve executable: %w", err)
	}

	cmd := exec.Command(executable, args...)
	cmd.Env = append(os.Environ(), watchdogEnvKey+"=1")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("daemon: start watchdog: %w", err)
	}
	return cmd.Process.Release()
}

// IsWatchdog reports whether this process was re-exec'd by Daemonize to
// play the watchdog role. main checks this before parsing CLI flags.
func IsWatchdog() bool {
	return os.Getenv(watchdogEnvKey) == "1"
}

// RunWatchdog is the watchdog process's loop (§4.10): start the service in
// the foreground, wait for it to exit, and respawn only on a crash exit.
// A clean exit or ExitCantRecover ends the watchdog with that same code;
// exit by an uncaught termination signal also ends it; only ExitCrash
// triggers a respawn. Installing SIGCHLD and sleeping between checks, as
// the original watchdog does, is unnecessary here: cmd.Wait blocks until
// the child actually exits, which is the same synchronization point.
func RunWatchdog(args []string) int {
	serviceArgs := append(append([]string{}, args...), "-f")

	for {
		executable, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "watchdog: resolve executable: %v\n", err)
			return ExitArgError
		}

		cmd := exec.Command(executable, serviceArgs...)
		// Override the inherited marker so the child runs as the service,
		// not as another watchdog (exec keeps the last value of a key).
		cmd.Env = append(os.Environ(), watchdogEnvKey+"=0")
		cmd.Stdin = nil
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "watchdog: start service: %v\n", err)
			return ExitArgError
		}

		err = cmd.Wait()
		code := 0
		if err != nil {
			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				fmt.Fprintf(os.Stderr, "watchdog: service wait: %v\n", err)
				return ExitArgError
			}
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				// Killed outright by an uncaught signal rather than exiting
				// through its own crash handler: treat as a termination,
				// not a crash, and don't respawn.
				return ExitCantRecover
			}
			code = exitErr.ExitCode()
		}

		// os.Exit truncates negative codes to an unsigned byte, so compare
		// against ExitCrash's truncated form rather than its signed value.
		if code != exitByte(ExitCrash) {
			return signedExitCode(code)
		}
		fmt.Fprintf(os.Stderr, "watchdog: service exited %d (crash), respawning\n", code)
	}
}

func exitByte(code int) int {
	return code & 0xff
}

// signedExitCode recovers the original signed exit code from the
// unsigned byte the OS reports back, so the watchdog's own exit status
// matches what the service process intended to return.
func signedExitCode(code int) int {
	switch code {
	case exitByte(ExitGraceful):
		return ExitGraceful
	case exitByte(ExitCantRecover):
		return ExitCantRecover
	case exitByte(ExitCrash):
		return ExitCrash
	default:
		return code
	}
}

// WatchDictionary watches path for changes and reloads it into every worker,
// the DOMAIN STACK's hot-reload facility. It runs until stop is closed.
// Malformed reloads are logged and discarded; the workers keep serving with
// their last-known-good language (§4.2's load-time validation extended to
// a running daemon).
func WatchDictionary(path string, workers []*Worker, logger *logging.Logger, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("daemon: create dictionary watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("daemon: watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				reloadDictionary(path, workers, logger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("dictionary watcher: %v", err)
			}
		}
	}()
	return nil
}

func reloadDictionary(path string, workers []*Worker, logger *logging.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Errorf("dictionary reload: open %s: %v", path, err)
		return
	}
	defer f.Close()

	lang, err := langdoc.Load(f)
	if err != nil {
		logger.Errorf("dictionary reload: %s rejected, keeping previous rules: %v", path, err)
		return
	}

	for _, w := range workers {
		w.SetLanguage(lang)
	}
	logger.Noticef("dictionary reload: %s applied to %d workers", path, len(workers))
}
