// Package logging provides the leveled logger used by the daemon (the batch
// CLI and the MCP front-end do not use it). It mirrors the verbosity scheme from the
// original summarizerd: levels 1 (fatal) through 7 (debug), written to a
// single mutex-guarded writer that can be a log file or /dev/null.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is a verbosity level, 1 (fatal) through 7 (debug), matching the
// daemon's -v flag.
type Level int

const (
	LevelNone Level = iota
	LevelFatal
	LevelCrit
	LevelError
	LevelWarn
	LevelNotice
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelNone:   "none",
	LevelFatal:  "fatal",
	LevelCrit:   "critical",
	LevelError:  "error",
	LevelWarn:   "warning",
	LevelNotice: "notice",
	LevelInfo:   "info",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the documented CLI verbosity values (1-7).
func (l Level) Valid() bool {
	return l >= LevelFatal && l <= LevelDebug
}

// Logger is a leveled, mutex-guarded writer. The zero value discards output.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	file  *os.File
	level Level
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level}
}

// Discard is a Logger that drops every message, used before a log file has
// been opened and in tests that don't care about log output.
func Discard() *Logger {
	return &Logger{out: io.Discard, level: LevelNone}
}

// OpenFile opens (creating/appending) the named log file and returns a
// Logger writing to it at the given level.
func OpenFile(path string, level Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return &Logger{out: f, file: f, level: level}, nil
}

// Close closes the underlying file, if this Logger owns one.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out = io.Discard
	return err
}

// SetLevel adjusts the verbosity threshold at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil || level > l.level {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000")
	fmt.Fprintf(l.out, "%s [%-8s] "+format+"\n", append([]interface{}{ts, level}, args...)...)
}

func (l *Logger) Fatalf(format string, args ...interface{})  { l.log(LevelFatal, format, args...) }
func (l *Logger) Critf(format string, args ...interface{})   { l.log(LevelCrit, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})  { l.log(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})   { l.log(LevelWarn, format, args...) }
func (l *Logger) Noticef(format string, args ...interface{}) { l.log(LevelNotice, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})   { l.log(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{})  { l.log(LevelDebug, format, args...) }
