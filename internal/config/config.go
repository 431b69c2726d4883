// Package config loads summarizerd's daemon, batch, and language-pack
// settings from an optional .summarizerd.kdl file with CLI-flag overrides
// layered on top, following the same shape the teacher project uses for
// its own KDL-backed configuration.
package config

import "time"

// Config is the root configuration object used by the daemon; the batch CLI
// reads only Defaults()'s dictionary path. Not every field applies to every
// binary.
type Config struct {
	Version int

	Daemon   Daemon
	Grader   Grader
	Language Language
}

// Daemon holds the settings listed in spec §6's daemon CLI flags.
type Daemon struct {
	Port            int
	LogFile         string
	LogLevel        int // 1 (fatal) .. 7 (debug)
	MaxClients      int // <= 32
	Workers         int // <= 4
	PidFile         string
	Foreground      bool
	ClientWaitTime  time.Duration // defaulted and stored only; the daemon's read/write deadlines are fixed constants
	WatchDictionary bool          // reload workers' language rules on dictionary file changes
	MaxInputSize    int64         // bytes; requests for larger documents are refused
}

// Grader controls optional, non-spec-mandated grading behavior (§ DOMAIN STACK).
type Grader struct {
	Dedupe          bool    // suppress near-duplicate sentences via fuzzy distance
	DedupeThreshold float64 // Jaro-Winkler similarity above which a sentence is considered a duplicate
}

// Language points at the dictionary this worker/batch process loads, and
// optionally at a pack manifest sidecar and a glob used to discover packs.
type Language struct {
	DictionaryPath string
	PackGlob       string
}

// Defaults mirror spec §6 / §7's documented CLI defaults.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Daemon: Daemon{
			Port:            9872,
			LogFile:         "/var/log/summarizerd.log",
			LogLevel:        3, // error
			MaxClients:      32,
			Workers:         4,
			PidFile:         "/var/log/summarizerd.pid",
			Foreground:      false,
			ClientWaitTime:  500 * time.Millisecond,
			WatchDictionary: false,
			MaxInputSize:    64 * 1024 * 1024,
		},
		Grader: Grader{
			Dedupe:          false,
			DedupeThreshold: 0.92,
		},
		Language: Language{
			DictionaryPath: "/usr/local/share/summarizerd/en.xml",
		},
	}
}
