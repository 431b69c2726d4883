package config

import (
	"errors"
	"fmt"
)

// ConfigError reports a validation failure in one configuration section,
// the way the teacher's internal/config reports per-section errors, but
// without depending on a shared errors package this repo has no use for.
type ConfigError struct {
	Section string
	Field   string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: %s.%s: %v", e.Section, e.Field, e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Section, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func newConfigError(section, field string, err error) *ConfigError {
	return &ConfigError{Section: section, Field: field, Err: err}
}

// Validator validates configuration and applies the daemon defaults
// documented in spec §6 for anything left unset.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg after filling zero-valued daemon and
// grader fields from Defaults(). The language section is not defaulted: an
// empty dictionary_path with no pack_glob is a validation error. Returns a
// *ConfigError on the first violation found.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setSmartDefaults(cfg)

	if err := v.validateDaemonConfig(&cfg.Daemon); err != nil {
		return newConfigError("daemon", "", err)
	}
	if err := v.validateGraderConfig(&cfg.Grader); err != nil {
		return newConfigError("grader", "", err)
	}
	if err := v.validateLanguageConfig(&cfg.Language); err != nil {
		return newConfigError("language", "", err)
	}

	return nil
}

// validateDaemonConfig enforces spec §6's bounds: at most 32 clients, at
// most 4 workers, a well-formed TCP port, and a log level in 1..7.
func (v *Validator) validateDaemonConfig(d *Daemon) error {
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", d.Port)
	}
	if d.MaxClients <= 0 || d.MaxClients > 32 {
		return fmt.Errorf("max_clients must be in 1..32, got %d", d.MaxClients)
	}
	if d.Workers <= 0 || d.Workers > 4 {
		return fmt.Errorf("workers must be in 1..4, got %d", d.Workers)
	}
	if !levelInRange(d.LogLevel) {
		return fmt.Errorf("log_level must be in 1..7, got %d", d.LogLevel)
	}
	if d.PidFile == "" {
		return errors.New("pid_file cannot be empty")
	}
	if d.LogFile == "" {
		return errors.New("log_file cannot be empty")
	}
	if d.MaxInputSize <= 0 {
		return fmt.Errorf("max_input_size must be positive, got %d", d.MaxInputSize)
	}
	return nil
}

func levelInRange(l int) bool { return l >= 1 && l <= 7 }

// validateGraderConfig checks the optional near-duplicate-suppression
// settings (DOMAIN STACK, go-edlib).
func (v *Validator) validateGraderConfig(g *Grader) error {
	if g.DedupeThreshold < 0 || g.DedupeThreshold > 1 {
		return fmt.Errorf("dedupe_threshold must be in 0..1, got %f", g.DedupeThreshold)
	}
	return nil
}

// validateLanguageConfig requires a dictionary path or a pack glob; whether
// the dictionary exists is checked when it is opened, not here. The daemon
// opens DictionaryPath only and does not resolve PackGlob.
func (v *Validator) validateLanguageConfig(l *Language) error {
	if l.DictionaryPath == "" && l.PackGlob == "" {
		return errors.New("either dictionary_path or pack_glob must be set")
	}
	return nil
}

// setSmartDefaults fills in zero-valued fields from Defaults(), the way
// the teacher's setSmartDefaults backfills CPU-derived settings.
func (v *Validator) setSmartDefaults(cfg *Config) {
	d := Defaults()

	if cfg.Daemon.Port == 0 {
		cfg.Daemon.Port = d.Daemon.Port
	}
	if cfg.Daemon.LogFile == "" {
		cfg.Daemon.LogFile = d.Daemon.LogFile
	}
	if cfg.Daemon.LogLevel == 0 {
		cfg.Daemon.LogLevel = d.Daemon.LogLevel
	}
	if cfg.Daemon.MaxClients == 0 {
		cfg.Daemon.MaxClients = d.Daemon.MaxClients
	}
	if cfg.Daemon.Workers == 0 {
		cfg.Daemon.Workers = d.Daemon.Workers
	}
	if cfg.Daemon.PidFile == "" {
		cfg.Daemon.PidFile = d.Daemon.PidFile
	}
	if cfg.Daemon.ClientWaitTime == 0 {
		cfg.Daemon.ClientWaitTime = d.Daemon.ClientWaitTime
	}
	if cfg.Daemon.MaxInputSize == 0 {
		cfg.Daemon.MaxInputSize = d.Daemon.MaxInputSize
	}
	if cfg.Grader.DedupeThreshold == 0 {
		cfg.Grader.DedupeThreshold = d.Grader.DedupeThreshold
	}
}

// ValidateConfig is a convenience wrapper around NewValidator().ValidateAndSetDefaults.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
