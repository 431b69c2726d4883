package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/summarizerd/internal/config"
	"github.com/standardbeagle/summarizerd/internal/daemon"
	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/logging"
	"github.com/standardbeagle/summarizerd/internal/version"
)

// Exit codes are defined once in internal/daemon (shared with the
// watchdog's respawn policy) and aliased here for readability.
const (
	exitArgError    = daemon.ExitArgError
	exitGraceful    = daemon.ExitGraceful
	exitCantRecover = daemon.ExitCantRecover
	exitCrash       = daemon.ExitCrash
)

func main() {
	if daemon.IsWatchdog() {
		os.Exit(daemon.RunWatchdog(os.Args[1:]))
	}

	app := &cli.App{
		Name:                   "summarizerd",
		Usage:                  "extractive text summarization daemon",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port"},
			&cli.StringFlag{Name: "logfile", Aliases: []string{"l"}, Usage: "log file path"},
			&cli.IntFlag{Name: "verbosity", Aliases: []string{"v"}, Usage: "log verbosity 1-7"},
			&cli.IntFlag{Name: "max-clients", Aliases: []string{"n"}, Usage: "max concurrent clients (<=32)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "worker count (<=4)"},
			&cli.StringFlag{Name: "pidfile", Aliases: []string{"i"}, Usage: "pid file path"},
			&cli.BoolFlag{Name: "foreground", Aliases: []string{"f"}, Usage: "stay in foreground instead of daemonizing"},
			&cli.StringFlag{Name: "config-dir", Usage: "directory containing .summarizerd.kdl", Value: "."},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitArgError)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitArgError)
	}

	if !cfg.Daemon.Foreground {
		if err := daemon.Daemonize(os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitArgError)
		}
		return nil
	}

	pidFile, err := daemon.AcquirePidFile(cfg.Daemon.PidFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitArgError)
	}
	defer pidFile.Release()

	logger, err := logging.OpenFile(cfg.Daemon.LogFile, logging.Level(cfg.Daemon.LogLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitArgError)
	}
	defer logger.Close()

	lang, err := loadLanguage(cfg.Language.DictionaryPath)
	if err != nil {
		logger.Critf("loading dictionary: %v", err)
		os.Exit(exitArgError)
	}

	opts := engine.Options{Dedupe: cfg.Grader.Dedupe, DedupeThreshold: cfg.Grader.DedupeThreshold}

	workers := make([]*daemon.Worker, cfg.Daemon.Workers)
	for i := range workers {
		workers[i] = daemon.NewWorker(i, lang, opts, logger, cfg.Daemon.MaxInputSize)
	}

	dispatcher, err := daemon.NewDispatcher(fmt.Sprintf(":%d", cfg.Daemon.Port), workers, cfg.Daemon.MaxClients, logger)
	if err != nil {
		logger.Critf("starting listener: %v", err)
		os.Exit(exitArgError)
	}

	var stopWatch chan struct{}
	if cfg.Daemon.WatchDictionary {
		stopWatch = make(chan struct{})
		if err := daemon.WatchDictionary(cfg.Language.DictionaryPath, workers, logger, stopWatch); err != nil {
			logger.Warnf("dictionary watch disabled: %v", err)
		}
	}

	logger.Noticef("summarizerd listening on %s with %d workers", dispatcher.Addr(), len(workers))

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- dispatcher.Run(ctx) }()

	reload := func() {
		l, err := loadLanguage(cfg.Language.DictionaryPath)
		if err != nil {
			logger.Errorf("SIGHUP reload rejected: %v", err)
			return
		}
		for _, w := range workers {
			w.SetLanguage(l)
		}
	}

	reason := daemon.WaitForShutdown(reload, logger)
	cancel()
	if stopWatch != nil {
		close(stopWatch)
	}
	if err := dispatcher.Shutdown(); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	<-runErr

	switch reason {
	case daemon.ShutdownCrash:
		os.Exit(exitCrash)
	case daemon.ShutdownRequested:
		os.Exit(exitGraceful)
	default:
		os.Exit(exitCantRecover)
	}
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadKDL(c.String("config-dir"))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Defaults()
	}

	if v := c.Int("port"); v != 0 {
		cfg.Daemon.Port = v
	}
	if v := c.String("logfile"); v != "" {
		cfg.Daemon.LogFile = v
	}
	if v := c.Int("verbosity"); v != 0 {
		cfg.Daemon.LogLevel = v
	}
	if v := c.Int("max-clients"); v != 0 {
		cfg.Daemon.MaxClients = v
	}
	if v := c.Int("workers"); v != 0 {
		cfg.Daemon.Workers = v
	}
	if v := c.String("pidfile"); v != "" {
		cfg.Daemon.PidFile = v
	}
	if c.Bool("foreground") {
		cfg.Daemon.Foreground = true
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadLanguage(path string) (*langdoc.Language, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return langdoc.Load(f)
}
