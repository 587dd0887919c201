// urfd-tui is a terminal dashboard for a urfd reflector. It mirrors the
// reflector's last-heard history and connected nodes from the dashboard
// backend's WebSocket feed.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/urfd-dashboard/tui/internal/app"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/config"
	"github.com/urfd-dashboard/tui/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, wsURL, httpBase, logFile, logLevel string

	flagSet := pflag.NewFlagSet("urfd-tui", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	flagSet.StringVar(&wsURL, "url", "", "WebSocket URL of the dashboard backend (default ws://127.0.0.1:8080/ws)")
	flagSet.StringVar(&httpBase, "http", "", "HTTP base URL for history and config (derived from --url when empty)")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON log records to this file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if wsURL != "" {
		cfg.Server.URL = wsURL
	}
	if httpBase != "" {
		cfg.Server.HTTPBase = httpBase
	}
	if logFile != "" {
		cfg.Logging.FilePath = logFile
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("url", cfg.Server.URL),
		zap.String("http", cfg.HTTPBaseURL()),
		zap.Int("history_capacity", cfg.Live.HistoryCapacity),
		zap.Duration("stale_after", cfg.Live.StaleAfter),
	)

	ws := client.NewWSClient(cfg.Server.URL, cfg.Transport.ReconnectDelay, log.Named("ws"))
	httpClient := client.NewHTTPClient(cfg.HTTPBaseURL())

	m := app.New(ws, httpClient, app.Options{
		HistoryCapacity: cfg.Live.HistoryCapacity,
		StaleAfter:      cfg.Live.StaleAfter,
		SweepInterval:   cfg.Live.SweepInterval,
		Logger:          log,
	})
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
