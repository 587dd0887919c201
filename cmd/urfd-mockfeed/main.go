// urfd-mockfeed serves a simulated reflector feed for developing and
// demonstrating urfd-tui without a live reflector.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/urfd-dashboard/tui/internal/mockfeed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr      string
		tick      time.Duration
		seed      int64
		dropClose float64
		handover  float64
		verbose   bool
	)

	flagSet := pflag.NewFlagSet("urfd-mockfeed", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	flagSet.DurationVar(&tick, "tick", 500*time.Millisecond, "simulation step interval")
	flagSet.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	flagSet.Float64Var(&dropClose, "drop-close", 0.1, "probability a transmission ends without a closing event")
	flagSet.Float64Var(&handover, "handover", 0.1, "probability a station re-keys under a new session id")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every key up and key down")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	logCfg := zap.NewDevelopmentConfig()
	if !verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feed := mockfeed.NewBroadcaster(log.Named("feed"))
	gen := mockfeed.NewGenerator(feed, mockfeed.Options{
		Seed:          seed,
		DropCloseRate: dropClose,
		HandoverRate:  handover,
	}, log.Named("gen"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mockfeed.NewServer(gen, feed, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	gen.Start(ctx, tick)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.Int64("seed", seed))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
