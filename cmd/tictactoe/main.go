package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/config"
	"github.com/jaminalder/tictactoe/internal/console"
	"github.com/jaminalder/tictactoe/internal/logging"
	"github.com/jaminalder/tictactoe/internal/web"
)

const shutdownTimeout = 5 * time.Second

var (
	configPath = flag.String("config", os.Getenv("TTT_CONFIG"), "Path to a yaml config file, environment only when empty")
	mode       = flag.String("mode", "web", "Front end to run: web or console")
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log, err := newLogger(conf, *mode)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "web":
		err = runWeb(ctx, log, conf)
	case "console":
		err = runConsole(ctx, log, conf)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// newLogger keeps console mode quiet on the terminal: its own level and,
// when configured, a log file instead of stderr.
func newLogger(conf *config.Config, mode string) (*zap.Logger, error) {
	if mode != "console" {
		return logging.New(conf.LogLevel)
	}
	if conf.Console.LogFile != "" {
		return logging.New(conf.Console.LogLevel, conf.Console.LogFile)
	}
	return logging.New(conf.Console.LogLevel)
}

func runWeb(ctx context.Context, log *zap.Logger, conf *config.Config) error {
	one, two := conf.Players.DefaultNames()
	svc := app.NewService(app.WithLogger(log), app.WithDefaultNames(one, two))
	srv := &http.Server{
		Addr:              conf.HTTP.Addr,
		Handler:           web.NewServer(svc, web.WithLogger(log), web.WithHeartbeat(conf.HTTP.Heartbeat)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}

func runConsole(ctx context.Context, log *zap.Logger, conf *config.Config) error {
	one, two := conf.Players.DefaultNames()
	sh := console.NewShell(os.Stdin, os.Stdout, console.NewRenderer(os.Stdout),
		console.WithDefaultNames(one, two),
		console.WithObserver(logging.NewObserver(log)),
	)
	return sh.Run(ctx)
}
