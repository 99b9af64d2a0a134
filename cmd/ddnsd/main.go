// ddnsd is a dynamic-DNS update relay. It receives HTTP requests naming a
// configured DNS provider, a hostname and an IP address, and reconciles the
// provider's A record to match the supplied address.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/namsral/flag"

	"gitlab.bluewillows.net/root/ddnsd/internal/config"
	"gitlab.bluewillows.net/root/ddnsd/internal/metrics"
	"gitlab.bluewillows.net/root/ddnsd/internal/reconciler"
	"gitlab.bluewillows.net/root/ddnsd/internal/server"
	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
	"gitlab.bluewillows.net/root/ddnsd/providers/cloudflare"
)

// Version and BuildDate are set via ldflags during build.
// Example: -ldflags="-X main.Version=v1.0.0 -X main.BuildDate=2026-08-29"
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		logLevel   string
	)
	fs := flag.NewFlagSetWithEnvPrefix(os.Args[0], "DDNSD", flag.ExitOnError)
	fs.StringVar(&configPath, "config", "config.toml", "path to the configuration file")
	fs.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	// Load configuration first (fail fast)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}

	// Set up structured logging
	logger := setupLogger(cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(logger)

	metrics.SetBuildInfo(Version, runtime.Version())

	logger.Info("ddnsd starting",
		slog.String("version", Version),
		slog.String("build_date", BuildDate),
		slog.String("go_version", runtime.Version()),
		slog.String("config", configPath),
		slog.Any("providers", cfg.ProviderNames()),
	)

	// Initialize the provider registry with all known backends
	registry := provider.NewRegistry()
	registry.RegisterFactory("cloudflare", cloudflare.Factory(
		cloudflare.WithStoreLogger(logger),
	))

	rec := reconciler.New(registry,
		reconciler.WithLogger(logger),
		reconciler.WithTimeout(cfg.UpdateTimeout()),
	)

	srv := server.New(cfg, rec, server.WithLogger(logger))
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	logger.Info("ddnsd initialized",
		slog.String("addr", cfg.Addr()),
		slog.Duration("update_timeout", cfg.UpdateTimeout()),
	)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received shutdown signal", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("ddnsd shutdown complete")
	return nil
}

func setupLogger(level, format string) *slog.Logger {
	logLevel := parseLogLevel(level)

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}

	return slog.New(handler)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
