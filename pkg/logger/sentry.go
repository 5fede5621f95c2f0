package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// ErrMissingDSN is returned by NewSentryHandler when no DSN is configured.
var ErrMissingDSN = errors.New("logger: sentry DSN is empty")

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `koanf:"dsn"`
	Environment string `koanf:"environment"`
	// MinLevel determines which log levels to send to Sentry
	// (e.g., slog.LevelWarn for warnings and errors).
	MinLevel slog.Level
}

// NewSentryHandler builds a slog.Handler delivering records to Sentry. Unlike
// NewWithSentry it does not fall back silently: configuration-driven
// destinations must fail at load time, not drop records at runtime.
func NewSentryHandler(cfg SentryConfig) (slog.Handler, error) {
	if cfg.DSN == "" {
		return nil, ErrMissingDSN
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		return nil, fmt.Errorf("logger: init sentry: %w", err)
	}

	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: eventLevel, // Errors create Issues in Sentry
		LogLevel:   logLevel,   // Logs stored for context/search
	}.NewSentryHandler(context.Background()), nil
}

// NewWithSentry creates a logger that sends records to both stdout and Sentry.
// If DSN is empty or Sentry fails to initialize, only stdout logging is
// enabled (graceful fallback for local dev). Context extractors are applied to
// records sent to both destinations, so request attributes survive into
// Sentry events even when the record was emitted from a listener goroutine.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdoutHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	sentryHandler, err := NewSentryHandler(cfg)
	if err != nil {
		if !errors.Is(err, ErrMissingDSN) {
			slog.New(stdoutHandler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		}
		return slog.New(NewLogHandlerDecorator(stdoutHandler, extractors...))
	}

	combined := NewMultiHandler(stdoutHandler, sentryHandler)
	return slog.New(NewLogHandlerDecorator(combined, extractors...))
}
