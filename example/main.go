package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/logpipe"
	"github.com/dmitrymomot/logpipe/pkg/logger"
)

// loggingConfig routes "app" to stderr text and "audit" to a JSON file.
// Both loggers get queued so handlers never block on log I/O.
const loggingConfig = `
loggers:
  app:
    level: debug
    handlers:
      - format: text
        output: stderr
  audit:
    level: info
    handlers:
      - format: json
        output: file:audit.log
`

func main() {
	fallback := logger.NewText(os.Stderr, slog.LevelWarn)

	ext := logpipe.New(
		logpipe.WithFallbackLogger(fallback),
		logpipe.WithRequestLogging(),
		logpipe.WithRequestLogLevel(slog.LevelInfo),
		logpipe.WithRequestMessageTemplate("{method} {path} - {status_code} ({execution_time}ms)"),
		logpipe.WithSessionFunc(func(r *http.Request) map[string]any {
			// Stand-in for a real session store.
			if c, err := r.Cookie("user"); err == nil {
				return map[string]any{"user_id": c.Value}
			}
			return nil
		}),
	)

	if err := ext.Configure(loggingConfig); err != nil {
		log.Fatal(err)
	}
	if err := ext.InstallQueueing([]string{"app", "audit"}, true); err != nil {
		log.Fatal(err)
	}

	appLog := ext.Logger("app")
	auditLog := ext.Logger("audit")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(ext.Middleware())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		appLog.InfoContext(r.Context(), "serving index")
		w.Write([]byte("hello\n"))
	})

	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		snap, err := logpipe.Capture(r.Context())
		if err != nil {
			appLog.ErrorContext(r.Context(), "snapshot failed", slog.Any("error", err))
		} else {
			auditLog.InfoContext(r.Context(), "order created",
				slog.String("request_id", snap.RequestID),
				slog.String("remote_addr", snap.RemoteAddr),
			)
		}
		w.WriteHeader(http.StatusCreated)
	})

	srv := &http.Server{Addr: getEnv("ADDRESS", ":8080"), Handler: r}

	go func() {
		appLog.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("shutdown", slog.Any("error", err))
	}

	// Drains every queue before exit so no log lines are lost.
	ext.StopListeners()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
