// Package logcfg provides a named-logger registry with swappable destination
// handlers and a koanf-based loader that configures the registry from a map,
// a YAML/JSON file path, or raw bytes.
//
// Go's log/slog has no global logger hierarchy, so the registry is the unit of
// configuration: each name owns a *slog.Logger whose destination handler set
// can be rebound at runtime. Queueing swaps a logger's destinations for a
// queue handler without the logger value held by callers going stale.
//
//	reg := logcfg.NewRegistry()
//	if err := logcfg.Configure(reg, "logging.yaml"); err != nil { ... }
//	reg.Logger("app").Info("configured")
//
// Configuration shape (YAML shown, JSON equivalent):
//
//	loggers:
//	  app:
//	    level: info
//	    handlers:
//	      - format: json
//	        output: stdout
//	  audit:
//	    level: debug
//	    handlers:
//	      - format: text
//	        output: "file:/var/log/audit.log"
//	      - format: sentry
//	        level: error
//	        dsn: "https://key@sentry.example.com/1"
package logcfg
