package logcfg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/dmitrymomot/logpipe/pkg/logger"
)

// ErrNilSource is returned when Load is given a nil source.
var ErrNilSource = errors.New("logcfg: nil source")

// Config is the parsed logging tree: one entry per named logger.
type Config struct {
	Loggers map[string]LoggerConfig `koanf:"loggers"`
}

// LoggerConfig describes one named logger's level and destinations.
type LoggerConfig struct {
	Level    string          `koanf:"level"`
	Handlers []HandlerConfig `koanf:"handlers"`
}

// HandlerConfig describes one destination handler.
type HandlerConfig struct {
	Format    string `koanf:"format"` // json|text|sentry, default text
	Output    string `koanf:"output"` // stdout|stderr|discard|file:PATH, default stderr
	Level     string `koanf:"level"`  // defaults to the logger's level
	AddSource bool   `koanf:"add_source"`

	// Sentry destination settings, used only when Format is "sentry".
	DSN         string `koanf:"dsn"`
	Environment string `koanf:"environment"`
}

// Load parses a configuration source into a Config. Source may be:
//   - map[string]any: used as-is
//   - []byte: raw YAML or JSON (sniffed)
//   - string: a file path ending in .yaml/.yml/.json, or inline YAML/JSON
//     when the string contains a newline or starts with '{'
func Load(source any) (*Config, error) {
	k := koanf.New(".")

	switch src := source.(type) {
	case nil:
		return nil, ErrNilSource
	case map[string]any:
		if err := k.Load(confmap.Provider(src, "."), nil); err != nil {
			return nil, fmt.Errorf("logcfg: load map: %w", err)
		}
	case []byte:
		if err := k.Load(rawbytes.Provider(src), sniffParser(src)); err != nil {
			return nil, fmt.Errorf("logcfg: parse bytes: %w", err)
		}
	case string:
		if strings.ContainsAny(src, "\n{") {
			if err := k.Load(rawbytes.Provider([]byte(src)), sniffParser([]byte(src))); err != nil {
				return nil, fmt.Errorf("logcfg: parse inline source: %w", err)
			}
			break
		}
		if err := k.Load(file.Provider(src), parserForPath(src)); err != nil {
			return nil, fmt.Errorf("logcfg: load file %s: %w", src, err)
		}
	default:
		return nil, fmt.Errorf("logcfg: unsupported source type %T", source)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("logcfg: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Configure loads source and binds the resulting destination handlers onto the
// registry. Loggers not mentioned in source are left untouched.
func Configure(reg *Registry, source any) error {
	cfg, err := Load(source)
	if err != nil {
		return err
	}
	return cfg.Apply(reg)
}

// Apply builds destination handlers for every configured logger and rebinds
// them on the registry.
func (c *Config) Apply(reg *Registry) error {
	for name, lc := range c.Loggers {
		handlers, err := lc.build()
		if err != nil {
			return fmt.Errorf("logcfg: logger %q: %w", name, err)
		}
		reg.SetHandlers(name, handlers...)
	}
	return nil
}

func (lc LoggerConfig) build() ([]slog.Handler, error) {
	base := lc.Handlers
	if len(base) == 0 {
		base = []HandlerConfig{{}}
	}

	handlers := make([]slog.Handler, 0, len(base))
	for _, hc := range base {
		levelSpec := hc.Level
		if levelSpec == "" {
			levelSpec = lc.Level
		}
		level, err := ParseLevel(levelSpec)
		if err != nil {
			return nil, err
		}

		if strings.ToLower(hc.Format) == "sentry" {
			h, err := logger.NewSentryHandler(logger.SentryConfig{
				DSN:         hc.DSN,
				Environment: hc.Environment,
				MinLevel:    level,
			})
			if err != nil {
				return nil, fmt.Errorf("sentry handler: %w", err)
			}
			handlers = append(handlers, h)
			continue
		}

		w, err := openOutput(hc.Output)
		if err != nil {
			return nil, err
		}

		opts := &slog.HandlerOptions{Level: level, AddSource: hc.AddSource}
		switch strings.ToLower(hc.Format) {
		case "", "text":
			handlers = append(handlers, slog.NewTextHandler(w, opts))
		case "json":
			handlers = append(handlers, slog.NewJSONHandler(w, opts))
		default:
			return nil, fmt.Errorf("unknown format %q", hc.Format)
		}
	}
	return handlers, nil
}

// ParseLevel converts a level name to a slog.Level.
// Empty input defaults to info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// openOutput resolves an output spec to a writer. Files are opened in append
// mode and stay open for the process lifetime; log persistence and rotation
// are the host's concern.
func openOutput(spec string) (io.Writer, error) {
	switch {
	case spec == "" || spec == "stderr":
		return os.Stderr, nil
	case spec == "stdout":
		return os.Stdout, nil
	case spec == "discard":
		return io.Discard, nil
	case strings.HasPrefix(spec, "file:"):
		path := strings.TrimPrefix(spec, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown output %q", spec)
	}
}

func parserForPath(path string) koanf.Parser {
	if strings.HasSuffix(path, ".json") {
		return kjson.Parser()
	}
	return kyaml.Parser()
}

func sniffParser(b []byte) koanf.Parser {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "{") {
		return kjson.Parser()
	}
	return kyaml.Parser()
}
