package internal

import (
	"fmt"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// settingsEnvPrefix namespaces the extension's environment variables.
const settingsEnvPrefix = "LOGGING_"

// Settings is the extension's own configuration surface.
type Settings struct {
	// Source is passed verbatim to the configurator: a config file path or
	// inline YAML/JSON. Empty means no configuration load.
	Source string `koanf:"source"`

	// QueueNames lists logger names to route through queue/listener pairs,
	// in installation order.
	QueueNames []string `koanf:"queue_names"`

	RequestLogging RequestLogSettings `koanf:"request_logging"`
}

// RequestLogSettings configures the per-request log line.
type RequestLogSettings struct {
	Enabled  bool   `koanf:"enabled"`
	Logger   string `koanf:"logger"` // empty → extension default logger
	Level    string `koanf:"level"`
	Template string `koanf:"template"`
}

// DefaultSettings returns the documented defaults: no source, no queueing,
// request logging disabled at debug level with the default template.
func DefaultSettings() Settings {
	return Settings{
		RequestLogging: RequestLogSettings{
			Level:    "debug",
			Template: DefaultMessageTemplate,
		},
	}
}

// LoadSettings loads settings with layered priority: defaults, then the
// optional YAML/JSON file at path, then LOGGING_* environment variables
// (LOGGING_SOURCE, LOGGING_QUEUE_NAMES as a comma-separated list,
// LOGGING_REQUEST_LOGGING_ENABLED, ...).
func LoadSettings(path string) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return Settings{}, fmt.Errorf("logpipe: load defaults: %w", err)
	}

	if path != "" {
		var parser koanf.Parser = kyaml.Parser()
		if strings.HasSuffix(path, ".json") {
			parser = kjson.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Settings{}, fmt.Errorf("logpipe: load settings file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(settingsEnvPrefix, ".", settingsEnvKey), nil); err != nil {
		return Settings{}, fmt.Errorf("logpipe: load environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("logpipe: unmarshal settings: %w", err)
	}
	return s, nil
}

// settingsEnvKey maps LOGGING_* variables onto settings keys. The queue-name
// list is comma-separated in the environment.
func settingsEnvKey(key, value string) (string, any) {
	k := strings.ToLower(strings.TrimPrefix(key, settingsEnvPrefix))
	if rest, ok := strings.CutPrefix(k, "request_logging_"); ok {
		k = "request_logging." + rest
	}
	if k == "queue_names" {
		parts := strings.Split(value, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		return k, names
	}
	return k, value
}
