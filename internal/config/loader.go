package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultPath is consulted when no config file is named explicitly.
	DefaultPath = "seiscat.yaml"

	envPrefix         = "SEISCAT_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load reads the configuration from path, then overrides it with SEISCAT_*
// environment variables.
//
// When path is empty, DefaultPath is used if it exists and silently skipped
// otherwise. An explicitly named file must exist.
//
// Environment variables are uppercased with an underscore separator; the
// first underscore after the prefix splits section from field:
//
//	SEISCAT_LOGGING_LEVEL      -> logging.level
//	SEISCAT_METRICS_TEXTFILE   -> metrics.textfile
//	SEISCAT_TELEMETRY_ENABLED  -> telemetry.enabled
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	required := path != ""
	if path == "" {
		path = DefaultPath
	}

	if content, err := readConfigFile(path, required); err != nil {
		return nil, err
	} else if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// SEISCAT_LOGGING_LEVEL -> logging.level. Only the first
		// underscore separates section from field, so field names
		// keep their own underscores (telemetry.service_name).
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile reads path once through a single descriptor, so the size
// check and the read cannot race against a file swap. A missing optional
// file yields nil content.
func readConfigFile(path string, required bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}
