package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in command context.
type loggerKey struct{}

// configKey is used to store the loaded config in command context.
type configKey struct{}

// Config file names, checked in order.
const (
	ConfigFileName    = "logmerge.yaml"
	ConfigFileNameAlt = "logmerge.yml"
)

var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > logmerge.yaml > logmerge.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration from defaults, the config file,
// LOGMERGE_-prefixed environment variables, and explicitly set flags,
// in increasing precedence.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"fuzzy_threshold": DefaultFuzzyThreshold,
		"join_tolerance":  DefaultJoinTolerance,
		"compare_mode":    DefaultCompareMode,
		"compare_gap":     DefaultCompareGap,
		"verbose":         false,
		"output":          DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: LOGMERGE_FUZZY_THRESHOLD -> fuzzy_threshold
	if err := k.Load(env.Provider("LOGMERGE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LOGMERGE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file loaded last, if any.
func ConfigFileUsed() string {
	return configFileUsed
}

// LoggerKey returns the context key used for storing the logger, shared
// between the cli and commands packages.
func LoggerKey() interface{} {
	return loggerKey{}
}

// ConfigKey returns the context key used for storing the loaded config.
func ConfigKey() interface{} {
	return configKey{}
}

// GetConfig retrieves the config from a command context, falling back to
// defaults.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		FuzzyThreshold: DefaultFuzzyThreshold,
		JoinTolerance:  DefaultJoinTolerance,
		CompareMode:    DefaultCompareMode,
		CompareGap:     DefaultCompareGap,
		Output:         DefaultOutput,
	}
}

// GetLogger retrieves the logger from a command context, falling back to
// a discard logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
