package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/shelly-sh/shelly/internal/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables that override values from the config file.
const (
	EnvPrompt   = "SHELLY_PROMPT"
	EnvLogLevel = "SHELLY_LOG_LEVEL"
)

// Loader handles loading and parsing of shelly configuration files.
type Loader struct {
	logger    *zap.Logger
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger:    logger,
		lookupEnv: os.LookupEnv,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	// Path is the file the configuration came from, or "" for defaults.
	Path   string
	Errors []error
}

// LoadFromFile loads configuration from path. The format is chosen by the
// file extension. Returns the configuration and any non-fatal errors
// encountered. If the file doesn't exist, returns default configuration with
// no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l.LoadFromBytes(nil, "")
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := l.LoadFromBytes(content, formatOf(path))
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// LoadFromBytes loads configuration from content in the given format
// ("yaml", "toml" or "json"). Empty content yields the defaults.
func (l *Loader) LoadFromBytes(content []byte, format string) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	k := koanf.New(".")

	if len(content) > 0 {
		parser, err := parserFor(format)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), parser); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
			// Continue with defaults on parse errors
			k = koanf.New(".")
		}
	}

	l.applyEnv(k)

	if err := k.Unmarshal("", result.Config); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("failed to unmarshal config: %w", err))
		result.Config = DefaultConfig()
	}

	l.validate(result)

	l.logger.Debug("loaded config",
		zap.Strings("keys", k.Keys()),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// LoadDefaultConfigPath loads configuration from the first rc file found in
// the home directory, falling back to defaults.
func (l *Loader) LoadDefaultConfigPath() (*LoadResult, error) {
	path := core.ConfigFile()
	if path == "" {
		return l.LoadFromBytes(nil, "")
	}
	return l.LoadFromFile(path)
}

func (l *Loader) applyEnv(k *koanf.Koanf) {
	if v, ok := l.lookupEnv(EnvPrompt); ok {
		_ = k.Set("prompt", v)
	}
	if v, ok := l.lookupEnv(EnvLogLevel); ok && v != "" {
		_ = k.Set("logLevel", v)
	}
}

// validate replaces invalid values with their defaults and records why.
func (l *Loader) validate(result *LoadResult) {
	cfg := result.Config
	defaults := DefaultConfig()

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("logLevel: %w", err))
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Completion.MaxCandidates <= 0 {
		result.Errors = append(result.Errors, fmt.Errorf("completion.maxCandidates must be positive, got %d", cfg.Completion.MaxCandidates))
		cfg.Completion.MaxCandidates = defaults.Completion.MaxCandidates
	}
	if cfg.Completion.MaxPathLength <= 0 {
		result.Errors = append(result.Errors, fmt.Errorf("completion.maxPathLength must be positive, got %d", cfg.Completion.MaxPathLength))
		cfg.Completion.MaxPathLength = defaults.Completion.MaxPathLength
	}
	if cfg.History.Limit < 0 {
		result.Errors = append(result.Errors, fmt.Errorf("history.limit must not be negative, got %d", cfg.History.Limit))
		cfg.History.Limit = defaults.History.Limit
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return strings.TrimPrefix(filepath.Ext(path), ".")
	}
}

func parserFor(format string) (koanf.Parser, error) {
	switch format {
	case "yaml":
		return yaml.Parser(), nil
	case "toml":
		return toml.Parser(), nil
	case "json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
}
