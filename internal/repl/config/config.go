// Package config provides configuration management for the shelly REPL.
// It handles loading of ~/.shellyrc.{yml,yaml,toml,json}, environment
// overrides, and validation of the resulting values.
package config

import (
	"github.com/shelly-sh/shelly/internal/repl/completion"
	"gopkg.in/yaml.v3"
)

// Config holds all REPL configuration.
type Config struct {
	// Prompt is printed before every line.
	Prompt string `koanf:"prompt" yaml:"prompt"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `koanf:"logLevel" yaml:"logLevel"`

	Completion CompletionConfig `koanf:"completion" yaml:"completion"`
	History    HistoryConfig    `koanf:"history" yaml:"history"`
}

// CompletionConfig bounds the completion engine.
type CompletionConfig struct {
	// MaxCandidates caps the command candidates of one request.
	MaxCandidates int `koanf:"maxCandidates" yaml:"maxCandidates"`

	// MaxPathLength caps every path built while completing, in bytes.
	MaxPathLength int `koanf:"maxPathLength" yaml:"maxPathLength"`

	// Dedupe drops repeated command names, keeping the first.
	Dedupe bool `koanf:"dedupe" yaml:"dedupe"`
}

// HistoryConfig controls how much history the editor loads.
type HistoryConfig struct {
	// Limit is the number of entries available to Up/Down navigation.
	Limit int `koanf:"limit" yaml:"limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Prompt:   "shelly> ",
		LogLevel: "info",
		Completion: CompletionConfig{
			MaxCandidates: completion.DefaultMaxCandidates,
			MaxPathLength: completion.DefaultMaxPathLength,
		},
		History: HistoryConfig{
			Limit: 1000,
		},
	}
}

// YAML renders the configuration the way it would be written in
// ~/.shellyrc.yml.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
