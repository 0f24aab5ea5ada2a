// Package config loads classmatch configuration from TOML, YAML or JSON
// files via koanf.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/classmatch/classmatch/pkg/classifier"
	"github.com/classmatch/classmatch/pkg/matcher"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for classmatch.
type Config struct {
	Match      MatchConfig     `koanf:"match"`
	Thresholds ThresholdConfig `koanf:"thresholds"`
	Output     OutputConfig    `koanf:"output"`
}

// MatchConfig controls the auto-match driver.
type MatchConfig struct {
	// Level is the default classifier level: initial, intermediate, full
	// or extra.
	Level string `koanf:"level"`
	// MergeMatch enables the instruction-stream verification pass after
	// auto-matching.
	MergeMatch bool `koanf:"merge_match"`
	// PropagateNames spreads mapped names across method hierarchies after
	// matching.
	PropagateNames bool `koanf:"propagate_names"`
}

// ThresholdConfig carries the per-kind confidence thresholds.
type ThresholdConfig struct {
	AbsClass  float64 `koanf:"abs_class"`
	RelClass  float64 `koanf:"rel_class"`
	AbsMethod float64 `koanf:"abs_method"`
	RelMethod float64 `koanf:"rel_method"`
	AbsField  float64 `koanf:"abs_field"`
	RelField  float64 `koanf:"rel_field"`
	AbsVar    float64 `koanf:"abs_var"`
	RelVar    float64 `koanf:"rel_var"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with the stock thresholds.
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			Level:          "full",
			MergeMatch:     false,
			PropagateNames: true,
		},
		Thresholds: ThresholdConfig{
			AbsClass:  0.85,
			RelClass:  0.085,
			AbsMethod: 0.85,
			RelMethod: 0.085,
			AbsField:  0.85,
			RelField:  0.085,
			AbsVar:    0.85,
			RelVar:    0.085,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// MatcherOptions converts the config into matcher options.
func (c *Config) MatcherOptions() matcher.Options {
	return matcher.Options{
		Level:     classifier.ParseLevel(c.Match.Level),
		AbsClass:  c.Thresholds.AbsClass,
		RelClass:  c.Thresholds.RelClass,
		AbsMethod: c.Thresholds.AbsMethod,
		RelMethod: c.Thresholds.RelMethod,
		AbsField:  c.Thresholds.AbsField,
		RelField:  c.Thresholds.RelField,
		AbsVar:    c.Thresholds.AbsVar,
		RelVar:    c.Thresholds.RelVar,
	}
}

// Load loads configuration from a file, picking the parser by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries the standard config locations, falling back to the
// defaults when none exists or parses.
func LoadOrDefault() *Config {
	names := []string{
		"classmatch.toml",
		"classmatch.yaml",
		"classmatch.yml",
		"classmatch.json",
		".classmatch.toml",
		".classmatch.yaml",
		".classmatch.yml",
		".classmatch.json",
	}

	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}
