// Package config loads optional CLI defaults from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds conversion defaults that would otherwise be passed as
// flags on every invocation.
type Config struct {
	// FrameRate is the default fps for frame-based formats.
	FrameRate float64 `yaml:"frame_rate"`
	// Lenient skips malformed lines instead of failing the whole file.
	Lenient bool `yaml:"lenient"`
	// KeepUnknownHTML passes unrecognized HTML-style tags through when
	// reading SubRip or WebVTT text.
	KeepUnknownHTML bool `yaml:"keep_unknown_html"`
	// DetectLanguage tags each event with its detected language.
	DetectLanguage bool `yaml:"detect_language"`
	// LineBreak selects the output line ending: "lf" or "crlf".
	LineBreak string `yaml:"line_break"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{LineBreak: "lf"}
}

// Load reads a YAML config file and validates it. A missing path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if c.FrameRate < 0 {
		return fmt.Errorf("frame_rate must be positive, got %v", c.FrameRate)
	}
	switch c.LineBreak {
	case "", "lf", "crlf":
	default:
		return fmt.Errorf("line_break must be %q or %q, got %q", "lf", "crlf", c.LineBreak)
	}
	return nil
}
