package logger

import (
	"fmt"
	"slices"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

var allowed = []struct {
	key    string
	values []string
	get    func(*Config) string
}{
	{"logging.level", []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}, func(c *Config) string { return c.Level }},
	{"logging.format", []string{FormatJSON, FormatConsole, FormatPretty}, func(c *Config) string { return c.Format }},
	{"logging.output", []string{"stdout", "stderr"}, func(c *Config) string { return c.Output }},
}

// ApplyDefaults fills level, format and output. Timestamps are always on.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate checks level, format and output against their allowed values.
func (c *Config) Validate() error {
	for _, a := range allowed {
		if v := a.get(c); !slices.Contains(a.values, v) {
			return fmt.Errorf("%s must be one of %s (got: %s)", a.key, strings.Join(a.values, ", "), v)
		}
	}
	return nil
}
