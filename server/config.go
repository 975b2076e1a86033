package server

import (
	"fmt"
	"time"

	"github.com/kbukum/engineconnector/server/middleware"
)

// Config is the gateway's "server" section. Timeouts are whole seconds.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`

	// APIKeys are accepted as "Authorization: Bearer <key>". Empty disables auth.
	APIKeys []string `yaml:"api_keys" mapstructure:"api_keys"`

	// RequestsPerMinute caps requests per client IP. Zero disables the limit.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// ApplyDefaults fills unset fields. The write timeout covers image pulls
// and builds, which stream inside a single request.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Port, 8080)
	setDefault(&c.ReadTimeout, 30)
	setDefault(&c.WriteTimeout, 300)
	setDefault(&c.IdleTimeout, 60)
	setDefault(&c.MaxBodySize, "64MB")
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID}
	}
}

// Validate rejects out-of-range ports, negative limits and blank API keys.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	for key, v := range map[string]int{
		"read_timeout":        c.ReadTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"requests_per_minute": c.RequestsPerMinute,
	} {
		if v < 0 {
			return fmt.Errorf("server.%s must be non-negative (got: %d)", key, v)
		}
	}
	for i, k := range c.APIKeys {
		if k == "" {
			return fmt.Errorf("server.api_keys[%d] must not be empty", i)
		}
	}
	return nil
}
