package config

import (
	"fmt"
	"time"

	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/observability"
	"github.com/kbukum/engineconnector/server"
)

// ServiceName is the default service name and config lookup key.
const ServiceName = "engine-connector"

// EnvPrefix scopes environment overrides, e.g. ENGINE_CONNECTOR_CONNECTION_SERVER_ADDRESS.
const EnvPrefix = "ENGINE_CONNECTOR"

// ConnectorConfig tunes the connector itself.
type ConnectorConfig struct {
	// MaxConcurrent caps in-flight invocations; 0 disables the cap.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long an invocation waits for a free slot.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// AppConfig is the full configuration of the engine-connector binary.
//
// The connection section is kept as a raw map and decoded with
// httpclient.ConnectionConfigFromMap, which reads bare numbers for
// timeout and retry_delay as seconds.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Connection    map[string]any       `yaml:"connection" mapstructure:"connection"`
	Connector     ConnectorConfig      `yaml:"connector" mapstructure:"connector"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section. The connection section only has to
// decode: a server address may still arrive with each request.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.Connector.MaxConcurrent < 0 {
		return fmt.Errorf("config.connector.max_concurrent must be non-negative (got: %d)", c.Connector.MaxConcurrent)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if _, err := c.ConnectionConfig(); err != nil {
		return fmt.Errorf("config.connection: %w", err)
	}
	return nil
}

// ConnectionConfig decodes the connection section on top of the defaults.
func (c *AppConfig) ConnectionConfig() (httpclient.ConnectionConfig, error) {
	return httpclient.ConnectionConfigFromMap(c.Connection)
}

// Load reads the application configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*AppConfig, error) {
	opts = append([]LoaderOption{WithEnvPrefix(EnvPrefix)}, opts...)

	var cfg AppConfig
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
