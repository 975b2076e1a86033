package httpclient

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/security"
	"github.com/kbukum/engineconnector/util"
	"github.com/kbukum/engineconnector/validation"
)

const (
	defaultPort           = "2376"
	defaultProtocol       = "https"
	defaultAPIVersion     = "v1.41"
	defaultRegistryServer = "https://index.docker.io/v1/"
	defaultRateLimit      = 60
	defaultRetryAttempts  = 3
	defaultRetryDelay     = time.Second
	defaultTimeout        = 60 * time.Second
)

// ConnectionConfig describes how to reach and authenticate against one engine
// daemon. It is supplied fresh on every invocation and never mutated by the
// client. Unset fields take their defaults, so a literal such as
// ConnectionConfig{ServerAddress: "engine"} verifies TLS and is rate limited
// at 60 requests per minute.
type ConnectionConfig struct {
	ServerAddress string `yaml:"server_address" mapstructure:"server_address"`
	Port          string `yaml:"port" mapstructure:"port" validate:"omitempty,numeric"`
	Protocol      string `yaml:"protocol" mapstructure:"protocol"`
	APIVersion    string `yaml:"api_version" mapstructure:"api_version" validate:"omitempty,startswith=v"`

	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Token    string `yaml:"access_token" mapstructure:"access_token"`

	RegistryUsername string `yaml:"registry_username" mapstructure:"registry_username"`
	RegistryPassword string `yaml:"registry_password" mapstructure:"registry_password"`
	RegistryServer   string `yaml:"registry_server" mapstructure:"registry_server"`

	security.TLSConfig `yaml:",inline" mapstructure:",squash"`

	// RateLimit is the requests-per-minute budget. Nil means 60; zero or less
	// disables limiting.
	RateLimit *int `yaml:"rate_limit" mapstructure:"rate_limit"`
	// RetryAttempts is the number of physical attempts per call.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"gte=0"`
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay" validate:"gte=0"`
	// Timeout bounds each physical attempt.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// DefaultConnectionConfig returns the settings used for every key a caller leaves out.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		Port:           defaultPort,
		Protocol:       defaultProtocol,
		APIVersion:     defaultAPIVersion,
		RegistryServer: defaultRegistryServer,
		TLSConfig:      security.TLSConfig{VerifySSL: util.Ptr(true)},
		RateLimit:      util.Ptr(defaultRateLimit),
		RetryAttempts:  defaultRetryAttempts,
		RetryDelay:     defaultRetryDelay,
		Timeout:        defaultTimeout,
	}
}

// ApplyDefaults fills every unset field. An explicit RateLimit of 0,
// VerifySSL of false or RetryDelay of 0 is kept.
func (c *ConnectionConfig) ApplyDefaults() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.Protocol == "" {
		c.Protocol = defaultProtocol
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.RegistryServer == "" {
		c.RegistryServer = defaultRegistryServer
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = defaultRetryAttempts
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.VerifySSL == nil {
		c.VerifySSL = util.Ptr(true)
	}
	if c.RateLimit == nil {
		c.RateLimit = util.Ptr(defaultRateLimit)
	}
}

// RequestsPerMinute returns the effective rate_limit.
func (c ConnectionConfig) RequestsPerMinute() int {
	return util.ValueOr(c.RateLimit, defaultRateLimit)
}

// Validate reports CONFIG_ERROR for a configuration no request can be built from.
func (c *ConnectionConfig) Validate() error {
	if strings.TrimSpace(c.ServerAddress) == "" {
		return errors.MissingParameter("server_address")
	}
	if p := strings.ToLower(c.Protocol); p != "" && p != "http" && p != "https" {
		return errors.Config(fmt.Sprintf("Unsupported protocol: %s", c.Protocol)).WithDetail("parameter", "protocol")
	}
	if err := validation.Validate(c); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return errors.Config(appErr.Message).WithDetails(appErr.Details)
		}
		return errors.Config(err.Error())
	}
	return nil
}

// BaseURL returns protocol://server:port without a path.
func (c ConnectionConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%s", strings.ToLower(c.Protocol), c.ServerAddress, c.Port)
}

// Redacted returns a copy with every secret masked, safe to log.
func (c ConnectionConfig) Redacted() ConnectionConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.Password = mask(c.Password)
	c.Token = mask(c.Token)
	c.RegistryPassword = mask(c.RegistryPassword)
	return c
}

// ConnectionConfigFromMap decodes a loosely typed configuration map, such as
// the config object of a gateway request, on top of DefaultConnectionConfig.
// Values are weakly typed: port may be a number, verify_ssl a string.
// Numeric retry_delay and timeout values are seconds; duration strings like
// "500ms" are accepted too. Unknown keys are ignored.
func ConnectionConfigFromMap(raw map[string]any) (ConnectionConfig, error) {
	cfg := DefaultConnectionConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       secondsToDurationHook,
		WeaklyTypedInput: true,
		Squash:           true,
		TagName:          "mapstructure",
		Result:           &cfg,
	})
	if err != nil {
		return cfg, errors.Internal(err)
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, errors.Config(fmt.Sprintf("Invalid connection configuration: %v", err)).WithCause(err)
	}
	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDurationHook reads bare numbers as seconds when the target is a time.Duration.
func secondsToDurationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	v := reflect.ValueOf(data)
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(v.Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(v.Uint()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(v.Float() * float64(time.Second)), nil
	case reflect.String:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return time.Duration(0), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(f * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", s)
		}
		return d, nil
	}
	return data, nil
}
