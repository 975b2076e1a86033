package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the slice of the OS the loader touches.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig holds the loader's dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix limits environment binding to PREFIX_* variables.
	EnvPrefix string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS file system, for tests.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the search for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search for .env.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix restricts environment binding to PREFIX_* variables, with
// the prefix dropped: ENGINE_CONNECTOR_CONNECTION_SERVER_ADDRESS binds
// connection.server_address under prefix "ENGINE_CONNECTOR".
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) }
}

// configCandidates and envCandidates are searched in order when no file is
// given explicitly.
func configCandidates(service string) []string {
	return []string{
		"./config.yml",
		"./cmd/" + service + "/config.yml",
		"/etc/" + service + "/config.yml",
	}
}

func envCandidates(service string) []string {
	return []string{
		"./.env." + service,
		"./.env",
		"./cmd/" + service + "/.env",
	}
}

// ResolvedFiles are the files a load will read. Empty means none.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolve picks the config and .env files for service.
func Resolve(service string, lc LoaderConfig) ResolvedFiles {
	fs := lc.FileSystem
	if fs == nil {
		fs = osFS{}
	}
	first := func(paths []string) string {
		for _, p := range paths {
			if fs.Exists(p) {
				return p
			}
		}
		return ""
	}

	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = first(configCandidates(service))
	}
	if files.EnvFile == "" {
		files.EnvFile = first(envCandidates(service))
	}
	return files
}

// LoadConfig reads config.yml, then .env into the process environment,
// then environment overrides, and decodes the result into cfg. Files that
// do not exist are skipped; files that exist but do not parse are errors.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: osFS{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := Resolve(service, lc)
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("failed to load .env file %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, os.Environ(), lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode config for %s: %w", service, err)
	}
	return nil
}

// sections are the nested config sections, most specific first. Keys below
// a section keep their underscores.
var sections = []string{
	"server.cors",
	"connection",
	"connector",
	"logging",
	"observability",
	"server",
}

// bindEnv sets every KEY=value pair from environ on v. With a prefix only
// PREFIX_* variables are bound, prefix dropped.
func bindEnv(v *viper.Viper, environ []string, prefix string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			rest, found := strings.CutPrefix(name, prefix+"_")
			if !found || rest == "" {
				continue
			}
			name = rest
		}
		v.Set(envKey(name), value)
	}
}

// envKey maps an environment name onto a config key:
// CONNECTION_SERVER_ADDRESS is connection.server_address and
// SERVER_CORS_ALLOWED_ORIGINS is server.cors.allowed_origins.
func envKey(name string) string {
	key := strings.ToLower(name)
	for _, sec := range sections {
		if rest, ok := strings.CutPrefix(key, strings.ReplaceAll(sec, ".", "_")+"_"); ok && rest != "" {
			return sec + "." + rest
		}
	}
	return key
}
