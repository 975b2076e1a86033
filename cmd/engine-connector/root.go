package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/engineconnector/config"
	"github.com/kbukum/engineconnector/util"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
	jsonOutput bool

	// Connection overrides, laid over the connection section of the config.
	server     string
	enginePort string
	protocol   string
	apiVersion string
	token      string
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   config.ServiceName,
		Short: "Run container-engine operations against a Docker-compatible API",
		Long: `engine-connector turns named operations (list_containers, pull_image,
create_network, ...) into authenticated, rate-limited and retried calls
against a Docker-compatible engine REST API.

Use 'run' for a single operation or 'serve' to expose all operations over HTTP.
Configuration is read from config.yml, .env and ENGINE_CONNECTOR_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "Path to config file (default: ./config.yml, ./cmd/engine-connector/config.yml or /etc/engine-connector/config.yml)")
	pf.StringVar(&g.envFile, "env-file", "", "Path to .env file")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&g.jsonOutput, "json", false, "Output in JSON format")
	pf.StringVar(&g.server, "server", "", "Engine server address")
	pf.StringVar(&g.enginePort, "engine-port", "", "Engine API port")
	pf.StringVar(&g.protocol, "protocol", "", "Engine API protocol: http or https")
	pf.StringVar(&g.apiVersion, "api-version", "", "Engine API version, e.g. v1.41")
	pf.StringVar(&g.token, "token", "", "Bearer token for the engine API")

	cmd.AddCommand(
		newRunCommand(g),
		newOperationsCommand(g),
		newHealthCommand(g),
		newServeCommand(g),
		newVersionCommand(g),
	)
	return cmd
}

// loadConfig reads the application config and applies the command line
// overrides. An explicit --config that does not exist is an error.
func (g *globalFlags) loadConfig() (*config.AppConfig, error) {
	var opts []config.LoaderOption
	if g.configFile != "" {
		if _, err := os.Stat(g.configFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	if g.envFile != "" {
		opts = append(opts, config.WithEnvFile(g.envFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	cfg.Logging.Level = strings.ToLower(util.FirstNonBlank(g.logLevel, cfg.Logging.Level))
	cfg.Connection = g.connectionOverrides(cfg.Connection)
	return cfg, nil
}

// connectionOverrides returns base with every connection flag that was set
// laid over it. base is not modified.
func (g *globalFlags) connectionOverrides(base map[string]any) map[string]any {
	out := make(map[string]any, len(base)+5)
	for k, v := range base {
		out[k] = v
	}
	for key, val := range map[string]string{
		"server_address": g.server,
		"port":           g.enginePort,
		"protocol":       g.protocol,
		"api_version":    g.apiVersion,
		"access_token":   g.token,
	} {
		if val != "" {
			out[key] = val
		}
	}
	return out
}
