// Package config loads the engine-connector configuration.
//
// Layers, lowest first: config.yml, a .env file loaded into the process
// environment with godotenv, and ENGINE_CONNECTOR_* variables. Without
// explicit paths the files are searched in the working directory, then
// ./cmd/engine-connector/, then /etc/engine-connector/ for config.yml.
//
// Variable names map onto keys by section:
// ENGINE_CONNECTOR_CONNECTION_SERVER_ADDRESS sets connection.server_address
// and ENGINE_CONNECTOR_SERVER_CORS_ALLOWED_ORIGINS sets
// server.cors.allowed_origins (comma separated).
//
//	cfg, err := config.Load(config.WithConfigFile("config.yml"))
//	conn, err := cfg.ConnectionConfig()
package config
