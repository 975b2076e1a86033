package httpclient

import (
	"encoding/base64"
	"encoding/json"
	"net/textproto"
	"strings"
)

const (
	headerAccept       = "Accept"
	headerAuthz        = "Authorization"
	headerContentType  = "Content-Type"
	headerRegistryAuth = "X-Registry-Auth"

	mimeJSON = "application/json"
)

// BasicCredentials are sent as transport-level HTTP basic auth.
type BasicCredentials struct {
	Username string
	Password string
}

// AuthResult is what ComposeAuth derives from a configuration.
type AuthResult struct {
	// Basic is set only when no token is configured.
	Basic *BasicCredentials
	// Headers carries the bearer token and, when requested, the registry credential blob.
	Headers map[string]string
}

// registryAuth is the credential blob the engine expects in X-Registry-Auth.
type registryAuth struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ServerAddress string `json:"serveraddress"`
}

// ComposeAuth derives request credentials. A token is exclusive: when set, it
// is sent as a bearer header and basic credentials are not sent. Registry
// credentials are added only when useRegistryAuth is set and both the
// registry username and password are configured.
func ComposeAuth(cfg ConnectionConfig, useRegistryAuth bool) AuthResult {
	out := AuthResult{Headers: map[string]string{}}

	switch {
	case cfg.Token != "":
		out.Headers[headerAuthz] = "Bearer " + cfg.Token
	case cfg.Username != "" && cfg.Password != "":
		out.Basic = &BasicCredentials{Username: cfg.Username, Password: cfg.Password}
	}

	if useRegistryAuth {
		if blob, ok := RegistryAuthHeader(cfg); ok {
			out.Headers[headerRegistryAuth] = blob
		}
	}
	return out
}

// RegistryAuthHeader encodes the registry credentials as base64 JSON. It
// reports false when either the registry username or password is missing.
func RegistryAuthHeader(cfg ConnectionConfig) (string, bool) {
	if cfg.RegistryUsername == "" || cfg.RegistryPassword == "" {
		return "", false
	}
	server := cfg.RegistryServer
	if server == "" {
		server = defaultRegistryServer
	}
	data, err := json.Marshal(registryAuth{
		Username:      cfg.RegistryUsername,
		Password:      cfg.RegistryPassword,
		ServerAddress: server,
	})
	if err != nil {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}

// DefaultHeaders returns the headers every engine request starts from.
func DefaultHeaders() map[string]string {
	return map[string]string{headerAccept: mimeJSON}
}

// MergeHeaders merges header layers in order; later layers win. Keys are
// compared case-insensitively and returned in canonical form. The inputs are
// never modified.
func MergeHeaders(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[textproto.CanonicalMIMEHeaderKey(k)] = v
		}
	}
	return out
}

// hasHeader reports whether headers contains name, ignoring case.
func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
