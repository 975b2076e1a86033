package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kbukum/engineconnector/logger"
	"github.com/kbukum/engineconnector/util"
)

// TLSConfig holds the TLS-related connection settings.
type TLSConfig struct {
	// VerifySSL enables server certificate verification when no CA file
	// applies. Nil means verify, so a zero TLSConfig stays safe.
	VerifySSL *bool `yaml:"verify_ssl" mapstructure:"verify_ssl"`

	// CAFile is the path to the CA certificate used to verify the daemon.
	CAFile string `yaml:"ca_cert_path" mapstructure:"ca_cert_path"`

	// CertFile is the path to the client certificate.
	CertFile string `yaml:"cert_path" mapstructure:"cert_path"`

	// KeyFile is the path to the client key.
	KeyFile string `yaml:"key_path" mapstructure:"key_path"`

	// ServerName overrides the name the daemon certificate is verified against.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version. Defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// VerifiesServer reports the effective verify_ssl setting.
func (c TLSConfig) VerifiesServer() bool {
	return util.ValueOr(c.VerifySSL, true)
}

// VerifyMode says how the daemon's certificate is checked.
type VerifyMode int

const (
	// VerifySystem verifies against the system trust store.
	VerifySystem VerifyMode = iota
	// VerifyCA verifies against the configured CA bundle.
	VerifyCA
	// VerifyDisabled skips verification.
	VerifyDisabled
)

// String returns the mode name used in logs.
func (m VerifyMode) String() string {
	switch m {
	case VerifyCA:
		return "ca"
	case VerifyDisabled:
		return "disabled"
	default:
		return "system"
	}
}

// CertPair is a client certificate and its key.
type CertPair struct {
	CertFile string
	KeyFile  string
}

// TLSContext is the resolved TLS behaviour for one request.
type TLSContext struct {
	Verify     VerifyMode
	CAFile     string
	ClientCert *CertPair
	ServerName string
	MinVersion uint16
}

// ResolveTLS decides the verification mode and client certificate from cfg.
// A client pair is used only when both files are configured and exist. A CA
// file that is configured and exists wins over verify_ssl; a missing one is
// logged and verification falls back to verify_ssl.
func ResolveTLS(cfg TLSConfig, log *logger.Logger) TLSContext {
	if log == nil {
		log = logger.Nop()
	}
	out := TLSContext{ServerName: cfg.ServerName, MinVersion: cfg.MinVersion}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		if fileExists(cfg.CertFile) && fileExists(cfg.KeyFile) {
			out.ClientCert = &CertPair{CertFile: cfg.CertFile, KeyFile: cfg.KeyFile}
		} else {
			log.Warn("client certificate or key file not found, continuing without client certificate",
				logger.Fields("cert_file", cfg.CertFile, "key_file", cfg.KeyFile))
		}
	} else if cfg.CertFile != "" || cfg.KeyFile != "" {
		log.Warn("client certificate requires both cert and key paths, continuing without client certificate",
			logger.Fields("cert_file", cfg.CertFile, "key_file", cfg.KeyFile))
	}

	switch {
	case cfg.CAFile != "" && fileExists(cfg.CAFile):
		out.Verify = VerifyCA
		out.CAFile = cfg.CAFile
	case cfg.CAFile != "":
		log.Warn("CA certificate file not found, falling back to verify_ssl",
			logger.Fields("ca_file", cfg.CAFile, "verify_ssl", cfg.VerifiesServer()))
		out.Verify = verifyFromFlag(cfg.VerifiesServer())
	default:
		out.Verify = verifyFromFlag(cfg.VerifiesServer())
	}

	return out
}

// Build creates a *tls.Config for the resolved context. It fails only when
// a file that existed at resolve time cannot be parsed.
func (c TLSContext) Build() (*tls.Config, error) {
	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.Verify == VerifyDisabled, //nolint:gosec // operator opted out via verify_ssl
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	if c.Verify == VerifyCA {
		ca, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("security/tls: failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("security/tls: failed to parse CA certificate %s", c.CAFile)
		}
		cfg.RootCAs = pool
	}

	if c.ClientCert != nil {
		cert, err := tls.LoadX509KeyPair(c.ClientCert.CertFile, c.ClientCert.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("security/tls: failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func verifyFromFlag(verify bool) VerifyMode {
	if verify {
		return VerifySystem
	}
	return VerifyDisabled
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
