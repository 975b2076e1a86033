package security

import (
	"bytes"
	"crypto/tls"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/engineconnector/logger"
	"github.com/kbukum/engineconnector/security/tlstest"
	"github.com/kbukum/engineconnector/util"
)

func captureLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)
}

func TestResolveTLS_VerifyFlag(t *testing.T) {
	tests := []struct {
		name   string
		verify bool
		want   VerifyMode
	}{
		{"verify on uses system roots", true, VerifySystem},
		{"verify off disables verification", false, VerifyDisabled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveTLS(TLSConfig{VerifySSL: util.Ptr(tc.verify)}, nil)
			if got.Verify != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got.Verify)
			}
			if got.ClientCert != nil {
				t.Error("expected no client certificate")
			}
		})
	}
}

func TestResolveTLS_UnsetVerifyFlagVerifies(t *testing.T) {
	got := ResolveTLS(TLSConfig{}, nil)
	if got.Verify != VerifySystem {
		t.Errorf("a zero TLSConfig must verify, got %s", got.Verify)
	}
}

func TestResolveTLS_CAFileWinsOverVerifyFlag(t *testing.T) {
	certs := tlstest.New(t)
	got := ResolveTLS(TLSConfig{VerifySSL: util.Ptr(false), CAFile: certs.CAFile}, nil)
	if got.Verify != VerifyCA {
		t.Errorf("expected ca verification, got %s", got.Verify)
	}
	if got.CAFile != certs.CAFile {
		t.Errorf("expected CA file %s, got %s", certs.CAFile, got.CAFile)
	}
}

func TestResolveTLS_MissingCAFallsBackWithWarning(t *testing.T) {
	var buf bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.pem")

	got := ResolveTLS(TLSConfig{VerifySSL: util.Ptr(false), CAFile: missing}, captureLogger(&buf))
	if got.Verify != VerifyDisabled {
		t.Errorf("expected fallback to verify_ssl=false, got %s", got.Verify)
	}
	if got.CAFile != "" {
		t.Errorf("expected no CA file, got %s", got.CAFile)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), "CA certificate file not found") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestResolveTLS_ClientPair(t *testing.T) {
	certs := tlstest.New(t)
	got := ResolveTLS(TLSConfig{VerifySSL: util.Ptr(true), CertFile: certs.CertFile, KeyFile: certs.KeyFile}, nil)
	if got.ClientCert == nil {
		t.Fatal("expected client certificate")
	}
	if got.ClientCert.CertFile != certs.CertFile || got.ClientCert.KeyFile != certs.KeyFile {
		t.Errorf("unexpected pair %+v", got.ClientCert)
	}
}

func TestResolveTLS_ClientPairDegrades(t *testing.T) {
	certs := tlstest.New(t)
	missing := filepath.Join(t.TempDir(), "missing.pem")
	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing key file", TLSConfig{CertFile: certs.CertFile, KeyFile: missing}},
		{"missing cert file", TLSConfig{CertFile: missing, KeyFile: certs.KeyFile}},
		{"only cert configured", TLSConfig{CertFile: certs.CertFile}},
		{"only key configured", TLSConfig{KeyFile: certs.KeyFile}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			got := ResolveTLS(tc.cfg, captureLogger(&buf))
			if got.ClientCert != nil {
				t.Error("expected no client certificate")
			}
			if !strings.Contains(buf.String(), `"level":"warn"`) {
				t.Errorf("expected a warning, got %q", buf.String())
			}
		})
	}
}

func TestTLSContext_Build_Disabled(t *testing.T) {
	result, err := TLSContext{Verify: VerifyDisabled}.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected MinVersion=TLS12, got %d", result.MinVersion)
	}
}

func TestTLSContext_Build_System(t *testing.T) {
	result, err := TLSContext{Verify: VerifySystem, ServerName: "engine.local", MinVersion: tls.VersionTLS13}.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.InsecureSkipVerify {
		t.Error("expected verification enabled")
	}
	if result.RootCAs != nil {
		t.Error("expected system roots")
	}
	if result.ServerName != "engine.local" {
		t.Errorf("expected ServerName=engine.local, got %s", result.ServerName)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected MinVersion=TLS13, got %d", result.MinVersion)
	}
}

func TestTLSContext_Build_FullConfig(t *testing.T) {
	certs := tlstest.New(t)
	tc := ResolveTLS(TLSConfig{
		VerifySSL: util.Ptr(true),
		CAFile:    certs.CAFile,
		CertFile:  certs.CertFile,
		KeyFile:   certs.KeyFile,
	}, nil)

	result, err := tc.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
	if len(result.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(result.Certificates))
	}
}

func TestTLSContext_Build_InvalidCAContent(t *testing.T) {
	caFile := tlstest.WriteInvalidPEM(t, "bad-ca.pem")
	tc := ResolveTLS(TLSConfig{CAFile: caFile}, nil)
	if tc.Verify != VerifyCA {
		t.Fatalf("expected ca verification for an existing file, got %s", tc.Verify)
	}
	if _, err := tc.Build(); err == nil {
		t.Fatal("expected error for invalid CA PEM content")
	}
}

func TestTLSContext_Build_InvalidClientPair(t *testing.T) {
	certs := tlstest.New(t)
	bad := tlstest.WriteInvalidPEM(t, "bad-cert.pem")
	tc := ResolveTLS(TLSConfig{CertFile: bad, KeyFile: certs.KeyFile}, nil)
	if _, err := tc.Build(); err == nil {
		t.Fatal("expected error for unparsable client certificate")
	}
}

func TestVerifyModeString(t *testing.T) {
	if VerifySystem.String() != "system" || VerifyCA.String() != "ca" || VerifyDisabled.String() != "disabled" {
		t.Error("unexpected verify mode names")
	}
}
