package httpclient

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestComposeAuth_TokenIsExclusive(t *testing.T) {
	cfg := ConnectionConfig{Token: "tok", Username: "admin", Password: "secret"}
	got := ComposeAuth(cfg, false)
	if got.Headers["Authorization"] != "Bearer tok" {
		t.Errorf("expected bearer header, got %v", got.Headers)
	}
	if got.Basic != nil {
		t.Error("basic credentials must not be sent with a token")
	}
}

func TestComposeAuth_Basic(t *testing.T) {
	got := ComposeAuth(ConnectionConfig{Username: "admin", Password: "secret"}, false)
	if got.Basic == nil || got.Basic.Username != "admin" || got.Basic.Password != "secret" {
		t.Errorf("expected basic credentials, got %+v", got.Basic)
	}
	if _, ok := got.Headers["Authorization"]; ok {
		t.Error("basic auth is transport level, not a header")
	}
}

func TestComposeAuth_PartialBasicIgnored(t *testing.T) {
	got := ComposeAuth(ConnectionConfig{Username: "admin"}, false)
	if got.Basic != nil || len(got.Headers) != 0 {
		t.Errorf("expected no auth, got %+v", got)
	}
}

func TestComposeAuth_RegistryAuth(t *testing.T) {
	cfg := ConnectionConfig{Token: "tok", RegistryUsername: "ci", RegistryPassword: "pw"}

	without := ComposeAuth(cfg, false)
	if _, ok := without.Headers["X-Registry-Auth"]; ok {
		t.Error("registry auth must only be added on request")
	}

	with := ComposeAuth(cfg, true)
	blob := with.Headers["X-Registry-Auth"]
	if blob == "" {
		t.Fatal("expected X-Registry-Auth header")
	}
	if with.Headers["Authorization"] != "Bearer tok" {
		t.Error("registry auth is added alongside primary auth")
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("expected std base64, got %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"username": "ci", "password": "pw", "serveraddress": "https://index.docker.io/v1/"}
	for k, v := range want {
		if decoded[k] != v {
			t.Errorf("expected %s=%s, got %s", k, v, decoded[k])
		}
	}
}

func TestRegistryAuthHeader_CustomServerAndMissing(t *testing.T) {
	blob, ok := RegistryAuthHeader(ConnectionConfig{RegistryUsername: "u", RegistryPassword: "p", RegistryServer: "registry.local:5000"})
	if !ok {
		t.Fatal("expected header")
	}
	raw, _ := base64.StdEncoding.DecodeString(blob)
	var decoded map[string]string
	_ = json.Unmarshal(raw, &decoded)
	if decoded["serveraddress"] != "registry.local:5000" {
		t.Errorf("unexpected server %q", decoded["serveraddress"])
	}

	if _, ok := RegistryAuthHeader(ConnectionConfig{RegistryUsername: "u"}); ok {
		t.Error("expected no header without a password")
	}
}

func TestMergeHeaders(t *testing.T) {
	defaults := DefaultHeaders()
	auth := map[string]string{"authorization": "Bearer tok"}
	caller := map[string]string{"ACCEPT": "text/plain", "X-Custom": "1"}

	got := MergeHeaders(defaults, auth, caller)
	if got["Accept"] != "text/plain" {
		t.Errorf("expected caller override to win, got %q", got["Accept"])
	}
	if got["Authorization"] != "Bearer tok" {
		t.Errorf("expected canonical auth key, got %v", got)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 headers, got %v", got)
	}
	if defaults["Accept"] != "application/json" || caller["ACCEPT"] != "text/plain" {
		t.Error("inputs must not be modified")
	}

	got["X-New"] = "x"
	if _, ok := MergeHeaders(defaults)["X-New"]; ok {
		t.Error("expected a fresh map on every call")
	}
}

func TestHasHeader(t *testing.T) {
	h := map[string]string{"content-TYPE": "application/x-tar"}
	if !hasHeader(h, "Content-Type") {
		t.Error("expected case-insensitive match")
	}
	if hasHeader(h, "Accept") {
		t.Error("unexpected match")
	}
}
