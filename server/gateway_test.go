package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/component"
	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/operations"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeDaemon answers a handful of engine endpoints.
func fakeDaemon(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.41/_ping", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, "OK")
	})
	mux.HandleFunc("/v1.41/containers/json", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"Id":"abc123","Names":["/web"]}]`)
	})
	mux.HandleFunc("/v1.41/containers/missing/json", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"No such container: missing"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func connectionDefaults(t *testing.T, daemon *httptest.Server) map[string]any {
	t.Helper()
	u, err := url.Parse(daemon.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]any{
		"server_address": host,
		"port":           port,
		"protocol":       "http",
		"retry_attempts": 1,
		"rate_limit":     0,
	}
}

type testGateway struct {
	url       string
	connector *operations.Connector
}

func newTestGateway(t *testing.T, defaults map[string]any, cfg Config) testGateway {
	t.Helper()
	conn := operations.NewConnector(httpclient.New())
	if err := conn.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	cfg.ApplyDefaults()
	srv := New(cfg, nil)
	NewGateway(conn, GatewayOptions{Defaults: defaults}).Register(srv.GinEngine())
	srv.RegisterDefaultEndpoints("engine-connector", "dev", func(ctx context.Context) []component.Health {
		return []component.Health{conn.Health(ctx)}
	}, nil)
	srv.ApplyMiddleware("engine-connector", nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return testGateway{url: ts.URL, connector: conn}
}

func post(t *testing.T, target, body string, header ...string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestGateway_InvokeSuccess(t *testing.T) {
	daemon, _ := fakeDaemon(t)
	gw := newTestGateway(t, connectionDefaults(t, daemon), Config{})

	code, body := post(t, gw.url+"/v1/operations/list_containers", `{"params":{"all":true}}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	list, ok := body["data"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("data = %#v", body["data"])
	}
	if first, _ := list[0].(map[string]any); first["Id"] != "abc123" {
		t.Errorf("unexpected container: %v", first)
	}
}

func TestGateway_EmptyBodyUsesDefaults(t *testing.T) {
	daemon, calls := fakeDaemon(t)
	gw := newTestGateway(t, connectionDefaults(t, daemon), Config{})

	code, body := post(t, gw.url+"/v1/operations/list_containers", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if calls.Load() != 1 {
		t.Errorf("daemon calls = %d", calls.Load())
	}
}

func TestGateway_RequestConfigOverridesDefaults(t *testing.T) {
	daemon, _ := fakeDaemon(t)
	defaults := connectionDefaults(t, daemon)
	defaults["server_address"] = "203.0.113.1"
	gw := newTestGateway(t, defaults, Config{})

	actual := connectionDefaults(t, daemon)
	body := `{"config":{"Server_Address":"` + actual["server_address"].(string) + `"}}`
	code, out := post(t, gw.url+"/v1/operations/list_containers", body)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, out)
	}
}

func TestGateway_ErrorsMirrorStatus(t *testing.T) {
	daemon, _ := fakeDaemon(t)
	gw := newTestGateway(t, connectionDefaults(t, daemon), Config{})

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"engine 404", "/v1/operations/inspect_container", `{"params":{"id":"missing"}}`, http.StatusNotFound, "NOT_FOUND"},
		{"missing param", "/v1/operations/inspect_container", `{"params":{}}`, http.StatusBadRequest, "MISSING_FIELD"},
		{"unknown operation", "/v1/operations/fly_to_moon", `{}`, http.StatusNotFound, "UNSUPPORTED_OPERATION"},
		{"invalid json", "/v1/operations/list_containers", `{"params":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad config", "/v1/operations/list_containers", `{"config":{"protocol":"gopher"}}`, http.StatusBadRequest, "CONFIG_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, gw.url+tt.path, tt.body)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d (%v)", code, tt.wantCode, body)
			}
			if got := errorCode(body); got != tt.wantErr {
				t.Errorf("error code = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestGateway_NoServerAddress(t *testing.T) {
	gw := newTestGateway(t, nil, Config{})
	code, body := post(t, gw.url+"/v1/operations/get_version", `{}`)
	if code != http.StatusBadRequest || errorCode(body) != "CONFIG_ERROR" {
		t.Fatalf("got %d %v", code, body)
	}
}

func TestGateway_ListOperations(t *testing.T) {
	gw := newTestGateway(t, nil, Config{})
	req, _ := http.NewRequest(http.MethodGet, gw.url+"/v1/operations", http.NoBody)
	code, body := do(t, req)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	data, _ := body["data"].(map[string]any)
	ops, _ := data["operations"].([]any)
	if len(ops) != len(gw.connector.Operations()) || data["count"] != float64(len(ops)) {
		t.Fatalf("unexpected listing: %v", data)
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1].(string) > ops[i].(string) {
			t.Fatalf("operations not sorted: %v", ops)
		}
	}
}

func TestGateway_CheckHealth(t *testing.T) {
	daemon, _ := fakeDaemon(t)

	tests := []struct {
		name      string
		defaults  map[string]any
		body      string
		reachable bool
		contains  string
	}{
		{"reachable", connectionDefaults(t, daemon), `{}`, true, "Engine API is reachable"},
		{"no configuration", nil, `{}`, false, "No configuration provided"},
		{"unreachable", nil, `{"config":{"server_address":"127.0.0.1","port":"1","protocol":"http","retry_attempts":1}}`, false, "not reachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, tt.defaults, Config{})
			code, body := post(t, gw.url+PathCheck, tt.body)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			data, _ := body["data"].(map[string]any)
			if data["reachable"] != tt.reachable {
				t.Errorf("reachable = %v, want %v", data["reachable"], tt.reachable)
			}
			msg, _ := data["message"].(string)
			if !strings.HasPrefix(msg, "Connector is Available - ") || !strings.Contains(msg, tt.contains) {
				t.Errorf("message = %q", msg)
			}
		})
	}
}

func TestGateway_APIKeyAndProbes(t *testing.T) {
	gw := newTestGateway(t, nil, Config{APIKeys: []string{"s3cret"}})

	code, body := post(t, gw.url+"/v1/operations/ping", `{}`)
	if code != http.StatusUnauthorized || errorCode(body) != "UNAUTHORIZED" {
		t.Fatalf("without key: %d %v", code, body)
	}

	code, body = post(t, gw.url+"/v1/operations/ping", `{}`, "Authorization", "Bearer s3cret")
	if errorCode(body) != "CONFIG_ERROR" {
		t.Fatalf("with key: %d %v", code, body)
	}

	for _, p := range []string{PathLive, PathReady} {
		req, _ := http.NewRequest(http.MethodGet, gw.url+p, http.NoBody)
		if code, body := do(t, req); code != http.StatusOK {
			t.Errorf("%s: %d %v", p, code, body)
		}
	}
}

func TestGateway_ReadinessFollowsConnector(t *testing.T) {
	gw := newTestGateway(t, nil, Config{})
	if err := gw.connector.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest(http.MethodGet, gw.url+PathReady, http.NoBody)
	if code, body := do(t, req); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz = %d %v", code, body)
	}
}

func TestGateway_RequestIDEchoed(t *testing.T) {
	gw := newTestGateway(t, nil, Config{})
	req, _ := http.NewRequest(http.MethodGet, gw.url+"/v1/operations", http.NoBody)
	req.Header.Set("X-Request-Id", "trace-me")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-Id"); got != "trace-me" {
		t.Errorf("X-Request-Id = %q", got)
	}
}
