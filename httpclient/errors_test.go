package httpclient

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kbukum/engineconnector/errors"
)

func TestClassify_Success(t *testing.T) {
	out, err := Classify(&Response{StatusCode: 200, Body: []byte(`{"Id":"abc","Size":12}`)}, "/containers/abc/json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := out.Map()
	if m["Id"] != "abc" {
		t.Errorf("unexpected data %v", out.Data)
	}
	if n, ok := m["Size"].(json.Number); !ok || n.String() != "12" {
		t.Errorf("expected numbers preserved as json.Number, got %T", m["Size"])
	}
}

func TestClassify_NonJSONBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"plain text", "OK"},
		{"empty", ""},
		{"event stream", "{\"status\":\"Pulling\"}\n{\"status\":\"Done\"}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Classify(&Response{StatusCode: 200, Body: []byte(tc.body)}, "/x")
			if err != nil {
				t.Fatal(err)
			}
			if got := out.Map()[ResultKey]; got != tc.body {
				t.Errorf("expected {result: %q}, got %v", tc.body, out.Data)
			}
		})
	}
}

func TestClassify_ArrayBody(t *testing.T) {
	out, err := Classify(&Response{StatusCode: 200, Body: []byte(`[{"Id":"a"}]`)}, "/containers/json")
	if err != nil {
		t.Fatal(err)
	}
	list, ok := out.Data.([]any)
	if !ok || len(list) != 1 {
		t.Errorf("expected a one-element list, got %v", out.Data)
	}
	if out.Map() != nil {
		t.Error("Map must be nil for a list body")
	}
}

func TestClassify_RedirectAndNoContentSucceed(t *testing.T) {
	for _, status := range []int{204, 304} {
		out, err := Classify(&Response{StatusCode: status}, "/x")
		if err != nil || out.StatusCode != status {
			t.Errorf("status %d: expected success, got %v", status, err)
		}
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status    int
		code      errors.ErrorCode
		retryable bool
	}{
		{400, errors.ErrCodeBadRequest, false},
		{401, errors.ErrCodeUnauthorized, false},
		{403, errors.ErrCodeForbidden, false},
		{404, errors.ErrCodeNotFound, false},
		{409, errors.ErrCodeConflict, false},
		{418, errors.ErrCodeHTTP, false},
		{500, errors.ErrCodeEngineInternal, true},
		{502, errors.ErrCodeServerError, true},
		{503, errors.ErrCodeEngineUnavailable, true},
	}
	for _, tc := range tests {
		err := StatusError(tc.status, "boom", "/containers/abc/json")
		if err.Code != tc.code {
			t.Errorf("status %d: expected %s, got %s", tc.status, tc.code, err.Code)
		}
		if err.Retryable != tc.retryable {
			t.Errorf("status %d: expected retryable=%v", tc.status, tc.retryable)
		}
	}
}

func TestStatusError_Messages(t *testing.T) {
	if msg := StatusError(404, "no such container", "/containers/abc/json").Message; !strings.Contains(msg, "/containers/abc/json") {
		t.Errorf("404 must name the endpoint, got %q", msg)
	}
	if msg := StatusError(401, "token=s3cr3t", "/info").Message; strings.Contains(msg, "s3cr3t") {
		t.Errorf("401 must not echo the body, got %q", msg)
	}
	if msg := StatusError(409, "name in use", "/containers/create").Message; msg != "Conflict: name in use" {
		t.Errorf("unexpected conflict message %q", msg)
	}
	if msg := StatusError(418, "teapot", "/x").Message; msg != "HTTP 418: teapot" {
		t.Errorf("unexpected message %q", msg)
	}
}
