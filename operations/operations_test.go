package operations

import (
	"context"
	"encoding/base64"
	"net/http"
	"reflect"
	"strconv"
	"testing"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/httpclient"
)

func TestOperations_RequestShape(t *testing.T) {
	tests := []struct {
		op       string
		params   Params
		method   string
		endpoint string
		query    httpclient.Query
		body     any
	}{
		{"get_version", nil, http.MethodGet, "/version", nil, nil},
		{"get_info", nil, http.MethodGet, "/info", nil, nil},
		{"system_df", nil, http.MethodGet, "/system/df", nil, nil},
		{"ping", nil, http.MethodGet, "/_ping", nil, nil},
		{"system_prune", Params{"filters": `{"until":["24h"]}`}, http.MethodPost, "/system/prune",
			httpclient.Query{"filters": map[string]any{"until": []any{"24h"}}}, nil},
		{"auth", Params{"username": "u", "password": "p"}, http.MethodPost, "/auth", nil,
			map[string]any{"username": "u", "password": "p", "serveraddress": "https://index.docker.io/v1/"}},

		{"list_containers", Params{"all": true}, http.MethodGet, "/containers/json",
			httpclient.Query{"all": 1, "limit": nil, "filters": nil}, nil},
		{"inspect_container", Params{"id": "abc"}, http.MethodGet, "/containers/abc/json", nil, nil},
		{"start_container", Params{"id": "abc"}, http.MethodPost, "/containers/abc/start", nil, nil},
		{"stop_container", Params{"id": "abc", "t": 5.0}, http.MethodPost, "/containers/abc/stop",
			httpclient.Query{"t": 5.0}, nil},
		{"restart_container", Params{"id": "abc"}, http.MethodPost, "/containers/abc/restart",
			httpclient.Query{"t": nil}, nil},
		{"kill_container", Params{"id": "abc", "signal": "SIGTERM"}, http.MethodPost, "/containers/abc/kill",
			httpclient.Query{"signal": "SIGTERM"}, nil},
		{"remove_container", Params{"id": "abc", "force": true}, http.MethodDelete, "/containers/abc",
			httpclient.Query{"force": 1, "v": 0}, nil},
		{"create_container", Params{"image": "alpine", "name": "web", "HostConfig": `{"Privileged":false}`},
			http.MethodPost, "/containers/create", httpclient.Query{"name": "web"},
			map[string]any{"Image": "alpine", "HostConfig": map[string]any{"Privileged": false}}},
		{"rename_container", Params{"id": "abc", "name": "new"}, http.MethodPost, "/containers/abc/rename",
			httpclient.Query{"name": "new"}, nil},
		{"prune_containers", nil, http.MethodPost, "/containers/prune", httpclient.Query{"filters": nil}, nil},
		{"pause_container", Params{"id": "abc"}, http.MethodPost, "/containers/abc/pause", nil, nil},
		{"unpause_container", Params{"id": "abc"}, http.MethodPost, "/containers/abc/unpause", nil, nil},
		{"container_stats", Params{"id": "abc"}, http.MethodGet, "/containers/abc/stats",
			httpclient.Query{"stream": 0}, nil},
		{"update_container", Params{"id": "abc", "Memory": 1024.0, "Other": "x"}, http.MethodPost, "/containers/abc/update",
			nil, map[string]any{"Memory": 1024.0}},
		{"wait_container", Params{"id": "abc", "condition": "not-running"}, http.MethodPost, "/containers/abc/wait",
			httpclient.Query{"condition": "not-running"}, nil},
		{"resize_container", Params{"id": "abc", "h": 40.0, "w": 120.0}, http.MethodPost, "/containers/abc/resize",
			httpclient.Query{"h": "40", "w": "120"}, nil},

		{"list_images", nil, http.MethodGet, "/images/json", httpclient.Query{"filters": nil}, nil},
		{"inspect_image", Params{"name": "library/alpine:3"}, http.MethodGet, "/images/library/alpine:3/json", nil, nil},
		{"remove_image", Params{"name": "alpine", "noprune": "1"}, http.MethodDelete, "/images/alpine",
			httpclient.Query{"force": 0, "noprune": 1}, nil},
		{"tag_image", Params{"name": "alpine", "repo": "me/alpine", "tag": "v1"}, http.MethodPost, "/images/alpine/tag",
			httpclient.Query{"repo": "me/alpine", "tag": "v1"}, nil},
		{"prune_images", nil, http.MethodPost, "/images/prune", httpclient.Query{"filters": nil}, nil},
		{"search_images", Params{"term": "nginx", "limit": 5.0}, http.MethodGet, "/images/search",
			httpclient.Query{"term": "nginx", "limit": 5.0, "filters": nil}, nil},
		{"image_history", Params{"name": "alpine"}, http.MethodGet, "/images/alpine/history", nil, nil},

		{"list_networks", Params{"filters": map[string]any{"driver": []any{"bridge"}}}, http.MethodGet, "/networks",
			httpclient.Query{"filters": map[string]any{"driver": []any{"bridge"}}}, nil},
		{"inspect_network", Params{"id": "backend"}, http.MethodGet, "/networks/backend", nil, nil},
		{"create_network", Params{"Name": "backend", "Driver": "bridge"}, http.MethodPost, "/networks/create", nil,
			map[string]any{"Name": "backend", "Driver": "bridge"}},
		{"connect_network", Params{"id": "backend", "Container": "abc"}, http.MethodPost, "/networks/backend/connect", nil,
			map[string]any{"Container": "abc"}},
		{"disconnect_network", Params{"id": "backend", "Container": "abc", "Force": "true"}, http.MethodPost,
			"/networks/backend/disconnect", nil, map[string]any{"Container": "abc", "Force": true}},
		{"remove_network", Params{"id": "backend"}, http.MethodDelete, "/networks/backend", nil, nil},
		{"prune_networks", nil, http.MethodPost, "/networks/prune", httpclient.Query{"filters": nil}, nil},

		{"list_volumes", nil, http.MethodGet, "/volumes", httpclient.Query{"filters": nil}, nil},
		{"inspect_volume", Params{"name": "data"}, http.MethodGet, "/volumes/data", nil, nil},
		{"create_volume", Params{"Name": "data", "Driver": ""}, http.MethodPost, "/volumes/create", nil,
			map[string]any{"Name": "data"}},
		{"remove_volume", Params{"name": "data"}, http.MethodDelete, "/volumes/data", httpclient.Query{"force": 0}, nil},
		{"prune_volumes", nil, http.MethodPost, "/volumes/prune", httpclient.Query{"filters": nil}, nil},
	}

	registry := DefaultRegistry()
	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			op, ok := registry.Lookup(tc.op)
			if !ok {
				t.Fatalf("operation %s not registered", tc.op)
			}
			inv := &recordingInvoker{}
			if _, err := op(context.Background(), inv, testConfig(), tc.params); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			spec := inv.last()
			if spec.Method != tc.method || spec.Endpoint != tc.endpoint {
				t.Errorf("expected %s %s, got %s %s", tc.method, tc.endpoint, spec.Method, spec.Endpoint)
			}
			if !reflect.DeepEqual(spec.Query, tc.query) {
				t.Errorf("expected query %#v, got %#v", tc.query, spec.Query)
			}
			if !reflect.DeepEqual(spec.Body, tc.body) {
				t.Errorf("expected body %#v, got %#v", tc.body, spec.Body)
			}
		})
	}
}

func TestOperations_MissingInputs(t *testing.T) {
	tests := []struct {
		op     string
		params Params
		want   errors.ErrorCode
	}{
		{"inspect_container", nil, errors.ErrCodeMissingField},
		{"start_container", Params{"id": ""}, errors.ErrCodeMissingField},
		{"create_container", Params{"name": "x"}, errors.ErrCodeMissingField},
		{"rename_container", Params{"id": "abc"}, errors.ErrCodeMissingField},
		{"exec_container", Params{"id": "abc"}, errors.ErrCodeMissingField},
		{"resize_container", Params{"id": "abc", "h": 1.0}, errors.ErrCodeMissingField},
		{"copy_to_container", Params{"id": "abc", "path": "/tmp"}, errors.ErrCodeMissingField},
		{"pull_image", nil, errors.ErrCodeMissingField},
		{"tag_image", Params{"name": "alpine"}, errors.ErrCodeMissingField},
		{"search_images", nil, errors.ErrCodeMissingField},
		{"save_image", nil, errors.ErrCodeMissingField},
		{"auth", Params{"username": "u"}, errors.ErrCodeMissingField},
		{"inspect_network", Params{"id": "-bad"}, errors.ErrCodeInvalidInput},
		{"create_network", Params{"Name": "bad name"}, errors.ErrCodeInvalidInput},
		{"connect_network", Params{"id": "backend"}, errors.ErrCodeMissingField},
		{"create_volume", Params{"Name": ".hidden"}, errors.ErrCodeInvalidInput},
		{"inspect_volume", nil, errors.ErrCodeMissingField},
		{"list_networks", Params{"filters": "{oops"}, errors.ErrCodeInvalidInput},
		{"list_containers", Params{"all": "sometimes"}, errors.ErrCodeInvalidInput},
		{"wait_container", Params{"id": "abc", "condition": "forever"}, errors.ErrCodeInvalidInput},
		{"resize_container", Params{"id": "abc", "h": 0.0, "w": 80.0}, errors.ErrCodeInvalidInput},
		{"resize_container", Params{"id": "abc", "h": "tall", "w": 80.0}, errors.ErrCodeInvalidInput},
		{"search_images", Params{"term": "nginx", "limit": 500.0}, errors.ErrCodeInvalidInput},
		{"tag_image", Params{"name": "alpine", "repo": "me/alpine", "tag": "v 1"}, errors.ErrCodeInvalidInput},
		{"build_image", Params{"context": "not base64!"}, errors.ErrCodeInvalidInput},
	}

	registry := DefaultRegistry()
	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			op, _ := registry.Lookup(tc.op)
			inv := &recordingInvoker{}
			_, err := op(context.Background(), inv, testConfig(), tc.params)
			if !errors.IsCode(err, tc.want) {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
			if inv.calls() != 0 {
				t.Error("invalid input must not reach the engine")
			}
		})
	}
}

func TestOperations_RejectPathTraversal(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		params Params
	}{
		{"leading slash id", "remove_container", Params{"id": "/../images/busybox", "force": true}},
		{"embedded parent id", "remove_container", Params{"id": "abc/../../images/busybox"}},
		{"parent id", "inspect_container", Params{"id": ".."}},
		{"rename", "rename_container", Params{"id": "abc/../def", "name": "x"}},
		{"exec", "exec_container", Params{"id": "../exec/1", "Cmd": "ls"}},
		{"resize", "resize_container", Params{"id": "a/b", "h": 1.0, "w": 1.0}},
		{"archive download", "copy_from_container", Params{"id": "../../images/x", "path": "/etc"}},
		{"archive upload", "copy_to_container", Params{"id": "x/..", "path": "/tmp", "content": "dGFy"}},
		{"image parent segment", "remove_image", Params{"name": "team/../../containers/abc"}},
		{"image leading slash", "inspect_image", Params{"name": "/busybox"}},
		{"image tag", "tag_image", Params{"name": "../x", "repo": "me/x"}},
		{"volume", "remove_volume", Params{"name": "../containers/abc"}},
		{"network", "remove_network", Params{"id": ".."}},
	}

	registry := DefaultRegistry()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			op, _ := registry.Lookup(tc.op)
			inv := &recordingInvoker{}
			_, err := op(context.Background(), inv, testConfig(), tc.params)
			if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if inv.calls() != 0 {
				t.Errorf("traversal id must not reach the engine, sent %s", inv.last().Endpoint)
			}
		})
	}
}

func TestOperations_EscapeIdentifiers(t *testing.T) {
	registry := DefaultRegistry()
	tests := []struct {
		op       string
		params   Params
		endpoint string
	}{
		{"inspect_container", Params{"id": "a b?"}, "/containers/a%20b%3F/json"},
		{"inspect_volume", Params{"name": "data#1"}, "/volumes/data%231"},
		{"inspect_image", Params{"name": "registry.local:5000/team/app:1.0"}, "/images/registry.local:5000/team/app:1.0/json"},
		{"image_history", Params{"name": "team/app?x"}, "/images/team/app%3Fx/history"},
	}
	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			op, _ := registry.Lookup(tc.op)
			inv := &recordingInvoker{}
			if _, err := op(context.Background(), inv, testConfig(), tc.params); err != nil {
				t.Fatal(err)
			}
			if got := inv.last().Endpoint; got != tc.endpoint {
				t.Errorf("expected %s, got %s", tc.endpoint, got)
			}
		})
	}
}

func TestContainerLogs_AcceptsText(t *testing.T) {
	inv := &recordingInvoker{}
	_, err := containerLogs(context.Background(), inv, testConfig(), Params{"id": "abc", "tail": "100"})
	if err != nil {
		t.Fatal(err)
	}
	spec := inv.last()
	if spec.Headers["Accept"] != "text/plain" {
		t.Errorf("expected text/plain, got %v", spec.Headers)
	}
	want := httpclient.Query{"stdout": 1, "stderr": 0, "tail": "100", "since": nil}
	if !reflect.DeepEqual(spec.Query, want) {
		t.Errorf("unexpected query %#v", spec.Query)
	}
}

func TestSystemEvents_DefaultsUntilToNow(t *testing.T) {
	inv := &recordingInvoker{}
	if _, err := systemEvents(context.Background(), inv, testConfig(), Params{"since": "1700000000"}); err != nil {
		t.Fatal(err)
	}
	q := inv.last().Query
	until, err := strconv.ParseInt(q["until"].(string), 10, 64)
	if err != nil || until < 1700000000 {
		t.Errorf("expected until to be a unix time, got %v", q["until"])
	}
	if q["since"] != "1700000000" {
		t.Errorf("unexpected since %v", q["since"])
	}

	if _, err := systemEvents(context.Background(), inv, testConfig(), Params{"until": "42"}); err != nil {
		t.Fatal(err)
	}
	if inv.last().Query["until"] != "42" {
		t.Errorf("explicit until must be kept, got %v", inv.last().Query["until"])
	}
}

func TestContainerCommit_Defaults(t *testing.T) {
	inv := &recordingInvoker{}
	if _, err := containerCommit(context.Background(), inv, testConfig(), Params{"id": "abc", "repo": "me/app"}); err != nil {
		t.Fatal(err)
	}
	spec := inv.last()
	if spec.Endpoint != "/commit" || spec.Query["container"] != "abc" {
		t.Errorf("unexpected request %+v", spec)
	}
	if spec.Query["tag"] != "latest" || spec.Query["pause"] != 1 {
		t.Errorf("expected tag latest and pause 1, got %v", spec.Query)
	}
}

func TestExecContainer(t *testing.T) {
	inv := &recordingInvoker{outcomes: []*httpclient.Outcome{
		{StatusCode: 201, Data: map[string]any{"Id": "exec-1"}},
		{StatusCode: 200, Data: map[string]any{"result": "hello\n"}},
	}}
	out, err := execContainer(context.Background(), inv, testConfig(), Params{"id": "abc", "Cmd": "echo hello"})
	if err != nil {
		t.Fatal(err)
	}
	if inv.calls() != 2 {
		t.Fatalf("expected create and start, got %d calls", inv.calls())
	}
	create := inv.specs[0]
	if create.Endpoint != "/containers/abc/exec" {
		t.Errorf("unexpected create endpoint %s", create.Endpoint)
	}
	if cmd := create.Body.(map[string]any)["Cmd"]; !reflect.DeepEqual(cmd, []string{"echo hello"}) {
		t.Errorf("expected command wrapped in a list, got %v", cmd)
	}
	if inv.specs[1].Endpoint != "/exec/exec-1/start" {
		t.Errorf("unexpected start endpoint %s", inv.specs[1].Endpoint)
	}
	result := out.(map[string]any)
	if result["exec_id"] != "exec-1" {
		t.Errorf("unexpected result %v", result)
	}
	if result["output"].(map[string]any)["result"] != "hello\n" {
		t.Errorf("unexpected output %v", result["output"])
	}
}

func TestExecContainer_MissingExecID(t *testing.T) {
	inv := &recordingInvoker{outcomes: []*httpclient.Outcome{{StatusCode: 201, Data: map[string]any{}}}}
	_, err := execContainer(context.Background(), inv, testConfig(), Params{"id": "abc", "Cmd": []any{"ls"}})
	if !errors.IsCode(err, errors.ErrCodeRequestFailed) {
		t.Errorf("expected REQUEST_FAILED, got %v", err)
	}
	if inv.calls() != 1 {
		t.Errorf("start must not be called, got %d calls", inv.calls())
	}
}

func TestExecContainer_MalformedExecID(t *testing.T) {
	inv := &recordingInvoker{outcomes: []*httpclient.Outcome{{StatusCode: 201, Data: map[string]any{"Id": "../containers/abc"}}}}
	_, err := execContainer(context.Background(), inv, testConfig(), Params{"id": "abc", "Cmd": "ls"})
	if !errors.IsCode(err, errors.ErrCodeRequestFailed) {
		t.Errorf("expected REQUEST_FAILED, got %v", err)
	}
	if inv.calls() != 1 {
		t.Errorf("start must not be called, got %d calls", inv.calls())
	}
}

func TestRegistryAuthenticatedOperations(t *testing.T) {
	archive := base64.StdEncoding.EncodeToString([]byte("tar"))
	for _, tc := range []struct {
		op     string
		params Params
	}{
		{"pull_image", Params{"fromImage": "alpine", "tag": "3"}},
		{"push_image", Params{"name": "me/app", "tag": "1.0"}},
		{"build_image", Params{"context": archive, "t": "me/app:1.0"}},
	} {
		op, _ := DefaultRegistry().Lookup(tc.op)
		inv := &recordingInvoker{}
		if _, err := op(context.Background(), inv, testConfig(), tc.params); err != nil {
			t.Fatalf("%s: %v", tc.op, err)
		}
		if !inv.last().UseRegistryAuth {
			t.Errorf("%s must request registry auth", tc.op)
		}
	}
}

func TestArchiveUploads(t *testing.T) {
	archive := base64.StdEncoding.EncodeToString([]byte("tar-bytes"))
	for _, tc := range []struct {
		op       string
		params   Params
		endpoint string
		method   string
	}{
		{"copy_to_container", Params{"id": "abc", "path": "/tmp", "content": archive}, "/containers/abc/archive", http.MethodPut},
		{"build_image", Params{"context": archive}, "/build", http.MethodPost},
		{"load_image", Params{"content": archive}, "/images/load", http.MethodPost},
	} {
		op, _ := DefaultRegistry().Lookup(tc.op)
		inv := &recordingInvoker{}
		if _, err := op(context.Background(), inv, testConfig(), tc.params); err != nil {
			t.Fatalf("%s: %v", tc.op, err)
		}
		spec := inv.last()
		if spec.Method != tc.method || spec.Endpoint != tc.endpoint {
			t.Errorf("%s: unexpected request %s %s", tc.op, spec.Method, spec.Endpoint)
		}
		if string(spec.RawBody) != "tar-bytes" || spec.Body != nil {
			t.Errorf("%s: expected decoded raw body, got %q", tc.op, spec.RawBody)
		}
		if spec.Headers["Content-Type"] != "application/x-tar" {
			t.Errorf("%s: expected tar content type, got %v", tc.op, spec.Headers)
		}
	}
}

func TestArchiveDownloads(t *testing.T) {
	inv := &recordingInvoker{outcomes: []*httpclient.Outcome{
		{StatusCode: 200, Body: []byte("tar-1")},
		{StatusCode: 200, Body: []byte("tar-2")},
		{StatusCode: 200, Body: []byte("tar-3")},
	}}
	ctx := context.Background()

	out, err := copyFromContainer(ctx, inv, testConfig(), Params{"id": "abc", "path": "/etc/hosts"})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.(map[string]any); got["content"] != base64.StdEncoding.EncodeToString([]byte("tar-1")) || got["path"] != "/etc/hosts" {
		t.Errorf("unexpected copy result %v", got)
	}
	if q := inv.last().Query; q["path"] != "/etc/hosts" {
		t.Errorf("unexpected query %v", q)
	}

	if _, err := containerExport(ctx, inv, testConfig(), Params{"id": "abc"}); err != nil {
		t.Fatal(err)
	}
	if inv.last().Headers["Accept"] != "application/octet-stream" {
		t.Errorf("expected octet-stream accept, got %v", inv.last().Headers)
	}

	out, err = saveImage(ctx, inv, testConfig(), Params{"names": []any{"alpine", "busybox"}})
	if err != nil {
		t.Fatal(err)
	}
	if names := inv.last().Query["names"]; !reflect.DeepEqual(names, httpclient.Multi{"alpine", "busybox"}) {
		t.Errorf("expected repeated names, got %#v", names)
	}
	if out.(map[string]any)["size"] != 5 {
		t.Errorf("unexpected size %v", out)
	}
}

func TestAttachContainer_Defaults(t *testing.T) {
	inv := &recordingInvoker{}
	if _, err := attachContainer(context.Background(), inv, testConfig(), Params{"id": "abc", "timeout": 3.0}); err != nil {
		t.Fatal(err)
	}
	spec := inv.last()
	want := httpclient.Query{"stream": 0, "logs": 1, "stdout": 1, "stderr": 1}
	if !reflect.DeepEqual(spec.Query, want) {
		t.Errorf("unexpected query %#v", spec.Query)
	}
	if spec.Timeout.Seconds() != 3 {
		t.Errorf("expected 3s timeout, got %v", spec.Timeout)
	}
}

func TestOperations_PropagateInvokerErrors(t *testing.T) {
	inv := &recordingInvoker{err: errors.NotFound("/containers/abc/json")}
	_, err := inspectContainer(context.Background(), inv, testConfig(), Params{"id": "abc"})
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
