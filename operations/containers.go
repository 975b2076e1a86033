package operations

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/validation"
)

func listContainers(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	all, err := params.Flag("all", false)
	if err != nil {
		return nil, err
	}
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get("/containers/json", httpclient.Query{
		"all":     all,
		"limit":   params.Value("limit"),
		"filters": filters,
	}))
}

func inspectContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get(path("/containers", id, "/json"), nil))
}

// containerAction returns an operation posting to /containers/{id}/<action>,
// passing the listed parameters through as query values.
func containerAction(action string, queryKeys ...string) Operation {
	return func(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
		id, err := requireID(params)
		if err != nil {
			return nil, err
		}
		var query httpclient.Query
		if len(queryKeys) > 0 {
			query = httpclient.Query{}
			for _, key := range queryKeys {
				query[key] = params.Value(key)
			}
		}
		return call(ctx, inv, cfg, post(path("/containers", id, "/"+action), query, nil))
	}
}

func removeContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	force, err := params.Flag("force", false)
	if err != nil {
		return nil, err
	}
	volumes, err := params.Flag("v", false)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, del(path("/containers", id), httpclient.Query{"force": force, "v": volumes}))
}

func createContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("image"); err != nil {
		return nil, err
	}
	hostConfig, err := params.JSON("HostConfig")
	if err != nil {
		return nil, err
	}
	body := params.pick("Cmd", "Env", "Labels", "ExposedPorts", "WorkingDir", "Entrypoint")
	body["Image"] = params.String("image")
	if hostConfig != nil {
		body["HostConfig"] = hostConfig
	}
	var query httpclient.Query
	if name := params.String("name"); name != "" {
		query = httpclient.Query{"name": name}
	}
	return call(ctx, inv, cfg, post("/containers/create", query, body))
}

func containerLogs(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	stdout, err := params.Flag("stdout", true)
	if err != nil {
		return nil, err
	}
	stderr, err := params.Flag("stderr", false)
	if err != nil {
		return nil, err
	}
	spec := get(path("/containers", id, "/logs"), httpclient.Query{
		"stdout": stdout,
		"stderr": stderr,
		"tail":   params.Value("tail"),
		"since":  params.Value("since"),
	})
	spec.Headers = map[string]string{"Accept": mimeText}
	return call(ctx, inv, cfg, spec)
}

func renameContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params, "name")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post(path("/containers", id, "/rename"),
		httpclient.Query{"name": params.String("name")}, nil))
}

func pruneContainers(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post("/containers/prune", httpclient.Query{"filters": filters}, nil))
}

// execContainer creates an exec instance running Cmd and starts it attached.
// The result carries the exec id and the captured output.
func execContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params, "Cmd")
	if err != nil {
		return nil, err
	}
	cmd, err := params.Strings("Cmd")
	if err != nil {
		return nil, err
	}

	created, err := inv.Invoke(ctx, cfg, post(path("/containers", id, "/exec"), nil, map[string]any{
		"AttachStdout": true,
		"AttachStderr": true,
		"Cmd":          cmd,
	}))
	if err != nil {
		return nil, err
	}
	execID, _ := created.Map()["Id"].(string)
	if execID == "" {
		return nil, errors.New(errors.ErrCodeRequestFailed, "Failed to create exec: missing Id", http.StatusBadGateway)
	}
	if validation.New().PathSegment("Id", execID).Failed() {
		return nil, errors.New(errors.ErrCodeRequestFailed, "Failed to create exec: malformed Id "+execID, http.StatusBadGateway)
	}

	output, err := call(ctx, inv, cfg, post(path("/exec", execID, "/start"), nil, map[string]any{
		"Detach": false,
		"Tty":    false,
	}))
	if err != nil {
		return nil, err
	}
	return map[string]any{"exec_id": execID, "output": output}, nil
}

func containerStats(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	stream, err := params.Flag("stream", false)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get(path("/containers", id, "/stats"), httpclient.Query{"stream": stream}))
}

func containerExport(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	spec := get(path("/containers", id, "/export"), nil)
	spec.Headers = map[string]string{"Accept": mimeOctetStream}
	spec.Timeout = timeoutParam(params)
	return callBinary(ctx, inv, cfg, spec)
}

func containerCommit(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	pause, err := params.Flag("pause", true)
	if err != nil {
		return nil, err
	}
	tag := params.String("tag")
	if tag == "" {
		tag = "latest"
	}
	return call(ctx, inv, cfg, post("/commit", httpclient.Query{
		"container": id,
		"repo":      params.Value("repo"),
		"tag":       tag,
		"comment":   params.Value("comment"),
		"author":    params.Value("author"),
		"changes":   params.Value("changes"),
		"pause":     pause,
	}, nil))
}

func updateContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	body := params.pick("Memory", "CpuShares", "CpuQuota", "CpuPeriod", "RestartPolicy")
	return call(ctx, inv, cfg, post(path("/containers", id, "/update"), nil, body))
}

// waitConditions are the states wait_container can wait for.
var waitConditions = []string{"not-running", "next-exit", "removed"}

// waitContainer blocks until the container reaches condition. A timeout
// parameter, in seconds, overrides the configured per-attempt timeout.
func waitContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	if err := validation.New().OneOf("condition", params.String("condition"), waitConditions...).Validate(); err != nil {
		return nil, err
	}
	spec := post(path("/containers", id, "/wait"), httpclient.Query{"condition": params.Value("condition")}, nil)
	spec.Timeout = timeoutParam(params)
	return call(ctx, inv, cfg, spec)
}

// attachContainer returns buffered output. With stream unset only the logs
// already produced are returned.
func attachContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params)
	if err != nil {
		return nil, err
	}
	query := httpclient.Query{}
	for key, def := range map[string]bool{"stream": false, "logs": true, "stdout": true, "stderr": true} {
		flag, err := params.Flag(key, def)
		if err != nil {
			return nil, err
		}
		query[key] = flag
	}
	spec := post(path("/containers", id, "/attach"), query, nil)
	spec.Timeout = timeoutParam(params)
	return call(ctx, inv, cfg, spec)
}

func resizeContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params, "h", "w")
	if err != nil {
		return nil, err
	}
	err = validation.New().
		IntRange("h", params.String("h"), 1, 0).
		IntRange("w", params.String("w"), 1, 0).
		Validate()
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post(path("/containers", id, "/resize"), httpclient.Query{
		"h": params.String("h"),
		"w": params.String("w"),
	}, nil))
}

// copyFromContainer returns a tar archive of path inside the container.
func copyFromContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params, "path")
	if err != nil {
		return nil, err
	}
	spec := get(path("/containers", id, "/archive"), httpclient.Query{"path": params.String("path")})
	spec.Headers = map[string]string{"Accept": mimeTar}
	spec.Timeout = timeoutParam(params)
	out, err := callBinary(ctx, inv, cfg, spec)
	if err != nil {
		return nil, err
	}
	out["path"] = params.String("path")
	return out, nil
}

// copyToContainer extracts a base64-encoded tar archive into path.
func copyToContainer(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := requireID(params, "path", "content")
	if err != nil {
		return nil, err
	}
	archive, err := params.Bytes("content")
	if err != nil {
		return nil, err
	}
	noOverwrite, err := params.Bool("noOverwriteDirNonDir", false)
	if err != nil {
		return nil, err
	}
	query := httpclient.Query{"path": params.String("path")}
	if noOverwrite {
		query["noOverwriteDirNonDir"] = "true"
	}
	return call(ctx, inv, cfg, httpclient.RequestSpec{
		Method:   http.MethodPut,
		Endpoint: path("/containers", id, "/archive"),
		Query:    query,
		RawBody:  archive,
		Headers:  map[string]string{"Content-Type": mimeTar},
		Timeout:  timeoutParam(params),
	})
}

// timeoutParam reads the optional timeout parameter, in seconds.
func timeoutParam(params Params) time.Duration {
	switch v := params.Value("timeout").(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int:
		return time.Duration(v) * time.Second
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 0
}
