package operations

import (
	"context"

	"github.com/kbukum/engineconnector/httpclient"
)

func listVolumes(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get("/volumes", httpclient.Query{"filters": filters}))
}

func inspectVolume(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	name, err := requireSegment(params, "name")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get(path("/volumes", name), nil))
}

func createVolume(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.ObjectName("Name"); err != nil {
		return nil, err
	}
	body := make(map[string]any)
	for _, key := range []string{"Name", "Driver", "DriverOpts", "Labels"} {
		if !isBlank(params.Value(key)) {
			body[key] = params.Value(key)
		}
	}
	return call(ctx, inv, cfg, post("/volumes/create", nil, body))
}

func removeVolume(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	name, err := requireSegment(params, "name")
	if err != nil {
		return nil, err
	}
	force, err := params.Flag("force", false)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, del(path("/volumes", name), httpclient.Query{"force": force}))
}

func pruneVolumes(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post("/volumes/prune", httpclient.Query{"filters": filters}, nil))
}
