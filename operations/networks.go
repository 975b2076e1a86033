package operations

import (
	"context"

	"github.com/kbukum/engineconnector/httpclient"
)

func listNetworks(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get("/networks", httpclient.Query{"filters": filters}))
}

// networkID returns the required id parameter after checking it is a valid
// network name or id.
func networkID(params Params, extra ...string) (string, error) {
	if err := params.Require(append([]string{"id"}, extra...)...); err != nil {
		return "", err
	}
	if err := params.ObjectName("id"); err != nil {
		return "", err
	}
	return params.String("id"), nil
}

func inspectNetwork(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := networkID(params)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get(path("/networks", id), nil))
}

func createNetwork(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("Name"); err != nil {
		return nil, err
	}
	if err := params.ObjectName("Name"); err != nil {
		return nil, err
	}
	options, err := params.JSON("Options")
	if err != nil {
		return nil, err
	}
	ipam, err := params.JSON("IPAM")
	if err != nil {
		return nil, err
	}

	body := params.pick("Driver", "Internal", "Attachable", "Labels")
	body["Name"] = params.String("Name")
	if options != nil {
		body["Options"] = options
	}
	if ipam != nil {
		body["IPAM"] = ipam
	}
	return call(ctx, inv, cfg, post("/networks/create", nil, body))
}

func connectNetwork(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := networkID(params, "Container")
	if err != nil {
		return nil, err
	}
	endpointConfig, err := params.JSON("EndpointConfig")
	if err != nil {
		return nil, err
	}
	body := map[string]any{"Container": params.String("Container")}
	if endpointConfig != nil {
		body["EndpointConfig"] = endpointConfig
	}
	return call(ctx, inv, cfg, post(path("/networks", id, "/connect"), nil, body))
}

func disconnectNetwork(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := networkID(params, "Container")
	if err != nil {
		return nil, err
	}
	force, err := params.Bool("Force", false)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"Container": params.String("Container")}
	if force {
		body["Force"] = true
	}
	return call(ctx, inv, cfg, post(path("/networks", id, "/disconnect"), nil, body))
}

func removeNetwork(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	id, err := networkID(params)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, del(path("/networks", id), nil))
}

func pruneNetworks(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post("/networks/prune", httpclient.Query{"filters": filters}, nil))
}
