package operations

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/engineconnector/httpclient"
)

const defaultRegistryServer = "https://index.docker.io/v1/"

func getVersion(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, _ Params) (any, error) {
	return call(ctx, inv, cfg, get("/version", nil))
}

func getInfo(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, _ Params) (any, error) {
	return call(ctx, inv, cfg, get("/info", nil))
}

func systemDF(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, _ Params) (any, error) {
	return call(ctx, inv, cfg, get("/system/df", nil))
}

// systemEvents returns a snapshot of past events. Without until the snapshot
// ends now, since an open-ended request would stream forever.
func systemEvents(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	until := params.String("until")
	if until == "" {
		until = strconv.FormatInt(time.Now().Unix(), 10)
	}
	return call(ctx, inv, cfg, get("/events", httpclient.Query{
		"filters": filters,
		"since":   params.Value("since"),
		"until":   until,
	}))
}

func systemPrune(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post("/system/prune", httpclient.Query{"filters": filters}, nil))
}

func ping(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, _ Params) (any, error) {
	return call(ctx, inv, cfg, get("/_ping", nil))
}

func registryLogin(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("username", "password"); err != nil {
		return nil, err
	}
	server := params.String("serveraddress")
	if server == "" {
		server = defaultRegistryServer
	}
	return call(ctx, inv, cfg, post("/auth", nil, map[string]any{
		"username":      params.String("username"),
		"password":      params.String("password"),
		"serveraddress": server,
	}))
}
