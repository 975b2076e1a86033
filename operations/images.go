package operations

import (
	"context"
	"net/http"

	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/validation"
)

func listImages(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	query := httpclient.Query{"filters": filters}
	if params.Has("all") {
		all, err := params.Flag("all", false)
		if err != nil {
			return nil, err
		}
		query["all"] = all
	}
	return call(ctx, inv, cfg, get("/images/json", query))
}

func pullImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("fromImage"); err != nil {
		return nil, err
	}
	spec := post("/images/create", httpclient.Query{
		"fromImage": params.String("fromImage"),
		"tag":       params.Value("tag"),
		"platform":  params.Value("platform"),
	}, nil)
	spec.Headers = map[string]string{"Accept": "application/json"}
	spec.UseRegistryAuth = true
	spec.Timeout = timeoutParam(params)
	return call(ctx, inv, cfg, spec)
}

func inspectImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	ref, err := requireImage(params)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get(imagePath("/images", ref, "/json"), nil))
}

func removeImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	ref, err := requireImage(params)
	if err != nil {
		return nil, err
	}
	force, err := params.Flag("force", false)
	if err != nil {
		return nil, err
	}
	noprune, err := params.Flag("noprune", false)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, del(imagePath("/images", ref), httpclient.Query{
		"force":   force,
		"noprune": noprune,
	}))
}

func tagImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	ref, err := requireImage(params, "repo")
	if err != nil {
		return nil, err
	}
	err = validation.New().
		NoWhitespace("repo", params.String("repo")).
		NoWhitespace("tag", params.String("tag")).
		Validate()
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post(imagePath("/images", ref, "/tag"), httpclient.Query{
		"repo": params.String("repo"),
		"tag":  params.Value("tag"),
	}, nil))
}

func pruneImages(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, post("/images/prune", httpclient.Query{"filters": filters}, nil))
}

// buildImage builds from a base64-encoded tar build context.
func buildImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("context"); err != nil {
		return nil, err
	}
	archive, err := params.Bytes("context")
	if err != nil {
		return nil, err
	}
	nocache, err := params.Bool("nocache", false)
	if err != nil {
		return nil, err
	}
	query := httpclient.Query{
		"t":          params.Value("t"),
		"dockerfile": params.Value("dockerfile"),
		"buildargs":  params.Value("buildargs"),
		"labels":     params.Value("labels"),
	}
	if nocache {
		query["nocache"] = "true"
	}
	return call(ctx, inv, cfg, httpclient.RequestSpec{
		Method:          http.MethodPost,
		Endpoint:        "/build",
		Query:           query,
		RawBody:         archive,
		Headers:         map[string]string{"Content-Type": mimeTar},
		Timeout:         timeoutParam(params),
		UseRegistryAuth: true,
	})
}

func searchImages(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("term"); err != nil {
		return nil, err
	}
	if err := validation.New().IntRange("limit", params.String("limit"), 1, 100).Validate(); err != nil {
		return nil, err
	}
	filters, err := params.JSON("filters")
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get("/images/search", httpclient.Query{
		"term":    params.String("term"),
		"limit":   params.Value("limit"),
		"filters": filters,
	}))
}

func imageHistory(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	ref, err := requireImage(params)
	if err != nil {
		return nil, err
	}
	return call(ctx, inv, cfg, get(imagePath("/images", ref, "/history"), nil))
}

func pushImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	ref, err := requireImage(params)
	if err != nil {
		return nil, err
	}
	spec := post(imagePath("/images", ref, "/push"), httpclient.Query{"tag": params.Value("tag")}, nil)
	spec.UseRegistryAuth = true
	spec.Timeout = timeoutParam(params)
	return call(ctx, inv, cfg, spec)
}

// loadImage imports images from a base64-encoded tar archive.
func loadImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("content"); err != nil {
		return nil, err
	}
	archive, err := params.Bytes("content")
	if err != nil {
		return nil, err
	}
	quiet, err := params.Bool("quiet", false)
	if err != nil {
		return nil, err
	}
	query := httpclient.Query{}
	if quiet {
		query["quiet"] = "true"
	}
	return call(ctx, inv, cfg, httpclient.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/images/load",
		Query:    query,
		RawBody:  archive,
		Headers:  map[string]string{"Content-Type": mimeTar},
		Timeout:  timeoutParam(params),
	})
}

// saveImage exports one or more images as a base64-encoded tar archive.
func saveImage(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error) {
	if err := params.Require("names"); err != nil {
		return nil, err
	}
	names, err := params.Strings("names")
	if err != nil {
		return nil, err
	}
	spec := get("/images/get", httpclient.Query{"names": httpclient.Multi(names)})
	spec.Headers = map[string]string{"Accept": mimeTar}
	spec.Timeout = timeoutParam(params)
	out, err := callBinary(ctx, inv, cfg, spec)
	if err != nil {
		return nil, err
	}
	out["names"] = names
	return out, nil
}
