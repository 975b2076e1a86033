package operations

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/validation"
)

// Invoker performs one logical engine API call. *httpclient.Client implements it.
type Invoker interface {
	Invoke(ctx context.Context, cfg httpclient.ConnectionConfig, spec httpclient.RequestSpec) (*httpclient.Outcome, error)
}

// Operation is one named engine operation.
type Operation func(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, params Params) (any, error)

const (
	mimeTar         = "application/x-tar"
	mimeOctetStream = "application/octet-stream"
	mimeText        = "text/plain"
)

// call invokes spec and returns the decoded body.
func call(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, spec httpclient.RequestSpec) (any, error) {
	out, err := inv.Invoke(ctx, cfg, spec)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// callBinary invokes spec and returns the raw body base64-encoded under
// "content", for endpoints that answer with a tar archive.
func callBinary(ctx context.Context, inv Invoker, cfg httpclient.ConnectionConfig, spec httpclient.RequestSpec) (map[string]any, error) {
	out, err := inv.Invoke(ctx, cfg, spec)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"content": base64.StdEncoding.EncodeToString(out.Body),
		"size":    len(out.Body),
	}, nil
}

func get(endpoint string, query httpclient.Query) httpclient.RequestSpec {
	return httpclient.RequestSpec{Method: http.MethodGet, Endpoint: endpoint, Query: query}
}

func post(endpoint string, query httpclient.Query, body any) httpclient.RequestSpec {
	return httpclient.RequestSpec{Method: http.MethodPost, Endpoint: endpoint, Query: query, Body: body}
}

func del(endpoint string, query httpclient.Query) httpclient.RequestSpec {
	return httpclient.RequestSpec{Method: http.MethodDelete, Endpoint: endpoint, Query: query}
}

// path builds base/<id><suffix>. The id is escaped in full, so a '/' in it
// stays inside the segment; suffix is a literal route such as "/json".
func path(base, id string, suffix ...string) string {
	return base + "/" + url.PathEscape(id) + strings.Join(suffix, "")
}

// imagePath is path for image references, which keep their '/' separators.
// Each separated segment is escaped on its own.
func imagePath(base, ref string, suffix ...string) string {
	segments := strings.Split(ref, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(segments, "/") + strings.Join(suffix, "")
}

// requireID returns the id parameter of operations keyed on one object,
// after checking that id and every extra key are present.
func requireID(params Params, extra ...string) (string, error) {
	return requireSegment(params, "id", extra...)
}

// requireSegment returns params[key] once it is known to be a single path
// segment.
func requireSegment(params Params, key string, extra ...string) (string, error) {
	if err := params.Require(append([]string{key}, extra...)...); err != nil {
		return "", err
	}
	value := params.String(key)
	if err := validation.New().PathSegment(key, value).Validate(); err != nil {
		return "", err
	}
	return value, nil
}

// requireImage returns the name parameter of image operations.
func requireImage(params Params, extra ...string) (string, error) {
	if err := params.Require(append([]string{"name"}, extra...)...); err != nil {
		return "", err
	}
	ref := params.String("name")
	if err := validation.New().ImageReference("name", ref).Validate(); err != nil {
		return "", err
	}
	return ref, nil
}
