package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/httpclient"
	"github.com/kbukum/engineconnector/logger"
	"github.com/kbukum/engineconnector/observability"
	"github.com/kbukum/engineconnector/operations"
	"github.com/kbukum/engineconnector/provider"
)

// Gateway routes.
const (
	PathOperations = "/v1/operations"
	PathOperation  = "/v1/operations/:name"
	PathCheck      = "/v1/health"
)

// Backend is the connector as seen by the gateway.
type Backend interface {
	provider.RequestResponse[operations.Invocation, any]
	Operations() []string
	CheckHealth(ctx context.Context, raw map[string]any) operations.HealthReport
}

// GatewayRequest is the body of POST /v1/operations/:name. Config keys are
// laid over the gateway's default connection map, so a deployment can pin
// the daemon address and callers only send params.
type GatewayRequest struct {
	Operation string            `json:"-"`
	Config    map[string]any    `json:"config,omitempty"`
	Params    operations.Params `json:"params,omitempty"`
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	// ServiceName labels spans and metrics.
	ServiceName string
	// Defaults is the connection map every request starts from.
	Defaults map[string]any
	// Metrics records per-operation counters. Nil disables them.
	Metrics *observability.Metrics
	Log     *logger.Logger
}

// Gateway exposes a Backend over HTTP.
type Gateway struct {
	backend  Backend
	exec     provider.RequestResponse[GatewayRequest, any]
	defaults map[string]any
	log      *logger.Logger
}

// NewGateway wraps backend with tracing, metrics and logging and adapts it
// to gateway requests.
func NewGateway(backend Backend, opts GatewayOptions) *Gateway {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = backend.Name()
	}
	g := &Gateway{
		backend:  backend,
		defaults: opts.Defaults,
		log:      opts.Log.WithComponent("gateway"),
	}

	wrapped := provider.Chain(
		provider.WithTracing[operations.Invocation, any](opts.ServiceName),
		provider.WithMetrics[operations.Invocation, any](opts.Metrics),
		provider.WithLogging[operations.Invocation, any](g.log),
	)(backend)

	g.exec = provider.Adapt[GatewayRequest, any](wrapped, "", g.toInvocation, nil)
	return g
}

// Register mounts the gateway routes on r.
func (g *Gateway) Register(r gin.IRouter) {
	r.GET(PathOperations, g.listOperations)
	r.POST(PathOperation, g.invoke)
	r.POST(PathCheck, g.checkHealth)
}

// Execute runs one gateway request through the wrapped connector.
func (g *Gateway) Execute(ctx context.Context, req GatewayRequest) (any, error) {
	return g.exec.Execute(ctx, req)
}

func (g *Gateway) toInvocation(_ context.Context, req GatewayRequest) (operations.Invocation, error) {
	cfg, err := httpclient.ConnectionConfigFromMap(g.connectionMap(req.Config))
	if err != nil {
		return operations.Invocation{}, err
	}
	return operations.Invocation{
		Operation: req.Operation,
		Config:    cfg,
		Params:    req.Params,
	}, nil
}

// connectionMap lays override over the defaults. Keys are matched
// case-insensitively, the override wins.
func (g *Gateway) connectionMap(override map[string]any) map[string]any {
	merged := make(map[string]any, len(g.defaults)+len(override))
	for k, v := range g.defaults {
		merged[strings.ToLower(k)] = v
	}
	for k, v := range override {
		merged[strings.ToLower(k)] = v
	}
	return merged
}

func (g *Gateway) listOperations(c *gin.Context) {
	names := g.backend.Operations()
	RespondOK(c, gin.H{"operations": names, "count": len(names)})
}

func (g *Gateway) invoke(c *gin.Context) {
	var req GatewayRequest
	if err := decodeBody(c.Request, &req); err != nil {
		RespondWithError(c, err)
		return
	}
	req.Operation = c.Param("name")

	out, err := g.Execute(c.Request.Context(), req)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, out)
}

func (g *Gateway) checkHealth(c *gin.Context) {
	var req GatewayRequest
	if err := decodeBody(c.Request, &req); err != nil {
		RespondWithError(c, err)
		return
	}
	raw := g.connectionMap(req.Config)
	if len(req.Config) == 0 && len(g.defaults) == 0 {
		raw = nil
	}
	RespondOK(c, g.backend.CheckHealth(c.Request.Context(), raw))
}

// decodeBody reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge).
				WithDetail("limit", tooLarge.Limit)
		}
		return errors.InvalidInput("body", err.Error())
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.InvalidInput("body", "request body is not valid JSON: "+err.Error())
	}
	return nil
}
