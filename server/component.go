package server

import (
	"context"
	"fmt"

	"github.com/kbukum/engineconnector/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*ServerComponent)(nil)
	_ component.Describable   = (*ServerComponent)(nil)
	_ component.RouteProvider = (*ServerComponent)(nil)
)

// ServerComponent registers a Server with the lifecycle registry.
type ServerComponent struct {
	*Server
}

func NewComponent(s *Server) *ServerComponent { return &ServerComponent{Server: s} }

func (sc *ServerComponent) Name() string { return componentName }

// Health is unhealthy until Start has bound the listener.
func (sc *ServerComponent) Health(context.Context) component.Health {
	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	if !sc.Running() {
		h.Status = component.StatusUnhealthy
		h.Message = "HTTP server not listening"
	}
	return h
}

func (sc *ServerComponent) Describe() component.Description {
	auth := "off"
	if n := len(sc.config.APIKeys); n > 0 {
		auth = fmt.Sprintf("%d keys", n)
	}
	limit := "off"
	if rpm := sc.config.RequestsPerMinute; rpm > 0 {
		limit = fmt.Sprintf("%d/min", rpm)
	}
	return component.Description{
		Name:    "HTTP Gateway",
		Type:    "server",
		Details: fmt.Sprintf("%s auth=%s rate_limit=%s", sc.Addr(), auth, limit),
		Port:    sc.config.Port,
	}
}

// Routes lists the gin routes, API routes first.
func (sc *ServerComponent) Routes() []component.Route {
	infos := sc.engine.Routes()
	sortRoutes(infos)
	routes := make([]component.Route, len(infos))
	for i, r := range infos {
		routes[i] = component.Route{Method: r.Method, Path: r.Path, Handler: formatHandlerName(r.Handler)}
	}
	return routes
}
