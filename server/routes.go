package server

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/server/endpoint"
)

// System routes.
const (
	PathLive    = "/livez"
	PathReady   = "/readyz"
	PathHealth  = "/health"
	PathVersion = "/version"
	PathMetrics = "/metrics"
)

var systemPaths = map[string]bool{
	PathLive:    true,
	PathReady:   true,
	PathHealth:  true,
	PathVersion: true,
	PathMetrics: true,
}

// RegisterDefaultEndpoints registers the probe, health and version endpoints,
// and /metrics when a scrape handler is given.
func (s *Server) RegisterDefaultEndpoints(serviceName, version string, checker endpoint.HealthChecker, metrics http.Handler) {
	s.engine.GET(PathLive, endpoint.Liveness(serviceName))
	s.engine.GET(PathReady, endpoint.Readiness(serviceName, checker))
	s.engine.GET(PathHealth, endpoint.Health(serviceName, version, checker))
	s.engine.GET(PathVersion, endpoint.Version(serviceName))
	if metrics != nil {
		s.engine.GET(PathMetrics, gin.WrapH(metrics))
	}
}

// methodRank orders methods within a path; unknown methods sort last.
var methodRank = map[string]int{
	http.MethodGet:    1,
	http.MethodPost:   2,
	http.MethodPut:    3,
	http.MethodPatch:  4,
	http.MethodDelete: 5,
}

func rank(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank) + 1
}

// sortRoutes puts API routes before system routes, then orders by path and method.
func sortRoutes(routes gin.RoutesInfo) {
	slices.SortFunc(routes, func(a, b gin.RouteInfo) int {
		if sa, sb := systemPaths[a.Path], systemPaths[b.Path]; sa != sb {
			if sa {
				return 1
			}
			return -1
		}
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(rank(a.Method), rank(b.Method)))
	})
}

// formatHandlerName shortens gin's handler path for the route log:
// "github.com/x/server.(*Gateway).invoke-fm" becomes "Gateway.invoke" and
// "endpoint.Liveness.func1" becomes "liveness".
func formatHandlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	name = name[strings.LastIndex(name, "/")+1:]
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for _, p := range slices.Backward(parts) {
			if !strings.HasPrefix(p, "func") {
				return strings.ToLower(p)
			}
		}
	}
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		return rest
	}
	return name
}
