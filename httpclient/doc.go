// Package httpclient is the request core of the engine connector. It turns a
// RequestSpec into an authenticated, rate-limited, retried HTTP call against
// a container engine's REST API and classifies the result.
//
// Every call resolves URL, credentials and TLS from the ConnectionConfig it is
// given; the only state shared across calls is the sliding-window limiter.
//
//	client := httpclient.New(httpclient.WithLogger(log))
//	out, err := client.Invoke(ctx, cfg, httpclient.RequestSpec{
//	    Method:   http.MethodGet,
//	    Endpoint: "/containers/json",
//	    Query:    httpclient.Query{"all": true, "filters": map[string][]string{"status": {"running"}}},
//	})
//
// Retry policy per physical attempt:
//   - status below 400: success, stop
//   - 4xx: terminal, classified without retry
//   - 5xx: retried while attempts remain, the last one is classified
//   - timeout or connection failure: retried, then TIMEOUT or CONNECTION_FAILED
package httpclient
