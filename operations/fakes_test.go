package operations

import (
	"context"
	"sync"

	"github.com/kbukum/engineconnector/httpclient"
)

// recordingInvoker records every request and answers from a queue of outcomes.
type recordingInvoker struct {
	mu       sync.Mutex
	specs    []httpclient.RequestSpec
	outcomes []*httpclient.Outcome
	err      error
}

func (r *recordingInvoker) Invoke(_ context.Context, _ httpclient.ConnectionConfig, spec httpclient.RequestSpec) (*httpclient.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = append(r.specs, spec)
	if r.err != nil {
		return nil, r.err
	}
	if len(r.outcomes) == 0 {
		return &httpclient.Outcome{StatusCode: 200, Data: map[string]any{}}, nil
	}
	out := r.outcomes[0]
	r.outcomes = r.outcomes[1:]
	return out, nil
}

func (r *recordingInvoker) last() httpclient.RequestSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.specs[len(r.specs)-1]
}

func (r *recordingInvoker) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.specs)
}

func testConfig() httpclient.ConnectionConfig {
	cfg := httpclient.DefaultConnectionConfig()
	cfg.ServerAddress = "engine.local"
	return cfg
}
