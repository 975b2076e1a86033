package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/logger"
	"github.com/kbukum/engineconnector/resilience"
	"github.com/kbukum/engineconnector/security"
)

// Client issues engine API calls. It owns no per-connection state: URL,
// credentials and TLS are derived from the ConnectionConfig of every call.
// The only state shared between calls is the rate limiter.
type Client struct {
	limiter *resilience.SlidingWindowLimiter
	log     *logger.Logger
	sleep   resilience.SleepFunc
}

// Option configures a Client.
type Option func(*Client)

// WithLimiter shares limiter with other clients so they draw from one budget.
func WithLimiter(limiter *resilience.SlidingWindowLimiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithSleeper replaces the pause between attempts.
func WithSleeper(sleep resilience.SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New creates a client. Without WithLimiter it gets a limiter of its own.
func New(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.limiter == nil {
		c.limiter = resilience.NewSlidingWindowLimiter(resilience.WithWaitHook(func(wait time.Duration, inWindow int) {
			c.log.Info("rate limit reached, waiting", logger.Fields(logger.FieldWait, wait.Milliseconds(), "in_window", inWindow))
		}))
	}
	if c.sleep == nil {
		c.sleep = resilience.SleepContext
	}
	return c
}

// Limiter returns the limiter the client admits calls through.
func (c *Client) Limiter() *resilience.SlidingWindowLimiter {
	return c.limiter
}

// prepared is everything derived from configuration before the first attempt.
type prepared struct {
	method   string
	endpoint string
	url      string
	headers  map[string]string
	basic    *BasicCredentials
	payload  []byte
	timeout  time.Duration
	client   *http.Client
}

// Invoke performs one logical call: it resolves the request from cfg, waits
// for rate-limit admission and runs the attempt loop. Responses below 400
// succeed at once, 4xx ends the loop, 5xx and transport failures are retried
// while attempts remain. The final response is classified.
func (c *Client) Invoke(ctx context.Context, cfg ConnectionConfig, spec RequestSpec) (*Outcome, error) {
	log := c.log.WithContext(ctx)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := c.prepare(cfg, spec, log)
	if err != nil {
		return nil, err
	}
	defer p.client.CloseIdleConnections()

	if err := c.limiter.Wait(ctx, cfg.RequestsPerMinute()); err != nil {
		return nil, err
	}

	maxAttempts := cfg.RetryAttempts
	resp, err := resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts: maxAttempts,
		Delay:       cfg.RetryDelay,
		Sleep:       c.sleep,
	}, func(ctx context.Context, attempt int) resilience.Attempt[*Response] {
		return c.attempt(ctx, p, attempt, maxAttempts, cfg.RetryDelay, log)
	})
	if err != nil {
		return nil, err
	}

	out, err := Classify(resp, p.endpoint)
	if err != nil {
		log.Error(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Body), logger.Fields(
			logger.FieldEndpoint, p.endpoint,
			logger.FieldMethod, p.method,
			logger.FieldStatusCode, resp.StatusCode,
		))
		return nil, err
	}
	return out, nil
}

func (c *Client) prepare(cfg ConnectionConfig, spec RequestSpec, log *logger.Logger) (*prepared, error) {
	rawURL, err := BuildURL(cfg, spec.Endpoint, spec.Query)
	if err != nil {
		return nil, err
	}

	auth := ComposeAuth(cfg, spec.UseRegistryAuth)
	headers := MergeHeaders(DefaultHeaders(), auth.Headers, spec.Headers)

	var payload []byte
	switch {
	case spec.Body != nil:
		payload, err = json.Marshal(spec.Body)
		if err != nil {
			return nil, errors.InvalidInput("body", err.Error()).WithCause(err)
		}
		if !hasHeader(headers, headerContentType) {
			headers[headerContentType] = mimeJSON
		}
	case spec.RawBody != nil:
		payload = spec.RawBody
	}

	client, err := newHTTPClient(cfg, security.ResolveTLS(cfg.TLSConfig, log))
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if spec.Timeout > 0 {
		timeout = spec.Timeout
	}

	return &prepared{
		method:   spec.method(),
		endpoint: spec.Endpoint,
		url:      rawURL,
		headers:  headers,
		basic:    auth.Basic,
		payload:  payload,
		timeout:  timeout,
		client:   client,
	}, nil
}

func (c *Client) attempt(ctx context.Context, p *prepared, n, maxAttempts int, delay time.Duration, log *logger.Logger) resilience.Attempt[*Response] {
	fields := logger.AttemptFields(p.endpoint, n, maxAttempts)
	fields["retry_delay_ms"] = delay.Milliseconds()

	resp, err := c.send(ctx, p)
	if err != nil {
		abandoned := ctx.Err() != nil && !errors.IsCode(err, errors.ErrCodeTimeout)
		if abandoned || errors.IsCode(err, errors.ErrCodeURLBuild) {
			log.Error("request failed", logger.MergeWithError(fields, err))
			return resilience.Terminal[*Response](nil, err)
		}
		if n < maxAttempts {
			log.Warn(retryMessage(err), logger.MergeWithError(fields, err))
		} else {
			log.Error(finalMessage(err), logger.MergeWithError(fields, err))
		}
		return resilience.Retryable[*Response](nil, err)
	}

	switch {
	case resp.OK():
		return resilience.Success(resp)
	case resp.StatusCode < 500:
		return resilience.Terminal(resp, nil)
	default:
		if n < maxAttempts {
			fields[logger.FieldStatusCode] = resp.StatusCode
			log.Warn("server error, retrying", fields)
		}
		return resilience.Retryable(resp, nil)
	}
}

// send performs one physical request bounded by the per-attempt timeout.
func (c *Client) send(ctx context.Context, p *prepared) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var body io.Reader
	if p.payload != nil {
		body = bytes.NewReader(p.payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, p.method, p.url, body)
	if err != nil {
		return nil, errors.URLBuild(p.endpoint, err)
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	if p.basic != nil {
		req.SetBasicAuth(p.basic.Username, p.basic.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, transportFailure(ctx, attemptCtx, err, p.endpoint, false)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(ctx, attemptCtx, err, p.endpoint, true)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// newHTTPClient builds a client for one call. TLS material is only loaded
// for https.
func newHTTPClient(cfg ConnectionConfig, tlsCtx security.TLSContext) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if strings.EqualFold(cfg.Protocol, "https") {
		tlsCfg, err := tlsCtx.Build()
		if err != nil {
			return nil, errors.Config(err.Error()).WithCause(err)
		}
		transport.TLSClientConfig = tlsCfg
	}
	return &http.Client{Transport: transport}, nil
}

func retryMessage(err error) string {
	switch {
	case errors.IsCode(err, errors.ErrCodeTimeout):
		return "timeout, retrying"
	case errors.IsCode(err, errors.ErrCodeConnectionFailed):
		return "connection error, retrying"
	default:
		return "request error, retrying"
	}
}

func finalMessage(err error) string {
	switch {
	case errors.IsCode(err, errors.ErrCodeTimeout):
		return "timeout, giving up"
	case errors.IsCode(err, errors.ErrCodeConnectionFailed):
		return "connection error, giving up"
	default:
		return "request error, giving up"
	}
}
