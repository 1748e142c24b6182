// Package apiclient is the typed HTTP client for the asset-discovery backend.
// It attaches the bearer token, maps failures onto APIError kinds and tears the
// session down when the backend answers 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/easm/dashboard/internal/infrastructure/logger"
	"github.com/easm/dashboard/internal/infrastructure/metrics"
	"github.com/easm/dashboard/internal/infrastructure/sessionstore"
	"github.com/easm/dashboard/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request ID to the backend.
const RequestIDHeader = "X-Request-ID"

// Config configures the client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	RateBurst int
	UserAgent string
}

// UnauthorizedHook runs after a 401 has cleared the session keys.
type UnauthorizedHook func(ctx context.Context)

// Client talks to the asset-discovery backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	limiter    *rate.Limiter
	store      sessionstore.Store
	metrics    *metrics.Collector
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
	hooks []UnauthorizedHook
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithStore sets where tokens are persisted. Defaults to an in-memory store.
func WithStore(store sessionstore.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithMetrics records upstream calls on the collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the backend at cfg.BaseURL.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "easm-dashboard/1.0"
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   cfg.UserAgent,
		},
		logger: zap.NewNop(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = sessionstore.NewMemoryStore()
	}

	return c, nil
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	// Route is the low-cardinality endpoint name used for metrics and spans.
	// Defaults to Path.
	Route string
	Query url.Values
	Body  any
}

// Response is a successful backend response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// LoadToken restores the access token from the session store.
func (c *Client) LoadToken(ctx context.Context) (bool, error) {
	token, ok, err := c.store.Get(ctx, sessionstore.KeyAccessToken)
	if err != nil {
		return false, fmt.Errorf("loading access token: %w", err)
	}
	c.setToken(token)
	return ok && token != "", nil
}

// Token returns the access token currently held, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether an access token is held.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// OnUnauthorized registers a hook run whenever the backend answers 401.
func (c *Client) OnUnauthorized(hook UnauthorizedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Store returns the session store the client persists tokens in.
func (c *Client) Store() sessionstore.Store {
	return c.store
}

// Do executes req. Non-2xx responses and transport failures come back as
// *APIError. A non-JSON success body is returned as "{}".
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	ctx, span := telemetry.StartSpan(ctx, "upstream "+req.Method+" "+route,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrEndpoint, route),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("waiting for upstream rate limiter: %w", err)
		}
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			telemetry.RecordError(span, ctxErr)
			return nil, ctxErr
		}
		apiErr := networkError(route, err)
		c.observe(ctx, route, 0, apiErr, time.Since(start))
		telemetry.RecordError(span, apiErr)
		return nil, apiErr
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	elapsed := time.Since(start)
	if err != nil {
		apiErr := networkError(route, err)
		c.observe(ctx, route, httpResp.StatusCode, apiErr, elapsed)
		telemetry.RecordError(span, apiErr)
		return nil, apiErr
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, httpResp.StatusCode)
	contentType := httpResp.Header.Get("Content-Type")

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := errorForStatus(httpResp.StatusCode, contentType, body, route)
		c.observe(ctx, route, httpResp.StatusCode, apiErr, elapsed)
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorKind, string(apiErr.Kind))
		telemetry.RecordError(span, apiErr)
		if apiErr.Kind == KindSessionExpired {
			c.expireSession(ctx)
		}
		return nil, apiErr
	}

	if !isJSON(contentType) {
		body = []byte("{}")
	}
	c.observe(ctx, route, httpResp.StatusCode, nil, elapsed)
	telemetry.SetOK(span)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		Duration:   elapsed,
	}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL + ensureLeadingSlash(req.Path)
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := logger.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(RequestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	return httpReq, nil
}

// expireSession drops the token, clears the persisted keys and runs the hooks.
func (c *Client) expireSession(ctx context.Context) {
	c.mu.Lock()
	c.token = ""
	hooks := make([]UnauthorizedHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.log(ctx).Error("Failed to clear session keys after 401", zap.Error(err))
	}
	for _, hook := range hooks {
		hook(ctx)
	}
}

func (c *Client) observe(ctx context.Context, route string, status int, err error, elapsed time.Duration) {
	outcome := "success"
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		outcome = string(apiErr.Kind)
	}
	if c.metrics != nil {
		c.metrics.RecordUpstream(route, status, outcome, elapsed)
	}
	if err != nil {
		c.log(ctx).Warn("Upstream request failed",
			zap.String("endpoint", route),
			zap.Int("status", status),
			zap.String("outcome", outcome),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return
	}
	c.log(ctx).Debug("Upstream request",
		zap.String("endpoint", route),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	)
}

// call runs a request and decodes the response into out.
func (c *Client) call(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

func (c *Client) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, c.logger)
}
