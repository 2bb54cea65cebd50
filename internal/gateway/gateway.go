// Package gateway issues the outbound HTTP requests every pipeline stage
// depends on. All registry traffic carries the fixed service-credential
// headers; callers only decide method, URL, extra headers and body.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	dErrors "consentgate/pkg/domainerrors"
)

const (
	headerUsername = "X-OpenIDM-Username"
	headerPassword = "X-OpenIDM-Password"
)

// Response is the raw outcome of an outbound call. Stages interpret status
// codes themselves; the gateway never treats non-2xx as an error.
type Response struct {
	StatusCode int
	Body       []byte
}

// Gateway builds and sends requests with the registry service credentials
// attached. Safe for concurrent use by simultaneous pipeline runs.
type Gateway struct {
	client      *http.Client
	username    string
	password    string
	callTimeout time.Duration
	retryGets   bool
	logger      *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient swaps the underlying client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// WithRetryGets enables a single retry of GET calls on transport failure.
// Non-idempotent methods are never retried.
func WithRetryGets(enabled bool) Option {
	return func(g *Gateway) {
		g.retryGets = enabled
	}
}

// New constructs a Gateway. callTimeout bounds every individual outbound
// call; zero disables the per-call deadline.
func New(username, password string, callTimeout time.Duration, logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		client:      &http.Client{},
		username:    username,
		password:    password,
		callTimeout: callTimeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Get issues a credentialed GET.
func (g *Gateway) Get(ctx context.Context, url string) (*Response, error) {
	return g.Do(ctx, http.MethodGet, url, nil, nil)
}

// Do issues a credentialed request with optional extra headers and body.
func (g *Gateway) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	resp, err := g.send(ctx, method, url, headers, body)
	if err != nil && method == http.MethodGet && g.retryGets && !dErrors.Is(err, dErrors.CodeTimeout) {
		g.logger.WarnContext(ctx, "retrying lookup after transport failure",
			"url", url,
			"error", err.Error(),
		)
		resp, err = g.send(ctx, method, url, headers, body)
	}
	return resp, err
}

func (g *Gateway) send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeTransportError, "build request", err)
	}
	req.Header.Set(headerUsername, g.username)
	req.Header.Set(headerPassword, g.password)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(dErrors.CodeTimeout, "call exceeded deadline", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeTransportError, "call failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeTransportError, "read response body", err)
	}

	g.logger.DebugContext(ctx, "outbound call",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}
