// Package api is the gateway to the platform's REST API: one method per
// operation, each performing a single authenticated HTTP call and mapping
// the response to a typed result or an explicit error. No method retries
// and none panics; a failed call is always reported to the caller.
package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/brickbid/brickbid-go/models"
	"github.com/brickbid/brickbid-go/telemetry"
)

// Client talks to the platform API at a fixed base URL. Safe for concurrent
// use; it holds no session state of its own, callers pass the credential on
// each authenticated call.
type Client struct {
	http *resty.Client
}

// Option adjusts a Client at construction.
type Option func(*Client)

// WithTimeout caps every request at d.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New builds a client for the API rooted at baseURL
// (e.g. "http://localhost:8000/api").
func New(baseURL string, opts ...Option) *Client {
	hc := resty.New()
	hc.BaseURL = baseURL
	hc.SetHeader("Content-Type", "application/json")
	hc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the configured API root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// execute wraps one HTTP call in a client span and maps failures: transport
// errors wrap ErrUnavailable, non-2xx responses become *APIError.
func (c *Client) execute(ctx context.Context, operation, method, path string, build func(*resty.Request) *resty.Request) (*resty.Response, error) {
	ctx, finish := telemetry.StartClientSpan(ctx, operation, method, c.http.BaseURL, path)

	req := c.http.R().SetContext(ctx)
	if build != nil {
		req = build(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		finish(0, err)
		return nil, unavailable(err)
	}
	if resp.IsError() {
		apiErr := newAPIError(resp)
		finish(resp.StatusCode(), apiErr)
		return nil, apiErr
	}

	finish(resp.StatusCode(), nil)
	return resp, nil
}

func bearer(req *resty.Request, cred models.Credential) *resty.Request {
	return req.SetHeader("Authorization", "Bearer "+cred.Access)
}
