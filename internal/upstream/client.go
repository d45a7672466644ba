package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/travelbookhq/travelbook-gateway/pkg/config"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/metrics"
	"github.com/travelbookhq/travelbook-gateway/pkg/types"
)

const errorBodyReadLimit int64 = 2048

// Caller is the travel api surface the gateway services depend on.
type Caller interface {
	Get(ctx context.Context, req Request, out any) (*int, error)
	Post(ctx context.Context, req Request, out any) error
	Put(ctx context.Context, req Request, out any) error
	Delete(ctx context.Context, req Request, out any) error
}

// Request describes one call against the travel api.
type Request struct {
	Resource       string
	Path           string
	Query          url.Values
	Body           any
	Token          string
	IdempotencyKey string
}

// Client talks to the travel api backend. Every response arrives wrapped
// in the api's success envelope and is unwrapped before callers see it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	metrics    *metrics.UpstreamMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured travel api base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// New builds the travel api client from config.
func New(cfg config.UpstreamConfig, met *metrics.UpstreamMetrics, logg *logger.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		metrics:    met,
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Get performs a GET and decodes the envelope data into out. The returned
// total is the list total when the api reported one, nil otherwise.
func (c *Client) Get(ctx context.Context, req Request, out any) (*int, error) {
	env, err := c.do(ctx, http.MethodGet, req)
	if err != nil {
		return nil, err
	}
	if err := decodeData(env, out); err != nil {
		return nil, err
	}
	return env.Total, nil
}

// Post performs a POST with a JSON body and decodes the envelope data into out.
func (c *Client) Post(ctx context.Context, req Request, out any) error {
	env, err := c.do(ctx, http.MethodPost, req)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

// Put performs a PUT with a JSON body and decodes the envelope data into out.
func (c *Client) Put(ctx context.Context, req Request, out any) error {
	env, err := c.do(ctx, http.MethodPut, req)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

// Delete performs a DELETE and decodes the envelope data into out when present.
func (c *Client) Delete(ctx context.Context, req Request, out any) error {
	env, err := c.do(ctx, http.MethodDelete, req)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func (c *Client) do(ctx context.Context, method string, req Request) (*types.UpstreamEnvelope, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "travel api client not configured")
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request path is required")
	}

	target := c.buildURL(req.Path)
	if len(req.Query) > 0 {
		target = target + "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build travel api request")
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ObserveDuration(req.Resource, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(req.Resource)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute travel api request")
	}
	defer func() { _ = resp.Body.Close() }()

	env, err := c.decodeEnvelope(ctx, req.Resource, resp)
	if err != nil {
		c.metrics.IncFailure(req.Resource)
		return nil, err
	}
	c.metrics.IncSuccess(req.Resource)
	return env, nil
}

func (c *Client) decodeEnvelope(ctx context.Context, resource string, resp *http.Response) (*types.UpstreamEnvelope, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read travel api response")
	}

	var env types.UpstreamEnvelope
	if decodeErr := json.Unmarshal(raw, &env); decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			snippet := strings.TrimSpace(string(raw[:min(len(raw), int(errorBodyReadLimit))]))
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream,
				fmt.Errorf("status %d: %s", resp.StatusCode, snippet),
				"travel api request failed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, decodeErr, "decode travel api response")
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		ctx = c.logg.WithResource(ctx, resource)
		c.logg.Warn(ctx, fmt.Sprintf("travel api reported failure: status=%d message=%q", resp.StatusCode, env.Message))
		return nil, apiError(resp.StatusCode, env.Message)
	}
	return &env, nil
}

// apiError maps a failed travel api response onto a coded error.
func apiError(status int, message string) error {
	if message == "" {
		message = fmt.Sprintf("travel api returned status %d", status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case status == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, message)
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case status == http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeConflict, message)
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeUpstream, message)
	}
}

func decodeData(env *types.UpstreamEnvelope, out any) error {
	if out == nil || env == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode travel api payload")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
