package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
)

// Config controls how the client reaches the casino-research backend.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Client issues JSON requests against the backend and normalizes failures into typed errors.
// It does not interpret response envelopes; see DecodeEnvelope.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient httpDoer
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		timeout:    resolveTimeout(cfg.Timeout),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// BaseURL returns the normalized backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, endpoint string, params Params) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, params, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpoint, nil, body)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, endpoint, nil, body)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, endpoint, nil, body)
}

func (c *Client) Delete(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, params Params, body any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	payload, err := c.roundTrip(ctx, method, endpoint, params, body)
	duration := time.Since(start)

	c.metrics.RecordAPICall(endpoint, duration, err)
	logger := logging.FromContext(ctx, c.logger)
	if err != nil {
		logging.Warn(logger, "backend request failed",
			logging.FieldMethod, method,
			logging.FieldEndpoint, endpoint,
			logging.Elapsed(duration),
			"error", err,
		)
		return nil, err
	}
	logging.Debug(logger, "backend request complete",
		logging.FieldMethod, method,
		logging.FieldEndpoint, endpoint,
		logging.Elapsed(duration),
	)
	return payload, nil
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, params Params, body any) ([]byte, error) {
	target := joinURL(c.baseURL, endpoint)
	if query := params.Encode(); query != "" {
		target += "?" + query
	}

	req, err := c.buildRequest(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(ctx, method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newHTTPError(resp, excerpt)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, method, target, err)
	}
	return payload, nil
}

func (c *Client) buildRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("%w: %w", ErrEncodeBody, err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) classify(ctx context.Context, method, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Method: method, URL: target, Timeout: c.timeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Method: method, URL: target, Timeout: c.timeout, Err: err}
	}
	return &TransportError{Method: method, URL: target, Err: err}
}
