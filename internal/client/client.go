package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/health-assistant/internal/api"
	"github.com/angeloszaimis/health-assistant/internal/circuitbreaker"
	"github.com/angeloszaimis/health-assistant/internal/endpoint"
	"github.com/angeloszaimis/health-assistant/internal/environment"
	"github.com/angeloszaimis/health-assistant/internal/healthcheck"
)

const (
	chatPath = "/chat"

	defaultTimeout          = 30 * time.Second
	defaultBreakerThreshold = 3
	defaultBreakerTimeout   = 10 * time.Second
)

// ErrCircuitOpen is returned without contacting the backend after repeated
// failures.
var ErrCircuitOpen = circuitbreaker.ErrOpen

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	endpoint   *endpoint.Endpoint
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. It applies after all other options and
// never modifies a client passed to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithBreaker(threshold int, timeout time.Duration) Option {
	return func(c *Client) { c.breaker = circuitbreaker.New(threshold, timeout) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(base environment.BaseURL, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint.New(base),
		httpClient: &http.Client{Timeout: defaultTimeout},
		breaker:    circuitbreaker.New(defaultBreakerThreshold, defaultBreakerTimeout),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	c.breaker.OnStateChange(func(from, to circuitbreaker.State) {
		c.logger.Warn("Circuit breaker state changed",
			slog.String("server", base.String()),
			slog.String("from", from.String()),
			slog.String("to", to.String()))
	})

	return c
}

// Endpoint exposes health and latency of the backend.
func (c *Client) Endpoint() *endpoint.Endpoint {
	return c.endpoint
}

func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

// Chat sends one message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	req.Normalize()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	var (
		resp   api.ChatResponse
		reqErr error
	)
	// Rejected requests (4xx) do not count against the backend.
	err = c.breaker.Do(func() error {
		reqErr = c.post(ctx, chatPath, body, &resp)
		if IsUnavailable(reqErr) {
			return reqErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if reqErr != nil {
		return nil, reqErr
	}

	return &resp, nil
}

// Next asks for the next step of the current intent.
func (c *Client) Next(ctx context.Context, sessionID, lang string) (*api.ChatResponse, error) {
	action := api.ActionNext
	return c.Chat(ctx, api.ChatRequest{
		Lang:      lang,
		SessionID: &sessionID,
		Action:    &action,
	})
}

// Health probes the backend once.
func (c *Client) Health(ctx context.Context) error {
	return healthcheck.Probe(ctx, c.httpClient, c.endpoint)
}

func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.URL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.endpoint.Begin()
	defer c.endpoint.End()

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.endpoint.SetHealthy(false)
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer res.Body.Close()

	c.endpoint.RecordResponse(time.Since(start))
	c.endpoint.SetHealthy(res.StatusCode < http.StatusInternalServerError)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))

	var e api.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return &StatusError{StatusCode: res.StatusCode, Message: e.Error}
	}
	return &StatusError{StatusCode: res.StatusCode, Message: string(bytes.TrimSpace(data))}
}

// IsUnavailable reports whether err means the backend could not be used at
// all, as opposed to rejecting the request.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrCircuitOpen) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	return err != nil
}
