// Package preview provides a client for the remote preview echo endpoint
package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/attestlabs/attest/internal/common"
	"github.com/attestlabs/attest/internal/interfaces"
	"github.com/attestlabs/attest/internal/models"
)

const (
	DefaultBaseURL   = "https://api.attest.dev/v1/preview"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the PreviewClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new preview client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "preview-echo",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return c
}

// APIError represents a preview endpoint error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("preview API error: %s (status: %d)", e.Message, e.StatusCode)
}

// echoResponse is the wire shape of the endpoint's reply
type echoResponse struct {
	Threshold   float64 `json:"threshold"`
	Explanation string  `json:"explanation"`
}

// Echo posts the formula to the preview endpoint and returns the server's
// threshold and explanation. The call is rate limited and runs behind a
// circuit breaker: after repeated failures the breaker opens and calls
// fail fast until the endpoint recovers.
func (c *Client) Echo(ctx context.Context, req models.PreviewRequest) (*models.PreviewResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	echo := result.(*echoResponse)
	return &models.PreviewResult{
		Threshold:   echo.Threshold,
		Explanation: echo.Explanation,
		Source:      models.PreviewSourceRemote,
	}, nil
}

func (c *Client) post(ctx context.Context, req models.PreviewRequest) (*echoResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("formula_type", string(req.Formula.Type)).Msg("Preview echo request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
		}
	}

	var echo echoResponse
	if err := json.NewDecoder(resp.Body).Decode(&echo); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &echo, nil
}

// Ensure Client implements PreviewClient
var _ interfaces.PreviewClient = (*Client)(nil)
