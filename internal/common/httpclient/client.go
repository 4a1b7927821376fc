package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/resilience"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/observability/metrics"
)

const apiKeyHeader = "X-API-KEY"

const maxErrorBody = 4 << 10

// ExternalAPIError is returned for non-2xx responses and transport failures.
// Status is 502 when no response was received.
type ExternalAPIError struct {
	Status int
	Body   string
	cause  error
}

func (e *ExternalAPIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("external api error (status %d): %v", e.Status, e.cause)
	}
	return fmt.Sprintf("external api error (status %d): %s", e.Status, e.Body)
}

func (e *ExternalAPIError) Unwrap() []error {
	if e.cause != nil {
		return []error{commonerrors.ErrExternalService, e.cause}
	}
	return []error{commonerrors.ErrExternalService}
}

type Config struct {
	BaseURL string
	APIKey  string
	// Target labels metrics and the circuit breaker.
	Target  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	target  string
	http    *http.Client
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

func New(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.OutboundRequestTimeout
	}
	target := cfg.Target
	if target == "" {
		target = "external_api"
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		target:  target,
		http:    &http.Client{Timeout: timeout},
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  constants.OutboundBreakerThreshold,
			Timeout:    timeout,
			ResetAfter: constants.OutboundBreakerResetAfter,
			Name:       target,
			IsFailure:  isUpstreamFailure,
			Logger:     log,
		}),
		log: log,
	}
}

// Enabled reports whether a base URL was configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		return c.roundTrip(ctx, method, path, in, out)
	})

	outcome := "success"
	switch {
	case errors.Is(err, commonerrors.ErrCircuitOpen):
		outcome = "circuit_open"
	case err != nil:
		outcome = "failure"
	}
	metrics.OutboundRequestsTotal.WithLabelValues(c.target, outcome).Inc()

	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ExternalAPIError{Status: http.StatusBadGateway, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ExternalAPIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isUpstreamFailure keeps 4xx answers from opening the breaker.
func isUpstreamFailure(err error) bool {
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return err != nil
}
