package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/observability/metrics"
)

// envelope is the uniform wrapper every upstream endpoint returns. Callers
// of Client never see it; on success only Data is handed back.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Error carries the upstream failure message plus the HTTP status. Unwrap
// maps well-known statuses onto domain sentinels so callers can use
// errors.Is without inspecting status codes.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return models.ErrUnauthenticated
	case http.StatusForbidden:
		return models.ErrForbidden
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusBadRequest:
		return models.ErrBadRequest
	}
	return nil
}

// Message extracts the user-facing message from any error produced by this
// package, falling back to the plain error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Client is the single point of outbound HTTP traffic. It injects the bearer
// token before every call and unwraps the response envelope. It stays purely
// data-returning: a 401 clears the persisted token and surfaces
// models.ErrUnauthenticated, but the hard redirect to /login is owned by the
// application controller, not by this layer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenStore
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens *TokenStore, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// Tokens exposes the token helpers for login/register/logout flows and
// application bootstrap.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.record(ctx, method, path, resp, time.Since(start))
	if err != nil {
		c.logger.Warn("API transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &Error{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failure(method, path, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(unwrap(raw), out)
}

// failure turns a non-2xx response into an *Error carrying the upstream
// message. A 401 additionally clears the persisted token: the session is
// gone, and keeping a dead credential around only causes repeat failures.
func (c *Client) failure(method, path string, status int, raw []byte) error {
	message := http.StatusText(status)
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		message = env.Message
	}

	switch status {
	case http.StatusUnauthorized:
		c.tokens.Clear()
		c.logger.Warn("API session expired, token cleared",
			zap.String("method", method),
			zap.String("path", path))
	case http.StatusForbidden, http.StatusInternalServerError:
		// Logged only, never auto-handled.
		c.logger.Error("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("message", message))
	}

	return &Error{Status: status, Message: message}
}

// unwrap strips the {success,data,message} envelope when present and
// otherwise returns the body untouched.
func unwrap(raw []byte) json.RawMessage {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return raw
	}
	if _, ok := probe["success"]; !ok {
		return raw
	}
	if data, ok := probe["data"]; ok {
		return data
	}
	return json.RawMessage("null")
}

func (c *Client) record(ctx context.Context, method, path string, resp *http.Response, elapsed time.Duration) {
	m := metrics.TryGet()
	if m == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.APIRequestsTotal.Add(ctx, 1, attrs)
	m.APIRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}
