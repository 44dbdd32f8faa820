package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/me/walletctl/pkg/model"
)

// TokenSource yields the current bearer credential, or "" when the client
// is unauthenticated. The session manager is the usual implementation.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func() string

// Token implements TokenSource.
func (f TokenSourceFunc) Token() string { return f() }

// Client talks to the wallet gateway API with connection pooling.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tokens     TokenSource
}

// NewClient creates a gateway client. timeout of 0 falls back to 30s.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// SetTokenSource sets the bearer credential source. Requests to auth
// endpoints never carry the credential regardless of this setting.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// call executes one gateway request and returns the decoded envelope.
//
// Failures map to the error taxonomy: no response or an undecodable body is
// a ConnectionError; an envelope whose statusCode differs from want is an
// APIError carrying the gateway message, or fallback when it has none.
func (c *Client) call(ctx context.Context, method, path string, body any, want int, fallback string) (*model.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil && !isAuthEndpoint(path) {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.logger.Debug("gateway request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ConnectionError{Err: err}
	}

	c.logger.Debug("gateway response", "status", resp.StatusCode, "path", path)

	var env model.Response
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &model.ConnectionError{Err: fmt.Errorf("parse envelope (HTTP %d): %w", resp.StatusCode, err)}
	}

	if env.StatusCode != want {
		status := env.StatusCode
		if status == 0 {
			status = resp.StatusCode
		}
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return nil, &model.APIError{StatusCode: status, Message: msg}
	}

	return &env, nil
}
