// REST CLIENT FOR THE TRADESIM PAPER-TRADING API
// RESTY ONLY + INTERNAL RETRY FOR READS
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 5 * time.Second
)

// Client talks to the TradeSim REST boundary. It owns the session's bearer
// credential pair and refreshes the access token once on a 401 before giving
// up with apierror.ErrSessionExpired.
type Client struct {
	http *resty.Client

	mu     sync.RWMutex
	tokens model.TokenPair
}

// isRetryableResp allows automatic retries for reads only: every mutating
// call goes out exactly once so a flaky network cannot double-open a trade.
func isRetryableResp(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}

	code := r.StatusCode()
	if code >= 500 && code <= 599 {
		return true
	}
	if code == http.StatusTooManyRequests {
		return true
	}
	if code == http.StatusRequestTimeout {
		return true
	}
	return false
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9898/api"
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &Client{http: httpClient}
}

// NewClientFromConfig builds a client from TRADESIM_* environment variables.
func NewClientFromConfig() *Client {
	config := GetConfig()
	return NewClient(config.BaseURL, config.RequestTimeout)
}

// SetTokens installs the session's credential pair.
func (c *Client) SetTokens(tokens model.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

// Tokens returns the current credential pair.
func (c *Client) Tokens() model.TokenPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// ClearTokens drops the credential pair, e.g. on logout or session expiry.
func (c *Client) ClearTokens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = model.TokenPair{}
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.Access
}

func (c *Client) refreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.Refresh
}

func (c *Client) execute(ctx context.Context, method, path string, body, out any, authed bool) (*resty.Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("X-Request-ID", uuid.NewString())

	if authed {
		req.SetHeader("Authorization", "Bearer "+c.accessToken())
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	return req.Execute(method, path)
}

// do runs one request against the boundary. Non-2xx responses come back as a
// *apierror.RequestError carrying the server's error message; an authenticated
// 401 triggers a single token refresh and retry before the call fails with
// apierror.ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	resp, err := c.execute(ctx, method, path, body, out, authed)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	if authed && resp.StatusCode() == http.StatusUnauthorized {
		if c.refreshToken() == "" {
			return fmt.Errorf("%s %s: %w", method, path, apierror.ErrSessionExpired)
		}
		if rerr := c.refreshAccess(ctx); rerr != nil {
			return rerr
		}

		resp, err = c.execute(ctx, method, path, body, out, authed)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if resp.IsSuccess() {
			return nil
		}
		if resp.StatusCode() == http.StatusUnauthorized {
			return fmt.Errorf("%s %s: %w", method, path, apierror.ErrSessionExpired)
		}
	}

	return parseRequestError(resp)
}

// refreshAccess exchanges the refresh credential for a new access token.
func (c *Client) refreshAccess(ctx context.Context) error {
	var result struct {
		Access string `json:"access"`
	}

	resp, err := c.execute(ctx, http.MethodPost, "/auth/token/refresh/",
		map[string]string{"refresh": c.refreshToken()}, &result, false)
	if err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}
	if !resp.IsSuccess() {
		logger.WithField("status", resp.StatusCode()).Warn("token refresh rejected")
		return fmt.Errorf("token refresh: %w", apierror.ErrSessionExpired)
	}

	c.mu.Lock()
	c.tokens.Access = result.Access
	c.mu.Unlock()
	return nil
}

// parseRequestError extracts the server's structured error field when present
// and falls back to a generic message otherwise.
func parseRequestError(resp *resty.Response) error {
	message := "request failed"

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			var s string
			if raw, ok := body[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
				message = s
				break
			}
		}
	}

	return &apierror.RequestError{StatusCode: resp.StatusCode(), Message: message}
}
