package connectors

import (
	"context"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

// Register creates a new account. On success the returned token pair is
// installed on the client.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	var result model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register/", req, &result, false); err != nil {
		return model.AuthResult{}, err
	}

	c.SetTokens(result.Tokens)
	return result, nil
}

// Login exchanges credentials for a bearer token pair and installs it.
func (c *Client) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	var tokens model.TokenPair
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", body, &tokens, false); err != nil {
		return model.TokenPair{}, err
	}

	c.SetTokens(tokens)
	return tokens, nil
}

// Logout invalidates the refresh credential server-side and clears the local
// pair regardless of the server's answer.
func (c *Client) Logout(ctx context.Context) error {
	refresh := c.refreshToken()
	c.ClearTokens()

	if refresh == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout/", map[string]string{"refresh": refresh}, nil, false)
	if err != nil {
		logger.WithError(err).Warn("server-side logout failed; local credentials already cleared")
	}
	return err
}

// Profile fetches the authenticated account.
func (c *Client) Profile(ctx context.Context) (model.Account, error) {
	var account model.Account
	err := c.do(ctx, http.MethodGet, "/auth/profile/", nil, &account, true)
	return account, err
}

// Balance fetches the confirmed account balance.
func (c *Client) Balance(ctx context.Context) (model.BalanceResult, error) {
	var result model.BalanceResult
	err := c.do(ctx, http.MethodGet, "/auth/balance/", nil, &result, true)
	return result, err
}

// ResetBalance restores the account to the starting balance. Callers must
// obtain explicit user confirmation before issuing this.
func (c *Client) ResetBalance(ctx context.Context) (model.ResetBalanceResult, error) {
	var result model.ResetBalanceResult
	err := c.do(ctx, http.MethodPost, "/auth/balance/reset/", nil, &result, true)
	return result, err
}
