package model

import "github.com/shopspring/decimal"

type TradingTier string

const (
	TierBasic TradingTier = "BASIC"
	TierPro   TradingTier = "PRO"
)

// Account mirrors the server's view of the authenticated user. Exactly one
// account exists per session; the balance on it is authoritative only at the
// moment it was confirmed by the server.
type Account struct {
	ID             int64           `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	AccountBalance decimal.Decimal `json:"account_balance"`
	TradingTier    TradingTier     `json:"trading_tier"`
}

// TokenPair holds the two bearer credentials kept for the session lifetime.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
