package model

import "github.com/shopspring/decimal"

// Request and response payloads for the trading REST boundary. Field names
// match the server's JSON exactly; the client never invents values for
// server-owned fields.

type OpenTradeRequest struct {
	AssetID   int64           `json:"asset_id"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	TradeType TradeType       `json:"trade_type"`
}

type OpenTradeResult struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Position   *Position       `json:"position,omitempty"`
}

type CloseTradeRequest struct {
	TradeID int64 `json:"trade_id"`
}

type CloseTradeResult struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"new_balance"`
	PnL        decimal.Decimal `json:"pnl"`
}

type AddWatchlistRequest struct {
	AssetID int64 `json:"asset_id"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type AuthResult struct {
	Message string    `json:"message"`
	User    Account   `json:"user"`
	Tokens  TokenPair `json:"tokens"`
}

type BalanceResult struct {
	AccountBalance decimal.Decimal `json:"account_balance"`
	TradingTier    TradingTier     `json:"trading_tier"`
}

type ResetBalanceResult struct {
	Message    string          `json:"message"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// PortfolioSummary aggregates closed-trade statistics, derived server-side.
type PortfolioSummary struct {
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	TotalPnLPercent decimal.Decimal `json:"total_pnl_percent"`
	WinRate         decimal.Decimal `json:"win_rate"`
	TotalTrades     int             `json:"total_trades"`
	WinningTrades   int             `json:"winning_trades"`
	LosingTrades    int             `json:"losing_trades"`
}
