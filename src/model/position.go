package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

var hundred = decimal.NewFromInt(100)

// Position is an open trade as reported by the server. The set of open
// positions is always a snapshot from the last successful load; the client
// never splices positions in or out locally.
type Position struct {
	ID          int64           `json:"id"`
	AssetID     int64           `json:"asset_id"`
	AssetSymbol string          `json:"asset_symbol"`
	TradeType   TradeType       `json:"trade_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	EntryPrice  decimal.Decimal `json:"entry_price"`
	OpenedAt    time.Time       `json:"opened_at"`

	// Display fields derived from the latest quote. Never trusted as state:
	// recomputed on every read via WithQuote.
	CurrentPrice         decimal.NullDecimal `json:"current_price"`
	UnrealizedPnL        decimal.Decimal     `json:"unrealized_pnl"`
	UnrealizedPnLPercent decimal.Decimal     `json:"unrealized_pnl_percent"`
}

// PositionValue is the total value of the position at entry.
func (p Position) PositionValue() decimal.Decimal {
	return p.Quantity.Mul(p.EntryPrice)
}

// DerivePnL computes profit/loss for a position of the given direction against
// a current price. Pure function: BUY gains when price rises, SELL when it
// falls. Amount is rounded to 2 decimal places, percent likewise.
func DerivePnL(tradeType TradeType, quantity, entryPrice, currentPrice decimal.Decimal) (pnl, pnlPercent decimal.Decimal) {
	if entryPrice.IsZero() {
		return decimal.Zero, decimal.Zero
	}

	diff := currentPrice.Sub(entryPrice)
	if tradeType == TradeTypeSell {
		diff = entryPrice.Sub(currentPrice)
	}

	pnl = diff.Mul(quantity).Round(2)
	pnlPercent = diff.Div(entryPrice).Mul(hundred).Round(2)
	return pnl, pnlPercent
}

// WithQuote returns a copy of the position with CurrentPrice and the derived
// P&L fields recomputed from the given quote. A missing quote yields zero P&L
// rather than stale figures.
func (p Position) WithQuote(quote PriceQuote, ok bool) Position {
	if !ok || !quote.HasPrice() {
		p.CurrentPrice = decimal.NullDecimal{}
		p.UnrealizedPnL = decimal.Zero
		p.UnrealizedPnLPercent = decimal.Zero
		return p
	}

	p.CurrentPrice = quote.Price
	p.UnrealizedPnL, p.UnrealizedPnLPercent = DerivePnL(p.TradeType, p.Quantity, p.EntryPrice, quote.Price.Decimal)
	return p
}

// ClosedTrade is an immutable record of a finished position. The client only
// reads history, it never constructs these.
type ClosedTrade struct {
	ID          int64           `json:"id"`
	AssetSymbol string          `json:"asset_symbol"`
	TradeType   TradeType       `json:"trade_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	EntryPrice  decimal.Decimal `json:"entry_price"`
	ExitPrice   decimal.Decimal `json:"exit_price"`
	PnL         decimal.Decimal `json:"pnl"`
	PnLPercent  decimal.Decimal `json:"pnl_percent"`
	OpenedAt    time.Time       `json:"opened_at"`
	ClosedAt    time.Time       `json:"closed_at"`
}
