package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// View types shape the JSON the API emits. The trading client decodes these
// fields by name, so tags here must stay in sync with its models.

type quoteView struct {
	ID        uint                `json:"id"`
	Symbol    string              `json:"symbol"`
	Name      string              `json:"name"`
	AssetType string              `json:"asset_type"`
	Price     decimal.NullDecimal `json:"price"`
}

type positionView struct {
	ID                   uint                `json:"id"`
	AssetID              uint                `json:"asset_id"`
	AssetSymbol          string              `json:"asset_symbol"`
	TradeType            string              `json:"trade_type"`
	Quantity             decimal.Decimal     `json:"quantity"`
	EntryPrice           decimal.Decimal     `json:"entry_price"`
	OpenedAt             time.Time           `json:"opened_at"`
	CurrentPrice         decimal.NullDecimal `json:"current_price"`
	UnrealizedPnL        decimal.Decimal     `json:"unrealized_pnl"`
	UnrealizedPnLPercent decimal.Decimal     `json:"unrealized_pnl_percent"`
}

type closedTradeView struct {
	ID          uint            `json:"id"`
	AssetSymbol string          `json:"asset_symbol"`
	TradeType   string          `json:"trade_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	EntryPrice  decimal.Decimal `json:"entry_price"`
	ExitPrice   decimal.Decimal `json:"exit_price"`
	PnL         decimal.Decimal `json:"pnl"`
	PnLPercent  decimal.Decimal `json:"pnl_percent"`
	OpenedAt    time.Time       `json:"opened_at"`
	ClosedAt    time.Time       `json:"closed_at"`
}

type userView struct {
	ID             uint            `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	AccountBalance decimal.Decimal `json:"account_balance"`
	TradingTier    string          `json:"trading_tier"`
}

type tokenView struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func newUserView(u *smodel.User) userView {
	return userView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		AccountBalance: u.AccountBalance,
		TradingTier:    u.TradingTier,
	}
}

func newPositionView(t smodel.Trade, price decimal.NullDecimal) positionView {
	view := positionView{
		ID:           t.ID,
		AssetID:      t.AssetID,
		AssetSymbol:  t.Asset.Symbol,
		TradeType:    t.TradeType,
		Quantity:     t.Quantity,
		EntryPrice:   t.EntryPrice,
		OpenedAt:     t.OpenedAt,
		CurrentPrice: price,
	}
	if price.Valid {
		view.UnrealizedPnL, view.UnrealizedPnLPercent = model.DerivePnL(
			model.TradeType(t.TradeType), t.Quantity, t.EntryPrice, price.Decimal)
	}
	return view
}

func newClosedTradeView(t smodel.Trade) closedTradeView {
	view := closedTradeView{
		ID:          t.ID,
		AssetSymbol: t.Asset.Symbol,
		TradeType:   t.TradeType,
		Quantity:    t.Quantity,
		EntryPrice:  t.EntryPrice,
		OpenedAt:    t.OpenedAt,
	}
	if t.ExitPrice.Valid {
		view.ExitPrice = t.ExitPrice.Decimal
		_, view.PnLPercent = model.DerivePnL(
			model.TradeType(t.TradeType), t.Quantity, t.EntryPrice, t.ExitPrice.Decimal)
	}
	if t.PnL.Valid {
		view.PnL = t.PnL.Decimal
	}
	if t.ClosedAt != nil {
		view.ClosedAt = *t.ClosedAt
	}
	return view
}
