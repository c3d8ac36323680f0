package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/auth"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

var minTradeAmount = decimal.NewFromInt(1)

type assetStore interface {
	All(ctx context.Context) ([]smodel.Asset, error)
	FindByID(ctx context.Context, id uint) (*smodel.Asset, error)
	FindBySymbol(ctx context.Context, symbol string) (*smodel.Asset, error)
}

type tradeStore interface {
	Create(ctx context.Context, trade *smodel.Trade) error
	OpenByUser(ctx context.Context, userID uint) ([]smodel.Trade, error)
	FindOpenByID(ctx context.Context, userID, tradeID uint) (*smodel.Trade, error)
	Close(ctx context.Context, tradeID uint, exitPrice, pnl decimal.Decimal, closedAt time.Time) error
	HistoryByUser(ctx context.Context, userID uint) ([]smodel.Trade, error)
}

type priceSource interface {
	PriceFor(asset smodel.Asset) decimal.NullDecimal
}

// TradingHandler serves assets, prices and trade execution.
type TradingHandler struct {
	Assets assetStore
	Trades tradeStore
	Users  userStore
	Prices priceSource
}

func (h *TradingHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *TradingHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	quotes := make([]quoteView, 0, len(assets))
	for _, a := range assets {
		quotes = append(quotes, quoteView{
			ID:        a.ID,
			Symbol:    a.Symbol,
			Name:      a.Name,
			AssetType: a.AssetType,
			Price:     h.Prices.PriceFor(a),
		})
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *TradingHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	asset, err := h.Assets.FindBySymbol(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}
	writeJSON(w, http.StatusOK, quoteView{
		ID:        asset.ID,
		Symbol:    asset.Symbol,
		Name:      asset.Name,
		AssetType: asset.AssetType,
		Price:     h.Prices.PriceFor(*asset),
	})
}

type openTradeRequest struct {
	AssetID   uint            `json:"asset_id"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	TradeType string          `json:"trade_type"`
}

func (h *TradingHandler) OpenTrade(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req openTradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.TradeType != "BUY" && req.TradeType != "SELL" {
		writeError(w, http.StatusBadRequest, "trade_type must be BUY or SELL")
		return
	}
	if req.AmountUSD.LessThan(minTradeAmount) {
		writeError(w, http.StatusBadRequest, "Minimum trade amount is $1")
		return
	}
	if req.AmountUSD.GreaterThan(user.AccountBalance) {
		writeError(w, http.StatusBadRequest, "Insufficient balance")
		return
	}

	asset, err := h.Assets.FindByID(r.Context(), req.AssetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "Asset not found")
		return
	}

	price := h.Prices.PriceFor(*asset)
	if !price.Valid || !price.Decimal.IsPositive() {
		writeError(w, http.StatusBadRequest, "Price unavailable for asset")
		return
	}

	// the executed quantity is computed here, at the execution price
	quantity := req.AmountUSD.Div(price.Decimal).Round(8)
	trade := &smodel.Trade{
		UserID:     user.ID,
		AssetID:    asset.ID,
		Asset:      *asset,
		TradeType:  req.TradeType,
		Status:     smodel.TradeStatusOpen,
		Quantity:   quantity,
		EntryPrice: price.Decimal,
		OpenedAt:   time.Now(),
	}
	if err := h.Trades.Create(r.Context(), trade); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	newBalance := user.AccountBalance.Sub(req.AmountUSD)
	if err := h.Users.UpdateBalance(r.Context(), user.ID, newBalance); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithFields(map[string]interface{}{
		"username": user.Username,
		"symbol":   asset.Symbol,
		"side":     req.TradeType,
		"amount":   req.AmountUSD.String(),
	}).Info("trade opened")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Trade opened",
		"new_balance": newBalance,
		"position":    newPositionView(*trade, price),
	})
}

type closeTradeRequest struct {
	TradeID uint `json:"trade_id"`
}

func (h *TradingHandler) CloseTrade(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req closeTradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	trade, err := h.Trades.FindOpenByID(r.Context(), user.ID, req.TradeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if trade == nil {
		writeError(w, http.StatusNotFound, "Trade not found")
		return
	}

	price := h.Prices.PriceFor(trade.Asset)
	if !price.Valid || !price.Decimal.IsPositive() {
		writeError(w, http.StatusBadRequest, "Price unavailable for asset")
		return
	}

	pnl, _ := model.DerivePnL(model.TradeType(trade.TradeType), trade.Quantity, trade.EntryPrice, price.Decimal)
	if err := h.Trades.Close(r.Context(), trade.ID, price.Decimal, pnl, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// the committed amount comes back plus the realized result
	newBalance := user.AccountBalance.Add(trade.PositionValue()).Add(pnl)
	if err := h.Users.UpdateBalance(r.Context(), user.ID, newBalance); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithFields(map[string]interface{}{
		"username": user.Username,
		"trade_id": trade.ID,
		"pnl":      pnl.String(),
	}).Info("trade closed")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Trade closed",
		"new_balance": newBalance,
		"pnl":         pnl,
	})
}

func (h *TradingHandler) Positions(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trades, err := h.Trades.OpenByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	views := make([]positionView, 0, len(trades))
	for _, t := range trades {
		views = append(views, newPositionView(t, h.Prices.PriceFor(t.Asset)))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *TradingHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trades, err := h.Trades.HistoryByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	views := make([]closedTradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, newClosedTradeView(t))
	}
	writeJSON(w, http.StatusOK, views)
}
