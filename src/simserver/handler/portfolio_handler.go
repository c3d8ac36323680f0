package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SteveDok22/TradeSim-Pro/src/auth"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/repository"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

type watchlistStore interface {
	ListByUser(ctx context.Context, userID uint) ([]smodel.WatchlistEntry, error)
	Add(ctx context.Context, userID, assetID uint) (*smodel.WatchlistEntry, error)
	Remove(ctx context.Context, userID, entryID uint) error
}

// PortfolioHandler serves the watchlist and the portfolio summary.
type PortfolioHandler struct {
	Watchlist       watchlistStore
	Assets          assetStore
	Trades          tradeStore
	StartingBalance decimal.Decimal
}

func (h *PortfolioHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, err := h.Watchlist.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type addWatchlistRequest struct {
	AssetID uint `json:"asset_id"`
}

func (h *PortfolioHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addWatchlistRequest
	if !decodeBody(w, r, &req) {
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

	entry, err := h.Watchlist.Add(r.Context(), user.ID, req.AssetID)
	if errors.Is(err, repository.ErrDuplicateWatchlistEntry) {
		writeError(w, http.StatusBadRequest, "Asset already in watchlist")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *PortfolioHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid watchlist item id")
		return
	}

	err = h.Watchlist.Remove(r.Context(), user.ID, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Watchlist item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary aggregates closed-trade statistics. Win rate counts trades with a
// positive realized P&L; the percent figure is measured against the starting
// balance.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	closed, err := h.Trades.HistoryByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	totalPnL := decimal.Zero
	winning, losing := 0, 0
	for _, t := range closed {
		if !t.PnL.Valid {
			continue
		}
		totalPnL = totalPnL.Add(t.PnL.Decimal)
		if t.PnL.Decimal.IsPositive() {
			winning++
		} else if t.PnL.Decimal.IsNegative() {
			losing++
		}
	}

	winRate := decimal.Zero
	if len(closed) > 0 {
		winRate = decimal.NewFromInt(int64(winning)).
			Div(decimal.NewFromInt(int64(len(closed)))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	totalPnLPercent := decimal.Zero
	if h.StartingBalance.IsPositive() {
		totalPnLPercent = totalPnL.Div(h.StartingBalance).Mul(decimal.NewFromInt(100)).Round(2)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_pnl":         totalPnL.Round(2),
		"total_pnl_percent": totalPnLPercent,
		"win_rate":          winRate,
		"total_trades":      len(closed),
		"winning_trades":    winning,
		"losing_trades":     losing,
	})
}
