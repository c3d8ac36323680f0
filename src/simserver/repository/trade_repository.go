package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// TradeRepository handles open positions and closed-trade history.
type TradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

func (r *TradeRepository) WithDB(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create inserts a new open trade.
func (r *TradeRepository) Create(ctx context.Context, trade *smodel.Trade) error {
	err := r.db.WithContext(ctx).Create(trade).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "TradeRepository",
			"op":     "Create",
			"symbol": trade.AssetID,
			"side":   trade.TradeType,
		}).WithError(err).Error("Failed to create trade")
	}
	return err
}

// OpenByUser returns the user's open trades, newest first, with assets
// preloaded.
func (r *TradeRepository) OpenByUser(ctx context.Context, userID uint) ([]smodel.Trade, error) {
	var trades []smodel.Trade
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Where("user_id = ? AND status = ?", userID, smodel.TradeStatusOpen).
		Order("opened_at desc").
		Find(&trades).Error
	return trades, err
}

// FindOpenByID fetches one open trade belonging to the user.
// Returns (nil, nil) if there is no matching open trade.
func (r *TradeRepository) FindOpenByID(ctx context.Context, userID, tradeID uint) (*smodel.Trade, error) {
	var trade smodel.Trade
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Where("id = ? AND user_id = ? AND status = ?", tradeID, userID, smodel.TradeStatusOpen).
		First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// Close marks the trade closed with its exit price and realized P&L.
func (r *TradeRepository) Close(ctx context.Context, tradeID uint, exitPrice, pnl decimal.Decimal, closedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&smodel.Trade{}).
		Where("id = ?", tradeID).
		Updates(map[string]interface{}{
			"status":     smodel.TradeStatusClosed,
			"exit_price": exitPrice,
			"pnl":        pnl,
			"closed_at":  closedAt,
		}).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Close",
			"trade_id": tradeID,
		}).WithError(err).Error("Failed to close trade")
	}
	return err
}

// HistoryByUser returns the user's closed trades, newest first.
func (r *TradeRepository) HistoryByUser(ctx context.Context, userID uint) ([]smodel.Trade, error) {
	var trades []smodel.Trade
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Where("user_id = ? AND status = ?", userID, smodel.TradeStatusClosed).
		Order("closed_at desc").
		Find(&trades).Error
	return trades, err
}

// CloseAllByUser marks every open trade closed without realizing P&L. Used by
// balance reset.
func (r *TradeRepository) CloseAllByUser(ctx context.Context, userID uint, closedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&smodel.Trade{}).
		Where("user_id = ? AND status = ?", userID, smodel.TradeStatusOpen).
		Updates(map[string]interface{}{
			"status":    smodel.TradeStatusClosed,
			"pnl":       decimal.Zero,
			"closed_at": closedAt,
		}).Error
}
