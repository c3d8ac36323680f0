package smodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a simulator account. The balance is virtual money only.
type User struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Username       string          `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email          string          `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash   string          `gorm:"size:128;not null" json:"-"`
	AccountBalance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"account_balance"`
	TradingTier    string          `gorm:"size:10;default:BASIC" json:"trading_tier"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Asset is one tradable instrument. The set is seeded at startup and fixed.
type Asset struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Symbol    string `gorm:"uniqueIndex;size:10;not null" json:"symbol"`
	Name      string `gorm:"size:100;not null" json:"name"`
	AssetType string `gorm:"size:10;not null" json:"asset_type"`
}

// Trade statuses.
const (
	TradeStatusOpen   = "OPEN"
	TradeStatusClosed = "CLOSED"
)

// Trade is an open or closed simulated position.
type Trade struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	UserID     uint                `gorm:"index;not null" json:"-"`
	AssetID    uint                `gorm:"index;not null" json:"asset_id"`
	Asset      Asset               `json:"-"`
	TradeType  string              `gorm:"size:4;not null" json:"trade_type"`
	Status     string              `gorm:"size:6;index;not null" json:"-"`
	Quantity   decimal.Decimal     `gorm:"type:decimal(20,8);not null" json:"quantity"`
	EntryPrice decimal.Decimal     `gorm:"type:decimal(20,8);not null" json:"entry_price"`
	ExitPrice  decimal.NullDecimal `gorm:"type:decimal(20,8)" json:"exit_price,omitempty"`
	PnL        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"pnl,omitempty"`
	OpenedAt   time.Time           `json:"opened_at"`
	ClosedAt   *time.Time          `json:"closed_at,omitempty"`
}

// PositionValue returns quantity * entry price, the USD amount committed.
func (t Trade) PositionValue() decimal.Decimal {
	return t.Quantity.Mul(t.EntryPrice)
}

// WatchlistEntry pins an asset to a user's watchlist. One row per user+asset.
type WatchlistEntry struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"uniqueIndex:idx_watchlist_user_asset;not null" json:"-"`
	AssetID uint      `gorm:"uniqueIndex:idx_watchlist_user_asset;not null" json:"-"`
	Asset   Asset     `json:"asset"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// SessionToken is an issued access/refresh token pair. Tokens are opaque
// random ids; the pair is revoked as a unit at logout.
type SessionToken struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index;not null"`
	AccessToken    string    `gorm:"uniqueIndex;size:64;not null"`
	RefreshToken   string    `gorm:"uniqueIndex;size:64;not null"`
	AccessExpires  time.Time `gorm:"not null"`
	RefreshExpires time.Time `gorm:"not null"`
	Revoked        bool      `gorm:"default:false"`
	CreatedAt      time.Time
}
