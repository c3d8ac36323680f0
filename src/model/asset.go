package model

import "time"

type AssetType string

const (
	AssetTypeCrypto AssetType = "CRYPTO"
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeForex  AssetType = "FOREX"
)

// Asset is a tradable instrument from the server's catalog. Assets are
// reference data: fetched once per session activation and never mutated
// client-side.
type Asset struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	AssetType AssetType `json:"asset_type"`
}

// WatchlistItem ties an Asset to the user's watchlist. The server enforces at
// most one item per distinct asset per user.
type WatchlistItem struct {
	ID      int64     `json:"id"`
	Asset   Asset     `json:"asset"`
	AddedAt time.Time `json:"added_at"`
}
