package model

import "github.com/shopspring/decimal"

// PriceQuote is the latest observed price for an asset. Quotes are ephemeral:
// every poll replaces the whole set, quotes are never merged field by field.
// Price is null while the upstream source has not produced a value yet.
type PriceQuote struct {
	AssetID   int64               `json:"id"`
	Symbol    string              `json:"symbol"`
	Name      string              `json:"name"`
	AssetType AssetType           `json:"asset_type"`
	Price     decimal.NullDecimal `json:"price"`
}

// HasPrice reports whether the quote carries a usable price.
func (q PriceQuote) HasPrice() bool {
	return q.Price.Valid && q.Price.Decimal.IsPositive()
}
