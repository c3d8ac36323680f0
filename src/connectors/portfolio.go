package connectors

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

// GetWatchlist fetches the user's full watchlist.
func (c *Client) GetWatchlist(ctx context.Context) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	if err := c.do(ctx, http.MethodGet, "/portfolio/watchlist/", nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWatchlist adds an asset to the watchlist. The server rejects
// duplicates; the caller surfaces that as a clean failure.
func (c *Client) AddToWatchlist(ctx context.Context, assetID int64) (model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := c.do(ctx, http.MethodPost, "/portfolio/watchlist/add/", model.AddWatchlistRequest{AssetID: assetID}, &item, true)
	return item, err
}

// RemoveFromWatchlist deletes a watchlist item by its own id (not the asset id).
func (c *Client) RemoveFromWatchlist(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/portfolio/watchlist/%d/", itemID), nil, nil, true)
}

// GetSummary fetches aggregated closed-trade statistics.
func (c *Client) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	var summary model.PortfolioSummary
	err := c.do(ctx, http.MethodGet, "/portfolio/summary/", nil, &summary, true)
	return summary, err
}
