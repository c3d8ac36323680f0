package connectors

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

// ListAssets fetches the catalog of tradable assets.
func (c *Client) ListAssets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := c.do(ctx, http.MethodGet, "/trading/assets/", nil, &assets, false); err != nil {
		return nil, err
	}
	return assets, nil
}

// ListPrices fetches the current quote for every active asset.
func (c *Client) ListPrices(ctx context.Context) ([]model.PriceQuote, error) {
	var quotes []model.PriceQuote
	if err := c.do(ctx, http.MethodGet, "/trading/prices/", nil, &quotes, false); err != nil {
		return nil, err
	}
	return quotes, nil
}

// GetPrice fetches the current quote for a single symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (model.PriceQuote, error) {
	var quote model.PriceQuote
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/trading/prices/%s/", symbol), nil, &quote, false)
	return quote, err
}

// OpenTrade submits a trade-open action. The server decides the fill quantity
// and the resulting balance.
func (c *Client) OpenTrade(ctx context.Context, req model.OpenTradeRequest) (model.OpenTradeResult, error) {
	var result model.OpenTradeResult
	err := c.do(ctx, http.MethodPost, "/trading/trades/open/", req, &result, true)
	return result, err
}

// CloseTrade closes an open position by trade id.
func (c *Client) CloseTrade(ctx context.Context, tradeID int64) (model.CloseTradeResult, error) {
	var result model.CloseTradeResult
	err := c.do(ctx, http.MethodPost, "/trading/trades/close/", model.CloseTradeRequest{TradeID: tradeID}, &result, true)
	return result, err
}

// ListOpenPositions fetches the authoritative set of open positions.
func (c *Client) ListOpenPositions(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	if err := c.do(ctx, http.MethodGet, "/trading/trades/positions/", nil, &positions, true); err != nil {
		return nil, err
	}
	return positions, nil
}

// ListTradeHistory fetches the append-only record of closed trades.
func (c *Client) ListTradeHistory(ctx context.Context) ([]model.ClosedTrade, error) {
	var trades []model.ClosedTrade
	if err := c.do(ctx, http.MethodGet, "/trading/trades/history/", nil, &trades, true); err != nil {
		return nil, err
	}
	return trades, nil
}
