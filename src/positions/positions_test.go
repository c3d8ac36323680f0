package positions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type stubPositions struct {
	open    []model.Position
	history []model.ClosedTrade
	err     error
}

func (s *stubPositions) ListOpenPositions(ctx context.Context) ([]model.Position, error) {
	return s.open, s.err
}

func (s *stubPositions) ListTradeHistory(ctx context.Context) ([]model.ClosedTrade, error) {
	return s.history, s.err
}

type stubQuotes map[int64]model.PriceQuote

func (s stubQuotes) Quote(assetID int64) (model.PriceQuote, bool) {
	q, ok := s[assetID]
	return q, ok
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d(s), Valid: true}
}

func position(id, assetID int64, tt model.TradeType, qty, entry string) model.Position {
	return model.Position{
		ID:         id,
		AssetID:    assetID,
		TradeType:  tt,
		Quantity:   d(qty),
		EntryPrice: d(entry),
	}
}

func TestSnapshotDerivesPnLFromQuotes(t *testing.T) {
	src := &stubPositions{open: []model.Position{
		position(1, 10, model.TradeTypeBuy, "0.02", "50000"),
		position(2, 20, model.TradeTypeSell, "5", "100"),
		position(3, 30, model.TradeTypeBuy, "1", "10"), // no quote
	}}
	quotes := stubQuotes{
		10: {AssetID: 10, Price: nd("55000")},
		20: {AssetID: 20, Price: nd("90")},
	}
	book := New(src, quotes)
	require.NoError(t, book.Load(context.Background()))

	snap := book.Snapshot()
	require.Len(t, snap, 3)

	assert.True(t, snap[0].UnrealizedPnL.Equal(d("100")))
	assert.True(t, snap[0].UnrealizedPnLPercent.Equal(d("10")))
	assert.True(t, snap[1].UnrealizedPnL.Equal(d("50")))
	assert.False(t, snap[2].CurrentPrice.Valid)
	assert.True(t, snap[2].UnrealizedPnL.IsZero())

	assert.True(t, book.TotalUnrealizedPnL().Equal(d("150")))
	assert.Equal(t, 3, book.OpenCount())
}

func TestQuoteChangeReflectedWithoutReload(t *testing.T) {
	src := &stubPositions{open: []model.Position{position(1, 10, model.TradeTypeBuy, "1", "100")}}
	quotes := stubQuotes{10: {AssetID: 10, Price: nd("100")}}
	book := New(src, quotes)
	require.NoError(t, book.Load(context.Background()))

	assert.True(t, book.TotalUnrealizedPnL().IsZero())

	quotes[10] = model.PriceQuote{AssetID: 10, Price: nd("110")}
	assert.True(t, book.TotalUnrealizedPnL().Equal(d("10")))
}

func TestLoadFailureKeepsPreviousSet(t *testing.T) {
	src := &stubPositions{open: []model.Position{position(1, 10, model.TradeTypeBuy, "1", "100")}}
	book := New(src, stubQuotes{})
	require.NoError(t, book.Load(context.Background()))

	src.err = errors.New("timeout")
	err := book.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsTransient(err))
	assert.Equal(t, 1, book.OpenCount())
}

func TestGetByTradeID(t *testing.T) {
	src := &stubPositions{open: []model.Position{position(7, 10, model.TradeTypeBuy, "1", "100")}}
	book := New(src, stubQuotes{10: {AssetID: 10, Price: nd("120")}})
	require.NoError(t, book.Load(context.Background()))

	p, ok := book.Get(7)
	require.True(t, ok)
	assert.True(t, p.UnrealizedPnL.Equal(d("20")))

	_, ok = book.Get(99)
	assert.False(t, ok)
}

func TestHistoryAndClear(t *testing.T) {
	src := &stubPositions{
		open: []model.Position{position(1, 10, model.TradeTypeBuy, "1", "100")},
		history: []model.ClosedTrade{{
			ID:          1,
			AssetSymbol: "BTC",
			PnL:         d("100"),
			ClosedAt:    time.Now(),
		}},
	}
	book := New(src, stubQuotes{})
	require.NoError(t, book.Load(context.Background()))
	require.NoError(t, book.LoadHistory(context.Background()))

	require.Len(t, book.History(), 1)
	assert.False(t, book.AsOf().IsZero())

	book.Clear()
	assert.Zero(t, book.OpenCount())
	assert.Empty(t, book.History())
	assert.True(t, book.AsOf().IsZero())
}
