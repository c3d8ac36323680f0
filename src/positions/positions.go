package positions

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
	"github.com/SteveDok22/TradeSim-Pro/src/poller"
)

type positionSource interface {
	ListOpenPositions(ctx context.Context) ([]model.Position, error)
	ListTradeHistory(ctx context.Context) ([]model.ClosedTrade, error)
}

type quoteLookup interface {
	Quote(assetID int64) (model.PriceQuote, bool)
}

// Book holds the open positions and closed-trade history for the session.
// Load replaces the whole open set; mutations never splice individual rows.
// Per-position P&L is derived on read from the latest price snapshot, so a
// price refresh is immediately reflected without another positions fetch.
type Book struct {
	source positionSource
	quotes quoteLookup

	mu      sync.RWMutex
	open    []model.Position
	history []model.ClosedTrade
	asOf    time.Time

	handle *poller.Handle
}

func New(source positionSource, quotes quoteLookup) *Book {
	return &Book{source: source, quotes: quotes}
}

// Load fetches the open positions and replaces the book's open set. Failures
// keep the previous set and are reported as transient.
func (b *Book) Load(ctx context.Context) error {
	open, err := b.source.ListOpenPositions(ctx)
	if err != nil {
		return apierror.NewTransient("positions load", err)
	}
	b.replace(open)
	return nil
}

func (b *Book) replace(open []model.Position) {
	b.mu.Lock()
	b.open = open
	b.asOf = time.Now()
	b.mu.Unlock()
}

// LoadHistory fetches the closed-trade history and replaces the stored copy.
func (b *Book) LoadHistory(ctx context.Context) error {
	history, err := b.source.ListTradeHistory(ctx)
	if err != nil {
		return apierror.NewTransient("trade history load", err)
	}
	b.mu.Lock()
	b.history = history
	b.mu.Unlock()
	return nil
}

// Snapshot returns the open positions with P&L derived from the latest
// quotes. Positions whose asset has no usable quote carry zero P&L and no
// current price.
func (b *Book) Snapshot() []model.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Position, 0, len(b.open))
	for _, p := range b.open {
		q, ok := b.quotes.Quote(p.AssetID)
		out = append(out, p.WithQuote(q, ok))
	}
	return out
}

// Get returns the position with the given trade id, with derived P&L.
func (b *Book) Get(tradeID int64) (model.Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.open {
		if p.ID == tradeID {
			q, ok := b.quotes.Quote(p.AssetID)
			return p.WithQuote(q, ok), true
		}
	}
	return model.Position{}, false
}

// TotalUnrealizedPnL sums the derived P&L across all open positions. It is
// recomputed from scratch on every call, never incrementally adjusted.
func (b *Book) TotalUnrealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Snapshot() {
		total = total.Add(p.UnrealizedPnL)
	}
	return total
}

// OpenCount returns the number of open positions.
func (b *Book) OpenCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.open)
}

// History returns the stored closed-trade history.
func (b *Book) History() []model.ClosedTrade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.ClosedTrade, len(b.history))
	copy(out, b.history)
	return out
}

// AsOf returns the time of the last successful open-positions load.
func (b *Book) AsOf() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.asOf
}

// Clear drops all stored positions and history. Called when a session ends.
func (b *Book) Clear() {
	b.mu.Lock()
	b.open = nil
	b.history = nil
	b.asOf = time.Time{}
	b.mu.Unlock()
}

// StartPolling begins periodic reloads of the open set. Responses arriving
// after StopPolling are discarded.
func (b *Book) StartPolling(interval time.Duration) {
	if b.handle != nil {
		return
	}
	b.handle = poller.Start(interval, func(stop <-chan struct{}) {
		open, err := b.source.ListOpenPositions(context.Background())

		select {
		case <-stop:
			return
		default:
		}

		if err != nil {
			logger.WithError(err).Warn("positions reload failed, keeping previous set")
			return
		}
		b.replace(open)
	})
}

// StopPolling halts the reload loop. Safe to call repeatedly.
func (b *Book) StopPolling() {
	if b.handle == nil {
		return
	}
	b.handle.Stop()
	b.handle = nil
}
