package pricefeed

import (
	"context"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
	"github.com/SteveDok22/TradeSim-Pro/src/poller"
)

// quoteSource is satisfied by connectors.Client.
type quoteSource interface {
	ListPrices(ctx context.Context) ([]model.PriceQuote, error)
}

// Feed holds the latest price snapshot for every tradable asset. Each refresh
// replaces the whole snapshot; there is no per-symbol patching, so readers can
// never observe a half-updated set of quotes.
//
// A failed refresh keeps the previous snapshot intact. Stale prices are
// preferred over empty ones.
type Feed struct {
	source quoteSource

	mu       sync.RWMutex
	byID     map[int64]model.PriceQuote
	bySymbol map[string]model.PriceQuote
	asOf     time.Time

	handle *poller.Handle
}

func New(source quoteSource) *Feed {
	return &Feed{
		source:   source,
		byID:     map[int64]model.PriceQuote{},
		bySymbol: map[string]model.PriceQuote{},
	}
}

// Refresh fetches the full quote set and replaces the snapshot. On failure the
// current snapshot is left untouched and the error is reported as transient.
func (f *Feed) Refresh(ctx context.Context) error {
	quotes, err := f.source.ListPrices(ctx)
	if err != nil {
		return apierror.NewTransient("price refresh", err)
	}

	f.replace(quotes)
	return nil
}

func (f *Feed) replace(quotes []model.PriceQuote) {
	byID := make(map[int64]model.PriceQuote, len(quotes))
	bySymbol := make(map[string]model.PriceQuote, len(quotes))
	for _, q := range quotes {
		byID[q.AssetID] = q
		bySymbol[q.Symbol] = q
	}

	f.mu.Lock()
	f.byID = byID
	f.bySymbol = bySymbol
	f.asOf = time.Now()
	f.mu.Unlock()
}

// Quote returns the latest quote for an asset id.
func (f *Feed) Quote(assetID int64) (model.PriceQuote, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	q, ok := f.byID[assetID]
	return q, ok
}

// QuoteBySymbol returns the latest quote for a symbol.
func (f *Feed) QuoteBySymbol(symbol string) (model.PriceQuote, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	q, ok := f.bySymbol[symbol]
	return q, ok
}

// Snapshot returns a copy of every quote in the current snapshot.
func (f *Feed) Snapshot() []model.PriceQuote {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.PriceQuote, 0, len(f.byID))
	for _, q := range f.byID {
		out = append(out, q)
	}
	return out
}

// AsOf returns the time of the last successful refresh, zero if none yet.
func (f *Feed) AsOf() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.asOf
}

// StartPolling begins periodic refreshes. The first refresh runs immediately.
// A response that arrives after StopPolling is discarded without touching the
// snapshot; the in-flight request itself is not aborted.
func (f *Feed) StartPolling(interval time.Duration) {
	if f.handle != nil {
		return
	}
	f.handle = poller.Start(interval, func(stop <-chan struct{}) {
		quotes, err := f.source.ListPrices(context.Background())

		select {
		case <-stop:
			return
		default:
		}

		if err != nil {
			logger.WithError(err).Warn("price refresh failed, keeping previous snapshot")
			return
		}
		f.replace(quotes)
	})
}

// StopPolling halts the refresh loop. Safe to call repeatedly or when polling
// was never started.
func (f *Feed) StopPolling() {
	if f.handle == nil {
		return
	}
	f.handle.Stop()
	f.handle = nil
}
