package pricefeed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type stubSource struct {
	mu     sync.Mutex
	quotes []model.PriceQuote
	err    error
	calls  int
	delay  time.Duration
}

func (s *stubSource) ListPrices(ctx context.Context) ([]model.PriceQuote, error) {
	s.mu.Lock()
	s.calls++
	quotes, err, delay := s.quotes, s.err, s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return quotes, err
}

func (s *stubSource) set(quotes []model.PriceQuote, err error) {
	s.mu.Lock()
	s.quotes, s.err = quotes, err
	s.mu.Unlock()
}

func quote(id int64, symbol, price string) model.PriceQuote {
	d, _ := decimal.NewFromString(price)
	return model.PriceQuote{
		AssetID: id,
		Symbol:  symbol,
		Price:   decimal.NullDecimal{Decimal: d, Valid: true},
	}
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	src := &stubSource{}
	src.set([]model.PriceQuote{quote(1, "BTC", "50000"), quote(2, "ETH", "3000")}, nil)
	feed := New(src)

	require.NoError(t, feed.Refresh(context.Background()))

	q, ok := feed.Quote(1)
	require.True(t, ok)
	assert.True(t, q.Price.Decimal.Equal(decimal.NewFromInt(50000)))

	q, ok = feed.QuoteBySymbol("ETH")
	require.True(t, ok)
	assert.True(t, q.Price.Decimal.Equal(decimal.NewFromInt(3000)))
	assert.False(t, feed.AsOf().IsZero())

	// second refresh drops assets missing from the new payload
	src.set([]model.PriceQuote{quote(2, "ETH", "3100")}, nil)
	require.NoError(t, feed.Refresh(context.Background()))

	_, ok = feed.Quote(1)
	assert.False(t, ok)
	q, _ = feed.Quote(2)
	assert.True(t, q.Price.Decimal.Equal(decimal.NewFromInt(3100)))
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	src := &stubSource{}
	src.set([]model.PriceQuote{quote(1, "BTC", "50000")}, nil)
	feed := New(src)
	require.NoError(t, feed.Refresh(context.Background()))

	src.set(nil, errors.New("connection refused"))
	err := feed.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsTransient(err))

	q, ok := feed.Quote(1)
	require.True(t, ok)
	assert.True(t, q.Price.Decimal.Equal(decimal.NewFromInt(50000)))
}

func TestPollingRefreshesAndStops(t *testing.T) {
	src := &stubSource{}
	src.set([]model.PriceQuote{quote(1, "BTC", "50000")}, nil)
	feed := New(src)

	feed.StartPolling(20 * time.Millisecond)
	defer feed.StopPolling()

	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls >= 3
	}, time.Second, 5*time.Millisecond)

	feed.StopPolling()
	feed.StopPolling()

	src.mu.Lock()
	after := src.calls
	src.mu.Unlock()
	time.Sleep(60 * time.Millisecond)
	src.mu.Lock()
	assert.Equal(t, after, src.calls)
	src.mu.Unlock()
}

func TestLateResponseDiscardedAfterStop(t *testing.T) {
	src := &stubSource{delay: 50 * time.Millisecond}
	src.set([]model.PriceQuote{quote(1, "BTC", "50000")}, nil)
	feed := New(src)

	feed.StartPolling(time.Hour)
	time.Sleep(10 * time.Millisecond) // request now in flight
	feed.StopPolling()
	time.Sleep(80 * time.Millisecond) // let the late response land

	_, ok := feed.Quote(1)
	assert.False(t, ok, "late response must not be applied after stop")
}
