package prices

import (
	"errors"
	"testing"

	"github.com/nntaoli-project/goex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

type fakeExchange struct {
	last  float64
	err   error
	calls int
}

func (f *fakeExchange) GetTicker(pair goex.CurrencyPair) (*goex.Ticker, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &goex.Ticker{Pair: pair, Last: f.last}, nil
}

func TestCryptoPriceFromExchangeIsCached(t *testing.T) {
	ex := &fakeExchange{last: 51234.5}
	s := NewServiceWithExchange(ex)
	btc := smodel.Asset{Symbol: "BTC", AssetType: "CRYPTO"}

	p := s.PriceFor(btc)
	require.True(t, p.Valid)
	assert.Equal(t, "51234.5", p.Decimal.String())

	// second lookup inside the TTL must hit the cache
	s.PriceFor(btc)
	assert.Equal(t, 1, ex.calls)
}

func TestCryptoFallsBackToStaticOnError(t *testing.T) {
	ex := &fakeExchange{err: errors.New("binance unreachable")}
	s := NewServiceWithExchange(ex)

	p := s.PriceFor(smodel.Asset{Symbol: "BTC", AssetType: "CRYPTO"})
	require.True(t, p.Valid)
	assert.Equal(t, "50000", p.Decimal.String())
}

func TestStockAndForexUseStaticTable(t *testing.T) {
	ex := &fakeExchange{}
	s := NewServiceWithExchange(ex)

	p := s.PriceFor(smodel.Asset{Symbol: "AAPL", AssetType: "STOCK"})
	require.True(t, p.Valid)
	assert.Equal(t, "175.5", p.Decimal.String())

	p = s.PriceFor(smodel.Asset{Symbol: "EURUSD", AssetType: "FOREX"})
	require.True(t, p.Valid)
	assert.Zero(t, ex.calls, "non-crypto assets never hit the exchange")
}

func TestUnknownSymbolYieldsNullPrice(t *testing.T) {
	s := NewServiceWithExchange(&fakeExchange{})
	p := s.PriceFor(smodel.Asset{Symbol: "XYZ", AssetType: "STOCK"})
	assert.False(t, p.Valid)
}
