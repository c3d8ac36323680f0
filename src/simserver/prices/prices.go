package prices

import (
	"net/http"
	"sync"
	"time"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

const cacheTTL = 30 * time.Second

// staticQuotes covers stocks and forex, plus a crypto fallback for when the
// exchange is unreachable. Values are indicative only; this is a simulator.
var staticQuotes = map[string]string{
	"BTC":    "50000",
	"ETH":    "3000",
	"AAPL":   "175.50",
	"GOOGL":  "140.25",
	"TSLA":   "245.80",
	"EURUSD": "1.0850",
	"GBPUSD": "1.2650",
}

type cachedQuote struct {
	price     decimal.NullDecimal
	fetchedAt time.Time
}

// tickerFetcher is the slice of the exchange API the service needs.
type tickerFetcher interface {
	GetTicker(pair goex.CurrencyPair) (*goex.Ticker, error)
}

// Service resolves the current price for each asset. Crypto quotes come live
// from Binance and are cached for 30 seconds; stock and forex quotes come
// from the static table. Unknown symbols yield a null price.
type Service struct {
	exchange tickerFetcher

	mu    sync.Mutex
	cache map[string]cachedQuote
}

func NewService() *Service {
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return &Service{
		exchange: binance.NewWithConfig(apiConfig),
		cache:    map[string]cachedQuote{},
	}
}

// NewServiceWithExchange injects the exchange, for tests.
func NewServiceWithExchange(exchange tickerFetcher) *Service {
	return &Service{exchange: exchange, cache: map[string]cachedQuote{}}
}

// PriceFor returns the current price of an asset, null when unavailable.
func (s *Service) PriceFor(asset smodel.Asset) decimal.NullDecimal {
	if asset.AssetType == "CRYPTO" {
		if price, ok := s.cryptoPrice(asset.Symbol); ok {
			return price
		}
	}
	return staticPrice(asset.Symbol)
}

func (s *Service) cryptoPrice(symbol string) (decimal.NullDecimal, bool) {
	s.mu.Lock()
	cached, ok := s.cache[symbol]
	s.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < cacheTTL {
		return cached.price, true
	}

	pair := goex.NewCurrencyPair2(symbol + "_USDT")
	ticker, err := s.exchange.GetTicker(pair)
	if err != nil {
		logger.WithField("symbol", symbol).WithError(err).
			Warn("ticker fetch failed, falling back to static quote")
		return decimal.NullDecimal{}, false
	}

	price := decimal.NullDecimal{Decimal: decimal.NewFromFloat(ticker.Last), Valid: true}
	s.mu.Lock()
	s.cache[symbol] = cachedQuote{price: price, fetchedAt: time.Now()}
	s.mu.Unlock()
	return price, true
}

func staticPrice(symbol string) decimal.NullDecimal {
	raw, ok := staticQuotes[symbol]
	if !ok {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
