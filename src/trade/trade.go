package trade

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

// MinTradeAmount is the smallest order the server accepts, in USD.
var MinTradeAmount = decimal.NewFromInt(1)

// ActionState tracks the lifecycle of the most recent trade submission, so a
// UI can disable the submit control while a request is in flight.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionPending
	ActionSucceeded
	ActionFailed
)

func (s ActionState) String() string {
	switch s {
	case ActionPending:
		return "pending"
	case ActionSucceeded:
		return "succeeded"
	case ActionFailed:
		return "failed"
	default:
		return "idle"
	}
}

type tradeAPI interface {
	OpenTrade(ctx context.Context, req model.OpenTradeRequest) (model.OpenTradeResult, error)
	CloseTrade(ctx context.Context, tradeID int64) (model.CloseTradeResult, error)
}

type balanceSink interface {
	Balance() decimal.Decimal
	SetBalance(decimal.Decimal)
}

type assetLookup interface {
	Get(id int64) (model.Asset, bool)
}

type quoteLookup interface {
	Quote(assetID int64) (model.PriceQuote, bool)
}

type bookReloader interface {
	Load(ctx context.Context) error
}

// Controller validates and submits trade orders. Validation failures are
// caught locally before any request is sent; server rejections leave the
// balance and position book untouched. On success the balance cell is set to
// the exact value the server returned and the position book is reloaded
// wholesale, never spliced.
type Controller struct {
	api     tradeAPI
	session balanceSink
	catalog assetLookup
	quotes  quoteLookup
	book    bookReloader

	mu    sync.RWMutex
	state ActionState
}

func New(api tradeAPI, session balanceSink, catalog assetLookup, quotes quoteLookup, book bookReloader) *Controller {
	return &Controller{
		api:     api,
		session: session,
		catalog: catalog,
		quotes:  quotes,
		book:    book,
	}
}

// State returns the state of the most recent submission.
func (c *Controller) State() ActionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s ActionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// begin transitions to pending unless a submission is already in flight.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ActionPending {
		return apierror.NewValidation("trade", "a trade request is already in progress")
	}
	c.state = ActionPending
	return nil
}

func (c *Controller) validateOpen(req model.OpenTradeRequest) error {
	if _, ok := c.catalog.Get(req.AssetID); !ok {
		return apierror.NewValidation("asset_id", "unknown asset")
	}
	if req.TradeType != model.TradeTypeBuy && req.TradeType != model.TradeTypeSell {
		return apierror.NewValidation("trade_type", "trade type must be BUY or SELL")
	}
	if req.AmountUSD.LessThan(MinTradeAmount) {
		return apierror.NewValidation("amount", "minimum trade amount is $1")
	}
	if req.AmountUSD.GreaterThan(c.session.Balance()) {
		return apierror.NewValidation("amount", "amount exceeds available balance")
	}
	return nil
}

// Open validates and submits an order. The returned result carries the
// server-assigned position and confirmed balance.
func (c *Controller) Open(ctx context.Context, req model.OpenTradeRequest) (model.OpenTradeResult, error) {
	if err := c.validateOpen(req); err != nil {
		return model.OpenTradeResult{}, err
	}
	if err := c.begin(); err != nil {
		return model.OpenTradeResult{}, err
	}

	res, err := c.api.OpenTrade(ctx, req)
	if err != nil {
		c.setState(ActionFailed)
		return model.OpenTradeResult{}, err
	}

	c.session.SetBalance(res.NewBalance)
	if err := c.book.Load(ctx); err != nil {
		// the trade is confirmed; the next reload will pick up the position
		logger.WithError(err).Warn("position reload after open failed")
	}
	c.setState(ActionSucceeded)
	return res, nil
}

// Close submits a close order for an open position.
func (c *Controller) Close(ctx context.Context, tradeID int64) (model.CloseTradeResult, error) {
	if err := c.begin(); err != nil {
		return model.CloseTradeResult{}, err
	}

	res, err := c.api.CloseTrade(ctx, tradeID)
	if err != nil {
		c.setState(ActionFailed)
		return model.CloseTradeResult{}, err
	}

	c.session.SetBalance(res.NewBalance)
	if err := c.book.Load(ctx); err != nil {
		logger.WithError(err).Warn("position reload after close failed")
	}
	c.setState(ActionSucceeded)
	return res, nil
}

// EstimatedQuantity returns amount/price at 8 decimal places for display next
// to the order form. It is advisory only; the server computes the actual
// quantity at execution time.
func (c *Controller) EstimatedQuantity(assetID int64, amountUSD decimal.Decimal) (string, bool) {
	q, ok := c.quotes.Quote(assetID)
	if !ok || !q.HasPrice() {
		return "", false
	}
	return amountUSD.Div(q.Price.Decimal).StringFixed(8), true
}
