package executors

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/catalog"
	"github.com/SteveDok22/TradeSim-Pro/src/connectors"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
	"github.com/SteveDok22/TradeSim-Pro/src/pricefeed"
	"github.com/SteveDok22/TradeSim-Pro/src/positions"
	"github.com/SteveDok22/TradeSim-Pro/src/session"
)

// indirection for tests
var newAPIClient = func(baseURL string, timeout time.Duration) *connectors.Client {
	return connectors.NewClient(baseURL, timeout)
}

// StartMonitorLoop logs in with the configured account and reports prices,
// open positions and balance on every tick until the context is cancelled.
// Transient fetch failures are logged and skipped; a session expiry ends the
// loop.
func StartMonitorLoop(ctx context.Context) error {
	config := GetConfig()

	if config.Username == "" || config.Password == "" {
		return errors.New("monitor credentials not set")
	}

	client := newAPIClient(config.BaseURL, config.Timeout)

	tokens, err := client.Login(ctx, config.Username, config.Password)
	if err != nil {
		logger.WithField("username", config.Username).WithError(err).Error("Failed to login")
		return err
	}

	account, err := client.Profile(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch profile")
		return err
	}

	sess := session.New()
	sess.Begin(account, tokens)
	defer sess.End()

	assets := catalog.New(client)
	if err := assets.EnsureLoaded(ctx); err != nil {
		logger.WithError(err).Error("Failed to load asset catalog")
		return err
	}

	feed := pricefeed.New(client)
	book := positions.New(client, feed)

	ticker := time.NewTicker(config.PollPeriod)
	defer ticker.Stop()

	if err := runTick(ctx, client, sess, feed, book); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("monitor loop stopped")
			return nil
		case <-ticker.C:
			if err := runTick(ctx, client, sess, feed, book); err != nil {
				return err
			}
		}
	}
}

func runTick(ctx context.Context, client *connectors.Client, sess *session.Session, feed *pricefeed.Feed, book *positions.Book) error {
	logger.Info("monitor tick")

	if err := feed.Refresh(ctx); err != nil {
		if errors.Is(err, apierror.ErrSessionExpired) {
			logger.Error("session expired, stopping monitor")
			return err
		}
		logger.WithError(err).Warn("price refresh failed, keeping previous snapshot")
	}

	if err := book.Load(ctx); err != nil {
		if errors.Is(err, apierror.ErrSessionExpired) {
			return err
		}
		logger.WithError(err).Warn("positions reload failed, keeping previous set")
	}

	balance, err := client.Balance(ctx)
	if err != nil {
		if errors.Is(err, apierror.ErrSessionExpired) {
			return err
		}
		logger.WithError(err).Warn("balance fetch failed")
	} else {
		sess.SetBalance(balance.AccountBalance)
	}

	reportPositions(book.Snapshot())

	logger.
		WithField("balance", sess.Balance().StringFixed(2)).
		WithField("openPositions", book.OpenCount()).
		WithField("totalUnrealizedPnL", book.TotalUnrealizedPnL().StringFixed(2)).
		Info("portfolio state")
	return nil
}

func reportPositions(open []model.Position) {
	for _, p := range open {
		entry := logger.
			WithField("trade", p.ID).
			WithField("symbol", p.AssetSymbol).
			WithField("side", p.TradeType).
			WithField("quantity", p.Quantity.String()).
			WithField("entryPrice", p.EntryPrice.StringFixed(2))
		if p.CurrentPrice.Valid {
			entry = entry.
				WithField("currentPrice", p.CurrentPrice.Decimal.StringFixed(2)).
				WithField("unrealizedPnL", p.UnrealizedPnL.StringFixed(2)).
				WithField("unrealizedPnLPercent", p.UnrealizedPnLPercent.StringFixed(2))
		}
		entry.Info("open position")
	}
}
