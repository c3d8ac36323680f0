package simserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/handler"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/prices"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/repository"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// defaultAssets is the fixed tradable universe, seeded at startup.
var defaultAssets = []smodel.Asset{
	{Symbol: "BTC", Name: "Bitcoin", AssetType: "CRYPTO"},
	{Symbol: "ETH", Name: "Ethereum", AssetType: "CRYPTO"},
	{Symbol: "AAPL", Name: "Apple Inc.", AssetType: "STOCK"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", AssetType: "STOCK"},
	{Symbol: "TSLA", Name: "Tesla Inc.", AssetType: "STOCK"},
	{Symbol: "EURUSD", Name: "Euro / US Dollar", AssetType: "FOREX"},
	{Symbol: "GBPUSD", Name: "British Pound / US Dollar", AssetType: "FOREX"},
}

// InitDB opens the configured database and runs migrations.
func InitDB(config *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.LogLevel(config.GormLogLevel)),
	}

	var dialector gorm.Dialector
	switch config.DBDriver {
	case "postgres":
		dialector = postgres.Open(config.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(config.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.DBDriver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&smodel.User{},
		&smodel.Asset{},
		&smodel.Trade{},
		&smodel.WatchlistEntry{},
		&smodel.SessionToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewRouter assembles the full API surface.
func NewRouter(db *gorm.DB, config *Config) (chi.Router, error) {
	startingBalance, err := decimal.NewFromString(config.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE: %w", err)
	}
	accessTTL, err := time.ParseDuration(config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	refreshTTL, err := time.ParseDuration(config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %w", err)
	}

	users := repository.NewUserRepository(db)
	assets := repository.NewAssetRepository(db)
	trades := repository.NewTradeRepository(db)
	watchlist := repository.NewWatchlistRepository(db)
	tokens := repository.NewTokenRepository(db)
	priceService := prices.NewService()

	if err := assets.Seed(context.Background(), defaultAssets); err != nil {
		return nil, err
	}

	authHandler := &handler.AuthHandler{
		Users:           users,
		Tokens:          tokens,
		Trades:          trades,
		StartingBalance: startingBalance,
		AccessTTL:       accessTTL,
		RefreshTTL:      refreshTTL,
	}
	tradingHandler := &handler.TradingHandler{
		Assets: assets,
		Trades: trades,
		Users:  users,
		Prices: priceService,
	}
	portfolioHandler := &handler.PortfolioHandler{
		Watchlist:       watchlist,
		Assets:          assets,
		Trades:          trades,
		StartingBalance: startingBalance,
	}
	requireAuth := handler.RequireAuth(tokens, users)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register/", authHandler.Register)
			r.Post("/login/", authHandler.Login)
			r.Post("/token/refresh/", authHandler.RefreshToken)
			r.Post("/logout/", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/profile/", authHandler.Profile)
				r.Get("/balance/", authHandler.Balance)
				r.Post("/balance/reset/", authHandler.ResetBalance)
			})
		})

		r.Route("/trading", func(r chi.Router) {
			r.Get("/assets/", tradingHandler.ListAssets)
			r.Get("/prices/", tradingHandler.ListPrices)
			r.Get("/prices/{symbol}/", tradingHandler.GetPrice)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/trades/open/", tradingHandler.OpenTrade)
				r.Post("/trades/close/", tradingHandler.CloseTrade)
				r.Get("/trades/positions/", tradingHandler.Positions)
				r.Get("/trades/history/", tradingHandler.History)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/watchlist/", portfolioHandler.GetWatchlist)
			r.Post("/watchlist/add/", portfolioHandler.AddToWatchlist)
			r.Delete("/watchlist/{id}/", portfolioHandler.RemoveFromWatchlist)
			r.Get("/summary/", portfolioHandler.Summary)
		})
	})

	return r, nil
}

// StartServer runs the simulator API until SIGINT or SIGTERM.
func StartServer() error {
	config := GetConfig()

	db, err := InitDB(config)
	if err != nil {
		return err
	}

	r, err := NewRouter(db, config)
	if err != nil {
		return err
	}

	addr := ":" + config.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
	return nil
}
