package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func TestTradeRepositoryOpenByUser(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := (&TradeRepository{}).WithDB(mockDB)

	openedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tradeRows := sqlmock.NewRows([]string{"id", "user_id", "asset_id", "trade_type", "status", "quantity", "entry_price", "opened_at"}).
		AddRow(2, 1, 10, "BUY", "OPEN", "0.02", "50000", openedAt).
		AddRow(1, 1, 20, "SELL", "OPEN", "5", "100", openedAt.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE user_id = $1 AND status = $2 ORDER BY opened_at desc`)).
		WithArgs(uint(1), smodel.TradeStatusOpen).
		WillReturnRows(tradeRows)

	assetRows := sqlmock.NewRows([]string{"id", "symbol", "name", "asset_type"}).
		AddRow(10, "BTC", "Bitcoin", "CRYPTO").
		AddRow(20, "AAPL", "Apple Inc.", "STOCK")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "assets" WHERE "assets"."id" IN ($1,$2)`)).
		WithArgs(uint(10), uint(20)).
		WillReturnRows(assetRows)

	trades, err := repo.OpenByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error listing open trades: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 open trades, got %d", len(trades))
	}
	if trades[0].Asset.Symbol != "BTC" || trades[1].Asset.Symbol != "AAPL" {
		t.Fatalf("assets not preloaded as expected: %+v", trades)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTradeRepositoryClose(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := (&TradeRepository{}).WithDB(mockDB)

	closedAt := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "trades" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Close(context.Background(), 2, decimal.NewFromInt(55000), decimal.NewFromInt(100), closedAt)
	if err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWatchlistRepositoryRemoveMissingRow(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := (&WatchlistRepository{}).WithDB(mockDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "watchlist_entries" WHERE id = $1 AND user_id = $2`)).
		WithArgs(uint(9), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Remove(context.Background(), 1, 9)
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound for missing row, got %v", err)
	}
}
