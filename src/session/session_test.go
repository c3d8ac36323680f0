package session

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

func testAccount() model.Account {
	return model.Account{
		ID:             7,
		Username:       "demo",
		Email:          "demo@example.com",
		AccountBalance: decimal.NewFromInt(10000),
		TradingTier:    model.TierBasic,
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.Active())

	s.Begin(testAccount(), model.TokenPair{Access: "a", Refresh: "r"})
	assert.True(t, s.Active())

	acct, ok := s.Account()
	assert.True(t, ok)
	assert.Equal(t, "demo", acct.Username)
	assert.True(t, s.Balance().Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "a", s.Tokens().Access)

	s.End()
	assert.False(t, s.Active())
	_, ok = s.Account()
	assert.False(t, ok)
	assert.True(t, s.Balance().IsZero())
	assert.Empty(t, s.Tokens().Access)
}

func TestSetBalanceUpdatesAccountMirror(t *testing.T) {
	s := New()
	s.Begin(testAccount(), model.TokenPair{})

	s.SetBalance(decimal.NewFromFloat(10100.50))

	assert.True(t, s.Balance().Equal(decimal.NewFromFloat(10100.50)))
	acct, _ := s.Account()
	assert.True(t, acct.AccountBalance.Equal(decimal.NewFromFloat(10100.50)))
}

func TestEndIdempotent(t *testing.T) {
	s := New()
	s.End()
	s.End()
	assert.False(t, s.Active())
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := New()
	s.Begin(testAccount(), model.TokenPair{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.SetBalance(decimal.NewFromInt(int64(10000 + n)))
			_ = s.Balance()
			_, _ = s.Account()
		}(i)
	}
	wg.Wait()

	assert.True(t, s.Balance().GreaterThanOrEqual(decimal.NewFromInt(10000)))
}
