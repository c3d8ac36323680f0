package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type stubSummary struct {
	summary model.PortfolioSummary
	err     error
}

func (s *stubSummary) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	return s.summary, s.err
}

func TestRefreshAndClear(t *testing.T) {
	src := &stubSummary{summary: model.PortfolioSummary{
		TotalPnL:      decimal.NewFromInt(250),
		WinRate:       decimal.NewFromInt(60),
		TotalTrades:   5,
		WinningTrades: 3,
		LosingTrades:  2,
	}}
	r := New(src)

	_, loaded := r.Summary()
	assert.False(t, loaded)

	require.NoError(t, r.Refresh(context.Background()))
	s, loaded := r.Summary()
	require.True(t, loaded)
	assert.True(t, s.TotalPnL.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 5, s.TotalTrades)

	r.Clear()
	_, loaded = r.Summary()
	assert.False(t, loaded)
}

func TestRefreshFailureKeepsCachedSummary(t *testing.T) {
	src := &stubSummary{summary: model.PortfolioSummary{TotalTrades: 5}}
	r := New(src)
	require.NoError(t, r.Refresh(context.Background()))

	src.err = errors.New("timeout")
	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsTransient(err))

	s, loaded := r.Summary()
	assert.True(t, loaded)
	assert.Equal(t, 5, s.TotalTrades)
}
