package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type stubAssets struct {
	assets []model.Asset
	err    error
	calls  int
}

func (s *stubAssets) ListAssets(ctx context.Context) ([]model.Asset, error) {
	s.calls++
	return s.assets, s.err
}

func TestLoadReplacesAndSorts(t *testing.T) {
	src := &stubAssets{assets: []model.Asset{
		{ID: 2, Symbol: "ETH", Name: "Ethereum", AssetType: model.AssetTypeCrypto},
		{ID: 1, Symbol: "BTC", Name: "Bitcoin", AssetType: model.AssetTypeCrypto},
		{ID: 3, Symbol: "AAPL", Name: "Apple Inc.", AssetType: model.AssetTypeStock},
	}}
	c := New(src)
	require.NoError(t, c.Load(context.Background()))

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "AAPL", all[0].Symbol)
	assert.Equal(t, "BTC", all[1].Symbol)
	assert.Equal(t, "ETH", all[2].Symbol)

	a, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "BTC", a.Symbol)

	stocks := c.ByType(model.AssetTypeStock)
	require.Len(t, stocks, 1)
	assert.Equal(t, "AAPL", stocks[0].Symbol)
}

func TestLoadCollapsesDuplicateIDs(t *testing.T) {
	src := &stubAssets{assets: []model.Asset{
		{ID: 1, Symbol: "BTC"},
		{ID: 1, Symbol: "BTC"},
	}}
	c := New(src)
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.All(), 1)
}

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	src := &stubAssets{assets: []model.Asset{{ID: 1, Symbol: "BTC"}}}
	c := New(src)

	require.NoError(t, c.EnsureLoaded(context.Background()))
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, src.calls)

	c.Reset()
	assert.Empty(t, c.All())
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, 2, src.calls)
}

func TestLoadFailureIsTransient(t *testing.T) {
	src := &stubAssets{err: errors.New("boom")}
	c := New(src)
	err := c.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsTransient(err))
}
