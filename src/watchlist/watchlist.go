package watchlist

import (
	"context"
	"sync"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type watchlistAPI interface {
	GetWatchlist(ctx context.Context) ([]model.WatchlistItem, error)
	AddToWatchlist(ctx context.Context, assetID int64) (model.WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, itemID int64) error
}

type assetLister interface {
	All() []model.Asset
}

// Manager keeps the client's copy of the user's watchlist. After every
// successful add or remove the list is refetched from the server rather than
// patched locally, so the copy always reflects what the server accepted.
type Manager struct {
	api     watchlistAPI
	catalog assetLister

	mu    sync.RWMutex
	items []model.WatchlistItem
}

func New(api watchlistAPI, catalog assetLister) *Manager {
	return &Manager{api: api, catalog: catalog}
}

// Load fetches the watchlist and replaces the stored copy.
func (m *Manager) Load(ctx context.Context) error {
	items, err := m.api.GetWatchlist(ctx)
	if err != nil {
		return apierror.NewTransient("watchlist load", err)
	}
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	return nil
}

// Add puts an asset on the watchlist and reloads. A duplicate add is rejected
// by the server and reported as a RequestError with the list unchanged.
func (m *Manager) Add(ctx context.Context, assetID int64) error {
	if _, err := m.api.AddToWatchlist(ctx, assetID); err != nil {
		return err
	}
	return m.Load(ctx)
}

// Remove deletes a watchlist entry by its item id and reloads.
func (m *Manager) Remove(ctx context.Context, itemID int64) error {
	if err := m.api.RemoveFromWatchlist(ctx, itemID); err != nil {
		return err
	}
	return m.Load(ctx)
}

// Items returns the stored watchlist.
func (m *Manager) Items() []model.WatchlistItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.WatchlistItem, len(m.items))
	copy(out, m.items)
	return out
}

// Contains reports whether the asset is on the watchlist.
func (m *Manager) Contains(assetID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.Asset.ID == assetID {
			return true
		}
	}
	return false
}

// Selectable returns the catalog assets not yet on the watchlist, for the
// add picker.
func (m *Manager) Selectable() []model.Asset {
	m.mu.RLock()
	watched := make(map[int64]struct{}, len(m.items))
	for _, it := range m.items {
		watched[it.Asset.ID] = struct{}{}
	}
	m.mu.RUnlock()

	var out []model.Asset
	for _, a := range m.catalog.All() {
		if _, ok := watched[a.ID]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// Clear drops the stored watchlist. Called when a session ends.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
}
