package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type assetSource interface {
	ListAssets(ctx context.Context) ([]model.Asset, error)
}

// Catalog is the client's copy of the tradable asset universe. The set is
// fixed server-side, so it is fetched once per session activation rather than
// polled; Load replaces the whole set.
type Catalog struct {
	source assetSource

	mu     sync.RWMutex
	byID   map[int64]model.Asset
	sorted []model.Asset
	loaded bool
}

func New(source assetSource) *Catalog {
	return &Catalog{source: source, byID: map[int64]model.Asset{}}
}

// Load fetches the asset list and replaces the catalog. Duplicate ids in the
// payload collapse to the last occurrence.
func (c *Catalog) Load(ctx context.Context) error {
	assets, err := c.source.ListAssets(ctx)
	if err != nil {
		return apierror.NewTransient("asset catalog load", err)
	}

	byID := make(map[int64]model.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	sorted := make([]model.Asset, 0, len(byID))
	for _, a := range byID {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	c.mu.Lock()
	c.byID = byID
	c.sorted = sorted
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// EnsureLoaded loads the catalog only if it has not been loaded this session.
func (c *Catalog) EnsureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// Reset clears the catalog so the next EnsureLoaded fetches again. Called when
// a session ends.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.byID = map[int64]model.Asset{}
	c.sorted = nil
	c.loaded = false
	c.mu.Unlock()
}

// Get returns the asset with the given id.
func (c *Catalog) Get(id int64) (model.Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byID[id]
	return a, ok
}

// All returns the catalog ordered by symbol.
func (c *Catalog) All() []model.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Asset, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// ByType returns the assets of one type, ordered by symbol.
func (c *Catalog) ByType(t model.AssetType) []model.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Asset
	for _, a := range c.sorted {
		if a.AssetType == t {
			out = append(out, a)
		}
	}
	return out
}
