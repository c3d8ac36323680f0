package portfolio

import (
	"context"
	"sync"

	"github.com/SteveDok22/TradeSim-Pro/src/apierror"
	"github.com/SteveDok22/TradeSim-Pro/src/model"
)

type summaryAPI interface {
	GetSummary(ctx context.Context) (model.PortfolioSummary, error)
}

// Reader caches the server-computed portfolio summary. All figures come from
// the server; nothing is aggregated client-side.
type Reader struct {
	api summaryAPI

	mu      sync.RWMutex
	summary model.PortfolioSummary
	loaded  bool
}

func New(api summaryAPI) *Reader {
	return &Reader{api: api}
}

// Refresh fetches the summary and replaces the cached copy.
func (r *Reader) Refresh(ctx context.Context) error {
	s, err := r.api.GetSummary(ctx)
	if err != nil {
		return apierror.NewTransient("portfolio summary", err)
	}
	r.mu.Lock()
	r.summary = s
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Summary returns the cached summary and whether one has been loaded.
func (r *Reader) Summary() (model.PortfolioSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary, r.loaded
}

// Clear drops the cached summary. Called when a session ends.
func (r *Reader) Clear() {
	r.mu.Lock()
	r.summary = model.PortfolioSummary{}
	r.loaded = false
	r.mu.Unlock()
}
