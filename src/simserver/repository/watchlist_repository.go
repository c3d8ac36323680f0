package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// ErrDuplicateWatchlistEntry reports an add for an asset already watched.
var ErrDuplicateWatchlistEntry = errors.New("asset already in watchlist")

// WatchlistRepository handles per-user watchlist entries.
type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) WithDB(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser returns the user's watchlist with assets preloaded, oldest first.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID uint) ([]smodel.WatchlistEntry, error) {
	var entries []smodel.WatchlistEntry
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Where("user_id = ?", userID).
		Order("added_at asc").
		Find(&entries).Error
	return entries, err
}

// Add inserts a watchlist entry. A second add of the same asset returns
// ErrDuplicateWatchlistEntry; the unique index on user+asset enforces it.
func (r *WatchlistRepository) Add(ctx context.Context, userID, assetID uint) (*smodel.WatchlistEntry, error) {
	entry := &smodel.WatchlistEntry{UserID: userID, AssetID: assetID}
	err := r.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateWatchlistEntry
	}
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Preload("Asset").First(entry, entry.ID).Error
	return entry, err
}

// Remove deletes the entry by id, scoped to the user. Returns
// gorm.ErrRecordNotFound if no row matched.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, entryID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&smodel.WatchlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
