package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// AssetRepository handles the fixed tradable-asset table.
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) WithDB(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// All returns every asset ordered by symbol.
func (r *AssetRepository) All(ctx context.Context) ([]smodel.Asset, error) {
	var assets []smodel.Asset
	err := r.db.WithContext(ctx).Order("symbol asc").Find(&assets).Error
	return assets, err
}

// FindByID fetches an asset by id. Returns (nil, nil) if not found.
func (r *AssetRepository) FindByID(ctx context.Context, id uint) (*smodel.Asset, error) {
	var asset smodel.Asset
	err := r.db.WithContext(ctx).First(&asset, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindBySymbol fetches an asset by symbol. Returns (nil, nil) if not found.
func (r *AssetRepository) FindBySymbol(ctx context.Context, symbol string) (*smodel.Asset, error) {
	var asset smodel.Asset
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Seed upserts the default asset universe, keyed on symbol.
func (r *AssetRepository) Seed(ctx context.Context, assets []smodel.Asset) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "asset_type"}),
	}).Create(&assets).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "AssetRepository",
			"op":   "Seed",
		}).WithError(err).Error("Failed to seed assets")
	}
	return err
}
