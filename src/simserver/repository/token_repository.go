package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// TokenRepository issues and validates opaque access/refresh token pairs.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) WithDB(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Issue creates a new token pair for the user.
func (r *TokenRepository) Issue(ctx context.Context, userID uint, accessTTL, refreshTTL time.Duration) (*smodel.SessionToken, error) {
	now := time.Now()
	token := &smodel.SessionToken{
		UserID:         userID,
		AccessToken:    uuid.NewString(),
		RefreshToken:   uuid.NewString(),
		AccessExpires:  now.Add(accessTTL),
		RefreshExpires: now.Add(refreshTTL),
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// FindByAccess returns the live token pair matching an access token.
// Returns (nil, nil) when the token is unknown, revoked or expired.
func (r *TokenRepository) FindByAccess(ctx context.Context, accessToken string) (*smodel.SessionToken, error) {
	var token smodel.SessionToken
	err := r.db.WithContext(ctx).
		Where("access_token = ? AND revoked = ?", accessToken, false).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(token.AccessExpires) {
		return nil, nil
	}
	return &token, nil
}

// Refresh rotates the access token on a live refresh token and returns the
// updated pair. Returns (nil, nil) when the refresh token is unknown, revoked
// or expired.
func (r *TokenRepository) Refresh(ctx context.Context, refreshToken string, accessTTL time.Duration) (*smodel.SessionToken, error) {
	var token smodel.SessionToken
	err := r.db.WithContext(ctx).
		Where("refresh_token = ? AND revoked = ?", refreshToken, false).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(token.RefreshExpires) {
		return nil, nil
	}

	token.AccessToken = uuid.NewString()
	token.AccessExpires = time.Now().Add(accessTTL)
	if err := r.db.WithContext(ctx).Save(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Revoke invalidates the pair holding the given refresh token. Revoking an
// unknown token is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, refreshToken string) error {
	return r.db.WithContext(ctx).
		Model(&smodel.SessionToken{}).
		Where("refresh_token = ?", refreshToken).
		Update("revoked", true).Error
}
