package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

// UserRepository handles read/write operations for simulator accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *UserRepository) WithDB(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. The given user is updated with the generated ID.
func (r *UserRepository) Create(ctx context.Context, user *smodel.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "UserRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create user")
		return err
	}
	return nil
}

// FindByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*smodel.User, error) {
	var user smodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by primary id. Returns (nil, nil) if not found.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*smodel.User, error) {
	var user smodel.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateBalance sets the user's balance to the given value.
func (r *UserRepository) UpdateBalance(ctx context.Context, userID uint, balance decimal.Decimal) error {
	err := r.db.WithContext(ctx).
		Model(&smodel.User{}).
		Where("id = ?", userID).
		Update("account_balance", balance).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "UserRepository",
			"op":      "UpdateBalance",
			"user_id": userID,
		}).WithError(err).Error("Failed to update balance")
	}
	return err
}
