package repository

import (
	"context"

	"shoppos/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns gorm.ErrRecordNotFound when the singleton row is missing.
	Get(ctx context.Context) (*model.ShopSettings, error)
	Save(ctx context.Context, s *model.ShopSettings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.ShopSettings, error) {
	var s model.ShopSettings
	err := r.db.WithContext(ctx).Order("updated_at ASC").First(&s).Error
	return &s, err
}

// Save inserts when s has no ID yet, else updates every column.
func (r *settingsRepo) Save(ctx context.Context, s *model.ShopSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
