package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/webshop/models"
)

// GormBackend is the durable store: one storage_entries row per (scope, key).
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend returns a durable backend on db.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Load(ctx context.Context, scope, key string) ([]byte, error) {
	var entry models.StorageEntry
	err := g.db.WithContext(ctx).
		Where("scope = ? AND storage_key = ?", scope, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (g *GormBackend) Save(ctx context.Context, scope, key string, value []byte) error {
	entry := models.StorageEntry{
		Scope:     scope,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (g *GormBackend) Delete(ctx context.Context, scope, key string) error {
	return g.db.WithContext(ctx).
		Where("scope = ? AND storage_key = ?", scope, key).
		Delete(&models.StorageEntry{}).Error
}

// Keys lists the keys stored for scope.
func (g *GormBackend) Keys(ctx context.Context, scope string) ([]string, error) {
	var keys []string
	err := g.db.WithContext(ctx).
		Model(&models.StorageEntry{}).
		Where("scope = ?", scope).
		Order("storage_key").
		Pluck("storage_key", &keys).Error
	return keys, err
}
