package models

import "time"

// StorageEntry is one JSON value of the durable store, scoped to a browser
// profile.
type StorageEntry struct {
	Scope     string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;column:storage_key;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
