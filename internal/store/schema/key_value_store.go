package schema

import (
	"time"

	"gorm.io/datatypes"
)

// KeyValueStore stores expiring JSON values keyed by string.
// Used as the Postgres backend of the tip cache.
type KeyValueStore struct {
	Key       string         `gorm:"primaryKey;type:text"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	ExpiresAt time.Time      `gorm:"not null;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (KeyValueStore) TableName() string {
	return "key_value_store"
}
