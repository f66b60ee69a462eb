package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ds8/tip-allowance/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetKeyValue retrieves an unexpired value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string, now time.Time) ([]byte, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now).
		First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}

// SetKeyValue upserts a key-value pair; the last writer wins
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	kv := schema.KeyValueStore{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// DeleteExpiredKeyValues removes entries whose expiry is before now
func (s *pgStore) DeleteExpiredKeyValues(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&schema.KeyValueStore{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired key-values: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// ListTipsSince returns indexed tips for a sender within [since, now]
func (s *pgStore) ListTipsSince(ctx context.Context, fid string, since time.Time) ([]schema.DegenTip, error) {
	var tips []schema.DegenTip
	err := s.db.WithContext(ctx).
		Where("from_fid = ? AND cast_timestamp >= ?", fid, since).
		Order("cast_timestamp ASC, id ASC").
		Find(&tips).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tips: %w", err)
	}

	return tips, nil
}

// SumRaindropsUsed sums the highest recorded value of every raindrop cast by fid.
// A cast may be indexed more than once (edits, re-indexing), so each hash counts once.
func (s *pgStore) SumRaindropsUsed(ctx context.Context, fid string) (float64, error) {
	perCast := s.db.
		Model(&schema.DegenRaindrop{}).
		Select("MAX(value) AS value").
		Where("from_fid = ?", fid).
		Group("cast_hash")

	var total sql.NullFloat64
	err := s.db.WithContext(ctx).
		Table("(?) AS udr", perCast).
		Select("SUM(udr.value)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum raindrops: %w", err)
	}

	return total.Float64, nil
}
