package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tsunagari/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// schemaMigration records which migrations have run. Each migration
// executes at most once; reruns at startup are no-ops by version
// check, not by catching schema errors.
type schemaMigration struct {
	Version   int `gorm:"primaryKey"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	version int
	apply   func(tx *gorm.DB) error
}

var migrations = []migration{
	{
		version: 1,
		apply: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&domain.User{},
				&domain.Message{},
				&domain.Thread{},
				&domain.FriendRequest{},
				&domain.Friend{},
			)
		},
	},
	{
		// The board ships with one seed thread so the feed is never
		// empty on a fresh install.
		version: 2,
		apply: func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&domain.Thread{ID: 1, Title: "雑談スレ", CreatedAt: time.Now().UTC()}).Error
		},
	},
}

// Migrate brings the schema up to date. Safe to call on every startup.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("migrate: init version table: %w", err)
	}
	for _, m := range migrations {
		applied, err := migrationApplied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.version, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migrate: version %d: %w", m.version, err)
		}
	}
	return nil
}

func migrationApplied(ctx context.Context, db *gorm.DB, version int) (bool, error) {
	var row schemaMigration
	err := db.WithContext(ctx).First(&row, "version = ?", version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
