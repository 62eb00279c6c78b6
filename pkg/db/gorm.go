package db

import (
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type Config struct {
	// DSN is either a postgres URL (postgres://...) or a sqlite file
	// path. Local sqlite is the default deployment.
	DSN    string
	LogSQL bool
}

func OpenGorm(cfg Config) (*gorm.DB, error) {
	lvl := logger.Silent
	if cfg.LogSQL {
		lvl = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logger.New(log.New(log.Writer(), "", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		// Unique violations must come back as gorm.ErrDuplicatedKey on
		// both drivers; the stores rely on it instead of check-then-act.
		TranslateError: true,
	}
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return gorm.Open(postgres.Open(cfg.DSN), gcfg)
	}
	return gorm.Open(sqlite.Open(cfg.DSN), gcfg)
}
