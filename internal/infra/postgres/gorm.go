package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cliplink/cliplink/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultConnMaxLifetime = 5 * time.Minute

// NewGorm opens the GORM connection all repositories run on, sharing the
// pool limits with the pgx side of the config.
func NewGorm(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(ConnString(cfg)), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: retrieve sql db: %w", err)
	}

	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(int(cfg.MinConns))
	}
	if d := parseDuration(cfg.MaxConnLifetime); d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	} else {
		sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)
	}

	return db, nil
}

// AutoMigrate applies the schema for the provided models.
func AutoMigrate(ctx context.Context, db *gorm.DB, models ...interface{}) error {
	if db == nil || len(models) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("postgres: auto migrate: %w", err)
	}
	return nil
}
