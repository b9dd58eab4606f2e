package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SpladlesRUs/calendar-hub/internal/domain/tenant"
	"github.com/SpladlesRUs/calendar-hub/pkg/config"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm handle.
type Database struct {
	*gorm.DB
}

// NewDatabase opens the configured store. The default is a sqlite file
// so a single-binary deployment needs no external services; postgres is
// available for multi-replica setups.
func NewDatabase(cfg *config.Config) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var db *gorm.DB
	var err error

	switch cfg.Database.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.SSLMode,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create database dir: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.Database.Path), gormConfig)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Migrate creates or updates the schema.
func (db *Database) Migrate() error {
	return db.AutoMigrate(&tenant.CalendarConfig{})
}
