package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const SqlitePrefix = "sqlite://"

// NewDatabase opens the run ledger and brings its schema up to date. uri is
// either sqlite://<path> or a postgres connection string.
func NewDatabase(uri string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(uri, SqlitePrefix):
		dialector = sqlite.Open(strings.TrimPrefix(uri, SqlitePrefix))
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		dialector = postgres.Open(uri)
	default:
		return nil, fmt.Errorf("unsupported database uri '%s', expected sqlite:// or postgres://", uri)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	slog.Info("run ledger ready", "dialect", db.Dialector.Name())
	return db, nil
}
