package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rnovais/coursetrack/internal/database/migrate"
	"github.com/rnovais/coursetrack/internal/database/schema"
)

// Database is the handle to the file-resident store. It is opened once at
// process start and passed explicitly to every repository; there is no
// ambient global state.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (creating if absent) the store at dbPath and runs the
// migration engine. A migration failure is fatal for startup: the store is
// never handed out in a partially-migrated state.
func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	// Foreign keys drive the cascade deletes; the busy timeout covers the
	// rare overlap between a playback tick and a user-initiated write.
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate.Run(db); err != nil {
		return nil, err
	}

	log.Printf("Store initialized at %s (schema version %d)", dbPath, schema.TargetVersion)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
