// Package migrate upgrades an on-disk store to the current schema version.
//
// The engine is a state machine over an integer version: it reads the
// store's version from schema_metadata, then applies each missing step in
// order inside its own all-or-nothing transaction, writing the new version
// and last_migration timestamp in the same transaction as the step's DDL.
// A fresh store short-circuits: every table is created at the target
// version directly and the default settings are seeded.
//
// Running the engine against an already-current store is a no-op. A store
// reporting a version newer than the target refuses to open.
package migrate

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rnovais/coursetrack/internal/database/schema"
	"github.com/rnovais/coursetrack/internal/entities"
)

// MigrationError reports that a versioned step failed to commit. Fatal at
// startup: the store must not be used in a partially-migrated state.
type MigrationError struct {
	Version int
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration to schema version %d failed: %v", e.Version, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// ErrVersionTooNew means the store was written by a newer build. Refuse to
// open rather than guess at unknown row shapes.
var ErrVersionTooNew = errors.New("store schema version is newer than supported")

// Run brings the store up to schema.TargetVersion.
func Run(db *gorm.DB) error {
	current, err := CurrentVersion(db)
	if err != nil {
		return &MigrationError{Version: current, Err: err}
	}

	switch {
	case current > schema.TargetVersion:
		return fmt.Errorf("%w: store at version %d, supported up to %d",
			ErrVersionTooNew, current, schema.TargetVersion)
	case current == schema.TargetVersion:
		return nil
	case current == 0:
		log.Printf("Fresh store detected, creating schema at version %d", schema.TargetVersion)
		if err := initialize(db); err != nil {
			return &MigrationError{Version: schema.TargetVersion, Err: err}
		}
		return nil
	}

	for v := current + 1; v <= schema.TargetVersion; v++ {
		log.Printf("Applying schema migration step %d", v)
		if err := applyStep(db, v); err != nil {
			return &MigrationError{Version: v, Err: err}
		}
	}
	return nil
}

// CurrentVersion reads the store's schema version. A store without a
// metadata table is either a legacy version-1 store (entity tables exist)
// or a fresh file (version 0).
func CurrentVersion(db *gorm.DB) (int, error) {
	if !db.Migrator().HasTable("schema_metadata") {
		if db.Migrator().HasTable("courses") {
			return 1, nil
		}
		return 0, nil
	}

	var meta entities.SchemaMetadata
	err := db.Where("key = ?", entities.MetadataKeyVersion).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Metadata table without a version row: treat like a legacy store.
		if db.Migrator().HasTable("courses") {
			return 1, nil
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	v, err := strconv.Atoi(meta.Value)
	if err != nil {
		return 0, fmt.Errorf("schema version %q is not an integer: %w", meta.Value, err)
	}
	return v, nil
}

// initialize creates a fresh store at the target version in one
// transaction: all tables and indexes, the default settings, and the
// metadata rows.
func initialize(db *gorm.DB) error {
	now := time.Now().UTC()
	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range schema.TablesAt(schema.TargetVersion) {
			if err := tx.Exec(t.Create).Error; err != nil {
				return fmt.Errorf("creating table %s: %w", t.Name, err)
			}
		}
		for _, idx := range schema.IndexesAt(schema.TargetVersion) {
			if err := tx.Exec(idx).Error; err != nil {
				return fmt.Errorf("creating index: %w", err)
			}
		}
		if err := seedDefaultSettings(tx, now); err != nil {
			return err
		}
		if err := writeMetadata(tx, entities.MetadataKeyCreatedAt, now.Format(time.RFC3339), now); err != nil {
			return err
		}
		return stampVersion(tx, schema.TargetVersion, now)
	})
}

// applyStep applies the single step that moves the store from v-1 to v.
// All statements commit together with the version bump, or none do and the
// store stays at v-1.
func applyStep(db *gorm.DB, v int) error {
	now := time.Now().UTC()
	return db.Transaction(func(tx *gorm.DB) error {
		tables, cols := schema.Diff(v-1, v)

		for _, t := range tables {
			if err := tx.Exec(t.Create).Error; err != nil {
				return fmt.Errorf("creating table %s: %w", t.Name, err)
			}
		}

		for _, c := range cols {
			has, err := hasColumn(tx, c.Table, c.Name)
			if err != nil {
				return err
			}
			if has {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", c.Table, c.Definition)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("adding column %s.%s: %w", c.Table, c.Name, err)
			}
		}

		// Index creation is CREATE IF NOT EXISTS, so re-applying the full
		// set also covers pre-existing tables that gained indexes.
		for _, idx := range schema.IndexesAt(v) {
			if err := tx.Exec(idx).Error; err != nil {
				return fmt.Errorf("creating index: %w", err)
			}
		}

		return stampVersion(tx, v, now)
	})
}

func hasColumn(tx *gorm.DB, table, column string) (bool, error) {
	var count int64
	err := tx.Raw(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("inspecting %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

func stampVersion(tx *gorm.DB, v int, now time.Time) error {
	if err := writeMetadata(tx, entities.MetadataKeyVersion, strconv.Itoa(v), now); err != nil {
		return err
	}
	return writeMetadata(tx, entities.MetadataKeyLastMigration, now.Format(time.RFC3339), now)
}

func writeMetadata(tx *gorm.DB, key, value string, now time.Time) error {
	meta := entities.SchemaMetadata{Key: key, Value: value, UpdatedAt: now}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("writing metadata %s: %w", key, err)
	}
	return nil
}

func seedDefaultSettings(tx *gorm.DB, now time.Time) error {
	for _, s := range entities.DefaultSettings {
		var count int64
		if err := tx.Model(&entities.UserSetting{}).
			Where("setting_key = ?", s.SettingKey).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking setting %s: %w", s.SettingKey, err)
		}
		if count > 0 {
			continue
		}
		s.ID = uuid.NewString()
		s.UpdatedAt = now
		if err := tx.Create(&s).Error; err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.SettingKey, err)
		}
	}
	return nil
}
