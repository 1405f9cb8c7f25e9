// Package activity provides the append-only activity log.
//
// Every successful mutation in the other repositories appends exactly one
// entry here, after the write committed — failed writes leave no trace.
// Entries are never updated or deleted by normal operation; retention is an
// operational concern outside this layer.
package activity

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rnovais/coursetrack/internal/entities"
)

// Repository handles activity log reads and appends.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new activity log repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one log entry, assigning an id and timestamp if absent.
func (r *Repository) Append(entry *entities.ActivityLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(entry).Error
}

// Record appends an entry describing a committed mutation. It is
// best-effort: the mutation already succeeded, so a failed append is
// logged and swallowed rather than bubbled up to the caller.
func (r *Repository) Record(activityType entities.ActivityType, entityID, entityType, details string) {
	entry := entities.ActivityLogEntry{
		ActivityType: activityType,
		EntityID:     entityID,
		EntityType:   entityType,
	}
	if details != "" {
		entry.Details = &details
	}
	if err := r.Append(&entry); err != nil {
		log.Printf("activity log append failed for %s on %s %s: %v",
			activityType, entityType, entityID, err)
	}
}

// GetRecent returns the most recent entries, newest first.
func (r *Repository) GetRecent(limit int) ([]entities.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []entities.ActivityLogEntry
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// GetByType returns entries of one activity type, newest first.
func (r *Repository) GetByType(activityType entities.ActivityType, limit int) ([]entities.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []entities.ActivityLogEntry
	err := r.db.Where("activity_type = ?", activityType).
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// GetByEntity returns the history recorded for one entity, newest first.
// Entries outlive the entity itself: the reference is by id and type only.
func (r *Repository) GetByEntity(entityID, entityType string, limit int) ([]entities.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []entities.ActivityLogEntry
	err := r.db.Where("entity_id = ? AND entity_type = ?", entityID, entityType).
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
