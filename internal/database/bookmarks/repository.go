// Package bookmarks provides database operations for video bookmarks.
package bookmarks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/entities"
)

// ActivityRecorder receives one entry per committed mutation.
type ActivityRecorder interface {
	Record(activityType entities.ActivityType, entityID, entityType, details string)
}

// Repository handles all bookmark database operations.
type Repository struct {
	db  *gorm.DB
	rec ActivityRecorder
}

// NewRepository creates a new bookmarks repository.
func NewRepository(db *gorm.DB, rec ActivityRecorder) *Repository {
	return &Repository{db: db, rec: rec}
}

// Create validates and inserts a bookmark. The video must exist and the
// timestamp must lie within [0, video.duration].
func (r *Repository) Create(videoID string, timestamp float64, title string, description *string) (*entities.VideoBookmark, error) {
	if videoID == "" {
		return nil, &database.ValidationError{Field: "video_id", Reason: "must not be blank"}
	}
	if title == "" {
		return nil, &database.ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if timestamp < 0 {
		return nil, &database.ValidationError{Field: "timestamp", Reason: "must not be negative"}
	}

	bookmark := entities.VideoBookmark{
		ID:          uuid.NewString(),
		VideoID:     videoID,
		Timestamp:   timestamp,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	err := database.Transact(r.db, "create bookmark", func(tx *gorm.DB) error {
		var video entities.Video
		if err := tx.First(&video, "id = ?", videoID).Error; err != nil {
			return database.Translate("create bookmark", "video", videoID, err)
		}
		if video.Duration > 0 && timestamp > video.Duration {
			return &database.ValidationError{
				Field:  "timestamp",
				Reason: fmt.Sprintf("%.1fs is past the video duration %.1fs", timestamp, video.Duration),
			}
		}
		return tx.Create(&bookmark).Error
	})
	if err != nil {
		return nil, database.Translate("create bookmark", "bookmark", bookmark.ID, err)
	}

	r.rec.Record(entities.ActivityBookmarkCreated, bookmark.ID, "bookmark",
		fmt.Sprintf("Bookmark created: %s", bookmark.Title))
	return &bookmark, nil
}

// Get retrieves a bookmark by id.
func (r *Repository) Get(id string) (*entities.VideoBookmark, error) {
	var bookmark entities.VideoBookmark
	if err := r.db.First(&bookmark, "id = ?", id).Error; err != nil {
		return nil, database.Translate("get bookmark", "bookmark", id, err)
	}
	return &bookmark, nil
}

// GetByVideo returns a video's bookmarks ordered by position.
func (r *Repository) GetByVideo(videoID string) ([]entities.VideoBookmark, error) {
	var bookmarks []entities.VideoBookmark
	err := r.db.Where("video_id = ?", videoID).
		Order("timestamp ASC").Find(&bookmarks).Error
	return bookmarks, err
}

// UpdateDescription changes a bookmark's description, its only mutable
// field.
func (r *Repository) UpdateDescription(id string, description *string) (*entities.VideoBookmark, error) {
	var bookmark entities.VideoBookmark
	err := database.Transact(r.db, "update bookmark", func(tx *gorm.DB) error {
		if err := tx.First(&bookmark, "id = ?", id).Error; err != nil {
			return err
		}
		bookmark.Description = description
		return tx.Save(&bookmark).Error
	})
	if err != nil {
		return nil, database.Translate("update bookmark", "bookmark", id, err)
	}

	r.rec.Record(entities.ActivityBookmarkUpdated, bookmark.ID, "bookmark",
		fmt.Sprintf("Bookmark updated: %s", bookmark.Title))
	return &bookmark, nil
}

// Delete removes a bookmark. Absent ids are treated as success (idempotent
// delete); only an actual removal is recorded.
func (r *Repository) Delete(id string) error {
	var affected int64
	err := database.Transact(r.db, "delete bookmark", func(tx *gorm.DB) error {
		result := tx.Delete(&entities.VideoBookmark{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return database.Translate("delete bookmark", "bookmark", id, err)
	}

	if affected > 0 {
		r.rec.Record(entities.ActivityBookmarkDeleted, id, "bookmark", "Bookmark deleted")
	}
	return nil
}
