// Package progress provides the watch-progress write path.
//
// A video has at most one progress row, keyed by a unique index on
// video_id; every write is an upsert. The completed flag is monotonic for
// automatic updates: a playback tick can only set it, never clear it. The
// explicit mark-incomplete operation is the single way to clear the flag,
// after which the threshold rule applies again from the stored value.
package progress

import (
	"errors"
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

// Repository handles all video progress database operations.
type Repository struct {
	db  *gorm.DB
	rec ActivityRecorder
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB, rec ActivityRecorder) *Repository {
	return &Repository{db: db, rec: rec}
}

// UpsertParams is one accepted playback tick. NewSession marks the first
// persisted tick of a playback session, which is the only write that
// increments watch_count.
type UpsertParams struct {
	VideoID     string
	CurrentTime float64
	Duration    float64
	NewSession  bool
}

// UpsertResult reports the row as persisted. CompletedNow is true only for
// the write that transitioned completed from false to true.
type UpsertResult struct {
	Progress     entities.VideoProgress
	CompletedNow bool
}

// Upsert persists a playback position. The position is clamped to
// [0, duration], the completion threshold is re-evaluated against the
// stored flag (monotonic OR), and the single row per video is inserted or
// updated in place.
func (r *Repository) Upsert(p UpsertParams) (*UpsertResult, error) {
	if p.VideoID == "" {
		return nil, &database.ValidationError{Field: "video_id", Reason: "must not be blank"}
	}

	current := p.CurrentTime
	if current < 0 {
		current = 0
	}
	if p.Duration > 0 && current > p.Duration {
		current = p.Duration
	}
	auto := entities.AutoCompleted(current, p.Duration)

	var result UpsertResult
	err := database.Transact(r.db, "update progress", func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Video{}, "id = ?", p.VideoID).Error; err != nil {
			return database.Translate("update progress", "video", p.VideoID, err)
		}

		var row entities.VideoProgress
		err := tx.Where("video_id = ?", p.VideoID).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = entities.VideoProgress{
				ID:          uuid.NewString(),
				VideoID:     p.VideoID,
				CurrentTime: current,
				Duration:    p.Duration,
				Completed:   auto,
				LastWatched: time.Now().UTC(),
				WatchCount:  1,
			}
			result = UpsertResult{Progress: row, CompletedNow: auto}
			return tx.Create(&row).Error
		case err != nil:
			return err
		}

		completedNow := !row.Completed && auto
		row.CurrentTime = current
		row.Duration = p.Duration
		row.Completed = row.Completed || auto
		row.LastWatched = time.Now().UTC()
		if p.NewSession {
			row.WatchCount++
		}
		result = UpsertResult{Progress: row, CompletedNow: completedNow}
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, database.Translate("update progress", "progress", p.VideoID, err)
	}

	r.rec.Record(entities.ActivityProgressUpdated, p.VideoID, "video",
		fmt.Sprintf("Progress saved at %.1fs", result.Progress.CurrentTime))
	if result.CompletedNow {
		r.rec.Record(entities.ActivityVideoCompleted, p.VideoID, "video",
			"Video completed automatically at the watch threshold")
	}
	return &result, nil
}

// MarkCompleted is the explicit user toggle. Unlike ticks it may clear the
// completed flag; a row is created when none exists yet so a never-played
// video can still be marked done.
func (r *Repository) MarkCompleted(videoID string, completed bool) (*entities.VideoProgress, error) {
	if videoID == "" {
		return nil, &database.ValidationError{Field: "video_id", Reason: "must not be blank"}
	}

	var row entities.VideoProgress
	err := database.Transact(r.db, "mark completed", func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Video{}, "id = ?", videoID).Error; err != nil {
			return database.Translate("mark completed", "video", videoID, err)
		}

		err := tx.Where("video_id = ?", videoID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = entities.VideoProgress{
				ID:          uuid.NewString(),
				VideoID:     videoID,
				Completed:   completed,
				LastWatched: time.Now().UTC(),
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		row.Completed = completed
		row.LastWatched = time.Now().UTC()
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, database.Translate("mark completed", "progress", videoID, err)
	}

	if completed {
		r.rec.Record(entities.ActivityVideoCompleted, videoID, "video",
			"Video marked completed manually")
	} else {
		r.rec.Record(entities.ActivityVideoIncomplete, videoID, "video",
			"Video marked incomplete")
	}
	return &row, nil
}

// Get returns the progress row for a video, or nil when the video has
// never been played.
func (r *Repository) Get(videoID string) (*entities.VideoProgress, error) {
	var row entities.VideoProgress
	err := r.db.Where("video_id = ?", videoID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate("get progress", "progress", videoID, err)
	}
	return &row, nil
}
