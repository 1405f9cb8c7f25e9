// Package notes provides database operations for user annotations.
//
// A note may be scoped to a video, a module, a course, any combination, or
// nothing at all; the queries handle all-absent, partially-present and
// fully-present references explicitly.
package notes

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/entities"
)

// Order selects the list ordering for note queries. The default is
// timestamp ascending.
type Order string

const (
	OrderTimestamp Order = "timestamp"
	OrderCreatedAt Order = "created_at"
	OrderTitle     Order = "title"
)

// ActivityRecorder receives one entry per committed mutation.
type ActivityRecorder interface {
	Record(activityType entities.ActivityType, entityID, entityType, details string)
}

// Repository handles all note database operations.
type Repository struct {
	db  *gorm.DB
	rec ActivityRecorder
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB, rec ActivityRecorder) *Repository {
	return &Repository{db: db, rec: rec}
}

// CreateParams carries the fields for a new note. The three entity
// references are each optional.
type CreateParams struct {
	VideoID   *string
	CourseID  *string
	ModuleID  *string
	Timestamp *float64
	Title     string
	Content   string
	NoteType  entities.NoteType
}

// Create validates the params, checks every referenced parent exists, and
// inserts the note. The timestamp, when present together with a video
// reference, must lie within the video's duration.
func (r *Repository) Create(p CreateParams) (*entities.UserNote, error) {
	if p.Title == "" {
		return nil, &database.ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if p.Content == "" {
		return nil, &database.ValidationError{Field: "content", Reason: "must not be blank"}
	}
	if p.NoteType == "" {
		p.NoteType = entities.NoteTypeNote
	}
	if !entities.ValidNoteType(p.NoteType) {
		return nil, &database.ValidationError{Field: "note_type", Reason: fmt.Sprintf("unknown type %q", p.NoteType)}
	}
	if p.Timestamp != nil && *p.Timestamp < 0 {
		return nil, &database.ValidationError{Field: "timestamp", Reason: "must not be negative"}
	}

	now := time.Now().UTC()
	note := entities.UserNote{
		ID:        uuid.NewString(),
		VideoID:   p.VideoID,
		CourseID:  p.CourseID,
		ModuleID:  p.ModuleID,
		Timestamp: p.Timestamp,
		Title:     p.Title,
		Content:   p.Content,
		NoteType:  p.NoteType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := database.Transact(r.db, "create note", func(tx *gorm.DB) error {
		if p.VideoID != nil {
			var video entities.Video
			if err := tx.First(&video, "id = ?", *p.VideoID).Error; err != nil {
				return database.Translate("create note", "video", *p.VideoID, err)
			}
			if p.Timestamp != nil && video.Duration > 0 && *p.Timestamp > video.Duration {
				return &database.ValidationError{
					Field:  "timestamp",
					Reason: fmt.Sprintf("%.1fs is past the video duration %.1fs", *p.Timestamp, video.Duration),
				}
			}
		}
		if p.ModuleID != nil {
			if err := parentExists(tx, &entities.Module{}, *p.ModuleID); err != nil {
				return database.Translate("create note", "module", *p.ModuleID, err)
			}
		}
		if p.CourseID != nil {
			if err := parentExists(tx, &entities.Course{}, *p.CourseID); err != nil {
				return database.Translate("create note", "course", *p.CourseID, err)
			}
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		return nil, database.Translate("create note", "note", note.ID, err)
	}

	r.rec.Record(entities.ActivityNoteCreated, note.ID, "note",
		fmt.Sprintf("Note created: %s", note.Title))
	return &note, nil
}

func parentExists(tx *gorm.DB, model any, id string) error {
	return tx.Select("id").First(model, "id = ?", id).Error
}

// Get retrieves a note by id.
func (r *Repository) Get(id string) (*entities.UserNote, error) {
	var note entities.UserNote
	if err := r.db.First(&note, "id = ?", id).Error; err != nil {
		return nil, database.Translate("get note", "note", id, err)
	}
	return &note, nil
}

// GetByVideo returns the notes attached to a video.
func (r *Repository) GetByVideo(videoID string, order Order, desc bool) ([]entities.UserNote, error) {
	return r.list(r.db.Where("video_id = ?", videoID), order, desc)
}

// GetByModule returns the notes attached to a module.
func (r *Repository) GetByModule(moduleID string, order Order, desc bool) ([]entities.UserNote, error) {
	return r.list(r.db.Where("module_id = ?", moduleID), order, desc)
}

// GetByCourse returns the notes attached to a course.
func (r *Repository) GetByCourse(courseID string, order Order, desc bool) ([]entities.UserNote, error) {
	return r.list(r.db.Where("course_id = ?", courseID), order, desc)
}

// GetGeneral returns notes with no entity reference at all.
func (r *Repository) GetGeneral(order Order, desc bool) ([]entities.UserNote, error) {
	return r.list(r.db.Where("video_id IS NULL AND course_id IS NULL AND module_id IS NULL"), order, desc)
}

// GetAll returns every note.
func (r *Repository) GetAll(order Order, desc bool) ([]entities.UserNote, error) {
	return r.list(r.db, order, desc)
}

func (r *Repository) list(q *gorm.DB, order Order, desc bool) ([]entities.UserNote, error) {
	var notes []entities.UserNote
	err := q.Order(orderClause(order, desc)).Find(&notes).Error
	return notes, err
}

func orderClause(order Order, desc bool) string {
	col := "timestamp"
	switch order {
	case OrderCreatedAt:
		col = "created_at"
	case OrderTitle:
		col = "title"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// Update changes a note's title and content, the only user-mutable fields,
// and refreshes updated_at.
func (r *Repository) Update(id, title, content string) (*entities.UserNote, error) {
	if title == "" {
		return nil, &database.ValidationError{Field: "title", Reason: "must not be blank"}
	}

	var note entities.UserNote
	err := database.Transact(r.db, "update note", func(tx *gorm.DB) error {
		if err := tx.First(&note, "id = ?", id).Error; err != nil {
			return err
		}
		note.Title = title
		note.Content = content
		note.UpdatedAt = time.Now().UTC()
		return tx.Save(&note).Error
	})
	if err != nil {
		return nil, database.Translate("update note", "note", id, err)
	}

	r.rec.Record(entities.ActivityNoteUpdated, note.ID, "note",
		fmt.Sprintf("Note updated: %s", note.Title))
	return &note, nil
}

// Delete removes a note. Deleting an id that does not exist is treated as
// success, so the operation is idempotent; only an actual removal is
// recorded in the activity log.
func (r *Repository) Delete(id string) error {
	var affected int64
	err := database.Transact(r.db, "delete note", func(tx *gorm.DB) error {
		result := tx.Delete(&entities.UserNote{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return database.Translate("delete note", "note", id, err)
	}

	if affected > 0 {
		r.rec.Record(entities.ActivityNoteDeleted, id, "note", "Note deleted")
	}
	return nil
}
