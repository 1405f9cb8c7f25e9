package entities

import "time"

type ActivityType string

const (
	ActivityNoteCreated     ActivityType = "note_created"
	ActivityNoteUpdated     ActivityType = "note_updated"
	ActivityNoteDeleted     ActivityType = "note_deleted"
	ActivityBookmarkCreated ActivityType = "bookmark_created"
	ActivityBookmarkUpdated ActivityType = "bookmark_updated"
	ActivityBookmarkDeleted ActivityType = "bookmark_deleted"
	ActivityProgressUpdated ActivityType = "progress_updated"
	ActivityVideoCompleted  ActivityType = "video_completed"
	ActivityVideoIncomplete ActivityType = "video_marked_incomplete"
	ActivitySettingUpdated  ActivityType = "setting_updated"
	ActivityCourseCreated   ActivityType = "course_created"
	ActivityModuleCreated   ActivityType = "module_created"
	ActivityVideoCreated    ActivityType = "video_created"
	ActivityCourseScanned   ActivityType = "course_scanned"
	ActivityCourseDeleted   ActivityType = "course_deleted"
)

// ActivityLogEntry is one row of the append-only audit trail. It references
// the affected entity by id and type only, with no foreign key, so history
// survives entity deletion. Entries are never updated or deleted by normal
// operation.
type ActivityLogEntry struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	ActivityType ActivityType `gorm:"index;size:50" json:"activity_type"`
	EntityID     string       `gorm:"size:36" json:"entity_id"`
	EntityType   string       `gorm:"size:50" json:"entity_type"`
	Details      *string      `gorm:"type:text" json:"details,omitempty"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
}

func (ActivityLogEntry) TableName() string {
	return "activity_log"
}
