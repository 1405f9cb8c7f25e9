package entities

import "time"

type NoteType string

const (
	NoteTypeNote      NoteType = "note"
	NoteTypeQuestion  NoteType = "question"
	NoteTypeImportant NoteType = "important"
	NoteTypeSummary   NoteType = "summary"
	NoteTypeGeneral   NoteType = "general"
)

// ValidNoteType reports whether t is one of the known note types.
func ValidNoteType(t NoteType) bool {
	switch t {
	case NoteTypeNote, NoteTypeQuestion, NoteTypeImportant, NoteTypeSummary, NoteTypeGeneral:
		return true
	}
	return false
}

// UserNote is a user annotation. It may be scoped to a video, a module, a
// course, any combination of those, or none at all (a general note), which
// is why the references are pointers rather than sentinel values.
// Timestamp is a position within the video and is only meaningful when
// VideoID is set.
type UserNote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	VideoID   *string   `gorm:"index;size:36" json:"video_id,omitempty"`
	CourseID  *string   `gorm:"index;size:36" json:"course_id,omitempty"`
	ModuleID  *string   `gorm:"index;size:36" json:"module_id,omitempty"`
	Timestamp *float64  `gorm:"index" json:"timestamp,omitempty"`
	Title     string    `gorm:"size:512" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	NoteType  NoteType  `gorm:"size:20;default:'note'" json:"note_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserNote) TableName() string {
	return "user_notes"
}
