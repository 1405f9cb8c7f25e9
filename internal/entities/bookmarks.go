package entities

import "time"

// VideoBookmark is a user-placed marker at a position within a video.
// Timestamp must lie within [0, video.duration].
type VideoBookmark struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	VideoID     string    `gorm:"index;size:36" json:"video_id"`
	Timestamp   float64   `gorm:"index" json:"timestamp"`
	Title       string    `gorm:"size:512" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (VideoBookmark) TableName() string {
	return "video_bookmarks"
}
