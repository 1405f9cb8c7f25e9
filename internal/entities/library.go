package entities

import (
	"time"
)

// Course is a top-level directory of the media library. Courses own their
// modules and, transitively, every video and user record attached to them.
type Course struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Name         string     `gorm:"size:512" json:"name"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	Path         string     `gorm:"uniqueIndex;size:1024" json:"path"`
	TotalModules int        `json:"total_modules"`
	TotalVideos  int        `json:"total_videos"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`

	Modules []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module is a chapter/section of a course, ordered by OrderIndex.
type Module struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID    string    `gorm:"index;size:36" json:"course_id"`
	Name        string    `gorm:"size:512" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Path        string    `gorm:"size:1024" json:"path"`
	OrderIndex  int       `json:"order_index"`
	TotalVideos int       `json:"total_videos"`
	CreatedAt   time.Time `json:"created_at"`

	Videos []Video `gorm:"foreignKey:ModuleID" json:"videos,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// Video is a single playable file. CourseID is denormalized so that
// course-wide queries skip the module join.
type Video struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ModuleID    string    `gorm:"index;size:36" json:"module_id"`
	CourseID    string    `gorm:"index;size:36" json:"course_id"`
	Name        string    `gorm:"size:512" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	FilePath    string    `gorm:"uniqueIndex;size:1024" json:"file_path"`
	Duration    float64   `json:"duration,omitempty"` // seconds
	FileSize    int64     `json:"file_size,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}
