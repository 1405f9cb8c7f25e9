package entities

import "time"

// CompletionThreshold is the fraction of a video's duration past which a
// playback tick marks the video completed automatically.
const CompletionThreshold = 0.95

// VideoProgress tracks how far a video has been watched. At most one row
// exists per video (unique index on video_id); writes go through an upsert.
//
// Completed is monotonic under automatic updates: once true, only the
// explicit mark-incomplete operation clears it. Every tick re-evaluates the
// threshold rule from the stored flag, so a cleared video re-completes when
// it is watched past the threshold again.
type VideoProgress struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	VideoID     string    `gorm:"uniqueIndex;size:36" json:"video_id"`
	CurrentTime float64   `json:"current_time"`
	Duration    float64   `json:"duration"`
	Completed   bool      `json:"completed"`
	LastWatched time.Time `json:"last_watched"`
	WatchCount  int       `json:"watch_count"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}

// AutoCompleted reports whether a playback position is past the completion
// threshold for the given duration. A zero duration never auto-completes.
func AutoCompleted(currentTime, duration float64) bool {
	return duration > 0 && currentTime >= duration*CompletionThreshold
}
