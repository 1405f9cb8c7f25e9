// Package courses provides database operations for the course/module/video
// hierarchy.
//
// Rows here are produced by the file-system scanner and are never mutated
// afterwards except for last_accessed and the denormalized counts. Deleting
// a course cascades through modules, videos, progress, notes and bookmarks;
// the activity log intentionally survives.
package courses

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

// Repository handles all course, module and video database operations.
type Repository struct {
	db  *gorm.DB
	rec ActivityRecorder
}

// NewRepository creates a new courses repository.
func NewRepository(db *gorm.DB, rec ActivityRecorder) *Repository {
	return &Repository{db: db, rec: rec}
}

// VideoWithProgress pairs a video with its progress row, when one exists.
type VideoWithProgress struct {
	Video    entities.Video          `json:"video"`
	Progress *entities.VideoProgress `json:"progress,omitempty"`
}

// CompletionStats summarizes how much of a course has been watched.
type CompletionStats struct {
	TotalVideos     int `json:"total_videos"`
	CompletedVideos int `json:"completed_videos"`
	Percent         int `json:"percent"`
}

// CreateCourse validates and inserts a course, assigning an id when absent.
func (r *Repository) CreateCourse(course *entities.Course) error {
	if course.Name == "" {
		return &database.ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if course.Path == "" {
		return &database.ValidationError{Field: "path", Reason: "must not be blank"}
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}

	err := database.Transact(r.db, "create course", func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
	if err != nil {
		return database.Translate("create course", "course", course.ID, err)
	}

	r.rec.Record(entities.ActivityCourseCreated, course.ID, "course",
		fmt.Sprintf("Course added: %s", course.Name))
	return nil
}

// CreateModule validates and inserts a module. The parent course must
// exist and the order index must be free within it.
func (r *Repository) CreateModule(module *entities.Module) error {
	if module.Name == "" {
		return &database.ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if module.CourseID == "" {
		return &database.ValidationError{Field: "course_id", Reason: "must not be blank"}
	}
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	if module.CreatedAt.IsZero() {
		module.CreatedAt = time.Now().UTC()
	}

	err := database.Transact(r.db, "create module", func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Course{}, "id = ?", module.CourseID).Error; err != nil {
			return database.Translate("create module", "course", module.CourseID, err)
		}
		var clash int64
		if err := tx.Model(&entities.Module{}).
			Where("course_id = ? AND order_index = ?", module.CourseID, module.OrderIndex).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return &database.ConstraintError{
				Op:  "create module",
				Err: fmt.Errorf("order_index %d already used in course %s", module.OrderIndex, module.CourseID),
			}
		}
		return tx.Create(module).Error
	})
	if err != nil {
		return database.Translate("create module", "module", module.ID, err)
	}

	r.rec.Record(entities.ActivityModuleCreated, module.ID, "module",
		fmt.Sprintf("Module added: %s", module.Name))
	return nil
}

// CreateVideo validates and inserts a video. Both parents must exist and
// the order index must be free within the module.
func (r *Repository) CreateVideo(video *entities.Video) error {
	if video.Name == "" {
		return &database.ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if video.FilePath == "" {
		return &database.ValidationError{Field: "file_path", Reason: "must not be blank"}
	}
	if video.ModuleID == "" || video.CourseID == "" {
		return &database.ValidationError{Field: "module_id", Reason: "module and course references are required"}
	}
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}

	err := database.Transact(r.db, "create video", func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Module{}, "id = ?", video.ModuleID).Error; err != nil {
			return database.Translate("create video", "module", video.ModuleID, err)
		}
		if err := tx.Select("id").First(&entities.Course{}, "id = ?", video.CourseID).Error; err != nil {
			return database.Translate("create video", "course", video.CourseID, err)
		}
		var clash int64
		if err := tx.Model(&entities.Video{}).
			Where("module_id = ? AND order_index = ?", video.ModuleID, video.OrderIndex).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return &database.ConstraintError{
				Op:  "create video",
				Err: fmt.Errorf("order_index %d already used in module %s", video.OrderIndex, video.ModuleID),
			}
		}
		return tx.Create(video).Error
	})
	if err != nil {
		return database.Translate("create video", "video", video.ID, err)
	}

	r.rec.Record(entities.ActivityVideoCreated, video.ID, "video",
		fmt.Sprintf("Video added: %s", video.Name))
	return nil
}

// GetAllCourses lists courses, most recently accessed first.
func (r *Repository) GetAllCourses() ([]entities.Course, error) {
	var list []entities.Course
	err := r.db.Order("last_accessed DESC, name ASC").Find(&list).Error
	return list, err
}

// GetCourse retrieves a course by id.
func (r *Repository) GetCourse(id string) (*entities.Course, error) {
	var course entities.Course
	if err := r.db.First(&course, "id = ?", id).Error; err != nil {
		return nil, database.Translate("get course", "course", id, err)
	}
	return &course, nil
}

// GetCourseByPath retrieves a course by its directory path, or nil when no
// course has been scanned from it.
func (r *Repository) GetCourseByPath(path string) (*entities.Course, error) {
	var course entities.Course
	err := r.db.Where("path = ?", path).First(&course).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate("get course by path", "course", path, err)
	}
	return &course, nil
}

// GetCourseModules lists a course's modules in order.
func (r *Repository) GetCourseModules(courseID string) ([]entities.Module, error) {
	var list []entities.Module
	err := r.db.Where("course_id = ?", courseID).
		Order("order_index ASC").Find(&list).Error
	return list, err
}

// GetModule retrieves a module by id.
func (r *Repository) GetModule(id string) (*entities.Module, error) {
	var module entities.Module
	if err := r.db.First(&module, "id = ?", id).Error; err != nil {
		return nil, database.Translate("get module", "module", id, err)
	}
	return &module, nil
}

// GetModuleByPath retrieves a course's module by directory path, or nil
// when the path has not been scanned into that course.
func (r *Repository) GetModuleByPath(courseID, path string) (*entities.Module, error) {
	var module entities.Module
	err := r.db.Where("course_id = ? AND path = ?", courseID, path).First(&module).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate("get module by path", "module", path, err)
	}
	return &module, nil
}

// GetModuleVideos lists a module's videos in order.
func (r *Repository) GetModuleVideos(moduleID string) ([]entities.Video, error) {
	var list []entities.Video
	err := r.db.Where("module_id = ?", moduleID).
		Order("order_index ASC").Find(&list).Error
	return list, err
}

// GetVideo retrieves a video by id.
func (r *Repository) GetVideo(id string) (*entities.Video, error) {
	var video entities.Video
	if err := r.db.First(&video, "id = ?", id).Error; err != nil {
		return nil, database.Translate("get video", "video", id, err)
	}
	return &video, nil
}

// GetVideoByPath retrieves a video by file path, or nil when the path is
// not in the library.
func (r *Repository) GetVideoByPath(path string) (*entities.Video, error) {
	var video entities.Video
	err := r.db.Where("file_path = ?", path).First(&video).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, database.Translate("get video by path", "video", path, err)
	}
	return &video, nil
}

// UpdateCourseCounts refreshes the denormalized module/video totals after a
// rescan.
func (r *Repository) UpdateCourseCounts(courseID string, totalModules, totalVideos int) error {
	err := database.Transact(r.db, "update course counts", func(tx *gorm.DB) error {
		return tx.Model(&entities.Course{}).Where("id = ?", courseID).
			Updates(map[string]any{
				"total_modules": totalModules,
				"total_videos":  totalVideos,
			}).Error
	})
	return database.Translate("update course counts", "course", courseID, err)
}

// TouchLastAccessed stamps a course as just opened.
func (r *Repository) TouchLastAccessed(courseID string) error {
	err := database.Transact(r.db, "touch course", func(tx *gorm.DB) error {
		return tx.Model(&entities.Course{}).Where("id = ?", courseID).
			Update("last_accessed", time.Now().UTC()).Error
	})
	return database.Translate("touch course", "course", courseID, err)
}

// DeleteCourse removes a course and, through the cascade rules, every
// module, video, progress row, note and bookmark under it. Deleting an
// absent id is a no-op.
func (r *Repository) DeleteCourse(id string) error {
	var affected int64
	err := database.Transact(r.db, "delete course", func(tx *gorm.DB) error {
		result := tx.Delete(&entities.Course{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return database.Translate("delete course", "course", id, err)
	}

	if affected > 0 {
		r.rec.Record(entities.ActivityCourseDeleted, id, "course", "Course removed from library")
	}
	return nil
}

// GetRecentVideos returns in-progress videos, most recently watched first.
func (r *Repository) GetRecentVideos(limit int) ([]VideoWithProgress, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []entities.VideoProgress
	err := r.db.Where("completed = ?", false).
		Order("last_watched DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]VideoWithProgress, 0, len(rows))
	for i := range rows {
		var video entities.Video
		if err := r.db.First(&video, "id = ?", rows[i].VideoID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, VideoWithProgress{Video: video, Progress: &rows[i]})
	}
	return out, nil
}

// GetCompletedVideos returns every completed video, optionally scoped to a
// course, most recently watched first.
func (r *Repository) GetCompletedVideos(courseID string) ([]VideoWithProgress, error) {
	q := r.db.Table("video_progress").
		Joins("JOIN videos ON videos.id = video_progress.video_id").
		Where("video_progress.completed = ?", true)
	if courseID != "" {
		q = q.Where("videos.course_id = ?", courseID)
	}

	var rows []entities.VideoProgress
	if err := q.Select("video_progress.*").
		Order("video_progress.last_watched DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]VideoWithProgress, 0, len(rows))
	for i := range rows {
		var video entities.Video
		if err := r.db.First(&video, "id = ?", rows[i].VideoID).Error; err != nil {
			return nil, err
		}
		out = append(out, VideoWithProgress{Video: video, Progress: &rows[i]})
	}
	return out, nil
}

// GetIncompleteVideos returns every video not yet completed, optionally
// scoped to a course. Videos that have never been played carry a nil
// progress.
func (r *Repository) GetIncompleteVideos(courseID string) ([]VideoWithProgress, error) {
	q := r.db.
		Joins("LEFT JOIN video_progress ON video_progress.video_id = videos.id").
		Where("video_progress.id IS NULL OR video_progress.completed = ?", false)
	if courseID != "" {
		q = q.Where("videos.course_id = ?", courseID)
	}

	var videos []entities.Video
	if err := q.Order("videos.course_id, videos.order_index").Find(&videos).Error; err != nil {
		return nil, err
	}

	out := make([]VideoWithProgress, 0, len(videos))
	for _, v := range videos {
		var row entities.VideoProgress
		err := r.db.Where("video_id = ?", v.ID).First(&row).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			out = append(out, VideoWithProgress{Video: v})
		case err != nil:
			return nil, err
		default:
			p := row
			out = append(out, VideoWithProgress{Video: v, Progress: &p})
		}
	}
	return out, nil
}

// GetCourseCompletionStats counts a course's videos and how many are
// completed.
func (r *Repository) GetCourseCompletionStats(courseID string) (CompletionStats, error) {
	var stats CompletionStats

	var total int64
	err := r.db.Model(&entities.Video{}).
		Where("course_id = ?", courseID).Count(&total).Error
	if err != nil {
		return stats, err
	}

	var completed int64
	err = r.db.Table("video_progress").
		Joins("JOIN videos ON videos.id = video_progress.video_id").
		Where("videos.course_id = ? AND video_progress.completed = ?", courseID, true).
		Count(&completed).Error
	if err != nil {
		return stats, err
	}

	stats.TotalVideos = int(total)
	stats.CompletedVideos = int(completed)
	if total > 0 {
		stats.Percent = int(completed * 100 / total)
	}
	return stats, nil
}
