package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/database/courses"
	"github.com/rnovais/coursetrack/internal/entities"
)

// CourseStore defines database operations for the course hierarchy.
type CourseStore interface {
	GetAllCourses() ([]entities.Course, error)
	GetCourse(id string) (*entities.Course, error)
	GetCourseModules(courseID string) ([]entities.Module, error)
	GetModule(id string) (*entities.Module, error)
	GetModuleVideos(moduleID string) ([]entities.Video, error)
	GetVideo(id string) (*entities.Video, error)
	TouchLastAccessed(courseID string) error
	DeleteCourse(id string) error
	GetRecentVideos(limit int) ([]courses.VideoWithProgress, error)
	GetCompletedVideos(courseID string) ([]courses.VideoWithProgress, error)
	GetIncompleteVideos(courseID string) ([]courses.VideoWithProgress, error)
	GetCourseCompletionStats(courseID string) (courses.CompletionStats, error)
}

// LibraryScanner walks configured directories and syncs them into the store.
type LibraryScanner interface {
	ScanAll(roots []string) ([]entities.Course, error)
}

type CoursesController struct {
	store    CourseStore
	scanner  LibraryScanner
	scanDirs []string
}

func NewCoursesController(store CourseStore, scanner LibraryScanner, scanDirs []string) *CoursesController {
	return &CoursesController{store: store, scanner: scanner, scanDirs: scanDirs}
}

// ListCourses returns all courses, most recently accessed first
// GET /api/courses
func (cc *CoursesController) ListCourses(c *gin.Context) {
	list, err := cc.store.GetAllCourses()
	if err != nil {
		respondError(c, err, "list courses")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCourse returns a course by id
// GET /api/courses/:id
func (cc *CoursesController) GetCourse(c *gin.Context) {
	course, err := cc.store.GetCourse(c.Param("id"))
	if err != nil {
		respondError(c, err, "get course")
		return
	}
	c.JSON(http.StatusOK, course)
}

// GetCourseModules lists a course's modules in order
// GET /api/courses/:id/modules
func (cc *CoursesController) GetCourseModules(c *gin.Context) {
	modules, err := cc.store.GetCourseModules(c.Param("id"))
	if err != nil {
		respondError(c, err, "get course modules")
		return
	}
	c.JSON(http.StatusOK, modules)
}

// GetModuleVideos lists a module's videos in order
// GET /api/modules/:id/videos
func (cc *CoursesController) GetModuleVideos(c *gin.Context) {
	videos, err := cc.store.GetModuleVideos(c.Param("id"))
	if err != nil {
		respondError(c, err, "get module videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideo returns a video by id
// GET /api/videos/:id
func (cc *CoursesController) GetVideo(c *gin.Context) {
	video, err := cc.store.GetVideo(c.Param("id"))
	if err != nil {
		respondError(c, err, "get video")
		return
	}
	c.JSON(http.StatusOK, video)
}

// TouchCourse stamps a course as just accessed
// POST /api/courses/:id/accessed
func (cc *CoursesController) TouchCourse(c *gin.Context) {
	if err := cc.store.TouchLastAccessed(c.Param("id")); err != nil {
		respondError(c, err, "touch course")
		return
	}
	respondOK(c, "course accessed")
}

// DeleteCourse removes a course and everything under it
// DELETE /api/courses/:id
func (cc *CoursesController) DeleteCourse(c *gin.Context) {
	if err := cc.store.DeleteCourse(c.Param("id")); err != nil {
		respondError(c, err, "delete course")
		return
	}
	respondOK(c, "course deleted")
}

// GetCourseStats returns completion statistics for a course
// GET /api/courses/:id/stats
func (cc *CoursesController) GetCourseStats(c *gin.Context) {
	stats, err := cc.store.GetCourseCompletionStats(c.Param("id"))
	if err != nil {
		respondError(c, err, "get course stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRecentVideos returns videos with in-flight progress, most recent first
// GET /api/videos/recent
func (cc *CoursesController) GetRecentVideos(c *gin.Context) {
	list, err := cc.store.GetRecentVideos(limitParam(c))
	if err != nil {
		respondError(c, err, "get recent videos")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCompletedVideos lists completed videos, optionally scoped to a course
// GET /api/videos/completed
func (cc *CoursesController) GetCompletedVideos(c *gin.Context) {
	list, err := cc.store.GetCompletedVideos(c.Query("course_id"))
	if err != nil {
		respondError(c, err, "get completed videos")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetIncompleteVideos lists not-yet-completed videos, optionally per course
// GET /api/videos/incomplete
func (cc *CoursesController) GetIncompleteVideos(c *gin.Context) {
	list, err := cc.store.GetIncompleteVideos(c.Query("course_id"))
	if err != nil {
		respondError(c, err, "get incomplete videos")
		return
	}
	c.JSON(http.StatusOK, list)
}

// ScanLibrary walks the configured scan directories and syncs the catalog
// POST /api/library/scan
func (cc *CoursesController) ScanLibrary(c *gin.Context) {
	dirs := cc.scanDirs
	if raw := c.Query("dirs"); raw != "" {
		dirs = strings.Split(raw, ":")
	}
	if len(dirs) == 0 {
		respondBadRequest(c, "no scan directories configured")
		return
	}

	scanned, err := cc.scanner.ScanAll(dirs)
	if err != nil {
		respondError(c, err, "scan library")
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": scanned, "count": len(scanned)})
}
