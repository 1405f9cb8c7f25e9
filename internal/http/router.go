package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/database"
)

// RouterConfig carries every dependency the router needs. Nil optional
// stores simply leave their routes unregistered.
type RouterConfig struct {
	Database *database.Database
	Version  string

	CourseStore    CourseStore
	Scanner        LibraryScanner
	ScanDirs       []string
	ProgressStore  ProgressStore
	ProgressWriter ProgressWriter
	NoteStore      NoteStore
	BookmarkStore  BookmarkStore
	SettingStore   SettingStore
	ActivityStore  ActivityStore
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Course catalog endpoints
	if cfg.CourseStore != nil {
		coursesController := NewCoursesController(cfg.CourseStore, cfg.Scanner, cfg.ScanDirs)
		router.GET("/api/courses", coursesController.ListCourses)
		router.GET("/api/courses/:id", coursesController.GetCourse)
		router.GET("/api/courses/:id/modules", coursesController.GetCourseModules)
		router.GET("/api/courses/:id/stats", coursesController.GetCourseStats)
		router.POST("/api/courses/:id/accessed", coursesController.TouchCourse)
		router.DELETE("/api/courses/:id", coursesController.DeleteCourse)
		router.GET("/api/modules/:id/videos", coursesController.GetModuleVideos)
		router.GET("/api/videos/recent", coursesController.GetRecentVideos)
		router.GET("/api/videos/completed", coursesController.GetCompletedVideos)
		router.GET("/api/videos/incomplete", coursesController.GetIncompleteVideos)
		router.GET("/api/videos/:id", coursesController.GetVideo)
		if cfg.Scanner != nil {
			router.POST("/api/library/scan", coursesController.ScanLibrary)
		}
	}

	// Watch progress endpoints
	if cfg.ProgressStore != nil {
		progressController := NewProgressController(cfg.ProgressStore, cfg.ProgressWriter)
		router.GET("/api/videos/:id/progress", progressController.GetProgress)
		router.POST("/api/videos/:id/progress/tick", progressController.Tick)
		router.POST("/api/videos/:id/progress/seek", progressController.Seek)
		router.POST("/api/videos/:id/progress/end", progressController.EndSession)
		router.PUT("/api/videos/:id/completed", progressController.SetCompleted)
	}

	// Note endpoints
	if cfg.NoteStore != nil {
		notesController := NewNotesController(cfg.NoteStore)
		router.POST("/api/notes", notesController.CreateNote)
		router.GET("/api/notes", notesController.ListNotes)
		router.GET("/api/notes/:id", notesController.GetNote)
		router.PUT("/api/notes/:id", notesController.UpdateNote)
		router.DELETE("/api/notes/:id", notesController.DeleteNote)
		router.GET("/api/videos/:id/notes", notesController.GetVideoNotes)
		router.GET("/api/modules/:id/notes", notesController.GetModuleNotes)
		router.GET("/api/courses/:id/notes", notesController.GetCourseNotes)
	}

	// Bookmark endpoints
	if cfg.BookmarkStore != nil {
		bookmarksController := NewBookmarksController(cfg.BookmarkStore)
		router.POST("/api/bookmarks", bookmarksController.CreateBookmark)
		router.PUT("/api/bookmarks/:id", bookmarksController.UpdateBookmark)
		router.DELETE("/api/bookmarks/:id", bookmarksController.DeleteBookmark)
		router.GET("/api/videos/:id/bookmarks", bookmarksController.GetVideoBookmarks)
	}

	// Settings endpoints
	if cfg.SettingStore != nil {
		settingsController := NewSettingsController(cfg.SettingStore)
		router.GET("/api/settings", settingsController.ListSettings)
		router.GET("/api/settings/:key", settingsController.GetSetting)
		router.PUT("/api/settings/:key", settingsController.SetSetting)
		router.DELETE("/api/settings/:key", settingsController.DeleteSetting)
	}

	// Activity log endpoints
	if cfg.ActivityStore != nil {
		activityController := NewActivityController(cfg.ActivityStore)
		router.GET("/api/activity", activityController.GetRecentActivity)
		router.GET("/api/activity/entity/:id", activityController.GetEntityActivity)
	}

	return router
}
