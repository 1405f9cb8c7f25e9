package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/entities"
)

// BookmarkStore defines database operations for bookmark management.
type BookmarkStore interface {
	Create(videoID string, timestamp float64, title string, description *string) (*entities.VideoBookmark, error)
	Get(id string) (*entities.VideoBookmark, error)
	GetByVideo(videoID string) ([]entities.VideoBookmark, error)
	UpdateDescription(id string, description *string) (*entities.VideoBookmark, error)
	Delete(id string) error
}

type BookmarksController struct {
	store BookmarkStore
}

func NewBookmarksController(store BookmarkStore) *BookmarksController {
	return &BookmarksController{store: store}
}

// CreateBookmark creates a bookmark at a video position
// POST /api/bookmarks
func (bc *BookmarksController) CreateBookmark(c *gin.Context) {
	var req struct {
		VideoID     string  `json:"video_id" binding:"required"`
		Timestamp   float64 `json:"timestamp"`
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "video_id and title are required")
		return
	}

	bookmark, err := bc.store.Create(req.VideoID, req.Timestamp, req.Title, req.Description)
	if err != nil {
		respondError(c, err, "create bookmark")
		return
	}
	respondCreated(c, bookmark)
}

// GetVideoBookmarks lists a video's bookmarks by position
// GET /api/videos/:id/bookmarks
func (bc *BookmarksController) GetVideoBookmarks(c *gin.Context) {
	list, err := bc.store.GetByVideo(c.Param("id"))
	if err != nil {
		respondError(c, err, "get video bookmarks")
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateBookmark changes a bookmark's description
// PUT /api/bookmarks/:id
func (bc *BookmarksController) UpdateBookmark(c *gin.Context) {
	var req struct {
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	bookmark, err := bc.store.UpdateDescription(c.Param("id"), req.Description)
	if err != nil {
		respondError(c, err, "update bookmark")
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// DeleteBookmark removes a bookmark (idempotent)
// DELETE /api/bookmarks/:id
func (bc *BookmarksController) DeleteBookmark(c *gin.Context) {
	if err := bc.store.Delete(c.Param("id")); err != nil {
		respondError(c, err, "delete bookmark")
		return
	}
	respondOK(c, "bookmark deleted")
}
