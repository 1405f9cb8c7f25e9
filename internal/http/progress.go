package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/database/progress"
	"github.com/rnovais/coursetrack/internal/entities"
)

// ProgressStore defines direct database operations for watch progress.
type ProgressStore interface {
	Get(videoID string) (*entities.VideoProgress, error)
	MarkCompleted(videoID string, completed bool) (*entities.VideoProgress, error)
}

// ProgressWriter is the coalesced write path used for playback events.
type ProgressWriter interface {
	Tick(videoID string, currentTime, duration float64) (*progress.UpsertResult, error)
	Seek(videoID string, currentTime, duration float64) (*progress.UpsertResult, error)
	EndSession(videoID string) error
}

type ProgressController struct {
	store  ProgressStore
	writer ProgressWriter
}

func NewProgressController(store ProgressStore, writer ProgressWriter) *ProgressController {
	return &ProgressController{store: store, writer: writer}
}

// GetProgress returns watch progress for a video, or null when never played
// GET /api/videos/:id/progress
func (pc *ProgressController) GetProgress(c *gin.Context) {
	p, err := pc.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "get progress")
		return
	}
	c.JSON(http.StatusOK, p)
}

type tickRequest struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}

// Tick reports a periodic playback position; writes are coalesced
// POST /api/videos/:id/progress/tick
func (pc *ProgressController) Tick(c *gin.Context) {
	var req tickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := pc.writer.Tick(c.Param("id"), req.CurrentTime, req.Duration)
	if err != nil {
		respondError(c, err, "progress tick")
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"persisted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"persisted":     true,
		"progress":      result.Progress,
		"completed_now": result.CompletedNow,
	})
}

// Seek reports a deliberate time-jump; always persisted
// POST /api/videos/:id/progress/seek
func (pc *ProgressController) Seek(c *gin.Context) {
	var req tickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := pc.writer.Seek(c.Param("id"), req.CurrentTime, req.Duration)
	if err != nil {
		respondError(c, err, "progress seek")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"persisted":     true,
		"progress":      result.Progress,
		"completed_now": result.CompletedNow,
	})
}

// EndSession closes the playback session for a video
// POST /api/videos/:id/progress/end
func (pc *ProgressController) EndSession(c *gin.Context) {
	if err := pc.writer.EndSession(c.Param("id")); err != nil {
		respondError(c, err, "end session")
		return
	}
	respondOK(c, "session ended")
}

// SetCompleted toggles manual completion for a video
// PUT /api/videos/:id/completed
func (pc *ProgressController) SetCompleted(c *gin.Context) {
	var req struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "completed is required")
		return
	}

	p, err := pc.store.MarkCompleted(c.Param("id"), *req.Completed)
	if err != nil {
		respondError(c, err, "set completed")
		return
	}
	c.JSON(http.StatusOK, p)
}
