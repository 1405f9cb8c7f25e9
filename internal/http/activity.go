package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/entities"
)

// ActivityStore defines read access to the activity log.
type ActivityStore interface {
	GetRecent(limit int) ([]entities.ActivityLogEntry, error)
	GetByType(activityType entities.ActivityType, limit int) ([]entities.ActivityLogEntry, error)
	GetByEntity(entityID, entityType string, limit int) ([]entities.ActivityLogEntry, error)
}

type ActivityController struct {
	store ActivityStore
}

func NewActivityController(store ActivityStore) *ActivityController {
	return &ActivityController{store: store}
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}

// GetRecentActivity returns the latest activity entries
// GET /api/activity
func (ac *ActivityController) GetRecentActivity(c *gin.Context) {
	limit := limitParam(c)

	var (
		entries []entities.ActivityLogEntry
		err     error
	)
	if activityType := c.Query("type"); activityType != "" {
		entries, err = ac.store.GetByType(entities.ActivityType(activityType), limit)
	} else {
		entries, err = ac.store.GetRecent(limit)
	}
	if err != nil {
		respondError(c, err, "get activity")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntityActivity returns activity for a single entity
// GET /api/activity/entity/:id
func (ac *ActivityController) GetEntityActivity(c *gin.Context) {
	entries, err := ac.store.GetByEntity(c.Param("id"), c.Query("entity_type"), limitParam(c))
	if err != nil {
		respondError(c, err, "get entity activity")
		return
	}
	c.JSON(http.StatusOK, entries)
}
