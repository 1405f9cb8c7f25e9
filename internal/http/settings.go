package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/entities"
)

// SettingStore defines database operations for user settings.
type SettingStore interface {
	Get(key string) (*entities.UserSetting, error)
	GetAll() ([]entities.UserSetting, error)
	Set(key, rawValue string, settingType entities.SettingType) error
	Delete(key string) error
}

type SettingsController struct {
	store SettingStore
}

func NewSettingsController(store SettingStore) *SettingsController {
	return &SettingsController{store: store}
}

// ListSettings returns all settings
// GET /api/settings
func (sc *SettingsController) ListSettings(c *gin.Context) {
	settings, err := sc.store.GetAll()
	if err != nil {
		respondError(c, err, "list settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetSetting returns a single setting by key
// GET /api/settings/:key
func (sc *SettingsController) GetSetting(c *gin.Context) {
	setting, err := sc.store.Get(c.Param("key"))
	if err != nil {
		respondError(c, err, "get setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

// SetSetting creates or replaces a setting value
// PUT /api/settings/:key
func (sc *SettingsController) SetSetting(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
		Type  string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "value and type are required")
		return
	}

	if err := sc.store.Set(c.Param("key"), req.Value, entities.SettingType(req.Type)); err != nil {
		respondError(c, err, "set setting")
		return
	}
	setting, err := sc.store.Get(c.Param("key"))
	if err != nil {
		respondError(c, err, "set setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

// DeleteSetting removes a setting (idempotent)
// DELETE /api/settings/:key
func (sc *SettingsController) DeleteSetting(c *gin.Context) {
	if err := sc.store.Delete(c.Param("key")); err != nil {
		respondError(c, err, "delete setting")
		return
	}
	respondOK(c, "setting deleted")
}
