// Package settings provides database operations for user settings.
//
// Values are stored as text and tagged with a type; the repository boundary
// speaks entities.SettingValue so callers never deal with the encoding.
//
// # Usage
//
//	repo := settings.NewRepository(db, rec)
//	value, err := repo.GetValue("theme")
package settings

import (
	"errors"
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

// Repository handles all settings database operations.
type Repository struct {
	db  *gorm.DB
	rec ActivityRecorder
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB, rec ActivityRecorder) *Repository {
	return &Repository{db: db, rec: rec}
}

// Get retrieves a setting row by key.
func (r *Repository) Get(key string) (*entities.UserSetting, error) {
	var setting entities.UserSetting
	err := r.db.Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		return nil, database.Translate("get setting", "setting", key, err)
	}
	return &setting, nil
}

// GetValue retrieves a setting decoded according to its declared type.
func (r *Repository) GetValue(key string) (entities.SettingValue, error) {
	setting, err := r.Get(key)
	if err != nil {
		return entities.SettingValue{}, err
	}
	value, err := entities.ParseSettingValue(setting.SettingValue, setting.SettingType)
	if err != nil {
		return entities.SettingValue{}, &database.ValidationError{Field: key, Reason: err.Error()}
	}
	return value, nil
}

// GetAll returns every setting row.
func (r *Repository) GetAll() ([]entities.UserSetting, error) {
	var list []entities.UserSetting
	err := r.db.Order("setting_key ASC").Find(&list).Error
	return list, err
}

// GetAllTyped returns every setting decoded per its declared type, keyed by
// setting key.
func (r *Repository) GetAllTyped() (map[string]entities.SettingValue, error) {
	list, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]entities.SettingValue, len(list))
	for _, s := range list {
		value, err := entities.ParseSettingValue(s.SettingValue, s.SettingType)
		if err != nil {
			return nil, &database.ValidationError{Field: s.SettingKey, Reason: err.Error()}
		}
		out[s.SettingKey] = value
	}
	return out, nil
}

// Set upserts a setting by key. The raw value must parse as the declared
// type. An existing row keeps its id; updated_at always refreshes.
func (r *Repository) Set(key, rawValue string, settingType entities.SettingType) error {
	if key == "" {
		return &database.ValidationError{Field: "setting_key", Reason: "must not be blank"}
	}
	if _, err := entities.ParseSettingValue(rawValue, settingType); err != nil {
		return &database.ValidationError{Field: key, Reason: err.Error()}
	}

	var id string
	err := database.Transact(r.db, "set setting", func(tx *gorm.DB) error {
		var setting entities.UserSetting
		result := tx.Where("setting_key = ?", key).First(&setting)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			setting = entities.UserSetting{
				ID:           uuid.NewString(),
				SettingKey:   key,
				SettingValue: rawValue,
				SettingType:  settingType,
				UpdatedAt:    time.Now().UTC(),
			}
			id = setting.ID
			return tx.Create(&setting).Error
		} else if result.Error != nil {
			return result.Error
		}

		setting.SettingValue = rawValue
		setting.SettingType = settingType
		setting.UpdatedAt = time.Now().UTC()
		id = setting.ID
		return tx.Save(&setting).Error
	})
	if err != nil {
		return database.Translate("set setting", "setting", key, err)
	}

	r.rec.Record(entities.ActivitySettingUpdated, id, "setting",
		fmt.Sprintf("Setting %s updated", key))
	return nil
}

// SetValue upserts a setting from its typed form.
func (r *Repository) SetValue(key string, value entities.SettingValue) error {
	return r.Set(key, value.Encode(), value.Type)
}

// InitializeDefaults inserts the fixed default set for keys not already
// present. A setting the user has changed is never overwritten, so calling
// this any number of times is safe.
func (r *Repository) InitializeDefaults() error {
	return database.Transact(r.db, "initialize default settings", func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, s := range entities.DefaultSettings {
			var count int64
			if err := tx.Model(&entities.UserSetting{}).
				Where("setting_key = ?", s.SettingKey).
				Count(&count).Error; err != nil {
				return fmt.Errorf("checking setting %s: %w", s.SettingKey, err)
			}
			if count > 0 {
				continue
			}
			s.ID = uuid.NewString()
			s.UpdatedAt = now
			if err := tx.Create(&s).Error; err != nil {
				return fmt.Errorf("creating setting %s: %w", s.SettingKey, err)
			}
		}
		return nil
	})
}

// Delete removes a setting by key. Deleting an absent key is a no-op.
func (r *Repository) Delete(key string) error {
	return r.db.Where("setting_key = ?", key).Delete(&entities.UserSetting{}).Error
}
