package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/database/activity"
	"github.com/rnovais/coursetrack/internal/entities"
)

func setupSettingsTest(t *testing.T) *Repository {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "settings_test")
	require.NoError(t, err)

	db, err := database.NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	return NewRepository(db.DB, activity.NewRepository(db.DB))
}

func TestDefaultsSeededOnFreshStore(t *testing.T) {
	repo := setupSettingsTest(t)

	list, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, list, len(entities.DefaultSettings))

	value, err := repo.GetValue(entities.SettingKeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", value.Str)

	value, err = repo.GetValue(entities.SettingKeyPlaybackSpeed)
	require.NoError(t, err)
	assert.Equal(t, 1.0, value.Num)
}

func TestInitializeDefaultsNeverOverwrites(t *testing.T) {
	repo := setupSettingsTest(t)

	require.NoError(t, repo.Set(entities.SettingKeyTheme, "light", entities.SettingTypeString))
	require.NoError(t, repo.InitializeDefaults())

	value, err := repo.GetValue(entities.SettingKeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", value.Str)

	// No duplicate rows either
	list, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, list, len(entities.DefaultSettings))
}

func TestSetValidatesType(t *testing.T) {
	repo := setupSettingsTest(t)

	err := repo.Set(entities.SettingKeyVolume, "loud", entities.SettingTypeNumber)
	assert.True(t, database.IsValidation(err))

	err = repo.Set(entities.SettingKeyAutoPlayNext, "maybe", entities.SettingTypeBoolean)
	assert.True(t, database.IsValidation(err))

	err = repo.Set("", "x", entities.SettingTypeString)
	assert.True(t, database.IsValidation(err))
}

func TestSetKeepsRowIdentity(t *testing.T) {
	repo := setupSettingsTest(t)

	before, err := repo.Get(entities.SettingKeyVolume)
	require.NoError(t, err)

	require.NoError(t, repo.Set(entities.SettingKeyVolume, "0.5", entities.SettingTypeNumber))

	after, err := repo.Get(entities.SettingKeyVolume)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "0.5", after.SettingValue)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
}

func TestSetValueRoundTrip(t *testing.T) {
	repo := setupSettingsTest(t)

	require.NoError(t, repo.SetValue("custom_flag", entities.BoolValue(true)))

	value, err := repo.GetValue("custom_flag")
	require.NoError(t, err)
	assert.Equal(t, entities.SettingTypeBoolean, value.Type)
	assert.True(t, value.Bool)

	typed, err := repo.GetAllTyped()
	require.NoError(t, err)
	assert.True(t, typed["custom_flag"].Bool)
}

func TestDeleteSetting(t *testing.T) {
	repo := setupSettingsTest(t)

	require.NoError(t, repo.Delete(entities.SettingKeyTheme))
	_, err := repo.Get(entities.SettingKeyTheme)
	assert.True(t, database.IsNotFound(err))

	// Absent key is a no-op
	assert.NoError(t, repo.Delete("never_existed"))
}
