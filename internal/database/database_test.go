package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnovais/coursetrack/internal/entities"
)

func TestNewDatabaseCreatesStoreDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "database_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "nested", "dir", "test.db")
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestReopenExistingStore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "database_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	course := entities.Course{ID: "c1", Name: "Go Basics", Path: "/media/go-basics"}
	require.NoError(t, db.DB.Create(&course).Error)
	require.NoError(t, db.Close())

	// Second open is a no-op migration and sees the existing data
	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var found entities.Course
	require.NoError(t, db.DB.First(&found, "id = ?", "c1").Error)
	assert.Equal(t, "Go Basics", found.Name)
}

func TestForeignKeysEnforced(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "database_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db, err := NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	// A module pointing at a missing course must be rejected
	err = db.DB.Exec(
		`INSERT INTO modules (id, course_id, name, path, order_index) VALUES (?, ?, ?, ?, ?)`,
		"m1", "no-such-course", "Orphan", "/x", 0).Error
	assert.Error(t, err)
}
