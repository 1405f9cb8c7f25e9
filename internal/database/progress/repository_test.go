package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/database/activity"
	"github.com/rnovais/coursetrack/internal/database/courses"
	"github.com/rnovais/coursetrack/internal/entities"
)

func setupProgressTest(t *testing.T) (*Repository, *entities.Video) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "progress_test")
	require.NoError(t, err)

	db, err := database.NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	activityRepo := activity.NewRepository(db.DB)
	courseRepo := courses.NewRepository(db.DB, activityRepo)

	course := &entities.Course{Name: "Go Basics", Path: "/media/go-basics"}
	require.NoError(t, courseRepo.CreateCourse(course))
	module := &entities.Module{CourseID: course.ID, Name: "Intro", Path: "/media/go-basics/01-intro"}
	require.NoError(t, courseRepo.CreateModule(module))
	video := &entities.Video{
		ModuleID: module.ID,
		CourseID: course.ID,
		Name:     "Welcome",
		FilePath: "/media/go-basics/01-intro/welcome.mp4",
		Duration: 100,
	}
	require.NoError(t, courseRepo.CreateVideo(video))

	return NewRepository(db.DB, activityRepo), video
}

func TestUpsertCreatesRow(t *testing.T) {
	repo, video := setupProgressTest(t)

	result, err := repo.Upsert(UpsertParams{
		VideoID:     video.ID,
		CurrentTime: 10,
		Duration:    100,
		NewSession:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.Progress.CurrentTime)
	assert.Equal(t, 1, result.Progress.WatchCount)
	assert.False(t, result.Progress.Completed)
	assert.False(t, result.CompletedNow)

	stored, err := repo.Get(video.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, result.Progress.ID, stored.ID)
}

func TestUpsertKeepsSingleRow(t *testing.T) {
	repo, video := setupProgressTest(t)

	_, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 10, Duration: 100, NewSession: true})
	require.NoError(t, err)
	_, err = repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 20, Duration: 100})
	require.NoError(t, err)

	stored, err := repo.Get(video.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, stored.CurrentTime)
	assert.Equal(t, 1, stored.WatchCount)
}

func TestUpsertClampsPosition(t *testing.T) {
	repo, video := setupProgressTest(t)

	result, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: -5, Duration: 100, NewSession: true})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Progress.CurrentTime)

	result, err = repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 150, Duration: 100})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Progress.CurrentTime)
	assert.True(t, result.Progress.Completed)
}

func TestUpsertAutoCompletesAtThreshold(t *testing.T) {
	repo, video := setupProgressTest(t)

	result, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 94, Duration: 100, NewSession: true})
	require.NoError(t, err)
	assert.False(t, result.Progress.Completed)

	result, err = repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 95, Duration: 100})
	require.NoError(t, err)
	assert.True(t, result.Progress.Completed)
	assert.True(t, result.CompletedNow)

	// Rewinding never clears the flag, and CompletedNow fires only once
	result, err = repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 5, Duration: 100})
	require.NoError(t, err)
	assert.True(t, result.Progress.Completed)
	assert.False(t, result.CompletedNow)
}

func TestUpsertZeroDurationNeverCompletes(t *testing.T) {
	repo, video := setupProgressTest(t)

	result, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 50, Duration: 0, NewSession: true})
	require.NoError(t, err)
	assert.False(t, result.Progress.Completed)
}

func TestUpsertWatchCountPerSession(t *testing.T) {
	repo, video := setupProgressTest(t)

	_, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 10, Duration: 100, NewSession: true})
	require.NoError(t, err)
	_, err = repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 20, Duration: 100})
	require.NoError(t, err)
	_, err = repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 5, Duration: 100, NewSession: true})
	require.NoError(t, err)

	stored, err := repo.Get(video.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.WatchCount)
}

func TestUpsertUnknownVideo(t *testing.T) {
	repo, _ := setupProgressTest(t)

	_, err := repo.Upsert(UpsertParams{VideoID: "missing", CurrentTime: 10, Duration: 100})
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))
}

func TestMarkCompletedToggle(t *testing.T) {
	repo, video := setupProgressTest(t)

	// Marking a never-played video creates its row
	row, err := repo.MarkCompleted(video.ID, true)
	require.NoError(t, err)
	assert.True(t, row.Completed)
	assert.Equal(t, 0, row.WatchCount)

	row, err = repo.MarkCompleted(video.ID, false)
	require.NoError(t, err)
	assert.False(t, row.Completed)
}

func TestThresholdReappliesAfterMarkIncomplete(t *testing.T) {
	repo, video := setupProgressTest(t)

	_, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 98, Duration: 100, NewSession: true})
	require.NoError(t, err)

	_, err = repo.MarkCompleted(video.ID, false)
	require.NoError(t, err)

	// The next tick past the threshold completes the video again
	result, err := repo.Upsert(UpsertParams{VideoID: video.ID, CurrentTime: 99, Duration: 100})
	require.NoError(t, err)
	assert.True(t, result.Progress.Completed)
	assert.True(t, result.CompletedNow)
}

func TestGetNeverPlayed(t *testing.T) {
	repo, video := setupProgressTest(t)

	stored, err := repo.Get(video.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
