package courses

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/database/activity"
	"github.com/rnovais/coursetrack/internal/database/progress"
	"github.com/rnovais/coursetrack/internal/entities"
)

func setupCoursesTest(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "courses_test")
	require.NoError(t, err)

	db, err := database.NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	return NewRepository(db.DB, activity.NewRepository(db.DB)), db.DB
}

func seedHierarchy(t *testing.T, repo *Repository) (*entities.Course, *entities.Module, *entities.Video) {
	t.Helper()

	course := &entities.Course{Name: "Go Basics", Path: "/media/go-basics"}
	require.NoError(t, repo.CreateCourse(course))
	module := &entities.Module{CourseID: course.ID, Name: "Intro", Path: "/media/go-basics/01-intro"}
	require.NoError(t, repo.CreateModule(module))
	video := &entities.Video{
		ModuleID: module.ID,
		CourseID: course.ID,
		Name:     "Welcome",
		FilePath: "/media/go-basics/01-intro/welcome.mp4",
		Duration: 100,
	}
	require.NoError(t, repo.CreateVideo(video))
	return course, module, video
}

func TestCreateCourseValidation(t *testing.T) {
	repo, _ := setupCoursesTest(t)

	err := repo.CreateCourse(&entities.Course{Path: "/media/x"})
	assert.True(t, database.IsValidation(err))

	err = repo.CreateCourse(&entities.Course{Name: "No Path"})
	assert.True(t, database.IsValidation(err))
}

func TestCreateModuleRequiresCourse(t *testing.T) {
	repo, _ := setupCoursesTest(t)

	err := repo.CreateModule(&entities.Module{CourseID: "missing", Name: "Intro", Path: "/x"})
	assert.True(t, database.IsNotFound(err))
}

func TestCreateModuleOrderClash(t *testing.T) {
	repo, _ := setupCoursesTest(t)
	course, _, _ := seedHierarchy(t, repo)

	err := repo.CreateModule(&entities.Module{
		CourseID: course.ID, Name: "Also First", Path: "/media/go-basics/01b", OrderIndex: 0,
	})
	require.Error(t, err)
	var constraintErr *database.ConstraintError
	assert.ErrorAs(t, err, &constraintErr)
}

func TestPathLookups(t *testing.T) {
	repo, _ := setupCoursesTest(t)
	course, module, video := seedHierarchy(t, repo)

	found, err := repo.GetCourseByPath(course.Path)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, course.ID, found.ID)

	foundModule, err := repo.GetModuleByPath(course.ID, module.Path)
	require.NoError(t, err)
	require.NotNil(t, foundModule)
	assert.Equal(t, module.ID, foundModule.ID)

	foundVideo, err := repo.GetVideoByPath(video.FilePath)
	require.NoError(t, err)
	require.NotNil(t, foundVideo)
	assert.Equal(t, video.ID, foundVideo.ID)

	// Unknown paths are nil, not errors
	missing, err := repo.GetCourseByPath("/nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteCourseCascades(t *testing.T) {
	repo, db := setupCoursesTest(t)
	course, module, video := seedHierarchy(t, repo)

	progressRepo := progress.NewRepository(db, activity.NewRepository(db))
	_, err := progressRepo.Upsert(progress.UpsertParams{
		VideoID: video.ID, CurrentTime: 10, Duration: 100, NewSession: true,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCourse(course.ID))

	_, err = repo.GetModule(module.ID)
	assert.True(t, database.IsNotFound(err))
	_, err = repo.GetVideo(video.ID)
	assert.True(t, database.IsNotFound(err))

	row, err := progressRepo.Get(video.ID)
	require.NoError(t, err)
	assert.Nil(t, row)

	// Deleting again is a no-op
	assert.NoError(t, repo.DeleteCourse(course.ID))
}

func TestDeleteCoursePreservesActivityLog(t *testing.T) {
	repo, db := setupCoursesTest(t)
	course, _, _ := seedHierarchy(t, repo)

	require.NoError(t, repo.DeleteCourse(course.ID))

	activityRepo := activity.NewRepository(db)
	entries, err := activityRepo.GetByEntity(course.ID, "course", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestTouchLastAccessedOrdersCourses(t *testing.T) {
	repo, _ := setupCoursesTest(t)

	first := &entities.Course{Name: "Alpha", Path: "/media/alpha"}
	require.NoError(t, repo.CreateCourse(first))
	second := &entities.Course{Name: "Beta", Path: "/media/beta"}
	require.NoError(t, repo.CreateCourse(second))

	require.NoError(t, repo.TouchLastAccessed(second.ID))

	list, err := repo.GetAllCourses()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	require.NotNil(t, list[0].LastAccessed)
}

func TestCompletionQueries(t *testing.T) {
	repo, db := setupCoursesTest(t)
	course, module, watched := seedHierarchy(t, repo)

	unwatched := &entities.Video{
		ModuleID:   module.ID,
		CourseID:   course.ID,
		Name:       "Pointers",
		FilePath:   "/media/go-basics/01-intro/pointers.mp4",
		Duration:   200,
		OrderIndex: 1,
	}
	require.NoError(t, repo.CreateVideo(unwatched))

	progressRepo := progress.NewRepository(db, activity.NewRepository(db))
	_, err := progressRepo.Upsert(progress.UpsertParams{
		VideoID: watched.ID, CurrentTime: 99, Duration: 100, NewSession: true,
	})
	require.NoError(t, err)

	completed, err := repo.GetCompletedVideos(course.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, watched.ID, completed[0].Video.ID)

	incomplete, err := repo.GetIncompleteVideos(course.ID)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Equal(t, unwatched.ID, incomplete[0].Video.ID)
	assert.Nil(t, incomplete[0].Progress)

	stats, err := repo.GetCourseCompletionStats(course.ID)
	require.NoError(t, err)
	assert.Equal(t, CompletionStats{TotalVideos: 2, CompletedVideos: 1, Percent: 50}, stats)
}

func TestGetRecentVideos(t *testing.T) {
	repo, db := setupCoursesTest(t)
	_, _, video := seedHierarchy(t, repo)

	progressRepo := progress.NewRepository(db, activity.NewRepository(db))
	_, err := progressRepo.Upsert(progress.UpsertParams{
		VideoID: video.ID, CurrentTime: 30, Duration: 100, NewSession: true,
	})
	require.NoError(t, err)

	recent, err := repo.GetRecentVideos(5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, video.ID, recent[0].Video.ID)
	assert.Equal(t, 30.0, recent[0].Progress.CurrentTime)
}
