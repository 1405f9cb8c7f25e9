package notes

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

func setupNotesTest(t *testing.T) (*Repository, *entities.Course, *entities.Video) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "notes_test")
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
		Duration: 120,
	}
	require.NoError(t, courseRepo.CreateVideo(video))

	return NewRepository(db.DB, activityRepo), course, video
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCreateNoteValidation(t *testing.T) {
	repo, _, _ := setupNotesTest(t)

	_, err := repo.Create(CreateParams{Content: "body"})
	assert.True(t, database.IsValidation(err))

	_, err = repo.Create(CreateParams{Title: "t"})
	assert.True(t, database.IsValidation(err))

	_, err = repo.Create(CreateParams{Title: "t", Content: "c", NoteType: "banana"})
	assert.True(t, database.IsValidation(err))

	_, err = repo.Create(CreateParams{Title: "t", Content: "c", Timestamp: floatPtr(-1)})
	assert.True(t, database.IsValidation(err))
}

func TestCreateGeneralNote(t *testing.T) {
	repo, _, _ := setupNotesTest(t)

	note, err := repo.Create(CreateParams{Title: "Study plan", Content: "Two videos a day"})
	require.NoError(t, err)
	assert.Equal(t, entities.NoteTypeNote, note.NoteType)
	assert.Nil(t, note.VideoID)

	general, err := repo.GetGeneral(OrderCreatedAt, false)
	require.NoError(t, err)
	require.Len(t, general, 1)
	assert.Equal(t, note.ID, general[0].ID)
}

func TestCreateVideoNoteTimestampBounds(t *testing.T) {
	repo, _, video := setupNotesTest(t)

	// Within the duration
	note, err := repo.Create(CreateParams{
		VideoID:   strPtr(video.ID),
		Timestamp: floatPtr(60),
		Title:     "Key point",
		Content:   "Interfaces are satisfied implicitly",
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, *note.Timestamp)

	// Past the duration
	_, err = repo.Create(CreateParams{
		VideoID:   strPtr(video.ID),
		Timestamp: floatPtr(500),
		Title:     "Too far",
		Content:   "x",
	})
	assert.True(t, database.IsValidation(err))
}

func TestCreateNoteUnknownParent(t *testing.T) {
	repo, _, _ := setupNotesTest(t)

	_, err := repo.Create(CreateParams{
		VideoID: strPtr("missing"),
		Title:   "t",
		Content: "c",
	})
	assert.True(t, database.IsNotFound(err))
}

func TestNotesOrdering(t *testing.T) {
	repo, _, video := setupNotesTest(t)

	for _, ts := range []float64{90, 10, 45} {
		_, err := repo.Create(CreateParams{
			VideoID:   strPtr(video.ID),
			Timestamp: floatPtr(ts),
			Title:     "note",
			Content:   "c",
		})
		require.NoError(t, err)
	}

	list, err := repo.GetByVideo(video.ID, OrderTimestamp, false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 10.0, *list[0].Timestamp)
	assert.Equal(t, 90.0, *list[2].Timestamp)

	list, err = repo.GetByVideo(video.ID, OrderTimestamp, true)
	require.NoError(t, err)
	assert.Equal(t, 90.0, *list[0].Timestamp)
}

func TestUpdateNote(t *testing.T) {
	repo, _, _ := setupNotesTest(t)

	note, err := repo.Create(CreateParams{Title: "Draft", Content: "v1"})
	require.NoError(t, err)

	updated, err := repo.Update(note.ID, "Final", "v2")
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "v2", updated.Content)
	assert.True(t, updated.UpdatedAt.After(note.CreatedAt) || updated.UpdatedAt.Equal(note.CreatedAt))

	_, err = repo.Update("missing", "x", "y")
	assert.True(t, database.IsNotFound(err))
}

func TestDeleteNoteIdempotent(t *testing.T) {
	repo, _, _ := setupNotesTest(t)

	note, err := repo.Create(CreateParams{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(note.ID))
	require.NoError(t, repo.Delete(note.ID))

	_, err = repo.Get(note.ID)
	assert.True(t, database.IsNotFound(err))
}

func TestCourseNotesScoping(t *testing.T) {
	repo, course, video := setupNotesTest(t)

	_, err := repo.Create(CreateParams{
		CourseID: strPtr(course.ID),
		Title:    "Course note",
		Content:  "c",
		NoteType: entities.NoteTypeQuestion,
	})
	require.NoError(t, err)
	_, err = repo.Create(CreateParams{
		VideoID: strPtr(video.ID),
		Title:   "Video note",
		Content: "c",
	})
	require.NoError(t, err)

	byCourse, err := repo.GetByCourse(course.ID, OrderCreatedAt, false)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "Course note", byCourse[0].Title)

	all, err := repo.GetAll(OrderCreatedAt, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
