package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/database/activity"
	"github.com/rnovais/coursetrack/internal/database/courses"
	"github.com/rnovais/coursetrack/internal/database/progress"
)

func setupScannerTest(t *testing.T) (*Scanner, *courses.Repository, *progress.Repository) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "scanner_test")
	require.NoError(t, err)

	db, err := database.NewDatabase(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	activityRepo := activity.NewRepository(db.DB)
	courseRepo := courses.NewRepository(db.DB, activityRepo)
	progressRepo := progress.NewRepository(db.DB, activityRepo)
	return NewScanner(courseRepo, activityRepo), courseRepo, progressRepo
}

// makeLibrary lays out a scan root with one structured course and one flat
// course.
func makeLibrary(t *testing.T) string {
	t.Helper()

	root, err := os.MkdirTemp("", "scanner_library")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })

	files := []string{
		"go-basics/01-intro/welcome.mp4",
		"go-basics/01-intro/setup.mkv",
		"go-basics/02-types/structs.mp4",
		"go-basics/notes.txt",
		"docker-course/lesson1.mp4",
		"docker-course/lesson2.webm",
		"empty-folder/readme.md",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("fake media"), 0o644))
	}
	return root
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("/a/b/lesson.mp4"))
	assert.True(t, IsVideoFile("/a/b/LESSON.MKV"))
	assert.True(t, IsVideoFile("clip.webm"))
	assert.False(t, IsVideoFile("notes.txt"))
	assert.False(t, IsVideoFile("archive.zip"))
	assert.False(t, IsVideoFile("noextension"))
}

func TestScanDirectoryBuildsHierarchy(t *testing.T) {
	scanner, courseRepo, _ := setupScannerTest(t)
	root := makeLibrary(t)

	scanned, err := scanner.ScanDirectory(root)
	require.NoError(t, err)
	require.Len(t, scanned, 2)

	goBasics, err := courseRepo.GetCourseByPath(filepath.Join(root, "go-basics"))
	require.NoError(t, err)
	require.NotNil(t, goBasics)
	assert.Equal(t, "go-basics", goBasics.Name)
	assert.Equal(t, 2, goBasics.TotalModules)
	assert.Equal(t, 3, goBasics.TotalVideos)

	modules, err := courseRepo.GetCourseModules(goBasics.ID)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "01-intro", modules[0].Name)
	assert.Equal(t, "02-types", modules[1].Name)

	videos, err := courseRepo.GetModuleVideos(modules[0].ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	// Names come from file names without the extension, sorted by path
	assert.Equal(t, "setup", videos[0].Name)
	assert.Equal(t, "welcome", videos[1].Name)
	assert.Positive(t, videos[0].FileSize)
}

func TestScanFlatCourseGetsImplicitModule(t *testing.T) {
	scanner, courseRepo, _ := setupScannerTest(t)
	root := makeLibrary(t)

	_, err := scanner.ScanDirectory(root)
	require.NoError(t, err)

	docker, err := courseRepo.GetCourseByPath(filepath.Join(root, "docker-course"))
	require.NoError(t, err)
	require.NotNil(t, docker)
	assert.Equal(t, 1, docker.TotalModules)
	assert.Equal(t, 2, docker.TotalVideos)

	modules, err := courseRepo.GetCourseModules(docker.ID)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "docker-course", modules[0].Name)
	assert.Equal(t, 0, modules[0].OrderIndex)
}

func TestScanSkipsDirectoriesWithoutVideos(t *testing.T) {
	scanner, courseRepo, _ := setupScannerTest(t)
	root := makeLibrary(t)

	_, err := scanner.ScanDirectory(root)
	require.NoError(t, err)

	empty, err := courseRepo.GetCourseByPath(filepath.Join(root, "empty-folder"))
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestRescanPreservesIDsAndProgress(t *testing.T) {
	scanner, courseRepo, progressRepo := setupScannerTest(t)
	root := makeLibrary(t)

	_, err := scanner.ScanDirectory(root)
	require.NoError(t, err)

	video, err := courseRepo.GetVideoByPath(filepath.Join(root, "go-basics", "01-intro", "welcome.mp4"))
	require.NoError(t, err)
	require.NotNil(t, video)

	_, err = progressRepo.Upsert(progress.UpsertParams{
		VideoID: video.ID, CurrentTime: 30, Duration: 100, NewSession: true,
	})
	require.NoError(t, err)

	// A new file appears between scans
	newFile := filepath.Join(root, "go-basics", "02-types", "maps.mp4")
	require.NoError(t, os.WriteFile(newFile, []byte("fake media"), 0o644))

	_, err = scanner.ScanDirectory(root)
	require.NoError(t, err)

	rescanned, err := courseRepo.GetVideoByPath(video.FilePath)
	require.NoError(t, err)
	assert.Equal(t, video.ID, rescanned.ID)

	row, err := progressRepo.Get(video.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 30.0, row.CurrentTime)

	course, err := courseRepo.GetCourseByPath(filepath.Join(root, "go-basics"))
	require.NoError(t, err)
	assert.Equal(t, 4, course.TotalVideos)
}

func TestScanAllSkipsMissingRoots(t *testing.T) {
	scanner, _, _ := setupScannerTest(t)
	root := makeLibrary(t)

	scanned, err := scanner.ScanAll([]string{"/does/not/exist", root})
	require.NoError(t, err)
	assert.Len(t, scanned, 2)
}
