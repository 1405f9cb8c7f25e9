// Package scanner walks course directories and turns them into library
// records. Each subdirectory of a scanned root is a course, its
// subdirectories are modules, and recognized media files are videos. Loose
// videos directly under a course directory land in an implicit first
// module. Rescans are additive: records already in the store keep their
// ids, so progress, notes and bookmarks survive.
package scanner

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rnovais/coursetrack/internal/entities"
	"github.com/rnovais/coursetrack/internal/utils"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".ts": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true, ".3gp": true,
	".ogv": true,
}

// IsVideoFile reports whether the path has a recognized media extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// LibraryStore is the slice of the courses repository the scanner writes
// through.
type LibraryStore interface {
	GetCourseByPath(path string) (*entities.Course, error)
	CreateCourse(course *entities.Course) error
	GetModuleByPath(courseID, path string) (*entities.Module, error)
	CreateModule(module *entities.Module) error
	GetVideoByPath(path string) (*entities.Video, error)
	CreateVideo(video *entities.Video) error
	UpdateCourseCounts(courseID string, totalModules, totalVideos int) error
}

// ActivityRecorder receives one entry per scanned course.
type ActivityRecorder interface {
	Record(activityType entities.ActivityType, entityID, entityType, details string)
}

// Scanner builds library records from the file system.
type Scanner struct {
	store LibraryStore
	rec   ActivityRecorder
}

// NewScanner creates a scanner over the given store.
func NewScanner(store LibraryStore, rec ActivityRecorder) *Scanner {
	return &Scanner{store: store, rec: rec}
}

// ScanAll scans every configured root directory, skipping roots that do
// not exist.
func (s *Scanner) ScanAll(roots []string) ([]entities.Course, error) {
	var all []entities.Course
	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			log.Printf("Scan root %s does not exist, skipping", root)
			continue
		}
		found, err := s.ScanDirectory(root)
		if err != nil {
			return all, err
		}
		all = append(all, found...)
	}
	return all, nil
}

// ScanDirectory scans one root: every subdirectory containing media
// becomes a course. Loose videos directly under the root form a course of
// their own named after the root directory.
func (s *Scanner) ScanDirectory(root string) ([]entities.Course, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading scan root %s: %w", root, err)
	}

	var courses []entities.Course
	rootHasVideos := false
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if countVideos(path) == 0 {
				continue
			}
			course, err := s.scanCourse(path)
			if err != nil {
				log.Printf("Skipping course directory %s: %v", path, err)
				continue
			}
			courses = append(courses, *course)
		} else if IsVideoFile(path) {
			rootHasVideos = true
		}
	}

	if rootHasVideos {
		course, err := s.scanCourse(root)
		if err != nil {
			return courses, err
		}
		courses = append(courses, *course)
	}

	log.Printf("Scan of %s finished: %d courses", root, len(courses))
	return courses, nil
}

// scanCourse upserts one course directory and everything under it.
func (s *Scanner) scanCourse(path string) (*entities.Course, error) {
	course, err := s.store.GetCourseByPath(path)
	if err != nil {
		return nil, err
	}
	if course == nil {
		course = &entities.Course{
			Name: utils.DisplayName(filepath.Base(path)),
			Path: path,
		}
		if err := s.store.CreateCourse(course); err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading course directory %s: %w", path, err)
	}

	var moduleDirs []string
	var looseVideos []string
	for _, entry := range entries {
		sub := filepath.Join(path, entry.Name())
		switch {
		case entry.IsDir() && countVideos(sub) > 0:
			moduleDirs = append(moduleDirs, sub)
		case !entry.IsDir() && IsVideoFile(sub):
			looseVideos = append(looseVideos, sub)
		}
	}
	sort.Strings(moduleDirs)
	sort.Strings(looseVideos)

	type moduleSpec struct {
		path, name string
		videos     []string
		module     *entities.Module
	}
	var specs []moduleSpec
	if len(looseVideos) > 0 {
		specs = append(specs, moduleSpec{path: path, name: course.Name, videos: looseVideos})
	}
	for _, dir := range moduleDirs {
		specs = append(specs, moduleSpec{path: dir, name: utils.DisplayName(filepath.Base(dir)), videos: collectVideos(dir)})
	}

	// Modules already in the store keep their ids and order indexes; new
	// directories take the next free index, so rescans never collide.
	usedOrder := map[int]bool{}
	for i := range specs {
		module, err := s.store.GetModuleByPath(course.ID, specs[i].path)
		if err != nil {
			return nil, err
		}
		if module != nil {
			usedOrder[module.OrderIndex] = true
		}
		specs[i].module = module
	}

	totalVideos := 0
	next := 0
	for i := range specs {
		if specs[i].module == nil {
			for usedOrder[next] {
				next++
			}
			module := &entities.Module{
				CourseID:   course.ID,
				Name:       specs[i].name,
				Path:       specs[i].path,
				OrderIndex: next,
			}
			if err := s.store.CreateModule(module); err != nil {
				return nil, err
			}
			usedOrder[next] = true
			specs[i].module = module
		}

		n, err := s.scanModule(course, specs[i].module, specs[i].videos)
		if err != nil {
			return nil, err
		}
		totalVideos += n
	}

	if err := s.store.UpdateCourseCounts(course.ID, len(specs), totalVideos); err != nil {
		return nil, err
	}
	course.TotalModules = len(specs)
	course.TotalVideos = totalVideos

	s.rec.Record(entities.ActivityCourseScanned, course.ID, "course",
		fmt.Sprintf("Scanned %s: %d modules, %d videos", course.Name, len(specs), totalVideos))
	return course, nil
}

// scanModule registers the module's video files.
func (s *Scanner) scanModule(course *entities.Course, module *entities.Module, videoPaths []string) (int, error) {
	// Known videos keep their order index; new files take the next free
	// one, so a rescan never collides with what is already registered.
	count := 0
	usedOrder := map[int]bool{}
	var newPaths []string
	for _, videoPath := range videoPaths {
		existing, err := s.store.GetVideoByPath(videoPath)
		if err != nil {
			return count, err
		}
		if existing != nil {
			usedOrder[existing.OrderIndex] = true
			count++
			continue
		}
		newPaths = append(newPaths, videoPath)
	}

	next := 0
	for _, videoPath := range newPaths {
		for usedOrder[next] {
			next++
		}

		var size int64
		if info, err := os.Stat(videoPath); err == nil {
			size = info.Size()
		}
		video := &entities.Video{
			ModuleID:   module.ID,
			CourseID:   course.ID,
			Name:       utils.DisplayName(strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))),
			FilePath:   videoPath,
			FileSize:   size,
			OrderIndex: next,
		}
		if err := s.store.CreateVideo(video); err != nil {
			return count, err
		}
		usedOrder[next] = true
		count++
	}

	if count != len(videoPaths) {
		log.Printf("Module %s: %d of %d videos registered", module.Name, count, len(videoPaths))
	}
	return count, nil
}

// collectVideos returns the media files under dir, recursively, sorted by
// path so nested content keeps its hierarchical order.
func collectVideos(dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && IsVideoFile(path) {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out
}

func countVideos(dir string) int {
	return len(collectVideos(dir))
}
