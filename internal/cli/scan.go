package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnovais/coursetrack/internal/config"
	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/database/activity"
	"github.com/rnovais/coursetrack/internal/database/courses"
	"github.com/rnovais/coursetrack/internal/scanner"
)

// ScanCommand walks course directories and syncs them into the catalog
// without starting the HTTP server.
type ScanCommand struct {
	Dirs         string
	DatabasePath string
	Verbose      bool
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// ParseFlags parses command line flags
func (cmd *ScanCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.Dirs, "dirs", "", "Colon-separated directories to scan for courses")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath(), "Path to the local database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scan directories for course folders and sync them into the catalog.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Walks each directory for subfolders containing video files\n")
		fmt.Fprintf(os.Stderr, "  2. Upserts courses, modules and videos keyed by filesystem path\n")
		fmt.Fprintf(os.Stderr, "  3. Preserves all existing watch progress, notes and bookmarks\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scan -dirs ~/Videos/Courses\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scan -dirs /media/courses:/media/tutorials -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Dirs == "" {
		cmd.Dirs = os.Getenv("LIBRARY_SCAN_DIRS")
	}
	if cmd.Dirs == "" {
		return fmt.Errorf("no scan directories given: pass -dirs or set LIBRARY_SCAN_DIRS")
	}

	return nil
}

// Run executes the scan command
func (cmd *ScanCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	activityRepo := activity.NewRepository(db.DB)
	courseRepo := courses.NewRepository(db.DB, activityRepo)
	libScanner := scanner.NewScanner(courseRepo, activityRepo)

	var dirs []string
	for _, d := range strings.Split(cmd.Dirs, ":") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}

	scanned, err := libScanner.ScanAll(dirs)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Scanned %d course(s)\n", len(scanned))
	if cmd.Verbose {
		for _, course := range scanned {
			fmt.Printf("  %s (%d modules, %d videos) at %s\n",
				course.Name, course.TotalModules, course.TotalVideos, course.Path)
		}
	}
	return nil
}
