// Package scheduler runs the periodic library rescan in the background.
package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/rnovais/coursetrack/internal/entities"
)

// LibraryScanner walks configured directories and syncs them into the store.
type LibraryScanner interface {
	ScanAll(roots []string) ([]entities.Course, error)
}

// RescanScheduler triggers a library scan on a cron schedule. An empty
// schedule or an empty directory list leaves it dormant.
type RescanScheduler struct {
	scanner  LibraryScanner
	schedule string
	dirs     []string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewRescanScheduler creates a new scheduler instance.
func NewRescanScheduler(scanner LibraryScanner, schedule string, dirs []string) *RescanScheduler {
	return &RescanScheduler{
		scanner:  scanner,
		schedule: schedule,
		dirs:     dirs,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. It is a no-op when no schedule or no scan
// directories are configured, and when already running.
func (s *RescanScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" || len(s.dirs) == 0 {
		log.Printf("Library rescan scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.runScan)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.isRunning = true
	log.Printf("Library rescan scheduler: running with schedule %q", s.schedule)
	return nil
}

// Stop halts the scheduler and waits, bounded by ctx, for an in-flight scan
// to finish.
func (s *RescanScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		log.Printf("Library rescan scheduler: shutdown timed out waiting for scan")
	}
	s.isRunning = false
}

func (s *RescanScheduler) runScan() {
	scanned, err := s.scanner.ScanAll(s.dirs)
	if err != nil {
		log.Printf("Scheduled library scan failed: %v", err)
		return
	}
	log.Printf("Scheduled library scan finished: %d course(s)", len(scanned))
}
