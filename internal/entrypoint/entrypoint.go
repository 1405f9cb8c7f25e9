package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rnovais/coursetrack/internal/config"
	"github.com/rnovais/coursetrack/internal/database"
	"github.com/rnovais/coursetrack/internal/database/activity"
	"github.com/rnovais/coursetrack/internal/database/bookmarks"
	"github.com/rnovais/coursetrack/internal/database/courses"
	"github.com/rnovais/coursetrack/internal/database/notes"
	"github.com/rnovais/coursetrack/internal/database/progress"
	"github.com/rnovais/coursetrack/internal/database/settings"
	http_controllers "github.com/rnovais/coursetrack/internal/http"
	"github.com/rnovais/coursetrack/internal/player"
	"github.com/rnovais/coursetrack/internal/scanner"
	"github.com/rnovais/coursetrack/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Flush pending progress before the server stops accepting writes
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting CourseTrack v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories share one activity recorder so every mutation is logged
	activityRepo := activity.NewRepository(db.DB)
	courseRepo := courses.NewRepository(db.DB, activityRepo)
	progressRepo := progress.NewRepository(db.DB, activityRepo)
	noteRepo := notes.NewRepository(db.DB, activityRepo)
	bookmarkRepo := bookmarks.NewRepository(db.DB, activityRepo)
	settingRepo := settings.NewRepository(db.DB, activityRepo)

	if err := settingRepo.InitializeDefaults(); err != nil {
		log.Fatalf("Failed to seed default settings: %v", err)
	}

	coalescer := player.NewCoalescer(progressRepo, cfg.Player.SaveIntervalSeconds)
	libScanner := scanner.NewScanner(courseRepo, activityRepo)

	if cfg.Library.ScanOnStart && len(cfg.Library.ScanDirs) > 0 {
		go func() {
			scanned, err := libScanner.ScanAll(cfg.Library.ScanDirs)
			if err != nil {
				log.Printf("Startup library scan failed: %v", err)
				return
			}
			log.Printf("Startup library scan found %d course(s)", len(scanned))
		}()
	}

	rescan := scheduler.NewRescanScheduler(libScanner, cfg.Library.ScanSchedule, cfg.Library.ScanDirs)
	if err := rescan.Start(); err != nil {
		log.Fatalf("Invalid scan schedule %q: %v", cfg.Library.ScanSchedule, err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Version:        version,
		CourseStore:    courseRepo,
		Scanner:        libScanner,
		ScanDirs:       cfg.Library.ScanDirs,
		ProgressStore:  progressRepo,
		ProgressWriter: coalescer,
		NoteStore:      noteRepo,
		BookmarkStore:  bookmarkRepo,
		SettingStore:   settingRepo,
		ActivityStore:  activityRepo,
	})

	Serve(router, cfg, func(ctx context.Context) {
		rescan.Stop(ctx)
		if err := coalescer.Flush(); err != nil {
			log.Printf("Error flushing pending progress: %v", err)
		}
	})
}
