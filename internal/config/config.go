package config

import (
	"strings"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Library
		Player
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Library struct {
		ScanDirs     []string // course roots scanned into the library
		ScanOnStart  bool
		ScanSchedule string // cron format, empty disables the periodic rescan
	}

	Player struct {
		SaveIntervalSeconds float64 // coalescing window for progress writes
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8765)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath())
	v.SetDefault("library_scan_dirs", "")
	v.SetDefault("library_scan_on_start", true)
	v.SetDefault("library_scan_schedule", "") // e.g. "0 * * * *" for hourly
	v.SetDefault("player_save_interval_seconds", 5.0)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Library: Library{
			ScanDirs:     splitDirs(v.GetString("LIBRARY_SCAN_DIRS")),
			ScanOnStart:  v.GetBool("LIBRARY_SCAN_ON_START"),
			ScanSchedule: v.GetString("LIBRARY_SCAN_SCHEDULE"),
		},
		Player: Player{
			SaveIntervalSeconds: v.GetFloat64("PLAYER_SAVE_INTERVAL_SECONDS"),
		},
	}
}

// splitDirs parses the colon-separated LIBRARY_SCAN_DIRS value.
func splitDirs(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, dir := range strings.Split(raw, ":") {
		if dir = strings.TrimSpace(dir); dir != "" {
			out = append(out, dir)
		}
	}
	return out
}
