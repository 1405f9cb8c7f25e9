package config

import (
	"os"
	"path/filepath"
)

const (
	// AppDirName is the per-user application data directory name.
	AppDirName = "coursetrack"

	// DatabaseFileName is the store file name inside the app directory.
	DatabaseFileName = "coursetrack.db"
)

// DefaultDatabasePath returns the platform-specific per-user location of
// the store file, falling back to the working directory when the user dir
// cannot be resolved.
func DefaultDatabasePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "./" + DatabaseFileName
	}
	return filepath.Join(base, AppDirName, DatabaseFileName)
}
