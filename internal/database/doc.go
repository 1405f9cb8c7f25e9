// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, runs the migration engine
//	├── errors.go        # Error taxonomy shared by all repositories
//	├── schema/          # Declarative table/index registry per version
//	├── migrate/         # Versioned, transactional schema upgrades
//	├── courses/         # Course, module and video records
//	├── progress/        # Watch-progress upsert and completion toggles
//	├── notes/           # User note CRUD
//	├── bookmarks/       # Video bookmark CRUD
//	├── settings/        # Typed user settings with a default seed
//	└── activity/        # Append-only activity log
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific
// operations:
//
//	// Initialize connection and migrate the store
//	db, err := database.NewDatabase("./coursetrack.db")
//
//	// Create domain-specific repositories
//	rec := activity.NewRepository(db.DB)
//	notesRepo := notes.NewRepository(db.DB, rec)
//
//	// Use repositories
//	note, err := notesRepo.Create(notes.CreateParams{...})
//
// Mutating repositories take the activity repository so every successful
// create/update/delete appends one log entry; failed writes log nothing.
//
// # Transactions
//
// Every logical operation runs inside a single transaction via
// database.Transact, which also retries once on lock contention. Readers
// never observe a partially-applied write.
package database
