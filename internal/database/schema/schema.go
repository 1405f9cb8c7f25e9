// Package schema is the single source of truth for the on-disk shape of the
// store: every table, its columns, constraints and secondary indexes, keyed
// by the schema version that introduced them.
//
// The registry is pure declarative data. The migration engine derives its
// work from it: a fresh store creates everything at the target version,
// while an upgrade step creates the tables and columns introduced since the
// store's current version.
package schema

// TargetVersion is the schema version this build of the application writes.
// Stores reporting a greater version are newer than supported and must not
// be opened.
const TargetVersion = 2

// Table declares one entity table. Create is idempotent DDL for the current
// shape of the table; Indexes are the secondary indexes that the access
// patterns require. Since is the schema version that introduced the table.
type Table struct {
	Name    string
	Since   int
	Create  string
	Indexes []string
}

// Column declares a column added to an existing table after its
// introduction. Definition is the full column definition used with ALTER
// TABLE ADD COLUMN; new non-null columns carry an explicit default so that
// existing rows backfill deterministically.
type Column struct {
	Table      string
	Name       string
	Definition string
	Since      int
}

// Tables lists every table in the current schema, in creation order
// (parents before children so foreign keys resolve).
func Tables() []Table {
	return []Table{
		{
			Name:  "courses",
			Since: 1,
			Create: `CREATE TABLE IF NOT EXISTS courses (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				path TEXT NOT NULL UNIQUE,
				total_modules INTEGER NOT NULL DEFAULT 0,
				total_videos INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				last_accessed DATETIME
			)`,
		},
		{
			Name:  "modules",
			Since: 1,
			Create: `CREATE TABLE IF NOT EXISTS modules (
				id TEXT PRIMARY KEY,
				course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT,
				path TEXT NOT NULL,
				order_index INTEGER NOT NULL,
				total_videos INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME
			)`,
			Indexes: []string{
				`CREATE INDEX IF NOT EXISTS idx_modules_course_id ON modules (course_id)`,
			},
		},
		{
			Name:  "videos",
			Since: 1,
			Create: `CREATE TABLE IF NOT EXISTS videos (
				id TEXT PRIMARY KEY,
				module_id TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
				course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT,
				file_path TEXT NOT NULL UNIQUE,
				duration REAL NOT NULL DEFAULT 0,
				file_size INTEGER NOT NULL DEFAULT 0,
				order_index INTEGER NOT NULL,
				created_at DATETIME
			)`,
			Indexes: []string{
				`CREATE INDEX IF NOT EXISTS idx_videos_module_id ON videos (module_id)`,
				`CREATE INDEX IF NOT EXISTS idx_videos_course_id ON videos (course_id)`,
			},
		},
		{
			Name:  "video_progress",
			Since: 1,
			Create: `CREATE TABLE IF NOT EXISTS video_progress (
				id TEXT PRIMARY KEY,
				video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
				"current_time" REAL NOT NULL DEFAULT 0,
				duration REAL NOT NULL DEFAULT 0,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				last_watched DATETIME NOT NULL,
				watch_count INTEGER NOT NULL DEFAULT 1
			)`,
			// Uniqueness lives in an index rather than a table constraint so
			// that legacy stores gain it without a table rebuild.
			Indexes: []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_video_progress_video_id ON video_progress (video_id)`,
			},
		},
		{
			Name:  "user_notes",
			Since: 2,
			Create: `CREATE TABLE IF NOT EXISTS user_notes (
				id TEXT PRIMARY KEY,
				video_id TEXT REFERENCES videos(id) ON DELETE CASCADE,
				course_id TEXT REFERENCES courses(id) ON DELETE CASCADE,
				module_id TEXT REFERENCES modules(id) ON DELETE CASCADE,
				timestamp REAL,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				note_type TEXT NOT NULL DEFAULT 'note',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
			Indexes: []string{
				`CREATE INDEX IF NOT EXISTS idx_user_notes_video_id ON user_notes (video_id)`,
				`CREATE INDEX IF NOT EXISTS idx_user_notes_course_id ON user_notes (course_id)`,
				`CREATE INDEX IF NOT EXISTS idx_user_notes_module_id ON user_notes (module_id)`,
				`CREATE INDEX IF NOT EXISTS idx_user_notes_timestamp ON user_notes (timestamp)`,
			},
		},
		{
			Name:  "video_bookmarks",
			Since: 2,
			Create: `CREATE TABLE IF NOT EXISTS video_bookmarks (
				id TEXT PRIMARY KEY,
				video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
				timestamp REAL NOT NULL,
				title TEXT NOT NULL,
				description TEXT,
				created_at DATETIME NOT NULL
			)`,
			Indexes: []string{
				`CREATE INDEX IF NOT EXISTS idx_video_bookmarks_video_id ON video_bookmarks (video_id)`,
				`CREATE INDEX IF NOT EXISTS idx_video_bookmarks_timestamp ON video_bookmarks (timestamp)`,
			},
		},
		{
			Name:  "user_settings",
			Since: 2,
			Create: `CREATE TABLE IF NOT EXISTS user_settings (
				id TEXT PRIMARY KEY,
				setting_key TEXT NOT NULL UNIQUE,
				setting_value TEXT NOT NULL,
				setting_type TEXT NOT NULL DEFAULT 'string',
				updated_at DATETIME NOT NULL
			)`,
			Indexes: []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_settings_setting_key ON user_settings (setting_key)`,
			},
		},
		{
			Name:  "activity_log",
			Since: 2,
			// No foreign keys: the log must survive entity deletion.
			Create: `CREATE TABLE IF NOT EXISTS activity_log (
				id TEXT PRIMARY KEY,
				activity_type TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				entity_type TEXT NOT NULL,
				details TEXT,
				created_at DATETIME NOT NULL
			)`,
			Indexes: []string{
				`CREATE INDEX IF NOT EXISTS idx_activity_log_type ON activity_log (activity_type)`,
				`CREATE INDEX IF NOT EXISTS idx_activity_log_entity ON activity_log (entity_id, entity_type)`,
				`CREATE INDEX IF NOT EXISTS idx_activity_log_created ON activity_log (created_at)`,
			},
		},
		{
			Name:  "schema_metadata",
			Since: 2,
			Create: `CREATE TABLE IF NOT EXISTS schema_metadata (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
		},
	}
}

// Columns lists every column added to a version-1 table by a later version.
// Stores created fresh never see these: their Create DDL already carries
// the full shape.
func Columns() []Column {
	return []Column{
		{Table: "courses", Name: "description", Definition: `description TEXT`, Since: 2},
		{Table: "courses", Name: "total_modules", Definition: `total_modules INTEGER NOT NULL DEFAULT 0`, Since: 2},
		{Table: "courses", Name: "total_videos", Definition: `total_videos INTEGER NOT NULL DEFAULT 0`, Since: 2},
		{Table: "modules", Name: "description", Definition: `description TEXT`, Since: 2},
		{Table: "modules", Name: "total_videos", Definition: `total_videos INTEGER NOT NULL DEFAULT 0`, Since: 2},
		{Table: "modules", Name: "created_at", Definition: `created_at DATETIME`, Since: 2},
		{Table: "videos", Name: "description", Definition: `description TEXT`, Since: 2},
		{Table: "videos", Name: "file_size", Definition: `file_size INTEGER NOT NULL DEFAULT 0`, Since: 2},
		{Table: "videos", Name: "created_at", Definition: `created_at DATETIME`, Since: 2},
		{Table: "video_progress", Name: "watch_count", Definition: `watch_count INTEGER NOT NULL DEFAULT 1`, Since: 2},
	}
}

// TablesAt returns the tables present at the given schema version.
func TablesAt(version int) []Table {
	var out []Table
	for _, t := range Tables() {
		if t.Since <= version {
			out = append(out, t)
		}
	}
	return out
}

// Diff returns the tables and column additions a step from version `from`
// to version `to` must apply. Tables introduced in the window are created
// whole, so their later columns are excluded from the column list.
func Diff(from, to int) ([]Table, []Column) {
	var tables []Table
	created := map[string]bool{}
	for _, t := range Tables() {
		if t.Since > from && t.Since <= to {
			tables = append(tables, t)
			created[t.Name] = true
		}
	}

	var cols []Column
	for _, c := range Columns() {
		if c.Since > from && c.Since <= to && !created[c.Table] {
			cols = append(cols, c)
		}
	}
	return tables, cols
}

// IndexesAt returns the index DDL for every table present at the given
// version, in table order. Index creation is idempotent, so upgrade steps
// re-apply the full set for pre-existing tables.
func IndexesAt(version int) []string {
	var out []string
	for _, t := range TablesAt(version) {
		out = append(out, t.Indexes...)
	}
	return out
}
