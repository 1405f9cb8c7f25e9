package entities

import "time"

// Keys stored in schema_metadata.
const (
	MetadataKeyVersion       = "version"
	MetadataKeyCreatedAt     = "created_at"
	MetadataKeyLastMigration = "last_migration"
)

// SchemaMetadata is a key/value row describing the store itself, most
// importantly the integer schema version (stored as text).
type SchemaMetadata struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SchemaMetadata) TableName() string {
	return "schema_metadata"
}
