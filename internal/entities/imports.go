package entities

import "time"

type ImportStatus string

const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportOrigin records which surface triggered a bulk import.
type ImportOrigin string

const (
	ImportOriginAPI   ImportOrigin = "api"
	ImportOriginAdmin ImportOrigin = "admin"
	ImportOriginCLI   ImportOrigin = "cli"
)

// ImportEvent is the audit record of one bulk TSV import attempt, successful
// or not. ArchivePath points at the archived raw upload when archiving
// succeeded.
type ImportEvent struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Kind        string       `gorm:"index;size:20" json:"kind"` // LESSON, DEVOTIONAL or HYMN
	Filename    string       `gorm:"size:512" json:"filename"`
	ArchivePath string       `gorm:"size:1024" json:"archive_path,omitempty"`
	RowCount    int          `json:"row_count"`
	Status      ImportStatus `gorm:"size:20" json:"status"`
	ErrorMsg    string       `gorm:"size:500" json:"error_msg,omitempty"`
	Origin      ImportOrigin `gorm:"size:20" json:"origin"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
}

func (ImportEvent) TableName() string {
	return "import_events"
}
