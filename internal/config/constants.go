package config

const (
	// DefaultDatabasePath is the default path for the sqlite database file.
	DefaultDatabasePath = "./lodge.db"

	// DefaultAuditDir is the default directory for archived TSV uploads.
	DefaultAuditDir = "./audit"

	// DefaultAllowedOrigins covers the site's local development servers.
	DefaultAllowedOrigins = "http://localhost:5173,http://127.0.0.1:5173"
)
