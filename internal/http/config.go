package http

import (
	"github.com/comforterslodge/lodge/internal/admin"
	"github.com/comforterslodge/lodge/internal/database"
	"github.com/comforterslodge/lodge/internal/demo"
	"github.com/comforterslodge/lodge/internal/services"
	"github.com/comforterslodge/lodge/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	ImportService *services.ImportService

	// API stores
	LessonStore     LessonStore
	DevotionalStore DevotionalStore
	HymnStore       HymnStore

	// Admin surface
	LessonAdmin     LessonAdminStore
	DevotionalAdmin DevotionalAdminStore
	HymnAdmin       HymnAdminStore
	ImportLog       ImportLogStore
	SessionManager  *admin.SessionManager
	CSRFSecret      []byte
	SecureCookies   bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// CORS policy for the public API
	AllowedOrigins []string

	// Background maintenance queue; nil when tasks are disabled
	TaskClient         *tasks.Client
	AuditRetentionDays int

	// Demo mode; nil outside demo deployments
	DemoMiddleware *demo.Middleware

	// Application info
	Version string
}
