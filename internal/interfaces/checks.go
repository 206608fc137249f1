package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/comforterslodge/lodge/internal/audit"
	"github.com/comforterslodge/lodge/internal/database/devotionals"
	"github.com/comforterslodge/lodge/internal/database/hymns"
	"github.com/comforterslodge/lodge/internal/database/imports"
	"github.com/comforterslodge/lodge/internal/database/lessons"
	"github.com/comforterslodge/lodge/internal/http"
	"github.com/comforterslodge/lodge/internal/services"
	"github.com/comforterslodge/lodge/internal/tasks"
)

// =============================================================================
// JSON API stores
// =============================================================================

var _ http.LessonStore = (*lessons.Repository)(nil)
var _ http.DevotionalStore = (*devotionals.Repository)(nil)
var _ http.HymnStore = (*hymns.Repository)(nil)

// =============================================================================
// Admin browser stores
// =============================================================================

var _ http.LessonAdminStore = (*lessons.Repository)(nil)
var _ http.DevotionalAdminStore = (*devotionals.Repository)(nil)
var _ http.HymnAdminStore = (*hymns.Repository)(nil)
var _ http.ImportLogStore = (*imports.Repository)(nil)

// =============================================================================
// Import pipeline
// =============================================================================

var _ services.LessonBatchStore = (*lessons.Repository)(nil)
var _ services.DevotionalBatchStore = (*devotionals.Repository)(nil)
var _ services.HymnBatchStore = (*hymns.Repository)(nil)
var _ services.ImportEventStore = (*imports.Repository)(nil)

// =============================================================================
// Background maintenance
// =============================================================================

var _ tasks.ArchivePruner = (*audit.Archiver)(nil)
