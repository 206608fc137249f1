// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors
// understand extension points and how to implement new functionality.
//
// # Interface Categories
//
// The application uses several categories of interfaces:
//
// ## Data Access Interfaces
//
//   - LessonStore / DevotionalStore / HymnStore: reads and writes backing the
//     JSON API (internal/http/lessons.go, devotionals.go, hymns.go)
//   - LessonAdminStore / DevotionalAdminStore / HymnAdminStore: list, search
//     and detail reads for the admin browser (internal/http/admin.go)
//   - ImportLogStore: import event history (internal/http/admin.go)
//
// ## Import Pipeline Interfaces
//
//   - LessonBatchStore / DevotionalBatchStore / HymnBatchStore: atomic batch
//     insertion (internal/services/import_service.go)
//   - ImportEventStore: import attempt bookkeeping (internal/services/import_service.go)
//
// ## Background Maintenance Interfaces
//
//   - ArchivePruner: retention sweeps over archived uploads (internal/tasks/prune_archives.go)
//
// # Adding a New Content Kind
//
// To serve a new kind of content alongside lessons, devotionals and hymns:
//
//  1. Define the entity in internal/entities/ with its TSV columns
//
//  2. Create a repository sub-package: internal/database/<kind>/
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add a parser for the kind's TSV layout in internal/parsers/
//
//  4. Extend the import service with an Import<Kind> method and wire a
//     controller in internal/http/
//
//  5. Add compile-time checks for the new repository in checks.go:
//
//     var _ http.KindStore = (*kind.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
