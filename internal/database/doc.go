// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── lessons/         # Study lesson CRUD, feeds and search
//	├── devotionals/     # Devotional CRUD, feeds and search
//	├── hymns/           # Hymn CRUD, grouping and search
//	└── imports/         # Import event log
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase(cfg.Database)
//
//	// Create domain-specific repositories
//	lessonRepo := lessons.NewRepository(db.DB)
//	hymnRepo := hymns.NewRepository(db.DB)
//
//	// Use repositories
//	lesson, err := lessonRepo.GetByID(123)
//	page, err := hymnRepo.List(0, 10)
//
// # Interface Implementations
//
// The repositories back the store interfaces declared where they are
// consumed: the API and admin interfaces in internal/http and the batch
// insertion interfaces in internal/services. Compile-time checks for all of
// them live in internal/interfaces.
//
// # Adding a New Domain
//
// To add a new domain (e.g., announcements):
//
//  1. Create a new sub-package: internal/database/announcements/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
