package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/comforterslodge/lodge/internal/config"
	"github.com/comforterslodge/lodge/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the content store and runs migrations. A configured
// DATABASE_URL selects the postgres backend; otherwise the sqlite file at
// the configured path is used.
func NewDatabase(cfg config.Database) (*Database, error) {
	var dialector gorm.Dialector
	if cfg.URL != "" {
		dialector = postgres.Open(cfg.URL)
	} else {
		dialector = sqlite.Open(cfg.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.URL != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Lesson{},
		&entities.Devotional{},
		&entities.Hymn{},
		&entities.ImportEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.URL != "" {
		log.Printf("Database initialized successfully (postgres)")
	} else {
		log.Printf("Database initialized successfully at %s", cfg.Path)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsSQLite reports whether the store runs on the sqlite backend. Session
// persistence picks its store based on this.
func (d *Database) IsSQLite() bool {
	return d.DB.Dialector.Name() == "sqlite"
}

// IsUniqueViolation reports whether err came from a unique-index conflict,
// covering gorm's translated sentinel plus the raw sqlite and postgres
// message shapes.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
