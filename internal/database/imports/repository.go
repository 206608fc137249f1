// Package imports provides database operations for the import-event log.
package imports

import (
	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/entities"
)

// Repository handles all import-event database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new import-events repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create records one import attempt.
func (r *Repository) Create(event *entities.ImportEvent) error {
	return r.db.Create(event).Error
}

// List returns import events, most recent first.
func (r *Repository) List(offset, limit int) ([]entities.ImportEvent, error) {
	var events []entities.ImportEvent
	err := r.db.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.ImportEvent{}).Count(&count).Error
	return count, err
}
