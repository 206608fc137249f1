// Package devotionals provides database operations for devotional records.
//
// This package implements the DevotionalStore interface defined in
// internal/http/devotionals.go.
package devotionals

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/entities"
)

const searchClause = "LOWER(citation) LIKE LOWER(?) OR LOWER(verse_content) LIKE LOWER(?)"

// Repository handles all devotional database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new devotionals repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a single devotional.
func (r *Repository) Create(devotional *entities.Devotional) error {
	return r.db.Create(devotional).Error
}

// CreateBatch inserts all devotionals in one transaction: either every row
// commits or none do.
func (r *Repository) CreateBatch(batch []*entities.Devotional) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, devotional := range batch {
			if err := tx.Create(devotional).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetByID(id uint) (*entities.Devotional, error) {
	var devotional entities.Devotional
	if err := r.db.First(&devotional, id).Error; err != nil {
		return nil, err
	}
	return &devotional, nil
}

func (r *Repository) Update(devotional *entities.Devotional) error {
	return r.db.Save(devotional).Error
}

// Delete removes a devotional, reporting whether a row existed.
func (r *Repository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&entities.Devotional{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns devotionals in display order: newest posting date first,
// creation time breaking ties.
func (r *Repository) List(offset, limit int) ([]entities.Devotional, error) {
	var devotionals []entities.Devotional
	err := r.db.Order("date_posted DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&devotionals).Error
	return devotionals, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Devotional{}).Count(&count).Error
	return count, err
}

// ListOnOrBefore returns devotionals posted on or before day for the daily
// feed, newest first with id breaking ties.
func (r *Repository) ListOnOrBefore(day time.Time, offset, limit int) ([]entities.Devotional, error) {
	var devotionals []entities.Devotional
	err := r.db.Where("date_posted <= ?", day).
		Order("date_posted DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&devotionals).Error
	return devotionals, err
}

// NextAfter returns the earliest devotional posted strictly after day, or
// nil when nothing is scheduled yet.
func (r *Repository) NextAfter(day time.Time) (*entities.Devotional, error) {
	var devotional entities.Devotional
	err := r.db.Where("date_posted > ?", day).
		Order("date_posted ASC, id ASC").
		First(&devotional).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &devotional, nil
}

// Search filters devotionals by case-insensitive substring over the
// citation and verse content columns.
func (r *Repository) Search(query string, offset, limit int) ([]entities.Devotional, error) {
	var devotionals []entities.Devotional
	pattern := "%" + query + "%"
	err := r.db.Where(searchClause, pattern, pattern).
		Order("date_posted DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&devotionals).Error
	return devotionals, err
}

func (r *Repository) SearchCount(query string) (int64, error) {
	var count int64
	pattern := "%" + query + "%"
	err := r.db.Model(&entities.Devotional{}).
		Where(searchClause, pattern, pattern).
		Count(&count).Error
	return count, err
}
