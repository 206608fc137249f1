// Package lessons provides database operations for lesson records.
//
// This package implements the LessonStore interface defined in
// internal/http/lessons.go.
package lessons

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/entities"
)

// searchClause covers the columns the admin browser searches over.
const searchClause = "LOWER(opening_hook) LIKE LOWER(?) OR LOWER(personal_question) LIKE LOWER(?) OR LOWER(biblical_qa) LIKE LOWER(?)"

// Repository handles all lesson database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new lessons repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a single lesson.
func (r *Repository) Create(lesson *entities.Lesson) error {
	return r.db.Create(lesson).Error
}

// CreateBatch inserts all lessons in one transaction: either every row
// commits or none do.
func (r *Repository) CreateBatch(batch []*entities.Lesson) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, lesson := range batch {
			if err := tx.Create(lesson).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetByID(id uint) (*entities.Lesson, error) {
	var lesson entities.Lesson
	if err := r.db.First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *Repository) Update(lesson *entities.Lesson) error {
	return r.db.Save(lesson).Error
}

// Delete removes a lesson, reporting whether a row existed.
func (r *Repository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&entities.Lesson{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns lessons in display order: newest posting date first,
// creation time breaking ties.
func (r *Repository) List(offset, limit int) ([]entities.Lesson, error) {
	var lessons []entities.Lesson
	err := r.db.Order("date_posted DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&lessons).Error
	return lessons, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Lesson{}).Count(&count).Error
	return count, err
}

// ListOnOrBefore returns lessons posted on or before day for the daily
// feed, newest first with id breaking ties.
func (r *Repository) ListOnOrBefore(day time.Time, offset, limit int) ([]entities.Lesson, error) {
	var lessons []entities.Lesson
	err := r.db.Where("date_posted <= ?", day).
		Order("date_posted DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&lessons).Error
	return lessons, err
}

// NextAfter returns the earliest lesson posted strictly after day, or nil
// when nothing is scheduled yet.
func (r *Repository) NextAfter(day time.Time) (*entities.Lesson, error) {
	var lesson entities.Lesson
	err := r.db.Where("date_posted > ?", day).
		Order("date_posted ASC, id ASC").
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Search filters lessons by case-insensitive substring over the opening
// hook, personal question and biblical Q&A columns.
func (r *Repository) Search(query string, offset, limit int) ([]entities.Lesson, error) {
	var lessons []entities.Lesson
	pattern := "%" + query + "%"
	err := r.db.Where(searchClause, pattern, pattern, pattern).
		Order("date_posted DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&lessons).Error
	return lessons, err
}

func (r *Repository) SearchCount(query string) (int64, error) {
	var count int64
	pattern := "%" + query + "%"
	err := r.db.Model(&entities.Lesson{}).
		Where(searchClause, pattern, pattern, pattern).
		Count(&count).Error
	return count, err
}
