// Package hymns provides database operations for hymn records.
//
// This package implements the HymnStore interface defined in
// internal/http/hymns.go. Hymn numbers are protected by a unique index;
// conflicting inserts and updates surface through
// database.IsUniqueViolation.
package hymns

import (
	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/entities"
)

const searchClause = "LOWER(hymn_title) LIKE LOWER(?) OR LOWER(classification) LIKE LOWER(?) OR LOWER(scripture) LIKE LOWER(?)"

// Repository handles all hymn database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new hymns repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a single hymn.
func (r *Repository) Create(hymn *entities.Hymn) error {
	return r.db.Create(hymn).Error
}

// CreateBatch inserts all hymns in one transaction: either every row
// commits or none do. A duplicate hymn number anywhere in the batch rolls
// the whole batch back.
func (r *Repository) CreateBatch(batch []*entities.Hymn) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, hymn := range batch {
			if err := tx.Create(hymn).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetByID(id uint) (*entities.Hymn, error) {
	var hymn entities.Hymn
	if err := r.db.First(&hymn, id).Error; err != nil {
		return nil, err
	}
	return &hymn, nil
}

func (r *Repository) Update(hymn *entities.Hymn) error {
	return r.db.Save(hymn).Error
}

// Delete removes a hymn, reporting whether a row existed.
func (r *Repository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&entities.Hymn{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns hymns in hymnal order (hymn_number ascending).
func (r *Repository) List(offset, limit int) ([]entities.Hymn, error) {
	var hymns []entities.Hymn
	err := r.db.Order("hymn_number ASC").
		Offset(offset).Limit(limit).
		Find(&hymns).Error
	return hymns, err
}

// ListAll returns every hymn in hymnal order, for the grouped view.
func (r *Repository) ListAll() ([]entities.Hymn, error) {
	var hymns []entities.Hymn
	err := r.db.Order("hymn_number ASC").Find(&hymns).Error
	return hymns, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Hymn{}).Count(&count).Error
	return count, err
}

// Search filters hymns by case-insensitive substring over the title,
// classification and scripture columns.
func (r *Repository) Search(query string, offset, limit int) ([]entities.Hymn, error) {
	var hymns []entities.Hymn
	pattern := "%" + query + "%"
	err := r.db.Where(searchClause, pattern, pattern, pattern).
		Order("hymn_number ASC").
		Offset(offset).Limit(limit).
		Find(&hymns).Error
	return hymns, err
}

func (r *Repository) SearchCount(query string) (int64, error) {
	var count int64
	pattern := "%" + query + "%"
	err := r.db.Model(&entities.Hymn{}).
		Where(searchClause, pattern, pattern, pattern).
		Count(&count).Error
	return count, err
}
