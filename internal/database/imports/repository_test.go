package imports

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/comforterslodge/lodge/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_imports_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ImportEvent{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func TestRepository_CreateAndList(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	older := &entities.ImportEvent{
		Kind:      "HYMN",
		Filename:  "hymns.tsv",
		RowCount:  12,
		Status:    entities.ImportStatusCompleted,
		Origin:    entities.ImportOriginAPI,
		CreatedAt: base,
	}
	newer := &entities.ImportEvent{
		Kind:      "LESSON",
		Filename:  "lessons.tsv",
		Status:    entities.ImportStatusFailed,
		ErrorMsg:  "Row 2: 'theme' is required.",
		Origin:    entities.ImportOriginAdmin,
		CreatedAt: base.Add(time.Hour),
	}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	events, err := repo.List(0, 10)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "lessons.tsv", events[0].Filename)
	assert.Equal(t, "hymns.tsv", events[1].Filename)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_List_Pagination(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		event := &entities.ImportEvent{
			Kind:   "DEVOTIONAL",
			Status: entities.ImportStatusCompleted,
			Origin: entities.ImportOriginCLI,
		}
		require.NoError(t, repo.Create(event))
	}

	page, err := repo.List(0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = repo.List(4, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
