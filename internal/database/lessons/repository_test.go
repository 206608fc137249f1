package lessons

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

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_lessons_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Lesson{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func mustDate(t *testing.T, value string) time.Time {
	day, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return day
}

func createTestLesson(t *testing.T, db *gorm.DB, datePosted time.Time) *entities.Lesson {
	lesson := &entities.Lesson{
		SeriesTitle:      "Walking in Grace",
		PersonalQuestion: "Where did grace meet you this week?",
		Theme:            "Grace",
		OpeningHook:      "A door left open",
		BiblicalQA:       "Q: Who opened it? A: See John 10.",
		Reflection:       "The door was never locked.",
		Story:            "A traveler finds shelter.",
		Prayer:           "Keep our doors open.",
		ActivityGuide:    "Discuss a time you were welcomed in.",
		DatePosted:       datePosted,
	}
	err := db.Create(lesson).Error
	require.NoError(t, err)
	return lesson
}

func TestRepository_Create_AppliesDefaults(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	lesson := &entities.Lesson{
		PersonalQuestion: "q",
		OpeningHook:      "hook",
		BiblicalQA:       "qa",
		Reflection:       "r",
		Story:            "s",
		Prayer:           "p",
		ActivityGuide:    "a",
	}
	err := repo.Create(lesson)
	require.NoError(t, err)

	var stored entities.Lesson
	db.First(&stored, lesson.ID)
	assert.Equal(t, entities.DefaultSeriesTitle, stored.SeriesTitle)
	assert.Equal(t, entities.DefaultTheme, stored.Theme)
	assert.Equal(t, entities.Today(), stored.DatePosted.UTC())
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRepository_CreateBatch(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	batch := []*entities.Lesson{
		{PersonalQuestion: "q1", OpeningHook: "h1", BiblicalQA: "qa", Reflection: "r", Story: "s", Prayer: "p", ActivityGuide: "a"},
		{PersonalQuestion: "q2", OpeningHook: "h2", BiblicalQA: "qa", Reflection: "r", Story: "s", Prayer: "p", ActivityGuide: "a"},
	}
	err := repo.CreateBatch(batch)
	require.NoError(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_List_Order(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	older := createTestLesson(t, db, mustDate(t, "2026-03-01"))
	newest := createTestLesson(t, db, mustDate(t, "2026-03-10"))
	middle := createTestLesson(t, db, mustDate(t, "2026-03-05"))

	listed, err := repo.List(0, 10)

	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, newest.ID, listed[0].ID)
	assert.Equal(t, middle.ID, listed[1].ID)
	assert.Equal(t, older.ID, listed[2].ID)
}

func TestRepository_List_SameDateNewestCreatedFirst(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	day := mustDate(t, "2026-03-01")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &entities.Lesson{OpeningHook: "first", DatePosted: day, CreatedAt: base}
	second := &entities.Lesson{OpeningHook: "second", DatePosted: day, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	listed, err := repo.List(0, 10)

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].OpeningHook)
	assert.Equal(t, "first", listed[1].OpeningHook)
}

func TestRepository_List_PastEndPageIsEmpty(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestLesson(t, db, mustDate(t, "2026-03-01"))

	listed, err := repo.List(50, 10)

	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(999)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Delete(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	lesson := createTestLesson(t, db, mustDate(t, "2026-03-01"))

	deleted, err := repo.Delete(lesson.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(lesson.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepository_ListOnOrBefore_ExcludesFuture(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	today := mustDate(t, "2026-03-05")
	past := createTestLesson(t, db, mustDate(t, "2026-03-01"))
	current := createTestLesson(t, db, today)
	createTestLesson(t, db, mustDate(t, "2026-03-20"))

	listed, err := repo.ListOnOrBefore(today, 0, 10)

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, current.ID, listed[0].ID)
	assert.Equal(t, past.ID, listed[1].ID)
}

func TestRepository_NextAfter(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	today := mustDate(t, "2026-03-05")
	createTestLesson(t, db, today)
	soonest := createTestLesson(t, db, mustDate(t, "2026-03-08"))
	createTestLesson(t, db, mustDate(t, "2026-03-20"))

	next, err := repo.NextAfter(today)

	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, soonest.ID, next.ID)
}

func TestRepository_NextAfter_NothingScheduled(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	today := mustDate(t, "2026-03-05")
	createTestLesson(t, db, today)

	next, err := repo.NextAfter(today)

	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestRepository_Search(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	match := createTestLesson(t, db, mustDate(t, "2026-03-01"))
	other := createTestLesson(t, db, mustDate(t, "2026-03-02"))
	other.OpeningHook = "Different entirely"
	other.PersonalQuestion = "Another question"
	other.BiblicalQA = "Another answer"
	require.NoError(t, db.Save(other).Error)

	results, err := repo.Search("DOOR LEFT", 0, 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, match.ID, results[0].ID)

	count, err := repo.SearchCount("door left")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
