package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/comforterslodge/lodge/internal/database/imports"
	"github.com/comforterslodge/lodge/internal/database/lessons"
	"github.com/comforterslodge/lodge/internal/entities"
	"github.com/comforterslodge/lodge/internal/services"
)

func setupLessonsTestDB(t *testing.T) (*gin.Engine, *gorm.DB, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_lessons_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Lesson{}, &entities.ImportEvent{}))

	store := lessons.NewRepository(db)
	importer := services.NewImportService(store, nil, nil, imports.NewRepository(db), nil)
	controller := NewLessonsController(store, importer)

	router := gin.New()
	router.GET("/api/lessons", controller.List)
	router.GET("/api/lessons/daily", controller.Daily)
	router.GET("/api/lessons/weekly", controller.Weekly)
	router.GET("/api/lessons/:id", controller.Get)
	router.POST("/api/lessons", controller.Create)
	router.PATCH("/api/lessons/:id", controller.Update)
	router.DELETE("/api/lessons/:id", controller.Delete)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return router, db, cleanup
}

// --- Shared request helpers for the API tests ---

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return day
}

// uploadTSVRequest builds a multipart POST carrying content as the tsv_file
// part.
func uploadTSVRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("tsv_file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func postFormRequest(target string, form url.Values) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func patchJSONRequest(target, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func importEvents(t *testing.T, db *gorm.DB) []entities.ImportEvent {
	t.Helper()
	events, err := imports.NewRepository(db).List(0, 10)
	require.NoError(t, err)
	return events
}

// --- Lesson fixtures ---

func seedLesson(t *testing.T, db *gorm.DB, theme string, datePosted time.Time) *entities.Lesson {
	t.Helper()
	lesson := &entities.Lesson{
		SeriesTitle:      "Walking in Grace",
		PersonalQuestion: "Where did grace meet you this week?",
		Theme:            theme,
		OpeningHook:      "A door left open",
		BiblicalQA:       "Q: Who opened it? A: See John 10.",
		Reflection:       "The door was never locked.",
		Story:            "A traveler finds shelter.",
		Prayer:           "Keep our doors open.",
		ActivityGuide:    "Discuss a time you were welcomed in.",
		DatePosted:       datePosted,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func validLessonForm() url.Values {
	form := url.Values{}
	form.Set("series_title", "Walking in Grace")
	form.Set("personal_question", "Where did grace meet you this week?")
	form.Set("theme", "Grace")
	form.Set("opening_hook", "A door left open")
	form.Set("biblical_qa", "Q: Who opened it? A: See John 10.")
	form.Set("reflection", "The door was never locked.")
	form.Set("story", "A traveler finds shelter.")
	form.Set("prayer", "Keep our doors open.")
	form.Set("activity_guide", "Discuss a time you were welcomed in.")
	return form
}

func lessonTSV(rows ...string) string {
	header := "series_title\tpersonal_question\ttheme\topening_hook\tbiblical_qa\treflection\tstory\tprayer\tactivity_guide\tdate_posted"
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func lessonTSVRow(theme, date string) string {
	return strings.Join([]string{
		"Walking in Grace",
		"Where did grace meet you this week?",
		theme,
		"A door left open",
		"Q: Who opened it? A: See John 10.",
		"The door was never locked.",
		"A traveler finds shelter.",
		"Keep our doors open.",
		"Discuss a time you were welcomed in.",
		date,
	}, "\t")
}

func TestLessonsController_List(t *testing.T) {
	t.Run("pages newest first, ten per page", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		for i := 1; i <= 12; i++ {
			seedLesson(t, db, fmt.Sprintf("Theme %d", i), mustDay(t, fmt.Sprintf("2026-01-%02d", i)))
		}

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Lessons []struct {
				Theme      string `json:"theme"`
				DatePosted string `json:"date_posted"`
			} `json:"lessons"`
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Len(t, resp.Lessons, 10)
		assert.Equal(t, "2026-01-12", resp.Lessons[0].DatePosted)
		assert.Equal(t, "Theme 12", resp.Lessons[0].Theme)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 2, resp.TotalPages)
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		seedLesson(t, db, "Grace", mustDay(t, "2026-01-01"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons?page=5", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Lessons    []json.RawMessage `json:"lessons"`
			Page       int               `json:"page"`
			TotalPages int               `json:"total_pages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Lessons)
		assert.Equal(t, 5, resp.Page)
		assert.Equal(t, 1, resp.TotalPages)
	})

	t.Run("rejects a non-positive page", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons?page=0", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid page", decodeError(t, w))
	})
}

func TestLessonsController_Feeds(t *testing.T) {
	t.Run("daily lists posted lessons with the next one up", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		today := entities.Today()
		seedLesson(t, db, "Yesterday", today.AddDate(0, 0, -1))
		seedLesson(t, db, "Today", today)
		seedLesson(t, db, "Tomorrow", today.AddDate(0, 0, 1))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons/daily", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Lessons []struct {
				Theme string `json:"theme"`
			} `json:"lessons"`
			Page   int `json:"page"`
			UpNext *struct {
				Theme      string `json:"theme"`
				DatePosted string `json:"date_posted"`
			} `json:"up_next"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		require.Len(t, resp.Lessons, 2)
		assert.Equal(t, "Today", resp.Lessons[0].Theme)
		assert.Equal(t, "Yesterday", resp.Lessons[1].Theme)
		require.NotNil(t, resp.UpNext)
		assert.Equal(t, "Tomorrow", resp.UpNext.Theme)
		assert.Equal(t, today.AddDate(0, 0, 1).Format("2006-01-02"), resp.UpNext.DatePosted)
	})

	t.Run("up_next is null when nothing is scheduled", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		seedLesson(t, db, "Past", entities.Today().AddDate(0, 0, -3))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons/daily", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			UpNext *json.RawMessage `json:"up_next"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.UpNext)
	})

	t.Run("weekly pages seven at a time", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		today := entities.Today()
		for i := 0; i < 9; i++ {
			seedLesson(t, db, fmt.Sprintf("Week %d", i), today.AddDate(0, 0, -i))
		}

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons/weekly?page=2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Lessons []struct {
				Theme string `json:"theme"`
			} `json:"lessons"`
			Page int `json:"page"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Lessons, 2)
		assert.Equal(t, 2, resp.Page)
	})
}

func TestLessonsController_Get(t *testing.T) {
	t.Run("returns one lesson", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/lessons/%d", created.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp LessonOut
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, "Grace", resp.Theme)
		assert.Equal(t, "2026-02-14", resp.DatePosted)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons/99", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "lesson not found", decodeError(t, w))
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/lessons/grace", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid id", decodeError(t, w))
	})
}

func TestLessonsController_CreateSingle(t *testing.T) {
	t.Run("creates one lesson from form fields", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		form := validLessonForm()
		form.Set("date_posted", "2026-04-05")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postFormRequest("/api/lessons", form))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp []LessonOut
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.NotZero(t, resp[0].ID)
		assert.Equal(t, "Grace", resp[0].Theme)
		assert.Equal(t, "2026-04-05", resp[0].DatePosted)

		var count int64
		require.NoError(t, db.Model(&entities.Lesson{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("date_posted defaults to today", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postFormRequest("/api/lessons", validLessonForm()))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp []LessonOut
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, entities.Today().Format("2006-01-02"), resp[0].DatePosted)
	})

	t.Run("missing fields are reported together", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		form := url.Values{}
		form.Set("series_title", "Walking in Grace")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postFormRequest("/api/lessons", form))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		message := decodeError(t, w)
		assert.Contains(t, message, "Missing required form fields")
		assert.Contains(t, message, "personal_question")
		assert.Contains(t, message, "activity_guide")
		assert.Contains(t, message, "single lesson")
	})

	t.Run("rejects a malformed date_posted", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		form := validLessonForm()
		form.Set("date_posted", "04/05/2026")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postFormRequest("/api/lessons", form))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "date_posted must be YYYY-MM-DD", decodeError(t, w))
	})
}

func TestLessonsController_BulkImport(t *testing.T) {
	t.Run("imports every row and records the event", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		content := lessonTSV(
			lessonTSVRow("Grace", "2026-03-01"),
			lessonTSVRow("Generosity", "2026-03-02"),
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadTSVRequest(t, "/api/lessons", "lessons.tsv", content))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp []LessonOut
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "Grace", resp[0].Theme)
		assert.NotZero(t, resp[1].ID)

		var count int64
		require.NoError(t, db.Model(&entities.Lesson{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)

		events := importEvents(t, db)
		require.Len(t, events, 1)
		assert.Equal(t, "LESSON", events[0].Kind)
		assert.Equal(t, "lessons.tsv", events[0].Filename)
		assert.Equal(t, 2, events[0].RowCount)
		assert.Equal(t, entities.ImportStatusCompleted, events[0].Status)
		assert.Equal(t, entities.ImportOriginAPI, events[0].Origin)
	})

	t.Run("row error aborts the upload and is recorded", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		content := lessonTSV(
			lessonTSVRow("Grace", "2026-03-01"),
			lessonTSVRow("", "2026-03-02"),
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadTSVRequest(t, "/api/lessons", "lessons.tsv", content))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Row 3: 'theme' is required.", decodeError(t, w))

		// Nothing committed, but the failure shows up in the import log.
		var count int64
		require.NoError(t, db.Model(&entities.Lesson{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		events := importEvents(t, db)
		require.Len(t, events, 1)
		assert.Equal(t, entities.ImportStatusFailed, events[0].Status)
		assert.Equal(t, "Row 3: 'theme' is required.", events[0].ErrorMsg)
	})

	t.Run("empty upload is rejected without an event", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadTSVRequest(t, "/api/lessons", "lessons.tsv", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "tsv_file upload is empty", decodeError(t, w))
		assert.Empty(t, importEvents(t, db))
	})
}

func TestLessonsController_Update(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		w := httptest.NewRecorder()
		target := fmt.Sprintf("/api/lessons/%d", created.ID)
		router.ServeHTTP(w, patchJSONRequest(target, `{"theme": "Hope", "date_posted": "2026-02-20"}`))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp LessonOut
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Hope", resp.Theme)
		assert.Equal(t, "2026-02-20", resp.DatePosted)
		assert.Equal(t, "Walking in Grace", resp.SeriesTitle)

		var stored entities.Lesson
		require.NoError(t, db.First(&stored, created.ID).Error)
		assert.Equal(t, "Hope", stored.Theme)
	})

	t.Run("empty patch returns 400", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, patchJSONRequest(fmt.Sprintf("/api/lessons/%d", created.ID), `{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "no fields provided", decodeError(t, w))
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, patchJSONRequest(fmt.Sprintf("/api/lessons/%d", created.ID), `{"theme":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid JSON body", decodeError(t, w))
	})

	t.Run("rejects a malformed date_posted", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, patchJSONRequest(fmt.Sprintf("/api/lessons/%d", created.ID), `{"date_posted": "soon"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "date_posted must be YYYY-MM-DD", decodeError(t, w))
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		router, _, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, patchJSONRequest("/api/lessons/99", `{"theme": "Hope"}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "lesson not found", decodeError(t, w))
	})
}

func TestLessonsController_Delete(t *testing.T) {
	t.Run("removes the lesson", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/lessons/%d", created.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Deleted bool `json:"deleted"`
			ID      uint `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Deleted)
		assert.Equal(t, created.ID, resp.ID)

		var count int64
		require.NoError(t, db.Model(&entities.Lesson{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("deleting twice returns 404", func(t *testing.T) {
		router, db, cleanup := setupLessonsTestDB(t)
		defer cleanup()

		created := seedLesson(t, db, "Grace", mustDay(t, "2026-02-14"))

		first := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/lessons/%d", created.ID), nil)
		router.ServeHTTP(first, req)
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		req, _ = http.NewRequest("DELETE", fmt.Sprintf("/api/lessons/%d", created.ID), nil)
		router.ServeHTTP(second, req)

		assert.Equal(t, http.StatusNotFound, second.Code)
		assert.Equal(t, "lesson not found", decodeError(t, second))
	})
}
