package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/entities"
	"github.com/comforterslodge/lodge/internal/parsers"
	"github.com/comforterslodge/lodge/internal/services"
)

// Page sizes for the lesson list and the two reading-feed variants.
const (
	lessonPageSize       = 10
	lessonDailyPageSize  = 12
	lessonWeeklyPageSize = 7
)

// lessonFormFields lists the required single-create fields in reporting order.
var lessonFormFields = []string{
	"series_title",
	"personal_question",
	"theme",
	"opening_hook",
	"biblical_qa",
	"reflection",
	"story",
	"prayer",
	"activity_guide",
}

// LessonStore defines the database operations the lesson endpoints rely on.
type LessonStore interface {
	Create(lesson *entities.Lesson) error
	GetByID(id uint) (*entities.Lesson, error)
	Update(lesson *entities.Lesson) error
	Delete(id uint) (bool, error)
	List(offset, limit int) ([]entities.Lesson, error)
	Count() (int64, error)
	ListOnOrBefore(day time.Time, offset, limit int) ([]entities.Lesson, error)
	NextAfter(day time.Time) (*entities.Lesson, error)
}

type LessonsController struct {
	store    LessonStore
	importer *services.ImportService
}

func NewLessonsController(store LessonStore, importer *services.ImportService) *LessonsController {
	return &LessonsController{
		store:    store,
		importer: importer,
	}
}

// List returns lessons newest first, ten per page. Pages past the end come
// back empty, never as errors.
// GET /api/lessons
func (lc *LessonsController) List(c *gin.Context) {
	page, ok := parsePageParam(c)
	if !ok {
		return
	}

	total, err := lc.store.Count()
	if err != nil {
		respondInternalError(c, err, "count lessons")
		return
	}

	offset := (page - 1) * lessonPageSize
	lessons, err := lc.store.List(offset, lessonPageSize)
	if err != nil {
		respondInternalError(c, err, "list lessons")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lessons":     serializeLessons(lessons),
		"page":        page,
		"total_pages": totalPages(total, lessonPageSize),
	})
}

// Daily returns the reading feed: lessons posted up to today, newest first,
// plus the next scheduled lesson when one exists.
// GET /api/lessons/daily
func (lc *LessonsController) Daily(c *gin.Context) {
	lc.feed(c, lessonDailyPageSize)
}

// Weekly is the seven-per-page variant of the reading feed.
// GET /api/lessons/weekly
func (lc *LessonsController) Weekly(c *gin.Context) {
	lc.feed(c, lessonWeeklyPageSize)
}

func (lc *LessonsController) feed(c *gin.Context, pageSize int) {
	page, ok := parsePageParam(c)
	if !ok {
		return
	}
	today := entities.Today()

	offset := (page - 1) * pageSize
	lessons, err := lc.store.ListOnOrBefore(today, offset, pageSize)
	if err != nil {
		respondInternalError(c, err, "list lesson feed")
		return
	}

	next, err := lc.store.NextAfter(today)
	if err != nil {
		respondInternalError(c, err, "next scheduled lesson")
		return
	}
	var upNext *LessonOut
	if next != nil {
		out := serializeLesson(next)
		upNext = &out
	}

	c.JSON(http.StatusOK, gin.H{
		"lessons": serializeLessons(lessons),
		"page":    page,
		"up_next": upNext,
	})
}

// Get returns one lesson by id.
// GET /api/lessons/:id
func (lc *LessonsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lesson, err := lc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "lesson")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get lesson")
		return
	}
	c.JSON(http.StatusOK, serializeLesson(lesson))
}

// Create handles both creation modes: a tsv_file upload bulk-imports rows
// atomically, otherwise the form fields describe a single lesson.
// POST /api/lessons
func (lc *LessonsController) Create(c *gin.Context) {
	if file, header, err := c.Request.FormFile("tsv_file"); err == nil {
		defer file.Close()

		data, ok := readTSVUpload(c, file, header)
		if !ok {
			return
		}
		upload := services.Upload{
			Filename: header.Filename,
			Data:     data,
			Origin:   entities.ImportOriginAPI,
		}

		rows, err := parsers.ParseLessons(data)
		if err != nil {
			lc.importer.RecordFailure(parsers.KindLesson, upload, err)
			respondBadRequest(c, err.Error())
			return
		}

		created, err := lc.importer.ImportLessons(rows, upload)
		if err != nil {
			respondInternalError(c, err, "bulk insert lessons")
			return
		}
		respondCreated(c, serializeLessons(created))
		return
	}

	lc.createSingle(c)
}

func (lc *LessonsController) createSingle(c *gin.Context) {
	values, missing := requireFormFields(c, lessonFormFields)
	if len(missing) > 0 {
		respondBadRequest(c, missingFieldsMessage(missing, "lesson"))
		return
	}

	lesson := &entities.Lesson{
		SeriesTitle:      values["series_title"],
		PersonalQuestion: values["personal_question"],
		Theme:            values["theme"],
		OpeningHook:      values["opening_hook"],
		BiblicalQA:       values["biblical_qa"],
		Reflection:       values["reflection"],
		Story:            values["story"],
		Prayer:           values["prayer"],
		ActivityGuide:    values["activity_guide"],
	}

	// date_posted is optional; BeforeCreate fills in today when absent.
	if raw := strings.TrimSpace(c.PostForm("date_posted")); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondBadRequest(c, "date_posted must be YYYY-MM-DD")
			return
		}
		lesson.DatePosted = entities.Day(date)
	}

	if err := lc.store.Create(lesson); err != nil {
		respondInternalError(c, err, "create lesson")
		return
	}
	respondCreated(c, []LessonOut{serializeLesson(lesson)})
}

// LessonPatch carries the updatable lesson fields; nil means "not provided".
type LessonPatch struct {
	SeriesTitle      *string `json:"series_title"`
	PersonalQuestion *string `json:"personal_question"`
	Theme            *string `json:"theme"`
	OpeningHook      *string `json:"opening_hook"`
	BiblicalQA       *string `json:"biblical_qa"`
	Reflection       *string `json:"reflection"`
	Story            *string `json:"story"`
	Prayer           *string `json:"prayer"`
	ActivityGuide    *string `json:"activity_guide"`
	DatePosted       *string `json:"date_posted"`
}

// apply copies the provided fields onto the lesson, reporting how many were
// set. Patch strings are trimmed like form input.
func (p *LessonPatch) apply(lesson *entities.Lesson) (int, error) {
	applied := 0
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			applied++
		}
	}

	set(&lesson.SeriesTitle, p.SeriesTitle)
	set(&lesson.PersonalQuestion, p.PersonalQuestion)
	set(&lesson.Theme, p.Theme)
	set(&lesson.OpeningHook, p.OpeningHook)
	set(&lesson.BiblicalQA, p.BiblicalQA)
	set(&lesson.Reflection, p.Reflection)
	set(&lesson.Story, p.Story)
	set(&lesson.Prayer, p.Prayer)
	set(&lesson.ActivityGuide, p.ActivityGuide)

	if p.DatePosted != nil {
		date, err := time.Parse(dateLayout, strings.TrimSpace(*p.DatePosted))
		if err != nil {
			return applied, errors.New("date_posted must be YYYY-MM-DD")
		}
		lesson.DatePosted = entities.Day(date)
		applied++
	}
	return applied, nil
}

// Update applies a partial update and returns the stored result.
// PATCH /api/lessons/:id
func (lc *LessonsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch LessonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	lesson, err := lc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "lesson")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get lesson")
		return
	}

	applied, err := patch.apply(lesson)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if applied == 0 {
		respondBadRequest(c, "no fields provided")
		return
	}

	if err := lc.store.Update(lesson); err != nil {
		respondInternalError(c, err, "update lesson")
		return
	}
	c.JSON(http.StatusOK, serializeLesson(lesson))
}

// Delete removes a lesson by id.
// DELETE /api/lessons/:id
func (lc *LessonsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := lc.store.Delete(id)
	if err != nil {
		respondInternalError(c, err, "delete lesson")
		return
	}
	if !deleted {
		respondNotFound(c, "lesson")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}
