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

const (
	devotionalPageSize      = 10
	devotionalDailyPageSize = 12
)

var devotionalFormFields = []string{
	"citation",
	"verse_content",
}

// DevotionalStore defines the database operations the devotional endpoints
// rely on.
type DevotionalStore interface {
	Create(devotional *entities.Devotional) error
	GetByID(id uint) (*entities.Devotional, error)
	Update(devotional *entities.Devotional) error
	Delete(id uint) (bool, error)
	List(offset, limit int) ([]entities.Devotional, error)
	Count() (int64, error)
	ListOnOrBefore(day time.Time, offset, limit int) ([]entities.Devotional, error)
	NextAfter(day time.Time) (*entities.Devotional, error)
}

type DevotionalsController struct {
	store    DevotionalStore
	importer *services.ImportService
}

func NewDevotionalsController(store DevotionalStore, importer *services.ImportService) *DevotionalsController {
	return &DevotionalsController{
		store:    store,
		importer: importer,
	}
}

// List returns devotionals newest first, ten per page.
// GET /api/devotionals
func (dc *DevotionalsController) List(c *gin.Context) {
	page, ok := parsePageParam(c)
	if !ok {
		return
	}

	total, err := dc.store.Count()
	if err != nil {
		respondInternalError(c, err, "count devotionals")
		return
	}

	offset := (page - 1) * devotionalPageSize
	devotionals, err := dc.store.List(offset, devotionalPageSize)
	if err != nil {
		respondInternalError(c, err, "list devotionals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"devotionals": serializeDevotionals(devotionals),
		"page":        page,
		"total_pages": totalPages(total, devotionalPageSize),
	})
}

// Daily returns the reading feed: devotionals posted up to today, newest
// first, plus the next scheduled devotional when one exists.
// GET /api/devotionals/daily
func (dc *DevotionalsController) Daily(c *gin.Context) {
	page, ok := parsePageParam(c)
	if !ok {
		return
	}
	today := entities.Today()

	offset := (page - 1) * devotionalDailyPageSize
	devotionals, err := dc.store.ListOnOrBefore(today, offset, devotionalDailyPageSize)
	if err != nil {
		respondInternalError(c, err, "list devotional feed")
		return
	}

	next, err := dc.store.NextAfter(today)
	if err != nil {
		respondInternalError(c, err, "next scheduled devotional")
		return
	}
	var upNext *DevotionalOut
	if next != nil {
		out := serializeDevotional(next)
		upNext = &out
	}

	c.JSON(http.StatusOK, gin.H{
		"devotionals": serializeDevotionals(devotionals),
		"page":        page,
		"up_next":     upNext,
	})
}

// Get returns one devotional by id.
// GET /api/devotionals/:id
func (dc *DevotionalsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	devotional, err := dc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "devotional")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get devotional")
		return
	}
	c.JSON(http.StatusOK, serializeDevotional(devotional))
}

// Create handles both creation modes: a tsv_file upload bulk-imports rows
// atomically, otherwise the form fields describe a single devotional.
// POST /api/devotionals
func (dc *DevotionalsController) Create(c *gin.Context) {
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

		rows, err := parsers.ParseDevotionals(data)
		if err != nil {
			dc.importer.RecordFailure(parsers.KindDevotional, upload, err)
			respondBadRequest(c, err.Error())
			return
		}

		created, err := dc.importer.ImportDevotionals(rows, upload)
		if err != nil {
			respondInternalError(c, err, "bulk insert devotionals")
			return
		}
		respondCreated(c, serializeDevotionals(created))
		return
	}

	dc.createSingle(c)
}

func (dc *DevotionalsController) createSingle(c *gin.Context) {
	values, missing := requireFormFields(c, devotionalFormFields)
	if len(missing) > 0 {
		respondBadRequest(c, missingFieldsMessage(missing, "devotional"))
		return
	}

	devotional := &entities.Devotional{
		Citation:     values["citation"],
		VerseContent: values["verse_content"],
	}

	if raw := strings.TrimSpace(c.PostForm("date_posted")); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondBadRequest(c, "date_posted must be YYYY-MM-DD")
			return
		}
		devotional.DatePosted = entities.Day(date)
	}

	if err := dc.store.Create(devotional); err != nil {
		respondInternalError(c, err, "create devotional")
		return
	}
	respondCreated(c, []DevotionalOut{serializeDevotional(devotional)})
}

// DevotionalPatch carries the updatable devotional fields; nil means "not
// provided".
type DevotionalPatch struct {
	Citation     *string `json:"citation"`
	VerseContent *string `json:"verse_content"`
	DatePosted   *string `json:"date_posted"`
}

func (p *DevotionalPatch) apply(devotional *entities.Devotional) (int, error) {
	applied := 0
	if p.Citation != nil {
		devotional.Citation = strings.TrimSpace(*p.Citation)
		applied++
	}
	if p.VerseContent != nil {
		devotional.VerseContent = strings.TrimSpace(*p.VerseContent)
		applied++
	}
	if p.DatePosted != nil {
		date, err := time.Parse(dateLayout, strings.TrimSpace(*p.DatePosted))
		if err != nil {
			return applied, errors.New("date_posted must be YYYY-MM-DD")
		}
		devotional.DatePosted = entities.Day(date)
		applied++
	}
	return applied, nil
}

// Update applies a partial update and returns the stored result.
// PATCH /api/devotionals/:id
func (dc *DevotionalsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch DevotionalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	devotional, err := dc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "devotional")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get devotional")
		return
	}

	applied, err := patch.apply(devotional)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if applied == 0 {
		respondBadRequest(c, "no fields provided")
		return
	}

	if err := dc.store.Update(devotional); err != nil {
		respondInternalError(c, err, "update devotional")
		return
	}
	c.JSON(http.StatusOK, serializeDevotional(devotional))
}

// Delete removes a devotional by id.
// DELETE /api/devotionals/:id
func (dc *DevotionalsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := dc.store.Delete(id)
	if err != nil {
		respondInternalError(c, err, "delete devotional")
		return
	}
	if !deleted {
		respondNotFound(c, "devotional")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}
