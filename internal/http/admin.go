package http

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comforterslodge/lodge/internal/admin"
	"github.com/comforterslodge/lodge/internal/database"
	"github.com/comforterslodge/lodge/internal/entities"
	"github.com/comforterslodge/lodge/internal/parsers"
	"github.com/comforterslodge/lodge/internal/services"
)

const (
	adminPageSize = 25
	// recentImportCount is how many import events the dashboard shows.
	recentImportCount = 5
)

// Read surfaces the admin browser needs, one per record kind. The search
// columns live in the repositories.

type LessonAdminStore interface {
	GetByID(id uint) (*entities.Lesson, error)
	List(offset, limit int) ([]entities.Lesson, error)
	Count() (int64, error)
	Search(query string, offset, limit int) ([]entities.Lesson, error)
	SearchCount(query string) (int64, error)
}

type DevotionalAdminStore interface {
	GetByID(id uint) (*entities.Devotional, error)
	List(offset, limit int) ([]entities.Devotional, error)
	Count() (int64, error)
	Search(query string, offset, limit int) ([]entities.Devotional, error)
	SearchCount(query string) (int64, error)
}

type HymnAdminStore interface {
	GetByID(id uint) (*entities.Hymn, error)
	List(offset, limit int) ([]entities.Hymn, error)
	Count() (int64, error)
	Search(query string, offset, limit int) ([]entities.Hymn, error)
	SearchCount(query string) (int64, error)
}

// ImportLogStore lists recorded import events, most recent first.
type ImportLogStore interface {
	List(offset, limit int) ([]entities.ImportEvent, error)
	Count() (int64, error)
}

// AdminController serves the HTML browser: dashboard, per-kind list/search
// and detail pages, the import-event log and the TSV upload form.
type AdminController struct {
	lessons     LessonAdminStore
	devotionals DevotionalAdminStore
	hymns       HymnAdminStore
	importLog   ImportLogStore
	importer    *services.ImportService
	sessions    *admin.SessionManager
}

func NewAdminController(
	lessons LessonAdminStore,
	devotionals DevotionalAdminStore,
	hymns HymnAdminStore,
	importLog ImportLogStore,
	importer *services.ImportService,
	sessions *admin.SessionManager,
) *AdminController {
	return &AdminController{
		lessons:     lessons,
		devotionals: devotionals,
		hymns:       hymns,
		importLog:   importLog,
		importer:    importer,
		sessions:    sessions,
	}
}

// adminError logs the failure and renders a plain 500 page.
func adminError(c *gin.Context, err error, context string) {
	log.Printf("Admin error (%s): %v", context, err)
	c.String(http.StatusInternalServerError, "internal server error")
}

// parseAdminPage reads the page query parameter for the HTML lists,
// clamping anything unusable to the first page.
func parseAdminPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// listContext carries shared pagination state into the list templates.
type listContext struct {
	BasePath   string
	Query      string
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

func newListContext(basePath, query string, page int, total int64) listContext {
	pages := totalPages(total, adminPageSize)
	return listContext{
		BasePath:   basePath,
		Query:      query,
		Page:       page,
		TotalPages: pages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < pages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
}

// Dashboard shows per-kind record counts and the most recent imports.
// GET /admin
func (ac *AdminController) Dashboard(c *gin.Context) {
	lessonCount, err := ac.lessons.Count()
	if err != nil {
		adminError(c, err, "count lessons")
		return
	}
	devotionalCount, err := ac.devotionals.Count()
	if err != nil {
		adminError(c, err, "count devotionals")
		return
	}
	hymnCount, err := ac.hymns.Count()
	if err != nil {
		adminError(c, err, "count hymns")
		return
	}
	importCount, err := ac.importLog.Count()
	if err != nil {
		adminError(c, err, "count imports")
		return
	}
	recent, err := ac.importLog.List(0, recentImportCount)
	if err != nil {
		adminError(c, err, "recent imports")
		return
	}

	c.HTML(http.StatusOK, "admin-dashboard", gin.H{
		"LessonCount":     lessonCount,
		"DevotionalCount": devotionalCount,
		"HymnCount":       hymnCount,
		"ImportCount":     importCount,
		"RecentImports":   recent,
	})
}

// LessonList renders the paginated, searchable lesson table.
// GET /admin/lessons
func (ac *AdminController) LessonList(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page := parseAdminPage(c)
	offset := (page - 1) * adminPageSize

	var (
		lessons []entities.Lesson
		total   int64
		err     error
	)
	if query != "" {
		total, err = ac.lessons.SearchCount(query)
		if err == nil {
			lessons, err = ac.lessons.Search(query, offset, adminPageSize)
		}
	} else {
		total, err = ac.lessons.Count()
		if err == nil {
			lessons, err = ac.lessons.List(offset, adminPageSize)
		}
	}
	if err != nil {
		adminError(c, err, "list lessons")
		return
	}

	c.HTML(http.StatusOK, "admin-lessons", gin.H{
		"Lessons": lessons,
		"Ctx":     newListContext("/admin/lessons", query, page, total),
	})
}

// LessonDetail renders every stored field of one lesson.
// GET /admin/lessons/:id
func (ac *AdminController) LessonDetail(c *gin.Context) {
	ac.detail(c, "admin-lesson-detail", "Lesson", func(id uint) (any, error) {
		return ac.lessons.GetByID(id)
	})
}

// DevotionalList renders the paginated, searchable devotional table.
// GET /admin/devotionals
func (ac *AdminController) DevotionalList(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page := parseAdminPage(c)
	offset := (page - 1) * adminPageSize

	var (
		devotionals []entities.Devotional
		total       int64
		err         error
	)
	if query != "" {
		total, err = ac.devotionals.SearchCount(query)
		if err == nil {
			devotionals, err = ac.devotionals.Search(query, offset, adminPageSize)
		}
	} else {
		total, err = ac.devotionals.Count()
		if err == nil {
			devotionals, err = ac.devotionals.List(offset, adminPageSize)
		}
	}
	if err != nil {
		adminError(c, err, "list devotionals")
		return
	}

	c.HTML(http.StatusOK, "admin-devotionals", gin.H{
		"Devotionals": devotionals,
		"Ctx":         newListContext("/admin/devotionals", query, page, total),
	})
}

// DevotionalDetail renders every stored field of one devotional.
// GET /admin/devotionals/:id
func (ac *AdminController) DevotionalDetail(c *gin.Context) {
	ac.detail(c, "admin-devotional-detail", "Devotional", func(id uint) (any, error) {
		return ac.devotionals.GetByID(id)
	})
}

// HymnList renders the paginated, searchable hymn table.
// GET /admin/hymns
func (ac *AdminController) HymnList(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page := parseAdminPage(c)
	offset := (page - 1) * adminPageSize

	var (
		hymns []entities.Hymn
		total int64
		err   error
	)
	if query != "" {
		total, err = ac.hymns.SearchCount(query)
		if err == nil {
			hymns, err = ac.hymns.Search(query, offset, adminPageSize)
		}
	} else {
		total, err = ac.hymns.Count()
		if err == nil {
			hymns, err = ac.hymns.List(offset, adminPageSize)
		}
	}
	if err != nil {
		adminError(c, err, "list hymns")
		return
	}

	c.HTML(http.StatusOK, "admin-hymns", gin.H{
		"Hymns": hymns,
		"Ctx":   newListContext("/admin/hymns", query, page, total),
	})
}

// HymnDetail renders every stored field of one hymn.
// GET /admin/hymns/:id
func (ac *AdminController) HymnDetail(c *gin.Context) {
	ac.detail(c, "admin-hymn-detail", "Hymn", func(id uint) (any, error) {
		return ac.hymns.GetByID(id)
	})
}

// detail is the shared fetch/render path behind the three detail pages.
func (ac *AdminController) detail(c *gin.Context, tmpl, key string, fetch func(uint) (any, error)) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid id")
		return
	}

	record, err := fetch(uint(id))
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.HTML(http.StatusOK, tmpl, gin.H{key: record})
}

// ImportLog renders the import-event history, most recent first.
// GET /admin/imports
func (ac *AdminController) ImportLog(c *gin.Context) {
	page := parseAdminPage(c)
	offset := (page - 1) * adminPageSize

	total, err := ac.importLog.Count()
	if err != nil {
		adminError(c, err, "count imports")
		return
	}
	events, err := ac.importLog.List(offset, adminPageSize)
	if err != nil {
		adminError(c, err, "list imports")
		return
	}

	c.HTML(http.StatusOK, "admin-imports", gin.H{
		"Events": events,
		"Ctx":    newListContext("/admin/imports", "", page, total),
	})
}

// ImportForm renders the TSV upload form with any pending flash message.
// GET /admin/import
func (ac *AdminController) ImportForm(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-import-form", gin.H{
		"CSRFField":  template.HTML(admin.CSRFTokenField(c)),
		"Flash":      ac.sessions.PopFlash(c.Request),
		"FlashError": ac.sessions.PopFlashError(c.Request),
		"QueryError": c.Query("error"),
	})
}

// SubmitImport runs the upload through the same parse/import pipeline as the
// API, then redirects back to the form with a flash message.
// POST /admin/import
func (ac *AdminController) SubmitImport(c *gin.Context) {
	kind, err := parsers.KindFromString(c.PostForm("content_type"))
	if err != nil {
		ac.redirectWithError(c, err.Error())
		return
	}

	file, header, err := c.Request.FormFile("tsv_file")
	if err != nil {
		ac.redirectWithError(c, "tsv_file is required")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		ac.redirectWithError(c, fmt.Sprintf("File too large (max %d MB)", maxUploadSize/(1024*1024)))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		adminError(c, err, "read tsv upload")
		return
	}
	if len(data) == 0 {
		ac.redirectWithError(c, "tsv_file upload is empty")
		return
	}

	upload := services.Upload{
		Filename: header.Filename,
		Data:     data,
		Origin:   entities.ImportOriginAdmin,
	}
	count, err := ac.importRows(kind, data, upload)
	if err != nil {
		ac.redirectWithError(c, err.Error())
		return
	}

	ac.sessions.PutFlash(c.Request, fmt.Sprintf("Imported %d %s rows from %s", count, kind, header.Filename))
	c.Redirect(http.StatusSeeOther, "/admin/import")
}

// importRows parses and persists one upload, recording a failed event when
// parsing rejects it.
func (ac *AdminController) importRows(kind parsers.Kind, data []byte, upload services.Upload) (int, error) {
	switch kind {
	case parsers.KindLesson:
		rows, err := parsers.ParseLessons(data)
		if err != nil {
			ac.importer.RecordFailure(kind, upload, err)
			return 0, err
		}
		created, err := ac.importer.ImportLessons(rows, upload)
		return len(created), err

	case parsers.KindDevotional:
		rows, err := parsers.ParseDevotionals(data)
		if err != nil {
			ac.importer.RecordFailure(kind, upload, err)
			return 0, err
		}
		created, err := ac.importer.ImportDevotionals(rows, upload)
		return len(created), err

	default:
		rows, err := parsers.ParseHymns(data)
		if err != nil {
			ac.importer.RecordFailure(kind, upload, err)
			return 0, err
		}
		created, err := ac.importer.ImportHymns(rows, upload)
		if database.IsUniqueViolation(err) {
			return 0, errors.New(hymnConflictMessage)
		}
		return len(created), err
	}
}

func (ac *AdminController) redirectWithError(c *gin.Context, message string) {
	ac.sessions.PutFlashError(c.Request, message)
	c.Redirect(http.StatusSeeOther, "/admin/import")
}
