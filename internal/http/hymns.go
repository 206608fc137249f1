package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/comforterslodge/lodge/internal/database"
	"github.com/comforterslodge/lodge/internal/entities"
	"github.com/comforterslodge/lodge/internal/parsers"
	"github.com/comforterslodge/lodge/internal/services"
)

const (
	hymnPageSize = 30
	// hymnGroupSize is the chunk size of the grouped view backing the
	// hymnal accordion UI.
	hymnGroupSize = 100
)

// hymnConflictMessage is returned whenever an insert or update collides with
// the hymn_number unique index.
const hymnConflictMessage = "a hymn with this hymn_number already exists"

// hymnFormFields lists the required single-create text fields in reporting
// order; hymn_number and verses are validated separately.
var hymnFormFields = []string{
	"hymn_title",
	"classification",
	"tune_ref",
}

// HymnStore defines the database operations the hymn endpoints rely on.
type HymnStore interface {
	Create(hymn *entities.Hymn) error
	GetByID(id uint) (*entities.Hymn, error)
	Update(hymn *entities.Hymn) error
	Delete(id uint) (bool, error)
	List(offset, limit int) ([]entities.Hymn, error)
	Count() (int64, error)
	ListAll() ([]entities.Hymn, error)
}

type HymnsController struct {
	store    HymnStore
	importer *services.ImportService
}

func NewHymnsController(store HymnStore, importer *services.ImportService) *HymnsController {
	return &HymnsController{
		store:    store,
		importer: importer,
	}
}

// List returns hymns in hymnal order, thirty per page. Unlike the other
// kinds the response carries the total hymn count rather than a page count.
// GET /api/hymns
func (hc *HymnsController) List(c *gin.Context) {
	page, ok := parsePageParam(c)
	if !ok {
		return
	}

	total, err := hc.store.Count()
	if err != nil {
		respondInternalError(c, err, "count hymns")
		return
	}

	offset := (page - 1) * hymnPageSize
	hymns, err := hc.store.List(offset, hymnPageSize)
	if err != nil {
		respondInternalError(c, err, "list hymns")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hymns":       serializeHymns(hymns),
		"page":        page,
		"total_hymns": total,
	})
}

// Grouped returns every hymn in hymnal order, chunked into blocks of one
// hundred for the accordion UI.
// GET /api/hymns/grouped
func (hc *HymnsController) Grouped(c *gin.Context) {
	hymns, err := hc.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "list hymns")
		return
	}

	groups := make([][]HymnOut, 0, (len(hymns)+hymnGroupSize-1)/hymnGroupSize)
	for start := 0; start < len(hymns); start += hymnGroupSize {
		end := start + hymnGroupSize
		if end > len(hymns) {
			end = len(hymns)
		}
		groups = append(groups, serializeHymns(hymns[start:end]))
	}
	c.JSON(http.StatusOK, groups)
}

// Get returns one hymn by id.
// GET /api/hymns/:id
func (hc *HymnsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hymn, err := hc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "hymn")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get hymn")
		return
	}
	c.JSON(http.StatusOK, serializeHymn(hymn))
}

// Create handles both creation modes: a tsv_file upload bulk-imports rows
// atomically, otherwise the form fields describe a single hymn.
// POST /api/hymns
func (hc *HymnsController) Create(c *gin.Context) {
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

		rows, err := parsers.ParseHymns(data)
		if err != nil {
			hc.importer.RecordFailure(parsers.KindHymn, upload, err)
			respondBadRequest(c, err.Error())
			return
		}

		created, err := hc.importer.ImportHymns(rows, upload)
		if err != nil {
			if database.IsUniqueViolation(err) {
				respondConflict(c, hymnConflictMessage)
				return
			}
			respondInternalError(c, err, "bulk insert hymns")
			return
		}
		respondCreated(c, serializeHymns(created))
		return
	}

	hc.createSingle(c)
}

func (hc *HymnsController) createSingle(c *gin.Context) {
	numberRaw := strings.TrimSpace(c.PostForm("hymn_number"))
	values, missingText := requireFormFields(c, hymnFormFields)
	verses := collectVerses(c.PostFormArray("verses"))

	var missing []string
	if numberRaw == "" {
		missing = append(missing, "hymn_number")
	}
	missing = append(missing, missingText...)
	if len(verses) == 0 {
		missing = append(missing, "verses")
	}
	if len(missing) > 0 {
		respondBadRequest(c, missingFieldsMessage(missing, "hymn"))
		return
	}

	number, err := strconv.Atoi(numberRaw)
	if err != nil || number < 0 {
		respondBadRequest(c, "hymn_number must be a non-negative integer")
		return
	}

	hymn := &entities.Hymn{
		HymnNumber:     number,
		HymnTitle:      values["hymn_title"],
		Classification: values["classification"],
		TuneRef:        values["tune_ref"],
		CrossRef:       strings.TrimSpace(c.PostForm("cross_ref")),
		Scripture:      strings.TrimSpace(c.PostForm("scripture")),
		ChorusTitle:    strings.TrimSpace(c.PostForm("chorus_title")),
		Chorus:         strings.TrimSpace(c.PostForm("chorus")),
		Verses:         datatypes.JSONSlice[string](verses),
	}

	if err := hc.store.Create(hymn); err != nil {
		if database.IsUniqueViolation(err) {
			respondConflict(c, hymnConflictMessage)
			return
		}
		respondInternalError(c, err, "create hymn")
		return
	}
	respondCreated(c, []HymnOut{serializeHymn(hymn)})
}

// collectVerses trims submitted verse values and drops blanks, keeping
// submission order.
func collectVerses(raw []string) []string {
	verses := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v != "" {
			verses = append(verses, v)
		}
	}
	return verses
}

// HymnPatch carries the updatable hymn fields; nil means "not provided".
// Optional text fields may be set to empty strings explicitly.
type HymnPatch struct {
	HymnNumber     *int      `json:"hymn_number"`
	HymnTitle      *string   `json:"hymn_title"`
	Classification *string   `json:"classification"`
	TuneRef        *string   `json:"tune_ref"`
	CrossRef       *string   `json:"cross_ref"`
	Scripture      *string   `json:"scripture"`
	ChorusTitle    *string   `json:"chorus_title"`
	Chorus         *string   `json:"chorus"`
	Verses         *[]string `json:"verses"`
}

func (p *HymnPatch) apply(hymn *entities.Hymn) (int, error) {
	applied := 0
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			applied++
		}
	}

	if p.HymnNumber != nil {
		if *p.HymnNumber < 0 {
			return applied, errors.New("hymn_number must be a non-negative integer")
		}
		hymn.HymnNumber = *p.HymnNumber
		applied++
	}
	set(&hymn.HymnTitle, p.HymnTitle)
	set(&hymn.Classification, p.Classification)
	set(&hymn.TuneRef, p.TuneRef)
	set(&hymn.CrossRef, p.CrossRef)
	set(&hymn.Scripture, p.Scripture)
	set(&hymn.ChorusTitle, p.ChorusTitle)
	set(&hymn.Chorus, p.Chorus)

	if p.Verses != nil {
		verses := collectVerses(*p.Verses)
		if len(verses) == 0 {
			return applied, errors.New("at least one verse is required")
		}
		hymn.Verses = datatypes.JSONSlice[string](verses)
		applied++
	}
	return applied, nil
}

// Update applies a partial update and returns the stored result.
// PATCH /api/hymns/:id
func (hc *HymnsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch HymnPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	hymn, err := hc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "hymn")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get hymn")
		return
	}

	applied, err := patch.apply(hymn)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if applied == 0 {
		respondBadRequest(c, "no fields provided")
		return
	}

	if err := hc.store.Update(hymn); err != nil {
		if database.IsUniqueViolation(err) {
			respondConflict(c, hymnConflictMessage)
			return
		}
		respondInternalError(c, err, "update hymn")
		return
	}
	c.JSON(http.StatusOK, serializeHymn(hymn))
}

// Delete removes a hymn by id.
// DELETE /api/hymns/:id
func (hc *HymnsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := hc.store.Delete(id)
	if err != nil {
		respondInternalError(c, err, "delete hymn")
		return
	}
	if !deleted {
		respondNotFound(c, "hymn")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}
