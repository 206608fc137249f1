package http

import (
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxUploadSize caps TSV uploads read into memory.
const maxUploadSize = 10 * 1024 * 1024 // 10 MB

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Returns the parsed ID or responds with a 400 error and
// returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePageParam reads the 1-indexed page query parameter, defaulting to 1.
// Returns the page or responds with a 400 error and returns 0, false.
func parsePageParam(c *gin.Context) (int, bool) {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		respondBadRequest(c, "invalid page")
		return 0, false
	}
	return page, true
}

// totalPages converts a row count to a page count: ceil(total/size), 0 when
// there are no rows at all.
func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// --- Form Helpers ---

// requireFormFields reads and trims the named form fields, reporting which
// are missing in declaration order.
func requireFormFields(c *gin.Context, names []string) (map[string]string, []string) {
	values := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		v := strings.TrimSpace(c.PostForm(name))
		if v == "" {
			missing = append(missing, name)
		}
		values[name] = v
	}
	return values, missing
}

// missingFieldsMessage is the combined validation error for a single-create
// request that did not provide every required form field.
func missingFieldsMessage(missing []string, kind string) string {
	return fmt.Sprintf("Missing required form fields: %v. Either provide all fields for a single %s, or upload a TSV as tsv_file.", missing, kind)
}

// readTSVUpload reads an uploaded file fully into memory, enforcing the size
// cap and rejecting empty uploads. A false return means the response has
// already been written.
func readTSVUpload(c *gin.Context, file multipart.File, header *multipart.FileHeader) ([]byte, bool) {
	if header.Size > maxUploadSize {
		respondBadRequest(c, fmt.Sprintf("File too large (max %d MB)", maxUploadSize/(1024*1024)))
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		respondInternalError(c, err, "read tsv upload")
		return nil, false
	}
	if len(data) == 0 {
		respondBadRequest(c, "tsv_file upload is empty")
		return nil, false
	}
	return data, true
}
