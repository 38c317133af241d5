package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeInternal        = "INTERNAL_ERROR"
	codeUnknownCategory = "UNKNOWN_CATEGORY"
	codeNoRecords       = "NO_RECORDS"
	codeSearchFailed    = "SEARCH_REQUEST_FAILED"
	codeExportFailed    = "EXPORT_FAILED"
)

const (
	maxQueryLength = 200
	maxPage        = 100_000
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

func newErrorResponse(msg, code string) ErrorResponse {
	return ErrorResponse{Error: msg, Code: code, Timestamp: time.Now()}
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status     string   `json:"status"`
	Service    string   `json:"service"`
	Version    string   `json:"version"`
	Uptime     string   `json:"uptime"`
	Categories []string `json:"categories"`
}

// Handler holds HTTP request handlers.
type Handler struct {
	service   *dashboard.Service
	logger    logger.Logger
	name      string
	version   string
	startTime time.Time
}

// NewHandler creates a new handler instance.
func NewHandler(service *dashboard.Service, name, version string, log logger.Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    log,
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// Dashboard renders the HTML dashboard. Failed categories render as an error
// banner inside their own section.
func (h *Handler) Dashboard(c *gin.Context) {
	page, term := parsePage(c), parseQuery(c)
	report := h.service.Report(c.Request.Context(), page, term)

	c.HTML(http.StatusOK, dashboardTemplate, dashboardView{
		Service: h.name,
		Version: h.version,
		Page:    report.Page,
		Query:   term,
		Report:  report,
	})
}

// Report returns every category as JSON.
func (h *Handler) Report(c *gin.Context) {
	report := h.service.Report(c.Request.Context(), parsePage(c), parseQuery(c))
	c.JSON(http.StatusOK, report)
}

// Section returns one category as JSON.
func (h *Handler) Section(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}

	section := h.service.Section(c.Request.Context(), cat, parsePage(c), parseQuery(c))
	if section.Err != nil {
		_ = c.Error(section.Err)
		c.JSON(http.StatusBadGateway, newErrorResponse(section.Error, codeSearchFailed))
		return
	}
	c.JSON(http.StatusOK, section)
}

// Export downloads one category as an .xlsx attachment.
func (h *Handler) Export(c *gin.Context) {
	cat, ok := h.category(c)
	if !ok {
		return
	}

	artifact, err := h.service.Export(c.Request.Context(), cat.Status, parsePage(c), parseQuery(c))
	if err != nil {
		h.exportError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

func (h *Handler) exportError(c *gin.Context, err error) {
	if _, failed := holmes.IsSearchRequestFailed(err); failed {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, newErrorResponse(err.Error(), codeSearchFailed))
		return
	}

	switch {
	case errors.Is(err, dashboard.ErrNoRecords):
		c.JSON(http.StatusNotFound, newErrorResponse("no records to export", codeNoRecords))
	case errors.Is(err, dashboard.ErrUnknownCategory):
		c.JSON(http.StatusNotFound, newErrorResponse(err.Error(), codeUnknownCategory))
	default:
		requestLogger(c, h.logger).Error("Export failed", logger.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, newErrorResponse("failed to generate export", codeExportFailed))
	}
}

// category resolves the :status path parameter, writing a 404 when it is not
// a configured category.
func (h *Handler) category(c *gin.Context) (dashboard.Category, bool) {
	raw := c.Param("status")
	status, err := holmes.ParseStatus(raw)
	if err == nil {
		if cat, ok := h.service.Category(status); ok {
			return cat, true
		}
	}

	requestLogger(c, h.logger).Debug("Unknown category requested", logger.String("status", raw))
	c.JSON(http.StatusNotFound, newErrorResponse("unknown process category: "+raw, codeUnknownCategory))
	return dashboard.Category{}, false
}

// HealthCheck handles GET and HEAD /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}

	cats := h.service.Categories()
	statuses := make([]string, len(cats))
	for i, cat := range cats {
		statuses[i] = string(cat.Status)
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Service:    h.name,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Categories: statuses,
	})
}

// parsePage reads ?page=, treating missing, invalid or values below 1 as 1.
// Pages above maxPage are clamped.
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil || page < 1 {
		return 1
	}
	return min(page, maxPage)
}

// parseQuery reads ?q= as typed, capped at maxQueryLength runes.
func parseQuery(c *gin.Context) string {
	q := c.Query("q")
	if r := []rune(q); len(r) > maxQueryLength {
		q = string(r[:maxQueryLength])
	}
	return q
}
