package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/userTI10/Dashboard-admissao/internal/api"
	"github.com/userTI10/Dashboard-admissao/internal/config"
	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
)

type fakeSearcher struct {
	mu    sync.Mutex
	docs  map[holmes.Status][]holmes.RawDocument
	errs  map[holmes.Status]error
	pages []int
}

func (f *fakeSearcher) Search(_ context.Context, status holmes.Status, pageNumber int) ([]holmes.RawDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, pageNumber)
	if err := f.errs[status]; err != nil {
		return nil, err
	}
	return f.docs[status], nil
}

func (f *fakeSearcher) lastPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[len(f.pages)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{Name: "holmes-dashboard", Version: "test", Port: 8093},
		Categories: []config.CategoryConfig{
			{Status: "opened", Title: "Processos Abertos", SheetName: "Abertos", FileName: "processos_abertos.xlsx", Filterable: true},
			{Status: "canceled", Title: "Processos Cancelados", SheetName: "Cancelados", FileName: "processos_cancelados.xlsx"},
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://intranet.test"}},
	}
}

func document(id, requester string, vacancies string) holmes.RawDocument {
	return holmes.RawDocument{Identifier: id, Props: []holmes.Prop{
		{Identifier: "titulo", Value: "Vaga " + id},
		{Identifier: "nome_do_solicitante", Value: requester},
		{Identifier: "numero_de_vagas", Value: json.Number(vacancies)},
	}}
}

func newTestRouter(t *testing.T, searcher *fakeSearcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	log := logger.NewNop()
	svc := dashboard.NewService(searcher, dashboard.CategoriesFromConfig(cfg.Categories), log)
	handler := api.NewHandler(svc, cfg.Service.Name, cfg.Service.Version, log)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("holmes_search_requests_total 1\n"))
	})
	return api.NewRouter(handler, cfg, log, metrics)
}

func defaultSearcher() *fakeSearcher {
	return &fakeSearcher{
		docs: map[holmes.Status][]holmes.RawDocument{
			holmes.StatusOpened:   {document("SOL-1", "Acme", "3"), document("SOL-2", "Beta", "5"), document("SOL-3", "Acme", "2")},
			holmes.StatusCanceled: {document("SOL-9", "Gamma", "1")},
		},
		errs: map[holmes.Status]error{},
	}
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, http.NoBody))
	return w
}

func TestReport_JSON(t *testing.T) {
	router := newTestRouter(t, defaultSearcher())

	w := serve(router, http.MethodGet, "/api/v1/processes?page=1")
	require.Equal(t, http.StatusOK, w.Code)

	var report dashboard.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Sections, 2)
	assert.Equal(t, holmes.StatusOpened, report.Sections[0].Category.Status)
	assert.Equal(t, 10, report.Sections[0].Total)
	assert.Equal(t, holmes.StatusCanceled, report.Sections[1].Category.Status)
	assert.Equal(t, 1, report.Sections[1].Total)
}

func TestReport_PageParameter(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
	}{
		{"", 1},
		{"?page=3", 3},
		{"?page=0", 1},
		{"?page=-2", 1},
		{"?page=abc", 1},
		{"?page=100000", 100000},
		{"?page=9223372036854775807", 100000},
		{"?page=99999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			searcher := defaultSearcher()
			router := newTestRouter(t, searcher)

			w := serve(router, http.MethodGet, "/api/v1/processes"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantPage, searcher.lastPage())
		})
	}
}

func TestSection(t *testing.T) {
	router := newTestRouter(t, defaultSearcher())

	w := serve(router, http.MethodGet, "/api/v1/processes/opened?q=beta")
	require.Equal(t, http.StatusOK, w.Code)

	var section dashboard.Section
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &section))
	assert.Equal(t, "beta", section.Term)
	require.Len(t, section.Records, 1)
	assert.Equal(t, "SOL-2", section.Records[0].SolicitationID)
	assert.Equal(t, 5, section.Total)
}

func TestSection_TermMatchedAsTyped(t *testing.T) {
	tests := []struct {
		query       string
		wantTerm    string
		wantRecords []string
	}{
		{"?q=%20beta", " beta", []string{}},
		{"?q=%20sol-2", " sol-2", []string{"SOL-2"}},
		{"?q=beta%20", "beta ", []string{}},
		{"?q=%20", " ", []string{"SOL-1", "SOL-2", "SOL-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			router := newTestRouter(t, defaultSearcher())

			w := serve(router, http.MethodGet, "/api/v1/processes/opened"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)

			var section dashboard.Section
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &section))
			assert.Equal(t, tt.wantTerm, section.Term)

			ids := make([]string, 0, len(section.Records))
			for _, r := range section.Records {
				ids = append(ids, r.SolicitationID)
			}
			assert.Equal(t, tt.wantRecords, ids)
		})
	}
}

func TestSection_UnknownStatus(t *testing.T) {
	router := newTestRouter(t, defaultSearcher())

	w := serve(router, http.MethodGet, "/api/v1/processes/archived")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_CATEGORY", resp.Code)
}

func TestSection_UpstreamFailure(t *testing.T) {
	searcher := defaultSearcher()
	searcher.errs[holmes.StatusCanceled] = &holmes.SearchRequestFailed{StatusCategory: holmes.StatusCanceled, StatusCode: 503, Message: "maintenance"}
	router := newTestRouter(t, searcher)

	w := serve(router, http.MethodGet, "/api/v1/processes/canceled")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SEARCH_REQUEST_FAILED", resp.Code)
	assert.Contains(t, resp.Error, "maintenance")
}

func TestExport_Download(t *testing.T) {
	router := newTestRouter(t, defaultSearcher())

	w := serve(router, http.MethodGet, "/api/v1/processes/opened/export?q=acme")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=processos_abertos.xlsx", w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Abertos")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExport_Errors(t *testing.T) {
	searcher := defaultSearcher()
	searcher.docs[holmes.StatusOpened] = nil
	searcher.errs[holmes.StatusCanceled] = &holmes.SearchRequestFailed{StatusCategory: holmes.StatusCanceled, Message: "timeout"}
	router := newTestRouter(t, searcher)

	tests := []struct {
		target   string
		wantCode int
		wantErr  string
	}{
		{"/api/v1/processes/opened/export", http.StatusNotFound, "NO_RECORDS"},
		{"/api/v1/processes/canceled/export", http.StatusBadGateway, "SEARCH_REQUEST_FAILED"},
		{"/api/v1/processes/archived/export", http.StatusNotFound, "UNKNOWN_CATEGORY"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.target)
			require.Equal(t, tt.wantCode, w.Code)
			assert.Empty(t, w.Header().Get("Content-Disposition"))

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Code)
		})
	}
}

func TestDashboard_HTML(t *testing.T) {
	searcher := defaultSearcher()
	searcher.errs[holmes.StatusCanceled] = &holmes.SearchRequestFailed{StatusCategory: holmes.StatusCanceled, StatusCode: 500, Message: "upstream down"}
	router := newTestRouter(t, searcher)

	w := serve(router, http.MethodGet, "/?page=2&q=acme")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "Processos Abertos")
	assert.Contains(t, body, "SOL-1")
	assert.NotContains(t, body, "SOL-2")
	assert.Contains(t, body, "Ranking de Solicitantes")
	assert.Contains(t, body, "/api/v1/processes/opened/export?page=2&amp;q=acme")

	assert.Contains(t, body, "Processos Cancelados")
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "upstream down")
	assert.NotContains(t, body, "/api/v1/processes/canceled/export")
}

func TestDashboard_EmptySectionHasNoDownload(t *testing.T) {
	searcher := defaultSearcher()
	searcher.docs[holmes.StatusCanceled] = []holmes.RawDocument{}
	router := newTestRouter(t, searcher)

	w := serve(router, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Nenhum processo encontrado")
	assert.NotContains(t, body, "/api/v1/processes/canceled/export")
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, defaultSearcher())

	w := serve(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "holmes-dashboard", health.Service)
	assert.Equal(t, []string{"opened", "canceled"}, health.Categories)

	head := serve(router, http.MethodHead, "/health")
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Zero(t, head.Body.Len())
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t, defaultSearcher())

	w := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "holmes_search_requests_total"))
}
