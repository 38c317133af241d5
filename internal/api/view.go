package api

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"

	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/process"
)

const dashboardTemplate = "dashboard.html"

//go:embed templates/*.html
var templatesFS embed.FS

type dashboardView struct {
	Service string
	Version string
	Page    int
	Query   string
	Report  *dashboard.Report
}

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatCount": dashboard.FormatCount,
		"exportURL":   exportURL,
		"columns":     process.Labels,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

// exportURL links the download of a section with the same page and term.
func exportURL(s dashboard.Section) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(s.Page))
	if s.Term != "" {
		q.Set("q", s.Term)
	}
	return "/api/v1/processes/" + url.PathEscape(string(s.Category.Status)) + "/export?" + q.Encode()
}
