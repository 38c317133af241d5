// Package holmes talks to the Holmes document-management search API.
package holmes

import (
	"fmt"
	"math"

	"github.com/userTI10/Dashboard-admissao/internal/config"
)

// Status is the process status a search is scoped to.
type Status string

const (
	StatusOpened   Status = "opened"
	StatusCanceled Status = "canceled"
)

// ParseStatus converts s into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpened, StatusCanceled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown process status %q", s)
	}
}

// Search body constants. The API only understands these literal values.
const (
	searchContext = "process"
	sortField     = "updated_at"
	sortOrder     = "desc"
	termTypeIs    = "is"
	fieldTemplate = "template_id"
	fieldStatus   = "status"
)

// SearchRequest is the JSON body posted to the search endpoint. The API token
// travels inside the body, not in a header.
type SearchRequest struct {
	Query       Query  `json:"query"`
	Trash       bool   `json:"trash"`
	DeletedByMe bool   `json:"deleted_by_me"`
	APIToken    string `json:"api_token"`
}

// Query selects, sorts and pages documents.
type Query struct {
	From    int     `json:"from"`
	Size    int     `json:"size"`
	Context string  `json:"context"`
	Sort    string  `json:"sort"`
	Order   string  `json:"order"`
	Groups  []Group `json:"groups"`
}

// Group is a set of terms; MatchAll requires every term to match.
type Group struct {
	MatchAll bool   `json:"match_all"`
	Terms    []Term `json:"terms"`
}

// Term is a single field predicate.
type Term struct {
	Field  string `json:"field"`
	Type   string `json:"type"`
	Value  string `json:"value"`
	Nested *bool  `json:"nested,omitempty"`
}

// PageQuery is the offset/size window of one fetch.
type PageQuery struct {
	Status Status
	Offset int
	Size   int
}

// QueryBuilder builds search requests from the Holmes configuration.
type QueryBuilder struct {
	templateID string
	pageSize   int
	apiToken   string
}

// NewQueryBuilder creates a query builder.
func NewQueryBuilder(cfg *config.HolmesConfig) *QueryBuilder {
	return &QueryBuilder{
		templateID: cfg.TemplateID,
		pageSize:   cfg.PageSize,
		apiToken:   cfg.APIToken,
	}
}

// PageQuery returns the window for a 1-based page number. Pages below 1 are
// treated as the first page; pages whose offset would overflow are clamped to
// the last addressable one.
func (qb *QueryBuilder) PageQuery(status Status, pageNumber int) PageQuery {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if qb.pageSize > 0 && pageNumber-1 > math.MaxInt/qb.pageSize {
		pageNumber = math.MaxInt/qb.pageSize + 1
	}
	return PageQuery{
		Status: status,
		Offset: (pageNumber - 1) * qb.pageSize,
		Size:   qb.pageSize,
	}
}

// Build constructs the request body for status and a 1-based page number:
// documents of the configured template with the given status, most recently
// updated first.
func (qb *QueryBuilder) Build(status Status, pageNumber int) *SearchRequest {
	page := qb.PageQuery(status, pageNumber)
	notNested := false

	return &SearchRequest{
		Query: Query{
			From:    page.Offset,
			Size:    page.Size,
			Context: searchContext,
			Sort:    sortField,
			Order:   sortOrder,
			Groups: []Group{
				{
					MatchAll: true,
					Terms: []Term{
						{Field: fieldTemplate, Type: termTypeIs, Value: qb.templateID},
						{Field: fieldStatus, Type: termTypeIs, Value: string(status), Nested: &notNested},
					},
				},
			},
		},
		Trash:       false,
		DeletedByMe: false,
		APIToken:    qb.apiToken,
	}
}
