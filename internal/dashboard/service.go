package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/userTI10/Dashboard-admissao/internal/export"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
	"github.com/userTI10/Dashboard-admissao/internal/process"
)

// ErrUnknownCategory is returned for a status that is not configured.
var ErrUnknownCategory = errors.New("unknown process category")

// ErrNoRecords is returned by Export when the section is empty.
var ErrNoRecords = export.ErrNoRecords

// Searcher fetches one page of raw documents for a status.
type Searcher interface {
	Search(ctx context.Context, status holmes.Status, pageNumber int) ([]holmes.RawDocument, error)
}

// Section is the computed view of one category for one page.
type Section struct {
	Category Category               `json:"category"`
	Page     int                    `json:"page"`
	Term     string                 `json:"term,omitempty"`
	Fetched  int                    `json:"fetched"`
	Records  []process.FlatRecord   `json:"records"`
	Total    int                    `json:"total_vacancies"`
	Ranking  []process.RankingEntry `json:"ranking"`
	Err      error                  `json:"-"`
	Error    string                 `json:"error,omitempty"`
}

// Failed reports whether the category's fetch failed.
func (s Section) Failed() bool {
	return s.Err != nil
}

// Report holds every configured section in configuration order.
type Report struct {
	Page        int       `json:"page"`
	Term        string    `json:"term,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Artifact is an export ready to be downloaded.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Records     int
}

// Service builds dashboard sections from search results.
type Service struct {
	searcher   Searcher
	categories []Category
	logger     logger.Logger
	now        func() time.Time
}

// NewService creates a dashboard service for the given categories.
func NewService(searcher Searcher, categories []Category, log logger.Logger) *Service {
	return &Service{
		searcher:   searcher,
		categories: categories,
		logger:     log,
		now:        time.Now,
	}
}

// Categories returns the configured categories.
func (s *Service) Categories() []Category {
	return s.categories
}

// Category looks up a configured category by status.
func (s *Service) Category(status holmes.Status) (Category, bool) {
	for _, c := range s.categories {
		if c.Status == status {
			return c, true
		}
	}
	return Category{}, false
}

// Section fetches one page of the category and aggregates it. The search term
// is ignored for categories that are not filterable. A fetch failure is stored
// in the section rather than returned.
func (s *Service) Section(ctx context.Context, cat Category, pageNumber int, term string) Section {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if !cat.Filterable {
		term = ""
	}

	section := Section{
		Category: cat,
		Page:     pageNumber,
		Term:     term,
		Records:  []process.FlatRecord{},
		Ranking:  []process.RankingEntry{},
	}

	docs, err := s.searcher.Search(ctx, cat.Status, pageNumber)
	if err != nil {
		s.logger.Warn("Category unavailable",
			logger.String("status", string(cat.Status)),
			logger.Int("page", pageNumber),
			logger.Error(err),
		)
		section.Err = err
		section.Error = err.Error()
		return section
	}

	records := make([]process.FlatRecord, 0, len(docs))
	fallbacks := 0
	for _, d := range docs {
		r, ok := process.ProjectChecked(d)
		if !ok {
			fallbacks++
		}
		records = append(records, r)
	}
	if fallbacks > 0 {
		s.logger.Debug("Vacancy count defaulted",
			logger.String("status", string(cat.Status)),
			logger.Int("records", fallbacks),
		)
	}

	section.Fetched = len(records)
	section.Records = process.Filter(records, term)
	section.Total = process.TotalVacancies(section.Records)
	section.Ranking = process.RankByRequester(section.Records)
	return section
}

// Report computes every configured section concurrently. Section order
// follows configuration.
func (s *Service) Report(ctx context.Context, pageNumber int, term string) *Report {
	if pageNumber < 1 {
		pageNumber = 1
	}

	sections := make([]Section, len(s.categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range s.categories {
		g.Go(func() error {
			sections[i] = s.Section(gctx, cat, pageNumber, term)
			return nil
		})
	}
	_ = g.Wait()

	return &Report{
		Page:        pageNumber,
		Term:        term,
		GeneratedAt: s.now().UTC(),
		Sections:    sections,
	}
}

// Export computes a fresh section for status and renders it as a workbook.
func (s *Service) Export(ctx context.Context, status holmes.Status, pageNumber int, term string) (*Artifact, error) {
	cat, ok := s.Category(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, status)
	}

	section := s.Section(ctx, cat, pageNumber, term)
	if section.Err != nil {
		return nil, section.Err
	}

	data, err := export.Workbook(section.Records, cat.SheetName)
	if err != nil {
		if !errors.Is(err, export.ErrNoRecords) {
			s.logger.Error("Export failed",
				logger.String("status", string(status)),
				logger.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("Export generated",
		logger.String("status", string(status)),
		logger.String("file", cat.FileName),
		logger.Int("records", len(section.Records)),
	)

	return &Artifact{
		FileName:    cat.FileName,
		ContentType: export.ContentType,
		Data:        data,
		Records:     len(section.Records),
	}, nil
}
