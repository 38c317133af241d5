package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/userTI10/Dashboard-admissao/internal/config"
	"github.com/userTI10/Dashboard-admissao/internal/dashboard"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
	"github.com/userTI10/Dashboard-admissao/internal/logger"
	"github.com/userTI10/Dashboard-admissao/internal/metrics"
)

// commandDeps holds the dependencies shared by every command.
type commandDeps struct {
	Config *config.Config
	Logger logger.Logger
}

// newCommandDeps loads configuration and builds the logger. Logs go to
// logOutput so command output on stdout stays clean.
func newCommandDeps(logOutput string) (*commandDeps, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	if Version != "dev" {
		cfg.Service.Version = Version
	}
	if debug {
		cfg.Service.Debug = true
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
		OutputPaths: []string{logOutput},
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &commandDeps{
		Config: cfg,
		Logger: log.With(
			logger.String("service", cfg.Service.Name),
			logger.String("version", cfg.Service.Version),
		),
	}, nil
}

// newDashboardService wires the Holmes client into a dashboard service. When
// reg is not nil searches are instrumented on it.
func (d *commandDeps) newDashboardService(reg prometheus.Registerer) *dashboard.Service {
	var searcher dashboard.Searcher = holmes.NewClient(&d.Config.Holmes, d.Logger)
	if reg != nil {
		searcher = metrics.NewInstrumentedSearcher(searcher, reg)
	}
	return dashboard.NewService(searcher, dashboard.CategoriesFromConfig(d.Config.Categories), d.Logger)
}
