// Package config loads the dashboard configuration from an optional YAML file,
// .env files and environment variables.
//
// Environment variables always win over the file. The only required value is
// the Holmes API token (API_TOKEN); it is validated at startup so a missing
// credential fails before any search is attempted.
//
// Example config.yml:
//
//	service:
//	  port: 8093
//	holmes:
//	  template_id: "680b719537846a536ec8df4d"
//	categories:
//	  - status: opened
//	    filterable: true
//	  - status: canceled
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
)

const (
	defaultServiceName = "holmes-dashboard"
	defaultVersion     = "1.0.0"
	defaultPort        = 8093
	defaultSearchURL   = "https://app-api.holmesdoc.io/v2/search"
	defaultTemplateID  = "680b719537846a536ec8df4d"
	defaultPageSize    = 100
	defaultTimeout     = 30 * time.Second
)

// Config holds all configuration for the dashboard.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Holmes     HolmesConfig     `yaml:"holmes"`
	Categories []CategoryConfig `yaml:"categories"`
	Logging    LoggingConfig    `yaml:"logging"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"SERVICE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`
}

// HolmesConfig configures the upstream search API.
type HolmesConfig struct {
	URL        string        `env:"HOLMES_URL"         yaml:"url"`
	APIToken   string        `env:"API_TOKEN"          yaml:"api_token"`
	TemplateID string        `env:"HOLMES_TEMPLATE_ID" yaml:"template_id"`
	PageSize   int           `yaml:"page_size"`
	Timeout    time.Duration `env:"HOLMES_TIMEOUT"     yaml:"timeout"`
}

// CategoryConfig describes one status category rendered by the dashboard.
type CategoryConfig struct {
	Status     string `yaml:"status"`
	Title      string `yaml:"title"`
	SheetName  string `yaml:"sheet_name"`
	FileName   string `yaml:"file_name"`
	Filterable bool   `yaml:"filterable"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ORIGINS" yaml:"allowed_origins"`
}

// Load reads configuration from path, applies defaults and validates it.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// defaultCategories returns the opened/canceled categories. Only "opened"
// accepts the free-text filter unless configured otherwise.
func defaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Status: "opened", Filterable: true},
		{Status: "canceled"},
	}
}

var categoryDefaults = map[string]CategoryConfig{
	"opened": {
		Title:     "Processos Abertos",
		SheetName: "Abertos",
		FileName:  "processos_abertos.xlsx",
	},
	"canceled": {
		Title:     "Processos Cancelados",
		SheetName: "Cancelados",
		FileName:  "processos_cancelados.xlsx",
	},
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultPort
	}

	if cfg.Holmes.URL == "" {
		cfg.Holmes.URL = defaultSearchURL
	}
	if cfg.Holmes.TemplateID == "" {
		cfg.Holmes.TemplateID = defaultTemplateID
	}
	if cfg.Holmes.PageSize == 0 {
		cfg.Holmes.PageSize = defaultPageSize
	}
	if cfg.Holmes.Timeout == 0 {
		cfg.Holmes.Timeout = defaultTimeout
	}

	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultCategories()
	}
	for i := range cfg.Categories {
		c := &cfg.Categories[i]
		d := categoryDefaults[c.Status]
		if c.Title == "" {
			c.Title = d.Title
		}
		if c.SheetName == "" {
			c.SheetName = d.SheetName
		}
		if c.FileName == "" {
			c.FileName = d.FileName
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := ValidateRequired("holmes.url", c.Holmes.URL); err != nil {
		return err
	}
	if err := ValidateRequired("holmes.api_token", c.Holmes.APIToken); err != nil {
		return &ValidationError{Field: "holmes.api_token", Message: "is required (set API_TOKEN)"}
	}
	if err := ValidateRequired("holmes.template_id", c.Holmes.TemplateID); err != nil {
		return err
	}
	if c.Holmes.PageSize < 1 {
		return &ValidationError{Field: "holmes.page_size", Message: "must be greater than 0"}
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	return ValidateLogLevel(c.Logging.Level)
}

func (c *Config) validateCategories() error {
	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		field := fmt.Sprintf("categories[%d].status", i)
		if _, known := categoryDefaults[cat.Status]; !known {
			return &ValidationError{Field: field, Message: fmt.Sprintf("unknown status %q (want opened or canceled)", cat.Status)}
		}
		if seen[cat.Status] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("duplicate status %q", cat.Status)}
		}
		seen[cat.Status] = true

		if err := validateSheetName(cat.SheetName); err != nil {
			return &ValidationError{Field: fmt.Sprintf("categories[%d].sheet_name", i), Message: err.Error()}
		}
		if err := validateFileName(cat.FileName); err != nil {
			return &ValidationError{Field: fmt.Sprintf("categories[%d].file_name", i), Message: err.Error()}
		}
	}
	return nil
}

// validateSheetName applies the worksheet naming rules excelize enforces when
// the workbook is written.
func validateSheetName(name string) error {
	switch {
	case name == "":
		return excelize.ErrSheetNameBlank
	case len(utf16.Encode([]rune(name))) > excelize.MaxSheetNameLength:
		return excelize.ErrSheetNameLength
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return excelize.ErrSheetNameSingleQuote
	case strings.ContainsAny(name, `:\/?*[]`):
		return excelize.ErrSheetNameInvalid
	}
	return nil
}

// validateFileName requires a bare file name so exports stay inside the
// output directory.
func validateFileName(name string) error {
	if name == "" {
		return errors.New("is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("must be a file name without directories, got %q", name)
	}
	return nil
}
