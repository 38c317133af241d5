// Package dashboard runs the fetch, project and aggregate pipeline for each
// configured status category.
package dashboard

import (
	"github.com/userTI10/Dashboard-admissao/internal/config"
	"github.com/userTI10/Dashboard-admissao/internal/holmes"
)

// Category is one status section of the dashboard.
type Category struct {
	Status     holmes.Status `json:"status"`
	Title      string        `json:"title"`
	SheetName  string        `json:"sheet_name"`
	FileName   string        `json:"file_name"`
	Filterable bool          `json:"filterable"`
}

// CategoriesFromConfig converts configured categories, keeping their order.
func CategoriesFromConfig(cfgs []config.CategoryConfig) []Category {
	cats := make([]Category, len(cfgs))
	for i, c := range cfgs {
		cats[i] = Category{
			Status:     holmes.Status(c.Status),
			Title:      c.Title,
			SheetName:  c.SheetName,
			FileName:   c.FileName,
			Filterable: c.Filterable,
		}
	}
	return cats
}
