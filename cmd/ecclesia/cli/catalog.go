package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ecclesia-erp/ecclesia/internal/app"
	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

// CatalogSyncer upserts a catalog into role storage. *roles.Repository implements it.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, catalog *permissions.Catalog) error
}

// CatalogOptions defines the flags shared by the catalog commands.
type CatalogOptions struct {
	CatalogPath string
	JSONOutput  bool
	Stdout      io.Writer
	Stderr      io.Writer
}

// CatalogCheckSummary describes the JSON response for catalog check.
type CatalogCheckSummary struct {
	OK          bool                   `json:"ok"`
	Categories  int                    `json:"categories"`
	Permissions int                    `json:"permissions"`
	Templates   []TemplateCoverageLine `json:"templates"`
}

// TemplateCoverageLine reports how much of the catalog a template grants.
type TemplateCoverageLine struct {
	Name        string  `json:"name"`
	Permissions int     `json:"permissions"`
	Ratio       float64 `json:"ratio"`
}

func (o *CatalogOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// CheckCommand loads the catalog, resolves every template against it and prints
// coverage per template. It returns the process exit code.
func CheckCommand(opts CatalogOptions) int {
	opts.defaults()
	matrix, err := app.BuildMatrix(&app.Config{CatalogPath: opts.CatalogPath})
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog check: %v\n", err)
		return 1
	}
	summary, err := buildCheckSummary(matrix)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog check: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "catalog check: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	_, _ = fmt.Fprintf(opts.Stdout, "Catalog OK: %d categories, %d permissions\n", summary.Categories, summary.Permissions)
	for _, line := range summary.Templates {
		_, _ = fmt.Fprintf(opts.Stdout, " - %-16s %3d (%.0f%%)\n", line.Name, line.Permissions, line.Ratio*100)
	}
	return 0
}

func buildCheckSummary(matrix *permissions.Matrix) (CatalogCheckSummary, error) {
	catalog := matrix.Catalog()
	summary := CatalogCheckSummary{
		OK:          true,
		Categories:  len(catalog.Categories()),
		Permissions: catalog.TotalCount(),
	}
	for _, tmpl := range matrix.Templates().Templates() {
		sel, err := matrix.ApplyTemplate(tmpl.Name)
		if err != nil {
			return CatalogCheckSummary{}, err
		}
		coverage := matrix.Coverage(sel)
		summary.Templates = append(summary.Templates, TemplateCoverageLine{
			Name:        tmpl.Name,
			Permissions: coverage.Selected,
			Ratio:       coverage.Ratio(),
		})
	}
	return summary, nil
}

// SyncCommand upserts the catalog through syncer.
func SyncCommand(ctx context.Context, syncer CatalogSyncer, opts CatalogOptions) int {
	opts.defaults()
	catalog, err := app.LoadCatalog(opts.CatalogPath)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog sync: %v\n", err)
		return 1
	}
	if err := syncer.SyncCatalog(ctx, catalog); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog sync: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "Synced %d permissions in %d categories\n", catalog.TotalCount(), len(catalog.Categories()))
	return 0
}
