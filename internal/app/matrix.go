package app

import (
	"fmt"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

// LoadBundle returns the catalog and templates at path, or the built-in catalog
// without templates when path is empty.
func LoadBundle(path string) (*permissions.Bundle, error) {
	if path == "" {
		return &permissions.Bundle{Catalog: permissions.DefaultCatalog()}, nil
	}
	bundle, err := permissions.LoadBundleFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: load catalog %s: %w", path, err)
	}
	return bundle, nil
}

// LoadCatalog returns the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (*permissions.Catalog, error) {
	bundle, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}
	return bundle.Catalog, nil
}

// BuildMatrix binds the configured catalog to its role templates. A catalog file
// that declares no templates gets the built-in ones. Every template must resolve
// against the catalog.
func BuildMatrix(cfg *Config) (*permissions.Matrix, error) {
	path := ""
	if cfg != nil {
		path = cfg.CatalogPath
	}
	bundle, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}
	templates := bundle.Templates
	if templates == nil {
		templates = permissions.DefaultTemplates()
	}
	matrix, err := permissions.NewMatrix(bundle.Catalog, templates)
	if err != nil {
		return nil, fmt.Errorf("app: build permission matrix: %w", err)
	}
	return matrix, nil
}
