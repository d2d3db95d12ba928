package permissions

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template strategies accepted in catalog documents.
const (
	StrategyAll               = "all"
	StrategyExcludeCategories = "exclude_categories"
	StrategyIncludeCategories = "include_categories"
	StrategyCategory          = "category"
	StrategyMatch             = "match"
	StrategyCEL               = "cel"
)

// Bundle is a catalog together with the role templates declared next to it.
// Templates is nil when the document declares none.
type Bundle struct {
	Catalog   *Catalog
	Templates *TemplateRegistry
}

type catalogDocument struct {
	Categories []Category         `yaml:"categories"`
	Templates  []templateDocument `yaml:"templates"`
}

type templateDocument struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Strategy    string   `yaml:"strategy"`
	Categories  []string `yaml:"categories"`
	Category    string   `yaml:"category"`
	Permissions []string `yaml:"permissions"`
	Match       string   `yaml:"match"`
	CEL         string   `yaml:"cel"`
}

func (d templateDocument) resolver() (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(d.Strategy)) {
	case StrategyAll:
		return AllPermissions{}, nil
	case StrategyExcludeCategories:
		return ExcludeCategories{Exclude: d.Categories, Allow: d.Permissions}, nil
	case StrategyIncludeCategories:
		return IncludeCategories{Include: d.Categories, Extra: d.Permissions}, nil
	case StrategyCategory:
		if strings.TrimSpace(d.Category) == "" {
			return nil, fmt.Errorf("%w: template %q: category required", ErrInvalidCatalog, d.Name)
		}
		return CategoryWithExtras{Category: d.Category, Extra: d.Permissions}, nil
	case StrategyMatch:
		return MatchSubstring{Substr: d.Match}, nil
	case StrategyCEL:
		p, err := NewCELPredicate(d.CEL)
		if err != nil {
			return nil, fmt.Errorf("%w: template %q: %v", ErrInvalidCatalog, d.Name, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: template %q: unknown strategy %q", ErrInvalidCatalog, d.Name, d.Strategy)
	}
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	bundle, err := LoadBundleFile(path)
	if err != nil {
		return nil, err
	}
	return bundle.Catalog, nil
}

// LoadBundleFile reads a YAML catalog and its templates from disk.
func LoadBundleFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("permissions: read catalog %s: %w", path, err)
	}
	return ParseBundle(data)
}

// ParseCatalog decodes a YAML catalog document and returns its catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	bundle, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	return bundle.Catalog, nil
}

// ParseBundle decodes a YAML catalog document of the form
//
//	categories:
//	  - id: finance
//	    name: Finance Management
//	    permissions:
//	      - id: finance.budgets.edit
//	        name: Edit Budgets
//	templates:
//	  - name: Treasurer
//	    strategy: category
//	    category: finance
//	    permissions: [dashboard.view]
//	  - name: Auditor
//	    strategy: cel
//	    cel: id.endsWith(".view") && category == "finance"
//
// Unknown fields are rejected so typos do not silently drop permissions. Templates
// are resolved against the catalog before the bundle is returned.
func ParseBundle(data []byte) (*Bundle, error) {
	var doc catalogDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	catalog, err := NewCatalog(doc.Categories)
	if err != nil {
		return nil, err
	}
	bundle := &Bundle{Catalog: catalog}
	if len(doc.Templates) == 0 {
		return bundle, nil
	}
	reg := NewTemplateRegistry()
	for _, td := range doc.Templates {
		resolver, err := td.resolver()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(Template{Name: td.Name, Description: td.Description, Resolver: resolver}); err != nil {
			return nil, err
		}
	}
	if err := reg.Validate(catalog); err != nil {
		return nil, err
	}
	bundle.Templates = reg
	return bundle, nil
}
