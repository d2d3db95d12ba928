package permissions

import (
	"fmt"
	"strings"
)

// Resolver computes the permission ids granted by a template.
type Resolver interface {
	Resolve(catalog *Catalog) ([]string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(catalog *Catalog) ([]string, error)

// Resolve calls f(catalog).
func (f ResolverFunc) Resolve(catalog *Catalog) ([]string, error) {
	return f(catalog)
}

// Template is a named preset that replaces a selection when applied.
type Template struct {
	Name        string
	Description string
	Resolver    Resolver
}

// AllPermissions grants every permission of the catalog.
type AllPermissions struct{}

// Resolve implements Resolver.
func (AllPermissions) Resolve(catalog *Catalog) ([]string, error) {
	return catalog.IDs(), nil
}

// ExcludeCategories grants every category except Exclude, plus the Allow ids which
// may come from the excluded categories.
type ExcludeCategories struct {
	Exclude []string
	Allow   []string
}

// Resolve implements Resolver.
func (r ExcludeCategories) Resolve(catalog *Catalog) ([]string, error) {
	excluded := make(map[string]struct{}, len(r.Exclude))
	for _, id := range r.Exclude {
		if !catalog.HasCategory(id) {
			return nil, unknownCategory(id)
		}
		excluded[id] = struct{}{}
	}
	var ids []string
	for _, cat := range catalog.categories {
		if _, skip := excluded[cat.ID]; skip {
			continue
		}
		for _, p := range cat.Permissions {
			ids = append(ids, p.ID)
		}
	}
	return appendKnown(catalog, ids, r.Allow)
}

// IncludeCategories grants the listed categories plus Extra ids from elsewhere.
type IncludeCategories struct {
	Include []string
	Extra   []string
}

// Resolve implements Resolver.
func (r IncludeCategories) Resolve(catalog *Catalog) ([]string, error) {
	var ids []string
	for _, id := range r.Include {
		cat, ok := catalog.category(id)
		if !ok {
			return nil, unknownCategory(id)
		}
		for _, p := range cat.Permissions {
			ids = append(ids, p.ID)
		}
	}
	return appendKnown(catalog, ids, r.Extra)
}

// CategoryWithExtras grants one whole category plus a short cross-category list.
type CategoryWithExtras struct {
	Category string
	Extra    []string
}

// Resolve implements Resolver.
func (r CategoryWithExtras) Resolve(catalog *Catalog) ([]string, error) {
	return IncludeCategories{Include: []string{r.Category}, Extra: r.Extra}.Resolve(catalog)
}

// MatchSubstring grants every permission whose id or display name contains Substr,
// compared case-insensitively.
type MatchSubstring struct {
	Substr string
}

// Resolve implements Resolver.
func (r MatchSubstring) Resolve(catalog *Catalog) ([]string, error) {
	needle := fold(r.Substr)
	if needle == "" {
		return nil, fmt.Errorf("%w: empty substring predicate", ErrInvalidCatalog)
	}
	var ids []string
	for _, cat := range catalog.categories {
		for _, p := range cat.Permissions {
			if strings.Contains(fold(p.ID), needle) || strings.Contains(fold(p.Name), needle) {
				ids = append(ids, p.ID)
			}
		}
	}
	return ids, nil
}

func appendKnown(catalog *Catalog, ids, extra []string) ([]string, error) {
	for _, id := range extra {
		if !catalog.HasPermission(id) {
			return nil, unknownPermission(id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// TemplateRegistry holds templates keyed by case-insensitive name. Register during
// start-up; lookups afterwards are safe for concurrent use.
type TemplateRegistry struct {
	order  []string
	byName map[string]Template
}

// NewTemplateRegistry returns an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{byName: make(map[string]Template)}
}

// Register adds a template.
func (r *TemplateRegistry) Register(t Template) error {
	key := templateKey(t.Name)
	if key == "" {
		return fmt.Errorf("%w: template name required", ErrInvalidCatalog)
	}
	if t.Resolver == nil {
		return fmt.Errorf("%w: template %q has no resolver", ErrInvalidCatalog, t.Name)
	}
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
	}
	r.byName[key] = t
	r.order = append(r.order, key)
	return nil
}

// Lookup finds a template ignoring case and surrounding whitespace.
func (r *TemplateRegistry) Lookup(name string) (Template, bool) {
	t, ok := r.byName[templateKey(name)]
	return t, ok
}

// Templates lists templates in registration order.
func (r *TemplateRegistry) Templates() []Template {
	out := make([]Template, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byName[key])
	}
	return out
}

// Validate resolves every template against the catalog and reports the first failure.
func (r *TemplateRegistry) Validate(catalog *Catalog) error {
	for _, t := range r.Templates() {
		ids, err := t.Resolver.Resolve(catalog)
		if err != nil {
			return fmt.Errorf("permissions: template %q: %w", t.Name, err)
		}
		for _, id := range ids {
			if !catalog.HasPermission(id) {
				return fmt.Errorf("permissions: template %q: %w", t.Name, unknownPermission(id))
			}
		}
	}
	return nil
}

func templateKey(name string) string {
	return fold(strings.TrimSpace(name))
}
