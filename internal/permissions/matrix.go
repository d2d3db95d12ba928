package permissions

import (
	"fmt"
	"strings"
)

// Matrix binds a catalog and its templates and performs every selection operation.
// It holds no per-session state and may be shared by concurrent sessions.
type Matrix struct {
	catalog   *Catalog
	templates *TemplateRegistry
}

// NewMatrix constructs a Matrix. Every registered template is resolved once against
// the catalog so a template referencing a missing category or permission fails here
// rather than when a user applies it. A nil registry behaves as an empty one.
func NewMatrix(catalog *Catalog, templates *TemplateRegistry) (*Matrix, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}
	if templates == nil {
		templates = NewTemplateRegistry()
	}
	if err := templates.Validate(catalog); err != nil {
		return nil, err
	}
	return &Matrix{catalog: catalog, templates: templates}, nil
}

// Catalog returns the catalog the matrix operates on.
func (m *Matrix) Catalog() *Catalog {
	return m.catalog
}

// Templates returns the template registry.
func (m *Matrix) Templates() *TemplateRegistry {
	return m.templates
}

// Empty returns a selection with nothing enabled.
func (m *Matrix) Empty() Selection {
	return Selection{}
}

// Seed builds a selection from previously stored permission ids. Duplicate ids are
// collapsed; an id missing from the catalog fails with ErrUnknownPermissionID.
func (m *Matrix) Seed(ids []string) (Selection, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if !m.catalog.HasPermission(id) {
			return Selection{}, unknownPermission(id)
		}
		set[id] = struct{}{}
	}
	return newSelection(set), nil
}

// TogglePermission flips the membership of a single permission.
func (m *Matrix) TogglePermission(sel Selection, id string) (Selection, error) {
	if !m.catalog.HasPermission(id) {
		return sel, unknownPermission(id)
	}
	next := sel.clone(1)
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return newSelection(next), nil
}

// ToggleCategory enables or disables every permission of a category at once.
func (m *Matrix) ToggleCategory(sel Selection, categoryID string, enable bool) (Selection, error) {
	cat, ok := m.catalog.category(categoryID)
	if !ok {
		return sel, unknownCategory(categoryID)
	}
	next := sel.clone(len(cat.Permissions))
	for _, p := range cat.Permissions {
		if enable {
			next[p.ID] = struct{}{}
		} else {
			delete(next, p.ID)
		}
	}
	return newSelection(next), nil
}

// Rollup computes the tri-state rollup of one category.
func (m *Matrix) Rollup(sel Selection, categoryID string) (Rollup, error) {
	cat, ok := m.catalog.category(categoryID)
	if !ok {
		return RollupNone, unknownCategory(categoryID)
	}
	return rollupOf(sel, cat).State, nil
}

// Rollups computes the rollup of every category in catalog order.
func (m *Matrix) Rollups(sel Selection) []CategoryRollup {
	out := make([]CategoryRollup, len(m.catalog.categories))
	for i := range m.catalog.categories {
		out[i] = rollupOf(sel, &m.catalog.categories[i])
	}
	return out
}

// Coverage reports how much of the catalog the selection grants.
func (m *Matrix) Coverage(sel Selection) Coverage {
	return Coverage{Selected: sel.Len(), Total: m.catalog.TotalCount()}
}

// ApplyTemplate resolves a registered template into a fresh selection. The result
// never depends on any prior selection: applying a template replaces, it does not merge.
func (m *Matrix) ApplyTemplate(name string) (Selection, error) {
	tmpl, ok := m.templates.Lookup(name)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownTemplateName, name)
	}
	ids, err := tmpl.Resolver.Resolve(m.catalog)
	if err != nil {
		return Selection{}, fmt.Errorf("permissions: template %q: %w", tmpl.Name, err)
	}
	return m.Seed(ids)
}

// Filter projects the catalog through a free-text query.
func (m *Matrix) Filter(query string) FilteredView {
	return FilterCatalog(m.catalog, query)
}
