package permissions

import (
	"strings"

	"golang.org/x/text/cases"
)

// FilteredView is the catalog projected through a search query. Categories keep
// catalog order and only hold the permissions that matched.
type FilteredView []Category

// Count returns the number of permissions left in the view.
func (v FilteredView) Count() int {
	n := 0
	for _, cat := range v {
		n += len(cat.Permissions)
	}
	return n
}

// IDs returns the permission ids of the view in display order.
func (v FilteredView) IDs() []string {
	var ids []string
	for _, cat := range v {
		ids = append(ids, cat.IDs()...)
	}
	return ids
}

// FilterCatalog matches the query case-insensitively against permission id, name and
// description. A match on a category name keeps the whole category. A blank query
// keeps every category. Categories without permissions never appear in the view.
func FilterCatalog(catalog *Catalog, query string) FilteredView {
	needle := fold(strings.TrimSpace(query))
	view := make(FilteredView, 0, len(catalog.categories))
	for _, cat := range catalog.categories {
		if len(cat.Permissions) == 0 {
			continue
		}
		if needle == "" || strings.Contains(fold(cat.Name), needle) {
			view = append(view, cat.clone())
			continue
		}
		var matched []Descriptor
		for _, p := range cat.Permissions {
			if strings.Contains(fold(p.ID), needle) ||
				strings.Contains(fold(p.Name), needle) ||
				strings.Contains(fold(p.Description), needle) {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out := cat
		out.Permissions = matched
		view = append(view, out)
	}
	return view
}

// fold applies Unicode case folding. Casers carry state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
