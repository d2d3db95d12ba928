// Package permissions implements the role permission matrix: a static catalog of
// categorised permissions, selections over it with tri-state category rollups,
// role templates, free-text filtering and the commit boundary to role storage.
package permissions

import (
	"fmt"
	"strings"
)

// Descriptor describes a single grantable permission.
type Descriptor struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Category groups related permissions for display and bulk selection.
type Category struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Permissions []Descriptor `json:"permissions" yaml:"permissions"`
}

// IDs returns the permission ids of the category in declaration order.
func (c Category) IDs() []string {
	ids := make([]string, len(c.Permissions))
	for i, p := range c.Permissions {
		ids[i] = p.ID
	}
	return ids
}

func (c Category) clone() Category {
	out := c
	out.Permissions = append([]Descriptor(nil), c.Permissions...)
	return out
}

// Catalog is the immutable permission hierarchy. It is safe for concurrent use.
type Catalog struct {
	categories   []Category
	byCategory   map[string]int
	byPermission map[string]int // permission id -> category index
	total        int
}

// NewCatalog validates the categories and builds a catalog. Every permission id must
// appear in exactly one category. An empty catalog is valid.
func NewCatalog(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories:   make([]Category, 0, len(categories)),
		byCategory:   make(map[string]int, len(categories)),
		byPermission: make(map[string]int),
	}
	for _, cat := range categories {
		cat.ID = strings.TrimSpace(cat.ID)
		if cat.ID == "" {
			return nil, fmt.Errorf("%w: category %q has no id", ErrInvalidCatalog, cat.Name)
		}
		if _, ok := c.byCategory[cat.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategoryID, cat.ID)
		}
		idx := len(c.categories)
		cat = cat.clone()
		for i, p := range cat.Permissions {
			p.ID = strings.TrimSpace(p.ID)
			if p.ID == "" {
				return nil, fmt.Errorf("%w: category %q has a permission without id", ErrInvalidCatalog, cat.ID)
			}
			if owner, ok := c.byPermission[p.ID]; ok {
				return nil, fmt.Errorf("%w: %q in %q and %q", ErrDuplicatePermissionID, p.ID, c.categories[owner].ID, cat.ID)
			}
			c.byPermission[p.ID] = idx
			cat.Permissions[i] = p
		}
		c.byCategory[cat.ID] = idx
		c.categories = append(c.categories, cat)
		c.total += len(cat.Permissions)
	}
	return c, nil
}

// Categories returns a copy of all categories in declaration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	idx, ok := c.byCategory[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[idx].clone(), true
}

// Permission looks up a permission descriptor by id.
func (c *Catalog) Permission(id string) (Descriptor, bool) {
	idx, ok := c.byPermission[id]
	if !ok {
		return Descriptor{}, false
	}
	for _, p := range c.categories[idx].Permissions {
		if p.ID == id {
			return p, true
		}
	}
	return Descriptor{}, false
}

// CategoryOf returns the category owning the permission id.
func (c *Catalog) CategoryOf(permissionID string) (Category, bool) {
	idx, ok := c.byPermission[permissionID]
	if !ok {
		return Category{}, false
	}
	return c.categories[idx].clone(), true
}

// HasPermission reports whether the id is part of the catalog.
func (c *Catalog) HasPermission(id string) bool {
	_, ok := c.byPermission[id]
	return ok
}

// HasCategory reports whether the category id is part of the catalog.
func (c *Catalog) HasCategory(id string) bool {
	_, ok := c.byCategory[id]
	return ok
}

// IDs returns every permission id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, c.total)
	for _, cat := range c.categories {
		for _, p := range cat.Permissions {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// TotalCount returns the number of permissions in the catalog.
func (c *Catalog) TotalCount() int {
	return c.total
}

// category gives read-only access without copying.
func (c *Catalog) category(id string) (*Category, bool) {
	idx, ok := c.byCategory[id]
	if !ok {
		return nil, false
	}
	return &c.categories[idx], true
}
