package permissions

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// syntheticCategories builds 12 categories of 10 permissions. The first six
// categories carry three "view" permissions each, 18 in total. Descriptions of the
// other permissions mention "overview" which must not count for templates.
func syntheticCategories() []Category {
	var cats []Category
	for c := 0; c < 12; c++ {
		cat := Category{
			ID:          fmt.Sprintf("area%02d", c),
			Name:        fmt.Sprintf("Area %02d", c),
			Description: fmt.Sprintf("Synthetic area %d", c),
		}
		for j := 0; j < 10; j++ {
			action, name := "edit", fmt.Sprintf("Edit Thing %d", j)
			if c < 6 && j < 3 {
				action, name = "view", fmt.Sprintf("View Thing %d", j)
			}
			cat.Permissions = append(cat.Permissions, Descriptor{
				ID:          fmt.Sprintf("area%02d.thing%d.%s", c, j, action),
				Name:        name,
				Description: "Shows up in the overview",
			})
		}
		cats = append(cats, cat)
	}
	return cats
}

func newSyntheticMatrix(t *testing.T) *Matrix {
	t.Helper()
	catalog, err := NewCatalog(syntheticCategories())
	require.NoError(t, err)
	reg := NewTemplateRegistry()
	require.NoError(t, reg.Register(Template{Name: "Full access", Resolver: AllPermissions{}}))
	require.NoError(t, reg.Register(Template{Name: "View Only", Resolver: MatchSubstring{Substr: "view"}}))
	m, err := NewMatrix(catalog, reg)
	require.NoError(t, err)
	return m
}

func newDefaultMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := NewMatrix(DefaultCatalog(), DefaultTemplates())
	require.NoError(t, err)
	return m
}
