package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterEmptyQueryRoundTrips(t *testing.T) {
	catalog := DefaultCatalog()
	for _, q := range []string{"", "   "} {
		view := FilterCatalog(catalog, q)
		require.Equal(t, catalog.Categories(), []Category(view))
		require.Equal(t, catalog.IDs(), view.IDs())
		require.Equal(t, catalog.TotalCount(), view.Count())
	}
}

func TestFilterCategoryNameKeepsWholeCategory(t *testing.T) {
	catalog := DefaultCatalog()
	view := FilterCatalog(catalog, "Finance Management")

	require.Len(t, view, 1)
	finance, _ := catalog.Category("finance")
	require.Equal(t, finance.IDs(), view[0].IDs())
	// None of the finance permissions mention the category name themselves.
	for _, p := range finance.Permissions {
		require.NotContains(t, p.Name, "Finance Management")
	}
}

func TestFilterMatchesLeavesCaseInsensitively(t *testing.T) {
	view := FilterCatalog(DefaultCatalog(), "BUDGET")
	require.Equal(t, []string{"finance.budgets.view", "finance.budgets.edit"}, view.IDs())
	require.Len(t, view, 1)
	require.Equal(t, "finance", view[0].ID)
}

func TestFilterMatchesDescriptionAndID(t *testing.T) {
	catalog := DefaultCatalog()

	byDescription := FilterCatalog(catalog, "kiosks")
	require.Equal(t, []string{"attendance.checkin.manage"}, byDescription.IDs())

	byID := FilterCatalog(catalog, "checkout.manage")
	require.Equal(t, []string{"assets.checkout.manage"}, byID.IDs())
}

func TestFilterDropsEmptyCategories(t *testing.T) {
	view := FilterCatalog(DefaultCatalog(), "sms")
	require.Len(t, view, 1)
	require.Equal(t, "communications", view[0].ID)

	none := FilterCatalog(DefaultCatalog(), "zzz-no-such-thing")
	require.Empty(t, none)
	require.Zero(t, none.Count())
}

func TestFilterNeverTouchesSelection(t *testing.T) {
	m := newDefaultMatrix(t)
	ed := NewEditor(m, nil, 1, m.Empty())
	require.NoError(t, ed.ToggleCategory("members", true))
	before := ed.Selection().IDs()

	view := ed.Filter("finance")
	require.NotEmpty(t, view)
	require.Equal(t, before, ed.Selection().IDs())
}

func TestFilterUsesUnicodeFolding(t *testing.T) {
	catalog, err := NewCatalog([]Category{{
		ID:   "music",
		Name: "Musique",
		Permissions: []Descriptor{
			{ID: "music.choir", Name: "Chœur de l'Église"},
			{ID: "music.organ", Name: "Orgue"},
		},
	}})
	require.NoError(t, err)
	view := FilterCatalog(catalog, "ÉGLISE")
	require.Equal(t, []string{"music.choir"}, view.IDs())
}

func TestFilterOmitsCategoriesWithoutPermissions(t *testing.T) {
	catalog, err := NewCatalog([]Category{
		{ID: "giving", Name: "Giving"},
		{
			ID:   "members",
			Name: "Member Management",
			Permissions: []Descriptor{
				{ID: "members.view", Name: "View Members", Description: "Browse the giving history of members"},
			},
		},
	})
	require.NoError(t, err)

	byCategoryName := FilterCatalog(catalog, "giving")
	require.Len(t, byCategoryName, 1)
	require.Equal(t, "members", byCategoryName[0].ID)
	require.Equal(t, []string{"members.view"}, byCategoryName.IDs())

	byLeaf := FilterCatalog(catalog, "members.view")
	require.Len(t, byLeaf, 1)
	require.Equal(t, "members", byLeaf[0].ID)

	for _, q := range []string{"", "  "} {
		all := FilterCatalog(catalog, q)
		require.Len(t, all, 1)
		require.Equal(t, "members", all[0].ID)
		require.Equal(t, catalog.TotalCount(), all.Count())
	}
}
