package permissions

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggleCategoryRollupTransitions(t *testing.T) {
	m := newDefaultMatrix(t)

	sel, err := m.ToggleCategory(m.Empty(), "finance", true)
	require.NoError(t, err)
	state, err := m.Rollup(sel, "finance")
	require.NoError(t, err)
	require.Equal(t, RollupFull, state)

	sel, err = m.TogglePermission(sel, "finance.budgets.edit")
	require.NoError(t, err)
	state, _ = m.Rollup(sel, "finance")
	require.Equal(t, RollupPartial, state)

	sel, err = m.ToggleCategory(sel, "finance", false)
	require.NoError(t, err)
	state, _ = m.Rollup(sel, "finance")
	require.Equal(t, RollupNone, state)
	require.Zero(t, sel.Len())
}

func TestToggleCategoryIsIdempotent(t *testing.T) {
	m := newDefaultMatrix(t)
	start, err := m.Seed([]string{"members.view", "finance.view"})
	require.NoError(t, err)

	once, err := m.ToggleCategory(start, "finance", true)
	require.NoError(t, err)
	twice, err := m.ToggleCategory(once, "finance", true)
	require.NoError(t, err)
	require.True(t, once.Equal(twice))

	offOnce, _ := m.ToggleCategory(start, "finance", false)
	offTwice, _ := m.ToggleCategory(offOnce, "finance", false)
	require.True(t, offOnce.Equal(offTwice))
	require.True(t, offOnce.Has("members.view"))
}

func TestToggleLeavesInputUntouched(t *testing.T) {
	m := newDefaultMatrix(t)
	start, err := m.Seed([]string{"members.view"})
	require.NoError(t, err)

	_, err = m.TogglePermission(start, "members.edit")
	require.NoError(t, err)
	_, err = m.ToggleCategory(start, "members", false)
	require.NoError(t, err)

	require.Equal(t, []string{"members.view"}, start.IDs())
}

func TestUnknownReferencesAreRejected(t *testing.T) {
	m := newDefaultMatrix(t)
	start, err := m.Seed([]string{"members.view"})
	require.NoError(t, err)

	got, err := m.TogglePermission(start, "not.a.real.id")
	require.ErrorIs(t, err, ErrUnknownPermissionID)
	require.True(t, got.Equal(start))
	require.Equal(t, []string{"members.view"}, start.IDs())

	got, err = m.ToggleCategory(start, "nope", true)
	require.ErrorIs(t, err, ErrUnknownCategoryID)
	require.True(t, got.Equal(start))

	_, err = m.Rollup(start, "nope")
	require.ErrorIs(t, err, ErrUnknownCategoryID)

	_, err = m.Seed([]string{"members.view", "ghost.permission"})
	require.ErrorIs(t, err, ErrUnknownPermissionID)
}

func TestRollupConsistencyOverRandomWalk(t *testing.T) {
	m := newSyntheticMatrix(t)
	catalog := m.Catalog()
	ids := catalog.IDs()
	cats := catalog.Categories()
	rng := rand.New(rand.NewSource(42))

	sel := m.Empty()
	for step := 0; step < 500; step++ {
		var err error
		switch rng.Intn(3) {
		case 0:
			sel, err = m.TogglePermission(sel, ids[rng.Intn(len(ids))])
		case 1:
			sel, err = m.ToggleCategory(sel, cats[rng.Intn(len(cats))].ID, rng.Intn(2) == 0)
		default:
			sel, err = m.ApplyTemplate([]string{"Full access", "View Only"}[rng.Intn(2)])
		}
		require.NoError(t, err)

		for _, r := range m.Rollups(sel) {
			cat, _ := catalog.Category(r.CategoryID)
			selected := 0
			for _, p := range cat.Permissions {
				if sel.Has(p.ID) {
					selected++
				}
			}
			want := RollupPartial
			if selected == 0 {
				want = RollupNone
			} else if selected == len(cat.Permissions) {
				want = RollupFull
			}
			require.Equal(t, want, r.State, "step %d category %s", step, r.CategoryID)
			require.Equal(t, selected, r.Selected)
			require.Equal(t, len(cat.Permissions), r.Total)
		}
	}
}

func TestCoverageScenarios(t *testing.T) {
	m := newSyntheticMatrix(t)
	require.Equal(t, 120, m.Catalog().TotalCount())

	t.Run("empty selection", func(t *testing.T) {
		cov := m.Coverage(m.Empty())
		require.Equal(t, Coverage{Selected: 0, Total: 120}, cov)
		require.Zero(t, cov.Ratio())
	})

	t.Run("full access", func(t *testing.T) {
		sel, err := m.ApplyTemplate("Full access")
		require.NoError(t, err)
		require.Equal(t, 120, m.Coverage(sel).Selected)
		require.InDelta(t, 1.0, m.Coverage(sel).Ratio(), 1e-9)
	})

	t.Run("category on then one leaf off", func(t *testing.T) {
		sel, err := m.ToggleCategory(m.Empty(), "area07", true)
		require.NoError(t, err)
		sel, err = m.TogglePermission(sel, "area07.thing4.edit")
		require.NoError(t, err)
		state, _ := m.Rollup(sel, "area07")
		require.Equal(t, RollupPartial, state)
		require.Equal(t, 9, m.Coverage(sel).Selected)
	})

	t.Run("view only", func(t *testing.T) {
		sel, err := m.ApplyTemplate("View Only")
		require.NoError(t, err)
		require.Equal(t, 18, sel.Len())
		require.InDelta(t, 18.0/120.0, m.Coverage(sel).Ratio(), 1e-9)
	})
}

func TestSelectionDiff(t *testing.T) {
	m := newDefaultMatrix(t)
	base, _ := m.Seed([]string{"members.view", "members.edit"})
	next, _ := m.Seed([]string{"members.view", "finance.view", "events.view"})

	d := next.DiffFrom(base)
	require.Equal(t, []string{"events.view", "finance.view"}, d.Granted)
	require.Equal(t, []string{"members.edit"}, d.Revoked)
	require.True(t, base.DiffFrom(base).Empty())
}

func TestRollupTextEncoding(t *testing.T) {
	for _, r := range []Rollup{RollupNone, RollupPartial, RollupFull} {
		text, err := r.MarshalText()
		require.NoError(t, err)
		var back Rollup
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, r, back)
	}
	var r Rollup
	require.Error(t, r.UnmarshalText([]byte("indeterminate")))
	_, err := Rollup(9).MarshalText()
	require.Error(t, err)
}
