package permissions

import "fmt"

// Rollup is the tri-state selection state of a category.
type Rollup int

const (
	// RollupNone means no permission of the category is selected.
	RollupNone Rollup = iota
	// RollupPartial means some but not all permissions are selected.
	RollupPartial
	// RollupFull means every permission of the category is selected.
	RollupFull
)

func (r Rollup) String() string {
	switch r {
	case RollupNone:
		return "none"
	case RollupPartial:
		return "partial"
	case RollupFull:
		return "full"
	default:
		return fmt.Sprintf("rollup(%d)", int(r))
	}
}

// MarshalText encodes the rollup as its lowercase name.
func (r Rollup) MarshalText() ([]byte, error) {
	switch r {
	case RollupNone, RollupPartial, RollupFull:
		return []byte(r.String()), nil
	}
	return nil, fmt.Errorf("permissions: invalid rollup %d", int(r))
}

// UnmarshalText decodes a lowercase rollup name.
func (r *Rollup) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*r = RollupNone
	case "partial":
		*r = RollupPartial
	case "full":
		*r = RollupFull
	default:
		return fmt.Errorf("permissions: invalid rollup %q", text)
	}
	return nil
}

// CategoryRollup reports the rollup of one category together with its counts.
type CategoryRollup struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	State      Rollup `json:"state"`
	Selected   int    `json:"selected"`
	Total      int    `json:"total"`
}

// Coverage is selected/total over the whole catalog.
type Coverage struct {
	Selected int `json:"selected"`
	Total    int `json:"total"`
}

// Ratio returns Selected/Total, or 0 for an empty catalog.
func (c Coverage) Ratio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Selected) / float64(c.Total)
}

// rollupOf is O(len(cat.Permissions)). An empty category has nothing selected and
// reports RollupNone.
func rollupOf(sel Selection, cat *Category) CategoryRollup {
	selected := 0
	for _, p := range cat.Permissions {
		if sel.Has(p.ID) {
			selected++
		}
	}
	state := RollupPartial
	switch {
	case selected == 0:
		state = RollupNone
	case selected == len(cat.Permissions):
		state = RollupFull
	}
	return CategoryRollup{
		CategoryID: cat.ID,
		Name:       cat.Name,
		State:      state,
		Selected:   selected,
		Total:      len(cat.Permissions),
	}
}
