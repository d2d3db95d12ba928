package permissions

import "sort"

// Selection is an immutable set of enabled permission ids. Mutating operations on
// Matrix return a new Selection and never modify the receiver. The zero value is an
// empty selection.
type Selection struct {
	ids map[string]struct{}
}

// Has reports whether the permission id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected permissions.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids sorted lexically.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Equal reports whether both selections hold the same ids.
func (s Selection) Equal(other Selection) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if _, ok := other.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Diff describes how a selection changes relative to a baseline.
type Diff struct {
	Granted []string `json:"granted"`
	Revoked []string `json:"revoked"`
}

// Empty reports whether the diff carries no change.
func (d Diff) Empty() bool {
	return len(d.Granted) == 0 && len(d.Revoked) == 0
}

// DiffFrom computes the ids granted and revoked when moving from base to s.
func (s Selection) DiffFrom(base Selection) Diff {
	var d Diff
	for id := range s.ids {
		if !base.Has(id) {
			d.Granted = append(d.Granted, id)
		}
	}
	for id := range base.ids {
		if !s.Has(id) {
			d.Revoked = append(d.Revoked, id)
		}
	}
	sort.Strings(d.Granted)
	sort.Strings(d.Revoked)
	return d
}

func (s Selection) clone(extra int) map[string]struct{} {
	out := make(map[string]struct{}, len(s.ids)+extra)
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

func newSelection(ids map[string]struct{}) Selection {
	return Selection{ids: ids}
}
