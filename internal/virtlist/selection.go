package virtlist

// MaxBulkSelections caps how many rows a single bulk action can cover.
const MaxBulkSelections = 100

// Selection is the set of selected row ids. It is independent of the
// virtualization window: toggling never touches scroll state.
type Selection struct {
	ids map[string]bool
	cap int
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool), cap: MaxBulkSelections}
}

// Toggle flips membership for id. Adding past the cap is refused and
// reported via the return value.
func (s *Selection) Toggle(id string) bool {
	if s.ids[id] {
		delete(s.ids, id)
		return true
	}
	if len(s.ids) >= s.cap {
		return false
	}
	s.ids[id] = true
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	return s.ids[id]
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in the order they appear in visible.
// Selected ids no longer visible are appended after, in no particular
// order.
func (s *Selection) IDs(visible []string) []string {
	out := make([]string, 0, len(s.ids))
	seen := make(map[string]bool, len(s.ids))
	for _, id := range visible {
		if s.ids[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for id := range s.ids {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// SelectAll selects the currently visible rows, up to the cap. It acts
// only on what the caller can see, never on unfetched data.
func (s *Selection) SelectAll(visible []string) {
	for _, id := range visible {
		if len(s.ids) >= s.cap {
			return
		}
		s.ids[id] = true
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]bool)
}

// AllState describes the select-all checkbox over a visible row set.
type AllState int

const (
	AllNone AllState = iota
	AllSome
	AllEvery
)

// StateOver reports whether none, some, or every visible row is
// selected. AllSome renders as the indeterminate checkbox.
func (s *Selection) StateOver(visible []string) AllState {
	if len(visible) == 0 {
		return AllNone
	}
	n := 0
	for _, id := range visible {
		if s.ids[id] {
			n++
		}
	}
	switch n {
	case 0:
		return AllNone
	case len(visible):
		return AllEvery
	default:
		return AllSome
	}
}
