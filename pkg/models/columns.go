package models

// SessionColumnKey names a column of the session table.
type SessionColumnKey string

const (
	ColumnTitle      SessionColumnKey = "title"
	ColumnUser       SessionColumnKey = "user"
	ColumnScore      SessionColumnKey = "score"
	ColumnConfidence SessionColumnKey = "confidence"
	ColumnClarity    SessionColumnKey = "clarity"
	ColumnListening  SessionColumnKey = "listening"
	ColumnDuration   SessionColumnKey = "duration"
	ColumnCreatedAt  SessionColumnKey = "createdAt"
)

// SessionColumn describes one table column. Customizable columns can be
// hidden through the settings view; the rest are always shown.
type SessionColumn struct {
	Key          SessionColumnKey
	Label        string
	MinWidth     int
	Sortable     bool
	Customizable bool
}

// BaseColumns is the full ordered column set of the session table.
var BaseColumns = []SessionColumn{
	{Key: ColumnTitle, Label: "Session", MinWidth: 24, Sortable: true},
	{Key: ColumnUser, Label: "User", MinWidth: 20, Sortable: true},
	{Key: ColumnScore, Label: "Score", MinWidth: 7, Sortable: true, Customizable: true},
	{Key: ColumnConfidence, Label: "Confidence", MinWidth: 10, Customizable: true},
	{Key: ColumnClarity, Label: "Clarity", MinWidth: 8, Customizable: true},
	{Key: ColumnListening, Label: "Listening", MinWidth: 9, Customizable: true},
	{Key: ColumnDuration, Label: "Duration", MinWidth: 9, Customizable: true},
	{Key: ColumnCreatedAt, Label: "Created", MinWidth: 18, Sortable: true},
}

// SessionColumnVisibility maps column keys to whether the column is
// shown. At least one column must stay visible; enforcement lives in the
// prefs store that mutates it.
type SessionColumnVisibility map[SessionColumnKey]bool

// DefaultColumnVisibility returns a visibility map with every base
// column shown.
func DefaultColumnVisibility() SessionColumnVisibility {
	vis := make(SessionColumnVisibility, len(BaseColumns))
	for _, c := range BaseColumns {
		vis[c.Key] = true
	}
	return vis
}

// VisibleCount reports how many columns are currently shown.
func (v SessionColumnVisibility) VisibleCount() int {
	n := 0
	for _, shown := range v {
		if shown {
			n++
		}
	}
	return n
}

// SortDirection is the direction of a single-column sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SessionSort is the active sort state. A nil Column means unsorted.
type SessionSort struct {
	Column    *SessionColumnKey
	Direction *SortDirection
}

// Unsorted returns the zero sort state.
func Unsorted() SessionSort {
	return SessionSort{}
}

// IsSorted reports whether a column sort is active.
func (s SessionSort) IsSorted() bool {
	return s.Column != nil && s.Direction != nil
}
