package models

const (
	// ScoreMin and ScoreMax bound every score-range filter value.
	ScoreMin = 0
	ScoreMax = 10
)

// DateRange is an optional inclusive date window. Bounds are ISO date
// strings (YYYY-MM-DD); an empty string means the bound is open.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// SessionFilters is the user-editable filter state for the session list.
// It is serialized as-is into the shareable query parameter, so field
// names must stay stable.
type SessionFilters struct {
	ScoreRange [2]float64 `json:"scoreRange"`
	DateRange  DateRange  `json:"dateRange"`
	Teams      []string   `json:"teams"`
}

// DefaultFilters returns the unfiltered state: full score range, open
// date range, no team restriction.
func DefaultFilters() SessionFilters {
	return SessionFilters{
		ScoreRange: [2]float64{ScoreMin, ScoreMax},
		DateRange:  DateRange{},
		Teams:      []string{},
	}
}

func clampScore(v float64) float64 {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// WithScoreMin returns a copy with the score minimum set to v. The value
// is bounded to [0,10] and the range invariant min <= max is kept by
// clamping, never by rejecting: an oversized minimum collapses the range
// onto the current maximum.
func (f SessionFilters) WithScoreMin(v float64) SessionFilters {
	v = clampScore(v)
	max := f.ScoreRange[1]
	f.ScoreRange = [2]float64{minFloat(v, max), maxFloat(v, max)}
	return f
}

// WithScoreMax returns a copy with the score maximum set to v, bounded to
// [0,10] and never below the current minimum.
func (f SessionFilters) WithScoreMax(v float64) SessionFilters {
	v = clampScore(v)
	min := f.ScoreRange[0]
	f.ScoreRange = [2]float64{min, maxFloat(v, min)}
	return f
}

// WithDateStart returns a copy with the start bound replaced.
func (f SessionFilters) WithDateStart(v string) SessionFilters {
	f.DateRange.Start = v
	return f
}

// WithDateEnd returns a copy with the end bound replaced.
func (f SessionFilters) WithDateEnd(v string) SessionFilters {
	f.DateRange.End = v
	return f
}

// WithTeamToggled returns a copy with team added to or removed from the
// team restriction list.
func (f SessionFilters) WithTeamToggled(team string) SessionFilters {
	next := make([]string, 0, len(f.Teams)+1)
	removed := false
	for _, t := range f.Teams {
		if t == team {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, team)
	}
	f.Teams = next
	return f
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
