// Package pipeline derives the rendered session row set from raw
// accumulated sessions. Every stage is pure: inputs are never mutated
// and the same inputs always produce the same output.
//
// Order of stages: join user identity, filter, sort, then overlay any
// manual drag ordering.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/perfpulse/pulse/pkg/models"
)

// UserIdentity is the joined user data on a row. Placeholder identities
// are tagged explicitly so consumers cannot mistake one for real data.
type UserIdentity struct {
	Name     string
	Team     string
	Resolved bool
}

// placeholderIdentity derives display values for a session whose user
// is not in the lookup table.
func placeholderIdentity(userID string) UserIdentity {
	short := userID
	if len(short) > 4 {
		short = short[:4]
	}
	return UserIdentity{Name: "User " + short, Team: "Unassigned", Resolved: false}
}

// Row is one joined session row.
type Row struct {
	models.Session
	User UserIdentity
}

// Join attaches user identity to each session via the user lookup
// table. Unknown users get a tagged placeholder.
func Join(sessions []models.Session, users []models.UserSummary) []Row {
	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	rows := make([]Row, len(sessions))
	for i, s := range sessions {
		identity := placeholderIdentity(s.UserID)
		if u, ok := byID[s.UserID]; ok {
			identity = UserIdentity{Name: u.FirstName, Team: u.Team, Resolved: true}
		}
		rows[i] = Row{Session: s, User: identity}
	}
	return rows
}

// Filter returns the rows passing the search term and every filter
// field. The search term matches title or user name case-insensitively;
// score bounds are inclusive; date bounds cover the whole named days;
// an empty team list means no team restriction.
func Filter(rows []Row, search string, filters models.SessionFilters) []Row {
	search = strings.ToLower(strings.TrimSpace(search))
	startBound, hasStart := dayStart(filters.DateRange.Start)
	endBound, hasEnd := dayEnd(filters.DateRange.End)

	teams := make(map[string]bool, len(filters.Teams))
	for _, t := range filters.Teams {
		teams[t] = true
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Title), search) &&
			!strings.Contains(strings.ToLower(row.User.Name), search) {
			continue
		}
		if row.Score < filters.ScoreRange[0] || row.Score > filters.ScoreRange[1] {
			continue
		}
		if hasStart || hasEnd {
			created, ok := row.CreatedAtTime()
			if !ok {
				continue
			}
			if hasStart && created.Before(startBound) {
				continue
			}
			if hasEnd && created.After(endBound) {
				continue
			}
		}
		if len(teams) > 0 && !teams[row.User.Team] {
			continue
		}
		out = append(out, row)
	}
	return out
}

func dayStart(iso string) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayEnd(iso string) (time.Time, bool) {
	t, ok := dayStart(iso)
	if !ok {
		return time.Time{}, false
	}
	return t.Add(24*time.Hour - time.Second), true
}

// Sort orders rows by the active sort column. String columns compare
// locale-aware, numeric and date columns numerically. Rows missing the
// sort key always sort last, regardless of direction. An unsorted state
// returns the input ordering.
func Sort(rows []Row, s models.SessionSort) []Row {
	if !s.IsSorted() {
		return append([]Row(nil), rows...)
	}

	out := append([]Row(nil), rows...)
	desc := *s.Direction == models.SortDesc
	coll := collate.New(language.English, collate.Loose)

	less := func(a, b Row) bool {
		av, aok := sortKey(a, *s.Column)
		bv, bok := sortKey(b, *s.Column)
		if aok != bok {
			// Missing keys go last in either direction.
			return aok
		}
		if !aok {
			return false
		}
		var cmp int
		switch ka := av.(type) {
		case string:
			cmp = coll.CompareString(ka, bv.(string))
		case float64:
			kb := bv.(float64)
			switch {
			case ka < kb:
				cmp = -1
			case ka > kb:
				cmp = 1
			}
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// sortKey extracts the comparable value for a column. The second return
// is false when the row has no usable key for that column.
func sortKey(row Row, column models.SessionColumnKey) (any, bool) {
	switch column {
	case models.ColumnTitle:
		if row.Title == "" {
			return nil, false
		}
		return row.Title, true
	case models.ColumnUser:
		if !row.User.Resolved {
			return nil, false
		}
		return row.User.Name, true
	case models.ColumnScore:
		return row.Score, true
	case models.ColumnCreatedAt:
		t, ok := row.CreatedAtTime()
		if !ok {
			return nil, false
		}
		return float64(t.UnixNano()), true
	default:
		return nil, false
	}
}

// NextSort advances the sort state for a click on column: the same
// column cycles unsorted, ascending, descending, unsorted; a different
// column always restarts ascending.
func NextSort(current models.SessionSort, column models.SessionColumnKey) models.SessionSort {
	asc := models.SortAsc
	desc := models.SortDesc

	if current.Column == nil || *current.Column != column {
		return models.SessionSort{Column: &column, Direction: &asc}
	}
	switch {
	case current.Direction != nil && *current.Direction == models.SortAsc:
		return models.SessionSort{Column: &column, Direction: &desc}
	case current.Direction != nil && *current.Direction == models.SortDesc:
		return models.Unsorted()
	default:
		return models.SessionSort{Column: &column, Direction: &asc}
	}
}

// ApplyManualOrder overlays a remembered id ordering on the pipeline
// output: remembered ids come first in remembered order, rows the
// memory does not cover keep their pipeline order and follow after.
// Remembered ids no longer present are skipped.
func ApplyManualOrder(rows []Row, orderedIDs []string) []Row {
	if len(orderedIDs) == 0 {
		return rows
	}

	byID := make(map[string]Row, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	remembered := make(map[string]bool, len(orderedIDs))

	out := make([]Row, 0, len(rows))
	for _, id := range orderedIDs {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			remembered[id] = true
		}
	}
	for _, r := range rows {
		if !remembered[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// ActiveFilterCount reports how many filter fields differ from their
// defaults, for badge display only.
func ActiveFilterCount(f models.SessionFilters) int {
	defaults := models.DefaultFilters()
	n := 0
	if f.ScoreRange != defaults.ScoreRange {
		n++
	}
	if f.DateRange.Start != "" || f.DateRange.End != "" {
		n++
	}
	if len(f.Teams) > 0 {
		n++
	}
	return n
}
