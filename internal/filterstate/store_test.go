package filterstate

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/pkg/models"
)

type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) func() {
	s.pending = append(s.pending, fn)
	idx := len(s.pending) - 1
	p := s.pending
	return func() { p[idx] = nil }
}

func (s *manualScheduler) fire() {
	fns := s.pending
	s.pending = nil
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

func newFilterStore(loc Location, sched *manualScheduler, onChange func(models.SessionFilters)) *Store[models.SessionFilters] {
	return New(Options[models.SessionFilters]{
		Initial:   models.DefaultFilters(),
		Location:  loc,
		ParamKey:  "sessionFilters",
		Scheduler: sched,
		OnChange:  onChange,
		Logger:    zerolog.Nop(),
	})
}

func TestRestoresStateFromLocationParam(t *testing.T) {
	loc := NewMemLocationFrom(map[string]string{
		"sessionFilters": `{"scoreRange":[3,8],"dateRange":{},"teams":["Sales"]}`,
	})
	s := newFilterStore(loc, &manualScheduler{}, nil)

	got := s.Value()
	if got.ScoreRange != [2]float64{3, 8} || len(got.Teams) != 1 || got.Teams[0] != "Sales" {
		t.Fatalf("expected restored filters, got %+v", got)
	}
}

func TestMalformedParamFallsBackToDefaults(t *testing.T) {
	loc := NewMemLocationFrom(map[string]string{"sessionFilters": `{"scoreRange":[3,`})
	s := newFilterStore(loc, &manualScheduler{}, nil)

	got := s.Value()
	if got.ScoreRange != [2]float64{0, 10} {
		t.Fatalf("expected default filters for malformed param, got %+v", got)
	}
}

func TestPartialParamMergesOverDefaults(t *testing.T) {
	loc := NewMemLocationFrom(map[string]string{"sessionFilters": `{"teams":["Executive"]}`})
	s := newFilterStore(loc, &manualScheduler{}, nil)

	got := s.Value()
	if got.ScoreRange != [2]float64{0, 10} {
		t.Fatalf("expected default score range preserved, got %+v", got.ScoreRange)
	}
	if len(got.Teams) != 1 || got.Teams[0] != "Executive" {
		t.Fatalf("expected teams from param, got %+v", got.Teams)
	}
}

func TestSetWritesLocationSynchronously(t *testing.T) {
	loc := NewMemLocation()
	sched := &manualScheduler{}
	s := newFilterStore(loc, sched, nil)

	s.Set(func(f models.SessionFilters) models.SessionFilters {
		return f.WithTeamToggled("Sales")
	})

	// The location write happens before any debounce timer fires.
	raw := loc.Param("sessionFilters")
	if raw == "" {
		t.Fatal("expected location param written immediately on Set")
	}
}

func TestSetWithEqualValueIsNoOp(t *testing.T) {
	loc := NewMemLocation()
	sched := &manualScheduler{}
	s := newFilterStore(loc, sched, nil)

	s.Set(func(f models.SessionFilters) models.SessionFilters { return f })

	if raw := loc.Param("sessionFilters"); raw != "" {
		t.Fatalf("expected no location write for unchanged value, got %q", raw)
	}
	if len(sched.pending) != 0 {
		t.Fatal("expected no history push for unchanged value")
	}
}

func TestOwnWriteDoesNotTriggerExternalSync(t *testing.T) {
	loc := NewMemLocation()
	sched := &manualScheduler{}
	changes := 0
	s := newFilterStore(loc, sched, func(models.SessionFilters) { changes++ })

	s.Set(func(f models.SessionFilters) models.SessionFilters {
		return f.WithScoreMin(2)
	})

	if s.SyncFromLocation() {
		t.Fatal("store's own write must not be detected as an external change")
	}
	if changes != 0 {
		t.Fatalf("expected no OnChange from own write, got %d", changes)
	}
}

func TestExternalLocationChangeWins(t *testing.T) {
	loc := NewMemLocation()
	sched := &manualScheduler{}
	var changed []models.SessionFilters
	s := newFilterStore(loc, sched, func(f models.SessionFilters) { changed = append(changed, f) })

	loc.SetExternal("sessionFilters", `{"scoreRange":[5,10],"dateRange":{},"teams":[]}`)
	if !s.SyncFromLocation() {
		t.Fatal("expected external change to be applied")
	}
	if got := s.Value(); got.ScoreRange != [2]float64{5, 10} {
		t.Fatalf("expected external value to win, got %+v", got)
	}
	if len(changed) != 1 {
		t.Fatalf("expected one OnChange, got %d", len(changed))
	}

	// The external change also lands in history so undo returns to the
	// pre-navigation state.
	sched.fire()
	v, ok := s.Undo()
	if !ok || v.ScoreRange != [2]float64{0, 10} {
		t.Fatalf("expected undo back to defaults, got %+v ok=%v", v, ok)
	}
}

func TestMalformedExternalChangeIsIgnored(t *testing.T) {
	loc := NewMemLocation()
	sched := &manualScheduler{}
	s := newFilterStore(loc, sched, nil)

	s.Set(func(f models.SessionFilters) models.SessionFilters {
		return f.WithTeamToggled("Engineering")
	})
	before := s.Value()

	loc.SetExternal("sessionFilters", `not json`)
	if s.SyncFromLocation() {
		t.Fatal("malformed external value must not be applied")
	}
	got := s.Value()
	if len(got.Teams) != len(before.Teams) {
		t.Fatalf("expected state unchanged, got %+v", got)
	}
}

func TestUndoWritesRestoredValueToLocation(t *testing.T) {
	loc := NewMemLocation()
	sched := &manualScheduler{}
	s := newFilterStore(loc, sched, nil)

	s.Set(func(f models.SessionFilters) models.SessionFilters {
		return f.WithScoreMax(6)
	})
	sched.fire()

	if _, ok := s.Undo(); !ok {
		t.Fatal("expected undo to apply")
	}
	raw := loc.Param("sessionFilters")
	if !strings.Contains(raw, `"scoreRange":[0,10]`) {
		t.Fatalf("expected location updated on undo, got %q", raw)
	}
}
