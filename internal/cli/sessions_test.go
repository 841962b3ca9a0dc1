package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	app "github.com/perfpulse/pulse/internal"
	"github.com/perfpulse/pulse/internal/core"
	"github.com/perfpulse/pulse/internal/filterstate"
	"github.com/perfpulse/pulse/internal/notify"
	"github.com/perfpulse/pulse/internal/prefs"
	"github.com/perfpulse/pulse/internal/sessiondata"
	"github.com/perfpulse/pulse/pkg/models"
)

// fakeClient serves a fixed session list in pages.
type fakeClient struct {
	sessions []models.Session
	users    []models.UserSummary
	details  map[string]models.SessionDetails
	bulk     func(ids []string, feedback string) (models.BulkUpdateResult, error)
}

func (f *fakeClient) FetchSessions(_ context.Context, page, pageSize int) (models.SessionsAPIResponse, error) {
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(f.sessions) {
		start = len(f.sessions)
	}
	if end > len(f.sessions) {
		end = len(f.sessions)
	}
	return models.SessionsAPIResponse{
		Page:     page,
		PageSize: pageSize,
		Total:    len(f.sessions),
		Sessions: f.sessions[start:end],
	}, nil
}

func (f *fakeClient) FetchSessionDetails(_ context.Context, id string) (models.SessionDetails, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return models.SessionDetails{ID: id}, nil
}

func (f *fakeClient) BulkUpdate(_ context.Context, ids []string, feedback string) (models.BulkUpdateResult, error) {
	if f.bulk != nil {
		return f.bulk(ids, feedback)
	}
	return models.BulkUpdateResult{Updated: len(ids)}, nil
}

func (f *fakeClient) FetchUsers(context.Context) ([]models.UserSummary, error) {
	return f.users, nil
}

func (f *fakeClient) FetchTeamMetrics(context.Context) ([]models.TeamMetric, error) {
	return nil, nil
}

func (f *fakeClient) FetchUserPerformance(context.Context) ([]models.UserPerformance, error) {
	return nil, nil
}

func (f *fakeClient) FetchScoreTrends(context.Context, int) ([]models.ScoreTrendPoint, error) {
	return nil, nil
}

func makeFixture(n int) *fakeClient {
	sessions := make([]models.Session, n)
	for i := range sessions {
		sessions[i] = models.Session{
			ID:        fmt.Sprintf("s%d", i+1),
			UserID:    "u1",
			Title:     fmt.Sprintf("Call %d", i+1),
			Score:     float64(i%10) + 0.5,
			CreatedAt: time.Date(2024, 3, 1+i%27, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
			Duration:  600 + i,
		}
	}
	return &fakeClient{
		sessions: sessions,
		users:    []models.UserSummary{{ID: "u1", FirstName: "Alice", Team: "Sales"}},
		details:  map[string]models.SessionDetails{},
	}
}

func newTestApp(t *testing.T, client *fakeClient) *app.App {
	t.Helper()
	return &app.App{
		BasePath: t.TempDir(),
		Config:   core.DefaultConfig(),
		Log:      zerolog.Nop(),
		Client:   client,
		Cache:    sessiondata.NewCache(client, 50, zerolog.Nop()),
		Prefs:    prefs.NewStore(t.TempDir(), zerolog.Nop()),
		Alerts:   notify.NewCenter(notify.Options{Expire: func(time.Duration, func()) {}}),
	}
}

// loadFirstPage drives the model through its initial fetch.
func loadFirstPage(t *testing.T, m *sessionsModel) {
	t.Helper()
	fetched, err := m.app.Cache.FetchNextPage(context.Background())
	if err != nil || !fetched {
		t.Fatalf("initial fetch: fetched=%v err=%v", fetched, err)
	}
	users, err := m.app.Cache.Users(context.Background())
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(usersLoadedMsg{users: users})
	m.Update(pageFetchedMsg{fetched: true})
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestRowsRenderAfterLoad(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(10)), "")
	defer m.close()
	loadFirstPage(t, m)

	if len(m.rows) != 10 {
		t.Fatalf("rows = %d", len(m.rows))
	}
	view := m.View()
	if !strings.Contains(view, "Call 1") || !strings.Contains(view, "Alice") {
		t.Fatalf("view missing row content:\n%s", view)
	}
}

func TestSortKeyCyclesDirections(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(5)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("s"))
	if !m.sort.IsSorted() || *m.sort.Direction != models.SortAsc {
		t.Fatalf("first press: %+v", m.sort)
	}
	first := *m.sort.Column

	m.Update(keyMsg("s"))
	if *m.sort.Direction != models.SortDesc || *m.sort.Column != first {
		t.Fatalf("second press: %+v", m.sort)
	}

	m.Update(keyMsg("s"))
	if m.sort.IsSorted() && *m.sort.Column == first {
		t.Fatalf("third press should leave the first column: %+v", m.sort)
	}
}

func TestSortWritesLocationParams(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(5)), "")
	defer m.close()
	loadFirstPage(t, m)

	if m.location.Param(paramSortCol) != "" {
		t.Fatal("unsorted state must not write sort params")
	}
	m.Update(keyMsg("s"))
	if m.location.Param(paramSortCol) == "" || m.location.Param(paramSortDir) != "asc" {
		t.Fatalf("sort params = %q/%q", m.location.Param(paramSortCol), m.location.Param(paramSortDir))
	}
}

func TestSelectionToggleAndSelectAll(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(8)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg(" "))
	if m.selection.Len() != 1 || !m.selection.Has("s1") {
		t.Fatalf("selection after toggle: %d", m.selection.Len())
	}

	m.Update(keyMsg("a"))
	if m.selection.Len() != 8 {
		t.Fatalf("select all: %d", m.selection.Len())
	}

	// Select-all again clears when everything is already selected.
	m.Update(keyMsg("a"))
	if m.selection.Len() != 0 {
		t.Fatalf("second select-all should clear: %d", m.selection.Len())
	}
}

func TestSelectAllRespectsCap(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(150)), "")
	defer m.close()
	loadFirstPage(t, m)
	for m.app.Cache.HasNextPage() {
		if _, err := m.app.Cache.FetchNextPage(context.Background()); err != nil {
			t.Fatal(err)
		}
		m.Update(pageFetchedMsg{fetched: true})
	}
	if len(m.rows) != 150 {
		t.Fatalf("rows = %d", len(m.rows))
	}

	m.Update(keyMsg("a"))
	if m.selection.Len() != 100 {
		t.Fatalf("select all must cap at 100, got %d", m.selection.Len())
	}
}

func TestUndoRestoresFilters(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(5)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
		return prev.WithScoreMin(5)
	})
	m.contextChanged()
	if len(m.rows) == 5 {
		t.Fatal("filter should have narrowed the rows")
	}

	m.Update(keyMsg("ctrl+z"))
	if got := m.filters.Value(); got.ScoreRange != models.DefaultFilters().ScoreRange {
		t.Fatalf("undo did not restore defaults: %+v", got)
	}
	if len(m.rows) != 5 {
		t.Fatalf("rows after undo = %d", len(m.rows))
	}

	m.Update(keyMsg("ctrl+y"))
	if got := m.filters.Value(); got.ScoreRange[0] != 5 {
		t.Fatalf("redo did not reapply: %+v", got)
	}
}

func TestLinkFlagRestoresViewState(t *testing.T) {
	link := filterstate.FormatLink("sessions", map[string]string{
		paramFilters:  `{"scoreRange":[5,10]}`,
		paramPageSize: "100",
		paramSortCol:  "score",
		paramSortDir:  "desc",
	})
	m := newSessionsModel(newTestApp(t, makeFixture(5)), link)
	defer m.close()
	loadFirstPage(t, m)

	if m.app.Cache.PageSize() != 100 {
		t.Fatalf("page size = %d", m.app.Cache.PageSize())
	}
	if !m.sort.IsSorted() || *m.sort.Column != models.ColumnScore || *m.sort.Direction != models.SortDesc {
		t.Fatalf("sort = %+v", m.sort)
	}
	if got := m.filters.Value(); got.ScoreRange != [2]float64{5, 10} {
		t.Fatalf("filters = %+v", got)
	}
	// All fixture scores sit below 5, so the restored filter hides them.
	if len(m.rows) != 0 {
		t.Fatalf("rows = %d", len(m.rows))
	}
}

func TestMalformedLinkFlagFallsBackToDefaults(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(5)), "https://elsewhere?x=1")
	defer m.close()
	loadFirstPage(t, m)

	if got := m.filters.Value(); got.ScoreRange != models.DefaultFilters().ScoreRange {
		t.Fatalf("filters = %+v", got)
	}
	if len(m.rows) != 5 {
		t.Fatalf("rows = %d", len(m.rows))
	}
}

func TestShareKeyShowsCurrentLink(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(5)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("s"))
	m.Update(keyMsg("c"))
	if m.mode != modeLink {
		t.Fatalf("mode = %v", m.mode)
	}
	view := m.View()
	if !strings.Contains(view, "pulse://sessions?") {
		t.Fatalf("view missing link:\n%s", view)
	}
	if !strings.Contains(view, "sortColumn=title") || !strings.Contains(view, "sortDirection=asc") {
		t.Fatalf("link missing sort params:\n%s", view)
	}
}

func TestPastedLinkWinsAndLandsInHistory(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(5)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("c"))
	m.linkInput.SetValue("pulse://sessions?sessionFilters=" + url.QueryEscape(`{"scoreRange":[5,10]}`))
	m.Update(keyMsg("enter"))

	if m.mode != modeTable {
		t.Fatalf("mode = %v", m.mode)
	}
	if got := m.filters.Value(); got.ScoreRange != [2]float64{5, 10} {
		t.Fatalf("filters = %+v", got)
	}
	if len(m.rows) != 0 {
		t.Fatalf("rows = %d", len(m.rows))
	}

	// The pasted state landed in history, so undo steps back across it.
	m.Update(keyMsg("ctrl+z"))
	if got := m.filters.Value(); got.ScoreRange != models.DefaultFilters().ScoreRange {
		t.Fatalf("undo did not restore defaults: %+v", got)
	}
	if len(m.rows) != 5 {
		t.Fatalf("rows after undo = %d", len(m.rows))
	}
}

func TestOpenDetailsShowsTranscript(t *testing.T) {
	client := makeFixture(3)
	client.details["s1"] = models.SessionDetails{
		ID:     "s1",
		UserID: "u1",
		Transcript: []models.TranscriptEntry{
			{Text: "hello there", SecondsFromStart: 0, Speaker: models.SpeakerAgent},
			{Text: "hi, this is about pricing", SecondsFromStart: 4, Speaker: models.SpeakerCustomer},
		},
	}
	m := newSessionsModel(newTestApp(t, client), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("enter"))
	if m.mode != modeDetails || m.details == nil {
		t.Fatal("enter should open the details modal")
	}
	details, err := m.app.Cache.FetchDetails(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	m.Update(detailsLoadedMsg{id: "s1", details: details})

	view := m.View()
	if !strings.Contains(view, "hello there") || !strings.Contains(view, "Agent") {
		t.Fatalf("details view missing transcript:\n%s", view)
	}

	m.Update(keyMsg("esc"))
	if m.mode != modeTable || m.details != nil {
		t.Fatal("esc should close the modal")
	}
}

func TestDetailsFeedbackTrimsAndSkipsUnchanged(t *testing.T) {
	client := makeFixture(2)
	client.details["s1"] = models.SessionDetails{ID: "s1", UserID: "u1", Feedback: "good"}
	var sent []string
	client.bulk = func(ids []string, feedback string) (models.BulkUpdateResult, error) {
		sent = append(sent, feedback)
		return models.BulkUpdateResult{Updated: len(ids)}, nil
	}
	m := newSessionsModel(newTestApp(t, client), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("enter"))
	m.Update(detailsLoadedMsg{id: "s1", details: client.details["s1"]})

	// A draft that trims down to the stored value never hits the server.
	m.Update(keyMsg("e"))
	m.details.feedbackInput.SetValue("  good  ")
	_, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("unchanged feedback must not trigger a save")
	}
	if len(sent) != 0 {
		t.Fatalf("server saw %v", sent)
	}

	m.Update(keyMsg("e"))
	m.details.feedbackInput.SetValue("  much better  ")
	_, cmd = m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("changed feedback should trigger a save")
	}
	m.Update(cmd())
	if len(sent) != 1 || sent[0] != "much better" {
		t.Fatalf("server saw %v", sent)
	}
}

func TestBulkFlowSuccessClearsSelection(t *testing.T) {
	client := makeFixture(5)
	var gotIDs []string
	client.bulk = func(ids []string, feedback string) (models.BulkUpdateResult, error) {
		gotIDs = ids
		return models.BulkUpdateResult{Updated: len(ids)}, nil
	}
	m := newSessionsModel(newTestApp(t, client), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg(" "))
	m.Update(keyMsg("down"))
	m.Update(keyMsg(" "))
	m.Update(keyMsg("e"))
	if m.mode != modeBulkEdit {
		t.Fatalf("mode = %v", m.mode)
	}
	m.feedbackInput.SetValue("solid discovery questions")
	m.Update(keyMsg("enter"))
	if m.mode != modeBulkConfirm {
		t.Fatalf("enter with feedback should confirm, mode = %v", m.mode)
	}

	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("confirm should produce a submit command")
	}
	m.Update(cmd())

	if len(gotIDs) != 2 {
		t.Fatalf("bulk got %v", gotIDs)
	}
	if m.selection.Len() != 0 || m.feedbackInput.Value() != "" {
		t.Fatal("success must clear selection and draft")
	}
	if m.mode != modeTable {
		t.Fatalf("mode = %v", m.mode)
	}
}

func TestSecondConfirmWhileSubmittingIgnored(t *testing.T) {
	client := makeFixture(3)
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	client.bulk = func(ids []string, feedback string) (models.BulkUpdateResult, error) {
		calls++
		close(started)
		<-release
		return models.BulkUpdateResult{Updated: len(ids)}, nil
	}
	m := newSessionsModel(newTestApp(t, client), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg(" "))
	m.Update(keyMsg("e"))
	m.feedbackInput.SetValue("keep it up")
	m.Update(keyMsg("enter"))

	_, cmd := m.Update(keyMsg("y"))
	settled := make(chan tea.Msg, 1)
	go func() { settled <- cmd() }()
	<-started

	_, again := m.Update(keyMsg("y"))
	if again != nil {
		t.Fatal("a second confirm mid-submit must not fire another mutation")
	}
	if m.mode != modeBulkConfirm {
		t.Fatalf("mode = %v", m.mode)
	}

	close(release)
	m.Update(<-settled)
	if calls != 1 {
		t.Fatalf("mutation fired %d times", calls)
	}
	if m.mode != modeTable {
		t.Fatalf("mode after settle = %v", m.mode)
	}
}

func TestBulkPartialFailureOpensFailedModal(t *testing.T) {
	client := makeFixture(5)
	client.bulk = func(ids []string, feedback string) (models.BulkUpdateResult, error) {
		return models.BulkUpdateResult{Updated: len(ids) - 1, Failed: ids[:1]}, nil
	}
	m := newSessionsModel(newTestApp(t, client), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg(" "))
	m.Update(keyMsg("down"))
	m.Update(keyMsg(" "))
	m.Update(keyMsg("e"))
	m.feedbackInput.SetValue("notes")
	m.Update(keyMsg("enter"))
	_, cmd := m.Update(keyMsg("y"))
	m.Update(cmd())

	if m.mode != modeBulkFailed {
		t.Fatalf("mode = %v", m.mode)
	}
	view := m.View()
	if !strings.Contains(view, "Call 1") {
		t.Fatalf("failed modal should list the failed session by title:\n%s", view)
	}
	m.Update(keyMsg("esc"))
	if m.mode != modeTable {
		t.Fatal("esc should close the failed modal")
	}
}

func TestSettingsPageSizeClampAndRestart(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(30)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("o"))
	if m.mode != modeSettings {
		t.Fatalf("mode = %v", m.mode)
	}
	// 50 -> 100, then clamp at the maximum.
	for i := 0; i < 10; i++ {
		m.Update(keyMsg("l"))
	}
	if m.settings.pageSize != 100 {
		t.Fatalf("page size = %d, want clamp at 100", m.settings.pageSize)
	}

	_, cmd := m.Update(keyMsg("esc"))
	if m.app.Cache.PageSize() != 100 {
		t.Fatalf("cache page size = %d", m.app.Cache.PageSize())
	}
	if cmd == nil {
		t.Fatal("page size change must restart pagination")
	}
	if m.location.Param(paramPageSize) != "100" {
		t.Fatalf("pageSize param = %q", m.location.Param(paramPageSize))
	}
}

func TestLastColumnToggleRejectedInSettings(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(3)), "")
	defer m.close()
	loadFirstPage(t, m)

	for _, c := range models.BaseColumns[:len(models.BaseColumns)-1] {
		if _, err := m.app.Prefs.ToggleColumn(c.Key); err != nil {
			t.Fatalf("toggle %s: %v", c.Key, err)
		}
	}
	m.columns = m.app.Prefs.ColumnVisibility()

	m.Update(keyMsg("o"))
	m.settings.cursor = len(models.BaseColumns) // last column row
	m.Update(keyMsg(" "))

	if m.columns.VisibleCount() != 1 {
		t.Fatalf("visible = %d, want the last column kept", m.columns.VisibleCount())
	}
	if len(m.app.Alerts.Active()) == 0 {
		t.Fatal("rejection should surface an alert")
	}
}

func TestMoveRowRemembersManualOrder(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(4)), "")
	defer m.close()
	loadFirstPage(t, m)

	m.Update(keyMsg("J"))
	if len(m.manualOrder) == 0 || m.rows[1].ID != "s1" {
		t.Fatalf("move down: order %v", m.manualOrder)
	}

	// Changing the filter context resets the manual order.
	m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
		return prev.WithScoreMin(1)
	})
	m.contextChanged()
	if m.manualOrder != nil {
		t.Fatal("context change must drop manual order")
	}
}

func TestThemeToggleInSettings(t *testing.T) {
	m := newSessionsModel(newTestApp(t, makeFixture(3)), "")
	defer m.close()
	loadFirstPage(t, m)

	if m.app.Prefs.Theme() != prefs.ThemeLight {
		t.Fatalf("default theme = %q", m.app.Prefs.Theme())
	}
	m.Update(keyMsg("o"))
	m.Update(keyMsg("t"))
	if m.app.Prefs.Theme() != prefs.ThemeDark {
		t.Fatalf("theme after toggle = %q", m.app.Prefs.Theme())
	}
	m.Update(keyMsg("t"))
	if m.app.Prefs.Theme() != prefs.ThemeLight {
		t.Fatalf("theme after second toggle = %q", m.app.Prefs.Theme())
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "—"},
		{59, "0m 59s"},
		{750, "12m 30s"},
		{3600, "1h 00m"},
		{3900, "1h 05m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Fatalf("formatDuration(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDateFallsBackOnGarbage(t *testing.T) {
	ok := models.Session{CreatedAt: "2024-03-05T10:30:00Z"}
	if got := formatDate(ok); got != "Mar 5, 2024 10:30" {
		t.Fatalf("formatDate = %q", got)
	}
	if got := formatDate(models.Session{CreatedAt: "not-a-date"}); got != "—" {
		t.Fatalf("formatDate garbage = %q", got)
	}
}

func TestPadUsesRenderedWidth(t *testing.T) {
	st := newStyles(prefs.ThemeDark)
	styled := st.scoreGood.Render("8.0")
	padded := pad(styled, 7)
	if lipgloss.Width(padded) != 7 {
		t.Fatalf("padded width = %d", lipgloss.Width(padded))
	}
	// Already-wide cells are left alone rather than truncated.
	if got := pad("confidence", 7); got != "confidence" {
		t.Fatalf("pad must not truncate, got %q", got)
	}
}

func TestNextSortableColumnSkipsMetricColumns(t *testing.T) {
	col, ok := nextSortableColumn(models.ColumnUser)
	if !ok || col != models.ColumnScore {
		t.Fatalf("after user: %v %v", col, ok)
	}
	// Score is followed by createdAt; the metric columns in between are
	// not sortable.
	col, ok = nextSortableColumn(models.ColumnScore)
	if !ok || col != models.ColumnCreatedAt {
		t.Fatalf("after score: %v %v", col, ok)
	}
	col, ok = nextSortableColumn(models.ColumnCreatedAt)
	if !ok || col != models.ColumnTitle {
		t.Fatalf("wrap around: %v %v", col, ok)
	}
}

func TestOrderByRoster(t *testing.T) {
	perf := []models.UserPerformance{
		{UserID: "u3", FirstName: "Cara"},
		{UserID: "u1", FirstName: "Alice"},
		{UserID: "zz", FirstName: "Stray"},
	}
	roster := []models.UserSummary{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}

	got := orderByRoster(perf, roster)
	if got[0].UserID != "u1" || got[1].UserID != "u3" || got[2].UserID != "zz" {
		t.Fatalf("order = %v, %v, %v", got[0].UserID, got[1].UserID, got[2].UserID)
	}
}
