package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	app "github.com/perfpulse/pulse/internal"
	"github.com/perfpulse/pulse/internal/bulk"
	"github.com/perfpulse/pulse/internal/core"
	"github.com/perfpulse/pulse/internal/filterstate"
	"github.com/perfpulse/pulse/internal/notify"
	"github.com/perfpulse/pulse/internal/pipeline"
	"github.com/perfpulse/pulse/internal/virtlist"
	"github.com/perfpulse/pulse/pkg/models"
)

var sessionsLink string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse, filter and bulk-edit coaching sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newSessionsModel(application, sessionsLink)
		defer m.close()
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsLink, "link", "", "Restore filters, sort and page size from a shared pulse:// link")
	rootCmd.AddCommand(sessionsCmd)
}

// viewMode selects which surface owns the keyboard.
type viewMode int

const (
	modeTable viewMode = iota
	modeSearch
	modeFilters
	modeSettings
	modeDetails
	modeBulkEdit
	modeBulkConfirm
	modeBulkFailed
	modeLink
)

// Location parameter keys, written only when off their defaults so a
// shared link stays minimal.
const (
	paramFilters  = "sessionFilters"
	paramPageSize = "pageSize"
	paramSortCol  = "sortColumn"
	paramSortDir  = "sortDirection"
)

type sessionsModel struct {
	app  *app.App
	keys sessionsKeyMap
	st   styles

	width  int
	height int

	location *filterstate.MemLocation
	filters  *filterstate.Store[models.SessionFilters]

	searchInput textinput.Model
	sort        models.SessionSort
	manualOrder []string
	columns     models.SessionColumnVisibility

	users     []models.UserSummary
	rows      []pipeline.Row
	cursor    int
	virt      *virtlist.Virtualizer
	selection *virtlist.Selection
	drag      virtlist.Drag

	workflow      *bulk.Workflow
	feedbackInput textinput.Model
	linkInput     textinput.Model
	spin          spinner.Model

	details  *detailsModel
	filterUI filterPanel
	settings settingsPanel

	mode    viewMode
	loading bool
	err     error
}

// Messages carrying async results back into the model.
type (
	pageFetchedMsg struct {
		fetched bool
		err     error
	}
	usersLoadedMsg struct {
		users []models.UserSummary
		err   error
	}
	detailsLoadedMsg struct {
		id      string
		details models.SessionDetails
		err     error
	}
	bulkSettledMsg struct {
		err error
	}
	feedbackSavedMsg struct {
		id  string
		err error
	}
	refetchedMsg struct{ err error }
	alertTickMsg struct{}
)

func newSessionsModel(a *app.App, link string) *sessionsModel {
	search := textinput.New()
	search.Placeholder = "Search sessions..."
	search.CharLimit = 120

	feedback := textinput.New()
	feedback.Placeholder = "Feedback for selected sessions..."
	feedback.CharLimit = 500

	linkInput := textinput.New()
	linkInput.Placeholder = "Paste a pulse:// link..."
	linkInput.CharLimit = 2000

	location := filterstate.NewMemLocation()
	if link != "" {
		if params, err := filterstate.ParseLink(link); err != nil {
			a.Log.Warn().Err(err).Str("link", link).Msg("ignoring malformed link")
		} else {
			location = filterstate.NewMemLocationFrom(params)
		}
	}
	filters := filterstate.New(filterstate.Options[models.SessionFilters]{
		Initial:      models.DefaultFilters(),
		Location:     location,
		ParamKey:     paramFilters,
		HistoryLimit: a.Config.HistoryLimit,
		Debounce:     a.Config.Debounce(),
		Logger:       a.Log,
	})

	m := &sessionsModel{
		app:           a,
		keys:          newSessionsKeyMap(),
		st:            newStyles(a.Prefs.Theme()),
		location:      location,
		filters:       filters,
		searchInput:   search,
		sort:          models.Unsorted(),
		columns:       a.Prefs.ColumnVisibility(),
		selection:     virtlist.NewSelection(),
		workflow:      bulk.NewWorkflow(a.Cache, a.Alerts, a.Log),
		feedbackInput: feedback,
		linkInput:     linkInput,
		virt:          virtlist.New(virtlist.Options{Estimate: func(int) int { return 1 }, Overscan: virtlist.DefaultOverscan}),
		spin:          spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading:       true,
	}
	if !a.Config.Shortcuts {
		m.keys.Undo.SetEnabled(false)
		m.keys.Redo.SetEnabled(false)
	}
	m.restoreScalarParams()
	m.settings = newSettingsPanel(a.Cache.PageSize(), m.columns)
	m.filterUI = newFilterPanel(filters.Value())
	return m
}

func (m *sessionsModel) close() {
	m.filters.Close()
}

func (m *sessionsModel) Init() tea.Cmd {
	return tea.Batch(m.fetchNextPage(), m.loadUsers(), m.spin.Tick)
}

// --- commands ---

func (m *sessionsModel) fetchNextPage() tea.Cmd {
	cache := m.app.Cache
	return func() tea.Msg {
		fetched, err := cache.FetchNextPage(context.Background())
		return pageFetchedMsg{fetched: fetched, err: err}
	}
}

func (m *sessionsModel) loadUsers() tea.Cmd {
	cache := m.app.Cache
	return func() tea.Msg {
		users, err := cache.Users(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m *sessionsModel) openDetails(id string) tea.Cmd {
	cache := m.app.Cache
	return func() tea.Msg {
		details, err := cache.FetchDetails(context.Background(), id)
		return detailsLoadedMsg{id: id, details: details, err: err}
	}
}

func (m *sessionsModel) submitBulk() tea.Cmd {
	wf := m.workflow
	return func() tea.Msg {
		err := wf.Submit(context.Background())
		return bulkSettledMsg{err: err}
	}
}

func (m *sessionsModel) refetchAll() tea.Cmd {
	cache := m.app.Cache
	return func() tea.Msg {
		return refetchedMsg{err: cache.RefetchAll(context.Background())}
	}
}

func alertTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return alertTickMsg{} })
}

// --- derivation ---

// recompute re-runs the pipeline over the cached sessions and the
// current filter state.
func (m *sessionsModel) recompute() {
	joined := pipeline.Join(m.app.Cache.Sessions(), m.users)
	filtered := pipeline.Filter(joined, m.searchInput.Value(), m.filters.Value())
	sorted := pipeline.Sort(filtered, m.sort)
	m.rows = pipeline.ApplyManualOrder(sorted, m.manualOrder)

	m.virt.SetCount(len(m.rows))
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// contextChanged resets manual ordering; a reorder belongs to the view
// it was made in.
func (m *sessionsModel) contextChanged() {
	m.manualOrder = nil
	m.recompute()
}

func (m *sessionsModel) visibleIDs() []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.ID
	}
	return ids
}

// syncScalarParams mirrors pageSize and sort into the location,
// dropping parameters sitting at their defaults.
func (m *sessionsModel) syncScalarParams() {
	pageSize := m.app.Cache.PageSize()
	if pageSize == core.DefaultPageSize {
		m.location.ReplaceParam(paramPageSize, "")
	} else {
		m.location.ReplaceParam(paramPageSize, strconv.Itoa(pageSize))
	}
	if m.sort.IsSorted() {
		m.location.ReplaceParam(paramSortCol, string(*m.sort.Column))
		m.location.ReplaceParam(paramSortDir, string(*m.sort.Direction))
	} else {
		m.location.ReplaceParam(paramSortCol, "")
		m.location.ReplaceParam(paramSortDir, "")
	}
}

// restoreScalarParams applies the location's pageSize and sort
// parameters, the inverse of syncScalarParams. Unknown columns and
// out-of-range page sizes degrade to the defaults.
func (m *sessionsModel) restoreScalarParams() {
	if raw := m.location.Param(paramPageSize); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			m.app.Cache.SetPageSize(core.ClampPageSize(n))
		}
	}
	m.sort = sortFromParams(m.location.Param(paramSortCol), m.location.Param(paramSortDir))
}

func sortFromParams(col, dir string) models.SessionSort {
	direction := models.SortDirection(dir)
	if direction != models.SortAsc && direction != models.SortDesc {
		return models.Unsorted()
	}
	for _, c := range models.BaseColumns {
		if c.Sortable && string(c.Key) == col {
			key := c.Key
			return models.SessionSort{Column: &key, Direction: &direction}
		}
	}
	return models.Unsorted()
}

// currentLink renders the view state as a shareable deep link.
func (m *sessionsModel) currentLink() string {
	return filterstate.FormatLink("sessions", m.location.Snapshot())
}

// applyLink treats a pasted link as an external location change: its
// parameters win over local state, and the filter change lands in
// history so undo can step back across it.
func (m *sessionsModel) applyLink(raw string) (tea.Model, tea.Cmd) {
	params, err := filterstate.ParseLink(raw)
	if err != nil {
		m.app.Alerts.Post(notify.SeverityWarning, "That link could not be read.")
		return m, alertTick()
	}
	for _, key := range []string{paramFilters, paramPageSize, paramSortCol, paramSortDir} {
		m.location.SetExternal(key, params[key])
	}
	if m.filters.SyncFromLocation() {
		m.filterUI = newFilterPanel(m.filters.Value())
	}
	previousPageSize := m.app.Cache.PageSize()
	m.restoreScalarParams()
	m.mode = modeTable
	m.contextChanged()
	if m.app.Cache.PageSize() != previousPageSize {
		m.settings = newSettingsPanel(m.app.Cache.PageSize(), m.columns)
		m.loading = true
		return m, m.fetchNextPage()
	}
	return m, nil
}

// maybeFetchMore triggers the next page load when the focus is in the
// sentinel zone and the cache has more to give.
func (m *sessionsModel) maybeFetchMore() tea.Cmd {
	nearEnd := m.cursor >= len(m.rows)-virtlist.DefaultOverscan
	if virtlist.ShouldFetchNext(nearEnd || m.virt.SentinelVisible(), m.app.Cache.HasNextPage(), m.app.Cache.IsFetching()) {
		return m.fetchNextPage()
	}
	return nil
}

// --- update ---

func (m *sessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.virt.SetViewport(m.tableHeight())
		if m.details != nil {
			m.details.setViewport(m.tableHeight())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pageFetchedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.app.Alerts.Post(notify.SeverityError, "Failed to load sessions. Press r to retry.")
			return m, alertTick()
		}
		m.recompute()
		return m, m.maybeFetchMore()

	case usersLoadedMsg:
		if msg.err != nil {
			m.app.Log.Warn().Err(msg.err).Msg("loading users failed")
			return m, nil
		}
		m.users = msg.users
		m.recompute()
		return m, nil

	case detailsLoadedMsg:
		if m.details == nil || m.details.id != msg.id {
			return m, nil
		}
		m.details.loaded(msg.details, msg.err)
		return m, nil

	case feedbackSavedMsg:
		if msg.err != nil {
			m.app.Alerts.Post(notify.SeverityError, "Saving feedback failed.")
		} else {
			m.app.Alerts.Post(notify.SeveritySuccess, "Feedback saved.")
		}
		if m.details != nil && m.details.id == msg.id {
			return m, tea.Batch(m.openDetails(msg.id), alertTick())
		}
		return m, alertTick()

	case bulkSettledMsg:
		switch m.workflow.Outcome() {
		case bulk.OutcomeSuccess:
			m.selection.Clear()
			m.feedbackInput.SetValue("")
			m.workflow.Acknowledge()
			m.mode = modeTable
			return m, tea.Batch(m.refetchAll(), alertTick())
		case bulk.OutcomePartial:
			m.selection.Clear()
			m.feedbackInput.SetValue("")
			m.mode = modeBulkFailed
			return m, tea.Batch(m.refetchAll(), alertTick())
		default:
			// Transport error: keep draft and selection for retry.
			m.workflow.Acknowledge()
			m.mode = modeBulkEdit
			return m, alertTick()
		}

	case refetchedMsg:
		if msg.err != nil {
			m.app.Log.Warn().Err(msg.err).Msg("background refetch failed")
		}
		m.recompute()
		return m, nil

	case alertTickMsg:
		if len(m.app.Alerts.Active()) > 0 {
			return m, alertTick()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *sessionsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeFilters:
		return m.updateFilterPanel(msg)
	case modeSettings:
		return m.updateSettingsPanel(msg)
	case modeDetails:
		return m.updateDetails(msg)
	case modeBulkEdit:
		return m.updateBulkEdit(msg)
	case modeBulkConfirm:
		return m.updateBulkConfirm(msg)
	case modeBulkFailed:
		return m.updateBulkFailed(msg)
	case modeLink:
		return m.updateLinkPanel(msg)
	}
	return m.updateTable(msg)
}

func (m *sessionsModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.virt.ScrollToIndexCenter(m.cursor)
		}
		return m, m.prefetchFocused()

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.virt.ScrollToIndexCenter(m.cursor)
		}
		return m, tea.Batch(m.prefetchFocused(), m.maybeFetchMore())

	case key.Matches(msg, keys.PageUp):
		m.cursor -= m.tableHeight()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.virt.ScrollToIndexCenter(m.cursor)
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.cursor += m.tableHeight()
		if m.cursor > len(m.rows)-1 {
			m.cursor = len(m.rows) - 1
		}
		m.virt.ScrollToIndexCenter(m.cursor)
		return m, tea.Batch(m.prefetchFocused(), m.maybeFetchMore())

	case key.Matches(msg, keys.Select):
		if m.cursor < len(m.rows) {
			if !m.selection.Toggle(m.rows[m.cursor].ID) {
				m.app.Alerts.Post(notify.SeverityWarning, "Selection is limited to 100 sessions.")
				return m, alertTick()
			}
			m.workflow.SetSelection(m.selection.IDs(m.visibleIDs()))
		}
		return m, nil

	case key.Matches(msg, keys.SelectAll):
		if m.selection.StateOver(m.visibleIDs()) == virtlist.AllEvery {
			m.selection.Clear()
		} else {
			m.selection.SelectAll(m.visibleIDs())
		}
		m.workflow.SetSelection(m.selection.IDs(m.visibleIDs()))
		return m, nil

	case key.Matches(msg, keys.Open):
		if m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			m.details = newDetailsModel(row)
			m.details.setViewport(m.tableHeight())
			m.mode = modeDetails
			return m, m.openDetails(row.ID)
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Filters):
		m.filterUI = newFilterPanel(m.filters.Value())
		m.mode = modeFilters
		return m, nil

	case key.Matches(msg, keys.Settings):
		m.settings = newSettingsPanel(m.app.Cache.PageSize(), m.columns)
		m.mode = modeSettings
		return m, nil

	case key.Matches(msg, keys.ShareLink):
		m.syncScalarParams()
		m.linkInput.SetValue("")
		m.linkInput.Focus()
		m.mode = modeLink
		return m, textinput.Blink

	case key.Matches(msg, keys.SortNext):
		m.cycleSort()
		return m, nil

	case key.Matches(msg, keys.Undo):
		if v, ok := m.filters.Undo(); ok {
			m.filterUI = newFilterPanel(v)
			m.contextChanged()
		}
		return m, nil

	case key.Matches(msg, keys.Redo):
		if v, ok := m.filters.Redo(); ok {
			m.filterUI = newFilterPanel(v)
			m.contextChanged()
		}
		return m, nil

	case key.Matches(msg, keys.MoveRowUp):
		m.moveFocusedRow(-1)
		return m, nil

	case key.Matches(msg, keys.MoveRowDown):
		m.moveFocusedRow(1)
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.app.Cache.Refetch()
		m.loading = true
		m.recompute()
		return m, m.fetchNextPage()

	case msg.String() == "e":
		if m.selection.Len() > 0 {
			m.mode = modeBulkEdit
			m.feedbackInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}
	return m, nil
}

// cycleSort advances the active sort column through asc, desc,
// unsorted over the sortable columns.
func (m *sessionsModel) cycleSort() {
	column := models.ColumnTitle
	if m.sort.Column != nil {
		column = *m.sort.Column
	}
	next := pipeline.NextSort(m.sort, column)
	if !next.IsSorted() && m.sort.IsSorted() {
		// Third press on a column clears it; a following press moves
		// to the next sortable column ascending.
		if col, ok := nextSortableColumn(*m.sort.Column); ok {
			next = pipeline.NextSort(models.Unsorted(), col)
		}
	}
	m.sort = next
	m.syncScalarParams()
	m.contextChanged()
}

func nextSortableColumn(after models.SessionColumnKey) (models.SessionColumnKey, bool) {
	sortable := make([]models.SessionColumnKey, 0, len(models.BaseColumns))
	for _, c := range models.BaseColumns {
		if c.Sortable {
			sortable = append(sortable, c.Key)
		}
	}
	for i, key := range sortable {
		if key == after {
			return sortable[(i+1)%len(sortable)], true
		}
	}
	if len(sortable) == 0 {
		return "", false
	}
	return sortable[0], true
}

// moveFocusedRow drags the focused row one slot and remembers the new
// manual order.
func (m *sessionsModel) moveFocusedRow(delta int) {
	target := m.cursor + delta
	ids := m.visibleIDs()
	m.drag.Start(m.cursor)
	source, ok := m.drag.Drop(target)
	if !ok || target < 0 || target >= len(ids) {
		return
	}
	m.manualOrder = virtlist.Move(ids, source, target)
	m.cursor = target
	m.recompute()
}

func (m *sessionsModel) prefetchFocused() tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	id := m.rows[m.cursor].ID
	cache := m.app.Cache
	return func() tea.Msg {
		cache.PrefetchDetails(context.Background(), id)
		return nil
	}
}

func (m *sessionsModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		m.mode = modeTable
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.mode = modeTable
		m.contextChanged()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.contextChanged()
	return m, cmd
}

func (m *sessionsModel) updateBulkEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.feedbackInput.Blur()
		m.workflow.Cancel()
		m.selection.Clear()
		m.feedbackInput.SetValue("")
		m.mode = modeTable
		return m, nil
	case "enter":
		m.workflow.SetFeedback(m.feedbackInput.Value())
		if m.workflow.Confirm() {
			m.feedbackInput.Blur()
			m.mode = modeBulkConfirm
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.feedbackInput, cmd = m.feedbackInput.Update(msg)
	m.workflow.SetFeedback(m.feedbackInput.Value())
	return m, cmd
}

func (m *sessionsModel) updateBulkConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.workflow.Phase() == bulk.PhaseSubmitting {
			return m, nil
		}
		return m, m.submitBulk()
	case "n", "esc":
		m.workflow.Cancel()
		m.selection.Clear()
		m.feedbackInput.SetValue("")
		m.mode = modeTable
		return m, nil
	}
	return m, nil
}

func (m *sessionsModel) updateLinkPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.linkInput.Blur()
		m.mode = modeTable
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.linkInput.Value())
		m.linkInput.Blur()
		if raw == "" {
			m.mode = modeTable
			return m, nil
		}
		return m.applyLink(raw)
	}
	var cmd tea.Cmd
	m.linkInput, cmd = m.linkInput.Update(msg)
	return m, cmd
}

func (m *sessionsModel) updateBulkFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.workflow.Acknowledge()
		m.mode = modeTable
	}
	return m, nil
}

