package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/perfpulse/pulse/internal/notify"
	"github.com/perfpulse/pulse/internal/pipeline"
	"github.com/perfpulse/pulse/internal/prefs"
	"github.com/perfpulse/pulse/internal/transcript"
	"github.com/perfpulse/pulse/pkg/models"
)

// styles is the lipgloss palette of the sessions TUI, picked by the
// persisted theme preference.
type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	cursorRow    lipgloss.Style
	selected     lipgloss.Style
	panel        lipgloss.Style
	scoreGood    lipgloss.Style
	scoreMid     lipgloss.Style
	scoreBad     lipgloss.Style
	match        lipgloss.Style
	currentMatch lipgloss.Style
	agent        lipgloss.Style
	customer     lipgloss.Style
	alertError   lipgloss.Style
	alertWarning lipgloss.Style
	alertSuccess lipgloss.Style
	alertInfo    lipgloss.Style
	help         lipgloss.Style
	dim          lipgloss.Style
}

func newStyles(theme string) styles {
	s := styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")),
		cursorRow: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("237")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		scoreGood: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		scoreMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		scoreBad:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		match: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("227")),
		currentMatch: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("220")).
			Bold(true),
		agent:        lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		customer:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true),
		alertError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		alertWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		alertSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		alertInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		help:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
	if theme == prefs.ThemeLight {
		s.cursorRow = s.cursorRow.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("254"))
		s.scoreGood = s.scoreGood.Foreground(lipgloss.Color("28"))
		s.scoreMid = s.scoreMid.Foreground(lipgloss.Color("130"))
		s.scoreBad = s.scoreBad.Foreground(lipgloss.Color("160"))
		s.agent = s.agent.Foreground(lipgloss.Color("26"))
		s.customer = s.customer.Foreground(lipgloss.Color("91"))
		s.alertError = s.alertError.Foreground(lipgloss.Color("160"))
		s.alertWarning = s.alertWarning.Foreground(lipgloss.Color("130"))
		s.alertSuccess = s.alertSuccess.Foreground(lipgloss.Color("28"))
		s.alertInfo = s.alertInfo.Foreground(lipgloss.Color("26"))
		s.help = s.help.Foreground(lipgloss.Color("243"))
		s.dim = s.dim.Foreground(lipgloss.Color("240"))
	}
	return s
}

// tableHeight is the row budget for the virtualized table, after the
// title, header, status and help chrome.
func (m *sessionsModel) tableHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m *sessionsModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case modeFilters:
		return m.viewFilterPanel()
	case modeSettings:
		return m.viewSettingsPanel()
	case modeDetails:
		return m.viewDetails()
	case modeBulkConfirm:
		return m.viewBulkConfirm()
	case modeBulkFailed:
		return m.viewBulkFailed()
	case modeLink:
		return m.viewLink()
	}
	return m.viewTable()
}

func (m *sessionsModel) viewTable() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render(" Sessions "))
	b.WriteString("  ")
	if n := pipeline.ActiveFilterCount(m.filters.Value()); n > 0 {
		b.WriteString(m.st.dim.Render(fmt.Sprintf("%d filter(s) active  ", n)))
	}
	if m.selection.Len() > 0 {
		b.WriteString(m.st.dim.Render(fmt.Sprintf("%d selected  ", m.selection.Len())))
	}
	b.WriteString("\n")

	if m.mode == modeSearch || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString("\n  " + m.spin.View() + "Loading sessions...\n")
	case m.err != nil && len(m.rows) == 0:
		b.WriteString(fmt.Sprintf("\n  Error: %v\n  Press r to retry.\n", m.err))
	case len(m.rows) == 0:
		b.WriteString("\n  No sessions match the current filters.\n")
	default:
		for _, item := range m.virt.Window() {
			b.WriteString(m.renderRow(item.Index))
			b.WriteString("\n")
		}
		if m.app.Cache.IsFetching() {
			b.WriteString("  " + m.spin.View() + m.st.dim.Render("loading more...") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderAlerts())
	if m.selection.Len() > 0 && m.mode != modeBulkEdit {
		b.WriteString(m.st.dim.Render(fmt.Sprintf("e: edit feedback for %d selected\n", m.selection.Len())))
	}
	if m.mode == modeBulkEdit {
		b.WriteString("Feedback: " + m.feedbackInput.View() + "\n")
		b.WriteString(m.st.help.Render("enter: review & submit | esc: cancel\n"))
	}
	b.WriteString(m.st.help.Render("space: select | a: all | enter: open | /: search | f: filters | s: sort | o: settings | c: share | ctrl+z: undo | q: quit"))
	return b.String()
}

func (m *sessionsModel) visibleColumns() []models.SessionColumn {
	cols := make([]models.SessionColumn, 0, len(models.BaseColumns))
	for _, c := range models.BaseColumns {
		if m.columns[c.Key] {
			cols = append(cols, c)
		}
	}
	return cols
}

func (m *sessionsModel) renderHeader() string {
	var cells []string
	cells = append(cells, "   ")
	for _, c := range m.visibleColumns() {
		label := c.Label
		if m.sort.IsSorted() && *m.sort.Column == c.Key {
			if *m.sort.Direction == models.SortAsc {
				label += " ↑"
			} else {
				label += " ↓"
			}
		}
		cells = append(cells, pad(label, c.MinWidth))
	}
	return m.st.header.Render(strings.Join(cells, " "))
}

func (m *sessionsModel) renderRow(i int) string {
	row := m.rows[i]

	mark := "[ ]"
	if m.selection.Has(row.ID) {
		mark = m.st.selected.Render("[x]")
	}

	var cells []string
	cells = append(cells, mark)
	for _, c := range m.visibleColumns() {
		cells = append(cells, pad(m.cellValue(row, c.Key), c.MinWidth))
	}
	line := strings.Join(cells, " ")
	if i == m.cursor {
		return m.st.cursorRow.Render("> " + line)
	}
	return "  " + line
}

func (m *sessionsModel) cellValue(row pipeline.Row, key models.SessionColumnKey) string {
	switch key {
	case models.ColumnTitle:
		return row.Title
	case models.ColumnUser:
		if !row.User.Resolved {
			return m.st.dim.Render(row.User.Name)
		}
		return row.User.Name
	case models.ColumnScore:
		return m.st.score(row.Score)
	case models.ColumnConfidence:
		return m.st.score(row.Metrics.Confidence)
	case models.ColumnClarity:
		return m.st.score(row.Metrics.Clarity)
	case models.ColumnListening:
		return m.st.score(row.Metrics.Listening)
	case models.ColumnDuration:
		return formatDuration(row.Duration)
	case models.ColumnCreatedAt:
		return formatDate(row.Session)
	}
	return ""
}

func (m *sessionsModel) renderAlerts() string {
	var b strings.Builder
	for _, a := range m.app.Alerts.Active() {
		style := m.st.alertInfo
		switch a.Severity {
		case notify.SeverityError:
			style = m.st.alertError
		case notify.SeverityWarning:
			style = m.st.alertWarning
		case notify.SeveritySuccess:
			style = m.st.alertSuccess
		}
		line := a.Message
		if a.Action != "" {
			line += "  (press enter to view)"
		}
		b.WriteString(style.Render("! "+line) + "\n")
	}
	return b.String()
}

func (m *sessionsModel) viewFilterPanel() string {
	f := m.filters.Value()
	p := m.filterUI
	var rows []string

	mark := func(i int) string {
		if p.cursor == i {
			return "> "
		}
		return "  "
	}

	rows = append(rows, m.st.header.Render("Filters"))
	rows = append(rows, fmt.Sprintf("%sScore min  %.1f  (←/→ adjust)", mark(filterRowScoreMin), f.ScoreRange[0]))
	rows = append(rows, fmt.Sprintf("%sScore max  %.1f", mark(filterRowScoreMax), f.ScoreRange[1]))
	rows = append(rows, fmt.Sprintf("%sFrom  %s", mark(filterRowDateStart), p.dateStart.View()))
	rows = append(rows, fmt.Sprintf("%sTo    %s", mark(filterRowDateEnd), p.dateEnd.View()))
	for i, team := range models.KnownTeams {
		checked := " "
		for _, t := range f.Teams {
			if t == team {
				checked = "x"
			}
		}
		rows = append(rows, fmt.Sprintf("%s[%s] %s", mark(filterRowTeams+i), checked, team))
	}
	rows = append(rows, "")
	rows = append(rows, m.st.help.Render("space: toggle team | x: reset | esc: done"))
	return m.st.panel.Render(strings.Join(rows, "\n"))
}

func (m *sessionsModel) viewSettingsPanel() string {
	s := m.settings
	var rows []string

	rows = append(rows, m.st.header.Render("Settings"))
	mark := "  "
	if s.cursor == 0 {
		mark = "> "
	}
	rows = append(rows, fmt.Sprintf("%sPage size  %d  (←/→ adjust, %d-%d)", mark, s.pageSize, minPageSizeLabel, maxPageSizeLabel))
	rows = append(rows, "")
	rows = append(rows, m.st.header.Render("Columns"))
	for i, c := range models.BaseColumns {
		mark = "  "
		if s.cursor == i+1 {
			mark = "> "
		}
		checked := " "
		if m.columns[c.Key] {
			checked = "x"
		}
		rows = append(rows, fmt.Sprintf("%s[%s] %s", mark, checked, c.Label))
	}
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  Theme  %s", m.app.Prefs.Theme()))
	rows = append(rows, "")
	rows = append(rows, m.st.help.Render("space: toggle column | t: theme | esc: apply & close"))
	return m.st.panel.Render(strings.Join(rows, "\n"))
}

func (m *sessionsModel) viewDetails() string {
	d := m.details
	var b strings.Builder

	b.WriteString(m.st.title.Render(" "+d.row.Title+" ") + "\n\n")
	b.WriteString(fmt.Sprintf("User: %s (%s)   Score: %s   Duration: %s   Date: %s\n\n",
		d.row.User.Name, d.row.User.Team,
		m.st.score(d.row.Score),
		formatDuration(d.row.Duration),
		formatDate(d.row.Session)))

	switch {
	case d.loading:
		b.WriteString(m.spin.View() + "Loading transcript...\n")
	case d.err != nil:
		b.WriteString("We couldn't load the transcript. Press r to retry.\n")
	default:
		b.WriteString("Feedback: ")
		if d.editingFeedback {
			b.WriteString(d.feedbackInput.View() + "\n")
		} else if d.details.Feedback != "" {
			b.WriteString(d.details.Feedback + "\n")
		} else {
			b.WriteString(m.st.dim.Render("none (press e to add)") + "\n")
		}
		b.WriteString("\n")

		if d.searchFocused || d.searchInput.Value() != "" {
			b.WriteString(d.searchInput.View())
			if cur, total := d.matchCursor.Position(); total > 0 {
				b.WriteString(m.st.dim.Render(fmt.Sprintf("  %d of %d matches", cur, total)))
			} else if d.searchInput.Value() != "" {
				b.WriteString(m.st.dim.Render("  no matches"))
			}
			b.WriteString("\n")
		}

		if len(d.details.Transcript) == 0 {
			b.WriteString(m.st.dim.Render("No transcript available") + "\n")
		} else {
			b.WriteString(m.renderTranscript())
		}
	}

	b.WriteString("\n" + m.st.help.Render("/: search | ↑/↓: navigate | e: feedback | esc: close"))
	return b.String()
}

func (m *sessionsModel) renderTranscript() string {
	d := m.details
	current, hasCurrent := d.matchCursor.Current()

	var b strings.Builder
	for _, item := range d.virt.Window() {
		entry := d.details.Transcript[item.Index]

		speaker := m.st.customer
		if entry.Speaker == models.SpeakerAgent {
			speaker = m.st.agent
		}
		prefix := "  "
		if (hasCurrent && current.Entry == item.Index) || (!d.searchActive() && d.focused == item.Index) {
			prefix = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s %s  ",
			prefix,
			m.st.dim.Render(transcript.FormatTime(entry.SecondsFromStart)),
			speaker.Render(string(entry.Speaker))))

		currentOffset := -1
		if hasCurrent && current.Entry == item.Index {
			currentOffset = current.Offset
		}
		for _, seg := range transcript.Highlight(entry.Text, d.searchInput.Value(), currentOffset) {
			switch {
			case seg.Current:
				b.WriteString(m.st.currentMatch.Render(seg.Text))
			case seg.Match:
				b.WriteString(m.st.match.Render(seg.Text))
			default:
				b.WriteString(seg.Text)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *sessionsModel) viewLink() string {
	var rows []string
	rows = append(rows, m.st.header.Render("Share this view"))
	rows = append(rows, "")
	rows = append(rows, "  "+m.currentLink())
	rows = append(rows, "")
	rows = append(rows, m.st.dim.Render("Or paste a link to jump to its view:"))
	rows = append(rows, "  "+m.linkInput.View())
	rows = append(rows, "")
	rows = append(rows, m.st.help.Render("enter: apply pasted link | esc: close"))
	return m.st.panel.Render(strings.Join(rows, "\n"))
}

func (m *sessionsModel) viewBulkConfirm() string {
	ids := m.workflow.SelectedIDs()
	body := fmt.Sprintf("Apply this feedback to %d session(s)?\n\n  %q\n\nThis cannot be undone.\n\n", len(ids), m.workflow.Feedback())
	return m.st.panel.Render(m.st.header.Render("Confirm bulk update") + "\n\n" + body + m.st.help.Render("y: submit | n: cancel"))
}

func (m *sessionsModel) viewBulkFailed() string {
	failed := m.workflow.FailedSessions(m.app.Cache.Sessions())
	var rows []string
	rows = append(rows, m.st.header.Render("Sessions that could not be updated"))
	rows = append(rows, "")
	if len(failed) == 0 {
		rows = append(rows, m.st.dim.Render("The failed sessions are no longer loaded."))
	}
	for _, s := range failed {
		rows = append(rows, "  - "+s.Title)
	}
	rows = append(rows, "")
	rows = append(rows, m.st.help.Render("esc: close"))
	return m.st.panel.Render(strings.Join(rows, "\n"))
}

// --- formatting helpers ---

const (
	minPageSizeLabel = 10
	maxPageSizeLabel = 100
)

// score colors a 0-10 score: green at 7.5 and above, red below 4,
// yellow between.
func (st styles) score(v float64) string {
	text := fmt.Sprintf("%.1f", v)
	switch {
	case v >= 7.5:
		return st.scoreGood.Render(text)
	case v < 4:
		return st.scoreBad.Render(text)
	default:
		return st.scoreMid.Render(text)
	}
}

// formatDuration renders seconds as "1h 05m" past the hour and
// "12m 30s" under it. Non-positive values render as an em dash
// placeholder.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "—"
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
	}
	return fmt.Sprintf("%dm %02ds", seconds/60, seconds%60)
}

// formatDate renders the session creation date, falling back to a
// placeholder for unparseable values.
func formatDate(s models.Session) string {
	t, ok := s.CreatedAtTime()
	if !ok {
		return "—"
	}
	return t.Format("Jan 2, 2006 15:04")
}

// pad right-pads to width using the rendered cell width, so styled
// cells line up.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
