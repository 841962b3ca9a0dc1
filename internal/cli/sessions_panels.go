package cli

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perfpulse/pulse/internal/core"
	"github.com/perfpulse/pulse/internal/notify"
	"github.com/perfpulse/pulse/internal/prefs"
	"github.com/perfpulse/pulse/pkg/models"
)

// filterPanel is the filter editing overlay: score bounds, date range
// and team toggles.
type filterPanel struct {
	cursor    int
	dateStart textinput.Model
	dateEnd   textinput.Model
}

// Filter panel rows: score min, score max, date start, date end, then
// one row per known team.
const (
	filterRowScoreMin = iota
	filterRowScoreMax
	filterRowDateStart
	filterRowDateEnd
	filterRowTeams
)

func newFilterPanel(f models.SessionFilters) filterPanel {
	start := textinput.New()
	start.Placeholder = "YYYY-MM-DD"
	start.CharLimit = 10
	start.SetValue(f.DateRange.Start)

	end := textinput.New()
	end.Placeholder = "YYYY-MM-DD"
	end.CharLimit = 10
	end.SetValue(f.DateRange.End)

	return filterPanel{dateStart: start, dateEnd: end}
}

func (p filterPanel) rowCount() int {
	return filterRowTeams + len(models.KnownTeams)
}

func (m *sessionsModel) updateFilterPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.filterUI

	// Date rows hand most keys to their text input.
	if p.cursor == filterRowDateStart || p.cursor == filterRowDateEnd {
		input := &p.dateStart
		setter := models.SessionFilters.WithDateStart
		if p.cursor == filterRowDateEnd {
			input = &p.dateEnd
			setter = models.SessionFilters.WithDateEnd
		}
		switch msg.String() {
		case "esc":
			return m.closeFilterPanel()
		case "up", "down", "tab", "enter":
			// Commit the field on navigation.
			value := input.Value()
			m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
				return setter(prev, value)
			})
			m.contextChanged()
			return m.moveFilterCursor(msg.String())
		default:
			var cmd tea.Cmd
			*input, cmd = input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "esc":
		return m.closeFilterPanel()
	case "up", "down", "tab", "enter":
		return m.moveFilterCursor(msg.String())
	case "left", "right", "h", "l":
		delta := 0.5
		if msg.String() == "left" || msg.String() == "h" {
			delta = -0.5
		}
		switch p.cursor {
		case filterRowScoreMin:
			m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
				return prev.WithScoreMin(prev.ScoreRange[0] + delta)
			})
		case filterRowScoreMax:
			m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
				return prev.WithScoreMax(prev.ScoreRange[1] + delta)
			})
		}
		m.contextChanged()
		return m, nil
	case " ":
		if p.cursor >= filterRowTeams {
			team := models.KnownTeams[p.cursor-filterRowTeams]
			m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
				return prev.WithTeamToggled(team)
			})
			m.contextChanged()
		}
		return m, nil
	case "x":
		// Reset all filters.
		m.filters.SetValue(models.DefaultFilters())
		m.filterUI = newFilterPanel(m.filters.Value())
		m.contextChanged()
		return m, nil
	}
	return m, nil
}

func (m *sessionsModel) moveFilterCursor(key string) (tea.Model, tea.Cmd) {
	p := &m.filterUI
	if key == "up" {
		p.cursor--
	} else {
		p.cursor++
	}
	if p.cursor < 0 {
		p.cursor = p.rowCount() - 1
	}
	if p.cursor >= p.rowCount() {
		p.cursor = 0
	}
	p.dateStart.Blur()
	p.dateEnd.Blur()
	var cmd tea.Cmd
	if p.cursor == filterRowDateStart {
		p.dateStart.Focus()
		cmd = textinput.Blink
	}
	if p.cursor == filterRowDateEnd {
		p.dateEnd.Focus()
		cmd = textinput.Blink
	}
	return m, cmd
}

func (m *sessionsModel) closeFilterPanel() (tea.Model, tea.Cmd) {
	// Commit any date edits still sitting in the inputs.
	start, end := m.filterUI.dateStart.Value(), m.filterUI.dateEnd.Value()
	m.filters.Set(func(prev models.SessionFilters) models.SessionFilters {
		return prev.WithDateStart(start).WithDateEnd(end)
	})
	m.mode = modeTable
	m.contextChanged()
	return m, nil
}

// settingsPanel edits the page size and column visibility.
type settingsPanel struct {
	cursor   int
	pageSize int
}

func newSettingsPanel(pageSize int, _ models.SessionColumnVisibility) settingsPanel {
	return settingsPanel{pageSize: pageSize}
}

// Settings rows: page size first, then one row per column.
func (s settingsPanel) rowCount() int {
	return 1 + len(models.BaseColumns)
}

func (m *sessionsModel) updateSettingsPanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.settings
	switch msg.String() {
	case "esc":
		return m.applySettings()
	case "up":
		s.cursor--
		if s.cursor < 0 {
			s.cursor = s.rowCount() - 1
		}
		return m, nil
	case "down", "tab":
		s.cursor = (s.cursor + 1) % s.rowCount()
		return m, nil
	case "left", "h":
		if s.cursor == 0 {
			s.pageSize = core.ClampPageSize(s.pageSize - 10)
		}
		return m, nil
	case "right", "l":
		if s.cursor == 0 {
			s.pageSize = core.ClampPageSize(s.pageSize + 10)
		}
		return m, nil
	case "t":
		next := prefs.ThemeDark
		if m.app.Prefs.Theme() == prefs.ThemeDark {
			next = prefs.ThemeLight
		}
		if err := m.app.Prefs.SetTheme(next); err != nil {
			m.app.Log.Warn().Err(err).Msg("persisting theme failed")
			return m, nil
		}
		m.st = newStyles(next)
		return m, nil
	case " ", "enter":
		if s.cursor == 0 {
			return m, nil
		}
		col := models.BaseColumns[s.cursor-1].Key
		vis, err := m.app.Prefs.ToggleColumn(col)
		if err != nil {
			if errors.Is(err, prefs.ErrLastVisibleColumn) {
				m.app.Alerts.Post(notify.SeverityWarning, "At least one column must stay visible.")
				return m, alertTick()
			}
			m.app.Log.Warn().Err(err).Msg("persisting column visibility failed")
			return m, nil
		}
		m.columns = vis
		return m, nil
	}
	return m, nil
}

// applySettings leaves the settings panel, restarting pagination when
// the page size changed.
func (m *sessionsModel) applySettings() (tea.Model, tea.Cmd) {
	m.mode = modeTable
	if m.settings.pageSize != m.app.Cache.PageSize() {
		m.app.Cache.SetPageSize(m.settings.pageSize)
		m.syncScalarParams()
		m.loading = true
		m.recompute()
		return m, m.fetchNextPage()
	}
	return m, nil
}
