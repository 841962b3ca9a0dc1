package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perfpulse/pulse/internal/pipeline"
	"github.com/perfpulse/pulse/internal/transcript"
	"github.com/perfpulse/pulse/internal/virtlist"
	"github.com/perfpulse/pulse/pkg/models"
)

// detailsModel is the session details modal: header fields, editable
// feedback and the searchable transcript.
type detailsModel struct {
	id      string
	row     pipeline.Row
	details models.SessionDetails
	loading bool
	err     error

	searchInput   textinput.Model
	searchFocused bool
	matches       []transcript.Match
	matchCursor   *transcript.Cursor
	focused       int // focused entry when no search; -1 for none

	feedbackInput  textinput.Model
	editingFeedback bool

	virt     *virtlist.Virtualizer
	viewport int
}

// setViewport propagates the terminal height into the transcript
// virtualizer.
func (d *detailsModel) setViewport(h int) {
	if h < 1 {
		h = 1
	}
	d.viewport = h
	d.virt.SetViewport(h)
}

func newDetailsModel(row pipeline.Row) *detailsModel {
	search := textinput.New()
	search.Placeholder = "Search transcript..."
	search.CharLimit = 120

	feedback := textinput.New()
	feedback.Placeholder = "Add feedback..."
	feedback.CharLimit = 500

	return &detailsModel{
		id:            row.ID,
		row:           row,
		loading:       true,
		focused:       -1,
		searchInput:   search,
		feedbackInput: feedback,
		matchCursor:   transcript.NewCursor(nil),
		virt:          virtlist.New(virtlist.Options{}),
		viewport:      20,
	}
}

// loaded installs the fetched details.
func (d *detailsModel) loaded(details models.SessionDetails, err error) {
	d.loading = false
	d.err = err
	if err != nil {
		return
	}
	d.details = details
	d.feedbackInput.SetValue(details.Feedback)
	entries := details.Transcript
	d.virt = virtlist.New(virtlist.Options{
		Count:    len(entries),
		Viewport: d.viewport,
		Estimate: func(i int) int {
			if i < 0 || i >= len(entries) {
				return 60
			}
			return transcript.EstimateHeight(entries[i])
		},
	})
	d.refreshSearch()
}

// refreshSearch recomputes matches for the current term, resetting the
// cursor to the first match.
func (d *detailsModel) refreshSearch() {
	d.matches = transcript.Search(d.details.Transcript, d.searchInput.Value())
	d.matchCursor = transcript.NewCursor(d.matches)
	if len(d.matches) > 0 {
		d.focused = -1
		d.scrollToCurrentMatch()
	}
}

func (d *detailsModel) scrollToCurrentMatch() {
	if match, ok := d.matchCursor.Current(); ok {
		d.virt.ScrollToIndexCenter(match.Entry)
	}
}

func (d *detailsModel) searchActive() bool {
	return len(d.matches) > 0
}

// step moves through matches when a search is active, otherwise moves
// the entry focus, per the transcript keyboard rules.
func (d *detailsModel) step(down bool) {
	if d.searchActive() {
		if down {
			d.matchCursor.Next()
		} else {
			d.matchCursor.Prev()
		}
		d.scrollToCurrentMatch()
		return
	}

	n := len(d.details.Transcript)
	if n == 0 {
		return
	}
	switch {
	case d.focused < 0:
		if down {
			d.focused = 0
		} else {
			d.focused = n - 1
		}
	case down && d.focused < n-1:
		d.focused++
	case !down && d.focused > 0:
		d.focused--
	}
	d.virt.ScrollToIndexCenter(d.focused)
}

func (m *sessionsModel) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.details

	if d.editingFeedback {
		switch msg.String() {
		case "esc":
			d.editingFeedback = false
			d.feedbackInput.Blur()
			d.feedbackInput.SetValue(d.details.Feedback)
			return m, nil
		case "enter":
			d.editingFeedback = false
			d.feedbackInput.Blur()
			draft := strings.TrimSpace(d.feedbackInput.Value())
			d.feedbackInput.SetValue(draft)
			if draft == d.details.Feedback {
				return m, nil
			}
			return m, m.saveFeedback(d.id, draft)
		}
		var cmd tea.Cmd
		d.feedbackInput, cmd = d.feedbackInput.Update(msg)
		return m, cmd
	}

	if d.searchFocused {
		switch msg.String() {
		case "esc":
			d.searchFocused = false
			d.searchInput.Blur()
			d.searchInput.SetValue("")
			d.refreshSearch()
			return m, nil
		case "enter", "up", "down":
			d.searchFocused = false
			d.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		d.searchInput, cmd = d.searchInput.Update(msg)
		d.refreshSearch()
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.details = nil
		m.mode = modeTable
		return m, nil
	case "/":
		d.searchFocused = true
		d.searchInput.Focus()
		return m, textinput.Blink
	case "e":
		d.editingFeedback = true
		d.feedbackInput.Focus()
		return m, textinput.Blink
	case "up", "k":
		d.step(false)
		return m, nil
	case "down", "j":
		d.step(true)
		return m, nil
	case "r":
		if d.err != nil {
			d.loading = true
			d.err = nil
			return m, m.openDetails(d.id)
		}
		return m, nil
	}
	return m, nil
}

// saveFeedback runs the optimistic single-session feedback edit.
func (m *sessionsModel) saveFeedback(id, feedback string) tea.Cmd {
	cache := m.app.Cache
	return func() tea.Msg {
		err := cache.UpdateFeedback(context.Background(), id, feedback)
		return feedbackSavedMsg{id: id, err: err}
	}
}
