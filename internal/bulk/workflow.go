// Package bulk implements the bulk feedback workflow: a state machine
// from selecting rows through double confirmation to a single bulk
// mutation, with outcome-specific clearing rules.
package bulk

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/internal/notify"
	"github.com/perfpulse/pulse/pkg/models"
)

// Phase is the workflow state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseConfirming
	PhaseSubmitting
	PhaseSettled
)

// Outcome classifies a settled submission.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomePartial
	OutcomeError
)

// Updater performs the bulk mutation. Satisfied by the API client and
// by the session cache wrapper that also invalidates touched details.
type Updater interface {
	BulkUpdate(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error)
}

// Workflow drives one bulk feedback edit. All methods are safe for
// concurrent use; Submit runs the mutation on the caller's goroutine
// while the event loop keeps reading the draft.
type Workflow struct {
	mu       sync.Mutex
	updater  Updater
	notifier notify.Notifier
	log      zerolog.Logger

	phase    Phase
	outcome  Outcome
	ids      []string
	feedback string
	failed   []string
	updated  int
}

func NewWorkflow(updater Updater, notifier notify.Notifier, log zerolog.Logger) *Workflow {
	return &Workflow{updater: updater, notifier: notifier, log: log}
}

// Phase returns the current workflow state.
func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Outcome returns how the last submission settled.
func (w *Workflow) Outcome() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome
}

// Feedback returns the draft feedback text.
func (w *Workflow) Feedback() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.feedback
}

// SelectedIDs returns the id set the workflow will submit.
func (w *Workflow) SelectedIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.ids...)
}

// SetSelection replaces the selected id set. A non-empty selection
// opens the overlay (selecting phase); emptying it closes the
// workflow back to idle. Changing selection mid-confirmation drops
// back to selecting.
func (w *Workflow) SetSelection(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitting {
		return
	}
	w.ids = append([]string(nil), ids...)
	if len(w.ids) == 0 {
		w.phase = PhaseIdle
		return
	}
	w.phase = PhaseSelecting
}

// SetFeedback updates the draft feedback text.
func (w *Workflow) SetFeedback(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitting {
		return
	}
	w.feedback = text
}

// CanSubmit reports whether the draft is submittable: a non-empty
// trimmed feedback and a non-empty selection.
func (w *Workflow) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Workflow) canSubmitLocked() bool {
	return len(w.ids) > 0 && strings.TrimSpace(w.feedback) != ""
}

// Confirm opens the confirmation step. The extra step before any
// network call exists because the mutation is irreversible and touches
// many records at once.
func (w *Workflow) Confirm() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseSelecting || !w.canSubmitLocked() {
		return false
	}
	w.phase = PhaseConfirming
	return true
}

// Cancel abandons the workflow before submission, clearing selection
// and feedback unconditionally.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitting {
		return
	}
	w.reset()
}

// Submit fires the single bulk mutation for the confirmed id set and
// settles the workflow per outcome:
//
//   - every id updated: success alert, selection and draft cleared;
//   - some ids failed: error alert with counts and a call to action,
//     selection and draft still cleared — the operation is done, not
//     retryable in place;
//   - transport error: failure alert, selection and draft kept so the
//     user can retry without re-selecting.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.phase != PhaseConfirming {
		w.mu.Unlock()
		return fmt.Errorf("bulk submit outside confirmation step")
	}
	w.phase = PhaseSubmitting
	ids := append([]string(nil), w.ids...)
	feedback := strings.TrimSpace(w.feedback)
	w.mu.Unlock()

	result, err := w.updater.BulkUpdate(ctx, ids, feedback)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseSettled
	if err != nil {
		w.outcome = OutcomeError
		w.log.Error().Err(err).Int("sessions", len(ids)).Msg("bulk feedback update failed")
		w.notifier.Post(notify.SeverityError, "Bulk update failed. Your selection was kept so you can retry.")
		return fmt.Errorf("bulk updating %d sessions: %w", len(ids), err)
	}

	if len(result.Failed) > 0 {
		w.outcome = OutcomePartial
		w.failed = append([]string(nil), result.Failed...)
		w.updated = result.Updated
		w.log.Warn().
			Int("updated", result.Updated).
			Int("failed", len(result.Failed)).
			Msg("bulk feedback update partially failed")
		w.notifier.PostAction(
			notify.SeverityError,
			fmt.Sprintf("Updated %d sessions, %d failed.", result.Updated, len(result.Failed)),
			ActionViewFailed,
		)
		w.clearDraft()
		return nil
	}

	w.outcome = OutcomeSuccess
	w.updated = result.Updated
	w.log.Info().Int("updated", result.Updated).Msg("bulk feedback update succeeded")
	w.notifier.Post(notify.SeveritySuccess, fmt.Sprintf("Updated %d sessions.", result.Updated))
	w.clearDraft()
	return nil
}

// ActionViewFailed tags the partial-failure alert whose call to action
// opens the failed sessions modal.
const ActionViewFailed = "view-failed-sessions"

// FailedSessions resolves the failed ids from the last settlement
// against the rows currently loaded client-side, in visible order.
// Failed sessions not in the visible set are silently omitted.
func (w *Workflow) FailedSessions(visible []models.Session) []models.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.failed) == 0 {
		return nil
	}
	failed := make(map[string]bool, len(w.failed))
	for _, id := range w.failed {
		failed[id] = true
	}
	var out []models.Session
	for _, s := range visible {
		if failed[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// Acknowledge returns a settled workflow to idle (or to selecting if a
// selection survived an error settlement).
func (w *Workflow) Acknowledge() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseSettled {
		return
	}
	w.outcome = OutcomeNone
	w.failed = nil
	w.updated = 0
	if len(w.ids) > 0 {
		w.phase = PhaseSelecting
		return
	}
	w.phase = PhaseIdle
}

func (w *Workflow) clearDraft() {
	w.ids = nil
	w.feedback = ""
}

func (w *Workflow) reset() {
	w.ids = nil
	w.feedback = ""
	w.failed = nil
	w.updated = 0
	w.outcome = OutcomeNone
	w.phase = PhaseIdle
}
