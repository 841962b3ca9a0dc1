package models

import "time"

// Speaker identifies who is talking in a transcript entry.
type Speaker string

const (
	SpeakerAgent    Speaker = "Agent"
	SpeakerCustomer Speaker = "Customer"
)

// SessionMetrics holds the per-dimension coaching scores for a session.
// Each value is on a 0-10 scale.
type SessionMetrics struct {
	Confidence float64 `json:"confidence"`
	Clarity    float64 `json:"clarity"`
	Listening  float64 `json:"listening"`
}

// Session is a single recorded sales session as served by the API.
// Sessions are immutable once fetched; only the feedback on the
// separately fetched SessionDetails can be changed.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Score     float64        `json:"score"`
	Metrics   SessionMetrics `json:"metrics"`
	CreatedAt string         `json:"created_at"`
	// Duration is the session length in seconds.
	Duration int `json:"duration"`
}

// CreatedAtTime parses the created_at timestamp. The second return value
// is false when the timestamp is absent or unparseable.
func (s Session) CreatedAtTime() (time.Time, bool) {
	if s.CreatedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SessionsAPIResponse is the raw payload of GET /sessions.
type SessionsAPIResponse struct {
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

// SessionsPage is one normalized page of sessions. NextPage is nil when
// the server has no further pages for the current pagination parameters.
type SessionsPage struct {
	Sessions []Session
	NextPage *int
}

// TranscriptEntry is one utterance in a session transcript, ordered by
// SecondsFromStart as given by the server.
type TranscriptEntry struct {
	Text             string  `json:"text"`
	SecondsFromStart float64 `json:"secondsFromStart"`
	Speaker          Speaker `json:"speaker"`
}

// SessionDetails is the lazily fetched per-session payload of
// GET /sessions/:id.
type SessionDetails struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Feedback   string            `json:"feedback,omitempty"`
	Transcript []TranscriptEntry `json:"transcript"`
}

// BulkUpdateRequest is the body of PUT /sessions/bulk.
type BulkUpdateRequest struct {
	SessionIDs []string `json:"session_ids"`
	Feedback   string   `json:"feedback"`
}

// BulkUpdateResult reports the outcome of a bulk feedback update.
// Failed lists the ids the server could not update; a non-empty Failed
// alongside a non-zero Updated count is a partial failure, not an error.
type BulkUpdateResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed"`
}
