// Package transcript implements the searchable transcript view logic:
// case-insensitive multi-match search across entries, a wrap-around
// match cursor, highlight segmentation for rendering, and the height
// estimate used before a row is measured.
package transcript

import (
	"fmt"
	"math"
	"strings"

	"github.com/perfpulse/pulse/pkg/models"
)

// Match locates one occurrence of the search term: the entry index and
// the byte offset of the occurrence within that entry's text.
type Match struct {
	Entry  int
	Offset int
}

// Search returns every occurrence of term across the transcript, in
// entry order then offset order. Matching is case-insensitive
// substring; a blank term yields no matches.
func Search(entries []models.TranscriptEntry, term string) []Match {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var matches []Match
	for i, entry := range entries {
		text := strings.ToLower(entry.Text)
		from := 0
		for {
			at := strings.Index(text[from:], term)
			if at == -1 {
				break
			}
			matches = append(matches, Match{Entry: i, Offset: from + at})
			from += at + 1
		}
	}
	return matches
}

// Cursor walks a match list with wrap-around in both directions.
type Cursor struct {
	matches []Match
	pos     int
}

// NewCursor starts at the first match.
func NewCursor(matches []Match) *Cursor {
	return &Cursor{matches: matches}
}

// Current returns the match under the cursor. ok is false when there
// are no matches.
func (c *Cursor) Current() (Match, bool) {
	if len(c.matches) == 0 {
		return Match{}, false
	}
	return c.matches[c.pos], true
}

// Next advances the cursor, wrapping past the last match to the first.
func (c *Cursor) Next() {
	if len(c.matches) == 0 {
		return
	}
	c.pos = (c.pos + 1) % len(c.matches)
}

// Prev moves the cursor back, wrapping past the first match to the
// last.
func (c *Cursor) Prev() {
	if len(c.matches) == 0 {
		return
	}
	c.pos = (c.pos - 1 + len(c.matches)) % len(c.matches)
}

// Position returns the 1-based cursor position and the match count,
// for the "N of M matches" label. Both are 0 with no matches.
func (c *Cursor) Position() (current, total int) {
	if len(c.matches) == 0 {
		return 0, 0
	}
	return c.pos + 1, len(c.matches)
}

// Segment is a run of entry text for rendering: either plain, a match,
// or the match under the cursor.
type Segment struct {
	Text    string
	Match   bool
	Current bool
}

// Highlight splits text into segments around non-overlapping
// occurrences of term. currentOffset marks the occurrence at that byte
// offset as the current one; pass a negative offset when the cursor is
// elsewhere.
func Highlight(text, term string, currentOffset int) []Segment {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Segment{{Text: text}}
	}

	lower := strings.ToLower(text)
	needle := strings.ToLower(term)

	var segs []Segment
	last := 0
	for {
		at := strings.Index(lower[last:], needle)
		if at == -1 {
			break
		}
		at += last
		if at > last {
			segs = append(segs, Segment{Text: text[last:at]})
		}
		segs = append(segs, Segment{
			Text:    text[at : at+len(term)],
			Match:   true,
			Current: at == currentOffset,
		})
		last = at + len(term)
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	if len(segs) == 0 {
		return []Segment{{Text: text}}
	}
	return segs
}

// EstimateHeight is the pre-measurement height heuristic for an entry:
// a floor of 60 plus 20 per started hundred characters over the base.
func EstimateHeight(entry models.TranscriptEntry) int {
	h := 50 + int(math.Ceil(float64(len(entry.Text))/100))*20
	if h < 60 {
		return 60
	}
	return h
}

// FormatTime renders seconds-from-start as m:ss.
func FormatTime(seconds float64) string {
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
