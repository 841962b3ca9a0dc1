package sessiondata

import (
	"context"
	"errors"
	"fmt"

	"github.com/perfpulse/pulse/pkg/models"
)

// ErrUpdateRejected is wrapped into UpdateFeedback's error when the
// request succeeded at the transport level but the server reported the
// session as failed.
var ErrUpdateRejected = errors.New("server rejected the update")

type detailsEntry struct {
	details models.SessionDetails
	loaded  bool
	// stale marks an invalidated entry: the cached value stays
	// readable, but the next fetch goes to the server.
	stale bool
	// seq stamps the latest fetch issued for this id; stale responses
	// compare against it and are dropped.
	seq      uint64
	fetching bool
}

func (c *Cache) detailsEntryLocked(id string) *detailsEntry {
	e, ok := c.details[id]
	if !ok {
		e = &detailsEntry{}
		c.details[id] = e
	}
	return e
}

// Details returns the cached details for id, if loaded.
func (c *Cache) Details(id string) (models.SessionDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.details[id]
	if !ok || !e.loaded {
		return models.SessionDetails{}, false
	}
	return e.details, true
}

// FetchDetails returns the details for id, from cache when present and
// fresh, otherwise from the server. A response that raced with an
// invalidation or a newer fetch for the same id is not cached.
func (c *Cache) FetchDetails(ctx context.Context, id string) (models.SessionDetails, error) {
	c.mu.Lock()
	e := c.detailsEntryLocked(id)
	if e.loaded && !e.stale {
		details := e.details
		c.mu.Unlock()
		return details, nil
	}
	e.seq++
	seq := e.seq
	e.fetching = true
	c.mu.Unlock()

	details, err := c.client.FetchSessionDetails(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	e = c.detailsEntryLocked(id)
	if e.seq != seq {
		// A newer fetch or an invalidation superseded this response.
		return details, err
	}
	e.fetching = false
	if err != nil {
		return models.SessionDetails{}, fmt.Errorf("fetching session %s details: %w", id, err)
	}
	e.details = details
	e.loaded = true
	e.stale = false
	return details, nil
}

// PrefetchDetails warms the details cache for id without blocking and
// without surfacing errors, used opportunistically when a row gains
// focus. A no-op when the entry is already cached or being fetched.
func (c *Cache) PrefetchDetails(ctx context.Context, id string) {
	c.mu.Lock()
	e := c.detailsEntryLocked(id)
	if (e.loaded && !e.stale) || e.fetching {
		c.mu.Unlock()
		return
	}
	// Claim the entry before spawning so a second prefetch issued ahead
	// of the goroutine's first fetch still hits the guard.
	e.fetching = true
	c.mu.Unlock()

	go func() {
		if _, err := c.FetchDetails(ctx, id); err != nil {
			c.log.Debug().Err(err).Str("session", id).Msg("details prefetch failed")
		}
	}()
}

// InvalidateDetails drops the cached details for id, forcing the next
// read to hit the server.
func (c *Cache) InvalidateDetails(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateDetailsLocked(id)
}

func (c *Cache) invalidateDetailsLocked(id string) {
	if e, ok := c.details[id]; ok {
		e.stale = true
		e.fetching = false
		e.seq++
	}
}

// UpdateFeedback edits the feedback of a single session through the
// bulk endpoint, applying the new value optimistically: the cached
// details are overwritten before the request settles and restored from
// a snapshot when it fails. On settlement the details entry is
// invalidated either way, so the cache converges on the server's state.
func (c *Cache) UpdateFeedback(ctx context.Context, id, feedback string) error {
	c.mu.Lock()
	e := c.detailsEntryLocked(id)
	hadSnapshot := e.loaded
	snapshot := e.details
	if e.loaded {
		e.details.Feedback = feedback
	}
	c.mu.Unlock()

	result, err := c.client.BulkUpdate(ctx, []string{id}, feedback)
	if err == nil && len(result.Failed) > 0 {
		err = ErrUpdateRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e = c.detailsEntryLocked(id)
	if err != nil && hadSnapshot && e.loaded {
		e.details = snapshot
	}
	c.invalidateDetailsLocked(id)
	if err != nil {
		return fmt.Errorf("updating feedback for session %s: %w", id, err)
	}
	return nil
}
