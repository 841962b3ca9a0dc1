// Package sessiondata is the client-side cache for session records: a
// paginated fetch-and-accumulate list keyed by page size, a details
// sub-cache keyed by session id with optimistic updates, and the bulk
// feedback mutation. Responses are applied latest-wins per cache key so
// a slow stale response can never overwrite fresher state.
package sessiondata

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/internal/api"
	"github.com/perfpulse/pulse/pkg/models"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 50

// Cache accumulates fetched session pages into an ever-growing list.
// All methods are safe for concurrent use; fetches themselves run on
// the caller's goroutine.
type Cache struct {
	mu     sync.Mutex
	client api.Client
	log    zerolog.Logger

	pageSize int
	pages    []models.SessionsPage
	nextPage *int
	fetching bool
	// generation stamps the pagination key. Results from a fetch
	// issued under an older generation are discarded unseen.
	generation uint64

	listErr error

	users         []models.UserSummary
	usersLoaded   bool
	usersFetching bool

	details map[string]*detailsEntry
}

// NewCache creates a Cache fetching through client with the given page
// size.
func NewCache(client api.Client, pageSize int, log zerolog.Logger) *Cache {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	first := 1
	return &Cache{
		client:   client,
		log:      log,
		pageSize: pageSize,
		nextPage: &first,
		details:  make(map[string]*detailsEntry),
	}
}

// Sessions returns all fetched sessions flattened in fetch order.
func (c *Cache) Sessions() []models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Session
	for _, page := range c.pages {
		out = append(out, page.Sessions...)
	}
	return out
}

// PageSize returns the active page size.
func (c *Cache) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

// HasNextPage reports whether another page can be requested. Once this
// turns false it stays false until the pagination key changes.
func (c *Cache) HasNextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextPage != nil
}

// IsFetching reports whether a list fetch is in flight.
func (c *Cache) IsFetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Err returns the error of the most recent failed list fetch, cleared
// by the next successful one.
func (c *Cache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listErr
}

// FetchNextPage requests the next page if one exists and no fetch is in
// flight. Overlapping calls are idempotent: they return false without
// issuing a request. The returned bool reports whether new data was
// appended.
func (c *Cache) FetchNextPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.fetching || c.nextPage == nil {
		c.mu.Unlock()
		return false, nil
	}
	page := *c.nextPage
	pageSize := c.pageSize
	gen := c.generation
	c.fetching = true
	c.mu.Unlock()

	resp, err := c.client.FetchSessions(ctx, page, pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// Pagination key changed while in flight; the response
		// belongs to a dead accumulation.
		return false, nil
	}
	c.fetching = false
	if err != nil {
		c.listErr = err
		return false, fmt.Errorf("fetching sessions page %d: %w", page, err)
	}
	c.listErr = nil

	normalized := NormalizePage(resp, pageSize)
	c.pages = append(c.pages, normalized)
	c.nextPage = normalized.NextPage
	return true, nil
}

// SetPageSize changes the pagination key. Accumulated pages are
// invalidated and pagination restarts from page 1. Setting the current
// size is a no-op.
func (c *Cache) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n == c.pageSize {
		return
	}
	c.pageSize = n
	c.resetListLocked()
}

// Refetch drops accumulated pages and restarts pagination, used by the
// retry affordance after a failed fetch.
func (c *Cache) Refetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetListLocked()
}

func (c *Cache) resetListLocked() {
	first := 1
	c.pages = nil
	c.nextPage = &first
	c.fetching = false
	c.listErr = nil
	c.generation++
}

// RefetchAll re-requests every accumulated page in the background and
// swaps the result in atomically, keeping the stale list visible until
// fresh data has settled. Used after a bulk update, which may change
// fields currently on screen. A pagination-key change during the
// refetch discards the result.
func (c *Cache) RefetchAll(ctx context.Context) error {
	c.mu.Lock()
	pageCount := len(c.pages)
	pageSize := c.pageSize
	gen := c.generation
	c.mu.Unlock()

	if pageCount == 0 {
		return nil
	}

	fresh := make([]models.SessionsPage, 0, pageCount)
	var lastNext *int
	for page := 1; page <= pageCount; page++ {
		resp, err := c.client.FetchSessions(ctx, page, pageSize)
		if err != nil {
			return fmt.Errorf("refetching sessions page %d: %w", page, err)
		}
		normalized := NormalizePage(resp, pageSize)
		fresh = append(fresh, normalized)
		lastNext = normalized.NextPage
		if lastNext == nil {
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil
	}
	c.pages = fresh
	c.nextPage = lastNext
	return nil
}

// BulkUpdate submits one feedback mutation for the given session ids.
// The accumulated session list is not touched here: settlement-time
// refreshing is the caller's choice (see RefetchAll), so the visible
// list is never cleared synchronously.
func (c *Cache) BulkUpdate(ctx context.Context, ids []string, feedback string) (models.BulkUpdateResult, error) {
	result, err := c.client.BulkUpdate(ctx, ids, feedback)
	if err != nil {
		return models.BulkUpdateResult{}, fmt.Errorf("bulk updating %d sessions: %w", len(ids), err)
	}
	// Any cached details for the updated ids are now stale.
	c.mu.Lock()
	for _, id := range ids {
		c.invalidateDetailsLocked(id)
	}
	c.mu.Unlock()
	return result, nil
}

// Users returns the cached user summaries, fetching them on first use.
func (c *Cache) Users(ctx context.Context) ([]models.UserSummary, error) {
	c.mu.Lock()
	if c.usersLoaded {
		users := c.users
		c.mu.Unlock()
		return users, nil
	}
	if c.usersFetching {
		c.mu.Unlock()
		return nil, nil
	}
	c.usersFetching = true
	c.mu.Unlock()

	users, err := c.client.FetchUsers(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.usersFetching = false
	if err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	c.users = users
	c.usersLoaded = true
	return users, nil
}
