// Package notify provides the alert channel the rest of the app posts
// user-facing notifications through. Producers depend only on the
// Notifier capability; the Center behind it holds active alerts with
// auto-expiry for the footer to render.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity represents the urgency of an alert.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Alert is one user-facing notification.
type Alert struct {
	ID        string
	Severity  Severity
	Message   string
	// Action tags an alert that carries a call to action, such as
	// reviewing failed sessions after a partial bulk update.
	Action    string
	CreatedAt time.Time
}

// Notifier is the capability handed to producers. Post returns the
// alert id so callers can dismiss it early.
type Notifier interface {
	Post(severity Severity, message string) string
	PostAction(severity Severity, message, action string) string
}

// DefaultTTL is how long an alert stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

// Center implements Notifier and owns the active alert list.
type Center struct {
	mu      sync.Mutex
	alerts  []Alert
	ttl     time.Duration
	now     func() time.Time
	expire  func(d time.Duration, fn func()) // nil disables auto-expiry timers
	onPost  func(Alert)
}

// Options configures a Center. Zero values pick defaults; Now and
// Expire exist so tests can control time.
type Options struct {
	TTL     time.Duration
	Now     func() time.Time
	Expire  func(d time.Duration, fn func())
	OnPost  func(Alert)
}

func NewCenter(opts Options) *Center {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	expire := opts.Expire
	if expire == nil {
		expire = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	return &Center{ttl: ttl, now: now, expire: expire, onPost: opts.OnPost}
}

// Post adds an alert and schedules its expiry.
func (c *Center) Post(severity Severity, message string) string {
	return c.PostAction(severity, message, "")
}

// PostAction adds an alert carrying a call-to-action tag.
func (c *Center) PostAction(severity Severity, message, action string) string {
	alert := Alert{
		ID:        uuid.New().String(),
		Severity:  severity,
		Message:   message,
		Action:    action,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.alerts = append(c.alerts, alert)
	onPost := c.onPost
	c.mu.Unlock()

	c.expire(c.ttl, func() { c.Dismiss(alert.ID) })
	if onPost != nil {
		onPost(alert)
	}
	return alert.ID
}

// Dismiss removes the alert with the given id, if still active.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.alerts {
		if a.ID == id {
			c.alerts = append(c.alerts[:i], c.alerts[i+1:]...)
			return
		}
	}
}

// Active returns the alerts currently visible, oldest first.
func (c *Center) Active() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Alert(nil), c.alerts...)
}

// Clear removes every active alert.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = nil
}
