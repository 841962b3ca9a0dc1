// Package prefs persists client-side preferences on a local diskv
// store: theme and session-table column visibility. Values survive
// restarts the way browser localStorage would; corrupt values fall
// back to defaults with a warning rather than failing.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/pkg/models"
)

const (
	keyTheme   = "theme"
	keyColumns = "session-columns"
)

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrLastVisibleColumn is returned when a toggle would hide the only
// visible column.
var ErrLastVisibleColumn = errors.New("at least one column must stay visible")

// Store reads and writes persisted preferences.
type Store interface {
	Theme() string
	SetTheme(theme string) error
	ColumnVisibility() models.SessionColumnVisibility
	ToggleColumn(key models.SessionColumnKey) (models.SessionColumnVisibility, error)
}

type store struct {
	d   *diskv.Diskv
	log zerolog.Logger
}

// DefaultBasePath resolves the preference directory under the user's
// home.
func DefaultBasePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".pulse", "prefs"), nil
}

// NewStore creates a Store rooted at basePath.
func NewStore(basePath string, log zerolog.Logger) Store {
	return &store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 64 * 1024,
		}),
		log: log,
	}
}

// Theme returns the persisted theme, defaulting to light.
func (s *store) Theme() string {
	val, err := s.d.Read(keyTheme)
	if err != nil {
		return ThemeLight
	}
	switch string(val) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	default:
		s.log.Warn().Str("value", string(val)).Msg("unknown persisted theme, using light")
		return ThemeLight
	}
}

// SetTheme persists the theme.
func (s *store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := s.d.Write(keyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("persisting theme: %w", err)
	}
	return nil
}

// ColumnVisibility returns the persisted column visibility map. A
// missing or corrupt value yields the default with every column shown.
func (s *store) ColumnVisibility() models.SessionColumnVisibility {
	val, err := s.d.Read(keyColumns)
	if err != nil {
		return models.DefaultColumnVisibility()
	}

	var vis models.SessionColumnVisibility
	if err := json.Unmarshal(val, &vis); err != nil || vis.VisibleCount() == 0 {
		s.log.Warn().Err(err).Msg("corrupt persisted column visibility, using defaults")
		return models.DefaultColumnVisibility()
	}

	// Columns added since the value was written default to visible.
	defaults := models.DefaultColumnVisibility()
	for key := range defaults {
		if _, ok := vis[key]; !ok {
			vis[key] = true
		}
	}
	return vis
}

// ToggleColumn flips a column's visibility and persists the result.
// Hiding the only visible column is rejected and the stored map is
// left unchanged.
func (s *store) ToggleColumn(key models.SessionColumnKey) (models.SessionColumnVisibility, error) {
	vis := s.ColumnVisibility()
	if vis[key] && vis.VisibleCount() == 1 {
		return vis, ErrLastVisibleColumn
	}
	vis[key] = !vis[key]

	data, err := json.Marshal(vis)
	if err != nil {
		return vis, fmt.Errorf("encoding column visibility: %w", err)
	}
	if err := s.d.Write(keyColumns, data); err != nil {
		return vis, fmt.Errorf("persisting column visibility: %w", err)
	}
	return vis, nil
}
