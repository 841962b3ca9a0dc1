package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/pkg/models"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return NewStore(t.TempDir(), zerolog.Nop())
}

func TestThemeRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if got := s.Theme(); got != ThemeLight {
		t.Fatalf("default theme = %q", got)
	}
	if err := s.SetTheme(ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := s.Theme(); got != ThemeDark {
		t.Fatalf("theme = %q after set", got)
	}
	if err := s.SetTheme("sepia"); err == nil {
		t.Fatal("unknown theme must be rejected")
	}
}

func TestCorruptThemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, zerolog.Nop())
	if err := os.WriteFile(filepath.Join(dir, "theme"), []byte("blurple"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.Theme(); got != ThemeLight {
		t.Fatalf("corrupt theme should fall back to light, got %q", got)
	}
}

func TestColumnVisibilityDefaultsToAllShown(t *testing.T) {
	s := newTestStore(t)
	vis := s.ColumnVisibility()
	if vis.VisibleCount() != len(models.BaseColumns) {
		t.Fatalf("visible = %d, want %d", vis.VisibleCount(), len(models.BaseColumns))
	}
}

func TestToggleColumnPersists(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, zerolog.Nop())

	vis, err := s.ToggleColumn(models.ColumnScore)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if vis[models.ColumnScore] {
		t.Fatal("score column should now be hidden")
	}

	// A fresh store over the same directory sees the write.
	again := NewStore(dir, zerolog.Nop())
	if again.ColumnVisibility()[models.ColumnScore] {
		t.Fatal("toggle did not persist")
	}
}

func TestLastVisibleColumnCannotBeHidden(t *testing.T) {
	s := newTestStore(t)

	var last models.SessionColumnKey
	for _, col := range models.BaseColumns {
		last = col.Key
	}
	for _, col := range models.BaseColumns[:len(models.BaseColumns)-1] {
		if _, err := s.ToggleColumn(col.Key); err != nil {
			t.Fatalf("toggle %s: %v", col.Key, err)
		}
	}

	vis, err := s.ToggleColumn(last)
	if !errors.Is(err, ErrLastVisibleColumn) {
		t.Fatalf("expected ErrLastVisibleColumn, got %v", err)
	}
	if !vis[last] || vis.VisibleCount() != 1 {
		t.Fatal("rejected toggle must leave the map unchanged")
	}
	if !s.ColumnVisibility()[last] {
		t.Fatal("rejected toggle must not persist")
	}
}

func TestCorruptColumnValueFallsBack(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, zerolog.Nop())
	if err := os.WriteFile(filepath.Join(dir, "session-columns"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	vis := s.ColumnVisibility()
	if vis.VisibleCount() != len(models.BaseColumns) {
		t.Fatal("corrupt value should yield defaults")
	}
}

func TestNewColumnsDefaultVisible(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, zerolog.Nop())
	// A persisted map missing newer columns treats them as shown.
	if err := os.WriteFile(filepath.Join(dir, "session-columns"), []byte(`{"title":true,"score":false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	vis := s.ColumnVisibility()
	if vis[models.ColumnScore] {
		t.Fatal("persisted false must be honored")
	}
	if !vis[models.ColumnUser] || !vis[models.ColumnCreatedAt] {
		t.Fatal("columns absent from the persisted map default to visible")
	}
}
