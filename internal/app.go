// Package internal provides the App struct that wires the data layer,
// preferences, and notification channel behind the pulse CLI.
package internal

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/perfpulse/pulse/internal/api"
	"github.com/perfpulse/pulse/internal/core"
	"github.com/perfpulse/pulse/internal/notify"
	"github.com/perfpulse/pulse/internal/prefs"
	"github.com/perfpulse/pulse/internal/sessiondata"
)

// App holds the shared dependencies of the pulse commands.
type App struct {
	BasePath string
	Config   core.Config
	Log      zerolog.Logger

	Client api.Client
	Cache  *sessiondata.Cache
	Prefs  prefs.Store
	Alerts *notify.Center
}

// NewApp loads configuration from basePath and wires all components.
func NewApp(basePath string) (*App, error) {
	cfgMgr := core.NewConfigManager(basePath)
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := core.NewLogger(basePath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, log)
	cache := sessiondata.NewCache(client, core.ClampPageSize(cfg.PageSize), log)

	return &App{
		BasePath: basePath,
		Config:   cfg,
		Log:      log,
		Client:   client,
		Cache:    cache,
		Prefs:    prefs.NewStore(filepath.Join(basePath, "prefs"), log),
		Alerts:   notify.NewCenter(notify.Options{}),
	}, nil
}
