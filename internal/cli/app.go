package cli

import (
	"errors"
	"fmt"
	"strings"

	"simple-bible/internal/api"
	"simple-bible/internal/bible"
	"simple-bible/internal/cache"
	"simple-bible/internal/config"
	"simple-bible/internal/history"
	"simple-bible/internal/logger"
	"simple-bible/internal/settings"
)

// app holds the stores and clients every command shares.
type app struct {
	cfg      *config.Config
	settings *settings.Store
	history  *history.SQLiteLog
	cache    *cache.Cache
	client   *api.Client
	catalog  *bible.Catalog
}

func openApp() (*app, error) {
	cfg := config.New()
	logger.Debug("data dir %s", cfg.DataDir)

	store, err := settings.Open(cfg.SettingsDir())
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	log, err := history.Open(cfg.HistoryDir())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	c, err := cache.NewCache(cfg.CacheDir(), cfg.APIURL)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	client := api.NewClient(cfg.APIURL)
	client.SetCache(c)

	return &app{
		cfg:      cfg,
		settings: store,
		history:  log,
		cache:    c,
		client:   client,
		catalog:  bible.NewCatalog(client),
	}, nil
}

func (a *app) close() error {
	return a.history.Close()
}

// translation returns flag when set, otherwise the saved translation, otherwise the default.
func (a *app) translation(flag string) string {
	if flag != "" {
		return strings.ToUpper(flag)
	}
	if tr := a.settings.Snapshot().Translation; tr != nil && *tr != "" {
		return *tr
	}
	return a.cfg.DefaultTranslation
}

// withApp opens the app for the duration of fn.
func withApp(fn func(a *app) error) (err error) {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.close())
	}()
	return fn(a)
}
