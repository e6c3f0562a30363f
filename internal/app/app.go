package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TzachiGitHub/pokedex/internal/catalog"
	"github.com/TzachiGitHub/pokedex/internal/config"
	"github.com/TzachiGitHub/pokedex/internal/logging"
	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
	"github.com/TzachiGitHub/pokedex/internal/prefs"
	"github.com/TzachiGitHub/pokedex/internal/scroll"
	"github.com/TzachiGitHub/pokedex/internal/state"
	"github.com/TzachiGitHub/pokedex/internal/ui"
	"github.com/TzachiGitHub/pokedex/internal/urlstate"
)

// Options configure the Pokédex application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pokedex/prefs.toml
	Query      string // initial query string, e.g. "type=Fire&page=2"
	QuerySet   bool   // Query was given explicitly; otherwise the last session's query is used
	Verbose    bool
}

// Run boots the Pokédex TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, closeLog, err := logging.New(level, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() {
		err = errors.Join(err, closeLog())
	}()

	longLived, err := prefs.Open(opts.PrefsPath)
	if err != nil {
		logger.Warn("preferences unavailable", zap.Error(err))
	}
	session, err := prefs.Open(prefs.SessionPath(cfg.SessionDir))
	if err != nil {
		logger.Warn("session preferences unavailable", zap.Error(err))
	}

	raw := opts.Query
	if !opts.QuerySet && session != nil {
		raw, _ = session.Get(prefs.KeyQuery)
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		return err
	}

	query := urlstate.NewStore(raw)
	store := state.NewStore(query.State())
	controller, err := catalog.New(client, store, query, catalog.WithLogger(logger))
	if err != nil {
		return err
	}

	pollCtx, cancelPoll := context.WithCancel(ctx)
	pollDone := StartPoller(pollCtx, controller, cfg.SyncInterval, logger.Named("sync"))
	defer func() {
		cancelPoll()
		<-pollDone
	}()

	var sessionStore prefs.Store = prefs.NewMemory(nil)
	if session != nil {
		sessionStore = session
	}
	var prefStore prefs.Store = prefs.NewMemory(nil)
	if longLived != nil {
		prefStore = longLived
	}
	restorer := scroll.NewRestorer(sessionStore)

	logger.Info("starting pokedex",
		zap.String("api_base", client.BaseURL()),
		zap.String("query", query.Query()),
		zap.Duration("sync_interval", cfg.SyncInterval))

	result, err := ui.Run(ui.Options{
		Context:    ctx,
		Controller: controller,
		Store:      store,
		Prefs:      prefStore,
		Restorer:   restorer,
		IconURL:    client.IconURL,
		Logger:     logger.Named("ui"),
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	saveSession(sessionStore, query.Query(), restorer, result.Offset, logger)
	return nil
}

// NewClient builds the API client described by cfg.
func NewClient(cfg config.Config, logger *zap.Logger) (*pokeapi.Client, error) {
	client, err := pokeapi.NewClient(cfg.APIBase,
		pokeapi.WithTimeout(cfg.RequestTimeout),
		pokeapi.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		pokeapi.WithLogger(logger.Named("api")),
	)
	if err != nil {
		return nil, fmt.Errorf("init pokedex client: %w", err)
	}
	return client, nil
}

// saveSession records the query and scroll offset for the next run. Failures
// only cost the restore, so they are logged.
func saveSession(session prefs.Store, query string, restorer *scroll.Restorer, offset int, logger *zap.Logger) {
	var err error
	if strings.TrimSpace(query) == "" {
		err = session.Delete(prefs.KeyQuery)
	} else {
		err = session.Set(prefs.KeyQuery, query)
	}
	if err != nil {
		logger.Warn("save session query failed", zap.Error(err))
	}
	if err := restorer.Save(offset); err != nil {
		logger.Warn("save scroll position failed", zap.Error(err))
	}
}
