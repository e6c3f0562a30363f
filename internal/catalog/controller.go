// Package catalog orchestrates list loading, filtering and capture toggles.
//
// The Controller is the single writer of the list state. It reads and writes
// the query (urlstate.Store), calls the API (pokeapi.Catalog) and records the
// outcome in a state.Store that the UI renders from. Every operation blocks
// until its requests finish, so the UI runs them as background commands.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
	"github.com/TzachiGitHub/pokedex/internal/state"
	"github.com/TzachiGitHub/pokedex/internal/urlstate"
)

// FetchErrorMessage is shown when a failed fetch carries no message.
const FetchErrorMessage = "Failed to fetch Pokemon"

var (
	// ErrTogglePending is returned when a record already has a toggle in flight.
	ErrTogglePending = errors.New("capture toggle already pending")
	// ErrNotLoaded is returned when toggling a record that is not in the list.
	ErrNotLoaded = errors.New("pokemon not in the loaded list")
)

// Controller drives the list state.
type Controller struct {
	api    pokeapi.Catalog
	store  *state.Store
	query  *urlstate.Store
	logger *zap.Logger
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger; the default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Controller. All three dependencies are required.
func New(api pokeapi.Catalog, store *state.Store, query *urlstate.Store, opts ...Option) (*Controller, error) {
	if api == nil || store == nil || query == nil {
		return nil, errors.New("catalog: api, store and query are required")
	}
	c := &Controller{api: api, store: store, query: query, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	store.SetQuery(query.State())
	return c, nil
}

// Store returns the state store the controller writes to.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Query returns the current query state.
func (c *Controller) Query() urlstate.State {
	return c.query.State()
}

// Mount performs the initial load. Type names and the list load in parallel;
// a type failure is only logged. When the query names a page beyond the
// first, pages 1..N are fetched in order to rebuild the accumulated list.
func (c *Controller) Mount(ctx context.Context) error {
	var listErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.loadTypes(gctx)
		return nil
	})
	g.Go(func() error {
		listErr = c.reload(gctx, state.ModeInfinite)
		return nil
	})
	_ = g.Wait()
	return listErr
}

// Refresh switches back to infinite mode and reloads up to the current page.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.reload(ctx, state.ModeInfinite)
}

// LoadMore appends the page after the last one loaded. It does nothing when
// no next page exists or any load is in flight. Retrying after a failed
// append asks for the same page again.
func (c *Controller) LoadMore(ctx context.Context) error {
	next := c.query.State()
	if loaded := c.store.Snapshot().Pagination.Page; loaded > 0 {
		next.Page = loaded + 1
	} else {
		next.Page++
	}

	gen, ok := c.store.BeginAppend(next)
	if !ok {
		return nil
	}
	// A filter change may have landed since BeginAppend; it resets the page
	// and supersedes this append.
	st, ok := c.query.SetPageFor(next, next.Page)
	if !ok || c.store.Generation() != gen {
		c.store.CancelAppend(gen)
		c.logger.Debug("append superseded by a filter change", zap.Int("page", next.Page))
		return nil
	}
	c.store.SetQuery(st)
	return c.fetch(ctx, gen, st, true, true)
}

// Retry repeats the load that failed: the append after a failed LoadMore,
// otherwise a Refresh of the current query.
func (c *Controller) Retry(ctx context.Context) error {
	snap := c.store.Snapshot()
	if snap.Err != "" && snap.FailedAppend {
		return c.LoadMore(ctx)
	}
	return c.Refresh(ctx)
}

// SetPage shows exactly page n, replacing the list.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	st, _ := c.query.SetPage(n)
	gen := c.store.BeginReplace(st, state.ModeManual)
	return c.fetch(ctx, gen, st, false, true)
}

// SetPageSize changes the page size. Invalid sizes select the default.
func (c *Controller) SetPageSize(ctx context.Context, limit int) error {
	return c.applyFilter(ctx, func() (urlstate.State, bool) { return c.query.SetLimit(limit) })
}

// SetSort changes the sort order.
func (c *Controller) SetSort(ctx context.Context, order urlstate.SortOrder) error {
	return c.applyFilter(ctx, func() (urlstate.State, bool) { return c.query.SetSort(order) })
}

// SetType changes the type filter; "" clears it.
func (c *Controller) SetType(ctx context.Context, typ string) error {
	return c.applyFilter(ctx, func() (urlstate.State, bool) { return c.query.SetType(typ) })
}

// SetSearch changes the server-side search term.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	return c.applyFilter(ctx, func() (urlstate.State, bool) { return c.query.SetSearch(term) })
}

// ResetFilters clears every query parameter.
func (c *Controller) ResetFilters(ctx context.Context) error {
	return c.applyFilter(ctx, c.query.Reset)
}

// applyFilter writes a filter change and reloads page 1 in infinite mode. An
// unchanged query is a no-op.
func (c *Controller) applyFilter(ctx context.Context, set func() (urlstate.State, bool)) error {
	st, changed := set()
	if !changed {
		return nil
	}
	gen := c.store.BeginReplace(st, state.ModeInfinite)
	return c.fetch(ctx, gen, st, false, true)
}

// ToggleCapture flips the captured flag of p immediately, then asks the
// server. On failure the flag is restored and the error is logged and
// returned; the list error banner is left alone.
func (c *Controller) ToggleCapture(ctx context.Context, p pokeapi.Pokemon) error {
	key := p.Key()
	if !c.store.MarkPending(key) {
		return ErrTogglePending
	}
	defer c.store.ClearPending(key)

	capture := !p.Captured
	if !c.store.SetCaptured(key, capture) {
		return fmt.Errorf("toggle %s: %w", key, ErrNotLoaded)
	}

	var err error
	if capture {
		err = c.api.Capture(ctx, p.Number, p.Name)
	} else {
		err = c.api.Release(ctx, p.Number, p.Name)
	}
	if err != nil {
		c.store.SetCaptured(key, !capture)
		c.logger.Warn("capture toggle failed, reverted",
			zap.String("key", key),
			zap.Bool("capture", capture),
			zap.Error(err))
		return err
	}
	c.logger.Debug("capture toggled", zap.String("key", key), zap.Bool("captured", capture))
	return nil
}

// SyncCaptured reconciles captured flags with the server, skipping records
// with a toggle in flight.
func (c *Controller) SyncCaptured(ctx context.Context) error {
	keys, err := c.api.FetchCaptured(ctx)
	if err != nil {
		failures := c.store.RecordSyncFailure()
		c.logger.Debug("captured sync failed", zap.Int("failures", failures), zap.Error(err))
		return err
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	if changed := c.store.ReconcileCaptured(set); changed > 0 {
		c.logger.Debug("captured sync applied", zap.Int("changed", changed))
	}
	return nil
}

// reload fetches page 1, or replays pages 1..N when the query is on page N.
func (c *Controller) reload(ctx context.Context, mode state.Mode) error {
	st := c.query.State()
	gen := c.store.BeginReplace(st, mode)
	if st.Page <= 1 {
		return c.fetch(ctx, gen, st, false, true)
	}

	target := st.Page
	for p := 1; p <= target; p++ {
		pageState := st
		pageState.Page = p
		resp, err := c.api.FetchPokemon(ctx, toQuery(pageState))
		if err != nil {
			return c.fail(gen, pageState, err)
		}
		last := p == target || !resp.Pagination.HasNext
		if !c.store.ApplyPage(gen, resp, p > 1, last) {
			c.logger.Debug("discarded stale page", zap.Int("page", p), zap.Uint64("generation", gen))
			return nil
		}
		if last {
			if p < target {
				c.logger.Debug("replay stopped at last page", zap.Int("page", p), zap.Int("target", target))
			}
			return nil
		}
	}
	return nil
}

func (c *Controller) fetch(ctx context.Context, gen uint64, st urlstate.State, appendPage, final bool) error {
	resp, err := c.api.FetchPokemon(ctx, toQuery(st))
	if err != nil {
		return c.fail(gen, st, err)
	}
	if !c.store.ApplyPage(gen, resp, appendPage, final) {
		c.logger.Debug("discarded stale page", zap.Int("page", st.Page), zap.Uint64("generation", gen))
	}
	return nil
}

func (c *Controller) fail(gen uint64, st urlstate.State, err error) error {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = FetchErrorMessage
	}
	if !c.store.FailLoad(gen, msg) {
		c.logger.Debug("discarded stale failure", zap.Int("page", st.Page), zap.Error(err))
		return nil
	}
	c.logger.Error("fetch pokemon failed",
		zap.Int("page", st.Page),
		zap.String("query", st.Encode()),
		zap.Error(err))
	return err
}

func (c *Controller) loadTypes(ctx context.Context) {
	types, err := c.api.FetchTypes(ctx)
	if err != nil {
		c.logger.Warn("fetch types failed", zap.Error(err))
		return
	}
	c.store.SetTypes(types)
}

func toQuery(st urlstate.State) pokeapi.Query {
	return pokeapi.Query{
		Page:   st.Page,
		Limit:  st.Limit,
		Sort:   string(st.Sort),
		Type:   st.Type,
		Search: st.Search,
	}
}
