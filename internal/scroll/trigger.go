// Package scroll decides when a scrolled list should load more rows and
// restores the list offset after a restart.
//
// Trigger watches a virtual sentinel row placed just after the last record. It
// fires once each time that row enters the visible area (extended by a margin),
// mirroring an intersection observer. Restorer saves the offset to the session
// preferences scope on exit and hands it back once the reloaded list is tall
// enough to honour it.
package scroll

import "sync"

const (
	// DefaultMargin is how many rows below the viewport still count as visible.
	DefaultMargin = 3
	// DefaultThreshold is the visible fraction of the sentinel needed to fire.
	DefaultThreshold = 0.1
)

// Options configure a Trigger.
type Options struct {
	Margin    int
	Threshold float64
}

// Viewport describes the scrolled window over a list of Total rows.
type Viewport struct {
	Offset int // first visible row
	Height int // visible rows
	Total  int // rows of content, excluding the sentinel
}

// Trigger is an edge-triggered visibility watcher for the sentinel row.
// It is safe for concurrent use.
type Trigger struct {
	mu           sync.Mutex
	opts         Options
	callback     func()
	visible      bool
	disconnected bool

	observed bool
	hasMore  bool
	loading  bool
}

// NewTrigger returns a Trigger that also invokes callback, when non-nil, each
// time it fires.
func NewTrigger(opts Options, callback func()) *Trigger {
	return &Trigger{opts: normalize(opts), callback: callback}
}

// Options returns the active options.
func (t *Trigger) Options() Options {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts
}

// SetOptions replaces the options and re-arms the trigger.
func (t *Trigger) SetOptions(opts Options) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opts = normalize(opts)
	t.visible = false
}

// SetCallback replaces the callback and re-arms the trigger.
func (t *Trigger) SetCallback(callback func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = callback
	t.visible = false
}

// Reset re-arms the trigger so a sentinel that is already visible fires on the
// next Observe.
func (t *Trigger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
}

// Disconnect stops the trigger permanently.
func (t *Trigger) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disconnected = true
	t.callback = nil
}

// Observe records the current viewport and reports whether the sentinel just
// became visible while more rows exist and nothing is loading. A change in
// hasMore or loading re-arms the trigger, so a sentinel left on screen when a
// load finishes fires again.
func (t *Trigger) Observe(vp Viewport, hasMore, loading bool) bool {
	t.mu.Lock()
	if t.disconnected {
		t.mu.Unlock()
		return false
	}
	if !t.observed || hasMore != t.hasMore || loading != t.loading {
		t.visible = false
	}
	t.observed, t.hasMore, t.loading = true, hasMore, loading

	visible := intersects(vp, t.opts)
	fire := visible && !t.visible && hasMore && !loading
	t.visible = visible
	callback := t.callback
	t.mu.Unlock()

	if fire && callback != nil {
		callback()
	}
	return fire
}

// intersects reports whether the one-row sentinel at index vp.Total overlaps
// the viewport grown by the margin on both sides, by at least the threshold.
func intersects(vp Viewport, opts Options) bool {
	if vp.Height <= 0 {
		return false
	}
	top := vp.Offset - opts.Margin
	bottom := vp.Offset + vp.Height + opts.Margin
	sentinelTop, sentinelBottom := vp.Total, vp.Total+1

	overlap := min(bottom, sentinelBottom) - max(top, sentinelTop)
	if overlap <= 0 {
		return false
	}
	return float64(overlap) >= opts.Threshold
}

func normalize(opts Options) Options {
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if opts.Threshold < 0 {
		opts.Threshold = 0
	}
	if opts.Threshold > 1 {
		opts.Threshold = 1
	}
	return opts
}
