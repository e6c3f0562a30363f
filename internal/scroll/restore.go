package scroll

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TzachiGitHub/pokedex/internal/prefs"
)

const (
	// PollInterval is how often the caller should invoke Restorer.Poll.
	PollInterval = 100 * time.Millisecond
	// MaxAttempts bounds how many polls wait for the content to grow.
	MaxAttempts = 30
)

// Restorer saves the list offset on exit and restores it once per run.
type Restorer struct {
	mu       sync.Mutex
	store    prefs.Store
	attempts int
	restored bool
}

// NewRestorer returns a Restorer over the session scope.
func NewRestorer(store prefs.Store) *Restorer {
	return &Restorer{store: store}
}

// Save stores offset for the next run.
func (r *Restorer) Save(offset int) error {
	if r == nil || r.store == nil {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	if err := r.store.Set(prefs.KeyScrollPosition, strconv.Itoa(offset)); err != nil {
		return fmt.Errorf("save scroll position: %w", err)
	}
	return nil
}

// Pending reports the stored offset, if one is waiting to be restored.
func (r *Restorer) Pending() (int, bool) {
	if r == nil || r.store == nil {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.restored {
		return 0, false
	}
	return r.storedLocked()
}

// Poll is called every PollInterval. It does nothing until a stored offset
// exists, data is present and nothing is loading. Each qualifying call counts
// one attempt; once contentHeight reaches the offset or MaxAttempts pass, it
// returns the offset with done set, clears the stored value and never fires
// again.
func (r *Restorer) Poll(contentHeight int, loading, hasData bool) (int, bool) {
	if r == nil || r.store == nil {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.restored || loading || !hasData {
		return 0, false
	}
	offset, ok := r.storedLocked()
	if !ok {
		return 0, false
	}

	r.attempts++
	if contentHeight < offset && r.attempts < MaxAttempts {
		return 0, false
	}
	r.restored = true
	_ = r.store.Delete(prefs.KeyScrollPosition)
	return offset, true
}

// Restored reports whether the offset has already been handed back.
func (r *Restorer) Restored() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restored
}

func (r *Restorer) storedLocked() (int, bool) {
	raw, ok := r.store.Get(prefs.KeyScrollPosition)
	if !ok {
		return 0, false
	}
	offset, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || offset < 0 {
		_ = r.store.Delete(prefs.KeyScrollPosition)
		return 0, false
	}
	return offset, true
}
