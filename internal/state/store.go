package state

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
	"github.com/TzachiGitHub/pokedex/internal/urlstate"
)

// Phase is the coarse loading state of the list.
type Phase int

const (
	// PhaseIdle is the state before the first load starts.
	PhaseIdle Phase = iota
	// PhaseLoadingInitial is a load that will replace the list.
	PhaseLoadingInitial
	// PhaseLoaded means the last load succeeded.
	PhaseLoaded
	// PhaseLoadingMore is a load that appends the next page.
	PhaseLoadingMore
	// PhaseError means the last load failed.
	PhaseError
)

// String returns the lower-case name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingInitial:
		return "loading-initial"
	case PhaseLoaded:
		return "loaded"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// Mode selects how page changes affect the accumulated list.
type Mode string

const (
	// ModeInfinite appends each further page to the list.
	ModeInfinite Mode = "infinite"
	// ModeManual shows exactly one page at a time.
	ModeManual Mode = "manual"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Records       []pokeapi.Pokemon
	SearchRecords []pokeapi.Pokemon // mirror of Records used for client-side search
	Types         []string
	Pagination    pokeapi.Pagination
	HasPagination bool
	Phase         Phase
	Loading       bool
	LoadingMore   bool
	Err           string
	FailedAppend  bool // Err came from appending a page, not from replacing the list
	Mode          Mode
	Query         urlstate.State
	Pending       map[string]bool // record keys with a capture toggle in flight
	LastUpdated   time.Time

	SyncFailures int // consecutive captured-sync failures
}

// HasData reports whether any record is loaded.
func (s Snapshot) HasData() bool {
	return len(s.Records) > 0
}

// AtEnd reports whether every record for the current filters is loaded.
func (s Snapshot) AtEnd() bool {
	return s.HasPagination && !s.Pagination.HasNext && s.HasData() && !s.Loading && !s.LoadingMore
}

// SyncOffline reports whether captured-state sync has failed repeatedly.
func (s Snapshot) SyncOffline() bool {
	return s.SyncFailures >= 2
}

// IsPending reports whether a capture toggle for key is in flight.
func (s Snapshot) IsPending(key string) bool {
	return s.Pending[key]
}

// Store coordinates concurrent updates to the snapshot. Every list load
// carries a generation; results from an older generation are discarded.
type Store struct {
	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64
	subs       map[int]chan struct{}
	nextSub    int
}

// NewStore returns a Store in infinite mode over the given query.
func NewStore(query urlstate.State) *Store {
	return &Store{snapshot: Snapshot{Mode: ModeInfinite, Query: query}}
}

// Subscribe returns a channel that receives a value after each change, and a
// function that cancels the subscription. Notifications coalesce: a slow
// reader sees at most one pending signal.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = map[int]chan struct{}{}
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// notifyLocked must be called with mu held.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a deep copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = slices.Clone(s.snapshot.Records)
	snap.SearchRecords = slices.Clone(s.snapshot.SearchRecords)
	snap.Types = slices.Clone(s.snapshot.Types)
	snap.Pending = maps.Clone(s.snapshot.Pending)
	return snap
}

// Generation returns the current load generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// BeginReplace starts a load that will replace the list. It supersedes every
// load in flight and returns the new generation.
func (s *Store) BeginReplace(query urlstate.State, mode Mode) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.snapshot.Query = query
	s.snapshot.Mode = mode
	s.snapshot.Loading = true
	s.snapshot.LoadingMore = false
	s.snapshot.Err = ""
	s.snapshot.FailedAppend = false
	s.snapshot.Phase = PhaseLoadingInitial
	s.notifyLocked()
	return s.generation
}

// BeginAppend starts a load of the next page when more pages exist, no load
// is in flight, no replace has failed and query has the filters of the loaded
// list. It reports false otherwise and changes nothing.
func (s *Store) BeginAppend(query urlstate.State) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &s.snapshot
	if !snap.HasPagination || !snap.Pagination.HasNext || snap.Loading || snap.LoadingMore {
		return 0, false
	}
	// After a failed replace the list belongs to the previous query.
	if !snap.Query.SameFilters(query) || (snap.Err != "" && !snap.FailedAppend) {
		return 0, false
	}
	snap.Query = query
	snap.Mode = ModeInfinite
	snap.LoadingMore = true
	snap.FailedAppend = false
	snap.Phase = PhaseLoadingMore
	s.notifyLocked()
	return s.generation, true
}

// CancelAppend abandons an append started by BeginAppend without a result.
// It does nothing when gen is stale or no append is in flight.
func (s *Store) CancelAppend(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || !s.snapshot.LoadingMore {
		return
	}
	s.snapshot.LoadingMore = false
	s.snapshot.Phase = PhaseLoaded
	if s.snapshot.Err != "" {
		s.snapshot.Phase = PhaseError
	}
	s.notifyLocked()
}

// ApplyPage stores a fetched page. With appendPage the records are added to
// the list, otherwise they replace it. final clears the loading flags; a
// multi-page replay passes false for every page but the last. It reports
// false, leaving the store untouched, when gen is stale.
func (s *Store) ApplyPage(gen uint64, resp pokeapi.ListResponse, appendPage, final bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}

	snap := &s.snapshot
	if appendPage {
		snap.Records = append(snap.Records, resp.Data...)
		snap.SearchRecords = append(snap.SearchRecords, resp.Data...)
	} else {
		snap.Records = slices.Clone(resp.Data)
		snap.SearchRecords = slices.Clone(resp.Data)
	}
	snap.Pagination = resp.Pagination
	snap.HasPagination = true
	snap.LastUpdated = time.Now()
	if final {
		snap.Loading = false
		snap.LoadingMore = false
		snap.Err = ""
		snap.FailedAppend = false
		snap.Phase = PhaseLoaded
	}
	s.notifyLocked()
	return true
}

// FailLoad records a failed load. Loaded data is kept, and FailedAppend
// records whether the failure was an append. It reports false when gen is
// stale.
func (s *Store) FailLoad(gen uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	snap := &s.snapshot
	snap.Err = message
	snap.FailedAppend = snap.LoadingMore
	snap.Loading = false
	snap.LoadingMore = false
	snap.Phase = PhaseError
	snap.LastUpdated = time.Now()
	s.notifyLocked()
	return true
}

// SetTypes replaces the known type names.
func (s *Store) SetTypes(types []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Types = slices.Clone(types)
	s.notifyLocked()
}

// SetQuery records the query without starting a load.
func (s *Store) SetQuery(query urlstate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Query == query {
		return
	}
	s.snapshot.Query = query
	s.notifyLocked()
}

// MarkPending flags key as having a toggle in flight. It reports false when
// one is already pending.
func (s *Store) MarkPending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Pending[key] {
		return false
	}
	if s.snapshot.Pending == nil {
		s.snapshot.Pending = map[string]bool{}
	}
	s.snapshot.Pending[key] = true
	s.notifyLocked()
	return true
}

// ClearPending removes the in-flight flag for key.
func (s *Store) ClearPending(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snapshot.Pending[key] {
		return
	}
	delete(s.snapshot.Pending, key)
	s.notifyLocked()
}

// SetCaptured sets the captured flag of every copy of the record identified
// by key in both lists. It reports whether any record matched.
func (s *Store) SetCaptured(key string, captured bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := setCaptured(s.snapshot.Records, key, captured)
	if setCaptured(s.snapshot.SearchRecords, key, captured) {
		found = true
	}
	if found {
		s.notifyLocked()
	}
	return found
}

// ReconcileCaptured makes each record's captured flag match membership in
// captured, skipping records with a pending toggle. It returns how many
// records changed.
func (s *Store) ReconcileCaptured(captured map[string]bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, list := range [][]pokeapi.Pokemon{s.snapshot.Records, s.snapshot.SearchRecords} {
		for i := range list {
			key := list[i].Key()
			if s.snapshot.Pending[key] {
				continue
			}
			if want := captured[key]; list[i].Captured != want {
				list[i].Captured = want
				changed++
			}
		}
	}
	s.snapshot.SyncFailures = 0
	if changed > 0 {
		s.notifyLocked()
	}
	return changed
}

// RecordSyncFailure counts a failed captured-state sync.
func (s *Store) RecordSyncFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.SyncFailures++
	s.notifyLocked()
	return s.snapshot.SyncFailures
}

func setCaptured(list []pokeapi.Pokemon, key string, captured bool) bool {
	found := false
	for i := range list {
		if list[i].Key() == key {
			list[i].Captured = captured
			found = true
		}
	}
	return found
}
