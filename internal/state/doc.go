// Package state provides thread-safe list state for the Pokédex client.
//
// # Overview
//
// The Store holds everything the list view renders: the accumulated records,
// the mirror used for client-side search, the type names, pagination, loading
// flags, the last error, the paging mode and the in-flight capture toggles. The
// catalog controller writes it; the UI reads snapshots.
//
//	Writer (catalog.Controller):     Reader (UI):
//	┌────────────────────┐          ┌──────────────────┐
//	│ BeginReplace()     │          │ <-Subscribe()    │
//	│ FetchPokemon()     │          │      ↓           │
//	│ ApplyPage(gen,...) │─────────→│ store.Snapshot() │
//	│ FailLoad(gen,...)  │ (mutex)  │      ↓           │
//	└────────────────────┘          │  render          │
//	                                └──────────────────┘
//
// # Generations
//
// Each replacing load bumps the store's generation and carries it through the
// fetch. ApplyPage and FailLoad ignore results whose generation is no longer
// current, so a slow response for an old filter never overwrites a newer
// list. Appends reuse the current generation; a filter change started while a
// page is being appended therefore discards that page.
//
// # Load Flags
//
//	BeginReplace  → Loading=true, LoadingMore=false, Err="", Phase=loading-initial
//	BeginAppend   → LoadingMore=true, Phase=loading-more
//	              (refused when !HasNext, any load is in flight, the filters
//	              changed or a replace failed)
//	ApplyPage     → list replaced or extended; with final, flags cleared
//	FailLoad      → Err set, FailedAppend=LoadingMore, flags cleared,
//	              data kept, Phase=error
//
// # Capture Toggles
//
// MarkPending and ClearPending bracket a capture or release request so a
// second toggle on the same record can be refused. SetCaptured updates both
// lists at once so they never disagree. ReconcileCaptured applies the
// server's captured set to records without a pending toggle.
//
// # Notifications
//
// Subscribe returns a buffered channel that receives a signal after every
// change. Signals coalesce, so readers should treat them as "something
// changed" and take a fresh Snapshot.
//
// # Defensive Copying
//
// Snapshot clones the record slices, the type list and the pending map, so
// callers may keep or mutate a snapshot freely.
package state
