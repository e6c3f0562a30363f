// Package ui provides the terminal interface of the Pokédex client.
//
// # Architecture Overview
//
// The interface is a single Bubble Tea program. Model holds the latest
// state.Snapshot and re-reads it whenever the store signals a change; every
// mutation goes through the catalog.Controller, run as a background command
// so the UI never blocks on the network.
//
//	key press ──> Model.Update ──> tea.Cmd ──> controller ──> state.Store
//	                   ^                                          │
//	                   └──────────── storeChangedMsg <────────────┘
//
// # Package Structure
//
//   - app.go: Model, Options, key handling and Run
//   - commands.go: messages and commands (store subscription, debounce, ticks)
//   - list.go: list states, record rows and the load-more wiring
//   - header.go: title bar, filter bar, sort bar and detail line
//   - help.go: help overlay and footer hints
//   - keys.go: key bindings
//   - theme.go: light and dark palettes and the theme preference
//   - style_helpers.go, strings.go: rendering helpers and user-visible text
//
// # List States
//
// The body shows exactly one of, in priority order:
//
//   - an error with a retry hint, when the first load failed
//   - ten skeleton rows, while the first page loads
//   - an empty state with a reset hint, when nothing matches
//   - the list, with a reload banner when reloading over existing rows
//
// Below the last row the list shows a spinner while the next page loads, an
// inline error with a retry hint when that load failed, or an end-of-list
// message once every page is loaded.
//
// # Infinite Scroll
//
// A scroll.Trigger watches a virtual row after the last record. Whenever the
// visible window (plus a small margin) reaches it while more pages exist and
// nothing is loading, the next page is requested.
//
// # Search
//
// Typed text is sent to the server 300 ms after the last keystroke. Until
// then the loaded records are filtered locally with the fuzzy index, and
// matched characters in names are highlighted.
//
// # Key Bindings
//
//   - j/k, g/G, pgup/pgdown: move the cursor
//   - /: edit search (enter applies, esc cancels)
//   - t: cycle type filter
//   - s: toggle sort order
//   - l: cycle page size
//   - x: clear all filters
//   - c or space: capture or release the selected Pokémon
//   - r: retry the failed load, or refresh
//   - [ and ]: previous and next page (single-page mode)
//   - T: toggle light/dark theme
//   - ?: help
//   - q or ctrl+c: quit
package ui
