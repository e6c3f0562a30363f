// Package app provides the composition root for the Pokédex client.
//
// # Overview
//
// Run wires configuration, logging, preferences, the API client, the list
// state and the terminal UI, then blocks until the user quits. It is the only
// place where concrete implementations are chosen; every other package takes
// its dependencies as arguments.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        file, .env, POKEDEX_* overrides
//	       ├─────> logging.New()        zap logger writing to the log file
//	       ├─────> prefs.Open() ×2      long-lived and session scopes
//	       ├─────> urlstate.NewStore()  query from --query or the last session
//	       ├─────> NewClient()          paced HTTP client
//	       ├─────> catalog.New()        controller over state.Store
//	       ├─────> StartPoller()        captured-state sync
//	       └─────> ui.Run()             TUI (blocks; mounts the list itself)
//
// On exit the query string and the list offset are written to the session
// scope so the next run reopens the same view.
//
// # Captured Sync
//
// The poller calls SyncCaptured every sync_interval so captures made from
// another client show up. After consecutive failures it waits
// sync_interval·2ⁿ, capped at five minutes, and resets once a sync succeeds.
// A zero interval disables it. The UI shows an offline marker after repeated
// failures.
//
// # Error Handling
//
// Configuration, logging and client setup errors are returned from Run.
// Unreadable preference files degrade to empty stores, and a failed session
// save is only logged.
package app
