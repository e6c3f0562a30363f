// Package config loads the Pokédex client configuration.
//
// # Overview
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults
//  2. A TOML file, ~/.config/pokedex/config.toml unless a path is given
//  3. POKEDEX_* environment variables, optionally provided by a .env file in
//     the working directory
//
// A missing config file is not an error. Out-of-range values (a zero timeout,
// a negative burst, an unknown log format) fall back to their defaults.
//
// # Default Values
//
//   - api_base: http://127.0.0.1:8080
//   - request_timeout: 5s
//   - requests_per_second: 10, burst: 5
//   - sync_interval: 30s (0 disables background captured-state sync)
//   - log_level: info, log_format: console
//   - log_file: ~/.local/state/pokedex/pokedex.log
//   - session_dir: empty, meaning $XDG_RUNTIME_DIR/pokedex or the temp dir
//
// # TOML Format
//
//	api_base = "http://pokedex.lan:8080"
//	request_timeout = "3s"
//	requests_per_second = 20
//	burst = 10
//	sync_interval = "1m"
//	log_level = "debug"
//	log_format = "json"
//
// Durations use Go duration syntax. Tilde paths are expanded.
//
// # Environment
//
//	POKEDEX_API_BASE, POKEDEX_REQUEST_TIMEOUT, POKEDEX_REQUESTS_PER_SECOND,
//	POKEDEX_BURST, POKEDEX_SYNC_INTERVAL, POKEDEX_LOG_LEVEL,
//	POKEDEX_LOG_FORMAT, POKEDEX_LOG_FILE, POKEDEX_SESSION_DIR
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and malformed durations
//   - Environment values that cannot be parsed into their field type
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	client, err := pokeapi.NewClient(cfg.APIBase,
//		pokeapi.WithTimeout(cfg.RequestTimeout),
//		pokeapi.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
//	)
//
// The package keeps no global state; Load returns a value that callers pass on.
package config
