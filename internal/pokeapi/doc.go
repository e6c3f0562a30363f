// Package pokeapi provides an HTTP client for the Pokédex catalog API.
//
// # Overview
//
// The package defines the client used by both the TUI and the CLI subcommands.
// It handles HTTP communication, JSON decoding, and the typed representation of
// catalog records and pagination metadata.
//
//   - client.go: HTTP client, request pacing, and error translation
//   - types.go: Data structures mirroring the API schema
//
// # Client Usage
//
//	client, err := pokeapi.NewClient("http://127.0.0.1:8080",
//		pokeapi.WithTimeout(5*time.Second),
//		pokeapi.WithRateLimit(10, 5),
//	)
//	if err != nil {
//		return err
//	}
//
//	page, err := client.FetchPokemon(ctx, pokeapi.Query{Page: 1, Limit: 10, Sort: "asc"})
//
// # API Endpoints
//
//   - GET    /api/pokemon?page&limit&sort&type&search: one page of records plus pagination
//   - GET    /api/pokemon/types: distinct type names
//   - POST   /api/pokemon/{number}/{name}/capture: mark captured
//   - DELETE /api/pokemon/{number}/{name}/capture: release
//   - GET    /api/captured: keys ("number:name") of captured records
//   - GET    /icon/{number}: sprite image (exposed as a URL only)
//
// The name path segment is percent-encoded so names with spaces, apostrophes,
// symbols or slashes reach the server intact.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Wait on a token-bucket limiter when one is configured
//   - Set Accept, User-Agent (pokedex/0.1) and a fresh X-Request-ID
//   - Are logged at debug level with their request id, status and latency
//
// # Error Handling
//
// A status of 400 or above becomes an *APIError whose message is fixed per
// endpoint ("failed to fetch pokemon: Internal Server Error"). Transport and
// decoding failures are wrapped with context ("execute request: ...",
// "decode response: ..."). Callers use errors.As to tell them apart.
//
// # Testing
//
// Consumers depend on the Catalog interface rather than *Client, so tests can
// substitute in-memory fakes. The client itself is tested against httptest servers.
package pokeapi
