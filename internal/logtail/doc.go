// Package logtail reads the tail of the Pokédex log file for display.
//
// Read keeps a ring of the last N lines, so memory stays bounded however large
// the file grows. A missing file is not an error; the TUI may simply not have
// run yet.
//
// Parse understands both encodings the logging package writes:
//
//	2026-10-19T10:04:05.123Z	WARN	api	pokeapi/client.go:250	request failed	{"status": 502}
//	{"level":"warn","timestamp":"2026-10-19T10:04:05.123Z","logger":"api","msg":"request failed","status":502}
//
// Filter drops entries below a level. Lines that do not parse, such as stack
// traces, travel with the entry above them. Colorizer renders entries with
// lipgloss styles chosen by level.
package logtail
