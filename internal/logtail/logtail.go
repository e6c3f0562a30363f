package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"
)

// Read returns the last maxLines lines of the file at path, or every line
// when maxLines <= 0. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	seen := 0
	for scanner.Scan() {
		ring[seen%maxLines] = scanner.Text()
		seen++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if seen <= maxLines {
		return ring[:seen], nil
	}
	start := seen % maxLines
	return append(ring[start:], ring[:start]...), nil
}

// Entry is one parsed log record.
type Entry struct {
	Time    string
	Level   zapcore.Level
	Logger  string
	Caller  string
	Message string
	Fields  string
}

// Parse reads a line written by the console or JSON encoder. It reports false
// for lines that are neither, such as stack trace continuations.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON(trimmed)
	}
	return parseConsole(line)
}

func parseConsole(line string) (Entry, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return Entry{}, false
	}
	lvl, err := zapcore.ParseLevel(parts[1])
	if err != nil {
		return Entry{}, false
	}
	e := Entry{Time: parts[0], Level: lvl}
	rest := parts[2:]
	// Named loggers put the name before the caller.
	if len(rest) > 1 && !isCaller(rest[0]) && isCaller(rest[1]) {
		e.Logger, rest = rest[0], rest[1:]
	}
	if len(rest) > 1 && isCaller(rest[0]) {
		e.Caller, rest = rest[0], rest[1:]
	}
	e.Message = rest[0]
	if len(rest) > 1 {
		e.Fields = strings.Join(rest[1:], " ")
	}
	return e, true
}

func isCaller(s string) bool {
	return strings.Contains(s, ".go:")
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	levelText, _ := raw["level"].(string)
	lvl, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return Entry{}, false
	}
	e := Entry{Level: lvl}
	e.Time, _ = raw["timestamp"].(string)
	e.Logger, _ = raw["logger"].(string)
	e.Caller, _ = raw["caller"].(string)
	e.Message, _ = raw["msg"].(string)
	for _, k := range []string{"level", "timestamp", "logger", "caller", "msg", "stacktrace"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		if b, err := json.Marshal(raw); err == nil {
			e.Fields = string(b)
		}
	}
	return e, true
}

// Filter keeps the lines at or above level. Unparsed lines follow the entry
// they belong to.
func Filter(lines []string, level zapcore.Level) []string {
	var out []string
	keep := false
	for _, line := range lines {
		if e, ok := Parse(line); ok {
			keep = e.Level >= level
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

// Colorizer renders parsed lines with per-level styles.
type Colorizer struct {
	time    lipgloss.Style
	logger  lipgloss.Style
	fields  lipgloss.Style
	detail  lipgloss.Style
	levels  map[zapcore.Level]lipgloss.Style
	unknown lipgloss.Style
}

// NewColorizer builds a Colorizer on r; nil uses the default renderer.
func NewColorizer(r *lipgloss.Renderer) *Colorizer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	level := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return &Colorizer{
		time:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
		logger: r.NewStyle().Foreground(lipgloss.Color("#87AFFF")),
		fields: r.NewStyle().Foreground(lipgloss.Color("#666666")),
		detail: r.NewStyle().Faint(true),
		levels: map[zapcore.Level]lipgloss.Style{
			zapcore.DebugLevel: level("#87CEEB"),
			zapcore.InfoLevel:  level("#5FD75F"),
			zapcore.WarnLevel:  level("#FFD700"),
			zapcore.ErrorLevel: level("#FF6B6B"),
		},
		unknown: level("#FF6B6B"),
	}
}

// Line colorizes one line. Lines that do not parse are rendered faint.
func (c *Colorizer) Line(line string) string {
	e, ok := Parse(line)
	if !ok {
		if strings.TrimSpace(line) == "" {
			return line
		}
		return c.detail.Render(line)
	}
	style, found := c.levels[e.Level]
	if !found {
		style = c.unknown
	}

	parts := make([]string, 0, 5)
	if e.Time != "" {
		parts = append(parts, c.time.Render(e.Time))
	}
	parts = append(parts, style.Render(e.Level.CapitalString()))
	if e.Logger != "" {
		parts = append(parts, c.logger.Render("["+e.Logger+"]"))
	}
	parts = append(parts, e.Message)
	if e.Fields != "" {
		parts = append(parts, c.fields.Render(e.Fields))
	}
	return strings.Join(parts, " ")
}

// Lines colorizes every line.
func (c *Colorizer) Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = c.Line(line)
	}
	return out
}
