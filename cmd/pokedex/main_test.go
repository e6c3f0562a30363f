package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
)

type fakeServer struct {
	mu       sync.Mutex
	pages    []int
	captured map[string]bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{captured: map[string]bool{"25:Pikachu": true, "1:Bulbasaur": true}}
	all := []pokeapi.Pokemon{
		{Number: 1, Name: "Bulbasaur", TypeOne: "Grass", TypeTwo: "Poison", HitPoints: 45, Attack: 49, Defense: 49, Speed: 45, Generation: 1},
		{Number: 4, Name: "Charmander", TypeOne: "Fire", HitPoints: 39, Attack: 52, Defense: 43, Speed: 65, Generation: 1},
		{Number: 7, Name: "Squirtle", TypeOne: "Water", HitPoints: 44, Attack: 48, Defense: 65, Speed: 43, Generation: 1},
		{Number: 25, Name: "Pikachu", TypeOne: "Electric", HitPoints: 35, Attack: 55, Defense: 40, Speed: 90, Generation: 1},
		{Number: 150, Name: "Mewtwo", TypeOne: "Psychic", HitPoints: 106, Attack: 110, Defense: 90, Speed: 130, Generation: 1, Legendary: true},
		{Number: 151, Name: "Mew", TypeOne: "Psychic", HitPoints: 100, Attack: 100, Defense: 100, Speed: 100, Generation: 1},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pokemon", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		var filtered []pokeapi.Pokemon
		for _, p := range all {
			if typ := q.Get("type"); typ != "" && p.TypeOne != typ && p.TypeTwo != typ {
				continue
			}
			if s := strings.ToLower(q.Get("search")); s != "" && !strings.Contains(strings.ToLower(p.Name), s) {
				continue
			}
			filtered = append(filtered, p)
		}
		start := min((page-1)*limit, len(filtered))
		end := min(start+limit, len(filtered))
		fs.mu.Lock()
		fs.pages = append(fs.pages, page)
		fs.mu.Unlock()
		writeJSON(w, pokeapi.ListResponse{
			Data: filtered[start:end],
			Pagination: pokeapi.Pagination{
				Page:       page,
				Limit:      limit,
				TotalItems: len(filtered),
				TotalPages: (len(filtered) + limit - 1) / limit,
				HasNext:    end < len(filtered),
				HasPrev:    page > 1,
			},
		})
	})
	mux.HandleFunc("GET /api/pokemon/types", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, pokeapi.TypesResponse{Types: []string{"Electric", "Fire", "Grass"}})
	})
	mux.HandleFunc("GET /api/captured", func(w http.ResponseWriter, _ *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		keys := make([]string, 0, len(fs.captured))
		for k := range fs.captured {
			keys = append(keys, k)
		}
		writeJSON(w, pokeapi.CapturedResponse{Captured: keys})
	})
	mux.HandleFunc("/api/pokemon/{number}/{name}/capture", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("number") + ":" + r.PathValue("name")
		capture := r.Method == http.MethodPost
		fs.mu.Lock()
		if capture {
			fs.captured[key] = true
		} else {
			delete(fs.captured, key)
		}
		fs.mu.Unlock()
		writeJSON(w, pokeapi.CaptureResponse{Success: true, Captured: capture, Key: key})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("POKEDEX_API_BASE", srv.URL)
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return fs
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.toml")))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListCommand(t *testing.T) {
	newFakeServer(t)

	out, _, err := execute(t, "list", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Bulbasaur")
	assert.Contains(t, out, "Grass/Poison")
	assert.Contains(t, out, "Mewtwo")
	assert.NotContains(t, out, "151")
	assert.Contains(t, out, "Showing 5 of 6 Pokemon")
}

func TestListCommandAllFollowsPages(t *testing.T) {
	fs := newFakeServer(t)

	out, _, err := execute(t, "list", "--limit", "5", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "151")
	assert.Contains(t, out, "Showing 6 of 6 Pokemon")

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Equal(t, []int{1, 2}, fs.pages)
}

func TestListCommandFilters(t *testing.T) {
	newFakeServer(t)

	out, _, err := execute(t, "list", "--type", "Fire")
	require.NoError(t, err)
	assert.Contains(t, out, "Charmander")
	assert.NotContains(t, out, "Bulbasaur")

	out, _, err = execute(t, "list", "--search", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "No Pokemon found\n", out)
}

func TestListCommandRejectsInvalidFlags(t *testing.T) {
	newFakeServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"limit", []string{"list", "--limit", "7"}, "invalid --limit 7"},
		{"sort", []string{"list", "--sort", "sideways"}, `invalid --sort "sideways"`},
		{"page", []string{"list", "--page", "0"}, "invalid --page 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTypesCommand(t *testing.T) {
	newFakeServer(t)

	out, _, err := execute(t, "types")
	require.NoError(t, err)
	assert.Equal(t, "Electric\nFire\nGrass\n", out)
}

func TestCaptureReleaseAndCaptured(t *testing.T) {
	fs := newFakeServer(t)

	out, _, err := execute(t, "captured")
	require.NoError(t, err)
	assert.Equal(t, "1:Bulbasaur\n25:Pikachu\n", out)

	out, _, err = execute(t, "capture", "4", "Charmander")
	require.NoError(t, err)
	assert.Equal(t, "captured 4:Charmander\n", out)

	out, _, err = execute(t, "release", "25", "Pikachu")
	require.NoError(t, err)
	assert.Equal(t, "released 25:Pikachu\n", out)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Equal(t, map[string]bool{"1:Bulbasaur": true, "4:Charmander": true}, fs.captured)
}

func TestCaptureRejectsBadNumber(t *testing.T) {
	newFakeServer(t)

	_, _, err := execute(t, "capture", "abc", "Pikachu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid number "abc"`)

	_, _, err = execute(t, "release", "25")
	require.Error(t, err)
}

func TestIconCommand(t *testing.T) {
	newFakeServer(t)

	out, _, err := execute(t, "icon", "25")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "/icon/25\n"), "got %q", out)
}

func TestLogsCommand(t *testing.T) {
	newFakeServer(t)
	logFile := filepath.Join(t.TempDir(), "pokedex.log")
	t.Setenv("POKEDEX_LOG_FILE", logFile)
	content := strings.Join([]string{
		"2026-10-19T10:00:00.000Z\tDEBUG\tapp/app.go:1\tnoise",
		"2026-10-19T10:00:01.000Z\tWARN\tapp/poller.go:2\tcaptured sync failed",
		"2026-10-19T10:00:02.000Z\tINFO\tapp/app.go:3\tstarting pokedex",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(logFile, []byte(content), 0o644))

	out, _, err := execute(t, "logs", "--level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "captured sync failed")
	assert.NotContains(t, out, "noise")
	assert.NotContains(t, out, "starting pokedex")

	out, _, err = execute(t, "logs", "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "starting pokedex")

	_, _, err = execute(t, "logs", "--level", "loud")
	require.Error(t, err)
}
