package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIBase {
		t.Fatalf("base = %q, want %q", u.String(), defaultAPIBase)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var (
		mu           sync.Mutex
		gotListQuery url.Values
		gotUserAgent string
		gotRequestID string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/pokemon":
			mu.Lock()
			gotListQuery = r.URL.Query()
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(ListResponse{
				Data: []Pokemon{{Number: 4, Name: "Charmander", TypeOne: "Fire", Generation: 1}},
				Pagination: Pagination{
					Page: 2, Limit: 5, TotalItems: 12, TotalPages: 3, HasNext: true, HasPrev: true,
				},
			})
		case "/api/pokemon/types":
			_ = json.NewEncoder(w).Encode(TypesResponse{Types: []string{"Fire", "Water"}})
		case "/api/captured":
			_ = json.NewEncoder(w).Encode(CapturedResponse{Captured: []string{"25:Pikachu"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	resp, err := c.FetchPokemon(ctx, Query{Page: 2, Limit: 5, Sort: "desc", Type: "Fire", Search: " char "})
	if err != nil {
		t.Fatalf("FetchPokemon returned error: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Charmander" {
		t.Fatalf("FetchPokemon data = %#v, want Charmander", resp.Data)
	}
	if !resp.Pagination.HasNext || resp.Pagination.TotalPages != 3 {
		t.Fatalf("FetchPokemon pagination = %#v", resp.Pagination)
	}

	mu.Lock()
	q := gotListQuery
	mu.Unlock()
	if q.Get("page") != "2" ||
		q.Get("limit") != "5" ||
		q.Get("sort") != "desc" ||
		q.Get("type") != "Fire" ||
		q.Get("search") != "char" {
		t.Fatalf("FetchPokemon query = %v, want params encoded", q)
	}

	if _, err := c.FetchPokemon(ctx, Query{}); err != nil {
		t.Fatalf("FetchPokemon(empty) returned error: %v", err)
	}
	mu.Lock()
	q = gotListQuery
	mu.Unlock()
	if len(q) != 0 {
		t.Fatalf("FetchPokemon(empty) query = %v, want no params", q)
	}

	types, err := c.FetchTypes(ctx)
	if err != nil {
		t.Fatalf("FetchTypes returned error: %v", err)
	}
	if len(types) != 2 || types[0] != "Fire" {
		t.Fatalf("FetchTypes = %v, want [Fire Water]", types)
	}

	captured, err := c.FetchCaptured(ctx)
	if err != nil {
		t.Fatalf("FetchCaptured returned error: %v", err)
	}
	if len(captured) != 1 || captured[0] != "25:Pikachu" {
		t.Fatalf("FetchCaptured = %v, want [25:Pikachu]", captured)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(gotUserAgent, "pokedex/") {
		t.Fatalf("User-Agent = %q, want pokedex/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID header missing")
	}
}

func TestClient_CaptureAndReleaseEscapeNames(t *testing.T) {
	t.Parallel()

	type call struct {
		method string
		uri    string
		path   string
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, call{method: r.Method, uri: r.RequestURI, path: r.URL.Path})
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(CaptureResponse{Success: true})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := c.Capture(context.Background(), 122, "Mr. Mime"); err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if err := c.Release(context.Background(), 999, "Type/Null"); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if calls[0].method != http.MethodPost || calls[0].uri != "/api/pokemon/122/Mr.%20Mime/capture" {
		t.Fatalf("capture call = %+v, want POST with escaped name", calls[0])
	}
	if calls[0].path != "/api/pokemon/122/Mr. Mime/capture" {
		t.Fatalf("capture path = %q, want decoded name", calls[0].path)
	}
	if calls[1].method != http.MethodDelete || calls[1].uri != "/api/pokemon/999/Type%2FNull/capture" {
		t.Fatalf("release call = %+v, want DELETE with escaped slash", calls[1])
	}
}

func TestClient_HTTPErrorsUseFixedMessages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/pokemon":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/pokemon/types":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.FetchPokemon(ctx, Query{})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchPokemon error = %v, want decode response error", err)
	}

	_, err = c.FetchTypes(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("FetchTypes error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if got := err.Error(); got != "failed to fetch pokemon types: Internal Server Error" {
		t.Fatalf("FetchTypes error = %q", got)
	}

	cases := []struct {
		name string
		call func() error
		want string
	}{
		{"capture", func() error { return c.Capture(ctx, 25, "Pikachu") }, OpCapture},
		{"release", func() error { return c.Release(ctx, 25, "Pikachu") }, OpRelease},
		{"captured", func() error { _, err := c.FetchCaptured(ctx); return err }, OpFetchCaptured},
	}
	for _, tc := range cases {
		err := tc.call()
		if err == nil || !strings.HasPrefix(err.Error(), tc.want+": ") {
			t.Fatalf("%s error = %v, want prefix %q", tc.name, err, tc.want)
		}
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchPokemon(context.Background(), Query{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("FetchPokemon on nil = %v, want ErrNilClient", err)
	}
	if err := c.Capture(context.Background(), 1, "Bulbasaur"); !errors.Is(err, ErrNilClient) {
		t.Fatalf("Capture on nil = %v, want ErrNilClient", err)
	}
}

func TestClient_IconURL(t *testing.T) {
	c, err := NewClient("http://poke.example:8080/ignored")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.IconURL(25); got != "http://poke.example:8080/icon/25" {
		t.Fatalf("IconURL = %q", got)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", WithRateLimit(0.001, 1))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	// Drain the single burst token.
	c.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.FetchTypes(ctx)
	if err == nil || !strings.Contains(err.Error(), "rate limiter") {
		t.Fatalf("FetchTypes error = %v, want rate limiter error", err)
	}
}

func TestPokemonKeyAndTypes(t *testing.T) {
	p := Pokemon{Number: 6, Name: "Charizard", TypeOne: "Fire", TypeTwo: "Flying"}
	if p.Key() != "6:Charizard" {
		t.Fatalf("Key = %q", p.Key())
	}
	if got := p.Types(); len(got) != 2 || got[1] != "Flying" {
		t.Fatalf("Types = %v", got)
	}
	single := Pokemon{Number: 4, Name: "Charmander", TypeOne: "Fire"}
	if got := single.Types(); len(got) != 1 {
		t.Fatalf("Types = %v, want single type", got)
	}
	if !p.Same(Pokemon{Number: 6, Name: "Charizard"}) || p.Same(Pokemon{Number: 6, Name: "Mega Charizard X"}) {
		t.Fatalf("Same mismatched variants")
	}
}

func TestPagination_Shown(t *testing.T) {
	if got := (Pagination{Page: 3, Limit: 10, TotalItems: 25}).Shown(); got != 25 {
		t.Fatalf("Shown = %d, want 25", got)
	}
	if got := (Pagination{Page: 1, Limit: 10, TotalItems: 25}).Shown(); got != 10 {
		t.Fatalf("Shown = %d, want 10", got)
	}
}
