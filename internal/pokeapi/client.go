package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Catalog defines the API surface the rest of the application depends on.
// This interface is implemented by *Client and can be used for testing.
type Catalog interface {
	FetchPokemon(ctx context.Context, query Query) (ListResponse, error)
	FetchTypes(ctx context.Context) ([]string, error)
	Capture(ctx context.Context, number int, name string) error
	Release(ctx context.Context, number int, name string) error
	FetchCaptured(ctx context.Context) ([]string, error)
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// ErrNilClient is returned when a method is called on a nil *Client.
var ErrNilClient = errors.New("client is nil")

// Operation labels used in APIError messages.
const (
	OpFetchPokemon  = "failed to fetch pokemon"
	OpFetchTypes    = "failed to fetch pokemon types"
	OpCapture       = "failed to capture pokemon"
	OpRelease       = "failed to release pokemon"
	OpFetchCaptured = "failed to fetch captured pokemon"
)

// APIError reports a non-success HTTP status from the server.
type APIError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	text := strings.TrimSpace(e.Status)
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, text)
}

// Client talks to the Pokédex HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
	userAgent string
}

const (
	defaultAPIBase   = "http://127.0.0.1:8080"
	defaultUserAgent = "pokedex/0.1"
	requestTimeout   = 5 * time.Second
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit paces outgoing requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API rooted at apiBase.
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		logger:    zap.NewNop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchPokemon retrieves one page of the filtered, sorted catalog.
func (c *Client) FetchPokemon(ctx context.Context, query Query) (ListResponse, error) {
	if c == nil {
		return ListResponse{}, ErrNilClient
	}
	values := url.Values{}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if sort := strings.TrimSpace(query.Sort); sort != "" {
		values.Set("sort", sort)
	}
	if typ := strings.TrimSpace(query.Type); typ != "" {
		values.Set("type", typ)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	rel := &url.URL{Path: "/api/pokemon", RawQuery: values.Encode()}
	var payload ListResponse
	if err := c.doURL(ctx, OpFetchPokemon, http.MethodGet, rel, &payload); err != nil {
		return ListResponse{}, err
	}
	return payload, nil
}

// FetchTypes retrieves every distinct type name.
func (c *Client) FetchTypes(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload TypesResponse
	if err := c.do(ctx, OpFetchTypes, http.MethodGet, "/api/pokemon/types", &payload); err != nil {
		return nil, err
	}
	return payload.Types, nil
}

// Capture marks a record as captured.
func (c *Client) Capture(ctx context.Context, number int, name string) error {
	if c == nil {
		return ErrNilClient
	}
	return c.doURL(ctx, OpCapture, http.MethodPost, capturePath(number, name), nil)
}

// Release clears the captured mark of a record.
func (c *Client) Release(ctx context.Context, number int, name string) error {
	if c == nil {
		return ErrNilClient
	}
	return c.doURL(ctx, OpRelease, http.MethodDelete, capturePath(number, name), nil)
}

// FetchCaptured lists the keys of every captured record.
func (c *Client) FetchCaptured(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload CapturedResponse
	if err := c.do(ctx, OpFetchCaptured, http.MethodGet, "/api/captured", &payload); err != nil {
		return nil, err
	}
	return payload.Captured, nil
}

// IconURL returns the absolute URL of a record's sprite.
func (c *Client) IconURL(number int) string {
	if c == nil {
		return ""
	}
	return c.baseURL.ResolveReference(&url.URL{Path: "/icon/" + strconv.Itoa(number)}).String()
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

func capturePath(number int, name string) *url.URL {
	escaped := url.PathEscape(name)
	return &url.URL{
		Path:    fmt.Sprintf("/api/pokemon/%d/%s/capture", number, name),
		RawPath: fmt.Sprintf("/api/pokemon/%d/%s/capture", number, escaped),
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, op, method, rel, dest)
}

func (c *Client) doURL(ctx context.Context, op, method string, rel *url.URL, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("url", reqURL.String()),
			zap.Error(err))
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request finished",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", reqURL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Status: statusText(resp)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusText strips the numeric prefix net/http puts in front of the reason phrase.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", apiBase)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
