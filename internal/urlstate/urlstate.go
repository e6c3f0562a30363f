// Package urlstate derives the catalog's filter and pagination state from a
// URL query string and writes changes back in minimal form.
//
// The query string is the application's shareable state: it is accepted on the
// command line, shown in the header and saved across restarts. Parameters equal
// to their default are never written, so the default view encodes as "".
package urlstate

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// SortOrder orders records by number.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query parameter names.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSort   = "sort"
	ParamType   = "type"
	ParamSearch = "search"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = SortAsc
)

// ValidPageSizes lists the accepted limit values in display order.
var ValidPageSizes = []int{5, 10, 20}

// State is the typed view of the query string.
type State struct {
	Page   int
	Limit  int
	Sort   SortOrder
	Type   string
	Search string
}

// Default returns the state of an empty query string.
func Default() State {
	return State{Page: DefaultPage, Limit: DefaultLimit, Sort: DefaultSort}
}

// IsValidPageSize reports whether n is one of ValidPageSizes.
func IsValidPageSize(n int) bool {
	return slices.Contains(ValidPageSizes, n)
}

// ParseSort returns the sort order named by s, or false when s is not asc/desc.
func ParseSort(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case SortAsc, SortDesc:
		return SortOrder(s), true
	}
	return "", false
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Parse derives a State from raw. It accepts a bare query ("page=2"), a query
// with its leading "?", or a full URL. Invalid values fall back to defaults.
func Parse(raw string) State {
	return FromValues(parseValues(raw))
}

// FromValues derives a State from already-parsed parameters.
func FromValues(v url.Values) State {
	st := Default()

	if page, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamPage))); err == nil && page > 0 {
		st.Page = page
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamLimit))); err == nil && IsValidPageSize(limit) {
		st.Limit = limit
	}
	if sort, ok := ParseSort(v.Get(ParamSort)); ok {
		st.Sort = sort
	}
	st.Type = v.Get(ParamType)
	st.Search = v.Get(ParamSearch)
	return st
}

// Values encodes s, omitting every parameter equal to its default.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Page > DefaultPage {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.Limit != DefaultLimit && IsValidPageSize(s.Limit) {
		v.Set(ParamLimit, strconv.Itoa(s.Limit))
	}
	if s.Sort == SortDesc {
		v.Set(ParamSort, string(s.Sort))
	}
	if s.Type != "" {
		v.Set(ParamType, s.Type)
	}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	return v
}

// Encode returns the minimal query string for s, without a leading "?".
func (s State) Encode() string {
	return s.Values().Encode()
}

// String renders s the way it would appear after a URL path.
func (s State) String() string {
	if q := s.Encode(); q != "" {
		return "?" + q
	}
	return "?"
}

// SameFilters reports whether s and other differ only in Page.
func (s State) SameFilters(other State) bool {
	return s.Limit == other.Limit &&
		s.Sort == other.Sort &&
		s.Type == other.Type &&
		s.Search == other.Search
}

// HasActiveFilters reports whether a type or search filter is set.
func (s State) HasActiveFilters() bool {
	return s.Type != "" || s.Search != ""
}

// Store holds the current query parameters. Unknown parameters are kept so a
// round trip through the store never drops them. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values url.Values
}

// NewStore builds a Store from a raw query string or URL.
func NewStore(raw string) *Store {
	return &Store{values: parseValues(raw)}
}

// State returns the typed view of the current parameters.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FromValues(s.values)
}

// Query returns the current query string without a leading "?".
func (s *Store) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Encode()
}

// SetPage writes the page number. Other parameters are untouched.
func (s *Store) SetPage(page int) (State, bool) {
	if page < 1 {
		page = DefaultPage
	}
	return s.update(map[string]string{ParamPage: strconv.Itoa(page)})
}

// SetPageFor writes the page number only while the current filters still
// match filters. It reports false, changing nothing, once they differ.
func (s *Store) SetPageFor(filters State, page int) (State, bool) {
	if page < 1 {
		page = DefaultPage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !FromValues(s.values).SameFilters(filters) {
		return FromValues(s.values), false
	}
	st, _ := s.updateLocked(map[string]string{ParamPage: strconv.Itoa(page)})
	return st, true
}

// SetLimit writes the page size and resets the page.
func (s *Store) SetLimit(limit int) (State, bool) {
	if !IsValidPageSize(limit) {
		limit = DefaultLimit
	}
	return s.update(map[string]string{ParamLimit: strconv.Itoa(limit), ParamPage: ""})
}

// SetSort writes the sort order and resets the page.
func (s *Store) SetSort(order SortOrder) (State, bool) {
	if _, ok := ParseSort(string(order)); !ok {
		order = DefaultSort
	}
	return s.update(map[string]string{ParamSort: string(order), ParamPage: ""})
}

// SetType writes the type filter and resets the page.
func (s *Store) SetType(typ string) (State, bool) {
	return s.update(map[string]string{ParamType: typ, ParamPage: ""})
}

// SetSearch writes the search term and resets the page.
func (s *Store) SetSearch(search string) (State, bool) {
	return s.update(map[string]string{ParamSearch: search, ParamPage: ""})
}

// Reset clears every parameter.
func (s *Store) Reset() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := len(s.values) > 0
	s.values = url.Values{}
	return FromValues(s.values), changed
}

// update applies key/value pairs, deleting keys whose value is empty or the
// default. It reports whether the encoded query changed.
func (s *Store) update(updates map[string]string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(updates)
}

func (s *Store) updateLocked(updates map[string]string) (State, bool) {
	if s.values == nil {
		s.values = url.Values{}
	}
	before := s.values.Encode()
	for key, value := range updates {
		if value == "" || isDefault(key, value) {
			s.values.Del(key)
			continue
		}
		s.values.Set(key, value)
	}
	return FromValues(s.values), before != s.values.Encode()
}

func isDefault(key, value string) bool {
	switch key {
	case ParamPage:
		return value == strconv.Itoa(DefaultPage)
	case ParamLimit:
		return value == strconv.Itoa(DefaultLimit)
	case ParamSort:
		return value == string(DefaultSort)
	}
	return false
}

func parseValues(raw string) url.Values {
	trimmed := strings.TrimSpace(raw)
	if i := strings.IndexByte(trimmed, '#'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[i+1:]
	} else if strings.Contains(trimmed, "://") {
		return url.Values{}
	}
	// ParseQuery keeps every pair it could decode, so the error is not fatal.
	v, _ := url.ParseQuery(trimmed)
	return v
}
