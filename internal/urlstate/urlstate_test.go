package urlstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndValidation(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want State
	}{
		{"empty", "", Default()},
		{"leading question mark", "?page=3&limit=20&sort=desc", State{Page: 3, Limit: 20, Sort: SortDesc}},
		{"full url", "http://localhost:5173/?type=Fire&search=char#top", State{Page: 1, Limit: 10, Sort: SortAsc, Type: "Fire", Search: "char"}},
		{"url without query", "http://localhost:5173/", Default()},
		{"invalid limit", "limit=7", Default()},
		{"non numeric limit", "limit=ten", Default()},
		{"invalid sort", "sort=sideways", Default()},
		{"uppercase sort rejected", "sort=DESC", Default()},
		{"zero page", "page=0", Default()},
		{"negative page", "page=-4", Default()},
		{"garbage page", "page=abc", Default()},
		{"valid limit 5", "limit=5", State{Page: 1, Limit: 5, Sort: SortAsc}},
		{"encoded search", "search=mr.%20mime", State{Page: 1, Limit: 10, Sort: SortAsc, Search: "mr. mime"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.raw))
		})
	}
}

func TestParse_EveryInvalidCombinationFallsBack(t *testing.T) {
	limits := []string{"", "0", "5", "10", "15", "20", "25", "x"}
	sorts := []string{"", "asc", "desc", "up", "ASC"}
	for _, l := range limits {
		for _, s := range sorts {
			st := Parse("limit=" + l + "&sort=" + s)
			assert.True(t, IsValidPageSize(st.Limit), "limit=%q produced %d", l, st.Limit)
			_, ok := ParseSort(string(st.Sort))
			assert.True(t, ok, "sort=%q produced %q", s, st.Sort)
		}
	}
}

func TestState_EncodeOmitsDefaults(t *testing.T) {
	assert.Equal(t, "", Default().Encode())
	assert.Equal(t, "?", Default().String())

	st := State{Page: 2, Limit: 20, Sort: SortDesc, Type: "Water", Search: "squ"}
	assert.Equal(t, "limit=20&page=2&search=squ&sort=desc&type=Water", st.Encode())
	assert.Equal(t, st, Parse(st.String()))

	st = State{Page: 1, Limit: 10, Sort: SortAsc, Type: "Grass"}
	assert.Equal(t, "type=Grass", st.Encode())
}

func TestStore_FilterSettersResetPage(t *testing.T) {
	setters := map[string]func(*Store) (State, bool){
		"limit":  func(s *Store) (State, bool) { return s.SetLimit(20) },
		"sort":   func(s *Store) (State, bool) { return s.SetSort(SortDesc) },
		"type":   func(s *Store) (State, bool) { return s.SetType("Fire") },
		"search": func(s *Store) (State, bool) { return s.SetSearch("pika") },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			s := NewStore("page=4&type=Water&search=x")
			st, changed := set(s)
			require.True(t, changed)
			assert.Equal(t, 1, st.Page)
			assert.NotContains(t, s.Query(), "page=")
		})
	}
}

func TestStore_SetPageKeepsFilters(t *testing.T) {
	s := NewStore("limit=5&sort=desc&type=Fire&search=char")
	st, changed := s.SetPage(3)
	require.True(t, changed)
	assert.Equal(t, State{Page: 3, Limit: 5, Sort: SortDesc, Type: "Fire", Search: "char"}, st)

	st, changed = s.SetPage(0)
	require.True(t, changed)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, "limit=5&search=char&sort=desc&type=Fire", s.Query())
}

func TestStore_SetPageForSkipsChangedFilters(t *testing.T) {
	s := NewStore("type=Fire")
	loaded := s.State()

	st, ok := s.SetPageFor(loaded, 2)
	require.True(t, ok)
	assert.Equal(t, 2, st.Page)

	s.SetType("Water")
	st, ok = s.SetPageFor(loaded, 3)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, "type=Water", s.Query())
}

func TestStore_DefaultValuesAreDeleted(t *testing.T) {
	s := NewStore("limit=20&sort=desc&type=Fire")

	_, changed := s.SetLimit(DefaultLimit)
	require.True(t, changed)
	_, changed = s.SetSort(SortAsc)
	require.True(t, changed)
	_, changed = s.SetType("")
	require.True(t, changed)

	assert.Equal(t, "", s.Query())
	assert.Equal(t, Default(), s.State())
}

func TestStore_InvalidSetterInputNormalised(t *testing.T) {
	s := NewStore("limit=20")
	st, _ := s.SetLimit(7)
	assert.Equal(t, DefaultLimit, st.Limit)
	assert.Equal(t, "", s.Query())

	st, _ = s.SetSort("sideways")
	assert.Equal(t, SortAsc, st.Sort)
}

func TestStore_UnchangedReportsFalse(t *testing.T) {
	s := NewStore("type=Fire")
	_, changed := s.SetType("Fire")
	assert.False(t, changed)
	_, changed = s.SetPage(1)
	assert.False(t, changed)
}

func TestStore_KeepsUnknownParamsUntilReset(t *testing.T) {
	s := NewStore("?utm=share&type=Fire")
	_, _ = s.SetSearch("char")
	assert.Equal(t, "search=char&type=Fire&utm=share", s.Query())

	st, changed := s.Reset()
	require.True(t, changed)
	assert.Equal(t, Default(), st)
	assert.Equal(t, "", s.Query())

	_, changed = s.Reset()
	assert.False(t, changed)
}

func TestSortOrder_Toggle(t *testing.T) {
	assert.Equal(t, SortDesc, SortAsc.Toggle())
	assert.Equal(t, SortAsc, SortDesc.Toggle())
}

func TestState_SameFilters(t *testing.T) {
	a := State{Page: 1, Limit: 10, Sort: SortAsc, Type: "Fire"}
	b := a
	b.Page = 7
	assert.True(t, a.SameFilters(b))
	b.Search = "x"
	assert.False(t, a.SameFilters(b))
}
