// Package search implements client-side approximate search over catalog records.
//
// Each record is indexed by weighted fields (name, both types, number and
// generation). A field matches when some substring of it is within a bounded
// number of edits of the query, so "chrmander" still finds Charmander and
// "char" matches anywhere in the name. Matches are ranked by a weighted score
// combined across the fields that matched.
package search

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
)

const (
	// DefaultThreshold is the highest accepted score (edits per query rune).
	DefaultThreshold = 0.4
	// DefaultMinMatchLength is the shortest query, in runes, that can match.
	DefaultMinMatchLength = 2

	// minScore keeps inexact matches from collapsing to a perfect score.
	minScore = 0.001
)

// Key names a searchable field and its relative weight.
type Key struct {
	Name   string
	Weight float64
	Value  func(pokeapi.Pokemon) string
}

// DefaultKeys are the weighted fields used by the catalog view.
var DefaultKeys = []Key{
	{Name: "name", Weight: 0.4, Value: func(p pokeapi.Pokemon) string { return p.Name }},
	{Name: "type_one", Weight: 0.25, Value: func(p pokeapi.Pokemon) string { return p.TypeOne }},
	{Name: "type_two", Weight: 0.25, Value: func(p pokeapi.Pokemon) string { return p.TypeTwo }},
	{Name: "number", Weight: 0.05, Value: func(p pokeapi.Pokemon) string { return strconv.Itoa(p.Number) }},
	{Name: "generation", Weight: 0.05, Value: func(p pokeapi.Pokemon) string { return strconv.Itoa(p.Generation) }},
}

// Options tune an Index. Zero values select the defaults.
type Options struct {
	Keys           []Key
	Threshold      float64
	MinMatchLength int
}

// Result is a single ranked match.
type Result struct {
	Item  pokeapi.Pokemon
	Index int      // position in the indexed slice
	Score float64  // 0 is a perfect match
	Keys  []string // names of the fields that matched
}

type field struct {
	key  int
	text []rune
	norm float64
}

// Index is an immutable search index over a record slice.
type Index struct {
	records   []pokeapi.Pokemon
	fields    [][]field
	keys      []Key
	threshold float64
	minLen    int
}

// NewIndex indexes records. The slice is copied.
func NewIndex(records []pokeapi.Pokemon, opts ...Options) *Index {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if len(o.Keys) == 0 {
		o.Keys = DefaultKeys
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MinMatchLength <= 0 {
		o.MinMatchLength = DefaultMinMatchLength
	}

	ix := &Index{
		records:   append([]pokeapi.Pokemon(nil), records...),
		keys:      normalizeWeights(o.Keys),
		threshold: o.Threshold,
		minLen:    o.MinMatchLength,
	}
	ix.fields = make([][]field, len(ix.records))
	for i, rec := range ix.records {
		for k, key := range ix.keys {
			value := strings.ToLower(strings.TrimSpace(key.Value(rec)))
			if value == "" {
				continue
			}
			ix.fields[i] = append(ix.fields[i], field{
				key:  k,
				text: []rune(value),
				norm: fieldNorm(value),
			})
		}
	}
	return ix
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Search returns the records matching term, best first. A blank term returns
// nil; callers wanting the unfiltered list should use Filter.
func (ix *Index) Search(term string) []Result {
	pattern := strings.ToLower(strings.TrimSpace(term))
	if pattern == "" || utf8.RuneCountInString(pattern) < ix.minLen {
		return nil
	}
	pr := []rune(pattern)

	var results []Result
	for i, fields := range ix.fields {
		total := 1.0
		var matched []string
		for _, f := range fields {
			score, ok := ix.matchField(pr, f.text)
			if !ok {
				continue
			}
			key := ix.keys[f.key]
			if score == 0 {
				score = epsilon
			}
			total *= math.Pow(score, key.Weight*f.norm)
			matched = append(matched, key.Name)
		}
		if len(matched) == 0 {
			continue
		}
		results = append(results, Result{
			Item:  ix.records[i],
			Index: i,
			Score: total,
			Keys:  matched,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score < results[b].Score
		}
		return results[a].Index < results[b].Index
	})
	return results
}

// Filter returns the records matching term in rank order. When enabled is
// false or term is blank the input is returned unchanged.
func Filter(records []pokeapi.Pokemon, term string, enabled bool) []pokeapi.Pokemon {
	if !enabled || strings.TrimSpace(term) == "" {
		return records
	}
	results := NewIndex(records).Search(term)
	out := make([]pokeapi.Pokemon, 0, len(results))
	for _, r := range results {
		out = append(out, r.Item)
	}
	return out
}

// matchField scores pattern against text. An identical text scores 0; any other
// match scores the fewest edits needed to turn pattern into some substring of
// text, divided by the pattern length.
func (ix *Index) matchField(pattern, text []rune) (float64, bool) {
	if string(pattern) == string(text) {
		return 0, true
	}
	maxErrors := int(math.Floor(ix.threshold * float64(len(pattern))))
	errors := substringDistance(pattern, text)
	if errors > maxErrors || errors >= len(pattern) {
		return 0, false
	}
	return math.Max(minScore, float64(errors)/float64(len(pattern))), true
}

// epsilon is the weight given to a perfect field match so it still
// dominates the product without zeroing it.
const epsilon = 2.220446049250313e-16

// substringDistance returns the minimum edit distance between pattern and any
// substring of text. Leading and trailing text is free. It returns early once
// the best alignment found is exact.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := range prev {
		prev[i] = i
	}
	best := prev[m]
	for j := 1; j <= len(text); j++ {
		cur[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			cur[i] = min(prev[i-1]+cost, prev[i]+1, cur[i-1]+1)
		}
		best = min(best, cur[m])
		if best == 0 {
			return 0
		}
		prev, cur = cur, prev
	}
	return best
}

// fieldNorm shortens long multi-word fields' influence: 1/sqrt(words),
// rounded to three decimals.
func fieldNorm(value string) float64 {
	tokens := len(strings.Fields(value))
	if tokens == 0 {
		tokens = 1
	}
	return math.Round(1/math.Sqrt(float64(tokens))*1000) / 1000
}

func normalizeWeights(keys []Key) []Key {
	var total float64
	for _, k := range keys {
		total += max(k.Weight, 0)
	}
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = k
		if total > 0 {
			out[i].Weight = max(k.Weight, 0) / total
		} else {
			out[i].Weight = 1 / float64(len(keys))
		}
	}
	return out
}
