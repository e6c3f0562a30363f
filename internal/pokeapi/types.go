package pokeapi

import (
	"strconv"
	"strings"
)

// Pokemon mirrors a single record returned by /api/pokemon.
type Pokemon struct {
	Number         int    `json:"number"`
	Name           string `json:"name"`
	TypeOne        string `json:"type_one"`
	TypeTwo        string `json:"type_two"`
	Total          int    `json:"total"`
	HitPoints      int    `json:"hit_points"`
	Attack         int    `json:"attack"`
	Defense        int    `json:"defense"`
	SpecialAttack  int    `json:"special_attack"`
	SpecialDefense int    `json:"special_defense"`
	Speed          int    `json:"speed"`
	Generation     int    `json:"generation"`
	Legendary      bool   `json:"legendary"`
	Captured       bool   `json:"captured"`
}

// Key identifies a record. Variants share a number, so the name is part of
// the key. The format matches the keys listed by /api/captured.
func (p Pokemon) Key() string {
	return MakeKey(p.Number, p.Name)
}

// Same reports whether p and other are the same catalog entry.
func (p Pokemon) Same(other Pokemon) bool {
	return p.Number == other.Number && p.Name == other.Name
}

// Types returns the non-empty type names in display order.
func (p Pokemon) Types() []string {
	out := make([]string, 0, 2)
	if t := strings.TrimSpace(p.TypeOne); t != "" {
		out = append(out, t)
	}
	if t := strings.TrimSpace(p.TypeTwo); t != "" {
		out = append(out, t)
	}
	return out
}

// MakeKey builds the "number:name" identity key.
func MakeKey(number int, name string) string {
	return strconv.Itoa(number) + ":" + name
}

// Pagination mirrors the pagination block of /api/pokemon.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Shown returns how many records pages 1..Page cover, capped at TotalItems.
func (p Pagination) Shown() int {
	return min(p.Page*p.Limit, p.TotalItems)
}

// ListResponse mirrors /api/pokemon.
type ListResponse struct {
	Data       []Pokemon  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// TypesResponse mirrors /api/pokemon/types.
type TypesResponse struct {
	Types []string `json:"types"`
}

// CapturedResponse mirrors /api/captured.
type CapturedResponse struct {
	Captured []string `json:"captured"`
}

// CaptureResponse mirrors the capture and release endpoints.
type CaptureResponse struct {
	Success  bool   `json:"success"`
	Captured bool   `json:"captured"`
	Key      string `json:"key"`
}

// Query configures /api/pokemon requests. Zero values are omitted.
type Query struct {
	Page   int
	Limit  int
	Sort   string
	Type   string
	Search string
}
