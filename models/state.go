package models

import (
	"encoding/json"
	"strings"
)

// Filter is the active category filter.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterMovie  Filter = "movie"
	FilterSeries Filter = "series"
	FilterAnime  Filter = "anime"
)

// ParseFilter returns the filter for value, falling back to FilterAll.
func ParseFilter(value string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(value))) {
	case FilterMovie:
		return FilterMovie
	case FilterSeries, "tv":
		return FilterSeries
	case FilterAnime:
		return FilterAnime
	}
	return FilterAll
}

// SectionID returns the home section a filter scrolls to, or "" for FilterAll.
func (f Filter) SectionID() string {
	switch f {
	case FilterMovie:
		return "movies-section"
	case FilterSeries:
		return "series-section"
	case FilterAnime:
		return "anime-section"
	}
	return ""
}

// View is the main content area currently shown.
type View string

const (
	ViewHome   View = "home"
	ViewSearch View = "search"
	ViewList   View = "list"
)

// ListKind is the dropdown a list view was opened from.
type ListKind string

const (
	ListMovie  ListKind = "movie"
	ListSeries ListKind = "series"
	ListAnime  ListKind = "anime"
)

// ParseListKind accepts the stored "tv" spelling as series.
func ParseListKind(value string) (ListKind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie":
		return ListMovie, true
	case "series", "tv":
		return ListSeries, true
	case "anime":
		return ListAnime, true
	}
	return "", false
}

// UIState is the persisted browsing state. It is always written whole.
type UIState struct {
	Filter       Filter   `json:"filter"`
	ScrollY      int      `json:"scrollY"`
	SearchText   string   `json:"search"`
	View         View     `json:"view,omitempty"`
	ListKind     ListKind `json:"listType,omitempty"`
	ListEndpoint string   `json:"listEndpoint,omitempty"`
}

// DefaultUIState is the state of a first visit.
func DefaultUIState() UIState {
	return UIState{Filter: FilterAll, View: ViewHome}
}

// MarshalJSON writes an unset filter as "all" so the stored form decodes
// back to the same state.
func (s UIState) MarshalJSON() ([]byte, error) {
	type plain UIState
	out := plain(s)
	if out.Filter == "" {
		out.Filter = FilterAll
	}
	return json.Marshal(out)
}

// UnmarshalJSON tolerates unknown enum values by falling back to defaults.
func (s *UIState) UnmarshalJSON(data []byte) error {
	var raw struct {
		Filter       string `json:"filter"`
		ScrollY      int    `json:"scrollY"`
		SearchText   string `json:"search"`
		View         string `json:"view"`
		ListKind     string `json:"listType"`
		ListEndpoint string `json:"listEndpoint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := UIState{
		Filter:       ParseFilter(raw.Filter),
		ScrollY:      raw.ScrollY,
		SearchText:   raw.SearchText,
		ListEndpoint: raw.ListEndpoint,
	}
	if out.ScrollY < 0 {
		out.ScrollY = 0
	}
	switch View(raw.View) {
	case ViewHome, ViewSearch, ViewList:
		out.View = View(raw.View)
	}
	if kind, ok := ParseListKind(raw.ListKind); ok {
		out.ListKind = kind
	}
	*s = out
	return nil
}

// Theme is the persisted colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme returns ThemeLight only for an exact "light", everything else is dark.
func ParseTheme(value string) Theme {
	if strings.TrimSpace(value) == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Icon is the toggle button glyph for the theme.
func (t Theme) Icon() string {
	if t == ThemeLight {
		return "🌞"
	}
	return "🌙"
}
