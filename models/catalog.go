package models

import (
	"fmt"
	"strings"
)

// Kind identifies whether a catalog entry is a movie or a series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// ParseKind accepts the catalog names as well as the upstream "tv" resource type.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie":
		return KindMovie, nil
	case "series", "tv":
		return KindSeries, nil
	}
	return "", fmt.Errorf("unknown kind %q", value)
}

// ResourceType returns the upstream API path segment for the kind.
func (k Kind) ResourceType() string {
	if k == KindSeries {
		return "tv"
	}
	return "movie"
}

// CatalogItem is the uniform record every upstream result is normalized into.
type CatalogItem struct {
	ID          int64   `json:"id"`
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	Year        string  `json:"year"`        // first four characters of the release date, or empty
	Rating10    float64 `json:"rating10"`    // 0-10 scale as reported upstream
	PosterURL   string  `json:"posterUrl"`   // empty when upstream has no poster
	Description string  `json:"description"` // never empty after normalization
}

// DetailURL is the navigation target for the item's detail page.
func (i CatalogItem) DetailURL() string {
	return DetailURL(i.ID, i.Kind)
}

// DetailURL builds the detail page link carrying the item id and its resource type.
func DetailURL(id int64, kind Kind) string {
	return fmt.Sprintf("/detail?id=%d&type=%s", id, kind.ResourceType())
}

// Detail is the full record shown on the detail page.
type Detail struct {
	ID         int64    `json:"id"`
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	PosterURL  string   `json:"posterUrl"`
	Rating10   float64  `json:"rating10"`
	Genres     []string `json:"genres"`
	Runtime    int      `json:"runtime,omitempty"`  // minutes, movies only
	Episodes   int      `json:"episodes,omitempty"` // series only
	Date       string   `json:"date"`
	Popularity float64  `json:"popularity"`
	Overview   string   `json:"overview"`
}

// Video is one entry of an item's video list.
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// EmbedURL returns the autoplaying player URL for the video.
func (v Video) EmbedURL() string {
	return "https://www.youtube.com/embed/" + v.Key + "?autoplay=1"
}
