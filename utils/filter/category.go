package filter

import "cinebox/models"

// animeKeywords is a title heuristic, not a classification: any anime outside
// the list is treated as a plain series and any series matching one is anime.
var animeKeywords = CompileTerms([]string{`/naruto|one piece|attack|bleach|dragon/`})

// IsAnime reports whether a catalog item counts as anime.
func IsAnime(item models.CatalogItem) bool {
	return item.Kind == models.KindSeries && MatchesAnyTerm(item.Title, animeKeywords)
}

// Matches reports whether an item passes the category filter.
func Matches(f models.Filter, item models.CatalogItem) bool {
	switch f {
	case models.FilterMovie:
		return item.Kind == models.KindMovie
	case models.FilterSeries:
		return item.Kind == models.KindSeries
	case models.FilterAnime:
		return IsAnime(item)
	}
	return true
}

// Apply returns the items that pass the filter, preserving order.
// The input slice is never modified.
func Apply(f models.Filter, items []models.CatalogItem) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if Matches(f, item) {
			out = append(out, item)
		}
	}
	return out
}

// GridLabel is the badge shown on result grid cards.
func GridLabel(item models.CatalogItem) string {
	switch {
	case IsAnime(item):
		return "Anime"
	case item.Kind == models.KindSeries:
		return "Series"
	}
	return "Movie"
}

// CarouselLabel is the badge shown on home carousel cards.
func CarouselLabel(item models.CatalogItem) string {
	if item.Kind == models.KindSeries {
		return "Series"
	}
	return "Movie"
}
