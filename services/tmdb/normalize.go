package tmdb

import (
	"strings"

	"cinebox/models"
)

// NoDescription replaces an empty overview.
const NoDescription = "Sin descripción disponible."

// Normalize maps a raw result onto a CatalogItem. An explicit media_type wins
// over fallback, so the kind is never empty. Poster paths that are already
// absolute are kept as is, which makes Normalize(Denormalize(x)) == x.
func Normalize(raw RawItem, fallback models.Kind, imageBase string) models.CatalogItem {
	kind := fallback
	if raw.MediaType != "" {
		if k, err := models.ParseKind(raw.MediaType); err == nil {
			kind = k
		}
	}
	if kind == "" {
		kind = models.KindMovie
	}

	title := raw.Title
	if title == "" {
		title = raw.Name
	}

	date := raw.ReleaseDate
	if date == "" {
		date = raw.FirstAirDate
	}

	return models.CatalogItem{
		ID:          raw.ID,
		Kind:        kind,
		Title:       title,
		Year:        firstN(date, 4),
		Rating10:    clampRating(raw.VoteAverage),
		PosterURL:   posterURL(imageBase, raw.PosterPath),
		Description: orDefault(raw.Overview, NoDescription),
	}
}

// NormalizeAll normalizes a result page, preserving order.
func NormalizeAll(raw []RawItem, fallback models.Kind, imageBase string) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, Normalize(r, fallback, imageBase))
	}
	return items
}

// Denormalize converts an item back into the raw shape.
func Denormalize(item models.CatalogItem) RawItem {
	return RawItem{
		ID:          item.ID,
		MediaType:   item.Kind.ResourceType(),
		Title:       item.Title,
		ReleaseDate: item.Year,
		PosterPath:  item.PosterURL,
		Overview:    item.Description,
		VoteAverage: item.Rating10,
	}
}

func posterURL(imageBase, path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	}
	return imageBase + path
}

func clampRating(r float64) float64 {
	if r < 0 || r != r {
		return 0
	}
	if r > 10 {
		return 10
	}
	return r
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
