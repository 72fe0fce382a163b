package tmdb

import (
	"fmt"
	"strings"

	"cinebox/models"
)

// AnimeDiscoverPath is the discover query behind the anime carousel and list.
const AnimeDiscoverPath = "/discover/tv?with_keywords=210024&sort_by=popularity.desc"

// Endpoint is a list-returning API path plus the kind used when results carry
// no media_type of their own.
type Endpoint struct {
	Path     string
	Fallback models.Kind
}

// Section is one home carousel. Group decides visibility under the category
// filter; Anchor is set on the first section of a group and is the target
// of scroll-to-section.
type Section struct {
	ID     string
	Title  string
	Group  models.Filter
	Anchor string
	Endpoint
}

var homeSections = []Section{
	{ID: "trendings", Title: "Tendencias", Group: models.FilterAll, Endpoint: Endpoint{"/trending/all/day", models.KindMovie}},
	{ID: "topRated", Title: "Películas mejor valoradas", Group: models.FilterMovie, Anchor: "movies-section", Endpoint: Endpoint{"/movie/top_rated", models.KindMovie}},
	{ID: "upcoming", Title: "Próximos estrenos", Group: models.FilterMovie, Endpoint: Endpoint{"/movie/upcoming", models.KindMovie}},
	{ID: "seriesTrending", Title: "Series en tendencia", Group: models.FilterSeries, Anchor: "series-section", Endpoint: Endpoint{"/trending/tv/day", models.KindSeries}},
	{ID: "seriesTopRated", Title: "Series mejor valoradas", Group: models.FilterSeries, Endpoint: Endpoint{"/tv/top_rated", models.KindSeries}},
	{ID: "seriesPopular", Title: "Series populares", Group: models.FilterSeries, Endpoint: Endpoint{"/tv/popular", models.KindSeries}},
	{ID: "animePopular", Title: "Anime popular", Group: models.FilterAnime, Anchor: "anime-section", Endpoint: Endpoint{AnimeDiscoverPath, models.KindSeries}},
	{ID: "action", Title: "Acción", Group: models.FilterMovie, Endpoint: Endpoint{"/discover/movie?with_genres=28", models.KindMovie}},
	{ID: "horror", Title: "Terror", Group: models.FilterMovie, Endpoint: Endpoint{"/discover/movie?with_genres=27", models.KindMovie}},
	{ID: "drama", Title: "Drama", Group: models.FilterMovie, Endpoint: Endpoint{"/discover/movie?with_genres=18", models.KindMovie}},
}

// HomeSections returns the home carousels in load order.
func HomeSections() []Section {
	out := make([]Section, len(homeSections))
	copy(out, homeSections)
	return out
}

// SectionVisible reports whether a section is shown under filter f.
func SectionVisible(s Section, f models.Filter) bool {
	return f == models.FilterAll || s.Group == models.FilterAll || s.Group == f
}

// ListOption is one entry of a list dropdown.
type ListOption struct {
	Name  string
	Label string
}

// MovieLists and SeriesLists are the allowed list endpoints, in menu order.
var (
	MovieLists = []ListOption{
		{"popular", "Populares"},
		{"upcoming", "Próximamente"},
		{"top_rated", "Mejor valoradas"},
		{"now_playing", "En cines"},
	}
	SeriesLists = []ListOption{
		{"popular", "Populares"},
		{"on_the_air", "En emisión"},
		{"top_rated", "Mejor valoradas"},
		{"airing_today", "Hoy en TV"},
	}
)

// ListEndpoint resolves a dropdown selection. The anime list has a single
// endpoint and ignores name.
func ListEndpoint(kind models.ListKind, name string) (Endpoint, error) {
	name = strings.TrimSpace(name)
	switch kind {
	case models.ListMovie:
		if !allowed(MovieLists, name) {
			return Endpoint{}, fmt.Errorf("%w: movie/%s", ErrUnknownList, name)
		}
		return Endpoint{"/movie/" + name, models.KindMovie}, nil
	case models.ListSeries:
		if !allowed(SeriesLists, name) {
			return Endpoint{}, fmt.Errorf("%w: tv/%s", ErrUnknownList, name)
		}
		return Endpoint{"/tv/" + name, models.KindSeries}, nil
	case models.ListAnime:
		return Endpoint{AnimeDiscoverPath, models.KindSeries}, nil
	}
	return Endpoint{}, fmt.Errorf("%w: kind %q", ErrUnknownList, kind)
}

func allowed(options []ListOption, name string) bool {
	for _, o := range options {
		if o.Name == name {
			return true
		}
	}
	return false
}
