package handlers

import (
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebox/models"
	"cinebox/services/tmdb"
)

func TestTopRatedCarouselRendersMovieCards(t *testing.T) {
	client := upstream(map[string]string{
		"/movie/top_rated|es-ES": `{"results":[
			{"id":278,"title":"Cadena perpetua","release_date":"1994-09-23","vote_average":8.7,"poster_path":"/a.jpg","overview":"x"},
			{"id":238,"title":"El padrino","release_date":"1972-03-14","vote_average":8.7,"poster_path":"","overview":""}
		]}`,
	})
	var topRated tmdb.Section
	for _, s := range tmdb.HomeSections() {
		if s.ID == "topRated" {
			topRated = s
		}
	}
	items, err := client.Section(context.Background(), topRated)
	require.NoError(t, err)

	html, err := newTestRenderer(t).Carousel(items)
	require.NoError(t, err)
	doc := parseHTML(t, html)

	cards := doc.Find(".movie-card")
	require.Equal(t, 2, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		assert.Equal(t, "Movie", card.Find(".movie-type").Text())
		assert.True(t, card.Find(".movie-type").HasClass("movie"))
		assert.Equal(t, "movie", card.AttrOr("data-kind", ""))
	})
	assert.Equal(t, "1994", cards.Eq(0).Find(".movie-info span").Text())
	assert.Equal(t, "1972", cards.Eq(1).Find(".movie-info span").Text())
	assert.Equal(t, "https://img.test/w500/a.jpg", cards.Eq(0).Find("img").AttrOr("src", ""))
	assert.Equal(t, PlaceholderPoster, cards.Eq(1).Find("img").AttrOr("src", ""))
	assert.Equal(t, "278", cards.Eq(0).AttrOr("data-id", ""))
}

func TestGridLabelsAnimeButCarouselDoesNot(t *testing.T) {
	r := newTestRenderer(t)
	items := []models.CatalogItem{series(1, "Naruto Shippuden", "2007"), series(2, "The Office", ""), movie(3, "Dragon Ball Super: Broly", "2018")}

	grid, err := r.Grid(items)
	require.NoError(t, err)
	labels := parseHTML(t, grid).Find(".movie-type").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"Anime", "Series", "Movie"}, labels)

	carousel, err := r.Carousel(items)
	require.NoError(t, err)
	labels = parseHTML(t, carousel).Find(".movie-type").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"Series", "Series", "Movie"}, labels)

	year := parseHTML(t, grid).Find(".movie-card").Eq(1).Find(".movie-info span").Text()
	assert.Equal(t, "—", year)
	assert.Equal(t, "tv", parseHTML(t, grid).Find(".movie-card").First().AttrOr("data-kind", ""))
}

func TestCardTitlesAreEscaped(t *testing.T) {
	html, err := newTestRenderer(t).Grid([]models.CatalogItem{movie(1, `<img src=x onerror=alert(1)>`, "2020")})
	require.NoError(t, err)

	assert.NotContains(t, html, "<img src=x")
	doc := parseHTML(t, html)
	assert.Equal(t, `<img src=x onerror=alert(1)>`, doc.Find("h3").Text())
	assert.Equal(t, 1, doc.Find("img").Length())
}

func TestEmptyFragmentsRenderNothing(t *testing.T) {
	html, err := newTestRenderer(t).Grid(nil)
	require.NoError(t, err)
	assert.Empty(t, html)
}
