package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cinebox/models"
)

func sampleItems() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: 1, Kind: models.KindMovie, Title: "Dragon Ball Super: Broly"},
		{ID: 2, Kind: models.KindSeries, Title: "Naruto Shippuden"},
		{ID: 3, Kind: models.KindSeries, Title: "Breaking Bad"},
		{ID: 4, Kind: models.KindSeries, Title: "Ataque a los titanes"},
		{ID: 5, Kind: models.KindSeries, Title: "Attack on Titan"},
		{ID: 6, Kind: models.KindMovie, Title: "Oppenheimer"},
		{ID: 7, Kind: models.KindSeries, Title: "House of the Dragon"},
	}
}

func ids(items []models.CatalogItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids(Apply(models.FilterAll, items)))
	assert.Equal(t, []int64{1, 6}, ids(Apply(models.FilterMovie, items)))
	assert.Equal(t, []int64{2, 3, 4, 5, 7}, ids(Apply(models.FilterSeries, items)))
	// Movies never count as anime; "House of the Dragon" is a known false positive.
	assert.Equal(t, []int64{2, 5, 7}, ids(Apply(models.FilterAnime, items)))
}

func TestIsAnimeKeywords(t *testing.T) {
	if len(animeKeywords) != 1 || animeKeywords[0].regex == nil {
		t.Fatalf("anime keywords should compile to one pattern, got %+v", animeKeywords)
	}
	tests := []struct {
		title string
		want  bool
	}{
		{"One Piece", true},
		{"ONE PIECE: Stampede", true},
		{"Dragón Ball Z", true},
		{"Bleach", true},
		{"Onepiece", false},
		{"Los Simpson", false},
	}
	for _, tt := range tests {
		item := models.CatalogItem{Kind: models.KindSeries, Title: tt.title}
		assert.Equal(t, tt.want, IsAnime(item), tt.title)
	}
}

func TestAnimeIsSubsetOfSeries(t *testing.T) {
	inputs := [][]models.CatalogItem{
		sampleItems(),
		nil,
		{{ID: 9, Kind: models.KindMovie, Title: "Bleach"}},
		{{ID: 10, Kind: models.KindSeries, Title: "BLEACH: Thousand-Year Blood War"}},
	}
	for _, items := range inputs {
		series := map[int64]bool{}
		for _, item := range Apply(models.FilterSeries, items) {
			series[item.ID] = true
		}
		for _, item := range Apply(models.FilterAnime, items) {
			assert.True(t, series[item.ID], "anime item %d missing from series", item.ID)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	_ = Apply(models.FilterAnime, items)
	assert.Equal(t, sampleItems(), items)
}

func TestLabels(t *testing.T) {
	naruto := models.CatalogItem{Kind: models.KindSeries, Title: "Naruto"}
	sopranos := models.CatalogItem{Kind: models.KindSeries, Title: "The Sopranos"}
	movie := models.CatalogItem{Kind: models.KindMovie, Title: "Dragon Heart"}

	assert.Equal(t, "Anime", GridLabel(naruto))
	assert.Equal(t, "Series", GridLabel(sopranos))
	assert.Equal(t, "Movie", GridLabel(movie))

	assert.Equal(t, "Series", CarouselLabel(naruto))
	assert.Equal(t, "Movie", CarouselLabel(movie))
}
