package tmdb

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cinebox/models"
)

// Detail loads the full record of an item in the primary locale. When the
// overview is empty it is taken from the fallback locale; nothing else is
// substituted. A failed fallback fetch is logged and leaves the default text.
func (c *Client) Detail(ctx context.Context, kind models.Kind, id int64) (*models.Detail, error) {
	endpoint := fmt.Sprintf("/%s/%d", kind.ResourceType(), id)

	var raw rawDetail
	if err := c.getJSON(ctx, endpoint, c.primary, &raw); err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw.Overview) == "" {
		var alt rawDetail
		if err := c.getJSON(ctx, endpoint, c.fallback, &alt); err != nil {
			log.Printf("[tmdb] overview fallback for %s %d failed: %v", kind, id, err)
		} else {
			raw.Overview = alt.Overview
		}
	}

	return c.buildDetail(kind, raw), nil
}

func (c *Client) buildDetail(kind models.Kind, raw rawDetail) *models.Detail {
	title := raw.Title
	if title == "" {
		title = raw.Name
	}
	date := raw.ReleaseDate
	if date == "" {
		date = raw.FirstAirDate
	}
	genres := make([]string, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	d := &models.Detail{
		ID:         raw.ID,
		Kind:       kind,
		Title:      title,
		PosterURL:  posterURL(c.imageBase, raw.PosterPath),
		Rating10:   clampRating(raw.VoteAverage),
		Genres:     genres,
		Date:       date,
		Popularity: raw.Popularity,
		Overview:   orDefault(raw.Overview, NoDescription),
	}
	if kind == models.KindSeries {
		d.Episodes = raw.NumberOfEpisodes
	} else {
		d.Runtime = raw.Runtime
	}
	return d
}
