package tmdb

import (
	"context"
	"fmt"
	"log"

	"cinebox/models"
)

// Trailer returns the trailer for an item, looking at the primary locale's
// video list first and the fallback locale's second. It returns nil, nil when
// neither list has a YouTube video.
func (c *Client) Trailer(ctx context.Context, kind models.Kind, id int64) (*models.Video, error) {
	endpoint := fmt.Sprintf("/%s/%d/videos", kind.ResourceType(), id)

	var primary videoList
	if err := c.getJSON(ctx, endpoint, c.primary, &primary); err != nil {
		return nil, err
	}
	if v := SelectTrailer(primary.Results); v != nil {
		return v, nil
	}

	var fallback videoList
	if err := c.getJSON(ctx, endpoint, c.fallback, &fallback); err != nil {
		return nil, err
	}
	v := SelectTrailer(fallback.Results)
	if v != nil {
		log.Printf("[tmdb] trailer for %s %d found in %s", kind, id, c.fallback)
	}
	return v, nil
}

// SelectTrailer picks the first YouTube "Trailer", else the first YouTube
// video of any type.
func SelectTrailer(videos []models.Video) *models.Video {
	best := -1
	bestScore := 0
	for idx := range videos {
		score := scoreVideo(videos[idx])
		if score > bestScore {
			bestScore = score
			best = idx
		}
	}
	if best < 0 {
		return nil
	}
	v := videos[best]
	return &v
}

func scoreVideo(v models.Video) int {
	if v.Site != "YouTube" || v.Key == "" {
		return 0
	}
	if v.Type == "Trailer" {
		return 2
	}
	return 1
}
