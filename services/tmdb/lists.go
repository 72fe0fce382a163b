package tmdb

import (
	"context"
	"net/url"
	"strings"

	"cinebox/models"
)

// Fetch loads one page of an endpoint in the primary locale.
func (c *Client) Fetch(ctx context.Context, ep Endpoint) ([]models.CatalogItem, error) {
	var page pagedResults
	if err := c.getJSON(ctx, ep.Path, c.primary, &page); err != nil {
		return nil, err
	}
	return NormalizeAll(page.Results, ep.Fallback, c.imageBase), nil
}

// Section loads one home carousel.
func (c *Client) Section(ctx context.Context, s Section) ([]models.CatalogItem, error) {
	return c.Fetch(ctx, s.Endpoint)
}

// List loads a dropdown list after checking it against the allow-list.
func (c *Client) List(ctx context.Context, kind models.ListKind, name string) ([]models.CatalogItem, error) {
	ep, err := ListEndpoint(kind, name)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, ep)
}

// Search runs a multi search and keeps only movies and series, each
// normalized with its own media type.
func (c *Client) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CatalogItem{}, nil
	}
	var page pagedResults
	if err := c.getJSON(ctx, "/search/multi?query="+url.QueryEscape(query), c.primary, &page); err != nil {
		return nil, err
	}
	items := make([]models.CatalogItem, 0, len(page.Results))
	for _, raw := range page.Results {
		var kind models.Kind
		switch raw.MediaType {
		case "movie":
			kind = models.KindMovie
		case "tv":
			kind = models.KindSeries
		default:
			continue
		}
		items = append(items, Normalize(raw, kind, c.imageBase))
	}
	return items, nil
}
