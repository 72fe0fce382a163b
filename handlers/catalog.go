package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cinebox/api"
	"cinebox/models"
	"cinebox/services/tmdb"
	"cinebox/utils"
	"cinebox/utils/filter"
)

// CatalogSource is the slice of the upstream client the JSON catalog uses.
type CatalogSource interface {
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
	List(ctx context.Context, kind models.ListKind, name string) ([]models.CatalogItem, error)
}

// CatalogHandler exposes search and dropdown lists as JSON.
type CatalogHandler struct {
	catalog CatalogSource
}

func NewCatalogHandler(catalog CatalogSource) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type catalogItemResponse struct {
	models.CatalogItem
	Label     string `json:"label"`
	Stars     string `json:"stars"`
	DetailURL string `json:"detailUrl"`
}

type catalogResponse struct {
	Items  []catalogItemResponse `json:"items"`
	Filter models.Filter         `json:"filter,omitempty"`
}

func toItemResponses(items []models.CatalogItem) []catalogItemResponse {
	out := make([]catalogItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, catalogItemResponse{
			CatalogItem: item,
			Label:       filter.GridLabel(item),
			Stars:       utils.RatingStars(item.Rating10).String(),
			DetailURL:   item.DetailURL(),
		})
	}
	return out
}

// Search handles GET /api/search?q=&filter=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		api.WriteJSONError(w, http.StatusBadRequest, "query is required")
		return
	}
	f := models.ParseFilter(r.URL.Query().Get("filter"))

	items, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		log.Printf("[catalog] search %q: %v", query, err)
		api.WriteJSONError(w, http.StatusBadGateway, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Items: toItemResponses(filter.Apply(f, items)), Filter: f})
}

// List handles GET /api/lists/{kind}/{endpoint}.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := models.ParseListKind(vars["kind"])
	if !ok {
		api.WriteJSONError(w, http.StatusNotFound, "unknown list")
		return
	}

	items, err := h.catalog.List(r.Context(), kind, vars["endpoint"])
	if err != nil {
		if errors.Is(err, tmdb.ErrUnknownList) {
			api.WriteJSONError(w, http.StatusNotFound, "unknown list")
			return
		}
		log.Printf("[catalog] list %s/%s: %v", kind, vars["endpoint"], err)
		api.WriteJSONError(w, http.StatusBadGateway, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Items: toItemResponses(items)})
}
