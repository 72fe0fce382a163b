package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"cinebox/api"
	"cinebox/models"
	"cinebox/services/tmdb"
)

// DetailSource fetches what the detail page shows.
type DetailSource interface {
	Detail(ctx context.Context, kind models.Kind, id int64) (*models.Detail, error)
	Trailer(ctx context.Context, kind models.Kind, id int64) (*models.Video, error)
}

// ThemeStore reads a client's persisted theme.
type ThemeStore interface {
	LoadTheme(ctx context.Context, clientID string) (models.Theme, error)
}

type filterOption struct {
	Value models.Filter
	Label string
}

var navFilters = []filterOption{
	{models.FilterAll, "Todo"},
	{models.FilterMovie, "Películas"},
	{models.FilterSeries, "Series"},
	{models.FilterAnime, "Anime"},
}

type homePage struct {
	chrome
	Filters     []filterOption
	Sections    []tmdb.Section
	MovieLists  []tmdb.ListOption
	SeriesLists []tmdb.ListOption
}

type detailPage struct {
	chrome
	Detail     *models.Detail
	Trailer    *models.Video
	Genres     string
	Runtime    string
	Date       string
	Popularity string
}

type errorPage struct {
	chrome
	Heading string
	Message string
}

// PagesHandler serves the home shell and the detail page.
type PagesHandler struct {
	renderer *Renderer
	details  DetailSource
	themes   ThemeStore
	sections []tmdb.Section
}

func NewPagesHandler(renderer *Renderer, details DetailSource, themes ThemeStore, sections []tmdb.Section) *PagesHandler {
	if sections == nil {
		sections = tmdb.HomeSections()
	}
	return &PagesHandler{renderer: renderer, details: details, themes: themes, sections: sections}
}

// Home renders the page skeleton with empty carousels. Content arrives over
// the session socket once the browser connects.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Page(w, http.StatusOK, pageHome, homePage{
		chrome:      chrome{Theme: h.theme(r)},
		Filters:     navFilters,
		Sections:    h.sections,
		MovieLists:  tmdb.MovieLists,
		SeriesLists: tmdb.SeriesLists,
	})
}

// Detail handles GET /detail?id={id}&type={movie|tv}.
func (h *PagesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	theme := h.theme(r)
	query := r.URL.Query()

	id, err := strconv.ParseInt(strings.TrimSpace(query.Get("id")), 10, 64)
	if err != nil || id <= 0 {
		h.errorPage(w, theme, http.StatusBadRequest, "Enlace no válido", "Falta el identificador del título.")
		return
	}
	kind, err := models.ParseKind(query.Get("type"))
	if err != nil {
		h.errorPage(w, theme, http.StatusBadRequest, "Enlace no válido", "Tipo de contenido desconocido.")
		return
	}

	detail, err := h.details.Detail(r.Context(), kind, id)
	if err != nil {
		log.Printf("[pages] detail %s/%d failed: %v", kind.ResourceType(), id, err)
		h.errorPage(w, theme, http.StatusBadGateway, "No se pudo cargar el título", "Inténtalo de nuevo más tarde.")
		return
	}

	trailer, err := h.details.Trailer(r.Context(), kind, id)
	if err != nil {
		log.Printf("[pages] trailer %s/%d failed: %v", kind.ResourceType(), id, err)
		trailer = nil
	}

	h.renderer.Page(w, http.StatusOK, pageDetail, buildDetailPage(theme, detail, trailer))
}

func buildDetailPage(theme models.Theme, d *models.Detail, trailer *models.Video) detailPage {
	page := detailPage{
		chrome:     chrome{Theme: theme},
		Detail:     d,
		Trailer:    trailer,
		Genres:     "—",
		Date:       "—",
		Popularity: strconv.FormatFloat(math.Round(d.Popularity), 'f', 0, 64),
	}
	if len(d.Genres) > 0 {
		page.Genres = strings.Join(d.Genres, ", ")
	}
	if d.Date != "" {
		page.Date = d.Date
	}
	if d.Kind == models.KindSeries {
		page.Runtime = countOrDash(d.Episodes) + " episodios"
	} else {
		page.Runtime = countOrDash(d.Runtime) + " min"
	}
	return page
}

func countOrDash(n int) string {
	if n <= 0 {
		return "—"
	}
	return strconv.Itoa(n)
}

func (h *PagesHandler) errorPage(w http.ResponseWriter, theme models.Theme, status int, heading, message string) {
	h.renderer.Page(w, status, pageError, errorPage{
		chrome:  chrome{Theme: theme},
		Heading: heading,
		Message: message,
	})
}

// theme returns the client's saved theme, dark on any failure.
func (h *PagesHandler) theme(r *http.Request) models.Theme {
	if h.themes == nil {
		return models.ThemeDark
	}
	theme, err := h.themes.LoadTheme(r.Context(), api.ClientID(r))
	if err != nil {
		log.Printf("[pages] load theme: %v", err)
		return models.ThemeDark
	}
	return theme
}
