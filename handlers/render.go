package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"cinebox/models"
	"cinebox/utils"
	"cinebox/utils/filter"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlaceholderPoster stands in for items without artwork.
const PlaceholderPoster = "https://via.placeholder.com/300x450"

// cardView is one rendered catalog card.
type cardView struct {
	models.CatalogItem
	Label string
}

var templateFuncs = template.FuncMap{
	"stars": func(rating10 float64) string {
		return utils.RatingStars(rating10).String()
	},
	"poster": func(url string) string {
		if url == "" {
			return PlaceholderPoster
		}
		return url
	},
	"yearOr": func(year string) string {
		if year == "" {
			return "—"
		}
		return year
	},
	"lower": strings.ToLower,
	"carouselCard": func(item models.CatalogItem) cardView {
		return cardView{CatalogItem: item, Label: filter.CarouselLabel(item)}
	},
	"gridCard": func(item models.CatalogItem) cardView {
		return cardView{CatalogItem: item, Label: filter.GridLabel(item)}
	},
}

// Renderer executes the embedded page templates and card fragments.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

const (
	pageHome   = "home.html"
	pageDetail = "detail.html"
	pageError  = "error.html"
)

// NewRenderer parses every page on top of a shared layout.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("cinebox").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/cards.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageHome, pageDetail, pageError} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = clone
	}
	return &Renderer{pages: pages, fragments: base}, nil
}

// Page renders a full document. Output is buffered so a template failure
// still produces a clean 500.
func (r *Renderer) Page(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Printf("[render] unknown page %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[render] %s: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Carousel renders home carousel cards.
func (r *Renderer) Carousel(items []models.CatalogItem) (string, error) {
	return r.fragment("carousel", items)
}

// Grid renders result grid cards.
func (r *Renderer) Grid(items []models.CatalogItem) (string, error) {
	return r.fragment("grid", items)
}

func (r *Renderer) fragment(name string, items []models.CatalogItem) (string, error) {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, items); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// chrome is embedded in every page's data for the shared layout.
type chrome struct {
	Theme models.Theme
}

func (c chrome) BodyClass() string {
	if c.Theme == models.ThemeLight {
		return "light"
	}
	return ""
}

func (c chrome) ThemeIcon() string {
	return c.Theme.Icon()
}
