package browser

import (
	"cinebox/models"
	"cinebox/services/tmdb"
)

// View renders a session into one browser tab. Calls arrive from the
// controller's event loop and must not block on the network.
type View interface {
	ShowCarousel(section tmdb.Section, items []models.CatalogItem)
	// ShowHome hides the result grid and shows the home sections under filter.
	ShowHome(filter models.Filter)
	FilterSections(filter models.Filter)
	// ShowMessage makes the grid visible with a single status line.
	ShowMessage(text string)
	ShowGrid(items []models.CatalogItem)
	MarkFilter(filter models.Filter)
	FillSearch(text string)
	ScrollTo(y int)
	ScrollToSection(id string)
	Navigate(url string)
	ApplyTheme(theme models.Theme)
}
