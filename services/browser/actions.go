package browser

import (
	"cinebox/models"
	"cinebox/services/tmdb"
)

// Action is an input to the reducer: a user event or a completion report.
type Action interface {
	action()
}

type (
	// InputChanged carries the raw search box text after a keystroke.
	InputChanged struct{ Text string }
	// FilterSelected is a click on a navbar category button.
	FilterSelected struct{ Filter models.Filter }
	// MobileFilterSelected is a category chosen from the mobile menu.
	MobileFilterSelected struct{ Filter models.Filter }
	Scrolled             struct{ Y int }
	// ListOpened is a dropdown entry; Name is ignored for anime.
	ListOpened struct {
		Kind models.ListKind
		Name string
	}
	CardClicked struct {
		ID   int64
		Kind models.Kind
	}
	LogoClicked  struct{}
	ThemeToggled struct{}

	// Restored starts a session with whatever was persisted. Saved is nil
	// when nothing (or nothing readable) was stored.
	Restored struct {
		Saved *models.UIState
		Theme models.Theme
	}
	DebounceElapsed struct {
		Gen   uint64
		Query string
	}
	SearchCompleted struct {
		Gen   uint64
		Items []models.CatalogItem
		Err   error
	}
	ListCompleted struct {
		Gen   uint64
		Items []models.CatalogItem
		Err   error
	}
	CarouselLoaded struct {
		Section tmdb.Section
		Items   []models.CatalogItem
	}
	// HomeLoaded ends the sequential carousel load. Err is the failure that
	// stopped it early, if any.
	HomeLoaded    struct{ Err error }
	ScrollSettled struct{ Y int }
)

func (InputChanged) action()         {}
func (FilterSelected) action()       {}
func (MobileFilterSelected) action() {}
func (Scrolled) action()             {}
func (ListOpened) action()           {}
func (CardClicked) action()          {}
func (LogoClicked) action()          {}
func (ThemeToggled) action()         {}
func (Restored) action()             {}
func (DebounceElapsed) action()      {}
func (SearchCompleted) action()      {}
func (ListCompleted) action()        {}
func (CarouselLoaded) action()       {}
func (HomeLoaded) action()           {}
func (ScrollSettled) action()        {}
