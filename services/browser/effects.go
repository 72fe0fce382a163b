package browser

import (
	"cinebox/models"
	"cinebox/services/tmdb"
)

// Effect is work the controller performs after a reduction.
type Effect interface {
	effect()
}

// Persistence.
type (
	PersistState struct{ State models.UIState }
	ForgetState  struct{}
	PersistTheme struct{ Theme models.Theme }
)

// Timers. Only one debounce timer exists per session.
type (
	StartDebounce struct {
		Gen   uint64
		Query string
	}
	StopDebounce struct{}
	DelayScroll  struct{ Y int }
)

// Network.
type (
	FetchSearch struct {
		Gen   uint64
		Query string
	}
	FetchList struct {
		Gen  uint64
		Kind models.ListKind
		Name string
	}
	FetchHome struct{}
)

// Rendering.
type (
	ShowHome       struct{ Filter models.Filter }
	FilterSections struct{ Filter models.Filter }
	ShowMessage    struct{ Text string }
	ShowGrid       struct{ Items []models.CatalogItem }
	ShowCarousel   struct {
		Section tmdb.Section
		Items   []models.CatalogItem
	}
	MarkFilter      struct{ Filter models.Filter }
	FillSearch      struct{ Text string }
	ScrollTo        struct{ Y int }
	ScrollToSection struct{ ID string }
	Navigate        struct{ URL string }
	ApplyTheme      struct{ Theme models.Theme }
)

func (PersistState) effect()    {}
func (ForgetState) effect()     {}
func (PersistTheme) effect()    {}
func (StartDebounce) effect()   {}
func (StopDebounce) effect()    {}
func (DelayScroll) effect()     {}
func (FetchSearch) effect()     {}
func (FetchList) effect()       {}
func (FetchHome) effect()       {}
func (ShowHome) effect()        {}
func (FilterSections) effect()  {}
func (ShowMessage) effect()     {}
func (ShowGrid) effect()        {}
func (ShowCarousel) effect()    {}
func (MarkFilter) effect()      {}
func (FillSearch) effect()      {}
func (ScrollTo) effect()        {}
func (ScrollToSection) effect() {}
func (Navigate) effect()        {}
func (ApplyTheme) effect()      {}
