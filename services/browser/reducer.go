package browser

import (
	"strings"

	"cinebox/models"
	"cinebox/services/tmdb"
	"cinebox/utils/filter"
)

// Phase is the position of the search pipeline.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseSearching
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseSearching:
		return "searching"
	case PhaseResults:
		return "results"
	}
	return "idle"
}

// Session is everything one browser tab's controller knows.
type Session struct {
	UI    models.UIState
	Theme models.Theme
	Phase Phase

	// Results are the held search results, unfiltered. Category filter
	// changes re-render from them without a request.
	Results    []models.CatalogItem
	SearchFail bool

	// Gen identifies the latest search or list request. Completions carrying
	// any other generation are stale and dropped.
	Gen uint64

	// Pending is the saved state still waiting for the home load to finish.
	Pending *models.UIState
}

// NewSession returns the state of a tab before anything was restored.
func NewSession() Session {
	return Session{UI: models.DefaultUIState(), Theme: models.ThemeDark}
}

// Reduce applies an action and returns the effects to run, in order.
// It never blocks and never touches anything outside its arguments.
func Reduce(s Session, a Action) (Session, []Effect) {
	switch a := a.(type) {
	case InputChanged:
		return onInput(s, a)
	case DebounceElapsed:
		if a.Gen != s.Gen || s.Phase != PhaseDebouncing {
			return s, nil
		}
		s.Phase = PhaseSearching
		return s, []Effect{ShowMessage{MsgSearching}, FetchSearch{Gen: a.Gen, Query: a.Query}}
	case SearchCompleted:
		return onSearchCompleted(s, a)
	case FilterSelected:
		return onFilter(s, a.Filter)
	case MobileFilterSelected:
		return onMobileFilter(s, a.Filter)
	case Scrolled:
		s.UI.ScrollY = max(a.Y, 0)
		return s, []Effect{PersistState{s.UI}}
	case ListOpened:
		return onListOpened(s, a)
	case ListCompleted:
		if a.Gen != s.Gen {
			return s, nil
		}
		if a.Err != nil {
			return s, []Effect{ShowMessage{MsgListErr}}
		}
		return s, []Effect{renderItems(a.Items)}
	case CardClicked:
		return s, []Effect{PersistState{s.UI}, Navigate{models.DetailURL(a.ID, a.Kind)}}
	case LogoClicked:
		s.Gen++
		s.Phase = PhaseIdle
		s.Results, s.SearchFail, s.Pending = nil, false, nil
		s.UI = models.DefaultUIState()
		return s, []Effect{StopDebounce{}, ForgetState{}, Navigate{"/"}}
	case ThemeToggled:
		s.Theme = s.Theme.Toggle()
		return s, []Effect{ApplyTheme{s.Theme}, PersistTheme{s.Theme}}
	case Restored:
		return onRestored(s, a)
	case CarouselLoaded:
		return s, []Effect{ShowCarousel{Section: a.Section, Items: a.Items}}
	case HomeLoaded:
		return onHomeLoaded(s)
	case ScrollSettled:
		return s, []Effect{ScrollTo{a.Y}}
	}
	return s, nil
}

func onInput(s Session, a InputChanged) (Session, []Effect) {
	s.UI.SearchText = a.Text
	s.Pending = nil
	s.Gen++
	query := strings.TrimSpace(a.Text)

	if query == "" {
		s.Phase = PhaseIdle
		s.Results, s.SearchFail = nil, false
		s.UI.View = models.ViewHome
		return s, []Effect{StopDebounce{}, ShowHome{s.UI.Filter}, PersistState{s.UI}}
	}

	s.Phase = PhaseDebouncing
	s.UI.View = models.ViewSearch
	return s, []Effect{StartDebounce{Gen: s.Gen, Query: query}, PersistState{s.UI}}
}

func onSearchCompleted(s Session, a SearchCompleted) (Session, []Effect) {
	if a.Gen != s.Gen || s.Phase != PhaseSearching {
		return s, nil
	}
	s.Phase = PhaseResults
	if a.Err != nil {
		s.Results, s.SearchFail = nil, true
		return s, []Effect{ShowMessage{MsgSearchErr}}
	}
	s.Results, s.SearchFail = a.Items, false
	return s, []Effect{renderItems(filter.Apply(s.UI.Filter, s.Results))}
}

func onFilter(s Session, f models.Filter) (Session, []Effect) {
	s.UI.Filter = f
	effects := []Effect{MarkFilter{f}}

	switch {
	case s.Phase == PhaseResults && !s.SearchFail:
		effects = append(effects, renderItems(filter.Apply(f, s.Results)))
	case s.Phase == PhaseResults, s.Phase == PhaseDebouncing, s.Phase == PhaseSearching:
		// the grid keeps its message; results are filtered on arrival
	default:
		effects = append(effects, FilterSections{f})
	}

	if s.UI.View == models.ViewHome || s.UI.View == "" {
		if id := f.SectionID(); id != "" {
			effects = append(effects, ScrollToSection{id})
		}
	}
	return s, append(effects, PersistState{s.UI})
}

func onMobileFilter(s Session, f models.Filter) (Session, []Effect) {
	s.Gen++
	s.Phase = PhaseIdle
	s.Results, s.SearchFail, s.Pending = nil, false, nil
	s.UI = models.UIState{Filter: f, View: models.ViewHome}

	effects := []Effect{StopDebounce{}, FillSearch{""}, ShowHome{f}, MarkFilter{f}}
	if id := f.SectionID(); id != "" {
		effects = append(effects, ScrollToSection{id})
	}
	return s, append(effects, PersistState{s.UI})
}

func onListOpened(s Session, a ListOpened) (Session, []Effect) {
	name := a.Name
	if a.Kind == models.ListAnime {
		name = "popular"
	}
	if !validList(a.Kind, name) {
		return s, nil
	}

	s.Gen++
	s.Phase = PhaseIdle
	s.Results, s.SearchFail, s.Pending = nil, false, nil
	s.UI.View = models.ViewList
	s.UI.ListKind = a.Kind
	s.UI.ListEndpoint = name

	return s, []Effect{
		StopDebounce{},
		PersistState{s.UI},
		ShowMessage{ListLoadingMessage(a.Kind)},
		FetchList{Gen: s.Gen, Kind: a.Kind, Name: name},
	}
}

func onRestored(s Session, a Restored) (Session, []Effect) {
	s.Theme = models.ParseTheme(string(a.Theme))
	if a.Saved != nil {
		saved := *a.Saved
		s.UI = saved
		if s.UI.View == "" {
			s.UI.View = models.ViewHome
		}
		s.Pending = &saved
	} else {
		s.UI = models.DefaultUIState()
		s.Pending = nil
	}
	return s, []Effect{ApplyTheme{s.Theme}, FetchHome{}}
}

func onHomeLoaded(s Session) (Session, []Effect) {
	effects := []Effect{MarkFilter{s.UI.Filter}, FilterSections{s.UI.Filter}}
	p := s.Pending
	s.Pending = nil
	if p == nil {
		return s, effects
	}

	switch {
	case p.View == models.ViewSearch && strings.TrimSpace(p.SearchText) != "":
		s.Gen++
		s.Phase = PhaseSearching
		effects = append(effects,
			FillSearch{p.SearchText},
			ShowMessage{MsgSearching},
			FetchSearch{Gen: s.Gen, Query: strings.TrimSpace(p.SearchText)},
		)
	case p.View == models.ViewList && validList(p.ListKind, p.ListEndpoint):
		s.Gen++
		effects = append(effects,
			ShowMessage{MsgRestoring},
			FetchList{Gen: s.Gen, Kind: p.ListKind, Name: p.ListEndpoint},
		)
	default:
		s.UI.View = models.ViewHome
	}

	if p.ScrollY > 0 {
		effects = append(effects, DelayScroll{p.ScrollY})
	}
	return s, effects
}

func validList(kind models.ListKind, name string) bool {
	_, err := tmdb.ListEndpoint(kind, name)
	return err == nil
}

func renderItems(items []models.CatalogItem) Effect {
	if len(items) == 0 {
		return ShowMessage{MsgNoResults}
	}
	return ShowGrid{Items: items}
}
