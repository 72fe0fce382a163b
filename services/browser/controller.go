package browser

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"cinebox/models"
	"cinebox/services/tmdb"
)

//go:generate mockgen -source=controller.go -destination=catalog_mock_test.go -package=browser Catalog

// Catalog is the upstream metadata the session reads.
type Catalog interface {
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
	List(ctx context.Context, kind models.ListKind, name string) ([]models.CatalogItem, error)
	Section(ctx context.Context, section tmdb.Section) ([]models.CatalogItem, error)
}

// Persister stores one client's UI state and theme.
type Persister interface {
	LoadState(ctx context.Context) (*models.UIState, error)
	SaveState(ctx context.Context, st models.UIState) error
	ClearState(ctx context.Context) error
	LoadTheme(ctx context.Context) (models.Theme, error)
	SaveTheme(ctx context.Context, theme models.Theme) error
}

const (
	DefaultDebounce     = 500 * time.Millisecond
	DefaultScrollSettle = 500 * time.Millisecond
)

// Options tunes a Controller. Zero values take the defaults.
type Options struct {
	Debounce     time.Duration
	ScrollSettle time.Duration
	Sections     []tmdb.Section
	Clock        Clock
}

// Controller owns one tab's Session. Actions are reduced one at a time,
// each run to completion before the next; network work runs on separate
// goroutines and comes back as actions.
type Controller struct {
	ctx     context.Context
	cancel  context.CancelFunc
	catalog Catalog
	store   Persister
	view    View
	clock   Clock

	debounce time.Duration
	settle   time.Duration
	sections []tmdb.Section

	mu      sync.Mutex
	queue   []Action
	running bool
	closed  bool

	stateMu sync.RWMutex
	session Session

	timerMu       sync.Mutex
	debounceTimer Timer
	scrollTimer   Timer

	wg    conc.WaitGroup
	spawn func(func())
}

func NewController(ctx context.Context, catalog Catalog, store Persister, view View, opts Options) *Controller {
	ctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		ctx:      ctx,
		cancel:   cancel,
		catalog:  catalog,
		store:    store,
		view:     view,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		settle:   opts.ScrollSettle,
		sections: opts.Sections,
		session:  NewSession(),
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.settle <= 0 {
		c.settle = DefaultScrollSettle
	}
	if c.sections == nil {
		c.sections = tmdb.HomeSections()
	}
	c.spawn = c.wg.Go
	return c
}

// Start reads the persisted state and theme and begins the restore.
func (c *Controller) Start() {
	saved, err := c.store.LoadState(c.ctx)
	if err != nil {
		log.Printf("[browser] load state failed: %v", err)
		saved = nil
	}
	theme, err := c.store.LoadTheme(c.ctx)
	if err != nil {
		log.Printf("[browser] load theme failed: %v", err)
	}
	c.Dispatch(Restored{Saved: saved, Theme: theme})
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() Session {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	s := c.session
	s.Results = append([]models.CatalogItem(nil), c.session.Results...)
	return s
}

// Dispatch queues an action. If no action is being processed the caller
// drains the queue; otherwise the running loop picks it up.
func (c *Controller) Dispatch(a Action) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, a)
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	for len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		c.step(next)
		c.mu.Lock()
		if c.closed {
			c.queue = nil
		}
	}
	c.running = false
	c.mu.Unlock()
}

// Close stops timers, cancels in-flight requests and waits for them.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.timerMu.Lock()
	stopTimer(&c.debounceTimer)
	stopTimer(&c.scrollTimer)
	c.timerMu.Unlock()
	c.wg.Wait()
}

func (c *Controller) step(a Action) {
	c.stateMu.Lock()
	next, effects := Reduce(c.session, a)
	c.session = next
	c.stateMu.Unlock()

	for _, e := range effects {
		c.run(e)
	}
}

func (c *Controller) run(e Effect) {
	switch e := e.(type) {
	case PersistState:
		if err := c.store.SaveState(c.ctx, e.State); err != nil {
			log.Printf("[browser] save state failed: %v", err)
		}
	case ForgetState:
		if err := c.store.ClearState(c.ctx); err != nil {
			log.Printf("[browser] clear state failed: %v", err)
		}
	case PersistTheme:
		if err := c.store.SaveTheme(c.ctx, e.Theme); err != nil {
			log.Printf("[browser] save theme failed: %v", err)
		}

	case StartDebounce:
		c.timerMu.Lock()
		stopTimer(&c.debounceTimer)
		c.debounceTimer = c.clock.AfterFunc(c.debounce, func() {
			c.Dispatch(DebounceElapsed{Gen: e.Gen, Query: e.Query})
		})
		c.timerMu.Unlock()
	case StopDebounce:
		c.timerMu.Lock()
		stopTimer(&c.debounceTimer)
		c.timerMu.Unlock()
	case DelayScroll:
		c.timerMu.Lock()
		stopTimer(&c.scrollTimer)
		c.scrollTimer = c.clock.AfterFunc(c.settle, func() {
			c.Dispatch(ScrollSettled{Y: e.Y})
		})
		c.timerMu.Unlock()

	case FetchSearch:
		c.spawn(func() {
			items, err := c.catalog.Search(c.ctx, e.Query)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[browser] search %q failed: %v", e.Query, err)
			}
			c.Dispatch(SearchCompleted{Gen: e.Gen, Items: items, Err: err})
		})
	case FetchList:
		c.spawn(func() {
			items, err := c.catalog.List(c.ctx, e.Kind, e.Name)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[browser] list %s/%s failed: %v", e.Kind, e.Name, err)
			}
			c.Dispatch(ListCompleted{Gen: e.Gen, Items: items, Err: err})
		})
	case FetchHome:
		c.spawn(c.loadHome)

	case ShowHome:
		c.view.ShowHome(e.Filter)
	case FilterSections:
		c.view.FilterSections(e.Filter)
	case ShowMessage:
		c.view.ShowMessage(e.Text)
	case ShowGrid:
		c.view.ShowGrid(e.Items)
	case ShowCarousel:
		c.view.ShowCarousel(e.Section, e.Items)
	case MarkFilter:
		c.view.MarkFilter(e.Filter)
	case FillSearch:
		c.view.FillSearch(e.Text)
	case ScrollTo:
		c.view.ScrollTo(e.Y)
	case ScrollToSection:
		c.view.ScrollToSection(e.ID)
	case Navigate:
		c.view.Navigate(e.URL)
	case ApplyTheme:
		c.view.ApplyTheme(e.Theme)
	default:
		log.Printf("[browser] unhandled effect %T", e)
	}
}

// loadHome fetches the carousels one after another. The first failure stops
// the loop; carousels already shown stay.
func (c *Controller) loadHome() {
	for _, section := range c.sections {
		items, err := c.catalog.Section(c.ctx, section)
		if err != nil {
			log.Printf("[browser] home section %s failed, stopping home load: %v", section.ID, err)
			c.Dispatch(HomeLoaded{Err: err})
			return
		}
		c.Dispatch(CarouselLoaded{Section: section, Items: items})
	}
	c.Dispatch(HomeLoaded{})
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
