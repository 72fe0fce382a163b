package browser

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cinebox/models"
	"cinebox/services/tmdb"
)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.fired && !t.stopped && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// recordingView logs every render call as a short string.
type recordingView struct {
	mu     sync.Mutex
	events []string
}

func (v *recordingView) add(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, fmt.Sprintf(format, args...))
}

func (v *recordingView) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...)
}

func (v *recordingView) Last() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.events) == 0 {
		return ""
	}
	return v.events[len(v.events)-1]
}

func (v *recordingView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = nil
}

func (v *recordingView) ShowCarousel(s tmdb.Section, items []models.CatalogItem) {
	v.add("carousel:%s:%s", s.ID, ids(items))
}
func (v *recordingView) ShowHome(f models.Filter)       { v.add("home:%s", f) }
func (v *recordingView) FilterSections(f models.Filter) { v.add("sections:%s", f) }
func (v *recordingView) ShowMessage(text string)        { v.add("message:%s", text) }
func (v *recordingView) ShowGrid(items []models.CatalogItem) {
	v.add("grid:%s", ids(items))
}
func (v *recordingView) MarkFilter(f models.Filter)   { v.add("mark:%s", f) }
func (v *recordingView) FillSearch(text string)       { v.add("fill:%s", text) }
func (v *recordingView) ScrollTo(y int)               { v.add("scroll:%d", y) }
func (v *recordingView) ScrollToSection(id string)    { v.add("section:%s", id) }
func (v *recordingView) Navigate(url string)          { v.add("navigate:%s", url) }
func (v *recordingView) ApplyTheme(theme models.Theme) { v.add("theme:%s", theme) }

func ids(items []models.CatalogItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprint(item.ID))
	}
	return strings.Join(parts, ",")
}

// memPersister is an in-memory Persister.
type memPersister struct {
	mu     sync.Mutex
	state  *models.UIState
	theme  models.Theme
	saves  int
	clears int
}

func (p *memPersister) LoadState(context.Context) (*models.UIState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return nil, nil
	}
	st := *p.state
	return &st, nil
}

func (p *memPersister) SaveState(_ context.Context, st models.UIState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = &st
	p.saves++
	return nil
}

func (p *memPersister) ClearState(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = nil
	p.clears++
	return nil
}

func (p *memPersister) LoadTheme(context.Context) (models.Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.theme == "" {
		return models.ThemeDark, nil
	}
	return p.theme, nil
}

func (p *memPersister) SaveTheme(_ context.Context, theme models.Theme) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
	return nil
}

func (p *memPersister) Saved() models.UIState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return models.UIState{}
	}
	return *p.state
}

// deferredSpawn holds fetches so tests decide when and in what order they complete.
type deferredSpawn struct {
	mu    sync.Mutex
	tasks []func()
}

func (d *deferredSpawn) spawn(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, f)
}

func (d *deferredSpawn) run(i int) {
	d.mu.Lock()
	f := d.tasks[i]
	d.mu.Unlock()
	f()
}

func syncSpawn(f func()) { f() }

func movie(id int64, title string) models.CatalogItem {
	return models.CatalogItem{ID: id, Kind: models.KindMovie, Title: title, Description: tmdb.NoDescription}
}

func series(id int64, title string) models.CatalogItem {
	return models.CatalogItem{ID: id, Kind: models.KindSeries, Title: title, Description: tmdb.NoDescription}
}
