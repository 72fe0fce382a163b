package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"cinebox/api"
	"cinebox/models"
	"cinebox/services/browser"
	"cinebox/services/state"
	"cinebox/services/tmdb"
	"cinebox/utils"
)

const (
	sessionSendBuffer = 256
	sessionWriteWait  = 10 * time.Second
	sessionReadLimit  = 16 << 10
)

// ClientStates hands out the persistence area of one client.
type ClientStates interface {
	ForClient(clientID string) *state.ClientState
}

// SessionHandler upgrades /ws to a live browsing session: browser events
// come in as JSON, render operations go out as JSON.
type SessionHandler struct {
	catalog  browser.Catalog
	states   ClientStates
	renderer *Renderer
	origins  utils.OriginPolicy
	limiter  *api.ClientRateLimiter
	opts     browser.Options
}

func NewSessionHandler(catalog browser.Catalog, states ClientStates, renderer *Renderer, origins utils.OriginPolicy, limiter *api.ClientRateLimiter, opts browser.Options) *SessionHandler {
	if opts.Sections == nil {
		opts.Sections = tmdb.HomeSections()
	}
	return &SessionHandler{
		catalog:  catalog,
		states:   states,
		renderer: renderer,
		origins:  origins,
		limiter:  limiter,
		opts:     opts,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.origins.AllowRequest(r) {
		api.WriteJSONError(w, http.StatusForbidden, "origin not allowed")
		return
	}
	clientID := api.ClientID(r)
	if clientID == "" {
		api.WriteJSONError(w, http.StatusBadRequest, "client id required")
		return
	}

	// Origins were checked above against the LAN policy.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[session] accept failed: %v", err)
		return
	}
	conn.SetReadLimit(sessionReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	view := newSocketView(h.renderer, h.opts.Sections, sessionSendBuffer, cancel)
	ctrl := browser.NewController(ctx, h.catalog, h.states.ForClient(clientID), view, h.opts)
	log.Printf("[session] client %s connected", clientID)

	var wg conc.WaitGroup
	wg.Go(func() { view.writeLoop(ctx, conn) })

	ctrl.Start()
	h.readLoop(ctx, conn, ctrl, clientID)

	cancel()
	ctrl.Close()
	wg.Wait()
	conn.Close(websocket.StatusNormalClosure, "")
	log.Printf("[session] client %s disconnected", clientID)
}

func (h *SessionHandler) readLoop(ctx context.Context, conn *websocket.Conn, ctrl *browser.Controller, clientID string) {
	for {
		var ev clientEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if !isExpectedClose(ctx, err) {
				log.Printf("[session] read from %s: %v", clientID, err)
			}
			return
		}
		action, ok := ev.action()
		if !ok {
			log.Printf("[session] ignoring event %q from %s", ev.Type, clientID)
			continue
		}
		if charged(action) && h.limiter != nil && !h.limiter.Allow("ws:"+clientID) {
			log.Printf("[session] rate limited %s, dropping %q", clientID, ev.Type)
			continue
		}
		ctrl.Dispatch(action)
	}
}

// charged reports whether an action counts against the client's budget.
// Events the page cannot resend are never dropped.
func charged(a browser.Action) bool {
	switch a.(type) {
	case browser.InputChanged, browser.CardClicked, browser.LogoClicked, browser.Scrolled:
		return false
	}
	return true
}

func isExpectedClose(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

// clientEvent is one message from the browser.
type clientEvent struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Filter string `json:"filter,omitempty"`
	Y      int    `json:"y,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Name   string `json:"name,omitempty"`
	ID     int64  `json:"id,omitempty"`
}

func (e clientEvent) action() (browser.Action, bool) {
	switch e.Type {
	case "input":
		return browser.InputChanged{Text: e.Text}, true
	case "filter":
		return browser.FilterSelected{Filter: models.ParseFilter(e.Filter)}, true
	case "mobileFilter":
		return browser.MobileFilterSelected{Filter: models.ParseFilter(e.Filter)}, true
	case "scroll":
		return browser.Scrolled{Y: max(e.Y, 0)}, true
	case "list":
		kind, ok := models.ParseListKind(e.Kind)
		if !ok {
			return nil, false
		}
		return browser.ListOpened{Kind: kind, Name: e.Name}, true
	case "card":
		kind, err := models.ParseKind(e.Kind)
		if err != nil || e.ID <= 0 {
			return nil, false
		}
		return browser.CardClicked{ID: e.ID, Kind: kind}, true
	case "logo":
		return browser.LogoClicked{}, true
	case "theme":
		return browser.ThemeToggled{}, true
	}
	return nil, false
}

// viewOp is one render instruction for the browser.
type viewOp struct {
	Op      string        `json:"op"`
	Target  string        `json:"target,omitempty"`
	Filter  models.Filter `json:"filter,omitempty"`
	Visible []string      `json:"visible,omitempty"`
	Text    string        `json:"text,omitempty"`
	HTML    string        `json:"html,omitempty"`
	Y       int           `json:"y,omitempty"`
	URL     string        `json:"url,omitempty"`
	Theme   models.Theme  `json:"theme,omitempty"`
	Icon    string        `json:"icon,omitempty"`
}

// socketView implements browser.View by queueing ops for the writer.
// It never blocks: a client that stops reading gets disconnected.
type socketView struct {
	renderer *Renderer
	sections []tmdb.Section
	out      chan viewOp
	overflow func()
	once     sync.Once
}

func newSocketView(renderer *Renderer, sections []tmdb.Section, buffer int, overflow func()) *socketView {
	return &socketView{
		renderer: renderer,
		sections: sections,
		out:      make(chan viewOp, buffer),
		overflow: overflow,
	}
}

func (v *socketView) send(op viewOp) {
	select {
	case v.out <- op:
	default:
		v.once.Do(func() {
			log.Printf("[session] send queue full, closing session")
			v.overflow()
		})
	}
}

func (v *socketView) writeLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-v.out:
			wctx, cancel := context.WithTimeout(ctx, sessionWriteWait)
			err := wsjson.Write(wctx, conn, op)
			cancel()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[session] write %s: %v", op.Op, err)
				}
				v.overflow()
				return
			}
		}
	}
}

func (v *socketView) visible(filter models.Filter) []string {
	ids := make([]string, 0, len(v.sections))
	for _, s := range v.sections {
		if tmdb.SectionVisible(s, filter) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func (v *socketView) ShowCarousel(section tmdb.Section, items []models.CatalogItem) {
	html, err := v.renderer.Carousel(items)
	if err != nil {
		log.Printf("[session] %v", err)
		return
	}
	v.send(viewOp{Op: "carousel", Target: section.ID, HTML: html})
}

func (v *socketView) ShowHome(filter models.Filter) {
	v.send(viewOp{Op: "home", Filter: filter, Visible: v.visible(filter)})
}

func (v *socketView) FilterSections(filter models.Filter) {
	v.send(viewOp{Op: "sections", Filter: filter, Visible: v.visible(filter)})
}

func (v *socketView) ShowMessage(text string) {
	v.send(viewOp{Op: "message", Text: text})
}

func (v *socketView) ShowGrid(items []models.CatalogItem) {
	html, err := v.renderer.Grid(items)
	if err != nil {
		log.Printf("[session] %v", err)
		return
	}
	v.send(viewOp{Op: "grid", HTML: html})
}

func (v *socketView) MarkFilter(filter models.Filter) {
	v.send(viewOp{Op: "activeFilter", Filter: filter})
}

func (v *socketView) FillSearch(text string) {
	v.send(viewOp{Op: "searchText", Text: text})
}

func (v *socketView) ScrollTo(y int) {
	v.send(viewOp{Op: "scrollTo", Y: y})
}

func (v *socketView) ScrollToSection(id string) {
	v.send(viewOp{Op: "scrollToSection", Target: id})
}

func (v *socketView) Navigate(url string) {
	v.send(viewOp{Op: "navigate", URL: url})
}

func (v *socketView) ApplyTheme(theme models.Theme) {
	v.send(viewOp{Op: "theme", Theme: theme, Icon: theme.Icon()})
}
