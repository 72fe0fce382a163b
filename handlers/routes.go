package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cinebox/api"
)

// Routes bundles the handlers of a cinebox server.
type Routes struct {
	Pages   *PagesHandler
	Session http.Handler
	State   *ClientStateHandler
	Catalog *CatalogHandler
	Static  *StaticHandler
}

// Register mounts every route on r. Static assets skip client identity;
// the JSON API is additionally rate limited per client.
func (rt Routes) Register(r *mux.Router, limiter *api.ClientRateLimiter) {
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", rt.Static)).Methods(http.MethodGet, http.MethodHead)

	app := r.NewRoute().Subrouter()
	app.Use(api.ClientIdentityMiddleware())

	app.HandleFunc("/", rt.Pages.Home).Methods(http.MethodGet)
	app.HandleFunc("/detail", rt.Pages.Detail).Methods(http.MethodGet)
	app.Handle("/ws", rt.Session).Methods(http.MethodGet)

	apiRouter := app.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.RateLimitMiddleware(limiter))

	apiRouter.HandleFunc("/state", rt.State.GetState).Methods(http.MethodGet)
	apiRouter.HandleFunc("/state", rt.State.PutState).Methods(http.MethodPut)
	apiRouter.HandleFunc("/state", rt.State.DeleteState).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/theme", rt.State.GetTheme).Methods(http.MethodGet)
	apiRouter.HandleFunc("/theme", rt.State.PutTheme).Methods(http.MethodPut)
	apiRouter.HandleFunc("/theme/toggle", rt.State.ToggleTheme).Methods(http.MethodPost)

	apiRouter.HandleFunc("/search", rt.Catalog.Search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/lists/{kind}/{endpoint}", rt.Catalog.List).Methods(http.MethodGet)
}
