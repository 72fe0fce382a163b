package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebox/api"
	"cinebox/models"
)

func call(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("X-Client-ID", testClientID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestStateAPIRoundTrip(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), nil)

	resp := call(t, http.MethodGet, srv.URL+"/api/state", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, http.MethodPut, srv.URL+"/api/state", `{"filter":"tv","scrollY":640,"search":"","view":"list","listType":"tv","listEndpoint":"on_the_air"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, http.MethodGet, srv.URL+"/api/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.UIState](t, resp)
	assert.Equal(t, models.UIState{
		Filter:       models.FilterSeries,
		ScrollY:      640,
		View:         models.ViewList,
		ListKind:     models.ListSeries,
		ListEndpoint: "on_the_air",
	}, got)

	resp = call(t, http.MethodDelete, srv.URL+"/api/state", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, http.MethodGet, srv.URL+"/api/state", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestStateAPIRejectsGarbage(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), nil)

	resp := call(t, http.MethodPut, srv.URL+"/api/state", `{"filter":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", decode[map[string]string](t, resp)["error"])
}

func TestStateAPIDefaultsMissingView(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), nil)

	resp := call(t, http.MethodPut, srv.URL+"/api/state", `{"filter":"bogus","search":"dune"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.UIState](t, resp)
	assert.Equal(t, models.FilterAll, got.Filter)
	assert.Equal(t, models.ViewHome, got.View)
	assert.Equal(t, "dune", got.SearchText)
}

func TestThemeAPI(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), nil)

	got := decode[themeResponse](t, call(t, http.MethodGet, srv.URL+"/api/theme", ""))
	assert.Equal(t, themeResponse{Theme: models.ThemeDark, Icon: "🌙"}, got)

	got = decode[themeResponse](t, call(t, http.MethodPost, srv.URL+"/api/theme/toggle", ""))
	assert.Equal(t, themeResponse{Theme: models.ThemeLight, Icon: "🌞"}, got)

	got = decode[themeResponse](t, call(t, http.MethodGet, srv.URL+"/api/theme", ""))
	assert.Equal(t, models.ThemeLight, got.Theme)

	got = decode[themeResponse](t, call(t, http.MethodPut, srv.URL+"/api/theme", `{"theme":"sepia"}`))
	assert.Equal(t, models.ThemeDark, got.Theme)
}

func TestStateIsPerClient(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), nil)
	call(t, http.MethodPut, srv.URL+"/api/state", `{"filter":"anime","search":"bleach","view":"search"}`)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/state", nil)
	require.NoError(t, err)
	req.Header.Set("X-Client-ID", "0d9c2a1b-0000-4000-8000-000000000001")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPIIsRateLimited(t *testing.T) {
	limiter := api.NewClientRateLimiter(1, 2)
	t.Cleanup(limiter.Stop)
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), limiter)

	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/api/theme", "").StatusCode)
	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/api/theme", "").StatusCode)
	resp := call(t, http.MethodGet, srv.URL+"/api/theme", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	// pages are outside the API budget
	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/", "").StatusCode)
}

func TestFirstVisitGetsClientCookie(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, newMemStateService(t), nil)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == api.ClientCookie {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "expected %s cookie", api.ClientCookie)
}
