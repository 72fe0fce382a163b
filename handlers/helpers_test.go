package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"cinebox/models"
	"cinebox/services/state"
	"cinebox/services/tmdb"
)

const testClientID = "6f1c0d3e-8a4b-4c2d-9e7f-112233445566"

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// upstream answers TMDB requests by "path|language".
func upstream(routes map[string]string) *tmdb.Client {
	return tmdb.NewClient(tmdb.Options{
		APIKey:       "key",
		BaseURL:      "https://tmdb.test/3",
		ImageBaseURL: "https://img.test/w500",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			key := strings.TrimPrefix(req.URL.Path, "/3") + "|" + req.URL.Query().Get("language")
			body, ok := routes[key]
			status := http.StatusOK
			if !ok {
				status, body = http.StatusNotFound, `{"status_message":"not found"}`
			}
			return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body)), Header: make(http.Header)}, nil
		})},
	})
}

// fakeCatalog is a scripted stand-in for the upstream client.
type fakeCatalog struct {
	mu         sync.Mutex
	search     []models.CatalogItem
	searchErr  error
	list       []models.CatalogItem
	listErr    error
	sections   map[string][]models.CatalogItem
	detail     *models.Detail
	detailErr  error
	trailer    *models.Video
	trailerErr error
	queries    []string
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]models.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.search, f.searchErr
}

func (f *fakeCatalog) List(_ context.Context, kind models.ListKind, name string) ([]models.CatalogItem, error) {
	if _, err := tmdb.ListEndpoint(kind, name); err != nil {
		return nil, err
	}
	return f.list, f.listErr
}

func (f *fakeCatalog) Section(_ context.Context, s tmdb.Section) ([]models.CatalogItem, error) {
	return f.sections[s.ID], nil
}

func (f *fakeCatalog) Detail(context.Context, models.Kind, int64) (*models.Detail, error) {
	return f.detail, f.detailErr
}

func (f *fakeCatalog) Trailer(context.Context, models.Kind, int64) (*models.Video, error) {
	return f.trailer, f.trailerErr
}

func (f *fakeCatalog) searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func newMemStateService(t *testing.T) *state.Service {
	t.Helper()
	store, err := state.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	svc := state.NewService(store)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func movie(id int64, title, year string) models.CatalogItem {
	return models.CatalogItem{ID: id, Kind: models.KindMovie, Title: title, Year: year, Rating10: 7, Description: tmdb.NoDescription}
}

func series(id int64, title, year string) models.CatalogItem {
	return models.CatalogItem{ID: id, Kind: models.KindSeries, Title: title, Year: year, Rating10: 8, Description: tmdb.NoDescription}
}
