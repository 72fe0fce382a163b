package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultPrimary      = "es-ES"
	defaultFallback     = "en-US"
)

var (
	// ErrNetwork covers transport failures and non-2xx answers.
	ErrNetwork = errors.New("tmdb: request failed")
	// ErrParse is returned when a response body is not the expected JSON.
	ErrParse = errors.New("tmdb: invalid response")
	// ErrUnknownList is returned for list names outside the allow-list.
	ErrUnknownList = errors.New("tmdb: unknown list")
)

// Options configures a Client. Empty fields take the public TMDB defaults.
type Options struct {
	APIKey         string
	BaseURL        string
	ImageBaseURL   string
	PrimaryLocale  string
	FallbackLocale string
	HTTPClient     *http.Client
}

// Client wraps the TMDB v3 REST API. It never retries and never caches;
// the only deadline is the one carried by the caller's context.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	imageBase  string
	primary    string
	fallback   string
}

func NewClient(opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		imageBase:  opts.ImageBaseURL,
		primary:    opts.PrimaryLocale,
		fallback:   opts.FallbackLocale,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.imageBase == "" {
		c.imageBase = defaultImageBaseURL
	}
	if c.primary == "" {
		c.primary = defaultPrimary
	}
	if c.fallback == "" {
		c.fallback = defaultFallback
	}
	return c
}

// ImageBase is the prefix joined with upstream poster paths.
func (c *Client) ImageBase() string {
	return c.imageBase
}

// buildURL appends the credentials and locale to an endpoint that may already
// carry a query string.
func (c *Client) buildURL(endpoint, locale string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return c.baseURL + endpoint + sep + "api_key=" + url.QueryEscape(c.apiKey) + "&language=" + url.QueryEscape(locale)
}

func (c *Client) getJSON(ctx context.Context, endpoint, locale string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(endpoint, locale), nil)
	if err != nil {
		return fmt.Errorf("%w: build request %s: %v", ErrNetwork, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrNetwork, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[tmdb] GET %s (%s) -> %d: %s", endpoint, locale, resp.StatusCode, strings.TrimSpace(string(snippet)))
		return fmt.Errorf("%w: GET %s: status %d", ErrNetwork, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrNetwork, endpoint, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrParse, endpoint, err)
	}
	return nil
}
