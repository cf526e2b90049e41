// Package wikipedia is a client for the MediaWiki action API.
package wikipedia

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/answer-engine/internal/resilience"
)

const defaultBaseURL = "https://en.wikipedia.org/w/api.php"

// Client looks up encyclopedia pages.
type Client interface {
	Lookup(ctx context.Context, query string) (*Page, error)
}

// Page is a search hit with its intro extract.
type Page struct {
	Title    string
	Extract  string
	Snippets []string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Wikipedia API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup searches for the query and returns the top hit's intro extract plus
// the search snippets of the leading results.
func (c *httpClient) Lookup(ctx context.Context, query string) (*Page, error) {
	hits, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	extract, err := c.extract(ctx, hits[0].Title)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Title:   hits[0].Title,
		Extract: extract,
	}
	for _, h := range hits {
		if s := stripSearchMarkup(h.Snippet); s != "" {
			page.Snippets = append(page.Snippets, s)
		}
	}
	return page, nil
}

type searchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

func (c *httpClient) search(ctx context.Context, query string) ([]searchHit, error) {
	params := url.Values{
		"action":   {"query"},
		"format":   {"json"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"5"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Query struct {
			Search []searchHit `json:"search"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "wikipedia: unmarshal search response")
	}
	return result.Query.Search, nil
}

func (c *httpClient) extract(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"titles":      {title},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var result struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", eris.Wrap(err, "wikipedia: unmarshal extract response")
	}

	for _, p := range result.Query.Pages {
		if p.Extract != "" {
			return p.Extract, nil
		}
	}
	return "", nil
}

func (c *httpClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "wikipedia: create request")
	}
	req.Header.Set("User-Agent", "answer-engine/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "wikipedia: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "wikipedia: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("wikipedia: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}
	return body, nil
}

var searchMarkupRe = regexp.MustCompile(`<[^>]+>`)

// stripSearchMarkup removes the highlight spans MediaWiki embeds in snippets.
func stripSearchMarkup(s string) string {
	s = searchMarkupRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&amp;", "&")
	return strings.TrimSpace(s)
}
