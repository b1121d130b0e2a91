// Package webcontext finds a related web page for a query and scrapes its
// visible text. It only ever adds optional prompt context, so every failure
// path degrades to an empty result instead of an error.
package webcontext

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultSearchURL = "https://html.duckduckgo.com/html/"
	maxContextChars  = 3500
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client performs the search and scrape over plain HTTP.
type Client struct {
	httpClient *http.Client
	searchURL  string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithSearchURL(searchURL string) Option {
	return func(c *Client) {
		c.searchURL = strings.TrimSpace(searchURL)
	}
}

// New creates a Client with a 10s request timeout by default.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		searchURL:  defaultSearchURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindContext searches for the query scoped to India and returns the cleaned
// text of the first result page, truncated to 3500 characters. It returns an
// empty string when the search or scrape fails in any way.
func (c *Client) FindContext(ctx context.Context, query string) string {
	pageURL := c.findRelevantURL(ctx, query+" India")
	if pageURL == "" {
		return ""
	}
	return c.scrapeText(ctx, pageURL)
}

// findRelevantURL returns the first organic result link for the query.
func (c *Client) findRelevantURL(ctx context.Context, query string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return ""
	}
	href, ok := doc.Find("a.result__a").First().Attr("href")
	if !ok {
		return ""
	}
	return resolveResultLink(href)
}

// resolveResultLink unwraps the search engine's redirect links, which carry
// the destination in a uddg query parameter.
func resolveResultLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String()
}

// scrapeText fetches the page and returns its visible text, one trimmed line
// per text chunk, capped at maxContextChars.
func (c *Client) scrapeText(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return ""
	}
	doc.Find("script,style").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	text := strings.Join(lines, "\n")
	if len(text) > maxContextChars {
		text = text[:maxContextChars]
	}
	return text
}
