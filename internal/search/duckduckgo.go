package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the DuckDuckGo Lite endpoint
	DefaultBaseURL = "https://lite.duckduckgo.com/lite/"
	// DefaultMaxResults is used when the caller asks for zero or fewer results
	DefaultMaxResults = 8
	// MaxResults caps what the model can request
	MaxResults = 20
	// Timeout bounds a single search request
	Timeout = 15 * time.Second
	// maxBodyBytes caps how much of the result page is read
	maxBodyBytes = 2 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// ErrEmptyQuery is returned for blank queries
var ErrEmptyQuery = errors.New("search query is empty")

// Result is a single search hit
type Result struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// DuckDuckGoClient searches DuckDuckGo Lite. Requests are paced by a shared limiter.
type DuckDuckGoClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures a DuckDuckGoClient
type Option func(*DuckDuckGoClient)

// WithBaseURL points the client at another endpoint (tests)
func WithBaseURL(u string) Option {
	return func(c *DuckDuckGoClient) { c.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *DuckDuckGoClient) { c.httpClient = hc }
}

// NewDuckDuckGoClient creates a client that issues at most one search per minInterval.
// A zero interval disables pacing.
func NewDuckDuckGoClient(minInterval time.Duration, opts ...Option) *DuckDuckGoClient {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	c := &DuckDuckGoClient{
		httpClient: &http.Client{Timeout: Timeout},
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs query and returns up to maxResults hits
func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResults {
		maxResults = MaxResults
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search pacing: %w", err)
	}

	searchURL := c.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status code: %d", resp.StatusCode)
	}

	results, err := ParseLiteResults(io.LimitReader(resp.Body, maxBodyBytes), maxResults)
	if err != nil {
		return nil, err
	}
	log.Printf("[SEARCH] %q returned %d results in %v", query, len(results), time.Since(start))
	return results, nil
}

// ParseLiteResults parses a DuckDuckGo Lite result page
func ParseLiteResults(r io.Reader, maxResults int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []Result
	var current *Result

	flush := func() {
		if current != nil && current.URL != "" && len(results) < maxResults {
			current.Position = len(results) + 1
			results = append(results, *current)
		}
		current = nil
	}

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				flush()
				current = &Result{Title: textContent(n), URL: cleanRedirectURL(attr(n, "href"))}
			case n.Data == "td" && hasClass(n, "result-snippet") && current != nil:
				current.Snippet = textContent(n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
	}
	traverse(doc)
	flush()

	return results, nil
}

// cleanRedirectURL extracts the target from DuckDuckGo's //duckduckgo.com/l/?uddg= redirect
func cleanRedirectURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
