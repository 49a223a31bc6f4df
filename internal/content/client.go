// Package content fetches the trending carousels shown under each homepage
// category tab.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/iburimskiy/particle-field/internal/theme"
)

// Item is one entry of a carousel.
type Item struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Cover string `json:"cover,omitempty"`
	Year  string `json:"year,omitempty"`
}

// Response is the body returned by the trending and search endpoints.
type Response struct {
	Results []Item `json:"results"`
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Section is a loaded carousel. Err is set when both the primary endpoint
// and the search fallback failed.
type Section struct {
	Carousel Carousel
	Items    []Item
	Err      error
}

// Client talks to the trending content API.
type Client struct {
	base   *url.URL
	http   *http.Client
	limit  int
	logger *slog.Logger

	mu    sync.Mutex
	cache map[theme.Category][]Section
}

// NewClient creates a client for the API rooted at baseURL. Carousels are
// cut to limit items; limit <= 0 keeps everything.
func NewClient(baseURL string, timeout time.Duration, limit int, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing content base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("content base url %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		limit:  limit,
		logger: logger,
		cache:  make(map[theme.Category][]Section),
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]Item, error) {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", target, err)
	}
	return c.truncate(body.Results), nil
}

func (c *Client) truncate(items []Item) []Item {
	if c.limit > 0 && len(items) > c.limit {
		return items[:c.limit]
	}
	return items
}

// Trending fetches /api/trending/{category}.
func (c *Client) Trending(ctx context.Context, cat theme.Category) ([]Item, error) {
	return c.get(ctx, "/api/trending/"+url.PathEscape(string(cat)), nil)
}

// Search fetches /api/search?q=&type=.
func (c *Client) Search(ctx context.Context, q, typ string) ([]Item, error) {
	return c.get(ctx, "/api/search", url.Values{"q": {q}, "type": {typ}})
}

// Carousel fetches a carousel from its endpoint, falling back to a search
// for its fallback query when the endpoint fails. An empty but successful
// response does not trigger the fallback.
func (c *Client) Carousel(ctx context.Context, car Carousel) ([]Item, error) {
	items, err := c.get(ctx, car.Path, nil)
	if err == nil {
		return items, nil
	}
	c.logger.Warn("carousel endpoint failed, using search fallback",
		"carousel", car.ID,
		"path", car.Path,
		"error", err,
	)

	items, ferr := c.Search(ctx, car.FallbackQuery, car.FallbackType)
	if ferr != nil {
		return nil, fmt.Errorf("loading carousel %s: %w", car.ID, errors.Join(err, ferr))
	}
	return items, nil
}

// LoadCategory loads every carousel of a category. A category is fetched
// once; later calls return the cached sections, failed ones included.
func (c *Client) LoadCategory(ctx context.Context, cat theme.Category) ([]Section, error) {
	cars, err := Carousels(cat)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.cache[cat]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	sections := make([]Section, len(cars))
	var wg sync.WaitGroup
	for i, car := range cars {
		wg.Add(1)
		go func(i int, car Carousel) {
			defer wg.Done()
			items, err := c.Carousel(ctx, car)
			if err != nil {
				c.logger.Error("failed to load carousel", "carousel", car.ID, "error", err)
			}
			sections[i] = Section{Carousel: car, Items: items, Err: err}
		}(i, car)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.cache[cat]; ok {
		sections = cached
	} else {
		c.cache[cat] = sections
	}
	c.mu.Unlock()
	return sections, nil
}

// Cached reports whether a category has already been loaded.
func (c *Client) Cached(cat theme.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.cache[cat]
	return ok
}
