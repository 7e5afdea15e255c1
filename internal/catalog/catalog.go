// Package catalog reads the curated discovery feed: a remote read-only
// JSON array of installable skill listings. Results are cached with a TTL
// so checking the feed repeatedly stays cheap; both the fetcher and the
// clock are injected for deterministic tests.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Entry is one listing in the discovery feed
type Entry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Repo        string   `json:"repo"` // owner/repo, installable as a source
	Subpath     string   `json:"subpath,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Fetcher retrieves the raw feed
type Fetcher interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// HTTPFetcher fetches the feed over HTTP
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher for the given feed URL
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{URL: url, Client: http.DefaultClient}
}

// Fetch performs a GET and decodes the JSON array
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch: status %d", resp.StatusCode)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	return entries, nil
}

// Cache serves catalog entries, refreshing through the fetcher when the
// cached copy is older than the TTL
type Cache struct {
	mu      sync.Mutex
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	entries   []Entry
	fetchedAt time.Time
}

// NewCache creates a Cache. now may be nil, defaulting to time.Now.
func NewCache(fetcher Fetcher, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{fetcher: fetcher, ttl: ttl, now: now}
}

// Get returns the cached entries, refreshing first if they are stale
func (c *Cache) Get(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.entries, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh forces a fetch regardless of the cached copy's age
func (c *Cache) Refresh(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

// Invalidate drops the cached copy
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.fetchedAt = time.Time{}
}

func (c *Cache) refreshLocked(ctx context.Context) ([]Entry, error) {
	entries, err := c.fetcher.Fetch(ctx)
	if err != nil {
		// Serve the stale copy over nothing
		if c.entries != nil {
			return c.entries, nil
		}
		return nil, err
	}
	c.entries = entries
	c.fetchedAt = c.now()
	return entries, nil
}

// Search filters entries by a case-insensitive substring match on name and
// description. An empty query returns everything.
func Search(entries []Entry, query string) []Entry {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	var matched []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			matched = append(matched, e)
		}
	}
	return matched
}
