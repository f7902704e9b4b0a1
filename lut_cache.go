package predictedit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNoFetcher is returned by PreloadFunc when called with a nil LutFetcher.
var ErrNoFetcher = errors.New("no LUT fetcher")

// LutFetcher returns the .cube source of a LUT by id, e.g. from disk or network.
type LutFetcher func(ctx context.Context, id string) (io.ReadCloser, error)

// LutCache maps LUT ids to parsed tables. It starts empty, is populated only by
// explicit preloads and is never cleared. Entries are insert-if-absent, reads are
// safe for concurrent use. A nil *LutCache is empty and caches nothing.
type LutCache struct {
	mu    sync.RWMutex
	luts  map[string]*Lut
	group singleflight.Group

	// PreloadConcurrency limits parallel fetches in PreloadAll, default 4.
	PreloadConcurrency int
}

// NewLutCache creates an empty cache.
func NewLutCache() *LutCache {
	return &LutCache{luts: make(map[string]*Lut)}
}

// Has reports whether id is loaded.
func (c *LutCache) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Get returns a loaded LUT.
func (c *LutCache) Get(id string) (*Lut, bool) {
	if c == nil || id == "" {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.luts[id]
	return l, ok
}

// IDs lists loaded ids in sorted order.
func (c *LutCache) IDs() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.luts))
	for id := range c.luts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store inserts an already built LUT unless id is taken, and returns the cached entry.
// A nil cache stores nothing and returns l.
func (c *LutCache) Store(id string, l *Lut) *Lut {
	if c == nil {
		return l
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.luts == nil {
		c.luts = make(map[string]*Lut)
	}
	if existing, ok := c.luts[id]; ok {
		return existing
	}
	c.luts[id] = l
	return l
}

// Preload parses source and caches it under id. An already cached id is returned as is.
func (c *LutCache) Preload(id, source string) (*Lut, error) {
	if l, ok := c.Get(id); ok {
		return l, nil
	}
	l, err := ParseLut(source)
	if err != nil {
		return nil, fmt.Errorf("preload LUT %q: %w", id, err)
	}
	return c.Store(id, l), nil
}

// PreloadFunc fetches and parses id once, even when called concurrently for the same id.
// A nil cache fetches and parses without caching.
func (c *LutCache) PreloadFunc(ctx context.Context, id string, fetch LutFetcher) (*Lut, error) {
	if fetch == nil {
		return nil, fmt.Errorf("preload LUT %q: %w", id, ErrNoFetcher)
	}
	if l, ok := c.Get(id); ok {
		return l, nil
	}
	if c == nil {
		return fetchLut(ctx, id, fetch)
	}
	v, err, _ := c.group.Do(id, func() (any, error) {
		if l, ok := c.Get(id); ok {
			return l, nil
		}
		l, err := fetchLut(ctx, id, fetch)
		if err != nil {
			return nil, err
		}
		return c.Store(id, l), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Lut), nil
}

func fetchLut(ctx context.Context, id string, fetch LutFetcher) (*Lut, error) {
	rc, err := fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch LUT %q: %w", id, err)
	}
	defer rc.Close()
	l, err := ReadLut(rc)
	if err != nil {
		return nil, fmt.Errorf("preload LUT %q: %w", id, err)
	}
	return l, nil
}

// PreloadAll loads ids in parallel. LUTs that fail are logged, left out of the
// cache and reported in the returned map; it never aborts the other loads.
// The error is non-nil only when ctx is done.
func (c *LutCache) PreloadAll(ctx context.Context, ids []string, fetch LutFetcher) (map[string]error, error) {
	limit := 0
	if c != nil {
		limit = c.PreloadConcurrency
	}
	if limit <= 0 {
		limit = 4
	}

	var (
		mu     sync.Mutex
		failed = make(map[string]error)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := c.PreloadFunc(gctx, id, fetch); err != nil {
				Logger().Warn("predictedit: LUT preload failed", "id", id, "error", err)
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failed, err
	}
	return failed, nil
}

// Apply blends the cached LUT id into buf at strength. An empty or unknown id, or
// a non-positive strength, returns buf unchanged.
func (c *LutCache) Apply(buf *RasterBuffer, id string, strength float64) *RasterBuffer {
	l, ok := c.Get(id)
	if !ok {
		return buf
	}
	return ApplyLut(buf, l, strength)
}
