package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/KaramelBytes/contractboard-cli/internal/dataset"
	"github.com/KaramelBytes/contractboard-cli/internal/schema"
	"golang.org/x/sync/singleflight"
)

// LoadFunc reads and normalizes a source.
type LoadFunc func(ctx context.Context, src dataset.Source) (*schema.Normalized, error)

// Datasets caches normalized datasets by source identity. It is owned by a
// session and safe for concurrent use; concurrent loads of the same source
// run once. Failed loads are not cached.
type Datasets struct {
	mu      sync.RWMutex
	entries map[string]*schema.Normalized
	flight  singleflight.Group
	logger  *slog.Logger

	hits   int64
	misses int64
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// New creates an empty cache. A nil logger discards logs.
func New(logger *slog.Logger) *Datasets {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Datasets{entries: make(map[string]*schema.Normalized), logger: logger}
}

// Get returns the cached dataset for src, loading it on a miss.
func (c *Datasets) Get(ctx context.Context, src dataset.Source, load LoadFunc) (*schema.Normalized, error) {
	id := src.ID()
	c.mu.RLock()
	ds, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		atomic.AddInt64(&c.hits, 1)
		c.logger.Debug("dataset cache hit", "source", id)
		return ds, nil
	}
	atomic.AddInt64(&c.misses, 1)

	v, err, _ := c.flight.Do(id, func() (any, error) {
		c.mu.RLock()
		ds, ok := c.entries[id]
		c.mu.RUnlock()
		if ok {
			return ds, nil
		}
		ds, err := load(ctx, src)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = ds
		c.mu.Unlock()
		c.logger.Debug("dataset cached", "source", id, "rows", ds.Len())
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Normalized), nil
}

// Invalidate drops the entry for a source identity.
func (c *Datasets) Invalidate(id string) {
	c.mu.Lock()
	_, ok := c.entries[id]
	delete(c.entries, id)
	c.mu.Unlock()
	if ok {
		c.logger.Debug("dataset evicted", "source", id)
	}
}

// Reset drops every entry.
func (c *Datasets) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*schema.Normalized)
	c.mu.Unlock()
}

// Stats returns a snapshot of cache counters.
func (c *Datasets) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{Entries: n, Hits: atomic.LoadInt64(&c.hits), Misses: atomic.LoadInt64(&c.misses)}
}
