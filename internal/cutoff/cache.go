package cutoff

import (
	"context"
	"sync"
	"time"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

// Cache wraps a Source with a TTL snapshot. The snapshot is refreshed at
// most once per TTL window; concurrent callers during a refresh wait for
// the single in-flight load. A refresh failure serves the stale snapshot
// when one exists.
type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	records   []predict.CutoffRecord
	loaded    bool
	refreshed time.Time
}

// NewCache wraps src. A non-positive ttl caches forever (until Invalidate).
func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

func (c *Cache) Records(ctx context.Context) ([]predict.CutoffRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.loaded && (c.ttl <= 0 || c.now().Sub(c.refreshed) < c.ttl)
	if fresh {
		return c.records, nil
	}
	records, err := c.src.Records(ctx)
	if err != nil {
		if c.loaded {
			// stale beats unavailable
			return c.records, nil
		}
		return nil, err
	}
	c.records = records
	c.loaded = true
	c.refreshed = c.now()
	return c.records, nil
}

func (c *Cache) Branches(ctx context.Context) ([]string, error) {
	records, err := c.Records(ctx)
	if err != nil {
		return nil, err
	}
	return BranchList(records), nil
}

// Invalidate drops the snapshot; the next call reloads from the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.records = nil
}
