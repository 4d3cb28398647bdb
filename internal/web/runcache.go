package web

import (
	"sync"
	"time"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/pipeline"
)

// cachedRun is one completed conversion kept in memory for export.
type cachedRun struct {
	Result    *pipeline.Result
	Vendor    string
	CreatedAt time.Time
}

// runCache keeps the most recent completed runs so their CSV exports can
// be downloaded after the conversion response has been sent. Oldest runs
// are evicted first.
type runCache struct {
	mu    sync.Mutex
	limit int
	order []string // run IDs, oldest first
	runs  map[string]*cachedRun
}

func newRunCache(limit int) *runCache {
	if limit <= 0 {
		limit = 1
	}
	return &runCache{
		limit: limit,
		runs:  make(map[string]*cachedRun),
	}
}

// Put stores a completed run, evicting the oldest entry when full.
func (c *runCache) Put(res *pipeline.Result, vendor string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.runs[res.RunID]; !exists {
		c.order = append(c.order, res.RunID)
	}
	c.runs[res.RunID] = &cachedRun{
		Result:    res,
		Vendor:    vendor,
		CreatedAt: time.Now(),
	}

	for len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.runs, oldest)
	}
}

// Get returns a cached run by ID, or nil if it has been evicted.
func (c *runCache) Get(runID string) *cachedRun {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[runID]
}

// List returns cached runs, newest first.
func (c *runCache) List() []*cachedRun {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*cachedRun, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		out = append(out, c.runs[c.order[i]])
	}
	return out
}
