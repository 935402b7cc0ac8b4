// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package updatecache keeps the last value sent for each topic path so that
// later updates can be sent as deltas against it.
//
// The cache is consulted and updated by Cache.Update, which snapshots the
// cached value, computes a delta outside of any shared lock, hands the update
// to a Sender and writes the new value back once the send succeeds. Updates to
// a single path are serialized. Remove and Clear never wait for an update in
// flight, and an update whose path was removed after its snapshot does not
// write its value back.
package updatecache

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/gopubsub/delta"
	"github.com/blinklabs-io/gopubsub/selector"
	lru "github.com/hashicorp/golang-lru/v2"
)

// pathLock serializes updates to one path. It exists while updates for the
// path are queued or running.
type pathLock struct {
	sync.Mutex
	refs int
	// removed is set when the path is removed during an update, guarded by Cache.mu
	removed bool
}

// Cache is a bounded cache of topic values keyed by topic path
type Cache struct {
	mu      sync.Mutex
	store   *lru.Cache[string, []byte]
	locks   map[string]*pathLock
	differ  *delta.Differ
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a Cache configured with the given options
func New(opts ...CacheOption) (*Cache, error) {
	cfg := DefaultCacheConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	store, err := lru.New[string, []byte](cfg.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("create update cache: %w", err)
	}
	c := &Cache{
		store:   store,
		locks:   make(map[string]*pathLock),
		differ:  cfg.Differ,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if c.differ == nil {
		c.differ = delta.NewDiffer()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics()
	}
	return c, nil
}

// Metrics returns the metrics the cache records into
func (c *Cache) Metrics() *Metrics {
	return c.metrics
}

// Get returns a copy of the value last stored for path
func (c *Cache) Get(path string) ([]byte, bool) {
	c.mu.Lock()
	value, ok := c.store.Get(selector.NormalizePath(path))
	c.mu.Unlock()
	c.metrics.recordLookup(ok)
	if !ok {
		return nil, false
	}
	return bytes.Clone(value), true
}

// Put stores a copy of value for path
func (c *Cache) Put(path string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Add(selector.NormalizePath(path), cloneValue(value))
}

// Remove removes the values of all paths matching the selector expression
// and returns the number removed
func (c *Cache) Remove(expr string) (int, error) {
	sel, err := selector.Parse(expr)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	count := 0
	for _, path := range c.store.Keys() {
		if sel.Matches(path) {
			c.store.Remove(path)
			count++
		}
	}
	for path, pl := range c.locks {
		if sel.Matches(path) {
			pl.removed = true
		}
	}
	c.mu.Unlock()
	c.metrics.removals.Add(uint64(count))
	c.logger.Debug(
		"removed cached values",
		"component", "updatecache",
		"selector", sel.String(),
		"count", count,
	)
	return count, nil
}

// Clear removes all values
func (c *Cache) Clear() {
	c.mu.Lock()
	count := c.store.Len()
	c.store.Purge()
	for _, pl := range c.locks {
		pl.removed = true
	}
	c.mu.Unlock()
	c.metrics.removals.Add(uint64(count))
}

// Len returns the number of cached values
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

func (c *Cache) acquire(path string) *pathLock {
	c.mu.Lock()
	pl, ok := c.locks[path]
	if !ok {
		pl = &pathLock{}
		c.locks[path] = pl
	}
	pl.refs++
	c.mu.Unlock()
	pl.Lock()
	return pl
}

func (c *Cache) release(path string, pl *pathLock) {
	pl.Unlock()
	c.mu.Lock()
	pl.refs--
	if pl.refs == 0 {
		delete(c.locks, path)
	}
	c.mu.Unlock()
}

// cloneValue copies a value, keeping empty values distinct from nil
func cloneValue(value []byte) []byte {
	return append([]byte{}, value...)
}
