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

package updatecache

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/gopubsub/selector"
	"golang.org/x/sync/errgroup"
)

// UpdateKind identifies how an update carries its value
type UpdateKind int

const (
	UpdateFull UpdateKind = iota
	UpdateDelta
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateFull:
		return "full"
	case UpdateDelta:
		return "delta"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(k))
	}
}

// Update is a topic update ready to be sent
type Update struct {
	Path string
	Kind UpdateKind
	// Value is the complete new value
	Value []byte
	// Delta is the edit script against the previous value for UpdateDelta.
	// An empty delta means the value is unchanged.
	Delta []byte
}

// Sender delivers an update. It must not retain the update's byte slices
// after returning.
type Sender func(ctx context.Context, update Update) error

// PendingUpdate is one entry of a batch passed to UpdateAll
type PendingUpdate struct {
	Path  string
	Value []byte
}

// Update sends value for path, as a delta against the cached value when that
// is smaller, and caches value once the send succeeds. A failed send drops
// the cached value so that the next update is sent in full.
func (c *Cache) Update(
	ctx context.Context,
	path string,
	value []byte,
	send Sender,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = selector.NormalizePath(path)
	pl := c.acquire(path)
	defer c.release(path, pl)
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	old, ok := c.store.Get(path)
	pl.removed = false
	c.mu.Unlock()
	c.metrics.recordLookup(ok)

	update := Update{
		Path:  path,
		Kind:  UpdateFull,
		Value: value,
	}
	if ok {
		res, err := c.differ.Diff(old, value)
		if err != nil {
			c.logger.Warn(
				"failed to compute delta, sending full value",
				"component", "updatecache",
				"path", path,
				"error", err,
			)
		} else {
			if res.BailedOut {
				c.metrics.bailouts.Add(1)
			}
			if res.Script == nil || len(res.Script) < len(value) {
				update.Kind = UpdateDelta
				update.Delta = res.Script
			}
		}
	}

	if err := send(ctx, update); err != nil {
		c.metrics.sendErrors.Add(1)
		c.mu.Lock()
		c.store.Remove(path)
		c.mu.Unlock()
		return fmt.Errorf("send %s update for %s: %w", update.Kind, path, err)
	}
	c.metrics.recordUpdate(update)

	c.mu.Lock()
	removed := pl.removed
	if !removed {
		c.store.Add(path, cloneValue(value))
	}
	c.mu.Unlock()
	c.logger.Debug(
		"sent update",
		"component", "updatecache",
		"path", path,
		"kind", update.Kind.String(),
		"value_size", len(value),
		"delta_size", len(update.Delta),
		"removed", removed,
	)
	return nil
}

// UpdateAll runs a batch of updates with at most concurrency running at
// once. A non-positive concurrency places no limit. Updates to the same path
// within a batch are serialized in no particular order. The first error
// cancels the updates not yet started and is returned.
func (c *Cache) UpdateAll(
	ctx context.Context,
	updates []PendingUpdate,
	send Sender,
	concurrency int,
) error {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, u := range updates {
		g.Go(func() error {
			return c.Update(gctx, u.Path, u.Value, send)
		})
	}
	return g.Wait()
}
