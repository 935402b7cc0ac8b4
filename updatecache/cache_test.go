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

package updatecache_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/blinklabs-io/gopubsub/delta"
	"github.com/blinklabs-io/gopubsub/selector"
	"github.com/blinklabs-io/gopubsub/updatecache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errSend = errors.New("send failed")

func newTestCache(t *testing.T, opts ...updatecache.CacheOption) *updatecache.Cache {
	t.Helper()
	opts = append(
		[]updatecache.CacheOption{
			updatecache.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		},
		opts...,
	)
	c, err := updatecache.New(opts...)
	require.NoError(t, err)
	return c
}

// recorder is a Sender that keeps every update it is given
type recorder struct {
	mu      sync.Mutex
	updates []updatecache.Update
}

func (r *recorder) send(_ context.Context, update updatecache.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
	return nil
}

func (r *recorder) last() updatecache.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

func TestUpdateFullThenDelta(t *testing.T) {
	c := newTestCache(t)
	rec := &recorder{}
	ctx := context.Background()
	v1 := []byte(strings.Repeat("0123456789", 20))
	v2 := append([]byte(strings.Repeat("0123456789", 20)), "tail"...)

	require.NoError(t, c.Update(ctx, "/a/b", v1, rec.send))
	first := rec.last()
	assert.Equal(t, updatecache.UpdateFull, first.Kind)
	assert.Equal(t, "a/b", first.Path)
	assert.Equal(t, v1, first.Value)
	assert.Nil(t, first.Delta)

	require.NoError(t, c.Update(ctx, "a/b", v2, rec.send))
	second := rec.last()
	assert.Equal(t, updatecache.UpdateDelta, second.Kind)
	assert.Equal(t, "0018c8447461696c", fmt.Sprintf("%x", second.Delta))
	applied, err := delta.Apply(v1, second.Delta)
	require.NoError(t, err)
	assert.Equal(t, v2, applied)

	cached, ok := c.Get("a/b")
	require.True(t, ok)
	assert.Equal(t, v2, cached)
}

func TestUpdateIdenticalValue(t *testing.T) {
	c := newTestCache(t)
	rec := &recorder{}
	ctx := context.Background()
	require.NoError(t, c.Update(ctx, "x", []byte("same"), rec.send))
	require.NoError(t, c.Update(ctx, "x", []byte("same"), rec.send))
	update := rec.last()
	assert.Equal(t, updatecache.UpdateDelta, update.Kind)
	assert.Empty(t, update.Delta)
}

func TestUpdateDeltaNotSmaller(t *testing.T) {
	c := newTestCache(t)
	rec := &recorder{}
	ctx := context.Background()
	require.NoError(t, c.Update(ctx, "x", []byte("abc"), rec.send))
	require.NoError(t, c.Update(ctx, "x", []byte("xyz"), rec.send))
	update := rec.last()
	assert.Equal(t, updatecache.UpdateFull, update.Kind)
	assert.Equal(t, []byte("xyz"), update.Value)
}

func TestUpdateSendErrorDropsValue(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	c.Put("x", []byte("old value"))
	err := c.Update(
		ctx,
		"x",
		[]byte("new value"),
		func(context.Context, updatecache.Update) error { return errSend },
	)
	require.ErrorIs(t, err, errSend)
	_, ok := c.Get("x")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Metrics().Stats().SendErrors)

	rec := &recorder{}
	require.NoError(t, c.Update(ctx, "x", []byte("new value"), rec.send))
	assert.Equal(t, updatecache.UpdateFull, rec.last().Kind)
}

func TestRemoveDuringUpdateWins(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	c.Put("a/b", []byte("one"))
	err := c.Update(
		ctx,
		"a/b",
		[]byte("two"),
		func(context.Context, updatecache.Update) error {
			n, err := c.Remove(">a//")
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			return nil
		},
	)
	require.NoError(t, err)
	_, ok := c.Get("a/b")
	assert.False(t, ok)

	// The removal only affects the update it overlapped
	require.NoError(t, c.Update(ctx, "a/b", []byte("three"), (&recorder{}).send))
	value, ok := c.Get("a/b")
	require.True(t, ok)
	assert.Equal(t, []byte("three"), value)
}

func TestClearDuringUpdateWins(t *testing.T) {
	c := newTestCache(t)
	err := c.Update(
		context.Background(),
		"a",
		[]byte("value"),
		func(context.Context, updatecache.Update) error {
			c.Clear()
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestRemove(t *testing.T) {
	c := newTestCache(t)
	c.Put("a", []byte{1})
	c.Put("a/b", []byte{2})
	c.Put("a/b/c", []byte{3})
	c.Put("c", []byte{4})

	n, err := c.Remove(">a/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, c.Len())

	n, err = c.Remove("*[a-z]")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, c.Len())

	_, err = c.Remove("")
	assert.ErrorIs(t, err, selector.ErrInvalidSelector)
}

func TestGetReturnsCopy(t *testing.T) {
	c := newTestCache(t)
	value := []byte("value")
	c.Put("k", value)
	value[0] = 'V'
	got, ok := c.Get("/k")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
	got[0] = 'X'
	again, _ := c.Get("k")
	assert.Equal(t, []byte("value"), again)
}

func TestEmptyValue(t *testing.T) {
	c := newTestCache(t)
	c.Put("k", nil)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMaxEntries(t *testing.T) {
	c := newTestCache(t, updatecache.WithMaxEntries(2))
	c.Put("a", []byte{1})
	c.Put("b", []byte{2})
	c.Put("c", []byte{3})
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)

	_, err := updatecache.New(updatecache.WithMaxEntries(0))
	assert.Error(t, err)
}

func TestUpdateCanceledContext(t *testing.T) {
	c := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := c.Update(
		ctx,
		"a",
		[]byte("v"),
		func(context.Context, updatecache.Update) error {
			called = true
			return nil
		},
	)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUpdateAllSerializesPerPath(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := newTestCache(t)
	var mu sync.Mutex
	inFlight := make(map[string]int)
	var sent atomic.Uint64
	send := func(_ context.Context, update updatecache.Update) error {
		mu.Lock()
		inFlight[update.Path]++
		concurrent := inFlight[update.Path]
		mu.Unlock()
		assert.Equal(t, 1, concurrent, "path %s", update.Path)
		sent.Add(1)
		mu.Lock()
		inFlight[update.Path]--
		mu.Unlock()
		return nil
	}
	var updates []updatecache.PendingUpdate
	for i := range 100 {
		updates = append(updates, updatecache.PendingUpdate{
			Path:  fmt.Sprintf("topic/%d", i%10),
			Value: []byte(strings.Repeat(fmt.Sprintf("value %d ", i), 10)),
		})
	}
	require.NoError(t, c.UpdateAll(context.Background(), updates, send, 4))
	assert.Equal(t, uint64(100), sent.Load())
	assert.Equal(t, 10, c.Len())
	stats := c.Metrics().Stats()
	assert.Equal(t, uint64(100), stats.FullUpdates+stats.DeltaUpdates)
}

func TestUpdateAllError(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := newTestCache(t)
	send := func(_ context.Context, update updatecache.Update) error {
		if update.Path == "bad" {
			return errSend
		}
		return nil
	}
	err := c.UpdateAll(
		context.Background(),
		[]updatecache.PendingUpdate{
			{Path: "good", Value: []byte("1")},
			{Path: "bad", Value: []byte("2")},
		},
		send,
		0,
	)
	assert.ErrorIs(t, err, errSend)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestMetrics(t *testing.T) {
	metrics := updatecache.NewMetrics()
	c := newTestCache(t, updatecache.WithMetrics(metrics))
	ctx := context.Background()
	v1 := []byte(strings.Repeat("0123456789", 20))
	v2 := append([]byte(strings.Repeat("0123456789", 20)), "tail"...)
	require.NoError(t, c.Update(ctx, "a", v1, (&recorder{}).send))
	require.NoError(t, c.Update(ctx, "a", v2, (&recorder{}).send))
	_, _ = c.Get("a")
	_, _ = c.Get("b")
	_, err := c.Remove(">a")
	require.NoError(t, err)

	assert.Equal(
		t,
		updatecache.Stats{
			Hits:         2,
			Misses:       2,
			FullUpdates:  1,
			DeltaUpdates: 1,
			BytesSent:    208,
			BytesSaved:   196,
			Removals:     1,
		},
		metrics.Stats(),
	)

	collector := updatecache.NewCollector(metrics, "gopubsub")
	assert.Equal(t, 9, testutil.CollectAndCount(collector))
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(collector))
	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, family := range families {
		values[family.GetName()] = family.GetMetric()[0].GetCounter().GetValue()
	}
	assert.InDelta(t, 196, values["gopubsub_update_cache_saved_bytes_total"], 0)
	assert.InDelta(t, 1, values["gopubsub_update_cache_delta_updates_total"], 0)

	metrics.Reset()
	assert.Equal(t, updatecache.Stats{}, metrics.Stats())
}

func TestUpdateKindString(t *testing.T) {
	assert.Equal(t, "full", updatecache.UpdateFull.String())
	assert.Equal(t, "delta", updatecache.UpdateDelta.String())
	assert.Equal(t, "UpdateKind(7)", updatecache.UpdateKind(7).String())
}
