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
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks update cache activity.
// Uses atomic counters for thread-safe operation.
type Metrics struct {
	hits         atomic.Uint64
	misses       atomic.Uint64
	fullUpdates  atomic.Uint64
	deltaUpdates atomic.Uint64
	bytesSent    atomic.Uint64
	bytesSaved   atomic.Uint64
	bailouts     atomic.Uint64
	sendErrors   atomic.Uint64
	removals     atomic.Uint64
}

// Stats is a point in time snapshot of Metrics
type Stats struct {
	Hits         uint64
	Misses       uint64
	FullUpdates  uint64
	DeltaUpdates uint64
	// BytesSent counts full values and delta scripts handed to senders
	BytesSent uint64
	// BytesSaved is the difference between the values and the deltas sent in their place
	BytesSaved uint64
	Bailouts   uint64
	SendErrors uint64
	Removals   uint64
}

// NewMetrics creates a new Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordLookup(hit bool) {
	if hit {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
}

func (m *Metrics) recordUpdate(update Update) {
	switch update.Kind {
	case UpdateDelta:
		m.deltaUpdates.Add(1)
		m.bytesSent.Add(uint64(len(update.Delta)))
		m.bytesSaved.Add(uint64(len(update.Value) - len(update.Delta)))
	default:
		m.fullUpdates.Add(1)
		m.bytesSent.Add(uint64(len(update.Value)))
	}
}

// Stats returns a snapshot of the current metrics.
func (m *Metrics) Stats() Stats {
	return Stats{
		Hits:         m.hits.Load(),
		Misses:       m.misses.Load(),
		FullUpdates:  m.fullUpdates.Load(),
		DeltaUpdates: m.deltaUpdates.Load(),
		BytesSent:    m.bytesSent.Load(),
		BytesSaved:   m.bytesSaved.Load(),
		Bailouts:     m.bailouts.Load(),
		SendErrors:   m.sendErrors.Load(),
		Removals:     m.removals.Load(),
	}
}

// Reset resets all metrics.
func (m *Metrics) Reset() {
	m.hits.Store(0)
	m.misses.Store(0)
	m.fullUpdates.Store(0)
	m.deltaUpdates.Store(0)
	m.bytesSent.Store(0)
	m.bytesSaved.Store(0)
	m.bailouts.Store(0)
	m.sendErrors.Store(0)
	m.removals.Store(0)
}

type collectorMetric struct {
	desc  *prometheus.Desc
	value func(Stats) uint64
}

// Collector exports Metrics to Prometheus
type Collector struct {
	metrics *Metrics
	entries []collectorMetric
}

// NewCollector returns a prometheus.Collector exposing the counters of m
// under the given namespace
func NewCollector(m *Metrics, namespace string) *Collector {
	newDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "update_cache", name),
			help,
			nil,
			nil,
		)
	}
	return &Collector{
		metrics: m,
		entries: []collectorMetric{
			{newDesc("hits_total", "Cache lookups that found a value."), func(s Stats) uint64 { return s.Hits }},
			{newDesc("misses_total", "Cache lookups that found no value."), func(s Stats) uint64 { return s.Misses }},
			{newDesc("full_updates_total", "Updates sent as full values."), func(s Stats) uint64 { return s.FullUpdates }},
			{newDesc("delta_updates_total", "Updates sent as deltas."), func(s Stats) uint64 { return s.DeltaUpdates }},
			{newDesc("sent_bytes_total", "Bytes of values and deltas sent."), func(s Stats) uint64 { return s.BytesSent }},
			{newDesc("saved_bytes_total", "Bytes saved by sending deltas."), func(s Stats) uint64 { return s.BytesSaved }},
			{newDesc("diff_bailouts_total", "Diffs that exhausted their work budget."), func(s Stats) uint64 { return s.Bailouts }},
			{newDesc("send_errors_total", "Updates whose send failed."), func(s Stats) uint64 { return s.SendErrors }},
			{newDesc("removals_total", "Values removed by selector or clear."), func(s Stats) uint64 { return s.Removals }},
		},
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, entry := range c.entries {
		ch <- entry.desc
	}
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.metrics.Stats()
	for _, entry := range c.entries {
		ch <- prometheus.MustNewConstMetric(
			entry.desc,
			prometheus.CounterValue,
			float64(entry.value(stats)),
		)
	}
}
