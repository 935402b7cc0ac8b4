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
	"log/slog"

	"github.com/blinklabs-io/gopubsub/delta"
)

// DefaultMaxEntries is the default number of topic values retained
const DefaultMaxEntries = 65536

// CacheConfig holds configuration for a Cache.
type CacheConfig struct {
	// MaxEntries bounds the number of cached values. The least recently used
	// value is evicted first, which only costs a full update later.
	MaxEntries int
	// Logger receives debug output about update decisions
	Logger *slog.Logger
	// Differ computes delta scripts
	Differ *delta.Differ
	// Metrics receives counters. A private instance is used when nil.
	Metrics *Metrics
}

// DefaultCacheConfig returns a CacheConfig with sensible defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxEntries: DefaultMaxEntries,
	}
}

// CacheOption is a functional option for configuring a Cache.
type CacheOption func(*CacheConfig)

// WithMaxEntries sets the maximum number of cached values.
func WithMaxEntries(maxEntries int) CacheOption {
	return func(c *CacheConfig) {
		c.MaxEntries = maxEntries
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *CacheConfig) {
		c.Logger = logger
	}
}

// WithDiffer specifies the Differ used to compute delta scripts
func WithDiffer(differ *delta.Differ) CacheOption {
	return func(c *CacheConfig) {
		c.Differ = differ
	}
}

// WithMetrics specifies where counters are recorded, allowing them to be
// shared between caches or exported
func WithMetrics(metrics *Metrics) CacheOption {
	return func(c *CacheConfig) {
		c.Metrics = metrics
	}
}
