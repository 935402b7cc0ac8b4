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

package delta

import "math"

const (
	// DefaultMaxStorage is the default limit in bytes of working storage for a diff
	DefaultMaxStorage = math.MaxInt32
	// DefaultBailoutFactor is the default multiple of the input size that a
	// diff may spend on comparisons before giving up on finding a shorter script
	DefaultBailoutFactor = 10000
	// DefaultMaxWork caps the comparisons of a single diff regardless of the
	// input size
	DefaultMaxWork = 1 << 24
)

// DifferConfig holds configuration for a Differ
type DifferConfig struct {
	// MaxStorage bounds the working storage in bytes, which limits the edit
	// distance that can be searched
	MaxStorage int
	// BailoutFactor bounds the comparisons made to BailoutFactor times the
	// combined input length
	BailoutFactor int
	// MaxWork is an absolute cap on the comparisons made, applied on top of
	// the BailoutFactor budget
	MaxWork int
}

// DefaultDifferConfig returns a DifferConfig with sensible defaults
func DefaultDifferConfig() DifferConfig {
	return DifferConfig{
		MaxStorage:    DefaultMaxStorage,
		BailoutFactor: DefaultBailoutFactor,
		MaxWork:       DefaultMaxWork,
	}
}

// DifferOption is a functional option for configuring a Differ
type DifferOption func(*DifferConfig)

// WithMaxStorage sets the working storage limit. Non-positive values select
// the default.
func WithMaxStorage(maxStorage int) DifferOption {
	return func(c *DifferConfig) {
		if maxStorage > 0 {
			c.MaxStorage = maxStorage
		} else {
			c.MaxStorage = DefaultMaxStorage
		}
	}
}

// WithBailoutFactor sets the work budget factor. Non-positive values select
// the default.
func WithBailoutFactor(factor int) DifferOption {
	return func(c *DifferConfig) {
		if factor > 0 {
			c.BailoutFactor = factor
		} else {
			c.BailoutFactor = DefaultBailoutFactor
		}
	}
}

// WithMaxWork sets the absolute cap on comparisons. Non-positive values
// select the default.
func WithMaxWork(maxWork int) DifferOption {
	return func(c *DifferConfig) {
		if maxWork > 0 {
			c.MaxWork = maxWork
		} else {
			c.MaxWork = DefaultMaxWork
		}
	}
}
