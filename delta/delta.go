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

import "bytes"

// Result describes a computed edit script
type Result struct {
	// Script is the encoded edit script, nil when the inputs are identical
	Script []byte
	// BailedOut reports whether the work budget or storage limit cut the
	// search short
	BailedOut bool
	// Matched is the number of bytes reproduced by copy operations
	Matched int
	// Inserted is the number of bytes carried by insert operations
	Inserted int
}

// Differ computes edit scripts with a fixed configuration. A Differ holds no
// per-call state and may be shared between goroutines.
type Differ struct {
	config DifferConfig
}

// NewDiffer returns a Differ configured with the given options
func NewDiffer(opts ...DifferOption) *Differ {
	cfg := DefaultDifferConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Differ{config: cfg}
}

// Config returns the configuration in use
func (d *Differ) Config() DifferConfig {
	return d.config
}

// Diff computes a script transforming oldData into newData
func (d *Differ) Diff(oldData, newData []byte) (*Result, error) {
	if bytes.Equal(oldData, newData) {
		return &Result{}, nil
	}
	s := newSearch(oldData, newData, d.config)
	s.compare(0, len(oldData), 0, len(newData))
	return s.result()
}

// Diff computes a script transforming oldData into newData using the default
// limits. It returns nil when the inputs are identical.
func Diff(oldData, newData []byte) ([]byte, error) {
	return DiffEx(oldData, newData, DefaultMaxStorage, DefaultBailoutFactor)
}

// DiffEx is Diff with explicit limits. Non-positive limits select the
// defaults.
func DiffEx(oldData, newData []byte, maxStorage, bailoutFactor int) ([]byte, error) {
	res, err := NewDiffer(
		WithMaxStorage(maxStorage),
		WithBailoutFactor(bailoutFactor),
	).Diff(oldData, newData)
	if err != nil {
		return nil, err
	}
	return res.Script, nil
}
