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

import "errors"

var (
	// ErrInvalidDelta is returned when a script is not a well-formed sequence of operations
	ErrInvalidDelta = errors.New("delta: invalid delta")
	// ErrDeltaMismatch is returned when a script refers to bytes beyond the end of the old value
	ErrDeltaMismatch = errors.New("delta: delta does not match value")
)
