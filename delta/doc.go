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

// Package delta computes and applies binary edit scripts between two versions
// of a value.
//
// A script is a CBOR sequence of operations applied left to right to build
// the new value:
//
//	uint start, uint length   copy old[start:start+length]
//	bytes                     insert the bytes
//
// An empty script means the value is unchanged. Scripts are produced with a
// linear space variant of the Myers O(ND) difference algorithm, bounded by a
// work budget and a storage limit. The work budget is BailoutFactor times the
// combined input length, capped at MaxWork comparisons so that large and
// dissimilar inputs finish in bounded time. When either runs out, the parts of the
// input not yet compared are sent as inserts, so the script stays valid but
// may be larger than necessary.
package delta
