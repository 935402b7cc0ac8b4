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

// Package cbor provides the CBOR codec used for topic values, delta scripts
// and time series events.
//
// # Token level
//
// Parser is a pull decoder over a borrowed buffer. Each call to Next returns
// one Token; containers are not descended into, so an array token carries only
// its item count and the items follow as further tokens. Nesting of
// definite and indefinite-length containers is tracked on an explicit stack,
// and malformed input yields a sentinel error (ErrUnexpectedEnd,
// ErrReservedInfo, ...) rather than a panic or an out of bounds read. The end
// of a well-formed sequence is reported as io.EOF.
//
// Generator is the matching encoder. It always writes the shortest argument
// encoding and the narrowest exact float width, so its output is canonical.
//
//	g := cbor.NewGenerator()
//	_ = g.WriteMap(1)
//	_ = g.WriteTextString("price")
//	_ = g.WriteUint(1000000)
//	data := g.Bytes() // a1 65 7072696365 1a 000f4240
//
// # Go values
//
// Marshal and Unmarshal convert between CBOR and untyped Go trees. Maps are
// written with keys sorted by their encoding. FromJSON and ToJSON bridge JSON
// topic values.
//
// Typed structs go through Encode and Decode, which wrap
// github.com/fxamacker/cbor/v2 in core deterministic mode. Embed StructAsArray
// to encode a struct as an array.
package cbor
