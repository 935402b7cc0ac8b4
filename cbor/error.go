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

package cbor

import (
	"errors"
	"io"
)

var (
	// ErrNilData is returned when a parser is created without an input buffer
	ErrNilData = errors.New("cbor: nil input data")
	// ErrUnexpectedEnd is returned when the input ends inside a token or with
	// containers still open
	ErrUnexpectedEnd = errors.New("cbor: unexpected end of data")
	// ErrReservedInfo is returned for the reserved additional information values 28-30
	ErrReservedInfo = errors.New("cbor: reserved additional information value")
	// ErrInvalidIndefinite is returned for an indefinite length marker on a type
	// that cannot be indefinite
	ErrInvalidIndefinite = errors.New("cbor: invalid indefinite length marker")
	// ErrUnexpectedBreak is returned for a break outside an indefinite-length container
	ErrUnexpectedBreak = errors.New("cbor: break outside indefinite-length container")
	// ErrInvalidChunk is returned when an indefinite-length string contains
	// something other than definite-length strings of the same type
	ErrInvalidChunk = errors.New("cbor: invalid indefinite-length string chunk")
	// ErrOddMapItems is returned when an indefinite-length map is closed after a key
	ErrOddMapItems = errors.New("cbor: indefinite-length map has a key without a value")
	// ErrLengthOverflow is returned when a declared length cannot possibly be satisfied
	ErrLengthOverflow = errors.New("cbor: declared length exceeds available data")
	// ErrMaxDepth is returned when the nesting limit of the parser is exceeded
	ErrMaxDepth = errors.New("cbor: maximum nesting depth exceeded")
	// ErrInvalidSimple is returned for a two-byte simple value below 32
	ErrInvalidSimple = errors.New("cbor: invalid simple value encoding")
	// ErrTrailingData is returned by Unmarshal when bytes remain after the first data item
	ErrTrailingData = errors.New("cbor: trailing data after data item")

	// ErrBufferFull is returned by the generator when a write would exceed its size limit
	ErrBufferFull = errors.New("cbor: generator size limit exceeded")
	// ErrInvalidSize is returned for a container or string size below IndefiniteLength
	ErrInvalidSize = errors.New("cbor: invalid size")
	// ErrNotNegative is returned by WriteNegint for a value that is not negative
	ErrNotNegative = errors.New("cbor: value is not negative")
	// ErrUnsupportedType is returned by Marshal for Go types without a CBOR mapping
	ErrUnsupportedType = errors.New("cbor: unsupported type")
)

// unexpectedEnd wraps io.ErrUnexpectedEOF so callers can match either sentinel
var unexpectedEnd = errors.Join(ErrUnexpectedEnd, io.ErrUnexpectedEOF)
