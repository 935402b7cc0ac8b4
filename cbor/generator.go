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
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// GeneratorConfig holds configuration for a Generator
type GeneratorConfig struct {
	// InitialCapacity is the initial size of the output buffer
	InitialCapacity int
	// MaxSize limits the output length. Zero means no limit.
	MaxSize int
}

// DefaultGeneratorConfig returns a GeneratorConfig with sensible defaults
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		InitialCapacity: 64,
	}
}

// GeneratorOption is a functional option for configuring a Generator
type GeneratorOption func(*GeneratorConfig)

// WithInitialCapacity sets the initial size of the output buffer
func WithInitialCapacity(capacity int) GeneratorOption {
	return func(c *GeneratorConfig) {
		if capacity > 0 {
			c.InitialCapacity = capacity
		}
	}
}

// WithMaxSize limits the length of the generated output. Writes that would
// exceed the limit fail with ErrBufferFull and leave the output unchanged.
func WithMaxSize(size int) GeneratorOption {
	return func(c *GeneratorConfig) {
		if size >= 0 {
			c.MaxSize = size
		}
	}
}

// Generator is an append-only CBOR encoder producing canonical, minimal-length
// encodings. A Generator is not safe for concurrent use.
type Generator struct {
	data    []byte
	maxSize int
}

// NewGenerator creates an empty generator
func NewGenerator(opts ...GeneratorOption) *Generator {
	cfg := DefaultGeneratorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Generator{
		data:    make([]byte, 0, cfg.InitialCapacity),
		maxSize: cfg.MaxSize,
	}
}

// Bytes returns the encoded output. The slice is only valid until the next write.
func (g *Generator) Bytes() []byte {
	return g.data
}

// Len returns the length of the encoded output
func (g *Generator) Len() int {
	return len(g.data)
}

// Reset discards all output, keeping the allocated buffer
func (g *Generator) Reset() {
	g.data = g.data[:0]
}

// reserve checks that n more bytes fit within the size limit
func (g *Generator) reserve(n int) error {
	if g.maxSize > 0 && len(g.data)+n > g.maxSize {
		return ErrBufferFull
	}
	return nil
}

// writeHead writes an initial byte for the major type followed by the
// shortest argument encoding of val
func (g *Generator) writeHead(major uint8, val uint64) error {
	switch {
	case val <= CborValSmall:
		if err := g.reserve(1); err != nil {
			return err
		}
		g.data = append(g.data, major|uint8(val))
	case val <= math.MaxUint8:
		if err := g.reserve(2); err != nil {
			return err
		}
		g.data = append(g.data, major|CborVal8, uint8(val))
	case val <= math.MaxUint16:
		if err := g.reserve(3); err != nil {
			return err
		}
		g.data = append(g.data, major|CborVal16)
		g.data = binary.BigEndian.AppendUint16(g.data, uint16(val))
	case val <= math.MaxUint32:
		if err := g.reserve(5); err != nil {
			return err
		}
		g.data = append(g.data, major|CborVal32)
		g.data = binary.BigEndian.AppendUint32(g.data, uint32(val))
	default:
		if err := g.reserve(9); err != nil {
			return err
		}
		g.data = append(g.data, major|CborVal64)
		g.data = binary.BigEndian.AppendUint64(g.data, val)
	}
	return nil
}

func (g *Generator) writeByte(b byte) error {
	if err := g.reserve(1); err != nil {
		return err
	}
	g.data = append(g.data, b)
	return nil
}

// WriteUint encodes an unsigned integer
func (g *Generator) WriteUint(val uint64) error {
	return g.writeHead(CborTypeUnsignedInt, val)
}

// WriteNegint encodes a negative integer. The value must be below zero.
func (g *Generator) WriteNegint(val int64) error {
	if val >= 0 {
		return ErrNotNegative
	}
	// -1 - val cannot overflow for any negative int64
	// #nosec G115 -- result is in 0..MaxInt64
	return g.writeHead(CborTypeNegativeInt, uint64(-1-val))
}

// WriteNegMagnitude encodes the negative integer -1-n. This reaches the values
// below math.MinInt64 that CBOR can represent.
func (g *Generator) WriteNegMagnitude(n uint64) error {
	return g.writeHead(CborTypeNegativeInt, n)
}

// WriteInt encodes a signed integer using the unsigned or negative major type
func (g *Generator) WriteInt(val int64) error {
	if val < 0 {
		return g.WriteNegint(val)
	}
	return g.WriteUint(uint64(val))
}

// WriteByteString encodes a definite-length byte string
func (g *Generator) WriteByteString(b []byte) error {
	return g.writeString(CborTypeByteString, b)
}

// WriteTextString encodes a definite-length text string
func (g *Generator) WriteTextString(s string) error {
	return g.writeString(CborTypeTextString, []byte(s))
}

// WriteTextBytes encodes a definite-length text string from UTF-8 bytes
func (g *Generator) WriteTextBytes(b []byte) error {
	return g.writeString(CborTypeTextString, b)
}

func (g *Generator) writeString(major uint8, b []byte) error {
	start := len(g.data)
	if err := g.writeHead(major, uint64(len(b))); err != nil {
		return err
	}
	if err := g.reserve(len(b)); err != nil {
		g.data = g.data[:start]
		return err
	}
	g.data = append(g.data, b...)
	return nil
}

// StartByteString writes the marker for an indefinite-length byte string. The
// chunks must follow as definite-length byte strings, terminated by WriteBreak.
func (g *Generator) StartByteString() error {
	return g.writeByte(CborTypeByteString | CborValIndefinite)
}

// StartTextString writes the marker for an indefinite-length text string. The
// chunks must follow as definite-length text strings, terminated by WriteBreak.
func (g *Generator) StartTextString() error {
	return g.writeByte(CborTypeTextString | CborValIndefinite)
}

// WriteArray encodes an array header for size items. A size of
// IndefiniteLength starts an indefinite-length array, which must be
// terminated by WriteBreak.
func (g *Generator) WriteArray(size int64) error {
	return g.writeContainer(CborTypeArray, size)
}

// WriteMap encodes a map header for size key/value pairs, obliging the caller
// to write 2*size further items. A size of IndefiniteLength starts an
// indefinite-length map, which must be terminated by WriteBreak.
func (g *Generator) WriteMap(size int64) error {
	return g.writeContainer(CborTypeMap, size)
}

func (g *Generator) writeContainer(major uint8, size int64) error {
	switch {
	case size == IndefiniteLength:
		return g.writeByte(major | CborValIndefinite)
	case size < 0:
		return ErrInvalidSize
	}
	return g.writeHead(major, uint64(size))
}

// WriteTag encodes a semantic tag number. The tagged item must follow.
func (g *Generator) WriteTag(number uint64) error {
	return g.writeHead(CborTypeTag, number)
}

// WriteFloat encodes a float using the narrowest of the 16, 32 and 64-bit
// formats that represents it exactly
func (g *Generator) WriteFloat(val float64) error {
	if math.IsNaN(val) {
		// Canonical quiet NaN
		if err := g.reserve(3); err != nil {
			return err
		}
		g.data = append(g.data, CborTypeFloat|CborVal16, 0x7e, 0x00)
		return nil
	}
	f32 := float32(val)
	if float64(f32) == val {
		// Subnormal halves report an unknown precision and need a round trip
		p := float16.PrecisionFromfloat32(f32)
		if p == float16.PrecisionExact ||
			(p == float16.PrecisionUnknown &&
				float16.Fromfloat32(f32).Float32() == f32) {
			if err := g.reserve(3); err != nil {
				return err
			}
			g.data = append(g.data, CborTypeFloat|CborVal16)
			g.data = binary.BigEndian.AppendUint16(
				g.data,
				float16.Fromfloat32(f32).Bits(),
			)
			return nil
		}
		if err := g.reserve(5); err != nil {
			return err
		}
		g.data = append(g.data, CborTypeFloat|CborVal32)
		g.data = binary.BigEndian.AppendUint32(g.data, math.Float32bits(f32))
		return nil
	}
	if err := g.reserve(9); err != nil {
		return err
	}
	g.data = append(g.data, CborTypeFloat|CborVal64)
	g.data = binary.BigEndian.AppendUint64(g.data, math.Float64bits(val))
	return nil
}

// WriteSimple encodes a simple value. Values 24-31 have no valid encoding.
func (g *Generator) WriteSimple(val uint8) error {
	switch {
	case val <= CborValSmall:
		return g.writeByte(CborTypeFloat | val)
	case val < 32:
		return ErrInvalidSimple
	}
	if err := g.reserve(2); err != nil {
		return err
	}
	g.data = append(g.data, CborTypeFloat|CborVal8, val)
	return nil
}

func (g *Generator) WriteFalse() error {
	return g.writeByte(CborValFalse)
}

func (g *Generator) WriteTrue() error {
	return g.writeByte(CborValTrue)
}

// WriteBool encodes true or false
func (g *Generator) WriteBool(val bool) error {
	if val {
		return g.WriteTrue()
	}
	return g.WriteFalse()
}

func (g *Generator) WriteNull() error {
	return g.writeByte(CborValNull)
}

func (g *Generator) WriteUndefined() error {
	return g.writeByte(CborValUndefined)
}

// WriteBreak terminates the innermost indefinite-length string or container
func (g *Generator) WriteBreak() error {
	return g.writeByte(CborValBreak)
}

// WriteRaw appends already encoded CBOR without validating it
func (g *Generator) WriteRaw(data []byte) error {
	if err := g.reserve(len(data)); err != nil {
		return err
	}
	g.data = append(g.data, data...)
	return nil
}
