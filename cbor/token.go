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
	"fmt"
	"math"
	"math/big"
)

// MajorType is the 3-bit CBOR major type stored in the top bits of the initial byte
type MajorType uint8

const (
	MajorTypeUnsignedInt MajorType = 0
	MajorTypeNegativeInt MajorType = 1
	MajorTypeByteString  MajorType = 2
	MajorTypeTextString  MajorType = 3
	MajorTypeArray       MajorType = 4
	MajorTypeMap         MajorType = 5
	MajorTypeSemanticTag MajorType = 6
	// Floats and simple values (false, true, null, undefined, break)
	MajorTypeFloat MajorType = 7
)

func (t MajorType) String() string {
	switch t {
	case MajorTypeUnsignedInt:
		return "UnsignedInt"
	case MajorTypeNegativeInt:
		return "NegativeInt"
	case MajorTypeByteString:
		return "ByteString"
	case MajorTypeTextString:
		return "TextString"
	case MajorTypeArray:
		return "Array"
	case MajorTypeMap:
		return "Map"
	case MajorTypeSemanticTag:
		return "SemanticTag"
	case MajorTypeFloat:
		return "Float"
	default:
		return fmt.Sprintf("MajorType(%d)", uint8(t))
	}
}

// Additional information values from the low 5 bits of the initial byte
const (
	// Largest value stored directly in the initial byte
	CborValSmall = 23
	// 1, 2, 4 and 8 byte follow-on values
	CborVal8  = 24
	CborVal16 = 25
	CborVal32 = 26
	CborVal64 = 27
	// Indefinite length marker for byte/text strings, arrays and maps
	CborValIndefinite = 31
)

// Well-known initial bytes for simple values
const (
	CborValFalse     byte = 0xf4
	CborValTrue      byte = 0xf5
	CborValNull      byte = 0xf6
	CborValUndefined byte = 0xf7
	CborValBreak     byte = 0xff
)

const (
	CborTypeUnsignedInt uint8 = 0x00
	CborTypeNegativeInt uint8 = 0x20
	CborTypeByteString  uint8 = 0x40
	CborTypeTextString  uint8 = 0x60
	CborTypeArray       uint8 = 0x80
	CborTypeMap         uint8 = 0xa0
	CborTypeTag         uint8 = 0xc0
	CborTypeFloat       uint8 = 0xe0

	// Only the top 3 bits are used to specify the type
	CborTypeMask uint8 = 0xe0
	// The low 5 bits carry the additional information
	CborInfoMask uint8 = 0x1f

	// Max value able to be stored in a single byte without type prefix
	CborMaxUintSimple uint8 = 0x17
)

// IndefiniteLength is the size reported for, and accepted when writing,
// indefinite-length strings and containers
const IndefiniteLength int64 = -1

// Token is a single decoded unit of a CBOR stream. Containers are not descended
// into: an array token only carries its element count, the elements follow as
// further tokens.
type Token struct {
	// The raw initial byte, useful for comparing against CborValFalse and friends
	InitialByte byte
	Type        MajorType
	// Value of an unsigned integer, the encoded magnitude n of a negative
	// integer (value -1-n), the number of a semantic tag, or the number of a
	// simple value
	Uint uint64
	// Value of a float of any wire width
	Float float64
	// Contents of a definite-length byte or text string. This aliases the
	// parser input and is only valid while that buffer is unmodified.
	Bytes []byte
	// String length in bytes, array item count or map pair count.
	// IndefiniteLength for indefinite-length strings and containers.
	Size int64
}

// Int64 returns the value of an integer token if it fits into an int64
func (t *Token) Int64() (int64, bool) {
	switch t.Type {
	case MajorTypeUnsignedInt:
		if t.Uint > math.MaxInt64 {
			return 0, false
		}
		// #nosec G115 -- checked against MaxInt64 above
		return int64(t.Uint), true
	case MajorTypeNegativeInt:
		if t.Uint > math.MaxInt64 {
			return 0, false
		}
		// #nosec G115 -- checked against MaxInt64 above
		return -1 - int64(t.Uint), true
	}
	return 0, false
}

// BigInt returns the value of an integer token. This covers the full -2^64..2^64-1 range
func (t *Token) BigInt() *big.Int {
	switch t.Type {
	case MajorTypeUnsignedInt:
		return new(big.Int).SetUint64(t.Uint)
	case MajorTypeNegativeInt:
		ret := new(big.Int).SetUint64(t.Uint)
		ret.Add(ret, big.NewInt(1))
		return ret.Neg(ret)
	}
	return nil
}

// Text returns the contents of a definite-length text string
func (t *Token) Text() string {
	return string(t.Bytes)
}

// IsIndefinite reports whether the token opens an indefinite-length string or container
func (t *Token) IsIndefinite() bool {
	switch t.Type {
	case MajorTypeByteString, MajorTypeTextString, MajorTypeArray, MajorTypeMap:
		return t.Size == IndefiniteLength
	}
	return false
}

// IsSimple reports whether the token is a simple value (including false, true,
// null and undefined) rather than a float or break
func (t *Token) IsSimple() bool {
	if t.Type != MajorTypeFloat {
		return false
	}
	info := t.InitialByte & CborInfoMask
	return info <= CborVal8
}

func (t *Token) IsBreak() bool {
	return t.InitialByte == CborValBreak
}

func (t *Token) IsFalse() bool {
	return t.InitialByte == CborValFalse
}

func (t *Token) IsTrue() bool {
	return t.InitialByte == CborValTrue
}

func (t *Token) IsNull() bool {
	return t.InitialByte == CborValNull
}

func (t *Token) IsUndefined() bool {
	return t.InitialByte == CborValUndefined
}

func (t Token) String() string {
	switch t.Type {
	case MajorTypeUnsignedInt, MajorTypeNegativeInt:
		return fmt.Sprintf("%s(%s)", t.Type, t.BigInt().String())
	case MajorTypeByteString:
		if t.Size == IndefiniteLength {
			return "ByteString(_)"
		}
		return fmt.Sprintf("ByteString(h'%x')", t.Bytes)
	case MajorTypeTextString:
		if t.Size == IndefiniteLength {
			return "TextString(_)"
		}
		return fmt.Sprintf("TextString(%q)", t.Bytes)
	case MajorTypeArray, MajorTypeMap:
		if t.Size == IndefiniteLength {
			return fmt.Sprintf("%s(_)", t.Type)
		}
		return fmt.Sprintf("%s(%d)", t.Type, t.Size)
	case MajorTypeSemanticTag:
		return fmt.Sprintf("SemanticTag(%d)", t.Uint)
	}
	switch {
	case t.IsFalse():
		return "false"
	case t.IsTrue():
		return "true"
	case t.IsNull():
		return "null"
	case t.IsUndefined():
		return "undefined"
	case t.IsBreak():
		return "break"
	case t.IsSimple():
		return fmt.Sprintf("simple(%d)", t.Uint)
	}
	return fmt.Sprintf("Float(%v)", t.Float)
}
