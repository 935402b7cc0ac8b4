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
	"math"

	"github.com/x448/float16"
)

// parseFunc decodes the token starting at the parser's current position
type parseFunc func(p *Parser, tok *Token) error

// parseTable maps every possible initial byte to the routine handling its
// major type and additional information
var parseTable [256]parseFunc

var (
	parseUintSmall = uintParser(0)
	parseUint8     = uintParser(1)
	parseUint16    = uintParser(2)
	parseUint32    = uintParser(4)
	parseUint64    = uintParser(8)

	parseNegintSmall = uintParser(0)
	parseNegint8     = uintParser(1)
	parseNegint16    = uintParser(2)
	parseNegint32    = uintParser(4)
	parseNegint64    = uintParser(8)

	parseStringSmall = stringParser(0)
	parseString8     = stringParser(1)
	parseString16    = stringParser(2)
	parseString32    = stringParser(4)
	parseString64    = stringParser(8)

	parseArraySmall = containerParser(0, 1)
	parseArray8     = containerParser(1, 1)
	parseArray16    = containerParser(2, 1)
	parseArray32    = containerParser(4, 1)
	parseArray64    = containerParser(8, 1)

	parseMapSmall = containerParser(0, 2)
	parseMap8     = containerParser(1, 2)
	parseMap16    = containerParser(2, 2)
	parseMap32    = containerParser(4, 2)
	parseMap64    = containerParser(8, 2)

	parseTagSmall = uintParser(0)
	parseTag8     = uintParser(1)
	parseTag16    = uintParser(2)
	parseTag32    = uintParser(4)
	parseTag64    = uintParser(8)
)

func init() {
	for i := range parseTable {
		parseTable[i] = parseReserved
	}
	byWidth := func(major uint8, fns ...parseFunc) {
		for info := 0; info <= CborValSmall; info++ {
			parseTable[major|uint8(info)] = fns[0]
		}
		parseTable[major|CborVal8] = fns[1]
		parseTable[major|CborVal16] = fns[2]
		parseTable[major|CborVal32] = fns[3]
		parseTable[major|CborVal64] = fns[4]
	}
	byWidth(
		CborTypeUnsignedInt,
		parseUintSmall, parseUint8, parseUint16, parseUint32, parseUint64,
	)
	byWidth(
		CborTypeNegativeInt,
		parseNegintSmall, parseNegint8, parseNegint16, parseNegint32, parseNegint64,
	)
	byWidth(
		CborTypeByteString,
		parseStringSmall, parseString8, parseString16, parseString32, parseString64,
	)
	byWidth(
		CborTypeTextString,
		parseStringSmall, parseString8, parseString16, parseString32, parseString64,
	)
	byWidth(
		CborTypeArray,
		parseArraySmall, parseArray8, parseArray16, parseArray32, parseArray64,
	)
	byWidth(
		CborTypeMap,
		parseMapSmall, parseMap8, parseMap16, parseMap32, parseMap64,
	)
	byWidth(
		CborTypeTag,
		parseTagSmall, parseTag8, parseTag16, parseTag32, parseTag64,
	)
	parseTable[CborTypeUnsignedInt|CborValIndefinite] = parseInvalidIndefinite
	parseTable[CborTypeNegativeInt|CborValIndefinite] = parseInvalidIndefinite
	parseTable[CborTypeTag|CborValIndefinite] = parseInvalidIndefinite
	parseTable[CborTypeByteString|CborValIndefinite] = parseIndefinite
	parseTable[CborTypeTextString|CborValIndefinite] = parseIndefinite
	parseTable[CborTypeArray|CborValIndefinite] = parseIndefinite
	parseTable[CborTypeMap|CborValIndefinite] = parseIndefinite
	// Major type 7
	for info := 0; info < 20; info++ {
		parseTable[CborTypeFloat|uint8(info)] = parseSimpleSmall
	}
	parseTable[CborValFalse] = parseSimpleSmall
	parseTable[CborValTrue] = parseSimpleSmall
	parseTable[CborValNull] = parseSimpleSmall
	parseTable[CborValUndefined] = parseSimpleSmall
	parseTable[CborTypeFloat|CborVal8] = parseSimple8
	parseTable[CborTypeFloat|CborVal16] = parseFloat16
	parseTable[CborTypeFloat|CborVal32] = parseFloat32
	parseTable[CborTypeFloat|CborVal64] = parseFloat64
	parseTable[CborValBreak] = parseBreak
}

// uintParser handles integers and tag numbers, whose argument is the value itself
func uintParser(width int) parseFunc {
	return func(p *Parser, tok *Token) error {
		v, err := p.arg(width)
		if err != nil {
			return err
		}
		tok.Uint = v
		return nil
	}
}

// stringParser handles definite-length byte and text strings
func stringParser(width int) parseFunc {
	return func(p *Parser, tok *Token) error {
		v, err := p.arg(width)
		if err != nil {
			return err
		}
		size, err := p.length(v)
		if err != nil {
			return err
		}
		end := p.pos + int(size)
		tok.Size = size
		tok.Bytes = p.data[p.pos:end:end]
		p.pos = end
		return nil
	}
}

// containerParser handles definite-length arrays (1 item per entry) and maps
// (2 items per entry)
func containerParser(width int, perItem uint64) parseFunc {
	return func(p *Parser, tok *Token) error {
		v, err := p.arg(width)
		if err != nil {
			return err
		}
		size, err := p.count(v, perItem)
		if err != nil {
			return err
		}
		tok.Size = size
		return nil
	}
}

func parseIndefinite(p *Parser, tok *Token) error {
	p.pos++
	tok.Size = IndefiniteLength
	return nil
}

func parseInvalidIndefinite(p *Parser, tok *Token) error {
	return ErrInvalidIndefinite
}

func parseReserved(p *Parser, tok *Token) error {
	return ErrReservedInfo
}

func parseSimpleSmall(p *Parser, tok *Token) error {
	tok.Uint = uint64(tok.InitialByte & CborInfoMask)
	p.pos++
	return nil
}

func parseSimple8(p *Parser, tok *Token) error {
	v, err := p.arg(1)
	if err != nil {
		return err
	}
	// Values below 32 have a one byte encoding and are not well-formed here
	if v < 32 {
		return ErrInvalidSimple
	}
	tok.Uint = v
	return nil
}

func parseFloat16(p *Parser, tok *Token) error {
	v, err := p.arg(2)
	if err != nil {
		return err
	}
	// #nosec G115 -- arg() read exactly 2 bytes
	tok.Float = float64(float16.Frombits(uint16(v)).Float32())
	return nil
}

func parseFloat32(p *Parser, tok *Token) error {
	v, err := p.arg(4)
	if err != nil {
		return err
	}
	// #nosec G115 -- arg() read exactly 4 bytes
	tok.Float = float64(math.Float32frombits(uint32(v)))
	return nil
}

func parseFloat64(p *Parser, tok *Token) error {
	v, err := p.arg(8)
	if err != nil {
		return err
	}
	tok.Float = math.Float64frombits(v)
	return nil
}

func parseBreak(p *Parser, tok *Token) error {
	p.pos++
	return nil
}
