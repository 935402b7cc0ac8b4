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
	"io"
	"math"
)

// DefaultMaxDepth is the default nesting limit of a Parser. This matches the
// MaxNestedLevels used for the struct decoder.
const DefaultMaxDepth = 256

// ParserConfig holds configuration for a Parser
type ParserConfig struct {
	// MaxDepth is the maximum number of simultaneously open containers and tags
	MaxDepth int
}

// DefaultParserConfig returns a ParserConfig with sensible defaults
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MaxDepth: DefaultMaxDepth,
	}
}

// ParserOption is a functional option for configuring a Parser
type ParserOption func(*ParserConfig)

// WithMaxDepth sets the nesting limit
func WithMaxDepth(depth int) ParserOption {
	return func(c *ParserConfig) {
		if depth > 0 {
			c.MaxDepth = depth
		}
	}
}

// frame tracks one open container, indefinite-length string or tag
type frame struct {
	kind MajorType
	// Items left to read, or IndefiniteLength when the frame ends with a break
	remaining int64
	// Items read so far
	items int64
}

// Parser is a pull-style CBOR decoder producing one Token per call to Next.
// It borrows its input, which must not be modified while the parser or any
// token it returned is in use. A Parser is not safe for concurrent use.
type Parser struct {
	data     []byte
	pos      int
	stack    []frame
	maxDepth int
	err      error
}

// NewParser creates a parser over the given buffer
func NewParser(data []byte, opts ...ParserOption) (*Parser, error) {
	if data == nil {
		return nil, ErrNilData
	}
	cfg := DefaultParserConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{
		data:     data,
		maxDepth: cfg.MaxDepth,
	}, nil
}

// Next returns the next token. It returns io.EOF once all input has been
// consumed at the top level. Any other error is sticky: the parser keeps
// returning it.
func (p *Parser) Next() (*Token, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.pos >= len(p.data) {
		if len(p.stack) > 0 {
			p.err = fmt.Errorf(
				"%w: %d container(s) still open",
				unexpectedEnd,
				len(p.stack),
			)
			return nil, p.err
		}
		return nil, io.EOF
	}
	initialByte := p.data[p.pos]
	tok := &Token{
		InitialByte: initialByte,
		Type:        MajorType(initialByte >> 5),
	}
	if err := parseTable[initialByte](p, tok); err != nil {
		p.err = fmt.Errorf("offset %d: %w", p.pos, err)
		return nil, p.err
	}
	if err := p.track(tok); err != nil {
		p.err = fmt.Errorf("offset %d: %w", p.pos, err)
		return nil, p.err
	}
	return tok, nil
}

// Available returns the number of bytes not yet consumed
func (p *Parser) Available() int {
	return len(p.data) - p.pos
}

// Offset returns the number of bytes consumed so far
func (p *Parser) Offset() int {
	return p.pos
}

// Depth returns the number of open containers, indefinite-length strings and tags
func (p *Parser) Depth() int {
	return len(p.stack)
}

// track updates the nesting stack for a token that was just decoded
func (p *Parser) track(tok *Token) error {
	if tok.IsBreak() {
		if len(p.stack) == 0 {
			return ErrUnexpectedBreak
		}
		top := &p.stack[len(p.stack)-1]
		if top.remaining != IndefiniteLength {
			return ErrUnexpectedBreak
		}
		if top.kind == MajorTypeMap && top.items%2 != 0 {
			return ErrOddMapItems
		}
		p.stack = p.stack[:len(p.stack)-1]
		p.collapse()
		return nil
	}
	// The token fills one item slot of the enclosing frame
	if len(p.stack) > 0 {
		top := &p.stack[len(p.stack)-1]
		if top.kind == MajorTypeByteString || top.kind == MajorTypeTextString {
			if tok.Type != top.kind || tok.Size == IndefiniteLength {
				return ErrInvalidChunk
			}
		}
		top.items++
		if top.remaining > 0 {
			top.remaining--
		}
	}
	switch tok.Type {
	case MajorTypeByteString, MajorTypeTextString:
		if tok.Size == IndefiniteLength {
			if err := p.push(tok.Type, IndefiniteLength); err != nil {
				return err
			}
		}
	case MajorTypeArray:
		if tok.Size != 0 {
			if err := p.push(tok.Type, tok.Size); err != nil {
				return err
			}
		}
	case MajorTypeMap:
		switch {
		case tok.Size == IndefiniteLength:
			if err := p.push(tok.Type, IndefiniteLength); err != nil {
				return err
			}
		case tok.Size > 0:
			// Keys and values are counted separately
			if err := p.push(tok.Type, tok.Size*2); err != nil {
				return err
			}
		}
	case MajorTypeSemanticTag:
		if err := p.push(tok.Type, 1); err != nil {
			return err
		}
	}
	p.collapse()
	return nil
}

func (p *Parser) push(kind MajorType, remaining int64) error {
	if len(p.stack) >= p.maxDepth {
		return ErrMaxDepth
	}
	p.stack = append(
		p.stack,
		frame{kind: kind, remaining: remaining},
	)
	return nil
}

// collapse pops every completed definite-length frame from the top of the stack
func (p *Parser) collapse() {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if top.remaining != 0 {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// arg reads the argument of the current token, advancing past the initial
// byte and width follow-on bytes. A width of 0 means the argument is the
// additional information in the initial byte itself.
func (p *Parser) arg(width int) (uint64, error) {
	if width == 0 {
		ret := uint64(p.data[p.pos] & CborInfoMask)
		p.pos++
		return ret, nil
	}
	if len(p.data)-p.pos-1 < width {
		return 0, unexpectedEnd
	}
	var ret uint64
	for _, b := range p.data[p.pos+1 : p.pos+1+width] {
		ret = ret<<8 | uint64(b)
	}
	p.pos += 1 + width
	return ret, nil
}

// length validates a declared string length against the remaining input
func (p *Parser) length(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, ErrLengthOverflow
	}
	if v > uint64(p.Available()) {
		return 0, unexpectedEnd
	}
	// #nosec G115 -- bounded by the input length above
	return int64(v), nil
}

// count validates a declared item count. Every item needs at least one byte,
// so a count larger than the remaining input can never be satisfied.
func (p *Parser) count(v uint64, perItem uint64) (int64, error) {
	if v > math.MaxInt64/perItem || v*perItem > uint64(p.Available()) {
		return 0, ErrLengthOverflow
	}
	// #nosec G115 -- bounded by the input length above
	return int64(v), nil
}
