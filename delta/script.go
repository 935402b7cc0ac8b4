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

import (
	"errors"
	"fmt"
	"io"

	"github.com/blinklabs-io/gopubsub/cbor"
)

// uintSize returns the encoded size of a CBOR unsigned integer
func uintSize(v int) int {
	switch {
	case v <= cbor.CborValSmall:
		return 1
	case v <= 0xff:
		return 2
	case v <= 0xffff:
		return 3
	case uint64(v) <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// result encodes the collected matches as a script
func (s *search) result() (*Result, error) {
	g := cbor.NewGenerator()
	res := &Result{BailedOut: s.bailedOut}
	insStart := 0
	for _, m := range s.matches {
		// Copies no longer than their own encoding are left in the insert
		if m.n <= uintSize(m.a)+uintSize(m.n) {
			continue
		}
		if m.b > insStart {
			if err := g.WriteByteString(s.new[insStart:m.b]); err != nil {
				return nil, err
			}
			res.Inserted += m.b - insStart
		}
		if err := g.WriteUint(uint64(m.a)); err != nil {
			return nil, err
		}
		if err := g.WriteUint(uint64(m.n)); err != nil {
			return nil, err
		}
		res.Matched += m.n
		insStart = m.b + m.n
	}
	// An empty script means no change, so an empty result still needs an op
	if insStart < len(s.new) || g.Len() == 0 {
		if err := g.WriteByteString(s.new[insStart:]); err != nil {
			return nil, err
		}
		res.Inserted += len(s.new) - insStart
	}
	res.Script = g.Bytes()
	return res, nil
}

// Apply runs a script against oldData and returns the new value. An empty
// script returns a copy of oldData.
func Apply(oldData, script []byte) ([]byte, error) {
	if len(script) == 0 {
		return append([]byte{}, oldData...), nil
	}
	p, err := cbor.NewParser(script)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDelta, err)
	}
	ret := make([]byte, 0, len(oldData))
	for {
		tok, err := p.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidDelta, err)
		}
		switch tok.Type {
		case cbor.MajorTypeByteString:
			if tok.IsIndefinite() {
				return nil, fmt.Errorf(
					"%w: indefinite-length insert at offset %d",
					ErrInvalidDelta,
					p.Offset(),
				)
			}
			ret = append(ret, tok.Bytes...)
		case cbor.MajorTypeUnsignedInt:
			start := tok.Uint
			lenTok, err := p.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, fmt.Errorf(
						"%w: copy start without length",
						ErrInvalidDelta,
					)
				}
				return nil, fmt.Errorf("%w: %w", ErrInvalidDelta, err)
			}
			if lenTok.Type != cbor.MajorTypeUnsignedInt {
				return nil, fmt.Errorf(
					"%w: copy length is %s",
					ErrInvalidDelta,
					lenTok.Type,
				)
			}
			length := lenTok.Uint
			oldLen := uint64(len(oldData))
			if start > oldLen || length > oldLen-start {
				return nil, fmt.Errorf(
					"%w: copy of %d bytes at %d from %d byte value",
					ErrDeltaMismatch,
					length,
					start,
					oldLen,
				)
			}
			ret = append(ret, oldData[start:start+length]...)
		default:
			return nil, fmt.Errorf(
				"%w: unexpected %s at offset %d",
				ErrInvalidDelta,
				tok.Type,
				p.Offset(),
			)
		}
	}
	return ret, nil
}
