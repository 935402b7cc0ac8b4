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
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DumpTokens generates an indented listing of the tokens of a CBOR sequence
// for debugging purposes. Each line carries the byte offset of the token.
func DumpTokens(data []byte) (string, error) {
	var ret bytes.Buffer
	p, err := NewParser(data)
	if err != nil {
		return "", err
	}
	for {
		depth := p.Depth()
		offset := p.Offset()
		tok, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ret.String(), err
		}
		// Breaks close the container they belong to
		if tok.IsBreak() && depth > 0 {
			depth--
		}
		fmt.Fprintf(
			&ret,
			"%06x  %s%s\n",
			offset,
			strings.Repeat("  ", depth),
			tok.String(),
		)
	}
	return ret.String(), nil
}
