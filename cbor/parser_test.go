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

package cbor_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/blinklabs-io/gopubsub/cbor"
	"github.com/blinklabs-io/gopubsub/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseAll collects the string form of every token until EOF or an error
func parseAll(t *testing.T, data []byte, opts ...cbor.ParserOption) ([]string, error) {
	t.Helper()
	p, err := cbor.NewParser(data, opts...)
	require.NoError(t, err)
	var ret []string
	for {
		tok, err := p.Next()
		if errors.Is(err, io.EOF) {
			return ret, nil
		}
		if err != nil {
			return ret, err
		}
		ret = append(ret, tok.String())
	}
}

var parserTests = []struct {
	name     string
	cborHex  string
	expected []string
}{
	{"uint immediate", "00", []string{"UnsignedInt(0)"}},
	{"uint 23", "17", []string{"UnsignedInt(23)"}},
	{"uint 24", "1818", []string{"UnsignedInt(24)"}},
	{"uint 255", "18ff", []string{"UnsignedInt(255)"}},
	{"uint 256", "190100", []string{"UnsignedInt(256)"}},
	{"uint 65535", "19ffff", []string{"UnsignedInt(65535)"}},
	{"uint 65536", "1a00010000", []string{"UnsignedInt(65536)"}},
	{"uint 2^32-1", "1affffffff", []string{"UnsignedInt(4294967295)"}},
	{"uint 2^32", "1b0000000100000000", []string{"UnsignedInt(4294967296)"}},
	{"uint 2^64-1", "1bffffffffffffffff", []string{"UnsignedInt(18446744073709551615)"}},
	{"negint -1", "20", []string{"NegativeInt(-1)"}},
	{"negint -25", "3818", []string{"NegativeInt(-25)"}},
	{"negint -2^64", "3bffffffffffffffff", []string{"NegativeInt(-18446744073709551616)"}},
	{"empty bytes", "40", []string{"ByteString(h'')"}},
	{"bytes", "4401020304", []string{"ByteString(h'01020304')"}},
	{"text", "6568656c6c6f", []string{`TextString("hello")`}},
	{
		"array",
		"83010203",
		[]string{"Array(3)", "UnsignedInt(1)", "UnsignedInt(2)", "UnsignedInt(3)"},
	},
	{"empty array", "80", []string{"Array(0)"}},
	{"empty map", "a0", []string{"Map(0)"}},
	{
		"map",
		"a1616101",
		[]string{"Map(1)", `TextString("a")`, "UnsignedInt(1)"},
	},
	{
		"nested definite",
		"8281018200a0",
		[]string{
			"Array(2)",
			"Array(1)",
			"UnsignedInt(1)",
			"Array(2)",
			"UnsignedInt(0)",
			"Map(0)",
		},
	},
	{
		"indefinite array",
		"9f0102ff",
		[]string{"Array(_)", "UnsignedInt(1)", "UnsignedInt(2)", "break"},
	},
	{
		"indefinite map",
		"bf616101ff",
		[]string{"Map(_)", `TextString("a")`, "UnsignedInt(1)", "break"},
	},
	{
		"indefinite bytes",
		"5f42010243030405ff",
		[]string{"ByteString(_)", "ByteString(h'0102')", "ByteString(h'030405')", "break"},
	},
	{
		"indefinite text",
		"7f6161626262ff",
		[]string{"TextString(_)", `TextString("a")`, `TextString("bb")`, "break"},
	},
	{
		"nested indefinite",
		"9f9f01ff9fffff",
		[]string{"Array(_)", "Array(_)", "UnsignedInt(1)", "break", "Array(_)", "break", "break"},
	},
	{
		"indefinite inside definite",
		"829f01ff02",
		[]string{"Array(2)", "Array(_)", "UnsignedInt(1)", "break", "UnsignedInt(2)"},
	},
	{
		"definite inside indefinite",
		"9f8201029f03ffff",
		[]string{
			"Array(_)",
			"Array(2)",
			"UnsignedInt(1)",
			"UnsignedInt(2)",
			"Array(_)",
			"UnsignedInt(3)",
			"break",
			"break",
		},
	},
	{
		"tag",
		"c11a514b67b0",
		[]string{"SemanticTag(1)", "UnsignedInt(1363896240)"},
	},
	{
		"tagged array",
		"d8798100",
		[]string{"SemanticTag(121)", "Array(1)", "UnsignedInt(0)"},
	},
	{"false", "f4", []string{"false"}},
	{"true", "f5", []string{"true"}},
	{"null", "f6", []string{"null"}},
	{"undefined", "f7", []string{"undefined"}},
	{"simple 16", "f0", []string{"simple(16)"}},
	{"simple 32", "f820", []string{"simple(32)"}},
	{"half float", "f93c00", []string{"Float(1)"}},
	{"single float", "fa47c35000", []string{"Float(100000)"}},
	{"double float", "fb3ff199999999999a", []string{"Float(1.1)"}},
	{
		"sequence",
		"0102",
		[]string{"UnsignedInt(1)", "UnsignedInt(2)"},
	},
}

func TestParserTokens(t *testing.T) {
	for _, tc := range parserTests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := parseAll(t, test.DecodeHexString(tc.cborHex))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tokens)
		})
	}
}

var parserErrorTests = []struct {
	name     string
	cborHex  string
	expected error
}{
	{"truncated uint8", "18", cbor.ErrUnexpectedEnd},
	{"truncated uint64", "1b000000", cbor.ErrUnexpectedEnd},
	{"truncated float", "f900", cbor.ErrUnexpectedEnd},
	{"truncated string", "4501", cbor.ErrUnexpectedEnd},
	{"unterminated array", "8301", cbor.ErrUnexpectedEnd},
	{"unterminated indefinite", "9f01", cbor.ErrUnexpectedEnd},
	{"unterminated tag", "c1", cbor.ErrUnexpectedEnd},
	{"reserved uint", "1c", cbor.ErrReservedInfo},
	{"reserved string", "5d", cbor.ErrReservedInfo},
	{"reserved simple", "fe", cbor.ErrReservedInfo},
	{"indefinite uint", "1f", cbor.ErrInvalidIndefinite},
	{"indefinite negint", "3f", cbor.ErrInvalidIndefinite},
	{"indefinite tag", "df", cbor.ErrInvalidIndefinite},
	{"top-level break", "ff", cbor.ErrUnexpectedBreak},
	{"break in definite array", "8301ff", cbor.ErrUnexpectedBreak},
	{"break as tag content", "9fc1ff", cbor.ErrUnexpectedBreak},
	{"wrong chunk type", "5f01ff", cbor.ErrInvalidChunk},
	{"text chunk in bytes", "5f6161ff", cbor.ErrInvalidChunk},
	{"indefinite chunk", "5f5fffff", cbor.ErrInvalidChunk},
	{"odd indefinite map", "bf01ff", cbor.ErrOddMapItems},
	{"huge string", "5bffffffffffffffff", cbor.ErrLengthOverflow},
	{"huge array", "9b7fffffffffffffff", cbor.ErrLengthOverflow},
	{"huge map", "ba0000ffff00", cbor.ErrLengthOverflow},
	{"short simple", "f818", cbor.ErrInvalidSimple},
}

func TestParserErrors(t *testing.T) {
	for _, tc := range parserErrorTests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseAll(t, test.DecodeHexString(tc.cborHex))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
			assert.NotErrorIs(t, err, io.EOF)
		})
	}
}

func TestParserUnexpectedEndIsUnexpectedEOF(t *testing.T) {
	_, err := parseAll(t, test.DecodeHexString("1a0000"))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestParserErrorIsSticky(t *testing.T) {
	p, err := cbor.NewParser(test.DecodeHexString("01ff02"))
	require.NoError(t, err)
	_, err = p.Next()
	require.NoError(t, err)
	_, err = p.Next()
	require.ErrorIs(t, err, cbor.ErrUnexpectedBreak)
	_, err2 := p.Next()
	assert.Equal(t, err, err2)
}

func TestParserNilData(t *testing.T) {
	_, err := cbor.NewParser(nil)
	assert.ErrorIs(t, err, cbor.ErrNilData)
}

func TestParserEmptyData(t *testing.T) {
	p, err := cbor.NewParser([]byte{})
	require.NoError(t, err)
	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, p.Available())
}

func TestParserMaxDepth(t *testing.T) {
	data := append(bytes.Repeat([]byte{0x81}, cbor.DefaultMaxDepth), 0x00)
	_, err := parseAll(t, data)
	require.NoError(t, err)
	data = append(bytes.Repeat([]byte{0x81}, cbor.DefaultMaxDepth+1), 0x00)
	_, err = parseAll(t, data)
	assert.ErrorIs(t, err, cbor.ErrMaxDepth)
	_, err = parseAll(t, test.DecodeHexString("818100"), cbor.WithMaxDepth(2))
	require.NoError(t, err)
	_, err = parseAll(t, test.DecodeHexString("81818100"), cbor.WithMaxDepth(2))
	assert.ErrorIs(t, err, cbor.ErrMaxDepth)
}

func TestParserPosition(t *testing.T) {
	p, err := cbor.NewParser(test.DecodeHexString("82190100a0"))
	require.NoError(t, err)
	assert.Equal(t, 5, p.Available())
	tok, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, cbor.MajorTypeArray, tok.Type)
	assert.Equal(t, int64(2), tok.Size)
	assert.Equal(t, 1, p.Depth())
	assert.Equal(t, 1, p.Offset())
	tok, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(256), tok.Uint)
	assert.Equal(t, 4, p.Offset())
	assert.Equal(t, 1, p.Depth())
	_, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, 0, p.Available())
	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTokenBytesAliasInput(t *testing.T) {
	data := test.DecodeHexString("43010203ff")
	p, err := cbor.NewParser(data[:4])
	require.NoError(t, err)
	tok, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, tok.Bytes)
	assert.Equal(t, int64(3), tok.Size)
	// Appending must not clobber the input buffer
	assert.Equal(t, 3, cap(tok.Bytes))
	data[1] = 0x09
	assert.Equal(t, byte(0x09), tok.Bytes[0])
}

func TestTokenIntegers(t *testing.T) {
	p, err := cbor.NewParser(test.DecodeHexString("1bffffffffffffffff3b7fffffffffffffff3bffffffffffffffff"))
	require.NoError(t, err)

	tok, err := p.Next()
	require.NoError(t, err)
	_, ok := tok.Int64()
	assert.False(t, ok)
	assert.Equal(t, "18446744073709551615", tok.BigInt().String())

	tok, err = p.Next()
	require.NoError(t, err)
	v, ok := tok.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MinInt64), v)

	tok, err = p.Next()
	require.NoError(t, err)
	_, ok = tok.Int64()
	assert.False(t, ok)
	assert.Equal(t, "-18446744073709551616", tok.BigInt().String())
}

func TestTokenPredicates(t *testing.T) {
	p, err := cbor.NewParser(test.DecodeHexString("f4f5f6f7f0f93c009fff"))
	require.NoError(t, err)
	var toks []*cbor.Token
	for {
		tok, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		toks = append(toks, tok)
	}
	require.Len(t, toks, 8)
	assert.True(t, toks[0].IsFalse())
	assert.True(t, toks[0].IsSimple())
	assert.True(t, toks[1].IsTrue())
	assert.True(t, toks[2].IsNull())
	assert.True(t, toks[3].IsUndefined())
	assert.True(t, toks[4].IsSimple())
	assert.Equal(t, uint64(16), toks[4].Uint)
	assert.False(t, toks[5].IsSimple())
	assert.InDelta(t, 1.0, toks[5].Float, 0)
	assert.True(t, toks[6].IsIndefinite())
	assert.True(t, toks[7].IsBreak())
	assert.False(t, toks[7].IsSimple())
}
