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
	"encoding/hex"
	"strings"
	"testing"

	"github.com/blinklabs-io/gopubsub/cbor"
	"github.com/blinklabs-io/gopubsub/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	testDefs := []struct {
		json    string
		cborHex string
	}{
		{`0`, "00"},
		{`1000000`, "1a000f4240"},
		{`-1`, "20"},
		{`18446744073709551615`, "1bffffffffffffffff"},
		{`18446744073709551616`, "c249010000000000000000"},
		{`1.5`, "f93e00"},
		{`1e2`, "f95640"},
		{`1.1`, "fb3ff199999999999a"},
		{`"hi"`, "626869"},
		{`true`, "f5"},
		{`null`, "f6"},
		{`[1, [2]]`, "82018102"},
		{`{"b": 1, "a": [], "aa": {}}`, "a3616180616201626161a0"},
		{" \n{}\n ", "a0"},
	}
	for _, testDef := range testDefs {
		data, err := cbor.FromJSON([]byte(testDef.json))
		require.NoError(t, err, testDef.json)
		assert.Equal(t, testDef.cborHex, hex.EncodeToString(data), testDef.json)
	}
}

func TestFromJSONErrors(t *testing.T) {
	for _, input := range []string{``, `{`, `[1,]`, `1 2`, `{} []`} {
		_, err := cbor.FromJSON([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestToJSON(t *testing.T) {
	testDefs := []struct {
		cborHex string
		json    string
	}{
		{"1a000f4240", `1000000`},
		{"3bffffffffffffffff", `-18446744073709551616`},
		{"f93e00", `1.5`},
		{"f97e00", `null`},
		{"f7", `null`},
		{"43010203", `"AQID"`},
		{"c11a514b67b0", `1363896240`},
		{"a2616101616280", `{"a":1,"b":[]}`},
		{"a201f5420102f4", `{"1":true,"AQI=":false}`},
		{"7f6161626262ff", `"abb"`},
	}
	for _, testDef := range testDefs {
		data, err := cbor.ToJSON(test.DecodeHexString(testDef.cborHex))
		require.NoError(t, err, testDef.cborHex)
		assert.Equal(t, testDef.json, string(data), testDef.cborHex)
	}
}

func TestToJSONErrors(t *testing.T) {
	// Array keys cannot be represented in JSON
	_, err := cbor.ToJSON(test.DecodeHexString("a18001"))
	assert.ErrorIs(t, err, cbor.ErrUnsupportedType)
	// Two keys converging on the same JSON key
	_, err = cbor.ToJSON(test.DecodeHexString("a201f56131f4"))
	assert.ErrorIs(t, err, cbor.ErrUnsupportedType)
}

func TestJSONRoundTrip(t *testing.T) {
	input := `{"items":[{"id":1,"price":12.5,"tags":["a","b"]},{"id":2,"price":null}],"total":-3}`
	data, err := cbor.FromJSON([]byte(input))
	require.NoError(t, err)
	out, err := cbor.ToJSON(data)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestDumpTokens(t *testing.T) {
	out, err := cbor.DumpTokens(test.DecodeHexString("a161619f01ff"))
	require.NoError(t, err)
	expected := strings.Join(
		[]string{
			`000000  Map(1)`,
			`000001    TextString("a")`,
			`000003    Array(_)`,
			`000004      UnsignedInt(1)`,
			`000005    break`,
			``,
		},
		"\n",
	)
	assert.Equal(t, expected, out)
	_, err = cbor.DumpTokens(test.DecodeHexString("8301"))
	assert.ErrorIs(t, err, cbor.ErrUnexpectedEnd)
}
