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
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gopubsub/cbor"
	"github.com/blinklabs-io/gopubsub/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	cbor.StructAsArray
	Id    uint64
	Name  string
	Value []byte
}

func TestEncodeStructAsArray(t *testing.T) {
	rec := testRecord{Id: 1, Name: "a", Value: []byte{0xff}}
	data, err := cbor.Encode(&rec)
	require.NoError(t, err)
	assert.Equal(t, "8301616141ff", hex.EncodeToString(data))
}

func TestDecodeStructAsArray(t *testing.T) {
	data := test.DecodeHexString("83186461624100")
	var rec testRecord
	bytesRead, err := cbor.Decode(data, &rec)
	require.NoError(t, err)
	assert.Equal(t, len(data), bytesRead)
	assert.Equal(t, uint64(100), rec.Id)
	assert.Equal(t, "b", rec.Name)
	assert.Equal(t, []byte{0x00}, rec.Value)
}

func TestDecodeBytesRead(t *testing.T) {
	var dest any
	bytesRead, err := cbor.Decode(test.DecodeHexString("81018102"), &dest)
	require.NoError(t, err)
	assert.Equal(t, 2, bytesRead)
	assert.Equal(t, []any{uint64(1)}, dest)
}

func TestStreamDecoder(t *testing.T) {
	data := test.DecodeHexString("0183010203" + "6161" + "a0")
	d, err := cbor.NewStreamDecoder(data)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Position())

	var num uint64
	start, length, err := d.Decode(&num)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), num)
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, length)

	var list []uint64
	start, raw, err := d.DecodeRaw(&list)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, []uint64{1, 2, 3}, list)
	assert.Equal(t, "83010203", hex.EncodeToString(raw))

	start, length, err = d.Skip()
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, 2, length)
	assert.False(t, d.EOF())

	var m map[string]any
	_, _, err = d.Decode(&m)
	require.NoError(t, err)
	assert.True(t, d.EOF())
	assert.Equal(t, len(data), d.Position())
}

func TestByteString(t *testing.T) {
	bs := cbor.NewByteString([]byte("blinklabs"))
	assert.Equal(t, "626c696e6b6c616273", bs.String())
	assert.Equal(t, []byte("blinklabs"), bs.Bytes())
	jsonData, err := json.Marshal(bs)
	require.NoError(t, err)
	assert.Equal(t, `"626c696e6b6c616273"`, string(jsonData))
	data, err := cbor.Encode(bs)
	require.NoError(t, err)
	assert.Equal(t, "49626c696e6b6c616273", hex.EncodeToString(data))
	var decoded cbor.ByteString
	_, err = cbor.Decode(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, bs, decoded)
	_, err = cbor.Decode(test.DecodeHexString("6161"), &decoded)
	assert.Error(t, err)
}
