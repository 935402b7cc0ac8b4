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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FromJSON converts a single JSON document into canonical CBOR. Integral
// numbers are encoded as CBOR integers and all other numbers as the narrowest
// exact float.
func FromJSON(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tmp any
	if err := dec.Decode(&tmp); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode JSON: trailing data after document")
	}
	ret, err := fromJSONValue(tmp)
	if err != nil {
		return nil, err
	}
	return Marshal(ret)
}

func fromJSONValue(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		return fromJSONNumber(val)
	case []any:
		for i, item := range val {
			tmp, err := fromJSONValue(item)
			if err != nil {
				return nil, err
			}
			val[i] = tmp
		}
		return val, nil
	case map[string]any:
		for k, item := range val {
			tmp, err := fromJSONValue(item)
			if err != nil {
				return nil, err
			}
			val[k] = tmp
		}
		return val, nil
	}
	return v, nil
}

func fromJSONNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v, nil
		}
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return v, nil
		}
		if v, ok := new(big.Int).SetString(s, 10); ok {
			return v, nil
		}
	}
	v, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("decode JSON number %q: %w", s, err)
	}
	return v, nil
}

// ToJSON converts a single CBOR data item into JSON. Byte strings become
// base64 strings, tags are dropped in favor of their content and values with
// no JSON counterpart (undefined, other simple values, NaN, infinities)
// become null.
func ToJSON(data []byte) ([]byte, error) {
	tmp, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	ret, err := toJSONValue(tmp)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ret)
}

func toJSONValue(v any) (any, error) {
	switch val := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(val), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, nil
		}
		return val, nil
	case Undefined, SimpleValue:
		return nil, nil
	case Tag:
		return toJSONValue(val.Content)
	case []any:
		ret := make([]any, len(val))
		for i, item := range val {
			tmp, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			ret[i] = tmp
		}
		return ret, nil
	case map[any]any:
		ret := make(map[string]any, len(val))
		for k, item := range val {
			key, err := jsonKey(k)
			if err != nil {
				return nil, err
			}
			if _, ok := ret[key]; ok {
				return nil, fmt.Errorf("%w: duplicate JSON key %q", ErrUnsupportedType, key)
			}
			tmp, err := toJSONValue(item)
			if err != nil {
				return nil, err
			}
			ret[key] = tmp
		}
		return ret, nil
	}
	return v, nil
}

func jsonKey(k any) (string, error) {
	switch key := k.(type) {
	case string:
		return key, nil
	case ByteString:
		return base64.StdEncoding.EncodeToString(key.Bytes()), nil
	case uint64, int64, bool, float64:
		return fmt.Sprint(key), nil
	case nil:
		return "null", nil
	case Tag:
		return jsonKey(key.Content)
	}
	return "", fmt.Errorf("%w: %T as JSON key", ErrUnsupportedType, k)
}
