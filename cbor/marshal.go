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
	"math"
	"math/big"
	"reflect"
	"slices"
)

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// Marshal encodes an untyped Go value tree as canonical CBOR. Map keys are
// ordered by their encoded bytes, so equal maps always produce equal output.
func Marshal(v any) ([]byte, error) {
	g := NewGenerator()
	if err := marshalValue(g, v); err != nil {
		return nil, err
	}
	return g.Bytes(), nil
}

// MarshalTo encodes an untyped Go value tree into an existing generator
func MarshalTo(g *Generator, v any) error {
	return marshalValue(g, v)
}

func marshalValue(g *Generator, v any) error {
	switch val := v.(type) {
	case nil:
		return g.WriteNull()
	case bool:
		return g.WriteBool(val)
	case int:
		return g.WriteInt(int64(val))
	case int8:
		return g.WriteInt(int64(val))
	case int16:
		return g.WriteInt(int64(val))
	case int32:
		return g.WriteInt(int64(val))
	case int64:
		return g.WriteInt(val)
	case uint:
		return g.WriteUint(uint64(val))
	case uint8:
		return g.WriteUint(uint64(val))
	case uint16:
		return g.WriteUint(uint64(val))
	case uint32:
		return g.WriteUint(uint64(val))
	case uint64:
		return g.WriteUint(val)
	case float32:
		return g.WriteFloat(float64(val))
	case float64:
		return g.WriteFloat(val)
	case string:
		return g.WriteTextString(val)
	case []byte:
		return g.WriteByteString(val)
	case ByteString:
		return g.WriteByteString(val.Bytes())
	case *big.Int:
		return marshalBigInt(g, val)
	case Undefined:
		return g.WriteUndefined()
	case SimpleValue:
		return g.WriteSimple(uint8(val))
	case RawMessage:
		return g.WriteRaw(val)
	case Tag:
		if err := g.WriteTag(val.Number); err != nil {
			return err
		}
		return marshalValue(g, val.Content)
	case []any:
		if err := g.WriteArray(int64(len(val))); err != nil {
			return err
		}
		for _, item := range val {
			if err := marshalValue(g, item); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		entries := make([]mapEntry, 0, len(val))
		for k, item := range val {
			entries = append(entries, mapEntry{key: k, value: item})
		}
		return marshalMap(g, entries)
	case map[any]any:
		entries := make([]mapEntry, 0, len(val))
		for k, item := range val {
			entries = append(entries, mapEntry{key: k, value: item})
		}
		return marshalMap(g, entries)
	}
	return marshalReflect(g, v)
}

// marshalReflect handles typed slices, arrays, maps and pointers
func marshalReflect(g *Generator, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return g.WriteNull()
		}
		return marshalValue(g, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return g.WriteNull()
		}
		if err := g.WriteArray(int64(rv.Len())); err != nil {
			return err
		}
		for i := range rv.Len() {
			if err := marshalValue(g, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if rv.IsNil() {
			return g.WriteNull()
		}
		entries := make([]mapEntry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(
				entries,
				mapEntry{
					key:   iter.Key().Interface(),
					value: iter.Value().Interface(),
				},
			)
		}
		return marshalMap(g, entries)
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

type mapEntry struct {
	key     any
	value   any
	encoded []byte
}

func marshalMap(g *Generator, entries []mapEntry) error {
	for i := range entries {
		encoded, err := Marshal(entries[i].key)
		if err != nil {
			return err
		}
		entries[i].encoded = encoded
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		return bytes.Compare(a.encoded, b.encoded)
	})
	if err := g.WriteMap(int64(len(entries))); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := g.WriteRaw(entry.encoded); err != nil {
			return err
		}
		if err := marshalValue(g, entry.value); err != nil {
			return err
		}
	}
	return nil
}

// marshalBigInt writes integers that fit into 64 bits natively and larger
// ones as tagged bignums
func marshalBigInt(g *Generator, val *big.Int) error {
	if val == nil {
		return g.WriteNull()
	}
	if val.Sign() >= 0 {
		if val.IsUint64() {
			return g.WriteUint(val.Uint64())
		}
		if err := g.WriteTag(tagPositiveBignum); err != nil {
			return err
		}
		return g.WriteByteString(val.Bytes())
	}
	// Encoded magnitude is -1-val
	n := new(big.Int).Neg(val)
	n.Sub(n, big.NewInt(1))
	if n.Cmp(maxUint64) <= 0 {
		return g.WriteNegMagnitude(n.Uint64())
	}
	if err := g.WriteTag(tagNegativeBignum); err != nil {
		return err
	}
	return g.WriteByteString(n.Bytes())
}

const (
	tagPositiveBignum = 2
	tagNegativeBignum = 3
)

// Unmarshal decodes exactly one data item into an untyped Go value tree.
// Unsigned integers become uint64, negative integers int64 or *big.Int when
// outside its range, byte strings []byte (ByteString as map keys), text
// strings string, arrays []any, maps map[any]any, tags Tag and floats float64.
func Unmarshal(data []byte) (any, error) {
	p, err := NewParser(data)
	if err != nil {
		return nil, err
	}
	ret, err := unmarshalItem(p)
	if err != nil {
		return nil, err
	}
	if _, err := p.Next(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w at offset %d", ErrTrailingData, p.Offset())
	}
	return ret, nil
}

// errBreak signals the end of an indefinite-length container to its reader
var errBreak = errors.New("break")

func unmarshalItem(p *Parser) (any, error) {
	tok, err := p.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, unexpectedEnd
		}
		return nil, err
	}
	return unmarshalToken(p, tok)
}

func unmarshalToken(p *Parser, tok *Token) (any, error) {
	switch tok.Type {
	case MajorTypeUnsignedInt:
		return tok.Uint, nil
	case MajorTypeNegativeInt:
		if v, ok := tok.Int64(); ok {
			return v, nil
		}
		return tok.BigInt(), nil
	case MajorTypeByteString, MajorTypeTextString:
		var b []byte
		if tok.IsIndefinite() {
			b = []byte{}
			for {
				chunk, err := p.Next()
				if err != nil {
					return nil, err
				}
				if chunk.IsBreak() {
					break
				}
				b = append(b, chunk.Bytes...)
			}
		} else {
			b = make([]byte, len(tok.Bytes))
			copy(b, tok.Bytes)
		}
		if tok.Type == MajorTypeTextString {
			return string(b), nil
		}
		return b, nil
	case MajorTypeArray:
		ret := []any{}
		for i := int64(0); tok.IsIndefinite() || i < tok.Size; i++ {
			item, err := unmarshalContainerItem(p, tok)
			if errors.Is(err, errBreak) {
				break
			}
			if err != nil {
				return nil, err
			}
			ret = append(ret, item)
		}
		return ret, nil
	case MajorTypeMap:
		ret := map[any]any{}
		for i := int64(0); tok.IsIndefinite() || i < tok.Size; i++ {
			key, err := unmarshalContainerItem(p, tok)
			if errors.Is(err, errBreak) {
				break
			}
			if err != nil {
				return nil, err
			}
			key, err = mapKey(key)
			if err != nil {
				return nil, fmt.Errorf("offset %d: %w", p.Offset(), err)
			}
			value, err := unmarshalItem(p)
			if err != nil {
				return nil, err
			}
			ret[key] = value
		}
		return ret, nil
	case MajorTypeSemanticTag:
		content, err := unmarshalItem(p)
		if err != nil {
			return nil, err
		}
		return Tag{Number: tok.Uint, Content: content}, nil
	}
	switch {
	case tok.IsFalse():
		return false, nil
	case tok.IsTrue():
		return true, nil
	case tok.IsNull():
		return nil, nil
	case tok.IsUndefined():
		return Undefined{}, nil
	case tok.IsSimple():
		// #nosec G115 -- simple values are a single byte
		return SimpleValue(uint8(tok.Uint)), nil
	case tok.IsBreak():
		return nil, errBreak
	}
	return tok.Float, nil
}

// unmarshalContainerItem reads the next item of a container, returning
// errBreak when an indefinite-length container ends
func unmarshalContainerItem(p *Parser, container *Token) (any, error) {
	tok, err := p.Next()
	if err != nil {
		return nil, err
	}
	if tok.IsBreak() && container.IsIndefinite() {
		return nil, errBreak
	}
	return unmarshalToken(p, tok)
}

// mapKey converts a decoded item into a comparable map key
func mapKey(key any) (any, error) {
	switch k := key.(type) {
	case []byte:
		return NewByteString(k), nil
	case []any, map[any]any, *big.Int:
		return nil, fmt.Errorf("%w: %T as map key", ErrUnsupportedType, key)
	case float64:
		// NaN keys can never be looked up again
		if math.IsNaN(k) {
			return nil, fmt.Errorf("%w: NaN as map key", ErrUnsupportedType)
		}
	case Tag:
		content, err := mapKey(k.Content)
		if err != nil {
			return nil, err
		}
		return Tag{Number: k.Number, Content: content}, nil
	}
	return key, nil
}
