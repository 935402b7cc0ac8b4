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

package timeseries

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gopubsub/cbor"
	"github.com/jinzhu/copier"
)

// EventMetadata identifies an event within a series
type EventMetadata struct {
	cbor.StructAsArray
	Sequence int64
	// Timestamp in milliseconds since the Unix epoch
	Timestamp int64
	Author    string
}

func (m EventMetadata) String() string {
	return fmt.Sprintf(
		"EventMetadata(sequence=%d, timestamp=%d, author=%q)",
		m.Sequence,
		m.Timestamp,
		m.Author,
	)
}

// Event is an original event or an edit of one. Original is set only for
// edit events and always refers to an original event, never another edit.
type Event struct {
	EventMetadata
	Value    []byte
	Original *EventMetadata
}

type eventWire struct {
	cbor.StructAsArray
	Sequence  int64
	Timestamp int64
	Author    string
	Value     []byte
	Original  *EventMetadata
}

// IsEditEvent reports whether the event is an edit of another event
func (e *Event) IsEditEvent() bool {
	return e.Original != nil
}

// OriginalSequence returns the sequence of the original event, which is the
// event's own sequence for original events
func (e *Event) OriginalSequence() int64 {
	if e.Original != nil {
		return e.Original.Sequence
	}
	return e.Sequence
}

// Clone returns a deep copy of the event
func (e *Event) Clone() *Event {
	ret := &Event{}
	if err := copier.CopyWithOption(ret, e, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("clone event %d: %s", e.Sequence, err))
	}
	// copier turns a nil slice into an empty one
	if e.Value == nil {
		ret.Value = nil
	}
	return ret
}

// WithValue returns a copy of the event carrying a different value
func (e *Event) WithValue(value []byte) *Event {
	ret := e.Clone()
	ret.Value = bytes.Clone(value)
	return ret
}

func (e *Event) String() string {
	if e.Original != nil {
		return fmt.Sprintf(
			"Event(sequence=%d, timestamp=%d, author=%q, value=%x, original=%d)",
			e.Sequence,
			e.Timestamp,
			e.Author,
			e.Value,
			e.Original.Sequence,
		)
	}
	return fmt.Sprintf(
		"Event(sequence=%d, timestamp=%d, author=%q, value=%x)",
		e.Sequence,
		e.Timestamp,
		e.Author,
		e.Value,
	)
}

// MarshalCBOR encodes the event as
// [sequence, timestamp, author, value, original / null]
func (e *Event) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(&eventWire{
		Sequence:  e.Sequence,
		Timestamp: e.Timestamp,
		Author:    e.Author,
		Value:     e.Value,
		Original:  e.Original,
	})
}

func (e *Event) UnmarshalCBOR(data []byte) error {
	var tmp eventWire
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if tmp.Original != nil && tmp.Original.Sequence >= tmp.Sequence {
		return fmt.Errorf(
			"decode event: edit %d refers to later event %d",
			tmp.Sequence,
			tmp.Original.Sequence,
		)
	}
	*e = Event{
		EventMetadata: EventMetadata{
			Sequence:  tmp.Sequence,
			Timestamp: tmp.Timestamp,
			Author:    tmp.Author,
		},
		Value:    tmp.Value,
		Original: tmp.Original,
	}
	return nil
}

// DecodeEvent decodes a single event, which must span all of data
func DecodeEvent(data []byte) (*Event, error) {
	ret := &Event{}
	bytesRead, err := cbor.Decode(data, ret)
	if err != nil {
		return nil, err
	}
	if bytesRead != len(data) {
		return nil, fmt.Errorf(
			"%w: %d bytes after event",
			cbor.ErrTrailingData,
			len(data)-bytesRead,
		)
	}
	return ret, nil
}

// DecodeEvents decodes a sequence of concatenated events
func DecodeEvents(data []byte) ([]*Event, error) {
	dec, err := cbor.NewStreamDecoder(data)
	if err != nil {
		return nil, err
	}
	var ret []*Event
	for !dec.EOF() {
		event := &Event{}
		start, _, err := dec.Decode(event)
		if err != nil {
			return nil, fmt.Errorf("event at offset %d: %w", start, err)
		}
		ret = append(ret, event)
	}
	return ret, nil
}

// EncodeEvents encodes events as a concatenated sequence
func EncodeEvents(events []*Event) ([]byte, error) {
	var buf bytes.Buffer
	for _, event := range events {
		if event == nil {
			return nil, errors.New("encode events: nil event")
		}
		data, err := event.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
