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
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SeriesConfig holds configuration for a Series.
type SeriesConfig struct {
	// Clock supplies event timestamps
	Clock  func() time.Time
	Logger *slog.Logger
}

// DefaultSeriesConfig returns a SeriesConfig with sensible defaults.
func DefaultSeriesConfig() SeriesConfig {
	return SeriesConfig{
		Clock: time.Now,
	}
}

// SeriesOption is a functional option for configuring a Series.
type SeriesOption func(*SeriesConfig)

// WithClock specifies the clock used to timestamp events
func WithClock(clock func() time.Time) SeriesOption {
	return func(c *SeriesConfig) {
		c.Clock = clock
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) SeriesOption {
	return func(c *SeriesConfig) {
		c.Logger = logger
	}
}

// Series is an append-only in-memory time series. Sequence numbers start at
// zero and are contiguous. It is safe for concurrent use.
type Series struct {
	mu       sync.RWMutex
	datatype string
	events   []*Event
	// edits maps an original sequence to its edit sequences in ascending order
	edits  map[int64][]int64
	clock  func() time.Time
	logger *slog.Logger
}

// NewSeries creates an empty series of values of the named datatype
func NewSeries(datatype string, opts ...SeriesOption) *Series {
	cfg := DefaultSeriesConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Series{
		datatype: datatype,
		edits:    make(map[int64][]int64),
		clock:    cfg.Clock,
		logger:   cfg.Logger,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Datatype returns the datatype name of the series' values
func (s *Series) Datatype() string {
	return s.datatype
}

func (s *Series) nextMetadata(author string) EventMetadata {
	return EventMetadata{
		Sequence:  int64(len(s.events)),
		Timestamp: s.clock().UnixMilli(),
		Author:    author,
	}
}

// Append adds an original event
func (s *Series) Append(author string, value []byte) EventMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta := s.nextMetadata(author)
	s.events = append(s.events, &Event{
		EventMetadata: meta,
		Value:         bytes.Clone(value),
	})
	return meta
}

// Edit adds an edit of the event at sequence. Editing an edit event edits
// its original.
func (s *Series) Edit(sequence int64, author string, value []byte) (EventMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, err := s.lookup(sequence)
	if err != nil {
		return EventMetadata{}, err
	}
	original := target.EventMetadata
	if target.Original != nil {
		original = *target.Original
	}
	meta := s.nextMetadata(author)
	s.events = append(s.events, &Event{
		EventMetadata: meta,
		Value:         bytes.Clone(value),
		Original:      &original,
	})
	s.edits[original.Sequence] = append(s.edits[original.Sequence], meta.Sequence)
	s.logger.Debug(
		"edited time series event",
		"component", "timeseries",
		"original", original.Sequence,
		"sequence", meta.Sequence,
	)
	return meta, nil
}

func (s *Series) lookup(sequence int64) (*Event, error) {
	if sequence < 0 || sequence >= int64(len(s.events)) {
		return nil, fmt.Errorf("%w: sequence %d", ErrUnknownEvent, sequence)
	}
	return s.events[sequence], nil
}

// Current returns the current value of the original event at sequence: its
// highest sequence edit, or the original itself when it has no edits. An
// edit event's sequence resolves to its original.
func (s *Series) Current(sequence int64) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, err := s.lookup(sequence)
	if err != nil {
		return nil, err
	}
	original := event.OriginalSequence()
	if edits := s.edits[original]; len(edits) > 0 {
		return s.events[edits[len(edits)-1]].Clone(), nil
	}
	return s.events[original].Clone(), nil
}

// Events returns copies of all events in sequence order
func (s *Series) Events() []*Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*Event, len(s.events))
	for i, event := range s.events {
		ret[i] = event.Clone()
	}
	return ret
}

// Len returns the number of events, original and edit
func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
