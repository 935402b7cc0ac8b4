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
	"fmt"
	"sort"
)

// Structure describes the ordering and content of a query result
type Structure int

const (
	// ValueEventStructure results are ordered by original sequence and hold
	// at most one event per original, an edit in place of its original
	ValueEventStructure Structure = iota
	// EditEventStructure results are ordered by sequence and may hold several
	// edits of one original
	EditEventStructure
)

func (s Structure) String() string {
	switch s {
	case ValueEventStructure:
		return "value"
	case EditEventStructure:
		return "edit"
	default:
		return fmt.Sprintf("Structure(%d)", int(s))
	}
}

// QueryResult holds the events selected by a range query
type QueryResult struct {
	events        []*Event
	selectedCount int64
	structure     Structure
}

// NewQueryResult builds a result from events that are already ordered for
// the given structure
func NewQueryResult(events []*Event, selectedCount int64, structure Structure) *QueryResult {
	ret := &QueryResult{
		events:        make([]*Event, len(events)),
		selectedCount: selectedCount,
		structure:     structure,
	}
	for i, event := range events {
		ret.events[i] = event.Clone()
	}
	return ret
}

// Events returns the events of the result
func (r *QueryResult) Events() []*Event {
	return r.events
}

// SelectedCount returns the number of events the query selected before any
// limit was applied
func (r *QueryResult) SelectedCount() int64 {
	return r.selectedCount
}

// IsComplete reports whether the result holds every selected event
func (r *QueryResult) IsComplete() bool {
	return r.selectedCount == int64(len(r.events))
}

func (r *QueryResult) Structure() Structure {
	return r.structure
}

// Merge combines the events of r and other into a complete value structure
// result. An event of other replaces an event of r with the same sequence,
// an edit replaces its original, and the highest sequence edit of an
// original wins.
func (r *QueryResult) Merge(other *QueryResult) *QueryResult {
	bySequence := make(map[int64]*Event)
	for _, event := range r.events {
		bySequence[event.Sequence] = event
	}
	for _, event := range other.events {
		bySequence[event.Sequence] = event
	}
	byOriginal := make(map[int64]*Event)
	for _, event := range bySequence {
		key := event.OriginalSequence()
		current, ok := byOriginal[key]
		if !ok || preferred(event, current) {
			byOriginal[key] = event
		}
	}
	events := make([]*Event, 0, len(byOriginal))
	for _, event := range byOriginal {
		events = append(events, event.Clone())
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].OriginalSequence() < events[j].OriginalSequence()
	})
	return &QueryResult{
		events:        events,
		selectedCount: int64(len(events)),
		structure:     ValueEventStructure,
	}
}

// preferred reports whether a should represent its original in place of b
func preferred(a, b *Event) bool {
	if a.IsEditEvent() != b.IsEditEvent() {
		return a.IsEditEvent()
	}
	return a.Sequence > b.Sequence
}
