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
	"math"
)

type anchorKind int

const (
	anchorStart anchorKind = iota
	anchorSequence
	anchorTime
	anchorLast
	anchorLastMillis
)

type spanKind int

const (
	spanEnd spanKind = iota
	spanStart
	spanSequence
	spanTime
	spanNext
	spanNextMillis
	spanPrevious
	spanPreviousMillis
	spanUntilLast
	spanUntilLastMillis
)

// Range is a range expression: an anchor where the range starts and a span
// that determines where it ends. Both are inclusive. The zero Range selects
// the whole series.
type Range struct {
	anchor      anchorKind
	anchorValue int64
	span        spanKind
	spanValue   int64
}

func (r Range) String() string {
	var anchor, span string
	switch r.anchor {
	case anchorStart:
		anchor = "start"
	case anchorSequence:
		anchor = fmt.Sprintf("sequence %d", r.anchorValue)
	case anchorTime:
		anchor = fmt.Sprintf("time %d", r.anchorValue)
	case anchorLast:
		anchor = fmt.Sprintf("last %d", r.anchorValue)
	case anchorLastMillis:
		anchor = fmt.Sprintf("last %dms", r.anchorValue)
	}
	switch r.span {
	case spanEnd:
		span = "end"
	case spanStart:
		span = "start"
	case spanSequence:
		span = fmt.Sprintf("sequence %d", r.spanValue)
	case spanTime:
		span = fmt.Sprintf("time %d", r.spanValue)
	case spanNext:
		span = fmt.Sprintf("next %d", r.spanValue)
	case spanNextMillis:
		span = fmt.Sprintf("next %dms", r.spanValue)
	case spanPrevious:
		span = fmt.Sprintf("previous %d", r.spanValue)
	case spanPreviousMillis:
		span = fmt.Sprintf("previous %dms", r.spanValue)
	case spanUntilLast:
		span = fmt.Sprintf("until last %d", r.spanValue)
	case spanUntilLastMillis:
		span = fmt.Sprintf("until last %dms", r.spanValue)
	}
	return "from " + anchor + " to " + span
}

// point locates a position in an ordered event list by the first event at or
// after it and the last event at or before it
type point struct {
	fwd, back int
}

// sequencePoint locates a sequence number
func sequencePoint(events []*Event, seq int64) point {
	p := point{fwd: len(events), back: -1}
	for i, e := range events {
		if e.Sequence >= seq && p.fwd == len(events) {
			p.fwd = i
		}
		if e.Sequence <= seq {
			p.back = i
		}
	}
	return p
}

// timePoint locates a timestamp
func timePoint(events []*Event, ts int64) point {
	p := point{fwd: len(events), back: -1}
	for i, e := range events {
		if e.Timestamp >= ts && p.fwd == len(events) {
			p.fwd = i
		}
		if e.Timestamp <= ts {
			p.back = i
		}
	}
	return p
}

// indexPoint locates an event index, which may lie outside the list
func indexPoint(events []*Event, idx int) point {
	switch {
	case idx < 0:
		return point{fwd: 0, back: -1}
	case idx >= len(events):
		return point{fwd: len(events), back: len(events) - 1}
	default:
		return point{fwd: idx, back: idx}
	}
}

func lastTimestamp(events []*Event) int64 {
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Timestamp
}

// addSaturating adds two timestamps, clamping at the int64 limits
func addSaturating(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

func subSaturating(a, b int64) int64 {
	if b > 0 && a < math.MinInt64+b {
		return math.MinInt64
	}
	if b < 0 && a > math.MaxInt64+b {
		return math.MaxInt64
	}
	return a - b
}

// resolve returns the inclusive index bounds selected by the range within
// events, which must be ordered by sequence. The range is empty when
// lo > hi.
func (r Range) resolve(events []*Event) (int, int) {
	if len(events) == 0 {
		return 0, -1
	}
	lo, hi := r.bounds(events)
	return max(lo, 0), min(hi, len(events)-1)
}

func (r Range) bounds(events []*Event) (int, int) {
	n := len(events)
	var anchor point
	anchorTs, hasAnchorTs := int64(0), false
	switch r.anchor {
	case anchorStart:
		anchor = point{fwd: 0, back: -1}
	case anchorSequence:
		anchor = sequencePoint(events, r.anchorValue)
	case anchorTime:
		anchor = timePoint(events, r.anchorValue)
		anchorTs, hasAnchorTs = r.anchorValue, true
	case anchorLast:
		anchor = indexPoint(events, n-int(r.anchorValue))
		if r.anchorValue == 0 {
			// Just after the last event
			anchor = point{fwd: n, back: n - 1}
		}
	case anchorLastMillis:
		anchorTs, hasAnchorTs = subSaturating(lastTimestamp(events), r.anchorValue), true
		anchor = timePoint(events, anchorTs)
	}
	// Time of the anchor for relative time spans
	fwdTs := func() (int64, bool) {
		if hasAnchorTs {
			return anchorTs, true
		}
		if anchor.fwd < n {
			return events[anchor.fwd].Timestamp, true
		}
		return 0, false
	}
	backTs := func() (int64, bool) {
		if hasAnchorTs {
			return anchorTs, true
		}
		if anchor.back >= 0 {
			return events[anchor.back].Timestamp, true
		}
		return 0, false
	}

	switch r.span {
	case spanEnd:
		return anchor.fwd, n - 1
	case spanNext:
		return anchor.fwd, anchor.fwd + int(min(r.spanValue, int64(n))) - 1
	case spanPrevious:
		return anchor.back - int(min(r.spanValue, int64(n))) + 1, anchor.back
	case spanNextMillis:
		ts, ok := fwdTs()
		if !ok {
			return 0, -1
		}
		return anchor.fwd, timePoint(events, addSaturating(ts, r.spanValue)).back
	case spanPreviousMillis:
		ts, ok := backTs()
		if !ok {
			return 0, -1
		}
		return timePoint(events, subSaturating(ts, r.spanValue)).fwd, anchor.back
	}

	// The remaining spans name an end point on either side of the anchor
	var end point
	switch r.span {
	case spanStart:
		end = point{fwd: 0, back: -1}
	case spanSequence:
		end = sequencePoint(events, r.spanValue)
	case spanTime:
		end = timePoint(events, r.spanValue)
	case spanUntilLast:
		end = indexPoint(events, n-1-int(min(r.spanValue, int64(n))))
	case spanUntilLastMillis:
		end = timePoint(events, subSaturating(lastTimestamp(events), r.spanValue))
	}
	if end.back >= anchor.fwd {
		return anchor.fwd, end.back
	}
	return end.fwd, anchor.back
}
