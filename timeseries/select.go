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

// Select evaluates a range query against the series
func (s *Series) Select(q RangeQuery) (*QueryResult, error) {
	if err := q.Err(); err != nil {
		return nil, err
	}
	if q.datatype != "" && q.datatype != s.datatype {
		return nil, fmt.Errorf(
			"%w: query for %s on %s series",
			ErrIncompatibleDatatype,
			q.datatype,
			s.datatype,
		)
	}
	s.mu.RLock()
	var selected []*Event
	var structure Structure
	switch q.queryType {
	case ValueRangeQuery:
		selected = s.selectValues(q)
		structure = ValueEventStructure
	default:
		selected = s.selectEdits(q)
		structure = EditEventStructure
	}
	res := &QueryResult{
		selectedCount: int64(len(selected)),
		structure:     structure,
	}
	if q.limit != Unlimited && int64(len(selected)) > q.limit {
		selected = selected[:q.limit]
	}
	res.events = make([]*Event, len(selected))
	for i, event := range selected {
		res.events[i] = event.Clone()
	}
	s.mu.RUnlock()
	s.logger.Debug(
		"selected time series events",
		"component", "timeseries",
		"query", q.String(),
		"selected", res.selectedCount,
		"returned", len(res.events),
	)
	return res, nil
}

func (s *Series) originals() []*Event {
	var ret []*Event
	for _, event := range s.events {
		if !event.IsEditEvent() {
			ret = append(ret, event)
		}
	}
	return ret
}

// inRange returns the set of sequences selected by r over events
func inRange(r Range, events []*Event) map[int64]bool {
	lo, hi := r.resolve(events)
	ret := make(map[int64]bool)
	for i := lo; i <= hi; i++ {
		ret[events[i].Sequence] = true
	}
	return ret
}

// latestEdit returns the highest sequence edit of original within the edit range
func (s *Series) latestEdit(original int64, editRange map[int64]bool) *Event {
	edits := s.edits[original]
	for i := len(edits) - 1; i >= 0; i-- {
		if editRange[edits[i]] {
			return s.events[edits[i]]
		}
	}
	return nil
}

// selectValues produces the merged view: each original in the view range is
// represented by its latest edit in the edit range, or by itself when it is
// in the edit range and no edit is
func (s *Series) selectValues(q RangeQuery) []*Event {
	originals := s.originals()
	lo, hi := q.view.resolve(originals)
	editRange := inRange(q.edit, s.events)
	var ret []*Event
	for i := lo; i <= hi; i++ {
		original := originals[i]
		if edit := s.latestEdit(original.Sequence, editRange); edit != nil {
			ret = append(ret, edit)
		} else if editRange[original.Sequence] {
			ret = append(ret, original)
		}
	}
	return ret
}

// selectEdits produces the unmerged view: originals in the view range and
// their edits, each restricted to the edit range, in sequence order
func (s *Series) selectEdits(q RangeQuery) []*Event {
	lo, hi := q.view.resolve(s.events)
	editRange := inRange(q.edit, s.events)
	var ret []*Event
	for i := lo; i <= hi; i++ {
		original := s.events[i]
		if original.IsEditEvent() {
			continue
		}
		if editRange[original.Sequence] {
			ret = append(ret, original)
		}
		if q.editType == LatestEdits {
			if edit := s.latestEdit(original.Sequence, editRange); edit != nil {
				ret = append(ret, edit)
			}
			continue
		}
		for _, seq := range s.edits[original.Sequence] {
			if editRange[seq] {
				ret = append(ret, s.events[seq])
			}
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Sequence < ret[j].Sequence
	})
	return ret
}
