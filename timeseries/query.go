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

import "fmt"

// QueryType distinguishes merged value queries from unmerged edit queries
type QueryType int

const (
	// ValueRangeQuery returns each original event in the view range
	// represented by its latest edit, or itself when it has none
	ValueRangeQuery QueryType = iota
	// EditRangeQuery returns original events and their edits as distinct events
	EditRangeQuery
)

func (t QueryType) String() string {
	switch t {
	case ValueRangeQuery:
		return "value range"
	case EditRangeQuery:
		return "edit range"
	default:
		return fmt.Sprintf("QueryType(%d)", int(t))
	}
}

// EditRangeType selects which edits an edit range query returns
type EditRangeType int

const (
	AllEdits EditRangeType = iota
	LatestEdits
)

// Unlimited is the limit of a query that returns every selected event
const Unlimited int64 = -1

// RangeQuery selects a range of events from a time series. It is built by
// chaining operators, each of which returns a modified copy:
//
//	q := NewRangeQuery().ForValues().From(100).Next(50).Limit(10)
//
// Anchor and span operators apply to the view range until EditRange,
// AllEdits or LatestEdits switch them to the edit range. The first operator
// misuse is kept and reported by Err and by Series.Select.
type RangeQuery struct {
	queryType QueryType
	editType  EditRangeType
	view      Range
	edit      Range
	editing   bool
	limit     int64
	datatype  string
	err       error
}

// NewRangeQuery returns a value range query selecting the whole series
// without a limit
func NewRangeQuery() RangeQuery {
	return RangeQuery{limit: Unlimited}
}

// Err returns the first error recorded while building the query
func (q RangeQuery) Err() error {
	return q.err
}

func (q RangeQuery) Type() QueryType {
	return q.queryType
}

func (q RangeQuery) EditType() EditRangeType {
	return q.editType
}

func (q RangeQuery) ViewRange() Range {
	return q.view
}

func (q RangeQuery) EditRangeExpression() Range {
	return q.edit
}

func (q RangeQuery) LimitCount() int64 {
	return q.limit
}

func (q RangeQuery) Datatype() string {
	return q.datatype
}

func (q RangeQuery) fail(err error) RangeQuery {
	if q.err == nil {
		q.err = err
	}
	return q
}

// ForValues makes the query a value range query with a view range over the
// whole series. The edit range is kept.
func (q RangeQuery) ForValues() RangeQuery {
	q.queryType = ValueRangeQuery
	q.view = Range{}
	q.editing = false
	return q
}

// ForEdits makes the query an edit range query returning all edits, with a
// view range over the whole series. The edit range is kept.
func (q RangeQuery) ForEdits() RangeQuery {
	q.queryType = EditRangeQuery
	q.editType = AllEdits
	q.view = Range{}
	q.editing = false
	return q
}

// EditRange resets the edit range of a value range query to the whole
// series and directs following anchors and spans to it
func (q RangeQuery) EditRange() RangeQuery {
	if q.queryType != ValueRangeQuery {
		return q.fail(fmt.Errorf("%w: EditRange on %s query", ErrWrongQueryType, q.queryType))
	}
	q.edit = Range{}
	q.editing = true
	return q
}

// AllEdits resets the edit range of an edit range query to the whole series,
// returning every edit, and directs following anchors and spans to it
func (q RangeQuery) AllEdits() RangeQuery {
	return q.editRange(AllEdits, "AllEdits")
}

// LatestEdits resets the edit range of an edit range query to the whole
// series, returning only the latest edit of each original, and directs
// following anchors and spans to it
func (q RangeQuery) LatestEdits() RangeQuery {
	return q.editRange(LatestEdits, "LatestEdits")
}

func (q RangeQuery) editRange(editType EditRangeType, name string) RangeQuery {
	if q.queryType != EditRangeQuery {
		return q.fail(fmt.Errorf("%w: %s on %s query", ErrWrongQueryType, name, q.queryType))
	}
	q.editType = editType
	q.edit = Range{}
	q.editing = true
	return q
}

// currentRange returns the range anchors and spans apply to
func currentRange(q *RangeQuery) *Range {
	if q.editing {
		return &q.edit
	}
	return &q.view
}

func (q RangeQuery) withAnchor(kind anchorKind, value int64) RangeQuery {
	r := currentRange(&q)
	r.anchor = kind
	r.anchorValue = value
	return q
}

func (q RangeQuery) withSpan(kind spanKind, value int64) RangeQuery {
	r := currentRange(&q)
	r.span = kind
	r.spanValue = value
	return q
}

func (q RangeQuery) checkCount(name string, count int64) error {
	if count < 0 {
		return fmt.Errorf("%w: %s(%d)", ErrInvalidArgument, name, count)
	}
	return nil
}

// From anchors the range at an absolute sequence number
func (q RangeQuery) From(sequence int64) RangeQuery {
	if err := q.checkCount("From", sequence); err != nil {
		return q.fail(err)
	}
	return q.withAnchor(anchorSequence, sequence)
}

// FromStart anchors the range at the start of the series
func (q RangeQuery) FromStart() RangeQuery {
	return q.withAnchor(anchorStart, 0)
}

// FromTime anchors the range at an absolute time in milliseconds since the
// Unix epoch
func (q RangeQuery) FromTime(ts int64) RangeQuery {
	return q.withAnchor(anchorTime, ts)
}

// FromLast anchors the range count events before the end of the series
func (q RangeQuery) FromLast(count int64) RangeQuery {
	if err := q.checkCount("FromLast", count); err != nil {
		return q.fail(err)
	}
	return q.withAnchor(anchorLast, count)
}

// FromLastMillis anchors the range a time span before the timestamp of the
// last event
func (q RangeQuery) FromLastMillis(span int64) RangeQuery {
	if err := q.checkCount("FromLastMillis", span); err != nil {
		return q.fail(err)
	}
	return q.withAnchor(anchorLastMillis, span)
}

// To ends the range at an absolute sequence number, before or after the anchor
func (q RangeQuery) To(sequence int64) RangeQuery {
	if err := q.checkCount("To", sequence); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanSequence, sequence)
}

// ToStart ends the range at the start of the series
func (q RangeQuery) ToStart() RangeQuery {
	return q.withSpan(spanStart, 0)
}

// ToTime ends the range at an absolute time, before or after the anchor
func (q RangeQuery) ToTime(ts int64) RangeQuery {
	return q.withSpan(spanTime, ts)
}

// Next ends the range count events after the anchor
func (q RangeQuery) Next(count int64) RangeQuery {
	if err := q.checkCount("Next", count); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanNext, count)
}

// NextMillis ends the range a time span after the anchor
func (q RangeQuery) NextMillis(span int64) RangeQuery {
	if err := q.checkCount("NextMillis", span); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanNextMillis, span)
}

// Previous ends the range count events before the anchor
func (q RangeQuery) Previous(count int64) RangeQuery {
	if err := q.checkCount("Previous", count); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanPrevious, count)
}

// PreviousMillis ends the range a time span before the anchor
func (q RangeQuery) PreviousMillis(span int64) RangeQuery {
	if err := q.checkCount("PreviousMillis", span); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanPreviousMillis, span)
}

// UntilLast ends the range count events before the end of the series
func (q RangeQuery) UntilLast(count int64) RangeQuery {
	if err := q.checkCount("UntilLast", count); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanUntilLast, count)
}

// UntilLastMillis ends the range a time span before the timestamp of the
// last event
func (q RangeQuery) UntilLastMillis(span int64) RangeQuery {
	if err := q.checkCount("UntilLastMillis", span); err != nil {
		return q.fail(err)
	}
	return q.withSpan(spanUntilLastMillis, span)
}

// Limit caps the number of events returned
func (q RangeQuery) Limit(count int64) RangeQuery {
	if err := q.checkCount("Limit", count); err != nil {
		return q.fail(err)
	}
	q.limit = count
	return q
}

// As restricts the query to series of the named datatype. An empty name
// matches any series.
func (q RangeQuery) As(datatype string) RangeQuery {
	q.datatype = datatype
	return q
}

func (q RangeQuery) String() string {
	ret := fmt.Sprintf("%s query, view %s", q.queryType, q.view)
	if q.queryType == EditRangeQuery && q.editType == LatestEdits {
		ret += ", latest edits"
	}
	ret += fmt.Sprintf(", edits %s", q.edit)
	if q.limit != Unlimited {
		ret += fmt.Sprintf(", limit %d", q.limit)
	}
	if q.datatype != "" {
		ret += ", as " + q.datatype
	}
	return ret
}
