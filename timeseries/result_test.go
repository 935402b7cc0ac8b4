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

package timeseries_test

import (
	"testing"

	"github.com/blinklabs-io/gopubsub/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(seq int64, value string, original ...int64) *timeseries.Event {
	ret := &timeseries.Event{
		EventMetadata: timeseries.EventMetadata{Sequence: seq, Author: "a"},
		Value:         []byte(value),
	}
	if len(original) > 0 {
		ret.Original = &timeseries.EventMetadata{Sequence: original[0], Author: "a"}
	}
	return ret
}

func values(res *timeseries.QueryResult) []string {
	ret := []string{}
	for _, e := range res.Events() {
		ret = append(ret, string(e.Value))
	}
	return ret
}

func TestMergeOtherWinsOnEqualSequence(t *testing.T) {
	r := timeseries.NewQueryResult(
		[]*timeseries.Event{event(1, "x")},
		1,
		timeseries.ValueEventStructure,
	)
	other := timeseries.NewQueryResult(
		[]*timeseries.Event{event(0, "zero"), event(1, "y")},
		2,
		timeseries.ValueEventStructure,
	)
	merged := r.Merge(other)
	assert.Equal(t, []string{"zero", "y"}, values(merged))
}

func TestMergeEditsReplaceOriginals(t *testing.T) {
	r := timeseries.NewQueryResult(
		[]*timeseries.Event{event(0, "a0"), event(1, "b0"), event(3, "a2", 0)},
		5,
		timeseries.EditEventStructure,
	)
	other := timeseries.NewQueryResult(
		[]*timeseries.Event{event(2, "a1", 0), event(4, "b1", 1)},
		2,
		timeseries.EditEventStructure,
	)
	merged := r.Merge(other)
	assert.Equal(t, []string{"a2", "b1"}, values(merged))
	assert.Equal(t, timeseries.ValueEventStructure, merged.Structure())
	assert.Equal(t, int64(2), merged.SelectedCount())
	assert.True(t, merged.IsComplete())
}

func TestMergeQueryResults(t *testing.T) {
	s := scenarioSeries(t)
	valueRes, err := s.Select(timeseries.NewRangeQuery())
	require.NoError(t, err)
	edits, err := s.Select(timeseries.NewRangeQuery().ForEdits())
	require.NoError(t, err)
	merged := edits.Merge(valueRes)
	assert.Equal(t, []int64{3, 1}, sequences(merged))
	// Merging with an empty result yields the value view
	empty := timeseries.NewQueryResult(nil, 0, timeseries.EditEventStructure)
	assert.Equal(t, []int64{3, 1}, sequences(edits.Merge(empty)))
}

func TestStructureString(t *testing.T) {
	assert.Equal(t, "value", timeseries.ValueEventStructure.String())
	assert.Equal(t, "edit", timeseries.EditEventStructure.String())
}
