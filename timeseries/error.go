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

import "errors"

var (
	// ErrUnknownEvent is returned when a sequence number names no event in the series
	ErrUnknownEvent = errors.New("timeseries: unknown event")
	// ErrWrongQueryType is returned when a builder operator does not apply to the query type
	ErrWrongQueryType = errors.New("timeseries: operator does not apply to query type")
	// ErrInvalidArgument is returned for negative counts, limits and time spans
	ErrInvalidArgument = errors.New("timeseries: invalid argument")
	// ErrIncompatibleDatatype is returned when a query names a datatype other than the series'
	ErrIncompatibleDatatype = errors.New("timeseries: incompatible datatype")
)
