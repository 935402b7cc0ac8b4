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

// Package timeseries models time series topics: an append-only log of
// original events and the edit events that correct them, queried with range
// expressions.
//
// A value range query returns a merged view in which each original event is
// represented by its latest edit. An edit range query returns the originals
// and their edits as distinct events. Both kinds select events with a view
// range and an edit range, each made of an anchor and a span.
package timeseries
