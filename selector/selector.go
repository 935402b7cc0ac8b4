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

// Package selector evaluates topic selector expressions against topic paths.
//
// Supported forms:
//
//	>path or path   the topic at path
//	?p1/p2          topics whose path segments each fully match a regular expression
//	*regex          topics whose whole path matches a regular expression
//	#s1////s2       topics matching any member selector
//
// Path and pattern selectors take an optional qualifier. A trailing "//"
// selects the topic and all of its descendants, a trailing "/" selects only
// the descendants.
package selector

import (
	"errors"
	"strings"
	"time"
)

const (
	PrefixPath      = '>'
	PrefixSplitPath = '?'
	PrefixFullPath  = '*'
	PrefixSet       = '#'

	// SetSeparator separates the members of a selector set
	SetSeparator = "////"

	// MatchTimeout bounds the time spent evaluating a single regular expression
	MatchTimeout = time.Second
)

var ErrInvalidSelector = errors.New("selector: invalid selector")

// Qualifier widens a selector to the descendants of the topics it names
type Qualifier int

const (
	// QualifierNone selects only the named topics
	QualifierNone Qualifier = iota
	// QualifierDescendants selects only the descendants of the named topics
	QualifierDescendants
	// QualifierAndDescendants selects the named topics and their descendants
	QualifierAndDescendants
)

func (q Qualifier) String() string {
	switch q {
	case QualifierDescendants:
		return "/"
	case QualifierAndDescendants:
		return "//"
	default:
		return ""
	}
}

// Selector matches topic paths
type Selector interface {
	// Matches reports whether the topic at path is selected. Leading slashes
	// in path are ignored.
	Matches(path string) bool
	// String returns the expression in canonical form
	String() string
}

// Match parses expr and evaluates it against path
func Match(expr, path string) (bool, error) {
	sel, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return sel.Matches(path), nil
}

// NormalizePath strips leading slashes from a topic path
func NormalizePath(path string) string {
	return strings.TrimLeft(path, "/")
}

// qualified applies a qualifier given a test for a single topic path. The
// test is tried against the path and, for qualified selectors, each of its
// ancestors.
func qualified(q Qualifier, path string, test func(string) bool) bool {
	switch q {
	case QualifierNone:
		return test(path)
	case QualifierAndDescendants:
		if test(path) {
			return true
		}
	}
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == '/' && test(path[:i]) {
			return true
		}
	}
	return false
}
