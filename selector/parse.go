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

package selector

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Parse parses a selector expression
func Parse(expr string) (Selector, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidSelector)
	}
	switch expr[0] {
	case PrefixPath:
		return parsePath(expr[1:])
	case PrefixSplitPath:
		return parseSplitPath(expr[1:])
	case PrefixFullPath:
		return parseFullPath(expr[1:])
	case PrefixSet:
		return parseSet(expr[1:])
	default:
		return parsePath(expr)
	}
}

// splitQualifier removes a trailing qualifier from an expression body
func splitQualifier(body string) (string, Qualifier) {
	if strings.HasSuffix(body, "//") {
		return body[:len(body)-2], QualifierAndDescendants
	}
	if strings.HasSuffix(body, "/") {
		return body[:len(body)-1], QualifierDescendants
	}
	return body, QualifierNone
}

func compileAnchored(expr string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`\A(?:`+expr+`)\z`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelector, err)
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

func matchRegexp(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	// A timed out match selects nothing
	return err == nil && ok
}

type pathSelector struct {
	path      string
	qualifier Qualifier
}

func parsePath(body string) (*pathSelector, error) {
	path, q := splitQualifier(NormalizePath(body))
	if path == "" {
		return nil, fmt.Errorf("%w: empty topic path", ErrInvalidSelector)
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			return nil, fmt.Errorf(
				"%w: empty segment in topic path %q",
				ErrInvalidSelector,
				path,
			)
		}
	}
	return &pathSelector{path: path, qualifier: q}, nil
}

func (s *pathSelector) Matches(path string) bool {
	path = NormalizePath(path)
	switch s.qualifier {
	case QualifierNone:
		return path == s.path
	case QualifierAndDescendants:
		if path == s.path {
			return true
		}
	}
	return strings.HasPrefix(path, s.path+"/")
}

func (s *pathSelector) String() string {
	return string(PrefixPath) + s.path + s.qualifier.String()
}

type splitPathSelector struct {
	source    string
	segments  []*regexp2.Regexp
	qualifier Qualifier
}

func parseSplitPath(body string) (*splitPathSelector, error) {
	source, q := splitQualifier(NormalizePath(body))
	if source == "" {
		return nil, fmt.Errorf("%w: empty split-path pattern", ErrInvalidSelector)
	}
	ret := &splitPathSelector{source: source, qualifier: q}
	for _, segment := range strings.Split(source, "/") {
		if segment == "" {
			return nil, fmt.Errorf(
				"%w: empty segment in split-path pattern %q",
				ErrInvalidSelector,
				source,
			)
		}
		re, err := compileAnchored(segment)
		if err != nil {
			return nil, err
		}
		ret.segments = append(ret.segments, re)
	}
	return ret, nil
}

func (s *splitPathSelector) Matches(path string) bool {
	segments := strings.Split(NormalizePath(path), "/")
	switch s.qualifier {
	case QualifierNone:
		if len(segments) != len(s.segments) {
			return false
		}
	case QualifierAndDescendants:
		if len(segments) < len(s.segments) {
			return false
		}
	case QualifierDescendants:
		if len(segments) <= len(s.segments) {
			return false
		}
	}
	for i, re := range s.segments {
		if !matchRegexp(re, segments[i]) {
			return false
		}
	}
	return true
}

func (s *splitPathSelector) String() string {
	return string(PrefixSplitPath) + s.source + s.qualifier.String()
}

type fullPathSelector struct {
	source    string
	re        *regexp2.Regexp
	qualifier Qualifier
}

func parseFullPath(body string) (*fullPathSelector, error) {
	source, q := splitQualifier(body)
	if source == "" {
		return nil, fmt.Errorf("%w: empty full-path pattern", ErrInvalidSelector)
	}
	re, err := compileAnchored(source)
	if err != nil {
		return nil, err
	}
	return &fullPathSelector{source: source, re: re, qualifier: q}, nil
}

func (s *fullPathSelector) Matches(path string) bool {
	return qualified(
		s.qualifier,
		NormalizePath(path),
		func(p string) bool { return matchRegexp(s.re, p) },
	)
}

func (s *fullPathSelector) String() string {
	return string(PrefixFullPath) + s.source + s.qualifier.String()
}

// Set matches a topic when any of its members does
type Set struct {
	members []Selector
}

func parseSet(body string) (*Set, error) {
	ret := &Set{}
	for _, expr := range strings.Split(body, SetSeparator) {
		if expr == "" {
			return nil, fmt.Errorf("%w: empty selector set member", ErrInvalidSelector)
		}
		member, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		ret.members = append(ret.members, member)
	}
	return ret, nil
}

// Members returns the member selectors
func (s *Set) Members() []Selector {
	return s.members
}

func (s *Set) Matches(path string) bool {
	for _, member := range s.members {
		if member.Matches(path) {
			return true
		}
	}
	return false
}

func (s *Set) String() string {
	exprs := make([]string, len(s.members))
	for i, member := range s.members {
		exprs[i] = member.String()
	}
	return string(PrefixSet) + strings.Join(exprs, SetSeparator)
}
