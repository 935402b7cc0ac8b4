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

package delta

// match is a run of n equal bytes at old[a:] and new[b:]
type match struct {
	a, b, n int
}

// search holds the state of a single diff computation
type search struct {
	old, new  []byte
	matches   []match
	maxD      int
	budget    int
	work      int
	bailedOut bool
}

func newSearch(oldData, newData []byte, cfg DifferConfig) *search {
	// Two vectors of ints per bisection, each 2*D+2 long
	maxD := cfg.MaxStorage/32 - 1
	if maxD < 1 {
		maxD = 1
	}
	total := len(oldData) + len(newData)
	budget := cfg.BailoutFactor * total
	if total != 0 && budget/total != cfg.BailoutFactor {
		budget = int(^uint(0) >> 1)
	}
	if cfg.MaxWork > 0 {
		budget = min(budget, cfg.MaxWork)
	}
	return &search{
		old:    oldData,
		new:    newData,
		maxD:   maxD,
		budget: budget,
	}
}

func (s *search) addMatch(a, b, n int) {
	if n == 0 {
		return
	}
	if len(s.matches) > 0 {
		last := &s.matches[len(s.matches)-1]
		if last.a+last.n == a && last.b+last.n == b {
			last.n += n
			return
		}
	}
	s.matches = append(s.matches, match{a: a, b: b, n: n})
}

// compare finds the matches between old[aLo:aHi] and new[bLo:bHi], appending
// them in order
func (s *search) compare(aLo, aHi, bLo, bHi int) {
	if s.bailedOut {
		return
	}
	prefix := 0
	for aLo+prefix < aHi && bLo+prefix < bHi && s.old[aLo+prefix] == s.new[bLo+prefix] {
		prefix++
	}
	s.addMatch(aLo, bLo, prefix)
	aLo += prefix
	bLo += prefix
	suffix := 0
	for aLo < aHi-suffix && bLo < bHi-suffix && s.old[aHi-suffix-1] == s.new[bHi-suffix-1] {
		suffix++
	}
	aHi -= suffix
	bHi -= suffix
	s.work += prefix + suffix
	if aLo < aHi && bLo < bHi {
		x, y, ok := s.bisect(s.old[aLo:aHi], s.new[bLo:bHi])
		if ok {
			s.compare(aLo, aLo+x, bLo, bLo+y)
			s.compare(aLo+x, aHi, bLo+y, bHi)
		}
	}
	s.addMatch(aHi, bHi, suffix)
}

// bisect finds the middle snake of an optimal edit path between a and b,
// whose first and last bytes differ, and returns the point to split the
// problem at. It returns false when the inputs should be replaced wholesale,
// either because they have nothing in common or because the search ran out
// of budget or storage.
func (s *search) bisect(a, b []byte) (int, int, bool) {
	n, m := len(a), len(b)
	maxD := (n + m + 1) / 2
	limited := false
	if maxD > s.maxD {
		maxD = s.maxD
		limited = true
	}
	vOffset := maxD
	vLength := 2*maxD + 2
	v1 := make([]int, vLength)
	v2 := make([]int, vLength)
	for i := range v1 {
		v1[i] = -1
		v2[i] = -1
	}
	v1[vOffset+1] = 0
	v2[vOffset+1] = 0
	delta := n - m
	// When the length difference is odd the forward path detects the overlap
	front := delta%2 != 0
	var k1start, k1end, k2start, k2end int
	for d := 0; d < maxD; d++ {
		// Forward path
		for k1 := -d + k1start; k1 <= d-k1end; k1 += 2 {
			if s.work > s.budget {
				s.bailedOut = true
				return 0, 0, false
			}
			s.work++
			k1Offset := vOffset + k1
			var x1 int
			if k1 == -d || (k1 != d && v1[k1Offset-1] < v1[k1Offset+1]) {
				x1 = v1[k1Offset+1]
			} else {
				x1 = v1[k1Offset-1] + 1
			}
			y1 := x1 - k1
			snake := x1
			for x1 >= 0 && y1 >= 0 && x1 < n && y1 < m && a[x1] == b[y1] {
				x1++
				y1++
			}
			s.work += x1 - snake
			v1[k1Offset] = x1
			if x1 > n {
				k1end += 2
			} else if y1 > m {
				k1start += 2
			} else if front {
				k2Offset := vOffset + delta - k1
				if k2Offset >= 0 && k2Offset < vLength && v2[k2Offset] != -1 {
					x2 := n - v2[k2Offset]
					if x1 >= x2 {
						return s.split(x1, y1, n, m)
					}
				}
			}
		}
		// Reverse path
		for k2 := -d + k2start; k2 <= d-k2end; k2 += 2 {
			if s.work > s.budget {
				s.bailedOut = true
				return 0, 0, false
			}
			s.work++
			k2Offset := vOffset + k2
			var x2 int
			if k2 == -d || (k2 != d && v2[k2Offset-1] < v2[k2Offset+1]) {
				x2 = v2[k2Offset+1]
			} else {
				x2 = v2[k2Offset-1] + 1
			}
			y2 := x2 - k2
			snake := x2
			for x2 >= 0 && y2 >= 0 && x2 < n && y2 < m && a[n-x2-1] == b[m-y2-1] {
				x2++
				y2++
			}
			s.work += x2 - snake
			v2[k2Offset] = x2
			if x2 > n {
				k2end += 2
			} else if y2 > m {
				k2start += 2
			} else if !front {
				k1Offset := vOffset + delta - k2
				if k1Offset >= 0 && k1Offset < vLength && v1[k1Offset] != -1 {
					x1 := v1[k1Offset]
					y1 := vOffset + x1 - k1Offset
					if x1 >= n-x2 {
						return s.split(x1, y1, n, m)
					}
				}
			}
		}
	}
	if limited {
		s.bailedOut = true
	}
	return 0, 0, false
}

// split validates a bisection point. A point at either corner would not
// shrink the problem.
func (s *search) split(x, y, n, m int) (int, int, bool) {
	if x < 0 || y < 0 || x > n || y > m || (x == 0 && y == 0) || (x == n && y == m) {
		return 0, 0, false
	}
	return x, y, true
}
