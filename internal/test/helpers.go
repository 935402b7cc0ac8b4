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

// Package test holds helpers shared by the package tests
package test

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// DecodeHexString decodes a hex fixture, ignoring any whitespace between
// digits. It panics on invalid input.
func DecodeHexString(hexData string) []byte {
	decoded, err := hex.DecodeString(strings.Join(strings.Fields(hexData), ""))
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// RandomBytes returns n bytes drawn from rng
func RandomBytes(rng *rand.Rand, n int) []byte {
	ret := make([]byte, n)
	for i := range ret {
		ret[i] = byte(rng.Intn(256))
	}
	return ret
}

// StepClock returns a clock reading start on its first call and advancing
// by step on each further call. It is not safe for concurrent use.
func StepClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		ret := next
		next = next.Add(step)
		return ret
	}
}
