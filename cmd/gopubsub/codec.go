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

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blinklabs-io/gopubsub/cbor"
)

// readInput returns the first argument, or standard input when there is none
func readInput(args []string) []byte {
	if len(args) > 0 {
		return []byte(args[0])
	}
	buf, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Printf("ERROR: failed to read input: %s\n", err)
		os.Exit(1)
	}
	return buf
}

func decodeHex(input string) []byte {
	ret, err := hex.DecodeString(strings.Join(strings.Fields(input), ""))
	if err != nil {
		fmt.Printf("ERROR: invalid hex input: %s\n", err)
		os.Exit(1)
	}
	return ret
}

func runDump(f *globalFlags) {
	args := subcommandArgs(f, flag.NewFlagSet("dump", flag.ExitOnError))
	data := decodeHex(string(readInput(args)))
	out, err := cbor.DumpTokens(data)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func runFromJSON(f *globalFlags) {
	args := subcommandArgs(f, flag.NewFlagSet("from-json", flag.ExitOnError))
	data, err := cbor.FromJSON(readInput(args))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%x\n", data)
}

func runToJSON(f *globalFlags) {
	args := subcommandArgs(f, flag.NewFlagSet("to-json", flag.ExitOnError))
	data := decodeHex(string(readInput(args)))
	out, err := cbor.ToJSON(data)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n", out)
}
