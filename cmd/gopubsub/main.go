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
	"flag"
	"fmt"
	"log/slog"
	"os"
)

type globalFlags struct {
	flagset       *flag.FlagSet
	config        string
	maxStorage    int
	bailoutFactor int
	maxEntries    int
	debug         bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.config,
		"config",
		"",
		"path to YAML config file",
	)
	f.flagset.IntVar(
		&f.maxStorage,
		"max-storage",
		0,
		"diff search storage limit in bytes. this overrides the config file",
	)
	f.flagset.IntVar(
		&f.bailoutFactor,
		"bailout-factor",
		0,
		"diff work budget per input byte. this overrides the config file",
	)
	f.flagset.IntVar(
		&f.maxEntries,
		"max-entries",
		0,
		"update cache size. this overrides the config file",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	cfg.applyFlags(f)

	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "dump":
			runDump(f)
		case "from-json":
			runFromJSON(f)
		case "to-json":
			runToJSON(f)
		case "diff":
			runDiff(f, cfg)
		case "apply":
			runApply(f)
		case "update":
			runUpdate(f, cfg, logger)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf(
			"You must specify a subcommand (dump, from-json, to-json, diff, apply or update)\n",
		)
		os.Exit(1)
	}
}

// subcommandArgs parses the arguments following the subcommand name
func subcommandArgs(f *globalFlags, flagset *flag.FlagSet) []string {
	if err := flagset.Parse(f.flagset.Args()[1:]); err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	return flagset.Args()
}
