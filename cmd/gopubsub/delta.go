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
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/gopubsub/delta"
	"github.com/blinklabs-io/gopubsub/updatecache"
)

func runDiff(f *globalFlags, cfg *Config) {
	args := subcommandArgs(f, flag.NewFlagSet("diff", flag.ExitOnError))
	if len(args) != 2 {
		fmt.Printf("ERROR: you must specify the old and new values in hex\n")
		os.Exit(1)
	}
	oldData := decodeHex(args[0])
	newData := decodeHex(args[1])
	res, err := cfg.differ().Diff(oldData, newData)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("script: %x\n", res.Script)
	fmt.Printf(
		"stats: old = %d, new = %d, script = %d, matched = %d, inserted = %d, bailed out = %t\n",
		len(oldData),
		len(newData),
		len(res.Script),
		res.Matched,
		res.Inserted,
		res.BailedOut,
	)
}

func runApply(f *globalFlags) {
	args := subcommandArgs(f, flag.NewFlagSet("apply", flag.ExitOnError))
	if len(args) != 2 {
		fmt.Printf("ERROR: you must specify the old value and script in hex\n")
		os.Exit(1)
	}
	out, err := delta.Apply(decodeHex(args[0]), decodeHex(args[1]))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%x\n", out)
}

type updateFlags struct {
	flagset *flag.FlagSet
	path    string
}

func newUpdateFlags() *updateFlags {
	f := &updateFlags{
		flagset: flag.NewFlagSet("update", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.path, "path", "topic", "topic path to update")
	return f
}

// runUpdate feeds successive hex values for one topic through an update
// cache and prints the update each one produces
func runUpdate(f *globalFlags, cfg *Config, logger *slog.Logger) {
	updateFlags := newUpdateFlags()
	args := subcommandArgs(f, updateFlags.flagset)
	if len(args) < 1 {
		fmt.Printf("ERROR: you must specify one or more values in hex\n")
		os.Exit(1)
	}
	cache, err := updatecache.New(
		updatecache.WithMaxEntries(cfg.Cache.MaxEntries),
		updatecache.WithDiffer(cfg.differ()),
		updatecache.WithLogger(logger),
	)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	send := func(_ context.Context, update updatecache.Update) error {
		switch update.Kind {
		case updatecache.UpdateDelta:
			fmt.Printf("%s: delta %x\n", update.Path, update.Delta)
		default:
			fmt.Printf("%s: full %x\n", update.Path, update.Value)
		}
		return nil
	}
	ctx := context.Background()
	for _, arg := range args {
		if err := cache.Update(ctx, updateFlags.path, decodeHex(arg), send); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
	}
	stats := cache.Metrics().Stats()
	fmt.Printf(
		"stats: full = %d, delta = %d, sent = %d bytes, saved = %d bytes\n",
		stats.FullUpdates,
		stats.DeltaUpdates,
		stats.BytesSent,
		stats.BytesSaved,
	)
}
