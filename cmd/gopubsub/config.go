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
	"fmt"
	"os"

	"github.com/blinklabs-io/gopubsub/delta"
	"github.com/blinklabs-io/gopubsub/updatecache"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Delta DeltaConfig `yaml:"delta"`
	Cache CacheConfig `yaml:"cache"`
}

type DeltaConfig struct {
	MaxStorage    int `yaml:"maxStorage"`
	BailoutFactor int `yaml:"bailoutFactor"`
	MaxWork       int `yaml:"maxWork"`
}

type CacheConfig struct {
	MaxEntries int `yaml:"maxEntries"`
}

func defaultConfig() *Config {
	return &Config{
		Delta: DeltaConfig{
			MaxStorage:    delta.DefaultMaxStorage,
			BailoutFactor: delta.DefaultBailoutFactor,
			MaxWork:       delta.DefaultMaxWork,
		},
		Cache: CacheConfig{
			MaxEntries: updatecache.DefaultMaxEntries,
		},
	}
}

// loadConfig reads the YAML config file at path over the defaults. An empty
// path yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	checks := []struct {
		name  string
		value int
	}{
		{"delta.maxStorage", cfg.Delta.MaxStorage},
		{"delta.bailoutFactor", cfg.Delta.BailoutFactor},
		{"delta.maxWork", cfg.Delta.MaxWork},
		{"cache.maxEntries", cfg.Cache.MaxEntries},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return nil, fmt.Errorf(
				"parse config %s: %s must be positive, got %d",
				path,
				check.name,
				check.value,
			)
		}
	}
	return cfg, nil
}

func (c *Config) applyFlags(f *globalFlags) {
	if f.maxStorage > 0 {
		c.Delta.MaxStorage = f.maxStorage
	}
	if f.bailoutFactor > 0 {
		c.Delta.BailoutFactor = f.bailoutFactor
	}
	if f.maxEntries > 0 {
		c.Cache.MaxEntries = f.maxEntries
	}
}

func (c *Config) differ() *delta.Differ {
	return delta.NewDiffer(
		delta.WithMaxStorage(c.Delta.MaxStorage),
		delta.WithBailoutFactor(c.Delta.BailoutFactor),
		delta.WithMaxWork(c.Delta.MaxWork),
	)
}
