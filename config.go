package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	envRefPattern = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)`)
	keyRefPattern = regexp.MustCompile(`\{(\w+)\}`)
)

// resolveGlobal expands env vars and {key} interpolation in global values.
//
// Keys are processed in declaration order so that later values reference
// the resolved form of earlier ones. An unset env var or a {key} whose
// key is not resolved yet stays verbatim. lookupEnv is passed in rather
// than read from the process so resolution is pure against one snapshot.
func resolveGlobal(order []string, raw map[string]string, lookupEnv func(string) (string, bool)) map[string]string {
	resolved := make(map[string]string, len(raw))
	for _, key := range order {
		value := envRefPattern.ReplaceAllStringFunc(raw[key], func(m string) string {
			name := strings.Trim(m[1:], "{}")
			if v, ok := lookupEnv(name); ok {
				return v
			}
			return m
		})
		value = keyRefPattern.ReplaceAllStringFunc(value, func(m string) string {
			if v, ok := resolved[m[1:len(m)-1]]; ok {
				return v
			}
			return m
		})
		resolved[key] = value
	}
	return resolved
}

type rawConfig struct {
	Global map[string]string  `toml:"global"`
	Scan   map[string]ScanDef `toml:"scan"`
}

// loadConfig reads and resolves a catalog TOML file. Declaration order
// of both tables comes from the decoder metadata.
func loadConfig(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	var raw rawConfig
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	var globalOrder, scanOrder []string
	for _, key := range md.Keys() {
		if len(key) != 2 {
			continue
		}
		switch key[0] {
		case "global":
			globalOrder = append(globalOrder, key[1])
		case "scan":
			scanOrder = append(scanOrder, key[1])
		}
	}

	cfg := &Config{
		Global:    resolveGlobal(globalOrder, raw.Global, lookupEnv),
		Scans:     make(map[string]ScanDef, len(raw.Scan)),
		ScanOrder: scanOrder,
	}
	for name, scan := range raw.Scan {
		if scan.Desc == "" {
			scan.Desc = name
		}
		cfg.Scans[name] = scan
	}
	return cfg, nil
}

var requiredGlobals = []string{"scanner", "trees_path", "csvs_path", "state_path"}

// checkRequired reports global keys the batch cannot run without.
func (c *Config) checkRequired() error {
	var missing []string
	for _, key := range requiredGlobals {
		if c.Global[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required global key(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// planScans returns the names of the scans to execute, in config order.
// Explicitly requested names must all exist; disabled scans are dropped.
func planScans(cfg *Config, requested []string) ([]string, error) {
	want := make(map[string]bool, len(requested))
	unknown := make(map[string]bool)
	for _, name := range requested {
		if _, ok := cfg.Scans[name]; !ok {
			unknown[name] = true
		}
		want[name] = true
	}
	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for name := range unknown {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown scan(s): %s", strings.Join(names, ", "))
	}

	var planned []string
	for _, name := range cfg.ScanOrder {
		if len(want) > 0 && !want[name] {
			continue
		}
		if cfg.Scans[name].enabled() {
			planned = append(planned, name)
		}
	}
	return planned, nil
}
