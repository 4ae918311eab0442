package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configFile = "tyfold.toml"

// config mirrors tyfold.toml. Every value is optional; flags given on the
// command line win over it.
type config struct {
	Fold   foldConfig   `toml:"fold"`
	Driver driverConfig `toml:"driver"`
	Trace  traceConfig  `toml:"trace"`
}

type foldConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type driverConfig struct {
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Color          string `toml:"color"`
}

type traceConfig struct {
	Level    string `toml:"level"`
	Output   string `toml:"output"`
	Mode     string `toml:"mode"`
	RingSize int    `toml:"ring_size"`
}

// findConfig looks for tyfold.toml in startDir and its parents.
func findConfig(startDir string) (string, bool, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, configFile)
		st, err := os.Stat(candidate)
		if err == nil && !st.IsDir() {
			return candidate, true, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// loadConfig decodes the file at path. Keys tyfold does not know are an
// error so typos do not go unnoticed.
func loadConfig(path string) (*config, error) {
	var cfg config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%s:%d: %s", path, perr.Position.Line, perr.Message)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// prepare resolves the configuration for cmd and copies its values into the
// persistent flags the user did not set.
func prepare(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		found, ok, err := findConfig(wd)
		if err != nil {
			return fmt.Errorf("failed to search for %s: %w", configFile, err)
		}
		if !ok {
			return nil
		}
		path = found
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	defaults := []struct {
		flag  string
		value string
		set   bool
	}{
		{"max-depth", strconv.Itoa(cfg.Fold.MaxDepth), cfg.Fold.MaxDepth != 0},
		{"jobs", strconv.Itoa(cfg.Driver.Jobs), cfg.Driver.Jobs != 0},
		{"max-diagnostics", strconv.Itoa(cfg.Driver.MaxDiagnostics), cfg.Driver.MaxDiagnostics != 0},
		{"color", cfg.Driver.Color, cfg.Driver.Color != ""},
		{"trace", cfg.Trace.Output, cfg.Trace.Output != ""},
		{"trace-level", cfg.Trace.Level, cfg.Trace.Level != ""},
		{"trace-mode", cfg.Trace.Mode, cfg.Trace.Mode != ""},
		{"trace-ring-size", strconv.Itoa(cfg.Trace.RingSize), cfg.Trace.RingSize != 0},
	}
	for _, d := range defaults {
		if !d.set || flags.Changed(d.flag) {
			continue
		}
		if err := flags.Set(d.flag, d.value); err != nil {
			return fmt.Errorf("%s: invalid %s: %w", path, d.flag, err)
		}
	}
	return nil
}
