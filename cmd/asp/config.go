package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/asp-lang/asp/bridge"
)

// config is the asp.toml schema. Every field is optional.
type config struct {
	// ProgramName seeds the embedded runtime's argv.
	ProgramName string `toml:"program_name"`

	// Preload names modules imported into the main namespace before any
	// code runs.
	Preload []string `toml:"preload"`

	Repl replConfig `toml:"repl"`
}

type replConfig struct {
	// Prompt is printed before each input line.
	Prompt string `toml:"prompt"`

	// Color controls error highlighting: "auto", "on" or "off".
	Color string `toml:"color"`

	// HistoryFile, when set, receives every evaluated line.
	HistoryFile string `toml:"history_file"`
}

func defaultConfig() config {
	return config{
		ProgramName: "asp",
		Repl: replConfig{
			Prompt: ">>> ",
			Color:  "auto",
		},
	}
}

// findAspToml walks up from startDir to locate asp.toml.
func findAspToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "asp.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig reads asp.toml from the --config flag or by walking up from
// the working directory, falling back to defaults when none exists.
func loadConfig(cmd *cobra.Command) (config, error) {
	cfg := defaultConfig()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		found, ok, err := findAspToml(".")
		if err != nil {
			return cfg, err
		}
		if !ok {
			return cfg, nil
		}
		path = found
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	if cfg.ProgramName == "" {
		cfg.ProgramName = "asp"
	}
	if cfg.Repl.Prompt == "" {
		cfg.Repl.Prompt = ">>> "
	}
	switch cfg.Repl.Color {
	case "", "auto", "on", "off":
	default:
		return cfg, fmt.Errorf("repl.color must be auto, on or off, got %q", cfg.Repl.Color)
	}
	return cfg, nil
}

// openSession bootstraps the process-wide runtime from the loaded config.
// Commands share it so a REPL started after eval reuses the same runtime.
func openSession(cmd *cobra.Command) (*bridge.Session, config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	s, err := bridge.Initialize(bridge.Options{ProgramName: cfg.ProgramName})
	if errors.Is(err, bridge.ErrAlreadyInitialized) {
		s, err = bridge.Default()
	}
	if err != nil {
		return nil, cfg, err
	}
	for _, name := range cfg.Preload {
		if err := s.RunString("import " + name); err != nil {
			return nil, cfg, fmt.Errorf("preload %s: %w", name, err)
		}
	}
	return s, cfg, nil
}
