package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/asp-lang/asp/bridge"
)

func testCmd(configPath string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", configPath, "")
	return cmd
}

func TestFindAspToml(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(root, "asp.toml")
	if err := os.WriteFile(manifest, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	path, ok, err := findAspToml(nested)
	if err != nil {
		t.Fatalf("findAspToml: %v", err)
	}
	if !ok || path != manifest {
		t.Fatalf("found %q ok=%v, want %q", path, ok, manifest)
	}

	empty := t.TempDir()
	_, ok, err = findAspToml(empty)
	if err != nil {
		t.Fatalf("findAspToml: %v", err)
	}
	if ok {
		t.Fatalf("found a manifest in an empty tree")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a manifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "asp.toml")
		if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(testCmd(path))
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.ProgramName != "asp" || cfg.Repl.Prompt != ">>> " || cfg.Repl.Color != "auto" {
			t.Fatalf("cfg = %+v", cfg)
		}
	})

	t.Run("manifest overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "asp.toml")
		body := "program_name = \"demo\"\npreload = [\"math\"]\n\n[repl]\nprompt = \"demo> \"\ncolor = \"off\"\nhistory_file = \"/tmp/asp_history\"\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(testCmd(path))
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.ProgramName != "demo" {
			t.Errorf("ProgramName = %q", cfg.ProgramName)
		}
		if cfg.Repl.Prompt != "demo> " {
			t.Errorf("Prompt = %q", cfg.Repl.Prompt)
		}
		if cfg.Repl.Color != "off" {
			t.Errorf("Color = %q", cfg.Repl.Color)
		}
		if len(cfg.Preload) != 1 || cfg.Preload[0] != "math" {
			t.Errorf("Preload = %v", cfg.Preload)
		}
		if cfg.Repl.HistoryFile != "/tmp/asp_history" {
			t.Errorf("HistoryFile = %q", cfg.Repl.HistoryFile)
		}
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "asp.toml")
		if err := os.WriteFile(path, []byte("promt = \"oops\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := loadConfig(testCmd(path))
		if err == nil || !strings.Contains(err.Error(), "unknown key") {
			t.Fatalf("err = %v, want unknown key", err)
		}
	})

	t.Run("bad color value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "asp.toml")
		if err := os.WriteFile(path, []byte("[repl]\ncolor = \"sometimes\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := loadConfig(testCmd(path))
		if err == nil || !strings.Contains(err.Error(), "repl.color") {
			t.Fatalf("err = %v, want color validation error", err)
		}
	})
}

func TestFormatValue(t *testing.T) {
	arr, err := bridge.IntArray([]int64{1, 4, 2, 5, 3, 6}, []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		v    bridge.Value
		want string
	}{
		{"null", bridge.Null(), "NULL"},
		{"bool", bridge.Bool(true), "TRUE"},
		{"int scalar", bridge.Int(42), "42"},
		{"float scalar", bridge.Float(2.5), "2.5"},
		{"string scalar", bridge.Str("hi"), `"hi"`},
		{"vector", bridge.IntVector([]int64{1, 2}), "[1, 2]"},
		{"array", arr, "[1, 4, 2, 5, 3, 6] dim=[2 3]"},
		{"list", bridge.List(bridge.Int(1), bridge.Str("a")), `list(1, "a")`},
		{"named list", bridge.NamedList([]string{"k", ""}, bridge.Int(1), bridge.Int(2)), "list(k = 1, 2)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(tc.v); got != tc.want {
				t.Errorf("formatValue = %q, want %q", got, tc.want)
			}
		})
	}
}
