package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asp-lang/asp/bridge"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openSession(cmd)
		if err != nil {
			return err
		}
		return runRepl(s, cfg, os.Stdin, cmd.OutOrStdout())
	},
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func runRepl(s *bridge.Session, cfg config, in io.Reader, out io.Writer) error {
	errColor := color.New(color.FgRed, color.Bold)
	switch cfg.Repl.Color {
	case "on":
		errColor.EnableColor()
	case "off":
		errColor.DisableColor()
	default:
		if f, ok := in.(*os.File); !ok || !isTerminal(f) {
			errColor.DisableColor()
		}
	}

	interactive := false
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		interactive = true
		fmt.Fprintf(out, "asp %s (exit with ctrl-d)\n", version)
	}

	var history *os.File
	if cfg.Repl.HistoryFile != "" {
		f, err := os.OpenFile(cfg.Repl.HistoryFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			errColor.Fprintf(out, "history disabled: %v\n", err)
		} else {
			history = f
			defer history.Close()
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, cfg.Repl.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if history != nil {
			fmt.Fprintln(history, line)
		}
		v, err := s.Eval(line)
		if err != nil {
			errColor.Fprintln(out, err)
			continue
		}
		if !v.IsNull() {
			fmt.Fprintln(out, formatValue(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if interactive {
		fmt.Fprintln(out)
	}
	return nil
}
