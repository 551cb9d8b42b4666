package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asp-lang/asp/bridge"
)

var (
	evalCode     string
	evalSnapshot string
)

func init() {
	evalCmd.Flags().StringVarP(&evalCode, "code", "c", "", "source code to evaluate")
	evalCmd.Flags().StringVar(&evalSnapshot, "snapshot", "", "write the result value to this file")
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression...]",
	Short: "Evaluate an expression and print its value",
	RunE: func(cmd *cobra.Command, args []string) error {
		code := evalCode
		if code == "" {
			code = strings.Join(args, " ")
		}
		if code == "" {
			return fmt.Errorf("nothing to evaluate: pass an expression or -c CODE")
		}

		s, _, err := openSession(cmd)
		if err != nil {
			return err
		}
		v, err := s.Eval(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return err
		}

		if evalSnapshot != "" {
			f, err := os.Create(evalSnapshot)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := bridge.WriteSnapshot(f, v); err != nil {
				return fmt.Errorf("write snapshot %s: %w", evalSnapshot, err)
			}
		}

		if !v.IsNull() {
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
		}
		return nil
	},
}

// formatValue renders a host value for terminal output.
func formatValue(v bridge.Value) string {
	switch v.Kind() {
	case bridge.KindNull:
		return "NULL"
	case bridge.KindBool:
		vs, _ := v.Bools()
		parts := make([]string, len(vs))
		for i, b := range vs {
			if b {
				parts[i] = "TRUE"
			} else {
				parts[i] = "FALSE"
			}
		}
		return vectorString(parts, v.Dim())
	case bridge.KindInt:
		vs, _ := v.Ints()
		parts := make([]string, len(vs))
		for i, n := range vs {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return vectorString(parts, v.Dim())
	case bridge.KindFloat:
		vs, _ := v.Floats()
		parts := make([]string, len(vs))
		for i, f := range vs {
			parts[i] = fmt.Sprintf("%g", f)
		}
		return vectorString(parts, v.Dim())
	case bridge.KindString:
		vs, _ := v.Strs()
		parts := make([]string, len(vs))
		for i, s := range vs {
			parts[i] = fmt.Sprintf("%q", s)
		}
		return vectorString(parts, v.Dim())
	case bridge.KindList:
		items, _ := v.Items()
		names := v.Names()
		parts := make([]string, len(items))
		for i, item := range items {
			if names != nil && names[i] != "" {
				parts[i] = names[i] + " = " + formatValue(item)
			} else {
				parts[i] = formatValue(item)
			}
		}
		return "list(" + strings.Join(parts, ", ") + ")"
	case bridge.KindObject:
		h, _ := v.Handle()
		return fmt.Sprintf("<%s>", h.Class())
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

func vectorString(parts []string, dim []int) string {
	if len(parts) == 1 && dim == nil {
		return parts[0]
	}
	body := "[" + strings.Join(parts, ", ") + "]"
	if dim != nil {
		return fmt.Sprintf("%s dim=%v", body, dim)
	}
	return body
}
