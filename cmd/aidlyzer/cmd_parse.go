package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhamidi/aidlyzer/aidl/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one AIDL file and dump the AST as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			ast, diagnostics := parser.Parse(string(content))
			for _, d := range diagnostics {
				printDiagnostic(cmd, args[0], d)
			}
			if ast == nil {
				return fmt.Errorf("parse %s: invalid top-level structure", args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(ast); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}
}
