package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/aidlyzer/aidl"
	"github.com/dhamidi/aidlyzer/aidl/parser"
	"github.com/spf13/cobra"
)

func newSymbolsCmd() *cobra.Command {
	var depth string

	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the symbols of one AIDL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter aidl.SymbolFilter
			switch depth {
			case "items":
				filter = aidl.SymbolsItemsOnly
			case "elements":
				filter = aidl.SymbolsItemsAndElements
			case "all":
				filter = aidl.SymbolsAll
			default:
				return fmt.Errorf("unknown depth: %s (expected items, elements or all)", depth)
			}

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

			out := cmd.OutOrStdout()
			aidl.VisitSymbols(ast, filter, func(s aidl.Symbol) {
				r := s.Range()
				fmt.Fprintf(out, "%d:%d\t%s\t%s\n",
					r.Start.Line, r.Start.Col, s.Kind, s.Signature())
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&depth, "depth", "d", "elements", "symbol depth (items, elements, all)")

	return cmd
}
