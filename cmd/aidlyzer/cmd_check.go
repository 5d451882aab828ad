package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dhamidi/aidlyzer/aidl"
	"github.com/dhamidi/aidlyzer/aidl/project"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file-or-dir>...",
		Short: "Parse and validate AIDL files as one project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no .aidl files found")
			}

			proj := project.New[string]()
			for _, file := range files {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				proj.AddContent(file, string(content))
			}

			diagnostics := proj.Validate()

			paths := make([]string, 0, len(diagnostics))
			for path := range diagnostics {
				paths = append(paths, path)
			}
			sort.Strings(paths)

			errors := 0
			for _, path := range paths {
				for _, d := range diagnostics[path] {
					printDiagnostic(cmd, path, d)
					if d.Kind == aidl.DiagnosticError {
						errors++
					}
				}
			}

			if errors > 0 {
				return fmt.Errorf("%d error(s) in %d file(s)", errors, len(files))
			}
			return nil
		},
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == ".aidl" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func printDiagnostic(cmd *cobra.Command, path string, d aidl.Diagnostic) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:%d:%d: %s: %s\n",
		path, d.Range.Start.Line, d.Range.Start.Col, d.Kind, d.Message)
	if d.Hint != "" {
		fmt.Fprintf(out, "  hint: %s\n", d.Hint)
	}
	for _, info := range d.RelatedInfos {
		fmt.Fprintf(out, "  %s:%d:%d: %s\n",
			path, info.Range.Start.Line, info.Range.Start.Col, info.Message)
	}
}
