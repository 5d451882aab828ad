package aidl

import (
	"fmt"
	"sort"
	"strings"
)

type DiagnosticKind int

const (
	DiagnosticError DiagnosticKind = iota
	DiagnosticWarning
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is one parser, resolver or validator finding. Diagnostics
// accumulate across the three phases and are sorted by start line before
// being handed back to the caller.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Range   Range          `json:"range"`
	Message string         `json:"message"`

	// ContextMessage is a short label displayed next to the symbol.
	ContextMessage string `json:"context_message,omitempty"`

	Hint         string        `json:"hint,omitempty"`
	RelatedInfos []RelatedInfo `json:"related_infos,omitempty"`
}

// RelatedInfo points at another location involved in a diagnostic, e.g.
// the first occurrence of a duplicated import.
type RelatedInfo struct {
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

// SortDiagnostics orders diagnostics by ascending start line, keeping the
// insertion order of diagnostics on the same line.
func SortDiagnostics(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].Range.Start.Line < diagnostics[j].Range.Start.Line
	})
}

// ExpectedTokens renders a set of grammar alternatives the way parser
// diagnostics quote them: "Expected X", "Expected X or Y", or
// "Expected one of X, Y or Z".
func ExpectedTokens(expected []string) string {
	switch len(expected) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Expected %s", expected[0])
	case 2:
		return fmt.Sprintf("Expected %s or %s", expected[0], expected[1])
	default:
		return fmt.Sprintf(
			"Expected one of %s or %s",
			strings.Join(expected[:len(expected)-1], ", "),
			expected[len(expected)-1],
		)
	}
}
