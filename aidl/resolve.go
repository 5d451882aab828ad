package aidl

import (
	"fmt"
	"strings"
)

// Resolve rewrites every unresolved type reference of the unit in place,
// matching it against the platform builtin catalog, the unit's imports and
// its forward declarations, in that order. The project table must already
// contain the item key of every unit in the project.
//
// The returned set holds every qualified name assigned to a resolved type,
// builtins included under their canonical qualified name. It feeds the
// unused-import and unused-declaration checks.
func Resolve(file *Aidl, table map[string]ItemKind) (map[string]struct{}, []Diagnostic) {
	imported := make(map[string]struct{}, len(file.Imports))
	for _, imp := range file.Imports {
		imported[imp.QualifiedName()] = struct{}{}
	}

	resolved := make(map[string]struct{})
	var diagnostics []Diagnostic

	WalkTypes(file, func(t *Type) {
		if t.Kind == TypeUnresolved {
			resolveType(t, file, imported, table)
			// A reference through an import with no known target is still
			// an unknown type, even though the import counts as used.
			unknownImport := t.Kind == TypeResolvedItem && t.ItemKind == ItemUnknownImport
			if t.Kind == TypeUnresolved || unknownImport {
				diagnostics = append(diagnostics, Diagnostic{
					Kind:           DiagnosticError,
					Range:          t.SymbolRange,
					Message:        fmt.Sprintf("Unknown type `%s`", t.Name),
					ContextMessage: "unknown type",
				})
			}
		}
		switch {
		case t.Kind == TypeAndroidBuiltin:
			resolved[t.Builtin.QualifiedName()] = struct{}{}
		case t.Definition != "":
			resolved[t.Definition] = struct{}{}
		}
	})

	return resolved, diagnostics
}

func resolveType(t *Type, file *Aidl, imported map[string]struct{}, table map[string]ItemKind) {
	// Builtins win by bare name, or by canonical qualified name when the
	// unit explicitly imports it.
	if k, ok := builtinsByBareName[t.Name]; ok {
		t.Kind = TypeAndroidBuiltin
		t.Builtin = k
		return
	}
	if k, ok := builtinsByQualifiedName[t.Name]; ok {
		if _, isImported := imported[t.Name]; isImported {
			t.Kind = TypeAndroidBuiltin
			t.Builtin = k
			return
		}
	}

	// An import matches by full qualified name or by its last segment.
	for _, imp := range file.Imports {
		qualified := imp.QualifiedName()
		if t.Name != qualified && t.Name != imp.Name {
			continue
		}
		kind, known := table[qualified]
		if !known {
			kind = ItemUnknownImport
		}
		t.Kind = TypeResolvedItem
		t.Definition = qualified
		t.ItemKind = kind
		return
	}

	// Forward declarations match by bare name only.
	if !strings.Contains(t.Name, ".") {
		for _, decl := range file.DeclaredParcelables {
			if decl.Name != t.Name {
				continue
			}
			t.Kind = TypeResolvedItem
			t.Definition = decl.QualifiedName()
			t.ItemKind = ItemForwardDeclaredParcelable
			return
		}
	}

	// Non-imported canonical builtin names still resolve, as a fallback.
	if k, ok := builtinsByQualifiedName[t.Name]; ok {
		t.Kind = TypeAndroidBuiltin
		t.Builtin = k
		return
	}
}
