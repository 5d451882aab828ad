package aidl

import (
	"reflect"
	"testing"
)

func testRange(line int) Range {
	return Range{
		Start: Position{Line: line, Col: 1},
		End:   Position{Line: line, Col: 10},
	}
}

func testImport(path, name string, line int) Import {
	return Import{
		Path:        path,
		Name:        name,
		SymbolRange: testRange(line),
		FullRange:   testRange(line),
	}
}

func unresolvedType(name string, line int) *Type {
	return &Type{Name: name, Kind: TypeUnresolved, SymbolRange: testRange(line)}
}

func methodWithArgType(name string, argType *Type) *Method {
	return &Method{
		Name:        name,
		ReturnType:  &Type{Name: "void", Kind: TypeVoid},
		Args:        []*Arg{{Type: argType}},
		SymbolRange: testRange(1),
	}
}

// interfaceUnit builds a minimal unit whose interface has one method per
// given argument type.
func interfaceUnit(argTypes ...*Type) *Aidl {
	iface := &Interface{Name: "ITest", SymbolRange: testRange(1)}
	for i, argType := range argTypes {
		iface.Elements = append(iface.Elements, methodWithArgType(methodName(i), argType))
	}
	return &Aidl{
		Package: Package{Name: "test.pkg"},
		Item:    iface,
	}
}

func methodName(i int) string {
	return string(rune('a' + i))
}

func TestResolveImportedType(t *testing.T) {
	table := map[string]ItemKind{
		"other.pkg.Foo": ItemParcelable,
	}

	tests := []struct {
		name     string
		typeName string
	}{
		{"bare name", "Foo"},
		{"qualified name", "other.pkg.Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := unresolvedType(tt.typeName, 3)
			file := interfaceUnit(typ)
			file.Imports = []Import{testImport("other.pkg", "Foo", 2)}

			resolved, diagnostics := Resolve(file, table)
			if len(diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %+v", diagnostics)
			}
			if typ.Kind != TypeResolvedItem {
				t.Errorf("kind: got %v, want resolved item", typ.Kind)
			}
			if typ.Definition != "other.pkg.Foo" {
				t.Errorf("definition: got %q", typ.Definition)
			}
			if typ.ItemKind != ItemParcelable {
				t.Errorf("item kind: got %v", typ.ItemKind)
			}
			if _, ok := resolved["other.pkg.Foo"]; !ok {
				t.Error("resolved set should contain the import")
			}
		})
	}
}

func TestResolveUnknownImportTarget(t *testing.T) {
	typ := unresolvedType("Gone", 3)
	file := interfaceUnit(typ)
	file.Imports = []Import{testImport("other.pkg", "Gone", 2)}

	resolved, diagnostics := Resolve(file, map[string]ItemKind{})
	if len(diagnostics) != 1 {
		t.Fatalf("diagnostics: got %v, want 1", diagnostics)
	}
	if d := diagnostics[0]; d.Kind != DiagnosticError || d.Message != "Unknown type `Gone`" {
		t.Errorf("got %v %q, want unknown type error", d.Kind, d.Message)
	}
	if typ.Kind != TypeResolvedItem || typ.ItemKind != ItemUnknownImport {
		t.Errorf("got %v/%v, want resolved item with unknown import", typ.Kind, typ.ItemKind)
	}
	if _, ok := resolved["other.pkg.Gone"]; !ok {
		t.Error("the import still counts as used")
	}
}

func TestResolveBuiltins(t *testing.T) {
	tests := []struct {
		name      string
		typeName  string
		imports   []Import
		builtin   BuiltinKind
		qualified string
	}{
		{
			"bare builtin",
			"IBinder",
			nil,
			BuiltinIBinder,
			"android.os.IBinder",
		},
		{
			"qualified builtin without import",
			"android.os.ParcelFileDescriptor",
			nil,
			BuiltinParcelFileDescriptor,
			"android.os.ParcelFileDescriptor",
		},
		{
			"qualified builtin with import",
			"java.io.FileDescriptor",
			[]Import{testImport("java.io", "FileDescriptor", 2)},
			BuiltinFileDescriptor,
			"java.io.FileDescriptor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := unresolvedType(tt.typeName, 3)
			file := interfaceUnit(typ)
			file.Imports = tt.imports

			resolved, diagnostics := Resolve(file, map[string]ItemKind{})
			if len(diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %+v", diagnostics)
			}
			if typ.Kind != TypeAndroidBuiltin || typ.Builtin != tt.builtin {
				t.Errorf("got %v/%v, want builtin %v", typ.Kind, typ.Builtin, tt.builtin)
			}
			if _, ok := resolved[tt.qualified]; !ok {
				t.Errorf("resolved set missing %q", tt.qualified)
			}
		})
	}
}

func TestResolveForwardDeclaration(t *testing.T) {
	typ := unresolvedType("Blob", 3)
	file := interfaceUnit(typ)
	file.DeclaredParcelables = []DeclaredParcelable{{
		Name:        "Blob",
		SymbolRange: testRange(2),
	}}

	resolved, diagnostics := Resolve(file, map[string]ItemKind{})
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diagnostics)
	}
	if typ.Kind != TypeResolvedItem || typ.ItemKind != ItemForwardDeclaredParcelable {
		t.Errorf("got %v/%v, want forward-declared parcelable", typ.Kind, typ.ItemKind)
	}
	if _, ok := resolved["Blob"]; !ok {
		t.Error("resolved set should contain the declaration")
	}
}

func TestResolveQualifiedNameSkipsForwardDeclaration(t *testing.T) {
	// Forward declarations match by bare name only.
	typ := unresolvedType("some.pkg.Blob", 3)
	file := interfaceUnit(typ)
	file.DeclaredParcelables = []DeclaredParcelable{{
		Path:        "some.pkg",
		Name:        "Blob",
		SymbolRange: testRange(2),
	}}

	_, diagnostics := Resolve(file, map[string]ItemKind{})
	if len(diagnostics) != 1 {
		t.Fatalf("diagnostics: got %d, want 1", len(diagnostics))
	}
	if typ.Kind != TypeUnresolved {
		t.Errorf("kind: got %v, want unresolved", typ.Kind)
	}
}

func TestResolveUnknownType(t *testing.T) {
	typ := unresolvedType("Nope", 3)
	file := interfaceUnit(typ)

	_, diagnostics := Resolve(file, map[string]ItemKind{})
	if len(diagnostics) != 1 {
		t.Fatalf("diagnostics: got %d, want 1", len(diagnostics))
	}
	d := diagnostics[0]
	if d.Kind != DiagnosticError {
		t.Errorf("kind: got %v, want error", d.Kind)
	}
	if d.Message != "Unknown type `Nope`" {
		t.Errorf("message: got %q", d.Message)
	}
	if typ.Kind != TypeUnresolved {
		t.Errorf("type stays unresolved, got %v", typ.Kind)
	}
}

func TestResolveNestedGenerics(t *testing.T) {
	element := unresolvedType("Foo", 3)
	list := NewListType(element, testRange(3))
	file := interfaceUnit(list)
	file.Imports = []Import{testImport("other.pkg", "Foo", 2)}

	table := map[string]ItemKind{"other.pkg.Foo": ItemParcelable}
	_, diagnostics := Resolve(file, table)
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diagnostics)
	}
	if element.Kind != TypeResolvedItem {
		t.Errorf("list element: got %v, want resolved item", element.Kind)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	typ := unresolvedType("Foo", 3)
	file := interfaceUnit(typ)
	file.Imports = []Import{testImport("other.pkg", "Foo", 2)}
	table := map[string]ItemKind{"other.pkg.Foo": ItemParcelable}

	firstResolved, firstDiags := Resolve(file, table)
	firstKind := typ.Kind

	secondResolved, secondDiags := Resolve(file, table)
	if typ.Kind != firstKind {
		t.Errorf("kind changed on re-resolve: %v -> %v", firstKind, typ.Kind)
	}
	if !reflect.DeepEqual(firstResolved, secondResolved) {
		t.Errorf("resolved set changed: %v -> %v", firstResolved, secondResolved)
	}
	if len(firstDiags) != 0 || len(secondDiags) != 0 {
		t.Errorf("diagnostics: got %d then %d, want none", len(firstDiags), len(secondDiags))
	}
}
