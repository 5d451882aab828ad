package aidl

import "testing"

func rangeAt(line, startCol, endCol int) Range {
	return Range{
		Start: Position{Line: line, Col: startCol},
		End:   Position{Line: line, Col: endCol},
	}
}

// symbolTestUnit models:
//
//	package test.pkg;            (line 1)
//	import other.pkg.Foo;        (line 2)
//	interface ITest {            (line 3)
//	    void connect(in Foo[] values);  (line 4)
//	}                            (line 5)
func symbolTestUnit() (*Aidl, *Method) {
	elementType := &Type{
		Name:        "Foo",
		Kind:        TypeResolvedItem,
		Definition:  "other.pkg.Foo",
		ItemKind:    ItemParcelable,
		SymbolRange: rangeAt(4, 21, 24),
	}
	method := &Method{
		Name:       "connect",
		ReturnType: &Type{Name: "void", Kind: TypeVoid, SymbolRange: rangeAt(4, 5, 9)},
		Args: []*Arg{{
			Direction:   Direction{Kind: DirectionIn, Range: rangeAt(4, 18, 20)},
			Name:        "values",
			Type:        NewArrayType(elementType, rangeAt(4, 21, 26)),
			SymbolRange: rangeAt(4, 28, 34),
			FullRange:   rangeAt(4, 18, 34),
		}},
		SymbolRange: rangeAt(4, 10, 17),
		FullRange:   rangeAt(4, 5, 35),
	}
	iface := &Interface{
		Name:        "ITest",
		Elements:    []InterfaceElement{method},
		SymbolRange: rangeAt(3, 11, 16),
		FullRange: Range{
			Start: Position{Line: 3, Col: 1},
			End:   Position{Line: 5, Col: 2},
		},
	}
	file := &Aidl{
		Package: Package{
			Name:        "test.pkg",
			SymbolRange: rangeAt(1, 9, 17),
			FullRange:   rangeAt(1, 1, 18),
		},
		Imports: []Import{{
			Path:        "other.pkg",
			Name:        "Foo",
			SymbolRange: rangeAt(2, 8, 21),
			FullRange:   rangeAt(2, 1, 22),
		}},
		Item: iface,
	}
	return file, method
}

func symbolKinds(file *Aidl, filter SymbolFilter) []SymbolKind {
	var kinds []SymbolKind
	VisitSymbols(file, filter, func(s Symbol) {
		kinds = append(kinds, s.Kind)
	})
	return kinds
}

func TestWalkSymbolsDepths(t *testing.T) {
	file, _ := symbolTestUnit()

	tests := []struct {
		name   string
		filter SymbolFilter
		want   []SymbolKind
	}{
		{
			"items only",
			SymbolsItemsOnly,
			[]SymbolKind{SymbolInterface},
		},
		{
			"items and elements",
			SymbolsItemsAndElements,
			[]SymbolKind{SymbolInterface, SymbolMethod},
		},
		{
			"all",
			SymbolsAll,
			[]SymbolKind{
				SymbolPackage, SymbolImport, SymbolInterface, SymbolMethod,
				SymbolType, // return type
				SymbolArg,
				SymbolType, SymbolType, // array element, then the array
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := symbolKinds(file, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("kind[%d]: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWalkSymbolsVisitsArrayElementFirst(t *testing.T) {
	file, _ := symbolTestUnit()

	var types []string
	VisitSymbols(file, SymbolsAll, func(s Symbol) {
		if s.Kind == SymbolType {
			types = append(types, s.Name())
		}
	})

	want := []string{"void", "Foo", "Array"}
	if len(types) != len(want) {
		t.Fatalf("types: got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types[%d]: got %q, want %q", i, types[i], want[i])
		}
	}
}

func TestSymbolSignatures(t *testing.T) {
	file, method := symbolTestUnit()

	iface := Symbol{Kind: SymbolInterface, Node: file.Item.(*Interface)}
	if got := iface.Signature(); got != "interface ITest" {
		t.Errorf("interface signature: got %q", got)
	}

	m := Symbol{Kind: SymbolMethod, Node: method, Parent: file.Item}
	if got := m.Signature(); got != "void connect(in Array<Foo> values)" {
		t.Errorf("method signature: got %q", got)
	}
	if got := m.Details(); got != "void(in Array<Foo> values)" {
		t.Errorf("method details: got %q", got)
	}
	if got := m.QualifiedName(); got != "ITest.connect" {
		t.Errorf("method qualified name: got %q", got)
	}

	arg := Symbol{Kind: SymbolArg, Node: method.Args[0], Parent: method}
	if got := arg.Signature(); got != "in Array<Foo> values" {
		t.Errorf("arg signature: got %q", got)
	}
	if got := arg.QualifiedName(); got != "connect.values" {
		t.Errorf("arg qualified name: got %q", got)
	}

	imp := Symbol{Kind: SymbolImport, Node: &file.Imports[0]}
	if got := imp.Signature(); got != "import other.pkg.Foo" {
		t.Errorf("import signature: got %q", got)
	}
}

func TestSymbolAt(t *testing.T) {
	file, _ := symbolTestUnit()

	tests := []struct {
		name      string
		line, col int
		wantKind  SymbolKind
		wantName  string
	}{
		{"package name", 1, 10, SymbolPackage, "test.pkg"},
		{"import", 2, 15, SymbolImport, "Foo"},
		{"interface name", 3, 12, SymbolInterface, "ITest"},
		{"method name", 4, 12, SymbolMethod, "connect"},
		{"return type", 4, 6, SymbolType, "void"},
		{"array element type", 4, 22, SymbolType, "Foo"},
		{"arg name", 4, 30, SymbolArg, "values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbol, ok := SymbolAt(file, tt.line, tt.col)
			if !ok {
				t.Fatalf("no symbol at %d:%d", tt.line, tt.col)
			}
			if symbol.Kind != tt.wantKind || symbol.Name() != tt.wantName {
				t.Errorf("got %v %q, want %v %q",
					symbol.Kind, symbol.Name(), tt.wantKind, tt.wantName)
			}
		})
	}

	if _, ok := SymbolAt(file, 10, 1); ok {
		t.Error("position outside the unit must not match")
	}
}

func TestFilterSymbols(t *testing.T) {
	file, _ := symbolTestUnit()

	methods := FilterSymbols(file, SymbolsItemsAndElements, func(s Symbol) bool {
		return s.Kind == SymbolMethod
	})
	if len(methods) != 1 || methods[0].Name() != "connect" {
		t.Errorf("got %d symbols, want the one method", len(methods))
	}
}

func TestFindSymbolShortCircuits(t *testing.T) {
	file, _ := symbolTestUnit()

	visited := 0
	symbol, ok := FindSymbol(file, SymbolsAll, func(s Symbol) bool {
		visited++
		return s.Kind == SymbolInterface
	})
	if !ok || symbol.Name() != "ITest" {
		t.Fatalf("got %q, want the interface", symbol.Name())
	}
	// Package, import, interface; nothing after the match.
	if visited != 3 {
		t.Errorf("visited %d symbols, want 3", visited)
	}
}
