package aidl

import "strings"

// SymbolFilter selects the traversal depth of WalkSymbols.
type SymbolFilter int

const (
	// SymbolsItemsOnly yields only the top-level item.
	SymbolsItemsOnly SymbolFilter = iota
	// SymbolsItemsAndElements yields the item and its direct children
	// (e.g. a parcelable and its fields).
	SymbolsItemsAndElements
	// SymbolsAll yields everything, including package, imports and every
	// type reference.
	SymbolsAll
)

type SymbolKind int

const (
	SymbolPackage SymbolKind = iota
	SymbolImport
	SymbolDeclaredParcelable
	SymbolInterface
	SymbolParcelable
	SymbolEnum
	SymbolMethod
	SymbolArg
	SymbolConst
	SymbolField
	SymbolEnumElement
	SymbolType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolPackage:
		return "package"
	case SymbolImport:
		return "import"
	case SymbolDeclaredParcelable:
		return "declared parcelable"
	case SymbolInterface:
		return "interface"
	case SymbolParcelable:
		return "parcelable"
	case SymbolEnum:
		return "enum"
	case SymbolMethod:
		return "method"
	case SymbolArg:
		return "argument"
	case SymbolConst:
		return "const"
	case SymbolField:
		return "field"
	case SymbolEnumElement:
		return "enum element"
	case SymbolType:
		return "type"
	}
	return "unknown"
}

// Symbol is an addressable projection of one AST node, used for position
// lookups and signature rendering. Parent is the owning node where one
// exists (method -> interface, arg -> method, field -> parcelable); it is
// carried alongside the node instead of being a back-pointer in the AST.
type Symbol struct {
	Kind   SymbolKind
	Node   any
	Parent any
}

func (s Symbol) Name() string {
	switch n := s.Node.(type) {
	case *Package:
		return n.Name
	case *Import:
		return n.Name
	case *DeclaredParcelable:
		return n.Name
	case *Interface:
		return n.Name
	case *Parcelable:
		return n.Name
	case *Enum:
		return n.Name
	case *Method:
		return n.Name
	case *Arg:
		return n.Name
	case *Const:
		return n.Name
	case *Field:
		return n.Name
	case *EnumElement:
		return n.Name
	case *Type:
		return n.Name
	}
	return ""
}

// QualifiedName joins the owning parent's name with the symbol's own name
// ("IMyService.connect").
func (s Symbol) QualifiedName() string {
	name := s.Name()
	if name == "" {
		return ""
	}
	parent := parentName(s.Parent)
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func parentName(parent any) string {
	switch p := parent.(type) {
	case *Interface:
		return p.Name
	case *Parcelable:
		return p.Name
	case *Enum:
		return p.Name
	case *Method:
		return p.Name
	}
	return ""
}

// Range is the symbol's primary range, i.e. the name token.
func (s Symbol) Range() Range {
	switch n := s.Node.(type) {
	case *Package:
		return n.SymbolRange
	case *Import:
		return n.SymbolRange
	case *DeclaredParcelable:
		return n.SymbolRange
	case *Interface:
		return n.SymbolRange
	case *Parcelable:
		return n.SymbolRange
	case *Enum:
		return n.SymbolRange
	case *Method:
		return n.SymbolRange
	case *Arg:
		return n.SymbolRange
	case *Const:
		return n.SymbolRange
	case *Field:
		return n.SymbolRange
	case *EnumElement:
		return n.SymbolRange
	case *Type:
		return n.SymbolRange
	}
	return Range{}
}

// FullRange is the enclosing range of the whole declaration, annotations
// included.
func (s Symbol) FullRange() Range {
	switch n := s.Node.(type) {
	case *Package:
		return n.FullRange
	case *Import:
		return n.FullRange
	case *DeclaredParcelable:
		return n.FullRange
	case *Interface:
		return n.FullRange
	case *Parcelable:
		return n.FullRange
	case *Enum:
		return n.FullRange
	case *Method:
		return n.FullRange
	case *Arg:
		return n.FullRange
	case *Const:
		return n.FullRange
	case *Field:
		return n.FullRange
	case *EnumElement:
		return n.FullRange
	case *Type:
		return n.SymbolRange
	}
	return Range{}
}

func (s Symbol) Doc() string {
	switch n := s.Node.(type) {
	case *Interface:
		return n.Doc
	case *Parcelable:
		return n.Doc
	case *Enum:
		return n.Doc
	case *Method:
		return n.Doc
	case *Arg:
		return n.Doc
	case *Const:
		return n.Doc
	case *Field:
		return n.Doc
	case *EnumElement:
		return n.Doc
	}
	return ""
}

func argString(a *Arg) string {
	var b strings.Builder
	if dir := a.Direction.String(); dir != "" {
		b.WriteString(dir)
		b.WriteByte(' ')
	}
	b.WriteString(a.Type.Signature())
	if a.Name != "" {
		b.WriteByte(' ')
		b.WriteString(a.Name)
	}
	return b.String()
}

func argStrings(args []*Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = argString(a)
	}
	return strings.Join(parts, ", ")
}

// Details renders a short description of the symbol without its name,
// suitable for completion or outline entries.
func (s Symbol) Details() string {
	switch n := s.Node.(type) {
	case *Interface:
		return "interface"
	case *Parcelable:
		return "parcelable"
	case *Enum:
		return "enum"
	case *Method:
		return n.ReturnType.Signature() + "(" + argStrings(n.Args) + ")"
	case *Arg:
		return argString(n)
	case *Const:
		return "const " + n.Type.Signature()
	case *Field:
		return n.Type.Signature()
	case *Type:
		if len(n.GenericTypes) == 0 {
			return ""
		}
		parts := make([]string, len(n.GenericTypes))
		for i, g := range n.GenericTypes {
			parts[i] = g.Signature()
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// Signature renders the full declaration header, e.g.
// "String connect(in ConnectRequest request)".
func (s Symbol) Signature() string {
	switch n := s.Node.(type) {
	case *Package:
		return "package " + n.Name
	case *Import:
		return "import " + n.QualifiedName()
	case *DeclaredParcelable:
		return "parcelable " + n.QualifiedName()
	case *Interface:
		return "interface " + n.Name
	case *Parcelable:
		return "parcelable " + n.Name
	case *Enum:
		return "enum " + n.Name
	case *Method:
		return n.ReturnType.Signature() + " " + n.Name + "(" + argStrings(n.Args) + ")"
	case *Arg:
		return argString(n)
	case *Const:
		return "const " + n.Type.Signature() + " " + n.Name
	case *Field:
		return n.Type.Signature() + " " + n.Name
	case *EnumElement:
		return n.Name
	case *Type:
		return n.Signature()
	}
	return ""
}

// WalkSymbols traverses the unit at the given depth and calls fn for each
// symbol. fn returning false stops the walk. A type's generic parameters
// (and an array's element type) are visited before the type itself.
func WalkSymbols(file *Aidl, filter SymbolFilter, fn func(Symbol) bool) bool {
	visitType := func(t *Type, parent any) bool {
		var visit func(t *Type) bool
		visit = func(t *Type) bool {
			for _, g := range t.GenericTypes {
				if !visit(g) {
					return false
				}
			}
			return fn(Symbol{Kind: SymbolType, Node: t, Parent: parent})
		}
		return visit(t)
	}

	if filter == SymbolsAll {
		if !fn(Symbol{Kind: SymbolPackage, Node: &file.Package}) {
			return false
		}
		for i := range file.Imports {
			if !fn(Symbol{Kind: SymbolImport, Node: &file.Imports[i]}) {
				return false
			}
		}
		for i := range file.DeclaredParcelables {
			if !fn(Symbol{Kind: SymbolDeclaredParcelable, Node: &file.DeclaredParcelables[i]}) {
				return false
			}
		}
	}

	switch item := file.Item.(type) {
	case *Interface:
		if !fn(Symbol{Kind: SymbolInterface, Node: item}) {
			return false
		}
		if filter == SymbolsItemsOnly {
			return true
		}
		for _, el := range item.Elements {
			switch el := el.(type) {
			case *Method:
				if !fn(Symbol{Kind: SymbolMethod, Node: el, Parent: item}) {
					return false
				}
				if filter != SymbolsAll {
					continue
				}
				if !visitType(el.ReturnType, el) {
					return false
				}
				for _, arg := range el.Args {
					if !fn(Symbol{Kind: SymbolArg, Node: arg, Parent: el}) {
						return false
					}
					if !visitType(arg.Type, el) {
						return false
					}
				}
			case *Const:
				if !fn(Symbol{Kind: SymbolConst, Node: el, Parent: item}) {
					return false
				}
				if filter == SymbolsAll && !visitType(el.Type, el) {
					return false
				}
			}
		}
	case *Parcelable:
		if !fn(Symbol{Kind: SymbolParcelable, Node: item}) {
			return false
		}
		if filter == SymbolsItemsOnly {
			return true
		}
		for _, el := range item.Elements {
			switch el := el.(type) {
			case *Field:
				if !fn(Symbol{Kind: SymbolField, Node: el, Parent: item}) {
					return false
				}
				if filter == SymbolsAll && !visitType(el.Type, el) {
					return false
				}
			case *Const:
				if !fn(Symbol{Kind: SymbolConst, Node: el, Parent: item}) {
					return false
				}
				if filter == SymbolsAll && !visitType(el.Type, el) {
					return false
				}
			}
		}
	case *Enum:
		if !fn(Symbol{Kind: SymbolEnum, Node: item}) {
			return false
		}
		if filter == SymbolsItemsOnly {
			return true
		}
		for _, el := range item.Elements {
			if !fn(Symbol{Kind: SymbolEnumElement, Node: el, Parent: item}) {
				return false
			}
		}
	}
	return true
}

// VisitSymbols calls fn for every symbol at the given depth.
func VisitSymbols(file *Aidl, filter SymbolFilter, fn func(Symbol)) {
	WalkSymbols(file, filter, func(s Symbol) bool {
		fn(s)
		return true
	})
}

// FilterSymbols collects the symbols for which pred returns true.
func FilterSymbols(file *Aidl, filter SymbolFilter, pred func(Symbol) bool) []Symbol {
	var out []Symbol
	VisitSymbols(file, filter, func(s Symbol) {
		if pred(s) {
			out = append(out, s)
		}
	})
	return out
}

// FindSymbol returns the first symbol for which pred returns true,
// stopping the walk as soon as one is found.
func FindSymbol(file *Aidl, filter SymbolFilter, pred func(Symbol) bool) (Symbol, bool) {
	var found Symbol
	ok := false
	WalkSymbols(file, filter, func(s Symbol) bool {
		if pred(s) {
			found, ok = s, true
			return false
		}
		return true
	})
	return found, ok
}

// SymbolAt returns the symbol whose primary range contains the 1-based
// line/column position.
func SymbolAt(file *Aidl, line, col int) (Symbol, bool) {
	return FindSymbol(file, SymbolsAll, func(s Symbol) bool {
		return s.Range().Contains(line, col)
	})
}
