package aidl

import "fmt"

// Validate runs the semantic rule passes over a resolved unit. The passes
// are independent: each one only reads the resolved type graph and the raw
// import and declaration lists, never another pass's output.
//
// Oneway interfaces have their methods forced to oneway in place before
// the method checks run, so forced methods get the void-return check too.
func Validate(file *Aidl, table map[string]ItemKind, resolved map[string]struct{}) []Diagnostic {
	var diagnostics []Diagnostic

	checkImports(file.Imports, resolved, table, &diagnostics)
	checkDeclaredParcelables(file, resolved, table, &diagnostics)
	checkTypes(file, &diagnostics)
	if iface := file.AsInterface(); iface != nil && iface.Oneway {
		propagateOneway(iface, &diagnostics)
	}
	checkMethods(file, &diagnostics)

	return diagnostics
}

func checkImports(imports []Import, resolved map[string]struct{}, table map[string]ItemKind, diagnostics *[]Diagnostic) {
	first := make(map[string]*Import, len(imports))
	for i := range imports {
		imp := &imports[i]
		qualified := imp.QualifiedName()

		if previous, ok := first[qualified]; ok {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          imp.SymbolRange,
				Message:        fmt.Sprintf("Duplicated import `%s`", qualified),
				ContextMessage: "duplicated import",
				RelatedInfos: []RelatedInfo{{
					Range:   previous.SymbolRange,
					Message: "previous location",
				}},
			})
			continue
		}
		first[qualified] = imp

		if _, defined := table[qualified]; !defined && !IsBuiltinQualifiedName(qualified) {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticWarning,
				Range:          imp.SymbolRange,
				Message:        fmt.Sprintf("Unresolved import `%s`", imp.Name),
				ContextMessage: "unresolved import",
			})
		} else if _, used := resolved[qualified]; !used {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticWarning,
				Range:          imp.SymbolRange,
				Message:        fmt.Sprintf("Unused import `%s`", imp.Name),
				ContextMessage: "unused import",
			})
		}
	}
}

func checkDeclaredParcelables(file *Aidl, resolved map[string]struct{}, table map[string]ItemKind, diagnostics *[]Diagnostic) {
	importsByName := make(map[string]*Import, len(file.Imports))
	for i := range file.Imports {
		importsByName[file.Imports[i].Name] = &file.Imports[i]
	}

	first := make(map[string]*DeclaredParcelable, len(file.DeclaredParcelables))
	for i := range file.DeclaredParcelables {
		decl := &file.DeclaredParcelables[i]
		qualified := decl.QualifiedName()

		if previous, ok := first[qualified]; ok {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          decl.SymbolRange,
				Message:        fmt.Sprintf("Duplicated declaration `%s`", qualified),
				ContextMessage: "duplicated declaration",
				RelatedInfos: []RelatedInfo{{
					Range:   previous.SymbolRange,
					Message: "previous location",
				}},
			})
			continue
		}
		first[qualified] = decl

		if imp, ok := importsByName[decl.Name]; ok {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          decl.SymbolRange,
				Message:        fmt.Sprintf("Declared parcelable `%s` conflicts with import `%s`", decl.Name, imp.QualifiedName()),
				ContextMessage: "conflicting declaration",
				RelatedInfos: []RelatedInfo{{
					Range:   imp.SymbolRange,
					Message: "import location",
				}},
			})
			continue
		}

		// Bare declarations are never project items, only qualified ones
		// get the unresolved check.
		if decl.Path != "" {
			if _, defined := table[qualified]; !defined {
				*diagnostics = append(*diagnostics, Diagnostic{
					Kind:           DiagnosticWarning,
					Range:          decl.SymbolRange,
					Message:        fmt.Sprintf("Unresolved declared parcelable `%s`", decl.Name),
					ContextMessage: "unresolved declared parcelable",
				})
			}
		}

		if _, used := resolved[qualified]; !used {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticWarning,
				Range:          decl.SymbolRange,
				Message:        fmt.Sprintf("Unused declared parcelable `%s`", decl.Name),
				ContextMessage: "unused declared parcelable",
			})
		} else {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticWarning,
				Range:          decl.SymbolRange,
				Message:        fmt.Sprintf("Declared parcelable `%s` is not recommended", decl.Name),
				ContextMessage: "declared parcelable",
				Hint:           "consider importing a parcelable defined in its own file",
			})
		}
	}
}

func checkTypes(file *Aidl, diagnostics *[]Diagnostic) {
	WalkTypes(file, func(t *Type) {
		switch t.Kind {
		case TypeArray:
			checkArrayElement(t.GenericTypes[0], diagnostics)
		case TypeList:
			if len(t.GenericTypes) == 0 {
				*diagnostics = append(*diagnostics, Diagnostic{
					Kind:           DiagnosticWarning,
					Range:          t.SymbolRange,
					Message:        "Declaring a non-generic list is not recommended",
					ContextMessage: "non-generic list",
					Hint:           "consider adding a parameter (e.g.: List<String>)",
				})
				return
			}
			checkListElement(t.GenericTypes[0], diagnostics)
		case TypeMap:
			if len(t.GenericTypes) == 0 {
				*diagnostics = append(*diagnostics, Diagnostic{
					Kind:           DiagnosticWarning,
					Range:          t.SymbolRange,
					Message:        "Declaring a non-generic map is not recommended",
					ContextMessage: "non-generic map",
					Hint:           "consider adding key and value parameters (e.g.: Map<String, String>)",
				})
				return
			}
			checkMapKey(t.GenericTypes[0], diagnostics)
			checkMapValue(t.GenericTypes[1], diagnostics)
		}
	})
}

func checkArrayElement(t *Type, diagnostics *[]Diagnostic) {
	switch t.Kind {
	case TypeArray:
		*diagnostics = append(*diagnostics, Diagnostic{
			Kind:           DiagnosticError,
			Range:          t.SymbolRange,
			Message:        "Unsupported multi-dimensional array",
			ContextMessage: "unsupported array",
			Hint:           "must be one-dimensional",
		})
		return
	case TypeUnresolved, TypePrimitive, TypeString:
		return
	case TypeAndroidBuiltin:
		switch t.Builtin {
		case BuiltinIBinder, BuiltinFileDescriptor, BuiltinParcelFileDescriptor:
			return
		}
	case TypeResolvedItem:
		switch t.ItemKind {
		case ItemParcelable, ItemEnum, ItemForwardDeclaredParcelable, ItemUnknownImport:
			return
		}
	}

	*diagnostics = append(*diagnostics, Diagnostic{
		Kind:           DiagnosticError,
		Range:          t.SymbolRange,
		Message:        fmt.Sprintf("Invalid array element `%s`", t.Name),
		ContextMessage: "invalid element",
		Hint:           "must be a primitive, an enum, a String, a parcelable or a IBinder",
	})
}

func checkListElement(t *Type, diagnostics *[]Diagnostic) {
	switch t.Kind {
	case TypeUnresolved, TypeString:
		return
	case TypeAndroidBuiltin:
		switch t.Builtin {
		case BuiltinIBinder, BuiltinParcelFileDescriptor:
			return
		}
	case TypeResolvedItem:
		switch t.ItemKind {
		case ItemParcelable, ItemForwardDeclaredParcelable, ItemUnknownImport:
			return
		}
	}

	*diagnostics = append(*diagnostics, Diagnostic{
		Kind:           DiagnosticError,
		Range:          t.SymbolRange,
		Message:        fmt.Sprintf("Invalid list element `%s`", t.Name),
		ContextMessage: "invalid element",
		Hint:           "must be a parcelable, a String, a IBinder or a ParcelFileDescriptor",
	})
}

func checkMapKey(t *Type, diagnostics *[]Diagnostic) {
	if t.Kind == TypeString && t.Name == "String" {
		return
	}
	if t.Kind == TypeUnresolved {
		return
	}

	*diagnostics = append(*diagnostics, Diagnostic{
		Kind:           DiagnosticError,
		Range:          t.SymbolRange,
		Message:        fmt.Sprintf("Invalid map key `%s`", t.Name),
		ContextMessage: "invalid map key",
		Hint:           "must be a String",
	})
}

func checkMapValue(t *Type, diagnostics *[]Diagnostic) {
	switch t.Kind {
	case TypePrimitive, TypeVoid:
	case TypeResolvedItem:
		if t.ItemKind != ItemEnum {
			return
		}
	default:
		return
	}

	*diagnostics = append(*diagnostics, Diagnostic{
		Kind:           DiagnosticError,
		Range:          t.SymbolRange,
		Message:        fmt.Sprintf("Invalid map value `%s`", t.Name),
		ContextMessage: "invalid map value",
		Hint:           "cannot be a primitive, void or an enum",
	})
}

func propagateOneway(iface *Interface, diagnostics *[]Diagnostic) {
	for _, el := range iface.Elements {
		method, ok := el.(*Method)
		if !ok {
			continue
		}
		if method.Oneway {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticWarning,
				Range:          method.OnewayRange,
				Message:        fmt.Sprintf("Method `%s` of oneway interface does not need to be marked as oneway", method.Name),
				ContextMessage: "redundant oneway",
				RelatedInfos: []RelatedInfo{{
					Range:   iface.SymbolRange,
					Message: "oneway interface",
				}},
			})
		} else {
			method.Oneway = true
		}
	}
}

func checkMethods(file *Aidl, diagnostics *[]Diagnostic) {
	methodsByName := make(map[string]*Method)
	methodsByID := make(map[int]*Method)
	var firstWithID, firstWithoutID *Method

	WalkMethods(file, func(method *Method) {
		checkMethod(method, diagnostics)

		if previous, ok := methodsByName[method.Name]; ok {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          method.SymbolRange,
				Message:        fmt.Sprintf("Duplicated method name `%s`", method.Name),
				ContextMessage: "duplicated method name",
				RelatedInfos: []RelatedInfo{{
					Range:   previous.SymbolRange,
					Message: "previous location",
				}},
			})
			return
		}
		methodsByName[method.Name] = method

		mixedNowWithID := firstWithID == nil && firstWithoutID != nil && method.ID != nil
		mixedNowWithoutID := firstWithoutID == nil && firstWithID != nil && method.ID == nil
		if mixedNowWithID || mixedNowWithoutID {
			var previous RelatedInfo
			if mixedNowWithID {
				previous = RelatedInfo{
					Range:   firstWithoutID.SymbolRange,
					Message: "method without id",
				}
			} else {
				previous = RelatedInfo{
					Range:   firstWithID.IDRange,
					Message: "method with id",
				}
			}
			idRange := method.IDRange
			if method.ID == nil {
				idRange = method.SymbolRange
			}
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:         DiagnosticError,
				Range:        idRange,
				Message:      "Mixed usage of method ids",
				Hint:         "Either all methods should have an id or none of them",
				RelatedInfos: []RelatedInfo{previous},
			})
		}

		if method.ID != nil {
			if firstWithID == nil {
				firstWithID = method
			}
			if previous, ok := methodsByID[*method.ID]; ok {
				*diagnostics = append(*diagnostics, Diagnostic{
					Kind:           DiagnosticError,
					Range:          method.IDRange,
					Message:        "Duplicated method id",
					ContextMessage: "duplicated method id",
					RelatedInfos: []RelatedInfo{{
						Range:   previous.IDRange,
						Message: "previous method",
					}},
				})
			} else {
				methodsByID[*method.ID] = method
			}
		} else if firstWithoutID == nil {
			firstWithoutID = method
		}
	})
}

func checkMethod(method *Method, diagnostics *[]Diagnostic) {
	if method.Oneway && method.ReturnType.Kind != TypeVoid {
		*diagnostics = append(*diagnostics, Diagnostic{
			Kind:           DiagnosticError,
			Range:          method.ReturnType.SymbolRange,
			Message:        fmt.Sprintf("Invalid return type of async method `%s`", method.ReturnType.Name),
			ContextMessage: "must be void",
			Hint:           "return type of async methods must be `void`",
		})
	}

	for _, arg := range method.Args {
		checkArgDirection(method, arg, diagnostics)
	}
}

type directionRequirement int

const (
	noRequirement directionRequirement = iota
	directionRequired
	onlyInOrUnspecified
	onlyInOrInOut
	notAnArgument
)

func requirementForArg(t *Type) directionRequirement {
	switch t.Kind {
	case TypePrimitive, TypeVoid, TypeString, TypeCharSequence:
		return onlyInOrUnspecified
	case TypeArray, TypeList, TypeMap:
		return directionRequired
	case TypeAndroidBuiltin:
		switch t.Builtin {
		case BuiltinIBinder, BuiltinFileDescriptor:
			return onlyInOrUnspecified
		case BuiltinParcelFileDescriptor:
			return onlyInOrInOut
		case BuiltinParcelableHolder:
			return notAnArgument
		}
	case TypeResolvedItem:
		switch t.ItemKind {
		case ItemInterface, ItemEnum:
			return onlyInOrUnspecified
		case ItemParcelable, ItemForwardDeclaredParcelable, ItemUnknownImport:
			return directionRequired
		}
	}
	return noRequirement
}

func checkArgDirection(method *Method, arg *Arg, diagnostics *[]Diagnostic) {
	// Errors point at the direction keyword, or collapse to the type
	// start when no direction was given.
	diagRange := arg.Direction.Range
	if arg.Direction.Kind == DirectionUnspecified {
		diagRange = Range{Start: arg.Type.SymbolRange.Start, End: arg.Type.SymbolRange.Start}
	}

	switch requirementForArg(arg.Type) {
	case directionRequired:
		if arg.Direction.Kind == DirectionUnspecified {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          diagRange,
				Message:        fmt.Sprintf("Missing direction for `%s`", arg.Type.Name),
				ContextMessage: "missing direction",
				Hint:           "direction is required for objects",
			})
		}
	case onlyInOrUnspecified:
		if arg.Direction.Kind != DirectionUnspecified && arg.Direction.Kind != DirectionIn {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          diagRange,
				Message:        fmt.Sprintf("Invalid direction for `%s`", arg.Type.Name),
				ContextMessage: "invalid direction",
				Hint:           "can only be `in` or omitted",
			})
		}
	case onlyInOrInOut:
		if arg.Direction.Kind != DirectionIn && arg.Direction.Kind != DirectionInOut {
			*diagnostics = append(*diagnostics, Diagnostic{
				Kind:           DiagnosticError,
				Range:          diagRange,
				Message:        fmt.Sprintf("Invalid direction for `%s`", arg.Type.Name),
				ContextMessage: "invalid direction",
				Hint:           "must be `in` or `inout`",
			})
		}
	case notAnArgument:
		*diagnostics = append(*diagnostics, Diagnostic{
			Kind:           DiagnosticError,
			Range:          arg.Type.SymbolRange,
			Message:        fmt.Sprintf("Invalid argument type `%s`", arg.Type.Name),
			ContextMessage: "invalid argument",
			Hint:           "ParcelableHolder cannot be an argument",
		})
	}

	if method.Oneway && (arg.Direction.Kind == DirectionOut || arg.Direction.Kind == DirectionInOut) {
		*diagnostics = append(*diagnostics, Diagnostic{
			Kind:           DiagnosticError,
			Range:          diagRange,
			Message:        fmt.Sprintf("Invalid direction for `%s`", arg.Type.Name),
			ContextMessage: "invalid direction",
			Hint:           "arguments of oneway methods can be neither `out` nor `inout`",
		})
	}
}
