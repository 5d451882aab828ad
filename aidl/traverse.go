package aidl

// WalkTypes visits every type reference of the unit. Generic parameters
// (and an array's element type) are visited before the enclosing type.
func WalkTypes(file *Aidl, fn func(*Type)) {
	var visit func(t *Type)
	visit = func(t *Type) {
		for _, g := range t.GenericTypes {
			visit(g)
		}
		fn(t)
	}

	switch item := file.Item.(type) {
	case *Interface:
		for _, el := range item.Elements {
			switch el := el.(type) {
			case *Method:
				visit(el.ReturnType)
				for _, arg := range el.Args {
					visit(arg.Type)
				}
			case *Const:
				visit(el.Type)
			}
		}
	case *Parcelable:
		for _, el := range item.Elements {
			switch el := el.(type) {
			case *Field:
				visit(el.Type)
			case *Const:
				visit(el.Type)
			}
		}
	case *Enum:
	}
}

// WalkMethods visits every method of the unit's item, in declaration
// order. Units whose item is not an interface have no methods.
func WalkMethods(file *Aidl, fn func(*Method)) {
	item, ok := file.Item.(*Interface)
	if !ok {
		return
	}
	for _, el := range item.Elements {
		if m, ok := el.(*Method); ok {
			fn(m)
		}
	}
}

// WalkArgs visits every method argument together with its method.
func WalkArgs(file *Aidl, fn func(*Method, *Arg)) {
	WalkMethods(file, func(m *Method) {
		for _, arg := range m.Args {
			fn(m, arg)
		}
	})
}
