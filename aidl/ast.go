package aidl

import "strings"

// Aidl is one parsed compilation unit: a package declaration, any number
// of imports and forward-declared parcelables, and exactly one item.
type Aidl struct {
	Package             Package              `json:"package"`
	Imports             []Import             `json:"imports,omitempty"`
	DeclaredParcelables []DeclaredParcelable `json:"declared_parcelables,omitempty"`
	Item                Item                 `json:"item"`
}

// Key returns the qualified item key ("package.ItemName") which uniquely
// identifies the unit within a project.
func (a *Aidl) Key() string {
	return a.Package.Name + "." + a.Item.ItemName()
}

func (a *Aidl) AsInterface() *Interface {
	i, _ := a.Item.(*Interface)
	return i
}

func (a *Aidl) AsParcelable() *Parcelable {
	p, _ := a.Item.(*Parcelable)
	return p
}

func (a *Aidl) AsEnum() *Enum {
	e, _ := a.Item.(*Enum)
	return e
}

type Package struct {
	Name        string `json:"name"`
	SymbolRange Range  `json:"symbol_range"`
	FullRange   Range  `json:"full_range"`
}

type Import struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	SymbolRange Range  `json:"symbol_range"`
	FullRange   Range  `json:"full_range"`
}

func (i Import) QualifiedName() string {
	if i.Path == "" {
		return i.Name
	}
	return i.Path + "." + i.Name
}

// DeclaredParcelable is a forward declaration ("parcelable X;"): a name
// without a body, usable as a parcelable by the rest of the unit.
type DeclaredParcelable struct {
	Path        string `json:"path,omitempty"`
	Name        string `json:"name"`
	SymbolRange Range  `json:"symbol_range"`
	FullRange   Range  `json:"full_range"`
}

func (d DeclaredParcelable) QualifiedName() string {
	if d.Path == "" {
		return d.Name
	}
	return d.Path + "." + d.Name
}

type ItemKind int

const (
	ItemInterface ItemKind = iota
	ItemParcelable
	ItemEnum

	// ItemForwardDeclaredParcelable marks a type resolved against a
	// forward declaration in the same unit.
	ItemForwardDeclaredParcelable

	// ItemUnknownImport marks a type resolved against an import whose
	// target is not part of the project. The import counts as used but
	// no kind-specific rule applies to the type.
	ItemUnknownImport
)

func (k ItemKind) String() string {
	switch k {
	case ItemInterface:
		return "interface"
	case ItemParcelable:
		return "parcelable"
	case ItemEnum:
		return "enum"
	case ItemForwardDeclaredParcelable:
		return "declared parcelable"
	case ItemUnknownImport:
		return "unknown import"
	}
	return "unknown"
}

// Item is the single top-level declaration of a unit. The set of
// implementations is closed: *Interface, *Parcelable, *Enum.
type Item interface {
	ItemName() string
	ItemKind() ItemKind
	ItemSymbolRange() Range
	ItemFullRange() Range

	item()
}

type Interface struct {
	Oneway      bool               `json:"oneway,omitempty"`
	OnewayRange Range              `json:"-"`
	Name        string             `json:"name"`
	Elements    []InterfaceElement `json:"elements,omitempty"`
	Annotations []Annotation       `json:"annotations,omitempty"`
	Doc         string             `json:"doc,omitempty"`
	SymbolRange Range              `json:"symbol_range"`
	FullRange   Range              `json:"full_range"`
}

func (i *Interface) ItemName() string       { return i.Name }
func (i *Interface) ItemKind() ItemKind     { return ItemInterface }
func (i *Interface) ItemSymbolRange() Range { return i.SymbolRange }
func (i *Interface) ItemFullRange() Range   { return i.FullRange }
func (i *Interface) item()                  {}

// Methods returns the interface's methods, skipping consts.
func (i *Interface) Methods() []*Method {
	var methods []*Method
	for _, el := range i.Elements {
		if m, ok := el.(*Method); ok {
			methods = append(methods, m)
		}
	}
	return methods
}

type Parcelable struct {
	Name        string              `json:"name"`
	Elements    []ParcelableElement `json:"elements,omitempty"`
	Annotations []Annotation        `json:"annotations,omitempty"`
	Doc         string              `json:"doc,omitempty"`
	SymbolRange Range               `json:"symbol_range"`
	FullRange   Range               `json:"full_range"`
}

func (p *Parcelable) ItemName() string       { return p.Name }
func (p *Parcelable) ItemKind() ItemKind     { return ItemParcelable }
func (p *Parcelable) ItemSymbolRange() Range { return p.SymbolRange }
func (p *Parcelable) ItemFullRange() Range   { return p.FullRange }
func (p *Parcelable) item()                  {}

type Enum struct {
	Name        string         `json:"name"`
	Elements    []*EnumElement `json:"elements"`
	Annotations []Annotation   `json:"annotations,omitempty"`
	Doc         string         `json:"doc,omitempty"`
	SymbolRange Range          `json:"symbol_range"`
	FullRange   Range          `json:"full_range"`
}

func (e *Enum) ItemName() string       { return e.Name }
func (e *Enum) ItemKind() ItemKind     { return ItemEnum }
func (e *Enum) ItemSymbolRange() Range { return e.SymbolRange }
func (e *Enum) ItemFullRange() Range   { return e.FullRange }
func (e *Enum) item()                  {}

// InterfaceElement is either *Const or *Method.
type InterfaceElement interface {
	ElementName() string
	ElementSymbolRange() Range

	interfaceElement()
}

// ParcelableElement is either *Const or *Field.
type ParcelableElement interface {
	ElementName() string
	ElementSymbolRange() Range

	parcelableElement()
}

type Const struct {
	Name        string       `json:"name"`
	Type        *Type        `json:"type"`
	Value       string       `json:"value"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Doc         string       `json:"doc,omitempty"`
	SymbolRange Range        `json:"symbol_range"`
	FullRange   Range        `json:"full_range"`
}

func (c *Const) ElementName() string       { return c.Name }
func (c *Const) ElementSymbolRange() Range { return c.SymbolRange }
func (c *Const) interfaceElement()         {}
func (c *Const) parcelableElement()        {}

type Method struct {
	Oneway      bool         `json:"oneway,omitempty"`
	OnewayRange Range        `json:"-"`
	Name        string       `json:"name"`
	ReturnType  *Type        `json:"return_type"`
	Args        []*Arg       `json:"args,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`

	// ID is the explicit transact code ("method() = 3;"), if any.
	ID          *int   `json:"id,omitempty"`
	IDRange     Range  `json:"-"`
	Doc         string `json:"doc,omitempty"`
	SymbolRange Range  `json:"symbol_range"`
	FullRange   Range  `json:"full_range"`
}

func (m *Method) ElementName() string       { return m.Name }
func (m *Method) ElementSymbolRange() Range { return m.SymbolRange }
func (m *Method) interfaceElement()         {}

type DirectionKind int

const (
	DirectionUnspecified DirectionKind = iota
	DirectionIn
	DirectionOut
	DirectionInOut
)

// Direction carries the source range of the direction keyword, which is
// zero for DirectionUnspecified.
type Direction struct {
	Kind  DirectionKind `json:"kind"`
	Range Range         `json:"range,omitempty"`
}

func (d Direction) String() string {
	switch d.Kind {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionInOut:
		return "inout"
	}
	return ""
}

type Arg struct {
	Direction   Direction    `json:"direction,omitempty"`
	Name        string       `json:"name,omitempty"`
	Type        *Type        `json:"type"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Doc         string       `json:"doc,omitempty"`
	SymbolRange Range        `json:"symbol_range"`
	FullRange   Range        `json:"full_range"`
}

type Field struct {
	Name        string       `json:"name"`
	Type        *Type        `json:"type"`
	Value       string       `json:"value,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Doc         string       `json:"doc,omitempty"`
	SymbolRange Range        `json:"symbol_range"`
	FullRange   Range        `json:"full_range"`
}

func (f *Field) ElementName() string       { return f.Name }
func (f *Field) ElementSymbolRange() Range { return f.SymbolRange }
func (f *Field) parcelableElement()        {}

type EnumElement struct {
	Name        string `json:"name"`
	Value       string `json:"value,omitempty"`
	Doc         string `json:"doc,omitempty"`
	SymbolRange Range  `json:"symbol_range"`
	FullRange   Range  `json:"full_range"`
}

// Annotation is "@Name" with an optional parameter list. A key mapped to
// an empty string was given without a value ("@Name(Key)").
type Annotation struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"key_values,omitempty"`
}

type TypeKind int

const (
	TypeUnresolved TypeKind = iota
	TypePrimitive
	TypeVoid
	TypeString
	TypeCharSequence
	TypeArray
	TypeList
	TypeMap
	TypeAndroidBuiltin
	TypeResolvedItem
)

func (k TypeKind) String() string {
	switch k {
	case TypeUnresolved:
		return "unresolved"
	case TypePrimitive:
		return "primitive"
	case TypeVoid:
		return "void"
	case TypeString:
		return "String"
	case TypeCharSequence:
		return "CharSequence"
	case TypeArray:
		return "array"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeAndroidBuiltin:
		return "builtin"
	case TypeResolvedItem:
		return "item"
	}
	return "unknown"
}

// Type is one type reference. Custom names start out as TypeUnresolved and
// are rewritten in place exactly once by the resolution pass, which fills
// in Builtin or Definition+ItemKind.
type Type struct {
	Name string   `json:"name"`
	Kind TypeKind `json:"kind"`

	// Builtin is set when Kind == TypeAndroidBuiltin.
	Builtin BuiltinKind `json:"builtin,omitempty"`

	// Definition is the qualified key of the defining unit when
	// Kind == TypeResolvedItem.
	Definition string   `json:"definition,omitempty"`
	ItemKind   ItemKind `json:"item_kind,omitempty"`

	GenericTypes []*Type `json:"generic_types,omitempty"`
	SymbolRange  Range   `json:"symbol_range"`
}

// Signature renders the type recursively, e.g. "Map<String, List<Foo>>".
func (t *Type) Signature() string {
	if len(t.GenericTypes) == 0 {
		return t.Name
	}
	params := make([]string, len(t.GenericTypes))
	for i, g := range t.GenericTypes {
		params[i] = g.Signature()
	}
	return t.Name + "<" + strings.Join(params, ", ") + ">"
}

func NewArrayType(element *Type, symbolRange Range) *Type {
	return &Type{
		Name:         "Array",
		Kind:         TypeArray,
		GenericTypes: []*Type{element},
		SymbolRange:  symbolRange,
	}
}

func NewListType(element *Type, symbolRange Range) *Type {
	t := &Type{Name: "List", Kind: TypeList, SymbolRange: symbolRange}
	if element != nil {
		t.GenericTypes = []*Type{element}
	}
	return t
}

func NewMapType(key, value *Type, symbolRange Range) *Type {
	t := &Type{Name: "Map", Kind: TypeMap, SymbolRange: symbolRange}
	if key != nil && value != nil {
		t.GenericTypes = []*Type{key, value}
	}
	return t
}
