package parser

import (
	"strings"
	"testing"

	"github.com/dhamidi/aidlyzer/aidl"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"interface", []TokenKind{TokenInterface, TokenEOF}},
		{"parcelable X {}", []TokenKind{TokenParcelable, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"0x1F", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"3.14f", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'a'", []TokenKind{TokenCharLiteral, TokenEOF}},
		{"// comment\nenum", []TokenKind{TokenEnum, TokenEOF}},
		{"/* block */ enum", []TokenKind{TokenEnum, TokenEOF}},
		{"/** doc */ enum", []TokenKind{TokenEnum, TokenEOF}},
		{"in out inout oneway const void", []TokenKind{TokenIn, TokenOut, TokenInOut, TokenOneway, TokenConst, TokenVoid, TokenEOF}},
		{"boolean byte char short int long float double", []TokenKind{TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble, TokenEOF}},
		{"for while class", []TokenKind{TokenReserved, TokenReserved, TokenReserved, TokenEOF}},
		{"List<String>", []TokenKind{TokenIdent, TokenLT, TokenIdent, TokenGT, TokenEOF}},
		{"a.b.c", []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenDot, TokenIdent, TokenEOF}},
		{"@Name(Key=1)", []TokenKind{TokenAt, TokenIdent, TokenLParen, TokenIdent, TokenAssign, TokenIntLiteral, TokenRParen, TokenEOF}},
		{"1 << 2", []TokenKind{TokenIntLiteral, TokenOperator, TokenIntLiteral, TokenEOF}},
		{"x[]", []TokenKind{TokenIdent, TokenLBracket, TokenRBracket, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input))
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
					got = append(got, tok.Kind)
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func mustParse(t *testing.T, input string) *aidl.Aidl {
	t.Helper()
	file, diagnostics := Parse(input)
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diagnostics)
	}
	if file == nil {
		t.Fatal("no AST")
	}
	return file
}

func TestParseMinimalUnit(t *testing.T) {
	file := mustParse(t, "package a.b.c; parcelable X {}")
	if file.Package.Name != "a.b.c" {
		t.Errorf("package: got %q, want %q", file.Package.Name, "a.b.c")
	}
	if file.Item.ItemName() != "X" {
		t.Errorf("item name: got %q, want %q", file.Item.ItemName(), "X")
	}
	if file.Item.ItemKind() != aidl.ItemParcelable {
		t.Errorf("item kind: got %v, want parcelable", file.Item.ItemKind())
	}
	if file.Key() != "a.b.c.X" {
		t.Errorf("key: got %q, want %q", file.Key(), "a.b.c.X")
	}
}

func TestParseImportsAndDeclaredParcelables(t *testing.T) {
	file := mustParse(t, `package test.pkg;
import other.pkg.Foo;
parcelable Bar;
parcelable any.pkg.Baz;
interface I {}
`)
	if len(file.Imports) != 1 {
		t.Fatalf("imports: got %d, want 1", len(file.Imports))
	}
	imp := file.Imports[0]
	if imp.Path != "other.pkg" || imp.Name != "Foo" {
		t.Errorf("import: got %q/%q, want other.pkg/Foo", imp.Path, imp.Name)
	}
	if imp.QualifiedName() != "other.pkg.Foo" {
		t.Errorf("qualified name: got %q", imp.QualifiedName())
	}

	if len(file.DeclaredParcelables) != 2 {
		t.Fatalf("declared parcelables: got %d, want 2", len(file.DeclaredParcelables))
	}
	if got := file.DeclaredParcelables[0].QualifiedName(); got != "Bar" {
		t.Errorf("first declaration: got %q, want Bar", got)
	}
	if got := file.DeclaredParcelables[1].QualifiedName(); got != "any.pkg.Baz" {
		t.Errorf("second declaration: got %q, want any.pkg.Baz", got)
	}
}

func TestParseInterface(t *testing.T) {
	file := mustParse(t, `package test.pkg;
interface IService {
    const int VERSION = 3;
    void reset();
    oneway void ping();
    String concat(in String a, in String b);
    int add(int a, int b) = 2;
}
`)
	iface := file.AsInterface()
	if iface == nil {
		t.Fatal("item is not an interface")
	}
	if len(iface.Elements) != 5 {
		t.Fatalf("elements: got %d, want 5", len(iface.Elements))
	}

	c, ok := iface.Elements[0].(*aidl.Const)
	if !ok {
		t.Fatalf("first element is %T, want const", iface.Elements[0])
	}
	if c.Name != "VERSION" || c.Value != "3" {
		t.Errorf("const: got %q = %q", c.Name, c.Value)
	}

	methods := iface.Methods()
	if len(methods) != 4 {
		t.Fatalf("methods: got %d, want 4", len(methods))
	}
	if !methods[1].Oneway {
		t.Error("ping should be oneway")
	}
	if methods[2].ReturnType.Kind != aidl.TypeString {
		t.Errorf("concat return: got %v", methods[2].ReturnType.Kind)
	}
	if got := len(methods[2].Args); got != 2 {
		t.Fatalf("concat args: got %d, want 2", got)
	}
	if methods[2].Args[0].Direction.Kind != aidl.DirectionIn {
		t.Errorf("arg direction: got %v", methods[2].Args[0].Direction.Kind)
	}
	if methods[3].ID == nil || *methods[3].ID != 2 {
		t.Errorf("add id: got %v, want 2", methods[3].ID)
	}
}

func TestParseParcelable(t *testing.T) {
	file := mustParse(t, `package test.pkg;
parcelable Point {
    int x;
    int y = 0;
    const String NAME = "point";
}
`)
	parcelable := file.AsParcelable()
	if parcelable == nil {
		t.Fatal("item is not a parcelable")
	}
	if len(parcelable.Elements) != 3 {
		t.Fatalf("elements: got %d, want 3", len(parcelable.Elements))
	}
	y, ok := parcelable.Elements[1].(*aidl.Field)
	if !ok {
		t.Fatalf("second element is %T, want field", parcelable.Elements[1])
	}
	if y.Name != "y" || y.Value != "0" {
		t.Errorf("field: got %q = %q", y.Name, y.Value)
	}
	c, ok := parcelable.Elements[2].(*aidl.Const)
	if !ok {
		t.Fatalf("third element is %T, want const", parcelable.Elements[2])
	}
	if c.Value != `"point"` {
		t.Errorf("const value: got %q", c.Value)
	}
}

func TestParseEnum(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"simple",
			"package p; enum E { ONE, TWO, THREE }",
			[]string{"ONE", "TWO", "THREE"},
		},
		{
			"trailing comma",
			"package p; enum E { ONE, TWO, }",
			[]string{"ONE", "TWO"},
		},
		{
			"values",
			"package p; enum E { A = 1, B = 2 << 4, C = A | B }",
			[]string{"A", "B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			enum := file.AsEnum()
			if enum == nil {
				t.Fatal("item is not an enum")
			}
			if len(enum.Elements) != len(tt.want) {
				t.Fatalf("elements: got %d, want %d", len(enum.Elements), len(tt.want))
			}
			for i, el := range enum.Elements {
				if el.Name != tt.want[i] {
					t.Errorf("element %d: got %q, want %q", i, el.Name, tt.want[i])
				}
			}
		})
	}
}

func TestParseEnumValues(t *testing.T) {
	file := mustParse(t, "package p; enum E { A = 1, B = 2 << 4 }")
	enum := file.AsEnum()
	if got := enum.Elements[1].Value; got != "2 << 4" {
		t.Errorf("value: got %q, want %q", got, "2 << 4")
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, typ *aidl.Type)
	}{
		{"int", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypePrimitive || typ.Name != "int" {
				t.Errorf("got %v %q", typ.Kind, typ.Name)
			}
		}},
		{"String", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeString {
				t.Errorf("got %v", typ.Kind)
			}
		}},
		{"CharSequence", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeCharSequence {
				t.Errorf("got %v", typ.Kind)
			}
		}},
		{"int[]", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeArray || len(typ.GenericTypes) != 1 {
				t.Fatalf("got %v with %d params", typ.Kind, len(typ.GenericTypes))
			}
			if typ.GenericTypes[0].Kind != aidl.TypePrimitive {
				t.Errorf("element: got %v", typ.GenericTypes[0].Kind)
			}
		}},
		{"int [] []", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeArray || len(typ.GenericTypes) != 1 {
				t.Fatalf("got %v with %d params", typ.Kind, len(typ.GenericTypes))
			}
			if typ.GenericTypes[0].Kind != aidl.TypeArray {
				t.Errorf("element: got %v, want nested array", typ.GenericTypes[0].Kind)
			}
		}},
		{"List", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeList || len(typ.GenericTypes) != 0 {
				t.Errorf("got %v with %d params", typ.Kind, len(typ.GenericTypes))
			}
		}},
		{"List<String>", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeList || len(typ.GenericTypes) != 1 {
				t.Fatalf("got %v with %d params", typ.Kind, len(typ.GenericTypes))
			}
			if typ.Signature() != "List<String>" {
				t.Errorf("signature: got %q", typ.Signature())
			}
		}},
		{"Map<String, Foo>", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeMap || len(typ.GenericTypes) != 2 {
				t.Fatalf("got %v with %d params", typ.Kind, len(typ.GenericTypes))
			}
			if typ.GenericTypes[1].Kind != aidl.TypeUnresolved {
				t.Errorf("value: got %v", typ.GenericTypes[1].Kind)
			}
		}},
		{"other.pkg.Foo", func(t *testing.T, typ *aidl.Type) {
			if typ.Kind != aidl.TypeUnresolved || typ.Name != "other.pkg.Foo" {
				t.Errorf("got %v %q", typ.Kind, typ.Name)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			file := mustParse(t, "package p; parcelable P { "+tt.input+" field; }")
			field := file.AsParcelable().Elements[0].(*aidl.Field)
			tt.check(t, field.Type)
		})
	}
}

func TestParseAnnotations(t *testing.T) {
	file := mustParse(t, `package p;
@UnsupportedAppUsage
@Backing(type="int")
@JavaPassthrough(annotation="@A", mode=2)
enum E { A }
`)
	annotations := file.AsEnum().Annotations
	if len(annotations) != 3 {
		t.Fatalf("annotations: got %d, want 3", len(annotations))
	}
	if annotations[0].Name != "UnsupportedAppUsage" || annotations[0].KeyValues != nil {
		t.Errorf("first: got %+v", annotations[0])
	}
	if got := annotations[1].KeyValues["type"]; got != `"int"` {
		t.Errorf("Backing type: got %q", got)
	}
	if got := annotations[2].KeyValues["mode"]; got != "2" {
		t.Errorf("mode: got %q", got)
	}
}

func TestParseDoc(t *testing.T) {
	file := mustParse(t, `package p;
/**
 * Service interface.
 *
 * Second paragraph with
 * a wrapped line.
 * @param x the input
 */
interface I {
    /** Does a thing. */
    void thing();
    // just a line comment
    void other();
}
`)
	iface := file.AsInterface()
	want := "Service interface.\nSecond paragraph with a wrapped line.\n@param x the input"
	if iface.Doc != want {
		t.Errorf("interface doc:\ngot  %q\nwant %q", iface.Doc, want)
	}
	methods := iface.Methods()
	if methods[0].Doc != "Does a thing." {
		t.Errorf("method doc: got %q", methods[0].Doc)
	}
	if methods[1].Doc != "" {
		t.Errorf("line comment captured as doc: %q", methods[1].Doc)
	}
}

func TestParseTopLevelFailure(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no package", "parcelable X {}"},
		{"bad item keyword", "package p; oops_interface I {}"},
		{"reserved item name", "package p; interface for {}"},
		{"trailing garbage", "package p; enum E { A } garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, diagnostics := Parse(tt.input)
			if file != nil {
				t.Error("expected no AST")
			}
			if len(diagnostics) != 1 {
				t.Fatalf("diagnostics: got %d, want 1", len(diagnostics))
			}
			if diagnostics[0].Kind != aidl.DiagnosticError {
				t.Errorf("kind: got %v, want error", diagnostics[0].Kind)
			}
		})
	}
}

func TestParseUnrecognizedTokenMessage(t *testing.T) {
	_, diagnostics := Parse("package p; oops_interface I {}")
	if len(diagnostics) != 1 {
		t.Fatalf("diagnostics: got %d, want 1", len(diagnostics))
	}
	msg := diagnostics[0].Message
	if !strings.Contains(msg, "Unrecognized token `oops_interface`") {
		t.Errorf("message does not quote the token: %q", msg)
	}
	if !strings.Contains(msg, "Expected one of annotation, `enum`, `import`, `interface` or `parcelable`") {
		t.Errorf("message does not list alternatives: %q", msg)
	}
}

func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMethods int
		wantDiags   int
	}{
		{
			"bad method between good ones",
			"package p; interface I { void a(); void oops(qqq; void b(); }",
			2,
			1,
		},
		{
			"method id must be integer",
			"package p; interface I { void a() = 3.14; void b(); }",
			1,
			1,
		},
		{
			"reserved word as method name",
			"package p; interface I { void for(); void b(); }",
			1,
			1,
		},
		{
			"wrong list arity",
			"package p; interface I { void a(in List<A, B> x); void b(); }",
			1,
			1,
		},
		{
			"bad enum element",
			"package p; enum E { A, 42, B }",
			0,
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, diagnostics := Parse(tt.input)
			if file == nil {
				t.Fatal("recovery should keep the AST")
			}
			if len(diagnostics) != tt.wantDiags {
				t.Fatalf("diagnostics: got %d, want %d: %+v", len(diagnostics), tt.wantDiags, diagnostics)
			}
			if iface := file.AsInterface(); iface != nil {
				if got := len(iface.Methods()); got != tt.wantMethods {
					t.Errorf("methods: got %d, want %d", got, tt.wantMethods)
				}
			}
		})
	}
}

func TestParseRecoveryKeepsEnumElements(t *testing.T) {
	file, diagnostics := Parse("package p; enum E { A, 42, B }")
	if file == nil {
		t.Fatal("recovery should keep the AST")
	}
	if len(diagnostics) != 1 {
		t.Fatalf("diagnostics: got %d, want 1", len(diagnostics))
	}
	enum := file.AsEnum()
	if len(enum.Elements) != 2 {
		t.Fatalf("elements: got %d, want 2", len(enum.Elements))
	}
	if enum.Elements[0].Name != "A" || enum.Elements[1].Name != "B" {
		t.Errorf("elements: got %q, %q", enum.Elements[0].Name, enum.Elements[1].Name)
	}
}

func TestParsePositions(t *testing.T) {
	file := mustParse(t, "package p;\ninterface IFace {\n    void run();\n}\n")
	iface := file.AsInterface()
	r := iface.SymbolRange
	if r.Start.Line != 2 || r.Start.Col != 11 {
		t.Errorf("interface name start: got %d:%d, want 2:11", r.Start.Line, r.Start.Col)
	}
	method := iface.Methods()[0]
	if method.SymbolRange.Start.Line != 3 {
		t.Errorf("method line: got %d, want 3", method.SymbolRange.Start.Line)
	}
	if !method.SymbolRange.Contains(3, 11) {
		t.Error("method symbol range should contain 3:11")
	}
}
