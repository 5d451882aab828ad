// Package parser turns IDL source text into the AST of the aidl package.
//
// The parser is a hand-written recursive-descent parser with local error
// recovery: a malformed element inside an interface, parcelable or enum
// body is dropped, one diagnostic is emitted, and parsing resumes at the
// next terminator. Only a malformed top-level structure (package, import
// or item header) aborts the whole unit.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/aidlyzer/aidl"
)

type Parser struct {
	input       string
	tokens      []Token
	pos         int
	diagnostics []aidl.Diagnostic
	failed      bool
}

// Parse parses one compilation unit. The AST is nil when the top-level
// structure is malformed; diagnostics are returned either way, sorted by
// start line.
func Parse(content string) (*aidl.Aidl, []aidl.Diagnostic) {
	p := &Parser{input: content}
	p.tokenize()
	file := p.parseFile()
	aidl.SortDiagnostics(p.diagnostics)
	if p.failed {
		return nil, p.diagnostics
	}
	return file, p.diagnostics
}

func (p *Parser) tokenize() {
	lexer := NewLexer([]byte(p.input))
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectIdent() *Token {
	return p.expect(TokenIdent)
}

// unexpected builds the diagnostic for an unexpected token, quoting the
// offending token and the grammar alternatives valid at this point.
func (p *Parser) unexpected(expected ...string) aidl.Diagnostic {
	tok := p.peek()
	var msg string
	if tok.Kind == TokenEOF {
		msg = "Unexpected end of file"
	} else {
		msg = fmt.Sprintf("Unrecognized token `%s`", tok.Literal)
	}
	if exp := aidl.ExpectedTokens(expected); exp != "" {
		msg += ". " + exp
	}
	return aidl.Diagnostic{
		Kind:           aidl.DiagnosticError,
		Range:          tok.Range,
		Message:        msg,
		ContextMessage: "syntax error",
	}
}

// fail reports an unrecoverable top-level failure.
func (p *Parser) fail(expected ...string) {
	p.diagnostics = append(p.diagnostics, p.unexpected(expected...))
	p.failed = true
}

// errorAt reports a recoverable failure inside a body.
func (p *Parser) errorAt(expected ...string) {
	p.diagnostics = append(p.diagnostics, p.unexpected(expected...))
}

// recoverTo skips forward until one of the given terminators (or EOF).
// The terminator itself is not consumed.
func (p *Parser) recoverTo(kinds ...TokenKind) {
	for !p.check(TokenEOF) && !p.match(kinds...) {
		p.advance()
	}
}

func (p *Parser) parseFile() *aidl.Aidl {
	file := &aidl.Aidl{}

	if !p.parsePackage(&file.Package) {
		return nil
	}

header:
	for {
		switch {
		case p.check(TokenImport):
			imp, ok := p.parseImport()
			if !ok {
				return nil
			}
			file.Imports = append(file.Imports, imp)
		case p.check(TokenParcelable) && p.isForwardDeclaration():
			decl, ok := p.parseDeclaredParcelable()
			if !ok {
				return nil
			}
			file.DeclaredParcelables = append(file.DeclaredParcelables, decl)
		default:
			break header
		}
	}

	item := p.parseItem()
	if item == nil {
		p.failed = true
		return nil
	}
	file.Item = item

	if !p.check(TokenEOF) {
		p.fail("end of file")
		return nil
	}
	return file
}

func (p *Parser) parsePackage(pkg *aidl.Package) bool {
	start := p.peek()
	if p.expect(TokenPackage) == nil {
		p.fail("`package`")
		return false
	}
	name, nameRange, ok := p.parseQualifiedName()
	if !ok {
		p.failed = true
		return false
	}
	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.fail("`;`")
		return false
	}
	pkg.Name = name
	pkg.SymbolRange = nameRange
	pkg.FullRange = aidl.Range{Start: start.Range.Start, End: semi.Range.End}
	return true
}

// parseQualifiedName parses a dotted identifier sequence. Reserved words
// and keywords are not valid segments.
func (p *Parser) parseQualifiedName() (string, aidl.Range, bool) {
	first := p.expectIdent()
	if first == nil {
		p.errorAt("identifier")
		return "", aidl.Range{}, false
	}
	name := first.Literal
	end := first.Range.End
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		seg := p.advance()
		name += "." + seg.Literal
		end = seg.Range.End
	}
	return name, aidl.Range{Start: first.Range.Start, End: end}, true
}

func (p *Parser) parseImport() (aidl.Import, bool) {
	start := p.advance() // import
	name, nameRange, ok := p.parseQualifiedName()
	if !ok {
		p.failed = true
		return aidl.Import{}, false
	}
	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.fail("`;`")
		return aidl.Import{}, false
	}
	path, last := splitQualifiedName(name)
	return aidl.Import{
		Path:        path,
		Name:        last,
		SymbolRange: nameRange,
		FullRange:   aidl.Range{Start: start.Range.Start, End: semi.Range.End},
	}, true
}

// isForwardDeclaration distinguishes "parcelable a.b.X;" from a parcelable
// item with a body, by scanning past the qualified name.
func (p *Parser) isForwardDeclaration() bool {
	i := 1
	if p.peekN(i).Kind != TokenIdent {
		return false
	}
	i++
	for p.peekN(i).Kind == TokenDot && p.peekN(i+1).Kind == TokenIdent {
		i += 2
	}
	return p.peekN(i).Kind == TokenSemicolon
}

func (p *Parser) parseDeclaredParcelable() (aidl.DeclaredParcelable, bool) {
	start := p.advance() // parcelable
	name, nameRange, ok := p.parseQualifiedName()
	if !ok {
		p.failed = true
		return aidl.DeclaredParcelable{}, false
	}
	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.fail("`;`")
		return aidl.DeclaredParcelable{}, false
	}
	path, last := splitQualifiedName(name)
	return aidl.DeclaredParcelable{
		Path:        path,
		Name:        last,
		SymbolRange: nameRange,
		FullRange:   aidl.Range{Start: start.Range.Start, End: semi.Range.End},
	}, true
}

func splitQualifiedName(name string) (path, last string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func (p *Parser) parseItem() aidl.Item {
	start := p.peek()
	doc := docBefore(p.input, start.Range.Start.Offset)

	annotations, ok := p.parseAnnotations()
	if !ok {
		return nil
	}

	var oneway bool
	var onewayRange aidl.Range
	if tok := p.expect(TokenOneway); tok != nil {
		oneway = true
		onewayRange = tok.Range
	}

	switch p.peek().Kind {
	case TokenInterface:
		return p.parseInterface(start, doc, annotations, oneway, onewayRange)
	case TokenParcelable:
		if oneway {
			p.fail("`interface`")
			return nil
		}
		return p.parseParcelable(start, doc, annotations)
	case TokenEnum:
		if oneway {
			p.fail("`interface`")
			return nil
		}
		return p.parseEnum(start, doc, annotations)
	}

	if len(annotations) > 0 || oneway {
		p.fail("`enum`", "`interface`", "`parcelable`")
	} else {
		p.fail("annotation", "`enum`", "`import`", "`interface`", "`parcelable`")
	}
	return nil
}

func (p *Parser) parseInterface(start Token, doc string, annotations []aidl.Annotation, oneway bool, onewayRange aidl.Range) aidl.Item {
	p.advance() // interface
	name := p.expectIdent()
	if name == nil {
		p.fail("identifier")
		return nil
	}
	if p.expect(TokenLBrace) == nil {
		p.fail("`{`")
		return nil
	}

	iface := &aidl.Interface{
		Oneway:      oneway,
		OnewayRange: onewayRange,
		Name:        name.Literal,
		Annotations: annotations,
		Doc:         doc,
		SymbolRange: name.Range,
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		el := p.parseInterfaceElement()
		if el == nil {
			p.recoverTo(TokenSemicolon, TokenRBrace)
			if p.check(TokenSemicolon) {
				p.advance()
			}
			continue
		}
		iface.Elements = append(iface.Elements, el)
	}

	end := p.expect(TokenRBrace)
	if end == nil {
		p.errorAt("`}`")
		iface.FullRange = aidl.Range{Start: start.Range.Start, End: p.peek().Range.End}
		return iface
	}
	iface.FullRange = aidl.Range{Start: start.Range.Start, End: end.Range.End}
	return iface
}

func (p *Parser) parseInterfaceElement() aidl.InterfaceElement {
	start := p.peek()
	doc := docBefore(p.input, start.Range.Start.Offset)

	annotations, ok := p.parseAnnotations()
	if !ok {
		return nil
	}

	if p.check(TokenConst) {
		return p.parseConst(start, doc, annotations)
	}
	return p.parseMethod(start, doc, annotations)
}

func (p *Parser) parseConst(start Token, doc string, annotations []aidl.Annotation) *aidl.Const {
	p.advance() // const
	constType := p.parseType()
	if constType == nil {
		return nil
	}
	name := p.expectIdent()
	if name == nil {
		p.errorAt("identifier")
		return nil
	}
	if p.expect(TokenAssign) == nil {
		p.errorAt("`=`")
		return nil
	}
	value, ok := p.parseValue(TokenSemicolon)
	if !ok {
		return nil
	}
	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.errorAt("`;`")
		return nil
	}
	return &aidl.Const{
		Name:        name.Literal,
		Type:        constType,
		Value:       value,
		Annotations: annotations,
		Doc:         doc,
		SymbolRange: name.Range,
		FullRange:   aidl.Range{Start: start.Range.Start, End: semi.Range.End},
	}
}

func (p *Parser) parseMethod(start Token, doc string, annotations []aidl.Annotation) aidl.InterfaceElement {
	var oneway bool
	var onewayRange aidl.Range
	if tok := p.expect(TokenOneway); tok != nil {
		oneway = true
		onewayRange = tok.Range
	}

	returnType := p.parseType()
	if returnType == nil {
		return nil
	}
	name := p.expectIdent()
	if name == nil {
		p.errorAt("identifier")
		return nil
	}
	if p.expect(TokenLParen) == nil {
		p.errorAt("`(`")
		return nil
	}

	var args []*aidl.Arg
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		arg := p.parseArg()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if p.expect(TokenComma) == nil {
			break
		}
	}
	if p.expect(TokenRParen) == nil {
		p.errorAt("`,`", "`)`")
		return nil
	}

	var id *int
	var idRange aidl.Range
	if p.expect(TokenAssign) != nil {
		idTok := p.expect(TokenIntLiteral)
		if idTok == nil {
			p.errorAt("integer")
			return nil
		}
		value, err := strconv.Atoi(strings.ReplaceAll(idTok.Literal, "_", ""))
		if err != nil {
			p.errorAt("integer")
			return nil
		}
		id = &value
		idRange = idTok.Range
	}

	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.errorAt("`;`")
		return nil
	}
	return &aidl.Method{
		Oneway:      oneway,
		OnewayRange: onewayRange,
		Name:        name.Literal,
		ReturnType:  returnType,
		Args:        args,
		Annotations: annotations,
		ID:          id,
		IDRange:     idRange,
		Doc:         doc,
		SymbolRange: name.Range,
		FullRange:   aidl.Range{Start: start.Range.Start, End: semi.Range.End},
	}
}

func (p *Parser) parseArg() *aidl.Arg {
	start := p.peek()
	doc := docBefore(p.input, start.Range.Start.Offset)

	annotations, ok := p.parseAnnotations()
	if !ok {
		return nil
	}

	direction := aidl.Direction{}
	switch p.peek().Kind {
	case TokenIn:
		direction = aidl.Direction{Kind: aidl.DirectionIn, Range: p.advance().Range}
	case TokenOut:
		direction = aidl.Direction{Kind: aidl.DirectionOut, Range: p.advance().Range}
	case TokenInOut:
		direction = aidl.Direction{Kind: aidl.DirectionInOut, Range: p.advance().Range}
	}

	argType := p.parseType()
	if argType == nil {
		return nil
	}

	arg := &aidl.Arg{
		Direction:   direction,
		Type:        argType,
		Annotations: annotations,
		Doc:         doc,
		SymbolRange: argType.SymbolRange,
	}
	if name := p.expect(TokenIdent); name != nil {
		arg.Name = name.Literal
		arg.SymbolRange = name.Range
	}
	end := arg.SymbolRange.End
	arg.FullRange = aidl.Range{Start: start.Range.Start, End: end}
	return arg
}

func (p *Parser) parseParcelable(start Token, doc string, annotations []aidl.Annotation) aidl.Item {
	p.advance() // parcelable
	name := p.expectIdent()
	if name == nil {
		p.fail("identifier")
		return nil
	}
	if p.expect(TokenLBrace) == nil {
		p.fail("`{`")
		return nil
	}

	parcelable := &aidl.Parcelable{
		Name:        name.Literal,
		Annotations: annotations,
		Doc:         doc,
		SymbolRange: name.Range,
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		el := p.parseParcelableElement()
		if el == nil {
			p.recoverTo(TokenSemicolon, TokenRBrace)
			if p.check(TokenSemicolon) {
				p.advance()
			}
			continue
		}
		parcelable.Elements = append(parcelable.Elements, el)
	}

	end := p.expect(TokenRBrace)
	if end == nil {
		p.errorAt("`}`")
		parcelable.FullRange = aidl.Range{Start: start.Range.Start, End: p.peek().Range.End}
		return parcelable
	}
	parcelable.FullRange = aidl.Range{Start: start.Range.Start, End: end.Range.End}
	return parcelable
}

func (p *Parser) parseParcelableElement() aidl.ParcelableElement {
	start := p.peek()
	doc := docBefore(p.input, start.Range.Start.Offset)

	annotations, ok := p.parseAnnotations()
	if !ok {
		return nil
	}

	if p.check(TokenConst) {
		return p.parseConst(start, doc, annotations)
	}

	fieldType := p.parseType()
	if fieldType == nil {
		return nil
	}
	name := p.expectIdent()
	if name == nil {
		p.errorAt("identifier")
		return nil
	}

	var value string
	if p.expect(TokenAssign) != nil {
		var ok bool
		value, ok = p.parseValue(TokenSemicolon)
		if !ok {
			return nil
		}
	}

	semi := p.expect(TokenSemicolon)
	if semi == nil {
		p.errorAt("`;`")
		return nil
	}
	return &aidl.Field{
		Name:        name.Literal,
		Type:        fieldType,
		Value:       value,
		Annotations: annotations,
		Doc:         doc,
		SymbolRange: name.Range,
		FullRange:   aidl.Range{Start: start.Range.Start, End: semi.Range.End},
	}
}

func (p *Parser) parseEnum(start Token, doc string, annotations []aidl.Annotation) aidl.Item {
	p.advance() // enum
	name := p.expectIdent()
	if name == nil {
		p.fail("identifier")
		return nil
	}
	if p.expect(TokenLBrace) == nil {
		p.fail("`{`")
		return nil
	}

	enum := &aidl.Enum{
		Name:        name.Literal,
		Annotations: annotations,
		Doc:         doc,
		SymbolRange: name.Range,
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		el := p.parseEnumElement()
		if el == nil {
			p.recoverTo(TokenComma, TokenRBrace)
			if p.check(TokenComma) {
				p.advance()
			}
			continue
		}
		enum.Elements = append(enum.Elements, el)
		if p.expect(TokenComma) == nil {
			break
		}
	}

	end := p.expect(TokenRBrace)
	if end == nil {
		p.errorAt("`}`")
		enum.FullRange = aidl.Range{Start: start.Range.Start, End: p.peek().Range.End}
		return enum
	}
	enum.FullRange = aidl.Range{Start: start.Range.Start, End: end.Range.End}
	return enum
}

func (p *Parser) parseEnumElement() *aidl.EnumElement {
	start := p.peek()
	doc := docBefore(p.input, start.Range.Start.Offset)

	name := p.expectIdent()
	if name == nil {
		p.errorAt("identifier")
		return nil
	}

	var value string
	end := name.Range.End
	if p.expect(TokenAssign) != nil {
		var ok bool
		value, ok = p.parseValue(TokenComma, TokenRBrace)
		if !ok {
			return nil
		}
		end = p.tokens[p.pos-1].Range.End
	}

	return &aidl.EnumElement{
		Name:        name.Literal,
		Value:       value,
		Doc:         doc,
		SymbolRange: name.Range,
		FullRange:   aidl.Range{Start: start.Range.Start, End: end},
	}
}

func (p *Parser) parseAnnotations() ([]aidl.Annotation, bool) {
	var annotations []aidl.Annotation
	for p.check(TokenAt) {
		p.advance()
		name := p.expectIdent()
		if name == nil {
			p.errorAt("identifier")
			return nil, false
		}
		annotation := aidl.Annotation{Name: name.Literal}
		if p.expect(TokenLParen) != nil {
			for !p.check(TokenRParen) && !p.check(TokenEOF) {
				key := p.expectIdent()
				if key == nil {
					p.errorAt("identifier", "`)`")
					return nil, false
				}
				var value string
				if p.expect(TokenAssign) != nil {
					var ok bool
					value, ok = p.parseValue(TokenComma, TokenRParen)
					if !ok {
						return nil, false
					}
				}
				if annotation.KeyValues == nil {
					annotation.KeyValues = make(map[string]string)
				}
				annotation.KeyValues[key.Literal] = value
				if p.expect(TokenComma) == nil {
					break
				}
			}
			if p.expect(TokenRParen) == nil {
				p.errorAt("`,`", "`)`")
				return nil, false
			}
		}
		annotations = append(annotations, annotation)
	}
	return annotations, true
}

// parseValue consumes a constant expression verbatim, up to the first
// unnested terminator, and returns the raw source slice.
func (p *Parser) parseValue(terminators ...TokenKind) (string, bool) {
	start := p.peek()
	if start.Kind == TokenEOF || p.match(terminators...) {
		p.errorAt("value")
		return "", false
	}

	depth := 0
	end := start.Range.End
	for !p.check(TokenEOF) {
		if depth == 0 && p.match(terminators...) {
			break
		}
		tok := p.advance()
		switch tok.Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			depth--
		}
		end = tok.Range.End
	}
	raw := p.input[start.Range.Start.Offset:end.Offset]
	return strings.TrimSpace(raw), true
}

func (p *Parser) parseType() *aidl.Type {
	base := p.parseBaseType()
	if base == nil {
		return nil
	}
	for p.check(TokenLBracket) {
		p.advance()
		rb := p.expect(TokenRBracket)
		if rb == nil {
			p.errorAt("`]`")
			return nil
		}
		base = aidl.NewArrayType(base, aidl.Range{Start: base.SymbolRange.Start, End: rb.Range.End})
	}
	return base
}

func (p *Parser) parseBaseType() *aidl.Type {
	tok := p.peek()
	switch tok.Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble:
		p.advance()
		return &aidl.Type{Name: tok.Literal, Kind: aidl.TypePrimitive, SymbolRange: tok.Range}
	case TokenVoid:
		p.advance()
		return &aidl.Type{Name: tok.Literal, Kind: aidl.TypeVoid, SymbolRange: tok.Range}
	case TokenIdent:
		// A dotted name is always a custom type, whatever its first
		// segment is.
		if p.peekN(1).Kind == TokenDot {
			name, nameRange, ok := p.parseQualifiedName()
			if !ok {
				return nil
			}
			return &aidl.Type{Name: name, Kind: aidl.TypeUnresolved, SymbolRange: nameRange}
		}
		switch tok.Literal {
		case "String":
			p.advance()
			return &aidl.Type{Name: tok.Literal, Kind: aidl.TypeString, SymbolRange: tok.Range}
		case "CharSequence":
			p.advance()
			return &aidl.Type{Name: tok.Literal, Kind: aidl.TypeCharSequence, SymbolRange: tok.Range}
		case "List":
			return p.parseListType()
		case "Map":
			return p.parseMapType()
		}
		p.advance()
		return &aidl.Type{Name: tok.Literal, Kind: aidl.TypeUnresolved, SymbolRange: tok.Range}
	}
	p.errorAt("type")
	return nil
}

func (p *Parser) parseListType() *aidl.Type {
	tok := p.advance() // List
	if p.expect(TokenLT) == nil {
		return aidl.NewListType(nil, tok.Range)
	}
	element := p.parseType()
	if element == nil {
		return nil
	}
	gt := p.expect(TokenGT)
	if gt == nil {
		p.errorAt("`>`")
		return nil
	}
	return aidl.NewListType(element, aidl.Range{Start: tok.Range.Start, End: gt.Range.End})
}

func (p *Parser) parseMapType() *aidl.Type {
	tok := p.advance() // Map
	if p.expect(TokenLT) == nil {
		return aidl.NewMapType(nil, nil, tok.Range)
	}
	key := p.parseType()
	if key == nil {
		return nil
	}
	if p.expect(TokenComma) == nil {
		p.errorAt("`,`")
		return nil
	}
	value := p.parseType()
	if value == nil {
		return nil
	}
	gt := p.expect(TokenGT)
	if gt == nil {
		p.errorAt("`>`")
		return nil
	}
	return aidl.NewMapType(key, value, aidl.Range{Start: tok.Range.Start, End: gt.Range.End})
}
