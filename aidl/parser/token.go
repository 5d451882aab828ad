package parser

import "github.com/dhamidi/aidlyzer/aidl"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral

	// Keywords
	TokenPackage
	TokenImport
	TokenInterface
	TokenParcelable
	TokenEnum
	TokenOneway
	TokenConst
	TokenVoid
	TokenIn
	TokenOut
	TokenInOut

	// Primitive type keywords
	TokenBoolean
	TokenByte
	TokenChar
	TokenShort
	TokenInt
	TokenLong
	TokenFloat
	TokenDouble

	// Reserved words of the host language, never valid as identifiers
	TokenReserved

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenAt
	TokenAssign
	TokenLT
	TokenGT

	// TokenOperator covers the remaining operator characters, which only
	// occur inside constant expressions and are kept verbatim.
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "end of file",
	TokenError:         "error",
	TokenWhitespace:    "whitespace",
	TokenComment:       "comment",
	TokenLineComment:   "comment",
	TokenIdent:         "identifier",
	TokenIntLiteral:    "integer",
	TokenFloatLiteral:  "float",
	TokenCharLiteral:   "char",
	TokenStringLiteral: "string",
	TokenPackage:       "`package`",
	TokenImport:        "`import`",
	TokenInterface:     "`interface`",
	TokenParcelable:    "`parcelable`",
	TokenEnum:          "`enum`",
	TokenOneway:        "`oneway`",
	TokenConst:         "`const`",
	TokenVoid:          "`void`",
	TokenIn:            "`in`",
	TokenOut:           "`out`",
	TokenInOut:         "`inout`",
	TokenBoolean:       "`boolean`",
	TokenByte:          "`byte`",
	TokenChar:          "`char`",
	TokenShort:         "`short`",
	TokenInt:           "`int`",
	TokenLong:          "`long`",
	TokenFloat:         "`float`",
	TokenDouble:        "`double`",
	TokenReserved:      "reserved word",
	TokenLParen:        "`(`",
	TokenRParen:        "`)`",
	TokenLBrace:        "`{`",
	TokenRBrace:        "`}`",
	TokenLBracket:      "`[`",
	TokenRBracket:      "`]`",
	TokenSemicolon:     "`;`",
	TokenComma:         "`,`",
	TokenDot:           "`.`",
	TokenAt:            "`@`",
	TokenAssign:        "`=`",
	TokenLT:            "`<`",
	TokenGT:            "`>`",
	TokenOperator:      "operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Token struct {
	Kind    TokenKind
	Range   aidl.Range
	Literal string
}

var keywords = map[string]TokenKind{
	"package":    TokenPackage,
	"import":     TokenImport,
	"interface":  TokenInterface,
	"parcelable": TokenParcelable,
	"enum":       TokenEnum,
	"oneway":     TokenOneway,
	"const":      TokenConst,
	"void":       TokenVoid,
	"in":         TokenIn,
	"out":        TokenOut,
	"inout":      TokenInOut,
	"boolean":    TokenBoolean,
	"byte":       TokenByte,
	"char":       TokenChar,
	"short":      TokenShort,
	"int":        TokenInt,
	"long":       TokenLong,
	"float":      TokenFloat,
	"double":     TokenDouble,
}

// reserved holds host-language keywords with no meaning in the IDL. They
// are rejected wherever a name is expected.
var reserved = map[string]struct{}{
	"abstract": {}, "assert": {}, "break": {}, "case": {}, "catch": {},
	"class": {}, "continue": {}, "default": {}, "do": {}, "else": {},
	"extends": {}, "final": {}, "finally": {}, "for": {}, "goto": {},
	"if": {}, "implements": {}, "instanceof": {}, "native": {}, "new": {},
	"private": {}, "protected": {}, "public": {}, "return": {}, "static": {},
	"strictfp": {}, "super": {}, "switch": {}, "synchronized": {}, "this": {},
	"throw": {}, "throws": {}, "transient": {}, "try": {}, "volatile": {},
	"while": {},
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	if _, ok := reserved[ident]; ok {
		return TokenReserved
	}
	return TokenIdent
}
