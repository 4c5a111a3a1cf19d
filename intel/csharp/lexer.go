// Package csharp is the in-repo stand-in for the "compiler library" contract
// of spec.md §6.1: no Go-native Roslyn binding exists, so this package
// provides its own lexer, parser, AST and a lightweight binder over a subset
// of C# sufficient to drive every operation in spec.md §4 (see DESIGN.md).
package csharp

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// csharpLexer is the token definition shared by every parse in this package,
// built once and reused the way the teacher's dialects/cypher/grammar shares
// a single lexer.Definition across parses.
var csharpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*([^*]|\*[^/])*\*/`},
	{Name: "String", Pattern: `@?"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])'`},
	{Name: "Number", Pattern: `\d+\.\d+[fFdDmM]?|\d+[fFdDmMlLuU]?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{}()\[\];,.:?=+\-*/%&|^!~<>@]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// keywords that act as modifiers on a type or member declaration.
var modifierKeywords = map[string]bool{
	"public": true, "private": true, "internal": true, "protected": true,
	"static": true, "abstract": true, "sealed": true, "partial": true,
	"virtual": true, "override": true, "async": true, "readonly": true,
	"const": true, "extern": true, "new": true, "unsafe": true, "volatile": true,
}

// keywords that introduce a type declaration.
var typeKeywords = map[string]bool{
	"class": true, "interface": true, "struct": true, "enum": true, "delegate": true,
}

// Token is a lightweight alias kept local so callers outside this package
// never need to import participle's lexer package directly.
type Token = lexer.Token

// Pos is a lexer.Position alias used throughout the AST.
type Pos = lexer.Position

var tokenKindNames = func() map[lexer.TokenType]string {
	names := map[lexer.TokenType]string{}
	for name, t := range csharpLexer.Symbols() {
		names[t] = name
	}
	return names
}()

// TokenKindName returns the lexer rule name ("Ident", "Punct", "String", ...)
// a token was produced by, used in the Position Resolver's not-found payload.
func TokenKindName(t Token) string {
	if name, ok := tokenKindNames[t.Type]; ok {
		return name
	}
	return "EOF"
}
