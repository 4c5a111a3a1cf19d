package csharp

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

// SyntaxTree is the parsed form of one document, analogous to a Roslyn
// SyntaxTree. Root is nil when the text failed to produce even a partial
// compilation unit (practically never, given the recovery strategy below).
type SyntaxTree struct {
	Path   string
	Text   string
	Tokens []Token
	Root   *CompilationUnit
}

// Lex tokenizes source text, discarding whitespace and comments (comments are
// not currently surfaced as trivia -- see DESIGN.md).
func Lex(text string) ([]Token, error) {
	lex, err := csharpLexer.Lex("", strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("lex: %w", err)
		}
		if tok.EOF() {
			tokens = append(tokens, tok)
			break
		}
		if tok.Type == csharpLexer.Symbols()["Whitespace"] || tok.Type == csharpLexer.Symbols()["Comment"] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Parse tokenizes and parses source text into a SyntaxTree. Parse errors are
// collected as diagnostics rather than returned as a Go error (spec §9:
// "exceptions as control flow" is explicitly the pattern to avoid); a
// best-effort partial tree is always produced, mirroring Roslyn's
// error-tolerant parser.
func Parse(path, text string) (*SyntaxTree, []intel.Diagnostic) {
	tokens, err := Lex(text)
	if err != nil {
		return &SyntaxTree{Path: path, Text: text}, []intel.Diagnostic{{
			ID:       "CS9999",
			Severity: intel.SeverityError,
			Message:  err.Error(),
			Location: intel.Location{FilePath: path},
		}}
	}

	p := &parser{tokens: tokens, path: path}
	root := p.parseCompilationUnit()

	return &SyntaxTree{Path: path, Text: text, Tokens: tokens, Root: root}, p.diags
}

type parser struct {
	tokens []Token
	pos    int
	path   string
	diags  []intel.Diagnostic
}

func (p *parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) at(off int) Token {
	i := p.pos + off
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) eof() bool { return p.cur().EOF() }

func (p *parser) advance() Token {
	t := p.cur()
	if !p.eof() {
		p.pos++
	}
	return t
}

func (p *parser) is(value string) bool { return p.cur().Value == value && !p.eof() }

func (p *parser) isIdent() bool {
	return !p.eof() && p.cur().Type == csharpLexer.Symbols()["Ident"]
}

func (p *parser) errorf(pos Pos, format string, args ...any) {
	p.diags = append(p.diags, intel.Diagnostic{
		ID:       "CS1001",
		Severity: intel.SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Location: intel.Location{
			FilePath: p.path,
			Start:    intel.Position{Line: pos.Line - 1, Column: pos.Column - 1},
			End:      intel.Position{Line: pos.Line - 1, Column: pos.Column - 1},
		},
	})
}

func (p *parser) expect(value string) Token {
	if p.is(value) {
		return p.advance()
	}
	p.errorf(p.cur().Pos, "expected %q, found %q", value, p.cur().Value)
	return p.cur()
}

// parseCompilationUnit parses using directives followed by namespace and
// top-level type declarations.
func (p *parser) parseCompilationUnit() *CompilationUnit {
	cu := &CompilationUnit{}
	for p.is("using") {
		cu.Usings = append(cu.Usings, p.parseUsing())
	}
	for !p.eof() {
		attrs := p.parseAttributes()
		mods := p.parseModifiers()
		switch {
		case p.is("namespace"):
			cu.Namespaces = append(cu.Namespaces, p.parseNamespace())
		case typeKeywords[p.cur().Value]:
			cu.Types = append(cu.Types, p.parseTypeDecl(mods, attrs, nil, ""))
		default:
			if p.eof() {
				break
			}
			p.errorf(p.cur().Pos, "unexpected token %q at top level", p.cur().Value)
			p.advance()
		}
	}
	return cu
}

func (p *parser) parseUsing() *UsingDirective {
	start := p.cur().Pos
	p.expect("using")
	var parts []string
	for p.isIdent() {
		parts = append(parts, p.advance().Value)
		if p.is(".") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Pos
	if p.is(";") {
		p.advance()
	}
	return &UsingDirective{Qualified: strings.Join(parts, "."), Span: Span{Start: start, End: end}}
}

func (p *parser) parseAttributes() []AttributeUse {
	var attrs []AttributeUse
	for p.is("[") {
		start := p.cur().Pos
		p.advance()
		for !p.is("]") && !p.eof() {
			if p.isIdent() {
				name := p.advance().Value
				// skip constructor-style arguments
				if p.is("(") {
					p.skipBalanced("(", ")")
				}
				end := p.at(-1).Pos
				attrs = append(attrs, AttributeUse{Name: name, Span: Span{Start: start, End: end}})
			} else {
				p.advance()
			}
			if p.is(",") {
				p.advance()
			}
		}
		if p.is("]") {
			p.advance()
		}
	}
	return attrs
}

func (p *parser) parseModifiers() []string {
	var mods []string
	for p.isIdent() && modifierKeywords[p.cur().Value] {
		mods = append(mods, p.advance().Value)
	}
	return mods
}

func (p *parser) parseNamespace() *NamespaceDecl {
	start := p.cur().Pos
	p.expect("namespace")
	var parts []string
	for p.isIdent() {
		parts = append(parts, p.advance().Value)
		if p.is(".") {
			p.advance()
			continue
		}
		break
	}
	ns := &NamespaceDecl{Qualified: strings.Join(parts, ".")}

	if p.is(";") {
		// file-scoped namespace: everything until EOF belongs to it.
		p.advance()
		for !p.eof() {
			attrs := p.parseAttributes()
			mods := p.parseModifiers()
			if typeKeywords[p.cur().Value] {
				ns.Types = append(ns.Types, p.parseTypeDecl(mods, attrs, nil, ns.Qualified))
			} else {
				break
			}
		}
		ns.Span = Span{Start: start, End: p.at(-1).Pos}
		return ns
	}

	p.expect("{")
	for !p.is("}") && !p.eof() {
		attrs := p.parseAttributes()
		mods := p.parseModifiers()
		if typeKeywords[p.cur().Value] {
			ns.Types = append(ns.Types, p.parseTypeDecl(mods, attrs, nil, ns.Qualified))
		} else {
			p.advance()
		}
	}
	end := p.cur().Pos
	if p.is("}") {
		p.advance()
	}
	ns.Span = Span{Start: start, End: end}
	return ns
}

func (p *parser) parseTypeDecl(mods []string, attrs []AttributeUse, parent *TypeDecl, namespace string) *TypeDecl {
	start := p.cur().Pos
	kindWord := p.advance().Value // class|interface|struct|enum|delegate

	var kind intel.SymbolKind
	switch kindWord {
	case "class":
		kind = intel.KindClass
	case "interface":
		kind = intel.KindInterface
	case "struct":
		kind = intel.KindStruct
	case "enum":
		kind = intel.KindEnum
	case "delegate":
		kind = intel.KindDelegate
	}

	if kind == intel.KindDelegate {
		return p.parseDelegate(mods, attrs, parent, namespace, start)
	}

	nameTok := p.cur()
	name := nameTok.Value
	if p.isIdent() {
		p.advance()
	}
	p.skipGenericParams()

	var bases []string
	if p.is(":") {
		p.advance()
		bases = p.parseBaseList()
	}
	p.skipWhereClauses()

	td := &TypeDecl{
		Kind: kind, Name: name, NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
		Modifiers: mods, Attributes: attrs, BaseList: bases,
		Namespace: namespace, Parent: parent,
	}

	if p.is("{") {
		p.advance()
		for !p.is("}") && !p.eof() {
			mattrs := p.parseAttributes()
			mmods := p.parseModifiers()
			switch {
			case typeKeywords[p.cur().Value]:
				td.Nested = append(td.Nested, p.parseTypeDecl(mmods, mattrs, td, namespace))
			case kind == intel.KindEnum:
				p.parseEnumMember(td)
			default:
				if m := p.parseMember(mmods, mattrs, td); m != nil {
					td.Members = append(td.Members, m)
				} else if !p.eof() {
					p.advance()
				}
			}
		}
		end := p.cur().Pos
		if p.is("}") {
			p.advance()
		}
		td.Span = Span{Start: start, End: end}
	} else {
		if p.is(";") {
			p.advance()
		}
		td.Span = Span{Start: start, End: p.at(-1).Pos}
	}

	return td
}

func (p *parser) parseDelegate(mods []string, attrs []AttributeUse, parent *TypeDecl, namespace string, start Pos) *TypeDecl {
	retType := p.parseTypeName()
	nameTok := p.cur()
	name := nameTok.Value
	if p.isIdent() {
		p.advance()
	}
	p.skipGenericParams()
	var params []Parameter
	if p.is("(") {
		params = p.parseParameterList()
	}
	p.skipWhereClauses()
	if p.is(";") {
		p.advance()
	}
	td := &TypeDecl{
		Kind: intel.KindDelegate, Name: name, NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
		Modifiers: mods, Attributes: attrs, Namespace: namespace, Parent: parent,
		Span: Span{Start: start, End: p.at(-1).Pos},
	}
	td.Members = append(td.Members, &MemberDecl{
		Kind: intel.KindMethod, Name: "Invoke", ReturnType: retType, Parameters: params,
		NameSpan: td.NameSpan, Span: td.Span,
	})
	return td
}

func (p *parser) parseEnumMember(td *TypeDecl) {
	if !p.isIdent() {
		p.advance()
		return
	}
	nameTok := p.advance()
	if p.is("=") {
		p.advance()
		for !p.is(",") && !p.is("}") && !p.eof() {
			p.advance()
		}
	}
	td.Members = append(td.Members, &MemberDecl{
		Kind: intel.KindField, Name: nameTok.Value, NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
		Span: Span{Start: nameTok.Pos, End: nameTok.Pos}, Modifiers: []string{"public", "static"},
	})
	if p.is(",") {
		p.advance()
	}
}

func (p *parser) parseBaseList() []string {
	var names []string
	for {
		names = append(names, p.parseTypeName())
		if p.is(",") {
			p.advance()
			continue
		}
		break
	}
	return names
}

// parseMember dispatches between constructor, method, property, event, and
// field declarations based on lookahead after the declared type/name.
func (p *parser) parseMember(mods []string, attrs []AttributeUse, owner *TypeDecl) *MemberDecl {
	start := p.cur().Pos

	if p.is("event") {
		p.advance()
		typ := p.parseTypeName()
		nameTok := p.cur()
		name := nameTok.Value
		if p.isIdent() {
			p.advance()
		}
		if p.is(";") {
			p.advance()
		} else if p.is("{") {
			p.skipBalanced("{", "}")
		}
		return &MemberDecl{Kind: intel.KindEvent, Name: name, ReturnType: typ, Modifiers: mods,
			Attributes: attrs, NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
			Span: Span{Start: start, End: p.at(-1).Pos}, Containing: owner}
	}

	// Constructor: Ident '(' directly matching the owning type's name.
	if p.isIdent() && owner != nil && p.cur().Value == owner.Name && p.at(1).Value == "(" {
		nameTok := p.advance()
		params := p.parseParameterList()
		if p.is(":") { // base(...) or this(...) initializer
			p.advance()
			p.advance() // base|this
			if p.is("(") {
				p.skipBalanced("(", ")")
			}
		}
		body := p.parseMemberBody()
		return &MemberDecl{Kind: intel.KindMethod, Name: nameTok.Value, IsConstructor: true,
			Parameters: params, Modifiers: mods, Attributes: attrs,
			NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
			Span:     Span{Start: start, End: p.at(-1).Pos}, Body: body, Containing: owner}
	}

	typ := p.parseTypeName()
	if !p.isIdent() {
		// Could not parse a member signature; bail so the caller advances one token.
		return nil
	}
	nameTok := p.advance()

	switch {
	case p.is("("): // method
		p.skipGenericParams()
		params := p.parseParameterList()
		for p.isIdent() && p.cur().Value == "where" { // constraint clauses
			p.skipWhereClause()
		}
		body := p.parseMemberBody()
		return &MemberDecl{Kind: intel.KindMethod, Name: nameTok.Value, ReturnType: typ,
			Parameters: params, Modifiers: mods, Attributes: attrs,
			NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
			Span:     Span{Start: start, End: p.at(-1).Pos}, Body: body, Containing: owner}

	case p.is("{"): // property
		body := p.parseMemberBody()
		if p.is("=") { // auto-property initializer
			p.advance()
			p.skipUntilSemicolon()
		}
		return &MemberDecl{Kind: intel.KindProperty, Name: nameTok.Value, ReturnType: typ,
			Modifiers: mods, Attributes: attrs,
			NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
			Span:     Span{Start: start, End: p.at(-1).Pos}, Body: body, Containing: owner}

	case p.is("=") || p.is(";") || p.is(","): // field (possibly multi-declarator)
		var body *BodySpan
		if p.is("=") {
			bodyStart := p.pos
			p.skipUntilOneOf(";", ",")
			body = &BodySpan{Tokens: p.tokens[bodyStart:p.pos]}
		}
		for p.is(",") {
			p.advance()
			if p.isIdent() {
				p.advance()
			}
			if p.is("=") {
				p.skipUntilOneOf(";", ",")
			}
		}
		if p.is(";") {
			p.advance()
		}
		return &MemberDecl{Kind: intel.KindField, Name: nameTok.Value, ReturnType: typ,
			Modifiers: mods, Attributes: attrs,
			NameSpan: Span{Start: nameTok.Pos, End: nameTok.Pos},
			Span:     Span{Start: start, End: p.at(-1).Pos}, Body: body, Containing: owner}

	default:
		return nil
	}
}

func (p *parser) parseMemberBody() *BodySpan {
	switch {
	case p.is("{"):
		startIdx := p.pos
		startPos := p.cur().Pos
		p.skipBalanced("{", "}")
		endPos := p.at(-1).Pos
		return &BodySpan{Tokens: p.tokens[startIdx:p.pos], Span: Span{Start: startPos, End: endPos}}
	case p.is("=") && p.at(1).Value == ">": // expression-bodied member
		startIdx := p.pos
		p.advance()
		p.advance()
		p.skipUntilSemicolon()
		if p.is(";") {
			p.advance()
		}
		return &BodySpan{Tokens: p.tokens[startIdx:p.pos]}
	case p.is(";"):
		p.advance()
		return nil
	default:
		return nil
	}
}

func (p *parser) parseParameterList() []Parameter {
	p.expect("(")
	var params []Parameter
	for !p.is(")") && !p.eof() {
		before := p.pos
		for p.isIdent() && (p.cur().Value == "this" || p.cur().Value == "ref" || p.cur().Value == "out" || p.cur().Value == "in" || p.cur().Value == "params") {
			p.advance()
		}
		start := p.cur().Pos
		typ := p.parseTypeName()
		nameTok := p.cur()
		name := ""
		if p.isIdent() {
			name = p.advance().Value
		}
		if p.is("=") {
			p.advance()
			p.skipUntilOneOf(",", ")")
		}
		if p.pos == before {
			break // no parameter here (e.g. '}' before ')'): let expect report it
		}
		params = append(params, Parameter{Name: name, Type: typ, Span: Span{Start: start, End: nameTok.Pos}})
		if p.is(",") {
			p.advance()
		}
	}
	p.expect(")")
	return params
}

// parseTypeName consumes a qualified, possibly-generic, possibly-array,
// possibly-nullable type reference and returns its display string.
func (p *parser) parseTypeName() string {
	var b strings.Builder
	if p.is("(") { // tuple type, e.g. (int, string) -- captured raw
		depth := 0
		for {
			if p.is("(") {
				depth++
			} else if p.is(")") {
				depth--
			}
			b.WriteString(p.cur().Value)
			p.advance()
			if depth == 0 || p.eof() {
				break
			}
		}
		return b.String()
	}
	for p.isIdent() {
		b.WriteString(p.advance().Value)
		if p.is(".") {
			b.WriteString(".")
			p.advance()
			continue
		}
		break
	}
	if p.is("<") {
		b.WriteString(p.consumeGeneric())
	}
	for p.is("[") {
		b.WriteString("[")
		p.advance()
		for p.is(",") {
			b.WriteString(",")
			p.advance()
		}
		if p.is("]") {
			b.WriteString("]")
			p.advance()
		}
	}
	if p.is("?") {
		b.WriteString("?")
		p.advance()
	}
	return b.String()
}

// consumeGeneric consumes a balanced '<' ... '>' generic argument list.
func (p *parser) consumeGeneric() string {
	var b strings.Builder
	depth := 0
	for {
		v := p.cur().Value
		if v == "<" {
			depth++
		} else if v == ">" {
			depth--
		}
		b.WriteString(v)
		p.advance()
		if depth == 0 || p.eof() {
			break
		}
	}
	return b.String()
}

func (p *parser) skipGenericParams() {
	if p.is("<") {
		p.consumeGeneric()
	}
}

func (p *parser) skipWhereClauses() {
	for p.isIdent() && p.cur().Value == "where" {
		p.skipWhereClause()
	}
}

func (p *parser) skipWhereClause() {
	p.advance() // where
	for !p.is("{") && !p.is(";") && !p.eof() {
		if p.isIdent() && p.cur().Value == "where" && p.pos > 0 {
			break
		}
		p.advance()
	}
}

func (p *parser) skipBalanced(open, close string) {
	depth := 0
	for {
		v := p.cur().Value
		if v == open {
			depth++
		} else if v == close {
			depth--
		}
		p.advance()
		if depth == 0 || p.eof() {
			return
		}
	}
}

func (p *parser) skipUntilSemicolon() { p.skipUntilOneOf(";") }

func (p *parser) skipUntilOneOf(values ...string) {
	depth := 0
	for !p.eof() {
		v := p.cur().Value
		if depth == 0 {
			for _, want := range values {
				if v == want {
					return
				}
			}
		}
		switch v {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// resolvedPosition converts a 1-based lexer.Position into an intel.Position.
func resolvedPosition(pos lexer.Position) intel.Position {
	return intel.Position{Line: pos.Line - 1, Column: pos.Column - 1}
}
