package csharp

import "github.com/ohenrik/dotnet-intel-server/intel"

// Span is a start/end source range, analogous to the teacher's ast.go Span type.
type Span struct {
	Start Pos
	End   Pos
}

// ToLocation converts a Span anchored at path into an intel.Location.
func (s Span) ToLocation(path string) intel.Location {
	return intel.Location{
		FilePath: path,
		Start:    intel.Position{Line: s.Start.Line - 1, Column: s.Start.Column - 1},
		End:      intel.Position{Line: s.End.Line - 1, Column: s.End.Column - 1},
	}
}

// Contains reports whether the 1-based (participle) line/column falls within the span.
func (s Span) Contains(line, col int) bool {
	if line < s.Start.Line || line > s.End.Line {
		return false
	}
	if line == s.Start.Line && col < s.Start.Column {
		return false
	}
	if line == s.End.Line && col > s.End.Column {
		return false
	}
	return true
}

// AttributeUse is a single `[Name(...)]` attribute application.
type AttributeUse struct {
	Name string
	Span Span
}

// UsingDirective is a `using X.Y;` directive.
type UsingDirective struct {
	Qualified string
	Span      Span
}

// Parameter is a method/constructor/indexer parameter.
type Parameter struct {
	Name string
	Type string
	Span Span
}

// BodySpan captures a member body as a raw, unparsed token range. Reference
// resolution over bodies is done by IdentifierOccurrences scanned from these
// tokens (see body.go), not by a full statement/expression AST -- the
// simplification is deliberate and documented in DESIGN.md.
type BodySpan struct {
	Tokens []Token
	Span   Span
}

// MemberDecl is a method, constructor, property, field, or event declaration.
type MemberDecl struct {
	Kind          intel.SymbolKind
	Name          string
	NameSpan      Span
	Modifiers     []string
	Attributes    []AttributeUse
	ReturnType    string // return type for methods, property/field type
	Parameters    []Parameter
	IsConstructor bool
	Body          *BodySpan // nil for abstract/interface members, auto-properties
	Span          Span

	Containing *TypeDecl // back-reference, set by the binder
}

func (m *MemberDecl) accessibility() intel.Accessibility {
	return accessibilityOf(m.Modifiers, false)
}

func (m *MemberDecl) isStatic() bool  { return hasModifier(m.Modifiers, "static") }
func (m *MemberDecl) isAsync() bool   { return hasModifier(m.Modifiers, "async") }
func (m *MemberDecl) isOverride() bool { return hasModifier(m.Modifiers, "override") }
func (m *MemberDecl) isVirtual() bool { return hasModifier(m.Modifiers, "virtual") }

// TypeDecl is a class/interface/struct/enum/delegate declaration.
type TypeDecl struct {
	Kind       intel.SymbolKind
	Name       string
	NameSpan   Span
	Modifiers  []string
	Attributes []AttributeUse
	BaseList   []string // raw base class + interface names, order preserved
	Members    []*MemberDecl
	Nested     []*TypeDecl
	Span       Span

	Namespace string // fully computed by the binder
	Parent    *TypeDecl
}

func (t *TypeDecl) accessibility() intel.Accessibility {
	return accessibilityOf(t.Modifiers, true)
}

func (t *TypeDecl) isStatic() bool { return hasModifier(t.Modifiers, "static") }

func (t *TypeDecl) fullyQualified() string {
	prefix := t.Namespace
	if t.Parent != nil {
		prefix = t.Parent.fullyQualified()
	}
	if prefix == "" {
		return t.Name
	}
	return prefix + "." + t.Name
}

// NamespaceDecl groups type declarations under a namespace name.
type NamespaceDecl struct {
	Qualified string
	Types     []*TypeDecl
	Span      Span
}

// CompilationUnit is the root of a single document's syntax tree.
type CompilationUnit struct {
	Usings     []*UsingDirective
	Namespaces []*NamespaceDecl
	Types      []*TypeDecl // top-level types with no enclosing namespace
}

func hasModifier(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

func accessibilityOf(mods []string, isTypeDecl bool) intel.Accessibility {
	hasProtected, hasInternal, hasPrivate, hasPublic := false, false, false, false
	for _, m := range mods {
		switch m {
		case "public":
			hasPublic = true
		case "private":
			hasPrivate = true
		case "internal":
			hasInternal = true
		case "protected":
			hasProtected = true
		}
	}
	switch {
	case hasProtected && hasInternal:
		return intel.ProtectedInternal
	case hasPrivate && hasProtected:
		return intel.PrivateProtected
	case hasPublic:
		return intel.Public
	case hasProtected:
		return intel.Protected
	case hasInternal:
		return intel.Internal
	case hasPrivate:
		return intel.Private
	default:
		// C# default accessibility: private for members, internal for top-level types.
		if isTypeDecl {
			return intel.Internal
		}
		return intel.Private
	}
}
