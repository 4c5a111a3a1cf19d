package csharp

import (
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

// Declaration pairs a declared Symbol with the AST node it was declared on,
// so callers (Position Resolver, Symbol Navigator) can walk back from a
// symbol to its syntax.
type Declaration struct {
	Symbol *intel.Symbol
	Type   *TypeDecl   // set when Symbol.Kind.IsNamedType()
	Member *MemberDecl // set when Symbol.Kind is Method/Property/Field/Event
	Param  *Parameter  // set when Symbol.Kind == Parameter
	Span   Span
}

// ReferenceOccurrence is one identifier use found inside a body, annotated
// with its lexical scope so the Symbol Navigator (intel/symbols) can resolve
// it against the solution-wide declaration index.
type ReferenceOccurrence struct {
	IdentifierOccurrence
	EnclosingType   *TypeDecl
	EnclosingMember *MemberDecl
}

// SemanticModel is the per-document binding from syntax to declarations and
// (unresolved) references, the stand-in for Roslyn's SemanticModel.
type SemanticModel struct {
	Tree         *SyntaxTree
	Declarations []*Declaration
	References   []*ReferenceOccurrence
}

// Bind performs a single-pass walk of a SyntaxTree producing its SemanticModel.
func Bind(tree *SyntaxTree) *SemanticModel {
	sm := &SemanticModel{Tree: tree}
	if tree.Root == nil {
		return sm
	}
	for _, ns := range tree.Root.Namespaces {
		for _, t := range ns.Types {
			bindType(sm, tree.Path, t)
		}
	}
	for _, t := range tree.Root.Types {
		bindType(sm, tree.Path, t)
	}
	return sm
}

func bindType(sm *SemanticModel, path string, t *TypeDecl) {
	sym := &intel.Symbol{
		ID:             path + "#" + t.fullyQualified(),
		Kind:           t.Kind,
		Name:           t.Name,
		FullyQualified: t.fullyQualified(),
		Accessibility:  t.accessibility(),
		Locations:      []intel.Location{t.NameSpan.ToLocation(path)},
		Namespace:      t.Namespace,
	}
	var base string
	var ifaces []string
	if len(t.BaseList) > 0 {
		base = t.BaseList[0]
		ifaces = t.BaseList
	}
	sym.Type = &intel.TypeAttrs{BaseType: base, Interfaces: ifaces, IsStatic: t.isStatic(), Attributes: attrNames(t.Attributes)}

	sm.Declarations = append(sm.Declarations, &Declaration{Symbol: sym, Type: t, Span: t.Span})

	for _, m := range t.Members {
		bindMember(sm, path, t, m)
	}
	for _, nested := range t.Nested {
		bindType(sm, path, nested)
	}
}

func bindMember(sm *SemanticModel, path string, owner *TypeDecl, m *MemberDecl) {
	m.Containing = owner
	sym := &intel.Symbol{
		ID:             path + "#" + owner.fullyQualified() + "." + m.Name + paramSuffix(m.Parameters),
		Kind:           m.Kind,
		Name:           m.Name,
		FullyQualified: owner.fullyQualified() + "." + m.Name,
		Accessibility:  m.accessibility(),
		Locations:      []intel.Location{m.NameSpan.ToLocation(path)},
		ContainingType: owner.fullyQualified(),
		Namespace:      owner.Namespace,
	}
	switch m.Kind {
	case intel.KindMethod:
		sym.Method = &intel.MethodAttrs{
			ReturnType: m.ReturnType, Parameters: toIntelParams(m.Parameters),
			IsAsync: m.isAsync(), IsStatic: m.isStatic(), IsOverride: m.isOverride(),
			IsVirtual: m.isVirtual(), IsConstructor: m.IsConstructor,
		}
	case intel.KindProperty, intel.KindField, intel.KindEvent:
		// Properties/fields/events have no parameters or async/override
		// concerns, but still carry a declared type; MethodAttrs is reused as
		// the one place a display type string lives on a Symbol.
		sym.Method = &intel.MethodAttrs{ReturnType: m.ReturnType, IsStatic: m.isStatic()}
	}
	sm.Declarations = append(sm.Declarations, &Declaration{Symbol: sym, Member: m, Span: m.Span})

	for i := range m.Parameters {
		param := &m.Parameters[i]
		psym := &intel.Symbol{
			ID: path + "#" + sym.FullyQualified + "#param#" + param.Name,
			Kind: intel.KindParameter, Name: param.Name,
			FullyQualified: sym.FullyQualified + "." + param.Name,
			Accessibility:  intel.Private,
			Locations:      []intel.Location{param.Span.ToLocation(path)},
			ContainingType: owner.fullyQualified(),
		}
		sm.Declarations = append(sm.Declarations, &Declaration{Symbol: psym, Param: param, Span: param.Span})
	}

	for _, occ := range ScanIdentifiers(m.Body) {
		sm.References = append(sm.References, &ReferenceOccurrence{
			IdentifierOccurrence: occ, EnclosingType: owner, EnclosingMember: m,
		})
	}
}

func toIntelParams(ps []Parameter) []intel.Parameter {
	out := make([]intel.Parameter, len(ps))
	for i, p := range ps {
		out[i] = intel.Parameter{Name: p.Name, Type: p.Type}
	}
	return out
}

func paramSuffix(ps []Parameter) string {
	if len(ps) == 0 {
		return "()"
	}
	types := make([]string, len(ps))
	for i, p := range ps {
		types[i] = p.Type
	}
	return "(" + strings.Join(types, ",") + ")"
}

func attrNames(attrs []AttributeUse) []string {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.Name
	}
	return out
}
