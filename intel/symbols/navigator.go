package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/csharp"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// ReferenceHit is one located use of a symbol (spec §4.3).
type ReferenceHit struct {
	FilePath string
	Start    intel.Position
	End      intel.Position
	Excerpt  string
	Kind     string // always "read" (spec §9 open question)
}

// Listing is the shared truncation envelope every C3 listing operation returns.
type Listing[T any] struct {
	TotalCount int
	Shown      int
	Truncated  bool
	Hint       string
	Items      []T
}

func makeListing[T any](all []T, max int, param string) Listing[T] {
	l := Listing[T]{TotalCount: len(all)}
	if max <= 0 || max >= len(all) {
		l.Items = all
		l.Shown = len(all)
		return l
	}
	l.Items = all[:max]
	l.Shown = max
	l.Truncated = true
	l.Hint = fmt.Sprintf("increase %s to see more (total %d)", param, len(all))
	return l
}

// FindReferences enumerates every reference to sym across the solution,
// including the declaration-adjacent occurrences scanned by the binder.
func FindReferences(idx *Index, sym *intel.Symbol, maxResults int) Listing[ReferenceHit] {
	var hits []ReferenceHit
	for doc, entries := range idx.docEntries {
		_ = entries
		model := entryModel(idx, doc)
		if model == nil {
			continue
		}
		text, _ := doc.Text()
		for _, ref := range model.References {
			if ref.Name != sym.Name {
				continue
			}
			if !referenceMatchesSymbol(idx, ref, sym) {
				continue
			}
			pos := ref.LocationOf(doc.Path)
			hits = append(hits, ReferenceHit{
				FilePath: doc.Path,
				Start:    pos.Start,
				End:      pos.End,
				Excerpt:  excerptLine(text, pos.Start.Line),
				Kind:     "read",
			})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].FilePath != hits[j].FilePath {
			return hits[i].FilePath < hits[j].FilePath
		}
		return hits[i].Start.Line < hits[j].Start.Line
	})
	return makeListing(hits, maxResults, "maxResults")
}

// referenceMatchesSymbol narrows a same-named reference occurrence to sym by
// preferring an occurrence whose enclosing type/member lines up; with only a
// name-based binder this is a best-effort filter, not proof of resolution.
func referenceMatchesSymbol(idx *Index, ref *csharp.ReferenceOccurrence, sym *intel.Symbol) bool {
	candidates := idx.BySimpleName(ref.Name)
	if len(candidates) <= 1 {
		return true
	}
	var sameType []*Entry
	for _, c := range candidates {
		if c.Decl.Member != nil && c.Decl.Member.Containing == ref.EnclosingType {
			sameType = append(sameType, c)
		}
	}
	if len(sameType) > 0 {
		candidates = sameType
	}
	for _, c := range candidates {
		if c.Decl.Symbol.ID == sym.ID {
			return true
		}
	}
	return false
}

func entryModel(idx *Index, doc *workspace.Document) *csharp.SemanticModel {
	entries := idx.docEntries[doc]
	if len(entries) == 0 {
		return nil
	}
	return entries[0].Model
}

func excerptLine(text string, line int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line])
}

// WrongKindError is the structured "wrong symbol kind" payload (spec §9):
// the navigator operations return it as their error value, and the rpc
// handlers recognize it with errors.As and format it as a normal tool result
// rather than a JSON-RPC error.
type WrongKindError struct {
	Expected string
	Actual   intel.SymbolKind
}

func (e WrongKindError) Error() string {
	return fmt.Sprintf("expected a %s symbol, got %s", e.Expected, e.Actual)
}

// FindImplementations lists types that list sym's fully-qualified name in
// their base/interface list. Requires sym to be a named type.
func FindImplementations(idx *Index, sym *intel.Symbol, maxResults int) (Listing[ReferenceHit], error) {
	if !sym.Kind.IsNamedType() {
		return Listing[ReferenceHit]{}, WrongKindError{Expected: "named type (Class/Interface/Struct)", Actual: sym.Kind}
	}
	var hits []ReferenceHit
	for _, e := range idx.AllEntries() {
		t := e.Decl.Type
		if t == nil {
			continue
		}
		for _, base := range e.Decl.Symbol.Type.Interfaces {
			if base == sym.Name || base == sym.FullyQualified {
				loc := e.Decl.Symbol.Locations[0]
				hits = append(hits, ReferenceHit{FilePath: loc.FilePath, Start: loc.Start, End: loc.End, Kind: "read"})
				break
			}
		}
	}
	return makeListing(hits, maxResults, "maxResults"), nil
}

// FindCallers enumerates call-site occurrences of a method/property symbol.
func FindCallers(idx *Index, sym *intel.Symbol, maxResults int) (Listing[ReferenceHit], error) {
	if sym.Kind != intel.KindMethod && sym.Kind != intel.KindProperty {
		return Listing[ReferenceHit]{}, WrongKindError{Expected: "Method or Property", Actual: sym.Kind}
	}
	var hits []ReferenceHit
	for doc, entries := range idx.docEntries {
		_ = entries
		model := entryModel(idx, doc)
		if model == nil {
			continue
		}
		text, _ := doc.Text()
		for _, ref := range model.References {
			if ref.Name != sym.Name || ref.Hint != csharp.HintCall {
				continue
			}
			pos := ref.LocationOf(doc.Path)
			hits = append(hits, ReferenceHit{FilePath: doc.Path, Start: pos.Start, End: pos.End, Excerpt: excerptLine(text, pos.Start.Line), Kind: "read"})
		}
	}
	return makeListing(hits, maxResults, "maxResults"), nil
}

// TypeHierarchyResult is the typeHierarchy response envelope (spec §4.3).
type TypeHierarchyResult struct {
	TypeName          string
	BaseTypes         []string
	Interfaces        []string
	TotalDerivedTypes int
	DerivedTypes      []string
	Truncated         bool
}

// TypeHierarchy walks sym's base chain (to, but excluding, object), the
// transitive interface set, and direct derived types only.
func TypeHierarchy(idx *Index, sym *intel.Symbol, maxDerived int) (TypeHierarchyResult, error) {
	if !sym.Kind.IsNamedType() {
		return TypeHierarchyResult{}, WrongKindError{Expected: "named type", Actual: sym.Kind}
	}
	result := TypeHierarchyResult{TypeName: sym.Name}

	cur := sym
	seen := map[string]bool{}
	for cur != nil && cur.Type != nil && cur.Type.BaseType != "" && cur.Type.BaseType != "object" {
		if seen[cur.Type.BaseType] {
			break // defensively stop on a cyclic base chain rather than looping forever
		}
		seen[cur.Type.BaseType] = true
		next := findTypeByNameOrFQN(idx, cur.Type.BaseType)
		if next != nil && next.Kind == intel.KindInterface {
			break // the first base-list entry is an interface: no base class here
		}
		result.BaseTypes = append(result.BaseTypes, cur.Type.BaseType)
		cur = next
	}

	ifaceSeen := map[string]bool{}
	var collectIfaces func(s *intel.Symbol)
	collectIfaces = func(s *intel.Symbol) {
		if s == nil || s.Type == nil {
			return
		}
		for _, iface := range s.Type.Interfaces {
			target := findTypeByNameOrFQN(idx, iface)
			isBaseClass := iface == s.Type.BaseType && (target == nil || target.Kind != intel.KindInterface)
			if ifaceSeen[iface] {
				continue
			}
			ifaceSeen[iface] = true
			if !isBaseClass {
				result.Interfaces = append(result.Interfaces, iface)
			}
			collectIfaces(target) // a base class contributes the interfaces it implements
		}
	}
	collectIfaces(sym)

	var derived []string
	for _, e := range idx.AllEntries() {
		if e.Decl.Symbol.Type == nil {
			continue
		}
		for _, base := range append([]string{e.Decl.Symbol.Type.BaseType}, e.Decl.Symbol.Type.Interfaces...) {
			if base == sym.Name || base == sym.FullyQualified {
				derived = append(derived, e.Decl.Symbol.FullyQualified)
				break
			}
		}
	}
	listing := makeListing(derived, maxDerived, "maxDerived")
	result.TotalDerivedTypes = listing.TotalCount
	result.DerivedTypes = listing.Items
	result.Truncated = listing.Truncated
	return result, nil
}

func findTypeByNameOrFQN(idx *Index, name string) *intel.Symbol {
	if e, ok := idx.byFQN[name]; ok && e.Decl.Type != nil {
		return e.Decl.Symbol
	}
	for _, e := range idx.TypesNamed(name) {
		return e.Decl.Symbol
	}
	return nil
}

// GoToDefinitionResult is either a single Location or, for symbols declared
// in metadata (no source span), a structured "external metadata" payload.
type GoToDefinitionResult struct {
	Location     *intel.Location
	InMetadata   bool
	MetadataName string
}

// GoToDefinition returns sym's declaration location.
func GoToDefinition(sym *intel.Symbol) GoToDefinitionResult {
	if !sym.HasSourceLocation() {
		return GoToDefinitionResult{InMetadata: true, MetadataName: sym.FullyQualified}
	}
	loc := sym.Locations[0]
	return GoToDefinitionResult{Location: &loc}
}

// MethodOverloads returns every same-named ordinary method declared on sym's
// containing type.
func MethodOverloads(idx *Index, sym *intel.Symbol) ([]*intel.Symbol, error) {
	if sym.Kind != intel.KindMethod {
		return nil, WrongKindError{Expected: "Method", Actual: sym.Kind}
	}
	var out []*intel.Symbol
	for _, e := range idx.BySimpleName(sym.Name) {
		if e.Decl.Symbol.Kind == intel.KindMethod && e.Decl.Symbol.ContainingType == sym.ContainingType && !e.Decl.Member.IsConstructor {
			out = append(out, e.Decl.Symbol)
		}
	}
	return out, nil
}

// ContainingMemberResult is the containingMember response (spec §4.3).
type ContainingMemberResult struct {
	Symbol *intel.Symbol
	Span   intel.Location
}

// ContainingMember walks ancestors from (file, line, column) to the first
// enclosing member or type declaration.
func ContainingMember(doc *workspace.Document, line, column int) (*ContainingMemberResult, error) {
	text, err := doc.Text()
	if err != nil {
		return nil, err
	}
	tree, model, _, err := doc.EnsureParsed()
	if err != nil {
		return nil, err
	}
	offset, err := textOffset(text, line, column)
	if err != nil {
		return nil, fmt.Errorf("%w: line=%d column=%d", intel.ErrInvalidPosition, line, column)
	}
	node := nodeAt(tree, model, offset)
	for node != nil {
		if sym := declaredSymbol(node); sym != nil {
			loc := sym.Locations[0]
			return &ContainingMemberResult{Symbol: sym, Span: loc}, nil
		}
		node = node.parent
	}
	return nil, nil
}
