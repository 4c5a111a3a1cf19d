package symbols

import (
	"fmt"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/csharp"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// ResolveResult is the outcome of the Position Resolver (spec §4.1). Exactly
// one of Symbol or NotFound is meaningful; Symbol is nil when every strategy
// failed.
type ResolveResult struct {
	TokenText    string
	TokenKind    string
	NodeKind     string
	Symbol       *intel.Symbol
	FoundVia     string // which strategy produced the result ("offset:0:declared", "offset:0:referenced", "ancestor:2:declared", "offset:-1:declared", ...)
	NotFound     bool
	Attempted    []string
	PositionHint string
}

// Resolver runs the Position Resolver's ordered tolerance strategies (spec
// §4.1) against a solution-wide Index so referenced-symbol lookups can cross
// document boundaries.
type Resolver struct {
	idx *Index
}

// NewResolver builds a Resolver bound to the given index.
func NewResolver(idx *Index) *Resolver {
	return &Resolver{idx: idx}
}

// Resolve maps a (file, 0-based line, 0-based column) position to a symbol,
// following the resolver's six ordered strategies and stopping at first
// success.
func (r *Resolver) Resolve(doc *workspace.Document, line, column int) (*ResolveResult, error) {
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

	res := &ResolveResult{}

	try := func(off int, label string) bool {
		res.Attempted = append(res.Attempted, label)
		tok, node := tokenAndNode(tree, model, off)
		if tok != nil {
			res.TokenText = tok.Value
			res.TokenKind = csharp.TokenKindName(*tok)
		}
		if node == nil {
			return false
		}
		res.NodeKind = node.kind

		// An identifier inside a member body is a finer node than the member
		// itself, so its referenced symbol is tried before the member's own.
		if sym := referencedSymbol(r.idx, node, off); sym != nil {
			res.Symbol = sym
			res.FoundVia = label + ":referenced"
			return true
		}
		if sym := declaredSymbol(node); sym != nil {
			res.Symbol = sym
			res.FoundVia = label + ":declared"
			return true
		}
		return false
	}

	// Step 2-3: token/node at the exact offset.
	if try(offset, "offset:0") {
		return res, nil
	}

	// Step 4: walk up to 5 ancestors.
	if node := nodeAt(tree, model, offset); node != nil {
		anc := node
		for depth := 1; depth <= 5; depth++ {
			anc = anc.parent
			if anc == nil {
				break
			}
			res.Attempted = append(res.Attempted, fmt.Sprintf("ancestor:%d", depth))
			if sym := declaredSymbol(anc); sym != nil {
				res.Symbol = sym
				res.FoundVia = fmt.Sprintf("ancestor:%d:declared", depth)
				return res, nil
			}
			if sym := referencedSymbol(r.idx, anc, offset); sym != nil {
				res.Symbol = sym
				res.FoundVia = fmt.Sprintf("ancestor:%d:referenced", depth)
				return res, nil
			}
		}
	}

	// Step 5: nudge the offset by -1 and +1.
	for _, delta := range []int{-1, 1} {
		off := offset + delta
		if off < 0 || off > len(text) {
			continue
		}
		label := fmt.Sprintf("offset:%+d", delta)
		if try(off, label) {
			return res, nil
		}
	}

	// Step 6: structured not-found.
	res.NotFound = true
	res.PositionHint = positionHint(text, line, column)
	return res, nil
}

// textOffset converts a 0-based (line, column) to a byte offset into text,
// clamping a column past end-of-line to the line's length rather than
// failing outright -- the resolver's own tolerance begins here.
func textOffset(text string, line, column int) (int, error) {
	if line < 0 || column < 0 {
		return 0, fmt.Errorf("negative position")
	}
	lineStart := 0
	curLine := 0
	for curLine < line {
		idx := strings.IndexByte(text[lineStart:], '\n')
		if idx < 0 {
			return 0, fmt.Errorf("line %d out of range", line)
		}
		lineStart += idx + 1
		curLine++
	}
	lineEnd := strings.IndexByte(text[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - lineStart
	}
	if column > lineEnd {
		column = lineEnd
	}
	return lineStart + column, nil
}

func positionHint(text string, line, column int) string {
	off, err := textOffset(text, line, 0)
	if err != nil {
		return "position is beyond end of file"
	}
	lineEnd := strings.IndexByte(text[off:], '\n')
	length := lineEnd
	if length < 0 {
		length = len(text) - off
	}
	if column > length {
		return fmt.Sprintf("try column <= %d on line %d", length, line)
	}
	return "try an adjacent line or column"
}

// astNode is the resolver's lightweight notion of an enclosing syntax node:
// a declaration span (parameter, member, type, namespace) or the whole file.
type astNode struct {
	kind   string
	span   csharp.Span
	decl   *csharp.Declaration
	parent *astNode
}

func declaredSymbol(n *astNode) *intel.Symbol {
	if n == nil || n.decl == nil {
		return nil
	}
	return n.decl.Symbol
}

// referencedSymbol looks for a reference occurrence inside n's member whose
// token offset matches off, then resolves it by simple name against the
// solution-wide index, preferring a match within the same containing type.
func referencedSymbol(idx *Index, n *astNode, off int) *intel.Symbol {
	if n == nil || n.decl == nil || n.decl.Member == nil || n.decl.Member.Body == nil {
		return nil
	}
	for _, occ := range csharp.ScanIdentifiers(n.decl.Member.Body) {
		if occ.Pos.Offset != off {
			continue
		}
		candidates := idx.BySimpleName(occ.Name)
		if len(candidates) == 0 {
			return nil
		}
		owner := n.decl.Member.Containing
		for _, c := range candidates {
			if owner != nil && c.Decl.Member != nil && c.Decl.Member.Containing == owner {
				return c.Decl.Symbol
			}
		}
		return candidates[0].Decl.Symbol
	}
	return nil
}

// tokenAndNode finds the raw token at an offset and the smallest astNode
// enclosing it.
func tokenAndNode(tree *csharp.SyntaxTree, model *csharp.SemanticModel, off int) (*csharp.Token, *astNode) {
	var tok *csharp.Token
	for i := range tree.Tokens {
		t := &tree.Tokens[i]
		if t.Pos.Offset <= off && off < t.Pos.Offset+len(t.Value) {
			tok = t
			break
		}
	}
	return tok, nodeAt(tree, model, off)
}

// declIndex resolves an AST pointer (*TypeDecl, *MemberDecl, *Parameter) back
// to the bound *Declaration the binder produced for it, so astNode.decl
// carries the real Symbol instead of a throwaway wrapper.
type declIndex struct {
	byType   map[*csharp.TypeDecl]*csharp.Declaration
	byMember map[*csharp.MemberDecl]*csharp.Declaration
	byParam  map[*csharp.Parameter]*csharp.Declaration
}

func buildDeclIndex(model *csharp.SemanticModel) declIndex {
	di := declIndex{
		byType:   map[*csharp.TypeDecl]*csharp.Declaration{},
		byMember: map[*csharp.MemberDecl]*csharp.Declaration{},
		byParam:  map[*csharp.Parameter]*csharp.Declaration{},
	}
	if model == nil {
		return di
	}
	for _, d := range model.Declarations {
		switch {
		case d.Type != nil:
			di.byType[d.Type] = d
		case d.Member != nil:
			di.byMember[d.Member] = d
		case d.Param != nil:
			di.byParam[d.Param] = d
		}
	}
	return di
}

// nodeAt finds the smallest declaration span containing offset and links it
// to its ancestor chain via the type/member Containing/Parent pointers.
func nodeAt(tree *csharp.SyntaxTree, model *csharp.SemanticModel, off int) *astNode {
	if tree.Root == nil {
		return nil
	}
	di := buildDeclIndex(model)
	var best *astNode
	var visitType func(t *csharp.TypeDecl)
	visitType = func(t *csharp.TypeDecl) {
		if !spanContains(t.Span, off) {
			return
		}
		node := &astNode{kind: "Type:" + string(t.Kind), span: t.Span, decl: di.byType[t]}
		if best == nil || spanSmaller(node.span, best.span) {
			best = node
		}
		for _, m := range t.Members {
			if spanContains(m.Span, off) {
				mn := &astNode{kind: "Member:" + string(m.Kind), span: m.Span, decl: di.byMember[m]}
				if best == nil || spanSmaller(mn.span, best.span) {
					best = mn
				}
				for i := range m.Parameters {
					p := &m.Parameters[i]
					if spanContains(p.Span, off) {
						pn := &astNode{kind: "Parameter", span: p.Span, decl: di.byParam[p]}
						best = pn
					}
				}
			}
		}
		for _, nested := range t.Nested {
			visitType(nested)
		}
	}

	for _, ns := range tree.Root.Namespaces {
		for _, t := range ns.Types {
			visitType(t)
		}
	}
	for _, t := range tree.Root.Types {
		visitType(t)
	}

	if best == nil {
		return &astNode{kind: "CompilationUnit", span: csharp.Span{}}
	}
	linkParents(tree, best)
	return best
}

func spanContains(s csharp.Span, off int) bool {
	return s.Start.Offset <= off && off <= s.End.Offset
}

func spanSmaller(a, b csharp.Span) bool {
	return (a.End.Offset - a.Start.Offset) < (b.End.Offset - b.Start.Offset)
}

// linkParents fills in the ancestor chain for a leaf node by walking the
// owning member's Containing type and that type's Parent chain, synthesizing
// one astNode per level (member -> type -> enclosing type... -> file).
func linkParents(tree *csharp.SyntaxTree, leaf *astNode) {
	var owner *csharp.TypeDecl
	if leaf.decl != nil && leaf.decl.Member != nil {
		owner = leaf.decl.Member.Containing
	}
	cur := leaf
	for owner != nil {
		parentNode := &astNode{kind: "Type:" + string(owner.Kind), span: owner.Span}
		cur.parent = parentNode
		cur = parentNode
		owner = owner.Parent
	}
	cur.parent = &astNode{kind: "CompilationUnit", span: csharp.Span{}}
}
