package csharp

import "github.com/ohenrik/dotnet-intel-server/intel"

// RefHint is a shallow syntactic hint about how an identifier was used,
// computed from its immediate neighbor tokens. The binder records it on each
// reference, and find-callers (intel/symbols) keeps only HintCall occurrences,
// without requiring a full expression/type-checked AST -- the scoped
// simplification documented in DESIGN.md.
type RefHint string

// Reference hints.
const (
	HintCall   RefHint = "call"   // identifier immediately followed by '('
	HintNew    RefHint = "new"    // identifier immediately preceded by 'new'
	HintMember RefHint = "member" // identifier immediately preceded by '.'
	HintPlain  RefHint = "plain"  // bare identifier (local, field, parameter, or type use)
)

// IdentifierOccurrence is one identifier token found inside a member body
// (method/property block, expression body, or field initializer), together
// with its position and syntactic hint. Base lists and attribute
// applications are not scanned.
type IdentifierOccurrence struct {
	Name string
	Pos  Pos
	Hint RefHint
}

// ScanIdentifiers walks a BodySpan's raw tokens and emits one
// IdentifierOccurrence per Ident token, classified by its neighbors.
func ScanIdentifiers(body *BodySpan) []IdentifierOccurrence {
	if body == nil {
		return nil
	}
	return scanTokens(body.Tokens)
}

func scanTokens(tokens []Token) []IdentifierOccurrence {
	var out []IdentifierOccurrence
	isIdentTok := func(t Token) bool { return t.Type == csharpLexer.Symbols()["Ident"] }

	for i, t := range tokens {
		if !isIdentTok(t) {
			continue
		}
		hint := HintPlain
		switch {
		case i+1 < len(tokens) && tokens[i+1].Value == "(":
			hint = HintCall
		case i > 0 && tokens[i-1].Value == ".":
			hint = HintMember
		case i > 0 && tokens[i-1].Value == "new":
			hint = HintNew
		}
		out = append(out, IdentifierOccurrence{Name: t.Value, Pos: t.Pos, Hint: hint})
	}
	return out
}

// LocationOf converts an occurrence position to an intel.Location anchored at path.
func (o IdentifierOccurrence) LocationOf(path string) intel.Location {
	pos := resolvedPosition(o.Pos)
	return intel.Location{FilePath: path, Start: pos, End: intel.Position{Line: pos.Line, Column: pos.Column + len(o.Name)}}
}
