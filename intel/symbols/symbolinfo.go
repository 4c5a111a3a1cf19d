package symbols

import (
	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// SymbolInfoResult is the get_symbol_info response envelope: either a
// resolved symbol or the Position Resolver's structured not-found payload
// (spec §4.1).
type SymbolInfoResult struct {
	Symbol   *intel.Symbol
	FoundVia string

	NotFound     bool
	TokenText    string
	TokenKind    string
	NodeKind     string
	Attempted    []string
	PositionHint string
}

// ResolveSymbolInfo runs the Position Resolver at (line, column) in doc and
// reshapes its result into the get_symbol_info response shape.
func ResolveSymbolInfo(r *Resolver, doc *workspace.Document, line, column int) (SymbolInfoResult, error) {
	res, err := r.Resolve(doc, line, column)
	if err != nil {
		return SymbolInfoResult{}, err
	}
	return SymbolInfoResult{
		Symbol:       res.Symbol,
		FoundVia:     res.FoundVia,
		NotFound:     res.NotFound,
		TokenText:    res.TokenText,
		TokenKind:    res.TokenKind,
		NodeKind:     res.NodeKind,
		Attempted:    res.Attempted,
		PositionHint: res.PositionHint,
	}, nil
}
