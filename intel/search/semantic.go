package search

import (
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
)

// SemanticFilters is the richer filter set for semanticQuery (spec §4.4).
// Every field is optional; nil pointer fields are not applied.
type SemanticFilters struct {
	Kinds             []intel.SymbolKind
	IsAsync           *bool
	NamespaceFilter   string
	Accessibility     *intel.Accessibility
	IsStatic          *bool
	Type              string // substring match against a type's display string (base type)
	ReturnType        string // substring match against a method's return type
	Attributes        []string
	ParameterIncludes []string
	ParameterExcludes []string
}

// SemanticQuery applies SemanticFilters across every indexed symbol.
func SemanticQuery(idx *symbols.Index, f SemanticFilters) []*intel.Symbol {
	var out []*intel.Symbol
	for _, e := range idx.AllEntries() {
		sym := e.Decl.Symbol
		if isImplicitOrNonSource(sym) {
			continue
		}
		if matchesSemantic(sym, f) {
			out = append(out, sym)
		}
	}
	return out
}

func matchesSemantic(sym *intel.Symbol, f SemanticFilters) bool {
	if len(f.Kinds) > 0 && !kindInList(sym.Kind, f.Kinds) {
		return false
	}
	if f.NamespaceFilter != "" && !namespaceMatches(sym, f.NamespaceFilter) {
		return false
	}
	if f.Accessibility != nil && sym.Accessibility != *f.Accessibility {
		return false
	}
	if f.IsStatic != nil {
		static := (sym.Type != nil && sym.Type.IsStatic) || (sym.Method != nil && sym.Method.IsStatic)
		if static != *f.IsStatic {
			return false
		}
	}
	if f.IsAsync != nil {
		if sym.Method == nil || sym.Method.IsAsync != *f.IsAsync {
			return false
		}
	}
	if f.Type != "" {
		if sym.Type == nil || !strings.Contains(strings.ToLower(sym.Type.BaseType), strings.ToLower(f.Type)) {
			return false
		}
	}
	if f.ReturnType != "" {
		if sym.Method == nil || !strings.Contains(strings.ToLower(sym.Method.ReturnType), strings.ToLower(f.ReturnType)) {
			return false
		}
	}
	if len(f.Attributes) > 0 && !hasAllAttributes(sym, f.Attributes) {
		return false
	}
	if len(f.ParameterIncludes) > 0 && !parametersIncludeAll(sym, f.ParameterIncludes) {
		return false
	}
	if len(f.ParameterExcludes) > 0 && parametersExcludeAny(sym, f.ParameterExcludes) {
		return false
	}
	return true
}

func kindInList(k intel.SymbolKind, list []intel.SymbolKind) bool {
	for _, c := range list {
		if c == k {
			return true
		}
	}
	return false
}

// hasAllAttributes requires every listed attribute name to be present
// (name-equality on short or fully qualified name, case-insensitive).
func hasAllAttributes(sym *intel.Symbol, wanted []string) bool {
	var attrs []string
	if sym.Type != nil {
		attrs = sym.Type.Attributes
	}
	for _, want := range wanted {
		found := false
		for _, have := range attrs {
			if strings.EqualFold(have, want) || strings.EqualFold(shortAttrName(have), shortAttrName(want)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func shortAttrName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "Attribute")
}

func parametersIncludeAll(sym *intel.Symbol, wanted []string) bool {
	if sym.Method == nil {
		return false
	}
	for _, want := range wanted {
		found := false
		for _, p := range sym.Method.Parameters {
			if strings.Contains(strings.ToLower(p.Type), strings.ToLower(want)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func parametersExcludeAny(sym *intel.Symbol, excluded []string) bool {
	if sym.Method == nil {
		return false
	}
	for _, p := range sym.Method.Parameters {
		for _, bad := range excluded {
			if strings.Contains(strings.ToLower(p.Type), strings.ToLower(bad)) {
				return true
			}
		}
	}
	return false
}
