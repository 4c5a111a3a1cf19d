// Package deadcode implements the Dead-Code Analyzer (C7): declarations with
// no non-self references, with framework-aware exclusions (spec §4.7).
package deadcode

import (
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
)

// Options controls the scan (spec §4.7).
type Options struct {
	ProjectName    string // empty = all projects
	IncludePrivate bool
	IncludeInternal bool
	MaxResults     int // Scan uses 50 when this is zero or negative
}

// Finding is one flagged declaration.
type Finding struct {
	Symbol         *intel.Symbol
	ReferenceCount int
}

// Result is the find_unused_code response envelope.
type Result struct {
	Findings  []Finding
	ByKind    map[intel.SymbolKind]int
	Truncated bool
}

const defaultMaxResults = 50

// Scan finds candidate types and members with a reference count <= 1 (the
// declaration itself counting as one), excluding framework-marked types and
// compiler-generated/constructor/override/virtual members (spec §4.7).
func Scan(idx *symbols.Index, opts Options) Result {
	max := opts.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}

	var findings []Finding
	byKind := map[intel.SymbolKind]int{}

	for _, e := range idx.AllEntries() {
		sym := e.Decl.Symbol
		if opts.ProjectName != "" && e.Project.Name != opts.ProjectName {
			continue
		}
		if !sym.HasSourceLocation() {
			continue
		}
		if !accessibilityInScope(sym.Accessibility, opts) {
			continue
		}

		switch {
		case sym.Kind.IsNamedType():
			if IsFrameworkType(sym) {
				continue
			}
			count := referenceCount(idx, sym)
			if count > 1 {
				continue
			}
			if hasHeavilyReferencedMember(idx, sym) {
				continue // static-utility-class escape hatch (spec §4.7 step 2)
			}
			findings = append(findings, Finding{Symbol: sym, ReferenceCount: count})
			byKind[sym.Kind]++

		case sym.Kind == intel.KindMethod, sym.Kind == intel.KindProperty, sym.Kind == intel.KindField:
			if sym.Kind == intel.KindMethod && isExcludedMethod(e) {
				continue
			}
			count := referenceCount(idx, sym)
			if count > 1 {
				continue
			}
			findings = append(findings, Finding{Symbol: sym, ReferenceCount: count})
			byKind[sym.Kind]++
		}
	}

	truncated := false
	if len(findings) > max {
		findings = findings[:max]
		truncated = true
	}
	return Result{Findings: findings, ByKind: byKind, Truncated: truncated}
}

func accessibilityInScope(a intel.Accessibility, opts Options) bool {
	switch a {
	case intel.Private:
		return opts.IncludePrivate
	case intel.Internal:
		return opts.IncludeInternal
	default:
		return true
	}
}

func isExcludedMethod(e *symbols.Entry) bool {
	attrs := e.Decl.Symbol.Method
	if attrs == nil {
		return true
	}
	return attrs.IsConstructor || attrs.IsOverride || attrs.IsVirtual || isOperatorName(e.Decl.Symbol.Name)
}

func isOperatorName(name string) bool {
	return strings.HasPrefix(name, "op_")
}

// referenceCount counts references to sym across the solution, plus 1 for
// the declaration itself (spec §4.7 step 2/3).
func referenceCount(idx *symbols.Index, sym *intel.Symbol) int {
	listing := symbols.FindReferences(idx, sym, 0)
	return listing.TotalCount + 1
}

// hasHeavilyReferencedMember reports whether any public/internal member of a
// type has more than one reference, the static-utility-class exception.
func hasHeavilyReferencedMember(idx *symbols.Index, typeSym *intel.Symbol) bool {
	for _, e := range idx.AllEntries() {
		m := e.Decl.Symbol
		if m.ContainingType != typeSym.FullyQualified {
			continue
		}
		if m.Accessibility != intel.Public && m.Accessibility != intel.Internal {
			continue
		}
		if referenceCount(idx, m) > 1 {
			return true
		}
	}
	return false
}
