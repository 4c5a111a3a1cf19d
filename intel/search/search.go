// Package search implements the Name Search component (C4): glob/substring
// symbol search and the richer semantic-query filter set, both built over
// intel/symbols' solution-wide Index.
package search

import (
	"regexp"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
)

// Result is the shared pagination envelope for searchSymbols (spec §4.4).
type Result struct {
	TotalCount int
	Offset     int
	Count      int
	HasMore    bool
	Results    []*intel.Symbol
	NextOffset int
}

// matcher reports whether a symbol's display name satisfies a query.
type matcher func(name string) bool

// newMatcher auto-detects glob vs substring mode from the literal presence
// of '*' or '?' in query (spec §4.4).
func newMatcher(query string) matcher {
	if strings.ContainsAny(query, "*?") {
		pattern := "^" + globToRegex(query) + "$"
		re := regexp.MustCompile("(?i)" + pattern)
		return func(name string) bool { return re.MatchString(name) }
	}
	lower := strings.ToLower(query)
	return func(name string) bool { return strings.Contains(strings.ToLower(name), lower) }
}

// Matches reports whether name satisfies query under the same glob-or-substring
// rule SearchSymbols uses, exported for callers (like the project-structure
// tool) that need a name filter without a full symbol search.
func Matches(name, query string) bool {
	if query == "" {
		return true
	}
	return newMatcher(query)(name)
}

func globToRegex(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// kindMatches compares a case-insensitive kind filter against a symbol's
// type-kind (for named types) or general symbol-kind (for members).
func kindMatches(sym *intel.Symbol, kindFilter string) bool {
	if kindFilter == "" {
		return true
	}
	return strings.EqualFold(string(sym.Kind), kindFilter)
}

func namespaceMatches(sym *intel.Symbol, nsFilter string) bool {
	if nsFilter == "" {
		return true
	}
	re := regexp.MustCompile("(?i)^" + globToRegex(nsFilter) + "$")
	return re.MatchString(sym.Namespace)
}

// SearchSymbols implements searchSymbols: accumulates until
// offset+maxResults+100 matches are seen (to support a correct hasMore
// signal), then slices the page (spec §4.4).
func SearchSymbols(idx *symbols.Index, query, kindFilter, namespaceFilter string, maxResults, offset int) Result {
	nameMatch := newMatcher(query)
	stopAt := offset + maxResults + 100

	var matches []*intel.Symbol
	for _, e := range idx.AllEntries() {
		sym := e.Decl.Symbol
		if isImplicitOrNonSource(sym) {
			continue
		}
		if !nameMatch(sym.Name) || !kindMatches(sym, kindFilter) || !namespaceMatches(sym, namespaceFilter) {
			continue
		}
		matches = append(matches, sym)
		if len(matches) >= stopAt {
			break
		}
	}

	res := Result{TotalCount: len(matches), Offset: offset}
	if offset >= len(matches) {
		res.Results = nil
	} else {
		end := offset + maxResults
		if end > len(matches) {
			end = len(matches)
		}
		res.Results = matches[offset:end]
	}
	res.Count = len(res.Results)
	res.HasMore = offset+res.Count < len(matches)
	res.NextOffset = offset + res.Count
	return res
}

// isImplicitOrNonSource skips symbols with no source location at all; our
// binder never produces compiler-implicit symbols (no default ctor
// synthesis), so this only filters metadata-only declarations (spec §4.4).
func isImplicitOrNonSource(sym *intel.Symbol) bool {
	return !sym.HasSourceLocation()
}
