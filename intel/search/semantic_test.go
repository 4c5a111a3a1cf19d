package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

func TestSemanticQuery_KindAndAccessibility(t *testing.T) {
	idx := buildSearchIndex(t)

	internalClass := intel.Internal
	out := SemanticQuery(idx, SemanticFilters{
		Kinds:         []intel.SymbolKind{intel.KindClass},
		Accessibility: &internalClass,
	})
	require.Len(t, out, 1)
	assert.Equal(t, "OrderService", out[0].Name)
}

func TestSemanticQuery_IsAsync(t *testing.T) {
	idx := buildSearchIndex(t)

	yes := true
	out := SemanticQuery(idx, SemanticFilters{Kinds: []intel.SymbolKind{intel.KindMethod}, IsAsync: &yes})
	assert.Empty(t, out, "fixture has no async methods")
}

func TestSemanticQuery_NamespaceFilter(t *testing.T) {
	idx := buildSearchIndex(t)
	out := SemanticQuery(idx, SemanticFilters{NamespaceFilter: "Acme.Services"})
	assert.NotEmpty(t, out)
	for _, s := range out {
		assert.Equal(t, "Acme.Services", s.Namespace)
	}
}

func TestHasAllAttributes_ShortNameMatchesFullyQualified(t *testing.T) {
	sym := &intel.Symbol{Type: &intel.TypeAttrs{Attributes: []string{"System.Obsolete"}}}
	assert.True(t, hasAllAttributes(sym, []string{"ObsoleteAttribute"}))
	assert.True(t, hasAllAttributes(sym, []string{"Obsolete"}))
	assert.False(t, hasAllAttributes(sym, []string{"Serializable"}))
}

func TestParametersIncludeAndExclude(t *testing.T) {
	sym := &intel.Symbol{Method: &intel.MethodAttrs{Parameters: []intel.Parameter{{Name: "id", Type: "int"}, {Name: "name", Type: "string"}}}}
	assert.True(t, parametersIncludeAll(sym, []string{"int"}))
	assert.False(t, parametersIncludeAll(sym, []string{"bool"}))
	assert.True(t, parametersExcludeAny(sym, []string{"string"}))
	assert.False(t, parametersExcludeAny(sym, []string{"decimal"}))
}
