package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolKind_IsNamedType(t *testing.T) {
	named := []SymbolKind{KindClass, KindInterface, KindStruct, KindEnum, KindDelegate}
	for _, k := range named {
		assert.Truef(t, k.IsNamedType(), "%s should be a named type", k)
	}
	notNamed := []SymbolKind{KindMethod, KindProperty, KindField, KindEvent, KindParameter}
	for _, k := range notNamed {
		assert.Falsef(t, k.IsNamedType(), "%s should not be a named type", k)
	}
}

func TestSymbol_HasSourceLocation(t *testing.T) {
	t.Run("no locations", func(t *testing.T) {
		sym := &Symbol{}
		assert.False(t, sym.HasSourceLocation())
	})
	t.Run("metadata location", func(t *testing.T) {
		sym := &Symbol{Locations: []Location{{InMetadata: true, FilePath: "System.String"}}}
		assert.False(t, sym.HasSourceLocation())
	})
	t.Run("empty file path", func(t *testing.T) {
		sym := &Symbol{Locations: []Location{{}}}
		assert.False(t, sym.HasSourceLocation())
	})
	t.Run("real source location", func(t *testing.T) {
		sym := &Symbol{Locations: []Location{{FilePath: "Foo.cs"}}}
		assert.True(t, sym.HasSourceLocation())
	})
}

func TestNewEditPlan(t *testing.T) {
	edits := []DocumentEdit{{Path: "Foo.cs", ChangeType: ChangeModified}}
	plan := NewEditPlan(edits, true)
	assert.True(t, plan.Preview)
	assert.Equal(t, edits, plan.Edits)
	assert.Empty(t, plan.FailedPath)
}
