package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

const fooSource = `using System;

namespace Acme.Widgets
{
    public class Foo
    {
        public void Bar()
        {
            Console.WriteLine("hi");
        }
    }
}
`

func TestParse_ClassWithMethod(t *testing.T) {
	tree, diags := Parse("Foo.cs", fooSource)
	require.Empty(t, diags)
	require.NotNil(t, tree.Root)
	require.Len(t, tree.Root.Usings, 1)
	assert.Equal(t, "System", tree.Root.Usings[0].Qualified)

	require.Len(t, tree.Root.Namespaces, 1)
	ns := tree.Root.Namespaces[0]
	assert.Equal(t, "Acme.Widgets", ns.Qualified)
	require.Len(t, ns.Types, 1)

	foo := ns.Types[0]
	assert.Equal(t, "Foo", foo.Name)
	assert.Equal(t, intel.KindClass, foo.Kind)
	assert.Contains(t, foo.Modifiers, "public")
	require.Len(t, foo.Members, 1)
	assert.Equal(t, "Bar", foo.Members[0].Name)
	assert.Equal(t, intel.KindMethod, foo.Members[0].Kind)
	assert.NotNil(t, foo.Members[0].Body)
}

func TestBind_ProducesDeclarationsAndReferences(t *testing.T) {
	tree, diags := Parse("Foo.cs", fooSource)
	require.Empty(t, diags)

	sm := Bind(tree)
	require.Len(t, sm.Declarations, 2) // Foo, Bar (no parameters)

	var names []string
	for _, d := range sm.Declarations {
		names = append(names, d.Symbol.Name)
	}
	assert.ElementsMatch(t, []string{"Foo", "Bar"}, names)

	require.NotEmpty(t, sm.References)
	assert.Equal(t, "Console", sm.References[0].Name)
	assert.Equal(t, HintCall, sm.References[1].Hint) // WriteLine followed by '(' (takes precedence over the preceding '.')
}

func TestParseTypeDecl_Interface_DefaultsInternalAccessibility(t *testing.T) {
	src := `interface IFoo { void Bar(); }`
	tree, diags := Parse("IFoo.cs", src)
	require.Empty(t, diags)
	require.Len(t, tree.Root.Types, 1)
	assert.Equal(t, intel.Internal, tree.Root.Types[0].accessibility())
}

func TestFormat_IsIdempotent(t *testing.T) {
	tree, _ := Parse("Foo.cs", fooSource)
	once := Format(tree.Tokens)
	twiceTokens, _ := Lex(once)
	twice := Format(twiceTokens)
	assert.Equal(t, once, twice)
}
