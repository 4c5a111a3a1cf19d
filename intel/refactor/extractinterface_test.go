package refactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

const extractInterfaceFixtureSource = `namespace Acme
{
    public class Widget
    {
        public void DoWork() { }
        public int Count { get; set; }
        private void Secret() { }
        public static void Factory() { }
    }
}
`

func buildExtractInterfaceFixture(t *testing.T) (*symbols.Index, *intel.Symbol) {
	t.Helper()
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	require.NoError(t, os.WriteFile(csproj, []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.cs"), []byte(extractInterfaceFixtureSource), 0o644))

	sol, err := workspace.Load(csproj)
	require.NoError(t, err)
	idx, err := symbols.Build(sol)
	require.NoError(t, err)

	entries := idx.TypesNamed("Widget")
	require.NotEmpty(t, entries)
	return idx, entries[0].Decl.Symbol
}

func TestExtractInterface_CollectsPublicInstanceMembersOnly(t *testing.T) {
	idx, sym := buildExtractInterfaceFixture(t)

	res, err := ExtractInterface(idx, sym, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "IWidget", res.InterfaceName)
	assert.Equal(t, "IWidget.cs", res.SuggestedFile)
	assert.Contains(t, res.IncludedMembers, "DoWork")
	assert.Contains(t, res.IncludedMembers, "Count")
	assert.NotContains(t, res.IncludedMembers, "Secret", "private members are excluded")
	assert.NotContains(t, res.IncludedMembers, "Factory", "static members are excluded")
	assert.Contains(t, res.Text, "public interface IWidget")
	assert.Contains(t, res.Text, "namespace Acme")
}

func TestExtractInterface_ExplicitNameAndMemberFilter(t *testing.T) {
	idx, sym := buildExtractInterfaceFixture(t)

	res, err := ExtractInterface(idx, sym, "IWorker", []string{"DoWork"})
	require.NoError(t, err)
	assert.Equal(t, "IWorker", res.InterfaceName)
	assert.Equal(t, []string{"DoWork"}, res.IncludedMembers)
}

func TestExtractInterface_RejectsNonClassStructSymbol(t *testing.T) {
	idx, _ := buildExtractInterfaceFixture(t)
	methodEntries := idx.BySimpleName("DoWork")
	require.NotEmpty(t, methodEntries)

	_, err := ExtractInterface(idx, methodEntries[0].Decl.Symbol, "", nil)
	assert.Error(t, err)
}
