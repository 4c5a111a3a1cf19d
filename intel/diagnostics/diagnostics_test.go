package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

const goodSource = "namespace Acme { public class Ok { public void M() { } } }\n"
const brokenSource = "namespace Acme { public class Broken { public void M( }"

func loadTwoFileSolution(t *testing.T) *workspace.Solution {
	t.Helper()
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	require.NoError(t, os.WriteFile(csproj, []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Ok.cs"), []byte(goodSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.cs"), []byte(brokenSource), 0o644))

	sol, err := workspace.Load(csproj)
	require.NoError(t, err)
	return sol
}

func TestScopeOf(t *testing.T) {
	assert.Equal(t, intel.ScopeFile, ScopeOf("Foo.cs", ""))
	assert.Equal(t, intel.ScopeProject, ScopeOf("", "Foo"))
	assert.Equal(t, intel.ScopeSolution, ScopeOf("", ""))
}

func TestCollect_SolutionScope_FindsBrokenFileDiagnostics(t *testing.T) {
	sol := loadTwoFileSolution(t)
	res, err := Collect(sol, Options{Scope: intel.ScopeSolution, Max: 100})
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, res.Summary.Errors, len(res.Diagnostics))
}

func TestCollect_FileScope_MissingFile(t *testing.T) {
	sol := loadTwoFileSolution(t)
	_, err := Collect(sol, Options{Scope: intel.ScopeFile, FilePath: "Nope.cs"})
	assert.ErrorIs(t, err, intel.ErrFileNotInSolution)
}

func TestCollect_Truncation(t *testing.T) {
	sol := loadTwoFileSolution(t)
	res, err := Collect(sol, Options{Scope: intel.ScopeSolution, Max: 1})
	require.NoError(t, err)
	if res.TotalCount > 1 {
		assert.True(t, res.Truncated)
		assert.Len(t, res.Diagnostics, 1)
	}
}

func TestCollect_SeverityFilter(t *testing.T) {
	sol := loadTwoFileSolution(t)
	res, err := Collect(sol, Options{Scope: intel.ScopeSolution, Severity: "warning", Max: 100})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics, "fixture only produces parse errors, never warnings")
}
