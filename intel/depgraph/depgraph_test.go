package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

func writeProject(t *testing.T, dir, name, extraItemGroup string) {
	t.Helper()
	projDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(projDir, 0o755))
	content := `<Project Sdk="Microsoft.NET.Sdk"><ItemGroup>` + extraItemGroup + `</ItemGroup></Project>`
	require.NoError(t, os.WriteFile(filepath.Join(projDir, name+".csproj"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "Placeholder.cs"), []byte("namespace X { public class C { } }\n"), 0o644))
}

func slnProjectLine(name string) string {
	return `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "` + name + `", "` + name + `\` + name + `.csproj", "{00000000-0000-0000-0000-000000000000}"` + "\nEndProject\n"
}

func TestBuild_NoCycles(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, "A", `<ProjectReference Include="..\B\B.csproj" />`)
	writeProject(t, dir, "B", "")

	sln := slnProjectLine("A") + slnProjectLine("B")
	slnPath := filepath.Join(dir, "Acme.sln")
	require.NoError(t, os.WriteFile(slnPath, []byte(sln), 0o644))

	sol, err := workspace.Load(slnPath)
	require.NoError(t, err)

	g := Build(sol)
	assert.Equal(t, []string{"B"}, g.Edges["A"])
	assert.False(t, g.HasCycles)
	assert.Empty(t, g.Cycles)
}

func TestBuild_DetectsCycle(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, "A", `<ProjectReference Include="..\B\B.csproj" />`)
	writeProject(t, dir, "B", `<ProjectReference Include="..\A\A.csproj" />`)

	sln := slnProjectLine("A") + slnProjectLine("B")
	slnPath := filepath.Join(dir, "Acme.sln")
	require.NoError(t, os.WriteFile(slnPath, []byte(sln), 0o644))

	sol, err := workspace.Load(slnPath)
	require.NoError(t, err)

	g := Build(sol)
	assert.True(t, g.HasCycles)
	require.Len(t, g.Cycles, 1)
	assert.Contains(t, g.Cycles[0], "A")
	assert.Contains(t, g.Cycles[0], "B")
}

func TestDiagram_SanitizesNodeIDs(t *testing.T) {
	g := Graph{Edges: map[string][]string{"My.App-Core": {"Some Lib"}}}
	diagram := Diagram(g)
	assert.Equal(t, "My_App_Core --> Some_Lib\n", diagram)
}

func TestSanitizeNodeID(t *testing.T) {
	assert.Equal(t, "A_B_C", sanitizeNodeID("A.B-C"))
	assert.Equal(t, "Foo_Bar", sanitizeNodeID("Foo Bar"))
}
