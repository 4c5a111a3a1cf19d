package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetSource = `using System;

namespace Acme
{
    public class Widget
    {
        public void Spin() { Console.WriteLine("spin"); }
    }
}
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoad_SingleProject_ImplicitGlob(t *testing.T) {
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	writeFile(t, csproj, `<Project Sdk="Microsoft.NET.Sdk"></Project>`)
	writeFile(t, filepath.Join(dir, "Widget.cs"), widgetSource)
	writeFile(t, filepath.Join(dir, "bin", "Debug", "Widget.cs"), widgetSource)

	sol, err := Load(csproj)
	require.NoError(t, err)
	require.Len(t, sol.Projects, 1)

	proj := sol.Projects[0]
	assert.Equal(t, "Acme", proj.Name)
	assert.Equal(t, "C#", proj.Language)

	docs := sol.DocumentsOf(proj)
	require.Len(t, docs, 1, "bin/ output should be excluded from the implicit glob")
	assert.Equal(t, "Widget.cs", docs[0].Name)
}

func TestLoad_SolutionFile_ProjectReferencesAndUnknown(t *testing.T) {
	dir := t.TempDir()

	libDir := filepath.Join(dir, "Lib")
	appDir := filepath.Join(dir, "App")
	writeFile(t, filepath.Join(libDir, "Lib.csproj"), `<Project Sdk="Microsoft.NET.Sdk"></Project>`)
	writeFile(t, filepath.Join(libDir, "Thing.cs"), widgetSource)
	writeFile(t, filepath.Join(appDir, "App.csproj"), `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <ProjectReference Include="..\Lib\Lib.csproj" />
    <ProjectReference Include="..\Missing\Missing.csproj" />
    <PackageReference Include="Newtonsoft.Json" />
  </ItemGroup>
</Project>`)
	writeFile(t, filepath.Join(appDir, "Program.cs"), widgetSource)

	slnPath := filepath.Join(dir, "Acme.sln")
	sln := "Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"Lib\", \"Lib\\Lib.csproj\", \"{11111111-1111-1111-1111-111111111111}\"\n" +
		"EndProject\n" +
		"Project(\"{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}\") = \"App\", \"App\\App.csproj\", \"{22222222-2222-2222-2222-222222222222}\"\n" +
		"EndProject\n"
	writeFile(t, slnPath, sln)

	sol, err := Load(slnPath)
	require.NoError(t, err)
	require.Len(t, sol.Projects, 2)

	app, ok := sol.ProjectByName("App")
	require.True(t, ok)
	require.Len(t, app.ProjectReferenceIDs, 2)
	assert.Equal(t, "Newtonsoft.Json", app.ExternalReferences[0])

	var names []string
	for _, refID := range app.ProjectReferenceIDs {
		names = append(names, sol.ReferencedProjectName(refID))
	}
	assert.Contains(t, names, "Lib")
	assert.Contains(t, names, "Unknown")
}

func TestLoad_AmbiguousDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "One.csproj"), `<Project></Project>`)
	writeFile(t, filepath.Join(dir, "Two.csproj"), `<Project></Project>`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.sln"))
	assert.Error(t, err)
}
