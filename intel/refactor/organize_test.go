package refactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

const unsortedUsingsSource = "using System.Linq;\nusing Acme.Widgets;\nusing System;\n\nnamespace Acme\n{\n    public class Widget { }\n}\n"
const sortedUsingsSource = "using System;\nusing Acme.Widgets;\n\nnamespace Acme\n{\n    public class Widget { }\n}\n"

func loadSingleDocument(t *testing.T, filename, source string) (*workspace.Solution, *workspace.Document) {
	t.Helper()
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	require.NoError(t, os.WriteFile(csproj, []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(source), 0o644))

	sol, err := workspace.Load(csproj)
	require.NoError(t, err)
	require.Len(t, sol.AllDocuments(), 1)
	return sol, sol.AllDocuments()[0]
}

func TestOrganizeUsingsDocument_ReordersSystemFirstThenAlphabetic(t *testing.T) {
	_, doc := loadSingleDocument(t, "Widget.cs", unsortedUsingsSource)

	newText, changed, err := OrganizeUsingsDocument(doc)
	require.NoError(t, err)
	require.True(t, changed)

	sysIdx := indexOfSubstring(newText, "using System;")
	widgetsIdx := indexOfSubstring(newText, "using Acme.Widgets;")
	linqIdx := indexOfSubstring(newText, "using System.Linq;")
	require.GreaterOrEqual(t, sysIdx, 0)
	require.GreaterOrEqual(t, widgetsIdx, 0)
	assert.Less(t, sysIdx, widgetsIdx, "System-rooted using sorts before Acme.Widgets")
	assert.Less(t, sysIdx, linqIdx)
}

func TestOrganizeUsingsDocument_NoOpWhenAlreadySorted(t *testing.T) {
	_, doc := loadSingleDocument(t, "Widget.cs", sortedUsingsSource)

	newText, changed, err := OrganizeUsingsDocument(doc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, sortedUsingsSource, newText)
}

func TestSortUsings_SystemFirst(t *testing.T) {
	usings := []string{"Zebra", "System.Linq", "Acme", "System"}
	sortUsings(usings)
	assert.Equal(t, []string{"System", "System.Linq", "Acme", "Zebra"}, usings)
}

func TestOrganizeUsingsBatch_ExcludesTestProjectsByDefault(t *testing.T) {
	dir := t.TempDir()
	mainDir := filepath.Join(dir, "Acme")
	testDir := filepath.Join(dir, "Acme.Tests")
	require.NoError(t, os.MkdirAll(mainDir, 0o755))
	require.NoError(t, os.MkdirAll(testDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mainDir, "Acme.csproj"), []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "Acme.Tests.csproj"), []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mainDir, "Widget.cs"), []byte(unsortedUsingsSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "WidgetTests.cs"), []byte(unsortedUsingsSource), 0o644))

	sln := slnProjectLine("Acme") + slnProjectLine("Acme.Tests")
	slnPath := filepath.Join(dir, "Acme.sln")
	require.NoError(t, os.WriteFile(slnPath, []byte(sln), 0o644))

	sol, err := workspace.Load(slnPath)
	require.NoError(t, err)

	plan, err := OrganizeUsingsBatch(sol, BatchOptions{Preview: true})
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1)
	assert.Contains(t, plan.Edits[0].Path, "Acme"+string(filepath.Separator)+"Widget.cs")
}

func TestOrganizeUsingsBatch_IncludeTests(t *testing.T) {
	dir := t.TempDir()
	testDir := filepath.Join(dir, "Acme.Tests")
	require.NoError(t, os.MkdirAll(testDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "Acme.Tests.csproj"), []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "WidgetTests.cs"), []byte(unsortedUsingsSource), 0o644))

	sol, err := workspace.Load(filepath.Join(testDir, "Acme.Tests.csproj"))
	require.NoError(t, err)

	plan, err := OrganizeUsingsBatch(sol, BatchOptions{IncludeTests: true, Preview: true})
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1)
}

func slnProjectLine(name string) string {
	return `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "` + name + `", "` + name + `\` + name + `.csproj", "{00000000-0000-0000-0000-000000000000}"` + "\nEndProject\n"
}

func indexOfSubstring(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
