package workspace

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

func TestCache_Solution_NotLoaded(t *testing.T) {
	c := NewCache(true)
	_, err := c.Solution()
	assert.ErrorIs(t, err, intel.ErrNoSolutionLoaded)

	h := c.Health()
	assert.False(t, h.Loaded)
}

func TestCache_LoadAndDocument(t *testing.T) {
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	writeFile(t, csproj, `<Project Sdk="Microsoft.NET.Sdk"></Project>`)
	widgetPath := filepath.Join(dir, "Widget.cs")
	writeFile(t, widgetPath, widgetSource)

	c := NewCache(true)
	sol, err := c.Load(csproj)
	require.NoError(t, err)
	assert.Len(t, sol.Projects, 1)

	h := c.Health()
	assert.True(t, h.Loaded)
	assert.Equal(t, 1, h.DocumentCount)

	doc, err := c.Document(widgetPath)
	require.NoError(t, err)
	assert.Equal(t, "Widget.cs", doc.Name)

	_, err = c.Document(filepath.Join(dir, "Missing.cs"))
	assert.ErrorIs(t, err, intel.ErrFileNotInSolution)
}

func TestCache_Document_FileURI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file:// canonicalization assumed on a POSIX path layout")
	}
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	writeFile(t, csproj, `<Project Sdk="Microsoft.NET.Sdk"></Project>`)
	widgetPath := filepath.Join(dir, "Widget.cs")
	writeFile(t, widgetPath, widgetSource)

	c := NewCache(true)
	_, err := c.Load(csproj)
	require.NoError(t, err)

	doc, err := c.Document("file://" + widgetPath)
	require.NoError(t, err)
	assert.Equal(t, "Widget.cs", doc.Name)
}

func TestCache_EnableSemanticCache_False_ForcesReparse(t *testing.T) {
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	writeFile(t, csproj, `<Project Sdk="Microsoft.NET.Sdk"></Project>`)
	widgetPath := filepath.Join(dir, "Widget.cs")
	writeFile(t, widgetPath, widgetSource)

	c := NewCache(false)
	_, err := c.Load(csproj)
	require.NoError(t, err)

	doc, err := c.Document(widgetPath)
	require.NoError(t, err)
	_, _, _, err = doc.EnsureParsed()
	require.NoError(t, err)
	assert.NotNil(t, doc.tree)

	// A second Document() call with caching disabled must have invalidated
	// the cached tree/model/text, forcing EnsureParsed to reparse.
	doc2, err := c.Document(widgetPath)
	require.NoError(t, err)
	assert.Nil(t, doc2.tree)
	assert.False(t, doc2.textLoaded)
}

func TestDocument_SetText_InvalidatesParse(t *testing.T) {
	doc := &Document{ID: "d1", Path: "Widget.cs"}
	doc.SetText(widgetSource)

	_, model, _, err := doc.EnsureParsed()
	require.NoError(t, err)
	require.NotEmpty(t, model.Declarations)

	doc.SetText("namespace Empty {}")
	assert.Nil(t, doc.tree)
	assert.Nil(t, doc.model)

	_, model2, _, err := doc.EnsureParsed()
	require.NoError(t, err)
	assert.Empty(t, model2.Declarations)
}
