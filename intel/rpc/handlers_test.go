package rpc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rpcFixtureSource = `namespace Acme
{
    public class Widget
    {
        public void Greet() { }
    }
}
`

// writeLoadableSolution writes a single-project fixture to disk and returns
// the .csproj path suitable for load_solution's solutionPath argument.
func writeLoadableSolution(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	require.NoError(t, os.WriteFile(csproj, []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.cs"), []byte(rpcFixtureSource), 0o644))
	return csproj
}

func TestHandleGetSymbolInfo_ResolvesDeclaration(t *testing.T) {
	core := newTestCore()
	solPath := writeLoadableSolution(t)
	loadPayload := callTool(t, core, "load_solution", map[string]any{"solutionPath": solPath})
	require.Equal(t, true, loadPayload["success"])

	widgetPath := filepath.Join(filepath.Dir(solPath), "Widget.cs")
	line, col := findLineCol(t, rpcFixtureSource, "Widget")

	payload := callTool(t, core, "get_symbol_info", map[string]any{
		"filePath": widgetPath, "line": line, "column": col,
	})
	assert.Equal(t, true, payload["found"])
}

func TestHandleGetSymbolInfo_NoSolutionLoaded(t *testing.T) {
	core := newTestCore()
	payload := callTool(t, core, "get_symbol_info", map[string]any{"filePath": "Widget.cs", "line": 0, "column": 0})
	assert.Equal(t, "no solution loaded", payload["error"])
}

func TestHandleFindReferences_NotFoundPosition(t *testing.T) {
	core := newTestCore()
	solPath := writeLoadableSolution(t)
	loadPayload := callTool(t, core, "load_solution", map[string]any{"solutionPath": solPath})
	require.Equal(t, true, loadPayload["success"])

	widgetPath := filepath.Join(filepath.Dir(solPath), "Widget.cs")
	payload := callTool(t, core, "find_references", map[string]any{
		"filePath": widgetPath, "line": 9999, "column": 0,
	})
	assert.Equal(t, "invalid position", payload["error"])
}

func TestHandleLoadSolution_AmbiguousDirectory(t *testing.T) {
	core := newTestCore()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.csproj"), []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.csproj"), []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))

	payload := callTool(t, core, "load_solution", map[string]any{"solutionPath": dir})
	assert.NotEmpty(t, payload["error"])
}

func findLineCol(t *testing.T, text, substr string) (int, int) {
	t.Helper()
	line := 0
	col := 0
	idx := -1
	for i := 0; i+len(substr) <= len(text); i++ {
		if text[i:i+len(substr)] == substr {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0, "substring %q not found", substr)
	for i := 0; i < idx; i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
