package symbols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

const fixtureSource = `using System;

namespace Acme
{
    public interface IGreeter
    {
        void Greet();
    }

    public class Base : IGreeter
    {
        public virtual void Greet() { Console.WriteLine("hi"); }
    }

    public class Widget : Base
    {
        public override void Greet() { Helper(); }

        public void Helper() { Console.WriteLine("helper"); }

        public void Helper(int times) { Console.WriteLine(times); }

        public void CallHelper() { Helper(); }
    }
}
`

// buildFixture loads a single-file project from fixtureSource and returns its
// solution-wide Index, the loaded Solution, and the sole Document.
func buildFixture(t *testing.T, source string) (*Index, *workspace.Solution, *workspace.Document) {
	t.Helper()
	dir := t.TempDir()
	csproj := filepath.Join(dir, "Acme.csproj")
	require.NoError(t, os.WriteFile(csproj, []byte(`<Project Sdk="Microsoft.NET.Sdk"></Project>`), 0o644))
	widgetPath := filepath.Join(dir, "Widget.cs")
	require.NoError(t, os.WriteFile(widgetPath, []byte(source), 0o644))

	sol, err := workspace.Load(csproj)
	require.NoError(t, err)

	idx, err := Build(sol)
	require.NoError(t, err)

	doc, ok := sol.DocumentByID(widgetPath)
	require.True(t, ok)
	return idx, sol, doc
}

// findLineCol returns the 0-based line/column of substr's first occurrence.
func findLineCol(t *testing.T, text, substr string) (int, int) {
	t.Helper()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, substr); idx >= 0 {
			return i, idx
		}
	}
	t.Fatalf("substring %q not found in text", substr)
	return 0, 0
}
