package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

const codeFixBrokenSource = "namespace Acme { public class Broken { public void M( }"

func buildCodeFixDocument(t *testing.T) *workspace.Document {
	t.Helper()
	_, doc := loadSingleDocument(t, "Broken.cs", codeFixBrokenSource)
	return doc
}

func firstDiagnostic(t *testing.T, doc *workspace.Document, id string) intel.Diagnostic {
	t.Helper()
	_, _, diags, err := doc.EnsureParsed()
	require.NoError(t, err)
	for _, d := range diags {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("no %s diagnostic found in fixture", id)
	return intel.Diagnostic{}
}

func TestDiscoverFixes_ExactMatchWithinSpan(t *testing.T) {
	doc := buildCodeFixDocument(t)
	diag := firstDiagnostic(t, doc, "CS1001")

	matched, _, actions := DiscoverFixes(doc, "CS1001", diag.Location.Start)
	require.NotNil(t, matched)
	assert.Equal(t, "CS1001", matched.ID)
	require.NotEmpty(t, actions)
	assert.Equal(t, "InsertMissingToken", actions[0].ProviderName)
}

func TestDiscoverFixes_NoMatch_ReturnsNearestDiagnostics(t *testing.T) {
	doc := buildCodeFixDocument(t)

	matched, nearest, actions := DiscoverFixes(doc, "CS9999_NOPE", intel.Position{Line: 0, Column: 0})
	assert.Nil(t, matched)
	assert.Nil(t, actions)
	assert.NotEmpty(t, nearest, "falls back to the nearest diagnostics in the file regardless of id")
}

func TestDiscoverFixesWith_ProviderPanicIsSwallowed(t *testing.T) {
	doc := buildCodeFixDocument(t)
	diag := firstDiagnostic(t, doc, "CS1001")

	panicProvider := FixProvider{
		Name:       "Exploder",
		FixableIDs: []string{"CS1001"},
		Provide: func(d intel.Diagnostic) []CodeFixAction {
			panic("boom")
		},
	}

	matched, _, actions := DiscoverFixesWith(doc, "CS1001", diag.Location.Start, []FixProvider{panicProvider})
	require.NotNil(t, matched)
	assert.Empty(t, actions)
}

func TestApplyCodeFix_InsertsMissingToken(t *testing.T) {
	doc := buildCodeFixDocument(t)
	diag := firstDiagnostic(t, doc, "CS1001")

	plan, err := ApplyCodeFix(doc, "CS1001", diag.Location.Start, 0, true)
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1)
	assert.Contains(t, plan.Edits[0].NewText, ";")
}

func TestApplyCodeFix_NoMatchingDiagnostic(t *testing.T) {
	doc := buildCodeFixDocument(t)
	_, err := ApplyCodeFix(doc, "CS0000", intel.Position{Line: 0, Column: 0}, 0, true)
	assert.ErrorIs(t, err, ErrNoMatchingDiagnostic)
}

func TestApplyCodeFix_FixIndexOutOfRange(t *testing.T) {
	doc := buildCodeFixDocument(t)
	diag := firstDiagnostic(t, doc, "CS1001")
	_, err := ApplyCodeFix(doc, "CS1001", diag.Location.Start, 5, true)
	assert.ErrorIs(t, err, ErrFixIndexOutOfRange)
}

func TestPositionWithin(t *testing.T) {
	loc := intel.Location{Start: intel.Position{Line: 2, Column: 4}, End: intel.Position{Line: 2, Column: 10}}
	assert.True(t, positionWithin(intel.Position{Line: 2, Column: 6}, loc))
	assert.False(t, positionWithin(intel.Position{Line: 2, Column: 11}, loc))
	assert.False(t, positionWithin(intel.Position{Line: 3, Column: 0}, loc))
}

func TestCharDistance(t *testing.T) {
	assert.Equal(t, 0, charDistance(intel.Position{Line: 1, Column: 5}, intel.Position{Line: 1, Column: 5}))
	assert.Equal(t, 80, charDistance(intel.Position{Line: 2, Column: 5}, intel.Position{Line: 1, Column: 5}))
}

func TestInsertAtPosition(t *testing.T) {
	text := "abcdef"
	out := insertAtPosition(text, intel.Position{Line: 0, Column: 3}, ";")
	assert.Equal(t, "abc;def", out)
}
