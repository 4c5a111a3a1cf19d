package refactor

import (
	"sort"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// CodeFixAction is one registered provider's proposed fix for a diagnostic.
// Apply receives the document's current text and returns the fixed text;
// changed is false when the provider declines to act once it inspects the
// actual diagnostic context.
type CodeFixAction struct {
	ProviderName string
	Title        string
	Apply        func(text string, diag intel.Diagnostic) (newText string, changed bool)
}

// FixProvider is a fixed, build-time-enumerated code-fix provider (spec §9:
// no runtime assembly scanning). FixableIDs lists the diagnostic ids it
// registers actions for.
type FixProvider struct {
	Name       string
	FixableIDs []string
	Provide    func(diag intel.Diagnostic) []CodeFixAction
}

// DefaultProviders is the fixed registry of code-fix providers (spec §4.6.5,
// §9). Kept as one data-driven slice so the test suite can inject
// additional providers by constructing its own slice and calling
// DiscoverFixesWith directly.
func DefaultProviders() []FixProvider {
	return []FixProvider{
		{
			Name:       "InsertMissingToken",
			FixableIDs: []string{"CS1001"},
			Provide: func(diag intel.Diagnostic) []CodeFixAction {
				return []CodeFixAction{{
					ProviderName: "InsertMissingToken",
					Title:        "Insert missing token",
					Apply: func(text string, d intel.Diagnostic) (string, bool) {
						return insertAtPosition(text, d.Location.Start, ";"), true
					},
				}}
			},
		},
	}
}

func insertAtPosition(text string, pos intel.Position, insert string) string {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return text
	}
	line := lines[pos.Line]
	col := pos.Column
	if col < 0 || col > len(line) {
		col = len(line)
	}
	lines[pos.Line] = line[:col] + insert + line[col:]
	return strings.Join(lines, "\n")
}

// DiscoverFixes matches diagnosticID/position against doc's diagnostics using
// the three ordered strategies of spec §4.6.5, then asks every provider
// whose FixableIDs contains the matched diagnostic's id to register actions,
// swallowing provider panics/errors so one bad provider cannot break
// discovery for the rest.
func DiscoverFixes(doc *workspace.Document, diagnosticID string, position intel.Position) (matched *intel.Diagnostic, nearest []intel.Diagnostic, actions []CodeFixAction) {
	return DiscoverFixesWith(doc, diagnosticID, position, DefaultProviders())
}

// DiscoverFixesWith is DiscoverFixes parameterized by an explicit provider
// set, the seam the test suite uses to inject fakes (spec §9).
func DiscoverFixesWith(doc *workspace.Document, diagnosticID string, position intel.Position, providers []FixProvider) (matched *intel.Diagnostic, nearest []intel.Diagnostic, actions []CodeFixAction) {
	_, _, diags, err := doc.EnsureParsed()
	if err != nil {
		return nil, nil, nil
	}

	var sameID []intel.Diagnostic
	for _, d := range diags {
		if d.ID == diagnosticID {
			sameID = append(sameID, d)
		}
	}

	// Strategy 1: exact id, position falls within the diagnostic's span.
	for i := range sameID {
		d := sameID[i]
		if positionWithin(position, d.Location) {
			matched = &d
			break
		}
	}
	// Strategy 2: exact id, within 50 characters (approximated via line distance).
	if matched == nil {
		for i := range sameID {
			d := sameID[i]
			if charDistance(position, d.Location.Start) <= 50 {
				matched = &d
				break
			}
		}
	}
	// Strategy 3: exact id, anywhere in the file.
	if matched == nil && len(sameID) > 0 {
		matched = &sameID[0]
	}

	if matched == nil {
		nearest = nearestDiagnostics(diags, position, 10)
		return nil, nearest, nil
	}

	for _, p := range providers {
		if !containsString(p.FixableIDs, matched.ID) {
			continue
		}
		actions = append(actions, safeProvide(p, *matched)...)
	}
	return matched, nil, actions
}

func safeProvide(p FixProvider, diag intel.Diagnostic) (out []CodeFixAction) {
	defer func() {
		if recover() != nil {
			out = nil // provider crashed: swallowed silently per spec §4.6.5
		}
	}()
	return p.Provide(diag)
}

func positionWithin(pos intel.Position, loc intel.Location) bool {
	if pos.Line < loc.Start.Line || pos.Line > loc.End.Line {
		return false
	}
	if pos.Line == loc.Start.Line && pos.Column < loc.Start.Column {
		return false
	}
	if pos.Line == loc.End.Line && pos.Column > loc.End.Column {
		return false
	}
	return true
}

// charDistance approximates a character-offset distance between two
// positions on possibly different lines (80 assumed columns/line), since we
// do not retain a direct line->absolute-offset table at this layer.
func charDistance(a, b intel.Position) int {
	lineDelta := a.Line - b.Line
	if lineDelta < 0 {
		lineDelta = -lineDelta
	}
	colDelta := a.Column - b.Column
	if colDelta < 0 {
		colDelta = -colDelta
	}
	return lineDelta*80 + colDelta
}

func nearestDiagnostics(diags []intel.Diagnostic, pos intel.Position, n int) []intel.Diagnostic {
	sorted := append([]intel.Diagnostic(nil), diags...)
	sort.Slice(sorted, func(i, j int) bool {
		return charDistance(pos, sorted[i].Location.Start) < charDistance(pos, sorted[j].Location.Start)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ApplyCodeFix re-discovers fixes for diagnosticID/position, selects the
// fixIndex'th action, and produces an EditPlan for the single changed
// document (spec §4.6.4). The full plan is computed against the
// pre-change text before any write, resolving the open question in spec §9
// about not re-reading a partially-updated Solution mid-loop.
func ApplyCodeFix(doc *workspace.Document, diagnosticID string, position intel.Position, fixIndex int, preview bool) (*intel.EditPlan, error) {
	matched, _, actions := DiscoverFixes(doc, diagnosticID, position)
	if matched == nil {
		return nil, ErrNoMatchingDiagnostic
	}
	if fixIndex < 0 || fixIndex >= len(actions) {
		return nil, ErrFixIndexOutOfRange
	}
	text, err := doc.Text()
	if err != nil {
		return nil, err
	}
	newText, changed := actions[fixIndex].Apply(text, *matched)
	if !changed || newText == text {
		return intel.NewEditPlan(nil, preview), nil
	}
	edit := intel.DocumentEdit{Path: doc.Path, ChangeType: intel.ChangeModified, ChangeCount: 1, NewText: newText}
	return intel.NewEditPlan([]intel.DocumentEdit{edit}, preview), nil
}
