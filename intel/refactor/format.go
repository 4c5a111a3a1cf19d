package refactor

import (
	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/csharp"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// FormatDocumentBatch applies the whitespace-normalization transform to
// every in-scope document and includes only the ones whose formatted text
// differs from the original (spec §4.6.3).
func FormatDocumentBatch(sol *workspace.Solution, opts BatchOptions) (*intel.EditPlan, error) {
	var edits []intel.DocumentEdit
	for _, doc := range selectDocuments(sol, opts) {
		text, err := doc.Text()
		if err != nil {
			continue
		}
		tree, _, _, err := doc.EnsureParsed()
		if err != nil {
			continue
		}
		formatted := csharp.Format(tree.Tokens)
		if formatted == text {
			continue
		}
		edits = append(edits, intel.DocumentEdit{
			Path: doc.Path, ChangeType: intel.ChangeModified, ChangeCount: 1, NewText: formatted,
		})
	}
	return intel.NewEditPlan(edits, opts.Preview), nil
}
