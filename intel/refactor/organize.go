package refactor

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/csharp"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// OrganizeUsingsDocument re-sorts a single document's using directives
// (System-rooted first, then alphabetic) and returns its full new text
// alongside whether anything changed (spec §4.6.2).
func OrganizeUsingsDocument(doc *workspace.Document) (newText string, changed bool, err error) {
	text, err := doc.Text()
	if err != nil {
		return "", false, err
	}
	tree, _, _, err := doc.EnsureParsed()
	if err != nil {
		return "", false, err
	}
	return reorderUsings(text, tree)
}

func reorderUsings(text string, tree *csharp.SyntaxTree) (string, bool, error) {
	if tree.Root == nil || len(tree.Root.Usings) == 0 {
		return text, false, nil
	}
	current := make([]string, len(tree.Root.Usings))
	for i, u := range tree.Root.Usings {
		current[i] = u.Qualified
	}
	sorted := append([]string(nil), current...)
	sortUsings(sorted)
	if equalStrings(current, sorted) {
		return text, false, nil
	}

	lines := strings.Split(text, "\n")
	firstLine := tree.Root.Usings[0].Span.Start.Line - 1
	lastLine := tree.Root.Usings[len(tree.Root.Usings)-1].Span.Start.Line - 1
	if firstLine < 0 || lastLine >= len(lines) || firstLine > lastLine {
		return text, false, nil
	}

	var block []string
	for _, q := range sorted {
		block = append(block, "using "+q+";")
	}
	newLines := append([]string{}, lines[:firstLine]...)
	newLines = append(newLines, block...)
	newLines = append(newLines, lines[lastLine+1:]...)
	return strings.Join(newLines, "\n"), true, nil
}

// sortUsings orders directives with a System-rooted qualified name first,
// then alphabetically (spec §4.6.2).
func sortUsings(usings []string) {
	sort.SliceStable(usings, func(i, j int) bool {
		si, sj := isSystemRooted(usings[i]), isSystemRooted(usings[j])
		if si != sj {
			return si
		}
		return usings[i] < usings[j]
	})
}

func isSystemRooted(qualified string) bool {
	return qualified == "System" || strings.HasPrefix(qualified, "System.")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BatchOptions filters the document set for organize_usings_batch and
// format_document_batch (spec §4.6.2, §4.6.3).
type BatchOptions struct {
	ProjectName   string // exact match, optional
	DocumentGlob  string // glob against bare file name, optional
	IncludeTests  bool   // when false, excludes projects whose name contains "Test" (case-insensitive)
	Preview       bool
}

// OrganizeUsingsBatch computes the EditPlan for every in-scope document
// whose using order differs from its sorted order.
func OrganizeUsingsBatch(sol *workspace.Solution, opts BatchOptions) (*intel.EditPlan, error) {
	var edits []intel.DocumentEdit
	for _, doc := range selectDocuments(sol, opts) {
		newText, changed, err := OrganizeUsingsDocument(doc)
		if err != nil || !changed {
			continue
		}
		edits = append(edits, intel.DocumentEdit{
			Path: doc.Path, ChangeType: intel.ChangeModified, ChangeCount: 1, NewText: newText,
		})
	}
	return intel.NewEditPlan(edits, opts.Preview), nil
}

func selectDocuments(sol *workspace.Solution, opts BatchOptions) []*workspace.Document {
	var globRe *regexp.Regexp
	if opts.DocumentGlob != "" {
		globRe = regexp.MustCompile("(?i)^" + globToRegex(opts.DocumentGlob) + "$")
	}

	var out []*workspace.Document
	for _, proj := range sol.Projects {
		if opts.ProjectName != "" && proj.Name != opts.ProjectName {
			continue
		}
		if !opts.IncludeTests && strings.Contains(strings.ToLower(proj.Name), "test") {
			continue
		}
		for _, doc := range sol.DocumentsOf(proj) {
			if globRe != nil && !globRe.MatchString(filepath.Base(doc.Path)) {
				continue
			}
			out = append(out, doc)
		}
	}
	return out
}

func globToRegex(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
