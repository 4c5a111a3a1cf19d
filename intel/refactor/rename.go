// Package refactor implements the Refactoring Engine (C6): rename,
// using-directive organization, whitespace formatting, code-fix application,
// and interface extraction, all under the spec's preview/apply discipline
// (spec §4.6).
package refactor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// ErrMetadataSymbol rejects a rename/refactor target with no source location.
var ErrMetadataSymbol = errors.New("refactor: symbol has no source location")

// ErrEmptyName rejects a blank rename target name.
var ErrEmptyName = errors.New("refactor: new name must not be empty")

type occurrence struct {
	doc *workspace.Document
	pos intel.Position
	end intel.Position
}

// PlanRename computes the EditPlan for renaming sym to newName across the
// solution without touching disk; ApplyRename additionally writes it.
// Because this package's compiler-library stand-in has no semantic renamer
// (spec §6.1), occurrences are gathered the way the binder resolves
// references: the declaration itself, plus every name-matching reference
// that resolves back to this symbol's identity (see intel/symbols).
func PlanRename(idx *symbols.Index, sym *intel.Symbol, newName string, maxFiles int, verbosity intel.Verbosity) (*intel.EditPlan, error) {
	if newName == "" {
		return nil, ErrEmptyName
	}
	if !sym.HasSourceLocation() {
		return nil, ErrMetadataSymbol
	}

	byDoc := map[*workspace.Document][]occurrence{}

	entry, ok := idx.EntryFor(sym)
	if ok {
		loc := entry.Decl.Symbol.Locations[0]
		byDoc[entry.Document] = append(byDoc[entry.Document], occurrence{doc: entry.Document, pos: loc.Start, end: loc.End})
	}

	refs := symbols.FindReferences(idx, sym, 0)
	for _, r := range refs.Items {
		doc := documentByPath(idx, r.FilePath)
		if doc == nil {
			continue
		}
		byDoc[doc] = append(byDoc[doc], occurrence{doc: doc, pos: r.Start, end: r.End})
	}

	var docs []*workspace.Document
	for d := range byDoc {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	if maxFiles > 0 && len(docs) > maxFiles {
		docs = docs[:maxFiles]
	}

	var edits []intel.DocumentEdit
	for _, doc := range docs {
		occs := byDoc[doc]
		text, err := doc.Text()
		if err != nil {
			continue
		}
		newText, hunks := applyRenameOccurrences(text, occs, sym.Name, newName)
		if newText == text {
			continue
		}
		edits = append(edits, intel.DocumentEdit{
			Path:        doc.Path,
			ChangeType:  intel.ChangeModified,
			ChangeCount: len(hunks),
			NewText:     newText,
			Hunks:       shapeHunks(hunks, verbosity),
		})
	}

	return intel.NewEditPlan(edits, true), nil
}

// ApplyRename commits a previously planned rename: writes every changed
// document and refreshes its in-memory text so the active Solution reflects
// the change (spec §4.6.1 apply path).
func ApplyRename(plan *intel.EditPlan, sol *workspace.Solution, writeFile func(path, text string) error) *intel.EditPlan {
	return commit(plan, sol, writeFile)
}

func applyRenameOccurrences(text string, occs []occurrence, oldName, newName string) (string, []intel.Hunk) {
	sort.Slice(occs, func(i, j int) bool {
		if occs[i].pos.Line != occs[j].pos.Line {
			return occs[i].pos.Line > occs[j].pos.Line
		}
		return occs[i].pos.Column > occs[j].pos.Column
	})

	lines := strings.Split(text, "\n")
	var hunks []intel.Hunk
	seen := map[string]bool{}
	for _, occ := range occs {
		key := fmt.Sprintf("%d:%d", occ.pos.Line, occ.pos.Column)
		if seen[key] {
			continue
		}
		seen[key] = true
		if occ.pos.Line < 0 || occ.pos.Line >= len(lines) {
			continue
		}
		line := lines[occ.pos.Line]
		col := occ.pos.Column
		if col < 0 || col+len(oldName) > len(line) || line[col:col+len(oldName)] != oldName {
			continue
		}
		lines[occ.pos.Line] = line[:col] + newName + line[col+len(oldName):]
		hunks = append(hunks, intel.Hunk{OldStart: occ.pos, OldEnd: occ.end, OldText: oldName, NewText: newName})
	}
	return strings.Join(lines, "\n"), hunks
}

// shapeHunks applies the verbosity knob from spec §4.6.1: summary carries no
// hunks, compact strips the old/new text payload down to positions, full
// keeps the first 20 hunks with their text.
func shapeHunks(hunks []intel.Hunk, verbosity intel.Verbosity) []intel.Hunk {
	switch verbosity {
	case intel.VerbositySummary:
		return nil
	case intel.VerbosityCompact:
		out := make([]intel.Hunk, len(hunks))
		for i, h := range hunks {
			out[i] = intel.Hunk{OldStart: h.OldStart, OldEnd: h.OldEnd}
		}
		return out
	default: // full
		if len(hunks) > 20 {
			return hunks[:20]
		}
		return hunks
	}
}

func documentByPath(idx *symbols.Index, path string) *workspace.Document {
	for _, e := range idx.AllEntries() {
		if e.Document.Path == path {
			return e.Document
		}
	}
	return nil
}

// commit writes every Modified/Added document in plan and writes Removed
// ones as empty text (the file itself is not deleted), refreshing each
// Document's cached text so the active Solution is consistent after a
// successful apply. The plan is computed in full by the caller before commit
// runs (spec §9's resolution of the stale-Solution open question); commit
// reports the first failure without rolling back prior writes.
func commit(plan *intel.EditPlan, sol *workspace.Solution, writeFile func(path, text string) error) *intel.EditPlan {
	for _, e := range plan.Edits {
		switch e.ChangeType {
		case intel.ChangeRemoved:
			if err := writeFile(e.Path, ""); err != nil {
				plan.FailedPath, plan.FailedError = e.Path, err.Error()
				return plan
			}
		default:
			if err := writeFile(e.Path, e.NewText); err != nil {
				plan.FailedPath, plan.FailedError = e.Path, err.Error()
				return plan
			}
			if doc := findDocByPath(sol, e.Path); doc != nil {
				doc.SetText(e.NewText)
			}
		}
	}
	plan.Preview = false
	return plan
}

func findDocByPath(sol *workspace.Solution, path string) *workspace.Document {
	for _, doc := range sol.AllDocuments() {
		if doc.Path == path {
			return doc
		}
	}
	return nil
}
