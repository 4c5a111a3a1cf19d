// Package symbols implements the Position Resolver (C1) and Symbol Navigator
// (C3): solution-wide name indexing, position-to-symbol resolution, and the
// reference/implementation/caller/hierarchy walks that operate on it.
package symbols

import (
	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/csharp"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// Entry is one indexed declaration together with the document and project it
// was declared in, the unit the solution-wide walks (findReferences,
// findImplementations, ...) operate on.
type Entry struct {
	Decl     *csharp.Declaration
	Model    *csharp.SemanticModel
	Document *workspace.Document
	Project  *workspace.Project
}

// Index is the solution-wide symbol table: every Entry keyed by simple name
// and by fully-qualified name, plus the raw per-document semantic models kept
// around for reference walks. Built fresh on every operation that needs it
// (the compiler-library stand-in has no incremental recompilation), grounded
// on the teacher's in-memory module cache (module/loader.go) generalized from
// a single module's declarations to a whole solution's.
type Index struct {
	bySimpleName map[string][]*Entry
	byFQN        map[string]*Entry
	byID         map[string]*Entry
	docEntries   map[*workspace.Document][]*Entry
}

// Build parses and binds every document in the solution and assembles the
// cross-document name index.
func Build(sol *workspace.Solution) (*Index, error) {
	idx := &Index{
		bySimpleName: map[string][]*Entry{},
		byFQN:        map[string]*Entry{},
		byID:         map[string]*Entry{},
		docEntries:   map[*workspace.Document][]*Entry{},
	}
	for _, proj := range sol.Projects {
		for _, doc := range sol.DocumentsOf(proj) {
			_, model, _, err := doc.EnsureParsed()
			if err != nil {
				continue // unreadable document: skip, do not fail the whole index
			}
			for _, decl := range model.Declarations {
				e := &Entry{Decl: decl, Model: model, Document: doc, Project: proj}
				idx.bySimpleName[decl.Symbol.Name] = append(idx.bySimpleName[decl.Symbol.Name], e)
				idx.byFQN[decl.Symbol.FullyQualified] = e
				idx.byID[decl.Symbol.ID] = e
				idx.docEntries[doc] = append(idx.docEntries[doc], e)
			}
		}
	}
	return idx, nil
}

// BySimpleName returns every declaration sharing a short name.
func (idx *Index) BySimpleName(name string) []*Entry {
	return idx.bySimpleName[name]
}

// ByID returns the Entry for a Symbol.Id, if indexed.
func (idx *Index) ByID(id string) (*Entry, bool) {
	e, ok := idx.byID[id]
	return e, ok
}

// EntryFor finds the Entry matching a Symbol's Id (the stable identity
// produced by intel/csharp's binder).
func (idx *Index) EntryFor(sym *intel.Symbol) (*Entry, bool) {
	if sym == nil {
		return nil, false
	}
	e, ok := idx.byID[sym.ID]
	return e, ok
}

// TypesNamed returns every TypeDecl entry (class/interface/struct/enum/delegate)
// whose short name matches, across the whole solution.
func (idx *Index) TypesNamed(name string) []*Entry {
	var out []*Entry
	for _, e := range idx.bySimpleName[name] {
		if e.Decl.Type != nil {
			out = append(out, e)
		}
	}
	return out
}

// AllEntries returns every indexed declaration.
func (idx *Index) AllEntries() []*Entry {
	out := make([]*Entry, 0, len(idx.byID))
	for _, e := range idx.byID {
		out = append(out, e)
	}
	return out
}
