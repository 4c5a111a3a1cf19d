// Package workspace implements the Workspace Cache (spec §4.2): it owns the
// active Solution, maintains the Project/Document graph, and lazily produces
// and caches each document's syntax tree and semantic model via intel/csharp.
package workspace

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/csharp"
)

// Document is a single source file belonging to a Project (spec §3).
// Cache.Document(path) always returns the same *Document for canonicalized-equal
// paths within a Solution's lifetime (spec §4.2 invariant); the lazy
// syntax/semantic fields are guarded by mu so concurrent handlers calling
// EnsureParsed never race (spec §5: no handler holds a lock across a
// suspension, but EnsureParsed's own critical section is the single place a
// lock is taken).
type Document struct {
	ID        string
	ProjectID string
	Name      string   // project-relative file name
	Folders   []string // folder segments between project root and file
	Path      string   // absolute path; empty for in-memory documents

	mu          sync.Mutex
	text        string
	textLoaded  bool
	tree        *csharp.SyntaxTree
	model       *csharp.SemanticModel
	diagnostics []intel.Diagnostic
}

// Text returns the document's current source text, reading it from disk on
// first access.
func (d *Document) Text() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textLocked()
}

func (d *Document) textLocked() (string, error) {
	if d.textLoaded {
		return d.text, nil
	}
	if d.Path == "" {
		return "", nil
	}
	data, err := readFile(d.Path)
	if err != nil {
		return "", err
	}
	d.text = data
	d.textLoaded = true
	return d.text, nil
}

// SetText overrides the in-memory text (used when applying a refactor's
// committed edits without re-reading from disk).
func (d *Document) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.textLoaded = true
	d.tree = nil
	d.model = nil
	d.diagnostics = nil
}

// EnsureParsed lazily parses and binds the document, caching the result for
// the lifetime of the Solution (or until SetText invalidates it).
func (d *Document) EnsureParsed() (*csharp.SyntaxTree, *csharp.SemanticModel, []intel.Diagnostic, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tree != nil {
		return d.tree, d.model, d.diagnostics, nil
	}

	text, err := d.textLocked()
	if err != nil {
		return nil, nil, nil, err
	}

	tree, diags := csharp.Parse(d.Path, text)
	d.tree = tree
	d.diagnostics = diags
	d.model = csharp.Bind(tree)
	return d.tree, d.model, d.diagnostics, nil
}

// Project is a compilation unit with a source language and reference set (spec §3).
type Project struct {
	ID                  string
	Name                string
	Path                string // absolute .csproj path
	Language            string // always "C#" in the core (spec §3)
	DocumentIDs         []string
	ProjectReferenceIDs []string // resolved Project.ID, or "" when unresolved (reported as "Unknown")
	ExternalReferences  []string // package/assembly references
}

// Solution is the root handle to a loaded set of projects (spec §3).
type Solution struct {
	Path     string
	LoadedAt time.Time
	Projects []*Project

	documentsByID map[string]*Document
	projectsByID  map[string]*Project
}

// AllDocuments returns every Document in the solution, in project order.
func (s *Solution) AllDocuments() []*Document {
	out := make([]*Document, 0, len(s.documentsByID))
	for _, proj := range s.Projects {
		for _, id := range proj.DocumentIDs {
			if doc, ok := s.documentsByID[id]; ok {
				out = append(out, doc)
			}
		}
	}
	return out
}

// DocumentByID looks up a Document by its stable Id.
func (s *Solution) DocumentByID(id string) (*Document, bool) {
	d, ok := s.documentsByID[id]
	return d, ok
}

// ProjectByID looks up a Project by its stable Id.
func (s *Solution) ProjectByID(id string) (*Project, bool) {
	p, ok := s.projectsByID[id]
	return p, ok
}

// ProjectByName looks up a Project by its exact (case-sensitive) name.
func (s *Solution) ProjectByName(name string) (*Project, bool) {
	for _, p := range s.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// DocumentsOf returns the documents belonging to a given project.
func (s *Solution) DocumentsOf(proj *Project) []*Document {
	out := make([]*Document, 0, len(proj.DocumentIDs))
	for _, id := range proj.DocumentIDs {
		if doc, ok := s.documentsByID[id]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// ReferencedProjectName returns the display name of a project reference,
// or the literal "Unknown" when the referenced project is not part of the
// solution (spec §3 invariant on Project-Reference Ids).
func (s *Solution) ReferencedProjectName(refID string) string {
	if refID == "" {
		return "Unknown"
	}
	if p, ok := s.projectsByID[refID]; ok {
		return p.Name
	}
	return "Unknown"
}

func folderSegments(projectDir, absPath string) []string {
	rel, err := filepath.Rel(projectDir, filepath.Dir(absPath))
	if err != nil || rel == "." {
		return nil
	}
	rel = filepath.ToSlash(rel)
	return strings.Split(rel, "/")
}
