// Package diagnostics implements the Diagnostics Engine (C5): scope-based
// collection, severity filtering, and truncation of compiler diagnostics.
package diagnostics

import (
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// Options controls filtering and truncation of a diagnostics query.
type Options struct {
	Scope         intel.DiagnosticScope
	FilePath      string // required for ScopeFile
	ProjectPath   string // required for ScopeProject (project name or absolute .csproj path)
	Severity      string // case-insensitive equality filter; empty = no filter
	IncludeHidden bool
	Max           int
}

// ScopeOf infers the diagnostic scope from which optional argument was
// supplied: filePath narrows to one document, projectPath to one project,
// and neither means solution-wide (spec §6.2's get_diagnostics optional set).
func ScopeOf(filePath, projectPath string) intel.DiagnosticScope {
	switch {
	case filePath != "":
		return intel.ScopeFile
	case projectPath != "":
		return intel.ScopeProject
	default:
		return intel.ScopeSolution
	}
}

// Summary counts, computed from the post-truncation list (spec §4.5 -- this
// is intentionally observable, not computed from the full set).
type Summary struct {
	Errors   int
	Warnings int
}

// Result is the get_diagnostics response envelope.
type Result struct {
	TotalCount  int
	Shown       int
	Truncated   bool
	Diagnostics []intel.Diagnostic
	Summary     Summary
}

// Collect gathers diagnostics per Options.Scope, applies the severity and
// hidden filters, then truncates to Options.Max before computing Summary.
func Collect(sol *workspace.Solution, opts Options) (Result, error) {
	var all []intel.Diagnostic

	switch opts.Scope {
	case intel.ScopeFile:
		doc, err := findDocument(sol, opts.FilePath)
		if err != nil {
			return Result{}, err
		}
		_, _, diags, err := doc.EnsureParsed()
		if err != nil {
			return Result{}, err
		}
		all = diags
	case intel.ScopeProject:
		proj, err := findProject(sol, opts.ProjectPath)
		if err != nil {
			return Result{}, err
		}
		for _, doc := range sol.DocumentsOf(proj) {
			_, _, diags, err := doc.EnsureParsed()
			if err != nil {
				continue
			}
			all = append(all, diags...)
		}
	default: // ScopeSolution
		for _, doc := range sol.AllDocuments() {
			_, _, diags, err := doc.EnsureParsed()
			if err != nil {
				continue
			}
			all = append(all, diags...)
		}
	}

	filtered := all[:0:0]
	for _, d := range all {
		if !opts.IncludeHidden && d.Severity == intel.SeverityHidden {
			continue
		}
		if opts.Severity != "" && !strings.EqualFold(string(d.Severity), opts.Severity) {
			continue
		}
		filtered = append(filtered, d)
	}

	res := Result{TotalCount: len(filtered)}
	if opts.Max > 0 && opts.Max < len(filtered) {
		res.Diagnostics = filtered[:opts.Max]
		res.Truncated = true
	} else {
		res.Diagnostics = filtered
	}
	res.Shown = len(res.Diagnostics)
	for _, d := range res.Diagnostics {
		switch d.Severity {
		case intel.SeverityError:
			res.Summary.Errors++
		case intel.SeverityWarning:
			res.Summary.Warnings++
		}
	}
	return res, nil
}

func findDocument(sol *workspace.Solution, path string) (*workspace.Document, error) {
	for _, doc := range sol.AllDocuments() {
		if doc.Path == path {
			return doc, nil
		}
	}
	return nil, intel.ErrFileNotInSolution
}

func findProject(sol *workspace.Solution, projectPath string) (*workspace.Project, error) {
	for _, proj := range sol.Projects {
		if proj.Path == projectPath || proj.Name == projectPath {
			return proj, nil
		}
	}
	return nil, intel.ErrProjectNotFound
}
