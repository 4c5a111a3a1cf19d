package rpc

import (
	"encoding/json"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/deadcode"
	"github.com/ohenrik/dotnet-intel-server/intel/depgraph"
	"github.com/ohenrik/dotnet-intel-server/intel/diagnostics"
	"github.com/ohenrik/dotnet-intel-server/intel/refactor"
	"github.com/ohenrik/dotnet-intel-server/intel/search"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

type handlerFunc func(core *Core, args json.RawMessage) (any, error)

var handlers = map[string]handlerFunc{
	"health_check":           handleHealthCheck,
	"load_solution":          handleLoadSolution,
	"get_symbol_info":        handleGetSymbolInfo,
	"go_to_definition":       handleGoToDefinition,
	"find_references":        handleFindReferences,
	"find_implementations":   handleFindImplementations,
	"find_callers":           handleFindCallers,
	"get_type_hierarchy":     handleGetTypeHierarchy,
	"search_symbols":         handleSearchSymbols,
	"semantic_query":         handleSemanticQuery,
	"get_diagnostics":        handleGetDiagnostics,
	"get_code_fixes":         handleGetCodeFixes,
	"apply_code_fix":         handleApplyCodeFix,
	"get_project_structure":  handleGetProjectStructure,
	"organize_usings":        handleOrganizeUsings,
	"organize_usings_batch":  handleOrganizeUsingsBatch,
	"format_document_batch":  handleFormatDocumentBatch,
	"get_method_overloads":   handleGetMethodOverloads,
	"get_containing_member":  handleGetContainingMember,
	"find_unused_code":       handleFindUnusedCode,
	"rename_symbol":          handleRenameSymbol,
	"extract_interface":      handleExtractInterface,
	"dependency_graph":       handleDependencyGraph,
}

func decode[T any](args json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(args, &v)
	return v, err
}

// resolveAt is the shared first step of every position-taking handler:
// build the index, find the document, and run the Position Resolver.
func resolveAt(core *Core, filePath string, line, column int) (*symbols.Index, *workspace.Solution, *symbols.ResolveResult, error) {
	idx, sol, err := core.index()
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := core.Cache.Document(filePath)
	if err != nil {
		return nil, nil, nil, err
	}
	r := symbols.NewResolver(idx)
	res, err := r.Resolve(doc, line, column)
	if err != nil {
		return nil, nil, nil, err
	}
	return idx, sol, res, nil
}

func handleHealthCheck(core *Core, _ json.RawMessage) (any, error) {
	h := core.Cache.Health()
	status := "Ready"
	if !h.Loaded {
		status = "Not Ready"
	}
	return map[string]any{
		"status": status,
		"solution": map[string]any{
			"path":          h.SolutionPath,
			"projectCount":  h.ProjectCount,
			"documentCount": h.DocumentCount,
		},
		"configuration": map[string]any{
			"enableSemanticCache": core.Config.EnableSemanticCache,
			"maxDiagnostics":      core.Config.MaxDiagnostics,
			"timeoutSeconds":      core.Config.TimeoutSeconds,
		},
		"capabilities": map[string]any{"tools": len(handlers)},
	}, nil
}

func handleLoadSolution(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		SolutionPath string `json:"solutionPath"`
	}](args)
	if err != nil {
		return nil, err
	}
	sol, err := core.Cache.Load(p.SolutionPath)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	return map[string]any{
		"success":       true,
		"projectCount":  len(sol.Projects),
		"documentCount": len(sol.AllDocuments()),
	}, nil
}

type positionArgs struct {
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func handleGetSymbolInfo(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[positionArgs](args)
	if err != nil {
		return nil, err
	}
	idx, _, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	doc, err := core.Cache.Document(p.FilePath)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	info, err := symbols.ResolveSymbolInfo(symbols.NewResolver(idx), doc, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if info.NotFound {
		return map[string]any{
			"found": false, "requestedLine": p.Line, "requestedColumn": p.Column,
			"tokenText": info.TokenText, "tokenKind": info.TokenKind, "nodeKind": info.NodeKind,
			"strategiesAttempted": info.Attempted, "positionHint": info.PositionHint,
		}, nil
	}
	return map[string]any{"found": true, "symbol": info.Symbol, "foundVia": info.FoundVia}, nil
}

func handleGoToDefinition(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[positionArgs](args)
	if err != nil {
		return nil, err
	}
	_, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	return symbols.GoToDefinition(res.Symbol), nil
}

type listArgs struct {
	FilePath   string `json:"filePath"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	MaxResults int    `json:"maxResults"`
}

func handleFindReferences(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[listArgs](args)
	if err != nil {
		return nil, err
	}
	idx, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	return symbols.FindReferences(idx, res.Symbol, p.MaxResults), nil
}

func handleFindImplementations(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[listArgs](args)
	if err != nil {
		return nil, err
	}
	idx, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	listing, err := symbols.FindImplementations(idx, res.Symbol, p.MaxResults)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	return listing, nil
}

func handleFindCallers(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[listArgs](args)
	if err != nil {
		return nil, err
	}
	idx, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	listing, err := symbols.FindCallers(idx, res.Symbol, p.MaxResults)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	return listing, nil
}

func handleGetTypeHierarchy(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath        string `json:"filePath"`
		Line            int    `json:"line"`
		Column          int    `json:"column"`
		MaxDerivedTypes int    `json:"maxDerivedTypes"`
	}](args)
	if err != nil {
		return nil, err
	}
	idx, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	h, err := symbols.TypeHierarchy(idx, res.Symbol, p.MaxDerivedTypes)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	return h, nil
}

func handleSearchSymbols(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		Query           string `json:"query"`
		Kind            string `json:"kind"`
		NamespaceFilter string `json:"namespaceFilter"`
		MaxResults      int    `json:"maxResults"`
		Offset          int    `json:"offset"`
	}](args)
	if err != nil {
		return nil, err
	}
	idx, _, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	maxResults := p.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}
	res := search.SearchSymbols(idx, p.Query, p.Kind, p.NamespaceFilter, maxResults, p.Offset)
	return map[string]any{
		"totalCount": res.TotalCount, "offset": res.Offset, "count": res.Count,
		"hasMore": res.HasMore, "results": res.Results,
		"pagination": map[string]any{"nextOffset": res.NextOffset},
	}, nil
}

func handleSemanticQuery(core *Core, args json.RawMessage) (any, error) {
	f, err := decode[search.SemanticFilters](args)
	if err != nil {
		return nil, err
	}
	idx, _, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	results := search.SemanticQuery(idx, f)
	byKind := map[intel.SymbolKind]int{}
	for _, s := range results {
		byKind[s.Kind]++
	}
	return map[string]any{"totalCount": len(results), "results": results, "byKind": byKind}, nil
}

func handleGetDiagnostics(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath      string `json:"filePath"`
		ProjectPath   string `json:"projectPath"`
		Severity      string `json:"severity"`
		IncludeHidden bool   `json:"includeHidden"`
	}](args)
	if err != nil {
		return nil, err
	}
	_, sol, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	res, err := diagnostics.Collect(sol, diagnostics.Options{
		Scope: diagnostics.ScopeOf(p.FilePath, p.ProjectPath), FilePath: p.FilePath, ProjectPath: p.ProjectPath,
		Severity: p.Severity, IncludeHidden: p.IncludeHidden, Max: core.Config.MaxDiagnostics,
	})
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	return res, nil
}

func handleGetCodeFixes(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath     string `json:"filePath"`
		DiagnosticID string `json:"diagnosticId"`
		Line         int    `json:"line"`
		Column       int    `json:"column"`
	}](args)
	if err != nil {
		return nil, err
	}
	doc, err := core.Cache.Document(p.FilePath)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	matched, nearest, actions := refactor.DiscoverFixes(doc, p.DiagnosticID, intel.Position{Line: p.Line, Column: p.Column})
	if matched == nil {
		return map[string]any{"found": false, "nearestDiagnostics": nearest}, nil
	}
	titles := make([]string, len(actions))
	for i, a := range actions {
		titles[i] = a.Title
	}
	return map[string]any{"found": true, "diagnostic": matched, "fixes": titles}, nil
}

func handleApplyCodeFix(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath     string `json:"filePath"`
		DiagnosticID string `json:"diagnosticId"`
		Line         int    `json:"line"`
		Column       int    `json:"column"`
		FixIndex     int    `json:"fixIndex"`
		Preview      *bool  `json:"preview"`
	}](args)
	if err != nil {
		return nil, err
	}
	doc, err := core.Cache.Document(p.FilePath)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	preview := true
	if p.Preview != nil {
		preview = *p.Preview
	}
	plan, err := refactor.ApplyCodeFix(doc, p.DiagnosticID, intel.Position{Line: p.Line, Column: p.Column}, p.FixIndex, preview)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if !preview {
		_, sol, err := core.index()
		if err == nil {
			plan = refactor.ApplyRename(plan, sol, writeFile) // commit() is shared between rename and code-fix apply
		}
	}
	return plan, nil
}

func handleGetProjectStructure(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		IncludeReferences  bool   `json:"includeReferences"`
		IncludeDocuments   bool   `json:"includeDocuments"`
		ProjectNamePattern string `json:"projectNamePattern"`
		MaxProjects        int    `json:"maxProjects"`
		SummaryOnly        bool   `json:"summaryOnly"`
	}](args)
	if err != nil {
		return nil, err
	}
	_, sol, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	var out []map[string]any
	for _, proj := range sol.Projects {
		if p.ProjectNamePattern != "" && !search.Matches(proj.Name, p.ProjectNamePattern) {
			continue
		}
		if p.MaxProjects > 0 && len(out) >= p.MaxProjects {
			break
		}
		entry := map[string]any{"name": proj.Name, "path": proj.Path, "language": proj.Language}
		if !p.SummaryOnly {
			if p.IncludeReferences {
				var refs []string
				for _, id := range proj.ProjectReferenceIDs {
					refs = append(refs, sol.ReferencedProjectName(id))
				}
				entry["projectReferences"] = refs
				entry["externalReferences"] = proj.ExternalReferences
			}
			if p.IncludeDocuments {
				var docs []string
				for _, d := range sol.DocumentsOf(proj) {
					docs = append(docs, d.Name)
				}
				entry["documents"] = docs
			}
		}
		entry["documentCount"] = len(proj.DocumentIDs)
		out = append(out, entry)
	}
	return map[string]any{"projectCount": len(sol.Projects), "projects": out}, nil
}

func handleOrganizeUsings(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath string `json:"filePath"`
	}](args)
	if err != nil {
		return nil, err
	}
	doc, err := core.Cache.Document(p.FilePath)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	newText, changed, err := refactor.OrganizeUsingsDocument(doc)
	if err != nil {
		return nil, err
	}
	return map[string]any{"changed": changed, "newText": newText}, nil
}

func handleOrganizeUsingsBatch(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		ProjectName string `json:"projectName"`
		FilePattern string `json:"filePattern"`
		Preview     *bool  `json:"preview"`
	}](args)
	if err != nil {
		return nil, err
	}
	_, sol, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	preview := true
	if p.Preview != nil {
		preview = *p.Preview
	}
	plan, err := refactor.OrganizeUsingsBatch(sol, refactor.BatchOptions{
		ProjectName: p.ProjectName, DocumentGlob: p.FilePattern, IncludeTests: true, Preview: preview,
	})
	if err != nil {
		return nil, err
	}
	if !preview {
		plan = refactor.ApplyRename(plan, sol, writeFile)
	}
	return plan, nil
}

func handleFormatDocumentBatch(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		ProjectName  string `json:"projectName"`
		IncludeTests bool   `json:"includeTests"`
		Preview      *bool  `json:"preview"`
	}](args)
	if err != nil {
		return nil, err
	}
	_, sol, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	preview := true
	if p.Preview != nil {
		preview = *p.Preview
	}
	plan, err := refactor.FormatDocumentBatch(sol, refactor.BatchOptions{
		ProjectName: p.ProjectName, IncludeTests: p.IncludeTests, Preview: preview,
	})
	if err != nil {
		return nil, err
	}
	if !preview {
		plan = refactor.ApplyRename(plan, sol, writeFile)
	}
	return plan, nil
}

func handleGetMethodOverloads(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[positionArgs](args)
	if err != nil {
		return nil, err
	}
	idx, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	overloads, err := symbols.MethodOverloads(idx, res.Symbol)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	return map[string]any{"overloads": overloads}, nil
}

func handleGetContainingMember(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[positionArgs](args)
	if err != nil {
		return nil, err
	}
	doc, err := core.Cache.Document(p.FilePath)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	res, err := symbols.ContainingMember(doc, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res == nil {
		return map[string]any{"found": false}, nil
	}
	return map[string]any{"found": true, "symbol": res.Symbol, "span": res.Span}, nil
}

func handleFindUnusedCode(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		ProjectName     string `json:"projectName"`
		IncludePrivate  bool   `json:"includePrivate"`
		IncludeInternal bool   `json:"includeInternal"`
		SymbolKindFilter string `json:"symbolKindFilter"`
		MaxResults      int    `json:"maxResults"`
	}](args)
	if err != nil {
		return nil, err
	}
	idx, _, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	res := deadcode.Scan(idx, deadcode.Options{
		ProjectName: p.ProjectName, IncludePrivate: p.IncludePrivate, IncludeInternal: p.IncludeInternal, MaxResults: p.MaxResults,
	})
	findings := res.Findings
	if p.SymbolKindFilter != "" {
		var filtered []deadcode.Finding
		for _, f := range findings {
			if string(f.Symbol.Kind) == p.SymbolKindFilter {
				filtered = append(filtered, f)
			}
		}
		findings = filtered
	}
	return map[string]any{"findings": findings, "byKind": res.ByKind, "truncated": res.Truncated}, nil
}

func handleRenameSymbol(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath  string `json:"filePath"`
		Line      int    `json:"line"`
		Column    int    `json:"column"`
		NewName   string `json:"newName"`
		Preview   *bool  `json:"preview"`
		MaxFiles  int    `json:"maxFiles"`
		Verbosity string `json:"verbosity"`
	}](args)
	if err != nil {
		return nil, err
	}
	idx, sol, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	verbosity := intel.Verbosity(p.Verbosity)
	if verbosity == "" {
		verbosity = intel.VerbosityCompact
	}
	plan, err := refactor.PlanRename(idx, res.Symbol, p.NewName, p.MaxFiles, verbosity)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	preview := true
	if p.Preview != nil {
		preview = *p.Preview
	}
	if !preview {
		plan = refactor.ApplyRename(plan, sol, writeFile)
	}
	return plan, nil
}

func handleExtractInterface(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		FilePath           string   `json:"filePath"`
		Line               int      `json:"line"`
		Column             int      `json:"column"`
		InterfaceName      string   `json:"interfaceName"`
		IncludeMemberNames []string `json:"includeMemberNames"`
	}](args)
	if err != nil {
		return nil, err
	}
	idx, _, res, err := resolveAt(core, p.FilePath, p.Line, p.Column)
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	if res.NotFound || res.Symbol == nil {
		return map[string]any{"found": false, "hint": res.PositionHint}, nil
	}
	result, err := refactor.ExtractInterface(idx, res.Symbol, p.InterfaceName, p.IncludeMemberNames)
	if err != nil {
		return map[string]any{"error": err.Error()}, nil
	}
	return result, nil
}

func handleDependencyGraph(core *Core, args json.RawMessage) (any, error) {
	p, err := decode[struct {
		Format string `json:"format"`
	}](args)
	if err != nil {
		return nil, err
	}
	_, sol, err := core.index()
	if err != nil {
		if payload, ok := preconditionPayload(err); ok {
			return payload, nil
		}
		return nil, err
	}
	g := depgraph.Build(sol)
	if p.Format == "mermaid" {
		return map[string]any{"format": "mermaid", "diagram": "graph TD\n" + depgraph.Diagram(g)}, nil
	}
	return map[string]any{"format": "json", "edges": g.Edges, "cycles": g.Cycles, "hasCycles": g.HasCycles}, nil
}
