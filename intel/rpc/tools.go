package rpc

// toolSpec describes one entry in the tools/list catalog (spec §6.2). The
// schema is a plain JSON-Schema-shaped map, matching the shape MCP-style
// clients already expect from tools/list.
type toolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func schema(required []string, props map[string]any) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func strProp(desc string) map[string]any  { return map[string]any{"type": "string", "description": desc} }
func intProp(desc string) map[string]any  { return map[string]any{"type": "integer", "description": desc} }
func boolProp(desc string) map[string]any { return map[string]any{"type": "boolean", "description": desc} }

var positionProps = map[string]any{
	"filePath": strProp("absolute path of the document"),
	"line":     intProp("0-based line number"),
	"column":   intProp("0-based column number"),
}

func toolListResult() map[string]any {
	tools := []toolSpec{
		{"health_check", "Report whether a solution is loaded and the server's configuration.", schema(nil, nil)},
		{"load_solution", "Load a .sln or .csproj file into the workspace cache.",
			schema([]string{"solutionPath"}, map[string]any{"solutionPath": strProp("path to a .sln or .csproj file, or a directory containing exactly one")})},
		{"get_symbol_info", "Resolve the symbol at a file position and return its declared metadata.",
			schema([]string{"filePath", "line", "column"}, positionProps)},
		{"go_to_definition", "Resolve the symbol at a position and return its declaration location.",
			schema([]string{"filePath", "line", "column"}, positionProps)},
		{"find_references", "Find every reference to the symbol at a position.",
			schema([]string{"filePath", "line", "column"}, withMaxResults(positionProps))},
		{"find_implementations", "Find implementations/derived types of the interface or class at a position.",
			schema([]string{"filePath", "line", "column"}, withMaxResults(positionProps))},
		{"find_callers", "Find call sites of the method or property at a position.",
			schema([]string{"filePath", "line", "column"}, withMaxResults(positionProps))},
		{"get_type_hierarchy", "Return base types, interfaces, and derived types of the type at a position.",
			schema([]string{"filePath", "line", "column"}, mergeProps(positionProps, map[string]any{"maxDerivedTypes": intProp("cap on derived types returned")}))},
		{"search_symbols", "Search the solution's symbols by name, with glob support and pagination.",
			schema([]string{"query"}, map[string]any{
				"query":           strProp("substring or glob (supports * and ?)"),
				"kind":            strProp("optional symbol kind filter"),
				"namespaceFilter": strProp("optional namespace glob (supports * and ?), matched against the whole namespace"),
				"maxResults":      intProp("page size, default 100"),
				"offset":          intProp("pagination offset"),
			})},
		{"semantic_query", "Search symbols by semantic attributes (async, static, accessibility, attributes, parameters).",
			schema(nil, map[string]any{
				"kinds":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"isAsync":           boolProp("filter to async methods"),
				"namespaceFilter":   strProp("namespace glob (supports * and ?), matched against the whole namespace"),
				"accessibility":     strProp("public/private/protected/internal"),
				"isStatic":          boolProp("filter to static members"),
				"type":              strProp("declared type substring"),
				"returnType":        strProp("return type substring"),
				"attributes":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"parameterIncludes": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"parameterExcludes": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			})},
		{"get_diagnostics", "Collect compiler diagnostics scoped to a file, project, or the whole solution.",
			schema(nil, map[string]any{
				"filePath":      strProp("scope to one document"),
				"projectPath":   strProp("scope to one project (name or path)"),
				"severity":      strProp("error/warning/info/hidden filter"),
				"includeHidden": boolProp("include Hidden-severity diagnostics"),
			})},
		{"get_code_fixes", "Discover available code fixes for a diagnostic near a position.",
			schema([]string{"filePath", "diagnosticId", "line", "column"}, map[string]any{
				"filePath": strProp("document path"), "diagnosticId": strProp("compiler diagnostic id, e.g. CS1001"),
				"line": intProp("0-based line"), "column": intProp("0-based column"),
			})},
		{"apply_code_fix", "Apply one discovered code fix to a document.",
			schema([]string{"filePath", "diagnosticId", "line", "column"}, map[string]any{
				"filePath": strProp("document path"), "diagnosticId": strProp("compiler diagnostic id"),
				"line": intProp("0-based line"), "column": intProp("0-based column"),
				"fixIndex": intProp("index into get_code_fixes' fixes list, default 0"),
				"preview":  boolProp("when true (default), do not write to disk"),
			})},
		{"get_project_structure", "Return the solution's project graph.",
			schema(nil, map[string]any{
				"includeReferences":  boolProp("include project/external references"),
				"includeDocuments":   boolProp("include per-project document lists"),
				"projectNamePattern": strProp("glob filter on project name"),
				"maxProjects":        intProp("cap on projects returned"),
				"summaryOnly":        boolProp("return only name/path/language/documentCount"),
			})},
		{"organize_usings", "Sort using directives in a single document (preview only; returns new text; duplicates are kept).",
			schema([]string{"filePath"}, map[string]any{"filePath": strProp("document path")})},
		{"organize_usings_batch", "Organize usings across every matching document in a project.",
			schema(nil, map[string]any{
				"projectName": strProp("restrict to one project"),
				"filePattern": strProp("glob filter on file name"),
				"preview":     boolProp("when true (default), do not write to disk"),
			})},
		{"format_document_batch", "Re-lex and re-emit every matching document's token stream in normalized form.",
			schema(nil, map[string]any{
				"projectName":  strProp("restrict to one project"),
				"includeTests": boolProp("include projects whose name contains \"test\" (case-insensitive)"),
				"preview":      boolProp("when true (default), do not write to disk"),
			})},
		{"get_method_overloads", "List every overload of the method at a position.",
			schema([]string{"filePath", "line", "column"}, positionProps)},
		{"get_containing_member", "Find the member (method/property/etc) that encloses a position.",
			schema([]string{"filePath", "line", "column"}, positionProps)},
		{"find_unused_code", "Scan for symbols with no references besides their declaration, excluding framework-marker types and constructor/override/virtual/operator methods.",
			schema(nil, map[string]any{
				"projectName":      strProp("restrict to one project"),
				"includePrivate":   boolProp("include private members, default false"),
				"includeInternal":  boolProp("include internal members, default false"),
				"symbolKindFilter": strProp("restrict to one symbol kind"),
				"maxResults":       intProp("cap on findings returned, default 50"),
			})},
		{"rename_symbol", "Rename the symbol at a position across every referencing document.",
			schema([]string{"filePath", "line", "column", "newName"}, mergeProps(positionProps, map[string]any{
				"newName":   strProp("replacement identifier"),
				"preview":   boolProp("when true (default), do not write to disk"),
				"maxFiles":  intProp("cap on files touched"),
				"verbosity": strProp("summary | compact | full"),
			}))},
		{"extract_interface", "Synthesize an interface from a class or struct's public members.",
			schema([]string{"filePath", "line", "column", "interfaceName"}, mergeProps(positionProps, map[string]any{
				"interfaceName":      strProp("name of the synthesized interface"),
				"includeMemberNames": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			}))},
		{"dependency_graph", "Build the project reference graph, detecting cycles.",
			schema(nil, map[string]any{"format": strProp("json (default) or mermaid")})},
	}
	return map[string]any{"tools": tools}
}

func withMaxResults(base map[string]any) map[string]any {
	return mergeProps(base, map[string]any{"maxResults": intProp("cap on results returned")})
}

func mergeProps(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
