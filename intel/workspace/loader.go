package workspace

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/boyter/gocodewalker"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

// slnProjectLine matches a single Project(...) = "Name", "RelativePath", "{Guid}" line
// of the Visual Studio solution text format.
var slnProjectLine = regexp.MustCompile(`^Project\("\{[0-9A-Fa-f-]+\}"\)\s*=\s*"([^"]*)"\s*,\s*"([^"]*)"\s*,\s*"\{[0-9A-Fa-f-]+\}"\s*$`)

// Load reads a .sln file (or, if path names a directory, the single .csproj/.sln
// found in it) and builds the Project/Document graph, grounded on the
// teacher's Loader.LoadFrom cache-by-absolute-path pattern (module/loader.go)
// generalized from a single-file module cache to a multi-project solution graph.
func Load(path string) (*Solution, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve solution path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", intel.ErrSolutionNotFound, abs)
	}
	if info.IsDir() {
		found, err := findSolutionOrProject(abs)
		if err != nil {
			return nil, err
		}
		abs = found
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".sln":
		return loadSolutionFile(abs)
	case ".csproj":
		return loadSingleProject(abs)
	default:
		return nil, fmt.Errorf("%w: %s is neither a .sln nor a .csproj", intel.ErrSolutionNotFound, abs)
	}
}

// findSolutionOrProject resolves a directory SOLUTION_PATH to the single
// .sln (preferred) or .csproj file it contains; multiple candidates of the
// same kind are ambiguous (spec §4.9).
func findSolutionOrProject(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	var slns, csprojs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".sln":
			slns = append(slns, filepath.Join(dir, e.Name()))
		case ".csproj":
			csprojs = append(csprojs, filepath.Join(dir, e.Name()))
		}
	}
	if len(slns) == 1 {
		return slns[0], nil
	}
	if len(slns) > 1 {
		return "", fmt.Errorf("%w: %d .sln files in %s", intel.ErrAmbiguousSolution, len(slns), dir)
	}
	if len(csprojs) == 1 {
		return csprojs[0], nil
	}
	if len(csprojs) > 1 {
		return "", fmt.Errorf("%w: %d .csproj files in %s", intel.ErrAmbiguousSolution, len(csprojs), dir)
	}
	return "", fmt.Errorf("%w: no .sln or .csproj found in %s", intel.ErrSolutionNotFound, dir)
}

func loadSolutionFile(slnPath string) (*Solution, error) {
	data, err := os.ReadFile(slnPath)
	if err != nil {
		return nil, fmt.Errorf("read solution: %w", err)
	}
	dir := filepath.Dir(slnPath)

	sol := &Solution{
		Path:          slnPath,
		LoadedAt:      time.Now(),
		documentsByID: map[string]*Document{},
		projectsByID:  map[string]*Project{},
	}

	type pending struct {
		name string
		path string
	}
	var entries []pending
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		m := slnProjectLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, rel := m[1], m[2]
		if !strings.HasSuffix(strings.ToLower(rel), ".csproj") {
			continue // solution folders and non-C# projects are not navigable source
		}
		entries = append(entries, pending{name: name, path: filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/")))})
	}

	for _, e := range entries {
		proj, err := parseProject(e.name, e.path)
		if err != nil {
			return nil, fmt.Errorf("load project %s: %w", e.name, err)
		}
		sol.Projects = append(sol.Projects, proj)
		sol.projectsByID[proj.ID] = proj
	}

	for _, proj := range sol.Projects {
		if err := populateDocuments(sol, proj); err != nil {
			return nil, err
		}
	}
	resolveProjectReferences(sol)
	return sol, nil
}

func loadSingleProject(csprojPath string) (*Solution, error) {
	name := strings.TrimSuffix(filepath.Base(csprojPath), filepath.Ext(csprojPath))
	proj, err := parseProject(name, csprojPath)
	if err != nil {
		return nil, err
	}
	sol := &Solution{
		Path:          csprojPath,
		LoadedAt:      time.Now(),
		Projects:      []*Project{proj},
		documentsByID: map[string]*Document{},
		projectsByID:  map[string]*Project{proj.ID: proj},
	}
	if err := populateDocuments(sol, proj); err != nil {
		return nil, err
	}
	resolveProjectReferences(sol)
	return sol, nil
}

// csprojXML is the minimal MSBuild item-group shape we read from a .csproj;
// everything else in the file (build targets, properties) is irrelevant to
// the workspace graph.
type csprojXML struct {
	XMLName    xml.Name       `xml:"Project"`
	ItemGroups []itemGroupXML `xml:"ItemGroup"`
}

type itemGroupXML struct {
	ProjectReferences []includeXML `xml:"ProjectReference"`
	PackageReferences []includeXML `xml:"PackageReference"`
	Compiles          []includeXML `xml:"Compile"`
}

type includeXML struct {
	Include string `xml:"Include,attr"`
}

func parseProject(name, csprojPath string) (*Project, error) {
	abs, err := filepath.Abs(csprojPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", intel.ErrProjectNotFound, abs)
	}

	var doc csprojXML
	// A malformed .csproj still yields a navigable (empty-reference) project
	// rather than failing the whole solution load; XML decoding here is a
	// stdlib concern (DESIGN.md) since no example in the pack parses MSBuild XML.
	_ = xml.Unmarshal(data, &doc)

	proj := &Project{ID: abs, Name: name, Path: abs, Language: "C#"}
	for _, ig := range doc.ItemGroups {
		for _, r := range ig.ProjectReferences {
			if r.Include == "" {
				continue
			}
			refAbs, err := filepath.Abs(filepath.Join(filepath.Dir(abs), filepath.FromSlash(strings.ReplaceAll(r.Include, `\`, "/"))))
			if err == nil {
				proj.ProjectReferenceIDs = append(proj.ProjectReferenceIDs, refAbs)
			}
		}
		for _, r := range ig.PackageReferences {
			if r.Include != "" {
				proj.ExternalReferences = append(proj.ExternalReferences, r.Include)
			}
		}
	}
	return proj, nil
}

// populateDocuments enumerates a project's .cs files. Explicit <Compile Include>
// items win when present (legacy-style csproj); otherwise we fall back to the
// SDK-style implicit glob of every *.cs file under the project directory,
// skipping bin/ and obj/, walked with gocodewalker the way the teacher's
// directory-wide tooling walks a source tree.
func populateDocuments(sol *Solution, proj *Project) error {
	projDir := filepath.Dir(proj.Path)

	var explicit csprojXML
	if data, err := os.ReadFile(proj.Path); err == nil {
		_ = xml.Unmarshal(data, &explicit)
	}
	var files []string
	for _, ig := range explicit.ItemGroups {
		for _, c := range ig.Compiles {
			if c.Include == "" {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(projDir, filepath.FromSlash(c.Include)))
			if err == nil {
				files = append(files, abs)
			}
		}
	}

	if len(files) == 0 {
		walked, err := walkCSharpFiles(projDir)
		if err != nil {
			return fmt.Errorf("walk project %s: %w", proj.Name, err)
		}
		files = walked
	}

	for _, abs := range files {
		id := abs
		doc := &Document{
			ID:        id,
			ProjectID: proj.ID,
			Name:      filepath.Base(abs),
			Folders:   folderSegments(projDir, abs),
			Path:      abs,
		}
		sol.documentsByID[id] = doc
		proj.DocumentIDs = append(proj.DocumentIDs, id)
	}
	return nil
}

func walkCSharpFiles(root string) ([]string, error) {
	queue := make(chan *gocodewalker.File, 100)
	walker := gocodewalker.NewFileWalker(root, queue)
	walker.AllowListExtensions = []string{"cs"}
	walker.ExcludeDirectory = []string{"bin", "obj", ".git", "node_modules"}
	walker.IgnoreIgnoreFile = true
	walker.IgnoreGitIgnore = true

	var walkErr error
	walker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	go func() {
		_ = walker.Start()
	}()

	var files []string
	for f := range queue {
		files = append(files, f.Location)
	}
	return files, walkErr
}

func resolveProjectReferences(sol *Solution) {
	for _, proj := range sol.Projects {
		resolved := make([]string, len(proj.ProjectReferenceIDs))
		for i, refPath := range proj.ProjectReferenceIDs {
			if _, ok := sol.projectsByID[refPath]; ok {
				resolved[i] = refPath
			} else {
				resolved[i] = "" // reported as "Unknown" via ReferencedProjectName
			}
		}
		proj.ProjectReferenceIDs = resolved
	}
}
