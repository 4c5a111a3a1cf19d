package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/uri"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

// Cache is the Workspace Cache (spec §4.2): it owns at most one active
// Solution at a time and hands out stable *Document handles for it, the way
// the teacher's Loader (module/loader.go) owns a cache of *Module keyed by
// absolute path -- generalized here from a flat module cache to the
// Solution's own document-by-absolute-path index, with the Cache itself
// holding only the read/write lock around solution swaps.
type Cache struct {
	mu          sync.RWMutex
	solution    *Solution
	enableCache bool // ENABLE_SEMANTIC_CACHE; false resets a document's cached state on every Document lookup
}

// NewCache constructs an empty Workspace Cache. enableCache mirrors
// ENABLE_SEMANTIC_CACHE (spec §6.3): when false, every document access
// invalidates its cached syntax/semantic state first, trading latency for a
// guarantee that handlers always see the current on-disk text.
func NewCache(enableCache bool) *Cache {
	return &Cache{enableCache: enableCache}
}

// Load replaces the active solution, discarding any previously cached one.
func (c *Cache) Load(path string) (*Solution, error) {
	sol, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.solution = sol
	c.mu.Unlock()
	return sol, nil
}

// Solution returns the active solution, or ErrNoSolutionLoaded.
func (c *Cache) Solution() (*Solution, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.solution == nil {
		return nil, intel.ErrNoSolutionLoaded
	}
	return c.solution, nil
}

// HealthInfo is the health_check response payload (spec §4.9).
type HealthInfo struct {
	Loaded        bool
	SolutionPath  string
	ProjectCount  int
	DocumentCount int
}

// Health reports the current load state without requiring a solution to be loaded.
func (c *Cache) Health() HealthInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.solution == nil {
		return HealthInfo{}
	}
	return HealthInfo{
		Loaded:        true,
		SolutionPath:  c.solution.Path,
		ProjectCount:  len(c.solution.Projects),
		DocumentCount: len(c.solution.documentsByID),
	}
}

// Document resolves an incoming path (raw filesystem path or file:// URI) to
// the solution's cached Document, canonicalizing it the way an LSP-derived
// client would before looking it up, then degrades gracefully via
// ErrFileNotInSolution (spec §4.2).
func (c *Cache) Document(path string) (*Document, error) {
	sol, err := c.Solution()
	if err != nil {
		return nil, err
	}
	abs, err := canonicalPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", intel.ErrFileNotInSolution, path)
	}
	doc, ok := sol.documentsByID[abs]
	if !ok {
		return nil, fmt.Errorf("%w: %s", intel.ErrFileNotInSolution, path)
	}
	if !c.enableCache {
		doc.mu.Lock()
		doc.tree, doc.model, doc.diagnostics, doc.textLoaded = nil, nil, nil, false
		doc.mu.Unlock()
	}
	return doc, nil
}

// canonicalPath normalizes a file:// URI or a plain filesystem path (possibly
// relative, possibly using foreign separators) to a clean absolute path,
// reusing go.lsp.dev/uri's URI-to-filename conversion the way an LSP server
// would canonicalize a textDocument/uri before cache lookup.
func canonicalPath(path string) (string, error) {
	if strings.HasPrefix(path, "file://") {
		u, err := uri.Parse(path)
		if err != nil {
			return "", err
		}
		return filepath.Clean(u.Filename()), nil
	}
	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
