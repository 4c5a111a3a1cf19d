// Package depgraph implements the Dependency Grapher (C8): project
// dependency mapping, cycle detection, and diagram-text rendering (spec §4.8).
package depgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// Graph is the project-name dependency mapping (spec §4.8).
type Graph struct {
	Edges     map[string][]string // project name -> referenced project names
	Cycles    [][]string          // each cycle as the path from its first occurrence through the closing edge
	HasCycles bool
}

// Build constructs the name-to-name mapping and runs cycle detection.
func Build(sol *workspace.Solution) Graph {
	edges := map[string][]string{}
	for _, proj := range sol.Projects {
		var refs []string
		for _, refID := range proj.ProjectReferenceIDs {
			refs = append(refs, sol.ReferencedProjectName(refID))
		}
		sort.Strings(refs)
		edges[proj.Name] = refs
	}

	g := Graph{Edges: edges}
	g.Cycles = detectCycles(edges)
	g.HasCycles = len(g.Cycles) > 0
	return g
}

// detectCycles runs a depth-first search with a recursion-stack set; on
// encountering a node already on the stack, it records the path from that
// node's first occurrence on the current path through the closing edge
// (spec §4.8).
func detectCycles(edges map[string][]string) [][]string {
	var cycles [][]string
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var path []string

	var visit func(node string)
	visit = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range edges[node] {
			if next == "Unknown" {
				continue
			}
			if onStack[next] {
				start := indexOf(path, next)
				if start >= 0 {
					cycle := append([]string{}, path[start:]...)
					cycle = append(cycle, next)
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[next] {
				visit(next)
			}
		}

		path = path[:len(path)-1]
		onStack[node] = false
	}

	var names []string
	for n := range edges {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if !visited[n] {
			visit(n)
		}
	}
	return cycles
}

func indexOf(path []string, node string) int {
	for i, p := range path {
		if p == node {
			return i
		}
	}
	return -1
}

// Diagram renders the graph as one edge per line, sanitizing node ids by
// replacing '.', '-', and spaces with underscores (spec §4.8).
func Diagram(g Graph) string {
	var names []string
	for n := range g.Edges {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		for _, ref := range g.Edges[n] {
			fmt.Fprintf(&b, "%s --> %s\n", sanitizeNodeID(n), sanitizeNodeID(ref))
		}
	}
	return b.String()
}

func sanitizeNodeID(name string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(name)
}
