package cfg

import (
	"fmt"
	"sort"
)

// Language identifies the source language a CFG was extracted from.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangTypeScript Language = "typescript"
	LangUnknown    Language = "unknown"
)

// Graph is a single-entry control-flow graph for one procedure.
//
// Nodes are integer ids, edges are ordered (source, target) pairs, and
// Recursion maps a node id to the number of times that node invokes the
// whole procedure before continuing (0 or absent = no recursion). A node
// that appears as an edge target but has no outgoing edges is a terminal
// (exit) node. Graphs are produced by front ends or the dot loader and are
// read-only afterwards.
type Graph struct {
	Name      string
	Language  Language
	Nodes     []int
	Edges     [][2]int
	Recursion map[int]int
	Entry     int

	// LOC is the source line count of the originating function, when the
	// producer knows it. Zero means unknown.
	LOC int
}

// New builds a Graph from an edge list. The node set is derived from the
// edges plus the entry node, and node ids are kept sorted.
func New(name string, lang Language, entry int, edges [][2]int, recursion map[int]int) *Graph {
	seen := map[int]bool{entry: true}
	for _, e := range edges {
		seen[e[0]] = true
		seen[e[1]] = true
	}
	nodes := make([]int, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)

	if recursion == nil {
		recursion = map[int]int{}
	}
	return &Graph{
		Name:      name,
		Language:  lang,
		Nodes:     nodes,
		Edges:     edges,
		Recursion: recursion,
		Entry:     entry,
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Successors returns the adjacency map from node id to ordered targets.
func (g *Graph) Successors() map[int][]int {
	succ := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		succ[e[0]] = append(succ[e[0]], e[1])
	}
	return succ
}

// Terminal reports whether node has no outgoing edges.
func (g *Graph) Terminal(node int) bool {
	for _, e := range g.Edges {
		if e[0] == node {
			return false
		}
	}
	return true
}

// RecursionAt returns the recursion multiplicity recorded for node.
func (g *Graph) RecursionAt(node int) int {
	if g.Recursion == nil {
		return 0
	}
	return g.Recursion[node]
}

// Validate checks the structural invariants every producer must uphold:
// a non-empty edge list, an entry node that exists, edges referencing known
// nodes, and an acyclic edge relation. Recursion is metadata rather than
// edges, so an ordinary cycle in the edge list is a rejected input.
func (g *Graph) Validate() error {
	if len(g.Edges) == 0 {
		return fmt.Errorf("graph %q: %w", g.Name, ErrEmptyGraph)
	}
	known := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n] = true
	}
	if !known[g.Entry] {
		return fmt.Errorf("graph %q: entry node %d not in node set: %w", g.Name, g.Entry, ErrMalformedGraph)
	}
	for _, e := range g.Edges {
		if !known[e[0]] || !known[e[1]] {
			return fmt.Errorf("graph %q: edge (%d,%d) references unknown node: %w",
				g.Name, e[0], e[1], ErrMalformedGraph)
		}
	}
	if _, err := g.TopoOrder(); err != nil {
		return err
	}
	return nil
}

// TopoOrder returns a topological order of all nodes with outgoing edges.
// It fails with ErrCyclicGraph when the edge relation contains a cycle.
func (g *Graph) TopoOrder() ([]int, error) {
	succ := g.Successors()

	const (
		unvisited = 0
		active    = 1
		done      = 2
	)
	state := make(map[int]int, len(g.Nodes))
	var order []int

	var visit func(n int) error
	visit = func(n int) error {
		switch state[n] {
		case done:
			return nil
		case active:
			return fmt.Errorf("graph %q: cycle through node %d: %w", g.Name, n, ErrCyclicGraph)
		}
		state[n] = active
		for _, t := range succ[n] {
			if err := visit(t); err != nil {
				return err
			}
		}
		state[n] = done
		if len(succ[n]) > 0 {
			order = append(order, n)
		}
		return nil
	}

	// Visit in sorted node order so the result is deterministic.
	for _, n := range g.Nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}

	// visit appends post-order (deepest first); reverse for a topological
	// order where every node precedes its successors.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// String renders the graph in a compact debug form.
func (g *Graph) String() string {
	return fmt.Sprintf("%s[%s] nodes=%d edges=%v recursion=%v entry=%d",
		g.Name, g.Language, len(g.Nodes), g.Edges, g.Recursion, g.Entry)
}
