package cfg

import (
	"fmt"
	"strings"
)

// Stitch composes several CFGs into one super-CFG by sequencing them:
// every terminal node of graph i gains an edge to the entry of graph i+1.
// Node ids are offset so the inputs stay untouched, and recursion
// multiplicities carry over with their nodes. The result is an ordinary
// CFG and flows through the same builder and metric pipeline.
func Stitch(graphs []*Graph) (*Graph, error) {
	if len(graphs) == 0 {
		return nil, fmt.Errorf("stitch: %w", ErrEmptyGraph)
	}
	if len(graphs) == 1 {
		return graphs[0], nil
	}

	var (
		edges     [][2]int
		recursion = map[int]int{}
		names     = make([]string, 0, len(graphs))
		offset    int
		entries   = make([]int, len(graphs))
	)

	for i, g := range graphs {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("stitch input %d: %w", i, err)
		}
		names = append(names, g.Name)
		entries[i] = g.Entry + offset
		for _, e := range g.Edges {
			edges = append(edges, [2]int{e[0] + offset, e[1] + offset})
		}
		for n, k := range g.Recursion {
			if k > 0 {
				recursion[n+offset] = k
			}
		}
		offset += maxNode(g) + 1
	}

	// Wire each graph's terminals to the next graph's entry.
	prevOffset := 0
	for i := 0; i < len(graphs)-1; i++ {
		g := graphs[i]
		for _, n := range g.Nodes {
			if g.Terminal(n) {
				edges = append(edges, [2]int{n + prevOffset, entries[i+1]})
			}
		}
		prevOffset += maxNode(g) + 1
	}

	stitched := New(strings.Join(names, "+"), graphs[0].Language, entries[0], edges, recursion)
	for _, g := range graphs {
		stitched.LOC += g.LOC
	}
	if err := stitched.Validate(); err != nil {
		return nil, err
	}
	return stitched, nil
}

func maxNode(g *Graph) int {
	max := g.Entry
	for _, n := range g.Nodes {
		if n > max {
			max = n
		}
	}
	return max
}
