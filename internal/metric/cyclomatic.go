package metric

import (
	"context"
	"fmt"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// Cyclomatic computes McCabe's cyclomatic complexity
// E - N + 2*C over the CFG's edge relation.
type Cyclomatic struct{}

// NewCyclomatic returns the cyclomatic complexity generator.
func NewCyclomatic() *Cyclomatic { return &Cyclomatic{} }

func (c *Cyclomatic) Name() string { return "Cyclomatic Complexity" }

// Applicable is true for every graph.
func (c *Cyclomatic) Applicable(_ *cfg.Graph) bool { return true }

func (c *Cyclomatic) Evaluate(ctx context.Context, g *cfg.Graph) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	if len(g.Edges) == 0 {
		return Value{}, fmt.Errorf("cyclomatic %q: %w", g.Name, cfg.ErrEmptyGraph)
	}

	components := countComponents(g)
	v := int64(len(g.Edges)) - int64(len(g.Nodes)) + 2*int64(components)
	return IntValue(v), nil
}

// countComponents counts connected components of the undirected edge
// relation, including isolated nodes from the node set.
func countComponents(g *cfg.Graph) int {
	adj := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}

	visited := make(map[int]bool, len(g.Nodes))
	components := 0
	for _, start := range g.Nodes {
		if visited[start] {
			continue
		}
		components++
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for _, m := range adj[n] {
				if !visited[m] {
					visited[m] = true
					queue = append(queue, m)
				}
			}
		}
	}
	return components
}
