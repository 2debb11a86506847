package metric

import (
	"context"
	"fmt"
	"math"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// NPath counts the acyclic execution paths from the entry node to any
// terminal node.
type NPath struct{}

// NewNPath returns the NPath complexity generator.
func NewNPath() *NPath { return &NPath{} }

func (n *NPath) Name() string { return "NPath Complexity" }

// Applicable is true for every graph.
func (n *NPath) Applicable(_ *cfg.Graph) bool { return true }

func (n *NPath) Evaluate(ctx context.Context, g *cfg.Graph) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	if err := g.Validate(); err != nil {
		return Value{}, fmt.Errorf("npath: %w", err)
	}

	succ := g.Successors()
	memo := make(map[int]int64, len(g.Nodes))

	var count func(node int) (int64, error)
	count = func(node int) (int64, error) {
		if v, ok := memo[node]; ok {
			return v, nil
		}
		targets := succ[node]
		if len(targets) == 0 {
			memo[node] = 1
			return 1, nil
		}
		var total int64
		for _, t := range targets {
			v, err := count(t)
			if err != nil {
				return 0, err
			}
			if total > math.MaxInt64-v {
				return 0, fmt.Errorf("npath %q: path count overflow: %w",
					g.Name, ErrNumericSingularity)
			}
			total += v
		}
		memo[node] = total
		return total, nil
	}

	total, err := count(g.Entry)
	if err != nil {
		return Value{}, err
	}
	return IntValue(total), nil
}
