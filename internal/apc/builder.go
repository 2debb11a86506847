package apc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// Term is one summand of a node's path-count equation: a step to Target.
// When Target is a terminal node the step contributes a bare x; otherwise
// it contributes symbol(Target)*x.
type Term struct {
	Target   int
	Terminal bool
}

// Equation is the path-count equation for a single node. When Recursion is
// k > 0 the node carries the recursive alternative
//
//	V_node = terms + (V_entry * x)^k * V_node
//
// where each of the k calls consumes one full traversal of the procedure
// plus its call step before the node's remainder runs.
type Equation struct {
	Node      int
	Terms     []Term
	Recursion int
}

// System is the immutable equation system derived from one CFG. Building it
// is deterministic: the same graph always yields the same Order and the
// same Terms regardless of map iteration.
type System struct {
	GraphName string
	Entry     int

	// Order is a topological order over the nodes that have equations
	// (nodes with outgoing edges).
	Order []int

	Equations map[int]Equation
}

// BuildSystem derives the path-count equation system for g. It rejects an
// empty edge list, dangling references, and ordinary (unmarked) cycles.
func BuildSystem(g *cfg.Graph) (*System, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}

	order, err := g.TopoOrder()
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}

	succ := g.Successors()
	eqs := make(map[int]Equation, len(order))
	for _, n := range order {
		terms := make([]Term, 0, len(succ[n]))
		for _, t := range succ[n] {
			terms = append(terms, Term{Target: t, Terminal: len(succ[t]) == 0})
		}
		eqs[n] = Equation{Node: n, Terms: terms, Recursion: g.RecursionAt(n)}
	}

	return &System{
		GraphName: g.Name,
		Entry:     g.Entry,
		Order:     order,
		Equations: eqs,
	}, nil
}

// RecursiveNodes returns the equation nodes with non-zero recursion
// multiplicity, in topological order.
func (s *System) RecursiveNodes() []int {
	var out []int
	for _, n := range s.Order {
		if s.Equations[n].Recursion > 0 {
			out = append(out, n)
		}
	}
	return out
}

// String renders the system one equation per line, entry node first.
func (s *System) String() string {
	var b strings.Builder
	for _, n := range s.Order {
		eq := s.Equations[n]
		fmt.Fprintf(&b, "V%d = %s\n", n, eq.rhs(s.Entry))
	}
	return b.String()
}

func (eq Equation) rhs(entry int) string {
	parts := make([]string, 0, len(eq.Terms))
	for _, t := range eq.Terms {
		if t.Terminal {
			parts = append(parts, "x")
		} else {
			parts = append(parts, "V"+strconv.Itoa(t.Target)+"*x")
		}
	}
	sum := strings.Join(parts, " + ")
	if eq.Recursion == 0 {
		return sum
	}
	pow := ""
	if eq.Recursion > 1 {
		pow = "^" + strconv.Itoa(eq.Recursion)
	}
	return fmt.Sprintf("%s + (V%d*x)%s*V%d", sum, entry, pow, eq.Node)
}
