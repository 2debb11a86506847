package metric

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Eli-Pregerson/qDat/internal/apc"
	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// ErrNumericSingularity reports a degenerate step inside a counting
// metric, such as an overflowing path count.
var ErrNumericSingularity = errors.New("numeric singularity")

// ErrNotApplicable reports that a generator does not apply to a graph's
// source language. The scheduler filters these out before queueing, so
// evaluation only sees it on direct misuse.
var ErrNotApplicable = errors.New("metric not applicable to graph")

// Kind discriminates the value payload of a metric result.
type Kind int

const (
	KindInt Kind = iota
	KindAPC
)

// Value is the outcome of one metric evaluation.
type Value struct {
	Kind Kind
	Int  int64
	APC  *apc.Descriptor
}

// IntValue wraps an integer-valued metric result.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }

// APCValue wraps a path-complexity result.
func APCValue(d *apc.Descriptor) Value { return Value{Kind: KindAPC, APC: d} }

func (v Value) String() string {
	if v.Kind == KindAPC && v.APC != nil {
		return fmt.Sprintf("(APC: %s, Path Complexity: %s)", v.APC, v.APC.ClosedForm)
	}
	return strconv.FormatInt(v.Int, 10)
}

// Generator is the capability contract every complexity metric implements.
// Evaluate must be pure and read-only over the graph: graphs are shared
// across workers without copying.
type Generator interface {
	// Name returns the stable metric name used as a result-map key.
	Name() string

	// Applicable reports whether the metric is defined for this graph.
	Applicable(g *cfg.Graph) bool

	// Evaluate computes the metric. Implementations should observe ctx
	// cancellation where checks are cheap, but the scheduler enforces the
	// hard timeout regardless.
	Evaluate(ctx context.Context, g *cfg.Graph) (Value, error)
}

// All returns the four standard generators in their canonical order.
func All() []Generator {
	return []Generator{
		NewCyclomatic(),
		NewNPath(),
		NewPathComplexity(),
		NewLinesOfCode(),
	}
}
