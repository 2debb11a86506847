package metric

import (
	"context"
	"fmt"

	"github.com/Eli-Pregerson/qDat/internal/apc"
	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// PathComplexity runs the full asymptotic-path-complexity pipeline:
// equation system, generating-function solution, growth classification.
type PathComplexity struct{}

// NewPathComplexity returns the APC generator.
func NewPathComplexity() *PathComplexity { return &PathComplexity{} }

func (p *PathComplexity) Name() string { return "Path Complexity" }

// Applicable is true for every graph.
func (p *PathComplexity) Applicable(_ *cfg.Graph) bool { return true }

func (p *PathComplexity) Evaluate(ctx context.Context, g *cfg.Graph) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}

	sys, err := apc.BuildSystem(g)
	if err != nil {
		return Value{}, fmt.Errorf("path complexity: %w", err)
	}
	sol, err := apc.Solve(sys)
	if err != nil {
		return Value{}, fmt.Errorf("path complexity: %w", err)
	}
	return APCValue(apc.Classify(sol)), nil
}
