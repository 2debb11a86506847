package metric

import (
	"context"
	"fmt"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// LinesOfCode reports the source line count recorded on the graph by its
// front end. Only Python-origin graphs carry a meaningful count, matching
// the converters that populate it.
type LinesOfCode struct{}

// NewLinesOfCode returns the LOC generator.
func NewLinesOfCode() *LinesOfCode { return &LinesOfCode{} }

func (l *LinesOfCode) Name() string { return "Lines of Code" }

// Applicable restricts LOC to Python-origin graphs.
func (l *LinesOfCode) Applicable(g *cfg.Graph) bool {
	return g.Language == cfg.LangPython
}

func (l *LinesOfCode) Evaluate(ctx context.Context, g *cfg.Graph) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}
	if !l.Applicable(g) {
		return Value{}, fmt.Errorf("loc %q: %w", g.Name, ErrNotApplicable)
	}
	if g.LOC <= 0 {
		return Value{}, fmt.Errorf("loc %q: no line count recorded: %w",
			g.Name, cfg.ErrMalformedGraph)
	}
	return IntValue(int64(g.LOC)), nil
}
