package apc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

func solveGraph(t *testing.T, g *cfg.Graph) *Solution {
	t.Helper()
	sys, err := BuildSystem(g)
	require.NoError(t, err)
	sol, err := Solve(sys)
	require.NoError(t, err)
	return sol
}

func TestSolveChainIsPolynomial(t *testing.T) {
	g := cfg.New("chain", cfg.LangGo, 0, [][2]int{{0, 1}, {1, 2}}, nil)
	sol := solveGraph(t, g)

	assert.Equal(t, 0, sol.Degree)
	assert.Equal(t, "x^2", sol.ClosedForm)
	// Exactly one path, of length 2.
	assert.Equal(t, 0, sol.Series[2].Cmp(ratInt(1)))
	for i, c := range sol.Series {
		if i != 2 {
			assert.Equal(t, 0, c.Sign(), "order %d", i)
		}
	}
}

func TestSolveDiamondCountsBothPaths(t *testing.T) {
	g := cfg.New("diamond", cfg.LangGo, 0, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, nil)
	sol := solveGraph(t, g)

	assert.Equal(t, 0, sol.Degree)
	assert.Equal(t, "2*x^2", sol.ClosedForm)
	assert.Equal(t, 0, sol.Series[2].Cmp(ratInt(2)))
}

func TestSolveSingleRecursiveNodeIsCatalan(t *testing.T) {
	g := cfg.New("rec", cfg.LangGo, 0, [][2]int{{0, 1}}, map[int]int{0: 1})
	sol := solveGraph(t, g)

	require.Equal(t, 2, sol.Degree)
	assert.Equal(t, "(1 - sqrt(1 - 4*x^2))/(2*x)", sol.ClosedForm)

	// V0 = x + x*V0^2 expands with Catalan numbers at odd orders:
	// x + x^3 + 2x^5 + 5x^7 + 14x^9 + ...
	want := []int64{1, 1, 2, 5, 14, 42}
	for i, c := range want {
		order := 2*i + 1
		assert.Equal(t, 0, sol.Series[order].Cmp(ratInt(c)), "order %d", order)
	}
	assert.Equal(t, 0, sol.Series[0].Sign())
	assert.Equal(t, 0, sol.Series[2].Sign())
}

func TestSolveRecursionMultiplicityTwoIsCubic(t *testing.T) {
	g := cfg.New("rec2", cfg.LangGo, 0, [][2]int{{0, 1}}, map[int]int{0: 2})
	sol := solveGraph(t, g)

	assert.Equal(t, 3, sol.Degree)
	// V0 = x + x^2*V0^3: ternary-tree counts at orders 1, 5, 9, ...
	assert.Equal(t, 0, sol.Series[1].Cmp(ratInt(1)))
	assert.Equal(t, 0, sol.Series[3].Sign())
	assert.Equal(t, 0, sol.Series[5].Cmp(ratInt(1)))
	assert.Equal(t, 0, sol.Series[9].Cmp(ratInt(3)))
}

func TestSolveMidChainRecursion(t *testing.T) {
	// Recursion at a non-entry node still eliminates to a quadratic in V0.
	g := cfg.New("mid", cfg.LangGo, 0, [][2]int{{0, 1}, {1, 2}}, map[int]int{1: 1})
	sol := solveGraph(t, g)

	assert.Equal(t, 2, sol.Degree)
	assert.Equal(t, 0, sol.Series[0].Sign())
	for _, c := range sol.Series {
		assert.GreaterOrEqual(t, c.Sign(), 0)
	}
}

func TestSolveRejectsTwoRecursiveNodes(t *testing.T) {
	g := cfg.New("two", cfg.LangGo, 0, [][2]int{{0, 1}, {1, 2}}, map[int]int{0: 1, 1: 1})
	sys, err := BuildSystem(g)
	require.NoError(t, err)
	_, err = Solve(sys)
	require.ErrorIs(t, err, ErrUnsupportedRecursionDegree)
}

func TestSolveRejectsDegreeBeyondCubic(t *testing.T) {
	g := cfg.New("deep", cfg.LangGo, 0, [][2]int{{0, 1}}, map[int]int{0: 3})
	sys, err := BuildSystem(g)
	require.NoError(t, err)
	_, err = Solve(sys)
	require.ErrorIs(t, err, ErrUnsupportedRecursionDegree)
}

func TestSolveSeriesMatchesNPathForDAGs(t *testing.T) {
	// For a finite DAG the series total must equal the acyclic path count.
	g := cfg.New("wide", cfg.LangGo, 0, [][2]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 4}, {2, 4}, {3, 4}, {4, 5}, {4, 6},
	}, nil)
	sol := solveGraph(t, g)

	total := new(big.Rat)
	for _, c := range sol.Series {
		total.Add(total, c)
	}
	assert.Equal(t, 0, total.Cmp(ratInt(6)))
}
