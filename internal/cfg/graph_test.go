package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesSortedNodeSet(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{2, 3}, {0, 2}, {0, 1}, {1, 3}}, nil)
	assert.Equal(t, []int{0, 1, 2, 3}, g.Nodes)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
}

func TestNewIncludesIsolatedEntry(t *testing.T) {
	g := New("g", LangGo, 9, [][2]int{{0, 1}}, nil)
	assert.Equal(t, []int{0, 1, 9}, g.Nodes)
}

func TestSuccessorsKeepEdgeOrder(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{0, 2}, {0, 1}, {1, 3}, {2, 3}}, nil)
	succ := g.Successors()
	assert.Equal(t, []int{2, 1}, succ[0])
	assert.Equal(t, []int{3}, succ[1])
}

func TestTerminal(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{0, 1}, {1, 2}}, nil)
	assert.False(t, g.Terminal(0))
	assert.False(t, g.Terminal(1))
	assert.True(t, g.Terminal(2))
}

func TestValidateEmptyGraph(t *testing.T) {
	g := New("g", LangGo, 0, nil, nil)
	require.ErrorIs(t, g.Validate(), ErrEmptyGraph)
}

func TestValidateBadEntry(t *testing.T) {
	g := &Graph{Name: "g", Nodes: []int{0, 1}, Edges: [][2]int{{0, 1}}, Entry: 7}
	require.ErrorIs(t, g.Validate(), ErrMalformedGraph)
}

func TestValidateUnknownEdgeNode(t *testing.T) {
	g := &Graph{Name: "g", Nodes: []int{0, 1}, Edges: [][2]int{{0, 1}, {1, 5}}, Entry: 0}
	require.ErrorIs(t, g.Validate(), ErrMalformedGraph)
}

func TestValidateRejectsCycle(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{0, 1}, {1, 2}, {2, 0}}, nil)
	require.ErrorIs(t, g.Validate(), ErrCyclicGraph)
}

func TestValidateAcceptsDiamond(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, nil)
	require.NoError(t, g.Validate())
}

func TestTopoOrderPrecedesSuccessors(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 4}}, nil)
	order, err := g.TopoOrder()
	require.NoError(t, err)

	// Only nodes with outgoing edges appear.
	assert.NotContains(t, order, 4)

	pos := map[int]int{}
	for i, n := range order {
		pos[n] = i
	}
	for _, e := range g.Edges {
		if _, ok := pos[e[1]]; ok {
			assert.Less(t, pos[e[0]], pos[e[1]], "edge (%d,%d)", e[0], e[1])
		}
	}
}

func TestTopoOrderDeterministic(t *testing.T) {
	edges := [][2]int{{0, 3}, {0, 1}, {1, 4}, {3, 4}, {1, 2}, {2, 4}}
	first, err := New("g", LangGo, 0, edges, nil).TopoOrder()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := New("g", LangGo, 0, edges, nil).TopoOrder()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRecursionAt(t *testing.T) {
	g := New("g", LangGo, 0, [][2]int{{0, 1}}, map[int]int{0: 2})
	assert.Equal(t, 2, g.RecursionAt(0))
	assert.Equal(t, 0, g.RecursionAt(1))
}
