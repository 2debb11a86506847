package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
	"github.com/Eli-Pregerson/qDat/internal/metric"
)

// convertOne parses source and requires exactly one resulting graph.
func convertOne(t *testing.T, path, source string, lang cfg.Language) *cfg.Graph {
	t.Helper()
	graphs, err := NewConverter().Convert(context.Background(), path, []byte(source), lang)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	return graphs[0]
}

// npath evaluates NPath complexity on a converted graph.
func npath(t *testing.T, g *cfg.Graph) int64 {
	t.Helper()
	v, err := metric.NewNPath().Evaluate(context.Background(), g)
	require.NoError(t, err)
	return v.Int
}

func TestConvertGoBranch(t *testing.T) {
	src := `package p

func decide(x int) int {
	if x > 0 {
		return 1
	}
	return 2
}
`
	g := convertOne(t, "main.go", src, cfg.LangGo)
	assert.Equal(t, "main.go:decide", g.Name)
	assert.Equal(t, cfg.LangGo, g.Language)
	require.NoError(t, g.Validate())
	assert.Equal(t, int64(2), npath(t, g))
}

func TestConvertGoIfElseChain(t *testing.T) {
	src := `package p

func classify(x int) int {
	if x < 0 {
		return -1
	} else if x == 0 {
		return 0
	} else {
		return 1
	}
}
`
	g := convertOne(t, "main.go", src, cfg.LangGo)
	require.NoError(t, g.Validate())
	assert.Equal(t, int64(3), npath(t, g))
}

func TestConvertPythonRecursion(t *testing.T) {
	src := `def fact(n):
    if n <= 1:
        return 1
    return n * fact(n - 1)
`
	g := convertOne(t, "fact.py", src, cfg.LangPython)
	assert.Equal(t, "fact.py:fact", g.Name)
	assert.Equal(t, cfg.LangPython, g.Language)
	assert.Equal(t, 4, g.LOC)

	total := 0
	for _, k := range g.Recursion {
		total += k
	}
	assert.Equal(t, 1, total, "one self-call site expected")
}

func TestConvertPythonElifChain(t *testing.T) {
	src := `def classify(x):
    if x < 0:
        y = 1
    elif x == 0:
        y = 2
    else:
        y = 3
    return y
`
	g := convertOne(t, "classify.py", src, cfg.LangPython)
	require.NoError(t, g.Validate())
	assert.Equal(t, int64(3), npath(t, g))
}

func TestConvertLoopIsFlattenedAcyclic(t *testing.T) {
	src := `def count(n):
    total = 0
    while n > 0:
        total = total + n
        n = n - 1
    return total
`
	g := convertOne(t, "count.py", src, cfg.LangPython)
	require.NoError(t, g.Validate(), "loops must not introduce cycles")
	assert.Equal(t, int64(2), npath(t, g), "loop body taken or skipped")
}

func TestConvertSkipsNestedDefinitionBodies(t *testing.T) {
	src := `def outer(n):
    def inner(m):
        if m > 0:
            return outer(m)
        return 0
    return inner(n)
`
	graphs, err := NewConverter().Convert(context.Background(), "nested.py", []byte(src), cfg.LangPython)
	require.NoError(t, err)
	require.Len(t, graphs, 2)

	var outer *cfg.Graph
	for _, g := range graphs {
		if g.Name == "nested.py:outer" {
			outer = g
		}
	}
	require.NotNil(t, outer)
	assert.Empty(t, outer.Recursion, "outer call inside inner belongs to inner's graph")
}

func TestConvertMultipleFunctions(t *testing.T) {
	src := `package p

func a() {}

func b() {}
`
	graphs, err := NewConverter().Convert(context.Background(), "two.go", []byte(src), cfg.LangGo)
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	assert.Equal(t, "two.go:a", graphs[0].Name)
	assert.Equal(t, "two.go:b", graphs[1].Name)
}

func TestConvertUnsupportedLanguage(t *testing.T) {
	_, err := NewConverter().Convert(context.Background(), "x.txt", nil, cfg.LangUnknown)
	require.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]cfg.Language{
		"a/b/main.go":  cfg.LangGo,
		"pkg/mod.py":   cfg.LangPython,
		"src/lib.rs":   cfg.LangRust,
		"web/app.ts":   cfg.LangTypeScript,
		"web/view.tsx": cfg.LangTypeScript,
		"README.md":    cfg.LangUnknown,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectLanguage(path), path)
	}
}
