//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eli-Pregerson/qDat/internal/export"
	"github.com/Eli-Pregerson/qDat/internal/lang"
	"github.com/Eli-Pregerson/qDat/internal/metric"
	"github.com/Eli-Pregerson/qDat/internal/results"
	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

// TestPipeline_E2E_SourceToCSV drives the whole stack: parse source with
// tree-sitter, build CFGs, evaluate all metrics over the worker pool,
// persist the outcomes, and export both CSV reports.
func TestPipeline_E2E_SourceToCSV(t *testing.T) {
	dir := t.TempDir()
	src := `def fact(n):
    if n <= 1:
        return 1
    return n * fact(n - 1)

def classify(x):
    if x < 0:
        return -1
    elif x == 0:
        return 0
    else:
        return 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.py"), []byte(src), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	source, err := os.ReadFile(filepath.Join(dir, "demo.py"))
	require.NoError(t, err)
	graphs, err := lang.NewConverter().Convert(ctx, "demo.py", source, lang.DetectLanguage("demo.py"))
	require.NoError(t, err)
	require.Len(t, graphs, 2)

	reporter := schedule.NewReporter()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range reporter.Subscribe() {
			// discard
		}
	}()

	outcomes, err := schedule.Run(ctx, graphs, metric.All(), schedule.Options{
		PoolSize: 4,
		Reporter: reporter,
	})
	require.NoError(t, err)
	reporter.Close()
	<-drained

	// Every graph gets all four metrics: Python graphs carry LOC.
	require.Len(t, outcomes, 8)

	store := results.NewMemStore()
	require.NoError(t, store.InitSchema(ctx))
	for key, out := range outcomes {
		require.NoError(t, store.Put(ctx, results.FromOutcome(key, out)))
	}

	fact, err := store.Get(ctx, "demo.py:fact", "Path Complexity")
	require.NoError(t, err)
	require.True(t, fact.OK(), "fact APC failed: %s", fact.Reason)
	assert.Contains(t, fact.Value, "^n", "self-recursive function should classify exponential")
	require.True(t, fact.HasVector)
	// Vector layout [type, exp coeff, exp base, poly coeff, poly power];
	// the base is the reciprocal discriminant root (sqrt(2)+1)^(2/3).
	assert.InDelta(t, 3, fact.Vector[0], 1e-9)
	assert.InDelta(t, 1, fact.Vector[1], 1e-9)
	assert.InDelta(t, 1.7996, fact.Vector[2], 1e-3)

	branch, err := store.Get(ctx, "demo.py:classify", "NPath Complexity")
	require.NoError(t, err)
	assert.Equal(t, "3", branch.Value)

	loc, err := store.Get(ctx, "demo.py:fact", "Lines of Code")
	require.NoError(t, err)
	assert.Equal(t, "4", loc.Value)

	recs, err := store.List(ctx)
	require.NoError(t, err)

	var metrics, vectors strings.Builder
	require.NoError(t, export.WriteMetricsCSV(&metrics, recs))
	require.NoError(t, export.WriteVectorCSV(&vectors, recs))

	metricLines := strings.Split(strings.TrimSpace(metrics.String()), "\n")
	assert.Len(t, metricLines, 9, "header plus one row per outcome")

	vectorLines := strings.Split(strings.TrimSpace(vectors.String()), "\n")
	assert.Len(t, vectorLines, 3, "header plus one vector per graph")
	assert.Contains(t, vectors.String(), "demo.py:classify,0,0,0,3,0")
}
