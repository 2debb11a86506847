package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eli-Pregerson/qDat/internal/results"
	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

func TestBuildReportGroupsByGraph(t *testing.T) {
	recs := []results.Record{
		{Graph: "fib", Metric: "Cyclomatic Complexity", Value: "2", Elapsed: 250 * time.Microsecond},
		{
			Graph: "fib", Metric: "Path Complexity", Value: "(APC: 1*2^n, Path Complexity: ...)",
			HasVector: true, Vector: [5]float64{3, 1, 2, 0, 0},
		},
		{
			Graph: "huge", Metric: "Path Complexity",
			Sentinel:  schedule.SentinelNotAvailable,
			Reason:    schedule.ReasonTimeout,
			HasVector: true, Vector: [5]float64{-1, -1, -1, -1, -1},
		},
	}

	report := BuildReport(recs)
	assert.Equal(t, 3, report.Records)
	assert.Equal(t, 1, report.Sentinels)
	require.Len(t, report.Graphs, 2)

	fib := report.Graphs[0]
	assert.Equal(t, "fib", fib.Name)
	require.Len(t, fib.Metrics, 2)
	assert.Equal(t, "2", fib.Metrics[0].Value)
	assert.InDelta(t, 0.25, fib.Metrics[0].ElapsedMS, 1e-9)
	require.NotNil(t, fib.Metrics[1].Vector)
	assert.Equal(t, []float64{3, 1, 2, 0, 0}, *fib.Metrics[1].Vector)

	huge := report.Graphs[1]
	require.Len(t, huge.Metrics, 1)
	assert.Equal(t, schedule.SentinelNotAvailable, huge.Metrics[0].Sentinel)
	assert.Equal(t, schedule.ReasonTimeout, huge.Metrics[0].Reason)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	recs := []results.Record{
		{Graph: "fib", Metric: "NPath Complexity", Value: "2"},
	}

	var sb strings.Builder
	require.NoError(t, WriteJSON(&sb, recs))

	var report Report
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &report))
	require.Len(t, report.Graphs, 1)
	assert.Equal(t, "fib", report.Graphs[0].Name)
	assert.Equal(t, "NPath Complexity", report.Graphs[0].Metrics[0].Metric)
	assert.NotEmpty(t, report.ExportedAt)
}
