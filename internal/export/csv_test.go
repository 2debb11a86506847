package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eli-Pregerson/qDat/internal/results"
	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

func TestWriteMetricsCSV(t *testing.T) {
	recs := []results.Record{
		{Graph: "fib", Metric: "NPath Complexity", Value: "2", Elapsed: 1500 * time.Microsecond},
		{
			Graph: "huge", Metric: "Path Complexity",
			Sentinel: schedule.SentinelNotAvailable,
			Reason:   schedule.ReasonTimeout,
			Elapsed:  1200 * time.Second,
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteMetricsCSV(&sb, recs))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "graph_name,metric_name,value,reason,elapsed_time", lines[0])
	assert.Equal(t, "fib,NPath Complexity,2,,0.001500", lines[1])
	assert.Equal(t, "huge,Path Complexity,NA,Timeout,1200.000000", lines[2])
}

func TestWriteVectorCSVSkipsCountingMetrics(t *testing.T) {
	recs := []results.Record{
		{Graph: "fib", Metric: "Cyclomatic Complexity", Value: "2"},
		{
			Graph: "fib", Metric: "Path Complexity", Value: "(APC: 1*2^n, Path Complexity: ...)",
			HasVector: true, Vector: [5]float64{3, 1, 2, 0, 0},
		},
		{
			Graph: "stuck", Metric: "Path Complexity",
			Sentinel:  schedule.SentinelNotAvailable,
			Reason:    schedule.ReasonTimeout,
			HasVector: true, Vector: [5]float64{-1, -1, -1, -1, -1},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteVectorCSV(&sb, recs))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "graph_name,APC type,APC exp coeff,APC exp base,APC poly coeff,APC poly power", lines[0])
	assert.Equal(t, "fib,3,1,2,0,0", lines[1])
	assert.Equal(t, "stuck,-1,-1,-1,-1,-1", lines[2])
}
