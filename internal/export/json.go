package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/Eli-Pregerson/qDat/internal/results"
)

// Report is the top-level JSON export structure.
type Report struct {
	ExportedAt string        `json:"exportedAt"`
	Records    int           `json:"records"`
	Sentinels  int           `json:"sentinels"`
	Graphs     []GraphExport `json:"graphs"`
}

// GraphExport groups one graph's metric rows.
type GraphExport struct {
	Name    string         `json:"name"`
	Metrics []MetricExport `json:"metrics"`
}

// MetricExport describes a single persisted metric outcome.
type MetricExport struct {
	Metric    string     `json:"metric"`
	Value     string     `json:"value,omitempty"`
	Sentinel  string     `json:"sentinel,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	ElapsedMS float64    `json:"elapsedMs"`
	Vector    *[]float64 `json:"apcVector,omitempty"`
}

// BuildReport groups records by graph, preserving the store's
// (graph, metric) ordering.
func BuildReport(recs []results.Record) *Report {
	report := &Report{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Records:    len(recs),
	}

	var current *GraphExport
	for _, rec := range recs {
		if current == nil || current.Name != rec.Graph {
			report.Graphs = append(report.Graphs, GraphExport{Name: rec.Graph})
			current = &report.Graphs[len(report.Graphs)-1]
		}
		m := MetricExport{
			Metric:    rec.Metric,
			Value:     rec.Value,
			Sentinel:  rec.Sentinel,
			Reason:    rec.Reason,
			ElapsedMS: float64(rec.Elapsed.Microseconds()) / 1000,
		}
		if rec.Sentinel != "" {
			report.Sentinels++
		}
		if rec.HasVector {
			v := rec.Vector[:]
			vec := make([]float64, len(v))
			copy(vec, v)
			m.Vector = &vec
		}
		current.Metrics = append(current.Metrics, m)
	}
	return report
}

// WriteJSON writes the grouped report as indented JSON.
func WriteJSON(w io.Writer, recs []results.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(recs))
}
