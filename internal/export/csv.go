// Package export renders stored metric results as CSV: one flat table
// of metric rows, and one table of APC feature vectors for downstream
// model tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Eli-Pregerson/qDat/internal/results"
)

// WriteMetricsCSV writes one row per record with the rendered value.
// Sentinel records show the sentinel in the value column and the reason
// alongside it, so a rerun log stays a single flat table.
func WriteMetricsCSV(w io.Writer, recs []results.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"graph_name", "metric_name", "value", "reason", "elapsed_time"}); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, rec := range recs {
		value := rec.Value
		if !rec.OK() {
			value = rec.Sentinel
		}
		row := []string{
			rec.Graph,
			rec.Metric,
			value,
			rec.Reason,
			strconv.FormatFloat(rec.Elapsed.Seconds(), 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteVectorCSV writes the five-field APC feature vector for every
// record that carries one. Records without vectors (the counting
// metrics) are skipped.
func WriteVectorCSV(w io.Writer, recs []results.Record) error {
	cw := csv.NewWriter(w)
	header := []string{
		"graph_name",
		"APC type",
		"APC exp coeff",
		"APC exp base",
		"APC poly coeff",
		"APC poly power",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, rec := range recs {
		if !rec.HasVector {
			continue
		}
		row := make([]string, 0, 6)
		row = append(row, rec.Graph)
		for _, v := range rec.Vector {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
