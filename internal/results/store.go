// Package results persists metric outcomes keyed by (graph, metric).
// Two backends implement the same Store interface: an in-memory map for
// tests and single runs, and a KuzuDB-backed store for persistent
// result databases.
package results

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Eli-Pregerson/qDat/internal/apc"
	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("results: record not found")

// Record is one persisted metric outcome. Value holds the rendered
// metric when the evaluation succeeded; otherwise Sentinel and Reason
// describe the failure. Path-complexity records additionally carry the
// five-field APC vector, which is the sentinel vector on failure.
type Record struct {
	Graph    string
	Metric   string
	Value    string
	Sentinel string
	Reason   string
	Elapsed  time.Duration

	Vector    [5]float64
	HasVector bool
}

// OK reports whether the record holds a real value.
func (r Record) OK() bool { return r.Sentinel == "" }

// FromOutcome converts a scheduler outcome into a Record. Reruns of the
// same (graph, metric) pair produce records that Put overwrites in place.
func FromOutcome(key schedule.Key, out schedule.Outcome) Record {
	rec := Record{
		Graph:   key.Graph,
		Metric:  key.Metric,
		Elapsed: out.Elapsed,
	}
	if out.OK {
		rec.Value = out.Value.String()
	} else {
		rec.Sentinel = out.Sentinel
		rec.Reason = out.Reason
	}

	if key.Metric == "Path Complexity" {
		rec.HasVector = true
		if out.OK && out.Value.APC != nil {
			rec.Vector = out.Value.APC.Vector()
		} else {
			rec.Vector = apc.SentinelVector()
		}
	}
	return rec
}

// Stats summarizes a store's contents.
type Stats struct {
	Records   int
	Sentinels int
	Graphs    int
}

// Store is the persistence contract for metric outcomes.
// Implementations: KuzuStore (persistent), MemStore (in-memory).
type Store interface {
	io.Closer

	// InitSchema prepares backend storage. Called once before any Put.
	InitSchema(ctx context.Context) error

	// Put inserts a record, replacing any existing record for the same
	// (graph, metric) key. Reruns therefore converge to the latest value.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for a key, or ErrNotFound.
	Get(ctx context.Context, graph, metric string) (*Record, error)

	// List returns all records ordered by graph name, then metric name.
	List(ctx context.Context) ([]Record, error)

	// Stats returns record counts.
	Stats(ctx context.Context) (*Stats, error)
}
