//go:build cgo

package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store using KuzuDB as the backend. It requires
// CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// the given directory path, so result databases survive across runs.
// KuzuDB creates the leaf directory itself for new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// InitSchema creates the result table if it does not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	ddl := `CREATE NODE TABLE IF NOT EXISTS Result(
		id STRING,
		graph_name STRING,
		metric_name STRING,
		value STRING,
		sentinel STRING,
		reason STRING,
		elapsed_us INT64,
		has_vector BOOLEAN,
		v0 DOUBLE, v1 DOUBLE, v2 DOUBLE, v3 DOUBLE, v4 DOUBLE,
		PRIMARY KEY(id)
	)`
	res, err := s.conn.Query(ddl)
	if err != nil {
		return fmt.Errorf("kuzu: init schema: %w", err)
	}
	res.Close()
	return nil
}

// Put inserts a record, deleting any previous record for the same key
// first so reruns overwrite in place.
func (s *KuzuStore) Put(_ context.Context, rec Record) error {
	id := resultID(rec.Graph, rec.Metric)
	if err := s.exec(
		"MATCH (r:Result {id: $id}) DELETE r",
		map[string]any{"id": id},
	); err != nil {
		return err
	}
	return s.exec(
		`CREATE (r:Result {
			id: $id,
			graph_name: $graph,
			metric_name: $metric,
			value: $value,
			sentinel: $sentinel,
			reason: $reason,
			elapsed_us: $elapsed,
			has_vector: $hv,
			v0: $v0, v1: $v1, v2: $v2, v3: $v3, v4: $v4
		})`,
		map[string]any{
			"id":       id,
			"graph":    rec.Graph,
			"metric":   rec.Metric,
			"value":    rec.Value,
			"sentinel": rec.Sentinel,
			"reason":   rec.Reason,
			"elapsed":  rec.Elapsed.Microseconds(),
			"hv":       rec.HasVector,
			"v0":       rec.Vector[0],
			"v1":       rec.Vector[1],
			"v2":       rec.Vector[2],
			"v3":       rec.Vector[3],
			"v4":       rec.Vector[4],
		},
	)
}

const recordColumns = `r.graph_name, r.metric_name, r.value, r.sentinel,
	r.reason, r.elapsed_us, r.has_vector, r.v0, r.v1, r.v2, r.v3, r.v4`

// Get returns the record for a key, or ErrNotFound.
func (s *KuzuStore) Get(_ context.Context, graph, metric string) (*Record, error) {
	rows, err := s.query(
		"MATCH (r:Result {id: $id}) RETURN "+recordColumns,
		map[string]any{"id": resultID(graph, metric)},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	rec := rowToRecord(rows[0])
	return &rec, nil
}

// List returns all records ordered by graph name, then metric name.
func (s *KuzuStore) List(_ context.Context) ([]Record, error) {
	rows, err := s.query(
		"MATCH (r:Result) RETURN "+recordColumns+
			" ORDER BY r.graph_name, r.metric_name",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToRecord(r))
	}
	return out, nil
}

// Stats returns record counts.
func (s *KuzuStore) Stats(ctx context.Context) (*Stats, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	graphs := map[string]bool{}
	sentinels := 0
	for _, rec := range recs {
		graphs[rec.Graph] = true
		if !rec.OK() {
			sentinels++
		}
	}
	return &Stats{
		Records:   len(recs),
		Sentinels: sentinels,
		Graphs:    len(graphs),
	}, nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result
// rows. Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// resultID produces a deterministic identifier: "graph:metric".
func resultID(graph, metric string) string {
	return graph + ":" + metric
}

// rowToRecord converts a 12-column result row into a Record.
// Column order matches recordColumns.
func rowToRecord(r []any) Record {
	rec := Record{
		Graph:     toString(r[0]),
		Metric:    toString(r[1]),
		Value:     toString(r[2]),
		Sentinel:  toString(r[3]),
		Reason:    toString(r[4]),
		Elapsed:   time.Duration(toInt64(r[5])) * time.Microsecond,
		HasVector: toBool(r[6]),
	}
	for i := 0; i < 5; i++ {
		rec.Vector[i] = toFloat64(r[7+i])
	}
	return rec
}

// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
