package results

import (
	"context"
	"sort"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using a Go map. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	records map[recordKey]Record
}

type recordKey struct {
	graph  string
	metric string
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[recordKey]Record)}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error { return nil }

// Put stores a record, replacing any previous record for the same key.
func (m *MemStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{graph: rec.Graph, metric: rec.Metric}] = rec
	return nil
}

// Get returns the record for the key, or ErrNotFound.
func (m *MemStore) Get(_ context.Context, graph, metric string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[recordKey{graph: graph, metric: metric}]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// List returns all records ordered by graph name, then metric name.
func (m *MemStore) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Graph != out[j].Graph {
			return out[i].Graph < out[j].Graph
		}
		return out[i].Metric < out[j].Metric
	})
	return out, nil
}

// Stats returns record counts.
func (m *MemStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	graphs := map[string]bool{}
	sentinels := 0
	for k, rec := range m.records {
		graphs[k.graph] = true
		if !rec.OK() {
			sentinels++
		}
	}
	return &Stats{
		Records:   len(m.records),
		Sentinels: sentinels,
		Graphs:    len(graphs),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }
