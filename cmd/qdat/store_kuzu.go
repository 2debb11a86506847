//go:build cgo

package main

import "github.com/Eli-Pregerson/qDat/internal/results"

// openStore opens the in-memory store by default, or a file-backed
// KuzuDB store when a path is given.
func openStore(path string) (results.Store, error) {
	if path == "" || path == "memory" {
		return results.NewMemStore(), nil
	}
	return results.NewKuzuFileStore(path)
}
