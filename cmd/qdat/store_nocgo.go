//go:build !cgo

package main

import (
	"fmt"

	"github.com/Eli-Pregerson/qDat/internal/results"
)

// openStore opens the in-memory store. Persistent KuzuDB stores need a
// CGO-enabled build.
func openStore(path string) (results.Store, error) {
	if path == "" || path == "memory" {
		return results.NewMemStore(), nil
	}
	return nil, fmt.Errorf("store %q requires a cgo build of qdat", path)
}
