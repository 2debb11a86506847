package cfg

import "errors"

// Input-side failures. Both unwrap as rejected-input conditions; the
// scheduler converts them into sentinel results for the offending task.
var (
	// ErrEmptyGraph rejects a graph with an empty edge list.
	ErrEmptyGraph = errors.New("empty edge list")

	// ErrCyclicGraph rejects a graph whose edge relation contains a cycle.
	// Loops must be expressed as recursion multiplicities, not back edges.
	ErrCyclicGraph = errors.New("cyclic edge relation")

	// ErrMalformedGraph rejects a graph with dangling references.
	ErrMalformedGraph = errors.New("malformed graph")
)
