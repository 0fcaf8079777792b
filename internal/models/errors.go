package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph lookups.
var (
	ErrGraphNotFound    = errors.New("graph not found")
	ErrInvalidGraphName = errors.New("invalid graph name")
)

// Sentinel errors for graph decoding.
var (
	ErrMalformedGraph = errors.New("malformed graph")
	ErrMalformedNode  = errors.New("malformed node")

	// ErrCorruptGraph marks a stored graph that no longer decodes. It is
	// reported alongside ErrMalformedGraph.
	ErrCorruptGraph = errors.New("stored graph is corrupt")
)

// ErrMissingField returns an error indicating a required node field is absent.
func ErrMissingField(nodeID, field string) error {
	return fmt.Errorf("%w: node %q is missing %s", ErrMalformedNode, nodeID, field)
}
