package models

import (
	"fmt"
	"regexp"
)

// MaxGraphNameLength caps graph names accepted from callers.
const MaxGraphNameLength = 128

var graphNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateGraphName checks that name is safe to use as a path segment and
// storage key.
func ValidateGraphName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidGraphName)
	}
	if len(name) > MaxGraphNameLength {
		return fmt.Errorf("%w: name exceeds maximum length of %d", ErrInvalidGraphName, MaxGraphNameLength)
	}
	if !graphNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q contains disallowed characters", ErrInvalidGraphName, name)
	}

	return nil
}

// GraphFileName returns the on-disk file name for a named visit graph.
func GraphFileName(name string) string {
	return "visit_graph_" + name + ".json"
}
