package runbooks

import "errors"

// Catalog errors.
var (
	// ErrNoSteps rejects runbooks that could never execute.
	ErrNoSteps = errors.New("runbook must have at least one step")
)
