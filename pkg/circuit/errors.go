package circuit

import "errors"

// Sentinel errors for circuit construction, probing and result
// queries. Call sites wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound is returned when an instance name or dotted path
	// does not resolve to anything in the hierarchy.
	ErrNotFound = errors.New("not found")

	// ErrArity is returned when the number of nodes offered to an
	// element or subcircuit does not match its declared terminals.
	ErrArity = errors.New("terminal count mismatch")

	// ErrAlreadyProbed is returned by SaveCurrent when the terminal
	// already carries a probe branch.
	ErrAlreadyProbed = errors.New("terminal already probed")

	// ErrUnresolvedCurrent is returned when a terminal current is
	// requested and neither a branch nor an unambiguous derivation
	// exists for it.
	ErrUnresolvedCurrent = errors.New("current not resolvable")

	// ErrUnknownNode is returned when a voltage is requested for a
	// node absent from the flattened circuit.
	ErrUnknownNode = errors.New("unknown node")
)
