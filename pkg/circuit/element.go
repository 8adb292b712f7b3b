package circuit

import (
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// Element is a circuit primitive. Implementations keep a fixed,
// ordered terminal list and the nodes bound to those terminals.
// SubCircuit implements Element too, which is what makes nesting
// work.
type Element interface {
	// Terminals returns the fixed terminal-name list of the element
	// class, in declared order.
	Terminals() []string

	// Nodes returns the nodes bound per terminal. A SubCircuit
	// returns its full flattened node list; its first
	// len(Terminals()) entries are the bound terminal nodes.
	Nodes() []Node

	// SetNodes rebinds terminal nodes. Used by the current-probe
	// pass; len(nodes) must be at least len(Terminals()).
	SetNodes(nodes []Node)

	// Branches returns the branches the element itself introduces,
	// built from its terminal nodes in declared order.
	Branches() []Branch

	// Stamp adds the element's MNA contribution. nodes and branches
	// carry the global 1-based row/column index for each terminal
	// node and each introduced branch; ground is index 0 and must
	// not be stamped.
	Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error
}

// CurrentDeriver is implemented by elements whose terminal current
// follows directly from the solved node voltages, without a branch
// unknown. v holds the voltage expression at each terminal, in
// terminal order. The returned expression is the current flowing
// from the node into the named terminal.
type CurrentDeriver interface {
	TerminalCurrent(term string, v []symbolic.Expr, s symbolic.Expr) (symbolic.Expr, error)
}

// FlatInstance is one element of the flattened hierarchy, with its
// dotted instance path and its nodes and branches translated into
// the flattening root's namespace. SubCircuit instances appear in
// the list too, followed by their members.
type FlatInstance struct {
	Path     string
	Elem     Element
	Nodes    []Node
	Branches []Branch
}

func terminalIndex(e Element, term string) int {
	for i, t := range e.Terminals() {
		if t == term {
			return i
		}
	}
	return -1
}
