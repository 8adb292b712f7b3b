package analysis

import (
	"fmt"

	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// system is one flattening snapshot of a circuit with MNA indices
// assigned: non-ground nodes take rows 1..N in flattening order,
// branches take rows N+1..N+M. Ground is row 0 and is excluded from
// the unknowns.
type system struct {
	nodes       []circuit.Node
	nodeIdx     map[circuit.Node]int
	branches    []circuit.Branch
	branchNames []string
	insts       []circuit.FlatInstance
}

func newSystem(ckt *circuit.SubCircuit) *system {
	sys := &system{nodeIdx: make(map[circuit.Node]int)}
	for _, n := range ckt.Nodes() {
		if n == circuit.Gnd {
			continue
		}
		sys.nodes = append(sys.nodes, n)
		sys.nodeIdx[n] = len(sys.nodes)
	}
	// branch rows follow the leaf walk, which is also the order of
	// ckt.Branches()
	sys.insts = ckt.Instances()
	for _, fi := range sys.insts {
		if _, nested := fi.Elem.(*circuit.SubCircuit); nested {
			continue
		}
		for range fi.Branches {
			sys.branchNames = append(sys.branchNames, fi.Path)
		}
		sys.branches = append(sys.branches, fi.Branches...)
	}
	return sys
}

func (sys *system) size() int {
	return len(sys.nodes) + len(sys.branches)
}

// stamp lets every leaf instance add its contribution. Stamps
// accumulate: elements sharing a node pair sum into the same cells.
func (sys *system) stamp(m matrix.DeviceMatrix, s symbolic.Expr) error {
	branchRow := len(sys.nodes)
	for _, fi := range sys.insts {
		if _, nested := fi.Elem.(*circuit.SubCircuit); nested {
			continue
		}
		nodes := make([]int, len(fi.Nodes))
		for i, n := range fi.Nodes {
			if n == circuit.Gnd {
				continue
			}
			nodes[i] = sys.nodeIdx[n]
		}
		branches := make([]int, len(fi.Branches))
		for i := range branches {
			branchRow++
			branches[i] = branchRow
		}
		if err := fi.Elem.Stamp(m, nodes, branches, s); err != nil {
			return fmt.Errorf("stamping %s: %w", fi.Path, err)
		}
	}
	return nil
}
