// Package analysis formulates and solves the modified nodal
// analysis equations of a flattened circuit: exactly over the
// symbolic frequency variable, or numerically over a frequency
// sweep.
package analysis

import (
	"fmt"

	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// SymbolicAC solves the small-signal network equations as exact
// rational functions of the complex frequency.
type SymbolicAC struct {
	ckt *circuit.SubCircuit
}

func NewSymbolicAC(ckt *circuit.SubCircuit) *SymbolicAC {
	return &SymbolicAC{ckt: ckt}
}

// Solve flattens the circuit, assembles the MNA system with the
// frequency variable s and solves it exactly. With complexFreq
// false, s is taken as an angular frequency and the solve runs at
// j*s. The circuit is not modified; solving never returns partial
// results.
func (a *SymbolicAC) Solve(s symbolic.Expr, complexFreq bool) (*Result, error) {
	sEff := s
	if !complexFreq {
		sEff = symbolic.J.Mul(s)
	}

	sys := newSystem(a.ckt)
	res := &Result{
		ckt:      a.ckt,
		s:        sEff,
		voltages: map[string]symbolic.Expr{"gnd": symbolic.Zero()},
		currents: make(map[circuit.Branch]symbolic.Expr),
		insts:    sys.insts,
	}
	if sys.size() == 0 {
		return res, nil
	}

	m := matrix.NewSymbolicMatrix(sys.size())
	if err := sys.stamp(m, sEff); err != nil {
		return nil, err
	}
	x, err := m.Solve()
	if err != nil {
		return nil, fmt.Errorf("solving MNA system: %w", err)
	}

	for i, n := range sys.nodes {
		res.voltages[n.Name()] = x[i]
	}
	for i, b := range sys.branches {
		res.currents[b] = x[len(sys.nodes)+i]
	}
	return res, nil
}
