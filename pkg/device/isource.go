package device

import (
	"fmt"

	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// CurrentSource drives a fixed current through itself from plus to
// minus, pulling it out of the plus node and injecting it into the
// minus node. No branch is introduced; the current is known.
type CurrentSource struct {
	BaseDevice
}

var _ circuit.CurrentDeriver = (*CurrentSource)(nil)

// NewCurrentSource builds an independent source with the given AC
// value.
func NewCurrentSource(plus, minus any, iac symbolic.Expr) *CurrentSource {
	return &CurrentSource{BaseDevice: newBaseDevice(twoTerminal, iac, plus, minus)}
}

func (i *CurrentSource) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error {
	n1, n2 := nodes[0], nodes[1]
	if n1 != 0 {
		m.AddRHS(n1, i.value.Neg())
	}
	if n2 != 0 {
		m.AddRHS(n2, i.value)
	}
	return nil
}

func (i *CurrentSource) TerminalCurrent(term string, v []symbolic.Expr, s symbolic.Expr) (symbolic.Expr, error) {
	switch term {
	case "plus":
		return i.value, nil
	case "minus":
		return i.value.Neg(), nil
	}
	return symbolic.Expr{}, fmt.Errorf("current source terminal %q: %w", term, circuit.ErrNotFound)
}
