package device

import (
	"fmt"

	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

type Resistor struct {
	BaseDevice
}

var _ circuit.CurrentDeriver = (*Resistor)(nil)

// NewResistor connects an admittance 1/r between plus and minus.
// Terminals accept Node values or bare string/int identifiers.
func NewResistor(plus, minus any, r symbolic.Expr) *Resistor {
	return &Resistor{BaseDevice: newBaseDevice(twoTerminal, r, plus, minus)}
}

func (r *Resistor) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error {
	if r.value.IsZero() {
		return fmt.Errorf("resistor: zero resistance")
	}
	g := symbolic.One().Div(r.value)
	stampAdmittance(m, nodes[0], nodes[1], g)
	return nil
}

func (r *Resistor) TerminalCurrent(term string, v []symbolic.Expr, s symbolic.Expr) (symbolic.Expr, error) {
	i := v[0].Sub(v[1]).Div(r.value)
	switch term {
	case "plus":
		return i, nil
	case "minus":
		return i.Neg(), nil
	}
	return symbolic.Expr{}, fmt.Errorf("resistor terminal %q: %w", term, circuit.ErrNotFound)
}

// stampAdmittance adds the two-terminal admittance pattern, guarding
// ground (index 0).
func stampAdmittance(m matrix.DeviceMatrix, n1, n2 int, y symbolic.Expr) {
	if n1 != 0 {
		m.AddElement(n1, n1, y)
		if n2 != 0 {
			m.AddElement(n1, n2, y.Neg())
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			m.AddElement(n2, n1, y.Neg())
		}
		m.AddElement(n2, n2, y)
	}
}
