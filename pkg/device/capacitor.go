package device

import (
	"fmt"

	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

type Capacitor struct {
	BaseDevice
}

var _ circuit.CurrentDeriver = (*Capacitor)(nil)

// NewCapacitor connects an admittance s*c between plus and minus.
func NewCapacitor(plus, minus any, c symbolic.Expr) *Capacitor {
	return &Capacitor{BaseDevice: newBaseDevice(twoTerminal, c, plus, minus)}
}

func (c *Capacitor) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error {
	stampAdmittance(m, nodes[0], nodes[1], s.Mul(c.value))
	return nil
}

func (c *Capacitor) TerminalCurrent(term string, v []symbolic.Expr, s symbolic.Expr) (symbolic.Expr, error) {
	i := s.Mul(c.value).Mul(v[0].Sub(v[1]))
	switch term {
	case "plus":
		return i, nil
	case "minus":
		return i.Neg(), nil
	}
	return symbolic.Expr{}, fmt.Errorf("capacitor terminal %q: %w", term, circuit.ErrNotFound)
}
