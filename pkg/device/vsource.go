package device

import (
	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// VoltageSource enforces V(plus) - V(minus) = value and introduces
// one branch; the branch current flows from plus to minus through
// the source and is an MNA unknown.
type VoltageSource struct {
	BaseDevice
}

// NewVoltageSource builds an independent source with the given AC
// value (a symbol or constant).
func NewVoltageSource(plus, minus any, v symbolic.Expr) *VoltageSource {
	return &VoltageSource{BaseDevice: newBaseDevice(twoTerminal, v, plus, minus)}
}

func (v *VoltageSource) Branches() []circuit.Branch {
	return []circuit.Branch{{Plus: v.nodes[0], Minus: v.nodes[1]}}
}

func (v *VoltageSource) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error {
	n1, n2, b := nodes[0], nodes[1], branches[0]
	one := symbolic.One()

	if n1 != 0 {
		m.AddElement(n1, b, one)
		m.AddElement(b, n1, one)
	}
	if n2 != 0 {
		m.AddElement(n2, b, one.Neg())
		m.AddElement(b, n2, one.Neg())
	}
	m.AddRHS(b, v.value)
	return nil
}
