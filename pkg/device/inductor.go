package device

import (
	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// Inductor has impedance s*l. Like a voltage source it introduces a
// branch: its current is an MNA unknown constrained by
// V(plus) - V(minus) - s*l*i = 0.
type Inductor struct {
	BaseDevice
}

func NewInductor(plus, minus any, l symbolic.Expr) *Inductor {
	return &Inductor{BaseDevice: newBaseDevice(twoTerminal, l, plus, minus)}
}

func (l *Inductor) Branches() []circuit.Branch {
	return []circuit.Branch{{Plus: l.nodes[0], Minus: l.nodes[1]}}
}

func (l *Inductor) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error {
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
	m.AddElement(b, b, s.Mul(l.value).Neg())
	return nil
}
