// Package device provides the linear element library: resistor,
// capacitor, inductor and independent sources, with symbolic MNA
// stamps.
package device

import (
	"symcirc/pkg/circuit"
	"symcirc/pkg/symbolic"
)

// BaseDevice carries what every element shares: the terminal list,
// the bound nodes and the (symbolic or constant) element value.
type BaseDevice struct {
	terminals []string
	nodes     []circuit.Node
	value     symbolic.Expr
}

func newBaseDevice(terminals []string, value symbolic.Expr, nodes ...any) BaseDevice {
	return BaseDevice{
		terminals: terminals,
		nodes:     circuit.ToNodes(nodes...),
		value:     value,
	}
}

func (d *BaseDevice) Terminals() []string { return d.terminals }

func (d *BaseDevice) Nodes() []circuit.Node { return d.nodes }

func (d *BaseDevice) SetNodes(nodes []circuit.Node) {
	copy(d.nodes, nodes[:len(d.terminals)])
}

func (d *BaseDevice) Branches() []circuit.Branch { return nil }

func (d *BaseDevice) Value() symbolic.Expr { return d.value }

// twoTerminal is the terminal list shared by every element here;
// branch orientation and derived currents follow it.
var twoTerminal = []string{"plus", "minus"}
