package circuit

import (
	"fmt"
	"strconv"
)

// Node is a named electrical connection point. Nodes are compared
// and hashed by name only, so they work as map keys across scope
// boundaries.
type Node struct {
	name string
}

// Gnd is the shared ground reference. It is the same node in every
// scope at every depth and is never renamed or prefixed.
var Gnd = Node{name: "gnd"}

func NewNode(name string) Node {
	return Node{name: name}
}

func (n Node) Name() string   { return n.name }
func (n Node) String() string { return n.name }

// ToNode coerces a construction-time identifier into a Node.
// Accepts an existing Node (idempotent), a string, or an integer;
// anything else is named by its default formatting.
func ToNode(v any) Node {
	switch x := v.(type) {
	case Node:
		return x
	case string:
		return Node{name: x}
	case int:
		return Node{name: strconv.Itoa(x)}
	default:
		return Node{name: fmt.Sprint(v)}
	}
}

// ToNodes coerces a list of identifiers.
func ToNodes(vs ...any) []Node {
	nodes := make([]Node, len(vs))
	for i, v := range vs {
		nodes[i] = ToNode(v)
	}
	return nodes
}

// Branch is an oriented two-terminal path. Its current is defined
// positive flowing from Plus to Minus through the owning element, so
// Branch(a, b) and Branch(b, a) are distinct.
type Branch struct {
	Plus  Node
	Minus Node
}

func NewBranch(plus, minus Node) Branch {
	return Branch{Plus: plus, Minus: minus}
}

func (b Branch) String() string {
	return fmt.Sprintf("Branch(%s, %s)", b.Plus, b.Minus)
}
