package circuit

import (
	"fmt"
	"strings"

	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// SubCircuit is a named, ordered collection of elements, possibly
// nested. It owns a local node namespace and derives flat global
// views of it on demand: nothing about the flattening is stored, so
// reads always reflect the current contents.
type SubCircuit struct {
	terminals []string
	termNodes []Node

	names    []string
	elements map[string]Element

	regNames []string
	registry map[string]Node

	probes map[string]probeRecord
}

type probeRecord struct {
	inst string // ammeter instance name in this scope
	node string // spliced internal node name in this scope
}

// New creates a subcircuit with the given terminal names. A
// toplevel circuit has none. Until ConnectTerminals rebinds them,
// each terminal is bound to a node carrying the terminal's own name.
func New(terminals ...string) *SubCircuit {
	termNodes := make([]Node, len(terminals))
	for i, t := range terminals {
		termNodes[i] = NewNode(t)
	}
	return &SubCircuit{
		terminals: terminals,
		termNodes: termNodes,
		elements:  make(map[string]Element),
		registry:  make(map[string]Node),
		probes:    make(map[string]probeRecord),
	}
}

// ConnectTerminals binds the declared terminals to the given nodes,
// in declared order. The supplied nodes keep their identity: no new
// nodes are created for terminals.
func (c *SubCircuit) ConnectTerminals(nodes ...Node) error {
	if len(nodes) != len(c.terminals) {
		return fmt.Errorf("%w: %d nodes for %d terminals", ErrArity, len(nodes), len(c.terminals))
	}
	copy(c.termNodes, nodes)
	return nil
}

// AddNode registers a named node in the local namespace and returns
// it. Registering the same name again returns the existing node. A
// terminal name resolves to the bound terminal node.
func (c *SubCircuit) AddNode(name string) Node {
	for i, t := range c.terminals {
		if t == name {
			return c.termNodes[i]
		}
	}
	if n, ok := c.registry[name]; ok {
		return n
	}
	n := NewNode(name)
	c.registry[name] = n
	c.regNames = append(c.regNames, name)
	return n
}

// AddNodes registers several nodes at once.
func (c *SubCircuit) AddNodes(names ...string) []Node {
	nodes := make([]Node, len(names))
	for i, name := range names {
		nodes[i] = c.AddNode(name)
	}
	return nodes
}

// Set stores an element under an instance name. Re-using a name
// replaces the previous element; its contributed nodes and branches
// disappear from the derived views.
func (c *SubCircuit) Set(name string, e Element) error {
	if e == nil {
		return fmt.Errorf("set %q: nil element", name)
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("set %q: instance names cannot contain '.'", name)
	}
	if len(e.Nodes()) < len(e.Terminals()) {
		return fmt.Errorf("set %q: %w: %d nodes for %d terminals",
			name, ErrArity, len(e.Nodes()), len(e.Terminals()))
	}
	if _, exists := c.elements[name]; !exists {
		c.names = append(c.names, name)
	}
	c.elements[name] = e
	return nil
}

// Delete removes an element by instance name, along with any probe
// ammeters attached to its terminals.
func (c *SubCircuit) Delete(name string) error {
	if _, ok := c.elements[name]; !ok {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	c.remove(name)
	for key, rec := range c.probes {
		if strings.HasPrefix(key, name+".") {
			c.remove(rec.inst)
			c.unregister(rec.node)
			delete(c.probes, key)
		}
	}
	return nil
}

func (c *SubCircuit) remove(name string) {
	delete(c.elements, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
}

func (c *SubCircuit) unregister(name string) {
	delete(c.registry, name)
	for i, n := range c.regNames {
		if n == name {
			c.regNames = append(c.regNames[:i], c.regNames[i+1:]...)
			break
		}
	}
}

// Get returns the element stored under name, or nil.
func (c *SubCircuit) Get(name string) Element {
	return c.elements[name]
}

// Names returns the instance names in insertion order.
func (c *SubCircuit) Names() []string {
	return append([]string(nil), c.names...)
}

// flatView is the result of one flattening pass, in this
// subcircuit's own coordinate frame.
type flatView struct {
	nodes     []Node
	branches  []Branch
	nodenames map[string]Node
	insts     []FlatInstance
}

func (c *SubCircuit) flatten() *flatView {
	v := &flatView{nodenames: make(map[string]Node)}
	seen := make(map[Node]bool)
	addNode := func(n Node) {
		if !seen[n] {
			seen[n] = true
			v.nodes = append(v.nodes, n)
		}
	}

	// terminals first, in declared order
	for i, t := range c.terminals {
		addNode(c.termNodes[i])
		v.nodenames[t] = c.termNodes[i]
	}
	// explicitly registered nodes
	for _, name := range c.regNames {
		addNode(c.registry[name])
		v.nodenames[name] = c.registry[name]
	}

	termSet := make(map[Node]bool, len(c.termNodes))
	for _, n := range c.termNodes {
		termSet[n] = true
	}

	for _, name := range c.names {
		e := c.elements[name]
		sub, nested := e.(*SubCircuit)
		if !nested {
			for _, n := range e.Nodes() {
				addNode(n)
				switch {
				case n == Gnd:
					v.nodenames["gnd"] = Gnd
				case termSet[n]:
					// named by its terminal already
				default:
					v.nodenames[n.Name()] = n
				}
			}
			v.branches = append(v.branches, e.Branches()...)
			v.insts = append(v.insts, FlatInstance{
				Path:     name,
				Elem:     e,
				Nodes:    append([]Node(nil), e.Nodes()...),
				Branches: e.Branches(),
			})
			continue
		}

		cf := sub.flatten()
		ren := renamer(name, sub)
		self := FlatInstance{Path: name, Elem: sub}
		for _, n := range cf.nodes {
			pn := ren(n)
			addNode(pn)
			self.Nodes = append(self.Nodes, pn)
		}
		for _, b := range cf.branches {
			pb := Branch{Plus: ren(b.Plus), Minus: ren(b.Minus)}
			v.branches = append(v.branches, pb)
			self.Branches = append(self.Branches, pb)
		}
		v.insts = append(v.insts, self)
		for _, fi := range cf.insts {
			v.insts = append(v.insts, FlatInstance{
				Path:     name + "." + fi.Path,
				Elem:     fi.Elem,
				Nodes:    renameAll(ren, fi.Nodes),
				Branches: renameBranches(ren, fi.Branches),
			})
		}
		for local, n := range cf.nodenames {
			switch {
			case n == Gnd:
				v.nodenames["gnd"] = Gnd
			case sub.isTerminalNode(n):
				// aliased to the node this scope supplied;
				// already reachable under its own name here
			default:
				v.nodenames[name+"."+local] = ren(n)
			}
		}
	}
	return v
}

func (c *SubCircuit) isTerminalNode(n Node) bool {
	for _, t := range c.termNodes {
		if t == n {
			return true
		}
	}
	return false
}

// renamer maps a child instance's nodes into the parent frame:
// ground and terminal aliases keep their identity, every other node
// gets the instance-name prefix.
func renamer(instName string, sub *SubCircuit) func(Node) Node {
	return func(n Node) Node {
		if n == Gnd || sub.isTerminalNode(n) {
			return n
		}
		return NewNode(instName + "." + n.Name())
	}
}

func renameAll(ren func(Node) Node, nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = ren(n)
	}
	return out
}

func renameBranches(ren func(Node) Node, branches []Branch) []Branch {
	out := make([]Branch, len(branches))
	for i, b := range branches {
		out[i] = Branch{Plus: ren(b.Plus), Minus: ren(b.Minus)}
	}
	return out
}

// Nodes returns the flattened, deduplicated node sequence: bound
// terminal nodes first in declared order, then first-seen order.
func (c *SubCircuit) Nodes() []Node {
	return c.flatten().nodes
}

// Branches returns the flattened branch sequence contributed by this
// circuit and all descendants.
func (c *SubCircuit) Branches() []Branch {
	return c.flatten().branches
}

// NodeNames maps every reachable dotted node name, at every depth,
// to its node.
func (c *SubCircuit) NodeNames() map[string]Node {
	return c.flatten().nodenames
}

// NodeByName resolves a dotted node name.
func (c *SubCircuit) NodeByName(name string) (Node, bool) {
	n, ok := c.flatten().nodenames[name]
	return n, ok
}

// Instances returns the flattened per-element instance list with
// root-coordinate nodes and branches. Subcircuit instances precede
// their members.
func (c *SubCircuit) Instances() []FlatInstance {
	return c.flatten().insts
}

// Element interface: a SubCircuit nests inside another SubCircuit.

func (c *SubCircuit) Terminals() []string { return c.terminals }

// SetNodes rebinds the declared terminals to the first
// len(Terminals()) of the given nodes. Members captured the old node
// values at construction time, so every occurrence is rebound too;
// nested subcircuits propagate the rebinding through their own
// terminals.
func (c *SubCircuit) SetNodes(nodes []Node) {
	for i := range c.terminals {
		c.rebindTerminal(i, nodes[i])
	}
}

func (c *SubCircuit) rebindTerminal(i int, n Node) {
	old := c.termNodes[i]
	if old == n {
		return
	}
	c.termNodes[i] = n
	for _, name := range c.names {
		e := c.elements[name]
		var bound []Node
		if sub, nested := e.(*SubCircuit); nested {
			bound = append([]Node(nil), sub.termNodes...)
		} else {
			bound = append([]Node(nil), e.Nodes()[:len(e.Terminals())]...)
		}
		changed := false
		for k, bn := range bound {
			if bn == old {
				bound[k] = n
				changed = true
			}
		}
		if changed {
			e.SetNodes(bound)
		}
	}
}

// Stamp is a no-op: a subcircuit's members are flattened into
// individual instances and stamped one by one.
func (c *SubCircuit) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, s symbolic.Expr) error {
	return nil
}

// walk resolves a dotted terminal path ("I1.plus", "A.B.minus") to
// the owning scope, the instance name within it, and the terminal
// name.
func (c *SubCircuit) walk(path string) (owner *SubCircuit, elemName, term string, err error) {
	segs := strings.Split(path, ".")
	if len(segs) < 2 {
		return nil, "", "", fmt.Errorf("terminal path %q: %w", path, ErrNotFound)
	}
	owner = c
	for _, seg := range segs[:len(segs)-2] {
		sub, ok := owner.elements[seg].(*SubCircuit)
		if !ok {
			return nil, "", "", fmt.Errorf("scope %q in path %q: %w", seg, path, ErrNotFound)
		}
		owner = sub
	}
	elemName, term = segs[len(segs)-2], segs[len(segs)-1]
	e, ok := owner.elements[elemName]
	if !ok {
		return nil, "", "", fmt.Errorf("instance %q in path %q: %w", elemName, path, ErrNotFound)
	}
	if terminalIndex(e, term) < 0 {
		return nil, "", "", fmt.Errorf("terminal %q of %q: %w", term, elemName, ErrNotFound)
	}
	return owner, elemName, term, nil
}

func (c *SubCircuit) instanceAt(path string) (FlatInstance, bool) {
	for _, fi := range c.Instances() {
		if fi.Path == path {
			return fi, true
		}
	}
	return FlatInstance{}, false
}
