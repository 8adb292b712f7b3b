package analysis

import (
	"fmt"
	"strings"

	"symcirc/pkg/circuit"
	"symcirc/pkg/symbolic"
)

// Result is the immutable outcome of a symbolic solve: a voltage
// expression per flattened node and a current expression per branch,
// queryable by dotted name.
type Result struct {
	ckt      *circuit.SubCircuit
	s        symbolic.Expr
	voltages map[string]symbolic.Expr
	currents map[circuit.Branch]symbolic.Expr
	insts    []circuit.FlatInstance
}

// V returns the solved voltage at the flattened node name.
func (r *Result) V(name string) (symbolic.Expr, error) {
	v, ok := r.voltages[name]
	if !ok {
		return symbolic.Expr{}, fmt.Errorf("v(%s): %w", name, circuit.ErrUnknownNode)
	}
	return v, nil
}

// I returns the current into the terminal at the dotted path,
// resolving through a probed or native branch first and deriving
// from node voltages otherwise.
func (r *Result) I(path string) (symbolic.Expr, error) {
	if b, sign := r.ckt.TerminalBranch(path); b != nil {
		cur, ok := r.currents[*b]
		if !ok {
			return symbolic.Expr{}, fmt.Errorf("i(%s): branch missing from solve: %w", path, circuit.ErrUnresolvedCurrent)
		}
		if sign < 0 {
			cur = cur.Neg()
		}
		return cur, nil
	}

	dot := strings.LastIndex(path, ".")
	if dot < 0 {
		return symbolic.Expr{}, fmt.Errorf("i(%s): %w", path, circuit.ErrNotFound)
	}
	elemPath, term := path[:dot], path[dot+1:]
	inst, ok := r.instanceAt(elemPath)
	if !ok {
		return symbolic.Expr{}, fmt.Errorf("i(%s): %w", path, circuit.ErrNotFound)
	}
	ti := -1
	for i, t := range inst.Elem.Terminals() {
		if t == term {
			ti = i
			break
		}
	}
	if ti < 0 {
		return symbolic.Expr{}, fmt.Errorf("i(%s): terminal %q: %w", path, term, circuit.ErrNotFound)
	}

	if _, nested := inst.Elem.(*circuit.SubCircuit); nested {
		return r.subcircuitTerminalCurrent(elemPath, inst.Nodes[ti], path)
	}
	return r.instanceTerminalCurrent(inst, ti, path)
}

func (r *Result) instanceAt(path string) (circuit.FlatInstance, bool) {
	for _, fi := range r.insts {
		if fi.Path == path {
			return fi, true
		}
	}
	return circuit.FlatInstance{}, false
}

// instanceTerminalCurrent derives the current into a leaf element's
// terminal: through the element's branch when it has one, from node
// voltages when the element can derive it, otherwise unresolvable.
func (r *Result) instanceTerminalCurrent(inst circuit.FlatInstance, ti int, path string) (symbolic.Expr, error) {
	if len(inst.Branches) == 1 && len(inst.Elem.Terminals()) == 2 {
		cur, ok := r.currents[inst.Branches[0]]
		if !ok {
			return symbolic.Expr{}, fmt.Errorf("i(%s): %w", path, circuit.ErrUnresolvedCurrent)
		}
		if ti == 1 {
			cur = cur.Neg()
		}
		return cur, nil
	}

	deriver, ok := inst.Elem.(circuit.CurrentDeriver)
	if !ok {
		return symbolic.Expr{}, fmt.Errorf("i(%s): %w", path, circuit.ErrUnresolvedCurrent)
	}
	v := make([]symbolic.Expr, len(inst.Elem.Terminals()))
	for i := range v {
		nv, err := r.nodeVoltage(inst.Nodes[i])
		if err != nil {
			return symbolic.Expr{}, fmt.Errorf("i(%s): %w", path, err)
		}
		v[i] = nv
	}
	cur, err := deriver.TerminalCurrent(inst.Elem.Terminals()[ti], v, r.s)
	if err != nil {
		return symbolic.Expr{}, fmt.Errorf("i(%s): %w", path, err)
	}
	return cur, nil
}

// subcircuitTerminalCurrent sums the currents flowing from the
// terminal node into member elements of the instance, at any depth.
// Members elsewhere in the hierarchy that share the node do not
// count: only paths inside the instance do.
func (r *Result) subcircuitTerminalCurrent(elemPath string, tn circuit.Node, path string) (symbolic.Expr, error) {
	total := symbolic.Zero()
	prefix := elemPath + "."
	for _, fi := range r.insts {
		if !strings.HasPrefix(fi.Path, prefix) {
			continue
		}
		if _, nested := fi.Elem.(*circuit.SubCircuit); nested {
			continue
		}
		for ti := range fi.Elem.Terminals() {
			if fi.Nodes[ti] != tn {
				continue
			}
			cur, err := r.instanceTerminalCurrent(fi, ti, path)
			if err != nil {
				return symbolic.Expr{}, err
			}
			total = total.Add(cur)
		}
	}
	return total, nil
}

func (r *Result) nodeVoltage(n circuit.Node) (symbolic.Expr, error) {
	if n == circuit.Gnd {
		return symbolic.Zero(), nil
	}
	v, ok := r.voltages[n.Name()]
	if !ok {
		return symbolic.Expr{}, fmt.Errorf("node %s: %w", n, circuit.ErrUnknownNode)
	}
	return v, nil
}
