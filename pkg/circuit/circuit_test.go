package circuit_test

import (
	"errors"
	"reflect"
	"testing"

	"symcirc/pkg/circuit"
	"symcirc/pkg/device"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// stubElement is a minimal Element for validation tests.
type stubElement struct {
	terms []string
	nodes []circuit.Node
}

func (s *stubElement) Terminals() []string { return s.terms }

func (s *stubElement) Nodes() []circuit.Node { return s.nodes }

func (s *stubElement) SetNodes(nodes []circuit.Node) { s.nodes = nodes }

func (s *stubElement) Branches() []circuit.Branch { return nil }

func (s *stubElement) Stamp(m matrix.DeviceMatrix, nodes []int, branches []int, sym symbolic.Expr) error {
	return nil
}

// newTestSub builds a two-terminal divider subcircuit: R1 from p to
// an internal node, R2 from there to m, plus a grounded source and
// resistor at the internal node.
func newTestSub(t *testing.T, p, m circuit.Node) *circuit.SubCircuit {
	t.Helper()
	sub := circuit.New("p", "m")
	if err := sub.ConnectTerminals(p, m); err != nil {
		t.Fatal(err)
	}
	internal := sub.AddNode("internal")
	mustSet(t, sub, "R1", device.NewResistor(sub.AddNode("p"), internal, symbolic.Symbol("R1")))
	mustSet(t, sub, "R2", device.NewResistor(internal, sub.AddNode("m"), symbolic.Symbol("R2")))
	mustSet(t, sub, "V1", device.NewVoltageSource(internal, circuit.Gnd, symbolic.Zero()))
	mustSet(t, sub, "R3", device.NewResistor(internal, circuit.Gnd, symbolic.Symbol("R3")))
	return sub
}

func generateTestCircuit(t *testing.T) *circuit.SubCircuit {
	t.Helper()
	ckt := circuit.New()
	plus, minus := ckt.AddNode("plus"), ckt.AddNode("minus")
	mustSet(t, ckt, "R1", device.NewResistor(plus, minus, symbolic.Symbol("R")))
	mustSet(t, ckt, "R3", device.NewResistor(plus, plus, symbolic.Symbol("R")))
	mustSet(t, ckt, "I1", newTestSub(t, plus, minus))
	return ckt
}

func mustSet(t *testing.T, c *circuit.SubCircuit, name string, e circuit.Element) {
	t.Helper()
	if err := c.Set(name, e); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}

func names(nodes []circuit.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestHierarchyNodes(t *testing.T) {
	ckt := generateTestCircuit(t)

	want := []string{"plus", "minus", "I1.internal", "gnd"}
	if got := names(ckt.Nodes()); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}

	wantNames := map[string]circuit.Node{
		"plus":        circuit.NewNode("plus"),
		"minus":       circuit.NewNode("minus"),
		"I1.internal": circuit.NewNode("I1.internal"),
		"gnd":         circuit.Gnd,
	}
	if got := ckt.NodeNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("NodeNames() = %v, want %v", got, wantNames)
	}
}

func TestHierarchyBranches(t *testing.T) {
	ckt := generateTestCircuit(t)

	want := []circuit.Branch{circuit.NewBranch(circuit.NewNode("I1.internal"), circuit.Gnd)}
	if got := ckt.Branches(); !reflect.DeepEqual(got, want) {
		t.Errorf("Branches() = %v, want %v", got, want)
	}
}

func TestSubCircuitViews(t *testing.T) {
	ckt := generateTestCircuit(t)
	sub := ckt.Get("I1").(*circuit.SubCircuit)

	// the terminal bindings keep the parent's node identity
	want := []string{"plus", "minus", "internal", "gnd"}
	if got := names(sub.Nodes()); !reflect.DeepEqual(got, want) {
		t.Errorf("sub Nodes() = %v, want %v", got, want)
	}

	wantNames := map[string]circuit.Node{
		"p":        circuit.NewNode("plus"),
		"m":        circuit.NewNode("minus"),
		"internal": circuit.NewNode("internal"),
		"gnd":      circuit.Gnd,
	}
	if got := sub.NodeNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("sub NodeNames() = %v, want %v", got, wantNames)
	}

	wantBr := []circuit.Branch{circuit.NewBranch(circuit.NewNode("internal"), circuit.Gnd)}
	if got := sub.Branches(); !reflect.DeepEqual(got, wantBr) {
		t.Errorf("sub Branches() = %v, want %v", got, wantBr)
	}
}

func TestTerminalNodesComeFirst(t *testing.T) {
	ckt := generateTestCircuit(t)
	sub := ckt.Get("I1").(*circuit.SubCircuit)

	got := names(sub.Nodes()[:2])
	if want := []string{"plus", "minus"}; !reflect.DeepEqual(got, want) {
		t.Errorf("first nodes = %v, want %v", got, want)
	}
}

func TestDeleteSubCircuit(t *testing.T) {
	ckt := generateTestCircuit(t)
	if err := ckt.Delete("I1"); err != nil {
		t.Fatal(err)
	}

	if got := names(ckt.Nodes()); !reflect.DeepEqual(got, []string{"plus", "minus"}) {
		t.Errorf("Nodes() = %v after delete", got)
	}
	if got := ckt.Branches(); len(got) != 0 {
		t.Errorf("Branches() = %v after delete", got)
	}
	if got := ckt.Names(); !reflect.DeepEqual(got, []string{"R1", "R3"}) {
		t.Errorf("Names() = %v after delete", got)
	}
	if _, ok := ckt.NodeByName("I1.internal"); ok {
		t.Error("I1.internal still resolvable after delete")
	}
}

func TestDeleteBranchElement(t *testing.T) {
	ckt := circuit.New()
	n1 := ckt.AddNode("n1")
	mustSet(t, ckt, "R1", device.NewResistor(n1, circuit.Gnd, symbolic.Symbol("R")))
	mustSet(t, ckt, "V1", device.NewVoltageSource(n1, circuit.Gnd, symbolic.One()))

	if got := ckt.Branches(); len(got) != 1 {
		t.Fatalf("Branches() = %v, want one", got)
	}
	if err := ckt.Delete("V1"); err != nil {
		t.Fatal(err)
	}
	if got := ckt.Branches(); len(got) != 0 {
		t.Errorf("Branches() = %v after delete", got)
	}
	if got := names(ckt.Nodes()); !reflect.DeepEqual(got, []string{"n1", "gnd"}) {
		t.Errorf("Nodes() = %v after delete", got)
	}
	if got := ckt.Names(); !reflect.DeepEqual(got, []string{"R1"}) {
		t.Errorf("Names() = %v after delete", got)
	}
}

func TestDeleteUnknown(t *testing.T) {
	ckt := circuit.New()
	if err := ckt.Delete("R9"); !errors.Is(err, circuit.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestImplicitNodes(t *testing.T) {
	ckt := circuit.New()
	r := symbolic.Symbol("R")
	mustSet(t, ckt, "R1", device.NewResistor("a", "b", r))
	mustSet(t, ckt, "R2", device.NewResistor("a", "c", r))
	mustSet(t, ckt, "R3", device.NewResistor("b", 1, r))

	want := []string{"a", "b", "c", "1"}
	if got := names(ckt.Nodes()); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if n, ok := ckt.NodeByName("1"); !ok || n.Name() != "1" {
		t.Errorf("NodeByName(1) = %v, %v", n, ok)
	}
}

func TestSetReplace(t *testing.T) {
	ckt := circuit.New()
	r := symbolic.Symbol("R")
	mustSet(t, ckt, "R1", device.NewResistor("a", "b", r))
	mustSet(t, ckt, "R1", device.NewResistor("a", circuit.Gnd, r))

	if got := ckt.Names(); !reflect.DeepEqual(got, []string{"R1"}) {
		t.Errorf("Names() = %v", got)
	}
	if got := names(ckt.Nodes()); !reflect.DeepEqual(got, []string{"a", "gnd"}) {
		t.Errorf("Nodes() = %v after replace", got)
	}
}

func TestSetValidation(t *testing.T) {
	ckt := circuit.New()
	if err := ckt.Set("R1", nil); err == nil {
		t.Error("nil element accepted")
	}
	if err := ckt.Set("a.b", device.NewResistor("a", "b", symbolic.Symbol("R"))); err == nil {
		t.Error("dotted instance name accepted")
	}
	short := &stubElement{terms: []string{"plus", "minus"}, nodes: []circuit.Node{circuit.Gnd}}
	if err := ckt.Set("X1", short); !errors.Is(err, circuit.ErrArity) {
		t.Errorf("err = %v, want ErrArity", err)
	}
}

func TestConnectTerminalsArity(t *testing.T) {
	sub := circuit.New("p", "m")
	if err := sub.ConnectTerminals(circuit.Gnd); !errors.Is(err, circuit.ErrArity) {
		t.Errorf("err = %v, want ErrArity", err)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	ckt := generateTestCircuit(t)

	if !reflect.DeepEqual(ckt.Nodes(), ckt.Nodes()) {
		t.Error("Nodes() not stable across calls")
	}
	if !reflect.DeepEqual(ckt.Branches(), ckt.Branches()) {
		t.Error("Branches() not stable across calls")
	}
	if !reflect.DeepEqual(ckt.NodeNames(), ckt.NodeNames()) {
		t.Error("NodeNames() not stable across calls")
	}
}

func TestToNode(t *testing.T) {
	n := circuit.NewNode("x")
	if circuit.ToNode(n) != n {
		t.Error("ToNode(Node) not idempotent")
	}
	if circuit.ToNode("y").Name() != "y" {
		t.Error("ToNode(string) wrong name")
	}
	if circuit.ToNode(7).Name() != "7" {
		t.Error("ToNode(int) wrong name")
	}
	got := circuit.ToNodes("a", 2, n)
	if names(got)[0] != "a" || names(got)[1] != "2" || got[2] != n {
		t.Errorf("ToNodes = %v", got)
	}
}

func TestBranchOrientation(t *testing.T) {
	a, b := circuit.NewNode("a"), circuit.NewNode("b")
	if circuit.NewBranch(a, b) == circuit.NewBranch(b, a) {
		t.Error("reversed branches compare equal")
	}
	if got := circuit.NewBranch(a, b).String(); got != "Branch(a, b)" {
		t.Errorf("String() = %q", got)
	}
}
