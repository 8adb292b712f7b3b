package matrix

import (
	"math"
	"testing"

	"symcirc/pkg/symbolic"
)

func TestSymbolicMatrixAccumulate(t *testing.T) {
	m := NewSymbolicMatrix(2)
	m.AddElement(1, 1, symbolic.One())
	m.AddElement(1, 1, symbolic.One())
	if !m.Element(1, 1).Equal(symbolic.Int(2)) {
		t.Errorf("(1,1) = %s, want 2", m.Element(1, 1))
	}

	m.AddRHS(2, symbolic.Symbol("v"))
	if !m.RHS(2).Equal(symbolic.Symbol("v")) {
		t.Errorf("rhs[2] = %s, want v", m.RHS(2))
	}
}

func TestSymbolicMatrixGroundIgnored(t *testing.T) {
	m := NewSymbolicMatrix(2)
	m.AddElement(0, 1, symbolic.One())
	m.AddElement(1, 0, symbolic.One())
	m.AddElement(3, 3, symbolic.One())
	m.AddRHS(0, symbolic.One())
	for i := 1; i <= 2; i++ {
		for j := 1; j <= 2; j++ {
			if !m.Element(i, j).IsZero() {
				t.Errorf("(%d,%d) = %s after out-of-range adds", i, j, m.Element(i, j))
			}
		}
		if !m.RHS(i).IsZero() {
			t.Errorf("rhs[%d] = %s after out-of-range adds", i, m.RHS(i))
		}
	}
}

func TestSymbolicMatrixSolve(t *testing.T) {
	// g*v1 = i  with symbolic entries
	m := NewSymbolicMatrix(1)
	m.AddElement(1, 1, symbolic.One().Div(symbolic.Symbol("r")))
	m.AddRHS(1, symbolic.Symbol("i"))
	x, err := m.Solve()
	if err != nil {
		t.Fatal(err)
	}
	want := symbolic.Symbol("i").Mul(symbolic.Symbol("r"))
	if !x[0].Equal(want) {
		t.Errorf("x[0] = %s, want i*r", x[0])
	}
}

func TestACMatrixSolve(t *testing.T) {
	m, err := NewACMatrix(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()
	m.SetupElements()

	// [[2, 0], [0, 1j]] x = [4, 1j]  ->  x = [2, 1]
	m.Clear()
	m.AddComplexElement(1, 1, 2)
	m.AddComplexElement(2, 2, complex(0, 1))
	m.AddComplexRHS(1, 4)
	m.AddComplexRHS(2, complex(0, 1))
	if err := m.Solve(); err != nil {
		t.Fatal(err)
	}

	if got := m.ComplexSolution(1); math.Abs(real(got)-2) > 1e-12 || math.Abs(imag(got)) > 1e-12 {
		t.Errorf("x[1] = %v, want 2", got)
	}
	if got := m.ComplexSolution(2); math.Abs(real(got)-1) > 1e-12 || math.Abs(imag(got)) > 1e-12 {
		t.Errorf("x[2] = %v, want 1", got)
	}

	// re-stamp and solve again: a sweep factors the same matrix once
	// per point after it has already been reordered
	m.Clear()
	m.AddComplexElement(1, 1, 4)
	m.AddComplexElement(2, 2, complex(0, 2))
	m.AddComplexRHS(1, 4)
	m.AddComplexRHS(2, complex(0, 4))
	if err := m.Solve(); err != nil {
		t.Fatalf("second solve: %v", err)
	}

	if got := m.ComplexSolution(1); math.Abs(real(got)-1) > 1e-12 || math.Abs(imag(got)) > 1e-12 {
		t.Errorf("second x[1] = %v, want 1", got)
	}
	if got := m.ComplexSolution(2); math.Abs(real(got)-2) > 1e-12 || math.Abs(imag(got)) > 1e-12 {
		t.Errorf("second x[2] = %v, want 2", got)
	}
}
