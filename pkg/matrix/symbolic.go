package matrix

import "symcirc/pkg/symbolic"

// SymbolicMatrix is the dense MNA coefficient matrix and right-hand
// side over symbolic expressions. Rows and columns are 1-based like
// the sparse engine's; entry (0, _) does not exist.
type SymbolicMatrix struct {
	Size int
	a    [][]symbolic.Expr
	rhs  []symbolic.Expr
}

func NewSymbolicMatrix(size int) *SymbolicMatrix {
	a := make([][]symbolic.Expr, size)
	for i := range a {
		a[i] = make([]symbolic.Expr, size)
	}
	return &SymbolicMatrix{
		Size: size,
		a:    a,
		rhs:  make([]symbolic.Expr, size),
	}
}

func (m *SymbolicMatrix) AddElement(i, j int, value symbolic.Expr) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	m.a[i-1][j-1] = m.a[i-1][j-1].Add(value)
}

func (m *SymbolicMatrix) AddRHS(i int, value symbolic.Expr) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[i-1] = m.rhs[i-1].Add(value)
}

func (m *SymbolicMatrix) Element(i, j int) symbolic.Expr {
	return m.a[i-1][j-1]
}

func (m *SymbolicMatrix) RHS(i int) symbolic.Expr {
	return m.rhs[i-1]
}

// Solve returns the unknown vector, 1-based semantics preserved by
// the caller. Fails with symbolic.ErrSingular for a non-invertible
// system.
func (m *SymbolicMatrix) Solve() ([]symbolic.Expr, error) {
	return symbolic.SolveLinear(m.a, m.rhs)
}
