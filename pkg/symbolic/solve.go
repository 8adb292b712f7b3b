package symbolic

// SolveLinear solves A x = b exactly by Gaussian elimination over
// the rational-function field. A must be square and is not modified.
// A system without a unique solution fails with ErrSingular.
func SolveLinear(a [][]Expr, b []Expr) ([]Expr, error) {
	n := len(b)
	m := make([][]Expr, n)
	for i := range m {
		if len(a[i]) != n {
			panic("symbolic: non-square system")
		}
		m[i] = append([]Expr(nil), a[i]...)
	}
	rhs := append([]Expr(nil), b...)

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if !m[r][col].IsZero() {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingular
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		for r := col + 1; r < n; r++ {
			if m[r][col].IsZero() {
				continue
			}
			f := m[r][col].Div(m[col][col])
			for c := col; c < n; c++ {
				m[r][c] = m[r][c].Sub(f.Mul(m[col][c]))
			}
			rhs[r] = rhs[r].Sub(f.Mul(rhs[col]))
		}
	}

	x := make([]Expr, n)
	for i := n - 1; i >= 0; i-- {
		acc := rhs[i]
		for c := i + 1; c < n; c++ {
			acc = acc.Sub(m[i][c].Mul(x[c]))
		}
		x[i] = acc.Div(m[i][i])
	}
	return x, nil
}
