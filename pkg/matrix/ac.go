package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// ACMatrix is the complex-valued system used by the numeric AC
// sweep, backed by the sparse LU engine. 1-based indexing, matching
// DeviceMatrix conventions.
type ACMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewACMatrix(size int) (*ACMatrix, error) {
	// Translate keeps external indices valid once Factor has
	// reordered the matrix, so sweeps can re-stamp between solves.
	config := &sparse.Configuration{
		Real:           true,
		Complex:        true,
		Translate:      true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	// interleaved complex vectors, 1-based
	vectorSize := 2 * (size + 1)
	return &ACMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, vectorSize),
		solution: make([]float64, vectorSize),
		config:   config,
	}, nil
}

// SetupElements touches every structural position once so later
// sweeps only update values.
func (m *ACMatrix) SetupElements() {
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *ACMatrix) AddComplexElement(i, j int, value complex128) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real(value)
	element.Imag += imag(value)
}

func (m *ACMatrix) AddComplexRHS(i int, value complex128) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[2*i] += real(value)
	m.rhs[2*i+1] += imag(value)
}

func (m *ACMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *ACMatrix) Solve() error {
	err := m.matrix.Factor()
	if err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	m.solution, _, err = m.matrix.SolveComplex(m.rhs, nil)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	return nil
}

func (m *ACMatrix) ComplexSolution(i int) complex128 {
	if i <= 0 || i > m.Size {
		return 0
	}
	return complex(m.solution[2*i], m.solution[2*i+1])
}

func (m *ACMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
