package analysis

import (
	"fmt"
	"math"

	"symcirc/pkg/circuit"
	"symcirc/pkg/matrix"
	"symcirc/pkg/symbolic"
)

// AC runs a numeric frequency sweep: the symbolic MNA system is
// assembled once, then evaluated and LU-solved per frequency point
// through the sparse engine.
type AC struct {
	BaseAnalysis
	startFreq   float64
	stopFreq    float64
	numPoints   int
	pointsType  string // "DEC", "OCT", "LIN"
	frequencies []float64

	sys *system
	sym *matrix.SymbolicMatrix
	mat *matrix.ACMatrix
}

func NewAC(fStart, fStop float64, nPoints int, pType string) *AC {
	return &AC{
		BaseAnalysis: *NewBaseAnalysis(),
		startFreq:    fStart,
		stopFreq:     fStop,
		numPoints:    nPoints,
		pointsType:   pType,
	}
}

// Setup flattens the circuit and assembles the symbolic system the
// sweep will evaluate.
func (ac *AC) Setup(ckt *circuit.SubCircuit) error {
	sys := newSystem(ckt)
	if sys.size() == 0 {
		return fmt.Errorf("ac analysis: no unknowns to sweep")
	}
	sym := matrix.NewSymbolicMatrix(sys.size())
	if err := sys.stamp(sym, symbolic.Symbol("s")); err != nil {
		return err
	}
	mat, err := matrix.NewACMatrix(sys.size())
	if err != nil {
		return err
	}
	mat.SetupElements()

	ac.sys, ac.sym, ac.mat = sys, sym, mat
	ac.generateFrequencyPoints()
	return nil
}

// Execute sweeps the frequency points. bindings gives a numeric
// value per parameter symbol; the frequency variable needs no
// binding. Any unbound symbol or singular factorization aborts the
// sweep.
func (ac *AC) Execute(bindings map[string]complex128) error {
	if ac.sys == nil {
		return fmt.Errorf("ac analysis: Setup not run")
	}

	bound := make(map[string]complex128, len(bindings)+1)
	for k, v := range bindings {
		bound[k] = v
	}

	size := ac.sys.size()
	for _, freq := range ac.frequencies {
		bound["s"] = complex(0, 2*math.Pi*freq)

		ac.mat.Clear()
		for i := 1; i <= size; i++ {
			for j := 1; j <= size; j++ {
				e := ac.sym.Element(i, j)
				if e.IsZero() {
					continue
				}
				val, err := e.Eval(bound)
				if err != nil {
					return fmt.Errorf("evaluating entry (%d,%d) at f=%g: %w", i, j, freq, err)
				}
				ac.mat.AddComplexElement(i, j, val)
			}
			e := ac.sym.RHS(i)
			if e.IsZero() {
				continue
			}
			val, err := e.Eval(bound)
			if err != nil {
				return fmt.Errorf("evaluating rhs %d at f=%g: %w", i, freq, err)
			}
			ac.mat.AddComplexRHS(i, val)
		}

		if err := ac.mat.Solve(); err != nil {
			return fmt.Errorf("solve at f=%g: %w", freq, err)
		}

		solution := make(map[string]complex128, size)
		for i, n := range ac.sys.nodes {
			solution[fmt.Sprintf("V(%s)", n.Name())] = ac.mat.ComplexSolution(i + 1)
		}
		for i, name := range ac.sys.branchNames {
			solution[fmt.Sprintf("I(%s)", name)] = ac.mat.ComplexSolution(len(ac.sys.nodes) + i + 1)
		}
		ac.StoreACResult(freq, solution)
	}
	return nil
}

func (ac *AC) generateFrequencyPoints() {
	if ac.numPoints < 2 {
		ac.frequencies = []float64{ac.startFreq}
		return
	}
	ac.frequencies = make([]float64, ac.numPoints)

	switch ac.pointsType {
	case "DEC":
		logStart := math.Log10(ac.startFreq)
		logStop := math.Log10(ac.stopFreq)
		step := (logStop - logStart) / float64(ac.numPoints-1)
		for i := range ac.numPoints {
			ac.frequencies[i] = math.Pow(10, logStart+float64(i)*step)
		}

	case "OCT":
		logStart := math.Log2(ac.startFreq)
		logStop := math.Log2(ac.stopFreq)
		step := (logStop - logStart) / float64(ac.numPoints-1)
		for i := range ac.numPoints {
			ac.frequencies[i] = math.Pow(2, logStart+float64(i)*step)
		}

	default: // "LIN"
		step := (ac.stopFreq - ac.startFreq) / float64(ac.numPoints-1)
		for i := range ac.numPoints {
			ac.frequencies[i] = ac.startFreq + float64(i)*step
		}
	}
}

// Frequencies returns the sweep points generated by Setup.
func (ac *AC) Frequencies() []float64 {
	return ac.frequencies
}
