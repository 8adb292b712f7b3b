package analysis

import (
	"math"
	"math/cmplx"
)

// BaseAnalysis collects sweep results: one series per output
// variable name.
type BaseAnalysis struct {
	results map[string][]float64
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{results: make(map[string][]float64)}
}

// StoreACResult appends one frequency point: magnitude and phase
// (degrees) per variable, plus the FREQ axis.
func (a *BaseAnalysis) StoreACResult(freq float64, solution map[string]complex128) {
	a.results["FREQ"] = append(a.results["FREQ"], freq)

	for name, value := range solution {
		magName := name + "_MAG"
		a.results[magName] = append(a.results[magName], cmplx.Abs(value))

		phaseName := name + "_PHASE"
		phase := cmplx.Phase(value) * 180.0 / math.Pi
		a.results[phaseName] = append(a.results[phaseName], phase)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
