package matrix

import "symcirc/pkg/symbolic"

// DeviceMatrix is what an element sees while stamping. Indices are
// 1-based; index 0 is ground and stamps against it are dropped by
// the callers' guards.
type DeviceMatrix interface {
	AddElement(i, j int, value symbolic.Expr)
	AddRHS(i int, value symbolic.Expr)
}
