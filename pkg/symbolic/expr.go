// Package symbolic implements exact symbolic algebra over rational
// functions: multivariate polynomials with big.Rat coefficients,
// divided one by another. It provides just what circuit analysis
// needs: symbols, field arithmetic, the complex unit j (j*j folds
// to -1), structural equality, numeric evaluation and exact linear
// system solving.
package symbolic

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// imagUnit is the reserved symbol name for the complex unit.
const imagUnit = "j"

var (
	// ErrUnbound is returned by Eval when a symbol has no binding.
	ErrUnbound = errors.New("unbound symbol")
	// ErrSingular is returned by SolveLinear when the system has no
	// unique solution.
	ErrSingular = errors.New("singular system")
)

// Expr is an immutable rational function. The zero value is the
// number 0.
type Expr struct {
	num poly
	den poly
}

func (e Expr) n() poly {
	if e.num == nil {
		return poly{}
	}
	return e.num
}

func (e Expr) d() poly {
	if e.den == nil || len(e.den) == 0 {
		return onePoly()
	}
	return e.den
}

// Symbol returns the expression consisting of a single named symbol.
// The name "j" denotes the complex unit and its square folds to -1.
func Symbol(name string) Expr {
	return Expr{num: symbolPoly(name), den: onePoly()}
}

// J is the complex unit.
var J = Symbol(imagUnit)

// Int returns a constant expression.
func Int(v int64) Expr {
	return Expr{num: constPoly(big.NewRat(v, 1)), den: onePoly()}
}

// Rat returns the constant p/q.
func Rat(p, q int64) Expr {
	return Expr{num: constPoly(big.NewRat(p, q)), den: onePoly()}
}

// Float returns the exact rational value of a float64.
func Float(v float64) Expr {
	r := new(big.Rat).SetFloat64(v)
	if r == nil {
		panic("symbolic: non-finite float")
	}
	return Expr{num: constPoly(r), den: onePoly()}
}

// Zero returns the number 0.
func Zero() Expr { return Expr{} }

// One returns the number 1.
func One() Expr { return Int(1) }

func makeExpr(num, den poly) Expr {
	if len(den) == 0 {
		panic("symbolic: division by zero")
	}
	if len(num) == 0 {
		return Expr{}
	}
	num, den = cancelMonomial(num, den)
	// scale so the canonically-first denominator term has
	// coefficient 1; keeps printing stable across routes to the
	// same value
	lead := den[den.sortedKeys()[0]].coeff
	if lead.Cmp(big.NewRat(1, 1)) != 0 {
		inv := new(big.Rat).Inv(lead)
		num, den = num.clone(), den.clone()
		for _, t := range num {
			t.coeff.Mul(t.coeff, inv)
		}
		for _, t := range den {
			t.coeff.Mul(t.coeff, inv)
		}
	}
	return Expr{num: num, den: den}
}

// cancelMonomial divides out the largest monomial that divides every
// term of both polynomials.
func cancelMonomial(num, den poly) (poly, poly) {
	var common []factor
	first := true
	scan := func(p poly) {
		for _, t := range p {
			if first {
				common = append([]factor(nil), t.vars...)
				first = false
				continue
			}
			merged := common[:0]
			for _, c := range common {
				for _, f := range t.vars {
					if f.name == c.name {
						if f.exp < c.exp {
							c.exp = f.exp
						}
						merged = append(merged, c)
						break
					}
				}
			}
			common = merged
		}
	}
	scan(num)
	scan(den)
	if len(common) == 0 {
		return num, den
	}
	return divMonomial(num, common), divMonomial(den, common)
}

func divMonomial(p poly, mono []factor) poly {
	out := make(poly, len(p))
	for _, t := range p {
		nt := t.clone()
		vars := nt.vars[:0]
		for _, f := range nt.vars {
			for _, m := range mono {
				if m.name == f.name {
					f.exp -= m.exp
					break
				}
			}
			if f.exp > 0 {
				vars = append(vars, f)
			}
		}
		nt.vars = vars
		out[nt.key()] = nt
	}
	return out
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr {
	if e.IsZero() {
		return o
	}
	if o.IsZero() {
		return e
	}
	num := polyAdd(polyMul(e.n(), o.d()), polyMul(o.n(), e.d()))
	return makeExpr(num, polyMul(e.d(), o.d()))
}

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr { return e.Add(o.Neg()) }

// Neg returns -e.
func (e Expr) Neg() Expr {
	if e.IsZero() {
		return e
	}
	return Expr{num: polyNeg(e.n()), den: e.d()}
}

// Mul returns e * o.
func (e Expr) Mul(o Expr) Expr {
	if e.IsZero() || o.IsZero() {
		return Expr{}
	}
	return makeExpr(polyMul(e.n(), o.n()), polyMul(e.d(), o.d()))
}

// Div returns e / o. It panics when o is zero; callers that cannot
// rule that out must check IsZero first.
func (e Expr) Div(o Expr) Expr {
	if o.IsZero() {
		panic("symbolic: division by zero")
	}
	if e.IsZero() {
		return Expr{}
	}
	return makeExpr(polyMul(e.n(), o.d()), polyMul(e.d(), o.n()))
}

// IsZero reports whether e is identically zero.
func (e Expr) IsZero() bool { return len(e.n()) == 0 }

// Equal reports whether e and o denote the same rational function,
// by cross multiplication; no canonical form is required.
func (e Expr) Equal(o Expr) bool {
	return polyEqual(polyMul(e.n(), o.d()), polyMul(o.n(), e.d()))
}

// Eval substitutes the given bindings and returns the numeric value.
// The complex unit needs no binding. Every other symbol must be
// bound or Eval fails with ErrUnbound.
func (e Expr) Eval(bindings map[string]complex128) (complex128, error) {
	num, err := evalPoly(e.n(), bindings)
	if err != nil {
		return 0, err
	}
	den, err := evalPoly(e.d(), bindings)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, fmt.Errorf("evaluation hit a pole: %w", ErrSingular)
	}
	return num / den, nil
}

func evalPoly(p poly, bindings map[string]complex128) (complex128, error) {
	var sum complex128
	for _, t := range p {
		c, _ := t.coeff.Float64()
		v := complex(c, 0)
		for _, f := range t.vars {
			base, ok := bindings[f.name]
			if !ok {
				if f.name != imagUnit {
					return 0, fmt.Errorf("%w: %s", ErrUnbound, f.name)
				}
				base = complex(0, 1)
			}
			for e := 0; e < f.exp; e++ {
				v *= base
			}
		}
		sum += v
	}
	return sum, nil
}

// Simplify re-normalizes the expression. Equality in this package
// never depends on it; it exists to tighten printed output.
func (e Expr) Simplify() Expr {
	if e.IsZero() {
		return Expr{}
	}
	if polyEqual(e.n(), e.d()) {
		return One()
	}
	return makeExpr(e.n(), e.d())
}

func (e Expr) String() string {
	if e.IsZero() {
		return "0"
	}
	num := polyString(e.n())
	den := e.d()
	if len(den) == 1 {
		if t, ok := den[""]; ok && t.coeff.Cmp(big.NewRat(1, 1)) == 0 {
			return num
		}
	}
	return "(" + num + ")/(" + polyString(den) + ")"
}

func polyString(p poly) string {
	var b strings.Builder
	for i, k := range p.sortedKeys() {
		t := p[k]
		c := new(big.Rat).Set(t.coeff)
		neg := c.Sign() < 0
		if neg {
			c.Neg(c)
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		one := c.Cmp(big.NewRat(1, 1)) == 0
		if !one || len(t.vars) == 0 {
			b.WriteString(c.RatString())
		}
		for vi, f := range t.vars {
			if vi > 0 || !one {
				b.WriteByte('*')
			}
			b.WriteString(f.name)
			if f.exp > 1 {
				fmt.Fprintf(&b, "^%d", f.exp)
			}
		}
	}
	return b.String()
}
