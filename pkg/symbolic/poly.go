package symbolic

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// factor is a single symbol raised to a positive power.
type factor struct {
	name string
	exp  int
}

// term is a rational coefficient times a product of factors. The
// factor slice is sorted by symbol name and never contains exp <= 0.
type term struct {
	coeff *big.Rat
	vars  []factor
}

func (t *term) key() string {
	if len(t.vars) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range t.vars {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(f.name)
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(f.exp))
	}
	return b.String()
}

func (t *term) clone() *term {
	vars := make([]factor, len(t.vars))
	copy(vars, t.vars)
	return &term{coeff: new(big.Rat).Set(t.coeff), vars: vars}
}

// poly is a multivariate polynomial: term key -> term.
type poly map[string]*term

func constPoly(r *big.Rat) poly {
	if r.Sign() == 0 {
		return poly{}
	}
	t := &term{coeff: new(big.Rat).Set(r)}
	return poly{t.key(): t}
}

func symbolPoly(name string) poly {
	t := &term{coeff: big.NewRat(1, 1), vars: []factor{{name: name, exp: 1}}}
	return poly{t.key(): t}
}

func onePoly() poly {
	return constPoly(big.NewRat(1, 1))
}

func (p poly) clone() poly {
	q := make(poly, len(p))
	for k, t := range p {
		q[k] = t.clone()
	}
	return q
}

func (p poly) addTerm(t *term) {
	if t.coeff.Sign() == 0 {
		return
	}
	k := t.key()
	if have, ok := p[k]; ok {
		have.coeff.Add(have.coeff, t.coeff)
		if have.coeff.Sign() == 0 {
			delete(p, k)
		}
		return
	}
	p[k] = t.clone()
}

func polyAdd(a, b poly) poly {
	out := a.clone()
	for _, t := range b {
		out.addTerm(t)
	}
	return out
}

func polyNeg(a poly) poly {
	out := a.clone()
	for _, t := range out {
		t.coeff.Neg(t.coeff)
	}
	return out
}

// mulTerm multiplies two terms, folding powers of the complex unit:
// j^2 reduces to -1.
func mulTerm(a, b *term) *term {
	out := &term{coeff: new(big.Rat).Mul(a.coeff, b.coeff)}
	vars := make([]factor, 0, len(a.vars)+len(b.vars))
	i, k := 0, 0
	for i < len(a.vars) || k < len(b.vars) {
		switch {
		case k >= len(b.vars) || (i < len(a.vars) && a.vars[i].name < b.vars[k].name):
			vars = append(vars, a.vars[i])
			i++
		case i >= len(a.vars) || b.vars[k].name < a.vars[i].name:
			vars = append(vars, b.vars[k])
			k++
		default:
			vars = append(vars, factor{name: a.vars[i].name, exp: a.vars[i].exp + b.vars[k].exp})
			i++
			k++
		}
	}
	// fold the imaginary unit
	folded := vars[:0]
	for _, f := range vars {
		if f.name == imagUnit {
			e := f.exp % 4
			if e >= 2 {
				out.coeff.Neg(out.coeff)
				e -= 2
			}
			if e == 0 {
				continue
			}
			f.exp = e
		}
		folded = append(folded, f)
	}
	out.vars = folded
	return out
}

func polyMul(a, b poly) poly {
	out := make(poly, len(a)*len(b))
	for _, ta := range a {
		for _, tb := range b {
			out.addTerm(mulTerm(ta, tb))
		}
	}
	return out
}

func polyEqual(a, b poly) bool {
	if len(a) != len(b) {
		return false
	}
	for k, ta := range a {
		tb, ok := b[k]
		if !ok || ta.coeff.Cmp(tb.coeff) != 0 {
			return false
		}
	}
	return true
}

// sortedKeys returns term keys with the constant term first, then
// lexicographic order. Used for deterministic printing.
func (p poly) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
