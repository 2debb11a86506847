package apc

import (
	"math/big"
	"strconv"
	"strings"
)

// Expr is a polynomial in the entry-node symbol V0 whose coefficients are
// polynomials in x. Index i holds the coefficient of V0^i. This is the only
// shape the equation builder emits, so elimination stays closed under
// addition and multiplication without a general symbolic engine.
type Expr []Poly

// exprPoly lifts an x-polynomial into an Expr with no V0 dependence.
func exprPoly(p Poly) Expr { return Expr{p} }

// exprOne returns the constant expression 1.
func exprOne() Expr { return Expr{polyInt(1)} }

func (e Expr) coeff(i int) Poly {
	if i < 0 || i >= len(e) {
		return Poly{}
	}
	return e[i]
}

// degree returns the degree in V0, or -1 for the zero expression.
func (e Expr) degree() int {
	for i := len(e) - 1; i >= 0; i-- {
		if !e.coeff(i).IsZero() {
			return i
		}
	}
	return -1
}

func (e Expr) trim() Expr {
	return e[:e.degree()+1]
}

func (e Expr) add(f Expr) Expr {
	n := len(e)
	if len(f) > n {
		n = len(f)
	}
	out := make(Expr, n)
	for i := range out {
		out[i] = e.coeff(i).Add(f.coeff(i))
	}
	return out.trim()
}

func (e Expr) sub(f Expr) Expr {
	n := len(e)
	if len(f) > n {
		n = len(f)
	}
	out := make(Expr, n)
	for i := range out {
		out[i] = e.coeff(i).Sub(f.coeff(i))
	}
	return out.trim()
}

func (e Expr) mul(f Expr) Expr {
	de, df := e.degree(), f.degree()
	if de < 0 || df < 0 {
		return Expr{}
	}
	out := make(Expr, de+df+1)
	for i := range out {
		out[i] = Poly{}
	}
	for i := 0; i <= de; i++ {
		if e[i].IsZero() {
			continue
		}
		for j := 0; j <= df; j++ {
			out[i+j] = out[i+j].Add(e[i].Mul(f[j]))
		}
	}
	return out.trim()
}

// mulPoly multiplies every coefficient by the x-polynomial p.
func (e Expr) mulPoly(p Poly) Expr {
	out := make(Expr, len(e))
	for i := range e {
		out[i] = e[i].Mul(p)
	}
	return out.trim()
}

func (e Expr) equal(f Expr) bool {
	n := len(e)
	if len(f) > n {
		n = len(f)
	}
	for i := 0; i < n; i++ {
		if !e.coeff(i).Equal(f.coeff(i)) {
			return false
		}
	}
	return true
}

// isOne reports whether e is the constant expression 1.
func (e Expr) isOne() bool { return e.equal(exprOne()) }

// String renders e with V0 as the entry symbol, e.g. "x - V0 + x*V0^2".
func (e Expr) String() string {
	d := e.degree()
	if d < 0 {
		return "0"
	}
	var parts []string
	for i := 0; i <= d; i++ {
		c := e.coeff(i)
		if c.IsZero() {
			continue
		}
		parts = append(parts, exprTerm(c, i))
	}
	return strings.Join(parts, " + ")
}

func exprTerm(c Poly, pow int) string {
	sym := ""
	switch {
	case pow == 1:
		sym = "V0"
	case pow > 1:
		sym = "V0^" + strconv.Itoa(pow)
	}
	cs := c.String()
	if sym == "" {
		return cs
	}
	if cs == "1" {
		return sym
	}
	if c.Degree() > 0 && countTerms(c) > 1 {
		return "(" + cs + ")*" + sym
	}
	return cs + "*" + sym
}

func countTerms(p Poly) int {
	n := 0
	for _, c := range p {
		if c.Sign() != 0 {
			n++
		}
	}
	return n
}

// series is a truncated power series in x; index i holds the coefficient
// of x^i. All series in one solve share the same truncation length.
type series []*big.Rat

func newSeries(n int) series {
	s := make(series, n)
	for i := range s {
		s[i] = ratInt(0)
	}
	return s
}

func seriesFromPoly(p Poly, n int) series {
	s := newSeries(n)
	for i := 0; i < n && i < len(p); i++ {
		s[i].Set(p[i])
	}
	return s
}

func (s series) add(t series) series {
	out := newSeries(len(s))
	for i := range out {
		out[i].Add(s[i], t[i])
	}
	return out
}

func (s series) mul(t series) series {
	out := newSeries(len(s))
	var tmp big.Rat
	for i := 0; i < len(s); i++ {
		if s[i].Sign() == 0 {
			continue
		}
		for j := 0; i+j < len(s); j++ {
			if t[j].Sign() == 0 {
				continue
			}
			out[i+j].Add(out[i+j], tmp.Mul(s[i], t[j]))
		}
	}
	return out
}

// div computes s/t for a unit series t (t[0] != 0) by the standard
// convolution recurrence.
func (s series) div(t series) series {
	out := newSeries(len(s))
	inv := new(big.Rat).Inv(t[0])
	var tmp big.Rat
	for n := 0; n < len(s); n++ {
		acc := new(big.Rat).Set(s[n])
		for k := 1; k <= n; k++ {
			acc.Sub(acc, tmp.Mul(t[k], out[n-k]))
		}
		out[n].Mul(acc, inv)
	}
	return out
}

// evalExpr substitutes the series t for V0 in e, truncated to len(t).
func (e Expr) evalExpr(t series) series {
	n := len(t)
	out := newSeries(n)
	pow := newSeries(n)
	pow[0].SetInt64(1) // V0^0
	for i := 0; i <= e.degree(); i++ {
		if !e.coeff(i).IsZero() {
			out = out.add(seriesFromPoly(e.coeff(i), n).mul(pow))
		}
		pow = pow.mul(t)
	}
	return out
}
