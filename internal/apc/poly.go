package apc

import (
	"math/big"
	"strconv"
	"strings"
)

// Poly is a dense univariate polynomial in the length variable x with
// rational coefficients. Index i holds the coefficient of x^i. All
// operations return new values; a Poly is never mutated after creation.
type Poly []*big.Rat

func ratInt(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

// polyConst returns the constant polynomial c.
func polyConst(c *big.Rat) Poly { return Poly{new(big.Rat).Set(c)} }

// polyInt returns the constant polynomial n.
func polyInt(n int64) Poly { return Poly{ratInt(n)} }

// polyX returns the monomial x.
func polyX() Poly { return Poly{ratInt(0), ratInt(1)} }

// polyXPow returns the monomial c*x^n.
func polyXPow(c *big.Rat, n int) Poly {
	p := make(Poly, n+1)
	for i := 0; i < n; i++ {
		p[i] = ratInt(0)
	}
	p[n] = new(big.Rat).Set(c)
	return p
}

// Coeff returns the coefficient of x^i, which is zero beyond the stored
// length.
func (p Poly) Coeff(i int) *big.Rat {
	if i < 0 || i >= len(p) {
		return ratInt(0)
	}
	return new(big.Rat).Set(p[i])
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// IsZero reports whether every coefficient is zero.
func (p Poly) IsZero() bool { return p.Degree() < 0 }

// trim drops trailing zero coefficients.
func (p Poly) trim() Poly {
	d := p.Degree()
	return p[:d+1]
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := range out {
		out[i] = new(big.Rat).Add(p.Coeff(i), q.Coeff(i))
	}
	return out.trim()
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

// Neg returns -p.
func (p Poly) Neg() Poly {
	out := make(Poly, len(p))
	for i := range p {
		out[i] = new(big.Rat).Neg(p[i])
	}
	return out
}

// Mul returns p * q.
func (p Poly) Mul(q Poly) Poly {
	dp, dq := p.Degree(), q.Degree()
	if dp < 0 || dq < 0 {
		return Poly{}
	}
	out := make(Poly, dp+dq+1)
	for i := range out {
		out[i] = ratInt(0)
	}
	var t big.Rat
	for i := 0; i <= dp; i++ {
		if p[i].Sign() == 0 {
			continue
		}
		for j := 0; j <= dq; j++ {
			if q[j].Sign() == 0 {
				continue
			}
			out[i+j].Add(out[i+j], t.Mul(p[i], q[j]))
		}
	}
	return out.trim()
}

// Scale returns c * p.
func (p Poly) Scale(c *big.Rat) Poly {
	out := make(Poly, len(p))
	for i := range p {
		out[i] = new(big.Rat).Mul(p[i], c)
	}
	return out.trim()
}

// Equal reports coefficient-wise equality ignoring trailing zeros.
func (p Poly) Equal(q Poly) bool {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	for i := 0; i < n; i++ {
		if p.Coeff(i).Cmp(q.Coeff(i)) != 0 {
			return false
		}
	}
	return true
}

// Eval evaluates p at the rational point v.
func (p Poly) Eval(v *big.Rat) *big.Rat {
	// Horner, highest coefficient first.
	acc := ratInt(0)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, v)
		acc.Add(acc, p[i])
	}
	return acc
}

// EvalFloat evaluates p at the float point v.
func (p Poly) EvalFloat(v float64) float64 {
	acc := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		c, _ := p[i].Float64()
		acc = acc*v + c
	}
	return acc
}

// Derivative returns dp/dx.
func (p Poly) Derivative() Poly {
	if len(p) <= 1 {
		return Poly{}
	}
	out := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], ratInt(int64(i)))
	}
	return out.trim()
}

// divideByOneMinusX factors p as (1-x)*q + r with constant remainder r.
// Synthetic division at x=1: p(x) = (x-1)*s(x) + p(1), so q = -s and
// r = p(1).
func (p Poly) divideByOneMinusX() (q Poly, r *big.Rat) {
	d := p.Degree()
	if d < 0 {
		return Poly{}, ratInt(0)
	}
	s := make(Poly, d) // quotient by (x-1)
	acc := new(big.Rat).Set(p[d])
	for i := d - 1; i >= 0; i-- {
		s[i] = new(big.Rat).Set(acc)
		acc = new(big.Rat).Add(p[i], acc)
	}
	return s.Neg().trim(), acc
}

// String renders p in ascending powers of x, e.g. "x + 2*x^2".
func (p Poly) String() string {
	d := p.Degree()
	if d < 0 {
		return "0"
	}
	var b strings.Builder
	first := true
	for i := 0; i <= d; i++ {
		c := p[i]
		if c.Sign() == 0 {
			continue
		}
		abs := new(big.Rat).Abs(c)
		if first {
			if c.Sign() < 0 {
				b.WriteString("-")
			}
			first = false
		} else if c.Sign() < 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		b.WriteString(monomial(abs, i))
	}
	return b.String()
}

// monomial renders |c|*x^i without a sign.
func monomial(abs *big.Rat, i int) string {
	one := abs.Cmp(ratInt(1)) == 0
	switch {
	case i == 0:
		return abs.RatString()
	case i == 1 && one:
		return "x"
	case i == 1:
		return abs.RatString() + "*x"
	case one:
		return "x^" + strconv.Itoa(i)
	default:
		return abs.RatString() + "*x^" + strconv.Itoa(i)
	}
}
