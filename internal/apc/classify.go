package apc

import (
	"fmt"
	"math"
	"math/big"
)

// Class is the asymptotic growth class of a path-count series.
type Class int

const (
	ClassConstant Class = iota
	ClassLinear
	ClassPolynomial
	ClassExponential
)

func (c Class) String() string {
	switch c {
	case ClassConstant:
		return "constant"
	case ClassLinear:
		return "linear"
	case ClassPolynomial:
		return "polynomial"
	case ClassExponential:
		return "exponential"
	}
	return "unknown"
}

// Descriptor is the asymptotic path complexity of a procedure: the growth
// class of the number of paths as a function of path length, plus the
// literal closed form it was derived from. Descriptors are derived once and
// never mutated.
type Descriptor struct {
	Class  Class
	Coeff  float64
	Degree int     // polynomial degree, set for ClassPolynomial
	Base   float64 // growth base, set for ClassExponential

	ClosedForm string
}

// String renders the descriptor as a growth expression in n.
func (d Descriptor) String() string {
	switch d.Class {
	case ClassConstant:
		return fmt.Sprintf("%g", d.Coeff)
	case ClassLinear:
		return fmt.Sprintf("%g*n", d.Coeff)
	case ClassPolynomial:
		return fmt.Sprintf("%g*n^%d", d.Coeff, d.Degree)
	case ClassExponential:
		return fmt.Sprintf("%g*%g^n", d.Coeff, d.Base)
	}
	return "?"
}

// Vector decomposes the descriptor into the fixed 5-field experiment
// vector [type, exp coeff, exp base, poly coeff, poly power]. Type codes:
// 0 constant, 1 linear, 2 polynomial, 3 exponential.
func (d Descriptor) Vector() [5]float64 {
	switch d.Class {
	case ClassConstant:
		return [5]float64{0, 0, 0, d.Coeff, 0}
	case ClassLinear:
		return [5]float64{1, 0, 0, 0, d.Coeff}
	case ClassPolynomial:
		return [5]float64{2, 0, 0, d.Coeff, float64(d.Degree)}
	case ClassExponential:
		return [5]float64{3, d.Coeff, d.Base, 0, 0}
	}
	return SentinelVector()
}

// SentinelVector is the 5-field vector standing in for a result that could
// not be computed.
func SentinelVector() [5]float64 {
	return [5]float64{-1, -1, -1, -1, -1}
}

// posRootEps separates a genuine positive singularity from the origin and
// from the unit singularity of polynomial growth.
const posRootEps = 1e-9

// Classify derives the APC descriptor from a solved generating function.
// Classification is structural on the solved representation: polynomial
// generating functions are constant, rational ones split on the (1-x)
// multiplicity of the denominator, and algebraic ones take their growth
// base from the dominant positive singularity of the defining polynomial.
func Classify(sol *Solution) *Descriptor {
	var d *Descriptor
	switch sol.Degree {
	case 0:
		// Finitely many paths: the count is eventually a constant.
		total, _ := sol.GF.Eval(ratInt(1)).Float64()
		d = &Descriptor{Class: ClassConstant, Coeff: total}
	case 1:
		d = classifyRational(sol.Num, sol.Den)
	default:
		d = classifyAlgebraic(sol)
	}
	d.ClosedForm = sol.ClosedForm
	return d
}

// classifyRational handles generating functions N(x)/D(x). Writing
// D = c*(1-x)^m * R with R(1) != 0, the coefficients grow like n^(m-1)
// unless R has a positive root inside the unit interval, in which case the
// growth is exponential with base 1/root.
func classifyRational(num, den Poly) *Descriptor {
	r := den
	m := 0
	for {
		q, rem := r.divideByOneMinusX()
		if rem.Sign() != 0 {
			break
		}
		r = q
		m++
	}

	if rho, ok := smallestPositiveRoot(r); ok && rho < 1-posRootEps {
		// Dominant singularity inside the unit interval: exponential
		// growth with the exact residue as leading coefficient.
		base := 1 / rho
		coeff := -num.EvalFloat(rho) / (rho * den.Derivative().EvalFloat(rho))
		return &Descriptor{Class: ClassExponential, Base: base, Coeff: math.Abs(coeff)}
	}

	n1 := num.EvalFloat(1)
	r1 := r.EvalFloat(1)
	switch m {
	case 0:
		// No growth singularity at all: the series sums to N(1)/D(1).
		return &Descriptor{Class: ClassConstant, Coeff: num.EvalFloat(1) / den.EvalFloat(1)}
	case 1:
		return &Descriptor{Class: ClassConstant, Coeff: n1 / r1}
	case 2:
		return &Descriptor{Class: ClassLinear, Coeff: n1 / r1}
	}
	return &Descriptor{
		Class:  ClassPolynomial,
		Degree: m - 1,
		Coeff:  n1 / (r1 * factorial(m-1)),
	}
}

// classifyAlgebraic handles quadratic and cubic defining polynomials. The
// branch's singularities sit at positive roots of the discriminant or of
// the leading coefficient; the smallest one fixes the growth base.
func classifyAlgebraic(sol *Solution) *Descriptor {
	p := sol.Defining
	var candidates []float64

	if rho, ok := smallestPositiveRoot(p.coeff(p.degree())); ok {
		candidates = append(candidates, rho)
	}
	if rho, ok := smallestPositiveRoot(discriminant(p)); ok {
		candidates = append(candidates, rho)
	}

	best := math.Inf(1)
	for _, c := range candidates {
		if c < best {
			best = c
		}
	}
	if !math.IsInf(best, 1) && best < 1-posRootEps {
		// Algebraic singularity: the base is exact, the subexponential
		// factor is normalized away.
		return &Descriptor{Class: ClassExponential, Base: 1 / best, Coeff: 1}
	}
	return fitSeries(sol.Series)
}

// discriminant returns the discriminant in V0 of a quadratic or cubic
// defining polynomial, as a polynomial in x.
func discriminant(p Expr) Poly {
	switch p.degree() {
	case 2:
		a, b, c := p.coeff(2), p.coeff(1), p.coeff(0)
		return b.Mul(b).Sub(a.Mul(c).Scale(ratInt(4)))
	case 3:
		a, b, c, d := p.coeff(3), p.coeff(2), p.coeff(1), p.coeff(0)
		// 18abcd - 4b^3d + b^2c^2 - 4ac^3 - 27a^2d^2
		t1 := a.Mul(b).Mul(c).Mul(d).Scale(ratInt(18))
		t2 := b.Mul(b).Mul(b).Mul(d).Scale(ratInt(4))
		t3 := b.Mul(b).Mul(c).Mul(c)
		t4 := a.Mul(c).Mul(c).Mul(c).Scale(ratInt(4))
		t5 := a.Mul(a).Mul(d).Mul(d).Scale(ratInt(27))
		return t1.Sub(t2).Add(t3).Sub(t4).Sub(t5)
	}
	return Poly{}
}

// fitSeries estimates the growth class from the truncated series when no
// sub-unit singularity exists. Used only for algebraic solutions whose
// growth is polynomial.
func fitSeries(s []*big.Rat) *Descriptor {
	last := -1
	for i, c := range s {
		if c.Sign() != 0 {
			last = i
		}
	}
	if last < len(s)-4 {
		// Series terminates: finitely many paths.
		sum := new(big.Rat)
		for _, c := range s {
			sum.Add(sum, c)
		}
		f, _ := sum.Float64()
		return &Descriptor{Class: ClassConstant, Coeff: f}
	}

	n1, n2 := last/2, last
	t1, _ := s[n1].Float64()
	t2, _ := s[n2].Float64()
	if t1 <= 0 {
		t1, n1 = 1, 1
	}
	deg := int(math.Round(math.Log(t2/t1) / math.Log(float64(n2)/float64(n1))))
	if deg < 0 {
		deg = 0
	}
	coeff := t2 / math.Pow(float64(n2), float64(deg))
	switch deg {
	case 0:
		return &Descriptor{Class: ClassConstant, Coeff: t2}
	case 1:
		return &Descriptor{Class: ClassLinear, Coeff: coeff}
	}
	return &Descriptor{Class: ClassPolynomial, Degree: deg, Coeff: coeff}
}

// smallestPositiveRoot finds the smallest root of p strictly greater than
// posRootEps. Linear and quadratic polynomials use closed forms; higher
// degrees fall back to a sign-change scan with bisection over (0, 4],
// which covers every singularity a combinatorial generating function can
// have (radius of convergence at most 1).
func smallestPositiveRoot(p Poly) (float64, bool) {
	switch p.Degree() {
	case -1, 0:
		return 0, false
	case 1:
		c0, _ := p.Coeff(0).Float64()
		c1, _ := p.Coeff(1).Float64()
		r := -c0 / c1
		if r > posRootEps {
			return r, true
		}
		return 0, false
	case 2:
		a, _ := p.Coeff(2).Float64()
		b, _ := p.Coeff(1).Float64()
		c, _ := p.Coeff(0).Float64()
		disc := b*b - 4*a*c
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		best := math.Inf(1)
		for _, r := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
			if r > posRootEps && r < best {
				best = r
			}
		}
		if math.IsInf(best, 1) {
			return 0, false
		}
		return best, true
	}

	const (
		scanUpper = 4.0
		steps     = 1 << 12
	)
	prevX := posRootEps
	prevV := p.EvalFloat(prevX)
	for i := 1; i <= steps; i++ {
		x := posRootEps + (scanUpper-posRootEps)*float64(i)/steps
		v := p.EvalFloat(x)
		if v == 0 {
			return x, true
		}
		if (prevV < 0) != (v < 0) {
			return bisect(p, prevX, x), true
		}
		prevX, prevV = x, v
	}
	return 0, false
}

func bisect(p Poly, lo, hi float64) float64 {
	fLo := p.EvalFloat(lo)
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		fMid := p.EvalFloat(mid)
		if fMid == 0 {
			return mid
		}
		if (fLo < 0) != (fMid < 0) {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return (lo + hi) / 2
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
