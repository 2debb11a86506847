package apc

import (
	"errors"
	"fmt"
	"math/big"
)

// seriesOrder is the truncation length used when expanding a generating
// function to select and verify the combinatorial branch.
const seriesOrder = 40

// maxClosedFormDegree bounds the defining polynomial the solver will
// handle: closed-form roots exist up to the cubic. Beyond that the solver
// refuses rather than approximate numerically.
const maxClosedFormDegree = 3

var (
	// ErrUnsupportedRecursionDegree reports that no closed form exists
	// within the bounded-degree support: either more than one node carries
	// a recursion multiplicity, or the defining polynomial for the entry
	// symbol exceeds the cubic.
	ErrUnsupportedRecursionDegree = errors.New("recursion degree beyond closed-form support")

	// ErrNoCombinatorialSolution reports that no branch of the defining
	// polynomial has a series expansion with zero constant term and
	// non-negative coefficients.
	ErrNoCombinatorialSolution = errors.New("no combinatorial branch")
)

// Solution is the solved generating function for a CFG's entry node. The
// x^n series coefficient counts paths of length n. Exactly one of the
// representation fields is authoritative, by Degree:
//
//	Degree 0: GF holds a plain polynomial generating function.
//	Degree 1: Num/Den hold a rational generating function.
//	Degree 2+: Defining holds P with P(V0; x) = 0 for the entry symbol.
type Solution struct {
	GraphName  string
	ClosedForm string
	Degree     int

	GF       Poly
	Num, Den Poly
	Defining Expr

	// Series holds the truncated expansion of the combinatorial branch.
	Series []*big.Rat
}

// ratValue is a node's value during elimination: a ratio of two Exprs.
// Denominators other than 1 only appear below a recursion-marked node.
type ratValue struct{ num, den Expr }

func (a ratValue) add(b ratValue) ratValue {
	if a.num.degree() < 0 {
		return b
	}
	if b.num.degree() < 0 {
		return a
	}
	// Shared or trivial denominators keep the representation small; with a
	// single recursive node these cover every combination that occurs.
	switch {
	case a.den.equal(b.den):
		return ratValue{a.num.add(b.num), a.den}
	case a.den.isOne():
		return ratValue{a.num.mul(b.den).add(b.num), b.den}
	case b.den.isOne():
		return ratValue{b.num.mul(a.den).add(a.num), a.den}
	}
	return ratValue{
		num: a.num.mul(b.den).add(b.num.mul(a.den)),
		den: a.den.mul(b.den),
	}
}

// recursionFactor returns 1 - (V0*x)^k.
func recursionFactor(k int) Expr {
	out := make(Expr, k+1)
	out[0] = polyInt(1)
	for i := 1; i < k; i++ {
		out[i] = Poly{}
	}
	out[k] = polyXPow(ratInt(-1), k)
	return out
}

// Solve eliminates every node symbol from the system by back-substitution
// in reverse topological order, then resolves the entry symbol from the
// resulting bounded-degree polynomial.
func Solve(sys *System) (*Solution, error) {
	if rec := sys.RecursiveNodes(); len(rec) > 1 {
		return nil, fmt.Errorf("solve %q: %d recursive nodes: %w",
			sys.GraphName, len(rec), ErrUnsupportedRecursionDegree)
	}

	x := polyX()
	values := make(map[int]ratValue, len(sys.Order))

	// Reverse topological order: every target's value exists before its
	// sources are processed, so substitution is a single pass.
	for i := len(sys.Order) - 1; i >= 0; i-- {
		n := sys.Order[i]
		eq := sys.Equations[n]

		acc := ratValue{num: Expr{}, den: exprOne()}
		for _, t := range eq.Terms {
			if t.Terminal {
				acc = acc.add(ratValue{num: exprPoly(x), den: exprOne()})
				continue
			}
			tv := values[t.Target]
			acc = acc.add(ratValue{num: tv.num.mulPoly(x), den: tv.den})
		}
		if k := eq.Recursion; k > 0 {
			// V = RHS + (V0*x)^k * V  rearranges to  V = RHS / (1 - (V0*x)^k).
			acc.den = acc.den.mul(recursionFactor(k))
		}
		values[n] = acc
	}

	v := values[sys.Entry]

	// Defining polynomial: num - V0*den = 0.
	entrySym := Expr{Poly{}, polyInt(1)}
	defining := v.num.sub(entrySym.mul(v.den)).trim()
	deg := defining.degree()

	switch {
	case deg < 1:
		return nil, fmt.Errorf("solve %q: degenerate system: %w",
			sys.GraphName, ErrNoCombinatorialSolution)
	case deg == 1:
		return solveLinear(sys.GraphName, defining)
	case deg <= maxClosedFormDegree:
		return solveAlgebraic(sys.GraphName, v, defining)
	}
	return nil, fmt.Errorf("solve %q: defining polynomial of degree %d: %w",
		sys.GraphName, deg, ErrUnsupportedRecursionDegree)
}

// solveLinear resolves c1*V0 + c0 = 0, i.e. V0 = -c0/c1, which is either a
// plain polynomial or a rational generating function.
func solveLinear(name string, defining Expr) (*Solution, error) {
	num := defining.coeff(0).Neg().trim()
	den := defining.coeff(1).trim()

	// Cancel common powers of x so the denominator is a unit series.
	for !num.IsZero() && num.Coeff(0).Sign() == 0 && den.Coeff(0).Sign() == 0 {
		num, den = num[1:], den[1:]
	}
	if den.Degree() < 0 || den.Coeff(0).Sign() == 0 {
		return nil, fmt.Errorf("solve %q: singular denominator: %w",
			name, ErrNoCombinatorialSolution)
	}

	sol := &Solution{GraphName: name, Defining: defining}

	if den.Degree() == 0 {
		inv := new(big.Rat).Inv(den.Coeff(0))
		gf := num.Scale(inv)
		sol.Degree = 0
		sol.GF = gf
		sol.ClosedForm = gf.String()
		sol.Series = seriesFromPoly(gf, seriesOrder)
	} else {
		sol.Degree = 1
		sol.Num, sol.Den = num, den
		sol.ClosedForm = fmt.Sprintf("(%s)/(%s)", num, den)
		sol.Series = seriesFromPoly(num, seriesOrder).div(seriesFromPoly(den, seriesOrder))
	}

	if err := checkCombinatorial(name, sol.Series); err != nil {
		return nil, err
	}
	return sol, nil
}

// solveAlgebraic expands the branch of the quadratic or cubic defining
// polynomial that has a zero constant term. Every coefficient of the
// system's right-hand sides carries a factor of x, so iterating
// V0 <- num(V0)/den(V0) over truncated series gains at least one correct
// order per round and converges to that branch.
func solveAlgebraic(name string, v ratValue, defining Expr) (*Solution, error) {
	t := newSeries(seriesOrder)
	for i := 0; i <= seriesOrder; i++ {
		t = v.num.evalExpr(t).div(v.den.evalExpr(t))
	}

	if err := checkCombinatorial(name, t); err != nil {
		return nil, err
	}

	sol := &Solution{
		GraphName: name,
		Degree:    defining.degree(),
		Defining:  defining,
		Series:    t,
	}
	if sol.Degree == 2 {
		sol.ClosedForm = quadraticClosedForm(defining)
	} else {
		sol.ClosedForm = fmt.Sprintf("RootOf(%s, V0)", defining)
	}
	return sol, nil
}

// quadraticClosedForm renders the combinatorial root of a*V0^2 + b*V0 + c.
func quadraticClosedForm(defining Expr) string {
	a := defining.coeff(2)
	b := defining.coeff(1)
	c := defining.coeff(0)

	disc := b.Mul(b).Sub(a.Mul(c).Scale(ratInt(4)))
	negB := b.Neg().trim()
	twoA := a.Scale(ratInt(2))

	// The zero-constant-term branch takes the minus sign when -b is
	// positive at x=0, which is the shape the builder produces.
	sign := "-"
	if b.Coeff(0).Sign() > 0 {
		sign = "+"
	}
	return fmt.Sprintf("(%s %s sqrt(%s))/(%s)", negB, sign, disc, twoA)
}

// checkCombinatorial enforces the branch-selection rule: zero constant
// term (paths have positive length) and non-negative coefficients, with at
// least one path counted.
func checkCombinatorial(name string, s series) error {
	if s[0].Sign() != 0 {
		return fmt.Errorf("solve %q: nonzero constant term: %w", name, ErrNoCombinatorialSolution)
	}
	any := false
	for _, c := range s {
		if c.Sign() < 0 {
			return fmt.Errorf("solve %q: negative series coefficient: %w",
				name, ErrNoCombinatorialSolution)
		}
		if c.Sign() > 0 {
			any = true
		}
	}
	if !any {
		return fmt.Errorf("solve %q: zero series: %w", name, ErrNoCombinatorialSolution)
	}
	return nil
}
