package boogiex

// LinearForm represents a·x + b for a single distinguished variable x,
// where the coefficient a and constant b are themselves intervals
// (they may depend on other, not-yet-narrowed variables), following
// §4.7: "linearize ae1 − ae2 into a linear form (A, B) of a·x + b
// where a ∈ A, b ∈ B".
type LinearForm struct {
	A Interval // coefficient interval
	B Interval // constant interval
}

// errNotLinear is the internal exception of §4.6/§7 raised when an
// expression cannot be linearized with respect to the variable being
// refined. It is caught by refineComparison (quantifier.go) and turned
// into Top for that subexpression — it must never escape further.
type errNotLinear struct{}

func (errNotLinear) Error() string { return "internal: expression is not linear (not user visible)" }

// linearize computes the linear form of e with respect to variable
// name, given the current interval environment env for all other
// (already-partially-narrowed) variables. It supports literals,
// variable references, negation, and +/-/* where at least one side is
// variable-free, which covers every linear shape that §4.7's seeded
// scenarios and ordinary loop/quantifier bounds exercise. Anything
// else yields errNotLinear.
func linearize(e *Expr, name string, env map[string]Interval) (LinearForm, error) {
	switch e.Kind {
	case ELit:
		if e.Lit.Kind != IntValue {
			return LinearForm{}, errNotLinear{}
		}
		return LinearForm{A: Point(0), B: Point(e.Lit.Int)}, nil

	case EVar:
		if e.Name == name {
			return LinearForm{A: Point(1), B: Point(0)}, nil
		}
		if iv, ok := env[e.Name]; ok {
			return LinearForm{A: Point(0), B: iv}, nil
		}
		return LinearForm{}, errNotLinear{}

	case EUnary:
		if e.Op != OpNeg {
			return LinearForm{}, errNotLinear{}
		}
		inner, err := linearize(e.Inner, name, env)
		if err != nil {
			return LinearForm{}, err
		}
		return LinearForm{A: inner.A.Neg(), B: inner.B.Neg()}, nil

	case EBinary:
		switch e.Op {
		case OpAdd, OpSub:
			l, err := linearize(e.Left, name, env)
			if err != nil {
				return LinearForm{}, err
			}
			r, err := linearize(e.Right, name, env)
			if err != nil {
				return LinearForm{}, err
			}
			if e.Op == OpSub {
				r = LinearForm{A: r.A.Neg(), B: r.B.Neg()}
			}
			return LinearForm{A: l.A.Add(r.A), B: l.B.Add(r.B)}, nil

		case OpMul:
			l, errL := linearize(e.Left, name, env)
			r, errR := linearize(e.Right, name, env)
			switch {
			case errL == nil && l.A.Equal(Point(0)):
				// left is variable-free (a constant interval l.B); scale r by it.
				if errR != nil {
					return LinearForm{}, errR
				}
				return scaleLinear(r, l.B), nil
			case errR == nil && r.A.Equal(Point(0)):
				if errL != nil {
					return LinearForm{}, errL
				}
				return scaleLinear(l, r.B), nil
			default:
				return LinearForm{}, errNotLinear{}
			}

		default:
			return LinearForm{}, errNotLinear{}
		}

	default:
		return LinearForm{}, errNotLinear{}
	}
}

// scaleLinear multiplies a linear form by a constant interval factor.
// Used only when the factor does not itself mention x (checked by the
// caller), so the result is still linear in x.
func scaleLinear(lf LinearForm, factor Interval) LinearForm {
	if factor.IsFinite() && factor.Lo == factor.Hi {
		c := factor.Lo
		return LinearForm{A: lf.A.ScaleByConst(c), B: lf.B.ScaleByConst(c)}
	}
	// A non-singleton scale factor still bounds the result but loses
	// precision; over-approximate conservatively via the two extreme
	// scalings' join.
	lo := lf.A.ScaleByConst(factor.Lo).Join(lf.A.ScaleByConst(factor.Hi))
	hi := lf.B.ScaleByConst(factor.Lo).Join(lf.B.ScaleByConst(factor.Hi))
	return LinearForm{A: lo, B: hi}
}

// solveLE derives the tightest interval constraint on x implied by
// `a·x + b ≤ 0` (i.e. ae1 ≤ ae2 rewritten as ae1 − ae2 ≤ 0), via
// interval division on the sign of a, per §4.7: "from the sign of A
// derive interval constraints on x via interval division".
func solveLE(lf LinearForm) Interval {
	a, b := lf.A, lf.B
	switch {
	case a.Bot || b.Bot:
		return Bottom
	case a.Lo > 0:
		// a stays strictly positive over its whole range: x ≤ -b/a,
		// using the most permissive (smallest |a|, largest -b) corner.
		return Range(NegInf, floorDiv(satNeg(b.Lo), a.Lo))
	case a.Hi < 0:
		// a stays strictly negative: dividing flips the inequality,
		// x ≥ -b/a (ceiling, using the most permissive corner).
		return Range(ceilDiv(satNeg(b.Hi), a.Hi), PosInf)
	case a.Lo == 0 && a.Hi == 0:
		// Coefficient is exactly zero: constraint doesn't mention x at
		// all; it's either always true or always false independent of
		// x, so x itself is unconstrained by this subexpression.
		return Top
	default:
		// a straddles zero: sign (and hence direction of division) is
		// unknown, so x is unconstrained by this subexpression (§4.7:
		// "non-linear or unsupported shapes yield top").
		return Top
	}
}

// floorDiv / ceilDiv implement Euclidean-adjacent rounding for the
// interval-bound derivation above; they are distinct from the
// expression evaluator's euclidDivMod (§4.2), which implements true
// Euclidean division with a non-negative remainder for user-level
// `div`/`mod`. These instead round toward -infinity/+infinity to keep
// the derived interval sound (never excludes a satisfying value).
func floorDiv(n, d int64) int64 {
	if n == PosInf || n == NegInf {
		return n
	}
	q := n / d
	if (n%d != 0) && ((n < 0) != (d < 0)) {
		q--
	}
	return q
}

func ceilDiv(n, d int64) int64 {
	if n == PosInf || n == NegInf {
		return n
	}
	q := n / d
	if (n%d != 0) && ((n < 0) == (d < 0)) {
		q++
	}
	return q
}
