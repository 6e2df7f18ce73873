package boogiex

import (
	"fmt"
	"math"
)

// Interval is a lattice element over (possibly unbounded) integers,
// used by the quantifier engine (§4.7) to narrow a bound variable's
// domain to something enumerable. Unlike a small bounded bitset domain
// suited to finite CSP variables, quantifier bounds are signed and may
// be unbounded in either direction, so Interval tracks [Lo, Hi] with
// math.MinInt64/MaxInt64
// standing in for -infinity/+infinity, and a separate Bot flag for the
// empty (unsatisfiable) interval.
type Interval struct {
	Lo, Hi int64
	Bot    bool // true: the empty interval (bottom of the lattice)
}

// NegInf and PosInf are the sentinel unbounded endpoints.
const (
	NegInf = math.MinInt64
	PosInf = math.MaxInt64
)

// Top is the unconstrained interval (-inf, +inf).
var Top = Interval{Lo: NegInf, Hi: PosInf}

// Bottom is the empty interval.
var Bottom = Interval{Bot: true}

// Point returns the singleton interval {v, v}.
func Point(v int64) Interval { return Interval{Lo: v, Hi: v} }

// Range returns the closed interval [lo, hi], or Bottom if lo > hi.
func Range(lo, hi int64) Interval {
	if lo > hi {
		return Bottom
	}
	return Interval{Lo: lo, Hi: hi}
}

func (a Interval) String() string {
	if a.Bot {
		return "bottom"
	}
	lo, hi := "-inf", "+inf"
	if a.Lo != NegInf {
		lo = fmt.Sprintf("%d", a.Lo)
	}
	if a.Hi != PosInf {
		hi = fmt.Sprintf("%d", a.Hi)
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// IsTop reports whether a is the fully unconstrained interval.
func (a Interval) IsTop() bool { return !a.Bot && a.Lo == NegInf && a.Hi == PosInf }

// IsFinite reports whether both endpoints are concrete (enumerable
// without a user-supplied bound).
func (a Interval) IsFinite() bool { return !a.Bot && a.Lo != NegInf && a.Hi != PosInf }

// Meet computes the greatest lower bound (intersection) of two
// intervals, used for conjunction (§4.7: "∧ → meet of component
// intervals"). Meet is monotone: it never enlarges either operand.
func (a Interval) Meet(b Interval) Interval {
	if a.Bot || b.Bot {
		return Bottom
	}
	lo := maxI64(a.Lo, b.Lo)
	hi := minI64(a.Hi, b.Hi)
	if lo > hi {
		return Bottom
	}
	return Interval{Lo: lo, Hi: hi}
}

// Join computes the least upper bound (convex hull) of two intervals,
// used for disjunction (§4.7: "∨ → join").
func (a Interval) Join(b Interval) Interval {
	if a.Bot {
		return b
	}
	if b.Bot {
		return a
	}
	return Interval{Lo: minI64(a.Lo, b.Lo), Hi: maxI64(a.Hi, b.Hi)}
}

// Equal reports whether two intervals denote the same lattice element.
func (a Interval) Equal(b Interval) bool {
	if a.Bot != b.Bot {
		return false
	}
	if a.Bot {
		return true
	}
	return a.Lo == b.Lo && a.Hi == b.Hi
}

// Contains reports whether v lies in the interval.
func (a Interval) Contains(v int64) bool {
	return !a.Bot && a.Lo <= v && v <= a.Hi
}

// Add computes interval sum [a.Lo+b.Lo, a.Hi+b.Hi], saturating at the
// infinity sentinels rather than overflowing.
func (a Interval) Add(b Interval) Interval {
	if a.Bot || b.Bot {
		return Bottom
	}
	return Interval{Lo: satAdd(a.Lo, b.Lo), Hi: satAdd(a.Hi, b.Hi)}
}

// Neg computes [-a.Hi, -a.Lo].
func (a Interval) Neg() Interval {
	if a.Bot {
		return Bottom
	}
	return Interval{Lo: satNeg(a.Hi), Hi: satNeg(a.Lo)}
}

// Sub computes a - b.
func (a Interval) Sub(b Interval) Interval { return a.Add(b.Neg()) }

// ScaleByConst computes c * a for a concrete integer c, used when
// linearizing a*x terms where a is a literal coefficient.
func (a Interval) ScaleByConst(c int64) Interval {
	if a.Bot {
		return Bottom
	}
	if c == 0 {
		return Point(0)
	}
	x, y := satMul(a.Lo, c), satMul(a.Hi, c)
	if c < 0 {
		x, y = y, x
	}
	return Interval{Lo: x, Hi: y}
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func satAdd(a, b int64) int64 {
	if a == NegInf || b == NegInf {
		return NegInf
	}
	if a == PosInf || b == PosInf {
		return PosInf
	}
	sum := a + b
	// Overflow check; saturate toward the sign of the operands.
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return PosInf
		}
		return NegInf
	}
	return sum
}

func satNeg(a int64) int64 {
	if a == NegInf {
		return PosInf
	}
	if a == PosInf {
		return NegInf
	}
	return -a
}

func satMul(a, c int64) int64 {
	if a == NegInf || a == PosInf {
		if c == 0 {
			return 0
		}
		if (a == PosInf) == (c > 0) {
			return PosInf
		}
		return NegInf
	}
	p := a * c
	if a != 0 && p/a != c {
		if (a > 0) == (c > 0) {
			return PosInf
		}
		return NegInf
	}
	return p
}
