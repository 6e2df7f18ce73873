package boogiex

import "fmt"

// quantDomainErr distinguishes the two ways domain inference can fail
// to produce an enumerable domain (§4.5, §7): a structurally
// unsupported bound (map type, free type variable), or a structurally
// supported but unbounded-and-unguarded one (InfiniteDomain).
type quantDomainErr struct {
	unsupported bool
	varName     string
	interval    Interval
}

func (e *quantDomainErr) Error() string {
	if e.unsupported {
		return fmt.Sprintf("quantification over %q is unsupported", e.varName)
	}
	return fmt.Sprintf("quantifier domain for %q is infinite: %s", e.varName, e.interval)
}

// QDomainKind discriminates how a bound variable's finite domain is
// represented for enumeration.
type QDomainKind int

const (
	QDomainBool QDomainKind = iota
	QDomainInt
)

// QDomain is the inferred, enumerable set of values a bound quantifier
// variable ranges over (§4.7's output).
type QDomain struct {
	Kind     QDomainKind
	Interval Interval // QDomainInt
}

// Values enumerates the concrete values of the domain in ascending
// order, matching §4.7/Design Note (i): booleans yield both values
// (the source's "allValues for BoolType returns False twice" bug is
// interpreted as intended, per the spec's Open Question (i)).
func (d QDomain) Values() []Value {
	switch d.Kind {
	case QDomainBool:
		return []Value{BoolVal(false), BoolVal(true)}
	case QDomainInt:
		if !d.Interval.IsFinite() {
			return nil
		}
		n := d.Interval.Hi - d.Interval.Lo + 1
		vals := make([]Value, 0, n)
		for v := d.Interval.Lo; v <= d.Interval.Hi; v++ {
			vals = append(vals, IntVal(v))
		}
		return vals
	default:
		return nil
	}
}

// inferDomain infers a finite domain for a single bound variable from
// the (already-NNF) quantifier body, per §4.7. bound is the caller's
// quantification bound (q_bound, §6/§8), applied as the seed interval
// for named types and as a fallback cap for otherwise-infinite integer
// domains.
func inferDomain(tv TypedVar, nnfBody *Expr, others map[string]Interval, bound Interval) (QDomain, error) {
	switch tv.Typ.Kind {
	case BoolType:
		return QDomain{Kind: QDomainBool}, nil

	case IntType, NamedType:
		if tv.Typ.Kind == NamedType && tv.Typ.IsTypeVar {
			return QDomain{}, &quantDomainErr{unsupported: true, varName: tv.Name}
		}
		seed := Top
		if tv.Typ.Kind == NamedType {
			seed = bound
		}
		refined := fixpointRefine(tv.Name, nnfBody, others, seed)
		if !refined.Bot && tv.Typ.Kind == NamedType {
			refined = refined.Meet(bound)
		}
		if refined.Bot {
			return QDomain{Kind: QDomainInt, Interval: Bottom}, nil
		}
		if !refined.IsFinite() {
			refined = refined.Meet(bound)
		}
		if !refined.IsFinite() {
			return QDomain{}, &quantDomainErr{varName: tv.Name, interval: refined}
		}
		return QDomain{Kind: QDomainInt, Interval: refined}, nil

	default:
		return QDomain{}, &quantDomainErr{unsupported: true, varName: tv.Name}
	}
}

// fixpointRefine repeatedly narrows the interval for varName against
// the body, per §4.7's fixpoint. Each iteration infers a wholly fresh
// interval from the body's structure (refineExpr) and meets it with
// the interval accumulated so far, which is monotone (Meet never
// enlarges), guaranteeing termination (Testable Property 7).
func fixpointRefine(varName string, nnfBody *Expr, others map[string]Interval, seed Interval) Interval {
	cur := seed
	env := make(map[string]Interval, len(others)+1)
	for k, v := range others {
		env[k] = v
	}
	for iter := 0; iter < 256; iter++ {
		env[varName] = cur
		next := cur.Meet(refineExpr(nnfBody, varName, env))
		if next.Equal(cur) {
			return next
		}
		cur = next
		if cur.Bot {
			return cur
		}
	}
	return cur
}

// refineExpr computes the interval implied for varName by e alone,
// per §4.7's case list. It is a pure structural transfer function: it
// does not consult any running estimate for varName itself (that
// accumulation is fixpointRefine's job), only the caller-supplied
// intervals of other variables via env.
func refineExpr(e *Expr, varName string, env map[string]Interval) Interval {
	switch e.Kind {
	case ELit:
		if e.Lit.Kind == BoolValue && !e.Lit.Bool {
			return Bottom
		}
		return Top

	case EBinary:
		switch e.Op {
		case OpAnd:
			return refineExpr(e.Left, varName, env).Meet(refineExpr(e.Right, varName, env))
		case OpOr:
			return refineExpr(e.Left, varName, env).Join(refineExpr(e.Right, varName, env))
		case OpLe:
			return refineComparison(e.Left, e.Right, varName, env)
		case OpLt:
			// a < b  ==  a + 1 <= b
			shifted := BinaryExpr(e.Pos, OpAdd, e.Left, LitExpr(e.Pos, IntVal(1)))
			return refineComparison(shifted, e.Right, varName, env)
		case OpGe:
			return refineComparison(e.Right, e.Left, varName, env)
		case OpGt:
			shifted := BinaryExpr(e.Pos, OpAdd, e.Right, LitExpr(e.Pos, IntVal(1)))
			return refineComparison(shifted, e.Left, varName, env)
		case OpEq:
			return refineComparison(e.Left, e.Right, varName, env).Meet(refineComparison(e.Right, e.Left, varName, env))
		default:
			return Top
		}

	default:
		return Top
	}
}

// refineComparison derives the interval implied for varName by
// `lhs <= rhs`, by linearizing lhs - rhs <= 0 and solving for varName
// via interval division on the sign of its coefficient (§4.7). A
// non-linear shape yields Top for this subexpression (errNotLinear is
// caught here, per the design note that it must never escape).
func refineComparison(lhs, rhs *Expr, varName string, env map[string]Interval) Interval {
	diff := BinaryExpr(lhs.Pos, OpSub, lhs, rhs)
	lf, err := linearize(diff, varName, env)
	if err != nil {
		return Top
	}
	return solveLE(lf)
}
