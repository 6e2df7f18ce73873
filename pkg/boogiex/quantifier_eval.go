package boogiex

import "context"

// evalQuantified implements §4.5: rewrite the body to NNF, infer each
// bound variable's finite domain in turn (§4.7), and enumerate their
// Cartesian product depth-first, short-circuiting on the first
// satisfying assignment for Exists. Forall is derived as ¬∃¬, the same
// reduction the flattener/NNF pass already assumes elsewhere.
func (ev *Evaluator) evalQuantified(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	switch e.Quant {
	case Exists:
		nnf := ToNNF(e.Body)
		v, err := ev.enumerateBound(ctx, e.BoundVars, nnf, mem, e.Pos)
		if err != nil {
			return Value{}, e, err
		}
		return v, e, nil

	case Forall:
		negated := QuantExpr(e.Pos, Exists, e.BoundVars, negate(e.Body))
		nnf := ToNNF(negated.Body)
		v, err := ev.enumerateBound(ctx, negated.BoundVars, nnf, mem, e.Pos)
		if err != nil {
			return Value{}, e, err
		}
		return BoolVal(!v.Bool), e, nil

	default:
		return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "unknown quantifier kind")}
	}
}

// enumerateBound recursively infers and enumerates one bound variable
// at a time, left to right, evaluating nnfBody once all variables are
// bound. A cycle signal raised while testing one candidate is treated
// as "this candidate is unreachable", not a hard failure — enumeration
// simply continues to the next candidate, mirroring how execFrom
// (eval_stmt.go) moves on to the next successor block when one raises
// an unreachableSignal.
func (ev *Evaluator) enumerateBound(ctx context.Context, vars []TypedVar, nnfBody *Expr, mem *Memory, pos Position) (Value, error) {
	if len(vars) == 0 {
		v, _, err := ev.evalInternal(ctx, nnfBody, mem)
		if err != nil {
			if _, ok := err.(*cycleSignal); ok {
				return BoolVal(false), nil
			}
			return Value{}, err
		}
		if v.Kind != BoolValue {
			return Value{}, &failureSignal{f: unsupported(pos, "", "", "quantifier body is not boolean")}
		}
		return v, nil
	}

	head, rest := vars[0], vars[1:]
	dom, derr := inferDomain(head, nnfBody, map[string]Interval{}, ev.QuantBound)
	if derr != nil {
		qerr, _ := derr.(*quantDomainErr)
		return Value{}, &failureSignal{f: infiniteDomain(pos, "", "", qerr)}
	}

	for _, val := range dom.Values() {
		scoped := mem.EnterQuantifierScope(head.Name, head.Typ, val)
		v, err := ev.enumerateBound(ctx, rest, nnfBody, scoped, pos)
		if err != nil {
			return Value{}, err
		}
		if v.Kind == BoolValue && v.Bool {
			return BoolVal(true), nil
		}
	}
	return BoolVal(false), nil
}
