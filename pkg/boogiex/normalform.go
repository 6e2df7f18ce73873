package boogiex

// ToNNF rewrites e to negation-prenex normal form: negation is pushed
// down to the leaves (literals, variables, applications, selections —
// anything that is not itself a logical connective or quantifier), per
// §4.5's requirement that quantifier bodies be in NNF before interval
// inference runs (§4.7 explicitly operates over "false / and / or /
// comparisons", which only occur at fixed polarity in NNF).
func ToNNF(e *Expr) *Expr {
	return toNNF(e, false)
}

// toNNF rewrites e under an ambient negation: neg == true means "e is
// wrapped in a Not that must be pushed inward".
func toNNF(e *Expr, neg bool) *Expr {
	switch e.Kind {
	case EUnary:
		if e.Op == OpNot {
			return toNNF(e.Inner, !neg)
		}
		if neg {
			return negate(e)
		}
		return e

	case EBinary:
		switch e.Op {
		case OpAnd:
			if neg {
				// not(a && b) == not(a) || not(b)
				return BinaryExpr(e.Pos, OpOr, toNNF(e.Left, true), toNNF(e.Right, true))
			}
			return BinaryExpr(e.Pos, OpAnd, toNNF(e.Left, false), toNNF(e.Right, false))

		case OpOr:
			if neg {
				return BinaryExpr(e.Pos, OpAnd, toNNF(e.Left, true), toNNF(e.Right, true))
			}
			return BinaryExpr(e.Pos, OpOr, toNNF(e.Left, false), toNNF(e.Right, false))

		case OpImp:
			// a ==> b  ==  !a || b
			rewritten := BinaryExpr(e.Pos, OpOr, negate(e.Left), e.Right)
			return toNNF(rewritten, neg)

		case OpExp:
			// a <== b  ==  b ==> a
			rewritten := BinaryExpr(e.Pos, OpImp, e.Right, e.Left)
			return toNNF(rewritten, neg)

		default:
			// Comparisons and arithmetic are not logical connectives;
			// negating a comparison is left as an explicit Not wrapper
			// rather than flipped to its complementary relation, since
			// that flip is not sound for all operand types (e.g. NaN
			// has no analogue here, but user types under `==`/`!=` are
			// not totally ordered in general).
			if neg {
				return negate(e)
			}
			return e
		}

	case EQuant:
		innerQuant := e.Quant
		if neg {
			if innerQuant == Forall {
				innerQuant = Exists
			} else {
				innerQuant = Forall
			}
		}
		return QuantExpr(e.Pos, innerQuant, e.BoundVars, toNNF(e.Body, neg))

	case EIf:
		// if c then t else e, negated, negates both branches; the
		// guard's polarity is unaffected since it merely selects a
		// branch rather than asserting anything itself.
		then := toNNF(e.Then, neg)
		els := toNNF(e.Else, neg)
		return IfExprNode(e.Pos, e.Cond, then, els)

	default:
		// Literal, variable, application, selection, update, old,
		// coercion: not a connective, so negation (if any) stays as an
		// explicit wrapper at the leaf.
		if neg {
			return negate(e)
		}
		return e
	}
}
