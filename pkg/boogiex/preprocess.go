package boogiex

// ExtractAxioms walks every axiom in prog and files it into store as
// Definitions and/or Constraints, per §4.6's recursive rules. It runs
// once, before any procedure executes, turning the program's static
// axioms into the lazily-consulted entries materializeVar/selectMap
// draw on during evaluation.
func ExtractAxioms(prog *Program, store *ConstraintStore) {
	for _, ax := range prog.Axioms {
		extractOne(ax, nil, map[string]TypedVar{}, store)
	}
}

// extractOne recursively decomposes one axiom (or subterm reached
// through a `forall`) under the guard accumulated so far and the bound
// variables currently in scope (§4.6):
//
//   - a ∧ b: both conjuncts recurse under the same guard.
//   - a ∨ b: each disjunct recurses under the guard extended with the
//     negation of the other, so that a disjunction of mutually
//     exclusive guarded facts ("if x < 0 then ... else ...") still
//     yields guarded Definitions/Constraints rather than being
//     discarded as non-decomposable.
//   - forall vars :: body: extends the bound-variable scope and
//     recurses into body.
//   - exists vars :: body: not usable as a rewrite source (no
//     constructive witness), ignored.
//   - a simple equality whose one side names a constant, global,
//     function application, or map selection over only bound
//     variables: becomes a guarded Definition for that name.
//   - anything else: becomes a guarded Constraint, filed under
//     whichever name the expression appears to be "about" (best
//     effort — see constraintHead).
func extractOne(e *Expr, guard *Expr, quantCtx map[string]TypedVar, store *ConstraintStore) {
	switch e.Kind {
	case EBinary:
		switch e.Op {
		case OpAnd:
			extractOne(e.Left, guard, quantCtx, store)
			extractOne(e.Right, guard, quantCtx, store)
			return
		case OpOr:
			extractOne(e.Left, combineGuard(guard, negate(e.Right)), quantCtx, store)
			extractOne(e.Right, combineGuard(guard, negate(e.Left)), quantCtx, store)
			return
		case OpEq:
			if extractEquality(e.Left, e.Right, guard, quantCtx, store) {
				return
			}
			if extractEquality(e.Right, e.Left, guard, quantCtx, store) {
				return
			}
		}

	case EQuant:
		if e.Quant == Exists {
			return
		}
		child := make(map[string]TypedVar, len(quantCtx)+len(e.BoundVars))
		for k, v := range quantCtx {
			child[k] = v
		}
		for _, bv := range e.BoundVars {
			child[bv.Name] = bv
		}
		extractOne(e.Body, guard, child, store)
		return
	}

	store.AddConstraint(constraintHead(e, quantCtx), &Constraint{
		FreeVars: freeBoundNames(quantCtx),
		Guard:    guard,
		Body:     e,
		Pos:      e.Pos,
	})
}

// combineGuard conjoins two (possibly nil, meaning "always true")
// guards.
func combineGuard(a, b *Expr) *Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return BinaryExpr(a.Pos, OpAnd, a, b)
}

// buildFormals checks that every argument in args is a reference to a
// variable currently bound by quantCtx, and if so returns them as an
// ordered Formals list (the shape a Definition needs to later bind
// actual index/argument values by position).
func buildFormals(args []*Expr, quantCtx map[string]TypedVar) ([]TypedVar, bool) {
	formals := make([]TypedVar, len(args))
	for i, a := range args {
		if a.Kind != EVar {
			return nil, false
		}
		tv, ok := quantCtx[a.Name]
		if !ok {
			return nil, false
		}
		formals[i] = tv
	}
	return formals, true
}

// extractEquality attempts to read `lhs == rhs` as a Definition for
// lhs's head name, returning false (do nothing) if lhs isn't one of
// the recognized definable shapes.
func extractEquality(lhs, rhs *Expr, guard *Expr, quantCtx map[string]TypedVar, store *ConstraintStore) bool {
	switch lhs.Kind {
	case EVar:
		if _, bound := quantCtx[lhs.Name]; bound {
			return false
		}
		store.AddDefinition(lhs.Name, &Definition{Guard: guard, Body: rhs, Pos: lhs.Pos})
		return true

	case EApp:
		formals, ok := buildFormals(lhs.Args, quantCtx)
		if !ok {
			return false
		}
		store.AddDefinition(lhs.Name, &Definition{Formals: formals, Guard: guard, Body: rhs, Pos: lhs.Pos})
		return true

	case ESel:
		if lhs.Map.Kind != EVar {
			return false
		}
		formals, ok := buildFormals(lhs.Args, quantCtx)
		if !ok {
			return false
		}
		store.AddDefinition(lhs.Map.Name, &Definition{Formals: formals, Guard: guard, Body: rhs, Pos: lhs.Pos})
		return true
	}
	return false
}

// constraintHead makes a best-effort guess at which name a non-equality
// constraint is "about", for indexing into the by-name constraint
// store: the first free (non-bound) name reached by descending through
// applications, selections, and the two sides of a binary expression.
// An unidentifiable constraint is filed under "", which no lazy
// materialization ever consults directly — a limitation of this
// best-effort indexing rather than a silently dropped axiom, since
// extractOne has already recorded it before reaching here.
func constraintHead(e *Expr, quantCtx map[string]TypedVar) string {
	switch e.Kind {
	case EVar:
		if _, bound := quantCtx[e.Name]; !bound {
			return e.Name
		}
	case EApp:
		return e.Name
	case ESel:
		if e.Map.Kind == EVar {
			return e.Map.Name
		}
	case EUnary:
		return constraintHead(e.Inner, quantCtx)
	case EBinary:
		if h := constraintHead(e.Left, quantCtx); h != "" {
			return h
		}
		return constraintHead(e.Right, quantCtx)
	}
	return ""
}

func freeBoundNames(quantCtx map[string]TypedVar) []string {
	names := make([]string, 0, len(quantCtx))
	for k := range quantCtx {
		names = append(names, k)
	}
	return names
}
