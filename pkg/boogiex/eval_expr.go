package boogiex

import (
	"context"
	"fmt"
)

// failureSignal wraps a user-visible Failure so it can travel through
// the same internal error channel as cycleSignal without the two ever
// being confused: evalInternal's callers type-switch to tell them apart,
// and only Eval (the public entry point) ever converts a failureSignal
// back into the *Failure the rest of the package deals in.
type failureSignal struct{ f *Failure }

func (f *failureSignal) Error() string { return f.f.Error() }

// Evaluator is the interpreter core of §4.2-§4.7: it holds everything
// a single evaluation needs beyond the per-branch Memory itself — the
// program being checked, the constraint store extracted from its
// axioms, the pluggable Generator/Chooser, the solver bridge, the
// quantifier enumeration bound, and the choice recorder driving this
// particular depth-first pass (choice.go).
type Evaluator struct {
	Program    *Program
	Store      *ConstraintStore
	Chooser    Chooser
	Bridge     *SolverBridge
	QuantBound Interval
	Recorder   *ChoiceRecorder
}

// NewEvaluator wires together one evaluation pass.
func NewEvaluator(prog *Program, store *ConstraintStore, chooser Chooser, bridge *SolverBridge, quantBound Interval, recorder *ChoiceRecorder) *Evaluator {
	return &Evaluator{
		Program:    prog,
		Store:      store,
		Chooser:    chooser,
		Bridge:     bridge,
		QuantBound: quantBound,
		Recorder:   recorder,
	}
}

// Eval evaluates e under mem, returning its value and the last
// subexpression actually evaluated (meaningful for the short-circuit
// binary operators, §4.2). A non-nil *Failure means a user-visible
// violation; internal-only signals (cycleSignal) never reach this
// boundary unresolved — if one somehow does, it is downgraded to an
// UnsupportedConstruct Failure rather than propagated further or
// panicked.
func (ev *Evaluator) Eval(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, *Failure) {
	v, last, err := ev.evalInternal(ctx, e, mem)
	if err == nil {
		return v, last, nil
	}
	if fs, ok := err.(*failureSignal); ok {
		return Value{}, last, fs.f
	}
	return Value{}, last, unsupported(e.Pos, "", "", "unresolved internal signal: "+err.Error())
}

func (ev *Evaluator) evalInternal(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	switch e.Kind {
	case ELit:
		return e.Lit, e, nil

	case EVar:
		v, err := ev.resolveVar(ctx, e.Name, mem)
		if err != nil {
			return Value{}, e, err
		}
		return v, e, nil

	case EApp:
		return ev.evalApp(ctx, e, mem)

	case ESel:
		return ev.evalSel(ctx, e, mem)

	case EUpd:
		return ev.evalUpd(ctx, e, mem)

	case EOld:
		if mem.InOld {
			return ev.evalInternal(ctx, e.Inner, mem)
		}
		oldMem := &Memory{
			Locals: mem.Locals, Globals: mem.Globals, OldGlobals: mem.OldGlobals,
			Modified: mem.Modified, Constants: mem.Constants, Heap: mem.Heap,
			InOld: true, TypeCtx: mem.TypeCtx,
		}
		return ev.evalInternal(ctx, e.Inner, oldMem)

	case EIf:
		cv, _, err := ev.evalInternal(ctx, e.Cond, mem)
		if err != nil {
			return Value{}, e, err
		}
		if cv.Kind != BoolValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "if-expression condition is not boolean")}
		}
		if cv.Bool {
			return ev.evalInternal(ctx, e.Then, mem)
		}
		return ev.evalInternal(ctx, e.Else, mem)

	case ECoerce:
		// Coercion is a type-checker concern (out of scope, §1); the
		// runtime value's representation is unaffected.
		return ev.evalInternal(ctx, e.Inner, mem)

	case EUnary:
		return ev.evalUnary(ctx, e, mem)

	case EBinary:
		return ev.evalBinary(ctx, e, mem)

	case EQuant:
		return ev.evalQuantified(ctx, e, mem)

	default:
		return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", fmt.Sprintf("unknown expression kind %v", e.Kind))}
	}
}

func (ev *Evaluator) evalUnary(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	iv, _, err := ev.evalInternal(ctx, e.Inner, mem)
	if err != nil {
		return Value{}, e, err
	}
	switch e.Op {
	case OpNeg:
		if iv.Kind != IntValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "unary - on non-integer")}
		}
		return IntVal(-iv.Int), e, nil
	case OpNot:
		if iv.Kind != BoolValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "unary ! on non-boolean")}
		}
		return BoolVal(!iv.Bool), e, nil
	default:
		return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "unknown unary operator "+e.Op)}
	}
}

func (ev *Evaluator) evalBinary(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	// Short-circuit logical connectives track their own "last evaluated
	// subexpression" (§4.2), which can differ from e itself.
	switch e.Op {
	case OpAnd:
		lv, lastL, err := ev.evalInternal(ctx, e.Left, mem)
		if err != nil {
			return Value{}, e, err
		}
		if lv.Kind != BoolValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "&& on non-boolean")}
		}
		if !lv.Bool {
			return BoolVal(false), lastL, nil
		}
		rv, lastR, err := ev.evalInternal(ctx, e.Right, mem)
		if err != nil {
			return Value{}, e, err
		}
		return rv, lastR, nil

	case OpOr:
		lv, lastL, err := ev.evalInternal(ctx, e.Left, mem)
		if err != nil {
			return Value{}, e, err
		}
		if lv.Kind != BoolValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "|| on non-boolean")}
		}
		if lv.Bool {
			return BoolVal(true), lastL, nil
		}
		rv, lastR, err := ev.evalInternal(ctx, e.Right, mem)
		if err != nil {
			return Value{}, e, err
		}
		return rv, lastR, nil

	case OpImp:
		lv, lastL, err := ev.evalInternal(ctx, e.Left, mem)
		if err != nil {
			return Value{}, e, err
		}
		if lv.Kind != BoolValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "==> on non-boolean")}
		}
		if !lv.Bool {
			return BoolVal(true), lastL, nil
		}
		rv, lastR, err := ev.evalInternal(ctx, e.Right, mem)
		if err != nil {
			return Value{}, e, err
		}
		return rv, lastR, nil

	case OpExp:
		rv, lastR, err := ev.evalInternal(ctx, e.Right, mem)
		if err != nil {
			return Value{}, e, err
		}
		if rv.Kind != BoolValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "<== on non-boolean")}
		}
		if !rv.Bool {
			return BoolVal(true), lastR, nil
		}
		lv, lastL, err := ev.evalInternal(ctx, e.Left, mem)
		if err != nil {
			return Value{}, e, err
		}
		return lv, lastL, nil
	}

	lv, _, err := ev.evalInternal(ctx, e.Left, mem)
	if err != nil {
		return Value{}, e, err
	}
	rv, _, err := ev.evalInternal(ctx, e.Right, mem)
	if err != nil {
		return Value{}, e, err
	}

	switch e.Op {
	case OpEq, OpNeq:
		eq, err := ev.valuesEqual(ctx, mem, lv, rv)
		if err != nil {
			return Value{}, e, err
		}
		if e.Op == OpNeq {
			eq = !eq
		}
		return BoolVal(eq), e, nil

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		if lv.Kind != IntValue || rv.Kind != IntValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "arithmetic on non-integer")}
		}
		switch e.Op {
		case OpAdd:
			return IntVal(lv.Int + rv.Int), e, nil
		case OpSub:
			return IntVal(lv.Int - rv.Int), e, nil
		case OpMul:
			return IntVal(lv.Int * rv.Int), e, nil
		case OpDiv, OpMod:
			if rv.Int == 0 {
				return Value{}, e, &failureSignal{f: divByZero(e.Pos, "", "")}
			}
			q, r := euclidDivMod(lv.Int, rv.Int)
			if e.Op == OpDiv {
				return IntVal(q), e, nil
			}
			return IntVal(r), e, nil
		}
	case OpLt, OpLe, OpGt, OpGe:
		if lv.Kind != IntValue || rv.Kind != IntValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "comparison on non-integer")}
		}
		switch e.Op {
		case OpLt:
			return BoolVal(lv.Int < rv.Int), e, nil
		case OpLe:
			return BoolVal(lv.Int <= rv.Int), e, nil
		case OpGt:
			return BoolVal(lv.Int > rv.Int), e, nil
		case OpGe:
			return BoolVal(lv.Int >= rv.Int), e, nil
		}
	}
	return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "unknown binary operator "+e.Op)}
}

// euclidDivMod implements true Euclidean division: the remainder is
// always non-negative regardless of operand signs (§4.2), distinct
// from Go's truncating %, and distinct from linearize.go's
// round-toward-infinity floorDiv/ceilDiv used for interval soundness.
func euclidDivMod(a, b int64) (q, r int64) {
	q = a / b
	r = a % b
	if r < 0 {
		if b > 0 {
			q--
			r += b
		} else {
			q++
			r -= b
		}
	}
	return q, r
}

// valuesEqual implements §4.2's Eq/Neq: strict Value equality for
// every kind except two map references, which instead delegate to the
// non-deterministic map-equality resolution procedure of §4.4
// (mapeq.go).
func (ev *Evaluator) valuesEqual(ctx context.Context, mem *Memory, a, b Value) (bool, error) {
	if a.Kind == MapRefValue && b.Kind == MapRefValue {
		return ev.resolveMapEquality(ctx, mem, a.Ref, b.Ref)
	}
	return a.Equal(b), nil
}

// resolveVar looks up name in mem's stores, detecting an in-progress
// sentinel (signalling a definition cycle) before falling through to
// lazy materialization for a not-yet-touched global or constant, or
// plain fresh generation for an uninitialized local (§4.2's lazy
// variable access, §4.6's Design Note 1).
func (ev *Evaluator) resolveVar(ctx context.Context, name string, mem *Memory) (Value, error) {
	if v, ok := mem.Locals[name]; ok {
		if code, isS := isSentinel(v); isS {
			return Value{}, &cycleSignal{code: code}
		}
		return v, nil
	}
	if mem.InOld {
		if v, ok := mem.OldGlobals[name]; ok {
			if code, isS := isSentinel(v); isS {
				return Value{}, &cycleSignal{code: code}
			}
			return v, nil
		}
	} else if v, ok := mem.Globals[name]; ok {
		if code, isS := isSentinel(v); isS {
			return Value{}, &cycleSignal{code: code}
		}
		return v, nil
	}
	if v, ok := mem.Constants[name]; ok {
		if code, isS := isSentinel(v); isS {
			return Value{}, &cycleSignal{code: code}
		}
		return v, nil
	}

	if _, ok := ev.Program.GlobalVars[name]; ok {
		return ev.materializeVar(ctx, name, mem, true)
	}
	if _, ok := ev.Program.Constants[name]; ok {
		return ev.materializeVar(ctx, name, mem, false)
	}

	// An uninitialized local: no axiom ever targets a procedure-local
	// name, so generate a fresh value directly.
	typ, _ := mem.TypeCtx.LookupVar(name)
	v, failure := ev.generateValue(ctx, typ)
	if failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	mem.Locals[name] = v
	return v, nil
}

// setVar stores v for name into whichever of Globals/OldGlobals or
// Constants applies, mirroring a freshly materialized global into
// whichever of the live/old store it was not accessed through, so that
// the first-ever access (live or under old()) determines the value
// both views agree on until an actual assignment diverges them.
func setVar(mem *Memory, name string, isGlobal bool, v Value) {
	if !isGlobal {
		mem.Constants[name] = v
		return
	}
	if mem.InOld {
		mem.OldGlobals[name] = v
		if _, ok := mem.Globals[name]; !ok {
			mem.Globals[name] = v
		}
		return
	}
	mem.Globals[name] = v
	if _, ok := mem.OldGlobals[name]; !ok {
		mem.OldGlobals[name] = v
	}
}

// materializeVar implements §4.6's consultation order for a bare
// global/constant name: try each 0-ary Definition in turn (skipping one
// whose guard evaluation reflects back into this very construction,
// the cycle case), and fall back to generator draw + attached
// constraints when none applies.
func (ev *Evaluator) materializeVar(ctx context.Context, name string, mem *Memory, isGlobal bool) (Value, error) {
	sentinel := newSentinel()
	code, _ := isSentinel(sentinel)
	setVar(mem, name, isGlobal, sentinel)

	if typ, ok := mem.TypeCtx.LookupVar(name); ok && typ.Kind == MapType {
		ref := newMapRef(mem.Heap)
		mem.Heap.Incref(ref)
		defs := ev.Store.DefinitionsFor(name)
		cons := ev.Store.ConstraintsFor(name)
		if len(defs) > 0 || len(cons) > 0 {
			ev.Store.AttachToRef(ref, &EntityConstraints{Definitions: defs, Constraints: cons})
		}
		v := RefVal(ref)
		setVar(mem, name, isGlobal, v)
		return v, nil
	}

	for _, def := range ev.Store.DefinitionsFor(name) {
		if len(def.Formals) != 0 {
			continue
		}
		if def.Guard != nil {
			gv, _, err := ev.evalInternal(ctx, def.Guard, mem)
			if err != nil {
				if cs, ok := err.(*cycleSignal); ok && cs.code == code {
					continue
				}
				return Value{}, err
			}
			if gv.Kind != BoolValue || !gv.Bool {
				continue
			}
		}
		bv, _, err := ev.evalInternal(ctx, def.Body, mem)
		if err != nil {
			if cs, ok := err.(*cycleSignal); ok && cs.code == code {
				continue
			}
			return Value{}, err
		}
		setVar(mem, name, isGlobal, bv)
		return bv, nil
	}

	typ, _ := mem.TypeCtx.LookupVar(name)
	v, failure := ev.generateValue(ctx, typ)
	if failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	setVar(mem, name, isGlobal, v)
	if failure := ev.applyConstraintsForName(ctx, name, mem); failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	return v, nil
}

// applyConstraintsForName asserts name's attached forall-style
// constraints (guard ==> body) onto the solver bridge, the same push
// discipline used for procedure requires/ensures (§4.6, §5).
func (ev *Evaluator) applyConstraintsForName(ctx context.Context, name string, mem *Memory) *Failure {
	cs := ev.Store.ConstraintsFor(name)
	if len(cs) == 0 {
		return nil
	}
	exprs := make([]*Expr, 0, len(cs))
	for _, c := range cs {
		if len(c.FreeVars) != 0 {
			continue
		}
		body := c.Body
		if c.Guard != nil {
			body = BinaryExpr(c.Guard.Pos, OpImp, c.Guard, c.Body)
		}
		exprs = append(exprs, body)
	}
	if len(exprs) == 0 {
		return nil
	}
	if _, err := ev.Bridge.Push(ctx, ev.Bridge.Level(), exprs); err != nil {
		return unsupported(NoPosition, "", "", err.Error())
	}
	return nil
}

// generateValue draws a fresh value of typ from the Chooser, recording
// the choice with the Recorder so a later pass can explore a different
// candidate at this exact point (choice.go).
func (ev *Evaluator) generateValue(ctx context.Context, typ Type) (Value, *Failure) {
	switch typ.Kind {
	case BoolType:
		candidates, err := ev.Chooser.ChooseBool(ctx)
		if err != nil {
			return Value{}, unsupported(NoPosition, "", "", err.Error())
		}
		if len(candidates) == 0 {
			return BoolVal(false), nil
		}
		idx := ev.Recorder.choose(len(candidates))
		return BoolVal(candidates[idx]), nil

	case IntType:
		candidates, err := ev.Chooser.ChooseInt(ctx, nil)
		if err != nil {
			return Value{}, unsupported(NoPosition, "", "", err.Error())
		}
		if len(candidates) == 0 {
			return IntVal(0), nil
		}
		idx := ev.Recorder.choose(len(candidates))
		return IntVal(candidates[idx]), nil

	default:
		candidates, err := ev.Chooser.ChooseInt(ctx, nil)
		if err != nil {
			return Value{}, unsupported(NoPosition, "", "", err.Error())
		}
		if len(candidates) == 0 {
			return CustomVal(typ.Name, 0), nil
		}
		idx := ev.Recorder.choose(len(candidates))
		return CustomVal(typ.Name, candidates[idx]), nil
	}
}

// bindLocals returns a child Memory with formals bound to args in
// Locals (shadowing any same-named outer local) and TypeCtx extended
// to match, sharing Globals/Heap with mem — used for function-body
// evaluation, definition-body evaluation with formals, and map
// definitions bound over index arguments.
func bindLocals(mem *Memory, formals []TypedVar, args []Value) *Memory {
	locals := make(map[string]Value, len(mem.Locals)+len(formals))
	for k, v := range mem.Locals {
		locals[k] = v
	}
	ctx := mem.TypeCtx
	for i, f := range formals {
		locals[f.Name] = args[i]
		ctx = bindOrWrap(ctx, f.Name, f.Typ)
	}
	return &Memory{
		Locals: locals, Globals: mem.Globals, OldGlobals: mem.OldGlobals,
		Modified: mem.Modified, Constants: mem.Constants, Heap: mem.Heap,
		InOld: mem.InOld, TypeCtx: ctx,
	}
}

func (ev *Evaluator) evalArgs(ctx context.Context, args []*Expr, mem *Memory) ([]Value, error) {
	vals := make([]Value, len(args))
	for i, a := range args {
		v, _, err := ev.evalInternal(ctx, a, mem)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (ev *Evaluator) evalApp(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	fn, ok := ev.Program.Functions[e.Name]
	if !ok {
		return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", fmt.Sprintf("unknown function %q", e.Name))}
	}
	argVals, err := ev.evalArgs(ctx, e.Args, mem)
	if err != nil {
		return Value{}, e, err
	}
	if fn.Body != nil {
		scoped := bindLocals(mem, fn.Formals, argVals)
		v, _, err := ev.evalInternal(ctx, fn.Body, scoped)
		if err != nil {
			return Value{}, e, err
		}
		return v, e, nil
	}
	v, err := ev.applyFunctionAxioms(ctx, fn, argVals, mem)
	if err != nil {
		return Value{}, e, err
	}
	return v, e, nil
}

// applyFunctionAxioms materializes a body-less function application by
// the same definitions-then-generate procedure as materializeVar,
// keyed on the function name plus its argument tuple; the result is
// memoized in Locals under a synthetic key so repeated applications
// within the same branch agree (§4.6).
func (ev *Evaluator) applyFunctionAxioms(ctx context.Context, fn *FunctionDecl, argVals []Value, mem *Memory) (Value, error) {
	cacheKey := "$app:" + fn.Name + encodeKey(argVals)
	if v, ok := mem.Locals[cacheKey]; ok {
		if code, isS := isSentinel(v); isS {
			return Value{}, &cycleSignal{code: code}
		}
		return v, nil
	}

	sentinel := newSentinel()
	code, _ := isSentinel(sentinel)
	mem.Locals[cacheKey] = sentinel

	for _, def := range ev.Store.DefinitionsFor(fn.Name) {
		if len(def.Formals) != len(argVals) {
			continue
		}
		scoped := bindLocals(mem, def.Formals, argVals)
		if def.Guard != nil {
			gv, _, err := ev.evalInternal(ctx, def.Guard, scoped)
			if err != nil {
				if cs, ok := err.(*cycleSignal); ok && cs.code == code {
					continue
				}
				return Value{}, err
			}
			if gv.Kind != BoolValue || !gv.Bool {
				continue
			}
		}
		bv, _, err := ev.evalInternal(ctx, def.Body, scoped)
		if err != nil {
			if cs, ok := err.(*cycleSignal); ok && cs.code == code {
				continue
			}
			return Value{}, err
		}
		mem.Locals[cacheKey] = bv
		return bv, nil
	}

	v, failure := ev.generateValue(ctx, fn.Ret)
	if failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	mem.Locals[cacheKey] = v
	if failure := ev.applyConstraintsForName(ctx, fn.Name, mem); failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	return v, nil
}

func (ev *Evaluator) evalSel(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	baseV, _, err := ev.evalInternal(ctx, e.Map, mem)
	if err != nil {
		return Value{}, e, err
	}
	if baseV.Kind != MapRefValue {
		return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "map selection on a non-map value")}
	}
	argVals, err := ev.evalArgs(ctx, e.Args, mem)
	if err != nil {
		return Value{}, e, err
	}
	for _, a := range argVals {
		if a.Kind == MapRefValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "map-reference-valued index is unsupported")}
		}
	}
	v, err := ev.selectMap(ctx, mem, baseV.Ref, argVals)
	if err != nil {
		return Value{}, e, err
	}
	return v, e, nil
}

// selectMap implements §4.2's lazy map selection: a cached override
// wins outright; otherwise any definition attached to the map's
// flattened source is consulted (bound over the index arguments), and
// failing that a fresh value is generated and cached for next time.
func (ev *Evaluator) selectMap(ctx context.Context, mem *Memory, ref Ref, argVals []Value) (Value, error) {
	source, merged, ferr := mem.Heap.Flatten(ref)
	if ferr != nil {
		return Value{}, &failureSignal{f: unsupported(NoPosition, "", "", ferr.Error())}
	}
	key := encodeKey(argVals)
	if v, ok := merged.Get(key); ok {
		return v, nil
	}

	payload, _ := mem.Heap.Get(source)

	if ec, ok := ev.Store.ForRef(source); ok {
		for _, def := range ec.Definitions {
			if len(def.Formals) != len(argVals) {
				continue
			}
			scoped := bindLocals(mem, def.Formals, argVals)
			if def.Guard != nil {
				gv, _, err := ev.evalInternal(ctx, def.Guard, scoped)
				if err != nil {
					if _, ok := err.(*cycleSignal); ok {
						continue
					}
					return Value{}, err
				}
				if gv.Kind != BoolValue || !gv.Bool {
					continue
				}
			}
			bv, _, err := ev.evalInternal(ctx, def.Body, scoped)
			if err != nil {
				if _, ok := err.(*cycleSignal); ok {
					continue
				}
				return Value{}, err
			}
			payload.Entries.Put(key, bv)
			if bv.Kind == MapRefValue {
				mem.Heap.Incref(bv.Ref)
			}
			return bv, nil
		}
	}

	// The map's element type is not tracked at the Value level once
	// selection reaches here (the type checker is out of scope, §1);
	// default to integer for an untyped generation site.
	v, failure := ev.generateValue(ctx, Type{Kind: IntType})
	if failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	payload.Entries.Put(key, v)
	if v.Kind == MapRefValue {
		mem.Heap.Incref(v.Ref)
	}
	return v, nil
}

func (ev *Evaluator) evalUpd(ctx context.Context, e *Expr, mem *Memory) (Value, *Expr, error) {
	baseV, _, err := ev.evalInternal(ctx, e.Map, mem)
	if err != nil {
		return Value{}, e, err
	}
	if baseV.Kind != MapRefValue {
		return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "map update on a non-map value")}
	}
	argVals, err := ev.evalArgs(ctx, e.Args, mem)
	if err != nil {
		return Value{}, e, err
	}
	for _, a := range argVals {
		if a.Kind == MapRefValue {
			return Value{}, e, &failureSignal{f: unsupported(e.Pos, "", "", "map-reference-valued index is unsupported")}
		}
	}
	newVal, _, err := ev.evalInternal(ctx, e.UpdateValue, mem)
	if err != nil {
		return Value{}, e, err
	}
	ref := mapUpdateRef(mem.Heap, baseV.Ref, argVals, newVal)
	return RefVal(ref), e, nil
}
