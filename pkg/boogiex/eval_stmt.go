package boogiex

import (
	"context"
	"fmt"
)

// unreachableSignal is the internal-only marker for an `assume` whose
// condition evaluated false (§4.3): the current path is vacuous, not
// failed. It propagates up to the nearest goto dispatch point (a block
// whose Terminator names more than one successor), which tries the
// next successor in its place; if it escapes every dispatch point the
// whole procedure run is non-executable.
type unreachableSignal struct{}

func (unreachableSignal) Error() string { return "internal: unreachable path (not user visible)" }

// execStmt runs one basic (non-control) statement, returning either a
// user-visible Failure or, for a false assume, an unreachableSignal via
// the error return — the same failureSignal/cycleSignal separation
// eval_expr.go uses, kept distinct here because callers need to treat
// the two very differently (an unreachableSignal prunes a branch; a
// Failure ends the whole test case).
func (ev *Evaluator) execStmt(ctx context.Context, proc, label string, s *Stmt, mem *Memory) (*Failure, error) {
	switch s.Kind {
	case SAssert:
		v, _, failure := ev.Eval(ctx, s.Expr, mem)
		if failure != nil {
			return failure, nil
		}
		if v.Kind != BoolValue {
			return unsupported(s.Pos, proc, label, "assert condition is not boolean"), nil
		}
		if !v.Bool {
			return assertionViolated(s.Pos, proc, label), nil
		}
		return nil, nil

	case SAssume:
		v, _, failure := ev.Eval(ctx, s.Expr, mem)
		if failure != nil {
			return failure, nil
		}
		if v.Kind != BoolValue {
			return unsupported(s.Pos, proc, label, "assume condition is not boolean"), nil
		}
		if !v.Bool {
			return nil, unreachableSignal{}
		}
		return nil, nil

	case SHavoc:
		for _, name := range s.Vars {
			typ, _ := mem.TypeCtx.LookupVar(name)
			v, failure := ev.generateValue(ctx, typ)
			if failure != nil {
				return failure, nil
			}
			ev.setStoreValue(mem, name, v)
		}
		return nil, nil

	case SAssign:
		return ev.execAssign(ctx, proc, label, s, mem)

	case SCall:
		return ev.execCall(ctx, proc, label, s, mem)

	default:
		return unsupported(s.Pos, proc, label, fmt.Sprintf("statement kind %v is not a basic statement", s.Kind)), nil
	}
}

// decrefIfRef/increfIfRef keep the heap's reference counts in step
// whenever a store slot's value is replaced or initialized (§3's
// invariant that a slot's incoming reference is always counted).
func decrefIfRef(h *Heap, v Value) {
	if v.Kind == MapRefValue {
		h.Decref(v.Ref)
	}
}

func increfIfRef(h *Heap, v Value) {
	if v.Kind == MapRefValue {
		h.Incref(v.Ref)
	}
}

// setStoreValue writes v into whichever of Locals/Globals name
// resolves to, maintaining heap refcounts and recording written
// globals in the branch's Modified set.
func (ev *Evaluator) setStoreValue(mem *Memory, name string, v Value) {
	if old, ok := mem.Locals[name]; ok {
		decrefIfRef(mem.Heap, old)
		mem.Locals[name] = v
		increfIfRef(mem.Heap, v)
		return
	}
	if _, isGlobal := ev.Program.GlobalVars[name]; isGlobal {
		if old, ok := mem.Globals[name]; ok {
			decrefIfRef(mem.Heap, old)
		}
		mem.Globals[name] = v
		increfIfRef(mem.Heap, v)
		mem.Modified[name] = true
		return
	}
	mem.Locals[name] = v
	increfIfRef(mem.Heap, v)
}

// buildUpdateChain desugars the nested-index assignment sugar
// `name[i][j]... := rhs` into the equivalent whole-variable map-update
// expression `name[i := name[i][j := ... rhs]]` (§4.3's "assign"),
// bottoming out at rhs itself when there are no index lists at all
// (a plain `name := rhs`).
func buildUpdateChain(pos Position, name string, mapArgs [][]*Expr, rhs *Expr) *Expr {
	if len(mapArgs) == 0 {
		return rhs
	}
	return buildUpdateChainRec(pos, VarExpr(pos, name), mapArgs, rhs)
}

func buildUpdateChainRec(pos Position, base *Expr, mapArgs [][]*Expr, rhs *Expr) *Expr {
	if len(mapArgs) == 1 {
		return UpdExpr(pos, base, mapArgs[0], rhs)
	}
	inner := SelExpr(pos, base, mapArgs[0])
	updatedInner := buildUpdateChainRec(pos, inner, mapArgs[1:], rhs)
	return UpdExpr(pos, base, mapArgs[0], updatedInner)
}

// execAssign evaluates every right-hand side against the pre-assignment
// store (Boogie's multi-assignment is simultaneous, not sequential)
// before committing any of them.
func (ev *Evaluator) execAssign(ctx context.Context, proc, label string, s *Stmt, mem *Memory) (*Failure, error) {
	newVals := make([]Value, len(s.Lhs))
	for i, lhs := range s.Lhs {
		rhsExpr := s.Rhs[i]
		if len(lhs.MapArgs) > 0 {
			rhsExpr = buildUpdateChain(s.Pos, lhs.Name, lhs.MapArgs, rhsExpr)
		}
		v, _, failure := ev.Eval(ctx, rhsExpr, mem)
		if failure != nil {
			return failure, nil
		}
		newVals[i] = v
	}
	for i, lhs := range s.Lhs {
		ev.setStoreValue(mem, lhs.Name, newVals[i])
	}
	return nil, nil
}

// execCall implements §4.3's procedure-call semantics: resolve one of
// the procedure's registered implementations (non-deterministically,
// via the same Chooser/Recorder every other choice point uses), check
// requires, run the chosen implementation's flattened body to
// completion, check ensures, bind the call-site's result variables, and
// reconcile the caller's notion of old globals (memory.go's
// RestoreAfterCall). A procedure with no registered implementation at
// all is treated as opaque: it may modify any global and return any
// value (§4.3's safe over-approximation for an extern/uninterpreted
// procedure).
func (ev *Evaluator) execCall(ctx context.Context, proc, label string, s *Stmt, mem *Memory) (*Failure, error) {
	impls := ev.Program.ProcedureImpls(s.CallProc)
	if len(impls) == 0 {
		return ev.execOpaqueCall(ctx, s, mem)
	}

	argVals := make([]Value, len(s.CallArgs))
	for i, a := range s.CallArgs {
		v, _, failure := ev.Eval(ctx, a, mem)
		if failure != nil {
			return failure, nil
		}
		argVals[i] = v
	}

	idxCandidates, cherr := ev.Chooser.ChooseIndex(ctx, len(impls))
	if cherr != nil {
		return unsupported(s.Pos, proc, label, cherr.Error()), nil
	}
	if len(idxCandidates) == 0 {
		return unsupported(s.Pos, proc, label, "call site has no candidate implementation"), nil
	}
	impl := impls[idxCandidates[ev.Recorder.choose(len(idxCandidates))]]

	calleeLocals := make(map[string]Value, len(impl.Formals)+len(impl.Rets))
	calleeCtx := mem.TypeCtx
	for i, f := range impl.Formals {
		calleeLocals[f.Name] = argVals[i]
		calleeCtx = bindOrWrap(calleeCtx, f.Name, f.Typ)
	}
	for _, r := range impl.Rets {
		calleeCtx = bindOrWrap(calleeCtx, r.Name, r.Typ)
	}
	for _, l := range impl.Locals {
		calleeCtx = bindOrWrap(calleeCtx, l.Name, l.Typ)
	}
	callMem := &Memory{
		Locals: calleeLocals, Globals: mem.Globals, OldGlobals: mem.OldGlobals,
		Modified: make(map[string]bool), Constants: mem.Constants, Heap: mem.Heap,
		TypeCtx: calleeCtx,
	}

	for _, req := range impl.Requires {
		v, _, failure := ev.Eval(ctx, req, callMem)
		if failure != nil {
			return failure, nil
		}
		if v.Kind != BoolValue || !v.Bool {
			return assertionViolated(req.Pos, impl.Name, "requires"), nil
		}
	}

	saved := mem.SaveForCall()

	_, blocks, ferr := Flatten(impl.Body)
	if ferr != nil {
		return unsupported(s.Pos, proc, label, ferr.Error()), nil
	}
	tc, err := ev.execFrom(ctx, impl.Name, "start", blocks, callMem, nil)
	if err != nil {
		if _, ok := err.(unreachableSignal); ok {
			return nil, err
		}
		return unsupported(s.Pos, proc, label, err.Error()), nil
	}
	if tc.Failure != nil {
		tc.Failure.Stack = append(tc.Failure.Stack, StackFrame{Proc: proc, Label: label, Pos: s.Pos})
		return tc.Failure, nil
	}

	for _, ens := range impl.Ensures {
		v, _, failure := ev.Eval(ctx, ens, callMem)
		if failure != nil {
			return failure, nil
		}
		if v.Kind != BoolValue || !v.Bool {
			return assertionViolated(ens.Pos, impl.Name, "ensures"), nil
		}
	}

	for i, lhsName := range s.CallLhs {
		if i >= len(impl.Rets) {
			break
		}
		retName := impl.Rets[i].Name
		v, ok := callMem.Locals[retName]
		if !ok {
			gen, failure := ev.generateValue(ctx, impl.Rets[i].Typ)
			if failure != nil {
				return failure, nil
			}
			v = gen
		}
		ev.setStoreValue(mem, lhsName, v)
	}

	mem.RestoreAfterCall(saved, impl.Modifies)
	return nil, nil
}

// execOpaqueCall is the fallback for a procedure with zero registered
// implementations: havoc every call-site result variable and every
// declared global, the conservative over-approximation of "this
// procedure may do anything permitted by its type signature".
func (ev *Evaluator) execOpaqueCall(ctx context.Context, s *Stmt, mem *Memory) (*Failure, error) {
	for _, lhsName := range s.CallLhs {
		typ, _ := mem.TypeCtx.LookupVar(lhsName)
		v, failure := ev.generateValue(ctx, typ)
		if failure != nil {
			return failure, nil
		}
		ev.setStoreValue(mem, lhsName, v)
	}
	for gname, typ := range ev.Program.GlobalVars {
		v, failure := ev.generateValue(ctx, typ)
		if failure != nil {
			return failure, nil
		}
		ev.setStoreValue(mem, gname, v)
	}
	return nil, nil
}

// execFrom runs the flattened CFG rooted at label to completion along
// exactly one path, recursing into each successor at a multi-target
// goto (§4.1's branch encoding: assume(cond)/assume(!cond) as the first
// statements of the two successors mean at most one is ever
// non-vacuous) and propagating an unreachableSignal up when every
// successor of a dispatch point turns out vacuous.
func (ev *Evaluator) execFrom(ctx context.Context, proc, label string, blocks BlockMap, mem *Memory, path []string) (*TestCase, error) {
	path = append(append([]string{}, path...), label)

	block, ok := blocks[label]
	if !ok {
		return &TestCase{Proc: proc, Path: path, Failure: unsupported(NoPosition, proc, label, "missing block "+label)}, nil
	}

	for _, s := range block.Stmts {
		failure, err := ev.execStmt(ctx, proc, label, s, mem)
		mem.Heap.GC()
		if err != nil {
			return nil, err
		}
		if failure != nil {
			return &TestCase{Proc: proc, Path: path, Failure: failure}, nil
		}
	}

	switch block.Term.Kind {
	case TReturn:
		return &TestCase{Proc: proc, Path: path}, nil

	case TGoto:
		var lastErr error = unreachableSignal{}
		for _, next := range block.Term.Labels {
			branchMem := mem
			if len(block.Term.Labels) > 1 {
				branchMem = mem.Clone()
			}
			tc, err := ev.execFrom(ctx, proc, next, blocks, branchMem, path)
			if err != nil {
				if _, ok := err.(unreachableSignal); ok {
					lastErr = err
					continue
				}
				return nil, err
			}
			return tc, nil
		}
		return nil, lastErr

	default:
		return nil, fmt.Errorf("boogiex: block %q has no terminator", label)
	}
}
