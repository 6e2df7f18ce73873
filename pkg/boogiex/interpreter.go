package boogiex

import (
	"context"
	"fmt"
)

// maxExecutionPasses bounds how many distinct choice-paths
// ExecuteProgramGeneric will explore for a single implementation,
// guarding against a pathological non-deterministic program with an
// astronomically large (or unbounded, for a buggy domain inference)
// branch count from never terminating the session.
const maxExecutionPasses = 4096

// ExecuteProgramDet runs procName once per registered implementation
// using the all-defaults DefaultGenerator and a deterministic Chooser
// (§6): exactly one path per implementation, no branch exploration.
func ExecuteProgramDet(ctx context.Context, prog *Program, procName string, quantBound Interval, solver Solver) (*SessionSummary, error) {
	return ExecuteProgramGeneric(ctx, prog, procName, NewDeterministicChooser(DefaultGenerator{}), quantBound, solver)
}

// ExecuteProgram runs procName exhaustively over every non-deterministic
// choice an EnumeratingChooser offers (§6), recording one TestCase per
// distinct reachable outcome.
func ExecuteProgram(ctx context.Context, prog *Program, procName string, quantBound Interval, solver Solver) (*SessionSummary, error) {
	return ExecuteProgramGeneric(ctx, prog, procName, NewEnumeratingChooser(DefaultGenerator{}), quantBound, solver)
}

// ExecuteProgramGeneric is the shared driver behind ExecuteProgramDet
// and ExecuteProgram (§6): it extracts the program's axioms once, then
// for every registered implementation of procName explores choice-paths
// depth-first via an explicit worklist stack (ChoiceRecorder.NextPaths,
// choice.go) — an explicit-backtracking-stack idiom rendered as a
// data-driven replay loop rather than a goroutine-driven search (§5,
// Design Note 3).
func ExecuteProgramGeneric(ctx context.Context, prog *Program, procName string, chooser Chooser, quantBound Interval, solver Solver) (*SessionSummary, error) {
	store := NewConstraintStore()
	ExtractAxioms(prog, store)
	bridge := NewSolverBridge(solver)
	summary := NewSessionSummary()

	impls := prog.ProcedureImpls(procName)
	if len(impls) == 0 {
		return nil, fmt.Errorf("boogiex: no implementation registered for procedure %q", procName)
	}

	for implIdx, impl := range impls {
		worklist := [][]int{nil}
		passes := 0
		reachedReturn := false

		for len(worklist) > 0 && passes < maxExecutionPasses {
			path := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			passes++

			recorder := NewChoiceRecorder(path)
			ev := NewEvaluator(prog, store, chooser, bridge, quantBound, recorder)
			mem := NewMemory(prog.TypeCtx)

			for _, f := range impl.Formals {
				v, failure := ev.generateValue(ctx, f.Typ)
				if failure != nil {
					return nil, failure
				}
				mem.Locals[f.Name] = v
			}
			for _, r := range impl.Rets {
				mem.TypeCtx = bindOrWrap(mem.TypeCtx, r.Name, r.Typ)
			}
			for _, l := range impl.Locals {
				mem.TypeCtx = bindOrWrap(mem.TypeCtx, l.Name, l.Typ)
			}

			satisfiesRequires := true
			for _, req := range impl.Requires {
				v, _, failure := ev.Eval(ctx, req, mem)
				if failure != nil {
					return nil, failure
				}
				if v.Kind != BoolValue || !v.Bool {
					satisfiesRequires = false
					break
				}
			}
			if satisfiesRequires {
				_, blocks, ferr := Flatten(impl.Body)
				if ferr != nil {
					return nil, ferr
				}
				label := fmt.Sprintf("%s#%d", procName, implIdx)
				tc, err := ev.execFrom(ctx, label, "start", blocks, mem, nil)
				if err != nil {
					if _, ok := err.(unreachableSignal); !ok {
						return nil, err
					}
					// vacuous pass: fall through to enqueue sibling paths.
				} else {
					reachedReturn = true
					summary.Record(tc)
				}
			}

			for _, np := range recorder.NextPaths() {
				worklist = append(worklist, np)
			}
		}

		if !reachedReturn {
			summary.RecordNonExecutable(procName)
		}
	}

	return summary, nil
}
