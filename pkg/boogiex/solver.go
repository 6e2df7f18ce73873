package boogiex

import (
	"context"
	"fmt"
)

// Solver is the external SMT collaborator (§6's "Solver contract"):
// given a list of constraint expressions and a number of active
// backtracking frames, it either reports satisfiability or enumerates
// solutions bounded by an optional count. The external solver binding
// itself is out of scope (§1); this interface is what the core
// expects from it.
type Solver interface {
	// CheckSat asserts constraints on top of the solver's current
	// frame and reports satisfiability.
	CheckSat(ctx context.Context, constraints []*Expr) (bool, error)
	// Enumerate returns up to maxSolutions satisfying assignments for
	// the given free variable names, given the asserted constraints.
	// maxSolutions <= 0 means unbounded.
	Enumerate(ctx context.Context, constraints []*Expr, freeVars []string, maxSolutions int) ([]map[string]Value, error)
	// Minimize additionally asserts that objective is minimized among
	// satisfying assignments; optional, a solver may ignore it.
	Minimize(ctx context.Context, objective *Expr) error
	// Push opens a new backtracking frame.
	Push(ctx context.Context) error
	// Pop closes frames down to the given frame count.
	Pop(ctx context.Context, toLevel int) error
}

// NullSolver is a stub Solver: always satisfiable, enumerates no
// solutions. It exists so the core is independently testable and
// runnable without a real SMT binding (§1's "opaque collaborator").
type NullSolver struct{}

func (NullSolver) CheckSat(context.Context, []*Expr) (bool, error) { return true, nil }
func (NullSolver) Enumerate(context.Context, []*Expr, []string, int) ([]map[string]Value, error) {
	return nil, nil
}
func (NullSolver) Minimize(context.Context, *Expr) error { return nil }
func (NullSolver) Push(context.Context) error            { return nil }
func (NullSolver) Pop(context.Context, int) error         { return nil }

// SolverBridge enforces the push/pop discipline of §5: the bridge's
// notion of "how many assertion levels are in scope" must always
// match the interpreter's. It resets/pops down to the caller's level
// before pushing new constraints, and treats the solver reporting
// fewer frames than the interpreter expects as fatal (a usage bug),
// never as a recoverable Failure.
type SolverBridge struct {
	solver Solver
	level  int
}

// NewSolverBridge wraps solver with level bookkeeping starting at 0.
func NewSolverBridge(solver Solver) *SolverBridge {
	return &SolverBridge{solver: solver}
}

// Level reports the bridge's current notion of active frame count.
func (b *SolverBridge) Level() int { return b.level }

// SyncTo resets the bridge's view of the active frame count to level,
// popping the underlying solver if it is holding more frames than the
// interpreter now expects. It is an error — fatal, not a Failure — for
// the solver to report fewer frames than level; that indicates the
// bridge and interpreter have desynchronized.
func (b *SolverBridge) SyncTo(ctx context.Context, level int) error {
	if level > b.level {
		return fmt.Errorf("boogiex: solver bridge desynchronized: interpreter at level %d, bridge at %d", level, b.level)
	}
	if level < b.level {
		traceSolve("pop %d -> %d", b.level, level)
		if err := b.solver.Pop(ctx, level); err != nil {
			return fmt.Errorf("boogiex: solver pop failed: %w", err)
		}
		b.level = level
	}
	return nil
}

// Push asserts constraints in a fresh frame on top of the current
// level, first syncing to callerLevel.
func (b *SolverBridge) Push(ctx context.Context, callerLevel int, constraints []*Expr) (bool, error) {
	if err := b.SyncTo(ctx, callerLevel); err != nil {
		return false, err
	}
	if err := b.solver.Push(ctx); err != nil {
		return false, fmt.Errorf("boogiex: solver push failed: %w", err)
	}
	b.level++
	traceSolve("push -> level %d, %d constraints", b.level, len(constraints))
	sat, err := b.solver.CheckSat(ctx, constraints)
	if err != nil {
		return false, fmt.Errorf("boogiex: solver check-sat failed: %w", err)
	}
	return sat, nil
}

// Enumerate asks the solver for up to maxSolutions satisfying
// assignments of freeVars, after syncing to callerLevel and pushing
// constraints.
func (b *SolverBridge) Enumerate(ctx context.Context, callerLevel int, constraints []*Expr, freeVars []string, maxSolutions int) ([]map[string]Value, error) {
	sat, err := b.Push(ctx, callerLevel, constraints)
	if err != nil {
		return nil, err
	}
	if !sat {
		return nil, nil
	}
	return b.solver.Enumerate(ctx, constraints, freeVars, maxSolutions)
}
