package boogiex

import "context"

// Generator is the external, pluggable source of non-deterministic or
// default values (§6's "Generator contract"): draw a boolean, draw an
// unbounded integer, draw an index in [0, n). It is an opaque
// collaborator — the core only ever calls these three operations.
type Generator interface {
	Bool(ctx context.Context) (bool, error)
	Int(ctx context.Context) (int64, error)
	Index(ctx context.Context, n int) (int, error)
}

// DefaultGenerator is the deterministic generator: it always returns
// false, 0, and 0 respectively (§6).
type DefaultGenerator struct{}

func (DefaultGenerator) Bool(context.Context) (bool, error)  { return false, nil }
func (DefaultGenerator) Int(context.Context) (int64, error)  { return 0, nil }
func (DefaultGenerator) Index(context.Context, int) (int, error) { return 0, nil }

// Chooser is the evaluator-facing view of non-determinism: at each
// choice point it returns an *ordered list of candidate values to try*
// rather than a single draw. This is the Go-native rendering (§5,
// Design Note 3) of "a lazy sequence of branches explored depth-first,
// consumer-driven" — the statement/expression evaluators try
// candidates in order and backtrack (via execFrom's successor loop / map-equality
// resolution) on failure, which is observationally the same
// depth-first exploration the source's coroutine-based monad performs,
// without requiring goroutines or channels in a single-threaded core.
//
// A Chooser wraps a Generator: the deterministic case yields exactly
// one candidate (the Generator's own draw); the non-deterministic case
// yields every value the Generator contract allows — except that an
// Int draw enumerates only a caller-supplied finite domain; with no
// finite domain it yields the Generator's single draw, since true
// unbounded enumeration cannot terminate. This restriction is documented in
// DESIGN.md as the resolution of an otherwise-unresolvable tension in
// the source between "non-deterministic int generation" and
// "termination".
type Chooser interface {
	ChooseBool(ctx context.Context) ([]bool, error)
	// ChooseInt returns candidate integers for an unconstrained
	// variable of integer type. domain, if non-nil, restricts the
	// candidates to that inferred interval (e.g. from quantifier
	// inference or a where-clause); nil means "no known bound".
	ChooseInt(ctx context.Context, domain *Interval) ([]int64, error)
	ChooseIndex(ctx context.Context, n int) ([]int, error)
}

// detChooser adapts a deterministic Generator into a Chooser that
// always yields a single candidate.
type detChooser struct{ gen Generator }

// NewDeterministicChooser wraps gen (typically DefaultGenerator) so
// that every choice point has exactly one candidate.
func NewDeterministicChooser(gen Generator) Chooser { return detChooser{gen: gen} }

func (c detChooser) ChooseBool(ctx context.Context) ([]bool, error) {
	b, err := c.gen.Bool(ctx)
	if err != nil {
		return nil, err
	}
	return []bool{b}, nil
}

func (c detChooser) ChooseInt(ctx context.Context, domain *Interval) ([]int64, error) {
	v, err := c.gen.Int(ctx)
	if err != nil {
		return nil, err
	}
	if domain != nil && domain.IsFinite() && !domain.Contains(v) {
		v = domain.Lo
	}
	return []int64{v}, nil
}

func (c detChooser) ChooseIndex(ctx context.Context, n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	i, err := c.gen.Index(ctx, n)
	if err != nil {
		return nil, err
	}
	return []int{i}, nil
}

// EnumeratingChooser explores every candidate at each choice point: it
// is the non-deterministic backend used by ExecuteProgram (§6). Bool
// choice points yield both values; Index choice points yield the full
// [0, n) range; Int choice points yield the supplied domain's values
// when bounded, and otherwise fall back to the wrapped Generator's
// single draw (an unbounded non-deterministic integer choice is
// InfiniteDomain territory and is expected to be reached only through
// the quantifier engine, which always supplies a domain).
type EnumeratingChooser struct{ gen Generator }

// NewEnumeratingChooser creates a Chooser exploring all branches.
func NewEnumeratingChooser(gen Generator) Chooser { return EnumeratingChooser{gen: gen} }

func (c EnumeratingChooser) ChooseBool(context.Context) ([]bool, error) {
	return []bool{false, true}, nil
}

func (c EnumeratingChooser) ChooseInt(ctx context.Context, domain *Interval) ([]int64, error) {
	if domain != nil && domain.IsFinite() {
		n := domain.Hi - domain.Lo + 1
		vals := make([]int64, 0, n)
		for v := domain.Lo; v <= domain.Hi; v++ {
			vals = append(vals, v)
		}
		return vals, nil
	}
	v, err := c.gen.Int(ctx)
	if err != nil {
		return nil, err
	}
	return []int64{v}, nil
}

func (c EnumeratingChooser) ChooseIndex(_ context.Context, n int) ([]int, error) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx, nil
}
