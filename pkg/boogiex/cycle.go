package boogiex

import "sync/atomic"

// sentinelCounter hands out unique construction codes for the
// under-construction sentinel mechanism: a monotonically increasing,
// atomically-incremented identifier distinguishes one in-progress
// definition evaluation from another. This interpreter is
// single-threaded (§5) but the atomic counter costs nothing and keeps
// the identifier generation reusable if that ever changes.
var sentinelCounter int64

// newSentinel allocates a fresh under-construction sentinel value,
// used to mark an entity as "currently being evaluated" so that a
// re-entrant lazy evaluation of the same entity can be detected as a
// cycle (§4.6, Design Note 1).
func newSentinel() Value {
	code := atomic.AddInt64(&sentinelCounter, 1)
	return Value{Kind: CustomValue, Custom: CustomTag{TypeName: underConstructionType, Tag: code}}
}

// cycleSignal is returned (never panicked) by the well-definedness
// check when it encounters a sentinel belonging to a different,
// still-active construction frame than the one currently evaluating.
// It is caught inside the evaluator, by materializeVar,
// applyFunctionAxioms and selectMap (eval_expr.go) and by
// enumerateBound (quantifier_eval.go); it must never escape as a
// Failure or propagate to the caller.
type cycleSignal struct {
	code int64
}

func (c *cycleSignal) Error() string {
	return "internal: definition cycle detected (not user visible)"
}

// asCycleSignal reports whether err is a cycleSignal, unwrapping it.
func asCycleSignal(err error) (*cycleSignal, bool) {
	cs, ok := err.(*cycleSignal)
	return cs, ok
}
