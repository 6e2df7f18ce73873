package boogiex

import (
	"context"
	"sort"

	"github.com/dolthub/swiss"
)

// mapDistinguishType tags the synthesized values §4.4 branch 3 installs
// to record that two sources have been found (or forced) incompatible.
// No well-typed Boogie program can produce a custom value of this type,
// so it is never confused with a genuine user value.
const mapDistinguishType = "$mapeq-distinguish"

// resolveMapEquality implements §4.4's non-deterministic map-equality
// resolution, driven by the same Chooser/ChoiceRecorder machinery every
// other non-deterministic decision uses (choice.go).
func (ev *Evaluator) resolveMapEquality(ctx context.Context, mem *Memory, a, b Ref) (bool, error) {
	if a == b {
		return true, nil
	}

	srcA, mergedA, err := mem.Heap.Flatten(a)
	if err != nil {
		return false, &failureSignal{f: unsupported(NoPosition, "", "", err.Error())}
	}
	srcB, mergedB, err := mem.Heap.Flatten(b)
	if err != nil {
		return false, &failureSignal{f: unsupported(NoPosition, "", "", err.Error())}
	}

	// Step 1: the mustEqual draw is unconditional and precedes every
	// other branch, including the srcA == srcB shortcut.
	mustEqual, err := ev.drawBoolChoice(ctx)
	if err != nil {
		return false, err
	}
	if mustEqual {
		ev.forceEqual(mem, srcA, srcB, mergedA, mergedB)
		return true, nil
	}

	if srcA == srcB {
		// Branch 2: the difference lies only in overrides.
		return ev.resolveOverrideDifference(ctx, mem, srcA, srcB, mergedA, mergedB)
	}

	if _, ok := conflictingKey(mergedA, mergedB); ok {
		// Branch 3: the caches already disagree at a shared key, so the
		// sources are incompatible regardless of any further choice.
		ev.installDistinguishingPair(mem, srcA, srcB)
		return false, nil
	}

	// Branch 4: no direct evidence either way; draw again to pick
	// whether to treat the difference as override-only (branch 2) or
	// commit to the sources being incompatible (branch 3).
	asOverrides, err := ev.drawBoolChoice(ctx)
	if err != nil {
		return false, err
	}
	if asOverrides {
		return ev.resolveOverrideDifference(ctx, mem, srcA, srcB, mergedA, mergedB)
	}
	ev.installDistinguishingPair(mem, srcA, srcB)
	return false, nil
}

// drawBoolChoice consults the Chooser/ChoiceRecorder pair the same way
// generateValue does (eval_expr.go), for a plain non-deterministic
// boolean decision that isn't itself a value generation.
func (ev *Evaluator) drawBoolChoice(ctx context.Context) (bool, error) {
	candidates, err := ev.Chooser.ChooseBool(ctx)
	if err != nil {
		return false, &failureSignal{f: unsupported(NoPosition, "", "", err.Error())}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	idx := ev.Recorder.choose(len(candidates))
	return candidates[idx], nil
}

// resolveOverrideDifference implements §4.4 branch 2: pick a key the two
// override views disagree (or one is missing) on non-deterministically,
// materialize both sides' values at that key, and recurse on whether
// those values are themselves equal.
func (ev *Evaluator) resolveOverrideDifference(ctx context.Context, mem *Memory, srcA, srcB Ref, mergedA, mergedB *swiss.Map[string, Value]) (bool, error) {
	keys := differingKeys(mergedA, mergedB)
	if len(keys) == 0 {
		return true, nil
	}

	candidates, err := ev.Chooser.ChooseIndex(ctx, len(keys))
	if err != nil {
		return false, &failureSignal{f: unsupported(NoPosition, "", "", err.Error())}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	idx := ev.Recorder.choose(len(candidates))
	key := keys[candidates[idx]]

	av, err := ev.materializeAtKey(ctx, mem, srcA, mergedA, key)
	if err != nil {
		return false, err
	}
	bv, err := ev.materializeAtKey(ctx, mem, srcB, mergedB, key)
	if err != nil {
		return false, err
	}
	return ev.valuesEqual(ctx, mem, av, bv)
}

// materializeAtKey returns merged's cached value at key if present, or
// otherwise generates a fresh one and stores it on src's own payload —
// the same fallback §4.2's selectMap uses once no cached override or
// attached definition matches, simplified here because map-equality
// resolution only ever has the already-encoded key, not the original
// argument tuple a definition's formals would need to bind against.
func (ev *Evaluator) materializeAtKey(ctx context.Context, mem *Memory, src Ref, merged *swiss.Map[string, Value], key string) (Value, error) {
	if v, ok := merged.Get(key); ok {
		return v, nil
	}
	payload, ok := mem.Heap.Get(src)
	if !ok {
		return Value{}, &failureSignal{f: unsupported(NoPosition, "", "", "dangling map source during equality resolution")}
	}
	v, failure := ev.generateValue(ctx, Type{Kind: IntType})
	if failure != nil {
		return Value{}, &failureSignal{f: failure}
	}
	payload.Entries.Put(key, v)
	if v.Kind == MapRefValue {
		mem.Heap.Incref(v.Ref)
	}
	merged.Put(key, v)
	return v, nil
}

// differingKeys lists, in a deterministic order, every key at which the
// two override views disagree or one of them has no entry at all.
func differingKeys(a, b *swiss.Map[string, Value]) []string {
	seen := make(map[string]bool)
	var keys []string
	a.Iter(func(k string, v Value) bool {
		seen[k] = true
		if ov, ok := b.Get(k); !ok || !ov.Equal(v) {
			keys = append(keys, k)
		}
		return false
	})
	b.Iter(func(k string, _ Value) bool {
		if !seen[k] {
			keys = append(keys, k)
		}
		return false
	})
	sort.Strings(keys)
	return keys
}

// conflictingKey reports a key both views assign, at which the
// assigned values differ — direct evidence the two sources cannot
// denote the same map (§4.4 branch 3).
func conflictingKey(a, b *swiss.Map[string, Value]) (string, bool) {
	var key string
	var found bool
	a.Iter(func(k string, v Value) bool {
		if ov, ok := b.Get(k); ok && !ov.Equal(v) {
			key, found = k, true
			return true
		}
		return false
	})
	return key, found
}

// installDistinguishingPair implements §4.4 branch 3's side effect:
// store a custom-tagged value derived from each reference at a
// synthesized shared key in both sources, so a later comparison of the
// same two sources finds a conflictingKey immediately instead of
// re-drawing the same decision.
func (ev *Evaluator) installDistinguishingPair(mem *Memory, srcA, srcB Ref) {
	payloadA, okA := mem.Heap.Get(srcA)
	payloadB, okB := mem.Heap.Get(srcB)
	if !okA || !okB {
		return
	}
	tagA := CustomVal(mapDistinguishType, int64(srcA))
	tagB := CustomVal(mapDistinguishType, int64(srcB))
	key := encodeKey([]Value{tagA, tagB})
	payloadA.Entries.Put(key, tagA)
	payloadB.Entries.Put(key, tagB)
}

// overridesAgree reports whether two override views of the same source
// agree on every key either one assigns; a key present on only one side
// counts as disagreement, not vacuous agreement.
func overridesAgree(a, b *swiss.Map[string, Value]) bool {
	_, ok := conflictingKey(a, b)
	if ok {
		return false
	}
	return len(differingKeys(a, b)) == 0
}

// forceEqual commits to mustEqual's choice by unifying srcA and srcB
// into a single map source (§4.4c). When the two references already
// share a flattened source, the two sides' private overrides are
// simply folded into it (§4.4c-b). When the sources are genuinely
// distinct, a fresh source is allocated holding the union of both
// sides' known values, and both prior sources are redirected onto it
// (§4.4c-c) so that every live reference to either — direct, or
// reached transitively through a preserved Derived override chain —
// flattens to the same unified content from now on.
func (ev *Evaluator) forceEqual(mem *Memory, srcA, srcB Ref, mergedA, mergedB *swiss.Map[string, Value]) {
	if srcA == srcB {
		payload, ok := mem.Heap.Get(srcA)
		if !ok {
			return
		}
		fold := func(k string, v Value) bool {
			if _, exists := payload.Entries.Get(k); !exists {
				payload.Entries.Put(k, v)
				if v.Kind == MapRefValue {
					mem.Heap.Incref(v.Ref)
				}
			}
			return false
		}
		mergedA.Iter(fold)
		mergedB.Iter(fold)
		return
	}

	payloadA, okA := mem.Heap.Get(srcA)
	payloadB, okB := mem.Heap.Get(srcB)
	if !okA || !okB {
		return
	}

	unified := newPayload(MapSource, NilRef)
	mergedB.Iter(func(k string, v Value) bool { unified.Entries.Put(k, v); return false })
	mergedA.Iter(func(k string, v Value) bool { unified.Entries.Put(k, v); return false }) // srcA's value wins on a shared key
	unified.Entries.Iter(func(_ string, v Value) bool {
		if v.Kind == MapRefValue {
			mem.Heap.Incref(v.Ref)
		}
		return false
	})
	newSrc := mem.Heap.Allocate(unified)

	// The old sources' own entries are now represented (once) in the
	// unified source instead; balance the reference counts they held.
	payloadA.Entries.Iter(func(_ string, v Value) bool {
		if v.Kind == MapRefValue {
			mem.Heap.Decref(v.Ref)
		}
		return false
	})
	payloadB.Entries.Iter(func(_ string, v Value) bool {
		if v.Kind == MapRefValue {
			mem.Heap.Decref(v.Ref)
		}
		return false
	})

	mem.Heap.redirectSource(srcA, newSrc)
	mem.Heap.redirectSource(srcB, newSrc)
	mem.Heap.Incref(newSrc)
	mem.Heap.Incref(newSrc)

	ev.Store.MergeRefs(newSrc, srcA)
	ev.Store.MergeRefs(newSrc, srcB)
}
