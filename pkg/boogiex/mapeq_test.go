package boogiex

import (
	"context"
	"testing"

	"github.com/dolthub/swiss"
)

// newMapEqTestEvaluator wires an Evaluator whose non-determinism is
// driven entirely by chooser/path, against a fresh Memory/Heap/Store,
// for exercising resolveMapEquality's branches deterministically.
func newMapEqTestEvaluator(chooser Chooser, path []int) (*Evaluator, *Memory) {
	mem := NewMemory(nil)
	ev := NewEvaluator(&Program{}, NewConstraintStore(), chooser, NewSolverBridge(NullSolver{}), Top, NewChoiceRecorder(path))
	return ev, mem
}

// putEntry stores a key/value pair directly into ref's own payload
// entries (bypassing mapUpdateRef's base-refcounting, since these
// fixtures build bare Source payloads with no Derived layer).
func putEntry(mem *Memory, ref Ref, key string, v Value) {
	payload, ok := mem.Heap.Get(ref)
	if !ok {
		panic("putEntry: unknown ref")
	}
	payload.Entries.Put(key, v)
}

func TestOverridesAgree(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]Value
		want bool
	}{
		{"both empty", nil, nil, true},
		{"identical single key", map[string]Value{"k1": IntVal(1)}, map[string]Value{"k1": IntVal(1)}, true},
		{"disjoint keys disagree", map[string]Value{"k1": IntVal(1)}, map[string]Value{"k2": IntVal(2)}, false},
		{"conflicting value for shared key", map[string]Value{"k1": IntVal(1)}, map[string]Value{"k1": IntVal(2)}, false},
		{"b missing a key a has", map[string]Value{"k1": IntVal(1), "k2": IntVal(2)}, map[string]Value{"k1": IntVal(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			am := swiss.NewMap[string, Value](4)
			for k, v := range tt.a {
				am.Put(k, v)
			}
			bm := swiss.NewMap[string, Value](4)
			for k, v := range tt.b {
				bm.Put(k, v)
			}
			if got := overridesAgree(am, bm); got != tt.want {
				t.Errorf("overridesAgree(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestResolveMapEqualitySameSourceAgreeingOverrides compares a reference
// with itself: the two override views trivially agree, and
// resolveMapEquality returns true at once, before the mustEqual draw or
// any other choice.
func TestResolveMapEqualitySameSourceAgreeingOverrides(t *testing.T) {
	ev, mem := newMapEqTestEvaluator(NewDeterministicChooser(DefaultGenerator{}), nil)

	src := newMapRef(mem.Heap)
	putEntry(mem, src, "k1", IntVal(1))

	got, err := ev.resolveMapEquality(context.Background(), mem, src, src)
	if err != nil {
		t.Fatalf("resolveMapEquality: %v", err)
	}
	if !got {
		t.Errorf("resolveMapEquality(src, src) = false, want true")
	}
}

// TestResolveMapEqualitySameSourceGeneratesMissingValue covers §4.4
// branch 2's "missing key" case: one side's override view has no entry
// at a key the other side does, and the missing side's value must be
// generated (not treated as a flat mismatch) before recursing on
// equality.
func TestResolveMapEqualitySameSourceGeneratesMissingValue(t *testing.T) {
	ev, mem := newMapEqTestEvaluator(NewDeterministicChooser(DefaultGenerator{}), nil)

	// a and b are both Derived from the same empty base: a overrides
	// "k1", b does not, so b's value at "k1" must be generated rather
	// than the missing key being treated as a flat mismatch.
	base := newMapRef(mem.Heap)
	a := mem.Heap.Allocate(newPayload(MapDerived, base))
	mem.Heap.Incref(base)
	putEntry(mem, a, "k1", IntVal(5))
	b := mem.Heap.Allocate(newPayload(MapDerived, base))
	mem.Heap.Incref(base)

	got, err := ev.resolveMapEquality(context.Background(), mem, a, b)
	if err != nil {
		t.Fatalf("resolveMapEquality: %v", err)
	}
	// DefaultGenerator always produces 0, which disagrees with a's
	// cached 5 — the generate-then-recurse path must discover that
	// disagreement, not silently treat the missing key as equal.
	if got {
		t.Errorf("resolveMapEquality(a, b) = true, want false (generated 0 != cached 5)")
	}
	// The generated value must have been cached (on the shared base, so
	// any future override-less ref sees it without regenerating).
	_, merged, err := mem.Heap.Flatten(b)
	if err != nil {
		t.Fatalf("Flatten(b): %v", err)
	}
	if v, ok := merged.Get("k1"); !ok || v.Int != 0 {
		t.Errorf("b's merged view at k1 = %v, %v, want 0, true", v, ok)
	}
}

// TestResolveMapEqualityDistinctSourcesConflictingKey covers §4.4
// branch 3: the two sources already disagree at a shared key, which is
// direct evidence of incompatibility regardless of any further draw.
func TestResolveMapEqualityDistinctSourcesConflictingKey(t *testing.T) {
	ev, mem := newMapEqTestEvaluator(NewDeterministicChooser(DefaultGenerator{}), nil)

	srcA := newMapRef(mem.Heap)
	srcB := newMapRef(mem.Heap)
	putEntry(mem, srcA, "k", IntVal(1))
	putEntry(mem, srcB, "k", IntVal(2))

	got, err := ev.resolveMapEquality(context.Background(), mem, srcA, srcB)
	if err != nil {
		t.Fatalf("resolveMapEquality: %v", err)
	}
	if got {
		t.Errorf("resolveMapEquality(srcA, srcB) = true, want false (conflicting shared key)")
	}
}

// TestResolveMapEqualityBranch4InstallsDistinguishingPairPersistently
// covers §4.4 branch 4's false (install) sub-choice and its required
// side effect: once two disjoint-keyed sources are found incompatible
// by a non-deterministic draw, a later comparison of the same two
// sources must find them incompatible again without needing another
// draw of that same decision, because a distinguishing pair was
// installed at a synthesized shared key.
func TestResolveMapEqualityBranch4InstallsDistinguishingPairPersistently(t *testing.T) {
	chooser := NewDeterministicChooser(DefaultGenerator{})
	mem := NewMemory(nil)

	srcA := newMapRef(mem.Heap)
	srcB := newMapRef(mem.Heap)
	putEntry(mem, srcA, "k1", IntVal(1))
	putEntry(mem, srcB, "k2", IntVal(2))

	ev1 := NewEvaluator(&Program{}, NewConstraintStore(), chooser, NewSolverBridge(NullSolver{}), Top, NewChoiceRecorder(nil))
	got, err := ev1.resolveMapEquality(context.Background(), mem, srcA, srcB)
	if err != nil {
		t.Fatalf("resolveMapEquality (first call): %v", err)
	}
	if got {
		t.Fatalf("resolveMapEquality(srcA, srcB) first call = true, want false")
	}

	payloadA, _ := mem.Heap.Get(srcA)
	payloadB, _ := mem.Heap.Get(srcB)
	tagA := CustomVal(mapDistinguishType, int64(srcA))
	tagB := CustomVal(mapDistinguishType, int64(srcB))
	key := encodeKey([]Value{tagA, tagB})
	if v, ok := payloadA.Entries.Get(key); !ok || !v.Equal(tagA) {
		t.Fatalf("srcA missing distinguishing tag at %q: %v, %v", key, v, ok)
	}
	if v, ok := payloadB.Entries.Get(key); !ok || !v.Equal(tagB) {
		t.Fatalf("srcB missing distinguishing tag at %q: %v, %v", key, v, ok)
	}

	// A second comparison must find the same two sources incompatible
	// again; conflictingKey now sees the synthesized pair. (Every
	// DefaultGenerator draw is false, so a fresh branch-4 draw would
	// also answer "not equal"; the installed pair itself is checked
	// above.)
	ev2 := NewEvaluator(&Program{}, NewConstraintStore(), chooser, NewSolverBridge(NullSolver{}), Top, NewChoiceRecorder(nil))
	got2, err := ev2.resolveMapEquality(context.Background(), mem, srcA, srcB)
	if err != nil {
		t.Fatalf("resolveMapEquality (second call): %v", err)
	}
	if got2 {
		t.Errorf("resolveMapEquality(srcA, srcB) second call = true, want false (distinguishing pair must persist)")
	}
}

// TestResolveMapEqualityBranch4TreatsAsOverrideDifference covers §4.4
// branch 4's true (override-only) sub-choice: two distinct sources with
// no conflicting shared key can still be resolved via
// resolveOverrideDifference instead of being summarily declared
// incompatible.
func TestResolveMapEqualityBranch4TreatsAsOverrideDifference(t *testing.T) {
	chooser := NewEnumeratingChooser(DefaultGenerator{})
	// path: mustEqual=false, asOverrides=true, key-pick=0 (only
	// candidate), generateValue's single Int draw=0 (only candidate).
	ev, mem := newMapEqTestEvaluator(chooser, []int{0, 1, 0, 0})

	srcA := newMapRef(mem.Heap)
	srcB := newMapRef(mem.Heap)
	putEntry(mem, srcA, "k", IntVal(5))

	got, err := ev.resolveMapEquality(context.Background(), mem, srcA, srcB)
	if err != nil {
		t.Fatalf("resolveMapEquality: %v", err)
	}
	// srcB has no "k" at all, so its value is generated (DefaultGenerator
	// always yields 0), which disagrees with srcA's cached 5.
	if got {
		t.Errorf("resolveMapEquality(srcA, srcB) = true, want false (generated 0 != cached 5)")
	}
	// Branch 4's true sub-choice must not also install a distinguishing
	// pair — that side effect belongs only to the false sub-choice.
	payloadA, _ := mem.Heap.Get(srcA)
	key := encodeKey([]Value{CustomVal(mapDistinguishType, int64(srcA)), CustomVal(mapDistinguishType, int64(srcB))})
	if _, ok := payloadA.Entries.Get(key); ok {
		t.Errorf("branch 4's override-difference sub-choice must not install a distinguishing pair")
	}
}

// TestForceEqualSameSourceFoldsOverrides covers §4.4c-b: when a and b
// already share a flattened source, forceEqual folds b's private
// overrides into that source instead of allocating anything new.
func TestForceEqualSameSourceFoldsOverrides(t *testing.T) {
	ev, mem := newMapEqTestEvaluator(NewDeterministicChooser(DefaultGenerator{}), nil)

	src := newMapRef(mem.Heap)
	putEntry(mem, src, "k1", IntVal(1))
	_, mergedA, err := mem.Heap.Flatten(src)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	mergedB := swiss.NewMap[string, Value](4)
	mergedB.Put("k2", IntVal(2))

	ev.forceEqual(mem, src, src, mergedA, mergedB)

	payload, ok := mem.Heap.Get(src)
	if !ok {
		t.Fatalf("src no longer live")
	}
	if v, ok := payload.Entries.Get("k2"); !ok || v.Int != 2 {
		t.Errorf("src missing folded-in k2: %v, %v", v, ok)
	}
	if v, ok := payload.Entries.Get("k1"); !ok || v.Int != 1 {
		t.Errorf("src lost its own k1: %v, %v", v, ok)
	}
}

// TestForceEqualDistinctSourcesUnifiesAndRedirects covers §4.4c-c: when
// a and b flatten to genuinely distinct sources, forceEqual allocates a
// fresh unified source holding the union of both sides' values and
// redirects both old sources onto it, so that every subsequent flatten
// of either resolves to the same merged content.
func TestForceEqualDistinctSourcesUnifiesAndRedirects(t *testing.T) {
	ev, mem := newMapEqTestEvaluator(NewDeterministicChooser(DefaultGenerator{}), nil)

	srcA := newMapRef(mem.Heap)
	srcB := newMapRef(mem.Heap)
	putEntry(mem, srcA, "x", IntVal(1))
	putEntry(mem, srcB, "y", IntVal(2))
	_, mergedA, err := mem.Heap.Flatten(srcA)
	if err != nil {
		t.Fatalf("Flatten(srcA): %v", err)
	}
	_, mergedB, err := mem.Heap.Flatten(srcB)
	if err != nil {
		t.Fatalf("Flatten(srcB): %v", err)
	}

	ev.forceEqual(mem, srcA, srcB, mergedA, mergedB)

	sourceA, viewA, err := mem.Heap.Flatten(srcA)
	if err != nil {
		t.Fatalf("Flatten(srcA) after forceEqual: %v", err)
	}
	sourceB, viewB, err := mem.Heap.Flatten(srcB)
	if err != nil {
		t.Fatalf("Flatten(srcB) after forceEqual: %v", err)
	}
	if sourceA != sourceB {
		t.Fatalf("srcA and srcB flatten to different sources after forceEqual: %v != %v", sourceA, sourceB)
	}
	if v, ok := viewA.Get("x"); !ok || v.Int != 1 {
		t.Errorf("unified view missing x: %v, %v", v, ok)
	}
	if v, ok := viewA.Get("y"); !ok || v.Int != 2 {
		t.Errorf("unified view missing y: %v, %v", v, ok)
	}
	if v, ok := viewB.Get("x"); !ok || v.Int != 1 {
		t.Errorf("viewB missing x: %v, %v", v, ok)
	}
}

// TestResolveMapEqualityForcedEqualityStaysConsistentOnReresolve is the
// maintainer's exact concern: a second resolveMapEquality call on the
// same two refs after a first mustEqual-forced resolution must remain
// equal, rather than re-diverging because one side still read a stale
// pre-merge source.
func TestResolveMapEqualityForcedEqualityStaysConsistentOnReresolve(t *testing.T) {
	chooser := NewEnumeratingChooser(DefaultGenerator{})
	mem := NewMemory(nil)

	a := newMapRef(mem.Heap)
	b := newMapRef(mem.Heap)
	putEntry(mem, a, "x", IntVal(1))
	putEntry(mem, b, "y", IntVal(2))

	ev1 := NewEvaluator(&Program{}, NewConstraintStore(), chooser, NewSolverBridge(NullSolver{}), Top, NewChoiceRecorder([]int{1}))
	got1, err := ev1.resolveMapEquality(context.Background(), mem, a, b)
	if err != nil {
		t.Fatalf("resolveMapEquality (first, forced): %v", err)
	}
	if !got1 {
		t.Fatalf("resolveMapEquality(a, b) first call = false, want true (mustEqual forced)")
	}

	ev2 := NewEvaluator(&Program{}, NewConstraintStore(), chooser, NewSolverBridge(NullSolver{}), Top, NewChoiceRecorder([]int{0}))
	got2, err := ev2.resolveMapEquality(context.Background(), mem, a, b)
	if err != nil {
		t.Fatalf("resolveMapEquality (second, re-resolve): %v", err)
	}
	if !got2 {
		t.Errorf("resolveMapEquality(a, b) second call = false, want true (forced equality must persist)")
	}
}
