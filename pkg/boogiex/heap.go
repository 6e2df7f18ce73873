package boogiex

import (
	"fmt"
	"sync"

	"github.com/dolthub/swiss"
)

// MapKind discriminates a map payload's representation (§3).
type MapKind int

const (
	// MapSource is an explicit partial mapping from key-tuple to value.
	MapSource MapKind = iota
	// MapDerived is a base reference plus an override partial mapping.
	MapDerived
)

// MapPayload is a map value's heap-resident storage cell. For
// MapSource, Entries is the map's own key→value cache; for
// MapDerived, Entries holds only the override deltas layered on top
// of Base (§3, §4.2's "map update").
type MapPayload struct {
	Kind    MapKind
	Base    Ref // MapDerived only
	Entries *swiss.Map[string, Value]

	// Attached carries any forall-style definition/constraint deferred
	// onto this specific reference (§4.6: "attached to the reference
	// (deferred) so that later indexing can guard by matching type
	// variables and formal types").
	Attached *EntityConstraints
}

func newPayload(kind MapKind, base Ref) *MapPayload {
	return &MapPayload{Kind: kind, Base: base, Entries: swiss.NewMap[string, Value](4)}
}

// heapEntry is one arena slot: a map payload and its live reference
// count (§3's Heap invariants).
type heapEntry struct {
	payload  *MapPayload
	refCount int
}

// Heap is the reference-counted arena of symbolic map values (§3, the
// "Heap" component of §4). It is single-owner per execution branch
// (§5): branches never share a Heap, they clone one via Memory.Clone.
type Heap struct {
	mu      sync.Mutex
	entries map[Ref]*heapEntry
	next    Ref
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{entries: make(map[Ref]*heapEntry), next: 1}
}

// Allocate creates a new heap entry for payload with an initial
// reference count of zero; the caller is responsible for Incref'ing
// it once it is stored into a slot (per §3's count formula), otherwise
// the very next GC pass will collect it.
func (h *Heap) Allocate(payload *MapPayload) Ref {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.next
	h.next++
	h.entries[r] = &heapEntry{payload: payload, refCount: 0}
	traceHeap("alloc %v kind=%v", r, payload.Kind)
	return r
}

// Get returns the payload stored at ref.
func (h *Heap) Get(ref Ref) (*MapPayload, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[ref]
	if !ok {
		return nil, false
	}
	return e.payload, true
}

// Incref increments ref's count (a variable/slot/container now points
// at it). A no-op on NilRef.
func (h *Heap) Incref(ref Ref) {
	if ref == NilRef {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.entries[ref]; ok {
		e.refCount++
	}
}

// Decref decrements ref's count. It does not itself deallocate —
// collection happens only at GC() calls, run at well-defined safe
// points (statement end, §4.3), so that a value can be decref'd and
// re-incref'd within the same statement without premature collection.
func (h *Heap) Decref(ref Ref) {
	if ref == NilRef {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.entries[ref]; ok && e.refCount > 0 {
		e.refCount--
	}
}

// GC removes every unreferenced entry, cascading the decrement to its
// Derived base and to any reference-valued entries it stored, and
// repeats until no zero-count entry remains (§4.3, Testable Property 3).
func (h *Heap) GC() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for {
		var dead []Ref
		for r, e := range h.entries {
			if e.refCount <= 0 {
				dead = append(dead, r)
			}
		}
		if len(dead) == 0 {
			return
		}
		for _, r := range dead {
			e := h.entries[r]
			delete(h.entries, r)
			traceHeap("gc dealloc %v", r)
			if e.payload.Kind == MapDerived && e.payload.Base != NilRef {
				if base, ok := h.entries[e.payload.Base]; ok {
					base.refCount--
				}
			}
			e.payload.Entries.Iter(func(_ string, v Value) bool {
				if v.Kind == MapRefValue {
					if target, ok := h.entries[v.Ref]; ok {
						target.refCount--
					}
				}
				return false
			})
		}
	}
}

// Clone deep-copies the heap so that a forked execution branch (§5:
// "no cross-branch state — every branch clones memory via the
// enumeration monad") can mutate its own copy without affecting
// sibling branches or the branch it forked from.
func (h *Heap) Clone() *Heap {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := &Heap{entries: make(map[Ref]*heapEntry, len(h.entries)), next: h.next}
	for r, e := range h.entries {
		p := &MapPayload{Kind: e.payload.Kind, Base: e.payload.Base, Entries: swiss.NewMap[string, Value](uint32(e.payload.Entries.Count()))}
		e.payload.Entries.Iter(func(k string, v Value) bool {
			p.Entries.Put(k, v)
			return false
		})
		p.Attached = e.payload.Attached
		out.entries[r] = &heapEntry{payload: p, refCount: e.refCount}
	}
	return out
}

// redirectSource turns the heap entry at old into a Derived alias of
// newSrc with no overrides of its own, so every existing reference to
// old — direct, or reached transitively through a Derived chain whose
// Base eventually points at old — flattens through to newSrc from now
// on, while any override deltas other payloads layered on top of old
// are preserved untouched (§4.4c's forced map-equality unification).
func (h *Heap) redirectSource(old, newSrc Ref) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[old]
	if !ok {
		return
	}
	e.payload = &MapPayload{Kind: MapDerived, Base: newSrc, Entries: swiss.NewMap[string, Value](0)}
}

// Count reports the live entry count, for diagnostics and tests.
func (h *Heap) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// RefCount reports ref's current count, for tests of Testable
// Property 3; returns (0, false) if ref is not live.
func (h *Heap) RefCount(ref Ref) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[ref]
	if !ok {
		return 0, false
	}
	return e.refCount, true
}

// flattenMaxDepth bounds the Derived-chain walk. Design Note "Heap
// with cycles" guarantees chains are finite by construction, so this
// is a defensive cap, not an expected limit.
const flattenMaxDepth = 1 << 20

// Flatten resolves ref's Derived chain to its ultimate source
// reference and a merged key→value view (most-derived override wins),
// per §3's "flattening" and §4.2's lazy map selection.
func (h *Heap) Flatten(ref Ref) (source Ref, merged *swiss.Map[string, Value], err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var chain []*MapPayload
	cur := ref
	for depth := 0; ; depth++ {
		if depth > flattenMaxDepth {
			return NilRef, nil, fmt.Errorf("boogiex: derived-map chain exceeded %d (cycle?) at ref %v", flattenMaxDepth, ref)
		}
		e, ok := h.entries[cur]
		if !ok {
			return NilRef, nil, fmt.Errorf("boogiex: dangling map reference %v", cur)
		}
		chain = append(chain, e.payload)
		if e.payload.Kind == MapSource {
			source = cur
			break
		}
		cur = e.payload.Base
	}

	merged = swiss.NewMap[string, Value](8)
	// chain[0] is the most-derived; apply from the source outward so
	// later (more-derived) overrides win.
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].Entries.Iter(func(k string, v Value) bool {
			merged.Put(k, v)
			return false
		})
	}
	return source, merged, nil
}
