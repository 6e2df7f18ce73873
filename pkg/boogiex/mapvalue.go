package boogiex

import "strconv"

// encodeKey canonicalizes an argument tuple into a single string key
// for use as a swiss.Map index.
func encodeKey(args []Value) string {
	// A kind-tagged, separator-delimited encoding avoids
	// ambiguity between e.g. args=[1,23] and args=[12,3] that a naive
	// join would conflate.
	buf := make([]byte, 0, 8*len(args))
	for _, a := range args {
		buf = append(buf, byte(a.Kind))
		switch a.Kind {
		case IntValue:
			buf = strconv.AppendInt(buf, a.Int, 10)
		case BoolValue:
			if a.Bool {
				buf = append(buf, '1')
			} else {
				buf = append(buf, '0')
			}
		case CustomValue:
			buf = append(buf, a.Custom.TypeName...)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, a.Custom.Tag, 10)
		case MapRefValue:
			buf = strconv.AppendInt(buf, int64(a.Ref), 10)
		}
		buf = append(buf, '|')
	}
	return string(buf)
}

// newMapRef allocates a fresh Source map payload on h and returns its
// reference, with a starting refcount of zero (caller must Incref).
func newMapRef(h *Heap) Ref {
	return h.Allocate(newPayload(MapSource, NilRef))
}

// mapUpdateRef performs the allocation side of §4.2's "map update":
// if base flattens to a Source, the new entry is Derived(base,
// {args→new}); if base is itself Derived, the new entry extends the
// override on top of base directly (not its ultimate source), so that
// distinct update chains sharing a prefix remain distinguishable.
// Reference counts of the stored value and of base are incremented.
func mapUpdateRef(h *Heap, base Ref, args []Value, newVal Value) Ref {
	derived := newPayload(MapDerived, base)
	derived.Entries.Put(encodeKey(args), newVal)
	ref := h.Allocate(derived)
	h.Incref(base)
	if newVal.Kind == MapRefValue {
		h.Incref(newVal.Ref)
	}
	return ref
}
