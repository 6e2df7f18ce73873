package boogiex

import "fmt"

// ValueKind discriminates the variants of a Boogie run-time Value.
type ValueKind int

const (
	// IntValue holds an arbitrary-precision-enough (int64) integer.
	IntValue ValueKind = iota
	// BoolValue holds a boolean.
	BoolValue
	// CustomValue holds a user type's opaque integer tag. Two custom
	// values compare equal iff their type name and tag are identical.
	CustomValue
	// MapRefValue holds a reference (handle) into the Heap. A map's
	// payload is never passed by value at user level — only through
	// this reference cell, matching §3's Value variant.
	MapRefValue
)

// String names a ValueKind for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case IntValue:
		return "int"
	case BoolValue:
		return "bool"
	case CustomValue:
		return "custom"
	case MapRefValue:
		return "map-ref"
	default:
		return "unknown-value-kind"
	}
}

// CustomTag is a user type's opaque integer tag.
type CustomTag struct {
	TypeName string
	Tag      int64
}

// Equal compares two custom tags for identity.
func (c CustomTag) Equal(o CustomTag) bool {
	return c.TypeName == o.TypeName && c.Tag == o.Tag
}

// Ref is a handle into the Heap, identifying a map's storage cell.
type Ref int64

// NilRef is the invalid/unset reference.
const NilRef Ref = 0

// Value is the tagged union over Boogie run-time values (§3).
type Value struct {
	Kind   ValueKind
	Int    int64
	Bool   bool
	Custom CustomTag
	Ref    Ref
}

// IntVal constructs an integer value.
func IntVal(i int64) Value { return Value{Kind: IntValue, Int: i} }

// BoolVal constructs a boolean value.
func BoolVal(b bool) Value { return Value{Kind: BoolValue, Bool: b} }

// CustomVal constructs a user-type tag value.
func CustomVal(typeName string, tag int64) Value {
	return Value{Kind: CustomValue, Custom: CustomTag{TypeName: typeName, Tag: tag}}
}

// RefVal constructs a map-reference value.
func RefVal(r Ref) Value { return Value{Kind: MapRefValue, Ref: r} }

// String renders a Value for diagnostics and test-case summaries.
func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return fmt.Sprintf("%d", v.Int)
	case BoolValue:
		return fmt.Sprintf("%t", v.Bool)
	case CustomValue:
		return fmt.Sprintf("%s!%d", v.Custom.TypeName, v.Custom.Tag)
	case MapRefValue:
		return fmt.Sprintf("map#%d", v.Ref)
	default:
		return "?"
	}
}

// Equal is strict (non-map) value equality: identical kind and payload.
// Reference equality for MapRefValue is identity-of-reference only;
// deep map-value equality is the separate, non-deterministic resolution
// procedure in mapeq.go (§4.4) and must not be confused with this.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case IntValue:
		return v.Int == o.Int
	case BoolValue:
		return v.Bool == o.Bool
	case CustomValue:
		return v.Custom.Equal(o.Custom)
	case MapRefValue:
		return v.Ref == o.Ref
	default:
		return false
	}
}

// underConstructionType is the reserved type name for cycle-detection
// sentinel values (§4.6, Design Note 1). No well-typed Boogie program
// can produce a custom value of this type, so a sentinel is never
// confused with a genuine user value.
const underConstructionType = "$under-construction"

// isSentinel reports whether v is an under-construction sentinel, and
// if so returns its construction code.
func isSentinel(v Value) (code int64, ok bool) {
	if v.Kind == CustomValue && v.Custom.TypeName == underConstructionType {
		return v.Custom.Tag, true
	}
	return 0, false
}
