package boogiex

import "strings"

// TypeKind discriminates the variants of a Boogie Type.
type TypeKind int

const (
	// BoolType is the boolean type.
	BoolType TypeKind = iota
	// IntType is the (unbounded) integer type.
	IntType
	// MapType is a logical map type: bound type variables, a domain
	// (argument) tuple of types, and a range type.
	MapType
	// NamedType is a user type, possibly parametric, possibly itself a
	// bound type variable.
	NamedType
)

// String names a TypeKind for diagnostics.
func (k TypeKind) String() string {
	switch k {
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case MapType:
		return "map"
	case NamedType:
		return "named"
	default:
		return "unknown-type-kind"
	}
}

// Type is the tagged union over Boogie's type variants: a Kind enum
// plus payload fields, rather than a sealed interface hierarchy — the
// variant set is closed and known up front, so a type switch on an
// interface would add indirection without buying extensibility.
type Type struct {
	Kind TypeKind

	// Name is the type constant's name for NamedType (e.g. "Color"), or
	// the bound variable's own name when IsTypeVar is true.
	Name      string
	IsTypeVar bool
	TypeArgs  []Type // NamedType: actual type arguments of a parametric type

	// MapType fields.
	BoundTypeVars []string // type variables bound by this map type
	Domain        []Type   // argument types
	Range         *Type    // result type
}

// String renders a Type in Boogie-ish surface syntax, for diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case NamedType:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.String()
		}
		return t.Name + " " + strings.Join(args, " ")
	case MapType:
		var b strings.Builder
		if len(t.BoundTypeVars) > 0 {
			b.WriteString("<")
			b.WriteString(strings.Join(t.BoundTypeVars, ", "))
			b.WriteString(">")
		}
		b.WriteString("[")
		parts := make([]string, len(t.Domain))
		for i, d := range t.Domain {
			parts[i] = d.String()
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("]")
		if t.Range != nil {
			b.WriteString(t.Range.String())
		}
		return b.String()
	default:
		return "?"
	}
}

// Equal reports whether two types denote the same syntactic type.
// This is a structural check, not unification: type-variable identity
// is compared by name, matching how the type checker (out of scope)
// is assumed to have already resolved parametricity.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case BoolType, IntType:
		return true
	case NamedType:
		if t.Name != o.Name || len(t.TypeArgs) != len(o.TypeArgs) {
			return false
		}
		for i := range t.TypeArgs {
			if !t.TypeArgs[i].Equal(o.TypeArgs[i]) {
				return false
			}
		}
		return true
	case MapType:
		if len(t.Domain) != len(o.Domain) || len(t.BoundTypeVars) != len(o.BoundTypeVars) {
			return false
		}
		for i := range t.Domain {
			if !t.Domain[i].Equal(o.Domain[i]) {
				return false
			}
		}
		if (t.Range == nil) != (o.Range == nil) {
			return false
		}
		return t.Range == nil || t.Range.Equal(*o.Range)
	}
	return false
}

// IsFiniteDomain reports whether values of t can, in principle, be
// enumerated by the quantifier engine: bool, int (via an inferred or
// user-supplied interval), or a named type carrying a user
// quantification bound. Map types and bare type variables are not
// finite-domain (§4.5).
func (t Type) IsFiniteDomain() bool {
	switch t.Kind {
	case BoolType, IntType:
		return true
	case NamedType:
		return !t.IsTypeVar
	default:
		return false
	}
}

// TypedVar is a name with its declared type, used for bound quantifier
// variables, procedure formals, and local declarations.
type TypedVar struct {
	Name string
	Typ  Type
}

// TypeContext is the external, already-computed type-checking context:
// it resolves a global/local/constant name to its declared type. The
// type checker itself is out of scope; callers supply a TypeContext
// built by it.
type TypeContext interface {
	// LookupVar returns the declared type of a variable, constant, or
	// bound quantifier name, and whether it is known.
	LookupVar(name string) (Type, bool)
	// LookupFunc returns the signature (argument types, result type) of
	// a function constant.
	LookupFunc(name string) ([]Type, Type, bool)
}
