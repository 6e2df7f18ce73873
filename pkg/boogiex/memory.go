package boogiex

// scopeTypeContext layers a set of local bindings (locals, quantifier
// bound variables) on top of an outer TypeContext, without mutating it
// (§4.5's "extend the type context" for entering a quantified scope,
// and procedure-call argument binding).
type scopeTypeContext struct {
	locals map[string]Type
	outer  TypeContext
}

func newScope(outer TypeContext) *scopeTypeContext {
	return &scopeTypeContext{locals: make(map[string]Type), outer: outer}
}

func (s *scopeTypeContext) bind(name string, t Type) *scopeTypeContext {
	child := newScope(s)
	child.locals[name] = t
	return child
}

func (s *scopeTypeContext) LookupVar(name string) (Type, bool) {
	if t, ok := s.locals[name]; ok {
		return t, true
	}
	if s.outer != nil {
		return s.outer.LookupVar(name)
	}
	return Type{}, false
}

func (s *scopeTypeContext) LookupFunc(name string) ([]Type, Type, bool) {
	if s.outer != nil {
		return s.outer.LookupFunc(name)
	}
	return nil, Type{}, false
}

// Memory is one execution branch's complete mutable state (§3's "store"
// plus §4's Heap): local variable bindings, global bindings, the
// snapshot of globals taken at the most recent `old(...)` evaluation or
// procedure-call boundary, which globals this branch has assigned,
// named constants, and the map-value arena.
//
// A Memory is single-owner per branch (Design Note, §5): non-deterministic
// choice points fork by calling Clone, never by sharing a *Memory.
type Memory struct {
	Locals     map[string]Value
	Globals    map[string]Value
	OldGlobals map[string]Value
	Modified   map[string]bool
	Constants  map[string]Value
	Heap       *Heap

	// InOld is true while evaluating the body of an `old(...)`
	// expression: nested `old` expressions are no-ops (§4.2), and global
	// lookups resolve against OldGlobals instead of Globals.
	InOld bool

	// TypeCtx is the type context in scope: the program's base context,
	// extended with quantifier-bound variables as evaluation descends
	// into QuantExpr bodies (§4.5).
	TypeCtx TypeContext
}

// NewMemory creates an empty Memory over base, with its own fresh Heap.
func NewMemory(base TypeContext) *Memory {
	return &Memory{
		Locals:     make(map[string]Value),
		Globals:    make(map[string]Value),
		OldGlobals: make(map[string]Value),
		Modified:   make(map[string]bool),
		Constants:  make(map[string]Value),
		Heap:       NewHeap(),
		TypeCtx:    base,
	}
}

// Clone deep-copies m, including a full Heap.Clone, so that the
// returned Memory can be mutated independently by a forked branch
// (§5). Reference counts in the cloned heap start identical to the
// source's; the two heaps immediately diverge as each branch's
// subsequent Incref/Decref/GC calls apply only to its own copy.
func (m *Memory) Clone() *Memory {
	out := &Memory{
		Locals:     make(map[string]Value, len(m.Locals)),
		Globals:    make(map[string]Value, len(m.Globals)),
		OldGlobals: make(map[string]Value, len(m.OldGlobals)),
		Modified:   make(map[string]bool, len(m.Modified)),
		Constants:  m.Constants, // constants never change after program load; share
		Heap:       m.Heap.Clone(),
		InOld:      m.InOld,
		TypeCtx:    m.TypeCtx,
	}
	for k, v := range m.Locals {
		out.Locals[k] = v
	}
	for k, v := range m.Globals {
		out.Globals[k] = v
	}
	for k, v := range m.OldGlobals {
		out.OldGlobals[k] = v
	}
	for k, v := range m.Modified {
		out.Modified[k] = v
	}
	return out
}

// EnterQuantifierScope returns a Memory whose TypeCtx additionally
// binds name to typ, and whose Locals additionally (temporarily) holds
// the candidate value assigned to name during enumeration. Heap and
// globals are shared by reference with m (quantifier bodies are pure
// propositions over the existing store, §4.5), but Locals is a shallow
// copy so the binding doesn't leak back to the caller's scope once
// enumeration moves to the next candidate.
func (m *Memory) EnterQuantifierScope(name string, typ Type, value Value) *Memory {
	locals := make(map[string]Value, len(m.Locals)+1)
	for k, v := range m.Locals {
		locals[k] = v
	}
	locals[name] = value
	return &Memory{
		Locals:     locals,
		Globals:    m.Globals,
		OldGlobals: m.OldGlobals,
		Modified:   m.Modified,
		Constants:  m.Constants,
		Heap:       m.Heap,
		InOld:      m.InOld,
		TypeCtx:    bindOrWrap(m.TypeCtx, name, typ),
	}
}

// savedGlobals is a call-site snapshot used to implement the "later
// restoreOld" semantics of Design Note (ii): on procedure return, a
// global the callee's modifies-clause permits changing keeps its new
// value; any other global gets its pre-call value restored into
// Globals, and its OldGlobals entry is left as the caller had it.
type savedGlobals struct {
	pre map[string]Value
}

// SaveForCall snapshots m's current globals before entering a
// procedure call, for use by RestoreAfterCall.
func (m *Memory) SaveForCall() *savedGlobals {
	pre := make(map[string]Value, len(m.Globals))
	for k, v := range m.Globals {
		pre[k] = v
	}
	return &savedGlobals{pre: pre}
}

// RestoreAfterCall implements Design Note (ii): for every global name
// in calleeModifies, the callee's resulting value in m.Globals is kept
// and m.OldGlobals is advanced to it (the call is now "in the past" for
// any further old() in the caller). For every other global, m.Globals
// is reset to the pre-call snapshot (undoing any writes the callee made
// to a global outside its modifies clause) and OldGlobals is left untouched, since the caller's notion of "old"
// for that variable did not change.
func (m *Memory) RestoreAfterCall(saved *savedGlobals, calleeModifies map[string]bool) {
	for name, preVal := range saved.pre {
		if calleeModifies[name] {
			m.OldGlobals[name] = m.Globals[name]
			continue
		}
		m.Globals[name] = preVal
	}
}

// bindOrWrap lets EnterQuantifierScope extend whatever concrete
// TypeContext m.TypeCtx holds, whether or not it is already a
// *scopeTypeContext, without a type switch at every call site.
func bindOrWrap(ctx TypeContext, name string, typ Type) TypeContext {
	if sc, ok := ctx.(*scopeTypeContext); ok {
		return sc.bind(name, typ)
	}
	return newScope(ctx).bind(name, typ)
}
