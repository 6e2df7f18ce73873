package boogiex

import "sync"

// Definition is a guarded, argument-formalized equality an entity
// (function, constant, or map reference) must satisfy when
// materialized: `guard(x,y,c) ⇒ f(x,y) == body(x,y,c)` (§3, §4.6).
type Definition struct {
	Formals []TypedVar
	Guard   *Expr // nil means "always applies"
	Body    *Expr
	Pos     Position
}

// Constraint is any boolean predicate an entity's materialized value
// must satisfy, applied as `assume(guard ⇒ body)` at materialization
// (§3, §4.6).
type Constraint struct {
	FreeVars []string
	Guard    *Expr // nil means "always applies"
	Body     *Expr
	Pos      Position
}

// EntityConstraints bundles the definitions and constraints attached
// to a single name or map reference (§3's "Abstract constraint
// store"): a list of definitions and a list of forall-style
// constraints.
type EntityConstraints struct {
	Definitions []*Definition
	Constraints []*Constraint
}

// ConstraintStore is the abstract store of §3/§4.6: per-name (function,
// constant, or global variable) definitions/constraints, plus the same
// attached to specific map references for deferred (per-value) forall
// constraints (§4.6's "attached to the reference").
type ConstraintStore struct {
	mu     sync.RWMutex
	byName map[string]*EntityConstraints
	byRef  map[Ref]*EntityConstraints
}

// NewConstraintStore creates an empty store.
func NewConstraintStore() *ConstraintStore {
	return &ConstraintStore{
		byName: make(map[string]*EntityConstraints),
		byRef:  make(map[Ref]*EntityConstraints),
	}
}

func (s *ConstraintStore) entryFor(name string) *EntityConstraints {
	e, ok := s.byName[name]
	if !ok {
		e = &EntityConstraints{}
		s.byName[name] = e
	}
	return e
}

// AddDefinition attaches d to name.
func (s *ConstraintStore) AddDefinition(name string, d *Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryFor(name)
	e.Definitions = append(e.Definitions, d)
}

// AddConstraint attaches c to name.
func (s *ConstraintStore) AddConstraint(name string, c *Constraint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryFor(name)
	e.Constraints = append(e.Constraints, c)
}

// DefinitionsFor returns name's definitions, in the order they were
// extracted (earlier axioms take precedence by being tried first, a
// plain left-to-right tie-break).
func (s *ConstraintStore) DefinitionsFor(name string) []*Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.byName[name]; ok {
		return e.Definitions
	}
	return nil
}

// ConstraintsFor returns name's constraints.
func (s *ConstraintStore) ConstraintsFor(name string) []*Constraint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.byName[name]; ok {
		return e.Constraints
	}
	return nil
}

// AttachToRef attaches ec (typically definitions/constraints that were
// originally phrased over a map-typed entity's selections) directly to
// a heap reference, for later deferred consultation during map
// selection (§4.6).
func (s *ConstraintStore) AttachToRef(ref Ref, ec *EntityConstraints) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byRef[ref]
	if !ok {
		s.byRef[ref] = ec
		return
	}
	existing.Definitions = append(existing.Definitions, ec.Definitions...)
	existing.Constraints = append(existing.Constraints, ec.Constraints...)
}

// ForRef returns the constraints/definitions attached directly to ref,
// if any.
func (s *ConstraintStore) ForRef(ref Ref) (*EntityConstraints, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byRef[ref]
	return e, ok
}

// MergeRefs merges b's attached constraints into a (used by map
// equality's forceEqual when two sources are unified into one, §4.4c:
// "merging the two sources' attached definitions and constraints").
func (s *ConstraintStore) MergeRefs(a, b Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bEC, ok := s.byRef[b]
	if !ok {
		return
	}
	aEC, ok := s.byRef[a]
	if !ok {
		s.byRef[a] = bEC
		delete(s.byRef, b)
		return
	}
	aEC.Definitions = append(aEC.Definitions, bEC.Definitions...)
	aEC.Constraints = append(aEC.Constraints, bEC.Constraints...)
	delete(s.byRef, b)
}
