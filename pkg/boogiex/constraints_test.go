package boogiex

import "testing"

func TestConstraintStoreDefinitionsForOrderPreserved(t *testing.T) {
	s := NewConstraintStore()
	d1 := &Definition{Body: qlit(1)}
	d2 := &Definition{Body: qlit(2)}
	s.AddDefinition("f", d1)
	s.AddDefinition("f", d2)

	got := s.DefinitionsFor("f")
	if len(got) != 2 || got[0] != d1 || got[1] != d2 {
		t.Fatalf("DefinitionsFor(f) = %v, want [d1 d2] in insertion order", got)
	}
	if got := s.DefinitionsFor("unknown"); got != nil {
		t.Errorf("DefinitionsFor(unknown) = %v, want nil", got)
	}
}

func TestConstraintStoreConstraintsFor(t *testing.T) {
	s := NewConstraintStore()
	c := &Constraint{Body: qlit(1)}
	s.AddConstraint("g", c)
	got := s.ConstraintsFor("g")
	if len(got) != 1 || got[0] != c {
		t.Fatalf("ConstraintsFor(g) = %v, want [c]", got)
	}
}

func TestConstraintStoreAttachToRefMergesExisting(t *testing.T) {
	s := NewConstraintStore()
	r := Ref(1)
	s.AttachToRef(r, &EntityConstraints{Definitions: []*Definition{{Body: qlit(1)}}})
	s.AttachToRef(r, &EntityConstraints{Constraints: []*Constraint{{Body: qlit(2)}}})

	ec, ok := s.ForRef(r)
	if !ok {
		t.Fatal("ForRef should find the attached entry")
	}
	if len(ec.Definitions) != 1 || len(ec.Constraints) != 1 {
		t.Errorf("ec = %+v, want one definition and one constraint merged", ec)
	}
}

func TestConstraintStoreMergeRefs(t *testing.T) {
	s := NewConstraintStore()
	a, b := Ref(1), Ref(2)
	s.AttachToRef(a, &EntityConstraints{Definitions: []*Definition{{Body: qlit(1)}}})
	s.AttachToRef(b, &EntityConstraints{Definitions: []*Definition{{Body: qlit(2)}}})

	s.MergeRefs(a, b)

	ecA, ok := s.ForRef(a)
	if !ok || len(ecA.Definitions) != 2 {
		t.Fatalf("ForRef(a) after merge = (%v, %v), want 2 definitions", ecA, ok)
	}
	if _, ok := s.ForRef(b); ok {
		t.Error("ref b should be removed from the store once merged into a")
	}
}

func TestConstraintStoreMergeRefsNoOpWhenOtherEmpty(t *testing.T) {
	s := NewConstraintStore()
	a, b := Ref(1), Ref(2)
	s.AttachToRef(a, &EntityConstraints{Definitions: []*Definition{{Body: qlit(1)}}})

	s.MergeRefs(a, b) // b has nothing attached

	ecA, ok := s.ForRef(a)
	if !ok || len(ecA.Definitions) != 1 {
		t.Errorf("ForRef(a) = (%+v, %v), want unchanged single definition", ecA, ok)
	}
}
