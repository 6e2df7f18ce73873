package boogiex

import "testing"

func exprKindPath(e *Expr) string {
	switch e.Kind {
	case EUnary:
		return "not(" + exprKindPath(e.Inner) + ")"
	case EBinary:
		return "(" + exprKindPath(e.Left) + " " + e.Op + " " + exprKindPath(e.Right) + ")"
	case EVar:
		return e.Name
	case ELit:
		return e.Lit.String()
	default:
		return "?"
	}
}

func TestToNNFPushesNegationThroughAndOr(t *testing.T) {
	// not(a && b)  ==  not(a) || not(b)
	e := negate(BinaryExpr(noPos, OpAnd, qvar("a"), qvar("b")))
	got := ToNNF(e)
	want := "(not(a) || not(b))"
	if got.Kind != EBinary || got.Op != OpOr {
		t.Fatalf("ToNNF(not(a && b)) = %s, want top-level ||", exprKindPath(got))
	}
	if exprKindPath(got) != want {
		t.Errorf("ToNNF(not(a && b)) = %s, want %s", exprKindPath(got), want)
	}
}

func TestToNNFDoubleNegationCancels(t *testing.T) {
	e := negate(negate(qvar("a")))
	got := ToNNF(e)
	if got.Kind != EVar || got.Name != "a" {
		t.Errorf("ToNNF(not(not(a))) = %s, want bare variable a", exprKindPath(got))
	}
}

func TestToNNFImplicationRewriteAffirmsGuardWhenNegated(t *testing.T) {
	// not(guard ==> b)  ==  guard && not(b) : the guard comes out
	// affirmed, only the consequent gets wrapped in Not.
	imp := BinaryExpr(noPos, OpImp, qvar("guard"), qvar("b"))
	got := ToNNF(negate(imp))
	if got.Kind != EBinary || got.Op != OpAnd {
		t.Fatalf("ToNNF(not(guard ==> b)) = %s, want top-level &&", exprKindPath(got))
	}
	if got.Left.Kind != EVar || got.Left.Name != "guard" {
		t.Errorf("left conjunct = %s, want bare affirmed guard", exprKindPath(got.Left))
	}
	if got.Right.Kind != EUnary || got.Right.Op != OpNot {
		t.Errorf("right conjunct = %s, want not(b)", exprKindPath(got.Right))
	}
}

func TestToNNFQuantifierFlipsOnNegation(t *testing.T) {
	e := QuantExpr(noPos, Forall, []TypedVar{{Name: "i", Typ: Type{Kind: IntType}}}, qvar("p"))
	got := ToNNF(negate(e))
	if got.Kind != EQuant || got.Quant != Exists {
		t.Errorf("ToNNF(not(forall ...)) quant = %v, want Exists", got.Quant)
	}
}

func TestToNNFLeavesComparisonsWrappedRatherThanFlipped(t *testing.T) {
	cmp := BinaryExpr(noPos, OpLt, qvar("x"), qvar("y"))
	got := ToNNF(negate(cmp))
	if got.Kind != EUnary || got.Op != OpNot {
		t.Errorf("ToNNF(not(x < y)) = %s, want an explicit not() wrapper, not a flipped relation", exprKindPath(got))
	}
}
