// Package main demonstrates the boogiex interpreter against a handful
// of small, hand-assembled programs.
package main

import (
	"context"
	"fmt"

	"github.com/boogierun/boogiex/pkg/boogiex"
)

var pos = boogiex.NoPosition

func intType() boogiex.Type  { return boogiex.Type{Kind: boogiex.IntType} }
func boolType() boogiex.Type { return boogiex.Type{Kind: boogiex.BoolType} }

func lit(n int64) *boogiex.Expr   { return boogiex.LitExpr(pos, boogiex.IntVal(n)) }
func v(name string) *boogiex.Expr { return boogiex.VarExpr(pos, name) }
func set(name string, e *boogiex.Expr) *boogiex.Stmt {
	return boogiex.AssignStmt(pos, []boogiex.LValue{{Name: name}}, []*boogiex.Expr{e})
}
func bin(op string, l, r *boogiex.Expr) *boogiex.Expr { return boogiex.BinaryExpr(pos, op, l, r) }

func main() {
	fmt.Println("=== boogiex demo ===")
	fmt.Println()

	divisionByZero()
	fmt.Println()
	assertionOutcomes()
	fmt.Println()
	assumptionSuppression()
	fmt.Println()
	axiomDrivenConstant()
	fmt.Println()
	quantifierDomainPair()
	fmt.Println()
	arraySearch()
}

func run(label string, prog *boogiex.Program, proc string, chooser boogiex.Chooser, bound boogiex.Interval) {
	summary, err := boogiex.ExecuteProgramGeneric(context.Background(), prog, proc, chooser, bound, boogiex.NullSolver{})
	if err != nil {
		fmt.Printf("%s: internal error: %v\n", label, err)
		return
	}
	fmt.Printf("--- %s ---\n%s", label, summary.String())
}

// divisionByZero: a straight-line procedure that always divides by
// zero, demonstrating the simplest possible Failure (§6).
func divisionByZero() {
	prog := &boogiex.Program{
		GlobalVars: map[string]boogiex.Type{},
		Constants:  map[string]boogiex.Type{},
		Functions:  map[string]*boogiex.FunctionDecl{},
		Procedures: map[string][]*boogiex.ProcedureImpl{
			"Divide": {{
				Name: "Divide",
				Rets: []boogiex.TypedVar{{Name: "q", Typ: intType()}},
				Locals: []boogiex.TypedVar{
					{Name: "a", Typ: intType()},
					{Name: "b", Typ: intType()},
				},
				Body: []*boogiex.Stmt{
					set("a", lit(7)),
					set("b", lit(0)),
					set("q", bin(boogiex.OpDiv, v("a"), v("b"))),
				},
			}},
		},
	}
	prog.TypeCtx = boogiex.NewProgramTypeContext(prog)
	run("Divide (division by zero)", prog, "Divide", boogiex.NewDeterministicChooser(boogiex.DefaultGenerator{}), boogiex.Top)
}

// assertionOutcomes runs a correct Abs alongside a deliberately broken
// one, showing a passed test case next to a failed assertion.
func assertionOutcomes() {
	abs := &boogiex.ProcedureImpl{
		Name:   "Abs",
		Rets:   []boogiex.TypedVar{{Name: "y", Typ: intType()}},
		Locals: []boogiex.TypedVar{{Name: "x", Typ: intType()}},
		Body: []*boogiex.Stmt{
			set("x", lit(-5)),
			boogiex.IfStmt(pos, bin(boogiex.OpLt, v("x"), lit(0)),
				[]*boogiex.Stmt{set("y", boogiex.UnaryExpr(pos, boogiex.OpNeg, v("x")))},
				[]*boogiex.Stmt{set("y", v("x"))},
			),
			boogiex.AssertStmt(pos, bin(boogiex.OpGe, v("y"), lit(0))),
		},
	}
	badAbs := &boogiex.ProcedureImpl{
		Name:   "BadAbs",
		Rets:   []boogiex.TypedVar{{Name: "y", Typ: intType()}},
		Locals: []boogiex.TypedVar{{Name: "x", Typ: intType()}},
		Body: []*boogiex.Stmt{
			set("x", lit(0)),
			boogiex.IfStmt(pos, bin(boogiex.OpLt, v("x"), lit(0)),
				[]*boogiex.Stmt{set("y", boogiex.UnaryExpr(pos, boogiex.OpNeg, v("x")))},
				[]*boogiex.Stmt{set("y", bin(boogiex.OpSub, v("x"), lit(1)))}, // bug: off by one
			),
			boogiex.AssertStmt(pos, bin(boogiex.OpGe, v("y"), lit(0))),
		},
	}
	prog := &boogiex.Program{
		GlobalVars: map[string]boogiex.Type{},
		Constants:  map[string]boogiex.Type{},
		Functions:  map[string]*boogiex.FunctionDecl{},
		Procedures: map[string][]*boogiex.ProcedureImpl{
			"Abs":    {abs},
			"BadAbs": {badAbs},
		},
	}
	prog.TypeCtx = boogiex.NewProgramTypeContext(prog)
	det := boogiex.NewDeterministicChooser(boogiex.DefaultGenerator{})
	run("Abs (correct)", prog, "Abs", det, boogiex.Top)
	run("BadAbs (assertion violation)", prog, "BadAbs", det, boogiex.Top)
}

// assumptionSuppression shows the same procedure run under a
// deterministic chooser (the only reachable branch is vacuous) versus
// an enumerating one (the ChoiceRecorder worklist also explores the
// sibling where the havoc'd flag came out true, §5/§6).
func assumptionSuppression() {
	impl := &boogiex.ProcedureImpl{
		Name:   "GuardedFlag",
		Rets:   []boogiex.TypedVar{{Name: "y", Typ: intType()}},
		Locals: []boogiex.TypedVar{{Name: "b", Typ: boolType()}},
		Body: []*boogiex.Stmt{
			boogiex.HavocStmt(pos, "b"),
			boogiex.AssumeStmt(pos, v("b")),
			set("y", lit(1)),
			boogiex.AssertStmt(pos, bin(boogiex.OpEq, v("y"), lit(1))),
		},
	}
	prog := &boogiex.Program{
		GlobalVars: map[string]boogiex.Type{},
		Constants:  map[string]boogiex.Type{},
		Functions:  map[string]*boogiex.FunctionDecl{},
		Procedures: map[string][]*boogiex.ProcedureImpl{"GuardedFlag": {impl}},
	}
	prog.TypeCtx = boogiex.NewProgramTypeContext(prog)
	run("GuardedFlag, deterministic (only the false branch runs, vacuously)",
		prog, "GuardedFlag", boogiex.NewDeterministicChooser(boogiex.DefaultGenerator{}), boogiex.Top)
	run("GuardedFlag, enumerating (the true branch is also explored via NextPaths)",
		prog, "GuardedFlag", boogiex.NewEnumeratingChooser(boogiex.DefaultGenerator{}), boogiex.Top)
}

// axiomDrivenConstant exercises preprocess.go's axiom extraction: a
// constant and a function both characterized only by axioms, never by
// a literal assignment or a function body.
func axiomDrivenConstant() {
	doubleFormal := boogiex.TypedVar{Name: "x", Typ: intType()}
	prog := &boogiex.Program{
		GlobalVars: map[string]boogiex.Type{},
		Constants:  map[string]boogiex.Type{"c": intType()},
		Functions: map[string]*boogiex.FunctionDecl{
			"Double": {Name: "Double", Formals: []boogiex.TypedVar{doubleFormal}, Ret: intType()},
		},
		Axioms: []*boogiex.Expr{
			bin(boogiex.OpEq, v("c"), lit(42)),
			boogiex.QuantExpr(pos, boogiex.Forall, []boogiex.TypedVar{doubleFormal},
				bin(boogiex.OpEq,
					boogiex.AppExpr(pos, "Double", []*boogiex.Expr{v("x")}),
					bin(boogiex.OpAdd, v("x"), v("x")))),
		},
		Procedures: map[string][]*boogiex.ProcedureImpl{
			"UseConst": {{
				Name: "UseConst",
				Rets: []boogiex.TypedVar{{Name: "r", Typ: intType()}},
				Body: []*boogiex.Stmt{
					set("r", bin(boogiex.OpAdd, v("c"), boogiex.AppExpr(pos, "Double", []*boogiex.Expr{lit(1)}))),
					boogiex.AssertStmt(pos, bin(boogiex.OpEq, v("r"), lit(44))),
				},
			}},
		},
	}
	prog.TypeCtx = boogiex.NewProgramTypeContext(prog)
	run("UseConst (c and Double resolved entirely from axioms)",
		prog, "UseConst", boogiex.NewDeterministicChooser(boogiex.DefaultGenerator{}), boogiex.Top)
}

// quantifierDomainPair runs one procedure, unchanged, under two
// different quantification bounds: unbounded (InfiniteDomain, since
// the loop variable's upper bound comes from a runtime local the
// interval engine cannot see through) and a finite cap supplied by the
// caller (passes, §4.7/§6).
func quantifierDomainPair() {
	impl := &boogiex.ProcedureImpl{
		Name:   "NoNegativeBelow",
		Locals: []boogiex.TypedVar{{Name: "n", Typ: intType()}},
		Body: []*boogiex.Stmt{
			set("n", lit(5)),
			boogiex.AssertStmt(pos, boogiex.QuantExpr(pos, boogiex.Forall,
				[]boogiex.TypedVar{{Name: "j", Typ: intType()}},
				bin(boogiex.OpImp,
					bin(boogiex.OpAnd, bin(boogiex.OpLe, lit(0), v("j")), bin(boogiex.OpLt, v("j"), v("n"))),
					bin(boogiex.OpGe, v("j"), lit(0))))),
		},
	}
	prog := &boogiex.Program{
		GlobalVars: map[string]boogiex.Type{},
		Constants:  map[string]boogiex.Type{},
		Functions:  map[string]*boogiex.FunctionDecl{},
		Procedures: map[string][]*boogiex.ProcedureImpl{"NoNegativeBelow": {impl}},
	}
	prog.TypeCtx = boogiex.NewProgramTypeContext(prog)
	det := boogiex.NewDeterministicChooser(boogiex.DefaultGenerator{})
	run("NoNegativeBelow, unbounded quantification (InfiniteDomain)", prog, "NoNegativeBelow", det, boogiex.Top)
	run("NoNegativeBelow, bounded quantification [0,50] (passes)", prog, "NoNegativeBelow", det, boogiex.Range(0, 50))
}

// arraySearch exercises the heap: a global map variable built up by a
// sequence of map-update assignments, then walked by a while/break
// loop, matching §4.1's loop flattening and §4.4's map-value model
// together.
func arraySearch() {
	upd := func(idx, val int64) *boogiex.Stmt {
		return set("arr", boogiex.UpdExpr(pos, v("arr"), []*boogiex.Expr{lit(idx)}, lit(val)))
	}
	intT := intType()
	arrType := boogiex.Type{Kind: boogiex.MapType, Domain: []boogiex.Type{intType()}, Range: &intT}

	body := []*boogiex.Stmt{}
	for i := int64(0); i < 8; i++ {
		body = append(body, upd(i, (i+1)*2))
	}
	body = append(body,
		set("key", lit(6)),
		set("i", lit(0)),
		set("idx", lit(-1)),
		boogiex.WhileStmt(pos, bin(boogiex.OpLt, v("i"), lit(8)), nil, []*boogiex.Stmt{
			boogiex.IfStmt(pos, bin(boogiex.OpEq, boogiex.SelExpr(pos, v("arr"), []*boogiex.Expr{v("i")}), v("key")),
				[]*boogiex.Stmt{set("idx", v("i")), boogiex.BreakStmt(pos, "")},
				nil,
			),
			set("i", bin(boogiex.OpAdd, v("i"), lit(1))),
		}),
		boogiex.AssertStmt(pos, bin(boogiex.OpEq, v("idx"), lit(2))),
	)

	prog := &boogiex.Program{
		GlobalVars: map[string]boogiex.Type{"arr": arrType},
		Constants:  map[string]boogiex.Type{},
		Functions:  map[string]*boogiex.FunctionDecl{},
		Procedures: map[string][]*boogiex.ProcedureImpl{
			"FindValue": {{
				Name:     "FindValue",
				Rets:     []boogiex.TypedVar{{Name: "idx", Typ: intType()}},
				Locals:   []boogiex.TypedVar{{Name: "key", Typ: intType()}, {Name: "i", Typ: intType()}},
				Modifies: map[string]bool{"arr": true},
				Body:     body,
			}},
		},
	}
	prog.TypeCtx = boogiex.NewProgramTypeContext(prog)
	run("FindValue (map-valued global, while/break over the heap)",
		prog, "FindValue", boogiex.NewDeterministicChooser(boogiex.DefaultGenerator{}), boogiex.Top)
}
