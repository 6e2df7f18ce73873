package boogiex

// StmtKind discriminates the variants of a structured Stmt node, the
// flattener's input grammar (§4.1). After flatten() runs, only the
// "basic" kinds (SAssert, SAssume, SHavoc, SAssign, SCall) appear as
// non-terminal statements inside a BasicBlock; SGoto/SReturn appear
// only as a block's Terminator (basicblocks.go).
type StmtKind int

const (
	SLabel  StmtKind = iota // L: s
	SGoto                   // goto L1, ..., Ln
	SBreak                  // break [name]
	SReturn                 // return
	SIf                     // if (cond) then {...} else {...}
	SWhile                  // while (cond) invariant ...; {...}
	SAssert                 // assert e
	SAssume                 // assume e
	SHavoc                  // havoc x1, ..., xn
	SAssign                 // lhs1, ..., lhsn := rhs1, ..., rhsn
	SCall                   // lhs1, ... := p(args)
)

func (k StmtKind) String() string {
	names := [...]string{"label", "goto", "break", "return", "if", "while",
		"assert", "assume", "havoc", "assign", "call"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown-stmt-kind"
}

// LValue is an assignment target: a simple name, or a name with a
// chain of index-argument lists for the nested-map-update sugar
// `a[i][j] := v`, which the statement evaluator rewrites to nested
// MapUpdate expressions (§4.3, "assign").
type LValue struct {
	Name    string
	MapArgs [][]*Expr
}

// Stmt is the tagged AST node for structured Boogie statements.
type Stmt struct {
	Kind StmtKind
	Pos  Position

	// SLabel
	Label string
	Inner *Stmt

	// SGoto
	Targets []string

	// SBreak: Label is the target name, or "" for the innermost loop.

	// SIf / SWhile. Cond == nil means a wildcard "*" guard.
	Cond *Expr
	Then []*Stmt
	Else []*Stmt

	// SWhile
	Invariants []*Expr
	Body       []*Stmt

	// SAssert / SAssume
	Expr *Expr

	// SHavoc
	Vars []string

	// SAssign
	Lhs []LValue
	Rhs []*Expr

	// SCall
	CallLhs  []string
	CallProc string
	CallArgs []*Expr
}

// LabelStmt wraps s with a user label.
func LabelStmt(pos Position, name string, s *Stmt) *Stmt {
	return &Stmt{Kind: SLabel, Pos: pos, Label: name, Inner: s}
}

// GotoStmt constructs an explicit (already-flat) goto.
func GotoStmt(pos Position, targets ...string) *Stmt {
	return &Stmt{Kind: SGoto, Pos: pos, Targets: targets}
}

// BreakStmt constructs a break, name == "" for the innermost loop.
func BreakStmt(pos Position, name string) *Stmt {
	return &Stmt{Kind: SBreak, Pos: pos, Label: name}
}

// ReturnStmt constructs a structured return.
func ReturnStmt(pos Position) *Stmt { return &Stmt{Kind: SReturn, Pos: pos} }

// IfStmt constructs a structured if/then/else. els may be nil.
func IfStmt(pos Position, cond *Expr, then, els []*Stmt) *Stmt {
	return &Stmt{Kind: SIf, Pos: pos, Cond: cond, Then: then, Else: els}
}

// WhileStmt constructs a structured while loop.
func WhileStmt(pos Position, cond *Expr, invs []*Expr, body []*Stmt) *Stmt {
	return &Stmt{Kind: SWhile, Pos: pos, Cond: cond, Invariants: invs, Body: body}
}

// AssertStmt constructs an assert statement.
func AssertStmt(pos Position, e *Expr) *Stmt { return &Stmt{Kind: SAssert, Pos: pos, Expr: e} }

// AssumeStmt constructs an assume statement.
func AssumeStmt(pos Position, e *Expr) *Stmt { return &Stmt{Kind: SAssume, Pos: pos, Expr: e} }

// HavocStmt constructs a havoc statement.
func HavocStmt(pos Position, vars ...string) *Stmt { return &Stmt{Kind: SHavoc, Pos: pos, Vars: vars} }

// AssignStmt constructs a (possibly multi-) assignment.
func AssignStmt(pos Position, lhs []LValue, rhs []*Expr) *Stmt {
	return &Stmt{Kind: SAssign, Pos: pos, Lhs: lhs, Rhs: rhs}
}

// CallStmt constructs a procedure call statement.
func CallStmt(pos Position, lhs []string, proc string, args []*Expr) *Stmt {
	return &Stmt{Kind: SCall, Pos: pos, CallLhs: lhs, CallProc: proc, CallArgs: args}
}
