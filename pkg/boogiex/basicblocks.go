package boogiex

import "fmt"

// TermKind discriminates a BasicBlock's terminator.
type TermKind int

const (
	TGoto TermKind = iota
	TReturn
)

// Terminator is the single statement that must end every basic block:
// exactly one of `goto [labels]` or `return` (§4.1).
type Terminator struct {
	Kind   TermKind
	Pos    Position
	Labels []string // TGoto only
}

// BasicBlock is a non-empty, linear sequence of non-control statements
// terminated by a Terminator, entered by a unique Label (§4.1).
type BasicBlock struct {
	Label string
	Stmts []*Stmt
	Term  Terminator
}

// BlockMap is the flattener's output: every block keyed by its label.
type BlockMap map[string]*BasicBlock

// flattener threads a monotonically increasing fresh-label counter and
// a map from user (and implicit "innermost") break targets to their
// exit label, as described in §4.1.
type flattener struct {
	blocks  BlockMap
	order   []string
	counter int
	cur     *BasicBlock // block currently being appended to
}

// fresh returns a new unique label with the given prefix.
func (f *flattener) fresh(prefix string) string {
	f.counter++
	return fmt.Sprintf("%s$%d", prefix, f.counter)
}

// openBlock starts (and registers) a new current block.
func (f *flattener) openBlock(label string) {
	b := &BasicBlock{Label: label}
	f.blocks[label] = b
	f.order = append(f.order, label)
	f.cur = b
}

// terminate closes the current block with t and clears cur; the caller
// must openBlock again before appending further statements.
func (f *flattener) terminate(t Terminator) {
	f.cur.Term = t
	f.cur = nil
}

// appendBasic appends a non-control statement to the current block.
func (f *flattener) appendBasic(s *Stmt) {
	f.cur.Stmts = append(f.cur.Stmts, s)
}

// breakTargets maps a user label (or "" for the anonymous/innermost
// target) to the label a `break` inside its scope should jump to.
type breakTargets map[string]string

// Flatten lowers a structured procedure body into labeled basic
// blocks, per §4.1. The returned BlockMap's "start" entry is always
// present and is where execution begins; order lists blocks in the
// sequence they were emitted (block map iteration order is otherwise
// unspecified in Go).
func Flatten(body []*Stmt) (order []string, blocks BlockMap, err error) {
	f := &flattener{blocks: BlockMap{}}
	f.openBlock("start")
	if err := f.flattenSeq(body, breakTargets{}); err != nil {
		return nil, nil, err
	}
	// Implicit return at the end of every procedure body.
	if f.cur != nil {
		f.terminate(Terminator{Kind: TReturn, Pos: NoPosition})
	}
	return f.order, f.blocks, nil
}

func (f *flattener) flattenSeq(stmts []*Stmt, bt breakTargets) error {
	for _, s := range stmts {
		if f.cur == nil {
			// Defensive only: goto/break/return each open a fresh
			// unreachable block, so cur is not nil after them and the
			// statements that follow a jump are flattened into that
			// block.
			return nil
		}
		if err := f.flattenOne(s, bt); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) flattenOne(s *Stmt, bt breakTargets) error {
	switch s.Kind {
	case SLabel:
		// L: s  =>  goto L; L: <inner>; goto Ld; Ld:
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{s.Label}})
		f.openBlock(s.Label)
		done := f.fresh(s.Label + "$done")
		inner := bt
		inner = inner.with(s.Label, done)
		if err := f.flattenOne(s.Inner, inner); err != nil {
			return err
		}
		if f.cur != nil {
			f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{done}})
		}
		f.openBlock(done)
		return nil

	case SGoto:
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: s.Targets})
		f.openBlock(f.fresh("unreachable"))
		return nil

	case SBreak:
		target, ok := bt.lookup(s.Label)
		if !ok {
			if s.Label == "" {
				return fmt.Errorf("boogiex: break outside any loop at %s", s.Pos)
			}
			return fmt.Errorf("boogiex: break to undefined label %q at %s", s.Label, s.Pos)
		}
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{target}})
		f.openBlock(f.fresh("unreachable"))
		return nil

	case SReturn:
		f.terminate(Terminator{Kind: TReturn, Pos: s.Pos})
		f.openBlock(f.fresh("unreachable"))
		return nil

	case SIf:
		return f.flattenIf(s, bt)

	case SWhile:
		return f.flattenWhile(s, bt)

	case SAssert, SAssume, SHavoc, SAssign, SCall:
		f.appendBasic(s)
		return nil

	default:
		return fmt.Errorf("boogiex: unhandled statement kind %v at %s", s.Kind, s.Pos)
	}
}

func (f *flattener) flattenIf(s *Stmt, bt breakTargets) error {
	lThen := f.fresh("then")
	lElse := f.fresh("else")
	lDone := f.fresh("endif")

	f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lThen, lElse}})

	f.openBlock(lThen)
	if s.Cond != nil {
		f.appendBasic(AssumeStmt(s.Pos, s.Cond))
	}
	if err := f.flattenSeq(s.Then, bt); err != nil {
		return err
	}
	if f.cur != nil {
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lDone}})
	}

	f.openBlock(lElse)
	if s.Cond != nil {
		f.appendBasic(AssumeStmt(s.Pos, negate(s.Cond)))
	}
	if err := f.flattenSeq(s.Else, bt); err != nil {
		return err
	}
	if f.cur != nil {
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lDone}})
	}

	f.openBlock(lDone)
	return nil
}

func (f *flattener) flattenWhile(s *Stmt, bt breakTargets) error {
	lHead := f.fresh("head")
	lBody := f.fresh("body")
	lDone := f.fresh("endwhile")

	f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lHead}})

	f.openBlock(lHead)
	for _, inv := range s.Invariants {
		f.appendBasic(AssertStmt(s.Pos, inv))
		f.appendBasic(AssumeStmt(s.Pos, inv))
	}

	if s.Cond == nil {
		// Wildcard guard: the head branches directly to the body or
		// to lDone, with no assume on either edge (§4.1).
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lBody, lDone}})
	} else {
		lGuardedDone := f.fresh("endwhile$guarded")
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lBody, lGuardedDone}})
		f.openBlock(lBody)
		f.appendBasic(AssumeStmt(s.Pos, s.Cond))
		inner := bt.with("", lDone)
		if err := f.flattenSeq(s.Body, inner); err != nil {
			return err
		}
		if f.cur != nil {
			f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lHead}})
		}

		f.openBlock(lGuardedDone)
		f.appendBasic(AssumeStmt(s.Pos, negate(s.Cond)))
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lDone}})

		f.openBlock(lDone)
		return nil
	}

	f.openBlock(lBody)
	inner := bt.with("", lDone)
	if err := f.flattenSeq(s.Body, inner); err != nil {
		return err
	}
	if f.cur != nil {
		f.terminate(Terminator{Kind: TGoto, Pos: s.Pos, Labels: []string{lHead}})
	}

	f.openBlock(lDone)
	return nil
}

// with returns a new breakTargets extending bt with name -> target.
// name == "" binds the anonymous/innermost target.
func (bt breakTargets) with(name, target string) breakTargets {
	n := make(breakTargets, len(bt)+1)
	for k, v := range bt {
		n[k] = v
	}
	n[name] = target
	return n
}

func (bt breakTargets) lookup(name string) (string, bool) {
	t, ok := bt[name]
	return t, ok
}
