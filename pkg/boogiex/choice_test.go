package boogiex

import "testing"

func TestChoiceRecorderFirstPassTakesDefaults(t *testing.T) {
	r := NewChoiceRecorder(nil)
	if got := r.choose(3); got != 0 {
		t.Errorf("choose(3) = %d, want 0 on first pass", got)
	}
	if got := r.choose(2); got != 0 {
		t.Errorf("choose(2) = %d, want 0 on first pass", got)
	}
	if got := r.Path(); len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Errorf("Path() = %v, want [0 0]", got)
	}
}

func TestChoiceRecorderReplaysPrefixAndDefaultsPastIt(t *testing.T) {
	r := NewChoiceRecorder([]int{2, 1})
	if got := r.choose(4); got != 2 {
		t.Errorf("choose(4) = %d, want replayed 2", got)
	}
	if got := r.choose(3); got != 1 {
		t.Errorf("choose(3) = %d, want replayed 1", got)
	}
	if got := r.choose(5); got != 0 {
		t.Errorf("choose(5) = %d, want default 0 past the replay prefix", got)
	}
}

func TestChoiceRecorderIgnoresOutOfRangeReplayValue(t *testing.T) {
	r := NewChoiceRecorder([]int{5})
	if got := r.choose(2); got != 0 {
		t.Errorf("choose(2) = %d, want 0 when replay value 5 is out of range", got)
	}
}

func TestChoiceRecorderNextPathsIncrementsRightmostFirst(t *testing.T) {
	r := NewChoiceRecorder(nil)
	r.choose(2) // first choice: 2 candidates, takes 0
	r.choose(3) // second choice: 3 candidates, takes 0

	next := r.NextPaths()
	want := [][]int{{0, 1}, {1}}
	if len(next) != len(want) {
		t.Fatalf("NextPaths() = %v, want %v", next, want)
	}
	for i := range want {
		if len(next[i]) != len(want[i]) {
			t.Fatalf("NextPaths()[%d] = %v, want %v", i, next[i], want[i])
		}
		for j := range want[i] {
			if next[i][j] != want[i][j] {
				t.Fatalf("NextPaths()[%d] = %v, want %v", i, next[i], want[i])
			}
		}
	}
}

func TestChoiceRecorderNextPathsExhausted(t *testing.T) {
	r := NewChoiceRecorder(nil)
	r.choose(1) // only one candidate: no sibling to explore
	if next := r.NextPaths(); len(next) != 0 {
		t.Errorf("NextPaths() = %v, want none when every choice is exhausted", next)
	}
}

// TestChoiceRecorderWorklistExploresEveryLeaf drives a miniature worklist
// the way ExecuteProgramGeneric does, over a binary-then-ternary choice
// tree, and checks that every one of the 2*3 leaves is visited exactly
// once.
func TestChoiceRecorderWorklistExploresEveryLeaf(t *testing.T) {
	seen := map[[2]int]bool{}
	worklist := [][]int{nil}
	for len(worklist) > 0 {
		path := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		r := NewChoiceRecorder(path)
		a := r.choose(2)
		b := r.choose(3)
		seen[[2]int{a, b}] = true

		worklist = append(worklist, r.NextPaths()...)
	}
	if len(seen) != 6 {
		t.Errorf("visited %d distinct leaves, want 6", len(seen))
	}
}
