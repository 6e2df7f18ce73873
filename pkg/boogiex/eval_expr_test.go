package boogiex

import (
	"context"
	"testing"

	"pgregory.net/rapid"
)

func TestEuclidDivModTableCases(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int64
		wantQ   int64
		wantR   int64
	}{
		{"both positive", 7, 2, 3, 1},
		{"negative dividend", -7, 2, -4, 1},
		{"negative divisor", 7, -2, -3, 1},
		{"both negative", -7, -2, 4, 1},
		{"exact division", 10, 5, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, r := euclidDivMod(tt.a, tt.b)
			if q != tt.wantQ || r != tt.wantR {
				t.Errorf("euclidDivMod(%d, %d) = (%d, %d), want (%d, %d)", tt.a, tt.b, q, r, tt.wantQ, tt.wantR)
			}
		})
	}
}

// TestEuclidDivModProperty is a property test for Testable Property 4:
// the remainder is always non-negative regardless of operand signs, and
// q*b + r always reconstructs a.
func TestEuclidDivModProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(-1000, 1000).Draw(t, "a")
		b := rapid.Int64Range(-1000, 1000).Filter(func(v int64) bool { return v != 0 }).Draw(t, "b")

		q, r := euclidDivMod(a, b)
		if r < 0 {
			t.Fatalf("euclidDivMod(%d, %d) remainder %d is negative", a, b, r)
		}
		absB := b
		if absB < 0 {
			absB = -absB
		}
		if r >= absB {
			t.Fatalf("euclidDivMod(%d, %d) remainder %d is not less than |b|=%d", a, b, r, absB)
		}
		if q*b+r != a {
			t.Fatalf("euclidDivMod(%d, %d) = (%d, %d) doesn't reconstruct: %d*%d+%d = %d", a, b, q, r, q, b, r, q*b+r)
		}
	})
}

func TestValuesEqualNonMapKinds(t *testing.T) {
	ev := &Evaluator{}
	mem := NewMemory(nil)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", IntVal(3), IntVal(3), true},
		{"different ints", IntVal(3), IntVal(4), false},
		{"equal bools", BoolVal(true), BoolVal(true), true},
		{"equal custom", CustomVal("C", 1), CustomVal("C", 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.valuesEqual(context.Background(), mem, tt.a, tt.b)
			if err != nil {
				t.Fatalf("valuesEqual: %v", err)
			}
			if got != tt.want {
				t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
