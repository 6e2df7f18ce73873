package boogiex

import (
	"context"
	"testing"
)

func TestDeterministicChooserYieldsSingleCandidate(t *testing.T) {
	ctx := context.Background()
	c := NewDeterministicChooser(DefaultGenerator{})

	bools, err := c.ChooseBool(ctx)
	if err != nil || len(bools) != 1 || bools[0] != false {
		t.Errorf("ChooseBool = (%v, %v), want ([false], nil)", bools, err)
	}

	idx, err := c.ChooseIndex(ctx, 5)
	if err != nil || len(idx) != 1 || idx[0] != 0 {
		t.Errorf("ChooseIndex(5) = (%v, %v), want ([0], nil)", idx, err)
	}

	if idx, err := c.ChooseIndex(ctx, 0); err != nil || len(idx) != 0 {
		t.Errorf("ChooseIndex(0) = (%v, %v), want (nil, nil)", idx, err)
	}
}

func TestDeterministicChooserIntClampsToDomain(t *testing.T) {
	ctx := context.Background()
	c := NewDeterministicChooser(DefaultGenerator{})

	dom := Range(5, 10)
	vals, err := c.ChooseInt(ctx, &dom)
	if err != nil {
		t.Fatalf("ChooseInt: %v", err)
	}
	if len(vals) != 1 || vals[0] != 5 {
		t.Errorf("ChooseInt = %v, want [5] (default draw 0 clamped into [5, 10])", vals)
	}

	vals, err = c.ChooseInt(ctx, nil)
	if err != nil || len(vals) != 1 || vals[0] != 0 {
		t.Errorf("ChooseInt(nil) = (%v, %v), want ([0], nil)", vals, err)
	}
}

func TestEnumeratingChooserYieldsAllCandidates(t *testing.T) {
	ctx := context.Background()
	c := NewEnumeratingChooser(DefaultGenerator{})

	bools, err := c.ChooseBool(ctx)
	if err != nil || len(bools) != 2 {
		t.Fatalf("ChooseBool = (%v, %v), want both values", bools, err)
	}

	idx, err := c.ChooseIndex(ctx, 3)
	if err != nil || len(idx) != 3 || idx[0] != 0 || idx[2] != 2 {
		t.Errorf("ChooseIndex(3) = (%v, %v), want [0 1 2]", idx, err)
	}
}

func TestEnumeratingChooserIntUsesBoundedDomain(t *testing.T) {
	ctx := context.Background()
	c := NewEnumeratingChooser(DefaultGenerator{})

	dom := Range(3, 5)
	vals, err := c.ChooseInt(ctx, &dom)
	if err != nil {
		t.Fatalf("ChooseInt: %v", err)
	}
	want := []int64{3, 4, 5}
	if len(vals) != len(want) {
		t.Fatalf("ChooseInt = %v, want %v", vals, want)
	}
	for i, w := range want {
		if vals[i] != w {
			t.Errorf("ChooseInt[%d] = %d, want %d", i, vals[i], w)
		}
	}
}

func TestEnumeratingChooserIntFallsBackToGeneratorWhenUnbounded(t *testing.T) {
	ctx := context.Background()
	c := NewEnumeratingChooser(DefaultGenerator{})
	vals, err := c.ChooseInt(ctx, nil)
	if err != nil || len(vals) != 1 || vals[0] != 0 {
		t.Errorf("ChooseInt(nil) = (%v, %v), want ([0], nil) from the default generator", vals, err)
	}
}
