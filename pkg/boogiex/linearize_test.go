package boogiex

import "testing"

func TestLinearizeSimpleShapes(t *testing.T) {
	tests := []struct {
		name string
		e    *Expr
		env  map[string]Interval
		want LinearForm
	}{
		{"bare variable", qvar("x"), nil, LinearForm{A: Point(1), B: Point(0)}},
		{"literal", qlit(7), nil, LinearForm{A: Point(0), B: Point(7)}},
		{"negated variable", UnaryExpr(noPos, OpNeg, qvar("x")), nil, LinearForm{A: Point(-1), B: Point(0)}},
		{"x plus literal", BinaryExpr(noPos, OpAdd, qvar("x"), qlit(3)), nil, LinearForm{A: Point(1), B: Point(3)}},
		{"literal minus x", BinaryExpr(noPos, OpSub, qlit(10), qvar("x")), nil, LinearForm{A: Point(-1), B: Point(10)}},
		{"scaled variable", BinaryExpr(noPos, OpMul, qlit(4), qvar("x")), nil, LinearForm{A: Point(4), B: Point(0)}},
		{"other variable resolved via env", qvar("n"), map[string]Interval{"n": Range(2, 2)}, LinearForm{A: Point(0), B: Range(2, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := linearize(tt.e, "x", tt.env)
			if err != nil {
				t.Fatalf("linearize: %v", err)
			}
			if !got.A.Equal(tt.want.A) || !got.B.Equal(tt.want.B) {
				t.Errorf("linearize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLinearizeUnresolvedVariableIsNotLinear(t *testing.T) {
	_, err := linearize(qvar("n"), "x", nil)
	if err == nil {
		t.Fatal("expected errNotLinear for a free variable with no env entry")
	}
}

func TestLinearizeProductOfTwoVariablesIsNotLinear(t *testing.T) {
	e := BinaryExpr(noPos, OpMul, qvar("x"), qvar("x"))
	_, err := linearize(e, "x", nil)
	if err == nil {
		t.Fatal("expected errNotLinear for x * x")
	}
}

func TestSolveLEPositiveCoefficient(t *testing.T) {
	// x - 5 <= 0  =>  x <= 5
	lf := LinearForm{A: Point(1), B: Point(-5)}
	got := solveLE(lf)
	want := Interval{Lo: NegInf, Hi: 5}
	if !got.Equal(want) {
		t.Errorf("solveLE(%+v) = %v, want %v", lf, got, want)
	}
}

func TestSolveLENegativeCoefficient(t *testing.T) {
	// -x + 5 <= 0  =>  x >= 5
	lf := LinearForm{A: Point(-1), B: Point(5)}
	got := solveLE(lf)
	want := Interval{Lo: 5, Hi: PosInf}
	if !got.Equal(want) {
		t.Errorf("solveLE(%+v) = %v, want %v", lf, got, want)
	}
}

func TestSolveLEZeroCoefficientIsTop(t *testing.T) {
	lf := LinearForm{A: Point(0), B: Range(-1, 1)}
	if got := solveLE(lf); !got.IsTop() {
		t.Errorf("solveLE with a zero coefficient = %v, want Top", got)
	}
}

func TestSolveLEStraddlingSignIsTop(t *testing.T) {
	lf := LinearForm{A: Range(-1, 1), B: Point(0)}
	if got := solveLE(lf); !got.IsTop() {
		t.Errorf("solveLE with a sign-straddling coefficient = %v, want Top", got)
	}
}

func TestFloorDivCeilDiv(t *testing.T) {
	tests := []struct {
		name      string
		n, d      int64
		wantFloor int64
		wantCeil  int64
	}{
		{"exact division", 10, 5, 2, 2},
		{"positive rounds down for floor", 7, 2, 3, 4},
		{"negative numerator rounds toward -inf for floor", -7, 2, -4, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := floorDiv(tt.n, tt.d); got != tt.wantFloor {
				t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.wantFloor)
			}
			if got := ceilDiv(tt.n, tt.d); got != tt.wantCeil {
				t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.wantCeil)
			}
		})
	}
}
