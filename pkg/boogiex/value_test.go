package boogiex

import "testing"

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", IntVal(5), IntVal(5), true},
		{"different ints", IntVal(5), IntVal(6), false},
		{"equal bools", BoolVal(true), BoolVal(true), true},
		{"different bools", BoolVal(true), BoolVal(false), false},
		{"different kinds never equal", IntVal(0), BoolVal(false), false},
		{"equal custom tags", CustomVal("Color", 2), CustomVal("Color", 2), true},
		{"different custom type names", CustomVal("Color", 2), CustomVal("Shape", 2), false},
		{"same ref value", RefVal(Ref(3)), RefVal(Ref(3)), true},
		{"different ref value is not equal (identity only)", RefVal(Ref(3)), RefVal(Ref(4)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", IntVal(42), "42"},
		{"bool true", BoolVal(true), "true"},
		{"custom", CustomVal("Color", 1), "Color!1"},
		{"ref", RefVal(Ref(7)), "map#7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
